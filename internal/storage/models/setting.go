// Package models contains the persisted records of the application.
package models

import (
	"time"
)

// Setting is one row of the settings key/value table.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingChange is an entry in the settings history.
type SettingChange struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	OldValue  *string   `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value"`
	ChangedAt time.Time `json:"changed_at"`
}

// Setting keys.
const (
	SettingTimezone = "timezone"
)
