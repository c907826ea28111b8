package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPreset is wrapped by errors for unrecognized preset names.
var ErrUnknownPreset = errors.New("unknown date range preset")

// Preset names a parameterless rule for resolving an analytics date range.
type Preset string

const (
	// PresetPriorWeek is the full Monday-Sunday week before the current one.
	PresetPriorWeek Preset = "week"
	// PresetTrailing30 is today minus 30 days through today.
	PresetTrailing30 Preset = "month"
	// PresetTrailing90 is today minus 90 days through today.
	PresetTrailing90 Preset = "90days"
	// PresetCustom carries explicit bounds supplied by the caller.
	PresetCustom Preset = "custom"
)

// ParsePreset resolves a preset name. An empty name means PresetPriorWeek.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PresetPriorWeek, nil
	case PresetPriorWeek, PresetTrailing30, PresetTrailing90, PresetCustom:
		return p, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownPreset, s)
	}
}

// trailingDays returns the look-back length of a trailing preset.
func (p Preset) trailingDays() (int, bool) {
	switch p {
	case PresetTrailing30:
		return 30, true
	case PresetTrailing90:
		return 90, true
	default:
		return 0, false
	}
}
