package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeTimezoneChanged MessageType = "settings.timezone_changed"
	TypeWeekRolledOver  MessageType = "week.rolled_over"
	TypeNotification    MessageType = "notification"

	// Client -> Server command types
	TypePing        MessageType = "ping"
	TypeCurrentWeek MessageType = "week.current"

	// Server -> Client response types
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload,omitempty"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// Command is a message sent by a client.
type Command struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ParseCommand decodes a client message.
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	err := json.Unmarshal(data, &cmd)
	return cmd, err
}

// WeekPayload describes a week as every client should display it.
type WeekPayload struct {
	WeekKey  string `json:"week_key"`
	Display  string `json:"display"`
	Timezone string `json:"timezone"`
}

// TimezoneChangedPayload is the payload for settings.timezone_changed events.
type TimezoneChangedPayload struct {
	Timezone    string      `json:"timezone"`
	CurrentWeek WeekPayload `json:"current_week"`
}

// WeekRolledOverPayload is the payload for week.rolled_over events.
type WeekRolledOverPayload struct {
	PreviousWeekKey string      `json:"previous_week_key"`
	CurrentWeek     WeekPayload `json:"current_week"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level       string `json:"level"` // info, warning, error, success
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	OriginalType string `json:"original_type,omitempty"`
}
