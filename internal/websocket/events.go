package websocket

import (
	"log"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastTimezoneChanged tells clients to drop every cached week and use
// current instead.
func (b *EventBroadcaster) BroadcastTimezoneChanged(timezone string, current WeekPayload) {
	b.broadcast(NewMessage(TypeTimezoneChanged, TimezoneChangedPayload{
		Timezone:    timezone,
		CurrentWeek: current,
	}))
}

// BroadcastWeekRolledOver announces that the current week has changed.
func (b *EventBroadcaster) BroadcastWeekRolledOver(previous string, current WeekPayload) {
	b.broadcast(NewMessage(TypeWeekRolledOver, WeekRolledOverPayload{
		PreviousWeekKey: previous,
		CurrentWeek:     current,
	}))
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	b.broadcast(NewMessage(TypeNotification, NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: true,
	}))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Error encoding WebSocket message: %v", err)
		return
	}

	b.hub.Broadcast(data)
}
