package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a waitlist lifecycle notification
type EventType string

const (
	EventTypeWaitlistJoined   EventType = "WAITLIST_JOINED"
	EventTypePositionUpdated  EventType = "WAITLIST_POSITION_UPDATED"
	EventTypeSlotAvailable    EventType = "WAITLIST_SLOT_AVAILABLE"
	EventTypeSlotConfirmed    EventType = "WAITLIST_SLOT_CONFIRMED"
	EventTypeSlotExpired      EventType = "WAITLIST_SLOT_EXPIRED"
	EventTypeBookingCancelled EventType = "BOOKING_CANCELLED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Event is the wire payload published for downstream delivery workers. The
// engine only produces events; rendering and channel fan-out happen elsewhere.
type Event struct {
	ID          uuid.UUID      `json:"id"`
	Type        EventType      `json:"type"`
	Priority    Priority       `json:"priority"`
	RecipientID uuid.UUID      `json:"recipient_id"`
	Payload     map[string]any `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewEvent creates an event with defaults filled in
func NewEvent(recipientID uuid.UUID, eventType EventType, payload map[string]any) *Event {
	return &Event{
		ID:          uuid.New(),
		Type:        eventType,
		Priority:    defaultPriority(eventType),
		RecipientID: recipientID,
		Payload:     payload,
		CreatedAt:   time.Now(),
	}
}

// defaultPriority ranks events by delivery urgency. Offers are time-boxed, so
// they outrank everything else.
func defaultPriority(eventType EventType) Priority {
	switch eventType {
	case EventTypeSlotAvailable:
		return PriorityHigh
	case EventTypeSlotConfirmed, EventTypeSlotExpired, EventTypeBookingCancelled:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// PartitionKey routes all of a user's events to the same partition so they
// are delivered in order.
func (e *Event) PartitionKey() string {
	return e.RecipientID.String()
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
