package events

import "time"

// Event defines the contract for all order lifecycle events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ORDER_PAID").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	TypeOrderCreated   = "ORDER_CREATED"
	TypeOrderPaid      = "ORDER_PAID"
	TypeOrderCancelled = "ORDER_CANCELLED"
)

// BaseEvent is the generic implementation used across the services.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
