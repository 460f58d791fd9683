package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of delivery audit event.
type EventType string

const (
	// === Request lifecycle events ===
	EventNotificationReceived EventType = "notification.received"
	EventNotificationRejected EventType = "notification.rejected"

	// === Delivery outcome events ===
	EventDeliverySucceeded EventType = "delivery.succeeded"
	EventDeliveryFailed    EventType = "delivery.failed"
	EventDeliveryPartial   EventType = "delivery.partial"
)

// Event is a single entry in the delivery audit stream. Events are emitted
// and forgotten; this server keeps no notification history of its own.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Kind is the notification kind (contact, modification, order).
	Kind string `json:"kind"`
	// Recipient is the recipient role (admin, user), when applicable.
	Recipient string `json:"recipient,omitempty"`
	// ReceiptID is the transport message ID for successful deliveries.
	ReceiptID string `json:"receiptId,omitempty"`
	// Reason carries the rejection or failure reason, sanitized for export.
	Reason string `json:"reason,omitempty"`
}

// NewEvent creates an audit event stamped with a fresh ID and the current time.
func NewEvent(eventType EventType, kind string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Kind:      kind,
	}
}
