package messaging

import (
	"context"
)

// AuditEventsChannel carries every generated audit event; the websocket
// hub subscribes to it and fans the events out to dashboard clients.
const AuditEventsChannel = "audit_events"

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
