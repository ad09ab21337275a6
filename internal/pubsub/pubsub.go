// Package pubsub is the in-process event bus account changes are announced on.
package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g., "account.created").
	Topic string
	// UserID identifies the device or user the event concerns.
	UserID string
	// Payload contains the JSON-encoded event body.
	Payload []byte
	// Metadata carries arbitrary key-value pairs, e.g. the request id.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the bus.
type Subscriber interface {
	// Subscribe starts delivering messages of topic to handler in the
	// background. Delivery stops when ctx is cancelled or the bus is closed.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// Bus is both ends of the event bus.
type Bus interface {
	Publisher
	Subscriber
}
