package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Message is the envelope published for every entity change.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// NoopBroker discards everything; used when no broker is configured.
type NoopBroker struct{}

func NewNoopBroker() *NoopBroker {
	return &NoopBroker{}
}

func (b *NoopBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	return nil
}

func (b *NoopBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, nil
}

func (b *NoopBroker) Close() error {
	return nil
}
