package eventbus

import "context"

// NoopBus is a PubSub that drops every publish and delivers nothing.
// It keeps the gateway runnable without a broker; the analytics
// pipeline is simply inert.
type NoopBus struct{}

// NewNoopBus creates a new no-op PubSub instance.
func NewNoopBus() *NoopBus {
	return &NoopBus{}
}

// Publish drops the event.
func (n *NoopBus) Publish(ctx context.Context, channel string, event *Event) error {
	return nil
}

// Subscribe returns a channel that never delivers and closes when the
// context is cancelled.
func (n *NoopBus) Subscribe(ctx context.Context, channel string) (<-chan *Event, error) {
	eventCh := make(chan *Event)
	go func() {
		<-ctx.Done()
		close(eventCh)
	}()
	return eventCh, nil
}

// Unsubscribe is a no-op.
func (n *NoopBus) Unsubscribe(ctx context.Context, channel string) error {
	return nil
}

// Close is a no-op.
func (n *NoopBus) Close() error {
	return nil
}
