package queue

import "context"

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// NopClient drops every message. Used when no broker is configured.
type NopClient struct{}

// Send discards msg.
func (NopClient) Send(ctx context.Context, msg Message) error {
	return ctx.Err()
}
