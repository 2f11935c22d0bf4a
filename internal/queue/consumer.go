package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Acknowledger settles one delivery. amqp.Delivery satisfies it.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Consume starts delivering messages from the queue with at most prefetch unacked at a time.
// When ctx is done the consumer is cancelled and the returned channel closes; the broker
// channel stays open so in-flight deliveries can still be acked until Close.
func (c *RabbitClient) Consume(ctx context.Context, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := c.declare(ch); err != nil {
		_ = ch.Close()
		return nil, err
	}
	if prefetch < 1 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(c.queueName, consumer, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}
	go func() {
		<-ctx.Done()
		_ = ch.Cancel(consumer, false)
	}()
	return deliveries, nil
}
