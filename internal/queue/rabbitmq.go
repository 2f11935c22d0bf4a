package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitClient publishes messages to a durable RabbitMQ queue.
type RabbitClient struct {
	conn      *amqp.Connection
	queueName string

	mu       sync.Mutex
	declared bool
}

// DialRabbit connects to the broker at url.
func DialRabbit(url, queueName string) (*RabbitClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is empty")
	}
	if strings.TrimSpace(queueName) == "" {
		return nil, fmt.Errorf("queue name is required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	return &RabbitClient{conn: conn, queueName: queueName}, nil
}

// Send publishes msg as a persistent JSON message.
func (c *RabbitClient) Send(ctx context.Context, msg Message) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := c.declare(ch); err != nil {
		return err
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		c.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         EventAnalysisCompleted,
			MessageId:    msg.AnalysisID,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (c *RabbitClient) declare(ch *amqp.Channel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.declared {
		return nil
	}
	if _, err := ch.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	c.declared = true
	return nil
}

// Healthy reports whether the broker connection is still open.
func (c *RabbitClient) Healthy() bool {
	return c != nil && c.conn != nil && !c.conn.IsClosed()
}

// Close closes the broker connection.
func (c *RabbitClient) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

var _ Client = (*RabbitClient)(nil)
