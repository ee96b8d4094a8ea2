/**
 * @description
 * This file provides the producer half of the messaging pipeline. The producer
 * owns its own connection and channel, declares the durable topic exchange once
 * at construction, and publishes JSON-encoded message bodies under a routing key.
 *
 * Publish is fire-and-forget: it returns once the broker has accepted the
 * message, not once anything downstream has handled it. The producer does not
 * retry a failed publish; retry, if wanted, belongs to the caller.
 *
 * @dependencies
 * - github.com/rabbitmq/amqp091-go: The RabbitMQ client library.
 * - github.com/google/uuid: Message ids attached for manual replay/correlation.
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notification wraps a single message payload on its way to the producer. It has
// exactly one field and no lifecycle of its own: it is created by the write path
// and consumed inside the publish call, so callers never touch broker primitives.
type Notification[T any] struct {
	Payload T
}

// Notify wraps a payload in a Notification.
func Notify[T any](payload T) Notification[T] {
	return Notification[T]{Payload: payload}
}

// Publisher is the interface the write path depends on for publishing.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close()
}

// Producer publishes messages to a durable topic exchange.
type Producer struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	log      *zap.SugaredLogger
}

// NewProducer dials the broker, opens a channel, and declares the exchange.
// A connection failure here is fatal to the caller: the process supervisor is
// responsible for restarts, not an in-process reconnect loop.
func NewProducer(amqpURL, exchange string, log *zap.SugaredLogger) (*Producer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	// Bounded dial timeout so startup does not hang indefinitely.
	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dialing broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %q: %w", exchange, err)
	}

	return &Producer{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

// Publish serializes body as JSON and hands it to the broker under routingKey.
// The returned error is non-fatal to the caller; it is also logged here with the
// routing key so a lost message can be replayed manually.
func (p *Producer) Publish(ctx context.Context, routingKey string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		p.log.Errorw("message marshal failed", "routing_key", routingKey, "error", err)
		return fmt.Errorf("marshaling message for %s: %w", routingKey, err)
	}

	messageID := uuid.NewString()
	err = p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			MessageId:   messageID,
			Timestamp:   time.Now(),
			Body:        jsonBody,
		},
	)
	if err != nil {
		p.log.Errorw("publish failed", "routing_key", routingKey, "message_id", messageID, "error", err)
		return fmt.Errorf("publishing to %s: %w", routingKey, err)
	}
	return nil
}

// PublishNotification unwraps a notification and publishes its payload.
func PublishNotification[T any](ctx context.Context, p Publisher, routingKey string, n Notification[T]) error {
	return p.Publish(ctx, routingKey, n.Payload)
}

// Close gracefully closes the channel and connection.
func (p *Producer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
