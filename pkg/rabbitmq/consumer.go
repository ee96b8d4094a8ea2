/**
 * @description
 * This file provides the consumer half of the messaging pipeline. One consumer
 * owns one broker connection; each (queue, routing key, handler) binding gets its
 * own channel with prefetch 1 and its own consumption goroutine, so bindings make
 * progress concurrently while messages within a binding are handled strictly one
 * at a time.
 *
 * Acknowledgment protocol:
 *   - handler returns nil            -> Ack
 *   - handler returns ErrMalformedMessage -> Reject without requeue (terminal)
 *   - handler returns any other error     -> Nack with requeue (at-least-once)
 *
 * Because failed handling requeues, handlers must tolerate duplicate delivery.
 *
 * A broker connection lost after startup is not handled here: it surfaces on
 * Closed() so the owning process can terminate and be restarted by its
 * supervisor. Only Stop() shuts the consumer down quietly.
 *
 * @dependencies
 * - github.com/rabbitmq/amqp091-go: The RabbitMQ client library.
 * - go.uber.org/zap: Structured logging with enough context to replay manually.
 */
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrMalformedMessage marks a payload that cannot be deserialized into its
// expected shape. Handlers wrap decode and field-validation failures with it;
// the consumer drops such messages instead of requeueing them.
var ErrMalformedMessage = errors.New("malformed message payload")

// Handler processes one raw message body. See the package comment for how the
// returned error drives acknowledgment.
type Handler func(ctx context.Context, body []byte) error

// defaultStopGrace bounds how long Stop waits for in-flight handlers before the
// connection is closed regardless.
const defaultStopGrace = 30 * time.Second

// consumerChannel is the slice of *amqp091.Channel the shutdown path needs.
type consumerChannel interface {
	Cancel(tag string, noWait bool) error
	Close() error
}

type binding struct {
	queue      string
	routingKey string
	tag        string
	channel    consumerChannel
}

// Consumer subscribes queues to routing keys on a topic exchange and dispatches
// deliveries to their bound handlers.
type Consumer struct {
	conn     *amqp091.Connection
	exchange string
	log      *zap.SugaredLogger

	stopGrace time.Duration
	closed    chan *amqp091.Error

	mu       sync.Mutex
	bindings []*binding
	stopping bool
	wg       sync.WaitGroup
}

// NewConsumer dials the broker. A failure here is fatal to the caller: the
// process fails fast and its supervisor restarts it.
func NewConsumer(amqpURL, exchange string, log *zap.SugaredLogger) (*Consumer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dialing broker: %w", err)
	}

	c := &Consumer{
		conn:      conn,
		exchange:  exchange,
		log:       log,
		stopGrace: defaultStopGrace,
		closed:    make(chan *amqp091.Error, 1),
	}

	// A connection closed by the broker (or the network) delivers an error here;
	// a connection closed by Stop delivers none.
	connClosed := conn.NotifyClose(make(chan *amqp091.Error, 1))
	go func() {
		if err, ok := <-connClosed; ok {
			c.signalClosed(err)
		}
	}()

	return c, nil
}

// Closed signals an unexpected connection or subscription loss. The owning
// process should treat a receive as fatal; a consumer cannot recover a dead
// connection in place.
func (c *Consumer) Closed() <-chan *amqp091.Error {
	return c.closed
}

func (c *Consumer) signalClosed(err *amqp091.Error) {
	select {
	case c.closed <- err:
	default:
	}
}

// StartListening declares queueName, binds it to routingKey on the exchange, and
// begins consuming on a dedicated channel. Declaration is idempotent; binding an
// already-existing queue is safe. Deliveries for this binding are handled one at
// a time; call StartListening once per binding at startup.
func (c *Consumer) StartListening(queueName, routingKey string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("nil handler for queue %q", queueName)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopping {
		return errors.New("consumer is stopped")
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel for %q: %w", queueName, err)
	}

	// Prefetch 1 keeps the broker from pushing a second message while the
	// handler is still working on the first.
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return fmt.Errorf("setting qos for %q: %w", queueName, err)
	}

	if err := ch.ExchangeDeclare(c.exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("declaring exchange %q: %w", c.exchange, err)
	}

	q, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("declaring queue %q: %w", queueName, err)
	}

	if err := ch.QueueBind(q.Name, routingKey, c.exchange, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("binding %q to %q: %w", queueName, routingKey, err)
	}

	tag := "email-worker." + queueName
	msgs, err := ch.Consume(
		q.Name, // queue
		tag,    // consumer tag
		false,  // auto-ack (we acknowledge manually)
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("consuming from %q: %w", queueName, err)
	}

	b := &binding{queue: q.Name, routingKey: routingKey, tag: tag, channel: ch}
	c.bindings = append(c.bindings, b)

	c.wg.Add(1)
	go c.consumeLoop(b, msgs, handler)

	c.log.Infow("listening", "queue", q.Name, "routing_key", routingKey)
	return nil
}

// consumeLoop handles deliveries for one binding until its channel is canceled
// or closed. A delivery channel that dies outside of Stop means the binding is
// gone for good; that is surfaced on Closed.
func (c *Consumer) consumeLoop(b *binding, msgs <-chan amqp091.Delivery, handler Handler) {
	defer c.wg.Done()
	for d := range msgs {
		c.handleDelivery(context.Background(), d, handler)
	}

	c.mu.Lock()
	stopping := c.stopping
	c.mu.Unlock()
	if stopping {
		c.log.Infow("subscription closed", "queue", b.queue)
		return
	}

	c.log.Errorw("subscription lost", "queue", b.queue)
	c.signalClosed(&amqp091.Error{
		Code:   amqp091.ChannelError,
		Reason: "delivery channel closed for queue " + b.queue,
	})
}

// handleDelivery runs the handler for a single delivery and acknowledges it
// according to the outcome.
func (c *Consumer) handleDelivery(ctx context.Context, d amqp091.Delivery, handler Handler) {
	err := handler(ctx, d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			c.log.Errorw("ack failed", "queue", d.RoutingKey, "message_id", d.MessageId, "error", ackErr)
		}
	case errors.Is(err, ErrMalformedMessage):
		// Terminal for this message. The log line carries what is needed to
		// replay it by hand.
		c.log.Errorw("dropping malformed message",
			"routing_key", d.RoutingKey, "message_id", d.MessageId, "error", err)
		if rejErr := d.Reject(false); rejErr != nil {
			c.log.Errorw("reject failed", "message_id", d.MessageId, "error", rejErr)
		}
	default:
		c.log.Warnw("handler failed, requeueing",
			"routing_key", d.RoutingKey, "message_id", d.MessageId, "error", err)
		if nackErr := d.Nack(false, true); nackErr != nil {
			c.log.Errorw("nack failed", "message_id", d.MessageId, "error", nackErr)
		}
	}
}

// Stop cancels every subscription so no new message is picked up, lets in-flight
// handlers finish within the grace period, then closes channels and the
// connection regardless.
func (c *Consumer) Stop() {
	c.mu.Lock()
	if c.stopping {
		c.mu.Unlock()
		return
	}
	c.stopping = true
	bindings := c.bindings
	c.mu.Unlock()

	for _, b := range bindings {
		if err := b.channel.Cancel(b.tag, false); err != nil {
			c.log.Warnw("cancel failed", "queue", b.queue, "error", err)
		}
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(c.stopGrace):
		c.log.Warnw("grace period elapsed with handlers still in flight", "grace", c.stopGrace)
	}

	for _, b := range bindings {
		b.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	c.log.Infow("consumer stopped")
}
