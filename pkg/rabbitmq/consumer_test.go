package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// fakeAcknowledger records the acknowledgment decision the consumer makes for a
// delivery.
type fakeAcknowledger struct {
	acks    int
	nacks   int
	rejects int
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acks++
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.rejects++
	f.requeue = requeue
	return nil
}

func newTestConsumer() *Consumer {
	return &Consumer{
		log:       zap.NewNop().Sugar(),
		stopGrace: defaultStopGrace,
		closed:    make(chan *amqp091.Error, 1),
	}
}

// fakeChannel records the shutdown calls Stop makes on a binding's channel.
type fakeChannel struct {
	mu      sync.Mutex
	cancels int
	closes  int
}

func (f *fakeChannel) Cancel(tag string, noWait bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeChannel) counts() (cancels, closes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancels, f.closes
}

func delivery(ack amqp091.Acknowledger, body string) amqp091.Delivery {
	return amqp091.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestHandleDeliveryAcksOnSuccess(t *testing.T) {
	c := newTestConsumer()
	ack := &fakeAcknowledger{}
	var handled int

	c.handleDelivery(context.Background(), delivery(ack, `{}`), func(ctx context.Context, body []byte) error {
		handled++
		return nil
	})

	if handled != 1 {
		t.Fatalf("expected handler to run once, ran %d times", handled)
	}
	if ack.acks != 1 || ack.nacks != 0 || ack.rejects != 0 {
		t.Fatalf("expected exactly one ack, got %+v", ack)
	}
}

func TestHandleDeliveryRejectsMalformedWithoutRequeue(t *testing.T) {
	c := newTestConsumer()
	ack := &fakeAcknowledger{}

	c.handleDelivery(context.Background(), delivery(ack, `not json`), func(ctx context.Context, body []byte) error {
		return fmt.Errorf("%w: bad payload", ErrMalformedMessage)
	})

	if ack.rejects != 1 {
		t.Fatalf("expected one reject, got %+v", ack)
	}
	if ack.requeue {
		t.Fatal("malformed message must not be requeued")
	}
	if ack.acks != 0 || ack.nacks != 0 {
		t.Fatalf("expected no ack or nack, got %+v", ack)
	}
}

func TestHandleDeliveryNacksWithRequeueOnHandlerError(t *testing.T) {
	c := newTestConsumer()
	ack := &fakeAcknowledger{}

	c.handleDelivery(context.Background(), delivery(ack, `{}`), func(ctx context.Context, body []byte) error {
		return errors.New("smtp down")
	})

	if ack.nacks != 1 {
		t.Fatalf("expected one nack, got %+v", ack)
	}
	if !ack.requeue {
		t.Fatal("handler failure must requeue for redelivery")
	}
}

// Simulates the broker redelivering after each failure: a handler that fails N
// times leaves the message eligible for redelivery each time, and after the
// first success it is acked and never redelivered.
func TestAtLeastOnceRedelivery(t *testing.T) {
	c := newTestConsumer()
	const failures = 3

	attempts := 0
	handler := func(ctx context.Context, body []byte) error {
		attempts++
		if attempts <= failures {
			return errors.New("transient failure")
		}
		return nil
	}

	ack := &fakeAcknowledger{}
	for {
		before := ack.nacks
		c.handleDelivery(context.Background(), delivery(ack, `{}`), handler)
		if ack.nacks == before {
			// No nack means the delivery was acked; the broker stops redelivering.
			break
		}
		if !ack.requeue {
			t.Fatal("failed delivery must be requeued")
		}
	}

	if attempts != failures+1 {
		t.Fatalf("expected %d handler invocations, got %d", failures+1, attempts)
	}
	if ack.acks != 1 {
		t.Fatalf("expected exactly one ack after success, got %d", ack.acks)
	}
	if ack.nacks != failures {
		t.Fatalf("expected %d nacks, got %d", failures, ack.nacks)
	}
}

// A delivery channel that dies outside of Stop (the broker connection dropped)
// must surface on Closed so the process can terminate and be restarted.
func TestLostSubscriptionSignalsClosed(t *testing.T) {
	c := newTestConsumer()
	b := &binding{queue: "email-service.place-bid"}

	msgs := make(chan amqp091.Delivery)
	close(msgs)

	c.wg.Add(1)
	c.consumeLoop(b, msgs, func(ctx context.Context, body []byte) error { return nil })

	select {
	case err := <-c.Closed():
		if err == nil {
			t.Fatal("expected a non-nil closure error")
		}
	default:
		t.Fatal("expected a closure signal when the delivery channel dies")
	}
}

func TestStopDoesNotSignalClosed(t *testing.T) {
	c := newTestConsumer()
	c.stopping = true
	b := &binding{queue: "email-service.place-bid"}

	msgs := make(chan amqp091.Delivery)
	close(msgs)

	c.wg.Add(1)
	c.consumeLoop(b, msgs, func(ctx context.Context, body []byte) error { return nil })

	select {
	case err := <-c.Closed():
		t.Fatalf("stop must not look like a lost connection, got %v", err)
	default:
	}
}

func TestStopWaitsForInFlightHandler(t *testing.T) {
	c := newTestConsumer()
	c.stopGrace = time.Second
	ch := &fakeChannel{}
	c.bindings = []*binding{{queue: "q", tag: "t", channel: ch}}

	// Simulate one in-flight handler that finishes well within the grace period.
	c.wg.Add(1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		c.wg.Done()
	}()

	start := time.Now()
	c.Stop()
	if elapsed := time.Since(start); elapsed >= c.stopGrace {
		t.Fatalf("Stop waited the full grace period for a handler that finished: %s", elapsed)
	}

	cancels, closes := ch.counts()
	if cancels != 1 {
		t.Fatalf("expected one cancel, got %d", cancels)
	}
	if closes != 1 {
		t.Fatalf("expected the channel closed, got %d closes", closes)
	}
}

func TestStopClosesChannelsWhenGraceElapses(t *testing.T) {
	c := newTestConsumer()
	c.stopGrace = 30 * time.Millisecond
	ch := &fakeChannel{}
	c.bindings = []*binding{{queue: "q", tag: "t", channel: ch}}

	// A handler that never finishes.
	c.wg.Add(1)
	t.Cleanup(func() { c.wg.Done() })

	start := time.Now()
	c.Stop()
	if elapsed := time.Since(start); elapsed < c.stopGrace {
		t.Fatalf("Stop returned before the grace period elapsed: %s", elapsed)
	}

	cancels, closes := ch.counts()
	if cancels != 1 || closes != 1 {
		t.Fatalf("channel must be canceled and closed regardless, got %d cancels, %d closes", cancels, closes)
	}
}

func TestStartListeningAfterStopFails(t *testing.T) {
	c := newTestConsumer()
	c.Stop()

	err := c.StartListening("q", "k", func(ctx context.Context, body []byte) error { return nil })
	if err == nil {
		t.Fatal("expected an error binding on a stopped consumer")
	}
}
