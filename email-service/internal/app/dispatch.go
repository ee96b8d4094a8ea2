/**
 * @description
 * This file implements handler dispatch for the email worker: a pure mapping
 * from message kind to handler, built once at startup. A kind without a handler,
 * a handler for an unknown kind, or a double registration is a configuration
 * error caught by Validate before the consumer binds any queue; it is never a
 * per-message runtime error.
 *
 * @dependencies
 * - The shared contracts and rabbitmq packages.
 */
package app

import (
	"fmt"

	"github.com/PetterZiden/Auctioneer-sub001/pkg/contracts"
	"github.com/PetterZiden/Auctioneer-sub001/pkg/rabbitmq"
)

// Registry maps each message kind to exactly one handler.
type Registry struct {
	handlers map[contracts.Kind]rabbitmq.Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[contracts.Kind]rabbitmq.Handler)}
}

// Register binds a handler to a kind. Registering an unknown kind or the same
// kind twice is an error.
func (r *Registry) Register(kind contracts.Kind, handler rabbitmq.Handler) error {
	if kind.RoutingKey() == "" {
		return fmt.Errorf("unknown message kind %q", kind)
	}
	if handler == nil {
		return fmt.Errorf("nil handler for message kind %q", kind)
	}
	if _, exists := r.handlers[kind]; exists {
		return fmt.Errorf("handler already registered for message kind %q", kind)
	}
	r.handlers[kind] = handler
	return nil
}

// Validate checks that every known kind has a handler. Call it after all
// registrations, before starting the consumer.
func (r *Registry) Validate() error {
	for _, kind := range contracts.Kinds() {
		if _, ok := r.handlers[kind]; !ok {
			return fmt.Errorf("no handler registered for message kind %q", kind)
		}
	}
	return nil
}

// Handler returns the handler bound to the kind.
func (r *Registry) Handler(kind contracts.Kind) (rabbitmq.Handler, bool) {
	h, ok := r.handlers[kind]
	return h, ok
}

// Bind subscribes every registered handler on the consumer, one queue per kind.
func (r *Registry) Bind(consumer *rabbitmq.Consumer) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for _, kind := range contracts.Kinds() {
		if err := consumer.StartListening(kind.QueueName(), kind.RoutingKey(), r.handlers[kind]); err != nil {
			return fmt.Errorf("binding %s: %w", kind, err)
		}
	}
	return nil
}
