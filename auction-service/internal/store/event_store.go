/**
 * @description
 * This file implements the append-only domain event log on top of MongoDB. Each
 * event document is keyed by the event's own id and carries a kind discriminator
 * for polymorphic read-back. There is no update or delete path: the log only
 * grows, and retention is somebody else's problem.
 *
 * A failed append surfaces ErrStorageUnavailable so the caller can decide whether
 * to proceed with publishing; the event log and the broker are independent side
 * effects of the same business action.
 *
 * @dependencies
 * - go.mongodb.org/mongo-driver/v2: The MongoDB driver.
 * - The service's internal domain package for the event types.
 */
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/PetterZiden/Auctioneer-sub001/auction-service/internal/domain"
)

// ErrStorageUnavailable marks a failed domain event write. Callers log it and
// carry on with the publish; they do not roll anything back.
var ErrStorageUnavailable = errors.New("domain event storage unavailable")

// ErrEventNotFound marks a read-back miss.
var ErrEventNotFound = errors.New("domain event not found")

const eventCollection = "domain_events"

// EventStore appends domain events to the document store.
type EventStore struct {
	events *mongo.Collection
}

// NewEventStore creates an EventStore over the given database.
func NewEventStore(db *mongo.Database) *EventStore {
	return &EventStore{events: db.Collection(eventCollection)}
}

// Append persists one domain event. The event must carry its own id; duplicate
// ids are rejected by the unique _id index, which makes a retried append safe.
func (s *EventStore) Append(ctx context.Context, event any) error {
	if _, err := s.events.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Same event appended twice; the first write already holds.
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// FindByID reads one event back, decoding it into its concrete type based on the
// kind discriminator.
func (s *EventStore) FindByID(ctx context.Context, id string) (any, error) {
	var raw bson.Raw
	err := s.events.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	kind, err := raw.LookupErr("kind")
	if err != nil {
		return nil, fmt.Errorf("event %s has no kind discriminator", id)
	}

	switch domain.EventKind(kind.StringValue()) {
	case domain.EventKindMemberCreated:
		var ev domain.MemberCreatedEvent
		if err := bson.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decoding member created event %s: %w", id, err)
		}
		return ev, nil
	case domain.EventKindMemberRated:
		var ev domain.MemberRatedEvent
		if err := bson.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decoding member rated event %s: %w", id, err)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q for event %s", kind.StringValue(), id)
	}
}
