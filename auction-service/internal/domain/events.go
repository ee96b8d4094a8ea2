package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind discriminates stored domain events for polymorphic read-back.
type EventKind string

const (
	EventKindMemberCreated EventKind = "MemberCreated"
	EventKindMemberRated   EventKind = "MemberRated"
)

// Event is the base of every domain event: a fact that already occurred. The id
// and timestamp are assigned exactly once, at construction, and never change.
// Events are appended to the event log and never updated or deleted.
type Event struct {
	ID        string    `bson:"_id" json:"id"`
	Kind      EventKind `bson:"kind" json:"kind"`
	CreatedOn time.Time `bson:"created_on" json:"created_on"`
}

func newEvent(kind EventKind) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedOn: time.Now().UTC(),
	}
}

// MemberCreatedEvent records that a member registered.
type MemberCreatedEvent struct {
	Event    `bson:",inline"`
	MemberID string `bson:"member_id" json:"member_id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
}

// NewMemberCreatedEvent builds the event for a freshly registered member.
func NewMemberCreatedEvent(memberID uuid.UUID, name, email string) MemberCreatedEvent {
	return MemberCreatedEvent{
		Event:    newEvent(EventKindMemberCreated),
		MemberID: memberID.String(),
		Name:     name,
		Email:    email,
	}
}

// MemberRatedEvent records that one member rated another.
type MemberRatedEvent struct {
	Event    `bson:",inline"`
	MemberID string `bson:"member_id" json:"member_id"`
	RaterID  string `bson:"rater_id" json:"rater_id"`
	Stars    int    `bson:"stars" json:"stars"`
}

// NewMemberRatedEvent builds the event for a submitted rating.
func NewMemberRatedEvent(memberID, raterID uuid.UUID, stars int) MemberRatedEvent {
	return MemberRatedEvent{
		Event:    newEvent(EventKindMemberRated),
		MemberID: memberID.String(),
		RaterID:  raterID.String(),
		Stars:    stars,
	}
}
