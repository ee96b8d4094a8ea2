package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestEventIdentifiersAreUnique(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)

	memberID := uuid.New()
	for i := 0; i < n; i++ {
		ev := NewMemberCreatedEvent(memberID, "Alice", "alice@x.com")
		if ev.ID == "" {
			t.Fatal("event id must be set at construction")
		}
		if _, dup := seen[ev.ID]; dup {
			t.Fatalf("duplicate event id %s after %d events", ev.ID, i)
		}
		seen[ev.ID] = struct{}{}
	}
}

func TestEventTimestampsAreMonotonicallyNonDecreasing(t *testing.T) {
	memberID := uuid.New()
	raterID := uuid.New()

	prev := NewMemberRatedEvent(memberID, raterID, 5)
	for i := 0; i < 1000; i++ {
		next := NewMemberRatedEvent(memberID, raterID, 5)
		if next.CreatedOn.Before(prev.CreatedOn) {
			t.Fatalf("timestamp went backwards: %s before %s", next.CreatedOn, prev.CreatedOn)
		}
		prev = next
	}
}

func TestEventCarriesKindDiscriminator(t *testing.T) {
	created := NewMemberCreatedEvent(uuid.New(), "Alice", "alice@x.com")
	if created.Kind != EventKindMemberCreated {
		t.Fatalf("expected kind %q, got %q", EventKindMemberCreated, created.Kind)
	}
	if created.CreatedOn.IsZero() {
		t.Fatal("creation timestamp must be set at construction")
	}

	rated := NewMemberRatedEvent(uuid.New(), uuid.New(), 3)
	if rated.Kind != EventKindMemberRated {
		t.Fatalf("expected kind %q, got %q", EventKindMemberRated, rated.Kind)
	}
	if rated.Stars != 3 {
		t.Fatalf("expected 3 stars, got %d", rated.Stars)
	}
}
