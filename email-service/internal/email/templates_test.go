package email

import (
	"strings"
	"testing"

	"github.com/PetterZiden/Auctioneer-sub001/pkg/contracts"
)

func TestEveryKindHasATemplate(t *testing.T) {
	set, err := NewTemplateSet()
	if err != nil {
		t.Fatalf("NewTemplateSet: %v", err)
	}
	for _, kind := range contracts.Kinds() {
		if _, _, err := set.Render(kind, map[string]any{}); err != nil {
			t.Fatalf("kind %s has no renderable template: %v", kind, err)
		}
	}
}

func TestRenderUnknownKindFails(t *testing.T) {
	set, err := NewTemplateSet()
	if err != nil {
		t.Fatalf("NewTemplateSet: %v", err)
	}
	if _, _, err := set.Render(contracts.Kind("SelfDestruct"), nil); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestRenderPlaceBidBindsFields(t *testing.T) {
	set, err := NewTemplateSet()
	if err != nil {
		t.Fatalf("NewTemplateSet: %v", err)
	}

	subject, body, err := set.Render(contracts.KindPlaceBid, map[string]any{
		"auction_title": "Vintage Watch",
		"auction_owner": "Alice",
		"bid":           "150.00",
		"bidder_name":   "Bob",
		"auction_url":   "https://auctioneer.test/auctions/1",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(subject, "Vintage Watch") {
		t.Fatalf("subject missing auction title: %q", subject)
	}
	for _, want := range []string{"Alice", "Bob", "150.00", "https://auctioneer.test/auctions/1"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q: %q", want, body)
		}
	}
	if strings.Contains(body, "{{") {
		t.Fatalf("body contains unrendered template syntax: %q", body)
	}
}

func TestRenderRateMemberBindsStars(t *testing.T) {
	set, err := NewTemplateSet()
	if err != nil {
		t.Fatalf("NewTemplateSet: %v", err)
	}

	subject, body, err := set.Render(contracts.KindRateMember, map[string]any{
		"rated_name":    "Dave",
		"rated_by_name": "Erin",
		"stars":         4,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(subject, "4 stars") {
		t.Fatalf("subject missing star count: %q", subject)
	}
	if !strings.Contains(body, "Erin") || !strings.Contains(body, "Dave") {
		t.Fatalf("body missing names: %q", body)
	}
}
