package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEveryKindHasRoutingKeyAndQueue(t *testing.T) {
	seenKeys := make(map[string]Kind)
	seenQueues := make(map[string]Kind)

	for _, kind := range Kinds() {
		key := kind.RoutingKey()
		if key == "" {
			t.Fatalf("kind %q has no routing key", kind)
		}
		queue := kind.QueueName()
		if queue == "" {
			t.Fatalf("kind %q has no queue name", kind)
		}
		if other, dup := seenKeys[key]; dup {
			t.Fatalf("routing key %q shared by %q and %q", key, kind, other)
		}
		if other, dup := seenQueues[queue]; dup {
			t.Fatalf("queue %q shared by %q and %q", queue, kind, other)
		}
		seenKeys[key] = kind
		seenQueues[queue] = kind
	}
}

func TestUnknownKindHasNoRoutingKey(t *testing.T) {
	if key := Kind("DeleteEverything").RoutingKey(); key != "" {
		t.Fatalf("expected empty routing key for unknown kind, got %q", key)
	}
}

func TestPlaceBidMessageRoundTrip(t *testing.T) {
	placed := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	msg := PlaceBidMessage{
		AuctionTitle: "Vintage Watch",
		AuctionOwner: "Alice",
		OwnerEmail:   "alice@x.com",
		Bid:          decimal.NewFromFloat(150.00),
		BidderName:   "Bob",
		BidderEmail:  "bob@x.com",
		TimeStamp:    placed,
		AuctionURL:   "https://x/auctions/1",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got PlaceBidMessage
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.AuctionTitle != msg.AuctionTitle {
		t.Fatalf("auction title: expected %q, got %q", msg.AuctionTitle, got.AuctionTitle)
	}
	if got.AuctionOwner != msg.AuctionOwner || got.OwnerEmail != msg.OwnerEmail {
		t.Fatalf("owner fields did not survive round trip: %+v", got)
	}
	if !got.Bid.Equal(msg.Bid) {
		t.Fatalf("bid: expected %s, got %s", msg.Bid, got.Bid)
	}
	if got.BidderName != msg.BidderName || got.BidderEmail != msg.BidderEmail {
		t.Fatalf("bidder fields did not survive round trip: %+v", got)
	}
	if !got.TimeStamp.Equal(msg.TimeStamp) {
		t.Fatalf("timestamp: expected %s, got %s", msg.TimeStamp, got.TimeStamp)
	}
	if got.AuctionURL != msg.AuctionURL {
		t.Fatalf("auction url: expected %q, got %q", msg.AuctionURL, got.AuctionURL)
	}
}

func TestCreateAuctionMessageRoundTrip(t *testing.T) {
	msg := CreateAuctionMessage{
		AuctionTitle:  "Old Lamp",
		AuctionOwner:  "Carol",
		OwnerEmail:    "carol@x.com",
		StartingPrice: decimal.RequireFromString("10.50"),
		CreatedAt:     time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		AuctionURL:    "https://x/auctions/2",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got CreateAuctionMessage
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.StartingPrice.Equal(msg.StartingPrice) {
		t.Fatalf("starting price: expected %s, got %s", msg.StartingPrice, got.StartingPrice)
	}
	if got.AuctionTitle != msg.AuctionTitle || got.OwnerEmail != msg.OwnerEmail {
		t.Fatalf("fields did not survive round trip: %+v", got)
	}
}

func TestCreateMemberMessageRoundTrip(t *testing.T) {
	msg := CreateMemberMessage{
		Name:     "Alice",
		Email:    "alice@x.com",
		JoinedAt: time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got CreateMemberMessage
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != msg {
		t.Fatalf("expected %+v, got %+v", msg, got)
	}
}

func TestRateMemberMessageRoundTrip(t *testing.T) {
	msg := RateMemberMessage{
		RatedName:   "Dave",
		RatedEmail:  "dave@x.com",
		RatedByName: "Erin",
		Stars:       4,
		RatedAt:     time.Date(2024, 6, 2, 15, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got RateMemberMessage
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != msg {
		t.Fatalf("expected %+v, got %+v", msg, got)
	}
}
