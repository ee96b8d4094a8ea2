// Package domain holds the auction-service entities and domain events.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Member is a marketplace participant. Authentication lives elsewhere; the
// service only needs display fields for messaging.
type Member struct {
	ID       uuid.UUID
	Name     string
	Email    string
	JoinedAt time.Time
}

// Auction is a listed item open for bids.
type Auction struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Title         string
	StartingPrice decimal.Decimal
	CreatedAt     time.Time
}

// AuctionDetail is an auction joined with its owner's display fields, used to
// build outbound messages without a second round trip.
type AuctionDetail struct {
	Auction
	OwnerName  string
	OwnerEmail string
}

// Bid is a single bid on an auction.
type Bid struct {
	ID        uuid.UUID
	AuctionID uuid.UUID
	MemberID  uuid.UUID
	Amount    decimal.Decimal
	PlacedAt  time.Time
}

// Rating is one member rating another, 1 to 5 stars.
type Rating struct {
	ID      uuid.UUID
	RatedID uuid.UUID
	RaterID uuid.UUID
	Stars   int
	RatedAt time.Time
}
