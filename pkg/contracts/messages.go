/**
 * @description
 * This package defines the messaging contracts shared between the auction-service
 * (producer side) and the email-service (consumer side). Each message kind is a
 * closed, fully-populated value object: every field is set at construction and the
 * message is never mutated afterwards. The wire form is JSON with the field names
 * fixed by the struct tags below; a field rename is a breaking change that requires
 * coordinated deployment of both services.
 *
 * @dependencies
 * - github.com/shopspring/decimal: Exact decimal amounts for bids and prices.
 */
package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies a message contract. Every kind maps to exactly one routing key
// and one consumer queue.
type Kind string

const (
	KindPlaceBid      Kind = "PlaceBid"
	KindCreateAuction Kind = "CreateAuction"
	KindCreateMember  Kind = "CreateMember"
	KindRateMember    Kind = "RateMember"
)

// Exchange is the durable topic exchange all auction messages flow through.
const Exchange = "auctioneer"

var routingKeys = map[Kind]string{
	KindPlaceBid:      "auction.bid.placed",
	KindCreateAuction: "auction.created",
	KindCreateMember:  "member.created",
	KindRateMember:    "member.rated",
}

var queueNames = map[Kind]string{
	KindPlaceBid:      "email-service.place-bid",
	KindCreateAuction: "email-service.create-auction",
	KindCreateMember:  "email-service.create-member",
	KindRateMember:    "email-service.rate-member",
}

// Kinds returns every known message kind. Consumers use this to verify at startup
// that each kind has exactly one registered handler.
func Kinds() []Kind {
	return []Kind{KindPlaceBid, KindCreateAuction, KindCreateMember, KindRateMember}
}

// RoutingKey returns the fixed routing key for the kind, or "" for an unknown kind.
func (k Kind) RoutingKey() string {
	return routingKeys[k]
}

// QueueName returns the email-service queue bound to the kind, or "" for an
// unknown kind.
func (k Kind) QueueName() string {
	return queueNames[k]
}

// PlaceBidMessage is published when a member places a bid on an auction. It
// carries the display fields the email-service needs so the worker never has to
// call back into the relational store.
type PlaceBidMessage struct {
	AuctionTitle string          `json:"auction_title"`
	AuctionOwner string          `json:"auction_owner"`
	OwnerEmail   string          `json:"owner_email"`
	Bid          decimal.Decimal `json:"bid"`
	BidderName   string          `json:"bidder_name"`
	BidderEmail  string          `json:"bidder_email"`
	TimeStamp    time.Time       `json:"timestamp"`
	AuctionURL   string          `json:"auction_url"`
}

// CreateAuctionMessage is published when a new auction is listed.
type CreateAuctionMessage struct {
	AuctionTitle  string          `json:"auction_title"`
	AuctionOwner  string          `json:"auction_owner"`
	OwnerEmail    string          `json:"owner_email"`
	StartingPrice decimal.Decimal `json:"starting_price"`
	CreatedAt     time.Time       `json:"created_at"`
	AuctionURL    string          `json:"auction_url"`
}

// CreateMemberMessage is published when a member registers.
type CreateMemberMessage struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// RateMemberMessage is published when one member rates another.
type RateMemberMessage struct {
	RatedName   string    `json:"rated_name"`
	RatedEmail  string    `json:"rated_email"`
	RatedByName string    `json:"rated_by_name"`
	Stars       int       `json:"stars"`
	RatedAt     time.Time `json:"rated_at"`
}
