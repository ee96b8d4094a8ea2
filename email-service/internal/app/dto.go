package app

import (
	"time"

	"github.com/PetterZiden/Auctioneer-sub001/pkg/contracts"
)

// PlaceBidDto is the email-ready projection of a PlaceBidMessage: bid, auction,
// and member display fields combined for the template.
type PlaceBidDto struct {
	AuctionTitle string
	AuctionOwner string
	OwnerEmail   string
	Bid          string
	BidderName   string
	BidderEmail  string
	PlacedAt     time.Time
	AuctionURL   string
}

// NewPlaceBidDto projects the message into its email DTO.
func NewPlaceBidDto(msg contracts.PlaceBidMessage) PlaceBidDto {
	return PlaceBidDto{
		AuctionTitle: msg.AuctionTitle,
		AuctionOwner: msg.AuctionOwner,
		OwnerEmail:   msg.OwnerEmail,
		Bid:          msg.Bid.StringFixed(2),
		BidderName:   msg.BidderName,
		BidderEmail:  msg.BidderEmail,
		PlacedAt:     msg.TimeStamp,
		AuctionURL:   msg.AuctionURL,
	}
}

// TemplateData returns the template bindings for the place-bid email.
func (d PlaceBidDto) TemplateData() map[string]any {
	return map[string]any{
		"auction_title": d.AuctionTitle,
		"auction_owner": d.AuctionOwner,
		"bid":           d.Bid,
		"bidder_name":   d.BidderName,
		"auction_url":   d.AuctionURL,
	}
}

// CreateAuctionDto is the email-ready projection of a CreateAuctionMessage.
type CreateAuctionDto struct {
	AuctionTitle  string
	AuctionOwner  string
	OwnerEmail    string
	StartingPrice string
	AuctionURL    string
}

// NewCreateAuctionDto projects the message into its email DTO.
func NewCreateAuctionDto(msg contracts.CreateAuctionMessage) CreateAuctionDto {
	return CreateAuctionDto{
		AuctionTitle:  msg.AuctionTitle,
		AuctionOwner:  msg.AuctionOwner,
		OwnerEmail:    msg.OwnerEmail,
		StartingPrice: msg.StartingPrice.StringFixed(2),
		AuctionURL:    msg.AuctionURL,
	}
}

// TemplateData returns the template bindings for the auction-created email.
func (d CreateAuctionDto) TemplateData() map[string]any {
	return map[string]any{
		"auction_title":  d.AuctionTitle,
		"auction_owner":  d.AuctionOwner,
		"starting_price": d.StartingPrice,
		"auction_url":    d.AuctionURL,
	}
}

// CreateMemberDto is the email-ready projection of a CreateMemberMessage.
type CreateMemberDto struct {
	Name  string
	Email string
}

// NewCreateMemberDto projects the message into its email DTO.
func NewCreateMemberDto(msg contracts.CreateMemberMessage) CreateMemberDto {
	return CreateMemberDto{Name: msg.Name, Email: msg.Email}
}

// TemplateData returns the template bindings for the welcome email.
func (d CreateMemberDto) TemplateData() map[string]any {
	return map[string]any{"name": d.Name}
}

// RateMemberDto is the email-ready projection of a RateMemberMessage.
type RateMemberDto struct {
	RatedName   string
	RatedEmail  string
	RatedByName string
	Stars       int
}

// NewRateMemberDto projects the message into its email DTO.
func NewRateMemberDto(msg contracts.RateMemberMessage) RateMemberDto {
	return RateMemberDto{
		RatedName:   msg.RatedName,
		RatedEmail:  msg.RatedEmail,
		RatedByName: msg.RatedByName,
		Stars:       msg.Stars,
	}
}

// TemplateData returns the template bindings for the rating email.
func (d RateMemberDto) TemplateData() map[string]any {
	return map[string]any{
		"rated_name":    d.RatedName,
		"rated_by_name": d.RatedByName,
		"stars":         d.Stars,
	}
}
