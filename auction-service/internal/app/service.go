/**
 * @description
 * This file contains the write-path application logic of the auction-service.
 * Every operation follows the same pattern: persist the relational fact, then
 * perform the two independent side effects of the pipeline: append a domain
 * event to the event log and publish a message to the broker. Neither side
 * effect blocks the other and neither failure rolls back the relational write;
 * both are logged with enough context to replay manually.
 *
 * @dependencies
 * - The shared contracts and rabbitmq packages for message publishing.
 * - The service's internal domain and store packages.
 */
package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PetterZiden/Auctioneer-sub001/auction-service/internal/domain"
	"github.com/PetterZiden/Auctioneer-sub001/auction-service/internal/store"
	"github.com/PetterZiden/Auctioneer-sub001/pkg/contracts"
	"github.com/PetterZiden/Auctioneer-sub001/pkg/rabbitmq"
)

// EventAppender is the slice of the event store the service needs.
type EventAppender interface {
	Append(ctx context.Context, event any) error
}

// Service implements the auction-service write path.
type Service struct {
	members   store.MemberRepository
	auctions  store.AuctionRepository
	events    EventAppender
	publisher rabbitmq.Publisher
	baseURL   string
	log       *zap.SugaredLogger
}

// NewService wires the write path together. baseURL is the public site root used
// to build auction links embedded in outbound emails.
func NewService(
	members store.MemberRepository,
	auctions store.AuctionRepository,
	events EventAppender,
	publisher rabbitmq.Publisher,
	baseURL string,
	log *zap.SugaredLogger,
) *Service {
	return &Service{
		members:   members,
		auctions:  auctions,
		events:    events,
		publisher: publisher,
		baseURL:   baseURL,
		log:       log,
	}
}

// CreateMember registers a member, appends a MemberCreated event, and publishes
// a CreateMember message. The relational insert is the only fatal step.
func (s *Service) CreateMember(ctx context.Context, name, email string) (*domain.Member, error) {
	member := &domain.Member{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.members.CreateMember(ctx, member); err != nil {
		return nil, err
	}

	event := domain.NewMemberCreatedEvent(member.ID, member.Name, member.Email)
	if err := s.events.Append(ctx, event); err != nil {
		// Does not block the publish; the two writes are independent.
		s.log.Errorw("domain event append failed", "event_id", event.ID, "kind", event.Kind, "error", err)
	}

	msg := contracts.CreateMemberMessage{
		Name:     member.Name,
		Email:    member.Email,
		JoinedAt: member.JoinedAt,
	}
	s.publish(ctx, contracts.KindCreateMember, msg)

	return member, nil
}

// RateMember stores a rating, appends a MemberRated event, and publishes a
// RateMember message.
func (s *Service) RateMember(ctx context.Context, memberID, raterID uuid.UUID, stars int) (*domain.Rating, error) {
	rated, err := s.members.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	rater, err := s.members.GetMember(ctx, raterID)
	if err != nil {
		return nil, err
	}

	rating := &domain.Rating{
		ID:      uuid.New(),
		RatedID: rated.ID,
		RaterID: rater.ID,
		Stars:   stars,
		RatedAt: time.Now().UTC(),
	}
	if err := s.members.CreateRating(ctx, rating); err != nil {
		return nil, err
	}

	event := domain.NewMemberRatedEvent(rated.ID, rater.ID, stars)
	if err := s.events.Append(ctx, event); err != nil {
		s.log.Errorw("domain event append failed", "event_id", event.ID, "kind", event.Kind, "error", err)
	}

	msg := contracts.RateMemberMessage{
		RatedName:   rated.Name,
		RatedEmail:  rated.Email,
		RatedByName: rater.Name,
		Stars:       stars,
		RatedAt:     rating.RatedAt,
	}
	s.publish(ctx, contracts.KindRateMember, msg)

	return rating, nil
}

// CreateAuction lists an auction and publishes a CreateAuction message.
func (s *Service) CreateAuction(ctx context.Context, ownerID uuid.UUID, title string, startingPrice decimal.Decimal) (*domain.Auction, error) {
	owner, err := s.members.GetMember(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	auction := &domain.Auction{
		ID:            uuid.New(),
		OwnerID:       owner.ID,
		Title:         title,
		StartingPrice: startingPrice,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.auctions.CreateAuction(ctx, auction); err != nil {
		return nil, err
	}

	msg := contracts.CreateAuctionMessage{
		AuctionTitle:  auction.Title,
		AuctionOwner:  owner.Name,
		OwnerEmail:    owner.Email,
		StartingPrice: auction.StartingPrice,
		CreatedAt:     auction.CreatedAt,
		AuctionURL:    s.auctionURL(auction.ID),
	}
	s.publish(ctx, contracts.KindCreateAuction, msg)

	return auction, nil
}

// PlaceBid stores a bid and publishes a PlaceBid message carrying the display
// fields of the auction owner and the bidder.
func (s *Service) PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*domain.Bid, error) {
	detail, err := s.auctions.GetAuctionDetail(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	bidder, err := s.members.GetMember(ctx, bidderID)
	if err != nil {
		return nil, err
	}

	bid := &domain.Bid{
		ID:        uuid.New(),
		AuctionID: detail.ID,
		MemberID:  bidder.ID,
		Amount:    amount,
		PlacedAt:  time.Now().UTC(),
	}
	if err := s.auctions.CreateBid(ctx, bid); err != nil {
		return nil, err
	}

	msg := contracts.PlaceBidMessage{
		AuctionTitle: detail.Title,
		AuctionOwner: detail.OwnerName,
		OwnerEmail:   detail.OwnerEmail,
		Bid:          amount,
		BidderName:   bidder.Name,
		BidderEmail:  bidder.Email,
		TimeStamp:    bid.PlacedAt,
		AuctionURL:   s.auctionURL(detail.ID),
	}
	s.publish(ctx, contracts.KindPlaceBid, msg)

	return bid, nil
}

// publish wraps a message in a notification and hands it to the broker. Broker
// trouble is non-fatal to the request that caused it: delivery is decoupled from
// the originating write.
func (s *Service) publish(ctx context.Context, kind contracts.Kind, message any) {
	if err := rabbitmq.PublishNotification(ctx, s.publisher, kind.RoutingKey(), rabbitmq.Notify(message)); err != nil {
		s.log.Warnw("message publish failed", "kind", kind, "error", err)
	}
}

func (s *Service) auctionURL(id uuid.UUID) string {
	return s.baseURL + "/auctions/" + id.String()
}
