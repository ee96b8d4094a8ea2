package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PetterZiden/Auctioneer-sub001/auction-service/internal/domain"
)

// AuctionRepository defines the interface for auction and bid data storage.
type AuctionRepository interface {
	CreateAuction(ctx context.Context, auction *domain.Auction) error
	GetAuctionDetail(ctx context.Context, id uuid.UUID) (*domain.AuctionDetail, error)
	CreateBid(ctx context.Context, bid *domain.Bid) error
}

// PostgresAuctionRepository is the PostgreSQL implementation of AuctionRepository.
type PostgresAuctionRepository struct {
	db *pgxpool.Pool
}

// NewPostgresAuctionRepository creates a new PostgresAuctionRepository.
func NewPostgresAuctionRepository(db *pgxpool.Pool) *PostgresAuctionRepository {
	return &PostgresAuctionRepository{db: db}
}

// CreateAuction inserts a new auction record.
func (r *PostgresAuctionRepository) CreateAuction(ctx context.Context, auction *domain.Auction) error {
	query := `
        INSERT INTO auctions (id, owner_id, title, starting_price, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.db.Exec(ctx, query,
		auction.ID,
		auction.OwnerID,
		auction.Title,
		auction.StartingPrice,
		auction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting auction: %w", err)
	}
	return nil
}

// GetAuctionDetail retrieves an auction joined with its owner's display fields,
// so the caller can build an outbound message in one round trip.
func (r *PostgresAuctionRepository) GetAuctionDetail(ctx context.Context, id uuid.UUID) (*domain.AuctionDetail, error) {
	query := `
        SELECT a.id, a.owner_id, a.title, a.starting_price, a.created_at, m.name, m.email
        FROM auctions a
        JOIN members m ON m.id = a.owner_id
        WHERE a.id = $1
    `
	var d domain.AuctionDetail
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.OwnerID,
		&d.Title,
		&d.StartingPrice,
		&d.CreatedAt,
		&d.OwnerName,
		&d.OwnerEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching auction %s: %w", id, err)
	}
	return &d, nil
}

// CreateBid inserts a bid record.
func (r *PostgresAuctionRepository) CreateBid(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, auction_id, member_id, amount, placed_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.db.Exec(ctx, query, bid.ID, bid.AuctionID, bid.MemberID, bid.Amount, bid.PlacedAt)
	if err != nil {
		return fmt.Errorf("inserting bid: %w", err)
	}
	return nil
}
