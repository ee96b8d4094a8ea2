/**
 * @description
 * This file implements the data access layer for members and ratings in the
 * relational store. The write path only needs inserts and display-field reads;
 * nothing here is consulted by the email worker, which gets everything it needs
 * from the message itself.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5/pgxpool: The PostgreSQL driver.
 * - The service's internal domain package for the Member and Rating models.
 */
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PetterZiden/Auctioneer-sub001/auction-service/internal/domain"
)

// MemberRepository defines the interface for member data storage.
type MemberRepository interface {
	CreateMember(ctx context.Context, member *domain.Member) error
	GetMember(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	CreateRating(ctx context.Context, rating *domain.Rating) error
}

// PostgresMemberRepository is the PostgreSQL implementation of MemberRepository.
type PostgresMemberRepository struct {
	db *pgxpool.Pool
}

// NewPostgresMemberRepository creates a new PostgresMemberRepository.
func NewPostgresMemberRepository(db *pgxpool.Pool) *PostgresMemberRepository {
	return &PostgresMemberRepository{db: db}
}

// CreateMember inserts a new member record.
func (r *PostgresMemberRepository) CreateMember(ctx context.Context, member *domain.Member) error {
	query := `
        INSERT INTO members (id, name, email, joined_at)
        VALUES ($1, $2, $3, $4)
    `
	_, err := r.db.Exec(ctx, query, member.ID, member.Name, member.Email, member.JoinedAt)
	if err != nil {
		return fmt.Errorf("inserting member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by id. Returns pgx.ErrNoRows (wrapped) when the
// member does not exist; callers map that to not-found.
func (r *PostgresMemberRepository) GetMember(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `SELECT id, name, email, joined_at FROM members WHERE id = $1`
	var m domain.Member
	err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Email, &m.JoinedAt)
	if err != nil {
		return nil, fmt.Errorf("fetching member %s: %w", id, err)
	}
	return &m, nil
}

// CreateRating inserts a rating record.
func (r *PostgresMemberRepository) CreateRating(ctx context.Context, rating *domain.Rating) error {
	query := `
        INSERT INTO ratings (id, rated_id, rater_id, stars, rated_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.db.Exec(ctx, query, rating.ID, rating.RatedID, rating.RaterID, rating.Stars, rating.RatedAt)
	if err != nil {
		return fmt.Errorf("inserting rating: %w", err)
	}
	return nil
}
