/**
 * @description
 * This file contains the HTTP handlers of the auction-service write path. The
 * handlers are deliberately thin: decode and validate the request, call the
 * application service, write the JSON response. Bidding business rules (highest
 * bid checks, closing logic) are out of scope here.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: Router URL parameters.
 * - The service's internal app and domain packages.
 */
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/PetterZiden/Auctioneer-sub001/auction-service/internal/domain"
)

// AuctionService is the application surface the handlers call into.
type AuctionService interface {
	CreateMember(ctx context.Context, name, email string) (*domain.Member, error)
	RateMember(ctx context.Context, memberID, raterID uuid.UUID, stars int) (*domain.Rating, error)
	CreateAuction(ctx context.Context, ownerID uuid.UUID, title string, startingPrice decimal.Decimal) (*domain.Auction, error)
	PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*domain.Bid, error)
}

// Handlers bundles the write-path HTTP handlers.
type Handlers struct {
	service AuctionService
}

// NewHandlers creates the handler set.
func NewHandlers(service AuctionService) *Handlers {
	return &Handlers{service: service}
}

type createMemberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateMember handles POST /api/members.
func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	member, err := h.service.CreateMember(r.Context(), req.Name, req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not create member")
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

type rateMemberRequest struct {
	RaterID string `json:"rater_id"`
	Stars   int    `json:"stars"`
}

// RateMember handles POST /api/members/{id}/rate.
func (h *Handlers) RateMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	var req rateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	raterID, err := uuid.Parse(req.RaterID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rater id")
		return
	}
	if req.Stars < 1 || req.Stars > 5 {
		respondError(w, http.StatusBadRequest, "stars must be between 1 and 5")
		return
	}

	rating, err := h.service.RateMember(r.Context(), memberID, raterID, req.Stars)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "member not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "could not rate member")
		return
	}
	respondJSON(w, http.StatusCreated, rating)
}

type createAuctionRequest struct {
	OwnerID       string          `json:"owner_id"`
	Title         string          `json:"title"`
	StartingPrice decimal.Decimal `json:"starting_price"`
}

// CreateAuction handles POST /api/auctions.
func (h *Handlers) CreateAuction(w http.ResponseWriter, r *http.Request) {
	var req createAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid owner id")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	auction, err := h.service.CreateAuction(r.Context(), ownerID, req.Title, req.StartingPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "owner not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "could not create auction")
		return
	}
	respondJSON(w, http.StatusCreated, auction)
}

type placeBidRequest struct {
	BidderID string          `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// PlaceBid handles POST /api/auctions/{id}/bids.
func (h *Handlers) PlaceBid(w http.ResponseWriter, r *http.Request) {
	auctionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid auction id")
		return
	}

	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	bidderID, err := uuid.Parse(req.BidderID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bidder id")
		return
	}
	if req.Amount.Sign() <= 0 {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	bid, err := h.service.PlaceBid(r.Context(), auctionID, bidderID, req.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "auction or bidder not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "could not place bid")
		return
	}
	respondJSON(w, http.StatusCreated, bid)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
