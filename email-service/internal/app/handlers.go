/**
 * @description
 * This file contains the message handlers of the email worker, one per message
 * kind. Each handler follows the same shape: deserialize the payload, validate
 * the fields the template needs, build the email DTO, render, send.
 *
 * Error contract (drives acknowledgment in the consumer):
 * - Decode or validation failure wraps rabbitmq.ErrMalformedMessage: terminal,
 *   the message is dropped.
 * - Render or send failure returns a plain error: the message is requeued, so
 *   every handler must be safe to re-run with the same payload. Re-running only
 *   produces a duplicate email send, which is accepted.
 *
 * @dependencies
 * - The shared contracts and rabbitmq packages.
 * - The service's internal email package for delivery and templates.
 */
package app

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/PetterZiden/Auctioneer-sub001/email-service/internal/email"
	"github.com/PetterZiden/Auctioneer-sub001/pkg/contracts"
	"github.com/PetterZiden/Auctioneer-sub001/pkg/rabbitmq"
)

// Handlers holds the dependencies shared by all message handlers.
type Handlers struct {
	sender    email.Sender
	templates *email.TemplateSet
	log       *zap.SugaredLogger
}

// NewHandlers creates the handler set.
func NewHandlers(sender email.Sender, templates *email.TemplateSet, log *zap.SugaredLogger) *Handlers {
	return &Handlers{sender: sender, templates: templates, log: log}
}

// NewRegistry builds and validates the full dispatch table.
func (h *Handlers) NewRegistry() (*Registry, error) {
	r := NewRegistry()
	registrations := map[contracts.Kind]rabbitmq.Handler{
		contracts.KindPlaceBid:      h.HandlePlaceBid,
		contracts.KindCreateAuction: h.HandleCreateAuction,
		contracts.KindCreateMember:  h.HandleCreateMember,
		contracts.KindRateMember:    h.HandleRateMember,
	}
	for kind, handler := range registrations {
		if err := r.Register(kind, handler); err != nil {
			return nil, err
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// HandlePlaceBid emails the auction owner about a new bid.
func (h *Handlers) HandlePlaceBid(ctx context.Context, body []byte) error {
	var msg contracts.PlaceBidMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: decoding place bid message: %v", rabbitmq.ErrMalformedMessage, err)
	}
	if err := requireFields(map[string]string{
		"auction_title": msg.AuctionTitle,
		"auction_owner": msg.AuctionOwner,
		"owner_email":   msg.OwnerEmail,
		"bidder_name":   msg.BidderName,
	}); err != nil {
		return fmt.Errorf("%w: place bid message: %v", rabbitmq.ErrMalformedMessage, err)
	}
	if msg.Bid.Sign() <= 0 {
		return fmt.Errorf("%w: place bid message: bid must be positive, got %s", rabbitmq.ErrMalformedMessage, msg.Bid)
	}

	dto := NewPlaceBidDto(msg)
	return h.deliver(ctx, contracts.KindPlaceBid, dto.OwnerEmail, dto.TemplateData())
}

// HandleCreateAuction emails the owner that their auction is live.
func (h *Handlers) HandleCreateAuction(ctx context.Context, body []byte) error {
	var msg contracts.CreateAuctionMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: decoding create auction message: %v", rabbitmq.ErrMalformedMessage, err)
	}
	if err := requireFields(map[string]string{
		"auction_title": msg.AuctionTitle,
		"auction_owner": msg.AuctionOwner,
		"owner_email":   msg.OwnerEmail,
	}); err != nil {
		return fmt.Errorf("%w: create auction message: %v", rabbitmq.ErrMalformedMessage, err)
	}

	dto := NewCreateAuctionDto(msg)
	return h.deliver(ctx, contracts.KindCreateAuction, dto.OwnerEmail, dto.TemplateData())
}

// HandleCreateMember sends the welcome email.
func (h *Handlers) HandleCreateMember(ctx context.Context, body []byte) error {
	var msg contracts.CreateMemberMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: decoding create member message: %v", rabbitmq.ErrMalformedMessage, err)
	}
	if err := requireFields(map[string]string{
		"name":  msg.Name,
		"email": msg.Email,
	}); err != nil {
		return fmt.Errorf("%w: create member message: %v", rabbitmq.ErrMalformedMessage, err)
	}

	dto := NewCreateMemberDto(msg)
	return h.deliver(ctx, contracts.KindCreateMember, dto.Email, dto.TemplateData())
}

// HandleRateMember emails the rated member.
func (h *Handlers) HandleRateMember(ctx context.Context, body []byte) error {
	var msg contracts.RateMemberMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: decoding rate member message: %v", rabbitmq.ErrMalformedMessage, err)
	}
	if err := requireFields(map[string]string{
		"rated_name":    msg.RatedName,
		"rated_email":   msg.RatedEmail,
		"rated_by_name": msg.RatedByName,
	}); err != nil {
		return fmt.Errorf("%w: rate member message: %v", rabbitmq.ErrMalformedMessage, err)
	}
	if msg.Stars < 1 || msg.Stars > 5 {
		return fmt.Errorf("%w: rate member message: stars must be between 1 and 5, got %d", rabbitmq.ErrMalformedMessage, msg.Stars)
	}

	dto := NewRateMemberDto(msg)
	return h.deliver(ctx, contracts.KindRateMember, dto.RatedEmail, dto.TemplateData())
}

// deliver renders the template for the kind and sends the result. Failures
// are plain errors: retryable from the consumer's point of view.
func (h *Handlers) deliver(ctx context.Context, kind contracts.Kind, recipient string, data map[string]any) error {
	subject, htmlBody, err := h.templates.Render(kind, data)
	if err != nil {
		return fmt.Errorf("rendering %s email: %w", kind, err)
	}

	if err := h.sender.Send(ctx, email.Message{To: recipient, Subject: subject, HTMLBody: htmlBody}); err != nil {
		h.log.Errorw("email delivery failed", "kind", kind, "recipient", recipient, "error", err)
		return fmt.Errorf("delivering %s email: %w", kind, err)
	}

	h.log.Infow("email sent", "kind", kind, "recipient", recipient)
	return nil
}

// requireFields guards against upstream contract drift: a message that arrives
// without the fields its template needs is malformed, not retryable.
func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("missing required field %q", name)
		}
	}
	return nil
}
