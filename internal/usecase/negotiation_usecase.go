package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/internal/infrastructure/ratelimit"
	"swapmarket/internal/infrastructure/websocket"
	"swapmarket/pkg/errors"
	"swapmarket/pkg/logger"
)

type NegotiationUseCase struct {
	matchRepo     repository.MatchRepository
	chatRepo      repository.ChatRepository
	swapOrderRepo repository.SwapOrderRepository
	productRepo   repository.ProductRepository
	rateLimiter   *ratelimit.RateLimiter
	wsManager     *websocket.Manager
	notifier      *Notifier
}

func NewNegotiationUseCase(
	matchRepo repository.MatchRepository,
	chatRepo repository.ChatRepository,
	swapOrderRepo repository.SwapOrderRepository,
	productRepo repository.ProductRepository,
	rateLimiter *ratelimit.RateLimiter,
	wsManager *websocket.Manager,
	notifier *Notifier,
) *NegotiationUseCase {
	return &NegotiationUseCase{
		matchRepo:     matchRepo,
		chatRepo:      chatRepo,
		swapOrderRepo: swapOrderRepo,
		productRepo:   productRepo,
		rateLimiter:   rateLimiter,
		wsManager:     wsManager,
		notifier:      notifier,
	}
}

// MatchDetails is the role-aware view of a match: the caller sees which
// products they liked and which the counterpart liked, regardless of which
// stored role they occupy.
type MatchDetails struct {
	Match                *entity.Match              `json:"match"`
	CounterpartID        string                     `json:"counterpart_id"`
	MyLikedProductIDs    []string                   `json:"my_liked_product_ids"`
	TheirLikedProductIDs []string                   `json:"their_liked_product_ids"`
	Products             map[string]*entity.Product `json:"products"`
	Messages             []*entity.Message          `json:"messages"`
}

func (uc *NegotiationUseCase) GetMatchDetails(ctx context.Context, matchID, userID string, limit, offset int) (*MatchDetails, error) {
	match, err := uc.requireParticipant(ctx, matchID, userID)
	if err != nil {
		return nil, err
	}

	messages, _, err := uc.chatRepo.ListMessages(ctx, matchID, limit, offset)
	if err != nil {
		return nil, err
	}

	// Liked-product summaries on the match can be stale; fetch live listings
	// so the client sees current stock. Deleted listings just drop out.
	products := make(map[string]*entity.Product, len(match.ProductsInfo))
	for pid := range match.ProductsInfo {
		product, err := uc.productRepo.GetByID(ctx, pid)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		products[pid] = product
	}

	counterpart := match.Counterpart(userID)
	return &MatchDetails{
		Match:                match,
		CounterpartID:        counterpart,
		MyLikedProductIDs:    match.LikedBy(userID),
		TheirLikedProductIDs: match.LikedBy(counterpart),
		Products:             products,
		Messages:             messages,
	}, nil
}

func (uc *NegotiationUseCase) SendMessage(ctx context.Context, matchID, senderID, text string) (*entity.Message, error) {
	if text == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}
	if allowed, wait := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.New("RATE_LIMITED", fmt.Sprintf("Sending too fast, retry in %s", wait.Round(1e9)), http.StatusTooManyRequests, nil)
	}

	if _, err := uc.requireParticipant(ctx, matchID, senderID); err != nil {
		return nil, err
	}

	message := &entity.Message{
		SenderID: senderID,
		Text:     text,
		Type:     entity.MessageTypeText,
	}
	if err := uc.chatRepo.CreateMessage(ctx, matchID, message); err != nil {
		return nil, err
	}

	if err := uc.matchRepo.UpdateLastMessage(ctx, matchID, text); err != nil {
		logger.Warn("Failed to update last message for match %s: %v", matchID, err)
	}

	uc.broadcast(matchID, "message", message)

	return message, nil
}

type ProposalInput struct {
	OfferedItems   map[string]int `json:"offered_items" validate:"required"`
	RequestedItems map[string]int `json:"requested_items" validate:"required"`
}

// SendProposal posts a PENDING proposal message into the match. Offered items
// must be products the counterpart liked (they belong to the sender), and
// requested items must be products the sender liked.
func (uc *NegotiationUseCase) SendProposal(ctx context.Context, matchID, senderID string, input ProposalInput) (*entity.Message, error) {
	if len(input.OfferedItems) == 0 && len(input.RequestedItems) == 0 {
		return nil, errors.BadRequest("Proposal contains no items", nil)
	}
	if allowed, wait := uc.rateLimiter.Allow(senderID, "send_proposal"); !allowed {
		return nil, errors.New("RATE_LIMITED", fmt.Sprintf("Too many proposals, retry in %s", wait.Round(1e9)), http.StatusTooManyRequests, nil)
	}

	match, err := uc.requireParticipant(ctx, matchID, senderID)
	if err != nil {
		return nil, err
	}

	for pid, qty := range input.OfferedItems {
		if qty <= 0 {
			return nil, errors.BadRequest(fmt.Sprintf("Invalid quantity for product %s", pid), nil)
		}
		if info, ok := match.ProductsInfo[pid]; ok && info.OwnerID != senderID {
			return nil, errors.BadRequest("Offered items must be your own listings", nil)
		}
	}
	for pid, qty := range input.RequestedItems {
		if qty <= 0 {
			return nil, errors.BadRequest(fmt.Sprintf("Invalid quantity for product %s", pid), nil)
		}
		if info, ok := match.ProductsInfo[pid]; ok && info.OwnerID == senderID {
			return nil, errors.BadRequest("Requested items must be the counterpart's listings", nil)
		}
	}

	message := &entity.Message{
		SenderID: senderID,
		Text:     "Sent a swap proposal",
		Type:     entity.MessageTypeProposal,
		Proposal: &entity.SwapProposal{
			ID:             uuid.New().String(),
			SenderID:       senderID,
			OfferedItems:   input.OfferedItems,
			RequestedItems: input.RequestedItems,
			Status:         entity.ProposalPending,
		},
	}
	if err := uc.chatRepo.CreateMessage(ctx, matchID, message); err != nil {
		return nil, err
	}

	if err := uc.matchRepo.UpdateLastMessage(ctx, matchID, "Sent a swap proposal"); err != nil {
		logger.Warn("Failed to update last message for match %s: %v", matchID, err)
	}

	uc.broadcast(matchID, "proposal", message)

	return message, nil
}

// AcceptProposal settles a pending proposal. Only the recipient may accept;
// the settlement itself runs as one store transaction.
func (uc *NegotiationUseCase) AcceptProposal(ctx context.Context, matchID, messageID, userID string) (*entity.SwapOrder, error) {
	if _, err := uc.requireParticipant(ctx, matchID, userID); err != nil {
		return nil, err
	}

	message, err := uc.chatRepo.GetMessage(ctx, matchID, messageID)
	if err != nil {
		return nil, err
	}
	if message.Proposal == nil {
		return nil, errors.BadRequest("Message carries no proposal", nil)
	}
	if message.Proposal.SenderID == userID {
		return nil, errors.Forbidden("Cannot accept your own proposal", nil)
	}

	order, err := uc.swapOrderRepo.SettleProposal(ctx, matchID, messageID, message.Proposal)
	if err != nil {
		return nil, err
	}

	for _, uid := range order.Users {
		uc.notifier.Notify(ctx, uid,
			entity.NotificationOrder,
			"Swap order created",
			"The proposal was accepted. Ship your items and confirm receipt",
			order.ID,
		)
	}
	uc.broadcast(matchID, "proposal_accepted", order)

	return order, nil
}

// RejectProposal flips a pending proposal to REJECTED. Only the recipient may
// reject.
func (uc *NegotiationUseCase) RejectProposal(ctx context.Context, matchID, messageID, userID string) error {
	if _, err := uc.requireParticipant(ctx, matchID, userID); err != nil {
		return err
	}

	message, err := uc.chatRepo.GetMessage(ctx, matchID, messageID)
	if err != nil {
		return err
	}
	if message.Proposal == nil {
		return errors.BadRequest("Message carries no proposal", nil)
	}
	if message.Proposal.SenderID == userID {
		return errors.Forbidden("Cannot reject your own proposal", nil)
	}

	if err := uc.chatRepo.RejectProposal(ctx, matchID, messageID); err != nil {
		return err
	}

	uc.broadcast(matchID, "proposal_rejected", map[string]string{"message_id": messageID})
	return nil
}

func (uc *NegotiationUseCase) UpdateFulfillment(ctx context.Context, orderID, userID, action string) (*entity.SwapOrder, error) {
	if action != entity.FulfillmentShip && action != entity.FulfillmentReceive {
		return nil, errors.BadRequest("Action must be SHIP or RECEIVE", nil)
	}

	order, err := uc.swapOrderRepo.UpdateFulfillment(ctx, orderID, userID, action)
	if err != nil {
		return nil, err
	}

	if order.Status == entity.SwapOrderCompleted {
		for _, uid := range order.Users {
			uc.notifier.Notify(ctx, uid,
				entity.NotificationOrder,
				"Swap completed",
				"Both sides confirmed receipt. The swap is complete",
				order.ID,
			)
		}
	}

	return order, nil
}

func (uc *NegotiationUseCase) GetSwapOrder(ctx context.Context, orderID, userID string) (*entity.SwapOrder, error) {
	order, err := uc.swapOrderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.HasParticipant(userID) {
		return nil, errors.Forbidden("Not a participant of this swap order", nil)
	}
	return order, nil
}

func (uc *NegotiationUseCase) ListSwapOrders(ctx context.Context, userID string) ([]*entity.SwapOrder, error) {
	return uc.swapOrderRepo.ListByUser(ctx, userID)
}

func (uc *NegotiationUseCase) WatchMessages(ctx context.Context, matchID, userID string) (<-chan []*entity.Message, error) {
	if _, err := uc.requireParticipant(ctx, matchID, userID); err != nil {
		return nil, err
	}
	return uc.chatRepo.WatchMessages(ctx, matchID)
}

func (uc *NegotiationUseCase) requireParticipant(ctx context.Context, matchID, userID string) (*entity.Match, error) {
	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(userID) {
		return nil, errors.Forbidden("Not a participant of this match", nil)
	}
	return match, nil
}

func (uc *NegotiationUseCase) broadcast(matchID, event string, payload interface{}) {
	if uc.wsManager == nil {
		return
	}
	data, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  payload,
	})
	if err != nil {
		return
	}
	uc.wsManager.SendToMatchRoom(matchID, data)
}
