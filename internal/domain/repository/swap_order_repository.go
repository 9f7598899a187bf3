package repository

import (
	"context"

	"swapmarket/internal/domain/entity"
)

type SwapOrderRepository interface {
	// SettleProposal atomically settles an accepted proposal: re-checks the
	// proposal is still pending, validates and decrements stock for every
	// involved product, flips the proposal to ACCEPTED, creates the swap
	// order with in-transaction snapshots, and updates the match's last
	// message. All effects commit together or not at all.
	SettleProposal(ctx context.Context, matchID, messageID string, proposal *entity.SwapProposal) (*entity.SwapOrder, error)

	// UpdateFulfillment marks the user's shipping or receiving flag inside a
	// transaction; a RECEIVE that completes the receiving map also moves the
	// order to COMPLETED in the same transaction.
	UpdateFulfillment(ctx context.Context, orderID, userID, action string) (*entity.SwapOrder, error)

	GetByID(ctx context.Context, id string) (*entity.SwapOrder, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.SwapOrder, error)
}
