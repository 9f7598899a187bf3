package repository

import (
	"context"

	"swapmarket/internal/domain/entity"
)

type OrderRepository interface {
	// Checkout converts the buyer's selected cart lines into orders in one
	// transaction: validates balance and stock, debits the buyer, credits
	// each seller, decrements stock, creates one pending order per seller,
	// and deletes the selected cart lines. Nothing is applied on abort.
	Checkout(ctx context.Context, buyerID string, lines []*entity.CartItem) ([]*entity.Order, error)

	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*entity.Order, error)

	// UpdateStatus transitions an order from the expected status to the next
	// one, failing on any other current status.
	UpdateStatus(ctx context.Context, orderID, expected, next string) error
}
