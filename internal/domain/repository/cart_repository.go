package repository

import (
	"context"

	"swapmarket/internal/domain/entity"
)

type CartRepository interface {
	// Add creates a line for the product or bumps the quantity of the
	// existing one, clamped to the line's stock snapshot.
	Add(ctx context.Context, userID string, item *entity.CartItem) (*entity.CartItem, error)
	GetByID(ctx context.Context, userID, lineID string) (*entity.CartItem, error)
	GetByIDs(ctx context.Context, userID string, lineIDs []string) ([]*entity.CartItem, error)
	List(ctx context.Context, userID string) ([]*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) error
	Delete(ctx context.Context, userID, lineID string) error
	DeleteMany(ctx context.Context, userID string, lineIDs []string) error

	// WatchCart streams cart snapshots for the user until the context is
	// cancelled.
	WatchCart(ctx context.Context, userID string) (<-chan []*entity.CartItem, error)
}
