package repository

import (
	"context"

	"swapmarket/internal/domain/entity"
)

type SwipeRepository interface {
	// RecordSwipe upserts the judgment for (user, product); re-swiping
	// overwrites rather than duplicating.
	RecordSwipe(ctx context.Context, record *entity.SwipeRecord) error
	ListSwipedProductIDs(ctx context.Context, userID string) ([]string, error)

	// SaveLike persists the one-directional interest signal, keyed by
	// (liker, product) so it is an idempotent overwrite.
	SaveLike(ctx context.Context, like *entity.Like) error
}
