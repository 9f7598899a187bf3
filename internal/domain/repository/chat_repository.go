package repository

import (
	"context"

	"swapmarket/internal/domain/entity"
)

type ChatRepository interface {
	CreateMessage(ctx context.Context, matchID string, message *entity.Message) error
	GetMessage(ctx context.Context, matchID, messageID string) (*entity.Message, error)
	ListMessages(ctx context.Context, matchID string, limit, offset int) ([]*entity.Message, int64, error)

	// RejectProposal conditionally flips the embedded proposal to REJECTED;
	// it fails if the proposal is no longer pending.
	RejectProposal(ctx context.Context, matchID, messageID string) error

	// WatchMessages streams ordered message snapshots for a match until the
	// context is cancelled.
	WatchMessages(ctx context.Context, matchID string) (<-chan []*entity.Message, error)
}
