package repository

import (
	"context"

	"swapmarket/internal/domain/entity"
)

// LikeOutcome reports what a recorded like did to the pair's match document.
type LikeOutcome struct {
	// Matched is true when a match exists after the like (fresh or extended).
	Matched bool
	// Created is true only when this like caused the match to be created.
	Created bool
	MatchID string
}

type MatchRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Match, error)

	// RecordLike runs the match side of a like as one transaction: if the
	// pair's canonical match document exists, the product is appended to the
	// liker's list (array-union, no duplicates) and its snapshot merged;
	// otherwise the reverse-interest query decides whether to create the
	// match. A one-sided like leaves no match behind.
	RecordLike(ctx context.Context, likerID string, product *entity.Product) (*LikeOutcome, error)

	UpdateLastMessage(ctx context.Context, matchID, text string) error
}
