package usecase

import (
	"context"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/pkg/errors"
	"swapmarket/pkg/logger"
)

type MatchUseCase struct {
	matchRepo   repository.MatchRepository
	swipeRepo   repository.SwipeRepository
	productRepo repository.ProductRepository
	notifier    *Notifier
}

func NewMatchUseCase(
	matchRepo repository.MatchRepository,
	swipeRepo repository.SwipeRepository,
	productRepo repository.ProductRepository,
	notifier *Notifier,
) *MatchUseCase {
	return &MatchUseCase{
		matchRepo:   matchRepo,
		swipeRepo:   swipeRepo,
		productRepo: productRepo,
		notifier:    notifier,
	}
}

// SwipeFeed returns discovery candidates for the user: in-stock listings they
// do not own and have not yet judged.
func (uc *MatchUseCase) SwipeFeed(ctx context.Context, userID string, limit int) ([]*entity.Product, error) {
	swipedIDs, err := uc.swipeRepo.ListSwipedProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	swiped := make(map[string]struct{}, len(swipedIDs))
	for _, id := range swipedIDs {
		swiped[id] = struct{}{}
	}

	products, _, err := uc.productRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	feed := make([]*entity.Product, 0, limit)
	for _, product := range products {
		if product.OwnerID == userID {
			continue
		}
		if product.Stock <= 0 {
			continue
		}
		if _, seen := swiped[product.ID]; seen {
			continue
		}
		feed = append(feed, product)
		if limit > 0 && len(feed) >= limit {
			break
		}
	}

	return feed, nil
}

type LikeResult struct {
	Matched bool   `json:"matched"`
	Created bool   `json:"match_created"`
	MatchID string `json:"match_id,omitempty"`
}

// RecordLike persists the like and swipe signals, then runs the transactional
// match step. Match notifications fire only on the create path, never on the
// append path, and only after the transaction has committed.
func (uc *MatchUseCase) RecordLike(ctx context.Context, userID, productID string) (*LikeResult, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID == userID {
		return nil, errors.BadRequest("Cannot like your own listing", nil)
	}

	if err := uc.swipeRepo.SaveLike(ctx, &entity.Like{
		LikerID:        userID,
		ProductID:      product.ID,
		ProductOwnerID: product.OwnerID,
	}); err != nil {
		return nil, err
	}
	if err := uc.swipeRepo.RecordSwipe(ctx, &entity.SwipeRecord{
		UserID:    userID,
		ProductID: product.ID,
		Direction: entity.SwipeLike,
	}); err != nil {
		return nil, err
	}

	outcome, err := uc.matchRepo.RecordLike(ctx, userID, product)
	if err != nil {
		return nil, err
	}

	if outcome.Created {
		uc.notifyMatch(ctx, outcome.MatchID, userID, product.OwnerID)
	}

	return &LikeResult{
		Matched: outcome.Matched,
		Created: outcome.Created,
		MatchID: matchIDIfAny(outcome),
	}, nil
}

func (uc *MatchUseCase) RecordPass(ctx context.Context, userID, productID string) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.OwnerID == userID {
		return errors.BadRequest("Cannot swipe your own listing", nil)
	}

	return uc.swipeRepo.RecordSwipe(ctx, &entity.SwipeRecord{
		UserID:    userID,
		ProductID: product.ID,
		Direction: entity.SwipePass,
	})
}

func (uc *MatchUseCase) ListMatches(ctx context.Context, userID string) ([]*entity.Match, error) {
	return uc.matchRepo.ListByUser(ctx, userID)
}

func (uc *MatchUseCase) notifyMatch(ctx context.Context, matchID string, users ...string) {
	for _, uid := range users {
		uc.notifier.Notify(ctx, uid,
			entity.NotificationMatch,
			"It's a match!",
			"You both liked each other's items. Start negotiating",
			matchID,
		)
	}
	logger.Info("Match %s created", matchID)
}

func matchIDIfAny(outcome *repository.LikeOutcome) string {
	if !outcome.Matched {
		return ""
	}
	return outcome.MatchID
}
