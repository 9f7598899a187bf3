package repository

import (
	"context"

	"swapmarket/internal/domain/entity"
)

type WishRepository interface {
	Create(ctx context.Context, wish *entity.Wish) error
	GetByID(ctx context.Context, id string) (*entity.Wish, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Wish, int64, error)
	Update(ctx context.Context, wish *entity.Wish) error
	Delete(ctx context.Context, id string) error
}
