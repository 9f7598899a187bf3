package repository

import (
	"context"

	"swapmarket/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SetFCMToken(ctx context.Context, userID, token string) error
}
