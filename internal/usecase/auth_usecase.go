package usecase

import (
	"context"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/internal/infrastructure/firebase"
	"swapmarket/pkg/errors"
)

// New accounts start with a fixed grant of points so the marketplace is
// usable immediately.
const startingPoints int64 = 99999

type AuthUseCase struct {
	authClient *firebase.FirebaseAuthClient
	userRepo   repository.UserRepository
}

func NewAuthUseCase(authClient *firebase.FirebaseAuthClient, userRepo repository.UserRepository) *AuthUseCase {
	return &AuthUseCase{
		authClient: authClient,
		userRepo:   userRepo,
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	uid, err := uc.authClient.CreateUser(ctx, input.Email, input.Password, input.Name)
	if err != nil {
		return nil, errors.BadRequest("Failed to create account", err)
	}

	user := &entity.User{
		ID:     uid,
		Email:  input.Email,
		Name:   input.Name,
		Points: startingPoints,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *AuthUseCase) UpdateFCMToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return errors.BadRequest("FCM token is required", nil)
	}
	return uc.userRepo.SetFCMToken(ctx, userID, token)
}
