package usecase

import (
	"context"
	"fmt"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/pkg/errors"
)

type WishUseCase struct {
	wishRepo repository.WishRepository
	userRepo repository.UserRepository
	notifier *Notifier
}

func NewWishUseCase(wishRepo repository.WishRepository, userRepo repository.UserRepository, notifier *Notifier) *WishUseCase {
	return &WishUseCase{
		wishRepo: wishRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

type WishInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (uc *WishUseCase) Create(ctx context.Context, ownerID string, input WishInput) (*entity.Wish, error) {
	owner, err := uc.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, errors.BadRequest("Invalid owner", err)
	}

	wish := &entity.Wish{
		OwnerID:     owner.ID,
		OwnerName:   owner.Name,
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := uc.wishRepo.Create(ctx, wish); err != nil {
		return nil, err
	}

	return wish, nil
}

func (uc *WishUseCase) GetByID(ctx context.Context, id string) (*entity.Wish, error) {
	return uc.wishRepo.GetByID(ctx, id)
}

func (uc *WishUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Wish, int64, error) {
	return uc.wishRepo.List(ctx, limit, offset)
}

func (uc *WishUseCase) Update(ctx context.Context, id, ownerID string, input WishInput) (*entity.Wish, error) {
	wish, err := uc.wishRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wish.OwnerID != ownerID {
		return nil, errors.Forbidden("Not the owner of this wish", nil)
	}

	wish.Title = input.Title
	wish.Description = input.Description
	wish.ImageURL = input.ImageURL

	if err := uc.wishRepo.Update(ctx, wish); err != nil {
		return nil, err
	}

	return wish, nil
}

func (uc *WishUseCase) Delete(ctx context.Context, id, ownerID string) error {
	wish, err := uc.wishRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wish.OwnerID != ownerID {
		return errors.Forbidden("Not the owner of this wish", nil)
	}

	return uc.wishRepo.Delete(ctx, id)
}

// Offer lets a user respond to someone's wish with one of their own listings.
// The wish owner gets a notification pointing at the offered product.
func (uc *WishUseCase) Offer(ctx context.Context, wishID, responderID, productID string) error {
	wish, err := uc.wishRepo.GetByID(ctx, wishID)
	if err != nil {
		return err
	}
	if wish.OwnerID == responderID {
		return errors.BadRequest("Cannot offer on your own wish", nil)
	}

	responder, err := uc.userRepo.GetByID(ctx, responderID)
	if err != nil {
		return err
	}

	uc.notifier.Notify(ctx, wish.OwnerID,
		entity.NotificationWishFulfilled,
		"Someone has what you want",
		fmt.Sprintf("%s offered an item for %q", responder.Name, wish.Title),
		productID,
	)

	return nil
}
