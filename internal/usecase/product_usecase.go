package usecase

import (
	"context"
	"time"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/pkg/errors"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewProductUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

type CreateProductInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Price       int64    `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Condition   string   `json:"condition"`
	ImageURL    string   `json:"image_url"`
	Images      []string `json:"images"`
}

func (uc *ProductUseCase) Create(ctx context.Context, ownerID string, input CreateProductInput) (*entity.Product, error) {
	owner, err := uc.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, errors.BadRequest("Invalid owner", err)
	}

	product := &entity.Product{
		OwnerID:     owner.ID,
		OwnerName:   owner.Name,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Condition:   input.Condition,
		ImageURL:    input.ImageURL,
		Images:      input.Images,
		CreatedAt:   time.Now(),
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	return uc.productRepo.List(ctx, limit, offset)
}

func (uc *ProductUseCase) ListMine(ctx context.Context, ownerID string) ([]*entity.Product, error) {
	return uc.productRepo.ListByOwner(ctx, ownerID)
}

func (uc *ProductUseCase) Update(ctx context.Context, id, ownerID string, input CreateProductInput) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != ownerID {
		return nil, errors.Forbidden("Not the owner of this listing", nil)
	}

	product.Title = input.Title
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.Condition = input.Condition
	product.ImageURL = input.ImageURL
	product.Images = input.Images

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) Delete(ctx context.Context, id, ownerID string) error {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product.OwnerID != ownerID {
		return errors.Forbidden("Not the owner of this listing", nil)
	}

	return uc.productRepo.Delete(ctx, id)
}
