package usecase

import (
	"context"
	"fmt"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/internal/domain/service"
	"swapmarket/pkg/errors"
)

type CheckoutUseCase struct {
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	notifier    *Notifier
}

func NewCheckoutUseCase(
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notifier *Notifier,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifier:    notifier,
	}
}

// AddToCart snapshots the live product into a cart line. Buying your own
// listing makes no sense, so it is rejected up front.
func (uc *CheckoutUseCase) AddToCart(ctx context.Context, userID, productID string) (*entity.CartItem, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID == userID {
		return nil, errors.BadRequest("Cannot buy your own listing", nil)
	}
	if product.Stock <= 0 {
		return nil, errors.Insufficient("stock", fmt.Sprintf("%s is out of stock", product.Title))
	}

	return uc.cartRepo.Add(ctx, userID, &entity.CartItem{
		ProductID:    product.ID,
		ProductTitle: product.Title,
		ProductImage: product.ImageURL,
		SellerID:     product.OwnerID,
		UnitPrice:    product.Price,
		Quantity:     1,
		Stock:        product.Stock,
	})
}

// UpdateQuantity clamps the requested quantity to [1, stock snapshot].
func (uc *CheckoutUseCase) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*entity.CartItem, error) {
	line, err := uc.cartRepo.GetByID(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		quantity = 1
	}
	if line.Stock > 0 && quantity > line.Stock {
		quantity = line.Stock
	}

	if err := uc.cartRepo.UpdateQuantity(ctx, userID, lineID, quantity); err != nil {
		return nil, err
	}
	line.Quantity = quantity

	return line, nil
}

func (uc *CheckoutUseCase) RemoveLine(ctx context.Context, userID, lineID string) error {
	return uc.cartRepo.Delete(ctx, userID, lineID)
}

func (uc *CheckoutUseCase) RemoveLines(ctx context.Context, userID string, lineIDs []string) error {
	if len(lineIDs) == 0 {
		return errors.BadRequest("No cart lines selected", nil)
	}
	return uc.cartRepo.DeleteMany(ctx, userID, lineIDs)
}

func (uc *CheckoutUseCase) ListCart(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	return uc.cartRepo.List(ctx, userID)
}

// WatchCart streams live cart snapshots, merging each one with the lines the
// session already holds so the checked selection survives remote updates.
func (uc *CheckoutUseCase) WatchCart(ctx context.Context, userID string) (<-chan []*entity.CartItem, error) {
	remote, err := uc.cartRepo.WatchCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := make(chan []*entity.CartItem)
	go func() {
		defer close(merged)
		var current []*entity.CartItem
		for snapshot := range remote {
			current = service.MergeCartSnapshot(current, snapshot)
			select {
			case merged <- current:
			case <-ctx.Done():
				return
			}
		}
	}()

	return merged, nil
}

// Checkout purchases the selected cart lines in one store transaction and
// fires one ORDER notification per seller after commit.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, buyerID string, lineIDs []string) ([]*entity.Order, error) {
	if len(lineIDs) == 0 {
		return nil, errors.BadRequest("No cart lines selected", nil)
	}

	lines, err := uc.cartRepo.GetByIDs(ctx, buyerID, lineIDs)
	if err != nil {
		return nil, err
	}

	orders, err := uc.orderRepo.Checkout(ctx, buyerID, lines)
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		uc.notifier.Notify(ctx, order.SellerID,
			entity.NotificationOrder,
			"New order received",
			fmt.Sprintf("You sold %d item(s) for %d points", len(order.Items), order.TotalAmount),
			order.ID,
		)
	}

	return orders, nil
}
