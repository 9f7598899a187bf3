package usecase

import (
	"context"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/pkg/errors"
)

type OrderUseCase struct {
	orderRepo repository.OrderRepository
	notifier  *Notifier
}

func NewOrderUseCase(orderRepo repository.OrderRepository, notifier *Notifier) *OrderUseCase {
	return &OrderUseCase{
		orderRepo: orderRepo,
		notifier:  notifier,
	}
}

func (uc *OrderUseCase) GetByID(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID && order.SellerID != userID {
		return nil, errors.Forbidden("Not a party to this order", nil)
	}
	return order, nil
}

func (uc *OrderUseCase) ListPurchases(ctx context.Context, buyerID string) ([]*entity.Order, error) {
	return uc.orderRepo.ListByBuyer(ctx, buyerID)
}

func (uc *OrderUseCase) ListSales(ctx context.Context, sellerID string) ([]*entity.Order, error) {
	return uc.orderRepo.ListBySeller(ctx, sellerID)
}

// ShipOrder moves PENDING to SHIPPED. Only the seller may ship.
func (uc *OrderUseCase) ShipOrder(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SellerID != userID {
		return nil, errors.Forbidden("Only the seller can ship", nil)
	}

	if err := uc.orderRepo.UpdateStatus(ctx, orderID, entity.OrderPending, entity.OrderShipped); err != nil {
		return nil, err
	}
	order.Status = entity.OrderShipped

	uc.notifier.Notify(ctx, order.BuyerID,
		entity.NotificationOrder,
		"Order shipped",
		"Your order is on its way",
		order.ID,
	)

	return order, nil
}

// CompleteOrder moves SHIPPED to COMPLETED. Only the buyer may confirm.
func (uc *OrderUseCase) CompleteOrder(ctx context.Context, orderID, userID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID {
		return nil, errors.Forbidden("Only the buyer can confirm receipt", nil)
	}

	if err := uc.orderRepo.UpdateStatus(ctx, orderID, entity.OrderShipped, entity.OrderCompleted); err != nil {
		return nil, err
	}
	order.Status = entity.OrderCompleted

	uc.notifier.Notify(ctx, order.SellerID,
		entity.NotificationOrder,
		"Order completed",
		"The buyer confirmed receipt",
		order.ID,
	)

	return order, nil
}
