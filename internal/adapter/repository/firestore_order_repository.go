package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/internal/domain/service"
	"swapmarket/pkg/errors"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

// Checkout applies the whole multi-seller purchase as one transaction. All
// reads (buyer, products) precede all writes; the plan is recomputed from
// fresh snapshots on every retry, so a competing checkout that drains stock
// or points first makes this one abort without partial effects.
func (r *firestoreOrderRepository) Checkout(ctx context.Context, buyerID string, lines []*entity.CartItem) ([]*entity.Order, error) {
	buyerRef := r.client.Collection("users").Doc(buyerID)

	var created []*entity.Order

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = nil

		buyerDoc, err := tx.Get(buyerRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Buyer", err)
			}
			return err
		}
		var buyer entity.User
		if err := buyerDoc.DataTo(&buyer); err != nil {
			return errors.Internal("Malformed user document", err)
		}
		buyer.ID = buyerDoc.Ref.ID

		productIDs := distinctProductIDs(lines)
		products := make(map[string]*entity.Product, len(productIDs))
		productRefs := make(map[string]*firestore.DocumentRef, len(productIDs))
		for _, pid := range productIDs {
			ref := r.client.Collection("products").Doc(pid)
			productRefs[pid] = ref

			doc, err := tx.Get(ref)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					continue // plan reports the missing listing
				}
				return err
			}
			product, err := decodeProduct(doc)
			if err != nil {
				return err
			}
			products[pid] = product
		}

		plan, err := service.PlanCheckout(&buyer, lines, products)
		if err != nil {
			return err
		}

		if err := tx.Update(buyerRef, []firestore.Update{
			{Path: "points", Value: firestore.Increment(-plan.TotalCost)},
		}); err != nil {
			return err
		}

		sellerIDs := make([]string, 0, len(plan.SellerCredits))
		for sid := range plan.SellerCredits {
			sellerIDs = append(sellerIDs, sid)
		}
		sort.Strings(sellerIDs)
		for _, sid := range sellerIDs {
			if sid == "" {
				continue
			}
			if err := tx.Update(r.client.Collection("users").Doc(sid), []firestore.Update{
				{Path: "points", Value: firestore.Increment(plan.SellerCredits[sid])},
			}); err != nil {
				return err
			}
		}

		for _, pid := range productIDs {
			newStock, ok := plan.NewStock[pid]
			if !ok {
				continue
			}
			if err := tx.Update(productRefs[pid], []firestore.Update{
				{Path: "stock", Value: strconv.Itoa(newStock)},
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		for _, order := range plan.Orders {
			orderRef := r.client.Collection("orders").NewDoc()
			order.ID = orderRef.ID
			order.CreatedAt = now
			if err := tx.Set(orderRef, order); err != nil {
				return err
			}
		}

		for _, line := range lines {
			lineRef := buyerRef.Collection("cart").Doc(line.ID)
			if err := tx.Delete(lineRef); err != nil {
				return err
			}
		}

		created = plan.Orders
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Checkout failed", err)
	}

	return created, nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection("orders").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, errors.Internal("Failed to get order", err)
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Malformed order document", err)
	}
	order.ID = doc.Ref.ID

	return &order, nil
}

func (r *firestoreOrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error) {
	return r.list(ctx, "buyerId", buyerID)
}

func (r *firestoreOrderRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Order, error) {
	return r.list(ctx, "sellerId", sellerID)
}

func (r *firestoreOrderRepository) list(ctx context.Context, field, value string) ([]*entity.Order, error) {
	iter := r.client.Collection("orders").
		Where(field, "==", value).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var orders []*entity.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate orders", err)
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return nil, errors.Internal("Malformed order document", err)
		}
		order.ID = doc.Ref.ID
		orders = append(orders, &order)
	}

	return orders, nil
}

// UpdateStatus moves the order along its lifecycle, conditioned on the
// expected current status still holding at commit time.
func (r *firestoreOrderRepository) UpdateStatus(ctx context.Context, orderID, expected, next string) error {
	orderRef := r.client.Collection("orders").Doc(orderID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(orderRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Order", err)
			}
			return err
		}

		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return errors.Internal("Malformed order document", err)
		}
		if order.Status != expected {
			return errors.Conflict(fmt.Sprintf("Order is %s, expected %s", order.Status, expected))
		}

		return tx.Update(orderRef, []firestore.Update{
			{Path: "status", Value: next},
		})
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return appErr
		}
		return errors.Internal("Failed to update order status", err)
	}

	return nil
}

func distinctProductIDs(lines []*entity.CartItem) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	sort.Strings(ids)
	return ids
}
