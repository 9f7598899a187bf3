package service

import (
	"fmt"
	"sort"

	"swapmarket/internal/domain/entity"
	"swapmarket/pkg/errors"
)

// CheckoutPlan is the computed outcome of one checkout transaction: a single
// debit for the buyer, one credit per seller, the stock each product is
// written down to, and one pending order per seller. Everything is derived
// from documents read inside the transaction.
type CheckoutPlan struct {
	TotalCost     int64
	NewStock      map[string]int
	SellerCredits map[string]int64
	Orders        []*entity.Order
}

// PlanCheckout validates the buyer's balance and every product's stock against
// the selected cart lines, then lays out the full set of writes. Any failed
// check aborts the whole plan; the caller applies either all of it or none.
func PlanCheckout(buyer *entity.User, lines []*entity.CartItem, products map[string]*entity.Product) (*CheckoutPlan, error) {
	if len(lines) == 0 {
		return nil, errors.BadRequest("No cart lines selected", nil)
	}

	var totalCost int64
	requested := make(map[string]int)
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, errors.BadRequest(fmt.Sprintf("Invalid quantity for %s", line.ProductTitle), nil)
		}
		totalCost += line.Subtotal()
		requested[line.ProductID] += line.Quantity
	}

	if buyer.Points < totalCost {
		return nil, errors.Insufficient("balance", fmt.Sprintf("have %d points, need %d", buyer.Points, totalCost))
	}

	plan := &CheckoutPlan{
		TotalCost:     totalCost,
		NewStock:      make(map[string]int, len(requested)),
		SellerCredits: make(map[string]int64),
	}

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok || product == nil {
			return nil, errors.NotFound(fmt.Sprintf("Listing %q", line.ProductTitle), nil)
		}
		if product.Stock < requested[line.ProductID] {
			return nil, errors.Insufficient("stock", fmt.Sprintf("%s has %d left, %d requested", product.Title, product.Stock, requested[line.ProductID]))
		}
		plan.NewStock[line.ProductID] = product.Stock - requested[line.ProductID]
	}

	bySeller := make(map[string][]*entity.CartItem)
	for _, line := range lines {
		bySeller[line.SellerID] = append(bySeller[line.SellerID], line)
	}

	sellerIDs := make([]string, 0, len(bySeller))
	for sid := range bySeller {
		sellerIDs = append(sellerIDs, sid)
	}
	sort.Strings(sellerIDs)

	for _, sellerID := range sellerIDs {
		var subtotal int64
		var items []entity.OrderItem
		for _, line := range bySeller[sellerID] {
			subtotal += line.Subtotal()
			items = append(items, entity.OrderItem{
				ProductID:    line.ProductID,
				ProductTitle: line.ProductTitle,
				ProductImage: line.ProductImage,
				PricePerUnit: line.UnitPrice,
				Quantity:     line.Quantity,
			})
		}

		plan.SellerCredits[sellerID] = subtotal
		plan.Orders = append(plan.Orders, &entity.Order{
			BuyerID:     buyer.ID,
			SellerID:    sellerID,
			Items:       items,
			TotalAmount: subtotal,
			Status:      entity.OrderPending,
		})
	}

	return plan, nil
}

// MergeCartSnapshot reconciles a live cart snapshot with the lines a session
// already holds, carrying over the session-local checked flags that the
// remote documents do not store. Lines that vanished remotely are dropped.
func MergeCartSnapshot(current, remote []*entity.CartItem) []*entity.CartItem {
	checked := make(map[string]bool, len(current))
	for _, line := range current {
		if line.Checked {
			checked[line.ID] = true
		}
	}

	merged := make([]*entity.CartItem, 0, len(remote))
	for _, line := range remote {
		copied := *line
		copied.Checked = checked[line.ID]
		merged = append(merged, &copied)
	}
	return merged
}
