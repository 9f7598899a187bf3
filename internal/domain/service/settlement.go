package service

import (
	"fmt"
	"sort"

	"swapmarket/internal/domain/entity"
	"swapmarket/pkg/errors"
)

// SwapPlan is the computed outcome of accepting a proposal: the stock each
// product must be written down to, and the immutable item snapshots for the
// swap order. Built purely from documents read inside the settlement
// transaction, so the plan reflects exactly the state being committed.
type SwapPlan struct {
	NewStock map[string]int
	Items    []entity.SwapOrderItem
}

// PlanSwapSettlement validates a proposal's merged item quantities against the
// products as read in-transaction. If any product is missing or lacks stock,
// it returns an error and the caller must abort without partial effects.
func PlanSwapSettlement(quantities map[string]int, products map[string]*entity.Product) (*SwapPlan, error) {
	if len(quantities) == 0 {
		return nil, errors.BadRequest("Proposal contains no items", nil)
	}

	plan := &SwapPlan{
		NewStock: make(map[string]int, len(quantities)),
	}

	for _, pid := range sortedKeys(quantities) {
		qty := quantities[pid]
		if qty <= 0 {
			return nil, errors.BadRequest(fmt.Sprintf("Invalid quantity for product %s", pid), nil)
		}

		product, ok := products[pid]
		if !ok || product == nil {
			return nil, errors.NotFound("Product", nil)
		}
		if product.Stock < qty {
			return nil, errors.Insufficient("stock", fmt.Sprintf("%s has %d left, %d requested", product.Title, product.Stock, qty))
		}

		plan.NewStock[pid] = product.Stock - qty
		plan.Items = append(plan.Items, entity.SwapOrderItem{
			ProductID: pid,
			OwnerID:   product.OwnerID,
			Title:     product.Title,
			ImageURL:  product.ImageURL,
			Quantity:  qty,
		})
	}

	return plan, nil
}

// NewSwapOrder assembles the order document for a settled proposal. Shipping
// and receiving maps start false for every participant; the order completes
// only when every receiving flag flips true.
func NewSwapOrder(id, matchID string, users []string, quantities map[string]int, items []entity.SwapOrderItem) *entity.SwapOrder {
	shipping := make(map[string]bool, len(users))
	receiving := make(map[string]bool, len(users))
	for _, uid := range users {
		shipping[uid] = false
		receiving[uid] = false
	}

	return &entity.SwapOrder{
		ID:              id,
		MatchID:         matchID,
		Users:           users,
		ItemQuantities:  quantities,
		ItemsSnapshot:   items,
		ShippingStatus:  shipping,
		ReceivingStatus: receiving,
		Status:          entity.SwapOrderProcessing,
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
