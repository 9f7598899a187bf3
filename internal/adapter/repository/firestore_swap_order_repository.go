package repository

import (
	"context"
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/internal/domain/service"
	"swapmarket/pkg/errors"
)

type firestoreSwapOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreSwapOrderRepository(client *firestore.Client) repository.SwapOrderRepository {
	return &firestoreSwapOrderRepository{
		client: client,
	}
}

// SettleProposal commits the six effects of an acceptance as one transaction:
// stock decrement per product, proposal flip to ACCEPTED, swap order creation,
// and the match's last-message update. The store re-validates every read at
// commit time and retries the closure on conflict, so a concurrent settlement
// that wins the race leaves this one to re-read the smaller stock and fail
// cleanly on the plan.
func (r *firestoreSwapOrderRepository) SettleProposal(ctx context.Context, matchID, messageID string, proposal *entity.SwapProposal) (*entity.SwapOrder, error) {
	matchRef := r.client.Collection("matches").Doc(matchID)
	msgRef := matchRef.Collection("messages").Doc(messageID)
	orderRef := r.client.Collection("swap_orders").Doc(uuid.New().String())

	var settled *entity.SwapOrder

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		settled = nil

		msgDoc, err := tx.Get(msgRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Proposal message", err)
			}
			return err
		}

		var message entity.Message
		if err := msgDoc.DataTo(&message); err != nil {
			return errors.Internal("Malformed message document", err)
		}
		if message.Proposal == nil {
			return errors.BadRequest("Message carries no proposal", nil)
		}
		if message.Proposal.Status != entity.ProposalPending {
			return errors.Conflict("Proposal already resolved")
		}

		matchDoc, err := tx.Get(matchRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Match", err)
			}
			return err
		}
		var match entity.Match
		if err := matchDoc.DataTo(&match); err != nil {
			return errors.Internal("Malformed match document", err)
		}

		// Read every involved product before any write; the settlement plan
		// is built from exactly these in-transaction snapshots.
		quantities := message.Proposal.ItemQuantities()
		productIDs := make([]string, 0, len(quantities))
		for pid := range quantities {
			productIDs = append(productIDs, pid)
		}
		sort.Strings(productIDs)

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

		plan, err := service.PlanSwapSettlement(quantities, products)
		if err != nil {
			return err
		}

		for _, pid := range productIDs {
			if err := tx.Update(productRefs[pid], []firestore.Update{
				{Path: "stock", Value: strconv.Itoa(plan.NewStock[pid])},
			}); err != nil {
				return err
			}
		}

		if err := tx.Update(msgRef, []firestore.Update{
			{Path: "proposal.status", Value: entity.ProposalAccepted},
		}); err != nil {
			return err
		}

		order := service.NewSwapOrder(orderRef.ID, matchID, match.Users, quantities, plan.Items)
		order.CreatedAt = time.Now()
		if err := tx.Set(orderRef, order); err != nil {
			return err
		}

		if err := tx.Update(matchRef, []firestore.Update{
			{Path: "lastMessage", Value: "Swap order created! See your trade history"},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			return err
		}

		settled = order
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to settle proposal", err)
	}

	return settled, nil
}

// UpdateFulfillment sets the caller's shipping or receiving flag. Completion
// is decided from the post-write receiving map inside the same transaction,
// so the final RECEIVE and the COMPLETED flip commit together.
func (r *firestoreSwapOrderRepository) UpdateFulfillment(ctx context.Context, orderID, userID, action string) (*entity.SwapOrder, error) {
	orderRef := r.client.Collection("swap_orders").Doc(orderID)

	var updated *entity.SwapOrder

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		updated = nil

		doc, err := tx.Get(orderRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Swap order", err)
			}
			return err
		}

		var order entity.SwapOrder
		if err := doc.DataTo(&order); err != nil {
			return errors.Internal("Malformed swap order document", err)
		}
		order.ID = doc.Ref.ID

		if !order.HasParticipant(userID) {
			return errors.Forbidden("Not a participant of this swap order", nil)
		}

		switch action {
		case entity.FulfillmentShip:
			shipping := copyStatusMap(order.ShippingStatus)
			shipping[userID] = true
			order.ShippingStatus = shipping

			if err := tx.Update(orderRef, []firestore.Update{
				{Path: "shippingStatus", Value: shipping},
			}); err != nil {
				return err
			}

		case entity.FulfillmentReceive:
			receiving := copyStatusMap(order.ReceivingStatus)
			receiving[userID] = true
			order.ReceivingStatus = receiving

			updates := []firestore.Update{
				{Path: "receivingStatus", Value: receiving},
			}
			if order.Status != entity.SwapOrderCompleted && service.SwapCompleted(receiving) {
				order.Status = entity.SwapOrderCompleted
				updates = append(updates, firestore.Update{Path: "status", Value: entity.SwapOrderCompleted})
			}

			if err := tx.Update(orderRef, updates); err != nil {
				return err
			}

		default:
			return errors.BadRequest("Unknown fulfillment action", nil)
		}

		updated = &order
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to update fulfillment", err)
	}

	return updated, nil
}

func (r *firestoreSwapOrderRepository) GetByID(ctx context.Context, id string) (*entity.SwapOrder, error) {
	doc, err := r.client.Collection("swap_orders").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Swap order", err)
		}
		return nil, errors.Internal("Failed to get swap order", err)
	}

	var order entity.SwapOrder
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Malformed swap order document", err)
	}
	order.ID = doc.Ref.ID

	return &order, nil
}

func (r *firestoreSwapOrderRepository) ListByUser(ctx context.Context, userID string) ([]*entity.SwapOrder, error) {
	iter := r.client.Collection("swap_orders").
		Where("users", "array-contains", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var orders []*entity.SwapOrder
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate swap orders", err)
		}

		var order entity.SwapOrder
		if err := doc.DataTo(&order); err != nil {
			return nil, errors.Internal("Malformed swap order document", err)
		}
		order.ID = doc.Ref.ID
		orders = append(orders, &order)
	}

	return orders, nil
}

func copyStatusMap(src map[string]bool) map[string]bool {
	dst := make(map[string]bool, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
