package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/pkg/errors"
	"swapmarket/pkg/logger"
)

type firestoreCartRepository struct {
	client *firestore.Client
}

func NewFirestoreCartRepository(client *firestore.Client) repository.CartRepository {
	return &firestoreCartRepository{
		client: client,
	}
}

func (r *firestoreCartRepository) cartCollection(userID string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(userID).Collection("cart")
}

// Add merges repeated adds of the same product into one line, bumping its
// quantity up to the stock snapshot. The lookup and the write share one
// transaction so two quick taps cannot produce duplicate lines.
func (r *firestoreCartRepository) Add(ctx context.Context, userID string, item *entity.CartItem) (*entity.CartItem, error) {
	cart := r.cartCollection(userID)

	var result *entity.CartItem

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		result = nil

		query := cart.Where("productId", "==", item.ProductID).Limit(1)
		doc, err := tx.Documents(query).Next()
		if err != nil && err != iterator.Done {
			return err
		}

		if err == nil {
			var existing entity.CartItem
			if derr := doc.DataTo(&existing); derr != nil {
				return errors.Internal("Malformed cart line", derr)
			}
			existing.ID = doc.Ref.ID

			newQty := existing.Quantity + 1
			if newQty > existing.Stock {
				newQty = existing.Stock
			}
			if newQty < 1 {
				newQty = 1
			}
			existing.Quantity = newQty

			if uerr := tx.Update(doc.Ref, []firestore.Update{
				{Path: "quantity", Value: newQty},
			}); uerr != nil {
				return uerr
			}
			result = &existing
			return nil
		}

		ref := cart.NewDoc()
		line := *item
		line.ID = ref.ID
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		if line.Stock > 0 && line.Quantity > line.Stock {
			line.Quantity = line.Stock
		}
		if line.AddedAt.IsZero() {
			line.AddedAt = time.Now()
		}

		if serr := tx.Set(ref, &line); serr != nil {
			return serr
		}
		result = &line
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to add cart line", err)
	}

	return result, nil
}

func (r *firestoreCartRepository) GetByID(ctx context.Context, userID, lineID string) (*entity.CartItem, error) {
	doc, err := r.cartCollection(userID).Doc(lineID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Cart line", err)
		}
		return nil, errors.Internal("Failed to get cart line", err)
	}

	var line entity.CartItem
	if err := doc.DataTo(&line); err != nil {
		return nil, errors.Internal("Malformed cart line", err)
	}
	line.ID = doc.Ref.ID

	return &line, nil
}

func (r *firestoreCartRepository) GetByIDs(ctx context.Context, userID string, lineIDs []string) ([]*entity.CartItem, error) {
	lines := make([]*entity.CartItem, 0, len(lineIDs))
	for _, id := range lineIDs {
		line, err := r.GetByID(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *firestoreCartRepository) List(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	iter := r.cartCollection(userID).OrderBy("addedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var lines []*entity.CartItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate cart", err)
		}

		var line entity.CartItem
		if err := doc.DataTo(&line); err != nil {
			return nil, errors.Internal("Malformed cart line", err)
		}
		line.ID = doc.Ref.ID
		lines = append(lines, &line)
	}

	return lines, nil
}

func (r *firestoreCartRepository) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) error {
	_, err := r.cartCollection(userID).Doc(lineID).Update(ctx, []firestore.Update{
		{Path: "quantity", Value: quantity},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Cart line", err)
		}
		return errors.Internal("Failed to update cart line", err)
	}

	return nil
}

func (r *firestoreCartRepository) Delete(ctx context.Context, userID, lineID string) error {
	_, err := r.cartCollection(userID).Doc(lineID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete cart line", err)
	}

	return nil
}

func (r *firestoreCartRepository) DeleteMany(ctx context.Context, userID string, lineIDs []string) error {
	bulk := r.client.BulkWriter(ctx)
	for _, id := range lineIDs {
		if _, err := bulk.Delete(r.cartCollection(userID).Doc(id)); err != nil {
			return errors.Internal("Failed to delete cart lines", err)
		}
	}
	bulk.End()

	return nil
}

func (r *firestoreCartRepository) WatchCart(ctx context.Context, userID string) (<-chan []*entity.CartItem, error) {
	query := r.cartCollection(userID).OrderBy("addedAt", firestore.Desc)
	snapshots := query.Snapshots(ctx)

	ch := make(chan []*entity.CartItem)
	go func() {
		defer close(ch)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("Cart watch for user %s ended: %v", userID, err)
				}
				return
			}

			var lines []*entity.CartItem
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					logger.Warn("Cart watch iteration failed: %v", err)
					return
				}
				var line entity.CartItem
				if err := doc.DataTo(&line); err != nil {
					logger.Warn("Skipping malformed cart line %s: %v", doc.Ref.ID, err)
					continue
				}
				line.ID = doc.Ref.ID
				lines = append(lines, &line)
			}

			select {
			case ch <- lines:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
