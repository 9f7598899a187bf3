package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/pkg/errors"
)

type firestoreSwipeRepository struct {
	client *firestore.Client
}

func NewFirestoreSwipeRepository(client *firestore.Client) repository.SwipeRepository {
	return &firestoreSwipeRepository{
		client: client,
	}
}

// Swipes and likes are keyed by userId_productId so replays overwrite in
// place instead of accumulating duplicates.
func swipeDocID(userID, productID string) string {
	return userID + "_" + productID
}

func (r *firestoreSwipeRepository) RecordSwipe(ctx context.Context, record *entity.SwipeRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	docID := swipeDocID(record.UserID, record.ProductID)
	_, err := r.client.Collection("swipes").Doc(docID).Set(ctx, record)
	if err != nil {
		return errors.Internal("Failed to record swipe", err)
	}

	return nil
}

func (r *firestoreSwipeRepository) ListSwipedProductIDs(ctx context.Context, userID string) ([]string, error) {
	iter := r.client.Collection("swipes").Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()

	var productIDs []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate swipes", err)
		}

		var record entity.SwipeRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, errors.Internal("Malformed swipe document", err)
		}
		productIDs = append(productIDs, record.ProductID)
	}

	return productIDs, nil
}

func (r *firestoreSwipeRepository) SaveLike(ctx context.Context, like *entity.Like) error {
	if like.ID == "" {
		like.ID = swipeDocID(like.LikerID, like.ProductID)
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("likes").Doc(like.ID).Set(ctx, like)
	if err != nil {
		return errors.Internal("Failed to save like", err)
	}

	return nil
}
