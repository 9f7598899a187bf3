package repository

import (
	"context"
	"fmt"
	"sort"
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

type firestoreMatchRepository struct {
	client *firestore.Client
}

func NewFirestoreMatchRepository(client *firestore.Client) repository.MatchRepository {
	return &firestoreMatchRepository{
		client: client,
	}
}

func (r *firestoreMatchRepository) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	doc, err := r.client.Collection("matches").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Match", err)
		}
		return nil, errors.Internal("Failed to get match", err)
	}

	var match entity.Match
	if err := doc.DataTo(&match); err != nil {
		return nil, errors.Internal("Malformed match document", err)
	}
	match.ID = doc.Ref.ID

	return &match, nil
}

func (r *firestoreMatchRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Match, error) {
	iter := r.client.Collection("matches").Where("users", "array-contains", userID).Documents(ctx)
	defer iter.Stop()

	var matches []*entity.Match
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate matches", err)
		}

		var match entity.Match
		if err := doc.DataTo(&match); err != nil {
			return nil, errors.Internal("Malformed match document", err)
		}
		match.ID = doc.Ref.ID
		matches = append(matches, &match)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})

	return matches, nil
}

// RecordLike runs the read-then-create match flow inside one transaction. The
// canonical document id already guarantees two racing mutual likes collapse
// onto the same key; the transaction additionally closes the window between
// the reverse-like query and the create, so the loser retries and lands on
// the append path instead of clobbering the fresh match.
func (r *firestoreMatchRepository) RecordLike(ctx context.Context, likerID string, product *entity.Product) (*repository.LikeOutcome, error) {
	matchID := service.CanonicalMatchID(likerID, product.OwnerID)
	matchRef := r.client.Collection("matches").Doc(matchID)

	outcome := &repository.LikeOutcome{MatchID: matchID}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		outcome.Matched = false
		outcome.Created = false

		matchDoc, err := tx.Get(matchRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		if err == nil && matchDoc.Exists() {
			return r.appendLike(tx, matchRef, matchDoc, likerID, product, outcome)
		}

		// No match yet: does the counterpart already like something of ours?
		reverseQuery := r.client.Collection("likes").
			Where("likerId", "==", product.OwnerID).
			Where("productOwnerId", "==", likerID).
			Limit(1)

		likeDoc, err := tx.Documents(reverseQuery).Next()
		if err == iterator.Done {
			// One-sided interest, nothing to create.
			return nil
		}
		if err != nil {
			return err
		}

		var reverseLike entity.Like
		if err := likeDoc.DataTo(&reverseLike); err != nil {
			return errors.Internal("Malformed like document", err)
		}

		return r.createMatch(tx, matchRef, likerID, product, &reverseLike, outcome)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to record like", err)
	}

	return outcome, nil
}

func (r *firestoreMatchRepository) appendLike(tx *firestore.Transaction, matchRef *firestore.DocumentRef, matchDoc *firestore.DocumentSnapshot, likerID string, product *entity.Product, outcome *repository.LikeOutcome) error {
	var match entity.Match
	if err := matchDoc.DataTo(&match); err != nil {
		return errors.Internal("Malformed match document", err)
	}

	likedField := "user2LikedProductIds"
	if match.User1ID == likerID {
		likedField = "user1LikedProductIds"
	}

	outcome.Matched = true

	return tx.Update(matchRef, []firestore.Update{
		{Path: likedField, Value: firestore.ArrayUnion(product.ID)},
		{FieldPath: firestore.FieldPath{"productsInfo", product.ID}, Value: product.Summary()},
		{Path: "lastMessage", Value: fmt.Sprintf("Interested in another item: %s", product.Title)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}

func (r *firestoreMatchRepository) createMatch(tx *firestore.Transaction, matchRef *firestore.DocumentRef, likerID string, product *entity.Product, reverseLike *entity.Like, outcome *repository.LikeOutcome) error {
	// Snapshot of the liker's own product the counterpart liked, read inside
	// this transaction. A deleted product degrades to a bare id summary.
	counterSummary := entity.ProductSummary{ID: reverseLike.ProductID, OwnerID: likerID}
	if reverseLike.ProductID != "" {
		pDoc, err := tx.Get(r.client.Collection("products").Doc(reverseLike.ProductID))
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if err == nil && pDoc.Exists() {
			if counterProduct, decErr := decodeProduct(pDoc); decErr == nil {
				counterSummary = counterProduct.Summary()
			}
		}
	}

	user1, user2 := service.MatchRoles(likerID, product.OwnerID)

	likerLikes := []string{product.ID}
	counterpartLikes := []string{}
	if reverseLike.ProductID != "" {
		counterpartLikes = []string{reverseLike.ProductID}
	}

	user1Likes, user2Likes := likerLikes, counterpartLikes
	if user1 != likerID {
		user1Likes, user2Likes = counterpartLikes, likerLikes
	}

	now := time.Now()
	match := &entity.Match{
		ID:                   matchRef.ID,
		Users:                []string{user1, user2},
		User1ID:              user1,
		User2ID:              user2,
		User1LikedProductIDs: user1Likes,
		User2LikedProductIDs: user2Likes,
		ProductsInfo: map[string]entity.ProductSummary{
			product.ID: product.Summary(),
		},
		Type:        entity.MatchTypeSwap,
		LastMessage: "It's a match! Start negotiating",
		UpdatedAt:   now,
		CreatedAt:   now,
	}
	if reverseLike.ProductID != "" {
		match.ProductsInfo[reverseLike.ProductID] = counterSummary
	}

	outcome.Matched = true
	outcome.Created = true

	return tx.Set(matchRef, match)
}

func (r *firestoreMatchRepository) UpdateLastMessage(ctx context.Context, matchID, text string) error {
	_, err := r.client.Collection("matches").Doc(matchID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: text},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return errors.Internal("Failed to update match", err)
	}

	return nil
}
