package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/pkg/errors"
)

type firestoreWishRepository struct {
	client *firestore.Client
}

func NewFirestoreWishRepository(client *firestore.Client) repository.WishRepository {
	return &firestoreWishRepository{
		client: client,
	}
}

func (r *firestoreWishRepository) Create(ctx context.Context, wish *entity.Wish) error {
	if wish.ID == "" {
		wish.ID = uuid.New().String()
	}
	if wish.CreatedAt.IsZero() {
		wish.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("wishes").Doc(wish.ID).Set(ctx, wish)
	if err != nil {
		return errors.Internal("Failed to create wish", err)
	}

	return nil
}

func (r *firestoreWishRepository) GetByID(ctx context.Context, id string) (*entity.Wish, error) {
	doc, err := r.client.Collection("wishes").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Wish", err)
		}
		return nil, errors.Internal("Failed to get wish", err)
	}

	var wish entity.Wish
	if err := doc.DataTo(&wish); err != nil {
		return nil, errors.Internal("Malformed wish document", err)
	}
	wish.ID = doc.Ref.ID

	return &wish, nil
}

func (r *firestoreWishRepository) List(ctx context.Context, limit, offset int) ([]*entity.Wish, int64, error) {
	query := r.client.Collection("wishes").OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count wishes", err)
	}
	total := int64(len(countDocs))

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var wishes []*entity.Wish
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate wishes", err)
		}

		var wish entity.Wish
		if err := doc.DataTo(&wish); err != nil {
			return nil, 0, errors.Internal("Malformed wish document", err)
		}
		wish.ID = doc.Ref.ID
		wishes = append(wishes, &wish)
	}

	return wishes, total, nil
}

func (r *firestoreWishRepository) Update(ctx context.Context, wish *entity.Wish) error {
	_, err := r.client.Collection("wishes").Doc(wish.ID).Set(ctx, wish)
	if err != nil {
		return errors.Internal("Failed to update wish", err)
	}

	return nil
}

func (r *firestoreWishRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("wishes").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete wish", err)
	}

	return nil
}
