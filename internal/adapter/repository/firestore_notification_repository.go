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
	"swapmarket/pkg/logger"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("notifications").Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	iter := r.client.Collection("notifications").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var notifications []*entity.Notification
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate notifications", err)
		}

		var notification entity.Notification
		if err := doc.DataTo(&notification); err != nil {
			return nil, errors.Internal("Malformed notification document", err)
		}
		notification.ID = doc.Ref.ID
		notifications = append(notifications, &notification)
	}

	return notifications, nil
}

func (r *firestoreNotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	docs, err := r.unreadQuery(userID).Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count unread notifications", err)
	}

	return len(docs), nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, notificationID string) error {
	_, err := r.client.Collection("notifications").Doc(notificationID).Update(ctx, []firestore.Update{
		{Path: "isRead", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to mark notification read", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	docs, err := r.unreadQuery(userID).Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to list unread notifications", err)
	}

	bulk := r.client.BulkWriter(ctx)
	for _, doc := range docs {
		if _, err := bulk.Update(doc.Ref, []firestore.Update{
			{Path: "isRead", Value: true},
		}); err != nil {
			return errors.Internal("Failed to mark notifications read", err)
		}
	}
	bulk.End()

	return nil
}

func (r *firestoreNotificationRepository) WatchUnreadCount(ctx context.Context, userID string) (<-chan int, error) {
	snapshots := r.unreadQuery(userID).Snapshots(ctx)

	ch := make(chan int)
	go func() {
		defer close(ch)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("Unread watch for user %s ended: %v", userID, err)
				}
				return
			}

			count := 0
			docs := snap.Documents
			for {
				_, err := docs.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					logger.Warn("Unread watch iteration failed: %v", err)
					return
				}
				count++
			}

			select {
			case ch <- count:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (r *firestoreNotificationRepository) unreadQuery(userID string) firestore.Query {
	return r.client.Collection("notifications").
		Where("userId", "==", userID).
		Where("isRead", "==", false)
}
