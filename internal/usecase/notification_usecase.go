package usecase

import (
	"context"
	"encoding/json"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/internal/infrastructure/firebase"
	"swapmarket/internal/infrastructure/websocket"
	"swapmarket/pkg/logger"
)

// Notifier fans a notification out to its three channels: the persistent
// notification document, an FCM push, and the live websocket feed. It always
// runs after the transaction that produced the event has committed, and a
// failure on any channel is logged and swallowed.
type Notifier struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	pushSender       *firebase.PushSender
	wsManager        *websocket.Manager
}

func NewNotifier(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	pushSender *firebase.PushSender,
	wsManager *websocket.Manager,
) *Notifier {
	return &Notifier{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pushSender:       pushSender,
		wsManager:        wsManager,
	}
}

func (n *Notifier) Notify(ctx context.Context, userID, notifType, title, message, targetID string) {
	notification := &entity.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		TargetID: targetID,
	}

	if err := n.notificationRepo.Create(ctx, notification); err != nil {
		logger.Warn("Failed to persist notification for %s: %v", userID, err)
	}

	if n.pushSender != nil {
		user, err := n.userRepo.GetByID(ctx, userID)
		if err != nil {
			logger.Warn("Failed to load user %s for push: %v", userID, err)
		} else {
			n.pushSender.Send(ctx, user.FCMToken, title, message, map[string]string{
				"type":     notifType,
				"targetId": targetID,
			})
		}
	}

	if n.wsManager != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"event":        "notification",
			"notification": notification,
		})
		if err == nil {
			n.wsManager.SendToUser(userID, payload)
		}
	}
}

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
	}
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string) ([]*entity.Notification, error) {
	return uc.notificationRepo.ListByUser(ctx, userID)
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	return uc.notificationRepo.UnreadCount(ctx, userID)
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, notificationID string) error {
	return uc.notificationRepo.MarkRead(ctx, notificationID)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}

func (uc *NotificationUseCase) WatchUnreadCount(ctx context.Context, userID string) (<-chan int, error) {
	return uc.notificationRepo.WatchUnreadCount(ctx, userID)
}
