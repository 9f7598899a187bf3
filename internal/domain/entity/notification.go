package entity

import "time"

const (
	NotificationOrder         = "ORDER"
	NotificationMatch         = "MATCH"
	NotificationWishFulfilled = "WISH_FULFILLED"
)

// Notification is a best-effort, fire-and-forget side effect. Delivery
// failures are logged and never affect the transaction that produced it.
type Notification struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Type      string    `json:"type" firestore:"type"`
	Title     string    `json:"title" firestore:"title"`
	Message   string    `json:"message" firestore:"message"`
	TargetID  string    `json:"target_id,omitempty" firestore:"targetId,omitempty"`
	IsRead    bool      `json:"is_read" firestore:"isRead"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
