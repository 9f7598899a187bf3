package entity

import "time"

const (
	SwipeLike = "LIKE"
	SwipePass = "PASS"
)

// SwipeRecord stores one judgment per (user, product) pair. The document id is
// userId_productId so a re-swipe overwrites instead of duplicating.
type SwipeRecord struct {
	UserID    string    `json:"user_id" firestore:"userId"`
	ProductID string    `json:"product_id" firestore:"productId"`
	Direction string    `json:"direction" firestore:"direction"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// Like is the one-directional interest signal used to detect reciprocity.
// Keyed by likerId_productId, so liking the same product twice is idempotent.
type Like struct {
	ID             string    `json:"id" firestore:"id"`
	LikerID        string    `json:"liker_id" firestore:"likerId"`
	ProductID      string    `json:"product_id" firestore:"productId"`
	ProductOwnerID string    `json:"product_owner_id" firestore:"productOwnerId"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}
