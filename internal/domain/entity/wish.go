package entity

import "time"

// Wish is a "looking for" post: a listing in reverse. Plain CRUD, no
// settlement involvement.
type Wish struct {
	ID          string    `json:"id" firestore:"id"`
	OwnerID     string    `json:"owner_id" firestore:"ownerId"`
	OwnerName   string    `json:"owner_name" firestore:"ownerName"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}
