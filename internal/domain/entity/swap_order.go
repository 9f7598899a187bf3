package entity

import "time"

const (
	SwapOrderProcessing = "PROCESSING"
	SwapOrderCompleted  = "COMPLETED"
)

const (
	FulfillmentShip    = "SHIP"
	FulfillmentReceive = "RECEIVE"
)

// SwapOrder is the durable multi-party settlement record created atomically
// when a proposal is accepted. ItemsSnapshot is captured from the product
// documents read inside the settlement transaction and is never re-derived.
type SwapOrder struct {
	ID              string          `json:"id" firestore:"id"`
	MatchID         string          `json:"match_id" firestore:"matchId"`
	Users           []string        `json:"users" firestore:"users"`
	ItemQuantities  map[string]int  `json:"item_quantities" firestore:"itemQuantities"`
	ItemsSnapshot   []SwapOrderItem `json:"items_snapshot" firestore:"itemsSnapshot"`
	ShippingStatus  map[string]bool `json:"shipping_status" firestore:"shippingStatus"`
	ReceivingStatus map[string]bool `json:"receiving_status" firestore:"receivingStatus"`
	Status          string          `json:"status" firestore:"status"`
	CreatedAt       time.Time       `json:"created_at" firestore:"createdAt"`
}

type SwapOrderItem struct {
	ProductID string `json:"product_id" firestore:"productId"`
	OwnerID   string `json:"owner_id" firestore:"ownerId"`
	Title     string `json:"title" firestore:"title"`
	ImageURL  string `json:"image_url" firestore:"imageUrl"`
	Quantity  int    `json:"quantity" firestore:"quantity"`
}

func (o *SwapOrder) HasParticipant(userID string) bool {
	for _, u := range o.Users {
		if u == userID {
			return true
		}
	}
	return false
}
