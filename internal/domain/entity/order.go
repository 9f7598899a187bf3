package entity

import "time"

const (
	OrderPending   = "PENDING"
	OrderShipped   = "SHIPPED"
	OrderCompleted = "COMPLETED"
)

// Order is one seller's slice of a checkout: a successful checkout creates
// exactly one Order per seller involved. Items are immutable snapshots taken
// inside the checkout transaction.
type Order struct {
	ID          string      `json:"id" firestore:"id"`
	BuyerID     string      `json:"buyer_id" firestore:"buyerId"`
	SellerID    string      `json:"seller_id" firestore:"sellerId"`
	Items       []OrderItem `json:"items" firestore:"items"`
	TotalAmount int64       `json:"total_amount" firestore:"totalAmount"`
	Status      string      `json:"status" firestore:"status"`
	CreatedAt   time.Time   `json:"created_at" firestore:"createdAt"`
}

type OrderItem struct {
	ProductID    string `json:"product_id" firestore:"productId"`
	ProductTitle string `json:"product_title" firestore:"productTitle"`
	ProductImage string `json:"product_image" firestore:"productImage"`
	PricePerUnit int64  `json:"price_per_unit" firestore:"pricePerUnit"`
	Quantity     int    `json:"quantity" firestore:"quantity"`
}
