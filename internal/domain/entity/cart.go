package entity

import "time"

// CartItem is a line in the buyer's cart (users/{uid}/cart subcollection).
// UnitPrice and Stock are snapshots taken when the line was added; checkout
// re-reads the live product inside its transaction, the snapshots only bound
// client-side quantity adjustment.
//
// Checked is session-local selection state. It is never persisted; live cart
// snapshots are merged so the flag survives refreshes (see MergeCartSnapshot).
type CartItem struct {
	ID           string    `json:"id" firestore:"id"`
	ProductID    string    `json:"product_id" firestore:"productId"`
	ProductTitle string    `json:"product_title" firestore:"productTitle"`
	ProductImage string    `json:"product_image" firestore:"productImage"`
	SellerID     string    `json:"seller_id" firestore:"sellerId"`
	UnitPrice    int64     `json:"unit_price" firestore:"unitPrice"`
	Quantity     int       `json:"quantity" firestore:"quantity"`
	Stock        int       `json:"stock" firestore:"stock"`
	AddedAt      time.Time `json:"added_at" firestore:"addedAt"`
	Checked      bool      `json:"checked" firestore:"-"`
}

// Subtotal is unit price times quantity; pricing beyond this is out of scope.
func (c *CartItem) Subtotal() int64 {
	return c.UnitPrice * int64(c.Quantity)
}
