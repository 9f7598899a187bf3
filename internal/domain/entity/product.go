package entity

import "time"

// Product is a listing owned by a seller. On the wire the legacy mobile
// clients stored price and stock as strings; the Firestore adapter decodes
// them into the typed fields here and fails closed on malformed documents.
type Product struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Condition   string    `json:"condition,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is the lightweight snapshot denormalized into Match.ProductsInfo so
// match lists render without re-fetching the catalog.
func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:       p.ID,
		Title:    p.Title,
		ImageURL: p.ImageURL,
		OwnerID:  p.OwnerID,
		Price:    p.Price,
	}
}

type ProductSummary struct {
	ID       string `json:"id" firestore:"id"`
	Title    string `json:"title" firestore:"title"`
	ImageURL string `json:"image_url" firestore:"imageUrl"`
	OwnerID  string `json:"owner_id" firestore:"ownerId"`
	Price    int64  `json:"price" firestore:"price"`
}
