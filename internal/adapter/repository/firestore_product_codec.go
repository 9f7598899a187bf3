package repository

import (
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"swapmarket/internal/domain/entity"
	"swapmarket/pkg/errors"
)

// productDoc is the wire form of a listing. The legacy mobile clients wrote
// price and stock as strings (sometimes with thousands separators), so the
// document keeps that encoding and the codec owns the conversion. Decoding
// fails closed: a malformed or negative value never reaches the engine.
type productDoc struct {
	ID          string    `firestore:"id"`
	OwnerID     string    `firestore:"ownerId"`
	OwnerName   string    `firestore:"ownerName"`
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	Price       string    `firestore:"price"`
	Stock       string    `firestore:"stock"`
	Condition   string    `firestore:"condition"`
	ImageURL    string    `firestore:"imageUri"`
	Images      []string  `firestore:"images"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func decodeProduct(doc *firestore.DocumentSnapshot) (*entity.Product, error) {
	var raw productDoc
	if err := doc.DataTo(&raw); err != nil {
		return nil, errors.Internal("Malformed product document", err)
	}

	price, err := parseWireInt64(raw.Price)
	if err != nil {
		return nil, errors.Internal("Malformed product price", err)
	}
	stock, err := parseWireInt(raw.Stock)
	if err != nil {
		return nil, errors.Internal("Malformed product stock", err)
	}

	return &entity.Product{
		ID:          doc.Ref.ID,
		OwnerID:     raw.OwnerID,
		OwnerName:   raw.OwnerName,
		Title:       raw.Title,
		Description: raw.Description,
		Price:       price,
		Stock:       stock,
		Condition:   raw.Condition,
		ImageURL:    raw.ImageURL,
		Images:      raw.Images,
		CreatedAt:   raw.CreatedAt,
	}, nil
}

func encodeProduct(product *entity.Product) *productDoc {
	return &productDoc{
		ID:          product.ID,
		OwnerID:     product.OwnerID,
		OwnerName:   product.OwnerName,
		Title:       product.Title,
		Description: product.Description,
		Price:       strconv.FormatInt(product.Price, 10),
		Stock:       strconv.Itoa(product.Stock),
		Condition:   product.Condition,
		ImageURL:    product.ImageURL,
		Images:      product.Images,
		CreatedAt:   product.CreatedAt,
	}
}

func parseWireInt64(s string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		cleaned = "0"
	}
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.BadRequest("negative value", nil)
	}
	return v, nil
}

func parseWireInt(s string) (int, error) {
	v, err := parseWireInt64(s)
	return int(v), err
}
