package entity

import "time"

const (
	MatchTypeSwap   = "SWAP"
	MatchTypeNormal = "NORMAL"
)

// Match is the single shared negotiation context between two users. Its
// document id is the canonical pairing of the two user ids, so for any
// unordered pair at most one match exists and it is addressable without a
// query. User1 is always the lexicographically smaller id.
//
// User1LikedProductIDs holds the products user1 likes, which belong to user2
// (and vice versa). ProductsInfo denormalizes a display snapshot per product.
type Match struct {
	ID                   string                    `json:"id" firestore:"id"`
	Users                []string                  `json:"users" firestore:"users"`
	User1ID              string                    `json:"user1_id" firestore:"user1Id"`
	User2ID              string                    `json:"user2_id" firestore:"user2Id"`
	User1LikedProductIDs []string                  `json:"user1_liked_product_ids" firestore:"user1LikedProductIds"`
	User2LikedProductIDs []string                  `json:"user2_liked_product_ids" firestore:"user2LikedProductIds"`
	ProductsInfo         map[string]ProductSummary `json:"products_info" firestore:"productsInfo"`
	Type                 string                    `json:"type" firestore:"type"`
	LastMessage          string                    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	UpdatedAt            time.Time                 `json:"updated_at" firestore:"updatedAt"`
	CreatedAt            time.Time                 `json:"created_at" firestore:"createdAt"`
}

func (m *Match) HasParticipant(userID string) bool {
	for _, u := range m.Users {
		if u == userID {
			return true
		}
	}
	return false
}

// Counterpart returns the other participant's id.
func (m *Match) Counterpart(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// LikedBy returns the list of product ids the given participant has liked.
func (m *Match) LikedBy(userID string) []string {
	if m.User1ID == userID {
		return m.User1LikedProductIDs
	}
	return m.User2LikedProductIDs
}
