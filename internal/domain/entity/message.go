package entity

import "time"

const (
	MessageTypeText     = "TEXT"
	MessageTypeProposal = "PROPOSAL"
)

const (
	ProposalPending  = "PENDING"
	ProposalAccepted = "ACCEPTED"
	ProposalRejected = "REJECTED"
)

// Message lives in the matches/{id}/messages subcollection. A PROPOSAL message
// carries an embedded swap proposal; the proposal is immutable once it leaves
// the PENDING state.
type Message struct {
	ID        string        `json:"id" firestore:"id"`
	SenderID  string        `json:"sender_id" firestore:"senderId"`
	Text      string        `json:"text" firestore:"text"`
	Type      string        `json:"type" firestore:"type"`
	Proposal  *SwapProposal `json:"proposal,omitempty" firestore:"proposal,omitempty"`
	CreatedAt time.Time     `json:"created_at" firestore:"createdAt"`
}

// SwapProposal is an itemized barter offer: quantities of the sender's
// products offered against quantities of the counterpart's products.
type SwapProposal struct {
	ID             string         `json:"id" firestore:"id"`
	SenderID       string         `json:"sender_id" firestore:"senderId"`
	OfferedItems   map[string]int `json:"offered_items" firestore:"offeredItems"`
	RequestedItems map[string]int `json:"requested_items" firestore:"requestedItems"`
	Status         string         `json:"status" firestore:"status"`
}

// ItemQuantities merges offered and requested items into the full set of
// products the settlement touches.
func (p *SwapProposal) ItemQuantities() map[string]int {
	merged := make(map[string]int, len(p.OfferedItems)+len(p.RequestedItems))
	for pid, qty := range p.OfferedItems {
		merged[pid] += qty
	}
	for pid, qty := range p.RequestedItems {
		merged[pid] += qty
	}
	return merged
}
