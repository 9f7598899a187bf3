package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/infrastructure/ratelimit"
	"swapmarket/pkg/errors"
)

type negotiationFixture struct {
	uc          *NegotiationUseCase
	chatRepo    *fakeChatRepo
	matchRepo   *fakeMatchRepo
	swapOrders  *fakeSwapOrderRepo
	productRepo *fakeProductRepo
}

func newNegotiationFixture() *negotiationFixture {
	users := newFakeUserRepo(
		&entity.User{ID: "alice", Name: "Alice"},
		&entity.User{ID: "bob", Name: "Bob"},
	)
	products := newFakeProductRepo(
		&entity.Product{ID: "cam", OwnerID: "alice", Title: "Camera", Stock: 1},
		&entity.Product{ID: "gtr", OwnerID: "bob", Title: "Guitar", Stock: 1},
	)
	swipes := newFakeSwipeRepo()
	matches := newFakeMatchRepo(swipes)
	chat := newFakeChatRepo()
	swapOrders := newFakeSwapOrderRepo(chat, matches, products)
	notifications := newFakeNotificationRepo()
	notifier := NewNotifier(notifications, users, nil, nil)

	matches.matches["alice_bob"] = &entity.Match{
		ID:      "alice_bob",
		Users:   []string{"alice", "bob"},
		User1ID: "alice",
		User2ID: "bob",
		ProductsInfo: map[string]entity.ProductSummary{
			"cam": {ID: "cam", OwnerID: "alice", Title: "Camera"},
			"gtr": {ID: "gtr", OwnerID: "bob", Title: "Guitar"},
		},
		Type:      entity.MatchTypeSwap,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	uc := NewNegotiationUseCase(matches, chat, swapOrders, products, ratelimit.NewRateLimiter(), nil, notifier)
	return &negotiationFixture{
		uc:          uc,
		chatRepo:    chat,
		matchRepo:   matches,
		swapOrders:  swapOrders,
		productRepo: products,
	}
}

func (f *negotiationFixture) pendingProposal(t *testing.T, senderID string, offered, requested map[string]int) *entity.Message {
	t.Helper()
	message, err := f.uc.SendProposal(context.Background(), "alice_bob", senderID, ProposalInput{
		OfferedItems:   offered,
		RequestedItems: requested,
	})
	require.NoError(t, err)
	return message
}

func TestGetMatchDetailsRoleAware(t *testing.T) {
	f := newNegotiationFixture()
	match := f.matchRepo.matches["alice_bob"]
	match.User1LikedProductIDs = []string{"gtr"}
	match.User2LikedProductIDs = []string{"cam"}

	details, err := f.uc.GetMatchDetails(context.Background(), "alice_bob", "bob", 50, 0)
	require.NoError(t, err)

	assert.Equal(t, "alice", details.CounterpartID)
	assert.Equal(t, []string{"cam"}, details.MyLikedProductIDs)
	assert.Equal(t, []string{"gtr"}, details.TheirLikedProductIDs)

	// Listings come back live, not from the match snapshot.
	require.Contains(t, details.Products, "cam")
	assert.Equal(t, 1, details.Products["cam"].Stock)

	_, err = f.uc.GetMatchDetails(context.Background(), "alice_bob", "mallory", 50, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestSendMessageNonParticipant(t *testing.T) {
	f := newNegotiationFixture()

	_, err := f.uc.SendMessage(context.Background(), "alice_bob", "mallory", "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestSendProposalRejectsCounterpartItems(t *testing.T) {
	f := newNegotiationFixture()

	// Alice tries to offer Bob's guitar.
	_, err := f.uc.SendProposal(context.Background(), "alice_bob", "alice", ProposalInput{
		OfferedItems:   map[string]int{"gtr": 1},
		RequestedItems: map[string]int{},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestAcceptOwnProposalForbidden(t *testing.T) {
	f := newNegotiationFixture()
	message := f.pendingProposal(t, "alice", map[string]int{"cam": 1}, map[string]int{"gtr": 1})

	_, err := f.uc.AcceptProposal(context.Background(), "alice_bob", message.ID, "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestAcceptProposalSettles(t *testing.T) {
	f := newNegotiationFixture()
	ctx := context.Background()
	message := f.pendingProposal(t, "alice", map[string]int{"cam": 1}, map[string]int{"gtr": 1})

	order, err := f.uc.AcceptProposal(ctx, "alice_bob", message.ID, "bob")
	require.NoError(t, err)

	assert.Equal(t, entity.SwapOrderProcessing, order.Status)
	assert.ElementsMatch(t, []string{"alice", "bob"}, order.Users)

	// Stock decremented for both sides.
	cam, _ := f.productRepo.GetByID(ctx, "cam")
	gtr, _ := f.productRepo.GetByID(ctx, "gtr")
	assert.Equal(t, 0, cam.Stock)
	assert.Equal(t, 0, gtr.Stock)

	// Proposal is no longer pending.
	stored, _ := f.chatRepo.GetMessage(ctx, "alice_bob", message.ID)
	assert.Equal(t, entity.ProposalAccepted, stored.Proposal.Status)
}

func TestAcceptProposalTwiceConflicts(t *testing.T) {
	f := newNegotiationFixture()
	ctx := context.Background()
	message := f.pendingProposal(t, "alice", map[string]int{"cam": 1}, nil)

	_, err := f.uc.AcceptProposal(ctx, "alice_bob", message.ID, "bob")
	require.NoError(t, err)

	_, err = f.uc.AcceptProposal(ctx, "alice_bob", message.ID, "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestAcceptAfterRejectConflicts(t *testing.T) {
	f := newNegotiationFixture()
	ctx := context.Background()
	message := f.pendingProposal(t, "alice", map[string]int{"cam": 1}, nil)

	require.NoError(t, f.uc.RejectProposal(ctx, "alice_bob", message.ID, "bob"))

	_, err := f.uc.AcceptProposal(ctx, "alice_bob", message.ID, "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConflict))

	// Stock untouched by the failed settlement.
	cam, _ := f.productRepo.GetByID(ctx, "cam")
	assert.Equal(t, 1, cam.Stock)
}

func TestAcceptInsufficientStockAborts(t *testing.T) {
	f := newNegotiationFixture()
	ctx := context.Background()
	message := f.pendingProposal(t, "alice", map[string]int{"cam": 1}, map[string]int{"gtr": 2})

	_, err := f.uc.AcceptProposal(ctx, "alice_bob", message.ID, "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInsufficient))

	// Nothing was applied: stock intact, proposal still pending.
	cam, _ := f.productRepo.GetByID(ctx, "cam")
	assert.Equal(t, 1, cam.Stock)
	stored, _ := f.chatRepo.GetMessage(ctx, "alice_bob", message.ID)
	assert.Equal(t, entity.ProposalPending, stored.Proposal.Status)
}

func TestConcurrentAcceptsExactlyOneWins(t *testing.T) {
	f := newNegotiationFixture()
	ctx := context.Background()

	// Two proposals both claiming the single camera.
	first := f.pendingProposal(t, "alice", map[string]int{"cam": 1}, nil)
	second := f.pendingProposal(t, "alice", map[string]int{"cam": 1}, nil)

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = f.uc.AcceptProposal(ctx, "alice_bob", first.ID, "bob")
	}()
	go func() {
		defer wg.Done()
		_, results[1] = f.uc.AcceptProposal(ctx, "alice_bob", second.ID, "bob")
	}()
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	cam, _ := f.productRepo.GetByID(ctx, "cam")
	assert.Equal(t, 0, cam.Stock)
	assert.Len(t, f.swapOrders.orders, 1)
}

func TestFulfillmentCompletion(t *testing.T) {
	f := newNegotiationFixture()
	ctx := context.Background()
	message := f.pendingProposal(t, "alice", map[string]int{"cam": 1}, nil)

	order, err := f.uc.AcceptProposal(ctx, "alice_bob", message.ID, "bob")
	require.NoError(t, err)

	order, err = f.uc.UpdateFulfillment(ctx, order.ID, "alice", entity.FulfillmentShip)
	require.NoError(t, err)
	assert.Equal(t, entity.SwapOrderProcessing, order.Status)

	order, err = f.uc.UpdateFulfillment(ctx, order.ID, "alice", entity.FulfillmentReceive)
	require.NoError(t, err)
	assert.Equal(t, entity.SwapOrderProcessing, order.Status)

	order, err = f.uc.UpdateFulfillment(ctx, order.ID, "bob", entity.FulfillmentReceive)
	require.NoError(t, err)
	assert.Equal(t, entity.SwapOrderCompleted, order.Status)
}

func TestFulfillmentNonParticipant(t *testing.T) {
	f := newNegotiationFixture()
	ctx := context.Background()
	message := f.pendingProposal(t, "alice", map[string]int{"cam": 1}, nil)

	order, err := f.uc.AcceptProposal(ctx, "alice_bob", message.ID, "bob")
	require.NoError(t, err)

	_, err = f.uc.UpdateFulfillment(ctx, order.ID, "mallory", entity.FulfillmentShip)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeForbidden))
}

func TestFulfillmentInvalidAction(t *testing.T) {
	f := newNegotiationFixture()

	_, err := f.uc.UpdateFulfillment(context.Background(), "whatever", "alice", "TELEPORT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}
