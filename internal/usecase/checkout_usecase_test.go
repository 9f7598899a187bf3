package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapmarket/internal/domain/entity"
	"swapmarket/pkg/errors"
)

type checkoutFixture struct {
	uc            *CheckoutUseCase
	userRepo      *fakeUserRepo
	productRepo   *fakeProductRepo
	cartRepo      *fakeCartRepo
	orderRepo     *fakeOrderRepo
	notifications *fakeNotificationRepo
}

func newCheckoutFixture() *checkoutFixture {
	users := newFakeUserRepo(
		&entity.User{ID: "buyer", Name: "Buyer", Points: 1000},
		&entity.User{ID: "alice", Name: "Alice", Points: 0},
		&entity.User{ID: "bob", Name: "Bob", Points: 0},
	)
	products := newFakeProductRepo(
		&entity.Product{ID: "cam", OwnerID: "alice", Title: "Camera", Price: 100, Stock: 5},
		&entity.Product{ID: "gtr", OwnerID: "bob", Title: "Guitar", Price: 300, Stock: 1},
	)
	carts := newFakeCartRepo()
	orders := newFakeOrderRepo(users, products, carts)
	notifications := newFakeNotificationRepo()
	notifier := NewNotifier(notifications, users, nil, nil)

	return &checkoutFixture{
		uc:            NewCheckoutUseCase(carts, orders, products, notifier),
		userRepo:      users,
		productRepo:   products,
		cartRepo:      carts,
		orderRepo:     orders,
		notifications: notifications,
	}
}

func TestAddToCartOwnListingRejected(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.uc.AddToCart(context.Background(), "alice", "cam")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestAddToCartMergesRepeatedAdds(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	first, err := f.uc.AddToCart(ctx, "buyer", "cam")
	require.NoError(t, err)
	second, err := f.uc.AddToCart(ctx, "buyer", "cam")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)

	lines, _ := f.uc.ListCart(ctx, "buyer")
	assert.Len(t, lines, 1)
}

func TestAddToCartOutOfStock(t *testing.T) {
	f := newCheckoutFixture()
	f.productRepo.products["gtr"].Stock = 0

	_, err := f.uc.AddToCart(context.Background(), "buyer", "gtr")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInsufficient))
}

func TestUpdateQuantityClamped(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	line, err := f.uc.AddToCart(ctx, "buyer", "cam")
	require.NoError(t, err)

	updated, err := f.uc.UpdateQuantity(ctx, "buyer", line.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	updated, err = f.uc.UpdateQuantity(ctx, "buyer", line.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)
}

func TestCheckoutMultiSeller(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	camLine, err := f.uc.AddToCart(ctx, "buyer", "cam")
	require.NoError(t, err)
	_, err = f.uc.UpdateQuantity(ctx, "buyer", camLine.ID, 2)
	require.NoError(t, err)
	gtrLine, err := f.uc.AddToCart(ctx, "buyer", "gtr")
	require.NoError(t, err)

	orders, err := f.uc.Checkout(ctx, "buyer", []string{camLine.ID, gtrLine.ID})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	// Buyer debited once, each seller credited their subtotal.
	buyer, _ := f.userRepo.GetByID(ctx, "buyer")
	alice, _ := f.userRepo.GetByID(ctx, "alice")
	bob, _ := f.userRepo.GetByID(ctx, "bob")
	assert.Equal(t, int64(500), buyer.Points)
	assert.Equal(t, int64(200), alice.Points)
	assert.Equal(t, int64(300), bob.Points)

	// Stock decremented and purchased lines removed.
	cam, _ := f.productRepo.GetByID(ctx, "cam")
	gtr, _ := f.productRepo.GetByID(ctx, "gtr")
	assert.Equal(t, 3, cam.Stock)
	assert.Equal(t, 0, gtr.Stock)

	remaining, _ := f.uc.ListCart(ctx, "buyer")
	assert.Empty(t, remaining)

	// One ORDER notification per seller.
	aliceNotifs, _ := f.notifications.ListByUser(ctx, "alice")
	bobNotifs, _ := f.notifications.ListByUser(ctx, "bob")
	require.Len(t, aliceNotifs, 1)
	require.Len(t, bobNotifs, 1)
	assert.Equal(t, entity.NotificationOrder, aliceNotifs[0].Type)
}

func TestCheckoutInsufficientBalanceAborts(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	f.userRepo.users["buyer"].Points = 50

	line, err := f.uc.AddToCart(ctx, "buyer", "cam")
	require.NoError(t, err)

	_, err = f.uc.Checkout(ctx, "buyer", []string{line.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInsufficient))

	// Aborted checkout leaves everything untouched.
	buyer, _ := f.userRepo.GetByID(ctx, "buyer")
	alice, _ := f.userRepo.GetByID(ctx, "alice")
	cam, _ := f.productRepo.GetByID(ctx, "cam")
	assert.Equal(t, int64(50), buyer.Points)
	assert.Equal(t, int64(0), alice.Points)
	assert.Equal(t, 5, cam.Stock)

	remaining, _ := f.uc.ListCart(ctx, "buyer")
	assert.Len(t, remaining, 1)
	assert.Empty(t, f.notifications.notifications)
}

func TestCheckoutEmptySelection(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.uc.Checkout(context.Background(), "buyer", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestCheckoutUnknownLine(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.uc.Checkout(context.Background(), "buyer", []string{"ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
