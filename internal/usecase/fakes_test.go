package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"swapmarket/internal/domain/entity"
	"swapmarket/internal/domain/repository"
	"swapmarket/internal/domain/service"
	"swapmarket/pkg/errors"
)

// The fakes mirror the store's semantics in memory: one mutex per fake stands
// in for transactional isolation, so the invariant checks exercised here are
// the same ones the real adapters enforce inside RunTransaction.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SetFCMToken(ctx context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.FCMToken = token
	}
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		copied := *r.products[id]
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Product, error) {
	all, _, _ := r.List(ctx, 0, 0)
	var out []*entity.Product
	for _, p := range all {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

type fakeSwipeRepo struct {
	mu     sync.Mutex
	swipes map[string]*entity.SwipeRecord
	likes  map[string]*entity.Like
}

func newFakeSwipeRepo() *fakeSwipeRepo {
	return &fakeSwipeRepo{
		swipes: make(map[string]*entity.SwipeRecord),
		likes:  make(map[string]*entity.Like),
	}
}

func (r *fakeSwipeRepo) RecordSwipe(ctx context.Context, record *entity.SwipeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.swipes[record.UserID+"_"+record.ProductID] = record
	return nil
}

func (r *fakeSwipeRepo) ListSwipedProductIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, record := range r.swipes {
		if record.UserID == userID {
			ids = append(ids, record.ProductID)
		}
	}
	return ids, nil
}

func (r *fakeSwipeRepo) SaveLike(ctx context.Context, like *entity.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if like.ID == "" {
		like.ID = like.LikerID + "_" + like.ProductID
	}
	r.likes[like.ID] = like
	return nil
}

func (r *fakeSwipeRepo) hasReverseLike(likerID, productOwnerID string) (*entity.Like, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, like := range r.likes {
		if like.LikerID == productOwnerID && like.ProductOwnerID == likerID {
			return like, true
		}
	}
	return nil, false
}

type fakeMatchRepo struct {
	mu        sync.Mutex
	matches   map[string]*entity.Match
	swipeRepo *fakeSwipeRepo
}

func newFakeMatchRepo(swipeRepo *fakeSwipeRepo) *fakeMatchRepo {
	return &fakeMatchRepo{
		matches:   make(map[string]*entity.Match),
		swipeRepo: swipeRepo,
	}
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[id]
	if !ok {
		return nil, errors.NotFound("Match", nil)
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Match
	for _, match := range r.matches {
		if match.HasParticipant(userID) {
			copied := *match
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) RecordLike(ctx context.Context, likerID string, product *entity.Product) (*repository.LikeOutcome, error) {
	matchID := service.CanonicalMatchID(likerID, product.OwnerID)
	outcome := &repository.LikeOutcome{MatchID: matchID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if match, ok := r.matches[matchID]; ok {
		liked := match.LikedBy(likerID)
		for _, pid := range liked {
			if pid == product.ID {
				outcome.Matched = true
				return outcome, nil
			}
		}
		if match.User1ID == likerID {
			match.User1LikedProductIDs = append(match.User1LikedProductIDs, product.ID)
		} else {
			match.User2LikedProductIDs = append(match.User2LikedProductIDs, product.ID)
		}
		match.ProductsInfo[product.ID] = product.Summary()
		match.UpdatedAt = time.Now()
		outcome.Matched = true
		return outcome, nil
	}

	reverseLike, ok := r.swipeRepo.hasReverseLike(likerID, product.OwnerID)
	if !ok {
		return outcome, nil
	}

	user1, user2 := service.MatchRoles(likerID, product.OwnerID)
	likerLikes := []string{product.ID}
	counterpartLikes := []string{reverseLike.ProductID}
	user1Likes, user2Likes := likerLikes, counterpartLikes
	if user1 != likerID {
		user1Likes, user2Likes = counterpartLikes, likerLikes
	}

	r.matches[matchID] = &entity.Match{
		ID:                   matchID,
		Users:                []string{user1, user2},
		User1ID:              user1,
		User2ID:              user2,
		User1LikedProductIDs: user1Likes,
		User2LikedProductIDs: user2Likes,
		ProductsInfo: map[string]entity.ProductSummary{
			product.ID: product.Summary(),
		},
		Type:      entity.MatchTypeSwap,
		UpdatedAt: time.Now(),
		CreatedAt: time.Now(),
	}
	outcome.Matched = true
	outcome.Created = true
	return outcome, nil
}

func (r *fakeMatchRepo) UpdateLastMessage(ctx context.Context, matchID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if match, ok := r.matches[matchID]; ok {
		match.LastMessage = text
		match.UpdatedAt = time.Now()
	}
	return nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	messages map[string]map[string]*entity.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{messages: make(map[string]map[string]*entity.Message)}
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, matchID string, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	if r.messages[matchID] == nil {
		r.messages[matchID] = make(map[string]*entity.Message)
	}
	r.messages[matchID][message.ID] = message
	return nil
}

func (r *fakeChatRepo) GetMessage(ctx context.Context, matchID, messageID string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[matchID][messageID]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	copied := *message
	if message.Proposal != nil {
		proposal := *message.Proposal
		copied.Proposal = &proposal
	}
	return &copied, nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, matchID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Message
	for _, message := range r.messages[matchID] {
		copied := *message
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *fakeChatRepo) RejectProposal(ctx context.Context, matchID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[matchID][messageID]
	if !ok {
		return errors.NotFound("Message", nil)
	}
	if message.Proposal == nil {
		return errors.BadRequest("Message carries no proposal", nil)
	}
	if message.Proposal.Status != entity.ProposalPending {
		return errors.Conflict("Proposal already resolved")
	}
	message.Proposal.Status = entity.ProposalRejected
	return nil
}

func (r *fakeChatRepo) WatchMessages(ctx context.Context, matchID string) (<-chan []*entity.Message, error) {
	ch := make(chan []*entity.Message)
	close(ch)
	return ch, nil
}

type fakeSwapOrderRepo struct {
	mu          sync.Mutex
	orders      map[string]*entity.SwapOrder
	chatRepo    *fakeChatRepo
	matchRepo   *fakeMatchRepo
	productRepo *fakeProductRepo
}

func newFakeSwapOrderRepo(chatRepo *fakeChatRepo, matchRepo *fakeMatchRepo, productRepo *fakeProductRepo) *fakeSwapOrderRepo {
	return &fakeSwapOrderRepo{
		orders:      make(map[string]*entity.SwapOrder),
		chatRepo:    chatRepo,
		matchRepo:   matchRepo,
		productRepo: productRepo,
	}
}

func (r *fakeSwapOrderRepo) SettleProposal(ctx context.Context, matchID, messageID string, proposal *entity.SwapProposal) (*entity.SwapOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	message, ok := r.chatRepo.messages[matchID][messageID]
	if !ok {
		return nil, errors.NotFound("Proposal message", nil)
	}
	if message.Proposal == nil || message.Proposal.Status != entity.ProposalPending {
		return nil, errors.Conflict("Proposal already resolved")
	}

	match, ok := r.matchRepo.matches[matchID]
	if !ok {
		return nil, errors.NotFound("Match", nil)
	}

	quantities := message.Proposal.ItemQuantities()
	products := make(map[string]*entity.Product, len(quantities))
	r.productRepo.mu.Lock()
	for pid := range quantities {
		if product, ok := r.productRepo.products[pid]; ok {
			copied := *product
			products[pid] = &copied
		}
	}
	r.productRepo.mu.Unlock()

	plan, err := service.PlanSwapSettlement(quantities, products)
	if err != nil {
		return nil, err
	}

	r.productRepo.mu.Lock()
	for pid, stock := range plan.NewStock {
		r.productRepo.products[pid].Stock = stock
	}
	r.productRepo.mu.Unlock()

	message.Proposal.Status = entity.ProposalAccepted

	order := service.NewSwapOrder(uuid.New().String(), matchID, match.Users, quantities, plan.Items)
	order.CreatedAt = time.Now()
	r.orders[order.ID] = order

	return order, nil
}

func (r *fakeSwapOrderRepo) UpdateFulfillment(ctx context.Context, orderID, userID, action string) (*entity.SwapOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, errors.NotFound("Swap order", nil)
	}
	if !order.HasParticipant(userID) {
		return nil, errors.Forbidden("Not a participant of this swap order", nil)
	}

	switch action {
	case entity.FulfillmentShip:
		order.ShippingStatus[userID] = true
	case entity.FulfillmentReceive:
		order.ReceivingStatus[userID] = true
		if service.SwapCompleted(order.ReceivingStatus) {
			order.Status = entity.SwapOrderCompleted
		}
	default:
		return nil, errors.BadRequest("Unknown fulfillment action", nil)
	}

	copied := *order
	return &copied, nil
}

func (r *fakeSwapOrderRepo) GetByID(ctx context.Context, id string) (*entity.SwapOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Swap order", nil)
	}
	copied := *order
	return &copied, nil
}

func (r *fakeSwapOrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.SwapOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.SwapOrder
	for _, order := range r.orders {
		if order.HasParticipant(userID) {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	lines map[string]map[string]*entity.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{lines: make(map[string]map[string]*entity.CartItem)}
}

func (r *fakeCartRepo) Add(ctx context.Context, userID string, item *entity.CartItem) (*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lines[userID] == nil {
		r.lines[userID] = make(map[string]*entity.CartItem)
	}
	for _, line := range r.lines[userID] {
		if line.ProductID == item.ProductID {
			if line.Quantity < line.Stock {
				line.Quantity++
			}
			copied := *line
			return &copied, nil
		}
	}
	line := *item
	line.ID = uuid.New().String()
	line.AddedAt = time.Now()
	r.lines[userID][line.ID] = &line
	copied := line
	return &copied, nil
}

func (r *fakeCartRepo) GetByID(ctx context.Context, userID, lineID string) (*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line, ok := r.lines[userID][lineID]
	if !ok {
		return nil, errors.NotFound("Cart line", nil)
	}
	copied := *line
	return &copied, nil
}

func (r *fakeCartRepo) GetByIDs(ctx context.Context, userID string, lineIDs []string) ([]*entity.CartItem, error) {
	out := make([]*entity.CartItem, 0, len(lineIDs))
	for _, id := range lineIDs {
		line, err := r.GetByID(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func (r *fakeCartRepo) List(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.CartItem
	for _, line := range r.lines[userID] {
		copied := *line
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCartRepo) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	line, ok := r.lines[userID][lineID]
	if !ok {
		return errors.NotFound("Cart line", nil)
	}
	line.Quantity = quantity
	return nil
}

func (r *fakeCartRepo) Delete(ctx context.Context, userID, lineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines[userID], lineID)
	return nil
}

func (r *fakeCartRepo) DeleteMany(ctx context.Context, userID string, lineIDs []string) error {
	for _, id := range lineIDs {
		r.Delete(ctx, userID, id)
	}
	return nil
}

func (r *fakeCartRepo) WatchCart(ctx context.Context, userID string) (<-chan []*entity.CartItem, error) {
	ch := make(chan []*entity.CartItem)
	close(ch)
	return ch, nil
}

type fakeOrderRepo struct {
	mu          sync.Mutex
	orders      map[string]*entity.Order
	userRepo    *fakeUserRepo
	productRepo *fakeProductRepo
	cartRepo    *fakeCartRepo
}

func newFakeOrderRepo(userRepo *fakeUserRepo, productRepo *fakeProductRepo, cartRepo *fakeCartRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:      make(map[string]*entity.Order),
		userRepo:    userRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

func (r *fakeOrderRepo) Checkout(ctx context.Context, buyerID string, lines []*entity.CartItem) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buyer, err := r.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	products := make(map[string]*entity.Product)
	for _, line := range lines {
		if product, err := r.productRepo.GetByID(ctx, line.ProductID); err == nil {
			products[line.ProductID] = product
		}
	}

	plan, err := service.PlanCheckout(buyer, lines, products)
	if err != nil {
		return nil, err
	}

	r.userRepo.mu.Lock()
	r.userRepo.users[buyerID].Points -= plan.TotalCost
	for sellerID, credit := range plan.SellerCredits {
		if seller, ok := r.userRepo.users[sellerID]; ok {
			seller.Points += credit
		}
	}
	r.userRepo.mu.Unlock()

	r.productRepo.mu.Lock()
	for pid, stock := range plan.NewStock {
		r.productRepo.products[pid].Stock = stock
	}
	r.productRepo.mu.Unlock()

	now := time.Now()
	for _, order := range plan.Orders {
		order.ID = uuid.New().String()
		order.CreatedAt = now
		r.orders[order.ID] = order
	}

	for _, line := range lines {
		r.cartRepo.Delete(ctx, buyerID, line.ID)
	}

	return plan.Orders, nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, order := range r.orders {
		if order.BuyerID == buyerID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, order := range r.orders {
		if order.SellerID == sellerID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID, expected, next string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return errors.NotFound("Order", nil)
	}
	if order.Status != expected {
		return errors.Conflict("Order is " + order.Status + ", expected " + expected)
	}
	order.Status = next
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	list, _ := r.ListByUser(ctx, userID)
	count := 0
	for _, n := range list {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == notificationID {
			n.IsRead = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) WatchUnreadCount(ctx context.Context, userID string) (<-chan int, error) {
	ch := make(chan int)
	close(ch)
	return ch, nil
}
