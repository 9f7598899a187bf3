package handler

import (
	"swapmarket/internal/adapter/api/middleware"
	ws "swapmarket/internal/infrastructure/websocket"
	"swapmarket/internal/usecase"
)

var (
	authHandler         *AuthHandler
	productHandler      *ProductHandler
	matchHandler        *MatchHandler
	chatHandler         *ChatHandler
	cartHandler         *CartHandler
	orderHandler        *OrderHandler
	notificationHandler *NotificationHandler
	wishHandler         *WishHandler
	healthHandler       *HealthHandler
	webSocketHandler    *WebSocketHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	productUseCase *usecase.ProductUseCase,
	matchUseCase *usecase.MatchUseCase,
	negotiationUseCase *usecase.NegotiationUseCase,
	checkoutUseCase *usecase.CheckoutUseCase,
	orderUseCase *usecase.OrderUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	wishUseCase *usecase.WishUseCase,
	wsManager *ws.Manager,
	authMiddleware *middleware.AuthMiddleware,
) {
	authHandler = NewAuthHandler(authUseCase)
	productHandler = NewProductHandler(productUseCase)
	matchHandler = NewMatchHandler(matchUseCase)
	chatHandler = NewChatHandler(negotiationUseCase)
	cartHandler = NewCartHandler(checkoutUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	wishHandler = NewWishHandler(wishUseCase)
	healthHandler = NewHealthHandler()
	webSocketHandler = NewWebSocketHandler(wsManager, authMiddleware)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetMatchHandler() *MatchHandler {
	return matchHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetCartHandler() *CartHandler {
	return cartHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetWishHandler() *WishHandler {
	return wishHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}
