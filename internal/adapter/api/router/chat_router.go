package router

import (
	"swapmarket/internal/adapter/api/handler"
	"swapmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	matches := e.Group("/v1/matches")
	matches.Use(authMiddleware.Authenticate)
	matches.GET("/:id", chatHandler.GetMatchDetails)
	matches.POST("/:id/messages", chatHandler.SendMessage)
	matches.POST("/:id/proposals", chatHandler.SendProposal)
	matches.POST("/:id/proposals/:messageId/accept", chatHandler.AcceptProposal)
	matches.POST("/:id/proposals/:messageId/reject", chatHandler.RejectProposal)

	swapOrders := e.Group("/v1/swap-orders")
	swapOrders.Use(authMiddleware.Authenticate)
	swapOrders.GET("", chatHandler.ListSwapOrders)
	swapOrders.GET("/:id", chatHandler.GetSwapOrder)
	swapOrders.POST("/:id/fulfillment", chatHandler.UpdateFulfillment)
}
