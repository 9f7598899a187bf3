package router

import (
	"swapmarket/internal/adapter/api/handler"
	"swapmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupCartRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	cartHandler := handler.GetCartHandler()

	cart := e.Group("/v1/cart")
	cart.Use(authMiddleware.Authenticate)
	cart.GET("", cartHandler.ListCart)
	cart.POST("", cartHandler.AddToCart)
	cart.PUT("/:id", cartHandler.UpdateQuantity)
	cart.DELETE("/:id", cartHandler.RemoveLine)
	cart.POST("/remove", cartHandler.RemoveLines)
	cart.POST("/checkout", cartHandler.Checkout)
}
