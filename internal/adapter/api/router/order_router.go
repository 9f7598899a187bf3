package router

import (
	"swapmarket/internal/adapter/api/handler"
	"swapmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupOrderRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	orderHandler := handler.GetOrderHandler()

	orders := e.Group("/v1/orders")
	orders.Use(authMiddleware.Authenticate)
	orders.GET("/purchases", orderHandler.ListPurchases)
	orders.GET("/sales", orderHandler.ListSales)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.POST("/:id/ship", orderHandler.ShipOrder)
	orders.POST("/:id/complete", orderHandler.CompleteOrder)
}
