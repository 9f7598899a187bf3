package router

import (
	"swapmarket/internal/adapter/api/handler"
	"swapmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupWishRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	wishHandler := handler.GetWishHandler()

	wishes := e.Group("/v1/wishes")
	wishes.GET("", wishHandler.List)
	wishes.GET("/:id", wishHandler.Get)

	authed := e.Group("/v1/wishes")
	authed.Use(authMiddleware.Authenticate)
	authed.POST("", wishHandler.Create)
	authed.PUT("/:id", wishHandler.Update)
	authed.DELETE("/:id", wishHandler.Delete)
	authed.POST("/:id/offer", wishHandler.Offer)
}
