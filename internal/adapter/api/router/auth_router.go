package router

import (
	"swapmarket/internal/adapter/api/handler"
	"swapmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register)

	me := e.Group("/v1/me")
	me.Use(authMiddleware.Authenticate)
	me.GET("", authHandler.Me)
	me.PUT("/fcm-token", authHandler.UpdateFCMToken)
}
