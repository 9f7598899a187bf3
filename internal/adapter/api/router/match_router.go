package router

import (
	"swapmarket/internal/adapter/api/handler"
	"swapmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupMatchRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	matchHandler := handler.GetMatchHandler()

	swipes := e.Group("/v1/swipes")
	swipes.Use(authMiddleware.Authenticate)
	swipes.GET("/feed", matchHandler.SwipeFeed)
	swipes.POST("/like", matchHandler.Like)
	swipes.POST("/pass", matchHandler.Pass)

	matches := e.Group("/v1/matches")
	matches.Use(authMiddleware.Authenticate)
	matches.GET("", matchHandler.ListMatches)
}
