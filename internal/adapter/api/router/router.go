package router

import (
	"swapmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupProductRouter(e, authMiddleware)
	SetupMatchRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupCartRouter(e, authMiddleware)
	SetupOrderRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupWishRouter(e, authMiddleware)
	SetupWebSocketRouter(e)
	SetupHealthRouter(e)
}
