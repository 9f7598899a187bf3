package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"swapmarket/internal/usecase"
	"swapmarket/pkg/response"
)

type MatchHandler struct {
	matchUseCase *usecase.MatchUseCase
}

func NewMatchHandler(matchUseCase *usecase.MatchUseCase) *MatchHandler {
	return &MatchHandler{
		matchUseCase: matchUseCase,
	}
}

func (h *MatchHandler) SwipeFeed(c echo.Context) error {
	uid := c.Get("uid").(string)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	feed, err := h.matchUseCase.SwipeFeed(c.Request().Context(), uid, limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, feed)
}

type swipeRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func (h *MatchHandler) Like(c echo.Context) error {
	var req swipeRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	result, err := h.matchUseCase.RecordLike(c.Request().Context(), uid, req.ProductID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *MatchHandler) Pass(c echo.Context) error {
	var req swipeRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	if err := h.matchUseCase.RecordPass(c.Request().Context(), uid, req.ProductID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "recorded"})
}

func (h *MatchHandler) ListMatches(c echo.Context) error {
	uid := c.Get("uid").(string)

	matches, err := h.matchUseCase.ListMatches(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, matches)
}
