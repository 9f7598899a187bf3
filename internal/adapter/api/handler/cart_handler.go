package handler

import (
	"github.com/labstack/echo/v4"

	"swapmarket/internal/usecase"
	"swapmarket/pkg/response"
)

type CartHandler struct {
	checkoutUseCase *usecase.CheckoutUseCase
}

func NewCartHandler(checkoutUseCase *usecase.CheckoutUseCase) *CartHandler {
	return &CartHandler{
		checkoutUseCase: checkoutUseCase,
	}
}

type addToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	line, err := h.checkoutUseCase.AddToCart(c.Request().Context(), uid, req.ProductID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, line)
}

func (h *CartHandler) ListCart(c echo.Context) error {
	uid := c.Get("uid").(string)

	lines, err := h.checkoutUseCase.ListCart(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, lines)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	var req updateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	line, err := h.checkoutUseCase.UpdateQuantity(c.Request().Context(), uid, c.Param("id"), req.Quantity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, line)
}

func (h *CartHandler) RemoveLine(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.checkoutUseCase.RemoveLine(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "removed"})
}

type removeLinesRequest struct {
	LineIDs []string `json:"line_ids" validate:"required,min=1"`
}

func (h *CartHandler) RemoveLines(c echo.Context) error {
	var req removeLinesRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	if err := h.checkoutUseCase.RemoveLines(c.Request().Context(), uid, req.LineIDs); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "removed"})
}

type checkoutRequest struct {
	LineIDs []string `json:"line_ids" validate:"required,min=1"`
}

func (h *CartHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	orders, err := h.checkoutUseCase.Checkout(c.Request().Context(), uid, req.LineIDs)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, orders)
}
