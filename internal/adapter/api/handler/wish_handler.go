package handler

import (
	"github.com/labstack/echo/v4"

	"swapmarket/internal/usecase"
	"swapmarket/pkg/response"
	"swapmarket/pkg/utils"
)

type WishHandler struct {
	wishUseCase *usecase.WishUseCase
}

func NewWishHandler(wishUseCase *usecase.WishUseCase) *WishHandler {
	return &WishHandler{
		wishUseCase: wishUseCase,
	}
}

type wishRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (h *WishHandler) Create(c echo.Context) error {
	var req wishRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	wish, err := h.wishUseCase.Create(c.Request().Context(), uid, usecase.WishInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, wish)
}

func (h *WishHandler) Get(c echo.Context) error {
	wish, err := h.wishUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, wish)
}

func (h *WishHandler) List(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	wishes, total, err := h.wishUseCase.List(c.Request().Context(), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, wishes, total, params.Page, params.PageSize)
}

func (h *WishHandler) Update(c echo.Context) error {
	var req wishRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	wish, err := h.wishUseCase.Update(c.Request().Context(), c.Param("id"), uid, usecase.WishInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, wish)
}

func (h *WishHandler) Delete(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.wishUseCase.Delete(c.Request().Context(), c.Param("id"), uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}

type offerRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func (h *WishHandler) Offer(c echo.Context) error {
	var req offerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	if err := h.wishUseCase.Offer(c.Request().Context(), c.Param("id"), uid, req.ProductID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "offered"})
}
