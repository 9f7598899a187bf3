package handler

import (
	"github.com/labstack/echo/v4"

	"swapmarket/internal/usecase"
	"swapmarket/pkg/response"
	"swapmarket/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type productRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Price       int64    `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Condition   string   `json:"condition"`
	ImageURL    string   `json:"image_url"`
	Images      []string `json:"images"`
}

func (r *productRequest) toInput() usecase.CreateProductInput {
	return usecase.CreateProductInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Condition:   r.Condition,
		ImageURL:    r.ImageURL,
		Images:      r.Images,
	}
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	product, err := h.productUseCase.Create(c.Request().Context(), uid, req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	products, total, err := h.productUseCase.List(c.Request().Context(), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, params.Page, params.PageSize)
}

func (h *ProductHandler) ListMyProducts(c echo.Context) error {
	uid := c.Get("uid").(string)

	products, err := h.productUseCase.ListMine(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	product, err := h.productUseCase.Update(c.Request().Context(), c.Param("id"), uid, req.toInput())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.productUseCase.Delete(c.Request().Context(), c.Param("id"), uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
