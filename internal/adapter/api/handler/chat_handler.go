package handler

import (
	"github.com/labstack/echo/v4"

	"swapmarket/internal/usecase"
	"swapmarket/pkg/response"
	"swapmarket/pkg/utils"
)

type ChatHandler struct {
	negotiationUseCase *usecase.NegotiationUseCase
}

func NewChatHandler(negotiationUseCase *usecase.NegotiationUseCase) *ChatHandler {
	return &ChatHandler{
		negotiationUseCase: negotiationUseCase,
	}
}

func (h *ChatHandler) GetMatchDetails(c echo.Context) error {
	uid := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	details, err := h.negotiationUseCase.GetMatchDetails(c.Request().Context(), c.Param("id"), uid, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, details)
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	message, err := h.negotiationUseCase.SendMessage(c.Request().Context(), c.Param("id"), uid, req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

type sendProposalRequest struct {
	OfferedItems   map[string]int `json:"offered_items"`
	RequestedItems map[string]int `json:"requested_items"`
}

func (h *ChatHandler) SendProposal(c echo.Context) error {
	var req sendProposalRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	message, err := h.negotiationUseCase.SendProposal(c.Request().Context(), c.Param("id"), uid, usecase.ProposalInput{
		OfferedItems:   req.OfferedItems,
		RequestedItems: req.RequestedItems,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) AcceptProposal(c echo.Context) error {
	uid := c.Get("uid").(string)

	order, err := h.negotiationUseCase.AcceptProposal(c.Request().Context(), c.Param("id"), c.Param("messageId"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *ChatHandler) RejectProposal(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.negotiationUseCase.RejectProposal(c.Request().Context(), c.Param("id"), c.Param("messageId"), uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "rejected"})
}

func (h *ChatHandler) ListSwapOrders(c echo.Context) error {
	uid := c.Get("uid").(string)

	orders, err := h.negotiationUseCase.ListSwapOrders(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, orders)
}

func (h *ChatHandler) GetSwapOrder(c echo.Context) error {
	uid := c.Get("uid").(string)

	order, err := h.negotiationUseCase.GetSwapOrder(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

type fulfillmentRequest struct {
	Action string `json:"action" validate:"required,oneof=SHIP RECEIVE"`
}

func (h *ChatHandler) UpdateFulfillment(c echo.Context) error {
	var req fulfillmentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	order, err := h.negotiationUseCase.UpdateFulfillment(c.Request().Context(), c.Param("id"), uid, req.Action)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}
