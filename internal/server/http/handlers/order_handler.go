package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/server/http/dto"
)

// IdempotencyKeyHeader lets clients retry checkout without creating duplicates.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler manages checkout and order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed order payload")
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentUserID(c), orderDraftFromRequest(req, key))
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, orderResponse(order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.GetOrder(c.Request.Context(), c.Param("id"), CurrentUserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

// BuyerOrders handles GET /api/user/orders.
func (h *OrderHandler) BuyerOrders(c *gin.Context) {
	orders, err := h.facade.BuyerOrders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, ordersResponse(orders))
}

// SellerOrders handles GET /api/seller/orders.
func (h *OrderHandler) SellerOrders(c *gin.Context) {
	orders, err := h.facade.SellerOrders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, ordersResponse(orders))
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed status payload")
		return
	}

	status, ok := model.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !ok {
		WriteError(c, domainErrors.ErrInvalidStatus)
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("id"), CurrentUserID(c), status)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

// Cancel handles PUT /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.facade.CancelOrder(c.Request.Context(), c.Param("id"), CurrentUserID(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}
