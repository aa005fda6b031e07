package handlers

import (
	"errors"
	"net/http"

	"github.com/datahubke/datahub-payments-backend/internal/models"
	"github.com/datahubke/datahub-payments-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// GetPlans handles GET /plans
func (h *OrderHandler) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.orderService.Plans()})
}

// GetOrderHistory handles GET /orders
func (h *OrderHandler) GetOrderHistory(c *gin.Context) {
	entries, err := h.orderService.History(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get orders: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetOrderCount handles GET /orders/count
func (h *OrderHandler) GetOrderCount(c *gin.Context) {
	count, err := h.orderService.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order count: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// CreateOrder handles POST /orders: validates the order and commits it to
// history with a fresh transaction ID.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validated, err := h.orderService.CreateOrder(order.Plan, order.SafaricomNumber, order.AirtelNumber)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.orderService.CompleteOrder(c.Request.Context(), validated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record order: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}
