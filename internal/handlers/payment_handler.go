package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/datahubke/datahub-payments-backend/internal/models"
	"github.com/datahubke/datahub-payments-backend/internal/services"
	"github.com/datahubke/datahub-payments-backend/pkg/payhero"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// InitiateSTKPush handles POST /stk-push
func (h *PaymentHandler) InitiateSTKPush(c *gin.Context) {
	var req models.STKPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": services.MsgPhoneAndAmountRequired,
		})
		return
	}

	data, err := h.paymentService.InitiateCharge(c.Request.Context(), req.Phone, req.Amount)
	if err != nil {
		h.writeChargeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "STK Push sent successfully. Check your phone.",
		"data":    data,
	})
}

// writeChargeError maps the charge failure taxonomy onto the wire:
// validation failures are 400s, provider rejections keep the provider's
// status and message, everything else is a 500.
func (h *PaymentHandler) writeChargeError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var apiErr *payhero.APIError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": validationErr.Message,
		})
	case errors.As(err, &apiErr):
		c.JSON(apiErr.StatusCode, gin.H{
			"success": false,
			"message": apiErr.Message,
			"error":   apiErr.Payload,
		})
	case errors.Is(err, payhero.ErrUnreachable):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Network error. Please try again.",
			"error":   "Unable to reach payment provider",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}

// GetOrderStatus handles GET /order-status/:reference
//
// TODO: query PayHero's transaction status API once the account is
// enabled for it; until then this mirrors the fixed response the
// frontend expects.
func (h *PaymentHandler) GetOrderStatus(c *gin.Context) {
	reference := c.Param("reference")

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"reference": reference,
		"status":    string(models.OrderStatusCompleted),
		"message":   "Payment processed successfully",
	})
}

// Health handles GET /health
func (h *PaymentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "DataHub Payment Service",
	})
}
