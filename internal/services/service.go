package services

import (
	"context"

	"github.com/datahubke/datahub-payments-backend/internal/models"
)

// PaymentService defines the interface for charge initiation
type PaymentService interface {
	// InitiateCharge validates and normalizes the phone/amount pair and
	// forwards a single charge request to the payment provider. The
	// returned map is the provider's payload on success. Failures are a
	// *ValidationError (no provider call made), a *payhero.APIError
	// (provider rejected the charge), an error wrapping
	// payhero.ErrUnreachable (no response), or any other local error.
	InitiateCharge(ctx context.Context, phone string, amount float64) (map[string]interface{}, error)
}

// OrderService defines the interface for order-related operations
type OrderService interface {
	// Plans returns the data bundle catalog.
	Plans() []models.Plan

	// CreateOrder builds an order after validating the plan against the
	// catalog and the numbers against the carrier prefix rules. A blank
	// Airtel number falls back to the Safaricom number.
	CreateOrder(plan models.Plan, safaricomNumber, airtelNumber string) (*models.Order, error)

	// CompleteOrder assigns a transaction ID and appends the order to
	// history with status completed. The transaction ID is generated
	// exactly once per completed order.
	CompleteOrder(ctx context.Context, order *models.Order) (*models.OrderHistoryEntry, error)

	// History returns all recorded orders, newest first.
	History(ctx context.Context) ([]*models.OrderHistoryEntry, error)

	// Count returns the number of recorded orders.
	Count(ctx context.Context) (int64, error)
}

// ProviderClient is the slice of the PayHero client the payment service
// depends on.
type ProviderClient interface {
	InitiateSTKPush(ctx context.Context, phoneNumber string, amount float64, externalReference string) (map[string]interface{}, error)
}
