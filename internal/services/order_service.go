package services

import (
	"context"
	"time"

	"github.com/datahubke/datahub-payments-backend/internal/models"
	"github.com/datahubke/datahub-payments-backend/internal/phone"
	"github.com/datahubke/datahub-payments-backend/internal/repositories"
	"github.com/datahubke/datahub-payments-backend/pkg/logger"
)

// Compile-time check to ensure OrderServiceImpl implements OrderService
var _ OrderService = (*OrderServiceImpl)(nil)

type OrderServiceImpl struct {
	historyRepo repositories.OrderHistoryRepository
	refs        *ReferenceGenerator
	plans       []models.Plan
	log         logger.Logger
}

func NewOrderService(historyRepo repositories.OrderHistoryRepository, refs *ReferenceGenerator, log logger.Logger) *OrderServiceImpl {
	return &OrderServiceImpl{
		historyRepo: historyRepo,
		refs:        refs,
		plans:       models.DefaultPlans(),
		log:         log,
	}
}

// Plans returns the data bundle catalog
func (s *OrderServiceImpl) Plans() []models.Plan {
	plans := make([]models.Plan, len(s.plans))
	copy(plans, s.plans)
	return plans
}

// CreateOrder validates the selection and numbers and builds an order.
// A blank Airtel number falls back to the Safaricom number, which then
// both pays for and receives the bundle.
func (s *OrderServiceImpl) CreateOrder(plan models.Plan, safaricomNumber, airtelNumber string) (*models.Order, error) {
	if !s.planOffered(plan) {
		return nil, &ValidationError{Message: MsgSelectPlan}
	}
	if !phone.IsSafaricom(safaricomNumber) {
		return nil, &ValidationError{Message: MsgInvalidSafaricomNumber}
	}
	if airtelNumber != "" && !phone.IsAirtel(airtelNumber) {
		return nil, &ValidationError{Message: MsgInvalidAirtelNumber}
	}

	if airtelNumber == "" {
		airtelNumber = safaricomNumber
	}

	return &models.Order{
		Plan:            plan,
		SafaricomNumber: safaricomNumber,
		AirtelNumber:    airtelNumber,
		CreatedAt:       time.Now(),
	}, nil
}

// CompleteOrder commits an order to history with a freshly generated
// transaction ID and status completed
func (s *OrderServiceImpl) CompleteOrder(ctx context.Context, order *models.Order) (*models.OrderHistoryEntry, error) {
	entry := &models.OrderHistoryEntry{
		TransactionID:   s.refs.NextTransactionID(),
		Plan:            order.Plan,
		SafaricomNumber: order.SafaricomNumber,
		AirtelNumber:    order.AirtelNumber,
		Status:          models.OrderStatusCompleted,
		CreatedAt:       order.CreatedAt,
	}

	if err := s.historyRepo.Append(ctx, entry); err != nil {
		s.log.Error("failed to record completed order",
			logger.Field{Key: "transactionId", Value: entry.TransactionID},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return nil, err
	}

	s.log.Info("order completed",
		logger.Field{Key: "transactionId", Value: entry.TransactionID},
		logger.Field{Key: "plan", Value: entry.Plan.Name},
	)
	return entry, nil
}

// History returns all recorded orders, newest first
func (s *OrderServiceImpl) History(ctx context.Context) ([]*models.OrderHistoryEntry, error) {
	return s.historyRepo.FindAll(ctx)
}

// Count returns the number of recorded orders
func (s *OrderServiceImpl) Count(ctx context.Context) (int64, error) {
	return s.historyRepo.Count(ctx)
}

func (s *OrderServiceImpl) planOffered(plan models.Plan) bool {
	for _, p := range s.plans {
		if p.Name == plan.Name && p.Price == plan.Price {
			return true
		}
	}
	return false
}
