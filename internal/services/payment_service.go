package services

import (
	"context"

	"github.com/datahubke/datahub-payments-backend/internal/phone"
	"github.com/datahubke/datahub-payments-backend/pkg/logger"
)

// Compile-time check to ensure PaymentServiceImpl implements PaymentService
var _ PaymentService = (*PaymentServiceImpl)(nil)

type PaymentServiceImpl struct {
	provider ProviderClient
	refs     *ReferenceGenerator
	log      logger.Logger
}

func NewPaymentService(provider ProviderClient, refs *ReferenceGenerator, log logger.Logger) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		provider: provider,
		refs:     refs,
		log:      log,
	}
}

// InitiateCharge validates the pair, normalizes the phone to the local
// form and forwards one charge request. No retries: each call is a single
// best-effort attempt.
func (s *PaymentServiceImpl) InitiateCharge(ctx context.Context, phoneNumber string, amount float64) (map[string]interface{}, error) {
	if phoneNumber == "" {
		return nil, &ValidationError{Message: MsgPhoneAndAmountRequired}
	}
	if amount <= 0 {
		return nil, &ValidationError{Message: MsgAmountNotPositive}
	}
	if !phone.MatchesAccepted(phoneNumber) {
		s.log.Warn("charge rejected: phone format", logger.Field{Key: "phone", Value: phoneNumber})
		return nil, &ValidationError{Message: MsgInvalidPhoneFormat}
	}

	normalized := phone.NormalizeLocal(phoneNumber)
	reference := s.refs.NextExternalReference()

	s.log.Info("initiating STK push",
		logger.Field{Key: "phone", Value: normalized},
		logger.Field{Key: "amount", Value: amount},
		logger.Field{Key: "reference", Value: reference},
	)

	data, err := s.provider.InitiateSTKPush(ctx, normalized, amount, reference)
	if err != nil {
		s.log.Error("STK push failed",
			logger.Field{Key: "reference", Value: reference},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return nil, err
	}

	s.log.Info("STK push accepted", logger.Field{Key: "reference", Value: reference})
	return data, nil
}
