package services

import (
	"context"
	"strings"
	"testing"

	"github.com/datahubke/datahub-payments-backend/internal/models"
	"github.com/datahubke/datahub-payments-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistoryRepo struct {
	entries []*models.OrderHistoryEntry
}

func (f *fakeHistoryRepo) Append(ctx context.Context, entry *models.OrderHistoryEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistoryRepo) FindAll(ctx context.Context) ([]*models.OrderHistoryEntry, error) {
	return f.entries, nil
}

func (f *fakeHistoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.entries)), nil
}

func newOrderService(repo *fakeHistoryRepo) *OrderServiceImpl {
	return NewOrderService(repo, NewReferenceGenerator(), logger.Nop())
}

func TestCreateOrder_Validation(t *testing.T) {
	svc := newOrderService(&fakeHistoryRepo{})
	daily := models.Plan{Name: "Daily 1GB", Price: 20}

	tests := []struct {
		name      string
		plan      models.Plan
		safaricom string
		airtel    string
		message   string
	}{
		{"unknown plan", models.Plan{Name: "Yearly 1TB", Price: 1}, "0712345678", "", MsgSelectPlan},
		{"tampered price", models.Plan{Name: "Daily 1GB", Price: 1}, "0712345678", "", MsgSelectPlan},
		{"invalid safaricom", daily, "0733000000", "", MsgInvalidSafaricomNumber},
		{"invalid airtel", daily, "0712345678", "0712345679", MsgInvalidAirtelNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(tt.plan, tt.safaricom, tt.airtel)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.message, validationErr.Message)
		})
	}
}

func TestCreateOrder_AirtelDefaultsToSafaricom(t *testing.T) {
	svc := newOrderService(&fakeHistoryRepo{})

	order, err := svc.CreateOrder(models.Plan{Name: "Daily 1GB", Price: 20}, "0712345678", "")
	require.NoError(t, err)

	assert.Equal(t, "0712345678", order.SafaricomNumber)
	assert.Equal(t, "0712345678", order.AirtelNumber)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestCompleteOrder_AppendsOnceWithTransactionID(t *testing.T) {
	repo := &fakeHistoryRepo{}
	svc := newOrderService(repo)

	order, err := svc.CreateOrder(models.Plan{Name: "Daily 1GB", Price: 20}, "0712345678", "0733000000")
	require.NoError(t, err)

	entry, err := svc.CompleteOrder(context.Background(), order)
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	assert.Same(t, entry, repo.entries[0])
	assert.True(t, strings.HasPrefix(entry.TransactionID, "DH"))
	assert.Len(t, entry.TransactionID, 10)
	assert.Equal(t, models.OrderStatusCompleted, entry.Status)
	assert.Equal(t, "0733000000", entry.AirtelNumber)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
