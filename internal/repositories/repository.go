package repositories

import (
	"context"

	"github.com/datahubke/datahub-payments-backend/internal/models"
)

// OrderHistoryRepository defines the append-only order history log.
// Entries are never updated or removed once written.
type OrderHistoryRepository interface {
	Append(ctx context.Context, entry *models.OrderHistoryEntry) error
	FindAll(ctx context.Context) ([]*models.OrderHistoryEntry, error)
	Count(ctx context.Context) (int64, error)
}
