package mongodb

import (
	"context"
	"time"

	"github.com/datahubke/datahub-payments-backend/internal/models"
	"github.com/datahubke/datahub-payments-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderHistoryRepository implements the repositories.OrderHistoryRepository interface
type OrderHistoryRepository struct {
	collection *mongo.Collection
}

// NewOrderHistoryRepository creates a new OrderHistoryRepository
func NewOrderHistoryRepository(db *mongo.Database) repositories.OrderHistoryRepository {
	return &OrderHistoryRepository{
		collection: db.Collection("orders"),
	}
}

// Append inserts a completed order. There is deliberately no update or
// delete: history is append-only.
func (r *OrderHistoryRepository) Append(ctx context.Context, entry *models.OrderHistoryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindAll returns the full history, newest first
func (r *OrderHistoryRepository) FindAll(ctx context.Context) ([]*models.OrderHistoryEntry, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.OrderHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts all history entries
func (r *OrderHistoryRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
