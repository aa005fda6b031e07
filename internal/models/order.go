package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the terminal status of an order committed to history
type OrderStatus string

const (
	// OrderStatusCompleted is the only status this service records:
	// orders enter history after the payment life cycle finishes.
	OrderStatusCompleted OrderStatus = "completed"
)

// Order represents a confirmed data bundle purchase. The Safaricom number
// is charged; the Airtel number receives the bundle and defaults to the
// Safaricom number when the buyer leaves it blank.
type Order struct {
	Plan            Plan      `bson:"plan" json:"plan"`
	SafaricomNumber string    `bson:"safaricomNumber" json:"safaricomNumber"`
	AirtelNumber    string    `bson:"airtelNumber" json:"airtelNumber"`
	CreatedAt       time.Time `bson:"createdAt" json:"timestamp"`
}

// OrderHistoryEntry is an Order committed to the append-only history log
type OrderHistoryEntry struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TransactionID   string             `bson:"transactionId" json:"transactionId"`
	Plan            Plan               `bson:"plan" json:"plan"`
	SafaricomNumber string             `bson:"safaricomNumber" json:"safaricomNumber"`
	AirtelNumber    string             `bson:"airtelNumber" json:"airtelNumber"`
	Status          OrderStatus        `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
