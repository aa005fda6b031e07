// Package apiclient is the client side of this service's own HTTP
// surface. The checkout CLI uses it to charge and record orders through a
// running backend instead of touching the provider or the database
// directly.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/datahubke/datahub-payments-backend/internal/models"
	"github.com/go-resty/resty/v2"
)

// Client talks to a running DataHub payments backend
type Client struct {
	http *resty.Client
}

// New creates a client for the backend at baseURL
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
	}
}

// Plans fetches the data bundle catalog
func (c *Client) Plans(ctx context.Context) ([]models.Plan, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/plans")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("plans request status: %d", resp.StatusCode())
	}

	var body struct {
		Plans []models.Plan `json:"plans"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, err
	}
	return body.Plans, nil
}

// InitiateCharge sends the charge through POST /stk-push. It satisfies
// the checkout flow's payment hook.
func (c *Client) InitiateCharge(ctx context.Context, phoneNumber string, amount float64) (map[string]interface{}, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(models.STKPushRequest{Phone: phoneNumber, Amount: amount}).
		Post("/stk-push")
	if err != nil {
		return nil, err
	}

	var body struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("stk-push request status: %d", resp.StatusCode())
	}
	if !body.Success {
		return nil, errors.New(body.Message)
	}
	return body.Data, nil
}

// CompleteOrder records a finished order through POST /orders. The
// backend assigns the transaction ID.
func (c *Client) CompleteOrder(ctx context.Context, order *models.Order) (*models.OrderHistoryEntry, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(order).
		Post("/orders")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("orders request status: %d", resp.StatusCode())
	}

	var entry models.OrderHistoryEntry
	if err := json.Unmarshal(resp.Body(), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// History fetches all recorded orders, newest first
func (c *Client) History(ctx context.Context) ([]*models.OrderHistoryEntry, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/orders")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("orders request status: %d", resp.StatusCode())
	}

	var entries []*models.OrderHistoryEntry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
