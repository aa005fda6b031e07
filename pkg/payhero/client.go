// Package payhero is the client for the PayHero payments API, which
// delivers M-Pesa STK push charges.
package payhero

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUnreachable indicates the charge request never got a response from
// the provider (timeout, DNS failure, connection refused).
var ErrUnreachable = fmt.Errorf("unable to reach payment provider")

// APIError is a rejection the PayHero API responded with. Status and
// message are relayed verbatim to the caller.
type APIError struct {
	StatusCode int
	Message    string
	Payload    map[string]interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payhero: status %d: %s", e.StatusCode, e.Message)
}

// ChargeRequest is the body of a PayHero charge call
type ChargeRequest struct {
	Amount            float64 `json:"amount"`
	PhoneNumber       string  `json:"phone_number"`
	ChannelID         int     `json:"channel_id"`
	ExternalReference string  `json:"external_reference"`
	Provider          string  `json:"provider"`
}

// Client represents a PayHero API client
type Client struct {
	channelID int
	http      *resty.Client
}

// NewClient creates a new PayHero API client. Credentials must already be
// base64-encoded; they are sent as-is in the Basic authorization header.
func NewClient(baseURL string, channelID int, credentials string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Authorization", "Basic "+credentials).
		SetHeader("Content-Type", "application/json")

	return &Client{
		channelID: channelID,
		http:      httpClient,
	}
}

// InitiateSTKPush sends a single best-effort charge attempt: one POST, no
// retries. The external reference distinguishes this attempt at the
// provider and must be fresh per call.
func (c *Client) InitiateSTKPush(ctx context.Context, phoneNumber string, amount float64, externalReference string) (map[string]interface{}, error) {
	body := ChargeRequest{
		Amount:            amount,
		PhoneNumber:       phoneNumber,
		ChannelID:         c.channelID,
		ExternalReference: externalReference,
		Provider:          "m-pesa",
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.IsError() {
		var payload map[string]interface{}
		_ = json.Unmarshal(resp.Body(), &payload)

		message := "Payment processing failed"
		if m, ok := payload["message"].(string); ok && m != "" {
			message = m
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Message:    message,
			Payload:    payload,
		}
	}

	var data map[string]interface{}
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return data, nil
}
