package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/datahubke/datahub-payments-backend/internal/models"
	"github.com/datahubke/datahub-payments-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderService struct {
	plans       []models.Plan
	entries     []*models.OrderHistoryEntry
	count       int64
	createErr   error
	completeErr error
	historyErr  error
	completed   []*models.Order
}

func (s *stubOrderService) Plans() []models.Plan {
	return s.plans
}

func (s *stubOrderService) CreateOrder(plan models.Plan, safaricomNumber, airtelNumber string) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if airtelNumber == "" {
		airtelNumber = safaricomNumber
	}
	return &models.Order{Plan: plan, SafaricomNumber: safaricomNumber, AirtelNumber: airtelNumber}, nil
}

func (s *stubOrderService) CompleteOrder(ctx context.Context, order *models.Order) (*models.OrderHistoryEntry, error) {
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	s.completed = append(s.completed, order)
	return &models.OrderHistoryEntry{
		TransactionID:   "DH30012345",
		Plan:            order.Plan,
		SafaricomNumber: order.SafaricomNumber,
		AirtelNumber:    order.AirtelNumber,
		Status:          models.OrderStatusCompleted,
	}, nil
}

func (s *stubOrderService) History(ctx context.Context) ([]*models.OrderHistoryEntry, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.entries, nil
}

func (s *stubOrderService) Count(ctx context.Context) (int64, error) {
	if s.historyErr != nil {
		return 0, s.historyErr
	}
	return s.count, nil
}

func newOrderRouter(svc services.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewOrderHandler(svc)
	router.GET("/plans", handler.GetPlans)
	router.GET("/orders", handler.GetOrderHistory)
	router.GET("/orders/count", handler.GetOrderCount)
	router.POST("/orders", handler.CreateOrder)
	return router
}

func TestGetPlans(t *testing.T) {
	svc := &stubOrderService{plans: models.DefaultPlans()}
	router := newOrderRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plans", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Plans []models.Plan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Plans, 6)
	assert.Equal(t, "Daily 1GB", body.Plans[0].Name)
	assert.Equal(t, 20, body.Plans[0].Price)
}

func TestGetOrderHistory(t *testing.T) {
	svc := &stubOrderService{entries: []*models.OrderHistoryEntry{
		{TransactionID: "DH30012345", SafaricomNumber: "0712345678", Status: models.OrderStatusCompleted},
	}}
	router := newOrderRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.OrderHistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "DH30012345", entries[0].TransactionID)
}

func TestGetOrderHistory_RepositoryFailure(t *testing.T) {
	svc := &stubOrderService{historyErr: fmt.Errorf("mongo: connection refused")}
	router := newOrderRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to get orders")
}

func TestGetOrderCount(t *testing.T) {
	svc := &stubOrderService{count: 42}
	router := newOrderRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/count", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body["count"])
}

func TestCreateOrder(t *testing.T) {
	svc := &stubOrderService{}
	router := newOrderRouter(svc)

	payload := `{"plan": {"name": "Daily 1GB", "price": 20}, "safaricomNumber": "0712345678", "airtelNumber": ""}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var entry models.OrderHistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "DH30012345", entry.TransactionID)
	assert.Equal(t, models.OrderStatusCompleted, entry.Status)
	require.Len(t, svc.completed, 1)
	assert.Equal(t, "0712345678", svc.completed[0].AirtelNumber, "blank Airtel number falls back to Safaricom")
}

func TestCreateOrder_InvalidNumber(t *testing.T) {
	svc := &stubOrderService{createErr: &services.ValidationError{Message: services.MsgInvalidSafaricomNumber}}
	router := newOrderRouter(svc)

	payload := `{"plan": {"name": "Daily 1GB", "price": 20}, "safaricomNumber": "0100000000"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), services.MsgInvalidSafaricomNumber)
	assert.Empty(t, svc.completed)
}

func TestCreateOrder_RecordFailure(t *testing.T) {
	svc := &stubOrderService{completeErr: fmt.Errorf("mongo: write timeout")}
	router := newOrderRouter(svc)

	payload := `{"plan": {"name": "Daily 1GB", "price": 20}, "safaricomNumber": "0712345678"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to record order")
}
