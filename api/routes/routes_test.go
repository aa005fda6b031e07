package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/datahubke/datahub-payments-backend/internal/config"
	"github.com/datahubke/datahub-payments-backend/internal/handlers"
	"github.com/datahubke/datahub-payments-backend/internal/models"
	"github.com/datahubke/datahub-payments-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopPaymentService struct{}

func (noopPaymentService) InitiateCharge(ctx context.Context, phone string, amount float64) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

type noopOrderService struct{}

func (noopOrderService) Plans() []models.Plan { return models.DefaultPlans() }
func (noopOrderService) CreateOrder(plan models.Plan, safaricomNumber, airtelNumber string) (*models.Order, error) {
	return &models.Order{}, nil
}
func (noopOrderService) CompleteOrder(ctx context.Context, order *models.Order) (*models.OrderHistoryEntry, error) {
	return &models.OrderHistoryEntry{}, nil
}
func (noopOrderService) History(ctx context.Context) ([]*models.OrderHistoryEntry, error) {
	return nil, nil
}
func (noopOrderService) Count(ctx context.Context) (int64, error) { return 0, nil }

func newTestRouter(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.AllowedOrigins = []string{"http://localhost:8000"}
	cfg.Server.StaticDir = staticDir

	return SetupRouter(cfg, logger.Nop(), HandlerDependencies{
		PaymentHandler: handlers.NewPaymentHandler(noopPaymentService{}),
		OrderHandler:   handlers.NewOrderHandler(noopOrderService{}),
	})
}

func TestSetupRouter_RegistersAPIRoutes(t *testing.T) {
	router := newTestRouter(t, "")

	for _, path := range []string{"/health", "/plans", "/orders", "/orders/count", "/order-status/DH1"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "GET %s", path)
	}
}

func TestSetupRouter_CORSHeaders(t *testing.T) {
	router := newTestRouter(t, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/stk-push", nil)
	req.Header.Set("Origin", "http://localhost:8000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouter_SPAFallback(t *testing.T) {
	staticDir := t.TempDir()
	index := []byte("<html>checkout</html>")
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), index, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log(1)"), 0o644))

	router := newTestRouter(t, staticDir)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(index), w.Body.String())

	// A real asset is served as-is.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	// Anything unknown falls back to the main page.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/some/client/route", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(index), w.Body.String())
}
