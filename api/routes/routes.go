package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/datahubke/datahub-payments-backend/internal/config"
	"github.com/datahubke/datahub-payments-backend/internal/handlers"
	"github.com/datahubke/datahub-payments-backend/internal/middleware"
	"github.com/datahubke/datahub-payments-backend/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies groups the handlers the router needs
type HandlerDependencies struct {
	PaymentHandler *handlers.PaymentHandler
	OrderHandler   *handlers.OrderHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, log logger.Logger, deps HandlerDependencies) *gin.Engine {
	router := gin.New()

	// A panic anywhere in request processing becomes a generic 500
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("unhandled panic in request", logger.Field{Key: "panic", Value: recovered})
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
	}))

	// Add middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Payment routes
	router.POST("/stk-push", deps.PaymentHandler.InitiateSTKPush)
	router.GET("/order-status/:reference", deps.PaymentHandler.GetOrderStatus)

	// Health check
	router.GET("/health", deps.PaymentHandler.Health)

	// Catalog and order history routes
	router.GET("/plans", deps.OrderHandler.GetPlans)
	orders := router.Group("/orders")
	{
		orders.GET("", deps.OrderHandler.GetOrderHistory)
		orders.GET("/count", deps.OrderHandler.GetOrderCount)
		orders.POST("", deps.OrderHandler.CreateOrder)
	}

	// Static frontend with SPA fallback: unknown routes serve the main
	// page so client-side routing keeps working after a refresh.
	if cfg.Server.StaticDir != "" {
		index := filepath.Join(cfg.Server.StaticDir, "index.html")
		router.StaticFile("/", index)
		router.NoRoute(func(c *gin.Context) {
			asset := filepath.Join(cfg.Server.StaticDir, filepath.Clean(c.Request.URL.Path))
			if info, err := os.Stat(asset); err == nil && !info.IsDir() {
				c.File(asset)
				return
			}
			c.File(index)
		})
	}

	return router
}
