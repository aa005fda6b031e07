package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/datahubke/datahub-payments-backend/api/routes"
	"github.com/datahubke/datahub-payments-backend/internal/config"
	"github.com/datahubke/datahub-payments-backend/internal/handlers"
	"github.com/datahubke/datahub-payments-backend/internal/repositories"
	mongorepo "github.com/datahubke/datahub-payments-backend/internal/repositories/mongodb"
	"github.com/datahubke/datahub-payments-backend/internal/services"
	"github.com/datahubke/datahub-payments-backend/pkg/logger"
	"github.com/datahubke/datahub-payments-backend/pkg/mongodb"
	"github.com/datahubke/datahub-payments-backend/pkg/payhero"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Connect to MongoDB
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongodb.NewClient(connectCtx, cfg.MongoDB.URI)
	cancelConnect()
	if err != nil {
		logg.Fatal("Failed to connect to MongoDB", logger.Field{Key: "error", Value: err.Error()})
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logg.Error("Error disconnecting from MongoDB", logger.Field{Key: "error", Value: err.Error()})
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Initialize the PayHero client
	payheroClient := payhero.NewClient(
		cfg.PayHero.BaseURL,
		cfg.PayHero.ChannelID,
		cfg.PayHero.Credentials,
		time.Duration(cfg.PayHero.TimeoutSeconds)*time.Second,
	)

	// Initialize repositories
	var historyRepo repositories.OrderHistoryRepository = mongorepo.NewOrderHistoryRepository(db)

	// Initialize services
	refs := services.NewReferenceGenerator()
	paymentService := services.NewPaymentService(payheroClient, refs, logg)
	orderService := services.NewOrderService(historyRepo, refs, logg)

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	orderHandler := handlers.NewOrderHandler(orderService)

	handlerDeps := routes.HandlerDependencies{
		PaymentHandler: paymentHandler,
		OrderHandler:   orderHandler,
	}

	router := routes.SetupRouter(cfg, logg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	logg.Info("Server starting", logger.Field{Key: "port", Value: cfg.Server.Port})

	// Run server in a goroutine so that it doesn't block
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("listen failed", logger.Field{Key: "error", Value: err.Error()})
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logg.Fatal("Server forced to shutdown", logger.Field{Key: "error", Value: err.Error()})
	}

	logg.Info("Server exiting")
}
