package main

import (
	"context"
	_ "propcoin/docs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propcoin/internal/config"
	"propcoin/internal/db"
	"propcoin/internal/email"
	"propcoin/internal/logger"
	"propcoin/internal/order"
	"propcoin/internal/pricing"
	"propcoin/internal/server"
	"propcoin/internal/sweeper"
	"propcoin/internal/user"
)

// @title PropCoin API
// @version 1.0
// @description Coin ledger and paid-action API for the property listing marketplace.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	logger.Init()
	logger.Info("Starting PropCoin application")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	pricingRepo := pricing.NewRepository(database)
	if err := pricingRepo.Seed(context.Background(), cfg.DefaultPropertyPostCost, cfg.DefaultContactRevealCost); err != nil {
		logger.Fatalf("Failed to seed pricing: %v", err)
	}

	userRepo := user.NewRepository(database)
	emailService := email.New(
		userRepo,
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer emailService.Close()
	logger.Info("Receipt service initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	orderRepo := order.NewRepository(database, cfg.OrderTTL)
	orderSweeper := sweeper.New(orderRepo, cfg.SweepInterval)
	go orderSweeper.Start(ctx)
	logger.Infof("Order sweeper started, interval %s", cfg.SweepInterval)

	srv := server.New(database, cfg, emailService)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()
	orderSweeper.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
