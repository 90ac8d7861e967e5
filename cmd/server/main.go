package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashbook/internal/config"
	"cashbook/internal/db"
	"cashbook/internal/handlers"
	"cashbook/internal/logger"
	"cashbook/internal/services"
	"cashbook/internal/store"
	"cashbook/internal/websocket"
	"cashbook/internal/whatsapp"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	database, err := db.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		zapLogger.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close()

	users := store.NewUserStore(database)
	profiles := store.NewProfileStore(database)
	books := store.NewBookStore(database)
	categories := store.NewCategoryStore(database)
	entries := store.NewEntryStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	loc := cfg.Location()
	ledger := services.NewLedgerService(txRunner, books, categories, entries, audit, hub, zapLogger).WithLocation(loc)
	reports := services.NewReportService(books, categories, entries, loc)
	processor := whatsapp.NewProcessor(profiles, ledger, zapLogger, cfg.WebhookSlow)

	var signatures handlers.SignatureValidator
	if cfg.SignatureValidationEnabled() {
		validator := whatsapp.NewSignatureValidator(cfg.TwilioAuthToken, cfg.PublicURL)
		signatures = validator
		zapLogger.Info("whatsapp signature validation enabled", zap.String("url", validator.URL()))
	} else {
		zapLogger.Warn("whatsapp signature validation disabled; set TWILIO_AUTH_TOKEN and PUBLIC_URL to enable")
	}

	handler := handlers.New(txRunner, cfg, zapLogger, users, profiles, audit, ledger, reports, processor, signatures, hub)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zapLogger.Info("cashbook API listening",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("timezone", loc.String()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown error", zap.Error(err))
	}
}
