package main

import (
	"errors"
	"log"
	"os"

	"cashbook/internal/config"
	"cashbook/internal/logger"
	"cashbook/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Usage: migrate [up|down]. Defaults to up.
func main() {
	cfg := config.Load()
	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		zapLogger.Fatal("failed to read migrations", zap.Error(err))
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed to open migrator", zap.Error(err))
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			zapLogger.Warn("failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		zapLogger.Fatal("unknown direction, want up or down", zap.String("direction", direction))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		zapLogger.Fatal("migration failed", zap.String("direction", direction), zap.Error(err))
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		zapLogger.Fatal("failed to read schema version", zap.Error(err))
	}
	zapLogger.Info("migrations applied", zap.String("direction", direction), zap.Uint("version", version), zap.Bool("dirty", dirty))
}
