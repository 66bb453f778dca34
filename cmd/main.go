package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnthoniusHendriyanto/eventhub-auth/config"
	"github.com/AnthoniusHendriyanto/eventhub-auth/db"
	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/handler"
	repo "github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/repository/postgres"
	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/secret"
	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/service"
	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	key, err := secret.New(cfg.JWTSecret, cfg.Env)
	if err != nil {
		zl.Fatal("Refusing to start with unusable JWT secret", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL, cfg.DBMaxConns)
	if err != nil {
		zl.Fatal("Failed to open database pool", zap.Error(err))
	}
	defer dbPool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, dbPool); err != nil {
			zl.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	hasher, err := service.NewPasswordHasher(service.HasherConfig{
		Algorithm:      cfg.PasswordAlgorithm,
		BcryptCost:     cfg.BcryptCost,
		Argon2Time:     cfg.Argon2Time,
		Argon2MemoryKB: cfg.Argon2MemoryKB,
		Argon2Threads:  cfg.Argon2Threads,
	})
	if err != nil {
		zl.Fatal("Invalid password hashing config", zap.Error(err))
	}

	userRepo := repo.NewPostgresRepositoryWithTimeout(dbPool, cfg.DBAcquireTimeout)
	tokenService := service.NewTokenService(key, cfg.TokenExpiry, cfg.TokenIssuer)
	userService := service.NewUserService(userRepo, tokenService, hasher, zl)
	authHandler := handler.NewAuthHandler(userService, tokenService, zl)
	healthHandler := handler.NewHealthHandler(dbPool, zl)

	app := handler.NewApp(zl, cfg.CORSAllowOrigins)
	handler.RegisterRoutes(app, authHandler, healthHandler)

	go func() {
		<-ctx.Done()
		zl.Info("Shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			zl.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	zl.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("password_algorithm", cfg.PasswordAlgorithm),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Error("Server stopped", zap.Error(err))
	}
}
