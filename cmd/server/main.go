package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusdesk/accounts/internal/api"
	"github.com/campusdesk/accounts/internal/api/handler"
	"github.com/campusdesk/accounts/internal/core/service"
	mongodb "github.com/campusdesk/accounts/internal/infrastructure/db/mongo"
	redisdb "github.com/campusdesk/accounts/internal/infrastructure/db/redis"
	"github.com/campusdesk/accounts/internal/infrastructure/notify"
	"github.com/campusdesk/accounts/internal/pkg/config"
	"github.com/campusdesk/accounts/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title                       Campus Accounts API
// @version                     1.0
// @description                 Registration, sessions, password reset and role-based administration of campus identities.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "accounts",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	// --- Adapters ---
	identities := mongodb.NewIdentityRepository(db)
	audit := mongodb.NewAuditRepository(db)
	if err := mongodb.EnsureIndexes(ctx, identities, audit); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}
	sessionStore := redisdb.NewSessionStore(rdb)
	resetTokens := redisdb.NewResetTokenStore(rdb)
	notifier := notify.NewLogNotifier(cfg.Auth.ResetURLBase, logger.Component("notify"))

	// --- Services ---
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	validator := service.NewCredentialValidator(identities, hasher)
	sessions := service.NewSessionManager(sessionStore, identities, cfg.JWTSecret, cfg.Auth.SessionTTL)
	authService := service.NewAuthService(identities, validator, hasher, sessions, audit, logger.Component("auth"))
	accountService := service.NewAccountService(identities, validator, hasher, sessions, resetTokens, notifier,
		cfg.Auth.ResetTokenTTL, audit, logger.Component("account"))
	adminService := service.NewAdminService(identities, validator, hasher, sessions, audit, logger.Component("admin"))

	if cfg.Bootstrap.AdminEmail != "" {
		if _, err := adminService.EnsureBootstrapAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to create bootstrap admin")
		}
	}

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Account:  accountService,
		Admin:    adminService,
		Sessions: sessions,
		Readiness: map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
	}, logger.Component("http"))

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("accounts service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
