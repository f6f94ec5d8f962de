package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/promptgate/promptgate-go/internal/ai"
	"github.com/promptgate/promptgate-go/internal/config"
	"github.com/promptgate/promptgate-go/internal/crypto"
	"github.com/promptgate/promptgate-go/internal/handler"
	"github.com/promptgate/promptgate-go/internal/repository"
	"github.com/promptgate/promptgate-go/internal/repository/memory"
	"github.com/promptgate/promptgate-go/internal/service"
)

type stores struct {
	users service.UserStore
	quota service.QuotaStore
	usage service.UsageStore
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	st, db, err := openStores(cfg)
	if err != nil {
		slog.Error("opening store failed", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	tokens := crypto.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	generator := ai.NewClient(cfg.OpenAIKey, logger,
		ai.WithBaseURL(cfg.OpenAIBaseURL),
		ai.WithModel(cfg.OpenAIModel),
	)

	quota := service.NewQuotaService(st.quota)
	usage := service.NewUsageService(st.usage)

	router := handler.NewRouter(handler.Deps{
		Tokens:             tokens,
		TokenTTL:           tokens.TTL(),
		Auth:               service.NewAuthService(st.users, quota, tokens),
		Users:              service.NewUserService(st.users, quota, tokens),
		Quota:              quota,
		Usage:              usage,
		Admin:              service.NewAdminService(st.users, quota, usage),
		Generate:           service.NewGenerateService(generator, quota),
		AuthRateLimitRPS:   cfg.AuthRateLimitRPS,
		AuthRateLimitBurst: cfg.AuthRateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openStores returns the configured persistence backend. The returned *sql.DB
// is nil for the memory store.
func openStores(cfg config.Config) (stores, *sql.DB, error) {
	if cfg.Store == "memory" {
		slog.Warn("using in-memory store, data is lost on restart")
		m := memory.New()
		return stores{users: m.Users(), quota: m.Quotas(), usage: m.Usage()}, nil, nil
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return stores{}, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return stores{}, nil, err
	}

	return stores{
		users: repository.NewUserRepository(db),
		quota: repository.NewQuotaRepository(db),
		usage: repository.NewUsageRepository(db),
	}, db, nil
}
