package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/insightxpress/server/internal/analysis"
	"github.com/insightxpress/server/internal/completion"
	"github.com/insightxpress/server/internal/core"
	"github.com/insightxpress/server/internal/guard"
	"github.com/insightxpress/server/internal/model"
	"github.com/insightxpress/server/internal/prompt"
	"github.com/insightxpress/server/internal/server"
	"github.com/insightxpress/server/internal/session"
	logx "github.com/insightxpress/server/pkg/logger"
	pkgredis "github.com/insightxpress/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	HTTP     server.Config
	Redis    pkgredis.Config
	Provider model.ProviderConfig
	Guard    model.GuardConfig
	Session  model.SessionConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})

	// Session storage: in-memory by default, Redis when configured.
	var store session.Store
	switch cfg.Session.Store {
	case "redis":
		ttl, err := time.ParseDuration(cfg.Session.TTL)
		if err != nil {
			logx.Fatal().Err(err).Str("ttl", cfg.Session.TTL).Msg("invalid SESSION_TTL")
		}
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to initialise Redis client")
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb, ttl)
	default:
		store = session.NewMemoryStore()
	}

	// Guard: the OpenAI variant counts real tokens and moderates input; the
	// Groq variant uses the character approximation and has no moderation.
	var budget guard.Budget
	if cfg.Provider.Name == model.ProviderGroq {
		budget = guard.NewCharBudget(cfg.Guard.MaxInputTokens)
	} else {
		budget = guard.NewTokenBudget(cfg.Guard.MaxInputTokens)
	}
	validator := guard.NewValidator(budget)
	if cfg.Provider.ModerationEnabled() {
		var moderator guard.Moderator
		if key := cfg.Provider.APIKey(); key != "" {
			moderator = guard.NewOpenAIModerator(key)
		}
		validator = validator.WithModeration(moderator)
	}

	// A missing API key disables the pipeline, not the process.
	var completer completion.Completer
	if client, err := completion.Shared(ctx, cfg.Provider); err != nil {
		logx.Warn().Err(err).Str("provider", cfg.Provider.Name).Msg("completion client unavailable, pipeline disabled")
	} else {
		completer = client
	}

	pipe := analysis.New(validator, prompt.NewBuilder(cfg.Provider.PreviewRows()), completer, cfg.Provider.PreviewRows())
	srv := server.New(pipe, store, cfg.Session, cfg.Provider.Name)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: srv.Router(env),
	}

	go func() {
		logx.Info().
			Str("addr", cfg.HTTP.Addr).
			Str("provider", cfg.Provider.Name).
			Str("model", cfg.Provider.ResolvedModel()).
			Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("shutdown failed")
	}
	logx.Info().Msg("server stopped")
}
