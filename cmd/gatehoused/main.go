// Command gatehoused serves the authorization perimeter: a guard registry
// enforced by middleware in front of permission-checked resource handlers.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gatehouse-io/gatehouse/pkg/auth"
	"github.com/gatehouse-io/gatehouse/pkg/authz"
	"github.com/gatehouse-io/gatehouse/pkg/config"
	"github.com/gatehouse-io/gatehouse/pkg/guard"
	"github.com/gatehouse-io/gatehouse/pkg/limiter"
	"github.com/gatehouse-io/gatehouse/pkg/observability"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obsCfg := observability.DefaultConfig()
	obsCfg.Enabled = cfg.OTLPEndpoint != ""
	obsCfg.OTLPEndpoint = cfg.OTLPEndpoint
	provider, err := observability.New(ctx, obsCfg)
	if err != nil {
		logger.Error("observability init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	registry, err := buildRegistry(cfg, logger)
	if err != nil {
		logger.Error("registry build failed", "error", err)
		os.Exit(1)
	}

	if cfg.AuthSecret == "" {
		logger.Warn("GATEHOUSE_AUTH_SECRET not set, using an ephemeral secret; tokens will not survive restarts")
		cfg.AuthSecret = time.Now().Format(time.RFC3339Nano)
	}
	resolver := newJWTResolver(cfg.AuthSecret)

	evaluator := authz.NewEvaluator(resolver,
		authz.WithDecisionRecorder(provider),
	)

	var store limiter.Store
	if cfg.RedisAddr != "" {
		store = limiter.NewRedisStore(cfg.RedisAddr, "", 0)
		logger.Info("rate limiter: redis", "addr", cfg.RedisAddr)
	} else {
		store = limiter.NewMemoryStore()
		logger.Info("rate limiter: in-memory")
	}

	mux := http.NewServeMux()
	registerHandlers(mux, evaluator)

	var handler http.Handler = mux
	handler = auth.RateLimitMiddleware(store, limiter.Policy{
		RPM:   cfg.RateLimitRPM,
		Burst: cfg.RateLimitBurst,
	})(handler)
	handler = auth.GuardMiddleware(registry, resolver)(handler)
	handler = auth.CORSMiddleware(nil)(handler)
	handler = auth.RequestIDMiddleware(handler)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("gatehoused listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildRegistry loads the rule file when configured, otherwise the built-in
// defaults.
func buildRegistry(cfg *config.Config, logger *slog.Logger) (*guard.Registry, error) {
	if cfg.RuleFile == "" {
		logger.Info("guard registry: built-in default rule set")
		return guard.NewRegistry(guard.DefaultRuleSet()), nil
	}

	rs, prefixes, err := config.LoadRuleSet(cfg.RuleFile)
	if err != nil {
		return nil, err
	}
	logger.Info("guard registry: rule file loaded",
		"path", cfg.RuleFile,
		"guards", len(rs.Guards),
		"public", len(rs.Public),
		"bypass", len(rs.Bypass),
		"protected_prefixes", len(prefixes),
	)
	return guard.NewRegistry(rs, guard.WithProtectedPrefixes(prefixes...)), nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
