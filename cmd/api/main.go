package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/gridlight-solar/site-api/cmd/mainconfig"
	"github.com/gridlight-solar/site-api/internal/api/router"
	"github.com/gridlight-solar/site-api/internal/catalog"
	appconfig "github.com/gridlight-solar/site-api/internal/config"
	"github.com/gridlight-solar/site-api/internal/leads"
	"github.com/gridlight-solar/site-api/internal/notify"
	"github.com/gridlight-solar/site-api/internal/observability/metrics"
	"github.com/gridlight-solar/site-api/internal/ratelimit"
	"github.com/gridlight-solar/site-api/pkg/logging"
)

func main() {
	// Load .env if present (local development convenience)
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting site-api",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Postgres is optional: without it leads are kept in memory, which is
	// acceptable for preview deployments.
	pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
	}

	var repo leads.Repository
	var serviceCatalog catalog.Catalog = catalog.Default
	if pool != nil {
		repo = leads.NewPostgresRepository(pool)
		pgCatalog := catalog.NewPostgresCatalog(pool, logger)
		if err := pgCatalog.Refresh(ctx); err != nil {
			logger.Warn("service catalog refresh failed, using built-in list", "error", err)
		}
		serviceCatalog = pgCatalog
	} else {
		logger.Warn("DATABASE_URL not set, storing leads in memory")
		repo = leads.NewInMemoryRepository()
	}

	limiter := buildLimiter(cfg, logger)
	notifier := buildNotifier(ctx, cfg, logger)

	metricsHandler, intakeMetrics := setupIntakeMetrics()

	leadsHandler := leads.NewHandler(repo, limiter, notifier, serviceCatalog, logger,
		leads.WithMetrics(intakeMetrics),
		leads.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.HTTPRateLimitPerSecond,
		RateLimitBurst:     cfg.HTTPRateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func setupIntakeMetrics() (http.Handler, *metrics.IntakeMetrics) {
	registry := prometheus.NewRegistry()
	intakeMetrics := metrics.NewIntakeMetrics(registry)
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return handler, intakeMetrics
}

func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("postgres pool setup failed", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("postgres unreachable", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// buildLimiter prefers Redis so the submission window holds across
// replicas; the in-process limiter is the single-instance fallback.
func buildLimiter(cfg *appconfig.Config, logger *logging.Logger) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, rate limiting per process only")
		return ratelimit.NewMemoryLimiter(cfg.RateLimitWindow)
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	return ratelimit.NewRedisLimiter(client, "intake", cfg.RateLimitWindow, logger)
}

func buildNotifier(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) leads.Notifier {
	var sender notify.EmailSender

	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("AWS config load failed, lead notifications disabled", "error", err)
			break
		}
		if ses := notify.NewSESSender(mainconfig.NewSESClient(awsCfg, cfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); ses != nil {
			sender = ses
		}
	case "sendgrid":
		if sg := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sg != nil {
			sender = sg
		} else {
			logger.Warn("SENDGRID_API_KEY not set, lead notifications disabled")
		}
	case "":
		logger.Warn("EMAIL_PROVIDER not set, lead notifications disabled")
	default:
		logger.Warn("unknown EMAIL_PROVIDER, lead notifications disabled", "provider", cfg.EmailProvider)
	}

	return notify.NewService(sender, cfg.NotifyRecipients, "GridLight Solar", logger)
}
