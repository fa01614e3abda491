// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/boi-backend/internal/admin"
	"github.com/carterperez-dev/boi-backend/internal/auth"
	"github.com/carterperez-dev/boi-backend/internal/book"
	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/feedback"
	"github.com/carterperez-dev/boi-backend/internal/health"
	"github.com/carterperez-dev/boi-backend/internal/membership"
	"github.com/carterperez-dev/boi-backend/internal/middleware"
	"github.com/carterperez-dev/boi-backend/internal/order"
	"github.com/carterperez-dev/boi-backend/internal/server"
	"github.com/carterperez-dev/boi-backend/internal/user"
	"github.com/carterperez-dev/boi-backend/internal/userbook"
)

const (
	drainDelay     = 5 * time.Second
	authRatePerMin = 10
	authRateBurst  = 5
)

//nolint:funlen // bootstrap wires every module
func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, closer, err := bootstrap()
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck // flushed on exit

	core.SetExposeErrorDetail(!cfg.IsProduction())

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("tracing enabled", "endpoint", cfg.Otel.Endpoint)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Migrate.Auto {
		if err := runMigrations(ctx, db, logger); err != nil {
			return err
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	signer, err := auth.NewTokenSigner(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token signer ready", "algorithm", "ES256", "key_id", signer.KeyID())

	userSvc := user.NewService(user.NewRepository(db.DB))
	authSvc := auth.NewService(
		signer,
		userSvc,
		core.NewTokenBlacklist(redis.Client),
		cfg.ReservedEmails(),
		logger,
	)

	if len(cfg.Admin.Accounts) > 0 {
		if _, err := authSvc.SeedAdmins(ctx, cfg.Admin.Accounts); err != nil {
			return err
		}
	}

	bookHandler := book.NewHandler(book.NewService(book.NewRepository(db.DB)))
	userHandler := user.NewHandler(userSvc)
	authHandler := auth.NewHandler(authSvc)
	orderHandler := order.NewHandler(order.NewService(db.DB, logger))
	userBookHandler := userbook.NewHandler(userbook.NewService(userbook.NewRepository(db.DB)))
	membershipHandler := membership.NewHandler(membership.NewService(db.DB, nil, logger))
	feedbackHandler := feedback.NewHandler(feedback.NewService(db.DB, logger))
	adminHandler := admin.NewHandler(
		admin.NewService(db.DB, userSvc, nil),
		admin.Probes{DB: db, Cache: redis},
		userHandler,
		bookHandler,
	)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	if telemetry != nil {
		router.Use(middleware.Tracing)
	}
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics)
	}
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen:   true,
			BypassFunc: isOperational(cfg.Metrics.Path),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	router.Get("/.well-known/jwks.json", signer.JWKSHandler())
	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, core.MetricsHandler())
	}

	authenticator := middleware.Authenticator(authSvc)
	credentialLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(authRatePerMin, authRateBurst),
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		FailOpen: true,
	}).Handler

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, credentialLimiter)
		bookHandler.RegisterRoutes(r, authenticator)
		orderHandler.RegisterRoutes(r, authenticator)
		userBookHandler.RegisterRoutes(r, authenticator)
		membershipHandler.RegisterRoutes(r, authenticator)
		feedbackHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// isOperational exempts probes and scrapes from the global rate limit.
func isOperational(metricsPath string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		p := r.URL.Path
		return p == "/healthz" || p == "/livez" || p == "/readyz" ||
			p == metricsPath || strings.HasPrefix(p, "/.well-known/")
	}
}
