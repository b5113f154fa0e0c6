package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/adapter/http/handler"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CustomerHandler    *handler.CustomerHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	// RateLimiter throttles every request per client IP when set.
	RateLimiter *middleware.RateLimiter
	// IdempotencyStore enables Idempotency-Key replay on /api/v1 when set.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	Logger zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Customers
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", cfg.CustomerHandler.Create)
			r.Get("/", cfg.CustomerHandler.List)
			r.Get("/{taxID}", cfg.CustomerHandler.Get)
			r.Get("/{taxID}/accounts", cfg.CustomerHandler.ListAccounts)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{number}", cfg.AccountHandler.Get)
			r.Post("/{number}/deposits", cfg.TransactionHandler.Deposit)
			r.Post("/{number}/withdrawals", cfg.TransactionHandler.Withdraw)
			r.Get("/{number}/statement", cfg.TransactionHandler.Statement)
		})

		// Ledger
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
