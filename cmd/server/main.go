package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bankledger/internal/adapter/http"
	"github.com/iho/bankledger/internal/adapter/http/handler"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/adapter/repository/memory"
	redisRepo "github.com/iho/bankledger/internal/adapter/repository/redis"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/eventpublisher"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/infrastructure/redis"
	"github.com/iho/bankledger/internal/usecase"
)

const (
	limiterCleanupInterval = time.Minute
	limiterMaxIdle         = 10 * time.Minute
	eventRetention         = time.Hour
)

func main() {
	// Setup bootstrap logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

// app is the wired server: HTTP handler plus the background workers it needs.
type app struct {
	handler     http.Handler
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
	redisClient *goredis.Client
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	policy, err := cfg.CheckingPolicy()
	if err != nil {
		return nil, err
	}

	m := metrics.New(reg)

	// Initialize repositories
	customerRepo := memory.NewCustomerRepository()
	accountRepo := memory.NewAccountRepository()
	outboxRepo := memory.NewOutboxRepository()
	idGen := memory.NewULIDGenerator()
	events := usecase.NewEventRecorder(outboxRepo, idGen, logger)

	// Initialize use cases
	customerUC := usecase.NewCustomerUseCase(customerRepo, events, m, logger)
	accountUC := usecase.NewAccountUseCase(accountRepo, customerRepo, memory.NewAccountSequence(),
		usecase.AccountPolicy{Branch: cfg.BranchCode, Checking: policy}, events, m, logger)
	transactionUC := usecase.NewTransactionUseCase(customerUC, events, m, logger)
	statementUC := usecase.NewStatementUseCase(accountRepo, customerUC)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo)

	a := &app{
		publisher: eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(logger.With().Str("component", "events").Logger()),
			Metrics:    m,
			Logger:     logger,
			BatchSize:  cfg.EventBatchSize,
			Interval:   cfg.EventPublishInterval,
			Retention:  eventRetention,
		}),
	}

	// Connect to Redis
	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		a.redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("connected to redis")

		retrier := redisRepo.NewRetrier().WithLogger(logger)
		breakerCfg := redisRepo.DefaultBreakerConfig()
		breakerCfg.Timeout = cfg.BreakerTimeout
		breakerCfg.CallTimeout = cfg.RedisCallTimeout
		idempotencyStore = redisRepo.NewBreakerStore(redisRepo.NewIdempotencyStore(a.redisClient, retrier), breakerCfg, logger)
	} else {
		logger.Warn().Msg("REDIS_URL not set, idempotency keys are ignored")
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// Create router
	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CustomerHandler:    handler.NewCustomerHandler(customerUC),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, statementUC),
		LedgerHandler:      handler.NewLedgerHandler(reconciliationUC),
		HealthHandler:      handler.NewHealthHandler(a.redisClient),
		MetricsHandler:     promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		RateLimiter:        a.rateLimiter,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Logger:             logger,
	})

	return a, nil
}

func (a *app) close() {
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
}

// cleanupLimiters evicts idle per-IP limiters until ctx is done.
func (a *app) cleanupLimiters(ctx context.Context, logger zerolog.Logger) {
	if a.rateLimiter == nil {
		return
	}

	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.rateLimiter.CleanupLimiters(limiterMaxIdle); n > 0 {
				logger.Debug().Int("removed", n).Msg("evicted idle rate limiters")
			}
		}
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	a, err := newApp(ctx, cfg, logger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	defer a.close()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go func() {
		if err := a.publisher.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("event publisher stopped")
		}
	}()
	go a.cleanupLimiters(workerCtx, logger)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}
