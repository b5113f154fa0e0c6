package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Redis (leave empty to disable idempotency)
	RedisURL       string        `env:"REDIS_URL"       envDefault:""`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	BreakerTimeout time.Duration `env:"BREAKER_TIMEOUT" envDefault:"30s"`
	// RedisCallTimeout bounds each idempotency store call, retries included.
	RedisCallTimeout time.Duration `env:"REDIS_CALL_TIMEOUT" envDefault:"1s"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Rate limiting (0 RPS disables it)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"200"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Ledger
	BranchCode          string        `env:"BRANCH_CODE"           envDefault:"0001"`
	OverdraftLimit      string        `env:"OVERDRAFT_LIMIT"       envDefault:"500"`
	MaxDailyWithdrawals int           `env:"MAX_DAILY_WITHDRAWALS" envDefault:"3"`
	WithdrawalWindow    time.Duration `env:"WITHDRAWAL_WINDOW"     envDefault:"0s"`

	// Events
	EventPublishInterval time.Duration `env:"EVENT_PUBLISH_INTERVAL" envDefault:"5s"`
	EventBatchSize       int           `env:"EVENT_BATCH_SIZE"       envDefault:"100"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := cfg.CheckingPolicy(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// CheckingPolicy converts the ledger settings into the policy applied to new accounts.
func (c *Config) CheckingPolicy() (domain.CheckingPolicy, error) {
	limit, err := decimal.NewFromString(c.OverdraftLimit)
	if err != nil {
		return domain.CheckingPolicy{}, fmt.Errorf("OVERDRAFT_LIMIT: %w", err)
	}
	if limit.IsNegative() {
		return domain.CheckingPolicy{}, fmt.Errorf("OVERDRAFT_LIMIT must not be negative, got %s", c.OverdraftLimit)
	}
	if c.MaxDailyWithdrawals < 0 {
		return domain.CheckingPolicy{}, fmt.Errorf("MAX_DAILY_WITHDRAWALS must not be negative, got %d", c.MaxDailyWithdrawals)
	}
	if c.WithdrawalWindow < 0 {
		return domain.CheckingPolicy{}, fmt.Errorf("WITHDRAWAL_WINDOW must not be negative, got %s", c.WithdrawalWindow)
	}

	return domain.CheckingPolicy{
		OverdraftLimit:      limit,
		MaxDailyWithdrawals: c.MaxDailyWithdrawals,
		WithdrawalWindow:    c.WithdrawalWindow,
	}, nil
}
