package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected idempotency to be disabled by default, got %q", cfg.RedisURL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.BranchCode != "0001" {
		t.Fatalf("expected default branch 0001, got %s", cfg.BranchCode)
	}

	policy, err := cfg.CheckingPolicy()
	if err != nil {
		t.Fatalf("unexpected policy error: %v", err)
	}
	if !policy.OverdraftLimit.Equal(decimal.NewFromInt(500)) || policy.MaxDailyWithdrawals != 3 || policy.WithdrawalWindow != 0 {
		t.Fatalf("unexpected default policy: %+v", policy)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("IDEMPOTENCY_TTL", "1h")
	t.Setenv("OVERDRAFT_LIMIT", "250.50")
	t.Setenv("MAX_DAILY_WITHDRAWALS", "5")
	t.Setenv("WITHDRAWAL_WINDOW", "24h")
	t.Setenv("RATE_LIMIT_RPS", "0")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.IdempotencyTTL != time.Hour {
		t.Fatalf("expected idempotency TTL override, got %s", cfg.IdempotencyTTL)
	}

	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}

	policy, err := cfg.CheckingPolicy()
	if err != nil {
		t.Fatalf("unexpected policy error: %v", err)
	}
	if !policy.OverdraftLimit.Equal(decimal.RequireFromString("250.5")) {
		t.Fatalf("expected overdraft limit override, got %s", policy.OverdraftLimit)
	}
	if policy.MaxDailyWithdrawals != 5 || policy.WithdrawalWindow != 24*time.Hour {
		t.Fatalf("expected withdrawal overrides, got %+v", policy)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadInvalidPolicy(t *testing.T) {
	tests := map[string]string{
		"OVERDRAFT_LIMIT":       "five hundred",
		"MAX_DAILY_WITHDRAWALS": "-1",
		"WITHDRAWAL_WINDOW":     "-1h",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}
