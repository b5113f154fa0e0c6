package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/bankledger/internal/adapter/http/middleware"
	"github.com/iho/bankledger/internal/adapter/repository/memory"
	"github.com/iho/bankledger/internal/usecase"
)

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Delete(ctx context.Context, key string) error {
	return nil
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	logger := zerolog.Nop()
	customerRepo := memory.NewCustomerRepository()
	accountRepo := memory.NewAccountRepository()
	events := usecase.NewEventRecorder(memory.NewNullOutboxRepository(), memory.NewULIDGenerator(), logger)

	customerUC := usecase.NewCustomerUseCase(customerRepo, events, nil, logger)
	accountUC := usecase.NewAccountUseCase(accountRepo, customerRepo, memory.NewAccountSequence(),
		usecase.DefaultAccountPolicy(), events, nil, logger)
	transactionUC := usecase.NewTransactionUseCase(customerUC, events, nil, logger)
	statementUC := usecase.NewStatementUseCase(accountRepo, customerUC)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo)

	cfg := RouterConfig{
		CustomerHandler:    handler.NewCustomerHandler(customerUC),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, statementUC),
		LedgerHandler:      handler.NewLedgerHandler(reconciliationUC),
		HealthHandler:      handler.NewHealthHandler(nil),
		Logger:             logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"disabled"`)
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/", strings.NewReader(`{}`))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Routes)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	want := map[string]bool{
		"POST /api/v1/customers/":                    false,
		"GET /api/v1/customers/{taxID}/accounts":     false,
		"POST /api/v1/accounts/":                     false,
		"POST /api/v1/accounts/{number}/deposits":    false,
		"POST /api/v1/accounts/{number}/withdrawals": false,
		"GET /api/v1/accounts/{number}/statement":    false,
		"GET /api/v1/ledger/consistency":             false,
	}

	err := chi.Walk(chiRoutes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		key := method + " " + route
		if _, ok := want[key]; ok {
			want[key] = true
		}
		return nil
	})
	require.NoError(t, err)

	for route, found := range want {
		assert.True(t, found, "route %s not registered", route)
	}
}

func TestNewRouter_EndToEndScenario(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := do(t, router, http.MethodPost, "/api/v1/customers/",
		`{"name":"Maria da Silva","birth_date":"15-03-1990","tax_id":"111","address":"Rua A, 10"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/v1/customers/",
		`{"name":"Other","birth_date":"01-01-1980","tax_id":"111","address":"Rua B"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate_identifier")

	rec = do(t, router, http.MethodPost, "/api/v1/accounts/", `{"tax_id":"111"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var account dto.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	require.Equal(t, int64(1), account.Number)

	steps := []struct {
		path   string
		amount string
		status int
		code   string
	}{
		{"/api/v1/accounts/1/withdrawals", "100.00", http.StatusUnprocessableEntity, "insufficient_funds"},
		{"/api/v1/accounts/1/deposits", "1000.00", http.StatusCreated, ""},
		{"/api/v1/accounts/1/withdrawals", "1500.00", http.StatusUnprocessableEntity, "overdraft_limit_exceeded"},
		{"/api/v1/accounts/1/withdrawals", "500.00", http.StatusCreated, ""},
		{"/api/v1/accounts/1/withdrawals", "1.00", http.StatusCreated, ""},
		{"/api/v1/accounts/1/withdrawals", "1.00", http.StatusCreated, ""},
		{"/api/v1/accounts/1/withdrawals", "1.00", http.StatusUnprocessableEntity, "withdrawal_count_exceeded"},
		{"/api/v1/accounts/1/deposits", "-5", http.StatusBadRequest, "invalid_amount"},
	}

	for _, step := range steps {
		rec = do(t, router, http.MethodPost, step.path, `{"tax_id":"111","amount":"`+step.amount+`"}`)
		require.Equal(t, step.status, rec.Code, "%s %s: %s", step.path, step.amount, rec.Body.String())
		if step.code != "" {
			assert.Contains(t, rec.Body.String(), step.code)
		}
	}

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/1/statement?tax_id=111&kind=Withdrawal", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stmt dto.StatementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stmt))
	assert.Len(t, stmt.Records, 3)
	assert.Equal(t, "498.00", stmt.Balance)

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/1/statement?kind=transfer", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/ledger/consistency", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"consistent":true`)
	assert.Contains(t, rec.Body.String(), `"balances":"498.00"`)
}
