package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	processingMarker = "processing"
)

// storedResponse is what gets cached per idempotency key.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays responses of mutating requests that carry an Idempotency-Key.
// Success and client error responses are replayed; server errors and panics release the key.
// Store failures are logged and the request proceeds without idempotency.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Warn().
				Err(err).
				Str("idempotency_key", key).
				Msg("idempotency store unavailable, serving without replay protection")
			next.ServeHTTP(w, r)
			return
		}

		if exists {
			m.replay(w, key, cached)
			return
		}

		// A panicking handler becomes a 500 upstream; the key must not stay in processing.
		defer func() {
			if p := recover(); p != nil {
				m.release(r.Context(), key)
				panic(p)
			}
		}()

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Server errors release the key so the client can retry.
		if recorder.statusCode >= http.StatusInternalServerError {
			m.release(r.Context(), key)
			return
		}

		stored := storedResponse{Status: recorder.statusCode}
		if recorder.body.Len() > 0 {
			stored.Body = json.RawMessage(recorder.body.Bytes())
		}

		payload, err := json.Marshal(stored)
		if err != nil {
			m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to encode idempotent response")
			m.release(r.Context(), key)
			return
		}

		if err := m.store.Update(r.Context(), key, payload, m.ttl); err != nil {
			m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotent response")
		}
	})
}

func (m *IdempotencyMiddleware) release(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, key string, cached []byte) {
	w.Header().Set("Content-Type", "application/json")

	var stored storedResponse
	if len(cached) == 0 || string(cached) == processingMarker || json.Unmarshal(cached, &stored) != nil || stored.Status == 0 {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"request_in_progress","message":"a request with this idempotency key is still in progress"}`))
		return
	}

	m.logger.Debug().Str("idempotency_key", key).Msg("replaying idempotent response")

	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(stored.Status)
	if len(stored.Body) > 0 && string(stored.Body) != "null" {
		_, _ = w.Write(stored.Body)
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
