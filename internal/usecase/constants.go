package usecase

import "time"

const (
	// maxNumberAttempts bounds how many generated account numbers are tried
	// before giving up on collisions with explicitly chosen numbers.
	maxNumberAttempts = 16

	// reconciliationPageSize is the page size used when walking every account
	reconciliationPageSize = 1000

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
