package domain

import (
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Record is an applied transaction as stored in an account history.
type Record struct {
	ID           string
	Kind         TransactionKind
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Timestamp    time.Time
}

// History is the append-only log of applied transactions for one account.
type History struct {
	mu      sync.RWMutex
	records []Record
	newID   func() string
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{
		newID: func() string { return ulid.Make().String() },
	}
}

// record appends a transaction. Callers hold the owning account's lock.
func (h *History) record(tx Transaction, balanceAfter decimal.Decimal, at time.Time) Record {
	rec := Record{
		ID:           h.newID(),
		Kind:         tx.Kind(),
		Amount:       tx.Amount(),
		BalanceAfter: balanceAfter,
		Timestamp:    at,
	}

	h.mu.Lock()
	h.records = append(h.records, rec)
	h.mu.Unlock()

	return rec
}

// Report yields records in insertion order, keeping only kinds matching filter
// (case-insensitive, empty matches all). Each iteration rescans the log.
func (h *History) Report(filter string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		// records is append-only, so a copy of the slice header is a stable view.
		h.mu.RLock()
		records := h.records
		h.mu.RUnlock()

		for _, rec := range records {
			if !rec.Kind.Matches(filter) {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Records collects Report(filter) into a slice.
func (h *History) Records(filter string) []Record {
	return slices.Collect(h.Report(filter))
}

// Len returns the number of records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// CountSince counts records of kind stamped at or after since.
// A zero since counts the whole history.
func (h *History) CountSince(kind TransactionKind, since time.Time) int {
	n := 0
	for rec := range h.Report(string(kind)) {
		if since.IsZero() || !rec.Timestamp.Before(since) {
			n++
		}
	}
	return n
}

// Totals sums recorded deposits and withdrawals.
func (h *History) Totals() (deposits, withdrawals decimal.Decimal) {
	deposits, withdrawals = decimal.Zero, decimal.Zero
	for rec := range h.Report("") {
		switch rec.Kind {
		case KindDeposit:
			deposits = deposits.Add(rec.Amount)
		case KindWithdrawal:
			withdrawals = withdrawals.Add(rec.Amount)
		}
	}
	return deposits, withdrawals
}
