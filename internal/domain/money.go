package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// AmountPlaces is the number of decimal places amounts are displayed with.
	AmountPlaces = 2

	// TimestampLayout renders history timestamps as dd-mm-yyyy HH:MM:SS.
	TimestampLayout = "02-01-2006 15:04:05"
)

// ParseAmount parses a user supplied amount. Sign is not checked here,
// accounts reject non-positive amounts themselves.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}

	return amount, nil
}

// FormatAmount renders an amount with two decimal places.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountPlaces)
}

// FormatTimestamp renders t using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
