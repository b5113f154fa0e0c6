package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Validation errors
var (
	ErrInvalidTaxID        = errors.New("invalid tax ID")
	ErrInvalidCustomerName = errors.New("invalid customer name")
	ErrInvalidBirthDate    = errors.New("invalid birth date")
	ErrInvalidAddress      = errors.New("invalid address")
)

// Validation constants
const (
	MaxTaxIDLength    = 14
	MaxNameLength     = 255
	MaxAddressLength  = 255
	BirthDateLayout   = "02-01-2006" // dd-mm-yyyy
	MaxPageSize       = 1000
	DefaultPageSize   = 50
	minCustomerNameLn = 1
)

// ValidateTaxID checks that id is a non-empty string of digits.
func ValidateTaxID(id string) error {
	id = strings.TrimSpace(id)

	if id == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidTaxID)
	}

	if len(id) > MaxTaxIDLength {
		return fmt.Errorf("%w: exceeds %d digits", ErrInvalidTaxID, MaxTaxIDLength)
	}

	for _, r := range id {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: digits only", ErrInvalidTaxID)
		}
	}

	return nil
}

// ValidateCustomerName validates a customer's full name.
func ValidateCustomerName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < minCustomerNameLn {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidCustomerName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidCustomerName, MaxNameLength)
	}

	return nil
}

// ValidateAddress validates a free-form postal address.
func ValidateAddress(address string) error {
	address = strings.TrimSpace(address)

	if address == "" {
		return fmt.Errorf("%w: address cannot be empty", ErrInvalidAddress)
	}

	if len(address) > MaxAddressLength {
		return fmt.Errorf("%w: address exceeds %d characters", ErrInvalidAddress, MaxAddressLength)
	}

	return nil
}

// ParseBirthDate parses a dd-mm-yyyy date that is not in the future relative to now.
func ParseBirthDate(s string, now time.Time) (time.Time, error) {
	date, err := time.Parse(BirthDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: use dd-mm-yyyy", ErrInvalidBirthDate)
	}

	if date.After(now) {
		return time.Time{}, fmt.Errorf("%w: date is in the future", ErrInvalidBirthDate)
	}

	return date, nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
