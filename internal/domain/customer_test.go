package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCustomer_SelectAccount(t *testing.T) {
	single := NewCustomer("Ana", time.Time{}, "111", "Rua A")
	single.AddAccount(NewAccount(1, single))

	multi := NewCustomer("Bia", time.Time{}, "222", "Rua B")
	multi.AddAccount(NewAccount(2, multi))
	multi.AddAccount(NewAccount(3, multi))

	tests := []struct {
		name     string
		customer *Customer
		number   int64
		want     int64
		wantErr  error
	}{
		{"no accounts", NewCustomer("Caio", time.Time{}, "333", "Rua C"), 0, 0, ErrNoAccountSelected},
		{"single account auto-selected", single, 0, 1, nil},
		{"single account ignores choice", single, 99, 1, nil},
		{"multiple without choice", multi, 0, 0, ErrNoAccountSelected},
		{"multiple with owned choice", multi, 3, 3, nil},
		{"multiple with foreign choice", multi, 1, 0, ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.customer.SelectAccount(tt.number)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && got.Number != tt.want {
				t.Fatalf("expected account %d, got %d", tt.want, got.Number)
			}
		})
	}
}

func TestCustomer_ExecuteDoesNotCheckOwnership(t *testing.T) {
	owner := NewCustomer("Ana", time.Time{}, "111", "Rua A")
	other := NewCustomer("Bia", time.Time{}, "222", "Rua B")
	acc := NewAccount(1, owner)
	owner.AddAccount(acc)

	if _, err := other.Execute(acc, Deposit{Value: decimal.NewFromInt(10)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acc.Balance().Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected balance 10, got %s", acc.Balance())
	}
}

func TestCustomer_AccountsReturnsCopy(t *testing.T) {
	c := NewCustomer("Ana", time.Time{}, "111", "Rua A")
	c.AddAccount(NewAccount(1, c))

	accounts := c.Accounts()
	accounts[0] = nil

	if c.Accounts()[0] == nil {
		t.Fatal("mutating the returned slice must not affect the customer")
	}
}

func TestDirectoryLookups(t *testing.T) {
	a := NewCustomer("Ana", time.Time{}, "111", "Rua A")
	b := NewCustomer("Bia", time.Time{}, "222", "Rua B")
	customers := []*Customer{a, b}

	if got := FindCustomer("222", customers); got != b {
		t.Fatalf("expected Bia, got %+v", got)
	}
	if got := FindCustomer("999", customers); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}

	accounts := []*Account{NewAccount(1, a), NewAccount(2, b)}
	if got := FindAccount(2, accounts); got == nil || got.Owner != b {
		t.Fatalf("expected account 2 owned by Bia, got %+v", got)
	}
	if got := FindAccount(3, accounts); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
