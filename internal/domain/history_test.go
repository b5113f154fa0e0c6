package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(records []Record) []TransactionKind {
	out := make([]TransactionKind, len(records))
	for i, r := range records {
		out[i] = r.Kind
	}
	return out
}

func TestHistory_Report(t *testing.T) {
	acc := NewAccount(1, nil)
	ops := []Transaction{
		Deposit{Value: decimal.NewFromInt(100)},
		Withdrawal{Value: decimal.NewFromInt(10)},
		Deposit{Value: decimal.NewFromInt(5)},
		Withdrawal{Value: decimal.NewFromInt(20)},
	}
	for _, op := range ops {
		_, err := op.Apply(acc)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter string
		want   []TransactionKind
	}{
		{"no filter", "", []TransactionKind{KindDeposit, KindWithdrawal, KindDeposit, KindWithdrawal}},
		{"deposits", "Deposit", []TransactionKind{KindDeposit, KindDeposit}},
		{"case insensitive", "wItHdRaWaL", []TransactionKind{KindWithdrawal, KindWithdrawal}},
		{"unknown kind", "transfer", []TransactionKind{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := acc.History().Records(tt.filter)
			assert.Equal(t, tt.want, kinds(got))
		})
	}
}

func TestHistory_ReportIsRestartable(t *testing.T) {
	acc := NewAccount(1, nil)
	_, err := Deposit{Value: decimal.NewFromInt(100)}.Apply(acc)
	require.NoError(t, err)
	_, err = Withdrawal{Value: decimal.NewFromInt(40)}.Apply(acc)
	require.NoError(t, err)

	report := acc.History().Report("")

	var first, second []Record
	for rec := range report {
		first = append(first, rec)
	}
	for rec := range report {
		second = append(second, rec)
	}

	assert.Equal(t, first, second)
	assert.Equal(t, 2, acc.History().Len())
}

func TestHistory_ReportSeesLaterRecords(t *testing.T) {
	acc := NewAccount(1, nil)
	report := acc.History().Report("deposit")

	_, err := Deposit{Value: decimal.NewFromInt(1)}.Apply(acc)
	require.NoError(t, err)

	n := 0
	for range report {
		n++
	}
	assert.Equal(t, 1, n)
}

func TestHistory_ReportStopsEarly(t *testing.T) {
	acc := NewAccount(1, nil)
	for i := 0; i < 5; i++ {
		_, err := Deposit{Value: decimal.NewFromInt(1)}.Apply(acc)
		require.NoError(t, err)
	}

	n := 0
	for range acc.History().Report("") {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestHistory_RecordFields(t *testing.T) {
	ids := []string{"rec-1", "rec-2"}
	next := 0
	acc := NewAccount(1, nil, WithRecordIDs(func() string {
		id := ids[next]
		next++
		return id
	}))

	rec, err := Deposit{Value: decimal.RequireFromString("12.5")}.Apply(acc)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, KindDeposit, rec.Kind)
	assert.True(t, rec.Amount.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, rec.BalanceAfter.Equal(decimal.RequireFromString("12.5")))
	assert.False(t, rec.Timestamp.IsZero())

	rec, err = Withdrawal{Value: decimal.RequireFromString("2.5")}.Apply(acc)
	require.NoError(t, err)
	assert.Equal(t, "rec-2", rec.ID)
	assert.True(t, rec.BalanceAfter.Equal(decimal.NewFromInt(10)))
}

func TestHistory_Totals(t *testing.T) {
	h := NewHistory()
	h.record(Deposit{Value: decimal.NewFromInt(30)}, decimal.NewFromInt(30), fixedTime)
	h.record(Withdrawal{Value: decimal.NewFromInt(12)}, decimal.NewFromInt(18), fixedTime)

	deposits, withdrawals := h.Totals()
	assert.True(t, deposits.Equal(decimal.NewFromInt(30)))
	assert.True(t, withdrawals.Equal(decimal.NewFromInt(12)))
}
