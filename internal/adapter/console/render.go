package console

import (
	"fmt"
	"strings"

	"github.com/iho/bankledger/internal/domain"
)

const noTransactions = "No transactions recorded."

// RenderStatement prints records in history order followed by the balance.
// Timestamps are stored in UTC and shown in local time.
func RenderStatement(records []domain.Record, balance string) string {
	var b strings.Builder
	b.WriteString("\n======= STATEMENT =======\n")
	if len(records) == 0 {
		b.WriteString(noTransactions + "\n")
	}
	for _, r := range records {
		fmt.Fprintf(&b, "%s:\tR$ %s (%s)\n", r.Kind, domain.FormatAmount(r.Amount), domain.FormatTimestamp(r.Timestamp.Local()))
	}
	fmt.Fprintf(&b, "\nBalance:\t\tR$ %s\n", balance)
	b.WriteString("==========================\n")
	return b.String()
}

// RenderAccount prints one account block.
func RenderAccount(s domain.AccountSummary) string {
	return fmt.Sprintf("Branch:\t%s\nAccount:\t%d\nHolder:\t%s\n", s.Branch, s.Number, s.OwnerName)
}

// RenderAccounts prints the account listing.
func RenderAccounts(summaries []domain.AccountSummary) string {
	if len(summaries) == 0 {
		return "\nNo accounts registered.\n"
	}

	var b strings.Builder
	b.WriteString("\n================ ACCOUNTS ================\n")
	for _, s := range summaries {
		b.WriteString(strings.Repeat("=", 100) + "\n")
		b.WriteString(RenderAccount(s))
	}
	b.WriteString("==========================================\n")
	return b.String()
}

// RenderChoices prints the accounts a customer may operate on.
func RenderChoices(summaries []domain.AccountSummary) string {
	var b strings.Builder
	b.WriteString("\nAvailable accounts:\n")
	for i, s := range summaries {
		fmt.Fprintf(&b, "%d: Branch %s / Account %d\n", i+1, s.Branch, s.Number)
	}
	return b.String()
}
