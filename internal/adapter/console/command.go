package console

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand is returned by ParseCommand for options outside the menu.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a menu option.
type Command string

const (
	CommandDeposit      Command = "d"
	CommandWithdraw     Command = "s"
	CommandStatement    Command = "e"
	CommandNewCustomer  Command = "nu"
	CommandNewAccount   Command = "nc"
	CommandListAccounts Command = "lc"
	CommandQuit         Command = "q"
)

var commands = []struct {
	cmd   Command
	label string
}{
	{CommandDeposit, "Deposit"},
	{CommandWithdraw, "Withdraw"},
	{CommandStatement, "Statement"},
	{CommandNewAccount, "New account"},
	{CommandListAccounts, "List accounts"},
	{CommandNewCustomer, "New customer"},
	{CommandQuit, "Quit"},
}

// ParseCommand maps a menu option to its Command. Surrounding space and case are ignored.
func ParseCommand(input string) (Command, error) {
	option := strings.ToLower(strings.TrimSpace(input))
	for _, c := range commands {
		if string(c.cmd) == option {
			return c.cmd, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, input)
}

// Menu renders the option list.
func Menu() string {
	var b strings.Builder
	b.WriteString("\n__________MENU____________\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "[%s]\t%s\n", c.cmd, c.label)
	}
	b.WriteString("-> ")
	return b.String()
}

// Request is a fully prompted command ready for dispatch.
type Request interface {
	Command() Command
}

// DepositRequest credits an account selected through its owner.
type DepositRequest struct {
	TaxID         string
	AccountNumber int64
	Amount        string
}

// WithdrawRequest debits an account selected through its owner.
type WithdrawRequest struct {
	TaxID         string
	AccountNumber int64
	Amount        string
}

// StatementRequest renders an account history. Kind may be empty.
type StatementRequest struct {
	TaxID         string
	AccountNumber int64
	Kind          string
}

// NewCustomerRequest registers a customer.
type NewCustomerRequest struct {
	TaxID     string
	Name      string
	BirthDate string
	Address   string
}

// NewAccountRequest opens a checking account for an existing customer.
type NewAccountRequest struct {
	TaxID string
}

// ListAccountsRequest lists every account in opening order.
type ListAccountsRequest struct{}

func (DepositRequest) Command() Command      { return CommandDeposit }
func (WithdrawRequest) Command() Command     { return CommandWithdraw }
func (StatementRequest) Command() Command    { return CommandStatement }
func (NewCustomerRequest) Command() Command  { return CommandNewCustomer }
func (NewAccountRequest) Command() Command   { return CommandNewAccount }
func (ListAccountsRequest) Command() Command { return CommandListAccounts }
