package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iho/bankledger/internal/domain"
)

// errInputClosed ends the session when the reader is exhausted mid-prompt.
var errInputClosed = errors.New("input closed")

// Session drives the interactive menu over a reader and a writer.
type Session struct {
	dispatcher *Dispatcher
	in         *bufio.Scanner
	out        io.Writer
}

// NewSession creates a session reading commands from in and printing to out.
func NewSession(dispatcher *Dispatcher, in io.Reader, out io.Writer) *Session {
	return &Session{
		dispatcher: dispatcher,
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run loops over menu options until quit, end of input or ctx cancellation.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.prompt(Menu())
		if err != nil {
			return s.closed(err)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			s.print(Message(err))
			continue
		}
		if cmd == CommandQuit {
			return nil
		}

		req, err := s.read(ctx, cmd)
		if err != nil {
			if errors.Is(err, errInputClosed) {
				return s.closed(err)
			}
			s.print(Message(err))
			continue
		}

		out, err := s.dispatcher.Dispatch(ctx, req)
		if err != nil {
			s.print(Message(err))
			continue
		}
		s.print(out)
	}
}

// read prompts for the fields cmd needs.
func (s *Session) read(ctx context.Context, cmd Command) (Request, error) {
	switch cmd {
	case CommandDeposit, CommandWithdraw:
		taxID, number, err := s.selectAccount(ctx)
		if err != nil {
			return nil, err
		}
		label := "deposit"
		if cmd == CommandWithdraw {
			label = "withdrawal"
		}
		amount, err := s.prompt(fmt.Sprintf("Enter the %s amount: ", label))
		if err != nil {
			return nil, err
		}
		if cmd == CommandDeposit {
			return DepositRequest{TaxID: taxID, AccountNumber: number, Amount: amount}, nil
		}
		return WithdrawRequest{TaxID: taxID, AccountNumber: number, Amount: amount}, nil

	case CommandStatement:
		taxID, number, err := s.selectAccount(ctx)
		if err != nil {
			return nil, err
		}
		return StatementRequest{TaxID: taxID, AccountNumber: number}, nil

	case CommandNewCustomer:
		return s.readCustomer(ctx)

	case CommandNewAccount:
		taxID, err := s.prompt("Enter the customer's tax ID: ")
		if err != nil {
			return nil, err
		}
		return NewAccountRequest{TaxID: taxID}, nil

	case CommandListAccounts:
		return ListAccountsRequest{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
}

// selectAccount resolves the customer and the account to operate on. A sole
// account is picked without asking.
func (s *Session) selectAccount(ctx context.Context) (string, int64, error) {
	taxID, err := s.prompt("Enter the customer's tax ID: ")
	if err != nil {
		return "", 0, err
	}

	accounts, err := s.dispatcher.Accounts(ctx, taxID)
	if err != nil {
		return "", 0, err
	}
	if len(accounts) == 0 {
		return "", 0, domain.ErrNoAccountSelected
	}

	s.print(RenderChoices(accounts))
	if len(accounts) == 1 {
		s.print("Selecting the only available account...\n")
		return taxID, accounts[0].Number, nil
	}

	raw, err := s.prompt("Enter the account number to operate on: ")
	if err != nil {
		return "", 0, err
	}
	number, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || number <= 0 {
		return "", 0, fmt.Errorf("%w: %q", domain.ErrAccountNotFound, raw)
	}
	return taxID, number, nil
}

func (s *Session) readCustomer(ctx context.Context) (Request, error) {
	taxID, err := s.prompt("Enter the tax ID (numbers only): ")
	if err != nil {
		return nil, err
	}

	exists, err := s.dispatcher.CustomerExists(ctx, taxID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateIdentifier
	}

	req := NewCustomerRequest{TaxID: taxID}
	fields := []struct {
		label string
		dst   *string
	}{
		{"Enter the full name: ", &req.Name},
		{"Enter the birth date (dd-mm-yyyy): ", &req.BirthDate},
		{"Enter the address (street, number - district - city/state): ", &req.Address},
	}
	for _, f := range fields {
		if *f.dst, err = s.prompt(f.label); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (s *Session) prompt(label string) (string, error) {
	s.print(label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) closed(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}

func (s *Session) print(text string) {
	_, _ = io.WriteString(s.out, text)
}
