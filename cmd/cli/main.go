package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/adapter/console"
	"github.com/iho/bankledger/internal/adapter/repository/memory"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	"github.com/iho/bankledger/internal/usecase"
)

type options struct {
	baseURL string
	timeout time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "bankledger",
		Short:         "Bank ledger CLI tool",
		Long:          `A command line interface for the bank ledger: an interactive local session or a client for the HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		replCmd(),
		customerCmd(opts),
		accountCmd(opts),
		transactionCmd(opts, "deposit", "deposits", "Deposit into an account"),
		transactionCmd(opts, "withdraw", "withdrawals", "Withdraw from an account"),
		statementCmd(opts),
		ledgerCmd(opts),
	)

	return rootCmd
}

// replCmd runs the interactive menu against an in-memory ledger.
func replCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Run the interactive menu against a local in-memory ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			policy, err := cfg.CheckingPolicy()
			if err != nil {
				return err
			}

			log := logger.New(logger.Config{Level: logLevel, Format: "console", Output: cmd.ErrOrStderr()})
			dispatcher := newLocalDispatcher(usecase.AccountPolicy{Branch: cfg.BranchCode, Checking: policy}, log)

			return console.NewSession(dispatcher, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "error", "Log level for the local session")
	return cmd
}

func newLocalDispatcher(policy usecase.AccountPolicy, log zerolog.Logger) *console.Dispatcher {
	customerRepo := memory.NewCustomerRepository()
	accountRepo := memory.NewAccountRepository()
	events := usecase.NewEventRecorder(memory.NewNullOutboxRepository(), memory.NewULIDGenerator(), log)

	customers := usecase.NewCustomerUseCase(customerRepo, events, nil, log)
	accounts := usecase.NewAccountUseCase(accountRepo, customerRepo, memory.NewAccountSequence(), policy, events, nil, log)

	return console.NewDispatcher(
		customers,
		accounts,
		usecase.NewTransactionUseCase(customers, events, nil, log),
		usecase.NewStatementUseCase(accountRepo, customers),
		log,
	)
}

func customerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Customer operations",
	}

	var name, birthDate, taxID, address string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodPost, "/api/v1/customers/", map[string]any{
				"name":       name,
				"birth_date": birthDate,
				"tax_id":     taxID,
				"address":    address,
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Full name")
	createCmd.Flags().StringVar(&birthDate, "birth-date", "", "Birth date (dd-mm-yyyy)")
	createCmd.Flags().StringVar(&taxID, "tax-id", "", "Tax ID (digits only)")
	createCmd.Flags().StringVar(&address, "address", "", "Address")
	_ = createCmd.MarkFlagRequired("tax-id")

	getCmd := &cobra.Command{
		Use:   "get <tax-id>",
		Short: "Show a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodGet, "/api/v1/customers/"+url.PathEscape(args[0]), nil)
		},
	}

	accountsCmd := &cobra.Command{
		Use:   "accounts <tax-id>",
		Short: "List a customer's accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodGet, "/api/v1/customers/"+url.PathEscape(args[0])+"/accounts", nil)
		},
	}

	cmd.AddCommand(createCmd, getCmd, accountsCmd)
	return cmd
}

func accountCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var taxID string
	var number int64
	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open a checking account for a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"tax_id": taxID}
			if number > 0 {
				body["number"] = number
			}
			return opts.call(cmd, http.MethodPost, "/api/v1/accounts/", body)
		},
	}
	openCmd.Flags().StringVar(&taxID, "tax-id", "", "Owner tax ID")
	openCmd.Flags().Int64Var(&number, "number", 0, "Account number (generated when omitted)")
	_ = openCmd.MarkFlagRequired("tax-id")

	getCmd := &cobra.Command{
		Use:   "get <number>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil)
		},
	}

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodGet, fmt.Sprintf("/api/v1/accounts/?limit=%d&offset=%d", limit, offset), nil)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(openCmd, getCmd, listCmd)
	return cmd
}

func transactionCmd(opts *options, use, resource, short string) *cobra.Command {
	var taxID, amount, idempotencyKey string

	cmd := &cobra.Command{
		Use:   use + " <account-number>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.callWithKey(cmd, http.MethodPost,
				"/api/v1/accounts/"+url.PathEscape(args[0])+"/"+resource,
				map[string]any{"tax_id": taxID, "amount": amount},
				idempotencyKey)
		},
	}
	cmd.Flags().StringVar(&taxID, "tax-id", "", "Owner tax ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 150.00")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header for safe retries")
	_ = cmd.MarkFlagRequired("tax-id")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func statementCmd(opts *options) *cobra.Command {
	var taxID, kind string

	cmd := &cobra.Command{
		Use:   "statement <account-number>",
		Short: "Show an account statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if taxID != "" {
				query.Set("tax_id", taxID)
			}
			if kind != "" {
				query.Set("kind", kind)
			}
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/statement"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}
			return opts.call(cmd, http.MethodGet, path, nil)
		},
	}
	cmd.Flags().StringVar(&taxID, "tax-id", "", "Restrict to this customer's accounts")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (deposit, withdrawal)")
	return cmd
}

func ledgerCmd(opts *options) *cobra.Command {
	// Ledger commands
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.checkConsistency(cmd)
		},
	}

	cmd.AddCommand(consistencyCmd)
	return cmd
}

func (o *options) checkConsistency(cmd *cobra.Command) error {
	status, body, err := o.do(http.MethodGet, "/api/v1/ledger/consistency", nil, "")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if status != http.StatusOK {
		fmt.Fprintf(out, "Consistency check FAILED (Status: %d)\nResponse: %s\n", status, truncate(string(body), 500))
		return fmt.Errorf("ledger is inconsistent")
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Fprintf(out, "Consistency check PASSED\n")
	if consistent, ok := result["consistent"].(bool); ok {
		fmt.Fprintf(out, "Consistent: %v\n", consistent)
	}
	fmt.Fprintf(out, "Balances: %v\nDeposits: %v\nWithdrawals: %v\n", result["balances"], result["deposits"], result["withdrawals"])
	return nil
}

func (o *options) call(cmd *cobra.Command, method, path string, payload any) error {
	return o.callWithKey(cmd, method, path, payload, "")
}

// callWithKey sends the request and prints the JSON response. Non-2xx responses are errors.
func (o *options) callWithKey(cmd *cobra.Command, method, path string, payload any, idempotencyKey string) error {
	status, body, err := o.do(method, path, payload, idempotencyKey)
	if err != nil {
		return err
	}

	printJSON(cmd.OutOrStdout(), body)

	if status >= http.StatusBadRequest {
		return fmt.Errorf("request failed with status %d", status)
	}
	return nil
}

func (o *options) do(method, path string, payload any, idempotencyKey string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimRight(o.baseURL, "/")+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func printJSON(w io.Writer, raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Fprintln(w, truncate(string(raw), 500))
		return
	}
	fmt.Fprintln(w, buf.String())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
