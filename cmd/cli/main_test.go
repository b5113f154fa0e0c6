package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("expected ab, got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	printJSON(&out, []byte(`{"a":1}`))

	expected := "{\n  \"a\": 1\n}\n"
	if out.String() != expected {
		t.Fatalf("unexpected json output:\n%s", out.String())
	}

	out.Reset()
	printJSON(&out, []byte("not json"))
	if out.String() != "not json\n" {
		t.Fatalf("expected raw body, got %q", out.String())
	}
}

func TestReplCmd(t *testing.T) {
	t.Setenv("REDIS_URL", "")

	script := strings.Join([]string{
		"nu", "111", "Maria da Silva", "15-03-1990", "Rua A, 10 - Centro - Recife/PE",
		"nc", "111",
		"s", "111", "100",
		"d", "111", "1000",
		"s", "111", "1500",
		"s", "111", "500",
		"e", "111",
		"q",
	}, "\n") + "\n"

	out, err := runCLI(t, script, "repl")
	if err != nil {
		t.Fatalf("repl failed: %v", err)
	}

	for _, want := range []string{
		"Account 1 created successfully!",
		"Insufficient funds.",
		"Amount exceeds the withdrawal limit.",
		"STATEMENT",
		"R$ 500.00",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestReplCmd_InvalidPolicy(t *testing.T) {
	t.Setenv("OVERDRAFT_LIMIT", "-1")

	if _, err := runCLI(t, "q\n", "repl"); err == nil {
		t.Fatal("expected invalid policy to fail")
	}
}

func TestCustomerCreateCmd(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/customers/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"tax_id":"111"}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "", "--url", srv.URL, "customer", "create",
		"--tax-id", "111", "--name", "Maria", "--birth-date", "15-03-1990", "--address", "Rua A")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got["tax_id"] != "111" || got["birth_date"] != "15-03-1990" {
		t.Fatalf("unexpected payload: %v", got)
	}
	if !strings.Contains(out, `"tax_id": "111"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestWithdrawCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accounts/1/withdrawals" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Idempotency-Key") != "k1" {
			t.Errorf("missing idempotency key")
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"Insufficient funds","code":"insufficient_funds"}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, "", "--url", srv.URL, "withdraw", "1",
		"--tax-id", "111", "--amount", "1500", "--idempotency-key", "k1")
	if err == nil {
		t.Fatal("expected rejection to fail the command")
	}
	if !strings.Contains(out, "insufficient_funds") {
		t.Fatalf("expected error body in output: %s", out)
	}
}

func TestStatementCmd_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("kind") != "withdrawal" || r.URL.Query().Get("tax_id") != "111" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))
	defer srv.Close()

	if _, err := runCLI(t, "", "--url", srv.URL, "statement", "1", "--tax-id", "111", "--kind", "withdrawal"); err != nil {
		t.Fatalf("statement failed: %v", err)
	}
}

func TestLedgerConsistencyCmd(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		want    string
	}{
		{"consistent", http.StatusOK, `{"consistent":true,"balances":"498.00","deposits":"1000.00","withdrawals":"502.00"}`, false, "Consistency check PASSED"},
		{"inconsistent", http.StatusConflict, `{"code":"inconsistent_ledger"}`, true, "Consistency check FAILED (Status: 409)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			out, err := runCLI(t, "", "--url", srv.URL, "ledger", "consistency")
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Fatalf("expected %q in output:\n%s", tt.want, out)
			}
		})
	}
}
