package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Customer metrics
	CustomersRegistered prometheus.Counter

	// Account metrics
	AccountsOpened *prometheus.CounterVec
	AccountBalance prometheus.Histogram

	// Transaction metrics
	TransactionsApplied  *prometheus.CounterVec
	TransactionsRejected *prometheus.CounterVec
	TransactionAmount    *prometheus.HistogramVec

	// Event metrics
	EventsPublished prometheus.Counter
	EventErrors     prometheus.Counter
}

// New creates all Prometheus metrics and registers them with reg.
// A nil reg registers with the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CustomersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_customers_registered_total",
			Help: "Total number of customers registered",
		}),

		AccountsOpened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_accounts_opened_total",
				Help: "Total number of accounts opened by kind",
			},
			[]string{"kind"},
		),
		AccountBalance: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankledger_account_balance",
			Help:    "Account balance after each applied transaction",
			Buckets: []float64{0, 100, 500, 1000, 5000, 10000, 100000},
		}),

		TransactionsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_transactions_applied_total",
				Help: "Total number of applied transactions by kind",
			},
			[]string{"kind"},
		),
		TransactionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_transactions_rejected_total",
				Help: "Total number of rejected transactions by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_transaction_amount",
				Help:    "Applied transaction amounts",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
			},
			[]string{"kind"},
		),

		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_events_published_total",
			Help: "Total number of outbox events published",
		}),
		EventErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_event_publish_errors_total",
			Help: "Total number of outbox events that failed to publish",
		}),
	}
}

// CustomerRegistered counts a registration.
func (m *Metrics) CustomerRegistered() {
	m.CustomersRegistered.Inc()
}

// AccountOpened counts an opened account.
func (m *Metrics) AccountOpened(kind string) {
	m.AccountsOpened.WithLabelValues(kind).Inc()
}

// TransactionApplied counts an applied transaction and observes its amount.
func (m *Metrics) TransactionApplied(kind domain.TransactionKind, amount decimal.Decimal) {
	m.TransactionsApplied.WithLabelValues(kind.String()).Inc()
	m.TransactionAmount.WithLabelValues(kind.String()).Observe(amount.InexactFloat64())
}

// TransactionRejected counts a rejected transaction.
func (m *Metrics) TransactionRejected(kind domain.TransactionKind, reason string) {
	m.TransactionsRejected.WithLabelValues(kind.String(), reason).Inc()
}

// BalanceChanged observes the new balance. Accounts are not labelled; per-account
// balances are served by reconciliation.
func (m *Metrics) BalanceChanged(_ int64, balance decimal.Decimal) {
	m.AccountBalance.Observe(balance.InexactFloat64())
}

// EventPublished counts a published outbox event.
func (m *Metrics) EventPublished() {
	m.EventsPublished.Inc()
}

// EventFailed counts an outbox event that could not be published.
func (m *Metrics) EventFailed() {
	m.EventErrors.Inc()
}
