package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Payment record outcomes
const (
	ResultRecorded     = "recorded"
	ResultNotConfirmed = "not_confirmed"
	ResultDuplicate    = "duplicate"
	ResultRejected     = "rejected"
	ResultError        = "error"
)

var (
	// PaymentsRecorded counts record-payment attempts by outcome
	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "limpay",
		Name:      "payments_record_total",
		Help:      "Record-payment attempts by outcome.",
	}, []string{"result"})

	// AmountRecorded sums the amounts of successfully recorded payments
	AmountRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "limpay",
		Name:      "payments_recorded_amount_total",
		Help:      "Sum of recorded payment amounts.",
	})

	// LedgerDiscrepancies is the number of inconsistent fee rows found by the last audit
	LedgerDiscrepancies = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "limpay",
		Name:      "ledger_discrepancies",
		Help:      "Fee balance rows that failed the last ledger audit.",
	})

	// HTTPRequests counts handled requests by method, route and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "limpay",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})
)
