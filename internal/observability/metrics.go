package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the payments engine.
type Metrics struct {
	RecordsApplied  *prometheus.CounterVec
	RecordsRejected *prometheus.CounterVec
	ApplyDuration   *prometheus.HistogramVec

	AccountsTotal  prometheus.Gauge
	AccountsLocked prometheus.Gauge
	DisputesOpen   prometheus.Gauge
	LedgerEntries  prometheus.Gauge
}

// NewMetrics creates and registers all metrics on the default registry.
// Call at most once per process.
func NewMetrics() *Metrics {
	applyBuckets := []float64{
		0.000001, 0.000005, 0.00001, 0.000025, 0.00005,
		0.0001, 0.00025, 0.0005, 0.001,
	}

	return &Metrics{
		RecordsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_records_applied_total",
			Help: "Transaction records successfully applied",
		}, []string{"kind"}),

		RecordsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pay_records_rejected_total",
			Help: "Transaction records rejected (validation or parse)",
		}, []string{"kind", "reason"}),

		ApplyDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pay_record_apply_duration_seconds",
			Help:    "Time to apply a single record",
			Buckets: applyBuckets,
		}, []string{"kind"}),

		AccountsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pay_accounts_total",
			Help: "Accounts materialized in the store",
		}),

		AccountsLocked: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pay_accounts_locked",
			Help: "Accounts locked by a chargeback",
		}),

		DisputesOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pay_disputes_open",
			Help: "Ledger entries currently in disputed state",
		}),

		LedgerEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pay_ledger_entries",
			Help: "Value-moving transactions retained in the ledger",
		}),
	}
}
