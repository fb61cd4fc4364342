package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Settlement metrics
	SettlementsProcessed *prometheus.CounterVec
	SettlementAmount     prometheus.Histogram
	UnmatchedPool        prometheus.Gauge

	// Payout metrics
	PayoutsTotal    *prometheus.CounterVec
	PayoutDuration  prometheus.Histogram
	PayoutAmount    prometheus.Histogram
	ProviderCharges *prometheus.CounterVec

	// Wallet metrics
	WalletCredits prometheus.Counter
	WalletDebits  prometheus.Counter

	// Webhook metrics
	WebhookDeliveries *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Settlement metrics
		SettlementsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_inbound_processed_total",
				Help: "Inbound payments processed by outcome",
			},
			[]string{"outcome"},
		),
		SettlementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "settlement_inbound_amount",
			Help:    "Inbound payment amounts",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		}),
		UnmatchedPool: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "settlement_unmatched_pool",
			Help: "Sum of pooled inbound payments awaiting manual reconciliation",
		}),

		// Payout metrics
		PayoutsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_payouts_total",
				Help: "Vendor payouts by outcome",
			},
			[]string{"outcome"},
		),
		PayoutDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "settlement_payout_duration_seconds",
			Help:    "End-to-end payout duration including provider delivery",
			Buckets: prometheus.DefBuckets,
		}),
		PayoutAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "settlement_payout_amount",
			Help:    "Payout gross amounts",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		}),
		ProviderCharges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_provider_charges_total",
				Help: "Bank transfer attempts by provider and result",
			},
			[]string{"provider", "status"},
		),

		// Wallet metrics
		WalletCredits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settlement_wallet_credits_total",
			Help: "Total wallet credit operations",
		}),
		WalletDebits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settlement_wallet_debits_total",
			Help: "Total wallet debit operations",
		}),

		// Webhook metrics
		WebhookDeliveries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_webhook_deliveries_total",
				Help: "Provider webhook deliveries by provider and result",
			},
			[]string{"provider", "result"},
		),
	}
}
