// internal/metrics/metrics.go
package metrics

import (
	"time"

	"cryptoex/internal/util"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const namespace = "cryptoex"

// Metrics holds the exchange's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	TradesTotal       *prometheus.CounterVec
	DriftTicksTotal   *prometheus.CounterVec
	DriftTickDuration prometheus.Histogram
	ExchangeRate      *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TradesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_total",
			Help:      "Total trade requests, partitioned by operation type and outcome.",
		}, []string{"type", "outcome"}),
		DriftTicksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drift_ticks_total",
			Help:      "Total rate drift sweeps, partitioned by outcome.",
		}, []string{"outcome"}), // ok/error
		DriftTickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "drift_tick_duration_seconds",
			Help:      "Duration of one rate drift sweep.",
			Buckets:   prometheus.DefBuckets,
		}),
		ExchangeRate: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "exchange_rate",
			Help:      "Base exchange rate of a currency after the last drift sweep.",
		}, []string{"currency"}),
	}
}

// ObserveTrade counts one trade request of the given type.
func (m *Metrics) ObserveTrade(opType string, err error) {
	if m == nil {
		return
	}
	m.TradesTotal.WithLabelValues(opType, TradeOutcome(err)).Inc()
}

// ObserveDriftTick records one drift sweep.
func (m *Metrics) ObserveDriftTick(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.DriftTicksTotal.WithLabelValues(outcome).Inc()
	m.DriftTickDuration.Observe(elapsed.Seconds())
}

// SetExchangeRate publishes the current base rate of a currency.
// The gauge is approximate: float64 cannot hold every decimal rate exactly.
func (m *Metrics) SetExchangeRate(currency string, rate decimal.Decimal) {
	if m == nil {
		return
	}
	m.ExchangeRate.WithLabelValues(currency).Set(rate.InexactFloat64())
}

// TradeOutcome maps a trade error onto a low-cardinality label value.
func TradeOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case util.IsError(err, util.ErrStalePrice):
		return "stale_price"
	case util.IsError(err, util.ErrInsufficientFunds):
		return "insufficient_funds"
	case util.IsError(err, util.ErrNoSuchHolding):
		return "no_such_holding"
	case util.IsError(err, util.ErrInsufficientHolding):
		return "insufficient_holding"
	case util.IsError(err, util.ErrUserNotFound), util.IsError(err, util.ErrCurrencyNotFound),
		util.IsError(err, util.ErrWalletNotFound):
		return "not_found"
	case util.IsError(err, util.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
