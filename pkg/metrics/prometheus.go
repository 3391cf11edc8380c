package metrics

import (
	"FinSpread/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scans       *prometheus.CounterVec
	spreadsKept *prometheus.GaugeVec
	stageItems  *prometheus.HistogramVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New registers the recorder's collectors on reg (prometheus.DefaultRegisterer when nil).
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		scans: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finspread_scans_total",
				Help: "Total number of chain scans by outcome",
			},
			[]string{"symbol", "type", "result"},
		),
		spreadsKept: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finspread_spreads_kept",
				Help: "Spreads that passed the profitability filter on the last scan",
			},
			[]string{"symbol", "type"},
		),
		stageItems: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finspread_stage_items",
				Help:    "Items surviving each pipeline stage per scan",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"type", "stage"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finspread_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finspread_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordScan counts a finished scan; result is "ok" or an error kind.
func (r *Recorder) RecordScan(symbol string, t models.OptionType, result string) {
	r.scans.WithLabelValues(symbol, string(t), result).Inc()
}

// RecordStageCounts observes how many items each stage let through.
func (r *Recorder) RecordStageCounts(t models.OptionType, c models.StageCounts) {
	typ := string(t)
	r.stageItems.WithLabelValues(typ, "contracts").Observe(float64(c.Contracts))
	r.stageItems.WithLabelValues(typ, "liquid").Observe(float64(c.Liquid))
	r.stageItems.WithLabelValues(typ, "itm").Observe(float64(c.InTheMoney))
	r.stageItems.WithLabelValues(typ, "candidates").Observe(float64(c.Candidates))
	r.stageItems.WithLabelValues(typ, "kept").Observe(float64(c.Kept))
}

func (r *Recorder) RecordSpreadsKept(symbol string, t models.OptionType, n int) {
	r.spreadsKept.WithLabelValues(symbol, string(t)).Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
