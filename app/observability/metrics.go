package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TournamentMetrics records parse and upload outcomes.
type TournamentMetrics interface {
	RecordParseSuccess(ctx context.Context)
	RecordParseFailure(ctx context.Context, kind string)
	RecordUpload(ctx context.Context, playersCredited int, duration time.Duration)
}

// PrometheusMetrics implements TournamentMetrics on a Prometheus registry.
type PrometheusMetrics struct {
	parsed         prometheus.Counter
	parseFailures  *prometheus.CounterVec
	uploaded       prometheus.Counter
	credited       prometheus.Counter
	uploadDuration prometheus.Histogram
}

// NewPrometheusMetrics registers the tournament collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		parsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournaments_parsed_total",
			Help: "Tournament files parsed successfully.",
		}),
		parseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tournament_parse_failures_total",
			Help: "Tournament files rejected by the parser, by failure kind.",
		}, []string{"kind"}),
		uploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournaments_uploaded_total",
			Help: "Tournaments committed to the database.",
		}),
		credited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tournament_players_credited_total",
			Help: "Overall list entries credited with ranking points.",
		}),
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tournament_upload_duration_seconds",
			Help:    "Time spent in the upload transaction.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{m.parsed, m.parseFailures, m.uploaded, m.credited, m.uploadDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordParseSuccess(context.Context) {
	m.parsed.Inc()
}

func (m *PrometheusMetrics) RecordParseFailure(_ context.Context, kind string) {
	m.parseFailures.WithLabelValues(kind).Inc()
}

func (m *PrometheusMetrics) RecordUpload(_ context.Context, playersCredited int, duration time.Duration) {
	m.uploaded.Inc()
	m.credited.Add(float64(playersCredited))
	m.uploadDuration.Observe(duration.Seconds())
}

type noopMetrics struct{}

// NewNoop returns metrics that record nothing.
func NewNoop() TournamentMetrics {
	return noopMetrics{}
}

func (noopMetrics) RecordParseSuccess(context.Context)               {}
func (noopMetrics) RecordParseFailure(context.Context, string)       {}
func (noopMetrics) RecordUpload(context.Context, int, time.Duration) {}
