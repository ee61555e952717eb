package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

const namespace = "tutorialvote"

// SubmissionMetrics records vote submissions. It is a SubmissionObserver.
type SubmissionMetrics struct {
	inFlight prometheus.Gauge
	total    *prometheus.CounterVec
	atQuorum prometheus.Counter
	duration prometheus.Histogram
}

func NewSubmissionMetrics(registerer prometheus.Registerer) (*SubmissionMetrics, error) {
	m := &SubmissionMetrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "submissions_in_flight",
			Help:      "Number of vote submissions currently running.",
		}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Finished vote submissions by outcome.",
		}, []string{"outcome"}),
		atQuorum: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_at_quorum_total",
			Help:      "Successful submissions that left the tutorial at or above quorum.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time from submission start to finish.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{m.inFlight, m.total, m.atQuorum, m.duration} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *SubmissionMetrics) OnStart(int64) {
	m.inFlight.Inc()
}

func (m *SubmissionMetrics) OnFinish(_ int64, result domain.SubmissionResult) {
	m.inFlight.Dec()
	m.total.WithLabelValues(outcome(result)).Inc()
	if result.Record != nil && result.Record.State != nil && *result.Record.State == domain.ProposalStateFunded {
		m.atQuorum.Inc()
	}
	if !result.StartedAt.IsZero() {
		m.duration.Observe(time.Since(result.StartedAt).Seconds())
	}
}

func outcome(result domain.SubmissionResult) string {
	if result.Phase == domain.SubmissionSucceeded {
		return "success"
	}
	if result.Kind == domain.ErrorKindNone {
		return "unknown"
	}
	return string(result.Kind)
}
