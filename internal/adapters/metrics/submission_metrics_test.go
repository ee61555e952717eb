package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
)

func histogram(t *testing.T, h prometheus.Histogram) *dto.Histogram {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, h.Write(&metric))
	return metric.GetHistogram()
}

func TestSubmissionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewSubmissionMetrics(reg)
	require.NoError(t, err)

	m.OnStart(1)
	m.OnStart(2)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.inFlight))

	funded := domain.ProposalStateFunded
	m.OnFinish(1, domain.SubmissionResult{
		StartedAt: time.Now(),
		Phase:     domain.SubmissionSucceeded,
		Record:    &domain.VoteRecord{ID: 1, NumberOfVotes: 5, State: &funded},
	})
	m.OnFinish(2, domain.SubmissionResult{
		StartedAt: time.Now(),
		Phase:     domain.SubmissionFailed,
		Kind:      domain.ErrorKindLedgerCast,
		Err:       errors.New("rejected"),
	})

	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.total.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.total.WithLabelValues("ledger_cast")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.atQuorum))
	assert.Equal(t, uint64(2), histogram(t, m.duration).GetSampleCount())
}

func TestSubmissionMetrics_OverlappingSubmissionsFinishOutOfOrder(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewSubmissionMetrics(reg)
	require.NoError(t, err)

	slowStart := time.Now().Add(-5 * time.Second)
	fastStart := time.Now()
	m.OnStart(1)
	m.OnStart(1)

	m.OnFinish(1, domain.SubmissionResult{StartedAt: fastStart, Phase: domain.SubmissionSucceeded})
	h := histogram(t, m.duration)
	require.Equal(t, uint64(1), h.GetSampleCount())
	assert.Less(t, h.GetSampleSum(), 1.0, "the fast submission must not inherit the slow start time")

	m.OnFinish(1, domain.SubmissionResult{StartedAt: slowStart, Phase: domain.SubmissionSucceeded})
	h = histogram(t, m.duration)
	require.Equal(t, uint64(2), h.GetSampleCount())
	assert.GreaterOrEqual(t, h.GetSampleSum(), 5.0)
}

func TestSubmissionMetrics_AtQuorumCountsEveryFundedSubmission(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewSubmissionMetrics(reg)
	require.NoError(t, err)

	funded := domain.ProposalStateFunded
	for votes := int64(4); votes <= 6; votes++ {
		record := &domain.VoteRecord{ID: 1, NumberOfVotes: votes}
		if votes >= 5 {
			record.State = &funded
		}
		m.OnStart(1)
		m.OnFinish(1, domain.SubmissionResult{StartedAt: time.Now(), Phase: domain.SubmissionSucceeded, Record: record})
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.atQuorum))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.total.WithLabelValues("success")))
}

func TestNewSubmissionMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewSubmissionMetrics(reg)
	require.NoError(t, err)

	_, err = NewSubmissionMetrics(reg)
	assert.Error(t, err)
}
