package montecarlo

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/availability-sim/availability-sim/sim"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func newTestEstimator(trials int64, workers int) *Estimator {
	e := NewEstimator(sim.DefaultParams(), trials, 42)
	e.Workers = workers
	e.Strict = true
	e.Metrics = NewMetrics(prometheus.NewRegistry())
	return e
}

func TestEstimator_Run_StrictWithinBounds(t *testing.T) {
	// GIVEN a small strict run on 4 workers
	e := newTestEstimator(400, 4)

	// WHEN it runs
	res, err := e.Run(context.Background())

	// THEN every trial lands in [27, 81] and the reduction is consistent
	require.NoError(t, err)
	assert.Equal(t, int64(400), res.Trials)
	assert.Equal(t, 4, res.Workers)
	assert.NotEmpty(t, res.RunID)
	assert.GreaterOrEqual(t, res.DowntimeSum, int64(27*400))
	assert.LessOrEqual(t, res.DowntimeSum, int64(81*400))
	assert.GreaterOrEqual(t, res.Distribution.Min(), int64(27))
	assert.LessOrEqual(t, res.Distribution.Max(), int64(81))
	assert.Equal(t, res.Trials, res.Distribution.Trials())
	assert.Equal(t, AverageDowntime(res.DowntimeSum, 400).RatString(), res.AverageDowntime.RatString())
	assert.Equal(t, AvailabilityPercent(res.AverageDowntime, sim.YearMinutes).RatString(), res.Availability.RatString())
}

func TestEstimator_Run_SameSeedSameResult(t *testing.T) {
	r1, err := newTestEstimator(300, 3).Run(context.Background())
	require.NoError(t, err)
	r2, err := newTestEstimator(300, 3).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, r1.DowntimeSum, r2.DowntimeSum)
	assert.Equal(t, r1.DowntimeSumSq, r2.DowntimeSumSq)
	assert.Equal(t, r1.Distribution.Counts, r2.Distribution.Counts)
	assert.NotEqual(t, r1.RunID, r2.RunID)
}

func TestEstimator_Run_PartitionsTrialsAcrossWorkers(t *testing.T) {
	// GIVEN 10 trials on 3 workers
	e := newTestEstimator(10, 3)

	// WHEN it runs
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	// THEN the remainder goes to the lowest worker ids and counters match the result
	assert.Equal(t, 4.0, testutil.ToFloat64(e.Metrics.TrialsTotal.WithLabelValues("0")))
	assert.Equal(t, 3.0, testutil.ToFloat64(e.Metrics.TrialsTotal.WithLabelValues("1")))
	assert.Equal(t, 3.0, testutil.ToFloat64(e.Metrics.TrialsTotal.WithLabelValues("2")))
	assert.Equal(t, float64(res.DowntimeSum), testutil.ToFloat64(e.Metrics.DowntimeMinutes))
	assert.Equal(t, float64(res.ScheduleRejections), testutil.ToFloat64(e.Metrics.ScheduleRejections))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.Metrics.ActiveWorkers))
}

func TestEstimator_Run_WorkersCappedAtTrials(t *testing.T) {
	res, err := newTestEstimator(2, 8).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Workers)
	assert.Equal(t, int64(2), res.Trials)
}

func TestEstimator_Run_InvalidInput(t *testing.T) {
	bad := sim.DefaultParams()
	bad.OutageMinutes = 0
	e := newTestEstimator(10, 1)
	e.Params = bad
	_, err := e.Run(context.Background())
	assert.True(t, errors.Is(err, sim.ErrInvalidParams), "got %v", err)

	_, err = newTestEstimator(0, 1).Run(context.Background())
	assert.Error(t, err)

	_, err = newTestEstimator(10, 0).Run(context.Background())
	assert.Error(t, err)
}

func TestEstimator_Run_UnsatisfiableSpacing(t *testing.T) {
	e := newTestEstimator(10, 2)
	e.Params.YearMinutes = 1000
	e.Params.MaxScheduleAttempts = 1000

	_, err := e.Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, sim.ErrSpacingUnsatisfiable))
}

func TestEstimator_Run_Cancelled(t *testing.T) {
	// GIVEN a context cancelled before the run
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newTestEstimator(3*flushEvery, 1)

	// WHEN it runs
	_, err := e.Run(ctx)

	// THEN the worker stops at its first checkpoint
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestEstimator_Run_ConfidenceDisabled(t *testing.T) {
	e := newTestEstimator(50, 1)
	e.Confidence = 0
	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, 0.0, res.HalfWidth)
}

func TestEstimator_Run_Converges(t *testing.T) {
	if testing.Short() {
		t.Skip("long-running estimate")
	}
	// GIVEN the reference model
	e := newTestEstimator(100_000, 4)
	e.Strict = false

	// WHEN estimated
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	// THEN the average sits just above A's guaranteed 27 minutes and the
	// interval covers the estimate
	avg := res.AverageDowntimeFloat()
	assert.GreaterOrEqual(t, avg, 27.0)
	assert.Less(t, avg, 27.1)
	assert.Positive(t, res.HalfWidth)
	assert.Less(t, res.HalfWidth, 0.05)
	assert.Greater(t, res.AvailabilityFloat(), 99.9948)
	assert.LessOrEqual(t, res.AvailabilityFloat(), 99.99487)
}
