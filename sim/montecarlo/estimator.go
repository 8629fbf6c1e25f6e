// Package montecarlo repeats independent trials of the availability model in
// parallel and reduces them into exact statistics.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/availability-sim/availability-sim/sim"
	"github.com/availability-sim/availability-sim/sim/trace"
)

// DefaultTrials is the number of simulated years of a standard estimate.
const DefaultTrials int64 = 10_000_000

// flushEvery is how many trials a worker runs between context checks,
// metric updates and progress logs.
const flushEvery = 4096

// Estimator runs Trials independent trials split statically across Workers.
// Each worker owns an RNG stream derived from Seed, so a run is reproducible
// for a fixed seed and worker count.
type Estimator struct {
	Params  sim.Params
	Trials  int64
	Workers int
	Seed    int64
	// Strict checks schedule and downtime invariants on every trial and fails
	// the run on the first violation.
	Strict bool
	// Confidence is the level of the reported confidence interval; 0 disables it.
	Confidence float64
	// ProgressInterval throttles per-worker progress logs.
	ProgressInterval time.Duration
	// Metrics receives counters; a private registry is created when nil.
	Metrics *Metrics
	// RunID tags every log entry of the run; generated when empty.
	RunID string
}

// NewEstimator returns an Estimator with one worker per available CPU.
func NewEstimator(params sim.Params, trials int64, seed int64) *Estimator {
	return &Estimator{
		Params:           params,
		Trials:           trials,
		Workers:          runtime.GOMAXPROCS(0),
		Seed:             seed,
		Confidence:       0.95,
		ProgressInterval: 10 * time.Second,
	}
}

// partial is one worker's share of the reduction.
type partial struct {
	trials     int64
	sum        int64
	sumSq      int64
	rejections int64
	dist       *sim.DowntimeDistribution
}

// Run executes every trial and reduces the results. It stops early when ctx
// is cancelled or any trial fails.
func (e *Estimator) Run(ctx context.Context) (*Result, error) {
	if err := e.Params.Validate(); err != nil {
		return nil, err
	}
	if e.Trials <= 0 {
		return nil, fmt.Errorf("trial count must be positive, got %d", e.Trials)
	}
	if e.Workers <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", e.Workers)
	}
	workers := int(min(int64(e.Workers), e.Trials))

	runID := e.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	metrics := e.Metrics
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	log := logrus.WithFields(logrus.Fields{"run_id": runID})
	log.Infof("Starting estimation: trials=%d workers=%d seed=%d strict=%v params=%+v",
		e.Trials, workers, e.Seed, e.Strict, e.Params)

	// Derive every stream up front: PartitionedRNG is single-goroutine only.
	rngs := sim.NewPartitionedRNG(sim.NewSimulationKey(e.Seed))
	streams := make([]*rand.Rand, workers)
	for i := range streams {
		streams[i] = rngs.ForWorker(i)
	}

	startTime := time.Now()
	partials := make([]partial, workers)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		n := e.Trials / int64(workers)
		if int64(i) < e.Trials%int64(workers) {
			n++
		}
		g.Go(func() error {
			return e.runWorker(gctx, i, n, streams[i], &partials[i], metrics, log)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	elapsed := time.Since(startTime)
	metrics.RunSeconds.Set(elapsed.Seconds())

	res := e.reduce(partials)
	res.RunID = runID
	res.Workers = workers
	res.Elapsed = elapsed

	log.Infof("Estimation complete in %s: sum=%d average=%s", elapsed.Round(time.Millisecond),
		res.DowntimeSum, res.AverageDowntime.RatString())
	metrics.Log(log)
	return res, nil
}

func (e *Estimator) runWorker(ctx context.Context, id int, n int64, rng *rand.Rand, out *partial, m *Metrics, log *logrus.Entry) error {
	wlog := log.WithField("worker", id)
	runner := sim.NewTrialRunner(e.Params, rng, e.Strict)
	_, hi := e.Params.DowntimeBounds()
	out.dist = sim.NewDowntimeDistribution(hi)

	m.ActiveWorkers.Inc()
	defer m.ActiveWorkers.Dec()
	trialsCounter := m.TrialsTotal.WithLabelValues(strconv.Itoa(id))

	var rec sim.Recorder
	if wlog.Logger.IsLevelEnabled(logrus.TraceLevel) {
		rec = &logRecorder{log: wlog}
	}

	progress := rate.Sometimes{Interval: e.ProgressInterval}
	var flushedTrials, flushedSum, flushedRejections int64
	flush := func(done int64) {
		trialsCounter.Add(float64(done - flushedTrials))
		m.DowntimeMinutes.Add(float64(out.sum - flushedSum))
		rejections := runner.Rejections()
		m.ScheduleRejections.Add(float64(rejections - flushedRejections))
		flushedTrials, flushedSum, flushedRejections = done, out.sum, rejections
	}

	for done := int64(0); done < n; done++ {
		if done%flushEvery == 0 && done > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			flush(done)
			progress.Do(func() {
				wlog.Infof("Progress: %d/%d trials (%.1f%%)", done, n, 100*float64(done)/float64(n))
			})
		}

		res, err := runner.Run(rec)
		if err != nil {
			if errors.Is(err, sim.ErrInvariantViolation) || errors.Is(err, sim.ErrDowntimeCapacity) {
				wlog.Errorf("Invariant violated in trial %d: %v", done, err)
			}
			return fmt.Errorf("worker %d, trial %d: %w", id, done, err)
		}
		out.sum += res.Downtime
		out.sumSq += res.Downtime * res.Downtime
		out.dist.Observe(res.Downtime)
	}
	flush(n)
	out.trials = n
	out.rejections = runner.Rejections()
	wlog.Debugf("Worker finished: trials=%d sum=%d", n, out.sum)
	return nil
}

// reduce merges worker partials in worker order and derives the statistics.
func (e *Estimator) reduce(partials []partial) *Result {
	res := &Result{
		Params:     e.Params,
		Seed:       e.Seed,
		Confidence: e.Confidence,
	}
	_, hi := e.Params.DowntimeBounds()
	res.Distribution = sim.NewDowntimeDistribution(hi)
	for _, p := range partials {
		res.Trials += p.trials
		res.DowntimeSum += p.sum
		res.DowntimeSumSq += p.sumSq
		res.ScheduleRejections += p.rejections
		res.Distribution.Merge(p.dist)
	}

	res.AverageDowntime = AverageDowntime(res.DowntimeSum, res.Trials)
	res.Availability = AvailabilityPercent(res.AverageDowntime, e.Params.YearMinutes)
	res.Variance = SampleVariance(res.Trials, res.DowntimeSum, res.DowntimeSumSq)
	res.StdErr = StandardError(res.Variance, res.Trials)
	if e.Confidence > 0 && e.Confidence < 1 {
		res.HalfWidth = ConfidenceHalfWidth(res.StdErr, e.Confidence)
	} else {
		res.Confidence = 0
	}
	return res
}

// logRecorder writes generated schedules to the trace log. Events and
// transitions are already traced by the simulator itself.
type logRecorder struct {
	log *logrus.Entry
}

func (r *logRecorder) RecordSchedule(s trace.ScheduleRecord) {
	r.log.Tracef("%s releases: %v, bad: %v", s.Node, s.Releases, s.BadReleases)
}

func (r *logRecorder) RecordEvent(trace.EventRecord) {}

func (r *logRecorder) RecordTransition(trace.TransitionRecord) {}
