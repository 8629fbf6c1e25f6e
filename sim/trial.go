package sim

import (
	"fmt"
	"math/rand"
)

// TrialRunner draws fresh schedules and simulates one trial per Run call,
// reusing its buffers between calls. One runner per goroutine.
type TrialRunner struct {
	params    Params
	strict    bool
	gen       *ScheduleGenerator
	sim       *TrialSimulator
	schedules [NodeCount]Schedule
}

// NewTrialRunner binds a runner to params and a private RNG stream. In strict
// mode every schedule and every trial result is checked against its invariants.
func NewTrialRunner(params Params, rng *rand.Rand, strict bool) *TrialRunner {
	return &TrialRunner{
		params: params,
		strict: strict,
		gen:    NewScheduleGenerator(params, rng),
		sim:    NewTrialSimulator(params),
	}
}

// Run generates A's, B's and C's schedules, in that order, and simulates the year.
func (r *TrialRunner) Run(rec Recorder) (TrialResult, error) {
	for _, n := range Nodes {
		if err := r.gen.Generate(&r.schedules[n]); err != nil {
			return TrialResult{}, fmt.Errorf("generating schedule for node %s: %w", n, err)
		}
		if r.strict {
			if err := CheckSchedule(r.schedules[n], r.params); err != nil {
				return TrialResult{}, fmt.Errorf("schedule for node %s: %w", n, err)
			}
		}
	}

	res := r.sim.Run(r.schedules, rec)
	if r.strict {
		if err := r.sim.Err(); err != nil {
			return res, err
		}
		if err := CheckDowntime(res.Downtime, r.params); err != nil {
			return res, fmt.Errorf("%w (intervals %v)", err, res.Intervals)
		}
	}
	return res, nil
}

// Schedules returns the schedules of the last Run, indexed by NodeID. The
// slices are overwritten by the next Run.
func (r *TrialRunner) Schedules() [NodeCount]Schedule {
	return r.schedules
}

// Rejections returns the spacing-constraint rejections accumulated by this runner.
func (r *TrialRunner) Rejections() int64 {
	return r.gen.Rejections()
}
