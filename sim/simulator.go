// sim/simulator.go
package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/availability-sim/availability-sim/sim/trace"
)

// TrialResult is the outcome of one simulated year.
type TrialResult struct {
	// Downtime is the total number of minutes the system was unavailable.
	Downtime int64
	// Intervals are the closed downtime intervals in order. The slice is owned
	// by the TrialSimulator and is overwritten by its next Run.
	Intervals []Interval
	// Instants is the number of distinct event times processed.
	Instants int
}

// TrialSimulator runs the year-long discrete-event simulation of one trial.
//
// Six sorted event streams (plain and bad releases of A, B and C) are merged
// with up to five armed timers by taking the minimum pending time at each step.
// All items due at that time are applied as one batch before availability is
// re-evaluated. A simulator keeps its scratch storage between runs and must be
// used from a single goroutine.
type TrialSimulator struct {
	Clock int64

	params      Params
	releases    [NodeCount]cursor
	bad         [NodeCount]cursor
	outage      [NodeCount]Timer
	cacheCold   [NodeCount]Timer // A has no cache; its slot stays unarmed
	cacheWarmup [NodeCount]int64
	downtime    *DowntimeLog
	rec         Recorder
	instants    int
}

// NewTrialSimulator allocates a simulator for params.
func NewTrialSimulator(params Params) *TrialSimulator {
	return &TrialSimulator{
		params:      params,
		cacheWarmup: [NodeCount]int64{NodeB: params.BCacheWarmup, NodeC: params.CCacheWarmup},
		downtime:    NewDowntimeLog(params.IntervalCapacity()),
	}
}

// Run simulates one trial over the given per-node schedules, indexed by NodeID.
// rec may be nil.
func (sim *TrialSimulator) Run(schedules [NodeCount]Schedule, rec Recorder) TrialResult {
	sim.reset(schedules, rec)

	for {
		before := sim.Available()
		now, ok := sim.nextEventTime()
		if !ok {
			break
		}
		sim.Clock = now
		sim.apply(now)
		sim.instants++

		after := sim.Available()
		switch {
		case before && !after:
			sim.downtime.Open(now)
			sim.recordTransition(now, false)
		case !before && after:
			sim.downtime.Close(now)
			sim.recordTransition(now, true)
		}
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugf("[minute %06d] Trial ended, downs: %v", sim.Clock, sim.downtime.Intervals())
	}
	return TrialResult{
		Downtime:  sim.downtime.Total(),
		Intervals: sim.downtime.Intervals(),
		Instants:  sim.instants,
	}
}

// Err reports a downtime-log defect from the last Run.
func (sim *TrialSimulator) Err() error {
	return sim.downtime.Err()
}

// Available evaluates the availability predicate on the current state.
func (sim *TrialSimulator) Available() bool {
	return IsAvailable(
		sim.outage[NodeA], sim.outage[NodeB], sim.outage[NodeC],
		sim.cacheCold[NodeB], sim.cacheCold[NodeC],
	)
}

func (sim *TrialSimulator) reset(schedules [NodeCount]Schedule, rec Recorder) {
	sim.Clock = 0
	sim.instants = 0
	sim.rec = rec
	sim.downtime.Reset()
	for _, n := range Nodes {
		sim.releases[n] = cursor{times: schedules[n].Releases}
		sim.bad[n] = cursor{times: schedules[n].BadReleases}
		sim.outage[n] = Timer{}
		sim.cacheCold[n] = Timer{}
	}
	if sim.params.ColdStart {
		sim.invalidateCaches(0)
	}
	if rec != nil {
		for _, n := range Nodes {
			rec.RecordSchedule(trace.ScheduleRecord{
				Node:        n.String(),
				Releases:    schedules[n].Releases,
				BadReleases: schedules[n].BadReleases,
			})
		}
	}
}

// nextEventTime returns the earliest pending release, bad release or armed timer.
func (sim *TrialSimulator) nextEventTime() (int64, bool) {
	var best int64
	found := false
	for _, n := range Nodes {
		t, ok := sim.releases[n].peek()
		best, found = earliest(best, found, t, ok)
		t, ok = sim.bad[n].peek()
		best, found = earliest(best, found, t, ok)
		best, found = earliest(best, found, sim.outage[n].At, sim.outage[n].Armed)
		best, found = earliest(best, found, sim.cacheCold[n].At, sim.cacheCold[n].Armed)
	}
	return best, found
}

// apply consumes every item due at now. Expiries are applied before bad
// releases so that a bad release landing on an expiry re-arms the timer.
func (sim *TrialSimulator) apply(now int64) {
	for _, n := range Nodes {
		if sim.releases[n].consumeAt(now) {
			sim.recordEvent(now, n, EventRelease, 0)
		}
	}

	for _, n := range Nodes {
		if sim.outage[n].expireAt(now) {
			sim.recordEvent(now, n, EventOutageEnd, 0)
		}
		if sim.cacheCold[n].expireAt(now) {
			sim.recordEvent(now, n, EventCacheWarm, 0)
		}
	}

	for _, n := range Nodes {
		if !sim.bad[n].consumeAt(now) {
			continue
		}
		sim.outage[n] = ArmAt(now + sim.params.OutageMinutes)
		sim.recordEvent(now, n, EventBadRelease, sim.outage[n].At)
		// B and C cache A's data; only A's bad releases invalidate them.
		if n == NodeA {
			sim.invalidateCaches(now)
		}
	}
}

// invalidateCaches (re)starts the warm-up of B's and C's caches at now,
// overriding any warm-up in progress.
func (sim *TrialSimulator) invalidateCaches(now int64) {
	for _, n := range [...]NodeID{NodeB, NodeC} {
		if sim.cacheWarmup[n] > 0 {
			sim.cacheCold[n] = ArmAt(now + sim.cacheWarmup[n])
		} else {
			sim.cacheCold[n] = Timer{}
		}
	}
}

func (sim *TrialSimulator) recordEvent(now int64, n NodeID, kind EventKind, until int64) {
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Tracef("[minute %06d] %s %s", now, n, kind)
	}
	if sim.rec == nil {
		return
	}
	sim.rec.RecordEvent(trace.EventRecord{Clock: now, Node: n.String(), Kind: string(kind), Until: until})
}

func (sim *TrialSimulator) recordTransition(now int64, up bool) {
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		if up {
			logrus.Tracef("[minute %06d] Up", now)
		} else {
			logrus.Tracef("[minute %06d] Down", now)
		}
	}
	if sim.rec == nil {
		return
	}
	sim.rec.RecordTransition(trace.TransitionRecord{Clock: now, Up: up})
}
