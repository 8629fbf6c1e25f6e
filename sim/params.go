package sim

import (
	"errors"
	"fmt"
)

// YearMinutes is the length of the simulated window: one non-leap year, in minutes.
const YearMinutes int64 = 365 * 24 * 60

// ErrInvalidParams is returned by Params.Validate for unusable parameter sets.
var ErrInvalidParams = errors.New("invalid simulation parameters")

// Params holds every knob of a single trial. All durations are in minutes.
type Params struct {
	YearMinutes     int64 `yaml:"year_minutes"`
	ReleaseCount    int   `yaml:"release_count"`
	BadReleaseCount int   `yaml:"bad_release_count"`
	// Two releases of the same node must be strictly more than MinReleaseGap apart.
	MinReleaseGap int64 `yaml:"min_release_gap"`
	OutageMinutes int64 `yaml:"outage_minutes"`
	BCacheWarmup  int64 `yaml:"b_cache_warmup"`
	CCacheWarmup  int64 `yaml:"c_cache_warmup"`
	// Upper bound on rejected candidate draws while building one schedule.
	MaxScheduleAttempts int `yaml:"max_schedule_attempts"`
	// When set, the caches of B and C start cold at t=0 and warm up like after an A bad release.
	ColdStart bool `yaml:"cold_start"`
}

// DefaultParams returns the reference model: 30 releases a year per node, 3 of
// them bad, 9 minutes of outage, 30/40 minutes of cache warm-up for B/C.
func DefaultParams() Params {
	return Params{
		YearMinutes:         YearMinutes,
		ReleaseCount:        30,
		BadReleaseCount:     3,
		MinReleaseGap:       60,
		OutageMinutes:       9,
		BCacheWarmup:        30,
		CCacheWarmup:        40,
		MaxScheduleAttempts: 1_000_000,
		ColdStart:           true,
	}
}

// Validate reports the first structural problem with p, wrapped in ErrInvalidParams.
// It does not check whether the spacing constraint is satisfiable; the schedule
// generator reports that through ErrSpacingUnsatisfiable.
func (p Params) Validate() error {
	switch {
	case p.YearMinutes <= 0:
		return fmt.Errorf("%w: year_minutes must be positive, got %d", ErrInvalidParams, p.YearMinutes)
	case p.ReleaseCount <= 0:
		return fmt.Errorf("%w: release_count must be positive, got %d", ErrInvalidParams, p.ReleaseCount)
	case p.BadReleaseCount <= 0:
		return fmt.Errorf("%w: bad_release_count must be positive, got %d", ErrInvalidParams, p.BadReleaseCount)
	case p.BadReleaseCount > p.ReleaseCount:
		return fmt.Errorf("%w: bad_release_count (%d) exceeds release_count (%d)", ErrInvalidParams, p.BadReleaseCount, p.ReleaseCount)
	case p.MinReleaseGap < 0:
		return fmt.Errorf("%w: min_release_gap must not be negative, got %d", ErrInvalidParams, p.MinReleaseGap)
	case p.OutageMinutes <= 0:
		return fmt.Errorf("%w: outage_minutes must be positive, got %d", ErrInvalidParams, p.OutageMinutes)
	case p.BCacheWarmup < 0 || p.CCacheWarmup < 0:
		return fmt.Errorf("%w: cache warm-up must not be negative (b=%d, c=%d)", ErrInvalidParams, p.BCacheWarmup, p.CCacheWarmup)
	case p.MaxScheduleAttempts <= 0:
		return fmt.Errorf("%w: max_schedule_attempts must be positive, got %d", ErrInvalidParams, p.MaxScheduleAttempts)
	}
	return nil
}

// DowntimeBounds returns the inclusive range every trial's total downtime must fall in.
//
// The upper bound is every bad release of every node producing its own disjoint
// outage. The lower bound is A's outages alone; they only stay disjoint when
// A's releases are at least OutageMinutes apart, otherwise one outage is all
// that is guaranteed.
func (p Params) DowntimeBounds() (lo, hi int64) {
	hi = NodeCount * int64(p.BadReleaseCount) * p.OutageMinutes
	lo = p.OutageMinutes
	if p.MinReleaseGap+1 >= p.OutageMinutes {
		lo = int64(p.BadReleaseCount) * p.OutageMinutes
	}
	return lo, hi
}

// IntervalCapacity is the most downtime intervals a trial can produce: every
// down transition coincides with a bad release.
func (p Params) IntervalCapacity() int {
	return NodeCount * p.BadReleaseCount
}
