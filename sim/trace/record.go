// Package trace provides per-trial trace recording for the availability simulator.
// This package has no dependencies on sim/; it stores plain data types.
package trace

// ScheduleRecord captures one node's generated release schedule.
type ScheduleRecord struct {
	Node        string
	Releases    []int64
	BadReleases []int64
}

// EventRecord captures a single state change applied at one instant.
type EventRecord struct {
	Clock int64
	Node  string
	Kind  string // release, bad_release, outage_end, cache_warm
	Until int64  // new timer expiry for bad releases; 0 otherwise
}

// TransitionRecord captures a change of system-level availability.
type TransitionRecord struct {
	Clock int64
	Up    bool // true for down→up, false for up→down
}
