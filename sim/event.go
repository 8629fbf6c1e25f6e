package sim

import "github.com/availability-sim/availability-sim/sim/trace"

// EventKind classifies a state change applied by the TrialSimulator.
type EventKind string

const (
	// EventRelease is any scheduled release, good or bad.
	EventRelease EventKind = "release"
	// EventBadRelease starts an outage on its node; on A it also invalidates B's and C's caches.
	EventBadRelease EventKind = "bad_release"
	// EventOutageEnd is the expiry of a node's outage timer.
	EventOutageEnd EventKind = "outage_end"
	// EventCacheWarm is the expiry of a cache warm-up timer.
	EventCacheWarm EventKind = "cache_warm"
)

// Recorder receives trace records while a trial runs. *trace.TrialTrace
// implements it. Pass a nil interface, not a typed nil, to disable tracing.
type Recorder interface {
	RecordSchedule(trace.ScheduleRecord)
	RecordEvent(trace.EventRecord)
	RecordTransition(trace.TransitionRecord)
}

// cursor is a lookahead slot over an ascending stream of minutes.
type cursor struct {
	times []int64
	next  int
}

// peek returns the next pending time, or false once the stream is drained.
func (c *cursor) peek() (int64, bool) {
	if c.next >= len(c.times) {
		return 0, false
	}
	return c.times[c.next], true
}

// consumeAt advances past the pending time if it equals now.
func (c *cursor) consumeAt(now int64) bool {
	if t, ok := c.peek(); ok && t == now {
		c.next++
		return true
	}
	return false
}

// earliest folds a candidate time into a running minimum; missing candidates are skipped.
func earliest(best int64, found bool, t int64, ok bool) (int64, bool) {
	if !ok {
		return best, found
	}
	if !found || t < best {
		return t, true
	}
	return best, found
}
