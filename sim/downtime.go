package sim

import (
	"errors"
	"fmt"
)

// ErrDowntimeCapacity is reported when a trial produces more downtime intervals
// than Params.IntervalCapacity allows. It signals a simulator defect.
var ErrDowntimeCapacity = errors.New("downtime interval capacity exceeded")

// Interval is a maximal span [Start, End) during which the whole system is down.
type Interval struct {
	Start int64
	End   int64
}

// Duration returns End - Start in minutes.
func (iv Interval) Duration() int64 {
	return iv.End - iv.Start
}

func (iv Interval) String() string {
	return fmt.Sprintf("(%d, %d)", iv.Start, iv.End)
}

// DowntimeLog accumulates the closed downtime intervals of one trial in a
// fixed-capacity arena. Reset makes it reusable for the next trial.
type DowntimeLog struct {
	intervals []Interval
	open      bool
	openedAt  int64
	overflow  bool
}

// NewDowntimeLog allocates a log able to hold capacity intervals.
func NewDowntimeLog(capacity int) *DowntimeLog {
	return &DowntimeLog{intervals: make([]Interval, 0, capacity)}
}

// Open starts a downtime interval at t.
func (d *DowntimeLog) Open(t int64) {
	d.open = true
	d.openedAt = t
}

// Close ends the open interval at t. Intervals past capacity are dropped and
// flagged; Err reports them.
func (d *DowntimeLog) Close(t int64) {
	if !d.open {
		return
	}
	d.open = false
	if len(d.intervals) == cap(d.intervals) {
		d.overflow = true
		return
	}
	d.intervals = append(d.intervals, Interval{Start: d.openedAt, End: t})
}

// IsOpen reports whether an interval has been opened but not closed.
func (d *DowntimeLog) IsOpen() bool {
	return d.open
}

// Intervals returns the closed intervals in chronological order. The slice is
// owned by the log and is overwritten after Reset.
func (d *DowntimeLog) Intervals() []Interval {
	return d.intervals
}

// Total sums the durations of all closed intervals.
func (d *DowntimeLog) Total() int64 {
	var total int64
	for _, iv := range d.intervals {
		total += iv.Duration()
	}
	return total
}

// Err reports capacity overflow or an interval left open at the end of a trial.
func (d *DowntimeLog) Err() error {
	if d.overflow {
		return fmt.Errorf("%w: capacity %d", ErrDowntimeCapacity, cap(d.intervals))
	}
	if d.open {
		return fmt.Errorf("%w: downtime interval opened at %d never closed", ErrInvariantViolation, d.openedAt)
	}
	return nil
}

// Reset clears the log while keeping its storage.
func (d *DowntimeLog) Reset() {
	d.intervals = d.intervals[:0]
	d.open = false
	d.openedAt = 0
	d.overflow = false
}
