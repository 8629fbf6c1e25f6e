// Tracks the distribution of per-trial downtime across many trials.

package sim

import (
	"fmt"
	"io"
	"math"
)

// DowntimeDistribution counts trials by total downtime in whole minutes.
// Counts[m] is the number of trials with exactly m minutes of downtime.
type DowntimeDistribution struct {
	Counts []int64
}

// NewDowntimeDistribution allocates buckets for downtimes in [0, maxMinutes].
func NewDowntimeDistribution(maxMinutes int64) *DowntimeDistribution {
	return &DowntimeDistribution{Counts: make([]int64, maxMinutes+1)}
}

// Observe records one trial. Downtimes beyond the allocated range grow the table.
func (d *DowntimeDistribution) Observe(minutes int64) {
	if minutes < 0 {
		minutes = 0
	}
	if minutes >= int64(len(d.Counts)) {
		grown := make([]int64, minutes+1)
		copy(grown, d.Counts)
		d.Counts = grown
	}
	d.Counts[minutes]++
}

// Merge adds other's counts into d.
func (d *DowntimeDistribution) Merge(other *DowntimeDistribution) {
	if other == nil {
		return
	}
	if len(other.Counts) > len(d.Counts) {
		grown := make([]int64, len(other.Counts))
		copy(grown, d.Counts)
		d.Counts = grown
	}
	for m, c := range other.Counts {
		d.Counts[m] += c
	}
}

// Trials returns the number of observations.
func (d *DowntimeDistribution) Trials() int64 {
	var n int64
	for _, c := range d.Counts {
		n += c
	}
	return n
}

// Min returns the smallest observed downtime, or -1 if empty.
func (d *DowntimeDistribution) Min() int64 {
	for m, c := range d.Counts {
		if c > 0 {
			return int64(m)
		}
	}
	return -1
}

// Max returns the largest observed downtime, or -1 if empty.
func (d *DowntimeDistribution) Max() int64 {
	for m := len(d.Counts) - 1; m >= 0; m-- {
		if d.Counts[m] > 0 {
			return int64(m)
		}
	}
	return -1
}

// Percentile returns the nearest-rank p-th percentile (0 < p <= 100), or -1 if empty.
func (d *DowntimeDistribution) Percentile(p float64) int64 {
	n := d.Trials()
	if n == 0 {
		return -1
	}
	rank := int64(math.Ceil(p / 100.0 * float64(n)))
	rank = min(max(rank, 1), n)

	var seen int64
	for m, c := range d.Counts {
		seen += c
		if seen >= rank {
			return int64(m)
		}
	}
	return d.Max()
}

// Print writes every non-empty bucket with its share of trials.
func (d *DowntimeDistribution) Print(w io.Writer) {
	n := d.Trials()
	if n == 0 {
		return
	}
	fmt.Fprintln(w, "=== Downtime Distribution ===")
	for m, c := range d.Counts {
		if c == 0 {
			continue
		}
		fmt.Fprintf(w, "%4d min : %12d (%.4f%%)\n", m, c, 100*float64(c)/float64(n))
	}
}
