package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

// ErrSpacingUnsatisfiable is returned when rejection sampling gives up before
// placing every release at the required spacing.
var ErrSpacingUnsatisfiable = errors.New("cannot satisfy spacing constraint")

// Schedule is one node's release timeline for a simulated year.
type Schedule struct {
	// Releases holds ReleaseCount distinct release minutes, ascending.
	Releases []int64
	// BadReleases is the ascending subset of Releases that cause an outage.
	BadReleases []int64
}

// ScheduleGenerator draws random but constrained release schedules.
// A generator owns its *rand.Rand and must not be shared between goroutines.
type ScheduleGenerator struct {
	params     Params
	rng        *rand.Rand
	rejections int64
}

// NewScheduleGenerator binds a generator to params and an RNG stream.
func NewScheduleGenerator(params Params, rng *rand.Rand) *ScheduleGenerator {
	return &ScheduleGenerator{params: params, rng: rng}
}

// Rejections returns the number of candidate draws rejected so far for
// violating the spacing constraint, across every Generate call.
func (g *ScheduleGenerator) Rejections() int64 {
	return g.rejections
}

// Generate fills dst with a fresh schedule, reusing its backing arrays.
//
// Release minutes are drawn uniformly from [0, YearMinutes) and rejected when
// closer than or equal to MinReleaseGap to any accepted release. The bad
// subset is a uniform sample without replacement (reservoir sampling) from
// the accepted releases.
func (g *ScheduleGenerator) Generate(dst *Schedule) error {
	p := g.params
	dst.Releases = slices.Grow(dst.Releases[:0], p.ReleaseCount)

	rejected := 0
	for len(dst.Releases) < p.ReleaseCount {
		candidate := g.rng.Int63n(p.YearMinutes)
		if isSpacedFrom(dst.Releases, candidate, p.MinReleaseGap) {
			dst.Releases = append(dst.Releases, candidate)
			continue
		}
		rejected++
		g.rejections++
		if rejected > p.MaxScheduleAttempts {
			return fmt.Errorf("%w: placed %d of %d releases in %d minutes with gap > %d after %d rejected draws",
				ErrSpacingUnsatisfiable, len(dst.Releases), p.ReleaseCount, p.YearMinutes, p.MinReleaseGap, rejected)
		}
	}

	// Sample before sorting so the reservoir sees releases in draw order.
	k := p.BadReleaseCount
	dst.BadReleases = append(dst.BadReleases[:0], dst.Releases[:k]...)
	for i := k; i < len(dst.Releases); i++ {
		if j := g.rng.Intn(i + 1); j < k {
			dst.BadReleases[j] = dst.Releases[i]
		}
	}

	slices.Sort(dst.Releases)
	slices.Sort(dst.BadReleases)
	return nil
}

// isSpacedFrom reports whether t is more than gap minutes away from every accepted time.
func isSpacedFrom(accepted []int64, t, gap int64) bool {
	for _, x := range accepted {
		d := t - x
		if d < 0 {
			d = -d
		}
		if d <= gap {
			return false
		}
	}
	return true
}
