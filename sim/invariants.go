package sim

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation marks a logic defect detected by CheckSchedule or
// CheckDowntime. It is never expected with valid parameters.
var ErrInvariantViolation = errors.New("invariant violation")

// CheckSchedule verifies every structural property a generated schedule must have.
func CheckSchedule(s Schedule, p Params) error {
	if len(s.Releases) != p.ReleaseCount {
		return fmt.Errorf("%w: %d releases, want %d", ErrInvariantViolation, len(s.Releases), p.ReleaseCount)
	}
	for i, t := range s.Releases {
		if t < 0 || t >= p.YearMinutes {
			return fmt.Errorf("%w: release %d at minute %d outside [0, %d)", ErrInvariantViolation, i, t, p.YearMinutes)
		}
		if i > 0 && t-s.Releases[i-1] <= p.MinReleaseGap {
			return fmt.Errorf("%w: releases at %d and %d are not more than %d minutes apart",
				ErrInvariantViolation, s.Releases[i-1], t, p.MinReleaseGap)
		}
	}

	if len(s.BadReleases) != p.BadReleaseCount {
		return fmt.Errorf("%w: %d bad releases, want %d", ErrInvariantViolation, len(s.BadReleases), p.BadReleaseCount)
	}
	// Releases is strictly ascending, so a merge walk checks membership.
	j := 0
	for i, t := range s.BadReleases {
		if i > 0 && t <= s.BadReleases[i-1] {
			return fmt.Errorf("%w: bad releases not strictly ascending at %d", ErrInvariantViolation, t)
		}
		for j < len(s.Releases) && s.Releases[j] < t {
			j++
		}
		if j == len(s.Releases) || s.Releases[j] != t {
			return fmt.Errorf("%w: bad release %d is not a release", ErrInvariantViolation, t)
		}
	}
	return nil
}

// CheckDowntime verifies a trial's total downtime lies within Params.DowntimeBounds.
func CheckDowntime(total int64, p Params) error {
	lo, hi := p.DowntimeBounds()
	if total < lo || total > hi {
		return fmt.Errorf("%w: trial downtime %d outside [%d, %d]", ErrInvariantViolation, total, lo, hi)
	}
	return nil
}
