package sim

import (
	"errors"
	"testing"
)

// smallParams is a reduced model with 5 releases, 2 bad, gap 60 in a 10000-minute year.
func smallParams() Params {
	p := DefaultParams()
	p.YearMinutes = 10_000
	p.ReleaseCount = 5
	p.BadReleaseCount = 2
	return p
}

func TestCheckSchedule(t *testing.T) {
	p := smallParams()

	tests := []struct {
		name    string
		s       Schedule
		wantErr bool
	}{
		{
			name: "valid",
			s:    Schedule{Releases: []int64{0, 100, 500, 561, 9999}, BadReleases: []int64{100, 9999}},
		},
		{
			name:    "too few releases",
			s:       Schedule{Releases: []int64{0, 100, 500, 561}, BadReleases: []int64{100, 500}},
			wantErr: true,
		},
		{
			name:    "release outside year",
			s:       Schedule{Releases: []int64{0, 100, 500, 561, 10_000}, BadReleases: []int64{100, 500}},
			wantErr: true,
		},
		{
			name:    "negative release",
			s:       Schedule{Releases: []int64{-1, 100, 500, 561, 900}, BadReleases: []int64{100, 500}},
			wantErr: true,
		},
		{
			name:    "gap exactly min gap",
			s:       Schedule{Releases: []int64{0, 100, 500, 560, 900}, BadReleases: []int64{100, 500}},
			wantErr: true,
		},
		{
			name:    "not sorted",
			s:       Schedule{Releases: []int64{0, 500, 100, 700, 900}, BadReleases: []int64{100, 500}},
			wantErr: true,
		},
		{
			name:    "wrong bad count",
			s:       Schedule{Releases: []int64{0, 100, 500, 700, 900}, BadReleases: []int64{100}},
			wantErr: true,
		},
		{
			name:    "bad release not a release",
			s:       Schedule{Releases: []int64{0, 100, 500, 700, 900}, BadReleases: []int64{100, 600}},
			wantErr: true,
		},
		{
			name:    "bad releases descending",
			s:       Schedule{Releases: []int64{0, 100, 500, 700, 900}, BadReleases: []int64{500, 100}},
			wantErr: true,
		},
		{
			name:    "duplicate bad release",
			s:       Schedule{Releases: []int64{0, 100, 500, 700, 900}, BadReleases: []int64{100, 100}},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckSchedule(tc.s, p)
			if tc.wantErr {
				if !errors.Is(err, ErrInvariantViolation) {
					t.Errorf("CheckSchedule() = %v, want ErrInvariantViolation", err)
				}
				return
			}
			if err != nil {
				t.Errorf("CheckSchedule() unexpected error: %v", err)
			}
		})
	}
}

func TestCheckDowntime(t *testing.T) {
	p := DefaultParams()
	for _, total := range []int64{27, 45, 81} {
		if err := CheckDowntime(total, p); err != nil {
			t.Errorf("CheckDowntime(%d) = %v, want nil", total, err)
		}
	}
	for _, total := range []int64{0, 26, 82} {
		if err := CheckDowntime(total, p); !errors.Is(err, ErrInvariantViolation) {
			t.Errorf("CheckDowntime(%d) = %v, want ErrInvariantViolation", total, err)
		}
	}
}
