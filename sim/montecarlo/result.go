package montecarlo

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"

	"github.com/availability-sim/availability-sim/sim"
)

// Result is the outcome of an estimation run.
type Result struct {
	RunID   string
	Params  sim.Params
	Seed    int64
	Workers int
	Trials  int64

	DowntimeSum   int64 // minutes, summed over every trial
	DowntimeSumSq int64

	AverageDowntime *big.Rat // minutes per year
	Availability    *big.Rat // percent
	Variance        *big.Rat // sample variance of per-trial downtime

	StdErr     float64 // standard error of AverageDowntime
	Confidence float64 // level of the interval below, 0 when disabled
	HalfWidth  float64 // confidence half-width around AverageDowntime, minutes

	Distribution       *sim.DowntimeDistribution
	ScheduleRejections int64
	Elapsed            time.Duration
}

// AverageDowntimeFloat approximates AverageDowntime.
func (r *Result) AverageDowntimeFloat() float64 {
	f, _ := r.AverageDowntime.Float64()
	return f
}

// AvailabilityFloat approximates Availability.
func (r *Result) AvailabilityFloat() float64 {
	f, _ := r.Availability.Float64()
	return f
}

// Print writes the three summary lines: the downtime sum, the average yearly
// downtime and the availability percentage, rationals in lowest terms followed
// by their floating approximation.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintf(w, "Unavailable sum: %d\n", r.DowntimeSum)
	fmt.Fprintf(w, "Average unavailable time: %s (%s)\n", r.AverageDowntime.RatString(), formatFloat(r.AverageDowntimeFloat()))
	fmt.Fprintf(w, "Percent: %s(%s)\n", r.Availability.RatString(), formatFloat(r.AvailabilityFloat()))
}

// PrintDetails writes run metadata, dispersion statistics and the downtime distribution.
func (r *Result) PrintDetails(w io.Writer) {
	fmt.Fprintln(w, "=== Estimation Details ===")
	fmt.Fprintf(w, "Run ID               : %s\n", r.RunID)
	fmt.Fprintf(w, "Trials               : %d\n", r.Trials)
	fmt.Fprintf(w, "Workers              : %d\n", r.Workers)
	fmt.Fprintf(w, "Seed                 : %d\n", r.Seed)
	fmt.Fprintf(w, "Elapsed              : %s\n", r.Elapsed.Round(time.Millisecond))
	v, _ := r.Variance.Float64()
	fmt.Fprintf(w, "Downtime variance    : %.6f min^2\n", v)
	fmt.Fprintf(w, "Standard error       : %.6f min\n", r.StdErr)
	if r.Confidence > 0 {
		avg := r.AverageDowntimeFloat()
		fmt.Fprintf(w, "%.0f%% CI (downtime)   : [%.6f, %.6f] min\n", 100*r.Confidence, avg-r.HalfWidth, avg+r.HalfWidth)
		year := float64(r.Params.YearMinutes)
		fmt.Fprintf(w, "%.0f%% CI (percent)    : [%.8f, %.8f]\n", 100*r.Confidence,
			100*(1-(avg+r.HalfWidth)/year), 100*(1-(avg-r.HalfWidth)/year))
	}
	if r.Distribution != nil {
		fmt.Fprintf(w, "Downtime min/max     : %d / %d min\n", r.Distribution.Min(), r.Distribution.Max())
		fmt.Fprintf(w, "Downtime p50/p90/p99 : %d / %d / %d min\n",
			r.Distribution.Percentile(50), r.Distribution.Percentile(90), r.Distribution.Percentile(99))
	}
	fmt.Fprintf(w, "Schedule rejections  : %d\n", r.ScheduleRejections)
	if r.Distribution != nil {
		r.Distribution.Print(w)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
