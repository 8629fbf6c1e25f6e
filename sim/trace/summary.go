package trace

// TraceSummary aggregates statistics from a TrialTrace.
type TraceSummary struct {
	TotalEvents     int
	EventsByKind    map[string]int
	BadReleases     map[string]int // node → bad releases applied
	DownTransitions int
	UpTransitions   int
	Downtime        int64 // sum of paired down→up spans
	LongestDowntime int64
}

// Summarize computes aggregate statistics from a TrialTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(tt *TrialTrace) *TraceSummary {
	summary := &TraceSummary{
		EventsByKind: make(map[string]int),
		BadReleases:  make(map[string]int),
	}
	if tt == nil {
		return summary
	}

	summary.TotalEvents = len(tt.Events)
	for _, e := range tt.Events {
		summary.EventsByKind[e.Kind]++
		if e.Kind == "bad_release" {
			summary.BadReleases[e.Node]++
		}
	}

	var downAt int64
	down := false
	for _, tr := range tt.Transitions {
		if !tr.Up {
			summary.DownTransitions++
			downAt = tr.Clock
			down = true
			continue
		}
		summary.UpTransitions++
		if down {
			span := tr.Clock - downAt
			summary.Downtime += span
			summary.LongestDowntime = max(summary.LongestDowntime, span)
			down = false
		}
	}

	return summary
}
