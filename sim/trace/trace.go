package trace

import "slices"

// TraceLevel controls the verbosity of per-trial tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelSchedules captures generated schedules and availability transitions.
	TraceLevelSchedules TraceLevel = "schedules"
	// TraceLevelEvents additionally captures every applied event.
	TraceLevelEvents TraceLevel = "events"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelSchedules: true,
	TraceLevelEvents:    true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// TrialTrace collects records for one trial.
type TrialTrace struct {
	Config      TraceConfig
	Schedules   []ScheduleRecord
	Events      []EventRecord
	Transitions []TransitionRecord
}

// NewTrialTrace creates a TrialTrace ready for recording.
func NewTrialTrace(config TraceConfig) *TrialTrace {
	return &TrialTrace{
		Config:      config,
		Schedules:   make([]ScheduleRecord, 0, 3),
		Events:      make([]EventRecord, 0),
		Transitions: make([]TransitionRecord, 0),
	}
}

func (tt *TrialTrace) enabled() bool {
	return tt.Config.Level != TraceLevelNone && tt.Config.Level != ""
}

// RecordSchedule stores a copy of a node's schedule; callers may reuse their slices.
func (tt *TrialTrace) RecordSchedule(record ScheduleRecord) {
	if !tt.enabled() {
		return
	}
	record.Releases = slices.Clone(record.Releases)
	record.BadReleases = slices.Clone(record.BadReleases)
	tt.Schedules = append(tt.Schedules, record)
}

// RecordEvent appends an event record. Only kept at TraceLevelEvents.
func (tt *TrialTrace) RecordEvent(record EventRecord) {
	if tt.Config.Level != TraceLevelEvents {
		return
	}
	tt.Events = append(tt.Events, record)
}

// RecordTransition appends an availability transition.
func (tt *TrialTrace) RecordTransition(record TransitionRecord) {
	if !tt.enabled() {
		return
	}
	tt.Transitions = append(tt.Transitions, record)
}
