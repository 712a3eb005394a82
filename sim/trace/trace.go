package trace

import "fmt"

// Level controls the verbosity of decision tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelDecisions captures every admission decision.
	LevelDecisions Level = "decisions"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:      true,
	LevelDecisions: true,
	"":             true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// ParseLevel validates level and maps the empty string to LevelNone.
func ParseLevel(level string) (Level, error) {
	if !IsValidLevel(level) {
		return LevelNone, fmt.Errorf("unknown trace level %q", level)
	}
	if level == "" {
		return LevelNone, nil
	}
	return Level(level), nil
}

// SimulationTrace collects decision records during a simulation.
type SimulationTrace struct {
	Level      Level
	Admissions []AdmissionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level Level) *SimulationTrace {
	return &SimulationTrace{
		Level:      level,
		Admissions: make([]AdmissionRecord, 0),
	}
}

// Enabled reports whether records should be collected. Safe on nil.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Level == LevelDecisions
}

// RecordAdmission appends an admission decision record.
func (st *SimulationTrace) RecordAdmission(record AdmissionRecord) {
	st.Admissions = append(st.Admissions, record)
}
