package model

import (
	"time"

	"github.com/google/uuid"
)

const SessionLayout = "20060102_150405"

type Status string

const (
	StatusInstalled   Status = "installed"
	StatusMissing     Status = "missing"
	StatusOperational Status = "operational"
	StatusFailed      Status = "failed"
	StatusActive      Status = "active"
	StatusEmpty       Status = "empty"
	StatusMissingDir  Status = "missing_dir"
	StatusValid       Status = "valid"
	StatusInvalid     Status = "invalid"
	StatusEnabled     Status = "enabled"
	StatusDisabled    Status = "disabled"
)

// Level groups probe statuses by how the console marks them.
type Level int

const (
	LevelPass Level = iota
	LevelWarn
	LevelFail
)

func (s Status) Level() Level {
	switch s {
	case StatusInstalled, StatusOperational, StatusActive, StatusValid, StatusEnabled:
		return LevelPass
	case StatusEmpty, StatusDisabled:
		return LevelWarn
	default:
		return LevelFail
	}
}

type SystemStatus string

const (
	SystemUnknown        SystemStatus = "unknown"
	SystemExcellent      SystemStatus = "excellent"
	SystemGood           SystemStatus = "good"
	SystemNeedsAttention SystemStatus = "needs_attention"
)

type ProbeResult struct {
	Name      string         `json:"name"`
	Status    Status         `json:"status"`
	Detail    string         `json:"detail,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type Dependency struct {
	Status   Status `json:"status"`
	Required bool   `json:"required"`
}

type Report struct {
	Timestamp       time.Time                         `json:"timestamp"`
	SessionID       string                            `json:"session_id"`
	RunID           string                            `json:"run_id"`
	SystemStatus    SystemStatus                      `json:"system_status"`
	Components      map[string]map[string]ProbeResult `json:"components"`
	Dependencies    map[string]Dependency             `json:"dependencies"`
	Recommendations []string                          `json:"recommendations"`
}

func SessionID(start time.Time) string {
	return "health_check_" + start.Format(SessionLayout)
}

func NewReport(start time.Time) *Report {
	return &Report{
		Timestamp:       start,
		SessionID:       SessionID(start),
		RunID:           uuid.NewString(),
		SystemStatus:    SystemUnknown,
		Components:      make(map[string]map[string]ProbeResult),
		Dependencies:    make(map[string]Dependency),
		Recommendations: []string{},
	}
}

// Component returns the named result and whether it was recorded.
func (r *Report) Component(group, name string) (ProbeResult, bool) {
	res, ok := r.Components[group][name]
	return res, ok
}
