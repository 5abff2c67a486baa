package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	start := time.Date(2025, 7, 29, 19, 44, 38, 0, time.UTC)
	r := NewReport(start)

	assert.Equal(t, "health_check_20250729_194438", r.SessionID)
	assert.Equal(t, SystemUnknown, r.SystemStatus)
	assert.True(t, r.Timestamp.Equal(start))
	assert.NotEmpty(t, r.RunID)
	assert.NotNil(t, r.Components)
	assert.NotNil(t, r.Dependencies)
	assert.NotNil(t, r.Recommendations)
}

func TestNewReport_DistinctRunIDs(t *testing.T) {
	start := time.Date(2025, 7, 29, 19, 44, 38, 0, time.UTC)
	assert.NotEqual(t, NewReport(start).RunID, NewReport(start).RunID)
}

func TestReportJSONKeys(t *testing.T) {
	ts := time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC)
	r := NewReport(ts)
	r.SystemStatus = SystemGood
	r.Components["neural_networks"] = map[string]ProbeResult{
		"performance_predictor": {
			Name:      "performance_predictor",
			Status:    StatusFailed,
			Detail:    "Traceback: boom",
			Timestamp: ts,
		},
	}
	r.Dependencies["numpy"] = Dependency{Status: StatusInstalled, Required: true}
	r.Recommendations = append(r.Recommendations, "Fix neural network performance predictor: run failed")

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{"timestamp", "session_id", "run_id", "system_status", "components", "dependencies", "recommendations"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, "good", decoded["system_status"])

	nn := decoded["components"].(map[string]any)["neural_networks"].(map[string]any)
	pp := nn["performance_predictor"].(map[string]any)
	assert.Equal(t, "failed", pp["status"])
	assert.Equal(t, "Traceback: boom", pp["detail"])
	assert.NotContains(t, pp, "metadata")

	dep := decoded["dependencies"].(map[string]any)["numpy"].(map[string]any)
	assert.Equal(t, "installed", dep["status"])
	assert.Equal(t, true, dep["required"])
}

func TestStatusLevel(t *testing.T) {
	tests := []struct {
		status Status
		want   Level
	}{
		{StatusInstalled, LevelPass},
		{StatusOperational, LevelPass},
		{StatusActive, LevelPass},
		{StatusValid, LevelPass},
		{StatusEnabled, LevelPass},
		{StatusEmpty, LevelWarn},
		{StatusDisabled, LevelWarn},
		{StatusMissing, LevelFail},
		{StatusFailed, LevelFail},
		{StatusMissingDir, LevelFail},
		{StatusInvalid, LevelFail},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Level())
		})
	}
}

func TestReportComponent(t *testing.T) {
	r := NewReport(time.Now())
	_, ok := r.Component("data_directories", "ai_data/ml_models")
	assert.False(t, ok)

	r.Components["data_directories"] = map[string]ProbeResult{
		"ai_data/ml_models": {Name: "ai_data/ml_models", Status: StatusEmpty},
	}
	res, ok := r.Component("data_directories", "ai_data/ml_models")
	require.True(t, ok)
	assert.Equal(t, StatusEmpty, res.Status)
}
