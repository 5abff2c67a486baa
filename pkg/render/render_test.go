package render

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marek-kar/aihealth/pkg/analysis"
	"github.com/marek-kar/aihealth/pkg/model"
)

var update = flag.Bool("update", false, "update golden files")

func assertGolden(t *testing.T, name string, got []byte) {
	t.Helper()
	goldenPath := filepath.Join("testdata", name)
	if *update {
		require.NoError(t, os.MkdirAll("testdata", 0o755))
		require.NoError(t, os.WriteFile(goldenPath, got, 0o644))
	}

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "read golden (run with -update to create)")
	if !bytes.Equal(got, golden) {
		t.Errorf("output mismatch.\n--- got ---\n%s\n--- want ---\n%s", got, golden)
	}
}

func testReport() *model.Report {
	ts := time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC)
	r := model.NewReport(ts)
	r.RunID = "3f2b8c1e-9a4d-4c6b-8e2f-1d7a5b9c0e34"
	r.SystemStatus = model.SystemNeedsAttention
	r.Dependencies["numpy"] = model.Dependency{Status: model.StatusInstalled, Required: true}
	r.Dependencies["torch"] = model.Dependency{Status: model.StatusMissing, Required: true}
	r.Components["neural_networks"] = map[string]model.ProbeResult{
		"performance_predictor": {
			Name:      "performance_predictor",
			Status:    model.StatusFailed,
			Detail:    "Traceback (most recent call last):\n  File \"x.py\"\nValueError",
			Timestamp: ts,
		},
	}
	r.Components["data_directories"] = map[string]model.ProbeResult{
		"ai_data/model_outputs": {
			Name:      "ai_data/model_outputs",
			Status:    model.StatusActive,
			Timestamp: ts,
			Metadata:  map[string]any{"entries": 3, "latest": "out.json"},
		},
	}
	r.Recommendations = append(r.Recommendations,
		"Install missing package torch: pip install torch",
		"Fix neural network performance predictor: run failed (exit status 1)",
	)
	return r
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatJSON).Render(&buf, testReport()))
	assertGolden(t, "needs_attention.json.golden", buf.Bytes())

	var decoded model.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, model.SystemNeedsAttention, decoded.SystemStatus)
	assert.Len(t, decoded.Recommendations, 2)
}

func TestTableRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatTable).Render(&buf, testReport()))
	assertGolden(t, "needs_attention.table.golden", buf.Bytes())
}

func TestNewDefaultsToTable(t *testing.T) {
	_, ok := New(Format("unknown")).(*tableRenderer)
	assert.True(t, ok)
}

func TestConsole_Run(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	r := testReport()

	c.Begin(r)
	c.Section("Checking AI system dependencies...")
	c.Dependency("numpy", r.Dependencies["numpy"], "")
	c.Dependency("torch", r.Dependencies["torch"], "import torch: ModuleNotFoundError: No module named 'torch'")
	c.Section("Checking AI data directories...")
	c.Result("data_directories", r.Components["data_directories"]["ai_data/model_outputs"])
	c.Result("data_directories", model.ProbeResult{Name: "ai_data/ml_models", Status: model.StatusEmpty})
	c.Result("neural_networks", r.Components["neural_networks"]["performance_predictor"])
	c.Summary(r, analysis.Tally{Errors: 2})
	c.Saved("ai_data/health_reports/health_check_20230615_103000.json")

	assertGolden(t, "needs_attention.console.golden", buf.Bytes())
}

func TestConsole_NoIssues(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	r := model.NewReport(time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC))
	r.SystemStatus = model.SystemExcellent

	c.Summary(r, analysis.Tally{})

	assertGolden(t, "excellent.console.golden", buf.Bytes())
	assert.NotContains(t, buf.String(), "signal(s)")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		result model.ProbeResult
		want   string
	}{
		{model.ProbeResult{Status: model.StatusOperational}, "Operational"},
		{model.ProbeResult{Status: model.StatusActive, Metadata: map[string]any{"entries": 1, "latest": "a.json"}}, "Active (1 file, latest: a.json)"},
		{model.ProbeResult{Status: model.StatusActive, Metadata: map[string]any{"entries": float64(12), "latest": "b.json"}}, "Active (12 files, latest: b.json)"},
		{model.ProbeResult{Status: model.StatusMissingDir}, "Missing"},
		{model.ProbeResult{Status: model.StatusMissing}, "Missing"},
		{model.ProbeResult{Status: model.StatusValid}, "Valid"},
		{model.ProbeResult{Status: model.StatusInvalid, Detail: "unexpected end of JSON input"}, "Invalid - unexpected end of JSON input"},
		{model.ProbeResult{Status: model.StatusEnabled}, "Enabled"},
		{model.ProbeResult{Status: model.StatusDisabled}, "Disabled or not configured"},
		{model.ProbeResult{Status: model.StatusFailed}, "Failed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.result.Status), func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.result))
		})
	}
}
