// Package config resolves the tool's own settings: defaults, an optional YAML
// file, .env and environment overrides. CLI flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/marek-kar/aihealth/pkg/probe"
)

const (
	EnvRoot       = "AIHEALTH_ROOT"
	EnvPython     = "AIHEALTH_PYTHON"
	EnvReportDir  = "AIHEALTH_REPORT_DIR"
	EnvConfigFile = "AIHEALTH_CONFIG_FILE"
)

type Options struct {
	Root          string              `yaml:"root"`
	Python        string              `yaml:"python"`
	ImportTimeout time.Duration       `yaml:"import_timeout"`
	Packages      []probe.Package     `yaml:"packages"`
	Processes     []probe.ProcessSpec `yaml:"processes"`
	Directories   []string            `yaml:"directories"`
	ConfigFile    string              `yaml:"config_file"`
	Flags         []probe.Flag        `yaml:"flags"`
	ReportDir     string              `yaml:"report_dir"`
}

func Default() Options {
	return Options{
		Root:          ".",
		Python:        "python3",
		ImportTimeout: 30 * time.Second,
		Packages: []probe.Package{
			{Name: "numpy", Module: "numpy"},
			{Name: "pandas", Module: "pandas"},
			{Name: "scikit-learn", Module: "sklearn"},
			{Name: "torch", Module: "torch"},
		},
		Processes: []probe.ProcessSpec{
			{
				Group:     "neural_networks",
				Name:      "performance_predictor",
				Title:     "Checking neural network components...",
				Python:    true,
				Args:      []string{"ai_intelligence/neural_networks/performance_predictor.py"},
				Timeout:   30 * time.Second,
				Metadata:  map[string]any{"confidence": "91%"},
				FixHint:   "Fix neural network performance predictor",
				CheckHint: "Check neural network components",
			},
			{
				Group:   "autonomous_systems",
				Name:    "optimization_engine",
				Title:   "Checking autonomous systems...",
				Command: "bash",
				Args:    []string{"ai_intelligence/autonomous_systems/optimization_engine.sh"},
				Timeout: 60 * time.Second,
				Metadata: map[string]any{
					"confidence_threshold": "85%",
					"auto_apply":           true,
				},
				FixHint:   "Fix autonomous optimization engine",
				CheckHint: "Check autonomous systems",
			},
		},
		Directories: []string{
			"ai_data/model_outputs",
			"ai_data/optimization_history",
			"ai_data/performance_baselines",
			"ai_data/ml_models",
		},
		ConfigFile: "ai_intelligence/ai_config.json",
		Flags: []probe.Flag{
			{Name: "performance_prediction", Path: []string{"neural_networks", "performance_prediction", "enabled"}},
			{Name: "self_healing", Path: []string{"autonomous_systems", "self_healing", "enabled"}},
		},
		ReportDir: "ai_data/health_reports",
	}
}

// LoadFile overlays a YAML file onto opts. Lists in the file replace the
// defaults rather than extending them.
func LoadFile(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv loads envFile (if present) without overriding variables already
// set, then applies the AIHEALTH_* overrides.
func ApplyEnv(envFile string, opts *Options) error {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	setFromEnv(EnvRoot, &opts.Root)
	setFromEnv(EnvPython, &opts.Python)
	setFromEnv(EnvReportDir, &opts.ReportDir)
	setFromEnv(EnvConfigFile, &opts.ConfigFile)
	return nil
}

func setFromEnv(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// ProcessSpecs returns the process checks with interpreter-based entries
// bound to the configured Python.
func (o Options) ProcessSpecs() []probe.ProcessSpec {
	specs := make([]probe.ProcessSpec, len(o.Processes))
	for i, s := range o.Processes {
		if s.Python {
			s.Command = o.Python
		}
		specs[i] = s
	}
	return specs
}

// ReportPath resolves the report directory against the project root.
func (o Options) ReportPath() string {
	if filepath.IsAbs(o.ReportDir) {
		return o.ReportDir
	}
	return filepath.Join(o.Root, o.ReportDir)
}

func (o Options) Validate() error {
	if o.Python == "" {
		return errors.New("python interpreter is required")
	}
	if o.ImportTimeout <= 0 {
		return fmt.Errorf("import timeout must be positive, got %s", o.ImportTimeout)
	}
	if o.ReportDir == "" {
		return errors.New("report directory is required")
	}
	if o.ConfigFile == "" {
		return errors.New("config file path is required")
	}
	for _, p := range o.Packages {
		if p.Name == "" || p.Module == "" {
			return fmt.Errorf("package entry needs name and module: %+v", p)
		}
	}
	for _, s := range o.ProcessSpecs() {
		if s.Group == "" || s.Name == "" {
			return fmt.Errorf("process check needs group and name: %q/%q", s.Group, s.Name)
		}
		if s.Command == "" {
			return fmt.Errorf("process check %s/%s has no command", s.Group, s.Name)
		}
		if s.Timeout <= 0 {
			return fmt.Errorf("process check %s/%s: timeout must be positive", s.Group, s.Name)
		}
	}
	for _, f := range o.Flags {
		if f.Name == "" || len(f.Path) == 0 {
			return fmt.Errorf("flag entry needs name and path: %+v", f)
		}
	}
	return nil
}
