package probe

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/marek-kar/aihealth/pkg/model"
)

const (
	ConfigGroup  = "configuration"
	ConfigResult = "ai_config"
)

// Flag is an advisory boolean in the AI config, addressed by its key path.
type Flag struct {
	Name string   `yaml:"name"`
	Path []string `yaml:"path"`
}

type ConfigProbe struct {
	Path  string
	Root  string
	Flags []Flag
	Clock Clock
}

func (p *ConfigProbe) Name() string  { return "config" }
func (p *ConfigProbe) Title() string { return "Checking AI configuration..." }

func (p *ConfigProbe) Run(ctx context.Context) Outcome {
	out := Outcome{Group: ConfigGroup}
	r := model.ProbeResult{Name: ConfigResult, Timestamp: p.Clock.Now()}

	data, err := os.ReadFile(resolve(p.Root, p.Path))
	if errors.Is(err, fs.ErrNotExist) {
		r.Status = model.StatusMissing
		r.Detail = p.Path + " does not exist"
		out.Add(r)
		out.Recommend("Create missing AI configuration file: %s", p.Path)
		return out
	}
	if err != nil {
		r.Status = model.StatusInvalid
		r.Detail = err.Error()
		out.Add(r)
		out.Recommend("Fix AI configuration file: read failed")
		return out
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		r.Status = model.StatusInvalid
		r.Detail = err.Error()
		out.Add(r)
		out.Recommend("Fix AI configuration file: JSON parse failed")
		return out
	}

	r.Status = model.StatusValid
	out.Add(r)
	for _, f := range p.Flags {
		status := model.StatusDisabled
		if LookupBool(doc, false, f.Path...) {
			status = model.StatusEnabled
		}
		out.Add(model.ProbeResult{Name: f.Name, Status: status, Timestamp: r.Timestamp})
	}
	return out
}
