package probe

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/marek-kar/aihealth/pkg/model"
)

type ProcessSpec struct {
	Group   string   `yaml:"group"`
	Name    string   `yaml:"name"`
	Title   string   `yaml:"title"`
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	// Python runs Args with the configured interpreter instead of Command.
	Python    bool           `yaml:"python"`
	Timeout   time.Duration  `yaml:"timeout"`
	Metadata  map[string]any `yaml:"metadata"`
	FixHint   string         `yaml:"fix_hint"`
	CheckHint string         `yaml:"check_hint"`
}

type ProcessProbe struct {
	Spec   ProcessSpec
	Dir    string
	Runner Runner
	Clock  Clock
}

func (p *ProcessProbe) Name() string { return p.Spec.Group + "/" + p.Spec.Name }

func (p *ProcessProbe) Title() string {
	if p.Spec.Title != "" {
		return p.Spec.Title
	}
	return fmt.Sprintf("Checking %s...", strings.ReplaceAll(p.Spec.Group, "_", " "))
}

func (p *ProcessProbe) Run(ctx context.Context) Outcome {
	out := Outcome{Group: p.Spec.Group}
	res, err := p.Runner.Run(ctx, Command{
		Name:    p.Spec.Command,
		Args:    p.Spec.Args,
		Dir:     p.Dir,
		Timeout: p.Spec.Timeout,
	})

	r := model.ProbeResult{
		Name:      p.Spec.Name,
		Status:    model.StatusFailed,
		Timestamp: p.Clock.Now(),
	}
	switch {
	case err == nil && res.ExitCode == 0:
		r.Status = model.StatusOperational
		r.Metadata = maps.Clone(p.Spec.Metadata)
	case err == nil:
		r.Detail = strings.TrimSpace(res.Stderr)
		if r.Detail == "" {
			r.Detail = fmt.Sprintf("exit status %d", res.ExitCode)
		}
		r.Metadata = map[string]any{"exit_code": res.ExitCode}
		out.Recommend("%s: run failed (exit status %d)", p.Spec.FixHint, res.ExitCode)
	case errors.Is(err, ErrLaunch):
		r.Detail = err.Error()
		out.Recommend("%s: %v", p.Spec.CheckHint, err)
	default:
		r.Detail = err.Error()
		out.Recommend("%s: run failed (%v)", p.Spec.FixHint, err)
	}
	out.Add(r)
	return out
}
