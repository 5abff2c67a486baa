package probe

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/marek-kar/aihealth/pkg/model"
)

type Package struct {
	Name   string `yaml:"name"`
	Module string `yaml:"module"`
}

type Importer interface {
	Import(ctx context.Context, module string) error
}

var moduleName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// PythonImporter checks a module by importing it in a fresh interpreter.
type PythonImporter struct {
	Python  string
	Dir     string
	Timeout time.Duration
	Runner  Runner
}

func (p PythonImporter) Import(ctx context.Context, module string) error {
	if !moduleName.MatchString(module) {
		return fmt.Errorf("invalid module name %q", module)
	}
	res, err := p.Runner.Run(ctx, Command{
		Name:    p.Python,
		Args:    []string{"-c", "import " + module},
		Dir:     p.Dir,
		Timeout: p.Timeout,
	})
	if err != nil {
		return fmt.Errorf("import %s: %w", module, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("import %s: %s", module, lastLine(res.Stderr, res.ExitCode))
	}
	return nil
}

func lastLine(stderr string, code int) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		return last
	}
	return fmt.Sprintf("exit status %d", code)
}

type DependencyProbe struct {
	Packages []Package
	Importer Importer
}

func (p *DependencyProbe) Name() string  { return "dependencies" }
func (p *DependencyProbe) Title() string { return "Checking AI system dependencies..." }

func (p *DependencyProbe) Run(ctx context.Context) Outcome {
	var out Outcome
	for _, pkg := range p.Packages {
		dep := NamedDependency{
			Name:       pkg.Name,
			Dependency: model.Dependency{Status: model.StatusInstalled, Required: true},
		}
		if err := p.Importer.Import(ctx, pkg.Module); err != nil {
			dep.Status = model.StatusMissing
			dep.Detail = err.Error()
			out.Recommend("Install missing package %s: pip install %s", pkg.Name, pkg.Name)
		}
		out.Dependencies = append(out.Dependencies, dep)
	}
	return out
}
