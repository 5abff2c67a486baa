package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marek-kar/aihealth/pkg/config"
	"github.com/marek-kar/aihealth/pkg/model"
	"github.com/marek-kar/aihealth/pkg/probe"
)

// Observer receives progress while the engine runs. Implementations must not
// modify the report.
type Observer interface {
	Begin(report *model.Report)
	Section(title string)
	Dependency(name string, dep model.Dependency, detail string)
	Result(group string, result model.ProbeResult)
	Summary(report *model.Report, tally Tally)
	Saved(path string)
}

type Saver interface {
	Save(report *model.Report) (string, error)
}

type Engine struct {
	probes   []probe.Probe
	Observer Observer
	Saver    Saver
	Clock    probe.Clock
	Logger   *slog.Logger
}

type Result struct {
	Report *model.Report
	Tally  Tally
	Path   string
}

func (r Result) Success() bool {
	return r.Report.SystemStatus == model.SystemExcellent
}

func NewEngine(probes ...probe.Probe) *Engine {
	return &Engine{probes: probes}
}

// DefaultEngine wires the probes in their fixed order: dependencies, both
// process checks, data directories, then the AI config.
func DefaultEngine(opts config.Options, runner probe.Runner) *Engine {
	e := NewEngine(&probe.DependencyProbe{
		Packages: opts.Packages,
		Importer: probe.PythonImporter{
			Python:  opts.Python,
			Dir:     opts.Root,
			Timeout: opts.ImportTimeout,
			Runner:  runner,
		},
	})
	for _, spec := range opts.ProcessSpecs() {
		e.Register(&probe.ProcessProbe{Spec: spec, Dir: opts.Root, Runner: runner})
	}
	e.Register(&probe.DirectoryProbe{Dirs: opts.Directories, Root: opts.Root})
	e.Register(&probe.ConfigProbe{Path: opts.ConfigFile, Root: opts.Root, Flags: opts.Flags})
	return e
}

func (e *Engine) Register(p probe.Probe) {
	e.probes = append(e.probes, p)
}

func (e *Engine) Probes() []probe.Probe {
	return e.probes
}

func (e *Engine) Run(ctx context.Context) (Result, error) {
	obs := e.observer()
	report := model.NewReport(e.Clock.Now())
	obs.Begin(report)

	for _, p := range e.probes {
		obs.Section(p.Title())
		start := time.Now()
		out := e.runProbe(ctx, p)
		e.logger().Debug("probe finished",
			"probe", p.Name(),
			"results", len(out.Results)+len(out.Dependencies),
			"recommendations", len(out.Recommendations),
			"duration", time.Since(start),
		)
		merge(report, out, obs)
	}

	tally := Classify(report.Recommendations)
	report.SystemStatus = tally.Status()
	res := Result{Report: report, Tally: tally}
	obs.Summary(report, tally)

	if e.Saver == nil {
		return res, nil
	}
	path, err := e.Saver.Save(report)
	if err != nil {
		return res, fmt.Errorf("save report: %w", err)
	}
	res.Path = path
	obs.Saved(path)
	return res, nil
}

func (e *Engine) runProbe(ctx context.Context, p probe.Probe) (out probe.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger().Error("probe panicked", "probe", p.Name(), "panic", r)
			out = probe.Outcome{Group: "probes"}
			out.Add(model.ProbeResult{
				Name:      p.Name(),
				Status:    model.StatusFailed,
				Detail:    fmt.Sprint(r),
				Timestamp: e.Clock.Now(),
			})
			out.Recommend("Check %s probe: run failed (%v)", p.Name(), r)
		}
	}()
	return p.Run(ctx)
}

func merge(report *model.Report, out probe.Outcome, obs Observer) {
	for _, d := range out.Dependencies {
		report.Dependencies[d.Name] = d.Dependency
		obs.Dependency(d.Name, d.Dependency, d.Detail)
	}
	if len(out.Results) > 0 {
		group := report.Components[out.Group]
		if group == nil {
			group = make(map[string]model.ProbeResult)
			report.Components[out.Group] = group
		}
		for _, r := range out.Results {
			group[r.Name] = r
			obs.Result(out.Group, r)
		}
	}
	report.Recommendations = append(report.Recommendations, out.Recommendations...)
}

func (e *Engine) observer() Observer {
	if e.Observer == nil {
		return nopObserver{}
	}
	return e.Observer
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

type nopObserver struct{}

func (nopObserver) Begin(*model.Report)                         {}
func (nopObserver) Section(string)                              {}
func (nopObserver) Dependency(string, model.Dependency, string) {}
func (nopObserver) Result(string, model.ProbeResult)            {}
func (nopObserver) Summary(*model.Report, Tally)                {}
func (nopObserver) Saved(string)                                {}
