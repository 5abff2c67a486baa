// Package probe holds the individual subsystem checks. A probe never returns
// an error: every failure becomes a result status plus a recommendation in
// the Outcome it hands back to the engine.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/marek-kar/aihealth/pkg/model"
)

type Probe interface {
	Name() string
	Title() string
	Run(ctx context.Context) Outcome
}

type NamedDependency struct {
	Name string
	model.Dependency
	Detail string
}

// Outcome is what a single probe contributes to the report. The engine merges
// it; probes never touch the report directly.
type Outcome struct {
	Group           string
	Results         []model.ProbeResult
	Dependencies    []NamedDependency
	Recommendations []string
}

func (o *Outcome) Add(r model.ProbeResult) {
	o.Results = append(o.Results, r)
}

func (o *Outcome) Recommend(format string, args ...any) {
	o.Recommendations = append(o.Recommendations, fmt.Sprintf(format, args...))
}

type Clock func() time.Time

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
