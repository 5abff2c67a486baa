package probe

import (
	"context"
	"time"
)

var fixedTime = time.Date(2025, 8, 12, 8, 25, 9, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

type fakeRunner struct {
	result Result
	err    error
	calls  []Command
}

func (f *fakeRunner) Run(_ context.Context, c Command) (Result, error) {
	f.calls = append(f.calls, c)
	return f.result, f.err
}

type fakeImporter struct {
	missing map[string]error
	seen    []string
}

func (f *fakeImporter) Import(_ context.Context, module string) error {
	f.seen = append(f.seen, module)
	return f.missing[module]
}
