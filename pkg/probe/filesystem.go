package probe

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/marek-kar/aihealth/pkg/model"
)

const DirectoriesGroup = "data_directories"

type DirectoryProbe struct {
	Dirs  []string
	Root  string
	Clock Clock
}

func (p *DirectoryProbe) Name() string  { return "filesystem" }
func (p *DirectoryProbe) Title() string { return "Checking AI data directories..." }

func (p *DirectoryProbe) Run(ctx context.Context) Outcome {
	out := Outcome{Group: DirectoriesGroup}
	for _, dir := range p.Dirs {
		out.Add(p.inspect(dir, &out))
	}
	return out
}

func (p *DirectoryProbe) inspect(dir string, out *Outcome) model.ProbeResult {
	r := model.ProbeResult{Name: dir, Timestamp: p.Clock.Now()}
	path := resolve(p.Root, dir)

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.Status = model.StatusMissingDir
		r.Detail = "directory does not exist"
		out.Recommend("Create missing directory: %s", dir)
		return r
	case err != nil:
		r.Status = model.StatusFailed
		r.Detail = err.Error()
		out.Recommend("Check directory %s: stat failed", dir)
		return r
	case !info.IsDir():
		r.Status = model.StatusMissingDir
		r.Detail = "path exists but is not a directory"
		out.Recommend("Create missing directory: %s", dir)
		return r
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		r.Status = model.StatusFailed
		r.Detail = err.Error()
		out.Recommend("Check directory %s: listing failed", dir)
		return r
	}
	if len(entries) == 0 {
		r.Status = model.StatusEmpty
		r.Metadata = map[string]any{"entries": 0}
		return r
	}

	r.Status = model.StatusActive
	r.Metadata = map[string]any{
		"entries": len(entries),
		"latest":  latestEntry(path, entries),
	}
	return r
}

// latestEntry picks the entry with the newest change time; ties keep the
// first in directory order.
func latestEntry(dir string, entries []fs.DirEntry) string {
	var (
		name   string
		newest time.Time
	)
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		ct := changeTime(filepath.Join(dir, e.Name()), info)
		if name == "" || ct.After(newest) {
			name, newest = e.Name(), ct
		}
	}
	if name == "" {
		name = entries[0].Name()
	}
	return name
}

func resolve(root, path string) string {
	if root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
