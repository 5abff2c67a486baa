// Package store persists health reports as indented JSON files, one per run,
// named after the run's session id.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/marek-kar/aihealth/pkg/model"
)

// LockTimeout bounds the wait for the directory lock. Past it the write goes
// ahead unlocked so a stale lock never blocks a health check.
const LockTimeout = 100 * time.Millisecond

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) PathFor(r *model.Report) string {
	return filepath.Join(s.dir, r.SessionID+".json")
}

// target returns PathFor(r) unless a file already holds that name, in which
// case a prefix of the run id is appended.
func (s *Store) target(r *model.Report) string {
	path := s.PathFor(r)
	if _, err := os.Stat(path); err != nil {
		return path
	}
	suffix := r.RunID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return filepath.Join(s.dir, r.SessionID+"_"+suffix+".json")
}

func (s *Store) Save(r *model.Report) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	unlock, err := s.lock()
	if err != nil {
		return "", err
	}
	defer unlock()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	path := s.target(r)
	tmp, err := os.CreateTemp(s.dir, ".health_check_*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename report: %w", err)
	}
	return path, nil
}

func (s *Store) lock() (func(), error) {
	fl := flock.New(filepath.Join(s.dir, ".lock"))

	ctx, cancel := context.WithTimeout(context.Background(), LockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("lock report dir: %w", err)
	}
	if !locked {
		return func() {}, nil
	}
	return func() { _ = fl.Unlock() }, nil
}

func Load(path string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &r, nil
}
