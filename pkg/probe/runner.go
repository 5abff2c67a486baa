package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

var (
	ErrTimeout  = errors.New("timed out")
	ErrCanceled = errors.New("canceled")
	ErrLaunch   = errors.New("launch failed")
)

// waitDelay bounds how long Run waits for output pipes after the process is
// gone, so a grandchild holding stdout cannot stall the run.
const waitDelay = time.Second

type Command struct {
	Name    string
	Args    []string
	Dir     string
	Timeout time.Duration
}

func (c Command) String() string {
	s := c.Name
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes a command with a bounded wait. A nil error means the process
// completed, whatever its exit code; otherwise the error wraps ErrTimeout,
// ErrCanceled or ErrLaunch.
type Runner interface {
	Run(ctx context.Context, c Command) (Result, error)
}

type ExecRunner struct {
	Logger *slog.Logger
}

func (r ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if c.Name == "" {
		return Result{}, fmt.Errorf("%w: command is required", ErrLaunch)
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	err = classify(ctx, c, err, &res)
	r.logger().Debug("command finished",
		"command", c.String(),
		"exit_code", res.ExitCode,
		"duration", res.Duration,
		"error", err,
	)
	return res, err
}

func classify(ctx context.Context, c Command, err error, res *Result) error {
	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		return nil
	}
	switch ctx.Err() {
	case context.DeadlineExceeded:
		res.ExitCode = -1
		return fmt.Errorf("%w after %s", ErrTimeout, c.Timeout)
	case context.Canceled:
		res.ExitCode = -1
		return ErrCanceled
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return nil
	}
	res.ExitCode = -1
	return fmt.Errorf("%w: %v", ErrLaunch, err)
}

func (r ExecRunner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
