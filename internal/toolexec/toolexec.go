package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"media-preview/internal/logging"
	"media-preview/internal/metrics"
)

// ErrToolTimeout is returned when a tool exceeds the Invoker's timeout.
var ErrToolTimeout = errors.New("external tool timed out")

// Runner executes a program and returns what it wrote to standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// Run implements Runner. A non-zero exit is returned as an error carrying
// the tool's standard error output.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%s error: %w - %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Invoker runs tools through a Runner with an optional per-call deadline.
type Invoker struct {
	Runner  Runner
	Timeout time.Duration
}

// New returns an Invoker backed by ExecRunner.
func New(timeout time.Duration) *Invoker {
	return &Invoker{Runner: ExecRunner{}, Timeout: timeout}
}

// Run executes bin with args. tool is the metric label ("ffprobe", "ffmpeg", "kubi").
func (i *Invoker) Run(ctx context.Context, tool, bin string, args ...string) ([]byte, error) {
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	runner := i.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	logging.Debug("Running %s %s", bin, strings.Join(args, " "))
	start := time.Now()
	out, err := runner.Run(ctx, bin, args...)
	metrics.ToolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())

	switch {
	case err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		metrics.ToolInvocationsTotal.WithLabelValues(tool, "timeout").Inc()
		return out, fmt.Errorf("%w: %s after %v", ErrToolTimeout, tool, i.Timeout)
	case err != nil:
		metrics.ToolInvocationsTotal.WithLabelValues(tool, "error").Inc()
		return out, err
	}

	metrics.ToolInvocationsTotal.WithLabelValues(tool, "success").Inc()
	return out, nil
}

// Available checks that bin resolves to an executable.
func Available(bin string) error {
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", bin, err)
	}
	return nil
}
