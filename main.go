package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"media-preview/internal/app"
	"media-preview/internal/logging"
	"media-preview/internal/memory"
	"media-preview/internal/metrics"
	"media-preview/internal/pipeline"
	"media-preview/internal/startup"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

const usage = `usage: media-preview < job.json

Reads one job from standard input and writes the result to standard output:

  {"input_file": "/src/IMG_0001.jpg", "output_file": "/out/abc", "orientation": 6}
  {"width": 3000, "height": 4000, "color": "..."}

Logs go to standard error. Exit status is 0 on success and 1 on failure.
`

type processor interface {
	Process(ctx context.Context, job pipeline.Job) (*pipeline.Result, error)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn("Failed to load .env: %v", err)
	}
	memory.ConfigureFromEnv()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := startup.LoadConfig()
	if err != nil {
		logging.Error("Configuration error: %v", err)
		os.Exit(1)
	}
	if logging.IsDebugEnabled() {
		startup.LogConfig(cfg)
	}

	a, err := app.New(cfg)
	if err != nil {
		logging.Error("Startup failed: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = execute(ctx, os.Stdin, os.Stdout, a.Processor)
	stop()
	a.Close()

	if cfg.MetricsTextfile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logging.Warn("Failed to write metrics to %s: %v", cfg.MetricsTextfile, werr)
		}
	}

	if err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
}

// execute runs the single-job envelope: one JSON object in, one out.
// Nothing is written to out unless the job succeeds.
func execute(ctx context.Context, in io.Reader, out io.Writer, p processor) error {
	job, err := decodeJob(in)
	if err != nil {
		return err
	}

	result, err := p.Process(ctx, job)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

func decodeJob(in io.Reader) (pipeline.Job, error) {
	var job pipeline.Job
	if err := json.NewDecoder(in).Decode(&job); err != nil {
		if errors.Is(err, io.EOF) {
			return job, fmt.Errorf("%w: no job on standard input", pipeline.ErrInvalidJob)
		}
		return job, fmt.Errorf("%w: %v", pipeline.ErrInvalidJob, err)
	}
	return job, nil
}
