package handlers

import (
	"context"
	"time"

	"media-preview/internal/pipeline"
	"media-preview/internal/workers"
)

// Processor runs a single job.
type Processor interface {
	Process(ctx context.Context, job pipeline.Job) (*pipeline.Result, error)
}

// Check reports whether a dependency is usable. A nil error means ready.
type Check func() error

// MemoryStatus reports heap pressure for the readiness payload.
type MemoryStatus interface {
	Usage() float64
	Paused() bool
}

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	processor Processor
	slots     *workers.Slots
	checks    map[string]Check
	memory    MemoryStatus
	started   time.Time
}

// New creates the handler set. checks are evaluated on every readiness probe.
func New(processor Processor, slots *workers.Slots, checks map[string]Check) *Handlers {
	return &Handlers{
		processor: processor,
		slots:     slots,
		checks:    checks,
		started:   time.Now(),
	}
}

// WithMemory adds heap usage and admission state to readiness responses.
func (h *Handlers) WithMemory(m MemoryStatus) *Handlers {
	h.memory = m
	return h
}
