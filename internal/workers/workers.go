package workers

import (
	"context"
	"runtime"
)

// Count returns available CPUs times multiplier, at least 1 and at most
// limit (0 for no cap). A positive override replaces the computed value
// but is still capped.
func Count(multiplier float64, override, limit int) int {
	n := override
	if n <= 0 {
		n = int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	}
	if n < 1 {
		n = 1
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

// ForCPU returns one worker per CPU unless override is positive.
func ForCPU(override, limit int) int {
	return Count(1.0, override, limit)
}

// Gate delays admission, for example while memory is under pressure.
type Gate interface {
	Wait(ctx context.Context) error
}

// Slots is a counting semaphore for concurrent jobs.
type Slots struct {
	sem  chan struct{}
	gate Gate
}

// NewSlots allows n concurrent holders. gate may be nil.
func NewSlots(n int, gate Gate) *Slots {
	if n < 1 {
		n = 1
	}
	return &Slots{sem: make(chan struct{}, n), gate: gate}
}

// Acquire blocks until the gate is open and a slot is free. The returned
// func releases the slot and must be called exactly once.
func (s *Slots) Acquire(ctx context.Context) (func(), error) {
	if s.gate != nil {
		if err := s.gate.Wait(ctx); err != nil {
			return nil, err
		}
	}
	select {
	case s.sem <- struct{}{}:
		return func() { <-s.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size is the total number of slots.
func (s *Slots) Size() int {
	return cap(s.sem)
}

// InUse is the number of slots currently held.
func (s *Slots) InUse() int {
	return len(s.sem)
}
