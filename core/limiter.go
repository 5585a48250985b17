package core

import (
	"fmt"
	"sync"
)

// StepLimiter enforces a maximum number of step transitions per workflow run.
// It is the engine's last-resort liveness guard: a correctly constructed
// graph terminates through its own edge conditions, but a miswired condition
// must never cycle unboundedly.
type StepLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewStepLimiter creates a new limiter with a max number of transitions.
// If max == 0, unlimited transitions are allowed.
func NewStepLimiter(max int) *StepLimiter {
	return &StepLimiter{max: max}
}

// Increment increases the transition counter and returns an error if the
// limit is exceeded.
func (sl *StepLimiter) Increment() error {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	sl.count++
	if sl.max > 0 && sl.count > sl.max {
		return fmt.Errorf("exceeded max workflow steps: %d", sl.max)
	}

	return nil
}

// Count returns the current number of transitions made.
func (sl *StepLimiter) Count() int {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	return sl.count
}

// Remaining returns how many transitions are left before hitting the limit.
func (sl *StepLimiter) Remaining() int {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.max == 0 {
		return -1 // unlimited
	}

	return sl.max - sl.count
}
