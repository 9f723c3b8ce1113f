// Package timer measures how long a command and its current stage have been running.
package timer

import (
	"sync"
	"time"
)

// Timer tracks total elapsed time and the time spent in the current stage.
type Timer interface {
	// Start resets the timer and begins measuring.
	Start()
	// NewStage marks the beginning of a new stage; GetTiming's stage value restarts from zero.
	NewStage()
	// GetTiming returns the total elapsed time and the elapsed time of the current stage.
	GetTiming() (time.Duration, time.Duration)
}

// StageTimer is the default Timer implementation.
type StageTimer struct {
	mu         sync.Mutex
	now        func() time.Time
	start      time.Time
	stageStart time.Time
}

// New creates a StageTimer. Call Start before reading timings.
func New() *StageTimer {
	return &StageTimer{now: time.Now}
}

// Start resets both the total and the stage clock.
func (t *StageTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.start = t.now()
	t.stageStart = t.start
}

// NewStage restarts the stage clock.
func (t *StageTimer) NewStage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start.IsZero() {
		t.start = t.now()
	}

	t.stageStart = t.now()
}

// GetTiming returns total and stage durations. Both are zero if Start was never called.
func (t *StageTimer) GetTiming() (time.Duration, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start.IsZero() {
		return 0, 0
	}

	current := t.now()

	return current.Sub(t.start), current.Sub(t.stageStart)
}
