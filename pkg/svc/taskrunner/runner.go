package taskrunner

import (
	"context"
	"fmt"
	"io"

	"github.com/geostack-dev/geostack/pkg/svc/target"
	"github.com/geostack-dev/geostack/pkg/utils/notify"
	"github.com/geostack-dev/geostack/pkg/utils/timer"
)

// StepError reports the step that failed.
type StepError struct {
	Index  int
	Step   string
	Result Result
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Is matches ErrStepFailed.
func (e *StepError) Is(candidate error) bool {
	return candidate == ErrStepFailed
}

// Runner runs recipes step by step.
type Runner struct {
	executor Executor
	out      io.Writer
	timer    timer.Timer
}

// NewRunner creates a Runner. Progress is written to out; tmr may be nil.
func NewRunner(executor Executor, out io.Writer, tmr timer.Timer) *Runner {
	if out == nil {
		out = io.Discard
	}

	return &Runner{executor: executor, out: out, timer: tmr}
}

// Run renders and executes every step in order. It stops at the first
// failing step unless that step ignores errors. Nothing is executed if any
// step fails to render.
func (r *Runner) Run(ctx context.Context, recipe *Recipe, tgt *target.Target) error {
	vars := TargetVars(tgt)

	commands := make([]string, len(recipe.Steps))

	for i, step := range recipe.Steps {
		command, err := step.Command(vars)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Label(), err)
		}

		commands[i] = command
	}

	for i, step := range recipe.Steps {
		if r.timer != nil {
			r.timer.NewStage()
		}

		notify.Activityf(r.out, "%s", step.Label())

		result, err := r.executor.Execute(ctx, commands[i])
		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Label(), ctx.Err())
		}

		if step.IgnoreErrors {
			notify.Warningf(r.out, "%s failed, continuing: %v", step.Label(), err)

			continue
		}

		return &StepError{Index: i, Step: step.Label(), Result: result, Err: err}
	}

	return nil
}
