package taskrunner_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/geostack-dev/geostack/pkg/svc/taskrunner"
	"github.com/geostack-dev/geostack/pkg/utils/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errExit = errors.New("exit status 1")

// fakeExecutor records commands and fails those listed in failures.
type fakeExecutor struct {
	commands []string
	failures map[string]bool
}

func (f *fakeExecutor) Execute(_ context.Context, command string) (taskrunner.Result, error) {
	f.commands = append(f.commands, command)

	if f.failures[command] {
		return taskrunner.Result{Stderr: "boom"}, errExit
	}

	return taskrunner.Result{Stdout: "ok"}, nil
}

func recipe(steps ...taskrunner.Step) *taskrunner.Recipe {
	return &taskrunner.Recipe{Name: "test", Steps: steps}
}

func TestRunnerRunsStepsInOrder(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{}

	var out bytes.Buffer

	err := taskrunner.NewRunner(executor, &out, timer.New()).Run(context.Background(), recipe(
		taskrunner.Step{Name: "first", Program: "echo", Args: []string{"1"}},
		taskrunner.Step{Name: "second", Program: "echo", Args: []string{"${BRANCH}"}},
	), stagingTarget())

	require.NoError(t, err)
	assert.Equal(t, []string{"echo 1", "echo stage"}, executor.commands)
	assert.Contains(t, out.String(), "first")
	assert.Contains(t, out.String(), "second")
}

func TestRunnerStopsAtFailingStep(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{failures: map[string]bool{"false": true}}

	err := taskrunner.NewRunner(executor, nil, nil).Run(context.Background(), recipe(
		taskrunner.Step{Name: "fails", Program: "false"},
		taskrunner.Step{Name: "never", Program: "true"},
	), stagingTarget())

	require.ErrorIs(t, err, taskrunner.ErrStepFailed)
	require.ErrorIs(t, err, errExit)

	var stepErr *taskrunner.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 0, stepErr.Index)
	assert.Equal(t, "fails", stepErr.Step)
	assert.Equal(t, "boom", stepErr.Result.Stderr)
	assert.Equal(t, []string{"false"}, executor.commands)
}

func TestRunnerIgnoresErrorsWhenAsked(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{failures: map[string]bool{"false": true}}

	var out bytes.Buffer

	err := taskrunner.NewRunner(executor, &out, nil).Run(context.Background(), recipe(
		taskrunner.Step{Name: "optional", Program: "false", IgnoreErrors: true},
		taskrunner.Step{Name: "after", Program: "true"},
	), stagingTarget())

	require.NoError(t, err)
	assert.Equal(t, []string{"false", "true"}, executor.commands)
	assert.Contains(t, out.String(), "optional failed, continuing")
}

func TestRunnerRendersBeforeExecuting(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{}

	err := taskrunner.NewRunner(executor, nil, nil).Run(context.Background(), recipe(
		taskrunner.Step{Program: "true"},
		taskrunner.Step{Program: "echo", Args: []string{"${UNDEFINED}"}},
	), stagingTarget())

	require.ErrorIs(t, err, taskrunner.ErrUnknownVariable)
	assert.Empty(t, executor.commands)
}

func TestRunnerCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := &fakeExecutor{failures: map[string]bool{"true": true}}

	err := taskrunner.NewRunner(executor, nil, nil).Run(ctx, recipe(
		taskrunner.Step{Program: "true", IgnoreErrors: true},
	), stagingTarget())

	require.ErrorIs(t, err, context.Canceled)
}

func TestRunnerDryRun(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := taskrunner.NewRunner(taskrunner.NewDryRunExecutor(&out), nil, nil).Run(context.Background(), recipe(
		taskrunner.Step{Program: "git", Args: []string{"checkout", "${BRANCH}"}, Dir: "${BASE_DIR}"},
	), stagingTarget())

	require.NoError(t, err)
	assert.Equal(t, "cd /server && git checkout stage\n", out.String())
}
