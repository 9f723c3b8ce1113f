package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/geostack-dev/geostack/pkg/cli/ui/errorhandler"
	"github.com/stretchr/testify/assert"
)

func TestRunSafelyReturnsRunnerCode(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer

	code := runSafely(context.Background(), []string{"a"}, func(_ context.Context, args []string) int {
		assert.Equal(t, []string{"a"}, args)

		return errorhandler.ExitTimeout
	}, &errOut)

	assert.Equal(t, errorhandler.ExitTimeout, code)
	assert.Empty(t, errOut.String())
}

func TestRunSafelyRecoversPanic(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer

	code := runSafely(context.Background(), nil, func(context.Context, []string) int {
		panic("boom")
	}, &errOut)

	assert.Equal(t, errorhandler.ExitFailure, code)
	assert.Contains(t, errOut.String(), "panic recovered: boom")
}

func TestRunWithArgsUnknownCommand(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errorhandler.ExitFailure, runWithArgs(context.Background(), []string{"no-such-command"}))
}
