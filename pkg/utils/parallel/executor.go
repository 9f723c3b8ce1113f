// Package parallel runs provider calls concurrently with a bounded number in flight.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrency bounds concurrent calls against a cloud API.
const DefaultMaxConcurrency = 4

// Executor runs tasks concurrently.
type Executor struct {
	maxConcurrency int64
}

// NewExecutor creates an executor. If maxConcurrency <= 0, DefaultMaxConcurrency is used.
func NewExecutor(maxConcurrency int64) *Executor {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}

	return &Executor{maxConcurrency: maxConcurrency}
}

// Task is a unit of work.
type Task func(ctx context.Context) error

// Execute runs all tasks and returns the first error, cancelling the context
// passed to the tasks that are still running.
func (executor *Executor) Execute(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}

	if len(tasks) == 1 {
		return tasks[0](ctx)
	}

	sem := semaphore.NewWeighted(executor.maxConcurrency)
	group, groupCtx := errgroup.WithContext(ctx)

	for _, task := range tasks {
		group.Go(func() error {
			acquireErr := sem.Acquire(groupCtx, 1)
			if acquireErr != nil {
				return fmt.Errorf("acquire semaphore: %w", acquireErr)
			}

			defer sem.Release(1)

			return task(groupCtx)
		})
	}

	waitErr := group.Wait()
	if waitErr != nil {
		return fmt.Errorf("parallel execution: %w", waitErr)
	}

	return nil
}

// Results collects values and errors from tasks that must not cancel each other.
type Results[T any] struct {
	mu     sync.Mutex
	values []T
	errors []error
}

// NewResults creates an empty Results.
func NewResults[T any]() *Results[T] {
	return &Results[T]{}
}

// Add appends a value.
func (results *Results[T]) Add(value T) {
	results.mu.Lock()
	defer results.mu.Unlock()

	results.values = append(results.values, value)
}

// AddError appends an error.
func (results *Results[T]) AddError(err error) {
	results.mu.Lock()
	defer results.mu.Unlock()

	results.errors = append(results.errors, err)
}

// Values returns the collected values in completion order.
func (results *Results[T]) Values() []T {
	results.mu.Lock()
	defer results.mu.Unlock()

	return results.values
}

// Err joins the collected errors, or returns nil when there are none.
func (results *Results[T]) Err() error {
	results.mu.Lock()
	defer results.mu.Unlock()

	return errors.Join(results.errors...)
}
