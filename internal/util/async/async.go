// Package async provides utilities for parallel task execution.
//
// This package contains generic helpers for running multiple operations concurrently,
// collecting results, and handling errors. The provisioning phases use it to fan out
// region builds and peering connections on bounded worker pools.
package async

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrPanic is wrapped by the error of any task that panicked.
var ErrPanic = errors.New("task panicked")

// Task represents an asynchronous operation producing a value.
type Task[T any] struct {
	Name string
	Func func(context.Context) (T, error)
}

// Result is the tagged outcome of a single task.
type Result[T any] struct {
	Name     string
	Value    T
	Err      error
	Duration time.Duration
}

// OK reports whether the task completed without error.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Collect runs tasks on at most limit goroutines and waits for all of them.
// A limit <= 0 means no bound. Results are returned in task order regardless
// of completion order. A failing or panicking task never stops its siblings;
// its failure is only recorded in its own Result.
//
// Example:
//
//	results := Collect(ctx, 8, []Task[string]{
//	    {Name: "eu-west-1", Func: build("eu-west-1")},
//	    {Name: "us-east-1", Func: build("us-east-1")},
//	})
func Collect[T any](ctx context.Context, limit int, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	// Tasks report failures through their results, never to the group.
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			results[i] = runTask(ctx, task)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// runTask executes one task, converting a panic into a failed result.
func runTask[T any](ctx context.Context, task Task[T]) (res Result[T]) {
	start := time.Now()
	res.Name = task.Name

	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			var zero T
			res.Value = zero
			res.Err = fmt.Errorf("%w: %s: %v", ErrPanic, task.Name, r)
		}
	}()

	res.Value, res.Err = task.Func(ctx)
	return res
}
