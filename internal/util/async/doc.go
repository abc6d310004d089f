// Package async provides bounded parallel task execution with per-task
// result collection.
//
// [Collect] executes operations concurrently on a limited number of
// goroutines and returns one tagged [Result] per task. It never aborts
// siblings when a task fails or panics.
package async
