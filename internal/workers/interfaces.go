// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running and stopping multiple workers in a unified way.
package workers

// Worker is the interface that must be implemented by any background worker.
//
// Run starts the worker's execution and is expected to return quickly,
// spawning goroutines internally for the actual work. Stop requests
// termination and blocks until the worker's background work has finished.
type Worker interface {
	Run()
	Stop()
}
