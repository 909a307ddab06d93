// Package workers provides a small aggregate for starting the background
// pieces of a host process (transport poll loops, metrics listeners) in a
// unified way.
package workers

// Worker is anything that starts background processing. Implementations
// either block for the duration of their work or spawn goroutines
// internally.
type Worker interface {
	Run()
}

// WorkerFunc adapts a plain function to the Worker interface.
type WorkerFunc func()

// Run implements Worker.
func (f WorkerFunc) Run() { f() }

// Workers runs a set of workers in registration order.
type Workers struct {
	workers []Worker
}

// New collects workers to be started together.
func New(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Run starts every registered worker.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
