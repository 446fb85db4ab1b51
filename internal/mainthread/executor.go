package mainthread

import "sync"

// Executor hands a function to the host's single UI thread. Implementations
// must preserve FIFO order between calls from the same goroutine; execution
// is fire-and-forget.
//
// GUI hosts adapt their own primitive (Maya's executeInMainThreadWithResult,
// Qt's invokeMethod, and the like) behind this interface. Worker goroutines
// never mutate panel state directly; every UI-visible effect goes through an
// Executor.
type Executor interface {
	Run(fn func())
}

// Immediate executes functions synchronously on the calling goroutine. It is
// the right executor for the CLI and for tests, where there is no separate
// UI thread to protect.
type Immediate struct{}

func (Immediate) Run(fn func()) {
	if fn != nil {
		fn()
	}
}

// SerialQueue is a FIFO executor for hosts that drain queued work from their
// own event loop. Run never blocks the producer; Drain runs pending work on
// the caller's goroutine.
type SerialQueue struct {
	mu      sync.Mutex
	pending []func()
}

// NewSerialQueue returns an empty queue.
func NewSerialQueue() *SerialQueue {
	return &SerialQueue{}
}

// Run enqueues fn for the next Drain.
func (q *SerialQueue) Run(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Drain executes every queued function in FIFO order on the calling
// goroutine and reports how many ran. Functions enqueued while draining run
// in the same pass.
func (q *SerialQueue) Drain() int {
	ran := 0
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return ran
		}
		fn := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		fn()
		ran++
	}
}

// Len reports the number of functions waiting to run.
func (q *SerialQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
