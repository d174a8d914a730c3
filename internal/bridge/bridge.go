package bridge

import (
	"context"
	"errors"
	"sync"
)

// queueSize bounds how many operations may wait for the worker.
// The driver is low-volume; a small buffer absorbs client bursts.
const queueSize = 16

// Op is one unit of backend work. It runs on the bridge worker and
// receives the caller's context so it can honour cancellation.
type Op func(ctx context.Context) error

// Logger is the minimal logging interface the bridge needs.
// Satisfied by *logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}

// task pairs an operation with its completion channel.
type task struct {
	ctx    context.Context
	op     Op
	result chan error
}

// Bridge serialises backend operations on a single worker goroutine.
//
// Kasa devices tolerate exactly one conversation at a time, so every
// backend call from every HTTP client funnels through Run. Operations
// execute strictly in submission order. A caller whose context expires
// while waiting gets ErrTimeout; the queue position is released either
// way.
//
// The worker starts lazily on first Run and again on the first Run
// after Shutdown, so connect/disconnect cycles reuse one Bridge.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Bridge struct {
	mu     sync.Mutex
	tasks  chan task
	quit   chan struct{}
	done   chan struct{}
	logger Logger
}

// New creates a Bridge. Pass nil for logger to disable bridge logging.
// The worker goroutine is not started until the first Run.
func New(logger Logger) *Bridge {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Bridge{logger: logger}
}

// Run submits op to the worker and blocks until it completes or ctx
// expires.
//
// Parameters:
//   - ctx: Bounds queue wait and execution; passed through to op
//   - op: The operation to execute
//
// Returns:
//   - error: op's own error, ErrTimeout if ctx's deadline passed,
//     ErrShutdown if the bridge stopped before op ran, or ctx.Err()
//     on plain cancellation
func (b *Bridge) Run(ctx context.Context, op Op) error {
	b.mu.Lock()
	b.ensureWorker()
	tasks, done := b.tasks, b.done
	b.mu.Unlock()

	t := task{ctx: ctx, op: op, result: make(chan error, 1)}

	select {
	case tasks <- t:
	case <-done:
		return ErrShutdown
	case <-ctx.Done():
		return mapContextErr(ctx.Err())
	}

	return awaitResult(ctx, t, done)
}

// awaitResult blocks until the worker delivers op's result.
//
// The done case covers a race with Shutdown: the submit select can win
// its send against an already-closed done channel, parking the task in
// a queue no worker reads. A caller with no deadline must still return,
// so done unblocks it with ErrShutdown. A result the worker managed to
// deliver before exiting takes precedence.
func awaitResult(ctx context.Context, t task, done chan struct{}) error {
	select {
	case err := <-t.result:
		return err
	case <-done:
		select {
		case err := <-t.result:
			return err
		default:
			return ErrShutdown
		}
	case <-ctx.Done():
		// The worker may still be executing op; it sees the same ctx
		// and will abandon the work on its own.
		return mapContextErr(ctx.Err())
	}
}

// Shutdown stops the worker. Queued operations that have not started
// fail with ErrShutdown. An operation already executing runs to
// completion first. Shutdown on an idle bridge is a no-op.
func (b *Bridge) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.quit == nil {
		return
	}

	close(b.quit)
	<-b.done

	// Reject anything that slipped in while the worker was exiting
	drainTasks(b.tasks)

	b.tasks = nil
	b.quit = nil
	b.done = nil
	b.logger.Debug("bridge worker stopped")
}

// ensureWorker starts the worker goroutine if none is running.
// Caller must hold b.mu.
func (b *Bridge) ensureWorker() {
	if b.quit != nil {
		return
	}

	b.tasks = make(chan task, queueSize)
	b.quit = make(chan struct{})
	b.done = make(chan struct{})
	go b.worker(b.tasks, b.quit, b.done)
	b.logger.Debug("bridge worker started")
}

// worker executes tasks in FIFO order until quit closes.
func (b *Bridge) worker(tasks chan task, quit, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-quit:
			drainTasks(tasks)
			return
		case t := <-tasks:
			if err := t.ctx.Err(); err != nil {
				// Caller already gave up, skip the backend call
				t.result <- mapContextErr(err)
				continue
			}
			t.result <- t.op(t.ctx)
		}
	}
}

// drainTasks rejects all queued tasks with ErrShutdown.
func drainTasks(tasks chan task) {
	for {
		select {
		case t := <-tasks:
			t.result <- ErrShutdown
		default:
			return
		}
	}
}

// mapContextErr converts a deadline expiry into the bridge's timeout
// sentinel so callers can distinguish it from backend failures.
func mapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
