// Package dispatch provides a serial FIFO execution queue. The session
// coordinator runs one queue as the sole owner of session and device state;
// the event router runs a second queue for consumer-facing delivery.
package dispatch

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
)

// ErrReentrantSync is returned by Sync when called from the queue's own
// goroutine, which would deadlock. The queue is non-reentrant.
var ErrReentrantSync = errors.New("dispatch: Sync called from own queue")

// ErrClosed is returned when submitting to a closed queue.
var ErrClosed = errors.New("dispatch: queue closed")

// Strict controls how invariant violations are handled. When true, an
// off-queue access detected by MustBeOn panics; when false the violation is
// reported to the caller so it can log and continue degraded. Tests run
// strict.
var Strict = true

// Queue executes submitted functions one at a time, in submission order, on
// a single goroutine. Functions submitted from the same goroutine begin
// execution in the order they were submitted. Submission never blocks; the
// backlog is unbounded.
type Queue struct {
	name string

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool

	gid  uint64 // goroutine id of the run loop
	done chan struct{}
}

// New creates and starts a queue with the given name. The name appears in
// invariant violation messages.
func New(name string) *Queue {
	q := &Queue{
		name: name,
		done: make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	started := make(chan struct{})
	go q.run(started)
	<-started
	return q
}

func (q *Queue) run(started chan<- struct{}) {
	q.gid = currentGoroutineID()
	close(started)
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 && q.closed {
			q.mu.Unlock()
			return
		}
		f := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		f()
	}
}

// Name returns the queue name.
func (q *Queue) Name() string {
	return q.name
}

// Async submits f for execution and returns immediately. Async on a closed
// queue drops f.
func (q *Queue) Async(f func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.tasks = append(q.tasks, f)
	q.cond.Signal()
}

// Sync submits f and waits for it to finish. Sync from the queue's own
// goroutine returns ErrReentrantSync without running f.
func (q *Queue) Sync(f func()) error {
	if q.OnQueue() {
		return ErrReentrantSync
	}
	ran := make(chan struct{})
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.tasks = append(q.tasks, func() {
		f()
		close(ran)
	})
	q.cond.Signal()
	q.mu.Unlock()
	<-ran
	return nil
}

// OnQueue reports whether the caller is running on the queue's goroutine.
func (q *Queue) OnQueue() bool {
	return currentGoroutineID() == q.gid
}

// MustBeOn asserts that the caller is on the queue's goroutine. Touching
// queue-owned state from anywhere else is a programming error: under Strict
// it panics, otherwise it returns false so the caller can log and continue
// degraded rather than corrupt shared state.
func (q *Queue) MustBeOn() bool {
	if q.OnQueue() {
		return true
	}
	if Strict {
		panic(fmt.Sprintf("dispatch: off-queue access to %q", q.name))
	}
	return false
}

// Close stops accepting work and waits for already-submitted functions to
// finish. Close is idempotent. Close must not be called from the queue's
// own goroutine.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Signal()
	}
	q.mu.Unlock()
	<-q.done
}

var goroutinePrefix = []byte("goroutine ")

// currentGoroutineID parses the goroutine id from the stack header. Used
// only for invariant checks, never for control flow.
func currentGoroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, goroutinePrefix)
	i := bytes.IndexByte(buf, ' ')
	if i < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(buf[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
