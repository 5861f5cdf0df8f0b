package dispatch_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/Istiakmorsalin/Signal-iOS/dispatch"
)

func TestQueueFIFO(t *testing.T) {
	q := dispatch.New("test")
	defer q.Close()

	var got []int
	var wg sync.WaitGroup
	wg.Add(100)
	for i := 0; i < 100; i++ {
		i := i
		q.Async(func() {
			got = append(got, i)
			wg.Done()
		})
	}
	wg.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("task order violated at index %d: got %d", i, v)
		}
	}
}

func TestQueueSync(t *testing.T) {
	q := dispatch.New("test")
	defer q.Close()

	v := 0
	if err := q.Sync(func() { v = 42 }); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if v != 42 {
		t.Fatalf("sync did not run before returning: v=%d", v)
	}
}

func TestQueueReentrantSync(t *testing.T) {
	q := dispatch.New("test")
	defer q.Close()

	var inner error
	err := q.Sync(func() {
		inner = q.Sync(func() {})
	})
	if err != nil {
		t.Fatalf("outer sync: %v", err)
	}
	if !errors.Is(inner, dispatch.ErrReentrantSync) {
		t.Fatalf("inner sync: got %v, expected ErrReentrantSync", inner)
	}
}

func TestQueueOnQueue(t *testing.T) {
	q := dispatch.New("test")
	defer q.Close()

	if q.OnQueue() {
		t.Fatalf("OnQueue true outside the queue")
	}
	var on bool
	if err := q.Sync(func() { on = q.OnQueue() }); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !on {
		t.Fatalf("OnQueue false inside the queue")
	}
}

func TestQueueAsyncFromQueue(t *testing.T) {
	// A task enqueueing a follow-up must never block the queue.
	q := dispatch.New("test")
	defer q.Close()

	done := make(chan struct{})
	q.Async(func() {
		for i := 0; i < 1000; i++ {
			q.Async(func() {})
		}
		q.Async(func() { close(done) })
	})
	<-done
}

func TestQueueCloseDrains(t *testing.T) {
	q := dispatch.New("test")

	var ran int
	for i := 0; i < 50; i++ {
		q.Async(func() { ran++ })
	}
	q.Close()
	if ran != 50 {
		t.Fatalf("close dropped tasks: ran %d of 50", ran)
	}

	if err := q.Sync(func() {}); !errors.Is(err, dispatch.ErrClosed) {
		t.Fatalf("sync after close: got %v, expected ErrClosed", err)
	}
	// Close is idempotent.
	q.Close()
}
