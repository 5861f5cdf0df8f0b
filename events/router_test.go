package events_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/dispatch"
	"github.com/Istiakmorsalin/Signal-iOS/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDeliveryOnUIQueue(t *testing.T) {
	ui := dispatch.New("ui")
	defer ui.Close()
	r := events.NewRouter(ui, testLogger())

	onQueue := make(chan bool, 1)
	r.SetConsumer(&events.ConsumerFuncs{
		CaptureDidStartFunc: func() { onQueue <- ui.OnQueue() },
	})

	r.CaptureDidStart()
	select {
	case on := <-onQueue:
		if !on {
			t.Fatalf("consumer callback ran off the UI queue")
		}
	case <-time.After(time.Second):
		t.Fatalf("consumer callback never delivered")
	}
}

func TestNilConsumerDropsAndDefaults(t *testing.T) {
	r := events.NewRouter(nil, testLogger())
	defer r.UI().Close()

	// No consumer: notifications are dropped without panicking, capture is
	// allowed and the reference height is zero.
	r.PhotoCaptured(capture.Attachment{})
	r.VideoFailed(nil)
	if !r.CapacityAllowed() {
		t.Fatalf("capacity denied with no consumer")
	}
	if h := r.ZoomReferenceHeight(); h != 0 {
		t.Fatalf("reference height %v with no consumer, expected 0", h)
	}
}

func TestConsumerClearedBeforeDelivery(t *testing.T) {
	ui := dispatch.New("ui")
	defer ui.Close()
	r := events.NewRouter(ui, testLogger())

	delivered := make(chan struct{}, 8)
	r.SetConsumer(&events.ConsumerFuncs{
		PhotoFailedFunc: func(error) { delivered <- struct{}{} },
	})

	// Block the UI queue so the notification is pending, then clear the
	// consumer before it can run.
	gate := make(chan struct{})
	ui.Async(func() { <-gate })
	r.PhotoFailed(nil)
	r.SetConsumer(nil)
	close(gate)

	_ = ui.Sync(func() {})
	select {
	case <-delivered:
		t.Fatalf("cleared consumer still received a notification")
	default:
	}
}

func TestCapacityGate(t *testing.T) {
	ui := dispatch.New("ui")
	defer ui.Close()
	r := events.NewRouter(ui, testLogger())

	allow := true
	r.SetConsumer(&events.ConsumerFuncs{
		CanCaptureMoreFunc:      func() bool { return allow },
		ZoomReferenceHeightFunc: func() float64 { return 480 },
	})

	if !r.CapacityAllowed() {
		t.Fatalf("capacity denied while consumer allows")
	}
	allow = false
	if r.CapacityAllowed() {
		t.Fatalf("capacity allowed while consumer refuses")
	}
	if h := r.ZoomReferenceHeight(); h != 480 {
		t.Fatalf("reference height %v, expected 480", h)
	}
}

func TestAskFromUIQueueRunsInline(t *testing.T) {
	ui := dispatch.New("ui")
	defer ui.Close()
	r := events.NewRouter(ui, testLogger())

	// A capacity check from a consumer callback must not deadlock.
	done := make(chan bool, 1)
	r.SetConsumer(&events.ConsumerFuncs{
		CaptureDidStartFunc: func() { done <- r.CapacityAllowed() },
	})
	r.CaptureDidStart()
	select {
	case ok := <-done:
		if !ok {
			t.Fatalf("inline capacity check refused")
		}
	case <-time.After(time.Second):
		t.Fatalf("capacity check from UI queue deadlocked")
	}
}
