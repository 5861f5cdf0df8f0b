package events

import (
	"log/slog"
	"sync"
	"time"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/dispatch"
)

// Router marshals capture results from arbitrary goroutines onto the UI
// queue and hands them to the registered consumer. With no consumer
// registered, notifications are dropped, the capacity check allows capture
// and the zoom reference height is zero.
type Router struct {
	ui  *dispatch.Queue
	log *slog.Logger

	mu       sync.Mutex
	consumer Consumer
}

// NewRouter returns a router delivering on the given UI queue. A nil queue
// creates a dedicated delivery queue, which the caller must Close.
func NewRouter(ui *dispatch.Queue, log *slog.Logger) *Router {
	if ui == nil {
		ui = dispatch.New("capture.ui")
	}
	return &Router{ui: ui, log: log}
}

// UI returns the delivery queue.
func (r *Router) UI() *dispatch.Queue {
	return r.ui
}

// SetConsumer registers the consumer. The router never owns it; passing nil
// clears the registration.
func (r *Router) SetConsumer(c Consumer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consumer = c
}

func (r *Router) snapshot() Consumer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.consumer
}

// post delivers f(consumer) on the UI queue. The consumer is resolved at
// delivery time, so a consumer cleared before delivery receives nothing.
func (r *Router) post(f func(Consumer)) {
	r.ui.Async(func() {
		if c := r.snapshot(); c != nil {
			f(c)
		}
	})
}

// ask runs f(consumer) synchronously on the UI queue and returns its
// result, or fallback with no consumer registered. Calls already on the UI
// queue run inline.
func ask[T any](r *Router, fallback T, f func(Consumer) T) T {
	c := r.snapshot()
	if c == nil {
		return fallback
	}
	if r.ui.OnQueue() {
		return f(c)
	}
	out := fallback
	if err := r.ui.Sync(func() {
		out = f(c)
	}); err != nil {
		r.log.Warn("consumer query failed", "error", err)
		return fallback
	}
	return out
}

// CaptureDidStart acknowledges an accepted photo capture.
func (r *Router) CaptureDidStart() {
	r.post(func(c Consumer) { c.CaptureDidStart() })
}

// PhotoCaptured delivers a finished photo.
func (r *Router) PhotoCaptured(att capture.Attachment) {
	r.post(func(c Consumer) { c.PhotoCaptured(att) })
}

// PhotoFailed delivers a per-request capture error.
func (r *Router) PhotoFailed(err error) {
	r.post(func(c Consumer) { c.PhotoFailed(err) })
}

// VideoDidStart acknowledges a started recording.
func (r *Router) VideoDidStart() {
	r.post(func(c Consumer) { c.VideoDidStart() })
}

// VideoCaptured delivers a finalized movie.
func (r *Router) VideoCaptured(att capture.Attachment) {
	r.post(func(c Consumer) { c.VideoCaptured(att) })
}

// VideoFailed delivers a genuine recording failure.
func (r *Router) VideoFailed(err error) {
	r.post(func(c Consumer) { c.VideoFailed(err) })
}

// VideoCanceled acknowledges a cancellation request.
func (r *Router) VideoCanceled() {
	r.post(func(c Consumer) { c.VideoCanceled() })
}

// OrientationDidChange reports an applied capture orientation.
func (r *Router) OrientationDidChange(o capture.Orientation) {
	r.post(func(c Consumer) { c.OrientationDidChange(o) })
}

// CaptureLimitReached reports a refused capture.
func (r *Router) CaptureLimitReached() {
	r.post(func(c Consumer) { c.CaptureLimitReached() })
}

// BeginButtonAnimation drives the capture button affordance.
func (r *Router) BeginButtonAnimation(d time.Duration) {
	r.post(func(c Consumer) { c.BeginButtonAnimation(d) })
}

// EndButtonAnimation drives the capture button affordance.
func (r *Router) EndButtonAnimation(d time.Duration) {
	r.post(func(c Consumer) { c.EndButtonAnimation(d) })
}

// CapacityAllowed asks the consumer whether another capture may start.
func (r *Router) CapacityAllowed() bool {
	return ask(r, true, func(c Consumer) bool { return c.CanCaptureMore() })
}

// ZoomReferenceHeight returns the consumer's advisory gesture-scaling
// height.
func (r *Router) ZoomReferenceHeight() float64 {
	return ask(r, 0, func(c Consumer) float64 { return c.ZoomReferenceHeight() })
}
