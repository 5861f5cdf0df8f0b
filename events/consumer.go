// Package events routes capture results and session notifications to a
// single registered consumer. Every consumer callback is delivered on the
// UI dispatch queue; backend completion goroutines never reach the consumer
// directly.
package events

import (
	"time"

	capture "github.com/Istiakmorsalin/Signal-iOS"
)

// Consumer receives capture results and session notifications, always on
// the UI queue. The router does not own its consumer; registration is a
// non-owning handle and may be cleared at any time.
type Consumer interface {
	// CaptureDidStart acknowledges that a photo capture was accepted.
	CaptureDidStart()

	// PhotoCaptured delivers a finished photo attachment.
	PhotoCaptured(att capture.Attachment)

	// PhotoFailed delivers a per-request capture error.
	PhotoFailed(err error)

	// VideoDidStart acknowledges that a recording began.
	VideoDidStart()

	// VideoCaptured delivers a finalized movie attachment. The file lives
	// in a temporary directory of its own; the consumer owns both and
	// removes the directory (filepath.Dir of the path) after consumption.
	VideoCaptured(att capture.Attachment)

	// VideoFailed delivers a genuine recording failure.
	VideoFailed(err error)

	// VideoCanceled acknowledges a cancellation request. No user-facing
	// path triggers one.
	VideoCanceled()

	// OrientationDidChange reports a new capture orientation, after it has
	// been applied.
	OrientationDidChange(o capture.Orientation)

	// CanCaptureMore decides whether another capture is currently
	// allowed. When it returns false, CaptureLimitReached fires instead of
	// starting capture.
	CanCaptureMore() bool

	// CaptureLimitReached reports that a capture was refused by the
	// capacity check.
	CaptureLimitReached()

	// BeginButtonAnimation and EndButtonAnimation drive the capture
	// button affordance.
	BeginButtonAnimation(d time.Duration)
	EndButtonAnimation(d time.Duration)

	// ZoomReferenceHeight supplies the height used to scale zoom
	// gestures. Purely advisory; no contract on session state.
	ZoomReferenceHeight() float64
}

// ConsumerFuncs implements Consumer with optional function fields. Nil
// fields are no-ops; a nil CanCaptureMoreFunc allows capture and a nil
// ZoomReferenceHeightFunc reports zero.
type ConsumerFuncs struct {
	CaptureDidStartFunc      func()
	PhotoCapturedFunc        func(capture.Attachment)
	PhotoFailedFunc          func(error)
	VideoDidStartFunc        func()
	VideoCapturedFunc        func(capture.Attachment)
	VideoFailedFunc          func(error)
	VideoCanceledFunc        func()
	OrientationDidChangeFunc func(capture.Orientation)
	CanCaptureMoreFunc       func() bool
	CaptureLimitReachedFunc  func()
	BeginButtonAnimationFunc func(time.Duration)
	EndButtonAnimationFunc   func(time.Duration)
	ZoomReferenceHeightFunc  func() float64
}

var _ Consumer = (*ConsumerFuncs)(nil)

func (c *ConsumerFuncs) CaptureDidStart() {
	if c.CaptureDidStartFunc != nil {
		c.CaptureDidStartFunc()
	}
}

func (c *ConsumerFuncs) PhotoCaptured(att capture.Attachment) {
	if c.PhotoCapturedFunc != nil {
		c.PhotoCapturedFunc(att)
	}
}

func (c *ConsumerFuncs) PhotoFailed(err error) {
	if c.PhotoFailedFunc != nil {
		c.PhotoFailedFunc(err)
	}
}

func (c *ConsumerFuncs) VideoDidStart() {
	if c.VideoDidStartFunc != nil {
		c.VideoDidStartFunc()
	}
}

func (c *ConsumerFuncs) VideoCaptured(att capture.Attachment) {
	if c.VideoCapturedFunc != nil {
		c.VideoCapturedFunc(att)
	}
}

func (c *ConsumerFuncs) VideoFailed(err error) {
	if c.VideoFailedFunc != nil {
		c.VideoFailedFunc(err)
	}
}

func (c *ConsumerFuncs) VideoCanceled() {
	if c.VideoCanceledFunc != nil {
		c.VideoCanceledFunc()
	}
}

func (c *ConsumerFuncs) OrientationDidChange(o capture.Orientation) {
	if c.OrientationDidChangeFunc != nil {
		c.OrientationDidChangeFunc(o)
	}
}

func (c *ConsumerFuncs) CanCaptureMore() bool {
	if c.CanCaptureMoreFunc != nil {
		return c.CanCaptureMoreFunc()
	}
	return true
}

func (c *ConsumerFuncs) CaptureLimitReached() {
	if c.CaptureLimitReachedFunc != nil {
		c.CaptureLimitReachedFunc()
	}
}

func (c *ConsumerFuncs) BeginButtonAnimation(d time.Duration) {
	if c.BeginButtonAnimationFunc != nil {
		c.BeginButtonAnimationFunc(d)
	}
}

func (c *ConsumerFuncs) EndButtonAnimation(d time.Duration) {
	if c.EndButtonAnimationFunc != nil {
		c.EndButtonAnimationFunc(d)
	}
}

func (c *ConsumerFuncs) ZoomReferenceHeight() float64 {
	if c.ZoomReferenceHeightFunc != nil {
		return c.ZoomReferenceHeightFunc()
	}
	return 0
}
