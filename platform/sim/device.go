package sim

import (
	"sync"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/platform"
)

// VideoDevice is a simulated camera. All state is inspectable for tests.
type VideoDevice struct {
	info     capture.Device
	failLock bool

	mu          sync.Mutex
	locked      bool
	focusMode   capture.FocusMode
	focusPoint  capture.Point
	expoMode    capture.ExposureMode
	expoPoint   capture.Point
	monitoring  bool
	zoom        float64
	focusCalls  int
	nextSubID   int
	subjectSubs map[int]func()
}

var _ platform.VideoDevice = (*VideoDevice)(nil)

// Info returns the device descriptor.
func (d *VideoDevice) Info() capture.Device {
	return d.info
}

// Lock acquires the exclusive device-configuration lock.
func (d *VideoDevice) Lock() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failLock {
		return capture.ErrDeviceLock
	}
	if d.locked {
		return capture.ErrDeviceLock
	}
	d.locked = true
	return nil
}

// Unlock releases the device-configuration lock.
func (d *VideoDevice) Unlock() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.locked = false
}

// FocusPointSupported reports focus point-of-interest support. The
// simulated camera always supports it.
func (d *VideoDevice) FocusPointSupported() bool { return true }

// SetFocus applies a focus mode and point of interest.
func (d *VideoDevice) SetFocus(mode capture.FocusMode, point capture.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.focusMode = mode
	d.focusPoint = point
	d.focusCalls++
}

// ExposurePointSupported reports exposure point-of-interest support.
func (d *VideoDevice) ExposurePointSupported() bool { return true }

// SetExposure applies an exposure mode and point of interest.
func (d *VideoDevice) SetExposure(mode capture.ExposureMode, point capture.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.expoMode = mode
	d.expoPoint = point
}

// SetSubjectAreaMonitoring enables or disables subject-area-change
// monitoring.
func (d *VideoDevice) SetSubjectAreaMonitoring(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.monitoring = enabled
}

// SetZoom applies a zoom factor.
func (d *VideoDevice) SetZoom(factor float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.zoom = factor
}

// Zoom returns the applied zoom factor.
func (d *VideoDevice) Zoom() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.zoom
}

// SubscribeSubjectAreaChange registers fn for subject-area-change signals.
func (d *VideoDevice) SubscribeSubjectAreaChange(fn func()) (cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.subjectSubs == nil {
		d.subjectSubs = map[int]func(){}
	}
	id := d.nextSubID
	d.nextSubID++
	d.subjectSubs[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subjectSubs, id)
	}
}

// TriggerSubjectAreaChange delivers a subject-area-change signal to all
// subscribers, on the caller's goroutine. No-op when monitoring is off.
func (d *VideoDevice) TriggerSubjectAreaChange() {
	d.mu.Lock()
	if !d.monitoring {
		d.mu.Unlock()
		return
	}
	subs := make([]func(), 0, len(d.subjectSubs))
	for _, fn := range d.subjectSubs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// FocusState returns the applied focus/exposure state for test inspection.
func (d *VideoDevice) FocusState() (capture.FocusMode, capture.Point, capture.ExposureMode, capture.Point, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focusMode, d.focusPoint, d.expoMode, d.expoPoint, d.monitoring
}

// FocusCalls returns how many times SetFocus ran.
func (d *VideoDevice) FocusCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focusCalls
}
