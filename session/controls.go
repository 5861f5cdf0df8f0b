package session

import (
	capture "github.com/Istiakmorsalin/Signal-iOS"
)

// Focus focuses and exposes at a point of interest. Each sub-operation is
// gated on device support, and the whole change runs under the exclusive
// device-configuration lock; a lock failure is logged and the change
// skipped.
func (c *Coordinator) Focus(focusMode capture.FocusMode, exposureMode capture.ExposureMode, point capture.Point, monitorSubjectAreaChange bool) {
	c.queue.Async(func() {
		c.focusLocked(focusMode, exposureMode, point, monitorSubjectAreaChange)
	})
}

func (c *Coordinator) focusLocked(focusMode capture.FocusMode, exposureMode capture.ExposureMode, point capture.Point, monitor bool) {
	dev := c.videoDevice
	if dev == nil {
		return
	}
	if err := dev.Lock(); err != nil {
		c.log.Warn("device lock unavailable, skipping focus change", "error", err)
		return
	}
	defer dev.Unlock()

	if dev.FocusPointSupported() {
		dev.SetFocus(focusMode, point)
	}
	if dev.ExposurePointSupported() {
		dev.SetExposure(exposureMode, point)
	}
	dev.SetSubjectAreaMonitoring(monitor)
	c.log.Debug("focus updated",
		"x", point.X, "y", point.Y,
		"focus", int(focusMode), "exposure", int(exposureMode),
		"monitor", monitor,
	)
}

// FocusAt focuses and exposes once at a user-tapped point and enables
// subject-area monitoring so the next scene change snaps back to
// continuous auto at center.
func (c *Coordinator) FocusAt(point capture.Point) {
	c.Focus(capture.FocusModeAuto, capture.ExposureModeAuto, point, true)
}

// ResetFocusAndExposure returns focus and exposure to continuous auto at
// the frame center and disables subject-area monitoring. Invoked on
// startup, after a camera switch, and on subject-area change.
func (c *Coordinator) ResetFocusAndExposure() {
	c.queue.Async(func() { c.resetFocusAndExposureLocked() })
}

func (c *Coordinator) resetFocusAndExposureLocked() {
	c.focusLocked(capture.FocusModeContinuousAuto, capture.ExposureModeContinuousAuto, capture.CenterPoint, false)
}

// SetZoom applies an absolute zoom position: alpha 0 maps to the minimum
// factor and alpha 1 to the configured maximum, clamped to what the active
// device supports. The applied factor becomes the committed baseline.
func (c *Coordinator) SetZoom(alpha float64) {
	c.queue.Async(func() {
		factor := c.zoomRange.FactorForAlpha(alpha)
		applied := c.applyZoomLocked(factor)
		c.zoomCommitted = applied
	})
}

// UpdateZoom applies a transient pinch update: scale multiplies the
// committed baseline from the gesture's start, leaving the baseline
// untouched until CompleteZoom.
func (c *Coordinator) UpdateZoom(scale float64) {
	c.queue.Async(func() {
		c.applyZoomLocked(c.zoomCommitted * scale)
	})
}

// CompleteZoom ends a pinch gesture: the final scaled factor is applied
// and becomes the new committed baseline.
func (c *Coordinator) CompleteZoom(scale float64) {
	c.queue.Async(func() {
		c.zoomCommitted = c.applyZoomLocked(c.zoomCommitted * scale)
	})
}

// applyZoomLocked clamps factor to the intersection of the configured
// range and the device's capability, then applies it under the device
// lock. It returns the factor actually applied.
func (c *Coordinator) applyZoomLocked(factor float64) float64 {
	c.queue.MustBeOn()
	dev := c.videoDevice
	if dev == nil {
		return c.zoomCommitted
	}
	clamped := c.zoomRange.Clamp(factor, dev.Info().MaxZoom)
	if err := dev.Lock(); err != nil {
		c.log.Warn("device lock unavailable, skipping zoom change", "error", err)
		return c.zoomCommitted
	}
	defer dev.Unlock()
	dev.SetZoom(clamped)
	return clamped
}

// ZoomAlphaForGesture converts a vertical gesture translation into an
// absolute zoom alpha using the consumer's advisory reference height. A
// missing or non-positive height yields 0.
func (c *Coordinator) ZoomAlphaForGesture(translation float64) float64 {
	h := c.router.ZoomReferenceHeight()
	if h <= 0 {
		return 0
	}
	alpha := translation / h
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}

// CycleFlash advances the flash mode auto -> on -> off -> auto and returns
// the new mode. It runs a synchronous round-trip through the coordination
// queue so the UI can update its indicator immediately.
func (c *Coordinator) CycleFlash() capture.FlashMode {
	var mode capture.FlashMode
	_ = c.queue.Sync(func() {
		mode = c.adapter.CycleFlashMode()
		c.log.Debug("flash mode cycled", "mode", mode.String())
	})
	return mode
}

// FlashMode returns the current flash mode.
func (c *Coordinator) FlashMode() capture.FlashMode {
	var mode capture.FlashMode
	_ = c.queue.Sync(func() { mode = c.adapter.FlashMode() })
	return mode
}
