package capture

// ZoomRange bounds the user-visible zoom factor between a minimum and a
// maximum. The applied factor is additionally bounded by the capability of
// the active device.
type ZoomRange struct {
	Min float64
	Max float64
}

// DefaultZoomRange is the zoom range used when no configuration overrides
// it.
var DefaultZoomRange = ZoomRange{Min: 1.0, Max: 3.0}

// FactorForAlpha interpolates linearly between Min and Max. Alpha is clamped
// to [0, 1], so FactorForAlpha(0) == Min and FactorForAlpha(1) == Max.
func (z ZoomRange) FactorForAlpha(alpha float64) float64 {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return z.Min + alpha*(z.Max-z.Min)
}

// Clamp bounds factor to [Min, min(Max, deviceMax)]. A deviceMax of zero
// means the device reports no limit.
func (z ZoomRange) Clamp(factor, deviceMax float64) float64 {
	max := z.Max
	if deviceMax > 0 && deviceMax < max {
		max = deviceMax
	}
	if factor < z.Min {
		return z.Min
	}
	if factor > max {
		return max
	}
	return factor
}
