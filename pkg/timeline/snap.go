package timeline

import (
	"math"
	"time"
)

// SnapPixel rounds a position to the nearest multiple of the snap step
// ([Geometry.SnapWidth]). Halves round away from zero, so with a 60px step,
// 30 snaps to 60 and -30 snaps to -60.
//
// Snapping is idempotent: a value already on the grid is returned unchanged.
func (c *Converter) SnapPixel(x float64) float64 {
	step := c.geom.SnapWidth()
	return math.Round(x/step) * step
}

// SnapWidth returns the snap step in pixels.
func (c *Converter) SnapWidth() float64 {
	return c.geom.SnapWidth()
}

// SnapTime rounds an instant to the nearest snap boundary, measured as
// elapsed minutes since the origin. The rounding rule matches
// [Converter.SnapPixel], so on the uncompressed timeline
// PositionOf(SnapTime(t)) equals SnapPixel(PositionOf(t)).
func (c *Converter) SnapTime(t time.Time) time.Time {
	step := time.Duration(c.geom.SnapMinutes) * time.Minute
	k := math.Round(float64(t.Sub(c.origin)) / float64(step))
	return c.origin.Add(time.Duration(int64(k)) * step)
}
