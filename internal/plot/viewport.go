package plot

import (
	"fmt"
	"math"
)

// Bounds is a world-coordinate window.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (b Bounds) validate() error {
	for _, v := range []float64{b.XMin, b.XMax, b.YMin, b.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return configErr("bounds", "must be finite")
		}
	}
	if b.XMin >= b.XMax {
		return configErr("x_min", "(%g) must be less than x_max (%g)", b.XMin, b.XMax)
	}
	if b.YMin >= b.YMax {
		return configErr("y_min", "(%g) must be less than y_max (%g)", b.YMin, b.YMax)
	}
	return nil
}

func (b Bounds) String() string {
	return fmt.Sprintf("x:[%g, %g] y:[%g, %g]", b.XMin, b.XMax, b.YMin, b.YMax)
}

// Viewport maps a world window onto a fixed pixel surface.
//
// The derived axis constants are only valid after RefreshAxes; the engine
// refreshes them at the start of every dirty pass.
type Viewport struct {
	Bounds
	XStep float64
	YStep float64

	Width  float64
	Height float64

	initial Bounds

	lenX   float64
	lenY   float64
	yAxisX float64
	xAxisY float64
}

// NewViewport validates the window, the graduation steps and the pixel size.
func NewViewport(b Bounds, xStep, yStep float64, width, height int) (*Viewport, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if xStep < 0 || math.IsNaN(xStep) || math.IsInf(xStep, 0) {
		return nil, configErr("x_graduation_step", "must be >= 0 (0 for no graduation)")
	}
	if yStep < 0 || math.IsNaN(yStep) || math.IsInf(yStep, 0) {
		return nil, configErr("y_graduation_step", "must be >= 0 (0 for no graduation)")
	}
	if width < 0 || height < 0 {
		return nil, configErr("screen", "dimensions must be non-negative (%dx%d)", width, height)
	}
	vp := &Viewport{
		Bounds:  b,
		XStep:   xStep,
		YStep:   yStep,
		Width:   float64(width),
		Height:  float64(height),
		initial: b,
	}
	vp.RefreshAxes()
	return vp, nil
}

// Initial returns the bounds restored by Reset.
func (v *Viewport) Initial() Bounds { return v.initial }

// SetBounds commits a new window. Invalid windows are rejected and leave the
// viewport untouched.
func (v *Viewport) SetBounds(b Bounds) error {
	if err := b.validate(); err != nil {
		return err
	}
	v.Bounds = b
	return nil
}

// Pan translates both ends of each axis.
func (v *Viewport) Pan(dx, dy float64) {
	v.XMin += dx
	v.XMax += dx
	v.YMin += dy
	v.YMax += dy
}

// Reset restores the initial window.
func (v *Viewport) Reset() { v.Bounds = v.initial }
