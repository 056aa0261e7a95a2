package plot

import "math"

const labelOffset = 10

// Label is a graduation value and where its text is centered.
type Label struct {
	Anchor Point
	Value  float64
}

// Ticks holds the screen positions of the graduations on both axes.
type Ticks struct {
	X      []Point
	Y      []Point
	Labels []Label
}

// Graduations walks each axis from the origin outward by its step, forward
// while <= max and backward while >= min. A zero step disables the axis.
// Ticks that would land on the pixel of the previous one are skipped, but the
// outermost tick on each side is always kept.
func Graduations(vp *Viewport, showX, showY bool) Ticks {
	var t Ticks
	column := func(v float64) float64 { return vp.toScreen(Point{X: v}).X }
	row := func(v float64) float64 { return vp.toScreen(Point{Y: v}).Y }
	for _, v := range axisValues(vp.XStep, vp.XMin, vp.XMax, column) {
		p := vp.toScreen(Point{X: v})
		t.X = append(t.X, p)
		if showX {
			t.Labels = append(t.Labels, Label{Anchor: Point{X: p.X, Y: p.Y + labelOffset}, Value: v})
		}
	}
	for _, v := range axisValues(vp.YStep, vp.YMin, vp.YMax, row) {
		p := vp.toScreen(Point{Y: v})
		t.Y = append(t.Y, p)
		if showY {
			t.Labels = append(t.Labels, Label{Anchor: Point{X: p.X - labelOffset, Y: p.Y}, Value: v})
		}
	}
	return t
}

// axisValues returns k*step for every integer k with min <= k*step <= max,
// non-negative multiples first. With a pixel mapping, consecutive values on
// the same pixel are thinned to one.
func axisValues(step, min, max float64, pixel func(float64) float64) []float64 {
	if step <= 0 {
		return nil
	}
	var out []float64

	k := 0.0
	if min > 0 {
		k = math.Ceil(min / step)
	}
	out = walkAxis(out, k, 1, step, min, max, pixel, math.NaN())

	k = -1
	seed := math.NaN()
	if max < 0 {
		k = math.Floor(max / step)
	} else if pixel != nil && min <= 0 {
		// the forward walk emitted the origin
		seed = math.Round(pixel(0))
	}
	return walkAxis(out, k, -1, step, min, max, pixel, seed)
}

// walkAxis appends k*step, (k+dir)*step, ... until the value leaves
// [min, max] or stops changing. lastPx is the pixel of the tick just inside
// the walk, or NaN.
func walkAxis(out []float64, k, dir, step, min, max float64, pixel func(float64) float64, lastPx float64) []float64 {
	prev := math.NaN()
	for {
		v := k * step
		if v > max || v < min || v == prev {
			return out
		}
		prev = v
		k += dir

		next := k * step
		outermost := next > max || next < min || next == v
		if pixel != nil && !outermost {
			px := math.Round(pixel(v))
			if px == lastPx {
				continue
			}
			lastPx = px
		}
		out = append(out, v)
	}
}
