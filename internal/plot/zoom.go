package plot

import "math"

// ZoomPhase is the state of the rectangle-zoom selection.
type ZoomPhase uint8

const (
	ZoomIdle ZoomPhase = iota
	ZoomArmedFirst
	ZoomArmedSecond
)

func (p ZoomPhase) String() string {
	switch p {
	case ZoomIdle:
		return "idle"
	case ZoomArmedFirst:
		return "armed-first"
	case ZoomArmedSecond:
		return "armed-second"
	default:
		return "unknown"
	}
}

// Zoom is the two-click zoom state machine. The first corner only exists in
// the ZoomArmedSecond phase.
type Zoom struct {
	phase ZoomPhase
	first Point
}

func (z *Zoom) Phase() ZoomPhase { return z.phase }

// Active reports whether zoom mode is on.
func (z *Zoom) Active() bool { return z.phase != ZoomIdle }

// First returns the armed corner.
func (z *Zoom) First() (Point, bool) {
	if z.phase != ZoomArmedSecond {
		return Point{}, false
	}
	return z.first, true
}

// Toggle enters zoom mode from idle and leaves it from any armed phase.
func (z *Zoom) Toggle() {
	if z.phase == ZoomIdle {
		z.phase = ZoomArmedFirst
	} else {
		z.phase = ZoomIdle
	}
	z.first = Point{}
}

// Cancel leaves zoom mode.
func (z *Zoom) Cancel() { *z = Zoom{} }

// Click feeds a primary click at a screen position. When the click completes
// a selection, the normalized world window is returned with ok set. A
// selection with no width or height is discarded and the machine re-arms.
func (z *Zoom) Click(vp *Viewport, at Point) (b Bounds, ok bool) {
	switch z.phase {
	case ZoomArmedFirst:
		z.phase = ZoomArmedSecond
		z.first = at
		return Bounds{}, false
	case ZoomArmedSecond:
		first := z.first
		if first.X == at.X || first.Y == at.Y {
			z.phase = ZoomArmedFirst
			z.first = Point{}
			return Bounds{}, false
		}
		a := vp.toWorld(first)
		c := vp.toWorld(at)
		*z = Zoom{}
		return Bounds{
			XMin: math.Min(a.X, c.X),
			XMax: math.Max(a.X, c.X),
			YMin: math.Min(a.Y, c.Y),
			YMax: math.Max(a.Y, c.Y),
		}, true
	default:
		return Bounds{}, false
	}
}

// Indicator returns the selection feedback for the current pointer: a marker
// before the first corner is armed, a normalized rectangle afterward.
func (z *Zoom) Indicator(pointer Point) (cmd Command, ok bool) {
	switch z.phase {
	case ZoomArmedFirst:
		return Command{Op: OpCircle, Points: []Point{pointer}, Radius: 3}, true
	case ZoomArmedSecond:
		x1, y1 := z.first.X, z.first.Y
		x2, y2 := pointer.X, pointer.Y
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		if y2 < y1 {
			y1, y2 = y2, y1
		}
		return Command{Op: OpRect, Rect: Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}, Width: 2}, true
	default:
		return Command{}, false
	}
}
