package plot

import "image/color"

// Op identifies a draw request.
type Op uint8

const (
	OpFill Op = iota + 1
	OpLine
	OpCircle
	OpPolygon
	OpRect
	OpText
)

// Rect is a screen rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Command is one draw request in screen space.
//
//	OpFill:    Color
//	OpLine:    Points[0] -> Points[1], Width
//	OpCircle:  center Points[0], Radius
//	OpPolygon: Points
//	OpRect:    Rect, border Width
//	OpText:    Text centered on Points[0]
type Command struct {
	Op     Op
	Color  color.RGBA
	Points []Point
	Radius float64
	Width  float64
	Rect   Rect
	Text   string
}

// Renderer draws primitives on the output surface.
type Renderer interface {
	DrawLine(c color.RGBA, from, to Point, width float64)
	DrawCircle(c color.RGBA, center Point, radius float64)
	DrawPolygon(c color.RGBA, pts []Point)
	DrawRect(c color.RGBA, r Rect, border float64)
	DrawText(s string, c color.RGBA, anchor Point)
	Fill(c color.RGBA)
	Flush() error
	Teardown()
}

// Replay issues cmds on r in order.
func Replay(r Renderer, cmds []Command) {
	for _, c := range cmds {
		switch c.Op {
		case OpFill:
			r.Fill(c.Color)
		case OpLine:
			if len(c.Points) == 2 {
				r.DrawLine(c.Color, c.Points[0], c.Points[1], c.Width)
			}
		case OpCircle:
			if len(c.Points) == 1 {
				r.DrawCircle(c.Color, c.Points[0], c.Radius)
			}
		case OpPolygon:
			r.DrawPolygon(c.Color, c.Points)
		case OpRect:
			r.DrawRect(c.Color, c.Rect, c.Width)
		case OpText:
			if len(c.Points) == 1 {
				r.DrawText(c.Text, c.Color, c.Points[0])
			}
		}
	}
}
