// Package render draws plot commands into a hal framebuffer with tinyfont
// text.
package render

import (
	"image/color"
	"math"
	"slices"

	"plotter/hal"
	"plotter/internal/plot"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	_ plot.Renderer     = (*Surface)(nil)
	_ plot.Notifier     = (*Surface)(nil)
	_ drivers.Displayer = (*Surface)(nil)
)

// Surface is the framebuffer renderer. It also shows notices as an overlay
// that stays up until Dismiss.
type Surface struct {
	fb   hal.Framebuffer
	font tinyfont.Fonter

	notice *notice
	closed bool
}

// proggy TinySZ8pt7b cell metrics.
const (
	fontHeight = 10
	fontOffset = 6
)

func New(fb hal.Framebuffer) *Surface {
	return &Surface{fb: fb, font: &proggy.TinySZ8pt7b}
}

func (s *Surface) Size() (x, y int16) {
	if s.fb == nil {
		return 0, 0
	}
	return int16(s.fb.Width()), int16(s.fb.Height())
}

func (s *Surface) SetPixel(x, y int16, c color.RGBA) {
	if s.closed || s.fb == nil || s.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := s.fb.Buffer()
	if buf == nil {
		return
	}

	ix, iy := int(x), int(y)
	if ix < 0 || ix >= s.fb.Width() || iy < 0 || iy >= s.fb.Height() {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*s.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (s *Surface) Display() error {
	if s.fb == nil {
		return nil
	}
	return s.fb.Present()
}

func (s *Surface) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if s.closed || s.fb == nil || s.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := s.fb.Buffer()
	if buf == nil {
		return nil
	}

	w, h := s.fb.Width(), s.fb.Height()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	lo, hi := byte(pixel), byte(pixel>>8)

	stride := s.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				break
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

func (s *Surface) Fill(c color.RGBA) {
	w, h := s.Size()
	_ = s.FillRectangle(0, 0, w, h, c)
}

// DrawLine clips the segment to the surface and strokes it with a square
// brush of the given width.
func (s *Surface) DrawLine(c color.RGBA, from, to plot.Point, width float64) {
	w, h := s.Size()
	pad := math.Max(width, 1)
	x0, y0, x1, y1, ok := clipLineToRect(from.X, from.Y, to.X, to.Y, -pad, -pad, float64(w)-1+pad, float64(h)-1+pad)
	if !ok {
		return
	}
	brush := int16(math.Round(width))
	if brush < 1 {
		brush = 1
	}
	s.drawLine(roundInt16(x0), roundInt16(y0), roundInt16(x1), roundInt16(y1), c, brush)
}

// DrawCircle fills a disc.
func (s *Surface) DrawCircle(c color.RGBA, center plot.Point, radius float64) {
	w, h := s.Size()
	if !inside(center, -radius, -radius, float64(w)+radius, float64(h)+radius) {
		return
	}
	if radius < 0.5 {
		s.SetPixel(roundInt16(center.X), roundInt16(center.Y), c)
		return
	}
	cy := roundInt16(center.Y)
	r := int16(math.Floor(radius))
	for dy := -r; dy <= r; dy++ {
		half := math.Sqrt(radius*radius - float64(dy)*float64(dy))
		x0 := roundInt16(center.X - half)
		x1 := roundInt16(center.X + half)
		_ = s.FillRectangle(x0, cy+dy, x1-x0+1, 1, c)
	}
}

// DrawPolygon fills pts with an even-odd scanline pass, then strokes the
// outline so thin shapes stay visible.
func (s *Surface) DrawPolygon(c color.RGBA, pts []plot.Point) {
	switch len(pts) {
	case 0:
		return
	case 1:
		s.DrawLine(c, pts[0], pts[0], 1)
		return
	case 2:
		s.DrawLine(c, pts[0], pts[1], 1)
		return
	}

	w, h := s.Size()
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	y0 := clampInt(int(math.Ceil(minY)), 0, int(h))
	y1 := clampInt(int(math.Floor(maxY)), -1, int(h)-1)

	xs := make([]float64, 0, len(pts))
	for y := y0; y <= y1; y++ {
		yc := float64(y)
		xs = xs[:0]
		for i, a := range pts {
			b := pts[(i+1)%len(pts)]
			if (a.Y <= yc && b.Y > yc) || (b.Y <= yc && a.Y > yc) {
				xs = append(xs, a.X+(yc-a.Y)*(b.X-a.X)/(b.Y-a.Y))
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := clampInt(int(math.Ceil(xs[i])), 0, int(w))
			x1 := clampInt(int(math.Floor(xs[i+1])), -1, int(w)-1)
			if x0 <= x1 {
				_ = s.FillRectangle(int16(x0), int16(y), int16(x1-x0+1), 1, c)
			}
		}
	}
	for i, a := range pts {
		s.DrawLine(c, a, pts[(i+1)%len(pts)], 1)
	}
}

// DrawRect fills r when border is zero, otherwise strokes a border of that
// width inside r. Negative sizes extend left and up from the anchor.
func (s *Surface) DrawRect(c color.RGBA, r plot.Rect, border float64) {
	if r.W < 0 {
		r.X, r.W = r.X+r.W, -r.W
	}
	if r.H < 0 {
		r.Y, r.H = r.Y+r.H, -r.H
	}
	w, h := s.Size()
	b := math.Max(math.Round(border), 0)
	x0 := clampFloat(math.Round(r.X), -b-1, float64(w)+b+1)
	y0 := clampFloat(math.Round(r.Y), -b-1, float64(h)+b+1)
	x1 := clampFloat(math.Round(r.X+r.W), -b-1, float64(w)+b+1)
	y1 := clampFloat(math.Round(r.Y+r.H), -b-1, float64(h)+b+1)
	x, y := int16(x0), int16(y0)
	rw, rh := int16(x1-x0), int16(y1-y0)
	bb := int16(b)
	if bb == 0 || 2*bb >= rw || 2*bb >= rh {
		_ = s.FillRectangle(x, y, rw, rh, c)
		return
	}
	_ = s.FillRectangle(x, y, rw, bb, c)
	_ = s.FillRectangle(x, y+rh-bb, rw, bb, c)
	_ = s.FillRectangle(x, y, bb, rh, c)
	_ = s.FillRectangle(x+rw-bb, y, bb, rh, c)
}

// DrawText centers str on anchor.
func (s *Surface) DrawText(str string, c color.RGBA, anchor plot.Point) {
	if str == "" {
		return
	}
	w, h := s.Size()
	if !inside(anchor, -float64(w), -float64(h), 2*float64(w), 2*float64(h)) {
		return
	}
	_, outbox := tinyfont.LineWidth(s.font, str)
	x := roundInt16(anchor.X) - int16(outbox)/2
	y := roundInt16(anchor.Y) - fontHeight/2 + fontOffset
	tinyfont.WriteLine(s, s.font, x, y, str, c)
}

// Flush draws the notice overlay, if any, and presents the framebuffer.
func (s *Surface) Flush() error {
	if s.closed {
		return nil
	}
	if s.notice != nil {
		s.drawNotice()
	}
	return s.Display()
}

// Teardown blanks the surface and ignores further drawing.
func (s *Surface) Teardown() {
	if s.closed || s.fb == nil {
		s.closed = true
		return
	}
	s.fb.ClearRGB(0, 0, 0)
	_ = s.fb.Present()
	s.notice = nil
	s.closed = true
}

func (s *Surface) Closed() bool { return s.closed }

func (s *Surface) drawLine(x0, y0, x1, y1 int16, c color.RGBA, brush int16) {
	dx := int(math.Abs(float64(x1 - x0)))
	dy := -int(math.Abs(float64(y1 - y0)))
	sx := int16(-1)
	if x0 < x1 {
		sx = 1
	}
	sy := int16(-1)
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if brush == 1 {
			s.SetPixel(x0, y0, c)
		} else {
			_ = s.FillRectangle(x0-brush/2, y0-brush/2, brush, brush, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func inside(p plot.Point, xmin, ymin, xmax, ymax float64) bool {
	return p.X >= xmin && p.X <= xmax && p.Y >= ymin && p.Y <= ymax
}

func clipLineToRect(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	dx := x1 - x0
	dy := y1 - y0
	u1 := 0.0
	u2 := 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xmin, xmax - x0, y0 - ymin, ymax - y0}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > u2 {
				return 0, 0, 0, 0, false
			}
			u1 = math.Max(u1, t)
		} else {
			if t < u1 {
				return 0, 0, 0, 0, false
			}
			u2 = math.Min(u2, t)
		}
	}

	cx0 = clampFloat(x0+u1*dx, xmin, xmax)
	cy0 = clampFloat(y0+u1*dy, ymin, ymax)
	cx1 = clampFloat(x0+u2*dx, xmin, xmax)
	cy1 = clampFloat(y0+u2*dy, ymin, ymax)
	return cx0, cy0, cx1, cy1, true
}

func roundInt16(v float64) int16 {
	if v < 0 {
		return int16(v - 0.5)
	}
	return int16(v + 0.5)
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
