package plot

// Point is a position in either world or screen space.
type Point struct {
	X, Y float64
}

// WorldToScreen maps a world coordinate to a pixel position. Screen y grows
// downward.
func (v *Viewport) WorldToScreen(x, y float64) (px, py float64) {
	px = (x - v.XMin) / (v.XMax - v.XMin) * v.Width
	py = v.Height * (1 - (y-v.YMin)/(v.YMax-v.YMin))
	return px, py
}

// ScreenToWorld is the inverse of WorldToScreen.
func (v *Viewport) ScreenToWorld(px, py float64) (x, y float64) {
	x = px/v.Width*(v.XMax-v.XMin) + v.XMin
	y = v.YMin + (1-py/v.Height)*(v.YMax-v.YMin)
	return x, y
}

func (v *Viewport) toScreen(p Point) Point {
	x, y := v.WorldToScreen(p.X, p.Y)
	return Point{X: x, Y: y}
}

func (v *Viewport) toWorld(p Point) Point {
	x, y := v.ScreenToWorld(p.X, p.Y)
	return Point{X: x, Y: y}
}

// RefreshAxes recomputes the axis spans and the pixel position of x=0 and y=0.
// It must run after every bounds change and before anything reads the axes.
func (v *Viewport) RefreshAxes() {
	v.lenX = v.XMax - v.XMin
	v.lenY = v.YMax - v.YMin
	v.yAxisX = v.Width * (-v.XMin) / v.lenX
	v.xAxisY = v.Height * (1 - (-v.YMin)/v.lenY)
}

// XAxis returns the screen segment of the y=0 line.
func (v *Viewport) XAxis() (from, to Point) {
	return Point{X: 0, Y: v.xAxisY}, Point{X: v.Width, Y: v.xAxisY}
}

// YAxis returns the screen segment of the x=0 line.
func (v *Viewport) YAxis() (from, to Point) {
	return Point{X: v.yAxisX, Y: 0}, Point{X: v.yAxisX, Y: v.Height}
}

// Spans returns the axis lengths computed by the last RefreshAxes.
func (v *Viewport) Spans() (lenX, lenY float64) { return v.lenX, v.lenY }
