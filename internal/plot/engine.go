package plot

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"time"
)

// EventKind is a discrete input event.
type EventKind uint8

const (
	EventQuit EventKind = iota + 1
	EventPrimary
	EventSecondary
)

// Event is a discrete input with the pointer position it happened at.
type Event struct {
	Kind EventKind
	At   Point
}

// Keys is the set of held navigation keys.
type Keys uint8

const (
	KeyLeft Keys = 1 << iota
	KeyRight
	KeyUp
	KeyDown
	KeyReset
)

func (k Keys) Has(key Keys) bool { return k&key != 0 }

// Input is everything the engine reads in one frame.
type Input struct {
	Pointer Point
	Events  []Event
	Held    Keys
}

// Notice is a message for the Notifier.
type Notice struct {
	Title string
	Body  string
}

// Frame is the output of one Update.
type Frame struct {
	Commands []Command
	Notice   *Notice
	Quit     bool
}

// Curve is an element with its points in screen space.
type Curve struct {
	Element Element
	Points  []Point
}

const (
	pointRadius  = 2
	curveWidth   = 3
	tickHalf     = 5
	arrowLength  = 7
	arrowWidth   = 3
	readoutInset = 40
	readoutTop   = 10
)

// Engine owns the viewport, the elements and the interaction state of one
// plotting session.
type Engine struct {
	vp       *Viewport
	elements []Element
	opts     Options

	zoom  Zoom
	dirty bool

	log     *ErrorLog
	sampler Sampler

	ticks   Ticks
	curves  []Curve
	pointer Point
}

// New validates the configuration and returns an engine that resamples on
// its first frame.
func New(vp *Viewport, elements []Element, opts Options) (*Engine, error) {
	if vp == nil {
		return nil, configErr("viewport", "must not be nil")
	}
	for i, el := range elements {
		switch el.Kind {
		case KindFunction, KindSequence, KindVector:
		default:
			return nil, configErr("graph_elements", "element %d must be Function, Vector or Sequence, not %s", i, el.Kind)
		}
		if el.Name == "" {
			return nil, configErr("graph_elements", "element %d has no name", i)
		}
	}
	if err := opts.validate(len(elements)); err != nil {
		return nil, err
	}
	log := NewErrorLog()
	e := &Engine{
		vp:       vp,
		elements: append([]Element(nil), elements...),
		opts:     opts,
		dirty:    true,
		log:      log,
		sampler:  Sampler{Log: log, Logger: opts.Logger},
	}
	return e, nil
}

func (e *Engine) Viewport() *Viewport { return e.vp }
func (e *Engine) Zoom() *Zoom         { return &e.zoom }
func (e *Engine) ErrorLog() *ErrorLog { return e.log }
func (e *Engine) Dirty() bool         { return e.dirty }
func (e *Engine) Ticks() Ticks        { return e.ticks }
func (e *Engine) Curves() []Curve     { return e.curves }
func (e *Engine) Elements() []Element { return append([]Element(nil), e.elements...) }
func (e *Engine) Options() Options    { return e.opts }
func (e *Engine) MarkDirty()          { e.dirty = true }

func (e *Engine) String() string {
	return fmt.Sprintf("CoordinateSystem(graph_elements: %v, x_min=%g, x_max=%g, y_min=%g, y_max=%g)",
		e.elements, e.vp.XMin, e.vp.XMax, e.vp.YMin, e.vp.YMax)
}

// Update runs one frame: input, selection feedback, resampling when dirty,
// navigation, then the axes, graduations and curves. A non-nil error is a
// *FunctionEvaluatingError and ends the session.
func (e *Engine) Update(in Input) (Frame, error) {
	start := time.Now()
	e.pointer = in.Pointer

	for _, ev := range in.Events {
		switch ev.Kind {
		case EventQuit:
			return Frame{Quit: true}, nil
		case EventSecondary:
			e.zoom.Toggle()
		case EventPrimary:
			if !e.zoom.Active() {
				continue
			}
			if b, ok := e.zoom.Click(e.vp, ev.At); ok {
				e.commit(b)
			}
		}
	}

	var f Frame
	f.Commands = append(f.Commands, Command{Op: OpFill, Color: e.opts.Background})

	if cmd, ok := e.zoom.Indicator(e.pointer); ok {
		cmd.Color = e.opts.Coordinate
		f.Commands = append(f.Commands, cmd)
	}

	if e.dirty {
		if err := e.resample(); err != nil {
			return Frame{}, err
		}
		if e.opts.ShowIgnoredErrors && e.log.Len() > 0 {
			f.Notice = &Notice{Title: "ignored error while calculating the points", Body: e.log.Format()}
		}
	}

	if e.opts.ShowCoordinate {
		f.Commands = append(f.Commands, e.readout())
	}

	e.navigate(in.Held)

	f.Commands = e.appendAxes(f.Commands)
	f.Commands = e.appendGraduations(f.Commands)
	for i, c := range e.curves {
		f.Commands = appendCurve(f.Commands, c, e.opts.Palette[i])
	}

	if e.opts.Metrics != nil {
		e.opts.Metrics.ObserveFrame(time.Since(start))
	}
	return f, nil
}

// Render runs Update and draws the frame on r. The renderer is torn down when
// the session ends, by quit or by a fatal sampling error.
func (e *Engine) Render(r Renderer, n Notifier, in Input) (quit bool, err error) {
	f, err := e.Update(in)
	if err != nil {
		e.logf("plot: %v", err)
		r.Teardown()
		return true, err
	}
	if f.Quit {
		r.Teardown()
		return true, nil
	}
	Replay(r, f.Commands)
	if err := r.Flush(); err != nil {
		r.Teardown()
		return true, fmt.Errorf("plot: flush: %w", err)
	}
	if f.Notice != nil && n != nil {
		n.ShowMessage(f.Notice.Title, f.Notice.Body)
	}
	return false, nil
}

func (e *Engine) commit(b Bounds) {
	if err := e.vp.SetBounds(b); err != nil {
		e.logf("plot: zoom rejected: %v", err)
		return
	}
	e.dirty = true
	e.logf("plot: zoom %s", b)
}

func (e *Engine) navigate(held Keys) {
	dx, dy := 0.0, 0.0
	if held.Has(KeyRight) {
		dx += e.opts.XVelocity
	}
	if held.Has(KeyLeft) {
		dx -= e.opts.XVelocity
	}
	if held.Has(KeyUp) {
		dy += e.opts.YVelocity
	}
	if held.Has(KeyDown) {
		dy -= e.opts.YVelocity
	}
	if held&(KeyLeft|KeyRight|KeyUp|KeyDown) != 0 {
		e.vp.Pan(dx, dy)
		e.dirty = true
	}
	if held.Has(KeyReset) {
		e.vp.Reset()
		e.zoom.Cancel()
		e.dirty = true
		e.logf("plot: reset %s", e.vp.Bounds)
	}
}

// resample refreshes the axis constants first; graduations and curves read
// them.
func (e *Engine) resample() error {
	start := time.Now()
	e.vp.RefreshAxes()
	if e.opts.LogPolicy == LogClearPerPass {
		e.log.Reset()
	}
	e.ticks = Graduations(e.vp, e.opts.ShowXGraduationCoordinate, e.opts.ShowYGraduationCoordinate)

	curves := make([]Curve, 0, len(e.elements))
	points, failures := 0, 0
	for _, el := range e.elements {
		s, err := e.sampler.Sample(e.vp, el)
		if err != nil {
			return err
		}
		screen := make([]Point, len(s.Points))
		for i, p := range s.Points {
			screen[i] = e.vp.toScreen(p)
		}
		curves = append(curves, Curve{Element: el, Points: screen})
		points += len(screen)
		failures += s.Failures
		if e.opts.Metrics != nil {
			e.opts.Metrics.ObserveElement(el.Name, len(screen), s.Failures)
		}
	}
	e.curves = curves
	e.dirty = false

	if e.opts.Metrics != nil {
		e.opts.Metrics.ObserveResample(time.Since(start))
	}
	e.logf("plot: resampled %d elements %s (%d points, %d skipped)", len(curves), e.vp.Bounds, points, failures)
	return nil
}

func (e *Engine) readout() Command {
	x, y := e.vp.ScreenToWorld(e.pointer.X, e.pointer.Y)
	return Command{
		Op:     OpText,
		Color:  e.opts.Coordinate,
		Points: []Point{{X: e.vp.Width - readoutInset, Y: readoutTop}},
		Text:   fmt.Sprintf("(%.1f, %.1f)", x, y),
	}
}

func (e *Engine) appendAxes(cmds []Command) []Command {
	yFrom, yTo := e.vp.YAxis()
	xFrom, xTo := e.vp.XAxis()
	return append(cmds,
		Command{Op: OpLine, Color: e.opts.Axes, Points: []Point{yFrom, yTo}, Width: 1},
		Command{Op: OpLine, Color: e.opts.Axes, Points: []Point{xFrom, xTo}, Width: 1},
	)
}

func (e *Engine) appendGraduations(cmds []Command) []Command {
	c := e.opts.Graduation
	for _, p := range e.ticks.X {
		cmds = append(cmds, Command{Op: OpLine, Color: c, Points: []Point{{X: p.X, Y: p.Y - tickHalf}, {X: p.X, Y: p.Y + tickHalf}}, Width: 1})
	}
	for _, p := range e.ticks.Y {
		cmds = append(cmds, Command{Op: OpLine, Color: c, Points: []Point{{X: p.X - tickHalf, Y: p.Y}, {X: p.X + tickHalf, Y: p.Y}}, Width: 1})
	}
	for _, l := range e.ticks.Labels {
		cmds = append(cmds, Command{Op: OpText, Color: c, Points: []Point{l.Anchor}, Text: formatLabel(l.Value)})
	}
	return cmds
}

func appendCurve(cmds []Command, c Curve, col color.RGBA) []Command {
	pts := c.Points
	if c.Element.Kind == KindVector && c.Element.drawArrow && len(pts) == 2 {
		cmds = appendArrow(cmds, col, pts[0], pts[1])
	}
	for i, p := range pts {
		if c.Element.Flags.DrawPoints {
			cmds = append(cmds, Command{Op: OpCircle, Color: col, Points: []Point{p}, Radius: pointRadius})
		}
		if c.Element.Flags.DrawLines && i < len(pts)-1 {
			cmds = append(cmds, Command{Op: OpLine, Color: col, Points: []Point{p, pts[i+1]}, Width: curveWidth})
		}
	}
	return cmds
}

// appendArrow draws the shaft and a head made of two rotations of the shaft
// angle by ±π/6.
func appendArrow(cmds []Command, col color.RGBA, from, to Point) []Command {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	left := Point{
		X: to.X - arrowLength*math.Cos(angle-math.Pi/6),
		Y: to.Y - arrowLength*math.Sin(angle-math.Pi/6),
	}
	right := Point{
		X: to.X - arrowLength*math.Cos(angle+math.Pi/6),
		Y: to.Y - arrowLength*math.Sin(angle+math.Pi/6),
	}
	return append(cmds,
		Command{Op: OpLine, Color: col, Points: []Point{from, to}, Width: arrowWidth},
		Command{Op: OpPolygon, Color: col, Points: []Point{to, left, right}},
	)
}

func formatLabel(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		// drop negative zero
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func (e *Engine) logf(format string, args ...any) {
	if e.opts.Logger != nil {
		e.opts.Logger.WriteLineString(fmt.Sprintf(format, args...))
	}
}
