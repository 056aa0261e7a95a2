package app

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"plotter/hal"
	"plotter/internal/plot"
	"plotter/internal/scene"
)

type lineLog struct{ lines []string }

func (l *lineLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineLog) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

type testKeyboard struct{ ch chan hal.KeyEvent }

func (k *testKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

type testPointer struct {
	x, y int
	ch   chan hal.PointerEvent
}

func (p *testPointer) Position() (int, int)            { return p.x, p.y }
func (p *testPointer) Events() <-chan hal.PointerEvent { return p.ch }

type testHAL struct {
	fb  hal.Framebuffer
	log *lineLog
	kbd *testKeyboard
	ptr *testPointer
}

func newTestHAL(fb hal.Framebuffer) *testHAL {
	return &testHAL{
		fb:  fb,
		log: &lineLog{},
		kbd: &testKeyboard{ch: make(chan hal.KeyEvent, 16)},
		ptr: &testPointer{ch: make(chan hal.PointerEvent, 16)},
	}
}

func (h *testHAL) Logger() hal.Logger   { return h.log }
func (h *testHAL) Display() hal.Display { return h }
func (h *testHAL) Input() hal.Input     { return h }

func (h *testHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *testHAL) Keyboard() hal.Keyboard       { return h.kbd }
func (h *testHAL) Pointer() hal.Pointer         { return h.ptr }

func (h *testHAL) press(code hal.KeyCode)   { h.kbd.ch <- hal.KeyEvent{Code: code, Press: true} }
func (h *testHAL) release(code hal.KeyCode) { h.kbd.ch <- hal.KeyEvent{Code: code} }
func (h *testHAL) click(b hal.Button, x, y int) {
	h.ptr.x, h.ptr.y = x, y
	h.ptr.ch <- hal.PointerEvent{Button: b, X: x, Y: y}
}

const baseScene = `
width = 100
height = 100

[[element]]
kind = "function"
expression = "x"
`

func newTestSession(t *testing.T, src string) (*Session, *testHAL) {
	t.Helper()
	f, err := scene.Decode(strings.NewReader(src), scene.FormatTOML)
	require.NoError(t, err)
	sc, err := f.Build()
	require.NoError(t, err)

	h := newTestHAL(hal.NewFramebuffer(sc.Width, sc.Height))
	s, err := New(h, Config{Scene: sc})
	require.NoError(t, err)
	return s, h
}

func TestStep_Pan(t *testing.T) {
	s, h := newTestSession(t, baseScene)
	vp := s.Engine().Viewport()

	h.press(hal.KeyRight)
	require.NoError(t, s.Step())
	require.Equal(t, -9.5, vp.XMin)
	require.NoError(t, s.Step())
	require.Equal(t, -9.0, vp.XMin)

	h.release(hal.KeyRight)
	require.NoError(t, s.Step())
	require.Equal(t, -9.0, vp.XMin)

	h.press(hal.KeyReset)
	h.release(hal.KeyReset)
	require.NoError(t, s.Step())
	require.Equal(t, -9.0, vp.XMin, "press and release in one frame is not held")

	h.press(hal.KeyReset)
	require.NoError(t, s.Step())
	require.Equal(t, plot.Bounds{XMin: -10, XMax: 10, YMin: -10, YMax: 10}, vp.Bounds)
	require.Equal(t, uint64(5), s.Frames())
}

func TestStep_Zoom(t *testing.T) {
	s, h := newTestSession(t, baseScene)

	h.click(hal.ButtonSecondary, 0, 0)
	require.NoError(t, s.Step())
	require.True(t, s.Engine().Zoom().Active())

	h.click(hal.ButtonPrimary, 10, 10)
	require.NoError(t, s.Step())
	h.click(hal.ButtonPrimary, 60, 60)
	require.NoError(t, s.Step())

	b := s.Engine().Viewport().Bounds
	require.False(t, s.Engine().Zoom().Active())
	require.InDelta(t, -8, b.XMin, 1e-9)
	require.InDelta(t, 2, b.XMax, 1e-9)
	require.InDelta(t, -2, b.YMin, 1e-9)
	require.InDelta(t, 8, b.YMax, 1e-9)
}

func TestStep_Quit(t *testing.T) {
	s, h := newTestSession(t, baseScene)
	require.NoError(t, s.Step())

	h.press(hal.KeyQuit)
	require.ErrorIs(t, s.Step(), hal.ErrQuit)
	require.True(t, s.Surface().Closed())
	img := hal.Snapshot(h.fb)
	require.Equal(t, color.RGBA{A: 0xFF}, img.RGBAAt(10, 10))
	require.ErrorIs(t, s.Step(), hal.ErrQuit)
	require.Contains(t, h.log.lines, "app: quit after 2 frames")
}

func TestStep_CloseWindow(t *testing.T) {
	s, h := newTestSession(t, baseScene)
	h.press(hal.KeyClose)
	require.ErrorIs(t, s.Step(), hal.ErrQuit)
}

func TestStep_Notice(t *testing.T) {
	s, h := newTestSession(t, `
width = 100
height = 100

[viewport]
x_min = -2.0
x_max = 2.0

[display]
show_ignored_error = true

[[element]]
kind = "function"
name = "inv"
expression = "1 / x"
trace_step = 1.0
`)
	require.NoError(t, s.Step())
	require.True(t, s.Surface().NoticeActive())
	require.Equal(t, uint64(1), s.Frames())

	h.press(hal.KeyRight)
	require.NoError(t, s.Step())
	require.Equal(t, uint64(1), s.Frames(), "frozen under the notice")

	h.press(hal.KeyEscape)
	require.NoError(t, s.Step())
	require.False(t, s.Surface().NoticeActive())
	require.Equal(t, uint64(2), s.Frames())
	require.Equal(t, -1.5, s.Engine().Viewport().XMin, "held key applies once resumed")
}

func TestStep_NoticeDismissedByClick(t *testing.T) {
	s, h := newTestSession(t, `
[display]
show_ignored_error = true

[[element]]
kind = "function"
expression = "sqrt(x)"
trace_step = 1.0
`)
	require.NoError(t, s.Step())
	require.True(t, s.Surface().NoticeActive())

	h.click(hal.ButtonPrimary, 5, 5)
	require.NoError(t, s.Step())
	require.False(t, s.Surface().NoticeActive())
	require.False(t, s.Engine().Zoom().Active())
}

func TestStep_Fatal(t *testing.T) {
	s, h := newTestSession(t, `
[[element]]
kind = "sequence"
expression = "floor((n - 3) ^ 0.5)"
`)
	err := s.Step()
	require.ErrorIs(t, err, plot.ErrFunctionEvaluating)
	require.True(t, s.Surface().Closed())
	require.ErrorIs(t, s.Step(), hal.ErrQuit)
	require.NotEmpty(t, h.log.lines)
}

type panickyFramebuffer struct {
	hal.Framebuffer
}

func (panickyFramebuffer) Buffer() []byte { panic("framebuffer gone") }

func TestStep_Panic(t *testing.T) {
	f, err := scene.Decode(strings.NewReader(baseScene), scene.FormatTOML)
	require.NoError(t, err)
	sc, err := f.Build()
	require.NoError(t, err)

	h := newTestHAL(panickyFramebuffer{Framebuffer: hal.NewFramebuffer(100, 100)})
	s, err := New(h, Config{Scene: sc})
	require.NoError(t, err)

	err = s.Step()
	require.ErrorContains(t, err, "framebuffer gone")
	require.Contains(t, h.log.lines, "app: panic in frame 0: framebuffer gone")
	require.ErrorIs(t, s.Step(), hal.ErrQuit)
}

func TestNewStep_NoScene(t *testing.T) {
	step := NewStep(newTestHAL(hal.NewFramebuffer(1, 1)), Config{})
	require.EqualError(t, step(), "app: no scene")
}
