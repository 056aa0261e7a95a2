package hal

import "errors"

// ErrQuit is returned by an app step to end the run loop without error.
var ErrQuit = errors.New("quit")

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyReset
	KeyQuit
	// KeyClose is sent once when the window is asked to close.
	KeyClose
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Button is a pointer button.
type Button uint8

const (
	ButtonPrimary Button = iota + 1
	ButtonSecondary
)

// PointerEvent is a button press at a framebuffer position.
type PointerEvent struct {
	Button Button
	X, Y   int
}

// Pointer reports the cursor in framebuffer coordinates and its clicks.
type Pointer interface {
	Position() (x, y int)
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// HAL provides the only contact point between the app and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}

// Config sizes the host window and framebuffer.
type Config struct {
	Title  string
	Width  int
	Height int
	// Scale multiplies the window size; the framebuffer keeps Width x Height.
	Scale int
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = 600
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Title == "" {
		c.Title = "plotter"
	}
	return c
}
