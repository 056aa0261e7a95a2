// Package app runs one plotting session on a HAL: it turns key and pointer
// events into engine input and draws each frame on the framebuffer.
package app

import (
	"errors"
	"fmt"

	"plotter/hal"
	"plotter/internal/plot"
	"plotter/internal/render"
	"plotter/internal/scene"
)

type Config struct {
	Scene *scene.Scene
	// Metrics is optional.
	Metrics plot.Recorder
}

// Session owns the engine and the surface it draws on.
type Session struct {
	h       hal.HAL
	logger  hal.Logger
	engine  *plot.Engine
	surface *render.Surface

	held   plot.Keys
	frames uint64
	done   bool
}

func New(h hal.HAL, cfg Config) (*Session, error) {
	if cfg.Scene == nil {
		return nil, errors.New("app: no scene")
	}
	disp := h.Display()
	if disp == nil || disp.Framebuffer() == nil {
		return nil, errors.New("app: no framebuffer")
	}

	opts := cfg.Scene.Options
	opts.Logger = h.Logger()
	opts.Metrics = cfg.Metrics
	e, err := plot.New(cfg.Scene.Viewport, cfg.Scene.Elements, opts)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	s := &Session{
		h:       h,
		logger:  h.Logger(),
		engine:  e,
		surface: render.New(disp.Framebuffer()),
	}
	s.logf("app: %q with %d elements on %dx%d", cfg.Scene.Title, len(cfg.Scene.Elements),
		disp.Framebuffer().Width(), disp.Framebuffer().Height())
	return s, nil
}

// NewStep adapts New to the hal runners. A setup failure is returned by the
// first step.
func NewStep(h hal.HAL, cfg Config) func() error {
	s, err := New(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return s.Step
}

func (s *Session) Engine() *plot.Engine     { return s.engine }
func (s *Session) Surface() *render.Surface { return s.surface }
func (s *Session) Frames() uint64           { return s.frames }

// Step runs one frame. It returns hal.ErrQuit once the session has ended
// normally and the engine's *plot.FunctionEvaluatingError when sampling fails.
func (s *Session) Step() (err error) {
	if s.done {
		return hal.ErrQuit
	}
	defer s.recoverStep(&err)

	in := s.input()

	if s.surface.NoticeActive() {
		return s.stepNotice(in)
	}

	quit, err := s.engine.Render(s.surface, s.surface, in)
	s.frames++
	if err != nil {
		s.done = true
		return err
	}
	if quit {
		s.done = true
		s.logf("app: quit after %d frames", s.frames)
		return hal.ErrQuit
	}
	return nil
}

// stepNotice keeps the plot frozen under the notice until it is dismissed.
// Quit still ends the session.
func (s *Session) stepNotice(in plot.Input) error {
	for _, ev := range in.Events {
		switch ev.Kind {
		case plot.EventQuit:
			s.surface.Teardown()
			s.done = true
			return hal.ErrQuit
		case plot.EventPrimary:
			s.surface.Dismiss()
		}
	}
	if s.surface.NoticeActive() {
		return s.surface.Flush()
	}
	return nil
}

// input drains the HAL queues into one engine input. Held keys persist
// across frames until their release event arrives.
func (s *Session) input() plot.Input {
	var in plot.Input
	inp := s.h.Input()
	if inp == nil {
		in.Held = s.held
		return in
	}

	if kbd := inp.Keyboard(); kbd != nil {
	keys:
		for {
			select {
			case ev := <-kbd.Events():
				s.key(ev, &in)
			default:
				break keys
			}
		}
	}

	if ptr := inp.Pointer(); ptr != nil {
		x, y := ptr.Position()
		in.Pointer = plot.Point{X: float64(x), Y: float64(y)}
	clicks:
		for {
			select {
			case ev := <-ptr.Events():
				at := plot.Point{X: float64(ev.X), Y: float64(ev.Y)}
				switch ev.Button {
				case hal.ButtonPrimary:
					in.Events = append(in.Events, plot.Event{Kind: plot.EventPrimary, At: at})
				case hal.ButtonSecondary:
					in.Events = append(in.Events, plot.Event{Kind: plot.EventSecondary, At: at})
				}
			default:
				break clicks
			}
		}
	}

	in.Held = s.held
	return in
}

var heldKeys = map[hal.KeyCode]plot.Keys{
	hal.KeyLeft:  plot.KeyLeft,
	hal.KeyRight: plot.KeyRight,
	hal.KeyUp:    plot.KeyUp,
	hal.KeyDown:  plot.KeyDown,
	hal.KeyReset: plot.KeyReset,
}

func (s *Session) key(ev hal.KeyEvent, in *plot.Input) {
	if k, ok := heldKeys[ev.Code]; ok {
		if ev.Press {
			s.held |= k
		} else {
			s.held &^= k
		}
		return
	}
	if !ev.Press {
		return
	}
	switch ev.Code {
	case hal.KeyQuit, hal.KeyClose:
		in.Events = append(in.Events, plot.Event{Kind: plot.EventQuit})
	case hal.KeyEscape:
		if s.surface.NoticeActive() {
			s.surface.Dismiss()
			return
		}
		in.Events = append(in.Events, plot.Event{Kind: plot.EventQuit})
	case hal.KeyEnter:
		s.surface.Dismiss()
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.WriteLineString(fmt.Sprintf(format, args...))
	}
}
