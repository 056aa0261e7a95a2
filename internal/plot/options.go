package plot

import (
	"image/color"
	"math"
	"time"
)

// Logger writes newline-delimited log lines. hal.Logger satisfies it.
type Logger interface {
	WriteLineString(s string)
}

// Recorder receives engine measurements.
type Recorder interface {
	ObserveResample(d time.Duration)
	ObserveElement(name string, points, failures int)
	ObserveFrame(d time.Duration)
}

// Notifier surfaces a blocking message to the user.
type Notifier interface {
	ShowMessage(title, body string)
}

var (
	black = color.RGBA{A: 0xFF}
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// DefaultPalette is the point-color cycle used when none is configured.
var DefaultPalette = []color.RGBA{
	{R: 0, G: 0, B: 0, A: 0xFF},
	{R: 0, G: 0, B: 255, A: 0xFF},
	{R: 255, G: 0, B: 0, A: 0xFF},
	{R: 0, G: 255, B: 0, A: 0xFF},
	{R: 255, G: 192, B: 203, A: 0xFF},
	{R: 255, G: 165, B: 0, A: 0xFF},
	{R: 139, G: 69, B: 19, A: 0xFF},
	{R: 0, G: 255, B: 255, A: 0xFF},
}

// Options is the construction-time configuration of an Engine.
type Options struct {
	Background color.RGBA
	Palette    []color.RGBA
	Axes       color.RGBA
	Graduation color.RGBA
	// Coordinate colors the pointer readout and the zoom selection.
	Coordinate color.RGBA

	ShowXGraduationCoordinate bool
	ShowYGraduationCoordinate bool
	ShowCoordinate            bool
	ShowIgnoredErrors         bool

	Title string

	XVelocity float64
	YVelocity float64

	LogPolicy LogPolicy

	Logger  Logger
	Metrics Recorder
}

func DefaultOptions() Options {
	return Options{
		Background: white,
		Palette:    append([]color.RGBA(nil), DefaultPalette...),
		Axes:       black,
		Graduation: black,
		Coordinate: black,
		XVelocity:  0.5,
		YVelocity:  0.5,
		LogPolicy:  LogAccumulate,
	}
}

func (o Options) validate(elements int) error {
	if len(o.Palette) < elements {
		return configErr("points_color_list", "has %d colors for %d elements", len(o.Palette), elements)
	}
	for _, v := range []float64{o.XVelocity, o.YVelocity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return configErr("step_movement", "must be finite")
		}
	}
	switch o.LogPolicy {
	case LogAccumulate, LogClearPerPass:
	default:
		return configErr("log_policy", "unknown policy %d", o.LogPolicy)
	}
	return nil
}
