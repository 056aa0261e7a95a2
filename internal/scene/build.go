package scene

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"plotter/internal/expr"
	"plotter/internal/plot"
)

// Scene is a validated scene ready to drive an engine.
type Scene struct {
	Title    string
	Width    int
	Height   int
	Viewport *plot.Viewport
	Elements []plot.Element
	Options  plot.Options
}

// Build checks the file and turns it into engine inputs. Every failure is a
// *plot.ConfigError.
func (f *File) Build() (*Scene, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, &plot.ConfigError{Field: "screen_size", Reason: fmt.Sprintf("must be positive (%dx%d)", f.Width, f.Height)}
	}
	vp, err := plot.NewViewport(plot.Bounds{
		XMin: f.View.XMin, XMax: f.View.XMax,
		YMin: f.View.YMin, YMax: f.View.YMax,
	}, f.View.XGraduationStep, f.View.YGraduationStep, f.Width, f.Height)
	if err != nil {
		return nil, err
	}

	opts, err := f.options()
	if err != nil {
		return nil, err
	}

	elements := make([]plot.Element, 0, len(f.Elements))
	for i, spec := range f.Elements {
		el, err := spec.build(i)
		if err != nil {
			var ce *plot.ConfigError
			if errors.As(err, &ce) && !strings.HasPrefix(ce.Field, "element[") {
				ce.Field = fmt.Sprintf("element[%d].%s", i, ce.Field)
			}
			return nil, err
		}
		elements = append(elements, el)
	}

	return &Scene{
		Title:    f.Title,
		Width:    f.Width,
		Height:   f.Height,
		Viewport: vp,
		Elements: elements,
		Options:  opts,
	}, nil
}

func (f *File) options() (plot.Options, error) {
	opts := plot.DefaultOptions()
	opts.Title = f.Title

	for _, c := range []struct {
		field string
		v     any
		dst   *color.RGBA
	}{
		{"background_color", f.Style.Background, &opts.Background},
		{"axes_color", f.Style.Axes, &opts.Axes},
		{"graduation_color", f.Style.Graduation, &opts.Graduation},
		{"coordinate_color", f.Style.Coordinate, &opts.Coordinate},
	} {
		if c.v == nil {
			continue
		}
		rgba, err := parseColor(c.field, c.v)
		if err != nil {
			return plot.Options{}, err
		}
		*c.dst = rgba
	}
	if len(f.Style.Points) > 0 {
		opts.Palette = opts.Palette[:0]
		for i, v := range f.Style.Points {
			rgba, err := parseColor(fmt.Sprintf("points_color_list[%d]", i), v)
			if err != nil {
				return plot.Options{}, err
			}
			opts.Palette = append(opts.Palette, rgba)
		}
	}

	d := f.Display
	opts.ShowXGraduationCoordinate = d.ShowXGraduationCoordinate
	opts.ShowYGraduationCoordinate = d.ShowYGraduationCoordinate
	opts.ShowCoordinate = d.ShowCoordinate
	opts.ShowIgnoredErrors = d.ShowIgnoredError
	opts.XVelocity = d.XStepMovement
	opts.YVelocity = d.YStepMovement

	switch strings.ToLower(d.LogPolicy) {
	case "", "accumulate":
		opts.LogPolicy = plot.LogAccumulate
	case "clear":
		opts.LogPolicy = plot.LogClearPerPass
	default:
		return plot.Options{}, &plot.ConfigError{Field: "log_policy", Reason: fmt.Sprintf("must be accumulate or clear, not %q", d.LogPolicy)}
	}
	return opts, nil
}

func (s ElementSpec) build(i int) (plot.Element, error) {
	field := func(name string) string { return fmt.Sprintf("element[%d].%s", i, name) }

	switch strings.ToLower(s.Kind) {
	case "function":
		x, err := compile(field("expression"), s.Expression, "x")
		if err != nil {
			return plot.Element{}, err
		}
		step, err := floatField(field("trace_step"), s.TraceStep, 0.1)
		if err != nil {
			return plot.Element{}, err
		}
		flags, err := flagsOf(field, s, plot.FunctionFlags)
		if err != nil {
			return plot.Element{}, err
		}
		return plot.NewFunction(s.nameOr(x.String()), realFunc(x), step, flags)

	case "sequence":
		x, err := compile(field("expression"), s.Expression, "n")
		if err != nil {
			return plot.Element{}, err
		}
		nMin, err := intField(field("n_min"), s.NMin, 0)
		if err != nil {
			return plot.Element{}, err
		}
		step, err := intField(field("trace_step"), s.TraceStep, 1)
		if err != nil {
			return plot.Element{}, err
		}
		flags, err := flagsOf(field, s, plot.SequenceFlags)
		if err != nil {
			return plot.Element{}, err
		}
		return plot.NewSequence(s.nameOr(x.String()), intFunc(x), nMin, step, flags)

	case "vector":
		var vals [4]float64
		for j, f := range []struct {
			name string
			v    any
		}{{"x", s.X}, {"y", s.Y}, {"start_x", s.StartX}, {"start_y", s.StartY}} {
			v, err := floatField(field(f.name), f.v, 0)
			if err != nil {
				return plot.Element{}, err
			}
			vals[j] = v
		}
		arrow, err := boolField(field("draw_arrow"), s.DrawArrow, true)
		if err != nil {
			return plot.Element{}, err
		}
		flags, err := flagsOf(field, s, plot.VectorFlags)
		if err != nil {
			return plot.Element{}, err
		}
		el, err := plot.NewVector(plot.Point{X: vals[0], Y: vals[1]}, plot.Point{X: vals[2], Y: vals[3]}, arrow, flags)
		if err != nil {
			return plot.Element{}, err
		}
		if s.Name != "" {
			el.Name = s.Name
		}
		return el, nil

	default:
		return plot.Element{}, &plot.ConfigError{
			Field:  field("kind"),
			Reason: fmt.Sprintf("must be function, sequence or vector, not %q", s.Kind),
		}
	}
}

func (s ElementSpec) nameOr(def string) string {
	if s.Name != "" {
		return s.Name
	}
	return def
}

func compile(field, src, param string) (*expr.Expr, error) {
	x, err := expr.Compile(src, param)
	if err != nil {
		return nil, &plot.ConfigError{Field: field, Reason: err.Error()}
	}
	return x, nil
}

func flagsOf(field func(string) string, s ElementSpec, def plot.Flags) (plot.Flags, error) {
	points, err := boolField(field("draw_points"), s.DrawPoints, def.DrawPoints)
	if err != nil {
		return plot.Flags{}, err
	}
	lines, err := boolField(field("draw_lines_between_points"), s.DrawLines, def.DrawLines)
	if err != nil {
		return plot.Flags{}, err
	}
	return plot.Flags{DrawPoints: points, DrawLines: lines}, nil
}

func boolField(field string, v any, def bool) (bool, error) {
	switch v := v.(type) {
	case nil:
		return def, nil
	case bool:
		return v, nil
	default:
		return false, &plot.ConfigError{Field: field, Reason: fmt.Sprintf("must be true or false, not %T", v)}
	}
}

func floatField(field string, v any, def float64) (float64, error) {
	switch v := v.(type) {
	case nil:
		return def, nil
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, &plot.ConfigError{Field: field, Reason: fmt.Sprintf("must be a number, not %T", v)}
	}
}

// intField rejects floats, including integral ones like 2.0.
func intField(field string, v any, def int) (int, error) {
	switch v := v.(type) {
	case nil:
		return def, nil
	case int64:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return 0, &plot.ConfigError{Field: field, Reason: fmt.Sprintf("%d is out of range", v)}
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, &plot.ConfigError{Field: field, Reason: fmt.Sprintf("must be an integer, not %T", v)}
	}
}

// parseColor accepts a hex string or an [r, g, b] array of 0..255 integers.
func parseColor(field string, v any) (color.RGBA, error) {
	switch v := v.(type) {
	case string:
		c, err := colorful.Hex(v)
		if err != nil {
			return color.RGBA{}, &plot.ConfigError{Field: field, Reason: fmt.Sprintf("invalid color %q", v)}
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
	case []any:
		if len(v) != 3 {
			return color.RGBA{}, &plot.ConfigError{Field: field, Reason: fmt.Sprintf("needs 3 components, got %d", len(v))}
		}
		var rgb [3]uint8
		for i, comp := range v {
			n, err := intField(field, comp, 0)
			if err != nil {
				return color.RGBA{}, err
			}
			if n < 0 || n > 255 {
				return color.RGBA{}, &plot.ConfigError{Field: field, Reason: fmt.Sprintf("component %d out of range", n)}
			}
			rgb[i] = uint8(n)
		}
		return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}, nil
	default:
		return color.RGBA{}, &plot.ConfigError{Field: field, Reason: fmt.Sprintf("must be a hex string or [r, g, b], not %T", v)}
	}
}

func realFunc(x *expr.Expr) plot.RealFunc {
	return func(v float64) (plot.Value, error) {
		n, err := x.Eval(v)
		if err != nil {
			return plot.Value{}, mapEvalError(err)
		}
		return toValue(n), nil
	}
}

func intFunc(x *expr.Expr) plot.IntFunc {
	return func(n int) (plot.Value, error) {
		v, err := x.Eval(float64(n))
		if err != nil {
			return plot.Value{}, mapEvalError(err)
		}
		return toValue(v), nil
	}
}

func toValue(n expr.Number) plot.Value {
	if n.Complex {
		return plot.Complex(n.Value)
	}
	return plot.Real(n.Float())
}

// evalError keeps the evaluator's message while matching the sampler's
// failure classes.
type evalError struct {
	err  error
	kind error
}

func (e *evalError) Error() string   { return e.err.Error() }
func (e *evalError) Unwrap() []error { return []error{e.err, e.kind} }

func mapEvalError(err error) error {
	var kind error
	switch {
	case errors.Is(err, expr.ErrDivisionByZero):
		kind = plot.ErrDivisionByZero
	case errors.Is(err, expr.ErrDomain):
		kind = plot.ErrInvalidValue
	case errors.Is(err, expr.ErrRange):
		kind = plot.ErrOverflow
	case errors.Is(err, expr.ErrNotReal):
		kind = plot.ErrTypeMismatch
	default:
		return err
	}
	return &evalError{err: err, kind: kind}
}
