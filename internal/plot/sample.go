package plot

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
)

const (
	msgComplex  = "Result Is Complex Number"
	msgNone     = "Result Is None"
	msgNaN      = "Result Is NaN"
	msgInfinite = "Result Is Infinite"
)

// SampleFailure is a recoverable per-point evaluation failure.
type SampleFailure struct {
	Message string
	Err     error
}

// result is the outcome of evaluating one domain value.
type result struct {
	p    Point
	fail *SampleFailure
}

// Samples is the world-space output of one element.
type Samples struct {
	Points   []Point
	Failures int
}

// Sampler evaluates elements over a viewport and records recoverable failures
// in its log.
type Sampler struct {
	Log    *ErrorLog
	Logger Logger
}

// Sample evaluates e over the current window. A non-nil error is always a
// *FunctionEvaluatingError.
func (s *Sampler) Sample(vp *Viewport, e Element) (Samples, error) {
	if s.Log == nil {
		s.Log = NewErrorLog()
	}
	switch e.Kind {
	case KindFunction:
		return s.sampleFunction(vp, e)
	case KindSequence:
		return s.sampleSequence(vp, e)
	case KindVector:
		return Samples{Points: []Point{
			e.start,
			{X: e.start.X + e.delta.X, Y: e.start.Y + e.delta.Y},
		}}, nil
	default:
		return Samples{}, &FunctionEvaluatingError{Element: e.Name, Cause: fmt.Errorf("unknown element kind %s", e.Kind)}
	}
}

func (s *Sampler) sampleFunction(vp *Viewport, e Element) (Samples, error) {
	s.Log.Touch(e.Name)
	var out Samples
	for x := vp.XMin; x <= vp.XMax; {
		v, err := callReal(e.fn, x)
		r, fatal := classify(e.Kind, Point{X: x}, v, err)
		if fatal != nil {
			return Samples{}, &FunctionEvaluatingError{Element: e.Name, Cause: fatal}
		}
		s.collect(e.Name, r, &out)

		next := x + e.traceStep
		if next == x {
			s.logf("plot: %s: trace step %g lost at x=%g, stopping", e.Name, e.traceStep, x)
			break
		}
		x = next
	}
	return out, nil
}

func (s *Sampler) sampleSequence(vp *Viewport, e Element) (Samples, error) {
	s.Log.Touch(e.Name)
	stop, coerced := truncStop(vp.XMax)
	if coerced {
		msg := fmt.Sprintf("stop coerced to int (%g to %d)", vp.XMax, stop)
		if s.Log.Record(e.Name, msg) {
			s.logf("plot: %s: %s", e.Name, msg)
		}
	}
	var out Samples
	for n := e.nMin; n < stop; n += e.seqStep {
		v, err := callInt(e.seq, n)
		r, fatal := classify(e.Kind, Point{X: float64(n)}, v, err)
		if fatal != nil {
			return Samples{}, &FunctionEvaluatingError{Element: e.Name, Cause: fatal}
		}
		s.collect(e.Name, r, &out)
	}
	return out, nil
}

func (s *Sampler) collect(name string, r result, out *Samples) {
	if r.fail != nil {
		out.Failures++
		s.Log.Record(name, r.fail.Message)
		return
	}
	out.Points = append(out.Points, r.p)
}

func (s *Sampler) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.WriteLineString(fmt.Sprintf(format, args...))
	}
}

// truncStop converts the real upper bound to an integer by truncation toward
// zero. coerced reports whether a fractional part was dropped.
func truncStop(x float64) (stop int, coerced bool) {
	const limit = 1 << 53
	t := math.Trunc(x)
	switch {
	case t > limit:
		t = limit
	case t < -limit:
		t = -limit
	}
	return int(t), t != x
}

// classify turns one evaluation into a point, a recoverable failure, or a
// fatal error.
func classify(kind Kind, at Point, v Value, err error) (result, error) {
	if err != nil {
		switch {
		case errors.Is(err, ErrDivisionByZero),
			errors.Is(err, ErrInvalidValue),
			errors.Is(err, ErrOverflow):
			return result{fail: &SampleFailure{Message: err.Error(), Err: err}}, nil
		case errors.Is(err, ErrTypeMismatch) && kind == KindFunction:
			return result{fail: &SampleFailure{Message: err.Error(), Err: err}}, nil
		default:
			return result{}, err
		}
	}
	switch v.Kind {
	case ValueNone:
		return result{fail: &SampleFailure{Message: msgNone, Err: ErrInvalidValue}}, nil
	case ValueComplex:
		return result{fail: &SampleFailure{Message: msgComplex, Err: ErrInvalidValue}}, nil
	case ValueReal:
	default:
		return result{}, fmt.Errorf("unknown value kind %d", v.Kind)
	}
	switch {
	case math.IsNaN(v.Re):
		return result{fail: &SampleFailure{Message: msgNaN, Err: ErrInvalidValue}}, nil
	case math.IsInf(v.Re, 0):
		return result{fail: &SampleFailure{Message: msgInfinite, Err: ErrOverflow}}, nil
	}
	return result{p: Point{X: at.X, Y: v.Re}}, nil
}

func callReal(f RealFunc, x float64) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return f(x)
}

func callInt(f IntFunc, n int) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return f(n)
}

func panicError(r any) error {
	if re, ok := r.(runtime.Error); ok && strings.Contains(re.Error(), "divide by zero") {
		return ErrDivisionByZero
	}
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
