package plot

import (
	"fmt"
	"math"
)

// ValueKind tags what a user function produced.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueReal
	ValueComplex
)

// Value is the result of evaluating a plotted function at one domain value.
type Value struct {
	Kind ValueKind
	Re   float64
	Im   float64
}

func Real(v float64) Value { return Value{Kind: ValueReal, Re: v} }

// Complex is never plotted, even with a zero imaginary part.
func Complex(c complex128) Value { return Value{Kind: ValueComplex, Re: real(c), Im: imag(c)} }

func None() Value { return Value{} }

// RealFunc is sampled by Function elements.
type RealFunc func(x float64) (Value, error)

// IntFunc is sampled by Sequence elements.
type IntFunc func(n int) (Value, error)

// Kind is the closed set of plottable element variants.
type Kind uint8

const (
	KindFunction Kind = iota + 1
	KindSequence
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindSequence:
		return "sequence"
	case KindVector:
		return "vector"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Flags are the drawing switches shared by every variant.
type Flags struct {
	DrawPoints bool
	DrawLines  bool
}

var (
	FunctionFlags = Flags{DrawPoints: false, DrawLines: true}
	SequenceFlags = Flags{DrawPoints: true, DrawLines: false}
	VectorFlags   = Flags{}
)

// Element is a plottable item. Only the fields of its Kind are meaningful.
type Element struct {
	Name  string
	Kind  Kind
	Flags Flags

	fn        RealFunc
	traceStep float64

	seq     IntFunc
	nMin    int
	seqStep int

	start     Point
	delta     Point
	drawArrow bool
}

// NewFunction describes f sampled every step over the visible x range.
func NewFunction(name string, f RealFunc, step float64, flags Flags) (Element, error) {
	if name == "" {
		return Element{}, configErr("name", "must not be empty")
	}
	if f == nil {
		return Element{}, configErr("expression", "must not be nil")
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return Element{}, configErr("trace_step", "must be > 0 (got %g)", step)
	}
	return Element{Name: name, Kind: KindFunction, Flags: flags, fn: f, traceStep: step}, nil
}

// NewSequence describes f sampled over [nMin, x_max) every step.
func NewSequence(name string, f IntFunc, nMin, step int, flags Flags) (Element, error) {
	if name == "" {
		return Element{}, configErr("name", "must not be empty")
	}
	if f == nil {
		return Element{}, configErr("formula", "must not be nil")
	}
	if nMin < 0 {
		return Element{}, configErr("n_min", "must be >= 0 (got %d)", nMin)
	}
	if step <= 0 {
		return Element{}, configErr("trace_step", "must be > 0 for Sequence (got %d)", step)
	}
	return Element{Name: name, Kind: KindSequence, Flags: flags, seq: f, nMin: nMin, seqStep: step}, nil
}

// NewVector describes the arrow from start to start+delta.
func NewVector(delta, start Point, drawArrow bool, flags Flags) (Element, error) {
	for _, v := range []float64{delta.X, delta.Y, start.X, start.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Element{}, configErr("coordinate", "must be finite")
		}
	}
	e := Element{Kind: KindVector, Flags: flags, start: start, delta: delta, drawArrow: drawArrow}
	e.Name = e.String()
	return e, nil
}

func (e Element) TraceStep() float64 { return e.traceStep }
func (e Element) NMin() int           { return e.nMin }
func (e Element) SequenceStep() int   { return e.seqStep }
func (e Element) Start() Point        { return e.start }
func (e Element) Delta() Point        { return e.delta }
func (e Element) DrawArrow() bool     { return e.drawArrow }

func (e Element) String() string {
	switch e.Kind {
	case KindFunction:
		return fmt.Sprintf("Function(expression_name=%s)", e.Name)
	case KindSequence:
		return fmt.Sprintf("Sequence(formula_name=%s)", e.Name)
	case KindVector:
		return fmt.Sprintf("Vector(x=%g ; y=%g) starting at (x=%g ; y=%g)", e.delta.X, e.delta.Y, e.start.X, e.start.Y)
	default:
		return e.Kind.String()
	}
}

func (e Element) vectorWith(delta, start Point) (Element, error) {
	return NewVector(delta, start, e.drawArrow, e.Flags)
}

func (e Element) mustVectors(o ...Element) error {
	if e.Kind != KindVector {
		return configErr("kind", "vector arithmetic on %s", e.Kind)
	}
	for _, x := range o {
		if x.Kind != KindVector {
			return configErr("kind", "vector arithmetic on %s", x.Kind)
		}
	}
	return nil
}

// Add returns e+o anchored at the origin.
func (e Element) Add(o Element) (Element, error) {
	if err := e.mustVectors(o); err != nil {
		return Element{}, err
	}
	return e.vectorWith(Point{X: e.delta.X + o.delta.X, Y: e.delta.Y + o.delta.Y}, Point{})
}

// Sub returns e-o anchored at the origin.
func (e Element) Sub(o Element) (Element, error) {
	if err := e.mustVectors(o); err != nil {
		return Element{}, err
	}
	return e.vectorWith(Point{X: e.delta.X - o.delta.X, Y: e.delta.Y - o.delta.Y}, Point{})
}

// Scale returns k*e anchored at the origin.
func (e Element) Scale(k float64) (Element, error) {
	if err := e.mustVectors(); err != nil {
		return Element{}, err
	}
	return e.vectorWith(Point{X: e.delta.X * k, Y: e.delta.Y * k}, Point{})
}

// Div returns e/k and keeps the start point.
func (e Element) Div(k float64) (Element, error) {
	if err := e.mustVectors(); err != nil {
		return Element{}, err
	}
	if k == 0 {
		return Element{}, ErrDivisionByZero
	}
	return e.vectorWith(Point{X: e.delta.X / k, Y: e.delta.Y / k}, e.start)
}

// Mul returns the component-wise product of e and o anchored at the origin.
func (e Element) Mul(o Element) (Element, error) {
	if err := e.mustVectors(o); err != nil {
		return Element{}, err
	}
	return e.vectorWith(Point{X: e.delta.X * o.delta.X, Y: e.delta.Y * o.delta.Y}, Point{})
}

// Quo returns the component-wise quotient of e and o anchored at the origin.
func (e Element) Quo(o Element) (Element, error) {
	if err := e.mustVectors(o); err != nil {
		return Element{}, err
	}
	if o.delta.X == 0 || o.delta.Y == 0 {
		return Element{}, ErrDivisionByZero
	}
	return e.vectorWith(Point{X: e.delta.X / o.delta.X, Y: e.delta.Y / o.delta.Y}, Point{})
}

// Pos returns e moved to the origin.
func (e Element) Pos() (Element, error) { return e.Scale(1) }

// Neg returns -e anchored at the origin.
func (e Element) Neg() (Element, error) { return e.Scale(-1) }
