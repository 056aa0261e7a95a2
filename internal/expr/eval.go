package expr

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Number is a real or complex evaluation result. Complex is sticky: once an
// operand is complex the result stays complex, even with a zero imaginary
// part.
type Number struct {
	Value   complex128
	Complex bool
}

func Real(f float64) Number { return Number{Value: complex(f, 0)} }

func Cplx(c complex128) Number { return Number{Value: c, Complex: true} }

// Float returns the real part.
func (n Number) Float() float64 { return real(n.Value) }

func (n Number) String() string {
	if n.Complex {
		return fmt.Sprint(n.Value)
	}
	return fmt.Sprint(real(n.Value))
}

var constants = map[string]Number{
	"pi":  Real(math.Pi),
	"tau": Real(2 * math.Pi),
	"e":   Real(math.E),
	"i":   Cplx(complex(0, 1)),
}

type env struct {
	params []string
	args   []float64
}

func (e *env) lookup(name string) (Number, bool) {
	for i, p := range e.params {
		if p == name {
			return Real(e.args[i]), true
		}
	}
	v, ok := constants[name]
	return v, ok
}

type node interface {
	eval(e *env) (Number, error)
}

type nodeNumber struct{ v float64 }

func (n nodeNumber) eval(_ *env) (Number, error) { return Real(n.v), nil }

type nodeIdent struct{ name string }

func (n nodeIdent) eval(e *env) (Number, error) {
	v, ok := e.lookup(n.name)
	if !ok {
		return Number{}, fmt.Errorf("%w %q", ErrUnknownVar, n.name)
	}
	return v, nil
}

type nodeUnary struct {
	op byte
	x  node
}

func (n nodeUnary) eval(e *env) (Number, error) {
	v, err := n.x.eval(e)
	if err != nil {
		return Number{}, err
	}
	switch n.op {
	case '+':
		return v, nil
	case '-':
		return Number{Value: -v.Value, Complex: v.Complex}, nil
	default:
		return Number{}, fmt.Errorf("%w: unary %q", ErrParse, n.op)
	}
}

type nodeBinary struct {
	op          byte
	left, right node
}

func (n nodeBinary) eval(e *env) (Number, error) {
	a, err := n.left.eval(e)
	if err != nil {
		return Number{}, err
	}
	b, err := n.right.eval(e)
	if err != nil {
		return Number{}, err
	}
	if a.Complex || b.Complex {
		return binaryComplex(n.op, a.Value, b.Value)
	}
	return binaryReal(n.op, real(a.Value), real(b.Value))
}

func binaryReal(op byte, a, b float64) (Number, error) {
	switch op {
	case '+':
		return Real(a + b), nil
	case '-':
		return Real(a - b), nil
	case '*':
		return Real(a * b), nil
	case '/':
		if b == 0 {
			return Number{}, ErrDivisionByZero
		}
		return Real(a / b), nil
	case '^':
		return pow(a, b)
	default:
		return Number{}, fmt.Errorf("%w: binary %q", ErrParse, op)
	}
}

// pow follows float power semantics: a negative base with a fractional
// exponent goes through the complex plane, zero to a negative power divides
// by zero, and finite operands overflowing to infinity are a range error.
func pow(a, b float64) (Number, error) {
	if a == 0 && b < 0 {
		return Number{}, ErrDivisionByZero
	}
	if a < 0 && b != math.Trunc(b) && !math.IsInf(b, 0) {
		return Cplx(cmplx.Pow(complex(a, 0), complex(b, 0))), nil
	}
	r := math.Pow(a, b)
	if math.IsInf(r, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0) {
		return Number{}, ErrRange
	}
	return Real(r), nil
}

func binaryComplex(op byte, a, b complex128) (Number, error) {
	switch op {
	case '+':
		return Cplx(a + b), nil
	case '-':
		return Cplx(a - b), nil
	case '*':
		return Cplx(a * b), nil
	case '/':
		if b == 0 {
			return Number{}, ErrDivisionByZero
		}
		return Cplx(a / b), nil
	case '^':
		if a == 0 && real(b) < 0 {
			return Number{}, ErrDivisionByZero
		}
		return Cplx(cmplx.Pow(a, b)), nil
	default:
		return Number{}, fmt.Errorf("%w: binary %q", ErrParse, op)
	}
}

type nodeCall struct {
	name string
	args []node
}

func (n nodeCall) eval(e *env) (Number, error) {
	fn, ok := builtins[n.name]
	if !ok {
		return Number{}, fmt.Errorf("%w %q", ErrUnknownFunc, n.name)
	}
	args := make([]Number, len(n.args))
	anyComplex := false
	for i, a := range n.args {
		v, err := a.eval(e)
		if err != nil {
			return Number{}, err
		}
		args[i] = v
		anyComplex = anyComplex || v.Complex
	}
	if anyComplex {
		if fn.complex == nil {
			return Number{}, fmt.Errorf("%s: %w", n.name, ErrNotReal)
		}
		zs := make([]complex128, len(args))
		for i, a := range args {
			zs[i] = a.Value
		}
		return fn.complex(zs)
	}
	xs := make([]float64, len(args))
	for i, a := range args {
		xs[i] = real(a.Value)
	}
	return fn.real(xs)
}
