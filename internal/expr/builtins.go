package expr

import (
	"math"
	"math/cmplx"
)

// builtin is a callable with a fixed argument count range. complex is nil
// for functions that only accept reals.
type builtin struct {
	minArgs, maxArgs int
	real             func([]float64) (Number, error)
	complex          func([]complex128) (Number, error)
}

var builtins = map[string]builtin{
	"sin":   unary(math.Sin, cmplx.Sin),
	"cos":   unary(math.Cos, cmplx.Cos),
	"tan":   unary(math.Tan, cmplx.Tan),
	"asin":  unary(math.Asin, cmplx.Asin),
	"acos":  unary(math.Acos, cmplx.Acos),
	"atan":  unary(math.Atan, cmplx.Atan),
	"sinh":  unary(math.Sinh, cmplx.Sinh),
	"cosh":  unary(math.Cosh, cmplx.Cosh),
	"tanh":  unary(math.Tanh, cmplx.Tanh),
	"exp":   unary(math.Exp, cmplx.Exp),
	"sqrt":  unary(math.Sqrt, cmplx.Sqrt),
	"ln":    unary(positive(math.Log), cmplx.Log),
	"log2":  unary(positive(math.Log2), nil),
	"log10": unary(positive(math.Log10), cmplx.Log10),
	"floor": unary(math.Floor, nil),
	"ceil":  unary(math.Ceil, nil),
	"round": unary(math.RoundToEven, nil),
	"log": {
		minArgs: 1, maxArgs: 2,
		real:    realLog,
		complex: complexLog,
	},
	"abs": {
		minArgs: 1, maxArgs: 1,
		real:    func(x []float64) (Number, error) { return Real(math.Abs(x[0])), nil },
		complex: func(z []complex128) (Number, error) { return Real(cmplx.Abs(z[0])), nil },
	},
	"re": {
		minArgs: 1, maxArgs: 1,
		real:    func(x []float64) (Number, error) { return Real(x[0]), nil },
		complex: func(z []complex128) (Number, error) { return Real(real(z[0])), nil },
	},
	"im": {
		minArgs: 1, maxArgs: 1,
		real:    func([]float64) (Number, error) { return Real(0), nil },
		complex: func(z []complex128) (Number, error) { return Real(imag(z[0])), nil },
	},
	"conj": {
		minArgs: 1, maxArgs: 1,
		real:    func(x []float64) (Number, error) { return Real(x[0]), nil },
		complex: func(z []complex128) (Number, error) { return Cplx(cmplx.Conj(z[0])), nil },
	},
	"arg": {
		minArgs: 1, maxArgs: 1,
		real:    func(x []float64) (Number, error) { return Real(math.Atan2(0, x[0])), nil },
		complex: func(z []complex128) (Number, error) { return Real(cmplx.Phase(z[0])), nil },
	},
	"mod": {
		minArgs: 2, maxArgs: 2,
		real: func(x []float64) (Number, error) {
			if x[1] == 0 {
				return Number{}, ErrDivisionByZero
			}
			return Real(x[0] - x[1]*math.Floor(x[0]/x[1])), nil
		},
	},
	"min": {minArgs: 1, maxArgs: -1, real: fold(math.Min)},
	"max": {minArgs: 1, maxArgs: -1, real: fold(math.Max)},
}

// unary wraps a one-argument math function. A NaN produced from a non-NaN
// argument is a domain error and an infinity produced from a finite argument
// is a range error.
func unary(f func(float64) float64, c func(complex128) complex128) builtin {
	b := builtin{
		minArgs: 1, maxArgs: 1,
		real: func(x []float64) (Number, error) {
			return checked(x[0], f(x[0]))
		},
	}
	if c != nil {
		b.complex = func(z []complex128) (Number, error) { return Cplx(c(z[0])), nil }
	}
	return b
}

func checked(in, out float64) (Number, error) {
	switch {
	case math.IsNaN(out) && !math.IsNaN(in):
		return Number{}, ErrDomain
	case math.IsInf(out, 0) && !math.IsInf(in, 0):
		return Number{}, ErrRange
	}
	return Real(out), nil
}

// positive rejects arguments outside the domain of a logarithm, zero
// included.
func positive(f func(float64) float64) func(float64) float64 {
	return func(x float64) float64 {
		if x <= 0 {
			return math.NaN()
		}
		return f(x)
	}
}

func realLog(x []float64) (Number, error) {
	ln := positive(math.Log)
	v, err := checked(x[0], ln(x[0]))
	if err != nil || len(x) == 1 {
		return v, err
	}
	base, err := checked(x[1], ln(x[1]))
	if err != nil {
		return Number{}, err
	}
	if base.Float() == 0 {
		return Number{}, ErrDivisionByZero
	}
	return Real(v.Float() / base.Float()), nil
}

func complexLog(z []complex128) (Number, error) {
	v := cmplx.Log(z[0])
	if len(z) == 1 {
		return Cplx(v), nil
	}
	base := cmplx.Log(z[1])
	if base == 0 {
		return Number{}, ErrDivisionByZero
	}
	return Cplx(v / base), nil
}

func fold(f func(a, b float64) float64) func([]float64) (Number, error) {
	return func(x []float64) (Number, error) {
		acc := x[0]
		for _, v := range x[1:] {
			acc = f(acc, v)
		}
		return Real(acc), nil
	}
}
