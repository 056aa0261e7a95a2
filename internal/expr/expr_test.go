package expr

import (
	"errors"
	"math"
	"testing"
)

func evalAt(t *testing.T, src string, x float64) Number {
	t.Helper()
	e, err := Compile(src, "x")
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", src, err)
	}
	v, err := e.Eval(x)
	if err != nil {
		t.Fatalf("Eval(%q, %g) error: %v", src, x, err)
	}
	return v
}

func TestEval_Real(t *testing.T) {
	tests := []struct {
		in   string
		x    float64
		want float64
	}{
		{in: "1 + 2 * 3", want: 7},
		{in: "(1 + 2) * 3", want: 9},
		{in: "2 ^ 3 ^ 2", want: 512},
		{in: "2 ** 3", want: 8},
		{in: "-x^2", x: 3, want: -9},
		{in: "x^-1", x: 4, want: 0.25},
		{in: "10 / 4", want: 2.5},
		{in: "1e3 + .5", want: 1000.5},
		{in: "sin(pi / 2)", want: 1},
		{in: "log(8, 2)", want: 3},
		{in: "log10(1000)", want: 3},
		{in: "ln(e)", want: 1},
		{in: "abs(-x)", x: 2, want: 2},
		{in: "round(2.5)", want: 2},
		{in: "floor(-1.5) + ceil(1.2)", want: 0},
		{in: "mod(-1, 3)", want: 2},
		{in: "max(1, x, 3)", x: 7, want: 7},
		{in: "[x + 1] * 2", x: 1, want: 4},
		{in: "(-8) ^ 3", want: -512},
	}
	for _, tt := range tests {
		got := evalAt(t, tt.in, tt.x)
		if got.Complex {
			t.Fatalf("%q at %g: got complex %v", tt.in, tt.x, got)
		}
		if math.Abs(got.Float()-tt.want) > 1e-12 {
			t.Fatalf("%q at %g: got %v, want %v", tt.in, tt.x, got.Float(), tt.want)
		}
	}
}

func TestEval_Complex(t *testing.T) {
	got := evalAt(t, "x ^ 0.5", -4)
	if !got.Complex {
		t.Fatalf("x^0.5 at -4: want complex, got %v", got)
	}
	if math.Abs(imag(got.Value)-2) > 1e-12 || math.Abs(real(got.Value)) > 1e-12 {
		t.Fatalf("x^0.5 at -4: got %v, want 2i", got.Value)
	}

	got = evalAt(t, "i * i", 0)
	if !got.Complex || got.Value != -1 {
		t.Fatalf("i*i: got %+v, want complex -1", got)
	}

	got = evalAt(t, "abs(3 + 4*i)", 0)
	if got.Complex || got.Float() != 5 {
		t.Fatalf("abs(3+4i): got %+v, want real 5", got)
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		in   string
		x    float64
		want error
	}{
		{in: "1 / x", x: 0, want: ErrDivisionByZero},
		{in: "0 ^ x", x: -1, want: ErrDivisionByZero},
		{in: "mod(x, 0)", x: 1, want: ErrDivisionByZero},
		{in: "log(x, 1)", x: 2, want: ErrDivisionByZero},
		{in: "sqrt(x)", x: -1, want: ErrDomain},
		{in: "ln(x)", x: 0, want: ErrDomain},
		{in: "asin(x)", x: 2, want: ErrDomain},
		{in: "exp(x)", x: 1000, want: ErrRange},
		{in: "10 ^ x", x: 400, want: ErrRange},
		{in: "floor(x ^ 0.5)", x: -1, want: ErrNotReal},
		{in: "1 / (x*i)", x: 0, want: ErrDivisionByZero},
	}
	for _, tt := range tests {
		e, err := Compile(tt.in, "x")
		if err != nil {
			t.Fatalf("Compile(%q) error: %v", tt.in, err)
		}
		_, err = e.Eval(tt.x)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%q at %g: err=%v, want %v", tt.in, tt.x, err, tt.want)
		}
	}
	if ErrDomain.Error() != "math domain error" || ErrDivisionByZero.Error() != "division by zero" {
		t.Fatalf("error messages changed: %q %q", ErrDomain, ErrDivisionByZero)
	}
}

func TestCompile_Rejects(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{in: "", want: ErrParse},
		{in: "1 +", want: ErrParse},
		{in: "(x", want: ErrParse},
		{in: "x $ 2", want: ErrParse},
		{in: "x x", want: ErrParse},
		{in: "y + 1", want: ErrUnknownVar},
		{in: "sin + 1", want: ErrUnknownVar},
		{in: "foo(x)", want: ErrUnknownFunc},
		{in: "sin(x, x)", want: ErrArity},
		{in: "log()", want: ErrArity},
		{in: "min()", want: ErrArity},
	}
	for _, tt := range tests {
		_, err := Compile(tt.in, "x")
		if !errors.Is(err, tt.want) {
			t.Fatalf("Compile(%q) err=%v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestEval_ParamsShadowConstants(t *testing.T) {
	e, err := Compile("e * 2", "e")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	v, err := e.Eval(3)
	if err != nil || v.Float() != 6 {
		t.Fatalf("got %v, %v; want 6", v, err)
	}
	if _, err := e.Eval(); !errors.Is(err, ErrArity) {
		t.Fatalf("Eval() err=%v, want ErrArity", err)
	}
	if e.String() != "e * 2" {
		t.Fatalf("String()=%q", e.String())
	}
}
