// Package expr compiles and evaluates the small arithmetic language used to
// describe plotted functions and sequences in scene files.
//
// Values are real until an operation leaves the real line (a negative base
// to a fractional power, or the constant i), after which they stay complex.
package expr

import (
	"errors"
	"fmt"
)

var (
	ErrParse = errors.New("parse error")
	// ErrUnknownVar is returned for an identifier that is neither a parameter
	// nor a constant.
	ErrUnknownVar  = errors.New("unknown variable")
	ErrUnknownFunc = errors.New("unknown function")
	ErrArity       = errors.New("wrong number of arguments")

	ErrDivisionByZero = errors.New("division by zero")
	ErrDomain         = errors.New("math domain error")
	ErrRange          = errors.New("math range error")
	ErrNotReal        = errors.New("must be real number, not complex")
)

// Expr is a compiled expression over a fixed parameter list.
type Expr struct {
	src    string
	params []string
	root   node
}

// Compile parses src and checks that every identifier is a parameter or a
// constant and every call names a known function with a valid argument count.
func Compile(src string, params ...string) (*Expr, error) {
	root, err := parse(src)
	if err != nil {
		return nil, err
	}
	x := &Expr{src: src, params: append([]string(nil), params...), root: root}
	if err := x.check(root); err != nil {
		return nil, err
	}
	return x, nil
}

func (x *Expr) String() string { return x.src }

func (x *Expr) Params() []string { return append([]string(nil), x.params...) }

// Eval binds args to the parameters in order and evaluates the expression.
func (x *Expr) Eval(args ...float64) (Number, error) {
	if len(args) != len(x.params) {
		return Number{}, fmt.Errorf("%w: got %d values for %d parameters", ErrArity, len(args), len(x.params))
	}
	return x.root.eval(&env{params: x.params, args: args})
}

func (x *Expr) check(n node) error {
	switch n := n.(type) {
	case nodeNumber:
		return nil
	case nodeIdent:
		for _, p := range x.params {
			if p == n.name {
				return nil
			}
		}
		if _, ok := constants[n.name]; ok {
			return nil
		}
		if _, ok := builtins[n.name]; ok {
			return fmt.Errorf("%w: %s is a function", ErrUnknownVar, n.name)
		}
		return fmt.Errorf("%w %q", ErrUnknownVar, n.name)
	case nodeUnary:
		return x.check(n.x)
	case nodeBinary:
		if err := x.check(n.left); err != nil {
			return err
		}
		return x.check(n.right)
	case nodeCall:
		fn, ok := builtins[n.name]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownFunc, n.name)
		}
		if len(n.args) < fn.minArgs || (fn.maxArgs >= 0 && len(n.args) > fn.maxArgs) {
			return fmt.Errorf("%w: %s takes %s, got %d", ErrArity, n.name, arityString(fn), len(n.args))
		}
		for _, a := range n.args {
			if err := x.check(a); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unexpected node %T", ErrParse, n)
	}
}

func arityString(fn builtin) string {
	switch {
	case fn.maxArgs < 0:
		return fmt.Sprintf("at least %d", fn.minArgs)
	case fn.minArgs == fn.maxArgs:
		return fmt.Sprintf("%d", fn.minArgs)
	default:
		return fmt.Sprintf("%d to %d", fn.minArgs, fn.maxArgs)
	}
}
