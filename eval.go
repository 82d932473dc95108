package calc

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// Context is a variable environment for evaluating expressions. A session
// should own its own Context. It is not safe to use a Context concurrently.
type Context struct {
	names map[rune]float64
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name rune
		val  float64
	}
	varsopt map[rune]float64
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name rune, val float64) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[rune]float64) ContextOption {
	return varsopt(vars)
}

// NewContext creates a new evaluation context with no variables other than
// those given in opts.
func NewContext(opts ...ContextOption) *Context {
	var ctx Context
	return ctx.Clone(opts...)
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name rune, value float64) *Context {
	if ctx.names == nil {
		ctx.names = make(map[rune]float64)
	}
	ctx.names[name] = value
	return ctx
}

// Lookup returns the value of a variable and whether it is defined.
func (ctx *Context) Lookup(name rune) (float64, bool) {
	v, ok := ctx.names[name]
	return v, ok
}

// Names returns the names of the defined variables in sorted order.
func (ctx *Context) Names() []rune {
	r := make([]rune, 0, len(ctx.names))
	for k := range ctx.names {
		r = append(r, k)
	}
	sortrunes(r)
	return r
}

// Clone creates a copy of a context and applies options to it. Setting
// variables in either context does not affect the other.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		names: make(map[rune]float64, len(ctx.names)),
	}
	for name, val := range ctx.names {
		n.names[name] = val
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		default:
			panic("calc: unknown option type")
		}
	}
	return &n
}

// Result is the outcome of executing a statement.
type Result struct {
	// Value is the value of the expression, or the value assigned.
	Value float64
	// Name is the variable assigned, if Assigned is true.
	Name rune
	// Assigned indicates that the statement was an assignment.
	Assigned bool
}

// Exec executes a statement. If e is an assignment, its value is evaluated
// and stored in ctx. Otherwise, e is evaluated as with Eval. If an error
// occurs, ctx is not modified.
func (ctx *Context) Exec(e *Expr) (Result, error) {
	if name, n, ok := e.n.assignment(); ok {
		v, err := n.eval(ctx)
		if err != nil {
			return Result{}, err
		}
		ctx.Set(name, v)
		return Result{Value: v, Name: name, Assigned: true}, nil
	}
	v, err := e.n.eval(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v}, nil
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a missing variable definition, then the result is NaN. Assignments are
// statements rather than values; evaluating one returns ErrAssignment, and
// Context.Exec should be used instead.
func (e *Expr) Eval(ctx *Context) (float64, error) {
	if _, _, ok := e.n.assignment(); ok {
		return math.NaN(), ErrAssignment
	}
	v, err := e.n.eval(ctx)
	if err != nil {
		return math.NaN(), err
	}
	return v, nil
}

// eval computes the node's value. Left operands are evaluated before right.
func (n *node) eval(ctx *Context) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeVar:
		v, ok := ctx.names[n.name]
		if !ok {
			return 0, &NameError{Name: n.name}
		}
		return v, nil
	case nodeUnary:
		v, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		switch n.op {
		case OpNeg:
			return -v, nil
		case OpPos:
			return v, nil
		}
	case nodeBinary:
		l, err := n.left.eval(ctx)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(ctx)
		if err != nil {
			return 0, err
		}
		switch n.op {
		case OpAdd:
			return l + r, nil
		case OpSub:
			return l - r, nil
		case OpMul:
			return l * r, nil
		case OpDiv:
			// Division by zero gives ±Inf or NaN.
			return l / r, nil
		case OpPow:
			return math.Pow(l, r), nil
		case OpRoot:
			// l is the degree, r is the radicand.
			return math.Pow(r, 1/l), nil
		}
	}
	panic("calc: invalid AST node " + n.kind.String() + " " + n.op.String())
}

// Eval is a shortcut to parse an expression and return its result in a new
// context created with opts.
func Eval(src io.RuneScanner, opts ...ContextOption) (float64, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return math.NaN(), err
	}
	return a.Eval(ctx)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (float64, error) {
	return Eval(strings.NewReader(src), opts...)
}

// ErrAssignment is returned when an assignment statement is evaluated as an
// expression.
var ErrAssignment = errors.New("calc: assignment is a statement, not a value")

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name rune
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.QuoteRune(err.Name)
}
