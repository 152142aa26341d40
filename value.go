package mint

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/oarkflow/json"
)

type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
)

var kindNames = [...]string{
	KindNil:      "nil",
	KindBool:     "boolean",
	KindNumber:   "number",
	KindString:   "string",
	KindFunction: "function",
}

func (k Kind) String() string { return kindNames[k] }

// Value is a Mint runtime value. The zero Value is nil.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	fn   Callable
}

var Nil = Value{}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func FunctionValue(fn Callable) Value {
	if fn == nil {
		return Nil
	}
	return Value{kind: KindFunction, fn: fn}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) AsBool() bool { return v.b }

func (v Value) AsNumber() float64 { return v.n }

func (v Value) AsString() string { return v.s }

func (v Value) AsFunction() Callable { return v.fn }

// Truthy reports the truthiness of v: nil and false are falsy, everything else
// is truthy, including 0 and "".
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.b
	default:
		return true
	}
}

// Equal compares values of the same kind structurally. Values of different
// kinds are never equal. Functions compare by identity.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindFunction:
		return v.fn == o.fn
	}
	return false
}

// String renders v the way print does.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.n)
	case KindString:
		return v.s
	case KindFunction:
		return v.fn.String()
	}
	return "nil"
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if math.IsInf(v.n, 0) || math.IsNaN(v.n) {
			return json.Marshal(formatNumber(v.n))
		}
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindFunction:
		return json.Marshal(v.fn.String())
	}
	return []byte("null"), nil
}

// formatNumber writes integral values with one decimal place and strips the
// trailing ".0"; other values use the shortest round-trip form.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	if n == math.Trunc(n) {
		return strings.TrimSuffix(strconv.FormatFloat(n, 'f', 1, 64), ".0")
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Callable is implemented by every function value.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user-defined function: its declaration, the unit that owns the
// declaration and the frame active when it was declared.
type Function struct {
	unit    *Unit
	decl    StmtID
	closure *Environment
}

func (f *Function) Name() string {
	return f.unit.Tree.Stmt(f.decl).Name.Lexeme
}

func (f *Function) Arity() int {
	return len(f.unit.Tree.Stmt(f.decl).Params)
}

func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	decl := f.unit.Tree.Stmt(f.decl)
	env := NewEnvironment(f.closure)
	for i, param := range decl.Params {
		env.Define(param.Lexeme, args[i])
	}
	return in.callBody(f.unit, decl.Body, env)
}

func (f *Function) String() string {
	return "<fn " + f.Name() + ">"
}

// nativeFunc adapts a Go function into a Mint callable.
type nativeFunc struct {
	name  string
	arity int
	fn    func(in *Interpreter, args []Value) (Value, error)
}

func (n *nativeFunc) Arity() int { return n.arity }

func (n *nativeFunc) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, args)
}

func (n *nativeFunc) String() string { return "<native fn>" }

func clockFunc(start time.Time) *nativeFunc {
	return &nativeFunc{
		name: "clock",
		fn: func(*Interpreter, []Value) (Value, error) {
			return Number(time.Since(start).Seconds()), nil
		},
	}
}
