package mint

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/oarkflow/convert"
)

// ToValue converts a Go value into a Mint value. Numeric kinds become Number;
// anything without a Mint counterpart yields ErrUnsupportedHostValue.
func ToValue(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Nil, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case Callable:
		return FunctionValue(x), nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if n, ok := convert.ToFloat64(v); ok {
			return Number(n), nil
		}
	}
	return Nil, fmt.Errorf("%w: %T", ErrUnsupportedHostValue, v)
}

// NativeFunc wraps a Go function so Mint code can call it. The function
// receives exactly arity arguments.
func NativeFunc(name string, arity int, fn func(args []Value) (Value, error)) Callable {
	return &nativeFunc{
		name:  name,
		arity: arity,
		fn: func(_ *Interpreter, args []Value) (Value, error) {
			return fn(args)
		},
	}
}

// Exec runs source with data bound as globals and returns everything the
// program printed. A unit that fails returns a *UnitError alongside the
// output produced before the failure.
func Exec(source string, data map[string]any) (string, error) {
	var out bytes.Buffer
	r := NewRunner(WithOutput(&out), WithDiagnostics(io.Discard))
	for name, v := range data {
		if err := r.Define(name, v); err != nil {
			return "", fmt.Errorf("binding %q: %w", name, err)
		}
	}
	if status := r.Run(source); status != StatusOK {
		return out.String(), &UnitError{Status: status, Diagnostics: r.Diagnostics()}
	}
	return out.String(), nil
}
