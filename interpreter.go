package mint

import (
	sterrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// Unit is a compiled program: its tree and the binding distances the resolver
// computed for it. Units are immutable once compiled.
type Unit struct {
	Tree   *Tree
	Locals Locals
	Source string
}

// outcome tells a statement's caller whether control left through return.
type outcome struct {
	returning bool
	value     Value
}

var normal = outcome{}

// Interpreter walks a Unit. The global frame persists across Interpret calls.
type Interpreter struct {
	globals *Environment
	env     *Environment
	unit    *Unit
	out     io.Writer
}

func NewInterpreter(stdout io.Writer) *Interpreter {
	if stdout == nil {
		stdout = os.Stdout
	}
	globals := NewEnvironment(nil)
	globals.Define("clock", FunctionValue(clockFunc(time.Now())))
	return &Interpreter{globals: globals, env: globals, out: stdout}
}

func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Interpret runs every top-level statement of unit and stops at the first
// runtime error.
func (in *Interpreter) Interpret(unit *Unit) error {
	in.unit = unit
	in.env = in.globals
	for _, id := range unit.Tree.Roots {
		if _, err := in.execute(id); err != nil {
			in.env = in.globals
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(id StmtID) (outcome, error) {
	s := in.unit.Tree.Stmt(id)
	switch s.Kind {
	case ExpressionStmt:
		_, err := in.evaluate(s.Expr)
		return normal, err
	case PrintStmt:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(in.out, v.String())
		return normal, nil
	case LetStmt:
		value := Nil
		if s.Expr != NoExpr {
			var err error
			if value, err = in.evaluate(s.Expr); err != nil {
				return normal, err
			}
		}
		in.env.Define(s.Name.Lexeme, value)
		return normal, nil
	case BlockStmt:
		return in.executeBlock(s.Body, NewEnvironment(in.env))
	case IfStmt:
		cond, err := in.evaluate(s.Expr)
		if err != nil {
			return normal, err
		}
		if cond.Truthy() {
			return in.execute(s.Then)
		}
		if s.Else != NoStmt {
			return in.execute(s.Else)
		}
		return normal, nil
	case WhileStmt:
		for {
			cond, err := in.evaluate(s.Expr)
			if err != nil {
				return normal, err
			}
			if !cond.Truthy() {
				return normal, nil
			}
			out, err := in.execute(s.Then)
			if err != nil || out.returning {
				return out, err
			}
		}
	case FunctionStmt:
		fn := &Function{unit: in.unit, decl: id, closure: in.env}
		in.env.Define(s.Name.Lexeme, FunctionValue(fn))
		return normal, nil
	case ReturnStmt:
		value := Nil
		if s.Expr != NoExpr {
			var err error
			if value, err = in.evaluate(s.Expr); err != nil {
				return normal, err
			}
		}
		return outcome{returning: true, value: value}, nil
	}
	return normal, nil
}

// executeBlock runs body in env and always restores the previous frame.
func (in *Interpreter) executeBlock(body []StmtID, env *Environment) (outcome, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()
	for _, id := range body {
		out, err := in.execute(id)
		if err != nil || out.returning {
			return out, err
		}
	}
	return normal, nil
}

// callBody runs a function body that may belong to another unit than the one
// currently executing.
func (in *Interpreter) callBody(unit *Unit, body []StmtID, env *Environment) (Value, error) {
	previous := in.unit
	in.unit = unit
	defer func() { in.unit = previous }()
	out, err := in.executeBlock(body, env)
	if err != nil {
		return Nil, err
	}
	if out.returning {
		return out.value, nil
	}
	return Nil, nil
}

func (in *Interpreter) evaluate(id ExprID) (Value, error) {
	e := in.unit.Tree.Expr(id)
	switch e.Kind {
	case LiteralExpr:
		return e.Value, nil
	case GroupingExpr:
		return in.evaluate(e.Left)
	case UnaryExpr:
		return in.unary(e)
	case BinaryExpr:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return Nil, err
		}
		right, err := in.evaluate(e.Right)
		if err != nil {
			return Nil, err
		}
		return binary(e.Token, left, right)
	case LogicalExpr:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return Nil, err
		}
		if e.Token.Type == OR {
			if left.Truthy() {
				return left, nil
			}
		} else if !left.Truthy() {
			return left, nil
		}
		return in.evaluate(e.Right)
	case VariableExpr:
		return in.lookUp(id, e.Token)
	case AssignExpr:
		value, err := in.evaluate(e.Right)
		if err != nil {
			return Nil, err
		}
		if distance, ok := in.unit.Locals[id]; ok {
			in.env.AssignAt(distance, e.Token.Lexeme, value)
			return value, nil
		}
		if err := in.globals.Assign(e.Token, value); err != nil {
			return Nil, err
		}
		return value, nil
	case CallExpr:
		return in.call(e)
	}
	return Nil, nil
}

func (in *Interpreter) lookUp(id ExprID, name Token) (Value, error) {
	if distance, ok := in.unit.Locals[id]; ok {
		return in.env.GetAt(distance, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

func (in *Interpreter) call(e *Expr) (Value, error) {
	callee, err := in.evaluate(e.Left)
	if err != nil {
		return Nil, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v, err := in.evaluate(arg)
		if err != nil {
			return Nil, err
		}
		args = append(args, v)
	}
	if callee.Kind() != KindFunction {
		return Nil, runtimeError(e.Token, "Can only call functions.")
	}
	fn := callee.AsFunction()
	if len(args) != fn.Arity() {
		return Nil, runtimeError(e.Token, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	v, err := fn.Call(in, args)
	if err != nil {
		var rerr *Error
		if !sterrors.As(err, &rerr) {
			return Nil, runtimeError(e.Token, "%s", err.Error())
		}
		return Nil, err
	}
	return v, nil
}

func (in *Interpreter) unary(e *Expr) (Value, error) {
	right, err := in.evaluate(e.Left)
	if err != nil {
		return Nil, err
	}
	switch e.Token.Type {
	case BANG:
		return Bool(!right.Truthy()), nil
	case MINUS:
		if right.Kind() != KindNumber {
			return Nil, runtimeError(e.Token, "Operand of '-' must be a number.")
		}
		return Number(-right.AsNumber()), nil
	case TILDE:
		if right.Kind() != KindNumber {
			return Nil, runtimeError(e.Token, "Operand of '~' must be a number.")
		}
		return Number(float64(^toInt64(right.AsNumber()))), nil
	}
	return Nil, nil
}

func binary(op Token, left, right Value) (Value, error) {
	switch op.Type {
	case EQUAL_EQUAL:
		return Bool(left.Equal(right)), nil
	case BANG_EQUAL:
		return Bool(!left.Equal(right)), nil
	case PLUS:
		switch {
		case left.Kind() == KindNumber && right.Kind() == KindNumber:
			return Number(left.AsNumber() + right.AsNumber()), nil
		case left.Kind() == KindString && right.Kind() == KindString:
			return String(left.AsString() + right.AsString()), nil
		}
		return Nil, runtimeError(op, "Operands of '+' must be two numbers or two strings.")
	}

	if left.Kind() != KindNumber || right.Kind() != KindNumber {
		return Nil, runtimeError(op, "Operands of '%s' must be numbers.", op.Lexeme)
	}
	a, b := left.AsNumber(), right.AsNumber()
	switch op.Type {
	case MINUS:
		return Number(a - b), nil
	case STAR:
		return Number(a * b), nil
	case SLASH:
		return Number(a / b), nil
	case MODULO:
		return Number(math.Mod(a, b)), nil
	case GREATER:
		return Bool(a > b), nil
	case GREATER_EQUAL:
		return Bool(a >= b), nil
	case LESS:
		return Bool(a < b), nil
	case LESS_EQUAL:
		return Bool(a <= b), nil
	case BIT_AND:
		return Number(float64(toInt64(a) & toInt64(b))), nil
	case BIT_OR:
		return Number(float64(toInt64(a) | toInt64(b))), nil
	case XOR:
		return Number(float64(toInt64(a) ^ toInt64(b))), nil
	case LEFT_SHIFT, RIGHT_SHIFT:
		count := toInt64(b)
		if count < 0 {
			return Nil, runtimeError(op, "Shift count of '%s' must be non-negative.", op.Lexeme)
		}
		if op.Type == LEFT_SHIFT {
			return Number(float64(toInt64(a) << uint64(count))), nil
		}
		return Number(float64(toInt64(a) >> uint64(count))), nil
	}
	return Nil, nil
}

// toInt64 truncates toward zero, saturating at the int64 range. NaN is 0.
func toInt64(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
