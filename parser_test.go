package mint

import (
	"fmt"
	"strings"
	"testing"
)

func parse(t *testing.T, source string) (*Tree, []*Error) {
	t.Helper()
	l := NewLexer(source)
	tokens := l.ScanTokens()
	if len(l.Errors()) > 0 {
		t.Fatalf("unexpected lex errors: %v", l.Errors())
	}
	p := NewParser(tokens)
	return p.Parse(), p.Errors()
}

// sexpr renders an expression in prefix form for compact assertions.
func sexpr(tree *Tree, id ExprID) string {
	e := tree.Expr(id)
	switch e.Kind {
	case LiteralExpr:
		return e.Value.String()
	case GroupingExpr:
		return "(group " + sexpr(tree, e.Left) + ")"
	case UnaryExpr:
		return "(" + e.Token.Lexeme + " " + sexpr(tree, e.Left) + ")"
	case BinaryExpr, LogicalExpr:
		return "(" + e.Token.Lexeme + " " + sexpr(tree, e.Left) + " " + sexpr(tree, e.Right) + ")"
	case VariableExpr:
		return e.Token.Lexeme
	case AssignExpr:
		return "(= " + e.Token.Lexeme + " " + sexpr(tree, e.Right) + ")"
	case CallExpr:
		parts := []string{"call", sexpr(tree, e.Left)}
		for _, a := range e.Args {
			parts = append(parts, sexpr(tree, a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "?"
}

func TestParserPrecedence(t *testing.T) {
	cases := map[string]string{
		"1 + 2 * 3;":            "(* (+ 1 2) 3)",
		"1 + 2 == 3;":           "(== (+ 1 2) 3)",
		"a < b == c >= d;":      "(== (< a b) (>= c d))",
		"!-x;":                  "(! (- x))",
		"~a & b;":               "(& (~ a) b)",
		"a or b and c;":         "(or a (and b c))",
		"a || b && c;":          "(|| a (&& b c))",
		"a = b = 1;":            "(= a (= b 1))",
		"f(1, g(2))(3);":        "(call (call f 1 (call g 2)) 3)",
		"(1 + 2) * 3;":          "(* (group (+ 1 2)) 3)",
		"1 << 2 >> 3 % 4 ^ 5;":  "(^ (% (>> (<< 1 2) 3) 4) 5)",
		"x = a == b or c;":      "(= x (or (== a b) c))",
		"\"s\" + nil + true;":   "(+ (+ s nil) true)",
		"1 - 2 - 3;":            "(- (- 1 2) 3)",
		"a != b != c;":          "(!= (!= a b) c)",
		"f();":                  "(call f)",
		"4 / 2 | 1;":            "(| (/ 4 2) 1)",
		"false and nil or 1.5;": "(or (and false nil) 1.5)",
	}
	for source, want := range cases {
		tree, errs := parse(t, source)
		if len(errs) > 0 {
			t.Fatalf("%q: unexpected errors %v", source, errs)
		}
		stmt := tree.Stmt(tree.Roots[0])
		if stmt.Kind != ExpressionStmt {
			t.Fatalf("%q: got %s statement", source, stmt.Kind)
		}
		if got := sexpr(tree, stmt.Expr); got != want {
			t.Fatalf("%q: got %s, want %s", source, got, want)
		}
	}
}

func TestParserForDesugaring(t *testing.T) {
	tree, errs := parse(t, "for (let i = 0; i < 3; i = i + 1) print i;")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	outer := tree.Stmt(tree.Roots[0])
	if outer.Kind != BlockStmt || len(outer.Body) != 2 {
		t.Fatalf("expected block with init and loop, got %+v", outer)
	}
	if init := tree.Stmt(outer.Body[0]); init.Kind != LetStmt || init.Name.Lexeme != "i" {
		t.Fatalf("bad init %+v", init)
	}
	loop := tree.Stmt(outer.Body[1])
	if loop.Kind != WhileStmt || sexpr(tree, loop.Expr) != "(< i 3)" {
		t.Fatalf("bad loop %+v", loop)
	}
	body := tree.Stmt(loop.Then)
	if body.Kind != BlockStmt || len(body.Body) != 2 {
		t.Fatalf("bad loop body %+v", body)
	}
	if tree.Stmt(body.Body[0]).Kind != PrintStmt {
		t.Fatalf("loop body should start with the original statement")
	}
	if incr := tree.Stmt(body.Body[1]); sexpr(tree, incr.Expr) != "(= i (+ i 1))" {
		t.Fatalf("bad increment %s", sexpr(tree, incr.Expr))
	}
}

func TestParserForWithoutClauses(t *testing.T) {
	tree, errs := parse(t, "for (;;) print 1;")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	loop := tree.Stmt(tree.Roots[0])
	if loop.Kind != WhileStmt {
		t.Fatalf("expected bare while, got %s", loop.Kind)
	}
	if sexpr(tree, loop.Expr) != "true" {
		t.Fatalf("missing condition should default to true, got %s", sexpr(tree, loop.Expr))
	}
	if tree.Stmt(loop.Then).Kind != PrintStmt {
		t.Fatalf("body should not be wrapped without an increment")
	}
}

func TestParserDanglingElse(t *testing.T) {
	tree, errs := parse(t, "if (a) if (b) print 1; else print 2;")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	outer := tree.Stmt(tree.Roots[0])
	if outer.Else != NoStmt {
		t.Fatalf("else bound to the outer if")
	}
	inner := tree.Stmt(outer.Then)
	if inner.Kind != IfStmt || inner.Else == NoStmt {
		t.Fatalf("else should bind to the inner if")
	}
}

func TestParserFunctionDeclaration(t *testing.T) {
	tree, errs := parse(t, "function add(a, b) { return a + b; } fn nothing() {}")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	add := tree.Stmt(tree.Roots[0])
	if add.Kind != FunctionStmt || add.Name.Lexeme != "add" || len(add.Params) != 2 {
		t.Fatalf("bad declaration %+v", add)
	}
	ret := tree.Stmt(add.Body[0])
	if ret.Kind != ReturnStmt || sexpr(tree, ret.Expr) != "(+ a b)" {
		t.Fatalf("bad return %+v", ret)
	}
	if nothing := tree.Stmt(tree.Roots[1]); len(nothing.Params) != 0 || len(nothing.Body) != 0 {
		t.Fatalf("bad empty function %+v", nothing)
	}
}

func TestParserDistinctVariableNodes(t *testing.T) {
	tree, errs := parse(t, "print a; print a;")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	first := tree.Stmt(tree.Roots[0]).Expr
	second := tree.Stmt(tree.Roots[1]).Expr
	if first == second {
		t.Fatalf("identical references share node %d", first)
	}
}

func TestParserErrorMessages(t *testing.T) {
	cases := map[string]string{
		"print 1":              "[Line 1] Error at end: Expect ';' after value.",
		"1 +;":                 "[Line 1] Error at ';': Expect expression.",
		"let = 1;":             "[Line 1] Error at '=': Expect variable name.",
		"let a = 1":            "[Line 1] Error at end: Expect ';' after variable declaration.",
		"(1;":                  "[Line 1] Error at ';': Expect ')' after expression.",
		"{ print 1;":           "[Line 1] Error at end: Expect '}' after block.",
		"if 1) print 1;":       "[Line 1] Error at '1': Expect '(' after 'if'.",
		"while (1 print 1;":    "[Line 1] Error at 'print': Expect ')' after condition.",
		"for (;;":              "[Line 1] Error at end: Expect expression.",
		"fn (a) {}":            "[Line 1] Error at '(': Expect function name.",
		"fn f(1) {}":           "[Line 1] Error at '1': Expect parameter name.",
		"fn f() print 1;":      "[Line 1] Error at 'print': Expect '{' before function body.",
		"f(1;":                 "[Line 1] Error at ';': Expect ')' after arguments.",
		"1 = 2;":               "[Line 1] Error at '=': Invalid assignment target.",
		"return 1 2;":          "[Line 1] Error at '2': Expect ';' after return value.",
		"class A {}":           "[Line 1] Error at 'class': Expect expression.",
		"this;":                "[Line 1] Error at 'this': Expect expression.",
		"a.b;":                 "[Line 1] Error at '.': Expect ';' after expression.",
		"\n\nprint;":           "[Line 3] Error at ';': Expect expression.",
		"for (let i = 0 i) 1;": "[Line 1] Error at 'i': Expect ';' after variable declaration.",
	}
	for source, want := range cases {
		_, errs := parse(t, source)
		if len(errs) == 0 {
			t.Fatalf("%q: expected an error", source)
		}
		if got := errs[0].Error(); got != want {
			t.Fatalf("%q: got %q, want %q", source, got, want)
		}
		if errs[0].Code != ErrCodeParse {
			t.Fatalf("%q: code %s", source, errs[0].Code)
		}
	}
}

func TestParserRecoversAndReportsSeveralErrors(t *testing.T) {
	tree, errs := parse(t, "print 1 \nlet x = ;\nprint 3;\nlet = 4;\nprint 5;")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Line != 2 || errs[1].Line != 4 {
		t.Fatalf("errors on wrong lines: %v", errs)
	}
	// statements after each error still parse
	if len(tree.Roots) != 2 {
		t.Fatalf("expected 2 surviving statements, got %d", len(tree.Roots))
	}
	for _, id := range tree.Roots {
		if tree.Stmt(id).Kind != PrintStmt {
			t.Fatalf("unexpected survivor %s", tree.Stmt(id).Kind)
		}
	}
}

func TestParserRecoversInsideBlock(t *testing.T) {
	tree, errs := parse(t, "{ let = 1; print 2; }")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	block := tree.Stmt(tree.Roots[0])
	if block.Kind != BlockStmt || len(block.Body) != 1 {
		t.Fatalf("block should keep the statement after the error: %+v", block)
	}
}

func TestParserInvalidAssignmentKeepsLeftSide(t *testing.T) {
	tree, errs := parse(t, "a + b = c;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if got := sexpr(tree, tree.Stmt(tree.Roots[0]).Expr); got != "(+ a b)" {
		t.Fatalf("got %s", got)
	}
}

func TestParserArgumentLimit(t *testing.T) {
	args := make([]string, 256)
	params := make([]string, 256)
	for i := range args {
		args[i] = "1"
		params[i] = fmt.Sprintf("p%d", i)
	}
	tree, errs := parse(t, "f("+strings.Join(args, ", ")+");")
	if len(errs) != 1 || errs[0].Message != "Can't have more than 255 arguments." {
		t.Fatalf("got %v", errs)
	}
	if len(tree.Roots) != 1 {
		t.Fatalf("call should still be parsed")
	}
	_, errs = parse(t, "fn f("+strings.Join(params, ", ")+") {}")
	if len(errs) != 1 || errs[0].Message != "Can't have more than 255 parameters." {
		t.Fatalf("got %v", errs)
	}
	if _, errs := parse(t, "f("+strings.Join(args[:255], ", ")+");"); len(errs) != 0 {
		t.Fatalf("255 arguments should be accepted: %v", errs)
	}
}

func TestParserWithoutEOF(t *testing.T) {
	p := NewParser([]Token{{Type: PRINT, Lexeme: "print", Line: 1}})
	p.Parse()
	if len(p.Errors()) != 1 || p.Errors()[0].Where != " at end" {
		t.Fatalf("got %v", p.Errors())
	}
	if tree := NewParser(nil).Parse(); len(tree.Roots) != 0 {
		t.Fatalf("empty token slice produced statements")
	}
}

func TestParserAssignmentReusesTargetNode(t *testing.T) {
	tree, errs := parse(t, "a = b = 1;")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for i := 0; i < tree.NumExprs(); i++ {
		if e := tree.Expr(ExprID(i)); e.Kind == VariableExpr {
			t.Fatalf("node %d is a leftover Variable %q", i, e.Token.Lexeme)
		}
	}
	root := tree.Stmt(tree.Roots[0]).Expr
	if got := sexpr(tree, root); got != "(= a (= b 1))" {
		t.Fatalf("got %s", got)
	}
	if tree.NumExprs() != 3 {
		t.Fatalf("expected 3 nodes, got %d", tree.NumExprs())
	}
}
