package mint

import (
	"github.com/oarkflow/json"
)

type node map[string]any

// MarshalJSON writes the tree as nested objects, one per root statement.
func (t *Tree) MarshalJSON() ([]byte, error) {
	roots := make([]node, 0, len(t.Roots))
	for _, id := range t.Roots {
		roots = append(roots, t.stmtNode(id))
	}
	return json.Marshal(roots)
}

func (t *Tree) stmtNodes(ids []StmtID) []node {
	nodes := make([]node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, t.stmtNode(id))
	}
	return nodes
}

func (t *Tree) stmtNode(id StmtID) node {
	s := t.Stmt(id)
	n := node{"stmt": s.Kind.String(), "id": id}
	switch s.Kind {
	case ExpressionStmt, PrintStmt:
		n["expr"] = t.exprNode(s.Expr)
	case LetStmt:
		n["name"] = s.Name.Lexeme
		if s.Expr != NoExpr {
			n["init"] = t.exprNode(s.Expr)
		}
	case BlockStmt:
		n["body"] = t.stmtNodes(s.Body)
	case IfStmt:
		n["cond"] = t.exprNode(s.Expr)
		n["then"] = t.stmtNode(s.Then)
		if s.Else != NoStmt {
			n["else"] = t.stmtNode(s.Else)
		}
	case WhileStmt:
		n["cond"] = t.exprNode(s.Expr)
		n["body"] = t.stmtNode(s.Then)
	case FunctionStmt:
		params := make([]string, 0, len(s.Params))
		for _, p := range s.Params {
			params = append(params, p.Lexeme)
		}
		n["name"] = s.Name.Lexeme
		n["params"] = params
		n["body"] = t.stmtNodes(s.Body)
	case ReturnStmt:
		if s.Expr != NoExpr {
			n["value"] = t.exprNode(s.Expr)
		}
	}
	return n
}

func (t *Tree) exprNode(id ExprID) node {
	e := t.Expr(id)
	n := node{"expr": e.Kind.String(), "id": id}
	switch e.Kind {
	case LiteralExpr:
		n["value"] = e.Value
	case GroupingExpr:
		n["inner"] = t.exprNode(e.Left)
	case UnaryExpr:
		n["op"] = e.Token.Lexeme
		n["operand"] = t.exprNode(e.Left)
	case BinaryExpr, LogicalExpr:
		n["op"] = e.Token.Lexeme
		n["left"] = t.exprNode(e.Left)
		n["right"] = t.exprNode(e.Right)
	case VariableExpr:
		n["name"] = e.Token.Lexeme
	case AssignExpr:
		n["name"] = e.Token.Lexeme
		n["value"] = t.exprNode(e.Right)
	case CallExpr:
		args := make([]node, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, t.exprNode(a))
		}
		n["callee"] = t.exprNode(e.Left)
		n["args"] = args
	}
	if e.Kind != LiteralExpr && e.Kind != GroupingExpr {
		n["line"] = e.Token.Line
	}
	return n
}
