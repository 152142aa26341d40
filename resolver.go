package mint

// Locals maps a Variable or Assign node to the number of frames between its
// use and its declaration. Nodes without an entry are globals.
type Locals map[ExprID]int

type functionKind uint8

const (
	noFunction functionKind = iota
	inFunction
)

// Resolver computes binding distances for one tree. It never evaluates code.
type Resolver struct {
	tree   *Tree
	scopes []map[string]bool
	locals Locals
	fn     functionKind
	// name of the global let whose initializer is being resolved
	initializing string
	errors       []*Error
}

func NewResolver() *Resolver {
	return &Resolver{}
}

func (r *Resolver) Resolve(tree *Tree) (Locals, []*Error) {
	r.tree = tree
	r.scopes = r.scopes[:0]
	r.locals = make(Locals)
	r.fn = noFunction
	r.initializing = ""
	r.errors = nil
	r.resolveStmts(tree.Roots)
	return r.locals, r.errors
}

func (r *Resolver) resolveStmts(ids []StmtID) {
	for _, id := range ids {
		r.resolveStmt(id)
	}
}

func (r *Resolver) resolveStmt(id StmtID) {
	s := r.tree.Stmt(id)
	switch s.Kind {
	case BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Body)
		r.endScope()
	case LetStmt:
		r.declare(s.Name)
		if s.Expr != NoExpr {
			if len(r.scopes) == 0 {
				r.initializing = s.Name.Lexeme
			}
			r.resolveExpr(s.Expr)
			r.initializing = ""
		}
		r.define(s.Name)
	case FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s)
	case ExpressionStmt, PrintStmt:
		r.resolveExpr(s.Expr)
	case IfStmt:
		r.resolveExpr(s.Expr)
		r.resolveStmt(s.Then)
		if s.Else != NoStmt {
			r.resolveStmt(s.Else)
		}
	case WhileStmt:
		r.resolveExpr(s.Expr)
		r.resolveStmt(s.Then)
	case ReturnStmt:
		if r.fn == noFunction {
			r.report(s.Name, "Can't return from top-level code.")
		}
		if s.Expr != NoExpr {
			r.resolveExpr(s.Expr)
		}
	}
}

func (r *Resolver) resolveFunction(s *Stmt) {
	enclosing := r.fn
	r.fn = inFunction
	r.beginScope()
	for _, param := range s.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(s.Body)
	r.endScope()
	r.fn = enclosing
}

func (r *Resolver) resolveExpr(id ExprID) {
	e := r.tree.Expr(id)
	switch e.Kind {
	case LiteralExpr:
	case GroupingExpr, UnaryExpr:
		r.resolveExpr(e.Left)
	case BinaryExpr, LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case VariableExpr:
		name := e.Token.Lexeme
		if n := len(r.scopes); n > 0 {
			if ready, ok := r.scopes[n-1][name]; ok && !ready {
				r.report(e.Token, "Can't read local variable in its own initializer.")
			}
		} else if name == r.initializing {
			r.report(e.Token, "Can't read local variable in its own initializer.")
		}
		r.resolveLocal(id, name)
	case AssignExpr:
		r.resolveExpr(e.Right)
		r.resolveLocal(id, e.Token.Lexeme)
	case CallExpr:
		r.resolveExpr(e.Left)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	}
}

// resolveLocal records the hop count to the innermost scope declaring name.
func (r *Resolver) resolveLocal(id ExprID, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.report(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) report(tok Token, msg string) {
	r.errors = append(r.errors, tokenError(ErrCodeResolve, tok, msg))
}
