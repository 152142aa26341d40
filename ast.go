package mint

// ExprID and StmtID address nodes inside a Tree. The resolver keys its table by
// ExprID, so two structurally identical references stay distinct.
type (
	ExprID int32
	StmtID int32
)

const (
	NoExpr ExprID = -1
	NoStmt StmtID = -1
)

type ExprKind uint8

const (
	LiteralExpr ExprKind = iota
	GroupingExpr
	UnaryExpr
	BinaryExpr
	LogicalExpr
	VariableExpr
	AssignExpr
	CallExpr
)

var exprKindNames = [...]string{
	LiteralExpr:  "Literal",
	GroupingExpr: "Grouping",
	UnaryExpr:    "Unary",
	BinaryExpr:   "Binary",
	LogicalExpr:  "Logical",
	VariableExpr: "Variable",
	AssignExpr:   "Assign",
	CallExpr:     "Call",
}

func (k ExprKind) String() string { return exprKindNames[k] }

// Expr is one expression node. Field use depends on Kind:
//
//	Literal   Value
//	Grouping  Left (inner)
//	Unary     Token (operator), Left (operand)
//	Binary    Token (operator), Left, Right
//	Logical   Token (operator), Left, Right
//	Variable  Token (name)
//	Assign    Token (name), Right (value)
//	Call      Token (closing paren), Left (callee), Args
type Expr struct {
	Kind  ExprKind
	Token Token
	Value Value
	Left  ExprID
	Right ExprID
	Args  []ExprID
}

type StmtKind uint8

const (
	ExpressionStmt StmtKind = iota
	PrintStmt
	LetStmt
	BlockStmt
	IfStmt
	WhileStmt
	FunctionStmt
	ReturnStmt
)

var stmtKindNames = [...]string{
	ExpressionStmt: "Expression",
	PrintStmt:      "Print",
	LetStmt:        "Let",
	BlockStmt:      "Block",
	IfStmt:         "If",
	WhileStmt:      "While",
	FunctionStmt:   "Function",
	ReturnStmt:     "Return",
}

func (k StmtKind) String() string { return stmtKindNames[k] }

// Stmt is one statement node. Field use depends on Kind:
//
//	Expression  Expr
//	Print       Expr
//	Let         Name, Expr (initializer or NoExpr)
//	Block       Body
//	If          Expr (condition), Then, Else (or NoStmt)
//	While       Expr (condition), Then (body)
//	Function    Name, Params, Body
//	Return      Name (keyword), Expr (value or NoExpr)
type Stmt struct {
	Kind   StmtKind
	Name   Token
	Expr   ExprID
	Then   StmtID
	Else   StmtID
	Params []Token
	Body   []StmtID
}

// Tree owns every node of one compilation unit. Nodes are appended by the
// parser and never mutated afterwards.
type Tree struct {
	exprs []Expr
	stmts []Stmt
	Roots []StmtID
}

func NewTree() *Tree {
	return &Tree{}
}

func (t *Tree) Expr(id ExprID) *Expr { return &t.exprs[id] }

func (t *Tree) Stmt(id StmtID) *Stmt { return &t.stmts[id] }

func (t *Tree) NumExprs() int { return len(t.exprs) }

func (t *Tree) NumStmts() int { return len(t.stmts) }

func (t *Tree) addExpr(e Expr) ExprID {
	t.exprs = append(t.exprs, e)
	return ExprID(len(t.exprs) - 1)
}

func (t *Tree) addStmt(s Stmt) StmtID {
	t.stmts = append(t.stmts, s)
	return StmtID(len(t.stmts) - 1)
}

func (t *Tree) literal(v Value) ExprID {
	return t.addExpr(Expr{Kind: LiteralExpr, Value: v, Left: NoExpr, Right: NoExpr})
}

func (t *Tree) grouping(inner ExprID) ExprID {
	return t.addExpr(Expr{Kind: GroupingExpr, Left: inner, Right: NoExpr})
}

func (t *Tree) unary(op Token, operand ExprID) ExprID {
	return t.addExpr(Expr{Kind: UnaryExpr, Token: op, Left: operand, Right: NoExpr})
}

func (t *Tree) binary(kind ExprKind, op Token, left, right ExprID) ExprID {
	return t.addExpr(Expr{Kind: kind, Token: op, Left: left, Right: right})
}

func (t *Tree) variable(name Token) ExprID {
	return t.addExpr(Expr{Kind: VariableExpr, Token: name, Left: NoExpr, Right: NoExpr})
}

func (t *Tree) call(callee ExprID, paren Token, args []ExprID) ExprID {
	return t.addExpr(Expr{Kind: CallExpr, Token: paren, Left: callee, Right: NoExpr, Args: args})
}

func (t *Tree) exprStmt(kind StmtKind, e ExprID) StmtID {
	return t.addStmt(Stmt{Kind: kind, Expr: e, Then: NoStmt, Else: NoStmt})
}

func (t *Tree) letStmt(name Token, init ExprID) StmtID {
	return t.addStmt(Stmt{Kind: LetStmt, Name: name, Expr: init, Then: NoStmt, Else: NoStmt})
}

func (t *Tree) block(body []StmtID) StmtID {
	return t.addStmt(Stmt{Kind: BlockStmt, Expr: NoExpr, Then: NoStmt, Else: NoStmt, Body: body})
}

func (t *Tree) ifStmt(cond ExprID, then, els StmtID) StmtID {
	return t.addStmt(Stmt{Kind: IfStmt, Expr: cond, Then: then, Else: els})
}

func (t *Tree) while(cond ExprID, body StmtID) StmtID {
	return t.addStmt(Stmt{Kind: WhileStmt, Expr: cond, Then: body, Else: NoStmt})
}

func (t *Tree) function(name Token, params []Token, body []StmtID) StmtID {
	return t.addStmt(Stmt{Kind: FunctionStmt, Name: name, Expr: NoExpr, Then: NoStmt, Else: NoStmt, Params: params, Body: body})
}

func (t *Tree) returnStmt(keyword Token, value ExprID) StmtID {
	return t.addStmt(Stmt{Kind: ReturnStmt, Name: keyword, Expr: value, Then: NoStmt, Else: NoStmt})
}
