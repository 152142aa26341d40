package mint

const maxArguments = 255

// Parser is a recursive descent parser over a scanned token slice. Parse never
// aborts: after an error it resynchronizes at the next statement boundary and
// keeps going, so one pass can report several errors.
type Parser struct {
	tokens  []Token
	current int
	tree    *Tree
	errors  []*Error
}

func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, Token{Type: EOF, Line: line})
	}
	return &Parser{tokens: tokens, tree: NewTree()}
}

func (p *Parser) Errors() []*Error {
	return p.errors
}

// Parse returns every statement that parsed successfully.
func (p *Parser) Parse() *Tree {
	for !p.isAtEnd() {
		if id, ok := p.declaration(); ok {
			p.tree.Roots = append(p.tree.Roots, id)
		}
	}
	return p.tree
}

func (p *Parser) declaration() (StmtID, bool) {
	var (
		id  StmtID
		err error
	)
	switch {
	case p.match(FUNCTION):
		id, err = p.function()
	case p.match(LET):
		id, err = p.letDeclaration()
	default:
		id, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return NoStmt, false
	}
	return id, true
}

func (p *Parser) function() (StmtID, error) {
	name, err := p.consume(IDENTIFIER, "Expect function name.")
	if err != nil {
		return NoStmt, err
	}
	if _, err := p.consume(LEFT_PAREN, "Expect '(' after function name."); err != nil {
		return NoStmt, err
	}
	var params []Token
	if !p.check(RIGHT_PAREN) {
		for {
			if len(params) >= maxArguments {
				p.report(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.consume(IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return NoStmt, err
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(RIGHT_PAREN, "Expect ')' after parameters."); err != nil {
		return NoStmt, err
	}
	if _, err := p.consume(LEFT_BRACE, "Expect '{' before function body."); err != nil {
		return NoStmt, err
	}
	body, err := p.blockBody()
	if err != nil {
		return NoStmt, err
	}
	return p.tree.function(name, params, body), nil
}

func (p *Parser) letDeclaration() (StmtID, error) {
	name, err := p.consume(IDENTIFIER, "Expect variable name.")
	if err != nil {
		return NoStmt, err
	}
	init := NoExpr
	if p.match(EQUAL) {
		if init, err = p.expression(); err != nil {
			return NoStmt, err
		}
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return NoStmt, err
	}
	return p.tree.letStmt(name, init), nil
}

func (p *Parser) statement() (StmtID, error) {
	switch {
	case p.match(FOR):
		return p.forStatement()
	case p.match(IF):
		return p.ifStatement()
	case p.match(PRINT):
		return p.printStatement()
	case p.match(RETURN):
		return p.returnStatement()
	case p.match(WHILE):
		return p.whileStatement()
	case p.match(LEFT_BRACE):
		body, err := p.blockBody()
		if err != nil {
			return NoStmt, err
		}
		return p.tree.block(body), nil
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars for(init; cond; incr) body into
// { init; while (cond) { body; incr; } }.
func (p *Parser) forStatement() (StmtID, error) {
	if _, err := p.consume(LEFT_PAREN, "Expect '(' after 'for'."); err != nil {
		return NoStmt, err
	}

	init := NoStmt
	var err error
	switch {
	case p.match(SEMICOLON):
	case p.match(LET):
		init, err = p.letDeclaration()
	default:
		init, err = p.expressionStatement()
	}
	if err != nil {
		return NoStmt, err
	}

	cond := NoExpr
	if !p.check(SEMICOLON) {
		if cond, err = p.expression(); err != nil {
			return NoStmt, err
		}
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return NoStmt, err
	}

	incr := NoExpr
	if !p.check(RIGHT_PAREN) {
		if incr, err = p.expression(); err != nil {
			return NoStmt, err
		}
	}
	if _, err := p.consume(RIGHT_PAREN, "Expect ')' after for clauses."); err != nil {
		return NoStmt, err
	}

	body, err := p.statement()
	if err != nil {
		return NoStmt, err
	}
	if incr != NoExpr {
		body = p.tree.block([]StmtID{body, p.tree.exprStmt(ExpressionStmt, incr)})
	}
	if cond == NoExpr {
		cond = p.tree.literal(Bool(true))
	}
	loop := p.tree.while(cond, body)
	if init != NoStmt {
		loop = p.tree.block([]StmtID{init, loop})
	}
	return loop, nil
}

func (p *Parser) ifStatement() (StmtID, error) {
	if _, err := p.consume(LEFT_PAREN, "Expect '(' after 'if'."); err != nil {
		return NoStmt, err
	}
	cond, err := p.expression()
	if err != nil {
		return NoStmt, err
	}
	if _, err := p.consume(RIGHT_PAREN, "Expect ')' after if condition."); err != nil {
		return NoStmt, err
	}
	then, err := p.statement()
	if err != nil {
		return NoStmt, err
	}
	els := NoStmt
	if p.match(ELSE) {
		if els, err = p.statement(); err != nil {
			return NoStmt, err
		}
	}
	return p.tree.ifStmt(cond, then, els), nil
}

func (p *Parser) printStatement() (StmtID, error) {
	value, err := p.expression()
	if err != nil {
		return NoStmt, err
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after value."); err != nil {
		return NoStmt, err
	}
	return p.tree.exprStmt(PrintStmt, value), nil
}

func (p *Parser) returnStatement() (StmtID, error) {
	keyword := p.previous()
	value := NoExpr
	if !p.check(SEMICOLON) {
		var err error
		if value, err = p.expression(); err != nil {
			return NoStmt, err
		}
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after return value."); err != nil {
		return NoStmt, err
	}
	return p.tree.returnStmt(keyword, value), nil
}

func (p *Parser) whileStatement() (StmtID, error) {
	if _, err := p.consume(LEFT_PAREN, "Expect '(' after 'while'."); err != nil {
		return NoStmt, err
	}
	cond, err := p.expression()
	if err != nil {
		return NoStmt, err
	}
	if _, err := p.consume(RIGHT_PAREN, "Expect ')' after condition."); err != nil {
		return NoStmt, err
	}
	body, err := p.statement()
	if err != nil {
		return NoStmt, err
	}
	return p.tree.while(cond, body), nil
}

// blockBody parses declarations up to the closing brace; the opening brace has
// already been consumed.
func (p *Parser) blockBody() ([]StmtID, error) {
	var body []StmtID
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		if id, ok := p.declaration(); ok {
			body = append(body, id)
		}
	}
	if _, err := p.consume(RIGHT_BRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) expressionStatement() (StmtID, error) {
	expr, err := p.expression()
	if err != nil {
		return NoStmt, err
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after expression."); err != nil {
		return NoStmt, err
	}
	return p.tree.exprStmt(ExpressionStmt, expr), nil
}

func (p *Parser) expression() (ExprID, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ExprID, error) {
	expr, err := p.or()
	if err != nil {
		return NoExpr, err
	}
	if !p.match(EQUAL) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return NoExpr, err
	}
	// the target node becomes the assignment so no orphan Variable remains
	if target := p.tree.Expr(expr); target.Kind == VariableExpr {
		target.Kind = AssignExpr
		target.Right = value
		return expr, nil
	}
	p.report(equals, "Invalid assignment target.")
	return expr, nil
}

func (p *Parser) or() (ExprID, error) {
	return p.leftFold(LogicalExpr, p.and, OR)
}

func (p *Parser) and() (ExprID, error) {
	return p.leftFold(LogicalExpr, p.equality, AND)
}

func (p *Parser) equality() (ExprID, error) {
	return p.leftFold(BinaryExpr, p.comparison, BANG_EQUAL, EQUAL_EQUAL)
}

func (p *Parser) comparison() (ExprID, error) {
	return p.leftFold(BinaryExpr, p.term, GREATER, GREATER_EQUAL, LESS, LESS_EQUAL)
}

// term is a single left-associative tier for the additive, multiplicative and
// bitwise operators.
func (p *Parser) term() (ExprID, error) {
	return p.leftFold(BinaryExpr, p.unary,
		MINUS, PLUS, SLASH, STAR, MODULO, BIT_AND, BIT_OR, XOR, LEFT_SHIFT, RIGHT_SHIFT)
}

func (p *Parser) leftFold(kind ExprKind, operand func() (ExprID, error), ops ...TokenType) (ExprID, error) {
	expr, err := operand()
	if err != nil {
		return NoExpr, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return NoExpr, err
		}
		expr = p.tree.binary(kind, op, expr, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ExprID, error) {
	if p.match(BANG, MINUS, TILDE) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return NoExpr, err
		}
		return p.tree.unary(op, right), nil
	}
	return p.call()
}

func (p *Parser) call() (ExprID, error) {
	expr, err := p.primary()
	if err != nil {
		return NoExpr, err
	}
	for p.match(LEFT_PAREN) {
		if expr, err = p.finishCall(expr); err != nil {
			return NoExpr, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ExprID) (ExprID, error) {
	var args []ExprID
	if !p.check(RIGHT_PAREN) {
		for {
			if len(args) >= maxArguments {
				p.report(p.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := p.expression()
			if err != nil {
				return NoExpr, err
			}
			args = append(args, arg)
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(RIGHT_PAREN, "Expect ')' after arguments.")
	if err != nil {
		return NoExpr, err
	}
	return p.tree.call(callee, paren, args), nil
}

func (p *Parser) primary() (ExprID, error) {
	switch {
	case p.match(FALSE):
		return p.tree.literal(Bool(false)), nil
	case p.match(TRUE):
		return p.tree.literal(Bool(true)), nil
	case p.match(NIL):
		return p.tree.literal(Nil), nil
	case p.match(NUMBER, STRING):
		return p.tree.literal(p.previous().Literal), nil
	case p.match(IDENTIFIER):
		return p.tree.variable(p.previous()), nil
	case p.match(LEFT_PAREN):
		expr, err := p.expression()
		if err != nil {
			return NoExpr, err
		}
		if _, err := p.consume(RIGHT_PAREN, "Expect ')' after expression."); err != nil {
			return NoExpr, err
		}
		return p.tree.grouping(expr), nil
	}
	return NoExpr, p.report(p.peek(), "Expect expression.")
}

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t TokenType, msg string) (Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return Token{}, p.report(p.peek(), msg)
}

func (p *Parser) check(t TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

// report records a parse error. The returned error unwinds to the nearest
// declaration, which resynchronizes.
func (p *Parser) report(tok Token, msg string) *Error {
	err := tokenError(ErrCodeParse, tok, msg)
	p.errors = append(p.errors, err)
	return err
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUNCTION, LET, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}
