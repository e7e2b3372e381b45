// parser.go
//
// Recursive-descent parser: one method per precedence level, statements on
// top. Malformed input raises a *ParseError which is caught at the nearest
// declaration boundary; the parser then synchronizes to the next statement
// and keeps going, so a single pass surfaces every independent error. The
// parse fails overall if any error was recorded, even though a partial
// tree exists.
//
// Precedence, lowest to highest:
//
//	comma , assignment , ternary , or , and , equality , comparison ,
//	term , factor , unary , call , primary
package typhoon

import "fmt"

const maxCallArgs = 255

// ParseError is a syntax error bound to a token position. Incomplete marks
// errors caused by running out of input, so interactive front ends can ask
// for a continuation line instead of reporting.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IsIncomplete reports whether err means the source ended mid-construct.
// A StaticErrors list counts as incomplete when every entry does.
func IsIncomplete(err error) bool {
	switch e := err.(type) {
	case *ParseError:
		return e.Incomplete
	case StaticErrors:
		if len(e) == 0 {
			return false
		}
		for _, sub := range e {
			if !IsIncomplete(sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Parser consumes a token stream and produces statements.
type Parser struct {
	tokens []Token
	cur    int
	errs   []error
}

// NewParser creates a parser over tokens (which must end with EOF).
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the whole stream and returns the statements plus every
// syntax error found.
func (p *Parser) Parse() ([]Stmt, []error) {
	var stmts []Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts, p.errs
}

// ParseSource lexes and parses src in one step. The returned error is a
// StaticErrors list (lex errors first, then parse errors) or nil.
func ParseSource(src string) ([]Stmt, error) {
	tokens, lexErrs := NewLexer(src).Scan()
	stmts, parseErrs := NewParser(tokens).Parse()
	all := append(lexErrs, parseErrs...)
	if len(all) > 0 {
		return stmts, StaticErrors(all)
	}
	return stmts, nil
}

// ----- token plumbing -----

func (p *Parser) isAtEnd() bool  { return p.peek().Type == EOF }
func (p *Parser) peek() Token     { return p.tokens[p.cur] }
func (p *Parser) previous() Token { return p.tokens[p.cur-1] }

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.cur++
	}
	return p.previous()
}

func (p *Parser) check(tt TokenType) bool {
	return p.peek().Type == tt
}

func (p *Parser) match(tts ...TokenType) bool {
	for _, tt := range tts {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt TokenType, msg string) Token {
	if p.check(tt) {
		return p.advance()
	}
	panic(p.errAt(p.peek(), msg))
}

// errAt records and returns a ParseError for tok.
func (p *Parser) errAt(tok Token, msg string) *ParseError {
	e := &ParseError{Line: tok.Line, Col: tok.Col, Msg: msg, Incomplete: tok.Type == EOF}
	p.errs = append(p.errs, e)
	return e
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}

// ----- statements -----

// declaration parses one declaration or statement, recovering from parse
// errors by synchronizing. Returns nil when recovery discarded the input.
func (p *Parser) declaration() (s Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*ParseError); !ok {
				panic(r)
			}
			p.synchronize()
			s = nil
		}
	}()

	switch {
	case p.match(CLASS):
		return p.classDecl()
	case p.check(FUN) && p.checkNext(ID):
		p.advance()
		return p.funDecl("function")
	case p.match(VAR):
		return p.varDecl()
	default:
		return p.statement()
	}
}

// checkNext peeks one token past the current one.
func (p *Parser) checkNext(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.tokens[p.cur+1].Type == tt
}

func (p *Parser) classDecl() Stmt {
	name := p.consume(ID, "expected class name")

	var superclass *VariableExpr
	if p.match(LESS) {
		super := p.consume(ID, "expected superclass name")
		superclass = &VariableExpr{Name: super}
	}

	p.consume(LCURLY, "expected '{' before class body")

	var methods, statics []*FunStmt
	for !p.check(RCURLY) && !p.isAtEnd() {
		if p.match(CLASS) {
			statics = append(statics, p.funDecl("static method"))
		} else {
			methods = append(methods, p.funDecl("method"))
		}
	}
	p.consume(RCURLY, "expected '}' after class body")

	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods, Statics: statics}
}

func (p *Parser) funDecl(kind string) *FunStmt {
	name := p.consume(ID, "expected "+kind+" name")
	params := p.funParams(kind)
	p.consume(LCURLY, "expected '{' before "+kind+" body")
	body := p.block()
	return &FunStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) funParams(kind string) []Token {
	openMsg := "expected '(' after " + kind + " name"
	if kind == "lambda" {
		openMsg = "expected '(' after 'fun'"
	}
	p.consume(LROUND, openMsg)
	var params []Token
	if !p.check(RROUND) {
		for {
			if len(params) >= maxCallArgs {
				p.errAt(p.peek(), fmt.Sprintf("cannot have more than %d parameters", maxCallArgs))
			}
			params = append(params, p.consume(ID, "expected parameter name"))
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(RROUND, "expected ')' after parameters")
	return params
}

func (p *Parser) varDecl() Stmt {
	name := p.consume(ID, "expected variable name")
	var init Expr
	if p.match(ASSIGN) {
		init = p.assignment()
	}
	p.consume(SEMICOLON, "expected ';' after variable declaration")
	return &VarStmt{Name: name, Init: init}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.match(PRINT):
		return p.printStmt()
	case p.match(LCURLY):
		return &BlockStmt{Stmts: p.block()}
	case p.match(IF):
		return p.ifStmt()
	case p.match(WHILE):
		return p.whileStmt()
	case p.match(FOR):
		return p.forStmt()
	case p.match(RETURN):
		return p.returnStmt()
	case p.match(BREAK):
		kw := p.previous()
		p.consume(SEMICOLON, "expected ';' after 'break'")
		return &BreakStmt{Keyword: kw}
	case p.match(CONTINUE):
		kw := p.previous()
		p.consume(SEMICOLON, "expected ';' after 'continue'")
		return &ContinueStmt{Keyword: kw}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) printStmt() Stmt {
	expr := p.expression()
	p.consume(SEMICOLON, "expected ';' after value")
	return &PrintStmt{Expr: expr}
}

func (p *Parser) block() []Stmt {
	var stmts []Stmt
	for !p.check(RCURLY) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(RCURLY, "expected '}' after block")
	return stmts
}

func (p *Parser) ifStmt() Stmt {
	p.consume(LROUND, "expected '(' after 'if'")
	cond := p.expression()
	p.consume(RROUND, "expected ')' after condition")

	then := p.statement()
	var els Stmt
	if p.match(ELSE) {
		els = p.statement()
	}
	return &IfStmt{Cond: cond, Then: then, Else: els}
}

func (p *Parser) whileStmt() Stmt {
	p.consume(LROUND, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(RROUND, "expected ')' after condition")
	body := p.statement()
	return &WhileStmt{Cond: cond, Body: body}
}

// forStmt desugars the C-style header into an equivalent while loop.
func (p *Parser) forStmt() Stmt {
	p.consume(LROUND, "expected '(' after 'for'")

	var init Stmt
	switch {
	case p.match(SEMICOLON):
		init = nil
	case p.match(VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond Expr = &LiteralExpr{Value: true}
	if !p.check(SEMICOLON) {
		cond = p.expression()
	}
	p.consume(SEMICOLON, "expected ';' after loop condition")

	var incr Expr
	if !p.check(RROUND) {
		incr = p.expression()
	}
	p.consume(RROUND, "expected ')' after for clauses")

	body := p.statement()
	if incr != nil {
		body = &BlockStmt{Stmts: []Stmt{body, &ExprStmt{Expr: incr}}}
	}
	body = &WhileStmt{Cond: cond, Body: body}
	if init != nil {
		body = &BlockStmt{Stmts: []Stmt{init, body}}
	}
	return body
}

func (p *Parser) returnStmt() Stmt {
	kw := p.previous()
	var value Expr
	if !p.check(SEMICOLON) {
		value = p.expression()
	}
	p.consume(SEMICOLON, "expected ';' after return value")
	return &ReturnStmt{Keyword: kw, Value: value}
}

func (p *Parser) exprStmt() Stmt {
	expr := p.expression()
	p.consume(SEMICOLON, "expected ';' after expression")
	return &ExprStmt{Expr: expr}
}

// ----- expressions -----

func (p *Parser) expression() Expr { return p.comma() }

func (p *Parser) comma() Expr {
	left := p.assignment()
	for p.match(COMMA) {
		right := p.assignment()
		left = &CommaExpr{Left: left, Right: right}
	}
	return left
}

func (p *Parser) assignment() Expr {
	expr := p.ternary()

	if p.match(ASSIGN) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *VariableExpr:
			return &AssignExpr{Name: target.Name, Value: value}
		case *GetExpr:
			return &SetExpr{Object: target.Object, Name: target.Name, Value: value}
		}
		// Report without panicking: the rest of the statement is intact.
		p.errAt(equals, "invalid assignment target")
	}
	return expr
}

func (p *Parser) ternary() Expr {
	cond := p.logicOr()
	if p.match(QUESTION) {
		then := p.expression()
		p.consume(COLON, "expected ':' in conditional expression")
		els := p.ternary()
		return &TernaryExpr{Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *Parser) logicOr() Expr {
	left := p.logicAnd()
	for p.match(OR) {
		op := p.previous()
		right := p.logicAnd()
		left = &LogicalExpr{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) logicAnd() Expr {
	left := p.equality()
	for p.match(AND) {
		op := p.previous()
		right := p.equality()
		left = &LogicalExpr{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) equality() Expr {
	left := p.comparison()
	for p.match(EQ, NEQ) {
		op := p.previous()
		right := p.comparison()
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) comparison() Expr {
	left := p.term()
	for p.match(GREATER, GREATER_EQ, LESS, LESS_EQ) {
		op := p.previous()
		right := p.term()
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) term() Expr {
	left := p.factor()
	for p.match(PLUS, MINUS) {
		op := p.previous()
		right := p.factor()
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) factor() Expr {
	left := p.unary()
	for p.match(MULT, DIV) {
		op := p.previous()
		right := p.unary()
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) unary() Expr {
	if p.match(BANG, MINUS) {
		op := p.previous()
		right := p.unary()
		return &UnaryExpr{Op: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(LROUND):
			expr = p.finishCall(expr)
		case p.match(PERIOD):
			name := p.consume(ID, "expected property name after '.'")
			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(RROUND) {
		for {
			if len(args) >= maxCallArgs {
				p.errAt(p.peek(), fmt.Sprintf("cannot have more than %d arguments", maxCallArgs))
			}
			args = append(args, p.assignment())
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren := p.consume(RROUND, "expected ')' after arguments")
	return &CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(NUMBER, STRING, TRUE, FALSE, NIL):
		return &LiteralExpr{Value: p.previous().Literal}
	case p.match(THIS):
		return &ThisExpr{Keyword: p.previous()}
	case p.match(SUPER):
		kw := p.previous()
		p.consume(PERIOD, "expected '.' after 'super'")
		method := p.consume(ID, "expected superclass method name")
		return &SuperExpr{Keyword: kw, Method: method}
	case p.match(ID):
		return &VariableExpr{Name: p.previous()}
	case p.match(FUN):
		return p.lambda()
	case p.match(LROUND):
		inner := p.expression()
		p.consume(RROUND, "expected ')' after expression")
		return &GroupingExpr{Inner: inner}
	default:
		panic(p.errAt(p.peek(), "expected expression"))
	}
}

func (p *Parser) lambda() Expr {
	fun := p.previous()
	params := p.funParams("lambda")
	p.consume(LCURLY, "expected '{' before lambda body")
	body := p.block()
	return &LambdaExpr{Fun: fun, Params: params, Body: body}
}
