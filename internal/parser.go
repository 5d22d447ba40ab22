package internal

import (
	"jmm/internal/tokens"
)

// parser stores parser data
type parser struct {
	current int

	state *compilationState
}

// parseAbort unwinds the parser to the enclosing top level statement
type parseAbort struct{}

func (p *parser) parse() {
	for !p.isAtEnd() {
		p.state.stmts = append(p.state.stmts, p.parseStmt()...)
	}
	p.state.log.WithField("statements", len(p.state.stmts)).Debug("parsed")
}

func (p *parser) parseStmt() (stmts []stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); !ok {
				panic(r)
			}
			stmts = nil
			p.synchronize()
		}
	}()
	return p.blockStatement()
}

// blockStatement parses a statement or a local variable declaration,
// a declaration with several variables yields one statement per variable
func (p *parser) blockStatement() []stmt {
	if p.isDeclaration() {
		decls := p.localVariables()
		p.consume(tokens.SEMI, errExpectedSemicolon)
		return decls
	}
	return []stmt{p.statement()}
}

func (p *parser) isDeclaration() bool {
	switch p.peek().token {
	case tokens.INT, tokens.LONG, tokens.DOUBLE, tokens.BOOLEAN, tokens.CHAR:
		return true
	case tokens.IDENTIFIER:
		// a possibly qualified type name followed by the variable name
		i := p.current + 1
		for p.tokenAt(i).token == tokens.DOT && p.tokenAt(i+1).token == tokens.IDENTIFIER {
			i += 2
		}
		return p.tokenAt(i).token == tokens.IDENTIFIER
	}
	return false
}

func (p *parser) localVariables() []stmt {
	typeName := p.typeName()
	var decls []stmt
	for {
		decl := &varStmt{
			typeName: typeName,
			name:     p.consume(tokens.IDENTIFIER, errExpectedIdentifier),
		}
		if p.match(tokens.ASSIGN) {
			decl.initializer = p.expression()
		}
		decls = append(decls, decl)
		if !p.match(tokens.COMMA) {
			return decls
		}
	}
}

func (p *parser) typeName() *token {
	if p.match(tokens.INT, tokens.LONG, tokens.DOUBLE, tokens.BOOLEAN, tokens.CHAR) {
		return p.previous()
	}
	name := p.consume(tokens.IDENTIFIER, errExpectedType)
	for p.check(tokens.DOT) && p.checkNext(tokens.IDENTIFIER) {
		p.advance()
		part := p.advance()
		name = &token{
			token:  tokens.IDENTIFIER,
			lexeme: name.lexeme + "." + part.lexeme,
			line:   name.line,
		}
	}
	return name
}

func (p *parser) statement() stmt {
	if p.match(tokens.LEFT_CURLY) {
		return p.block()
	}
	if p.match(tokens.IF) {
		return p.ifStmt()
	}
	if p.match(tokens.WHILE) {
		return p.while()
	}
	if p.match(tokens.DO) {
		return p.doWhile()
	}
	if p.match(tokens.FOR) {
		return p.forLoop()
	}
	if p.match(tokens.SWITCH) {
		return p.switchStmt()
	}
	if p.match(tokens.BREAK) {
		st := &breakStmt{keyword: p.previous()}
		p.consume(tokens.SEMI, errExpectedSemicolon)
		return st
	}
	if p.match(tokens.CONTINUE) {
		st := &continueStmt{keyword: p.previous()}
		p.consume(tokens.SEMI, errExpectedSemicolon)
		return st
	}
	if p.match(tokens.RETURN) {
		return p.ret()
	}
	if p.match(tokens.THROW) {
		st := &throwStmt{keyword: p.previous(), value: p.expression()}
		p.consume(tokens.SEMI, errExpectedSemicolon)
		return st
	}
	if p.match(tokens.TRY) {
		return p.try()
	}
	if p.match(tokens.SEMI) {
		return &emptyStmt{semi: p.previous()}
	}
	return p.expressionStmt()
}

// block parses the statements of a block whose opening brace has been
// consumed
func (p *parser) block() *blockStmt {
	st := &blockStmt{brace: p.previous()}
	for !p.check(tokens.RIGHT_CURLY) && !p.isAtEnd() {
		st.stmts = append(st.stmts, p.blockStatement()...)
	}
	p.consume(tokens.RIGHT_CURLY, errExpectedClosingCurlyBrace)
	return st
}

func (p *parser) requireBlock() *blockStmt {
	p.consume(tokens.LEFT_CURLY, errExpectedOpeningCurlyBrace)
	return p.block()
}

func (p *parser) parenthesized() expr {
	p.consume(tokens.LEFT_PAREN, errExpectedOpeningParen)
	e := p.expression()
	p.consume(tokens.RIGHT_PAREN, errUnclosedParen)
	return e
}

func (p *parser) ifStmt() stmt {
	st := &ifStmt{
		keyword:   p.previous(),
		condition: p.parenthesized(),
	}
	st.thenBranch = p.statement()
	if p.match(tokens.ELSE) {
		st.elseBranch = p.statement()
	}
	return st
}

func (p *parser) while() stmt {
	keyword := p.previous()
	cond := p.parenthesized()
	body := p.statement()
	return &whileStmt{
		keyword:   keyword,
		condition: cond,
		body:      body,
	}
}

func (p *parser) doWhile() stmt {
	keyword := p.previous()
	body := p.statement()
	p.consume(tokens.WHILE, errExpectedWhile)
	cond := p.parenthesized()
	p.consume(tokens.SEMI, errExpectedSemicolon)
	return &doStmt{
		keyword:   keyword,
		body:      body,
		condition: cond,
	}
}

func (p *parser) forLoop() stmt {
	st := &forStmt{keyword: p.previous()}
	p.consume(tokens.LEFT_PAREN, errExpectedOpeningParen)

	if !p.check(tokens.SEMI) {
		if p.isDeclaration() {
			st.init = p.localVariables()
		} else {
			st.init = p.expressionList()
		}
	}
	p.consume(tokens.SEMI, errExpectedSemicolon)

	if !p.check(tokens.SEMI) {
		st.condition = p.expression()
	}
	p.consume(tokens.SEMI, errExpectedSemicolon)

	if !p.check(tokens.RIGHT_PAREN) {
		st.update = p.expressionList()
	}
	p.consume(tokens.RIGHT_PAREN, errUnclosedParen)

	st.body = p.statement()
	return st
}

func (p *parser) expressionList() []stmt {
	var list []stmt
	for {
		e := p.expression()
		list = append(list, &exprStmt{last: p.previous(), expression: e})
		if !p.match(tokens.COMMA) {
			return list
		}
	}
}

func (p *parser) switchStmt() stmt {
	st := &switchStmt{
		keyword:   p.previous(),
		condition: p.parenthesized(),
	}
	p.consume(tokens.LEFT_CURLY, errExpectedOpeningCurlyBrace)

	for !p.check(tokens.RIGHT_CURLY) && !p.isAtEnd() {
		group := &switchGroup{}
		for p.check(tokens.CASE) || p.check(tokens.DEFAULT) {
			if p.match(tokens.DEFAULT) {
				group.labels = append(group.labels, nil)
			} else {
				p.advance()
				group.labels = append(group.labels, p.expression())
			}
			p.consume(tokens.COLON, errExpectedColon)
		}
		if len(group.labels) == 0 {
			p.fail(errUnexpectedToken, p.peek())
		}
		for !p.check(tokens.CASE) && !p.check(tokens.DEFAULT) &&
			!p.check(tokens.RIGHT_CURLY) && !p.isAtEnd() {
			group.block = append(group.block, p.blockStatement()...)
		}
		st.groups = append(st.groups, group)
	}
	p.consume(tokens.RIGHT_CURLY, errExpectedClosingCurlyBrace)
	return st
}

func (p *parser) ret() stmt {
	st := &returnStmt{keyword: p.previous()}
	if !p.check(tokens.SEMI) {
		st.value = p.expression()
	}
	p.consume(tokens.SEMI, errExpectedSemicolon)
	return st
}

func (p *parser) try() stmt {
	st := &tryStmt{
		keyword:  p.previous(),
		tryBlock: p.requireBlock(),
	}
	for p.match(tokens.CATCH) {
		p.consume(tokens.LEFT_PAREN, errExpectedOpeningParen)
		clause := &catchClause{typeName: p.typeName()}
		clause.name = p.consume(tokens.IDENTIFIER, errExpectedIdentifier)
		p.consume(tokens.RIGHT_PAREN, errUnclosedParen)
		clause.block = p.requireBlock()
		st.catches = append(st.catches, clause)
	}
	if p.match(tokens.FINALLY) {
		st.finallyBlock = p.requireBlock()
	}
	if len(st.catches) == 0 && st.finallyBlock == nil {
		p.fail(errExpectedCatchOrFinally, p.peek())
	}
	return st
}

func (p *parser) expressionStmt() stmt {
	e := p.expression()
	st := &exprStmt{
		last:       p.peek(),
		expression: e,
	}
	p.consume(tokens.SEMI, errExpectedSemicolon)
	return st
}

func (p *parser) expression() expr {
	return p.assignment()
}

var assignOperators = []tokens.TokenType{
	tokens.ASSIGN,
	tokens.PLUS_ASSIGN,
	tokens.MINUS_ASSIGN,
	tokens.STAR_ASSIGN,
	tokens.DIV_ASSIGN,
	tokens.REM_ASSIGN,
	tokens.AND_ASSIGN,
	tokens.OR_ASSIGN,
	tokens.XOR_ASSIGN,
	tokens.ALSHIFT_ASSIGN,
	tokens.ARSHIFT_ASSIGN,
	tokens.LRSHIFT_ASSIGN,
}

func (p *parser) assignment() expr {
	e := p.conditional()
	if p.match(assignOperators...) {
		operator := p.previous()
		value := p.assignment()
		target, ok := unparen(e).(*variableExpr)
		if !ok {
			p.fail(errInvalidAssignTarget, operator)
		}
		return &assignExpr{
			operator: operator,
			target:   target,
			value:    value,
		}
	}
	return e
}

func (p *parser) conditional() expr {
	e := p.or()
	if p.match(tokens.QUESTION) {
		question := p.previous()
		thenPart := p.expression()
		p.consume(tokens.COLON, errExpectedColon)
		elsePart := p.conditional()
		return &conditionalExpr{
			question:  question,
			condition: e,
			thenPart:  thenPart,
			elsePart:  elsePart,
		}
	}
	return e
}

func (p *parser) or() expr {
	e := p.and()
	for p.match(tokens.LOR) {
		operator := p.previous()
		right := p.and()
		e = &logicalExpr{
			left:     e,
			operator: operator,
			right:    right,
		}
	}
	return e
}

func (p *parser) and() expr {
	e := p.bitOr()
	for p.match(tokens.LAND) {
		operator := p.previous()
		right := p.bitOr()
		e = &logicalExpr{
			left:     e,
			operator: operator,
			right:    right,
		}
	}
	return e
}

func (p *parser) bitOr() expr {
	return p.binary(p.bitXor, tokens.OR)
}

func (p *parser) bitXor() expr {
	return p.binary(p.bitAnd, tokens.XOR)
}

func (p *parser) bitAnd() expr {
	return p.binary(p.equality, tokens.AND)
}

func (p *parser) equality() expr {
	return p.binary(p.comparison, tokens.EQUAL, tokens.NOT_EQUAL)
}

func (p *parser) comparison() expr {
	return p.binary(p.shift, tokens.GT, tokens.GE, tokens.LT, tokens.LE)
}

func (p *parser) shift() expr {
	return p.binary(p.addition, tokens.ALSHIFT, tokens.ARSHIFT, tokens.LRSHIFT)
}

func (p *parser) addition() expr {
	return p.binary(p.multiplication, tokens.PLUS, tokens.MINUS)
}

func (p *parser) multiplication() expr {
	return p.binary(p.unary, tokens.STAR, tokens.DIV, tokens.REM)
}

// binary parses a left associative chain of operands joined by one of
// the given operators
func (p *parser) binary(operand func() expr, operators ...tokens.TokenType) expr {
	e := operand()
	for p.match(operators...) {
		operator := p.previous()
		right := operand()
		e = &binaryExpr{
			left:     e,
			operator: operator,
			right:    right,
		}
	}
	return e
}

func (p *parser) unary() expr {
	if p.match(tokens.INC, tokens.DEC) {
		operator := p.previous()
		return &incrementExpr{
			operator: operator,
			target:   p.incrementTarget(p.unary(), operator),
			prefix:   true,
		}
	}
	if p.match(tokens.MINUS) {
		operator := p.previous()
		// a negated numeric literal is one literal, so the most negative
		// int and long values can be written
		if p.check(tokens.INT_LITERAL) || p.check(tokens.LONG_LITERAL) || p.check(tokens.DOUBLE_LITERAL) {
			lit := p.advance()
			return &literalExpr{token: &token{
				token:  lit.token,
				lexeme: "-" + lit.lexeme,
				line:   lit.line,
			}}
		}
		return &unaryExpr{operator: operator, right: p.unary()}
	}
	if p.match(tokens.LNOT, tokens.NOT) {
		operator := p.previous()
		return &unaryExpr{operator: operator, right: p.unary()}
	}
	return p.postfix()
}

func (p *parser) postfix() expr {
	e := p.primary()
	for p.match(tokens.INC, tokens.DEC) {
		operator := p.previous()
		e = &incrementExpr{
			operator: operator,
			target:   p.incrementTarget(e, operator),
		}
	}
	return e
}

func (p *parser) incrementTarget(e expr, operator *token) *variableExpr {
	target, ok := unparen(e).(*variableExpr)
	if !ok {
		p.fail(errInvalidAssignTarget, operator)
	}
	return target
}

func (p *parser) primary() expr {
	if p.match(tokens.INT_LITERAL, tokens.LONG_LITERAL, tokens.DOUBLE_LITERAL,
		tokens.CHAR_LITERAL, tokens.STRING_LITERAL,
		tokens.TRUE, tokens.FALSE, tokens.NULL) {
		return &literalExpr{token: p.previous()}
	}
	if p.match(tokens.NEW) {
		keyword := p.previous()
		className := p.typeName()
		p.consume(tokens.LEFT_PAREN, errExpectedOpeningParen)
		p.consume(tokens.RIGHT_PAREN, errUnclosedParen)
		return &newExpr{keyword: keyword, className: className}
	}
	if p.match(tokens.IDENTIFIER) {
		name := p.previous()
		if p.match(tokens.LEFT_PAREN) {
			return &callExpr{name: name, arguments: p.arguments()}
		}
		return &variableExpr{name: name}
	}
	if p.match(tokens.LEFT_PAREN) {
		e := p.expression()
		p.consume(tokens.RIGHT_PAREN, errUnclosedParen)
		return &groupingExpr{expression: e}
	}
	if p.peek().token.IsKeyword() {
		p.fail(withDetail(errUnsupported, "%s", p.peek().lexeme), p.peek())
	}
	p.fail(errExpectedExpression, p.peek())
	return nil
}

func (p *parser) arguments() []expr {
	arguments := make([]expr, 0)
	if !p.check(tokens.RIGHT_PAREN) {
		for {
			arguments = append(arguments, p.expression())
			if !p.match(tokens.COMMA) {
				break
			}
		}
	}
	p.consume(tokens.RIGHT_PAREN, errUnclosedParen)
	return arguments
}

func unparen(e expr) expr {
	for {
		g, ok := e.(*groupingExpr)
		if !ok {
			return e
		}
		e = g.expression
	}
}

// fail records a syntax error at tk and abandons the current statement
func (p *parser) fail(err error, tk *token) {
	if tk.token == tokens.EOF {
		err = withDetail(err, "found end of file")
	} else {
		err = withDetail(err, "found %q", tk.lexeme)
	}
	p.state.syntaxError(err, tk.line)
	panic(parseAbort{})
}

func (p *parser) consume(tk tokens.TokenType, err error) *token {
	if p.check(tk) {
		return p.advance()
	}
	p.fail(err, p.peek())
	return nil
}

func (p *parser) advance() *token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) match(kinds ...tokens.TokenType) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.current++
			return true
		}
	}
	return false
}

func (p *parser) check(kind tokens.TokenType) bool {
	return p.peek().token == kind
}

func (p *parser) checkNext(kind tokens.TokenType) bool {
	return p.tokenAt(p.current+1).token == kind
}

// tokenAt returns the token at i, or EOF past the end
func (p *parser) tokenAt(i int) *token {
	if i >= len(p.state.tokens) {
		i = len(p.state.tokens) - 1
	}
	return &p.state.tokens[i]
}

func (p *parser) peek() *token {
	return &p.state.tokens[p.current]
}

func (p *parser) previous() *token {
	return &p.state.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().token == tokens.EOF
}

func (p *parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().token == tokens.SEMI || p.previous().token == tokens.RIGHT_CURLY {
			return
		}
		switch p.peek().token {
		case tokens.IF, tokens.WHILE, tokens.DO, tokens.FOR, tokens.SWITCH,
			tokens.TRY, tokens.THROW, tokens.RETURN, tokens.BREAK, tokens.CONTINUE,
			tokens.INT, tokens.LONG, tokens.DOUBLE, tokens.BOOLEAN, tokens.CHAR:
			return
		}
		p.advance()
	}
}
