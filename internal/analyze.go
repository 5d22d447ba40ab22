package internal

import (
	"strconv"
	"strings"

	"jmm/internal/tokens"
)

// analyzer resolves names and types, binds break and continue to their
// enclosing loop or switch and allocates local slots
type analyzer struct {
	state *compilationState
	env   *env
	flows *flowStack
}

func newAnalyzer(state *compilationState) *analyzer {
	return &analyzer{
		state: state,
		env:   newEnv(nil),
		flows: &flowStack{},
	}
}

func (a *analyzer) analyze() {
	for _, s := range a.state.stmts {
		s.accept(a)
	}
	if a.flows.depth() != 0 {
		fatalInvariant("%d flow frames left open", a.flows.depth())
	}
	a.state.log.WithField("locals", a.env.maxLocals()).Debug("analyzed")
}

func (a *analyzer) expr(e expr) *Type {
	return e.accept(a).(*Type)
}

// inScope runs fn with a fresh nested scope
func (a *analyzer) inScope(fn func()) {
	previous := a.env
	a.env = newEnv(previous)
	defer func() {
		a.env = previous
	}()
	fn()
}

func (a *analyzer) mustBeBoolean(e expr, at *token) {
	t := a.expr(e)
	if t != typeAny && t != typeBoolean {
		a.state.semanticError(withDetail(errTypeMismatch, "condition must be boolean, found %s", t), at.line)
	}
}

func (a *analyzer) mustAssign(got, want *Type, line int) {
	if !got.assignableTo(want) {
		a.state.semanticError(withDetail(errTypeMismatch, "cannot assign %s to %s", got, want), line)
	}
}

func (a *analyzer) visitExprStmt(stmt *exprStmt) R {
	a.expr(stmt.expression)
	return nil
}

func (a *analyzer) visitVarStmt(stmt *varStmt) R {
	t, ok := resolveType(stmt.typeName.lexeme)
	if !ok {
		a.state.semanticError(withDetail(errUnknownType, "%s", stmt.typeName.lexeme), stmt.typeName.line)
		t = typeAny
	} else if t == typeVoid {
		a.state.semanticError(withDetail(errTypeMismatch, "variable %s cannot be void", stmt.name.lexeme), stmt.name.line)
		t = typeAny
	}
	if stmt.initializer != nil {
		a.mustAssign(a.expr(stmt.initializer), t, stmt.name.line)
	}
	local, ok := a.env.define(stmt.name.lexeme, t)
	if !ok {
		a.state.semanticError(withDetail(errRedeclaredVar, "%s", stmt.name.lexeme), stmt.name.line)
		local, _ = a.env.get(stmt.name.lexeme)
	}
	stmt.local = local
	return nil
}

func (a *analyzer) visitBlockStmt(stmt *blockStmt) R {
	a.inScope(func() {
		for _, s := range stmt.stmts {
			s.accept(a)
		}
	})
	return nil
}

func (a *analyzer) visitIfStmt(stmt *ifStmt) R {
	a.mustBeBoolean(stmt.condition, stmt.keyword)
	a.inScope(func() { stmt.thenBranch.accept(a) })
	if stmt.elseBranch != nil {
		a.inScope(func() { stmt.elseBranch.accept(a) })
	}
	return nil
}

func (a *analyzer) visitWhileStmt(stmt *whileStmt) R {
	stmt.flow = &flow{kind: flowLoop}
	a.flows.push(stmt.flow)
	defer a.flows.pop(stmt.flow)

	a.mustBeBoolean(stmt.condition, stmt.keyword)
	a.inScope(func() { stmt.body.accept(a) })
	return nil
}

func (a *analyzer) visitDoStmt(stmt *doStmt) R {
	stmt.flow = &flow{kind: flowLoop}
	a.flows.push(stmt.flow)
	defer a.flows.pop(stmt.flow)

	a.inScope(func() { stmt.body.accept(a) })
	a.mustBeBoolean(stmt.condition, stmt.keyword)
	return nil
}

func (a *analyzer) visitForStmt(stmt *forStmt) R {
	stmt.flow = &flow{kind: flowLoop}
	a.flows.push(stmt.flow)
	defer a.flows.pop(stmt.flow)

	a.inScope(func() {
		for _, s := range stmt.init {
			s.accept(a)
		}
		if stmt.condition != nil {
			a.mustBeBoolean(stmt.condition, stmt.keyword)
		}
		for _, s := range stmt.update {
			s.accept(a)
		}
		a.inScope(func() { stmt.body.accept(a) })
	})
	return nil
}

func (a *analyzer) visitSwitchStmt(stmt *switchStmt) R {
	stmt.flow = &flow{kind: flowSwitch}
	a.flows.push(stmt.flow)
	defer a.flows.pop(stmt.flow)

	if t := a.expr(stmt.condition); t != typeAny && t != typeInt {
		a.state.semanticError(withDetail(errTypeMismatch, "switch on %s, expected int", t), stmt.keyword.line)
	}

	seen := make(map[int32]bool)
	hasDefault := false
	for _, group := range stmt.groups {
		group.values = group.values[:0]
		for _, label := range group.labels {
			if label == nil {
				if hasDefault {
					a.state.semanticError(errDuplicateDefault, stmt.keyword.line)
				}
				hasDefault = true
				group.isDefault = true
				continue
			}
			lit, ok := label.(*literalExpr)
			if !ok || lit.token.token != tokens.INT_LITERAL {
				a.expr(label)
				a.state.semanticError(errCaseNotLiteral, stmt.keyword.line)
				continue
			}
			if a.expr(lit) == typeAny {
				continue
			}
			v := lit.value.(int32)
			if seen[v] {
				a.state.semanticError(withDetail(errDuplicateCase, "%d", v), lit.token.line)
				continue
			}
			seen[v] = true
			group.values = append(group.values, v)
		}
		a.inScope(func() {
			for _, s := range group.block {
				s.accept(a)
			}
		})
	}
	return nil
}

func (a *analyzer) visitBreakStmt(stmt *breakStmt) R {
	target := a.flows.breakTarget()
	if target == nil {
		a.state.semanticError(errBreakOutside, stmt.keyword.line)
		return nil
	}
	target.hasBreak = true
	stmt.target = target
	return nil
}

func (a *analyzer) visitContinueStmt(stmt *continueStmt) R {
	target := a.flows.continueTarget()
	if target == nil {
		a.state.semanticError(errContinueOutside, stmt.keyword.line)
		return nil
	}
	target.hasContinue = true
	stmt.target = target
	return nil
}

func (a *analyzer) visitReturnStmt(stmt *returnStmt) R {
	if stmt.value != nil {
		a.expr(stmt.value)
		a.state.semanticError(withDetail(errTypeMismatch, "cannot return a value from main"), stmt.keyword.line)
	}
	return nil
}

func (a *analyzer) visitThrowStmt(stmt *throwStmt) R {
	t := a.expr(stmt.value)
	if t != typeAny && t != typeNull && !t.isThrowable() {
		a.state.semanticError(withDetail(errTypeMismatch, "cannot throw %s", t), stmt.keyword.line)
	}
	return nil
}

func (a *analyzer) visitTryStmt(stmt *tryStmt) R {
	stmt.tryBlock.accept(a)
	for _, clause := range stmt.catches {
		a.inScope(func() {
			t, ok := resolveType(clause.typeName.lexeme)
			switch {
			case !ok:
				a.state.semanticError(withDetail(errUnknownType, "%s", clause.typeName.lexeme), clause.typeName.line)
				t = typeThrowable
			case !t.isThrowable():
				a.state.semanticError(withDetail(errNotThrowable, "%s", t), clause.typeName.line)
				t = typeThrowable
			}
			param, ok := a.env.define(clause.name.lexeme, t)
			if !ok {
				a.state.semanticError(withDetail(errRedeclaredVar, "%s", clause.name.lexeme), clause.name.line)
				param = &localVar{name: clause.name.lexeme, typ: t, slot: a.env.allocSlot()}
			}
			clause.param = param
			clause.block.accept(a)
		})
	}
	if stmt.finallyBlock != nil {
		stmt.finallyBlock.accept(a)
		stmt.finallySlot = a.env.allocSlot()
	}
	return nil
}

func (a *analyzer) visitEmptyStmt(stmt *emptyStmt) R {
	return nil
}

func (a *analyzer) visitLiteralExpr(expr *literalExpr) R {
	lexeme := expr.token.lexeme
	switch expr.token.token {
	case tokens.INT_LITERAL:
		v, err := strconv.ParseInt(lexeme, 10, 32)
		if err != nil {
			a.state.semanticError(withDetail(errIntRange, "%s", lexeme), expr.token.line)
			return a.setType(&expr.typed, typeAny)
		}
		expr.value = int32(v)
		return a.setType(&expr.typed, typeInt)
	case tokens.LONG_LITERAL:
		v, err := strconv.ParseInt(lexeme[:len(lexeme)-1], 10, 64)
		if err != nil {
			a.state.semanticError(withDetail(errIntRange, "%s", lexeme), expr.token.line)
			return a.setType(&expr.typed, typeAny)
		}
		expr.value = v
		return a.setType(&expr.typed, typeLong)
	case tokens.DOUBLE_LITERAL:
		v, err := strconv.ParseFloat(strings.TrimRight(lexeme, "dD"), 64)
		if err != nil {
			a.state.semanticError(withDetail(errMalformedNumber, "%s", lexeme), expr.token.line)
			return a.setType(&expr.typed, typeAny)
		}
		expr.value = v
		return a.setType(&expr.typed, typeDouble)
	case tokens.CHAR_LITERAL:
		r, _ := expr.token.literal.(rune)
		expr.value = int32(r)
		return a.setType(&expr.typed, typeChar)
	case tokens.STRING_LITERAL:
		s, _ := expr.token.literal.(string)
		expr.value = s
		return a.setType(&expr.typed, typeString)
	case tokens.TRUE:
		expr.value = true
		return a.setType(&expr.typed, typeBoolean)
	case tokens.FALSE:
		expr.value = false
		return a.setType(&expr.typed, typeBoolean)
	case tokens.NULL:
		expr.value = nil
		return a.setType(&expr.typed, typeNull)
	}
	fatalInvariant("literal of kind %s", expr.token.token)
	return nil
}

func (a *analyzer) setType(t *typed, typ *Type) *Type {
	t.typ = typ
	return typ
}

func (a *analyzer) visitVariableExpr(expr *variableExpr) R {
	local, ok := a.env.get(expr.name.lexeme)
	if !ok {
		a.state.semanticError(withDetail(errUndefinedVar, "%s", expr.name.lexeme), expr.name.line)
		return a.setType(&expr.typed, typeAny)
	}
	expr.local = local
	return a.setType(&expr.typed, local.typ)
}

func (a *analyzer) visitAssignExpr(expr *assignExpr) R {
	target := a.expr(expr.target)
	value := a.expr(expr.value)
	if expr.operator.token == tokens.ASSIGN {
		a.mustAssign(value, target, expr.operator.line)
		return a.setType(&expr.typed, target)
	}
	op := compoundOperators[expr.operator.token]
	result, _, ok := binaryResult(op, target, value)
	if !ok || !result.assignableTo(target) {
		a.state.semanticError(withDetail(errOperandType, "%s %s %s", target, expr.operator.lexeme, value), expr.operator.line)
	}
	return a.setType(&expr.typed, target)
}

func (a *analyzer) visitBinaryExpr(expr *binaryExpr) R {
	left := a.expr(expr.left)
	right := a.expr(expr.right)
	result, operand, ok := binaryResult(expr.operator.token, left, right)
	if !ok {
		a.state.semanticError(withDetail(errOperandType, "%s %s %s", left, expr.operator.lexeme, right), expr.operator.line)
		return a.setType(&expr.typed, typeAny)
	}
	expr.operandType = operand
	return a.setType(&expr.typed, result)
}

// compoundOperators maps a compound assignment to its binary operator
var compoundOperators = map[tokens.TokenType]tokens.TokenType{
	tokens.PLUS_ASSIGN:    tokens.PLUS,
	tokens.MINUS_ASSIGN:   tokens.MINUS,
	tokens.STAR_ASSIGN:    tokens.STAR,
	tokens.DIV_ASSIGN:     tokens.DIV,
	tokens.REM_ASSIGN:     tokens.REM,
	tokens.AND_ASSIGN:     tokens.AND,
	tokens.OR_ASSIGN:      tokens.OR,
	tokens.XOR_ASSIGN:     tokens.XOR,
	tokens.ALSHIFT_ASSIGN: tokens.ALSHIFT,
	tokens.ARSHIFT_ASSIGN: tokens.ARSHIFT,
	tokens.LRSHIFT_ASSIGN: tokens.LRSHIFT,
}

// binaryResult types a binary operation, it returns the result type and
// the type both operands are computed in
func binaryResult(op tokens.TokenType, left, right *Type) (*Type, *Type, bool) {
	if left == typeAny || right == typeAny {
		return typeAny, typeAny, true
	}
	if left == typeVoid || right == typeVoid {
		return nil, nil, false
	}
	switch op {
	case tokens.PLUS:
		if left == typeString || right == typeString {
			return typeString, typeString, true
		}
		fallthrough
	case tokens.MINUS, tokens.STAR, tokens.DIV, tokens.REM:
		if left == right && left.isNumeric() {
			return left, left, true
		}
	case tokens.AND, tokens.OR, tokens.XOR:
		if left == right && (left.isIntegral() || left == typeBoolean) {
			return left, left, true
		}
	case tokens.ALSHIFT, tokens.ARSHIFT, tokens.LRSHIFT:
		if left.isIntegral() && right == typeInt {
			return left, left, true
		}
	case tokens.LT, tokens.GT, tokens.LE, tokens.GE:
		if left == right && (left.isNumeric() || left == typeChar) {
			return typeBoolean, left, true
		}
	case tokens.EQUAL, tokens.NOT_EQUAL:
		if left == right && left.kind == kindPrimitive {
			return typeBoolean, left, true
		}
		if left.isReference() && right.isReference() &&
			(left.assignableTo(right) || right.assignableTo(left)) {
			return typeBoolean, typeObject, true
		}
	}
	return nil, nil, false
}

func (a *analyzer) visitLogicalExpr(expr *logicalExpr) R {
	a.mustBeBoolean(expr.left, expr.operator)
	a.mustBeBoolean(expr.right, expr.operator)
	return a.setType(&expr.typed, typeBoolean)
}

func (a *analyzer) visitUnaryExpr(expr *unaryExpr) R {
	t := a.expr(expr.right)
	if t == typeAny {
		return a.setType(&expr.typed, typeAny)
	}
	ok := false
	switch expr.operator.token {
	case tokens.MINUS:
		ok = t.isNumeric()
	case tokens.LNOT:
		ok = t == typeBoolean
	case tokens.NOT:
		ok = t.isIntegral()
	}
	if !ok {
		a.state.semanticError(withDetail(errOperandType, "%s%s", expr.operator.lexeme, t), expr.operator.line)
		return a.setType(&expr.typed, typeAny)
	}
	return a.setType(&expr.typed, t)
}

func (a *analyzer) visitIncrementExpr(expr *incrementExpr) R {
	t := a.expr(expr.target)
	if t != typeAny && !t.isNumeric() {
		a.state.semanticError(withDetail(errOperandType, "%s%s", expr.operator.lexeme, t), expr.operator.line)
	}
	return a.setType(&expr.typed, t)
}

func (a *analyzer) visitConditionalExpr(expr *conditionalExpr) R {
	a.mustBeBoolean(expr.condition, expr.question)
	thenType := a.expr(expr.thenPart)
	elseType := a.expr(expr.elsePart)
	switch {
	case elseType.assignableTo(thenType) && thenType != typeNull:
		return a.setType(&expr.typed, thenType)
	case thenType.assignableTo(elseType):
		return a.setType(&expr.typed, elseType)
	}
	a.state.semanticError(withDetail(errTypeMismatch, "conditional branches have types %s and %s", thenType, elseType), expr.question.line)
	return a.setType(&expr.typed, typeAny)
}

func (a *analyzer) visitNewExpr(expr *newExpr) R {
	t, ok := resolveType(expr.className.lexeme)
	if !ok {
		a.state.semanticError(withDetail(errUnknownType, "%s", expr.className.lexeme), expr.className.line)
		return a.setType(&expr.typed, typeAny)
	}
	if t != typeObject && !t.isThrowable() {
		a.state.semanticError(withDetail(errNotClass, "%s", t), expr.className.line)
		return a.setType(&expr.typed, typeAny)
	}
	return a.setType(&expr.typed, t)
}

func (a *analyzer) visitCallExpr(expr *callExpr) R {
	arguments := make([]*Type, len(expr.arguments))
	for i, arg := range expr.arguments {
		arguments[i] = a.expr(arg)
	}
	method, err := builtinMethod(expr.name.lexeme, arguments)
	if err != nil {
		a.state.semanticError(err, expr.name.line)
		return a.setType(&expr.typed, typeAny)
	}
	expr.method = method
	return a.setType(&expr.typed, typeVoid)
}

func (a *analyzer) visitGroupingExpr(expr *groupingExpr) R {
	return a.setType(&expr.typed, a.expr(expr.expression))
}
