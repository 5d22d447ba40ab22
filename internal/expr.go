package internal

type expr interface {
	accept(exprVisitor) R
	exprType() *Type
}

type exprVisitor interface {
	visitLiteralExpr(expr *literalExpr) R
	visitVariableExpr(expr *variableExpr) R
	visitAssignExpr(expr *assignExpr) R
	visitBinaryExpr(expr *binaryExpr) R
	visitLogicalExpr(expr *logicalExpr) R
	visitUnaryExpr(expr *unaryExpr) R
	visitIncrementExpr(expr *incrementExpr) R
	visitConditionalExpr(expr *conditionalExpr) R
	visitNewExpr(expr *newExpr) R
	visitCallExpr(expr *callExpr) R
	visitGroupingExpr(expr *groupingExpr) R
}

type literalExpr struct {
	typed
	token *token
	value interface{}
}

func (s *literalExpr) accept(visitor exprVisitor) R {
	return visitor.visitLiteralExpr(s)
}

type variableExpr struct {
	typed
	name  *token
	local *localVar
}

func (s *variableExpr) accept(visitor exprVisitor) R {
	return visitor.visitVariableExpr(s)
}

type assignExpr struct {
	typed
	operator *token
	target   *variableExpr
	value    expr
}

func (s *assignExpr) accept(visitor exprVisitor) R {
	return visitor.visitAssignExpr(s)
}

type binaryExpr struct {
	typed
	left        expr
	operator    *token
	right       expr
	operandType *Type
}

func (s *binaryExpr) accept(visitor exprVisitor) R {
	return visitor.visitBinaryExpr(s)
}

type logicalExpr struct {
	typed
	left     expr
	operator *token
	right    expr
}

func (s *logicalExpr) accept(visitor exprVisitor) R {
	return visitor.visitLogicalExpr(s)
}

type unaryExpr struct {
	typed
	operator *token
	right    expr
}

func (s *unaryExpr) accept(visitor exprVisitor) R {
	return visitor.visitUnaryExpr(s)
}

type incrementExpr struct {
	typed
	operator *token
	target   *variableExpr
	prefix   bool
}

func (s *incrementExpr) accept(visitor exprVisitor) R {
	return visitor.visitIncrementExpr(s)
}

type conditionalExpr struct {
	typed
	question  *token
	condition expr
	thenPart  expr
	elsePart  expr
}

func (s *conditionalExpr) accept(visitor exprVisitor) R {
	return visitor.visitConditionalExpr(s)
}

type newExpr struct {
	typed
	keyword   *token
	className *token
}

func (s *newExpr) accept(visitor exprVisitor) R {
	return visitor.visitNewExpr(s)
}

type callExpr struct {
	typed
	name      *token
	arguments []expr
	method    *methodRef
}

func (s *callExpr) accept(visitor exprVisitor) R {
	return visitor.visitCallExpr(s)
}

type groupingExpr struct {
	typed
	expression expr
}

func (s *groupingExpr) accept(visitor exprVisitor) R {
	return visitor.visitGroupingExpr(s)
}
