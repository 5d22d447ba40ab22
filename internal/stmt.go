package internal

type stmt interface {
	accept(stmtVisitor) R
}

type stmtVisitor interface {
	visitExprStmt(stmt *exprStmt) R
	visitVarStmt(stmt *varStmt) R
	visitBlockStmt(stmt *blockStmt) R
	visitIfStmt(stmt *ifStmt) R
	visitWhileStmt(stmt *whileStmt) R
	visitDoStmt(stmt *doStmt) R
	visitForStmt(stmt *forStmt) R
	visitSwitchStmt(stmt *switchStmt) R
	visitBreakStmt(stmt *breakStmt) R
	visitContinueStmt(stmt *continueStmt) R
	visitReturnStmt(stmt *returnStmt) R
	visitThrowStmt(stmt *throwStmt) R
	visitTryStmt(stmt *tryStmt) R
	visitEmptyStmt(stmt *emptyStmt) R
}

type exprStmt struct {
	last       *token
	expression expr
}

func (s *exprStmt) accept(visitor stmtVisitor) R {
	return visitor.visitExprStmt(s)
}

type varStmt struct {
	typeName    *token
	name        *token
	initializer expr
	local       *localVar
}

func (s *varStmt) accept(visitor stmtVisitor) R {
	return visitor.visitVarStmt(s)
}

type blockStmt struct {
	brace *token
	stmts []stmt
}

func (s *blockStmt) accept(visitor stmtVisitor) R {
	return visitor.visitBlockStmt(s)
}

type ifStmt struct {
	keyword    *token
	condition  expr
	thenBranch stmt
	elseBranch stmt
}

func (s *ifStmt) accept(visitor stmtVisitor) R {
	return visitor.visitIfStmt(s)
}

type whileStmt struct {
	keyword   *token
	condition expr
	body      stmt
	flow      *flow
}

func (s *whileStmt) accept(visitor stmtVisitor) R {
	return visitor.visitWhileStmt(s)
}

type doStmt struct {
	keyword   *token
	body      stmt
	condition expr
	flow      *flow
}

func (s *doStmt) accept(visitor stmtVisitor) R {
	return visitor.visitDoStmt(s)
}

type forStmt struct {
	keyword   *token
	init      []stmt
	condition expr
	update    []stmt
	body      stmt
	flow      *flow
}

func (s *forStmt) accept(visitor stmtVisitor) R {
	return visitor.visitForStmt(s)
}

type switchStmt struct {
	keyword   *token
	condition expr
	groups    []*switchGroup
	flow      *flow
}

func (s *switchStmt) accept(visitor stmtVisitor) R {
	return visitor.visitSwitchStmt(s)
}

type breakStmt struct {
	keyword *token
	target  *flow
}

func (s *breakStmt) accept(visitor stmtVisitor) R {
	return visitor.visitBreakStmt(s)
}

type continueStmt struct {
	keyword *token
	target  *flow
}

func (s *continueStmt) accept(visitor stmtVisitor) R {
	return visitor.visitContinueStmt(s)
}

type returnStmt struct {
	keyword *token
	value   expr
}

func (s *returnStmt) accept(visitor stmtVisitor) R {
	return visitor.visitReturnStmt(s)
}

type throwStmt struct {
	keyword *token
	value   expr
}

func (s *throwStmt) accept(visitor stmtVisitor) R {
	return visitor.visitThrowStmt(s)
}

type tryStmt struct {
	keyword      *token
	tryBlock     *blockStmt
	catches      []*catchClause
	finallyBlock *blockStmt
	finallySlot  int
}

func (s *tryStmt) accept(visitor stmtVisitor) R {
	return visitor.visitTryStmt(s)
}

type emptyStmt struct {
	semi *token
}

func (s *emptyStmt) accept(visitor stmtVisitor) R {
	return visitor.visitEmptyStmt(s)
}
