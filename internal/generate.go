package internal

import (
	"jmm/internal/tokens"
)

// generator lowers an analyzed tree to symbolic instructions
type generator struct {
	state *compilationState
	out   Emitter
}

func newGenerator(state *compilationState, out Emitter) *generator {
	return &generator{state: state, out: out}
}

func (g *generator) generate() {
	for _, s := range g.state.stmts {
		s.accept(g)
	}
	g.out.AddNoArgInstruction(RETURN)
}

func (g *generator) value(e expr) {
	e.accept(g)
}

func (g *generator) load(v *localVar) {
	g.out.AddOneArgInstruction(loadOpcode(v.typ), v.slot)
}

func (g *generator) store(v *localVar) {
	g.out.AddOneArgInstruction(storeOpcode(v.typ), v.slot)
}

func loadOpcode(t *Type) Opcode {
	switch {
	case t.isIntLike():
		return ILOAD
	case t == typeLong:
		return LLOAD
	case t == typeDouble:
		return DLOAD
	}
	return ALOAD
}

func storeOpcode(t *Type) Opcode {
	switch {
	case t.isIntLike():
		return ISTORE
	case t == typeLong:
		return LSTORE
	case t == typeDouble:
		return DSTORE
	}
	return ASTORE
}

// zero pushes the default value of t
func (g *generator) zero(t *Type) {
	switch {
	case t.isIntLike():
		g.out.AddOneArgInstruction(LDC, int32(0))
	case t == typeLong:
		g.out.AddOneArgInstruction(LDC, int64(0))
	case t == typeDouble:
		g.out.AddOneArgInstruction(LDC, float64(0))
	default:
		g.out.AddNoArgInstruction(ACONST_NULL)
	}
}

func (g *generator) visitExprStmt(stmt *exprStmt) R {
	g.value(stmt.expression)
	if stmt.expression.exprType() != typeVoid {
		g.out.AddNoArgInstruction(POP)
	}
	return nil
}

func (g *generator) visitVarStmt(stmt *varStmt) R {
	if stmt.initializer != nil {
		g.value(stmt.initializer)
	} else {
		g.zero(stmt.local.typ)
	}
	g.store(stmt.local)
	return nil
}

func (g *generator) visitBlockStmt(stmt *blockStmt) R {
	for _, s := range stmt.stmts {
		s.accept(g)
	}
	return nil
}

func (g *generator) visitIfStmt(stmt *ifStmt) R {
	elseLabel := g.out.CreateLabel()
	g.cond(stmt.condition, elseLabel, false)
	stmt.thenBranch.accept(g)
	if stmt.elseBranch == nil {
		g.out.AddLabel(elseLabel)
		return nil
	}
	end := g.out.CreateLabel()
	g.out.AddBranchInstruction(GOTO, end)
	g.out.AddLabel(elseLabel)
	stmt.elseBranch.accept(g)
	g.out.AddLabel(end)
	return nil
}

func (g *generator) visitWhileStmt(stmt *whileStmt) R {
	test := g.out.CreateLabel()
	stmt.flow.continueLabel = g.out.CreateLabel()
	stmt.flow.breakLabel = g.out.CreateLabel()

	g.out.AddLabel(test)
	g.cond(stmt.condition, stmt.flow.breakLabel, false)
	stmt.body.accept(g)
	g.out.AddLabel(stmt.flow.continueLabel)
	g.out.AddBranchInstruction(GOTO, test)
	g.out.AddLabel(stmt.flow.breakLabel)
	return nil
}

func (g *generator) visitDoStmt(stmt *doStmt) R {
	bodyStart := g.out.CreateLabel()
	stmt.flow.continueLabel = g.out.CreateLabel()
	stmt.flow.breakLabel = g.out.CreateLabel()

	g.out.AddLabel(bodyStart)
	g.out.AddLabel(stmt.flow.continueLabel)
	stmt.body.accept(g)
	g.cond(stmt.condition, bodyStart, true)
	g.out.AddLabel(stmt.flow.breakLabel)
	return nil
}

func (g *generator) visitForStmt(stmt *forStmt) R {
	test := g.out.CreateLabel()
	stmt.flow.continueLabel = g.out.CreateLabel()
	stmt.flow.breakLabel = g.out.CreateLabel()

	for _, s := range stmt.init {
		s.accept(g)
	}
	g.out.AddLabel(test)
	if stmt.condition != nil {
		g.cond(stmt.condition, stmt.flow.breakLabel, false)
	}
	stmt.body.accept(g)
	g.out.AddLabel(stmt.flow.continueLabel)
	for _, s := range stmt.update {
		s.accept(g)
	}
	g.out.AddBranchInstruction(GOTO, test)
	g.out.AddLabel(stmt.flow.breakLabel)
	return nil
}

func (g *generator) visitSwitchStmt(stmt *switchStmt) R {
	g.value(stmt.condition)

	var values []int32
	var pairs []SwitchPair
	var dflt Label
	groupLabels := make([]Label, len(stmt.groups))
	for i, group := range stmt.groups {
		groupLabels[i] = g.out.CreateLabel()
		for _, v := range group.values {
			values = append(values, v)
			pairs = append(pairs, SwitchPair{Value: v, Target: groupLabels[i]})
		}
		if group.isDefault {
			dflt = groupLabels[i]
		}
	}
	implicitDefault := dflt == 0
	if implicitDefault {
		dflt = g.out.CreateLabel()
	}
	if stmt.flow.hasBreak {
		stmt.flow.breakLabel = g.out.CreateLabel()
	}

	plan := chooseDispatch(values)
	g.state.log.WithFields(plan.fields()).WithField("line", stmt.keyword.line).Debug("switch dispatch")
	emitDispatch(g.out, plan, pairs, dflt)

	for i, group := range stmt.groups {
		g.out.AddLabel(groupLabels[i])
		for _, s := range group.block {
			s.accept(g)
		}
	}
	if implicitDefault {
		g.out.AddLabel(dflt)
	}
	if stmt.flow.hasBreak {
		g.out.AddLabel(stmt.flow.breakLabel)
	}
	return nil
}

func (g *generator) visitBreakStmt(stmt *breakStmt) R {
	if stmt.target == nil || stmt.target.breakLabel == 0 {
		fatalInvariant("break on line %d has no target label", stmt.keyword.line)
	}
	g.out.AddBranchInstruction(GOTO, stmt.target.breakLabel)
	return nil
}

func (g *generator) visitContinueStmt(stmt *continueStmt) R {
	if stmt.target == nil || stmt.target.continueLabel == 0 {
		fatalInvariant("continue on line %d has no target label", stmt.keyword.line)
	}
	g.out.AddBranchInstruction(GOTO, stmt.target.continueLabel)
	return nil
}

func (g *generator) visitReturnStmt(stmt *returnStmt) R {
	g.out.AddNoArgInstruction(RETURN)
	return nil
}

func (g *generator) visitThrowStmt(stmt *throwStmt) R {
	g.value(stmt.value)
	g.out.AddNoArgInstruction(ATHROW)
	return nil
}

// visitTryStmt lays the finally block out inline after the try block and
// after every catch block, plus once more as a catch-all handler that
// rethrows whatever escaped
func (g *generator) visitTryStmt(stmt *tryStmt) R {
	tryStart := g.out.CreateLabel()
	tryEnd := g.out.CreateLabel()
	end := g.out.CreateLabel()
	hasFinally := stmt.finallyBlock != nil

	g.out.AddLabel(tryStart)
	stmt.tryBlock.accept(g)
	g.out.AddLabel(tryEnd)
	if hasFinally {
		stmt.finallyBlock.accept(g)
	}
	g.out.AddBranchInstruction(GOTO, end)

	handlers := make([]Label, len(stmt.catches))
	catchEnds := make([]Label, len(stmt.catches))
	for i, clause := range stmt.catches {
		handlers[i] = g.out.CreateLabel()
		catchEnds[i] = g.out.CreateLabel()

		g.out.AddLabel(handlers[i])
		g.store(clause.param)
		clause.block.accept(g)
		g.out.AddLabel(catchEnds[i])
		if hasFinally {
			stmt.finallyBlock.accept(g)
		}
		g.out.AddBranchInstruction(GOTO, end)

		g.out.AddExceptionHandler(tryStart, tryEnd, handlers[i], clause.param.typ.jvmName)
	}

	if hasFinally {
		finallyHandler := g.out.CreateLabel()
		finallyBody := g.out.CreateLabel()

		g.out.AddLabel(finallyHandler)
		g.out.AddOneArgInstruction(ASTORE, stmt.finallySlot)
		g.out.AddLabel(finallyBody)
		stmt.finallyBlock.accept(g)
		g.out.AddOneArgInstruction(ALOAD, stmt.finallySlot)
		g.out.AddNoArgInstruction(ATHROW)

		g.out.AddExceptionHandler(tryStart, tryEnd, finallyHandler, "")
		for i := range stmt.catches {
			g.out.AddExceptionHandler(handlers[i], catchEnds[i], finallyHandler, "")
		}
		g.out.AddExceptionHandler(finallyHandler, finallyBody, finallyHandler, "")
	}

	g.out.AddLabel(end)
	return nil
}

func (g *generator) visitEmptyStmt(stmt *emptyStmt) R {
	return nil
}

func (g *generator) visitLiteralExpr(expr *literalExpr) R {
	switch v := expr.value.(type) {
	case nil:
		g.out.AddNoArgInstruction(ACONST_NULL)
	case bool:
		g.out.AddOneArgInstruction(LDC, boolValue(v))
	default:
		g.out.AddOneArgInstruction(LDC, v)
	}
	return nil
}

func boolValue(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (g *generator) visitVariableExpr(expr *variableExpr) R {
	g.load(expr.local)
	return nil
}

func (g *generator) visitAssignExpr(expr *assignExpr) R {
	target := expr.target.local
	if expr.operator.token == tokens.ASSIGN {
		g.value(expr.value)
	} else {
		g.load(target)
		g.value(expr.value)
		g.operator(compoundOperators[expr.operator.token], target.typ, expr.value.exprType())
	}
	g.out.AddNoArgInstruction(DUP)
	g.store(target)
	return nil
}

func (g *generator) visitBinaryExpr(expr *binaryExpr) R {
	if _, comparison := intCompare[expr.operator.token]; comparison {
		g.materialize(expr)
		return nil
	}
	g.value(expr.left)
	g.value(expr.right)
	g.operator(expr.operator.token, expr.left.exprType(), expr.right.exprType())
	return nil
}

var arithmetic = map[tokens.TokenType][3]Opcode{
	tokens.PLUS:    {IADD, LADD, DADD},
	tokens.MINUS:   {ISUB, LSUB, DSUB},
	tokens.STAR:    {IMUL, LMUL, DMUL},
	tokens.DIV:     {IDIV, LDIV, DDIV},
	tokens.REM:     {IREM, LREM, DREM},
	tokens.AND:     {IAND, LAND, NOP},
	tokens.OR:      {IOR, LOR, NOP},
	tokens.XOR:     {IXOR, LXOR, NOP},
	tokens.ALSHIFT: {ISHL, LSHL, NOP},
	tokens.ARSHIFT: {ISHR, LSHR, NOP},
	tokens.LRSHIFT: {IUSHR, LUSHR, NOP},
}

func typeIndex(t *Type) int {
	switch t {
	case typeLong:
		return 1
	case typeDouble:
		return 2
	}
	return 0
}

// operator applies op to the two values on top of the stack
func (g *generator) operator(op tokens.TokenType, left, right *Type) {
	if op == tokens.PLUS && (left == typeString || right == typeString) {
		g.out.AddOneArgInstruction(INVOKESTATIC, concatMethod(left, right))
		return
	}
	ops, ok := arithmetic[op]
	if !ok || ops[typeIndex(left)] == NOP {
		fatalInvariant("no instruction for %s on %s", op, left)
	}
	g.out.AddNoArgInstruction(ops[typeIndex(left)])
}

func (g *generator) visitLogicalExpr(expr *logicalExpr) R {
	g.materialize(expr)
	return nil
}

func (g *generator) visitUnaryExpr(expr *unaryExpr) R {
	t := expr.exprType()
	switch expr.operator.token {
	case tokens.LNOT:
		g.materialize(expr)
	case tokens.MINUS:
		g.value(expr.right)
		g.out.AddNoArgInstruction([3]Opcode{INEG, LNEG, DNEG}[typeIndex(t)])
	case tokens.NOT:
		g.value(expr.right)
		if t == typeLong {
			g.out.AddOneArgInstruction(LDC, int64(-1))
			g.out.AddNoArgInstruction(LXOR)
		} else {
			g.out.AddOneArgInstruction(LDC, int32(-1))
			g.out.AddNoArgInstruction(IXOR)
		}
	default:
		fatalInvariant("unary operator %s", expr.operator.token)
	}
	return nil
}

func (g *generator) visitIncrementExpr(expr *incrementExpr) R {
	t := expr.target.local.typ
	g.load(expr.target.local)
	if !expr.prefix {
		g.out.AddNoArgInstruction(DUP)
	}
	switch t {
	case typeLong:
		g.out.AddOneArgInstruction(LDC, int64(1))
	case typeDouble:
		g.out.AddOneArgInstruction(LDC, float64(1))
	default:
		g.out.AddOneArgInstruction(LDC, int32(1))
	}
	op := tokens.PLUS
	if expr.operator.token == tokens.DEC {
		op = tokens.MINUS
	}
	g.operator(op, t, t)
	if expr.prefix {
		g.out.AddNoArgInstruction(DUP)
	}
	g.store(expr.target.local)
	return nil
}

func (g *generator) visitConditionalExpr(expr *conditionalExpr) R {
	elseLabel := g.out.CreateLabel()
	end := g.out.CreateLabel()
	g.cond(expr.condition, elseLabel, false)
	g.value(expr.thenPart)
	g.out.AddBranchInstruction(GOTO, end)
	g.out.AddLabel(elseLabel)
	g.value(expr.elsePart)
	g.out.AddLabel(end)
	return nil
}

func (g *generator) visitNewExpr(expr *newExpr) R {
	g.out.AddOneArgInstruction(NEW, expr.exprType().jvmName)
	return nil
}

func (g *generator) visitCallExpr(expr *callExpr) R {
	for _, arg := range expr.arguments {
		g.value(arg)
	}
	g.out.AddOneArgInstruction(INVOKESTATIC, expr.method)
	return nil
}

func (g *generator) visitGroupingExpr(expr *groupingExpr) R {
	g.value(expr.expression)
	return nil
}

// materialize pushes 1 or 0 for a boolean expression generated as a branch
func (g *generator) materialize(e expr) {
	falseLabel := g.out.CreateLabel()
	end := g.out.CreateLabel()
	g.cond(e, falseLabel, false)
	g.out.AddOneArgInstruction(LDC, int32(1))
	g.out.AddBranchInstruction(GOTO, end)
	g.out.AddLabel(falseLabel)
	g.out.AddOneArgInstruction(LDC, int32(0))
	g.out.AddLabel(end)
}

var intCompare = map[tokens.TokenType]Opcode{
	tokens.EQUAL:     IF_ICMPEQ,
	tokens.NOT_EQUAL: IF_ICMPNE,
	tokens.LT:        IF_ICMPLT,
	tokens.GE:        IF_ICMPGE,
	tokens.GT:        IF_ICMPGT,
	tokens.LE:        IF_ICMPLE,
}

var zeroCompare = map[tokens.TokenType]Opcode{
	tokens.EQUAL:     IFEQ,
	tokens.NOT_EQUAL: IFNE,
	tokens.LT:        IFLT,
	tokens.GE:        IFGE,
	tokens.GT:        IFGT,
	tokens.LE:        IFLE,
}

// cond branches to target when e evaluates to onTrue and falls through
// otherwise
func (g *generator) cond(e expr, target Label, onTrue bool) {
	switch e := e.(type) {
	case *groupingExpr:
		g.cond(e.expression, target, onTrue)
		return
	case *literalExpr:
		if b, ok := e.value.(bool); ok {
			if b == onTrue {
				g.out.AddBranchInstruction(GOTO, target)
			}
			return
		}
	case *unaryExpr:
		if e.operator.token == tokens.LNOT {
			g.cond(e.right, target, !onTrue)
			return
		}
	case *logicalExpr:
		and := e.operator.token == tokens.LAND
		if and == onTrue {
			skip := g.out.CreateLabel()
			g.cond(e.left, skip, !onTrue)
			g.cond(e.right, target, onTrue)
			g.out.AddLabel(skip)
		} else {
			g.cond(e.left, target, onTrue)
			g.cond(e.right, target, onTrue)
		}
		return
	case *binaryExpr:
		if _, ok := intCompare[e.operator.token]; ok {
			g.compare(e, target, onTrue)
			return
		}
	}
	g.value(e)
	if onTrue {
		g.out.AddBranchInstruction(IFNE, target)
	} else {
		g.out.AddBranchInstruction(IFEQ, target)
	}
}

func (g *generator) compare(e *binaryExpr, target Label, onTrue bool) {
	op := e.operator.token
	g.value(e.left)
	g.value(e.right)

	var branch Opcode
	switch t := e.operandType; {
	case t.isIntLike():
		branch = intCompare[op]
	case t == typeLong:
		g.out.AddNoArgInstruction(LCMP)
		branch = zeroCompare[op]
	case t == typeDouble:
		if op == tokens.LT || op == tokens.LE {
			g.out.AddNoArgInstruction(DCMPG)
		} else {
			g.out.AddNoArgInstruction(DCMPL)
		}
		branch = zeroCompare[op]
	default:
		branch = IF_ACMPEQ
		if op == tokens.NOT_EQUAL {
			branch = IF_ACMPNE
		}
	}
	if !onTrue {
		branch = negated[branch]
	}
	g.out.AddBranchInstruction(branch, target)
}
