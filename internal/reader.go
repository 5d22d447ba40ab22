package internal

import (
	"fmt"
	"strings"
)

//R generic type
type R interface{}

// printTree renders the parsed statements one per line
func printTree(stmts []stmt) string {
	var sb strings.Builder
	for _, s := range stmts {
		sb.WriteString(s.accept(stringVisitor{}).(string))
		sb.WriteByte('\n')
	}
	return sb.String()
}

type stringVisitor struct{}

func (v stringVisitor) str(e expr) string {
	return e.accept(v).(string)
}

func (v stringVisitor) stmts(prefix string, stmts []stmt) string {
	out := "(" + prefix
	for _, s := range stmts {
		out += " " + s.accept(v).(string)
	}
	return out + ")"
}

func (v stringVisitor) visitExprStmt(stmt *exprStmt) R {
	return v.str(stmt.expression)
}

func (v stringVisitor) visitVarStmt(stmt *varStmt) R {
	if stmt.initializer == nil {
		return fmt.Sprintf("(var %s %s)", stmt.typeName.lexeme, stmt.name.lexeme)
	}
	return fmt.Sprintf("(var %s %s %s)", stmt.typeName.lexeme, stmt.name.lexeme, v.str(stmt.initializer))
}

func (v stringVisitor) visitBlockStmt(stmt *blockStmt) R {
	return v.stmts("scope", stmt.stmts)
}

func (v stringVisitor) visitIfStmt(stmt *ifStmt) R {
	out := fmt.Sprintf("(if %s %v", v.str(stmt.condition), stmt.thenBranch.accept(v))
	if stmt.elseBranch != nil {
		out += fmt.Sprintf(" %v", stmt.elseBranch.accept(v))
	}
	return out + ")"
}

func (v stringVisitor) visitWhileStmt(stmt *whileStmt) R {
	return fmt.Sprintf("(while %s %v)", v.str(stmt.condition), stmt.body.accept(v))
}

func (v stringVisitor) visitDoStmt(stmt *doStmt) R {
	return fmt.Sprintf("(do %v %s)", stmt.body.accept(v), v.str(stmt.condition))
}

func (v stringVisitor) visitForStmt(stmt *forStmt) R {
	cond := "()"
	if stmt.condition != nil {
		cond = v.str(stmt.condition)
	}
	return fmt.Sprintf(
		"(for %s %s %s %v)",
		v.stmts("init", stmt.init),
		cond,
		v.stmts("update", stmt.update),
		stmt.body.accept(v),
	)
}

func (v stringVisitor) visitSwitchStmt(stmt *switchStmt) R {
	out := "(switch " + v.str(stmt.condition)
	for _, group := range stmt.groups {
		out += " (group ("
		for i, label := range group.labels {
			if i > 0 {
				out += " "
			}
			if label == nil {
				out += "default"
			} else {
				out += v.str(label)
			}
		}
		out += ")"
		for _, s := range group.block {
			out += fmt.Sprintf(" %v", s.accept(v))
		}
		out += ")"
	}
	return out + ")"
}

func (v stringVisitor) visitBreakStmt(stmt *breakStmt) R {
	return "(break)"
}

func (v stringVisitor) visitContinueStmt(stmt *continueStmt) R {
	return "(continue)"
}

func (v stringVisitor) visitReturnStmt(stmt *returnStmt) R {
	if stmt.value == nil {
		return "(return)"
	}
	return fmt.Sprintf("(return %s)", v.str(stmt.value))
}

func (v stringVisitor) visitThrowStmt(stmt *throwStmt) R {
	return fmt.Sprintf("(throw %s)", v.str(stmt.value))
}

func (v stringVisitor) visitTryStmt(stmt *tryStmt) R {
	out := fmt.Sprintf("(try %v", stmt.tryBlock.accept(v))
	for _, clause := range stmt.catches {
		out += fmt.Sprintf(" (catch %s %s %v)", clause.typeName.lexeme, clause.name.lexeme, clause.block.accept(v))
	}
	if stmt.finallyBlock != nil {
		out += fmt.Sprintf(" (finally %v)", stmt.finallyBlock.accept(v))
	}
	return out + ")"
}

func (v stringVisitor) visitEmptyStmt(stmt *emptyStmt) R {
	return "()"
}

func (v stringVisitor) visitLiteralExpr(expr *literalExpr) R {
	return expr.token.lexeme
}

func (v stringVisitor) visitVariableExpr(expr *variableExpr) R {
	return expr.name.lexeme
}

func (v stringVisitor) visitAssignExpr(expr *assignExpr) R {
	return fmt.Sprintf("(%s %s %s)", expr.operator.lexeme, expr.target.name.lexeme, v.str(expr.value))
}

func (v stringVisitor) visitBinaryExpr(expr *binaryExpr) R {
	return fmt.Sprintf("(%s %s %s)", expr.operator.lexeme, v.str(expr.left), v.str(expr.right))
}

func (v stringVisitor) visitLogicalExpr(expr *logicalExpr) R {
	return fmt.Sprintf("(%s %s %s)", expr.operator.lexeme, v.str(expr.left), v.str(expr.right))
}

func (v stringVisitor) visitUnaryExpr(expr *unaryExpr) R {
	return fmt.Sprintf("(%s %s)", expr.operator.lexeme, v.str(expr.right))
}

func (v stringVisitor) visitIncrementExpr(expr *incrementExpr) R {
	if expr.prefix {
		return fmt.Sprintf("(%s %s)", expr.operator.lexeme, expr.target.name.lexeme)
	}
	return fmt.Sprintf("(%s %s)", expr.target.name.lexeme, expr.operator.lexeme)
}

func (v stringVisitor) visitConditionalExpr(expr *conditionalExpr) R {
	return fmt.Sprintf("(? %s %s %s)", v.str(expr.condition), v.str(expr.thenPart), v.str(expr.elsePart))
}

func (v stringVisitor) visitNewExpr(expr *newExpr) R {
	return fmt.Sprintf("(new %s)", expr.className.lexeme)
}

func (v stringVisitor) visitCallExpr(expr *callExpr) R {
	out := "(call " + expr.name.lexeme
	for _, arg := range expr.arguments {
		out += " " + v.str(arg)
	}
	return out + ")"
}

func (v stringVisitor) visitGroupingExpr(expr *groupingExpr) R {
	return fmt.Sprintf("(group %s)", v.str(expr.expression))
}
