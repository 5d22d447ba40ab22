package main

import (
	"fmt"
	"go/format"
	"log"
	"os"
	"strings"
)

//go:generate sh -c "go run . Stmt > ../../internal/stmt.go && go run . Expr > ../../internal/expr.go"

func main() {
	if len(os.Args) != 2 {
		log.Fatal("Usage: ast Stmt|Expr")
	}
	var out string
	switch os.Args[1] {
	case "Stmt":
		out = generateAst("Stmt", nil, []string{
			"Expr: last *token, expression expr",
			"Var: typeName *token, name *token, initializer expr, local *localVar",
			"Block: brace *token, stmts []stmt",
			"If: keyword *token, condition expr, thenBranch stmt, elseBranch stmt",
			"While: keyword *token, condition expr, body stmt, flow *flow",
			"Do: keyword *token, body stmt, condition expr, flow *flow",
			"For: keyword *token, init []stmt, condition expr, update []stmt, body stmt, flow *flow",
			"Switch: keyword *token, condition expr, groups []*switchGroup, flow *flow",
			"Break: keyword *token, target *flow",
			"Continue: keyword *token, target *flow",
			"Return: keyword *token, value expr",
			"Throw: keyword *token, value expr",
			"Try: keyword *token, tryBlock *blockStmt, catches []*catchClause, finallyBlock *blockStmt, finallySlot int",
			"Empty: semi *token",
		})
	case "Expr":
		out = generateAst("Expr", []string{"exprType() *Type"}, []string{
			"Literal: token *token, value interface{}",
			"Variable: name *token, local *localVar",
			"Assign: operator *token, target *variableExpr, value expr",
			"Binary: left expr, operator *token, right expr, operandType *Type",
			"Logical: left expr, operator *token, right expr",
			"Unary: operator *token, right expr",
			"Increment: operator *token, target *variableExpr, prefix bool",
			"Conditional: question *token, condition expr, thenPart expr, elsePart expr",
			"New: keyword *token, className *token",
			"Call: name *token, arguments []expr, method *methodRef",
			"Grouping: expression expr",
		})
	default:
		log.Fatalf("unknown node kind %q", os.Args[1])
	}
	src, err := format.Source([]byte(out))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(src))
}

func generateAst(baseName string, extraMethods []string, types []string) string {
	lower := strings.ToLower(baseName)
	out := "package internal\n\n"

	// Start base interface
	out += "type " + lower + " interface {\n"
	out += "\taccept(" + lower + "Visitor) R\n"
	for _, m := range extraMethods {
		out += "\t" + m + "\n"
	}
	out += "}\n\n"
	// End base interface

	// Start Visitor interface
	out += fmt.Sprintf("type %sVisitor interface {\n", lower)
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		name := strings.TrimSpace(typeDef[0])
		structType := strings.ToLower(string(name[0])) + name[1:] + baseName
		out += "\tvisit" + name + baseName + "(" + lower + " *" + structType + ") R\n"
	}
	out += "}\n\n"
	// End Visitor interface

	// Expressions carry the type given to them by analysis
	embedded := ""
	if len(extraMethods) > 0 {
		embedded = "typed"
	}

	// Start structs
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		structName := strings.TrimSpace(typeDef[0])
		structFields := strings.TrimSpace(typeDef[1])
		out += generateType(baseName, structName, embedded, structFields)
	}
	// End structs

	return out
}

func generateType(baseName, name, embedded, fields string) string {
	// Start Structure Definition
	structName := strings.ToLower(string(name[0])) + name[1:] + baseName
	out := "type " + structName + " struct {\n"
	if embedded != "" {
		out += "\t" + embedded + "\n"
	}
	for _, field := range strings.Split(fields, ",") {
		out += "\t" + strings.TrimSpace(field) + "\n"
	}
	out += "}\n\n"
	// End Structure Definition

	// Start Method Definition
	out += "func (s *" + structName + ") accept(visitor " + strings.ToLower(baseName) + "Visitor) R {\n"
	out += "\treturn visitor.visit" + name + baseName + "(s)\n"
	out += "}\n\n"
	// End Method Definition

	return out
}
