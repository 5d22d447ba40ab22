package internal

// typed holds the type given to an expression by analysis
type typed struct {
	typ *Type
}

func (t *typed) exprType() *Type {
	if t.typ == nil {
		return typeAny
	}
	return t.typ
}

// switchGroup is a run of case labels sharing one block, a nil label is
// the default
type switchGroup struct {
	labels []expr
	block  []stmt

	values    []int32
	isDefault bool
}

type catchClause struct {
	typeName *token
	name     *token
	block    *blockStmt

	param *localVar
}
