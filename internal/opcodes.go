package internal

// Opcode is a symbolic instruction of the target machine
type Opcode int

const (
	NOP Opcode = iota
	ACONST_NULL
	LDC

	ILOAD
	LLOAD
	DLOAD
	ALOAD
	ISTORE
	LSTORE
	DSTORE
	ASTORE

	POP
	DUP

	IADD
	LADD
	DADD
	ISUB
	LSUB
	DSUB
	IMUL
	LMUL
	DMUL
	IDIV
	LDIV
	DDIV
	IREM
	LREM
	DREM
	INEG
	LNEG
	DNEG
	ISHL
	LSHL
	ISHR
	LSHR
	IUSHR
	LUSHR
	IAND
	LAND
	IOR
	LOR
	IXOR
	LXOR

	LCMP
	DCMPL
	DCMPG

	IFEQ
	IFNE
	IFLT
	IFGE
	IFGT
	IFLE
	IF_ICMPEQ
	IF_ICMPNE
	IF_ICMPLT
	IF_ICMPGE
	IF_ICMPGT
	IF_ICMPLE
	IF_ACMPEQ
	IF_ACMPNE
	GOTO

	TABLESWITCH
	LOOKUPSWITCH

	NEW
	ATHROW
	INVOKESTATIC
	RETURN
)

var opcodeNames = map[Opcode]string{
	NOP:          "NOP",
	ACONST_NULL:  "ACONST_NULL",
	LDC:          "LDC",
	ILOAD:        "ILOAD",
	LLOAD:        "LLOAD",
	DLOAD:        "DLOAD",
	ALOAD:        "ALOAD",
	ISTORE:       "ISTORE",
	LSTORE:       "LSTORE",
	DSTORE:       "DSTORE",
	ASTORE:       "ASTORE",
	POP:          "POP",
	DUP:          "DUP",
	IADD:         "IADD",
	LADD:         "LADD",
	DADD:         "DADD",
	ISUB:         "ISUB",
	LSUB:         "LSUB",
	DSUB:         "DSUB",
	IMUL:         "IMUL",
	LMUL:         "LMUL",
	DMUL:         "DMUL",
	IDIV:         "IDIV",
	LDIV:         "LDIV",
	DDIV:         "DDIV",
	IREM:         "IREM",
	LREM:         "LREM",
	DREM:         "DREM",
	INEG:         "INEG",
	LNEG:         "LNEG",
	DNEG:         "DNEG",
	ISHL:         "ISHL",
	LSHL:         "LSHL",
	ISHR:         "ISHR",
	LSHR:         "LSHR",
	IUSHR:        "IUSHR",
	LUSHR:        "LUSHR",
	IAND:         "IAND",
	LAND:         "LAND",
	IOR:          "IOR",
	LOR:          "LOR",
	IXOR:         "IXOR",
	LXOR:         "LXOR",
	LCMP:         "LCMP",
	DCMPL:        "DCMPL",
	DCMPG:        "DCMPG",
	IFEQ:         "IFEQ",
	IFNE:         "IFNE",
	IFLT:         "IFLT",
	IFGE:         "IFGE",
	IFGT:         "IFGT",
	IFLE:         "IFLE",
	IF_ICMPEQ:    "IF_ICMPEQ",
	IF_ICMPNE:    "IF_ICMPNE",
	IF_ICMPLT:    "IF_ICMPLT",
	IF_ICMPGE:    "IF_ICMPGE",
	IF_ICMPGT:    "IF_ICMPGT",
	IF_ICMPLE:    "IF_ICMPLE",
	IF_ACMPEQ:    "IF_ACMPEQ",
	IF_ACMPNE:    "IF_ACMPNE",
	GOTO:         "GOTO",
	TABLESWITCH:  "TABLESWITCH",
	LOOKUPSWITCH: "LOOKUPSWITCH",
	NEW:          "NEW",
	ATHROW:       "ATHROW",
	INVOKESTATIC: "INVOKESTATIC",
	RETURN:       "RETURN",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "???"
}

// negated maps a conditional branch to the branch taken on the opposite
// outcome
var negated = map[Opcode]Opcode{
	IFEQ:      IFNE,
	IFNE:      IFEQ,
	IFLT:      IFGE,
	IFGE:      IFLT,
	IFGT:      IFLE,
	IFLE:      IFGT,
	IF_ICMPEQ: IF_ICMPNE,
	IF_ICMPNE: IF_ICMPEQ,
	IF_ICMPLT: IF_ICMPGE,
	IF_ICMPGE: IF_ICMPLT,
	IF_ICMPGT: IF_ICMPLE,
	IF_ICMPLE: IF_ICMPGT,
	IF_ACMPEQ: IF_ACMPNE,
	IF_ACMPNE: IF_ACMPEQ,
}

func (op Opcode) isBranch() bool {
	_, conditional := negated[op]
	return conditional || op == GOTO
}
