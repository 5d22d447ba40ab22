package internal

import "strings"

type typeKind int

const (
	kindPrimitive typeKind = iota
	kindReference
	kindNull
	kindVoid
	kindAny
)

// Type is a resolved type of the language
type Type struct {
	name       string
	jvmName    string
	descriptor string
	kind       typeKind
	super      *Type
}

var (
	typeInt     = &Type{name: "int", descriptor: "I", kind: kindPrimitive}
	typeLong    = &Type{name: "long", descriptor: "J", kind: kindPrimitive}
	typeDouble  = &Type{name: "double", descriptor: "D", kind: kindPrimitive}
	typeBoolean = &Type{name: "boolean", descriptor: "Z", kind: kindPrimitive}
	typeChar    = &Type{name: "char", descriptor: "C", kind: kindPrimitive}
	typeVoid    = &Type{name: "void", descriptor: "V", kind: kindVoid}
	typeNull    = &Type{name: "null", kind: kindNull}

	// typeAny is given to expressions that failed analysis, it matches
	// everything so one mistake is reported once
	typeAny = &Type{name: "<any>", kind: kindAny}

	typeObject                   = newClass("Object", "java/lang/Object", nil)
	typeString                   = newClass("String", "java/lang/String", typeObject)
	typeThrowable                = newClass("Throwable", "java/lang/Throwable", typeObject)
	typeException                = newClass("Exception", "java/lang/Exception", typeThrowable)
	typeError                    = newClass("Error", "java/lang/Error", typeThrowable)
	typeIOException              = newClass("IOException", "java/io/IOException", typeException)
	typeRuntimeException         = newClass("RuntimeException", "java/lang/RuntimeException", typeException)
	typeArithmeticException      = newClass("ArithmeticException", "java/lang/ArithmeticException", typeRuntimeException)
	typeNullPointerException     = newClass("NullPointerException", "java/lang/NullPointerException", typeRuntimeException)
	typeIllegalArgumentException = newClass("IllegalArgumentException", "java/lang/IllegalArgumentException", typeRuntimeException)
	typeIllegalStateException    = newClass("IllegalStateException", "java/lang/IllegalStateException", typeRuntimeException)
)

var primitives = map[string]*Type{
	"int":     typeInt,
	"long":    typeLong,
	"double":  typeDouble,
	"boolean": typeBoolean,
	"char":    typeChar,
	"void":    typeVoid,
}

var classes = map[string]*Type{}

func newClass(name, jvmName string, super *Type) *Type {
	t := &Type{
		name:       name,
		jvmName:    jvmName,
		descriptor: "L" + jvmName + ";",
		kind:       kindReference,
		super:      super,
	}
	classes[name] = t
	classes[strings.ReplaceAll(jvmName, "/", ".")] = t
	return t
}

// resolveType finds a type by its source name, simple or qualified
func resolveType(name string) (*Type, bool) {
	if t, ok := primitives[name]; ok {
		return t, true
	}
	t, ok := classes[name]
	return t, ok
}

func classByJVMName(jvmName string) *Type {
	return classes[strings.ReplaceAll(jvmName, "/", ".")]
}

func (t *Type) String() string {
	return t.name
}

func (t *Type) isReference() bool {
	return t.kind == kindReference || t.kind == kindNull
}

func (t *Type) isNumeric() bool {
	return t == typeInt || t == typeLong || t == typeDouble
}

func (t *Type) isIntegral() bool {
	return t == typeInt || t == typeLong
}

// isIntLike reports types kept as an int on the operand stack
func (t *Type) isIntLike() bool {
	return t == typeInt || t == typeBoolean || t == typeChar
}

func (t *Type) isSubclassOf(other *Type) bool {
	for c := t; c != nil; c = c.super {
		if c == other {
			return true
		}
	}
	return false
}

func (t *Type) isThrowable() bool {
	return t.kind == kindReference && t.isSubclassOf(typeThrowable)
}

// assignableTo reports whether a value of type t can be stored in a
// variable of type target
func (t *Type) assignableTo(target *Type) bool {
	switch {
	case t == typeAny || target == typeAny:
		return true
	case t == target:
		return true
	case t == typeNull:
		return target.kind == kindReference
	case t.kind == kindReference && target.kind == kindReference:
		return t.isSubclassOf(target)
	}
	return false
}
