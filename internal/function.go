package internal

import (
	"fmt"
	"os"
	"strings"
)

// runtimeClass owns the static methods provided by the executor
const runtimeClass = "jmm/Runtime"

// methodRef names a static method the way INVOKESTATIC refers to it
type methodRef struct {
	owner      string
	name       string
	descriptor string
}

func (m *methodRef) String() string {
	return fmt.Sprintf("%s.%s%s", m.owner, m.name, m.descriptor)
}

func (m *methodRef) signature() ([]*Type, *Type) {
	return parseDescriptor(m.descriptor)
}

type nativeFn struct {
	callFn func(exec *exec, params []*Type, arguments []interface{}) interface{}
}

func (n *nativeFn) call(exec *exec, params []*Type, arguments []interface{}) interface{} {
	return n.callFn(exec, params, arguments)
}

var natives = map[string]*nativeFn{
	"println": {
		callFn: func(exec *exec, params []*Type, arguments []interface{}) interface{} {
			if len(arguments) == 0 {
				exec.printer.Println()
				return nil
			}
			exec.printer.Println(formatValue(arguments[0], params[0]))
			return nil
		},
	},
	"print": {
		callFn: func(exec *exec, params []*Type, arguments []interface{}) interface{} {
			exec.printer.Fprintf(os.Stdout, "%s", formatValue(arguments[0], params[0]))
			return nil
		},
	},
	"concat": {
		callFn: func(exec *exec, params []*Type, arguments []interface{}) interface{} {
			return formatValue(arguments[0], params[0]) + formatValue(arguments[1], params[1])
		},
	},
}

// builtinMethod resolves a call written in source to a runtime method
func builtinMethod(name string, arguments []*Type) (*methodRef, error) {
	switch name {
	case "println":
		if len(arguments) > 1 {
			return nil, withDetail(errArity, "%s takes at most one argument", name)
		}
	case "print":
		if len(arguments) != 1 {
			return nil, withDetail(errArity, "%s takes one argument", name)
		}
	default:
		return nil, withDetail(errUnknownMethod, "%s", name)
	}
	for _, t := range arguments {
		if t == typeVoid {
			return nil, withDetail(errOperandType, "cannot print a void value")
		}
	}
	return &methodRef{
		owner:      runtimeClass,
		name:       name,
		descriptor: methodDescriptor(arguments, typeVoid),
	}, nil
}

func concatMethod(left, right *Type) *methodRef {
	return &methodRef{
		owner:      runtimeClass,
		name:       "concat",
		descriptor: methodDescriptor([]*Type{left, right}, typeString),
	}
}

func methodDescriptor(params []*Type, result *Type) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		sb.WriteString(descriptorOf(p))
	}
	sb.WriteByte(')')
	sb.WriteString(descriptorOf(result))
	return sb.String()
}

func descriptorOf(t *Type) string {
	if t.descriptor == "" {
		return typeObject.descriptor
	}
	return t.descriptor
}

// parseDescriptor splits a method descriptor into its parameter and
// result types
func parseDescriptor(descriptor string) ([]*Type, *Type) {
	if !strings.HasPrefix(descriptor, "(") {
		fatalInvariant("malformed descriptor %q", descriptor)
	}
	var params []*Type
	rest := descriptor[1:]
	for !strings.HasPrefix(rest, ")") {
		t, n := descriptorType(rest)
		params = append(params, t)
		rest = rest[n:]
	}
	result, _ := descriptorType(rest[1:])
	return params, result
}

func descriptorType(s string) (*Type, int) {
	if s == "" {
		fatalInvariant("truncated descriptor")
	}
	if s[0] == 'L' {
		end := strings.IndexByte(s, ';')
		if end < 0 {
			fatalInvariant("malformed descriptor %q", s)
		}
		t := classByJVMName(s[1:end])
		if t == nil {
			fatalInvariant("unknown class in descriptor %q", s)
		}
		return t, end + 1
	}
	for _, t := range primitives {
		if t.descriptor == s[:1] {
			return t, 1
		}
	}
	fatalInvariant("malformed descriptor %q", s)
	return nil, 0
}
