package internal

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrStepLimit is returned when a run executes more instructions than
// allowed
var ErrStepLimit = errors.New("step limit exceeded")

// UncaughtException is returned when a thrown value finds no handler
type UncaughtException struct {
	Class string
	PC    int
}

func (e *UncaughtException) Error() string {
	return "uncaught exception " + e.Class
}

// exec runs a resolved listing on an operand stack machine. Every value
// takes one stack slot and one local slot.
type exec struct {
	code    *listing
	printer IPrinter
	log     *logrus.Entry

	locals []interface{}
	stack  []interface{}
	pc     int

	steps    int
	maxSteps int
}

func newExec(code *listing, maxLocals int, printer IPrinter, log *logrus.Entry, maxSteps int) *exec {
	return &exec{
		code:     code,
		printer:  printer,
		log:      log,
		locals:   make([]interface{}, maxLocals),
		stack:    make([]interface{}, 0, 16),
		maxSteps: maxSteps,
	}
}

func (e *exec) interpret() error {
	for e.pc < len(e.code.code) {
		if e.maxSteps > 0 && e.steps >= e.maxSteps {
			return errors.Wrapf(ErrStepLimit, "after %d instructions", e.steps)
		}
		e.steps++

		ins := e.code.code[e.pc]
		e.pc++
		if thrown := e.step(ins); thrown != nil {
			if !e.unwind(thrown, e.pc-1) {
				return &UncaughtException{Class: thrown.String(), PC: e.pc - 1}
			}
		}
	}
	e.log.WithField("steps", e.steps).Debug("executed")
	return nil
}

// unwind transfers control to the first handler covering pc that accepts
// the thrown object
func (e *exec) unwind(thrown *object, pc int) bool {
	for _, h := range e.code.handlers {
		if pc < e.code.pc(h.start) || pc >= e.code.pc(h.end) {
			continue
		}
		if h.exceptionType != "" && !thrown.class.isSubclassOf(classByJVMName(h.exceptionType)) {
			continue
		}
		e.stack = append(e.stack[:0], thrown)
		e.pc = e.code.pc(h.handler)
		e.log.WithFields(logrus.Fields{
			"exception": thrown,
			"handler":   h.handler,
		}).Debug("caught")
		return true
	}
	return false
}

func (e *exec) push(v interface{}) {
	e.stack = append(e.stack, v)
}

func (e *exec) pop() interface{} {
	if len(e.stack) == 0 {
		fatalInvariant("operand stack underflow at %d", e.pc-1)
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v
}

func (e *exec) popInt() int32 {
	return e.pop().(int32)
}

func (e *exec) popLong() int64 {
	return e.pop().(int64)
}

func (e *exec) popDouble() float64 {
	return e.pop().(float64)
}

func (e *exec) jump(target Label) {
	e.pc = e.code.pc(target)
}

func throwable(class *Type) *object {
	return &object{class: class}
}

// step executes one instruction and returns the object it throws, if any
func (e *exec) step(ins instruction) *object {
	switch ins.op {
	case NOP:
	case ACONST_NULL:
		e.push(nil)
	case LDC:
		e.push(ins.arg)
	case ILOAD, LLOAD, DLOAD, ALOAD:
		e.push(e.locals[ins.arg.(int)])
	case ISTORE, LSTORE, DSTORE, ASTORE:
		e.locals[ins.arg.(int)] = e.pop()
	case POP:
		e.pop()
	case DUP:
		v := e.pop()
		e.push(v)
		e.push(v)

	case IADD, ISUB, IMUL, IDIV, IREM, IAND, IOR, IXOR, ISHL, ISHR, IUSHR:
		b, a := e.popInt(), e.popInt()
		if (ins.op == IDIV || ins.op == IREM) && b == 0 {
			return throwable(typeArithmeticException)
		}
		e.push(intArithmetic(ins.op, a, b))
	case LADD, LSUB, LMUL, LDIV, LREM, LAND, LOR, LXOR:
		b, a := e.popLong(), e.popLong()
		if (ins.op == LDIV || ins.op == LREM) && b == 0 {
			return throwable(typeArithmeticException)
		}
		e.push(longArithmetic(ins.op, a, b))
	case LSHL, LSHR, LUSHR:
		b, a := e.popInt(), e.popLong()
		e.push(longShift(ins.op, a, b))
	case DADD, DSUB, DMUL, DDIV, DREM:
		b, a := e.popDouble(), e.popDouble()
		e.push(doubleArithmetic(ins.op, a, b))
	case INEG:
		e.push(-e.popInt())
	case LNEG:
		e.push(-e.popLong())
	case DNEG:
		e.push(-e.popDouble())

	case LCMP:
		b, a := e.popLong(), e.popLong()
		switch {
		case a < b:
			e.push(int32(-1))
		case a > b:
			e.push(int32(1))
		default:
			e.push(int32(0))
		}
	case DCMPL, DCMPG:
		b, a := e.popDouble(), e.popDouble()
		switch {
		case math.IsNaN(a) || math.IsNaN(b):
			if ins.op == DCMPG {
				e.push(int32(1))
			} else {
				e.push(int32(-1))
			}
		case a < b:
			e.push(int32(-1))
		case a > b:
			e.push(int32(1))
		default:
			e.push(int32(0))
		}

	case IFEQ, IFNE, IFLT, IFGE, IFGT, IFLE:
		if compareInts(ins.op, e.popInt(), 0) {
			e.jump(ins.target)
		}
	case IF_ICMPEQ, IF_ICMPNE, IF_ICMPLT, IF_ICMPGE, IF_ICMPGT, IF_ICMPLE:
		b, a := e.popInt(), e.popInt()
		if compareInts(ins.op, a, b) {
			e.jump(ins.target)
		}
	case IF_ACMPEQ, IF_ACMPNE:
		b, a := e.pop(), e.pop()
		if (a == b) == (ins.op == IF_ACMPEQ) {
			e.jump(ins.target)
		}
	case GOTO:
		e.jump(ins.target)

	case TABLESWITCH:
		key := e.popInt()
		if key < ins.lo || key > ins.hi {
			e.jump(ins.dflt)
		} else {
			e.jump(ins.targets[int64(key)-int64(ins.lo)])
		}
	case LOOKUPSWITCH:
		key := e.popInt()
		i := sort.Search(len(ins.pairs), func(i int) bool { return ins.pairs[i].Value >= key })
		if i < len(ins.pairs) && ins.pairs[i].Value == key {
			e.jump(ins.pairs[i].Target)
		} else {
			e.jump(ins.dflt)
		}

	case NEW:
		class := classByJVMName(ins.arg.(string))
		if class == nil {
			fatalInvariant("unknown class %s", ins.arg)
		}
		e.push(&object{class: class})
	case ATHROW:
		switch v := e.pop().(type) {
		case nil:
			return throwable(typeNullPointerException)
		case *object:
			return v
		default:
			fatalInvariant("throwing %T", v)
		}
	case INVOKESTATIC:
		e.invoke(ins.arg.(*methodRef))
	case RETURN:
		e.pc = len(e.code.code)
	default:
		fatalInvariant("cannot execute %s", ins.op)
	}
	return nil
}

func (e *exec) invoke(m *methodRef) {
	native, ok := natives[m.name]
	if !ok || m.owner != runtimeClass {
		fatalInvariant("unknown method %s", m)
	}
	params, result := m.signature()
	arguments := make([]interface{}, len(params))
	for i := len(params) - 1; i >= 0; i-- {
		arguments[i] = e.pop()
	}
	v := native.call(e, params, arguments)
	if result != typeVoid {
		e.push(v)
	}
}

func intArithmetic(op Opcode, a, b int32) int32 {
	switch op {
	case IADD:
		return a + b
	case ISUB:
		return a - b
	case IMUL:
		return a * b
	case IDIV:
		return a / b
	case IREM:
		return a % b
	case IAND:
		return a & b
	case IOR:
		return a | b
	case IXOR:
		return a ^ b
	case ISHL:
		return a << uint(b&31)
	case ISHR:
		return a >> uint(b&31)
	case IUSHR:
		return int32(uint32(a) >> uint(b&31))
	}
	fatalInvariant("not an int operation: %s", op)
	return 0
}

func longArithmetic(op Opcode, a, b int64) int64 {
	switch op {
	case LADD:
		return a + b
	case LSUB:
		return a - b
	case LMUL:
		return a * b
	case LDIV:
		return a / b
	case LREM:
		return a % b
	case LAND:
		return a & b
	case LOR:
		return a | b
	case LXOR:
		return a ^ b
	}
	fatalInvariant("not a long operation: %s", op)
	return 0
}

func longShift(op Opcode, a int64, b int32) int64 {
	switch op {
	case LSHL:
		return a << uint(b&63)
	case LSHR:
		return a >> uint(b&63)
	case LUSHR:
		return int64(uint64(a) >> uint(b&63))
	}
	fatalInvariant("not a long shift: %s", op)
	return 0
}

func doubleArithmetic(op Opcode, a, b float64) float64 {
	switch op {
	case DADD:
		return a + b
	case DSUB:
		return a - b
	case DMUL:
		return a * b
	case DDIV:
		return a / b
	case DREM:
		return math.Mod(a, b)
	}
	fatalInvariant("not a double operation: %s", op)
	return 0
}

func compareInts(op Opcode, a, b int32) bool {
	switch op {
	case IFEQ, IF_ICMPEQ:
		return a == b
	case IFNE, IF_ICMPNE:
		return a != b
	case IFLT, IF_ICMPLT:
		return a < b
	case IFGE, IF_ICMPGE:
		return a >= b
	case IFGT, IF_ICMPGT:
		return a > b
	case IFLE, IF_ICMPLE:
		return a <= b
	}
	fatalInvariant("not an int comparison: %s", op)
	return false
}
