package internal

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func opcodes(code *listing) []Opcode {
	out := make([]Opcode, len(code.code))
	for i, ins := range code.code {
		out[i] = ins.op
	}
	return out
}

func TestWhileLayout(t *testing.T) {
	unit, _ := compileSource(t, "int i = 0; while (i < 3) { i++; }")
	want := []Opcode{
		LDC, ISTORE,
		ILOAD, LDC, IF_ICMPGE,
		ILOAD, DUP, LDC, IADD, ISTORE, POP,
		GOTO,
		RETURN,
	}
	if diff := cmp.Diff(want, opcodes(unit.code)); diff != "" {
		t.Fatalf("opcodes mismatch (-want +got):\n%s", diff)
	}
	if pc := unit.code.pc(unit.code.code[11].target); pc != 2 {
		t.Errorf("loop jumps back to %d instead of the condition test", pc)
	}
	if pc := unit.code.pc(unit.code.code[4].target); pc != 12 {
		t.Errorf("loop exits to %d instead of the instruction after it", pc)
	}
}

func TestDoLayout(t *testing.T) {
	unit, _ := compileSource(t, "int i = 0; do { i += 1; } while (i != 5);")
	want := []Opcode{
		LDC, ISTORE,
		ILOAD, LDC, IADD, DUP, ISTORE, POP,
		ILOAD, LDC, IF_ICMPNE,
		RETURN,
	}
	if diff := cmp.Diff(want, opcodes(unit.code)); diff != "" {
		t.Fatalf("opcodes mismatch (-want +got):\n%s", diff)
	}
	if pc := unit.code.pc(unit.code.code[10].target); pc != 2 {
		t.Errorf("do loop jumps back to %d instead of the body start", pc)
	}
}

func TestForLayout(t *testing.T) {
	unit, _ := compileSource(t, "for (int i = 0; i < 2; i++) { continue; }")
	want := []Opcode{
		LDC, ISTORE,
		ILOAD, LDC, IF_ICMPGE,
		GOTO,
		ILOAD, DUP, LDC, IADD, ISTORE, POP,
		GOTO,
		RETURN,
	}
	if diff := cmp.Diff(want, opcodes(unit.code)); diff != "" {
		t.Fatalf("opcodes mismatch (-want +got):\n%s", diff)
	}
	if pc := unit.code.pc(unit.code.code[5].target); pc != 6 {
		t.Errorf("continue jumps to %d instead of the update", pc)
	}
	if pc := unit.code.pc(unit.code.code[12].target); pc != 2 {
		t.Errorf("loop jumps back to %d instead of the condition test", pc)
	}
}

func TestShortCircuitConditions(t *testing.T) {
	unit, _ := compileSource(t, "int a = 1; if (a > 0 && !(a == 2) || a < -5) { a = 9; }")
	want := []Opcode{
		LDC, ISTORE,
		ILOAD, LDC, IF_ICMPLE,
		ILOAD, LDC, IF_ICMPNE,
		ILOAD, LDC, IF_ICMPGE,
		LDC, DUP, ISTORE, POP,
		RETURN,
	}
	if diff := cmp.Diff(want, opcodes(unit.code)); diff != "" {
		t.Fatalf("opcodes mismatch (-want +got):\n%s", diff)
	}
}

func TestSwitchLayout(t *testing.T) {
	unit, _ := compileSource(t, `
int x = 2;
switch (x) {
case 1:
case 2:
	x = 10;
	break;
case 3:
	x = 30;
}`)
	code := unit.code
	dispatch := code.code[3]
	if dispatch.op != TABLESWITCH || dispatch.lo != 1 || dispatch.hi != 3 {
		t.Fatalf("expected a dense dispatch over 1..3, found %s", dispatch)
	}
	first, second := dispatch.targets[0], dispatch.targets[2]
	if dispatch.targets[1] != first {
		t.Error("labels of one group should share a target")
	}
	if code.pc(first) != 4 {
		t.Errorf("first group starts at %d", code.pc(first))
	}
	brk := code.code[code.pc(second)-1]
	if brk.op != GOTO {
		t.Fatalf("expected the break before the second group, found %s", brk)
	}
	end := len(code.code) - 1
	if code.pc(brk.target) != end || code.pc(dispatch.dflt) != end {
		t.Errorf("break and the implicit default must both land after the last group")
	}
}

func TestTryLayout(t *testing.T) {
	unit, _ := compileSource(t, `
int a = 0;
try {
	a = 1;
} catch (ArithmeticException e) {
	a = 2;
} finally {
	a = 3;
}`)
	code := unit.code
	if len(code.handlers) != 4 {
		t.Fatalf("expected 4 exception table entries, found %d:\n%s", len(code.handlers), code)
	}
	caught, tryAll, catchAll, self := code.handlers[0], code.handlers[1], code.handlers[2], code.handlers[3]

	if caught.exceptionType != "java/lang/ArithmeticException" {
		t.Errorf("unexpected catch type %s", caught.exceptionType)
	}
	if caught.start != tryAll.start || caught.end != tryAll.end {
		t.Error("the catch and the finally handler must protect the same try range")
	}
	for _, h := range []handlerEntry{tryAll, catchAll, self} {
		if h.exceptionType != "" || h.handler != tryAll.handler {
			t.Errorf("entry %v should be a catch-all to the finally handler", h)
		}
	}
	if catchAll.start != caught.handler {
		t.Error("the catch block is protected from its first instruction")
	}
	if self.start != self.handler || code.pc(self.end)-code.pc(self.start) != 1 {
		t.Error("the finally handler protects only its capture instruction")
	}
	if ins := code.code[code.pc(self.handler)]; ins.op != ASTORE {
		t.Errorf("finally handler starts with %s", ins)
	}

	// the finally block appears inline after the try and catch blocks and
	// once in the handler
	stores := strings.Count(code.String(), "LDC 3\n")
	if stores != 3 {
		t.Errorf("expected 3 copies of the finally block, found %d", stores)
	}
}

func TestTryWithoutFinally(t *testing.T) {
	unit, _ := compileSource(t, `try { println(1); } catch (Exception e) { }`)
	if len(unit.code.handlers) != 1 {
		t.Fatalf("expected only the catch entry, found %d", len(unit.code.handlers))
	}
	for _, ins := range unit.code.code {
		if ins.op == ATHROW {
			t.Error("no rethrow without a finally block")
		}
	}
}

func TestGenerationSkippedOnErrors(t *testing.T) {
	tp := &testPrinter{}
	unit, err := Compile("test.j", "while (1) { break; }", tp, testOptions())
	if err != ErrCompilation {
		t.Fatalf("expected a compilation error, found %v", err)
	}
	if unit.code != nil || unit.Listing() != "" {
		t.Error("nothing is generated for an invalid unit")
	}
	if unit.Run() != ErrCompilation {
		t.Error("an invalid unit cannot run")
	}
}

func TestListingString(t *testing.T) {
	unit, _ := compileSource(t, `switch (1) { case 1: case 9: break; } try { } finally { }`)
	out := unit.Listing()
	for _, want := range []string{"LOOKUPSWITCH 2 {1:L", "exception table:", " any\n", "RETURN"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing has no %q:\n%s", want, out)
		}
	}
}
