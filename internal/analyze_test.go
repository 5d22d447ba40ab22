package internal

import (
	"testing"

	"github.com/pkg/errors"
)

func analyzeSource(t *testing.T, source string) *compilationState {
	t.Helper()
	state := newTestState(source)
	newLexer(state).scan()
	(&parser{state: state}).parse()
	if !state.Valid() {
		t.Fatalf("parsing failed: %v", state.diagnostics)
	}
	newAnalyzer(state).analyze()
	return state
}

func semanticCauses(state *compilationState) []error {
	var causes []error
	for _, d := range state.diagnostics {
		if d.phase == phaseSemantic && d.severity == sevError {
			causes = append(causes, errors.Cause(d.err))
		}
	}
	return causes
}

func TestBreakBindsInnermost(t *testing.T) {
	state := analyzeSource(t, `
while (true) {
	for (;;) {
		switch (1) {
		case 1:
			break;
		}
		break;
	}
	do {
		break;
	} while (false);
	break;
}`)
	if !state.Valid() {
		t.Fatalf("unexpected errors %v", state.diagnostics)
	}

	outer := state.stmts[0].(*whileStmt)
	outerBody := outer.body.(*blockStmt)
	loop := outerBody.stmts[0].(*forStmt)
	loopBody := loop.body.(*blockStmt)
	sw := loopBody.stmts[0].(*switchStmt)
	doLoop := outerBody.stmts[1].(*doStmt)

	checks := []struct {
		name   string
		brk    *breakStmt
		target *flow
	}{
		{"switch", sw.groups[0].block[0].(*breakStmt), sw.flow},
		{"for", loopBody.stmts[1].(*breakStmt), loop.flow},
		{"do", doLoop.body.(*blockStmt).stmts[0].(*breakStmt), doLoop.flow},
		{"while", outerBody.stmts[2].(*breakStmt), outer.flow},
	}
	for _, c := range checks {
		if c.brk.target != c.target {
			t.Errorf("break in %s bound to the wrong frame", c.name)
		}
		if !c.target.hasBreak {
			t.Errorf("%s frame should record a break", c.name)
		}
	}
}

func TestContinueSkipsSwitch(t *testing.T) {
	state := analyzeSource(t, `
int i = 0;
while (i < 3) {
	i++;
	switch (i) {
	case 1:
		continue;
	default:
		break;
	}
}`)
	if !state.Valid() {
		t.Fatalf("unexpected errors %v", state.diagnostics)
	}
	loop := state.stmts[1].(*whileStmt)
	sw := loop.body.(*blockStmt).stmts[1].(*switchStmt)
	cont := sw.groups[0].block[0].(*continueStmt)
	if cont.target != loop.flow {
		t.Error("continue should bind to the enclosing loop")
	}
	if !loop.flow.hasContinue || sw.flow.hasContinue {
		t.Error("only the loop records the continue")
	}
	if !sw.flow.hasBreak || loop.flow.hasBreak {
		t.Error("only the switch records the break")
	}
}

func TestSwitchLabels(t *testing.T) {
	state := analyzeSource(t, `
int x = 3;
switch (x) {
case -1:
case 2:
	x = 0;
default:
case 7:
	x = 1;
}`)
	if !state.Valid() {
		t.Fatalf("unexpected errors %v", state.diagnostics)
	}
	sw := state.stmts[1].(*switchStmt)
	if len(sw.groups) != 2 {
		t.Fatalf("expected two groups, found %d", len(sw.groups))
	}
	first, second := sw.groups[0], sw.groups[1]
	if len(first.values) != 2 || first.values[0] != -1 || first.values[1] != 2 || first.isDefault {
		t.Errorf("unexpected first group %v", first.values)
	}
	if len(second.values) != 1 || second.values[0] != 7 || !second.isDefault {
		t.Errorf("unexpected second group %v", second.values)
	}
}

func TestSemanticErrors(t *testing.T) {
	cases := []struct {
		source string
		err    error
	}{
		{"break;", errBreakOutside},
		{"continue;", errContinueOutside},
		{"switch (1) { case 1: continue; }", errContinueOutside},
		{"int x = 1; switch (x) { case 1: case 1: break; }", errDuplicateCase},
		{"switch (1) { case 2: break; case 2: break; }", errDuplicateCase},
		{"switch (1) { default: default: }", errDuplicateDefault},
		{"int x = 1; switch (x) { case x: break; }", errCaseNotLiteral},
		{"switch (1) { case 'a': break; }", errCaseNotLiteral},
		{"long y = 1L; switch (y) { case 1: break; }", errTypeMismatch},
		{"while (1) { }", errTypeMismatch},
		{"do { } while (1);", errTypeMismatch},
		{"for (; 1; ) { }", errTypeMismatch},
		{"int x = true ? 1 : \"s\";", errTypeMismatch},
		{"int x = 1 ? 1 : 2;", errTypeMismatch},
		{"throw 1;", errTypeMismatch},
		{"return 1;", errTypeMismatch},
		{"String s = 1;", errTypeMismatch},
		{"try { } catch (String e) { }", errNotThrowable},
		{"try { } catch (Foo e) { }", errUnknownType},
		{"Foo f;", errUnknownType},
		{"int x = 1; int x = 2;", errRedeclaredVar},
		{"int x = 1; { int x = 2; }", errRedeclaredVar},
		{"int e = 0; try { } catch (Exception e) { }", errRedeclaredVar},
		{"y = 1;", errUndefinedVar},
		{"int x = x;", errUndefinedVar},
		{"{ int z = 1; } z = 2;", errUndefinedVar},
		{"int x = 2147483648;", errIntRange},
		{"long x = 9223372036854775808L;", errIntRange},
		{"int x = 1 + 1L;", errOperandType},
		{"boolean b = 1 < true;", errOperandType},
		{"int x = -true;", errOperandType},
		{"boolean b = !1;", errOperandType},
		{"double d = ~1.0;", errOperandType},
		{"boolean b = true; b++;", errOperandType},
		{"foo();", errUnknownMethod},
		{"println(1, 2);", errArity},
		{"print();", errArity},
		{"Object o = new String();", errNotClass},
	}
	for _, c := range cases {
		t.Run(c.source, func(t *testing.T) {
			state := analyzeSource(t, c.source)
			causes := semanticCauses(state)
			if len(causes) != 1 {
				t.Fatalf("expected one semantic error, found %v", state.diagnostics)
			}
			if causes[0] != c.err {
				t.Errorf("expected %v, found %v", c.err, state.diagnostics[0].err)
			}
		})
	}
}

func TestValidPrograms(t *testing.T) {
	sources := []string{
		"int x = -2147483648;",
		"long x = -9223372036854775808L;",
		"for (int i = 0; i < 3; i++) { } int i = 0;",
		"{ int a = 1; } { int a = 2; }",
		"try { } catch (Exception e) { } catch (Error e) { }",
		"Exception e = null; Throwable t = e; Object o = t;",
		"String s = \"a\" + 1; s += 'c';",
		"boolean b = 1 < 2 & 2 < 3 ^ false;",
		"Throwable t = true ? new Exception() : null;",
		"long n = 1L; n = n << 3; n >>>= 1;",
		"char c = 'a'; boolean b = c < 'z';",
		"try { throw new java.io.IOException(); } catch (java.io.IOException e) { }",
		"return;",
		";;",
	}
	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			state := analyzeSource(t, source)
			if !state.Valid() {
				t.Errorf("unexpected errors %v", state.diagnostics)
			}
		})
	}
}

func TestLocalSlots(t *testing.T) {
	state := newTestState("int a = 1; { long b = 2L; } try { } catch (Exception e) { } finally { }")
	newLexer(state).scan()
	(&parser{state: state}).parse()
	analyzer := newAnalyzer(state)
	analyzer.analyze()
	if !state.Valid() {
		t.Fatalf("unexpected errors %v", state.diagnostics)
	}

	a := state.stmts[0].(*varStmt).local
	b := state.stmts[1].(*blockStmt).stmts[0].(*varStmt).local
	try := state.stmts[2].(*tryStmt)
	slots := []int{a.slot, b.slot, try.catches[0].param.slot, try.finallySlot}
	for i, slot := range slots {
		if slot != i {
			t.Errorf("expected slot %d, found %d", i, slot)
		}
	}
	if analyzer.env.maxLocals() != 4 {
		t.Errorf("expected 4 locals, found %d", analyzer.env.maxLocals())
	}
}
