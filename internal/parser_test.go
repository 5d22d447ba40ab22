package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func parseSource(source string) *compilationState {
	state := newTestState(source)
	newLexer(state).scan()
	(&parser{state: state}).parse()
	return state
}

func TestParseTree(t *testing.T) {
	cases := []struct {
		source   string
		expected string
	}{
		{"int x = 1, y;", "(var int x 1)\n(var int y)\n"},
		{"java.io.IOException e = null;", "(var java.io.IOException e null)\n"},
		{
			"for (int i = 0; i < n; i++) x += i;",
			"(for (init (var int i 0)) (< i n) (update (i ++)) (+= x i))\n",
		},
		{"for (;;) { }", "(for (init) () (update) (scope))\n"},
		{"do x--; while (x > 0);", "(do (x --) (> x 0))\n"},
		{"while (true) continue;", "(while true (continue))\n"},
		{"if (a) b(); else { }", "(if a (call b) (scope))\n"},
		{
			"switch (x) { case 1: case 2: break; default: y = -1; }",
			"(switch x (group (1 2) (break)) (group (default) (= y -1)))\n",
		},
		{
			"try { throw new Exception(); } catch (java.io.IOException e) { } finally { }",
			"(try (scope (throw (new Exception))) (catch java.io.IOException e (scope)) (finally (scope)))\n",
		},
		{"a = b ? 1 : c ? 2 : 3;", "(= a (? b 1 (? c 2 3)))\n"},
		{"a = b = c;", "(= a (= b c))\n"},
		{"x = 1 + 2 * 3 << 1 - 4 % 2;", "(= x (<< (+ 1 (* 2 3)) (- 1 (% 4 2))))\n"},
		{
			"b = a < 1 == c & d | e ^ f && g || h;",
			"(= b (|| (&& (| (& (== (< a 1) c) d) (^ e f)) g) h))\n",
		},
		{"println(-x, !y, ~z, ++i, (j));", "(call println (- x) (! y) (~ z) (++ i) (group j))\n"},
		{"x = 1 - -2;", "(= x (- 1 -2))\n"},
		{"(x) = 2;", "(= x 2)\n"},
		{"return; ;", "(return)\n()\n"},
	}
	for _, c := range cases {
		t.Run(c.source, func(t *testing.T) {
			state := parseSource(c.source)
			if !state.Valid() {
				t.Fatalf("unexpected errors %v", state.diagnostics)
			}
			if diff := cmp.Diff(c.expected, printTree(state.stmts)); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		source string
		err    error
	}{
		{"int x = ;", errExpectedExpression},
		{"x = 1", errExpectedSemicolon},
		{"1 = x;", errInvalidAssignTarget},
		{"5++;", errInvalidAssignTarget},
		{"try { }", errExpectedCatchOrFinally},
		{"switch (x) { x }", errUnexpectedToken},
		{"switch (x) { case 1 }", errExpectedColon},
		{"if x) { }", errExpectedOpeningParen},
		{"while (x { }", errUnclosedParen},
		{"do { } (x);", errExpectedWhile},
		{"try catch (Exception e) { }", errExpectedOpeningCurlyBrace},
		{"x = new ();", errExpectedType},
		{"int;", errExpectedIdentifier},
		{"x = class;", errUnsupported},
	}
	for _, c := range cases {
		t.Run(c.source, func(t *testing.T) {
			state := parseSource(c.source)
			if state.errorCount() != 1 {
				t.Fatalf("expected one error, found %v", state.diagnostics)
			}
			d := state.diagnostics[0]
			if d.phase != phaseSyntax {
				t.Errorf("expected a syntax error, found a %s one", d.phase)
			}
			if cause := errors.Cause(d.err); cause != c.err {
				t.Errorf("expected %v, found %v", c.err, d.err)
			}
		})
	}
}

func TestSyntaxErrorRecovery(t *testing.T) {
	state := parseSource("int x = ;\nint y = 2;\nz = ;\nprintln(y);")
	if state.errorCount() != 2 {
		t.Fatalf("expected two errors, found %v", state.diagnostics)
	}
	if state.diagnostics[0].line != 1 || state.diagnostics[1].line != 3 {
		t.Errorf("unexpected lines %d and %d", state.diagnostics[0].line, state.diagnostics[1].line)
	}
	if diff := cmp.Diff("(var int y 2)\n(call println y)\n", printTree(state.stmts)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	state := parseSource("int x = 1\nx = 2;")
	if len(state.diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, found %v", state.diagnostics)
	}
	expected := `test.j:2: error: Expected ';': found "x"`
	if got := state.formatDiagnostic(state.diagnostics[0]); got != expected {
		t.Errorf("expected %q, found %q", expected, got)
	}

	state = parseSource("x = (1")
	expected = "test.j:1: error: Expected ')': found end of file"
	if got := state.formatDiagnostic(state.diagnostics[0]); got != expected {
		t.Errorf("expected %q, found %q", expected, got)
	}
}
