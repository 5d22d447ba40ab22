package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"jmm/internal/tokens"
)

func newTestState(source string) *compilationState {
	return newCompilationState("test.j", source, &testPrinter{}, testOptions())
}

func scanSource(source string) ([]Token, *Lexer) {
	state := newTestState(source)
	lexer := newLexer(state)
	lexer.scan()
	return state.tokens, lexer
}

func kinds(tks []Token) []tokens.TokenType {
	out := make([]tokens.TokenType, len(tks))
	for i, tk := range tks {
		out[i] = tk.Kind()
	}
	return out
}

func TestNumericLiterals(t *testing.T) {
	cases := []struct {
		source string
		kinds  []tokens.TokenType
		lexes  []string
	}{
		{"3.14e-2d", []tokens.TokenType{tokens.DOUBLE_LITERAL}, []string{"3.14e-2d"}},
		{"10L", []tokens.TokenType{tokens.LONG_LITERAL}, []string{"10L"}},
		{"0", []tokens.TokenType{tokens.INT_LITERAL}, []string{"0"}},
		{"42", []tokens.TokenType{tokens.INT_LITERAL}, []string{"42"}},
		{".5", []tokens.TokenType{tokens.DOUBLE_LITERAL}, []string{".5"}},
		{"2.", []tokens.TokenType{tokens.DOUBLE_LITERAL}, []string{"2."}},
		{"1E+10", []tokens.TokenType{tokens.DOUBLE_LITERAL}, []string{"1E+10"}},
		{"7D", []tokens.TokenType{tokens.DOUBLE_LITERAL}, []string{"7D"}},
		{"1.5f", []tokens.TokenType{tokens.DOUBLE_LITERAL, tokens.IDENTIFIER}, []string{"1.5", "f"}},
		{"10L.5", []tokens.TokenType{tokens.LONG_LITERAL, tokens.DOUBLE_LITERAL}, []string{"10L", ".5"}},
		{"a.b", []tokens.TokenType{tokens.IDENTIFIER, tokens.DOT, tokens.IDENTIFIER}, []string{"a", ".", "b"}},
	}
	for _, c := range cases {
		t.Run(c.source, func(t *testing.T) {
			tks, lexer := scanSource(c.source)
			if lexer.ErrorHasOccurred() {
				t.Fatalf("unexpected lexical error")
			}
			want := append(c.kinds, tokens.EOF)
			if diff := cmp.Diff(want, kinds(tks)); diff != "" {
				t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
			}
			for i, lexeme := range c.lexes {
				if tks[i].Lexeme() != lexeme {
					t.Errorf("token %d: expected lexeme %q, found %q", i, lexeme, tks[i].Lexeme())
				}
			}
		})
	}
}

func TestOperatorsMaximalMunch(t *testing.T) {
	source := ">>>= >>= >>> >> >= > <<= << <= < ++ += + -- -= - && &= & || |= | == = != ! ~ ^ ^= ? : % %= * *= / /= , . ; [ ] { } ( )"
	want := []tokens.TokenType{
		tokens.LRSHIFT_ASSIGN, tokens.ARSHIFT_ASSIGN, tokens.LRSHIFT, tokens.ARSHIFT, tokens.GE, tokens.GT,
		tokens.ALSHIFT_ASSIGN, tokens.ALSHIFT, tokens.LE, tokens.LT,
		tokens.INC, tokens.PLUS_ASSIGN, tokens.PLUS, tokens.DEC, tokens.MINUS_ASSIGN, tokens.MINUS,
		tokens.LAND, tokens.AND_ASSIGN, tokens.AND, tokens.LOR, tokens.OR_ASSIGN, tokens.OR,
		tokens.EQUAL, tokens.ASSIGN, tokens.NOT_EQUAL, tokens.LNOT, tokens.NOT, tokens.XOR, tokens.XOR_ASSIGN,
		tokens.QUESTION, tokens.COLON, tokens.REM, tokens.REM_ASSIGN, tokens.STAR, tokens.STAR_ASSIGN,
		tokens.DIV, tokens.DIV_ASSIGN,
		tokens.COMMA, tokens.DOT, tokens.SEMI, tokens.LEFT_BRACK, tokens.RIGHT_BRACK,
		tokens.LEFT_CURLY, tokens.RIGHT_CURLY, tokens.LEFT_PAREN, tokens.RIGHT_PAREN,
		tokens.EOF,
	}
	tks, _ := scanSource(source)
	if diff := cmp.Diff(want, kinds(tks)); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}

	tks, _ = scanSource("a>>>=b")
	if diff := cmp.Diff([]string{"a", ">>>=", "b", ""}, []string{tks[0].Lexeme(), tks[1].Lexeme(), tks[2].Lexeme(), tks[3].Lexeme()}); diff != "" {
		t.Errorf("lexemes mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	tks, _ := scanSource("while whilex _a $b switch2 finally try catch")
	want := []tokens.TokenType{
		tokens.WHILE, tokens.IDENTIFIER, tokens.IDENTIFIER, tokens.IDENTIFIER, tokens.IDENTIFIER,
		tokens.FINALLY, tokens.TRY, tokens.CATCH, tokens.EOF,
	}
	if diff := cmp.Diff(want, kinds(tks)); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestCommentsAndLines(t *testing.T) {
	tks, lexer := scanSource("a // line comment\n/* block\n comment */ b\n\n  c")
	if lexer.ErrorHasOccurred() {
		t.Fatal("unexpected lexical error")
	}
	want := []tokens.TokenType{tokens.IDENTIFIER, tokens.IDENTIFIER, tokens.IDENTIFIER, tokens.EOF}
	if diff := cmp.Diff(want, kinds(tks)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	lines := []int{tks[0].Line(), tks[1].Line(), tks[2].Line()}
	if diff := cmp.Diff([]int{1, 3, 5}, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestUnterminatedBlockCommentWarns(t *testing.T) {
	state := newTestState("x /* never closed\n y")
	lexer := newLexer(state)
	lexer.scan()

	if diff := cmp.Diff([]tokens.TokenType{tokens.IDENTIFIER, tokens.EOF}, kinds(state.tokens)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if lexer.ErrorHasOccurred() || !state.Valid() {
		t.Error("an unterminated comment must not be an error")
	}
	if len(state.diagnostics) != 1 || state.diagnostics[0].severity != sevWarning {
		t.Fatalf("expected one warning, found %v", state.diagnostics)
	}
	if state.diagnostics[0].err != errUnclosedComment || state.diagnostics[0].line != 1 {
		t.Errorf("unexpected warning %v on line %d", state.diagnostics[0].err, state.diagnostics[0].line)
	}
}

func TestCharAndStringLiterals(t *testing.T) {
	tks, lexer := scanSource(`'a' '\n' '\\' "hi\tthere" "q\"uote" ""`)
	if lexer.ErrorHasOccurred() {
		t.Fatal("unexpected lexical error")
	}
	literals := make([]interface{}, 0)
	for _, tk := range tks[:len(tks)-1] {
		literals = append(literals, tk.literal)
	}
	want := []interface{}{'a', '\n', '\\', "hi\tthere", "q\"uote", ""}
	if diff := cmp.Diff(want, literals); diff != "" {
		t.Errorf("literals mismatch (-want +got):\n%s", diff)
	}
	if tks[3].Lexeme() != `"hi\tthere"` {
		t.Errorf("lexeme should keep the source text, found %s", tks[3].Lexeme())
	}
}

func TestLexicalErrors(t *testing.T) {
	cases := []struct {
		source string
		err    error
		kinds  []tokens.TokenType
	}{
		{`"abc`, errUnclosedStringEOF, []tokens.TokenType{tokens.STRING_LITERAL}},
		{"\"abc\nx", errUnclosedString, []tokens.TokenType{tokens.STRING_LITERAL, tokens.IDENTIFIER}},
		{`'ab'; x`, errUnclosedChar, []tokens.TokenType{tokens.CHAR_LITERAL, tokens.SEMI, tokens.IDENTIFIER}},
		{"'a\nx", errUnclosedChar, []tokens.TokenType{tokens.CHAR_LITERAL, tokens.IDENTIFIER}},
		{`a # b`, errIllegalChar, []tokens.TokenType{tokens.IDENTIFIER, tokens.IDENTIFIER}},
		{`"\q"`, errBadEscape, []tokens.TokenType{tokens.STRING_LITERAL}},
		{`1e+;`, errMalformedNumber, []tokens.TokenType{tokens.DOUBLE_LITERAL, tokens.SEMI}},
	}
	for _, c := range cases {
		t.Run(c.source, func(t *testing.T) {
			state := newTestState(c.source)
			lexer := newLexer(state)
			lexer.scan()
			if !lexer.ErrorHasOccurred() {
				t.Fatal("expected a lexical error")
			}
			if len(state.diagnostics) != 1 {
				t.Fatalf("expected one diagnostic, found %v", state.diagnostics)
			}
			if cause := errors.Cause(state.diagnostics[0].err); cause != c.err {
				t.Errorf("expected %v, found %v", c.err, cause)
			}
			if diff := cmp.Diff(append(c.kinds, tokens.EOF), kinds(state.tokens)); diff != "" {
				t.Errorf("scanning did not resume (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSeveralLexicalErrorsInOnePass(t *testing.T) {
	state := newTestState("# \n @ \n int x;")
	newLexer(state).scan()
	if state.errorCount() != 2 {
		t.Fatalf("expected two errors, found %d", state.errorCount())
	}
	if state.diagnostics[0].line != 1 || state.diagnostics[1].line != 2 {
		t.Errorf("unexpected lines %d and %d", state.diagnostics[0].line, state.diagnostics[1].line)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lexer := newLexer(newTestState("x"))
	if tk := lexer.NextToken(); tk.Kind() != tokens.IDENTIFIER {
		t.Fatalf("expected identifier, found %s", tk.Kind())
	}
	for i := 0; i < 3; i++ {
		if tk := lexer.NextToken(); tk.Kind() != tokens.EOF {
			t.Fatalf("call %d after the end returned %s", i, tk.Kind())
		}
	}
	if lexer.FileName() != "test.j" {
		t.Errorf("unexpected file name %s", lexer.FileName())
	}
}
