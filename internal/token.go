package internal

import (
	"fmt"

	"jmm/internal/tokens"
)

// Token is a lexical unit produced by the lexer
type Token struct {
	token   tokens.TokenType
	lexeme  string
	literal interface{}
	line    int
}

type token = Token

// Kind returns the token type
func (t Token) Kind() tokens.TokenType {
	return t.token
}

// Lexeme returns the source text of the token
func (t Token) Lexeme() string {
	return t.lexeme
}

// Line returns the source line the token starts on
func (t Token) Line() int {
	return t.line
}

func (t Token) String() string {
	if t.token.IsLiteral() || t.token == tokens.IDENTIFIER {
		return fmt.Sprintf("%d\t%s\t%s", t.line, t.token, t.lexeme)
	}
	return fmt.Sprintf("%d\t%s", t.line, t.lexeme)
}
