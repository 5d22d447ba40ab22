package internal

import (
	"strings"

	"jmm/internal/tokens"
)

const eofCh rune = -1

// Lexer turns source text into tokens, one token per call to NextToken.
// Lexical errors are reported to the compilation state and scanning goes on,
// so a single pass collects every lexical error of the unit.
type Lexer struct {
	state *compilationState

	source    []rune
	start     int
	current   int
	line      int
	startLine int

	inError bool
}

func newLexer(state *compilationState) *Lexer {
	return &Lexer{
		state:  state,
		source: []rune(state.source),
		line:   1,
	}
}

// scan fills the state token list, the last token is always EOF
func (l *Lexer) scan() {
	for {
		tk := l.NextToken()
		l.state.tokens = append(l.state.tokens, tk)
		if tk.token == tokens.EOF {
			break
		}
	}
	l.state.log.WithField("tokens", len(l.state.tokens)).Debug("scan finished")
}

// ErrorHasOccurred returns true once any lexical error has been reported
func (l *Lexer) ErrorHasOccurred() bool {
	return l.inError
}

// FileName returns the name of the source being scanned
func (l *Lexer) FileName() string {
	return l.state.fileName
}

// NextToken scans and returns the next token. After the end of input it
// keeps returning EOF.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	l.start = l.current
	l.startLine = l.line

	c := l.advance()
	switch c {
	case eofCh:
		return l.emit(tokens.EOF)
	case ',':
		return l.emit(tokens.COMMA)
	case ':':
		return l.emit(tokens.COLON)
	case ';':
		return l.emit(tokens.SEMI)
	case '[':
		return l.emit(tokens.LEFT_BRACK)
	case ']':
		return l.emit(tokens.RIGHT_BRACK)
	case '{':
		return l.emit(tokens.LEFT_CURLY)
	case '}':
		return l.emit(tokens.RIGHT_CURLY)
	case '(':
		return l.emit(tokens.LEFT_PAREN)
	case ')':
		return l.emit(tokens.RIGHT_PAREN)
	case '~':
		return l.emit(tokens.NOT)
	case '?':
		return l.emit(tokens.QUESTION)
	case '.':
		if isDigit(l.peek()) {
			return l.fraction()
		}
		return l.emit(tokens.DOT)
	case '/':
		return l.either('=', tokens.DIV_ASSIGN, tokens.DIV)
	case '%':
		return l.either('=', tokens.REM_ASSIGN, tokens.REM)
	case '*':
		return l.either('=', tokens.STAR_ASSIGN, tokens.STAR)
	case '^':
		return l.either('=', tokens.XOR_ASSIGN, tokens.XOR)
	case '=':
		return l.either('=', tokens.EQUAL, tokens.ASSIGN)
	case '!':
		return l.either('=', tokens.NOT_EQUAL, tokens.LNOT)
	case '+':
		if l.match('+') {
			return l.emit(tokens.INC)
		}
		return l.either('=', tokens.PLUS_ASSIGN, tokens.PLUS)
	case '-':
		if l.match('-') {
			return l.emit(tokens.DEC)
		}
		return l.either('=', tokens.MINUS_ASSIGN, tokens.MINUS)
	case '&':
		if l.match('&') {
			return l.emit(tokens.LAND)
		}
		return l.either('=', tokens.AND_ASSIGN, tokens.AND)
	case '|':
		if l.match('|') {
			return l.emit(tokens.LOR)
		}
		return l.either('=', tokens.OR_ASSIGN, tokens.OR)
	case '<':
		if l.match('<') {
			return l.either('=', tokens.ALSHIFT_ASSIGN, tokens.ALSHIFT)
		}
		return l.either('=', tokens.LE, tokens.LT)
	case '>':
		if l.match('>') {
			if l.match('>') {
				return l.either('=', tokens.LRSHIFT_ASSIGN, tokens.LRSHIFT)
			}
			return l.either('=', tokens.ARSHIFT_ASSIGN, tokens.ARSHIFT)
		}
		return l.either('=', tokens.GE, tokens.GT)
	case '\'':
		return l.char()
	case '"':
		return l.string()
	}

	if isDigit(c) {
		return l.number()
	}
	if isIdentifierStart(c) {
		return l.identifier()
	}

	l.error(withDetail(errIllegalChar, "'%c'", c))
	return l.NextToken()
}

func (l *Lexer) skipWhitespace() {
	for {
		c := l.peek()
		switch {
		case isWhitespace(c):
			l.advance()
		case c == '/' && l.peekNext() == '/':
			for l.peek() != '\n' && l.peek() != eofCh {
				l.advance()
			}
		case c == '/' && l.peekNext() == '*':
			line := l.line
			l.advance()
			l.advance()
			if !l.skipBlockComment() {
				l.state.warning(phaseLexical, errUnclosedComment, line)
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipBlockComment() bool {
	for l.peek() != eofCh {
		if l.advance() == '*' && l.peek() == '/' {
			l.advance()
			return true
		}
	}
	return false
}

// number scans an integer, long or double literal. A long suffix right after
// the digits ends the literal, no fraction or exponent is looked for.
func (l *Lexer) number() Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	if isLongSuffix(l.peek()) {
		l.advance()
		return l.emit(tokens.LONG_LITERAL)
	}

	double := false
	if l.peek() == '.' {
		l.advance()
		double = true
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.exponent() {
		double = true
	}
	if isDoubleSuffix(l.peek()) {
		l.advance()
		double = true
	}

	if double {
		return l.emit(tokens.DOUBLE_LITERAL)
	}
	return l.emit(tokens.INT_LITERAL)
}

// fraction scans the rest of a double literal that starts with '.'
func (l *Lexer) fraction() Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	l.exponent()
	if isDoubleSuffix(l.peek()) {
		l.advance()
	}
	return l.emit(tokens.DOUBLE_LITERAL)
}

func (l *Lexer) exponent() bool {
	if c := l.peek(); c != 'e' && c != 'E' {
		return false
	}
	l.advance()
	if c := l.peek(); c == '+' || c == '-' {
		l.advance()
	}
	if !isDigit(l.peek()) {
		l.error(withDetail(errMalformedNumber, "%s", string(l.source[l.start:l.current])))
	}
	for isDigit(l.peek()) {
		l.advance()
	}
	return true
}

func (l *Lexer) identifier() Token {
	for isIdentifierPart(l.peek()) {
		l.advance()
	}
	if kind, ok := tokens.Keywords[string(l.source[l.start:l.current])]; ok {
		return l.emit(kind)
	}
	return l.emit(tokens.IDENTIFIER)
}

func (l *Lexer) char() Token {
	var value rune
	switch c := l.peek(); {
	case c == '\\':
		l.advance()
		value, _ = l.escape()
	case c == '\n' || c == eofCh:
	default:
		value = l.advance()
	}

	if l.match('\'') {
		return l.emitLiteral(tokens.CHAR_LITERAL, value)
	}

	l.error(withDetail(errUnclosedChar, "found %s", describe(l.peek())))
	for c := l.peek(); c != '\'' && c != ';' && c != '\n' && c != eofCh; c = l.peek() {
		l.advance()
	}
	l.match('\'')
	return l.emitLiteral(tokens.CHAR_LITERAL, value)
}

func (l *Lexer) string() Token {
	var sb strings.Builder
	for c := l.peek(); c != '"' && c != '\n' && c != eofCh; c = l.peek() {
		if c == '\\' {
			l.advance()
			if r, ok := l.escape(); ok {
				sb.WriteRune(r)
			}
			continue
		}
		sb.WriteRune(l.advance())
	}

	switch l.peek() {
	case '\n':
		l.error(errUnclosedString)
	case eofCh:
		l.error(errUnclosedStringEOF)
	default:
		l.advance()
	}

	return l.emitLiteral(tokens.STRING_LITERAL, sb.String())
}

func (l *Lexer) escape() (rune, bool) {
	c := l.peek()
	var r rune
	switch c {
	case 'b':
		r = '\b'
	case 't':
		r = '\t'
	case 'n':
		r = '\n'
	case 'f':
		r = '\f'
	case 'r':
		r = '\r'
	case '"':
		r = '"'
	case '\'':
		r = '\''
	case '\\':
		r = '\\'
	default:
		l.error(withDetail(errBadEscape, "\\%s", describe(c)))
		if c != '\n' && c != eofCh {
			l.advance()
		}
		return 0, false
	}
	l.advance()
	return r, true
}

func (l *Lexer) error(err error) {
	l.inError = true
	l.state.lexError(err, l.line)
}

func (l *Lexer) either(next rune, matched, single tokens.TokenType) Token {
	if l.match(next) {
		return l.emit(matched)
	}
	return l.emit(single)
}

func (l *Lexer) emit(kind tokens.TokenType) Token {
	return l.emitLiteral(kind, nil)
}

func (l *Lexer) emitLiteral(kind tokens.TokenType, literal interface{}) Token {
	return Token{
		token:   kind,
		lexeme:  string(l.source[l.start:l.current]),
		literal: literal,
		line:    l.startLine,
	}
}

func (l *Lexer) advance() rune {
	if l.current >= len(l.source) {
		return eofCh
	}
	c := l.source[l.current]
	l.current++
	if c == '\n' {
		l.line++
	}
	return c
}

func (l *Lexer) match(c rune) bool {
	if l.peek() != c {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) peek() rune {
	if l.current >= len(l.source) {
		return eofCh
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() rune {
	if l.current+1 >= len(l.source) {
		return eofCh
	}
	return l.source[l.current+1]
}

func describe(c rune) string {
	switch c {
	case eofCh:
		return "end of file"
	case '\n':
		return "end of line"
	}
	return "'" + string(c) + "'"
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\r'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isLongSuffix(c rune) bool {
	return c == 'l' || c == 'L'
}

func isDoubleSuffix(c rune) bool {
	return c == 'd' || c == 'D'
}

func isIdentifierStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isIdentifierPart(c rune) bool {
	return isIdentifierStart(c) || isDigit(c)
}
