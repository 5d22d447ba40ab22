package tokens

// TokenType Holds a token kind
type TokenType int

const (
	EOF TokenType = iota - 1

	// Separators.
	// , : . [ { ( ] } ) ;
	COMMA
	COLON
	DOT
	LEFT_BRACK
	LEFT_CURLY
	LEFT_PAREN
	RIGHT_BRACK
	RIGHT_CURLY
	RIGHT_PAREN
	SEMI

	// Operators, one to four characters.
	// = == ! != ~ ? + += ++ - -= -- * *= / /= % %=
	// > >= >> >>= >>> >>>= < <= << <<= & &= && | |= || ^ ^=
	ASSIGN
	EQUAL
	LNOT
	NOT_EQUAL
	NOT
	QUESTION
	PLUS
	PLUS_ASSIGN
	INC
	MINUS
	MINUS_ASSIGN
	DEC
	STAR
	STAR_ASSIGN
	DIV
	DIV_ASSIGN
	REM
	REM_ASSIGN
	GT
	GE
	ARSHIFT
	ARSHIFT_ASSIGN
	LRSHIFT
	LRSHIFT_ASSIGN
	LT
	LE
	ALSHIFT
	ALSHIFT_ASSIGN
	AND
	AND_ASSIGN
	LAND
	OR
	OR_ASSIGN
	LOR
	XOR
	XOR_ASSIGN

	// Literals.
	// *name*, int, long, double, char, string
	IDENTIFIER
	INT_LITERAL
	LONG_LITERAL
	DOUBLE_LITERAL
	CHAR_LITERAL
	STRING_LITERAL

	// Keywords.
	ABSTRACT
	BOOLEAN
	BREAK
	CASE
	CATCH
	CHAR
	CLASS
	CONTINUE
	DEFAULT
	DO
	DOUBLE
	ELSE
	EXTENDS
	FALSE
	FINALLY
	FOR
	IF
	IMPLEMENTS
	IMPORT
	INSTANCEOF
	INT
	INTERFACE
	LONG
	NEW
	NULL
	PACKAGE
	PRIVATE
	PROTECTED
	PUBLIC
	RETURN
	STATIC
	SUPER
	SWITCH
	THIS
	THROW
	THROWS
	TRUE
	TRY
	VOID
	WHILE
)

var images = map[TokenType]string{
	EOF:            "<EOF>",
	COMMA:          ",",
	COLON:          ":",
	DOT:            ".",
	LEFT_BRACK:     "[",
	LEFT_CURLY:     "{",
	LEFT_PAREN:     "(",
	RIGHT_BRACK:    "]",
	RIGHT_CURLY:    "}",
	RIGHT_PAREN:    ")",
	SEMI:           ";",
	ASSIGN:         "=",
	EQUAL:          "==",
	LNOT:           "!",
	NOT_EQUAL:      "!=",
	NOT:            "~",
	QUESTION:       "?",
	PLUS:           "+",
	PLUS_ASSIGN:    "+=",
	INC:            "++",
	MINUS:          "-",
	MINUS_ASSIGN:   "-=",
	DEC:            "--",
	STAR:           "*",
	STAR_ASSIGN:    "*=",
	DIV:            "/",
	DIV_ASSIGN:     "/=",
	REM:            "%",
	REM_ASSIGN:     "%=",
	GT:             ">",
	GE:             ">=",
	ARSHIFT:        ">>",
	ARSHIFT_ASSIGN: ">>=",
	LRSHIFT:        ">>>",
	LRSHIFT_ASSIGN: ">>>=",
	LT:             "<",
	LE:             "<=",
	ALSHIFT:        "<<",
	ALSHIFT_ASSIGN: "<<=",
	AND:            "&",
	AND_ASSIGN:     "&=",
	LAND:           "&&",
	OR:             "|",
	OR_ASSIGN:      "|=",
	LOR:            "||",
	XOR:            "^",
	XOR_ASSIGN:     "^=",
	IDENTIFIER:     "<IDENTIFIER>",
	INT_LITERAL:    "<INT_LITERAL>",
	LONG_LITERAL:   "<LONG_LITERAL>",
	DOUBLE_LITERAL: "<DOUBLE_LITERAL>",
	CHAR_LITERAL:   "<CHAR_LITERAL>",
	STRING_LITERAL: "<STRING_LITERAL>",
}

// Keywords maps reserved words to their token type
var Keywords = map[string]TokenType{
	"abstract":   ABSTRACT,
	"boolean":    BOOLEAN,
	"break":      BREAK,
	"case":       CASE,
	"catch":      CATCH,
	"char":       CHAR,
	"class":      CLASS,
	"continue":   CONTINUE,
	"default":    DEFAULT,
	"do":         DO,
	"double":     DOUBLE,
	"else":       ELSE,
	"extends":    EXTENDS,
	"false":      FALSE,
	"finally":    FINALLY,
	"for":        FOR,
	"if":         IF,
	"implements": IMPLEMENTS,
	"import":     IMPORT,
	"instanceof": INSTANCEOF,
	"int":        INT,
	"interface":  INTERFACE,
	"long":       LONG,
	"new":        NEW,
	"null":       NULL,
	"package":    PACKAGE,
	"private":    PRIVATE,
	"protected":  PROTECTED,
	"public":     PUBLIC,
	"return":     RETURN,
	"static":     STATIC,
	"super":      SUPER,
	"switch":     SWITCH,
	"this":       THIS,
	"throw":      THROW,
	"throws":     THROWS,
	"true":       TRUE,
	"try":        TRY,
	"void":       VOID,
	"while":      WHILE,
}

func init() {
	for word, kind := range Keywords {
		images[kind] = word
	}
}

// Image returns the fixed source text of a token type, or a placeholder
// in angle brackets for types whose text varies
func (t TokenType) Image() string {
	if image, ok := images[t]; ok {
		return image
	}
	return "<UNKNOWN>"
}

func (t TokenType) String() string {
	return t.Image()
}

// IsLiteral reports whether the token type carries literal text
func (t TokenType) IsLiteral() bool {
	return t >= INT_LITERAL && t <= STRING_LITERAL
}

// IsKeyword reports whether the token type is a reserved word
func (t TokenType) IsKeyword() bool {
	return t >= ABSTRACT && t <= WHILE
}
