package internal

import (
	"fmt"
	"os"

	"github.com/labstack/gommon/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type severity int

const (
	sevError severity = iota
	sevWarning
)

type phase string

const (
	phaseLexical  phase = "lexical"
	phaseSyntax   phase = "syntax"
	phaseSemantic phase = "semantic"
)

type diagnostic struct {
	err      error
	line     int
	phase    phase
	severity severity
}

// compilationState stores the state of a single compilation unit
type compilationState struct {
	fileName    string
	source      string
	diagnostics []diagnostic
	tokens      []token
	stmts       []stmt

	logger IPrinter
	color  *color.Color
	log    *logrus.Entry
}

func newCompilationState(fileName, source string, logger IPrinter, opts Options) *compilationState {
	c := color.New()
	if opts.NoColor {
		c.Disable()
	}
	return &compilationState{
		fileName:    fileName,
		source:      source,
		diagnostics: make([]diagnostic, 0),
		logger:      logger,
		color:       c,
		log:         opts.logger().WithField("file", fileName),
	}
}

func (s *compilationState) report(p phase, sev severity, err error, line int) {
	s.diagnostics = append(s.diagnostics, diagnostic{
		err:      err,
		line:     line,
		phase:    p,
		severity: sev,
	})
	s.log.WithFields(logrus.Fields{
		"phase": p,
		"line":  line,
	}).Debug(err)
}

func (s *compilationState) lexError(err error, line int) {
	s.report(phaseLexical, sevError, err, line)
}

func (s *compilationState) syntaxError(err error, line int) {
	s.report(phaseSyntax, sevError, err, line)
}

func (s *compilationState) semanticError(err error, line int) {
	s.report(phaseSemantic, sevError, err, line)
}

func (s *compilationState) warning(p phase, err error, line int) {
	s.report(p, sevWarning, err, line)
}

// Valid returns true if no error has been recorded
func (s *compilationState) Valid() bool {
	return s.errorCount() == 0
}

func (s *compilationState) errorCount() int {
	n := 0
	for _, d := range s.diagnostics {
		if d.severity == sevError {
			n++
		}
	}
	return n
}

func (s *compilationState) hasErrorIn(p phase) bool {
	for _, d := range s.diagnostics {
		if d.severity == sevError && d.phase == p {
			return true
		}
	}
	return false
}

func (s *compilationState) formatDiagnostic(d diagnostic) string {
	tag := s.color.Red("error")
	if d.severity == sevWarning {
		tag = s.color.Yellow("warning")
	}
	return fmt.Sprintf("%s:%d: %s: %s", s.fileName, d.line, tag, d.err)
}

// PrintErrors prints all diagnostics, returns true if any of them is an error
func (s *compilationState) PrintErrors() bool {
	for _, d := range s.diagnostics {
		s.logger.Fprintln(os.Stderr, s.formatDiagnostic(d))
	}
	return !s.Valid()
}

// detailedError attaches the offending text to a sentinel error
type detailedError struct {
	cause  error
	detail string
}

func (e *detailedError) Error() string {
	return e.cause.Error() + ": " + e.detail
}

func (e *detailedError) Cause() error {
	return e.cause
}

func (e *detailedError) Unwrap() error {
	return e.cause
}

func withDetail(err error, format string, args ...interface{}) error {
	return &detailedError{cause: err, detail: fmt.Sprintf(format, args...)}
}

// internalError signals a broken compiler invariant, never a user mistake
type internalError struct {
	err error
}

func (e internalError) Error() string {
	return "internal error: " + e.err.Error()
}

func fatalInvariant(format string, args ...interface{}) {
	panic(internalError{err: errors.Errorf(format, args...)})
}

// Lexer errors
var errIllegalChar = errors.New("Unidentified input token")
var errUnclosedString = errors.New("Unexpected end of line found in string")
var errUnclosedStringEOF = errors.New("Unexpected end of file found in string")
var errUnclosedChar = errors.New("Closing ' was expected")
var errBadEscape = errors.New("Badly formed escape")
var errMalformedNumber = errors.New("Malformed numeric literal")
var errUnclosedComment = errors.New("Unterminated block comment")

// Parser errors
var errUnexpectedToken = errors.New("Unexpected token")
var errExpectedExpression = errors.New("Expected expression")
var errExpectedIdentifier = errors.New("Expected variable name")
var errExpectedType = errors.New("Expected type name")
var errExpectedSemicolon = errors.New("Expected ';'")
var errUnclosedParen = errors.New("Expected ')'")
var errExpectedOpeningParen = errors.New("Expected '('")
var errExpectedOpeningCurlyBrace = errors.New("Expected '{'")
var errExpectedClosingCurlyBrace = errors.New("Expected '}'")
var errExpectedColon = errors.New("Expected ':' after case label")
var errExpectedWhile = errors.New("Expected 'while' after do body")
var errExpectedCatchOrFinally = errors.New("Expected 'catch' or 'finally' after try block")
var errInvalidAssignTarget = errors.New("Invalid assignment target")
var errUnsupported = errors.New("Unsupported construct")

// Semantic errors
var errTypeMismatch = errors.New("Type mismatch")
var errUndefinedVar = errors.New("Undefined variable")
var errRedeclaredVar = errors.New("Variable already declared in this scope")
var errUnknownType = errors.New("Unknown type")
var errBreakOutside = errors.New("break outside breakable context")
var errContinueOutside = errors.New("continue outside continuable context")
var errCaseNotLiteral = errors.New("Switch labels must be int literals")
var errDuplicateCase = errors.New("Duplicate case label")
var errDuplicateDefault = errors.New("Duplicate default label")
var errNotThrowable = errors.New("Catch parameter must be a Throwable")
var errNotClass = errors.New("Only classes can be instantiated")
var errIntRange = errors.New("Integer literal out of range")
var errOperandType = errors.New("Invalid operand type")
var errUnknownMethod = errors.New("Unknown method")
var errArity = errors.New("Wrong number of arguments")
var errNotAssignable = errors.New("Expression is not assignable")
