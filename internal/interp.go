package internal

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
	Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error)
	Fprintln(w io.Writer, a ...interface{}) (n int, err error)
}

// ErrCompilation is returned when a unit has lexical, syntax or semantic
// errors, the diagnostics are kept in the unit
var ErrCompilation = errors.New("compilation failed")

// Unit is the result of compiling one source file
type Unit struct {
	state     *compilationState
	code      *listing
	maxLocals int
	opts      Options
}

// Compile runs every phase on source. The returned unit is never nil so
// diagnostics can be printed even when err is not.
func Compile(fileName, source string, p IPrinter, opts Options) (unit *Unit, err error) {
	state := newCompilationState(fileName, source, p, opts)
	unit = &Unit{state: state, opts: opts}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			state.log.WithError(ie.err).Error("internal compiler error")
			unit.code = nil
			err = errors.Wrap(ie, fileName)
		}
	}()

	lexer := newLexer(state)
	lexer.scan()
	if lexer.ErrorHasOccurred() {
		return unit, ErrCompilation
	}

	parser := &parser{state: state}
	parser.parse()
	if !state.Valid() {
		return unit, ErrCompilation
	}

	analyzer := newAnalyzer(state)
	analyzer.analyze()
	if !state.Valid() {
		return unit, ErrCompilation
	}

	code := newListing()
	newGenerator(state, code).generate()
	code.resolve()
	state.log.WithField("instructions", len(code.code)).Debug("generated")

	unit.code = code
	unit.maxLocals = analyzer.env.maxLocals()
	return unit, nil
}

// Tokens returns the scanned tokens, ending with EOF
func (u *Unit) Tokens() []Token {
	return append([]Token(nil), u.state.tokens...)
}

// Tree returns the parsed statements in prefix notation
func (u *Unit) Tree() string {
	return printTree(u.state.stmts)
}

// Listing returns the generated code, empty if compilation failed
func (u *Unit) Listing() string {
	if u.code == nil {
		return ""
	}
	return u.code.String()
}

// Valid returns true if no error has been recorded
func (u *Unit) Valid() bool {
	return u.state.Valid()
}

// PrintErrors prints all diagnostics, returns true if any of them is an error
func (u *Unit) PrintErrors() bool {
	return u.state.PrintErrors()
}

// Run executes the generated code, output goes to the unit printer
func (u *Unit) Run() (err error) {
	if u.code == nil {
		return ErrCompilation
	}
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			err = errors.Wrap(ie, u.state.fileName)
		}
	}()
	return newExec(u.code, u.maxLocals, u.state.logger, u.state.log, u.opts.MaxSteps).interpret()
}

// RunSourceWithPrinter compiles and runs source, diagnostics and runtime
// failures are printed with p
func RunSourceWithPrinter(fileName, source string, p IPrinter, opts Options) bool {
	unit, err := Compile(fileName, source, p, opts)
	if unit.PrintErrors() {
		return false
	}
	if err == nil {
		err = unit.Run()
	}
	if err != nil {
		p.Fprintln(os.Stderr, unit.state.color.Red("error")+": "+err.Error())
		return false
	}
	return true
}
