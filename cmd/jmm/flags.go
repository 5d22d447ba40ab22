package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"jmm/internal"
)

type Flags struct {
	ShowTokens  bool
	ShowAST     bool
	ShowListing bool
	Run         bool

	MaxSteps int
	LogLevel string
	NoColor  bool

	REPL bool
}

func (f *Flags) SetFlags() {
	flag.BoolVar(&f.ShowTokens, "tokens", false, "print the tokens of each file")
	flag.BoolVar(&f.ShowAST, "ast", false, "print the syntax tree of each file")
	flag.BoolVar(&f.ShowListing, "listing", false, "print the generated code of each file")
	flag.BoolVar(&f.Run, "run", true, "run each file after compiling it")
	flag.IntVar(&f.MaxSteps, "max-steps", internal.DefaultMaxSteps, "stop a run after this many instructions (0 for no limit)")
	flag.StringVar(&f.LogLevel, "log-level", logrus.WarnLevel.String(), "log level (\"debug\", \"info\", \"warn\", \"error\")")
	flag.BoolVar(&f.NoColor, "no-color", false, "do not color diagnostics")
	flag.BoolVar(&f.REPL, "repl", false, "read statements interactively")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "    Available options:\n")
		flag.PrintDefaults()
	}
}

func (f *Flags) Options() internal.Options {
	opts := internal.DefaultOptions()
	opts.MaxSteps = f.MaxSteps
	opts.NoColor = f.NoColor
	opts.LogLevel = f.LogLevel
	return opts
}
