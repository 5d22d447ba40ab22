package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"jmm/internal"
)

type stdPrinter struct{}

func (s stdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Println(a...)
}

func (s stdPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(w, format, a...)
}

func (s stdPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return fmt.Fprintln(w, a...)
}

// bufferedPrinter keeps the output of one file so files compiled in
// parallel are printed one after the other. Everything goes to a single
// buffer to keep the order of program output and diagnostics.
type bufferedPrinter struct {
	buf bytes.Buffer
}

func (b *bufferedPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Fprintln(&b.buf, a...)
}

func (b *bufferedPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(&b.buf, format, a...)
}

func (b *bufferedPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return fmt.Fprintln(&b.buf, a...)
}

func main() {
	var flags Flags
	flags.SetFlags()
	flag.Parse()

	opts := flags.Options()
	if err := opts.Validate(); err != nil {
		log.Fatalf("Failed to parse flags: %s", err)
	}

	if flags.REPL {
		os.Exit(runREPL(&flags, opts))
	}

	files := flag.Args()
	if len(files) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	outputs := make([]*bufferedPrinter, len(files))
	var errg errgroup.Group
	for i, file := range files {
		i, file := i, file
		outputs[i] = &bufferedPrinter{}
		errg.Go(func() error {
			return compileFile(&flags, opts, file, outputs[i])
		})
	}
	err := errg.Wait()

	for _, out := range outputs {
		os.Stdout.Write(out.buf.Bytes())
	}
	if err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}

func compileFile(flags *Flags, opts internal.Options, file string, p internal.IPrinter) error {
	source, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", file)
	}

	unit, err := internal.Compile(file, string(source), p, opts)
	if flags.ShowTokens {
		for _, tk := range unit.Tokens() {
			p.Println(tk)
		}
	}
	if flags.ShowAST {
		p.Fprintf(os.Stdout, "%s", unit.Tree())
	}
	if unit.PrintErrors() || err != nil {
		if err == nil {
			err = internal.ErrCompilation
		}
		return errors.Wrap(err, file)
	}
	if flags.ShowListing {
		p.Fprintf(os.Stdout, "%s", unit.Listing())
	}
	if flags.Run {
		if err := unit.Run(); err != nil {
			return errors.Wrap(err, file)
		}
	}
	return nil
}
