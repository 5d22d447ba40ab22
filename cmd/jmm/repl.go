package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"jmm/internal"
)

const (
	historyFile = ".jmm_history"
	promptMain  = "jmm> "
	promptCont  = "...> "
)

// runREPL compiles and runs every complete statement entered as its own
// unit, declarations do not survive from one entry to the next
func runREPL(flags *Flags, opts internal.Options) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

loop:
	for {
		code, ok := readStatement(ln)
		if !ok {
			fmt.Println()
			break
		}
		switch strings.TrimSpace(code) {
		case "":
			continue
		case ":quit", ":q":
			break loop
		case ":listing":
			flags.ShowListing = !flags.ShowListing
			fmt.Printf("listing %v\n", flags.ShowListing)
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		unit, err := internal.Compile("<stdin>", code, stdPrinter{}, opts)
		if unit.PrintErrors() || err != nil {
			if err != nil && !errors.Is(err, internal.ErrCompilation) {
				fmt.Fprintln(os.Stderr, err)
			}
			continue
		}
		if flags.ShowListing {
			fmt.Print(unit.Listing())
		}
		if err := unit.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// readStatement reads lines until the braces balance and the input ends
// a statement
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := strings.TrimSpace(b.String())
		if src == "" || strings.HasPrefix(src, ":") || complete(src) {
			return b.String(), true
		}
	}
}

func complete(src string) bool {
	depth := strings.Count(src, "{") - strings.Count(src, "}")
	return depth <= 0 && (strings.HasSuffix(src, ";") || strings.HasSuffix(src, "}"))
}
