package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/lhaig/groovyscript/internal/diagnostic"
)

const (
	historyFile = ".groovyparse_history"
	promptMain  = "groovy> "
	promptCont  = "   ...> "
)

const replHelp = `REPL commands:
  :tree    Print results as an indented tree
  :sexp    Print results as s-expressions
  :dump    Print results as a Go value dump
  :quit    Exit the REPL`

func handleRepl(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "groovyparse %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := &replSession{env: e, format: e.cfg.Output.Format}
	for {
		code, ok := readByParseProbe(ln.Prompt, s.complete)
		if !ok {
			fmt.Fprintln(e.stdout)
			return nil
		}
		if s.eval(code) {
			return nil
		}
		if strings.TrimSpace(code) != "" {
			ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		}
	}
}

// replSession holds the REPL's output format between inputs
type replSession struct {
	env    *env
	format string
}

// complete reports whether src can be handed to eval, or whether the
// parse failed only because more input is needed.
func (s *replSession) complete(src string) bool {
	if strings.HasPrefix(strings.TrimSpace(src), ":") {
		return true
	}
	_, err := s.env.parse(src)
	return !diagnostic.Incomplete(err)
}

// eval handles one complete input and reports whether the REPL should exit
func (s *replSession) eval(code string) (exit bool) {
	trimmed := strings.TrimSpace(code)
	if strings.HasPrefix(trimmed, ":") {
		switch strings.ToLower(trimmed) {
		case ":quit", ":q":
			return true
		case ":help":
			fmt.Fprintln(s.env.stdout, replHelp)
		case ":tree", ":sexp", ":dump":
			s.format = strings.TrimPrefix(strings.ToLower(trimmed), ":")
		default:
			fmt.Fprintln(s.env.stdout, "unknown command. Type :help for commands.")
		}
		return false
	}
	if trimmed == "" {
		return false
	}

	mod, err := s.env.parse(code)
	if err != nil {
		s.env.reportError("repl", err)
		return false
	}
	for _, stmt := range mod.Statements {
		if err := s.env.renderTree(s.env.stdout, stmt, s.format); err != nil {
			fmt.Fprintln(s.env.stderr, s.env.colors.err.Sprint(err.Error()))
			return false
		}
	}
	return false
}

// readByParseProbe keeps reading lines with the continuation prompt while
// complete reports that the buffered source needs more input. It returns
// false at end of input.
func readByParseProbe(prompt func(string) (string, error), complete func(string) bool) (string, bool) {
	var b strings.Builder

	for {
		p := promptMain
		if b.Len() > 0 {
			p = promptCont
		}
		line, err := prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if complete(src) {
			return src, true
		}
	}
}
