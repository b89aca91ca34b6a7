package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/lhaig/groovyscript/internal/ast"
	"github.com/lhaig/groovyscript/internal/diagnostic"
	"github.com/lhaig/groovyscript/internal/lexer"
	"github.com/lhaig/groovyscript/internal/linter"
	"github.com/lhaig/groovyscript/internal/parser"
	"github.com/lhaig/groovyscript/internal/workspace"
)

// errFailed exits with status 1 after the command has printed its own report
var errFailed = cli.NewExitError("", 1)

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func handleParse(ctx *cli.Context) error {
	e, path, source, err := setupFile(ctx)
	if err != nil {
		return err
	}
	format := e.cfg.Output.Format
	if f := ctx.String(formatFlag.Name); f != "" {
		format = f
	}
	return e.runParse(path, source, format)
}

func handleTokens(ctx *cli.Context) error {
	e, path, source, err := setupFile(ctx)
	if err != nil {
		return err
	}
	return e.runTokens(path, source, ctx.Bool(triviaFlag.Name))
}

func handleLint(ctx *cli.Context) error {
	e, path, source, err := setupFile(ctx)
	if err != nil {
		return err
	}
	return e.runLint(path, source)
}

func handleCheck(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	paths := []string(ctx.Args())
	if len(paths) == 0 {
		paths = []string{"."}
	}

	c, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return e.runCheck(c, paths, ctx.Bool(resolveFlag.Name))
}

func handleDumpConfig(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	return e.runDumpConfig()
}

// setupFile builds the environment and reads the command's single file
// argument.
func setupFile(ctx *cli.Context) (*env, string, string, error) {
	if ctx.NArg() != 1 {
		return nil, "", "", errors.Errorf("%s: expected exactly one file argument", ctx.Command.Name)
	}
	e, err := newEnv(ctx)
	if err != nil {
		return nil, "", "", err
	}
	path := ctx.Args().First()
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", "", errors.Wrap(err, "read script")
	}
	return e, path, string(source), nil
}

func (e *env) parse(source string) (*ast.Module, error) {
	return parser.Parse(source, parser.WithTable(e.cfg.Table()))
}

func (e *env) runParse(path, source, format string) error {
	mod, err := e.parse(source)
	if err != nil {
		e.reportError(path, err)
		return errFailed
	}
	return e.renderTree(e.stdout, mod, format)
}

func (e *env) renderTree(w io.Writer, node ast.Node, format string) error {
	switch format {
	case "tree":
		fmt.Fprint(w, ast.Print(node))
	case "sexp":
		fmt.Fprintln(w, ast.SExpr(node))
	case "dump":
		spewConfig.Fdump(w, node)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
	return nil
}

func (e *env) runTokens(path, source string, trivia bool) error {
	lex := lexer.NewWithTable(source, e.cfg.Table())
	tokens, lexErr := lex.Tokenize()
	if trivia {
		tokens = append(tokens, lex.Trivia()...)
		sort.SliceStable(tokens, func(i, j int) bool {
			return tokens[i].Span.Start.Offset < tokens[j].Span.Start.Offset
		})
	}

	table := tablewriter.NewWriter(e.stdout)
	table.SetHeader([]string{"Pos", "Type", "Class", "Literal"})
	table.SetAutoWrapText(false)
	for _, tok := range tokens {
		table.Append([]string{
			tok.Span.Start.String(),
			tok.Type.String(),
			tok.Class().String(),
			strconv.Quote(tok.Literal),
		})
	}
	table.Render()

	if lexErr != nil {
		e.reportError(path, lexErr)
		return errFailed
	}
	return nil
}

func (e *env) runLint(path, source string) error {
	mod, err := e.parse(source)
	if err != nil {
		e.reportError(path, err)
		return errFailed
	}
	tokens, err := lexer.NewWithTable(source, e.cfg.Table()).Tokenize()
	if err != nil {
		e.reportError(path, err)
		return errFailed
	}

	diag := linter.Lint(mod, tokens)
	if diag.Count() == 0 {
		fmt.Fprintf(e.stdout, "%s: no warnings\n", path)
		return nil
	}
	e.printDiagnostics(e.stdout, diag, path)
	fmt.Fprintf(e.stdout, "%s: %d warning(s)\n", path, diag.WarningCount())
	return nil
}

func (e *env) runCheck(ctx context.Context, paths []string, resolve bool) error {
	ws, err := workspace.New(workspace.Options{
		Extensions:  e.cfg.Workspace.Extensions,
		Parallelism: e.cfg.Workspace.Parallelism,
		CacheSize:   e.cfg.Workspace.CacheSize,
		Table:       e.cfg.Table(),
		Logger:      e.log,
	})
	if err != nil {
		return err
	}

	var files []*workspace.File
	if resolve {
		if len(paths) != 1 {
			return errors.New("check --resolve: expected exactly one entry script")
		}
		graph, err := ws.Resolve(ctx, paths[0])
		if err != nil {
			return err
		}
		order, err := graph.TopologicalSort()
		if err != nil {
			return err
		}
		for i, p := range order {
			fmt.Fprintf(e.stdout, "%d. %s\n", i+1, p)
			files = append(files, graph.File(p))
		}
	} else {
		discovered, err := ws.Discover(paths)
		if err != nil {
			return err
		}
		e.log.Debug("discovered scripts", "count", len(discovered))
		files, err = ws.ParseFiles(ctx, discovered)
		if err != nil {
			return err
		}
	}

	diag := workspace.Diagnostics(files)
	if diag.HasErrors() {
		e.printDiagnostics(e.stderr, diag, "")
	}
	fmt.Fprintf(e.stdout, "checked %d file(s), %s\n", len(files), e.countLabel(diag.Count()))
	if diag.HasErrors() {
		return errFailed
	}
	return nil
}

func (e *env) runDumpConfig() error {
	out, err := e.cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = e.stdout.Write(out)
	return err
}

func (e *env) countLabel(errs int) string {
	if errs == 0 {
		return e.colors.accent.Sprint("no errors")
	}
	return e.colors.err.Sprintf("%d error(s)", errs)
}

// reportError prints a lex or parse error as a diagnostic
func (e *env) reportError(path string, err error) {
	var perr *diagnostic.Error
	if !errors.As(err, &perr) {
		fmt.Fprintln(e.stderr, e.colors.err.Sprint(err.Error()))
		return
	}
	diag := diagnostic.New()
	diag.AddError(path, perr)
	e.printDiagnostics(e.stderr, diag, path)
}

// printDiagnostics writes the formatted diagnostics, coloring each line by
// its severity prefix.
func (e *env) printDiagnostics(w io.Writer, diag *diagnostic.Diagnostics, file string) {
	for _, line := range strings.Split(diag.Format(file), "\n") {
		fmt.Fprintln(w, e.colorize(line))
	}
}

func (e *env) colorize(line string) string {
	switch {
	case strings.HasPrefix(line, "error"):
		return e.colors.err.Sprint(line)
	case strings.HasPrefix(line, "warning"):
		return e.colors.warn.Sprint(line)
	case strings.HasPrefix(line, "info"):
		return e.colors.info.Sprint(line)
	case strings.HasPrefix(line, "  hint:"):
		return e.colors.hint.Sprint(line)
	}
	return line
}
