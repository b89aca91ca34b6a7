package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"

	"github.com/lhaig/groovyscript/internal/config"
)

const version = "0.3.0"

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "Log debug output to stderr",
	}
	formatFlag = cli.StringFlag{
		Name:  "format",
		Usage: "Tree output format: tree, sexp or dump (default from config)",
	}
	triviaFlag = cli.BoolFlag{
		Name:  "trivia",
		Usage: "Include comments and the shebang line",
	}
	resolveFlag = cli.BoolFlag{
		Name:  "resolve",
		Usage: "Follow apply from: references and print the application order",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "groovyparse"
	app.Usage = "parse and inspect Groovy build scripts"
	app.Version = version
	app.Flags = []cli.Flag{configFileFlag, verboseFlag}
	app.Commands = []cli.Command{
		{
			Name:      "parse",
			Usage:     "Print the syntax tree of a script",
			ArgsUsage: "<file>",
			Flags:     []cli.Flag{formatFlag},
			Action:    handleParse,
		},
		{
			Name:      "tokens",
			Usage:     "Print the token stream of a script",
			ArgsUsage: "<file>",
			Flags:     []cli.Flag{triviaFlag},
			Action:    handleTokens,
		},
		{
			Name:      "check",
			Usage:     "Parse files and directories, reporting syntax errors",
			ArgsUsage: "<path>...",
			Flags:     []cli.Flag{resolveFlag},
			Action:    handleCheck,
		},
		{
			Name:      "lint",
			Usage:     "Run style checks on a script",
			ArgsUsage: "<file>",
			Action:    handleLint,
		},
		{
			Name:   "repl",
			Usage:  "Parse statements interactively",
			Action: handleRepl,
		},
		{
			Name:        "dumpconfig",
			Usage:       "Show configuration values",
			Description: `The dumpconfig command shows the effective configuration as TOML.`,
			Action:      handleDumpConfig,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is the per-invocation state shared by every command
type env struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
	colors palette
	log    *slog.Logger
}

// newEnv loads the configuration named by --config and sets up colored
// output and logging.
func newEnv(ctx *cli.Context) (*env, error) {
	cfg, err := config.Load(ctx.GlobalString(configFileFlag.Name))
	if err != nil {
		return nil, err
	}

	useColor := colorEnabled(cfg.Output.Color, os.Stdout)
	e := &env{
		cfg:    cfg,
		stdout: os.Stdout,
		stderr: os.Stderr,
		colors: newPalette(useColor),
	}
	if useColor {
		e.stdout = colorable.NewColorableStdout()
		e.stderr = colorable.NewColorableStderr()
	}

	level := slog.LevelWarn
	if ctx.GlobalBool(verboseFlag.Name) {
		level = slog.LevelDebug
	}
	e.log = slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))
	return e, nil
}

func colorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// palette colors diagnostics by severity
type palette struct {
	err, warn, info, hint, accent *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow),
		info:   color.New(color.FgCyan),
		hint:   color.New(color.Faint),
		accent: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.hint, p.accent} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}
