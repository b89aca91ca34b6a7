package config

import (
	"bufio"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"github.com/pkg/errors"

	"github.com/lhaig/groovyscript/internal/lexer"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// LexerConfig extends the built-in keyword and type tables
type LexerConfig struct {
	ExtraKeywords []string `toml:",omitempty"`
	ExtraTypes    []string `toml:",omitempty"`
}

// WorkspaceConfig controls file discovery and parallel parsing
type WorkspaceConfig struct {
	Extensions  []string
	Parallelism int // 0 means one worker per CPU
	CacheSize   int // parsed modules kept in memory, 0 disables the cache
}

// OutputConfig controls how the CLI renders results
type OutputConfig struct {
	Format string // tree, sexp or dump
	Color  string // auto, always or never
}

// Config is the groovyparse configuration file
type Config struct {
	Lexer     LexerConfig
	Workspace WorkspaceConfig
	Output    OutputConfig
}

// Defaults returns the configuration used when no file is given
func Defaults() Config {
	return Config{
		Workspace: WorkspaceConfig{
			Extensions: []string{".gradle", ".groovy"},
			CacheSize:  256,
		},
		Output: OutputConfig{
			Format: "tree",
			Color:  "auto",
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(file string) (Config, error) {
	cfg := Defaults()
	if file == "" {
		return cfg, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return cfg, errors.Wrap(err, "open config")
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects values the CLI cannot act on
func (c Config) Validate() error {
	switch c.Output.Format {
	case "tree", "sexp", "dump":
	default:
		return errors.Errorf("unknown output format %q", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return errors.Errorf("unknown color mode %q", c.Output.Color)
	}
	if c.Workspace.Parallelism < 0 {
		return errors.Errorf("negative parallelism %d", c.Workspace.Parallelism)
	}
	if c.Workspace.CacheSize < 0 {
		return errors.Errorf("negative cache size %d", c.Workspace.CacheSize)
	}
	return nil
}

// Table returns the lexer table with the configured extensions applied
func (c Config) Table() *lexer.Table {
	if len(c.Lexer.ExtraKeywords) == 0 && len(c.Lexer.ExtraTypes) == 0 {
		return lexer.DefaultTable()
	}
	return lexer.DefaultTable().Extend(c.Lexer.ExtraKeywords, c.Lexer.ExtraTypes)
}

// Marshal renders the configuration as TOML
func (c Config) Marshal() ([]byte, error) {
	return tomlSettings.Marshal(&c)
}
