// Package workspace parses many build scripts at once. It discovers script
// files under a set of roots, parses them in parallel and caches parsed
// modules by content hash.
package workspace

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lhaig/groovyscript/internal/ast"
	"github.com/lhaig/groovyscript/internal/diagnostic"
	"github.com/lhaig/groovyscript/internal/lexer"
	"github.com/lhaig/groovyscript/internal/parser"
)

// Options configures a Workspace
type Options struct {
	Extensions  []string     // file suffixes picked up when walking directories
	Parallelism int          // maximum concurrent parses, 0 means runtime.NumCPU
	CacheSize   int          // parsed modules kept in memory, 0 disables the cache
	Table       *lexer.Table // nil means lexer.DefaultTable
	Logger      *slog.Logger // nil discards log output
}

// File is the result of parsing one script
type File struct {
	Path   string
	Module *ast.Module       // prefix module when Err is set
	Err    *diagnostic.Error // nil when the script parsed cleanly
	Cached bool              // the module came from the cache
}

// Workspace parses scripts with a shared table and cache. It is safe for
// concurrent use.
type Workspace struct {
	opts  Options
	cache *lru.Cache // xxhash of source -> *File
	log   *slog.Logger
}

// New creates a workspace from the given options
func New(opts Options) (*Workspace, error) {
	if opts.Parallelism < 0 {
		return nil, errors.Errorf("negative parallelism %d", opts.Parallelism)
	}
	if opts.Parallelism == 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	if opts.Table == nil {
		opts.Table = lexer.DefaultTable()
	}

	w := &Workspace{opts: opts, log: opts.Logger}
	if w.log == nil {
		w.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New(opts.CacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "create parse cache")
		}
		w.cache = cache
	}
	return w, nil
}

// Discover expands roots into a sorted, de-duplicated list of script
// files. Directories are walked recursively and filtered by extension;
// regular files are taken as given.
func (w *Workspace) Discover(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "discover %s", root)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if w.matches(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", root)
		}
	}

	sort.Strings(files)
	return files, nil
}

func (w *Workspace) matches(path string) bool {
	for _, ext := range w.opts.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ParseFiles reads and parses files concurrently. The result is in the
// same order as files. Parse errors are recorded on each File; read
// errors and cancellation abort the whole run.
func (w *Workspace) ParseFiles(ctx context.Context, files []string) ([]*File, error) {
	results := make([]*File, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.Parallelism)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}
			results[i] = w.ParseSource(path, string(source))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ParseSource parses one script, consulting the cache first
func (w *Workspace) ParseSource(path, source string) *File {
	key := xxhash.Sum64String(source)
	if w.cache != nil {
		if v, ok := w.cache.Get(key); ok {
			hit := v.(*File)
			w.log.Debug("parse cache hit", "file", path, "key", key)
			return &File{Path: path, Module: hit.Module, Err: hit.Err, Cached: true}
		}
	}

	mod, err := parser.Parse(source, parser.WithTable(w.opts.Table))
	f := &File{Path: path, Module: mod}
	if err != nil {
		var perr *diagnostic.Error
		if !errors.As(err, &perr) {
			perr = &diagnostic.Error{Kind: diagnostic.UnexpectedToken, Message: err.Error()}
		}
		f.Err = perr
	}
	w.log.Debug("parsed", "file", path, "statements", len(mod.Statements), "ok", f.Err == nil)

	if w.cache != nil {
		w.cache.Add(key, f)
	}
	return f
}

// Diagnostics collects the parse errors of files into one report
func Diagnostics(files []*File) *diagnostic.Diagnostics {
	diag := diagnostic.New()
	for _, f := range files {
		if f.Err != nil {
			diag.AddError(f.Path, f.Err)
		}
	}
	return diag
}
