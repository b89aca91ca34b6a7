package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/lhaig/groovyscript/internal/ast"
)

// Graph holds scripts reachable from an entry script through
// apply from: '...' references, and the edges between them.
type Graph struct {
	files        map[string]*File    // absolute path -> parsed file
	dependencies map[string][]string // absolute path -> applied absolute paths
	order        []string            // absolute paths in discovery order, entry first
}

// Resolve performs a BFS from the entry script, parsing each discovered
// script and following its applied script references. Each BFS level is
// parsed in parallel. Missing referenced files are an error; parse errors
// are kept on the Files.
func (w *Workspace) Resolve(ctx context.Context, entry string) (*Graph, error) {
	absEntry, err := filepath.Abs(entry)
	if err != nil {
		return nil, errors.Wrap(err, "resolve entry path")
	}

	g := &Graph{
		files:        make(map[string]*File),
		dependencies: make(map[string][]string),
	}

	level := []string{absEntry}
	visited := map[string]bool{absEntry: true}
	for len(level) > 0 {
		parsed, err := w.ParseFiles(ctx, level)
		if err != nil {
			return nil, err
		}

		var next []string
		for _, f := range parsed {
			g.files[f.Path] = f
			g.order = append(g.order, f.Path)

			var deps []string
			for _, ref := range AppliedScripts(f.Module) {
				resolved := ref
				if !filepath.IsAbs(ref) {
					resolved = filepath.Join(filepath.Dir(f.Path), ref)
				}
				resolved = filepath.Clean(resolved)

				if _, err := os.Stat(resolved); err != nil {
					return nil, errors.Errorf("applied script not found: %s (from %q in %s)",
						resolved, ref, f.Path)
				}
				deps = append(deps, resolved)

				if !visited[resolved] {
					visited[resolved] = true
					next = append(next, resolved)
				}
			}
			g.dependencies[f.Path] = deps
			w.log.Debug("resolved script", "file", f.Path, "applies", len(deps))
		}
		level = next
	}

	return g, nil
}

// TopologicalSort returns scripts in application order (applied scripts
// first, entry script last). Scripts become ready once everything they
// apply has been ordered; ties keep discovery order. If scripts apply each
// other in a cycle the error shows the cycle path.
func (g *Graph) TopologicalSort() ([]string, error) {
	pending := make(map[string]int, len(g.order))
	dependents := make(map[string][]string, len(g.order))
	var ready []string
	for _, path := range g.order {
		deps := g.dependencies[path]
		pending[path] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], path)
		}
		if len(deps) == 0 {
			ready = append(ready, path)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		path := ready[0]
		ready = ready[1:]
		sorted = append(sorted, path)
		for _, d := range dependents[path] {
			pending[d]--
			if pending[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(sorted) < len(g.order) {
		return nil, g.cycleError(pending)
	}
	return sorted, nil
}

// cycleError follows unordered dependencies from the first unordered
// script until a script repeats. Every unordered script applies at least
// one other unordered script, so the walk always closes a cycle.
func (g *Graph) cycleError(pending map[string]int) error {
	var start string
	for _, path := range g.order {
		if pending[path] > 0 {
			start = path
			break
		}
	}

	seen := make(map[string]int)
	var walk []string
	for path := start; ; {
		if i, ok := seen[path]; ok {
			walk = append(walk[i:], path)
			break
		}
		seen[path] = len(walk)
		walk = append(walk, path)
		for _, dep := range g.dependencies[path] {
			if pending[dep] > 0 {
				path = dep
				break
			}
		}
	}

	names := make([]string, len(walk))
	for i, p := range walk {
		names[i] = filepath.Base(p)
	}
	return errors.Errorf("apply cycle detected: %s", strings.Join(names, " -> "))
}

// File returns the parsed script at an absolute path, or nil
func (g *Graph) File(path string) *File {
	return g.files[path]
}

// Files returns every parsed script in the graph
func (g *Graph) Files() map[string]*File {
	return g.files
}

// Dependencies returns the scripts applied directly by path
func (g *Graph) Dependencies(path string) []string {
	return g.dependencies[path]
}

// AppliedScripts lists the targets of apply from: '...' calls anywhere in
// the module. Interpolated targets are skipped.
func AppliedScripts(mod *ast.Module) []string {
	if mod == nil {
		return nil
	}
	var refs []string
	ast.Inspect(mod, func(n ast.Node) bool {
		call, ok := n.(*ast.FunctionCall)
		if !ok || call.Name != "apply" {
			return true
		}
		for _, arg := range call.Args {
			entry, ok := arg.(*ast.MapEntry)
			if !ok || !isKey(entry.Key, "from") {
				continue
			}
			if s, ok := entry.Value.(*ast.StringLiteral); ok && !s.Interpolated() {
				refs = append(refs, s.Value())
			}
		}
		return true
	})
	return refs
}

func isKey(key ast.Expression, name string) bool {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name == name
	case *ast.StringLiteral:
		return !k.Interpolated() && k.Value() == name
	}
	return false
}
