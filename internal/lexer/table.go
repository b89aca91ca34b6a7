package lexer

import (
	"sort"
	"strings"
)

// DefaultKeywords are the reserved words of the DSL, in table order.
var DefaultKeywords = []string{
	"if", "else if", "else", "import", "as", "return", "throw", "new",
	"static", "def", "var", "task", "true", "false", "null", "final",
}

// DefaultTypes are the built-in type names.
var DefaultTypes = []string{"String", "Integer", "Boolean", "Object"}

var keywordTypes = map[string]TokenType{
	"if":      IF,
	"else if": ELSE_IF,
	"else":    ELSE,
	"import":  IMPORT,
	"as":      AS,
	"return":  RETURN,
	"throw":   THROW,
	"new":     NEW,
	"static":  STATIC,
	"def":     DEF,
	"var":     VAR,
	"task":    TASK,
	"true":    TRUE,
	"false":   FALSE,
	"null":    NULL,
	"final":   FINAL,
}

// Table is an immutable keyword and type-name table. Lookups are whole-word
// and case-insensitive: "IF", "If" and "if" are the same keyword.
type Table struct {
	words map[string]TokenType // lowercased single words
	// compounds maps a lowercased first word to the lowercased second words
	// that join it into one keyword ("else" -> "if").
	compounds map[string]map[string]TokenType
	types     map[string]string // lowercased -> canonical spelling
	keywords  []string
}

var defaultTable = buildTable(DefaultKeywords, DefaultTypes, nil)

// DefaultTable returns the built-in table
func DefaultTable() *Table {
	return defaultTable
}

func buildTable(keywords, types []string, base *Table) *Table {
	t := &Table{
		words:     make(map[string]TokenType),
		compounds: make(map[string]map[string]TokenType),
		types:     make(map[string]string),
	}
	if base != nil {
		for k, v := range base.words {
			t.words[k] = v
		}
		for first, rest := range base.compounds {
			m := make(map[string]TokenType, len(rest))
			for k, v := range rest {
				m[k] = v
			}
			t.compounds[first] = m
		}
		for k, v := range base.types {
			t.types[k] = v
		}
		t.keywords = append(t.keywords, base.keywords...)
	}
	for _, kw := range keywords {
		norm := strings.ToLower(strings.Join(strings.Fields(kw), " "))
		if norm == "" {
			continue
		}
		if t.has(norm) {
			continue
		}
		tt, ok := keywordTypes[norm]
		if !ok {
			tt = RESERVED
		}
		if first, second, found := strings.Cut(norm, " "); found {
			if t.compounds[first] == nil {
				t.compounds[first] = make(map[string]TokenType)
			}
			t.compounds[first][second] = tt
		} else {
			t.words[norm] = tt
		}
		t.keywords = append(t.keywords, norm)
	}
	for _, name := range types {
		if name == "" {
			continue
		}
		t.types[strings.ToLower(name)] = name
	}
	return t
}

func (t *Table) has(norm string) bool {
	for _, kw := range t.keywords {
		if kw == norm {
			return true
		}
	}
	return false
}

// Extend returns a new table with additional keywords and type names.
// Added keywords lex as RESERVED unless they name a built-in keyword.
func (t *Table) Extend(keywords, types []string) *Table {
	return buildTable(keywords, types, t)
}

// Lookup classifies a single identifier-shaped word
func (t *Table) Lookup(word string) TokenType {
	lower := strings.ToLower(word)
	if tt, ok := t.words[lower]; ok {
		return tt
	}
	if _, ok := t.types[lower]; ok {
		return TYPE
	}
	return IDENT
}

// compound returns the keyword formed by first followed by second, if any
func (t *Table) compound(first, second string) (TokenType, bool) {
	rest, ok := t.compounds[strings.ToLower(first)]
	if !ok {
		return ILLEGAL, false
	}
	tt, ok := rest[strings.ToLower(second)]
	return tt, ok
}

func (t *Table) startsCompound(first string) bool {
	_, ok := t.compounds[strings.ToLower(first)]
	return ok
}

// CanonicalType returns the declared spelling of a type name
func (t *Table) CanonicalType(name string) (string, bool) {
	canon, ok := t.types[strings.ToLower(name)]
	return canon, ok
}

// Keywords returns the lowercased keywords in table order
func (t *Table) Keywords() []string {
	return append([]string(nil), t.keywords...)
}

// Types returns the canonical type names, sorted
func (t *Table) Types() []string {
	out := make([]string, 0, len(t.types))
	for _, name := range t.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
