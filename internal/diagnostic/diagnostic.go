package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single parse error, lint warning, or info message
type Diagnostic struct {
	Severity Severity
	Rule     string // lint rule name, empty for parse errors
	Message  string
	Offset   int
	Line     int
	Column   int
	File     string // optional file path (for workspace runs)
	Hint     string // optional suggestion
}

// Diagnostics manages a collection of diagnostic messages
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// Add appends a prepared diagnostic
func (d *Diagnostics) Add(item Diagnostic) {
	d.items = append(d.items, item)
}

// Warningf adds a warning diagnostic for a lint rule
func (d *Diagnostics) Warningf(rule string, line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: SeverityWarning,
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// Infof adds an info diagnostic for a lint rule
func (d *Diagnostics) Infof(rule string, line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: SeverityInfo,
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// WarningWithHint adds a warning diagnostic with a suggestion
func (d *Diagnostics) WarningWithHint(rule string, line, col int, msg, hint string) {
	d.items = append(d.items, Diagnostic{
		Severity: SeverityWarning,
		Rule:     rule,
		Message:  msg,
		Line:     line,
		Column:   col,
		Hint:     hint,
	})
}

// AddError records a parse error as an error-level diagnostic
func (d *Diagnostics) AddError(file string, err *Error) {
	d.items = append(d.items, Diagnostic{
		Severity: SeverityError,
		Message:  err.Message,
		Offset:   err.Offset,
		Line:     err.Line,
		Column:   err.Column,
		File:     file,
	})
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == SeverityError {
			return true
		}
	}
	return false
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// WarningCount returns the number of warning-level diagnostics
func (d *Diagnostics) WarningCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// ByRule returns the diagnostics reported by one lint rule
func (d *Diagnostics) ByRule(rule string) []Diagnostic {
	var out []Diagnostic
	for _, item := range d.items {
		if item.Rule == rule {
			out = append(out, item)
		}
	}
	return out
}

// Format returns human-readable messages
// Output format:
//
//	error[build.gradle:3:10]: expected expression, got ')'
//	warning[build.gradle:5:1]: keyword 'IF' should be written 'if'
//	  hint: keywords match case-insensitively but lowercase is canonical
func (d *Diagnostics) Format(filename string) string {
	if len(d.items) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, item := range d.items {
		builder.WriteString(item.format(filename))

		if i < len(d.items)-1 {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

func (item Diagnostic) format(filename string) string {
	fileToUse := filename
	if item.File != "" {
		fileToUse = item.File
	}

	s := fmt.Sprintf("%s[%s:%d:%d]: %s",
		item.Severity.String(),
		fileToUse,
		item.Line,
		item.Column,
		item.Message,
	)
	if item.Rule != "" {
		s += " (" + item.Rule + ")"
	}
	if item.Hint != "" {
		s += "\n  hint: " + item.Hint
	}
	return s
}

// String renders a single diagnostic without a file fallback
func (item Diagnostic) String() string {
	return item.format("input")
}
