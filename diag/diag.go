// Package diag holds the diagnostic shape shared by every front end pass.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/t14raptor/fastfront/ast"
)

// Severity orders diagnostics by importance.
type Severity uint8

const (
	Hint Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Hint:
		return "hint"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// Category is the error class a code belongs to.
type Category uint8

const (
	LexError Category = iota
	SyntaxError
	SemanticError
	Internal
)

func (c Category) String() string {
	switch c {
	case LexError:
		return "LexError"
	case SyntaxError:
		return "SyntaxError"
	case SemanticError:
		return "SemanticError"
	}
	return "Internal"
}

// Code is a stable machine readable identifier such as "L1001".
type Code string

// Category derives the error class from the code prefix.
func (c Code) Category() Category {
	if c == "" {
		return Internal
	}
	switch c[0] {
	case 'L':
		return LexError
	case 'S':
		return SyntaxError
	case 'E', 'W':
		return SemanticError
	}
	return Internal
}

// Diagnostic is a single message attached to a source range.
type Diagnostic struct {
	Severity Severity
	Span     ast.Span
	Code     Code
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s [%d,%d): %s", d.Severity, d.Code, d.Span.Start, d.Span.End, d.Message)
}

// Error implements error so a diagnostic can travel through error values.
func (d Diagnostic) Error() string {
	return d.String()
}

// List is an ordered collection of diagnostics. Passes append in the order
// problems are found.
type List []Diagnostic

// Add appends a diagnostic.
func (l *List) Add(sev Severity, code Code, span ast.Span, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	*l = append(*l, Diagnostic{Severity: sev, Span: span, Code: code, Message: msg})
}

// Errorf appends an error diagnostic.
func (l *List) Errorf(code Code, span ast.Span, format string, args ...any) {
	l.Add(Error, code, span, format, args...)
}

// Warnf appends a warning diagnostic.
func (l *List) Warnf(code Code, span ast.Span, format string, args ...any) {
	l.Add(Warning, code, span, format, args...)
}

// HasErrors reports whether any diagnostic has error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics in the category.
func (l List) Count(c Category) int {
	n := 0
	for _, d := range l {
		if d.Code.Category() == c {
			n++
		}
	}
	return n
}

// Filter returns the diagnostics in the category.
func (l List) Filter(c Category) List {
	var out List
	for _, d := range l {
		if d.Code.Category() == c {
			out = append(out, d)
		}
	}
	return out
}

// WithCode returns the diagnostics carrying code.
func (l List) WithCode(code Code) List {
	var out List
	for _, d := range l {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// SortStable orders diagnostics by start offset, keeping the pass order for
// equal offsets.
func (l List) SortStable() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Span.Start < l[j].Span.Start
	})
}

func (l List) String() string {
	var sb strings.Builder
	for i, d := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}
