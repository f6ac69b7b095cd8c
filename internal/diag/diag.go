// Package diag accumulates line-scoped assembler diagnostics and
// renders them in the fixed "{basename}:{line}: error|warning: {msg}"
// form, without any process-wide state.
package diag

import (
	"fmt"
	"io"
)

// Kind distinguishes a warning, which does not fail a pass, from an
// error, which does.
type Kind int

const (
	Warning Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Error {
		return "error"
	}
	return "warning"
}

// Record is one reported diagnostic.
type Record struct {
	Kind    Kind
	Line    int
	Message string
}

// Counter collects Records for one source file and counts errors and
// warnings separately. The zero value is ready to use.
type Counter struct {
	Basename string
	records  []Record
	errors   int
	warnings int
}

// NewCounter returns a Counter that will prefix every rendered line
// with basename.
func NewCounter(basename string) *Counter {
	return &Counter{Basename: basename}
}

// Errorf records an error at line and formats its message.
func (c *Counter) Errorf(line int, format string, args ...any) {
	c.add(Error, line, fmt.Sprintf(format, args...))
}

// Warnf records a warning at line and formats its message.
func (c *Counter) Warnf(line int, format string, args ...any) {
	c.add(Warning, line, fmt.Sprintf(format, args...))
}

func (c *Counter) add(kind Kind, line int, message string) {
	c.records = append(c.records, Record{Kind: kind, Line: line, Message: message})
	if kind == Error {
		c.errors++
	} else {
		c.warnings++
	}
}

// ErrorCount returns the number of errors recorded so far.
func (c *Counter) ErrorCount() int { return c.errors }

// WarningCount returns the number of warnings recorded so far.
func (c *Counter) WarningCount() int { return c.warnings }

// Records returns all diagnostics recorded so far, in report order.
func (c *Counter) Records() []Record { return c.records }

// Emit writes every recorded diagnostic to w, one per line, in the
// form "{basename}:{line}: error|warning: {message}".
func (c *Counter) Emit(w io.Writer) {
	for _, r := range c.records {
		fmt.Fprintf(w, "%s:%d: %s: %s\n", c.Basename, r.Line, r.Kind, r.Message)
	}
}
