package parser

import (
	"fmt"
	"strings"
)

// ParseError reports a syntax violation with enough context to render a
// caret diagnostic: the 1-based line/column, the offending message, the
// full source line, and a caret string pointing at the column.
type ParseError struct {
	Line       int
	Column     int
	Message    string
	SourceLine string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Caret renders a "^" marker under the offending column of SourceLine, for
// terminal-style diagnostics.
func (e *ParseError) Caret() string {
	if e.Column < 1 {
		return "^"
	}
	return strings.Repeat(" ", e.Column-1) + "^"
}

func (p *parser) errorf(tok token, format string, args ...any) *ParseError {
	return &ParseError{
		Line:       tok.line,
		Column:     tok.column,
		Message:    fmt.Sprintf(format, args...),
		SourceLine: sourceLineAt(p.src, tok.line),
	}
}
