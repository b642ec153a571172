// Package nmerr implements nm's error taxonomy (spec.md §7) and renders
// diagnostics with source context and a caret, grounded on the teacher's
// internal/errors.CompilerError but recolored with fatih/color instead of
// hand-rolled ANSI escape sequences.
package nmerr

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/nmlang/nm/internal/token"
)

// Kind names one of the fixed error categories spec.md §7 enumerates.
type Kind string

const (
	LexError       Kind = "LexError"
	SyntaxError    Kind = "SyntaxError"
	NameError      Kind = "NameError"
	TypeError      Kind = "TypeError"
	ArityError     Kind = "ArityError"
	IndexError     Kind = "IndexError"
	DivideByZero   Kind = "DivideByZero"
	IoError        Kind = "IoError"
	InferenceError Kind = "InferenceError"
)

// Diagnostic is a single reported error: its category, message, and the
// source position it occurred at. Source is kept alongside so Format can
// render the offending line without a second pass over the file.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Source  string // full text of the source file Pos belongs to, or ""
}

// New builds a Diagnostic; Source may be left empty when no source text
// is available (e.g. a REPL line already discarded).
func New(kind Kind, pos token.Position, source string, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, Source: source}
}

func (d *Diagnostic) Error() string { return d.Format(false) }

var (
	headerColor = color.New(color.FgRed, color.Bold)
	caretColor  = color.New(color.FgRed, color.Bold)
	msgColor    = color.New(color.Bold)
	dimColor    = color.New(color.Faint)
)

// Format renders the diagnostic the way the teacher's CompilerError.Format
// does: a header line, the offending source line, a caret under the
// column, then the message. Colorize controls whether ANSI codes are
// emitted; the CLI ties this to whether stdout is a terminal.
func (d *Diagnostic) Format(colorize bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s: %s:%d:%d", d.Kind, sourceLabel(d.Pos.SourceID), d.Pos.Line, d.Pos.Column)
	if colorize {
		sb.WriteString(headerColor.Sprint(header))
	} else {
		sb.WriteString(header)
	}
	sb.WriteByte('\n')

	if line := sourceLine(d.Source, d.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')

		caret := strings.Repeat(" ", len(prefix)+d.Pos.Column-1) + "^"
		if colorize {
			sb.WriteString(caretColor.Sprint(caret))
		} else {
			sb.WriteString(caret)
		}
		sb.WriteByte('\n')
	}

	if colorize {
		sb.WriteString(msgColor.Sprint(d.Message))
	} else {
		sb.WriteString(d.Message)
	}
	return sb.String()
}

func sourceLabel(id string) string {
	if id == "" {
		return "<input>"
	}
	return id
}

func sourceLine(source string, n int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// FormatAll renders a batch of diagnostics, dimming the separator line
// between them when colorize is set, matching the teacher's
// FormatErrors multi-error convention.
func FormatAll(diags []*Diagnostic, colorize bool) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = d.Format(colorize)
	}
	sep := "\n---\n"
	if colorize {
		sep = dimColor.Sprint("\n---\n")
	}
	return strings.Join(parts, sep)
}
