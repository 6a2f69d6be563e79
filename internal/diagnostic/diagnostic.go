// Package diagnostic turns scanner and parser errors into source-annotated
// reports for terminals and log files.
package diagnostic

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/monkeylang/monkey/internal/lexer"
	"github.com/monkeylang/monkey/internal/parser"
	"github.com/monkeylang/monkey/internal/position"
)

// DiagnosticLevel represents the severity level of a diagnostic message.
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is one reportable problem with its location.
type Diagnostic struct {
	Level   DiagnosticLevel
	Code    string
	Message string
	Hint    string
	Span    position.Span
}

// FromError flattens err into diagnostics. ErrorList values and anything
// else implementing Unwrap() []error are expanded one level per error.
func FromError(err error) []Diagnostic {
	if err == nil {
		return nil
	}

	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []Diagnostic
		for _, e := range multi.Unwrap() {
			out = append(out, FromError(e)...)
		}
		return out
	}

	var pe *parser.ParseError
	if errors.As(err, &pe) {
		d := Diagnostic{
			Level:   DiagnosticError,
			Code:    pe.Kind.String(),
			Message: pe.Message,
			Hint:    pe.Hint,
			Span:    pe.Actual.Span,
		}
		var lexErr *lexer.LexError
		if pe.Kind == parser.LexicalError && errors.As(pe.Err, &lexErr) {
			d.Message = fmt.Sprintf("%v: %s", lexErr.Err, lexErr.Literal)
		}
		if !d.Span.Start.IsValid() || d.Span.Start != pe.Pos {
			d.Span = position.Span{Start: pe.Pos, End: pe.Pos}
		}
		return []Diagnostic{d}
	}

	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		return []Diagnostic{{
			Level:   DiagnosticError,
			Code:    "lexical error",
			Message: fmt.Sprintf("%v: %s", lexErr.Err, lexErr.Literal),
			Span:    position.Span{Start: lexErr.Pos, End: lexErr.Pos},
		}}
	}

	return []Diagnostic{{Level: DiagnosticError, Code: "error", Message: err.Error()}}
}

var (
	colorError = lipgloss.Color("#EF4444")
	colorWarn  = lipgloss.Color("#F59E0B")
	colorHint  = lipgloss.Color("#06B6D4")
	colorMuted = lipgloss.Color("#6B7280")

	locationStyle = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(colorHint)
	sourceStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// Renderer formats diagnostics against the source they refer to.
type Renderer struct {
	source *position.SourceFile
	color  bool
}

// NewRenderer creates a renderer. source may be nil, in which case no code
// excerpt is printed. color enables ANSI styling.
func NewRenderer(source *position.SourceFile, color bool) *Renderer {
	return &Renderer{source: source, color: color}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Format renders a single diagnostic as a header line, the highlighted
// source excerpt and an optional hint line.
func (r *Renderer) Format(d Diagnostic) string {
	var result strings.Builder

	levelStyle := errorStyle
	if d.Level == DiagnosticWarning {
		levelStyle = warningStyle
	}

	if d.Span.Start.IsValid() {
		result.WriteString(r.style(locationStyle, d.Span.Start.String()))
		result.WriteString(": ")
	}

	result.WriteString(r.style(levelStyle, fmt.Sprintf("%s[%s]", d.Level, d.Code)))
	result.WriteString(": ")
	result.WriteString(d.Message)
	result.WriteByte('\n')

	if r.source != nil && d.Span.Start.IsValid() {
		result.WriteString(r.style(sourceStyle, strings.TrimSuffix(r.source.Highlight(d.Span), "\n")))
		result.WriteByte('\n')
	}

	if d.Hint != "" {
		result.WriteString(r.style(hintStyle, "hint: "+d.Hint))
		result.WriteByte('\n')
	}

	return result.String()
}

// Render writes every diagnostic in source order followed by a count.
func (r *Renderer) Render(w io.Writer, diags []Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}

	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	Sort(sorted)

	var result strings.Builder
	for _, d := range sorted {
		result.WriteString(r.Format(d))
	}
	result.WriteString(Summary(sorted))
	result.WriteByte('\n')

	_, err := io.WriteString(w, result.String())
	return err
}

// RenderError is a shorthand for Render(w, FromError(err)).
func (r *Renderer) RenderError(w io.Writer, err error) error {
	return r.Render(w, FromError(err))
}

// Sort orders diagnostics by file, line and column, keeping the original
// order for equal positions.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Span.Start, diags[j].Span.Start

		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Summary returns a one-line count such as "2 errors, 1 warning".
func Summary(diags []Diagnostic) string {
	var errs, warnings int
	for _, d := range diags {
		switch d.Level {
		case DiagnosticError:
			errs++
		case DiagnosticWarning:
			warnings++
		}
	}

	if errs == 0 && warnings == 0 {
		return "no issues found"
	}

	var parts []string
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warnings > 0 {
		parts = append(parts, plural(warnings, "warning"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
