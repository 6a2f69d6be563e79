package position

import (
	"fmt"
	"strings"
)

// Underline returns a marker line that places carets under the columns
// [startCol, endCol) of line. Tabs before the marker are preserved so the
// carets line up with the source when both are printed with the same
// indentation. At least one caret is always produced, which covers
// zero-width spans such as the EOF token.
func Underline(line string, startCol, endCol int) string {
	runes := []rune(line)
	if startCol < 1 {
		startCol = 1
	}

	var result strings.Builder

	for i := 1; i < startCol; i++ {
		if i <= len(runes) && runes[i-1] == '\t' {
			result.WriteByte('\t')
		} else {
			result.WriteByte(' ')
		}
	}

	width := endCol - startCol
	if limit := len(runes) - startCol + 1; width > limit {
		width = limit
	}
	if width < 1 {
		width = 1
	}

	result.WriteString(strings.Repeat("^", width))

	return result.String()
}

// Highlight renders the source lines covered by span, each followed by an
// underline marker, using a "%4d | " gutter.
func (sf *SourceFile) Highlight(span Span) string {
	if !span.Start.IsValid() {
		return ""
	}

	end := span.End
	if !end.IsValid() || end.Line < span.Start.Line {
		end = span.Start
	}

	var result strings.Builder

	for lineNum := span.Start.Line; lineNum <= end.Line && lineNum <= len(sf.Lines); lineNum++ {
		line := sf.GetLine(lineNum)
		startCol, endCol := 1, len([]rune(line))+1
		if lineNum == span.Start.Line {
			startCol = span.Start.Column
		}
		if lineNum == end.Line {
			endCol = end.Column
		}

		result.WriteString(fmt.Sprintf("%4d | %s\n", lineNum, line))
		result.WriteString("     | ")
		result.WriteString(Underline(line, startCol, endCol))
		result.WriteByte('\n')
	}

	return result.String()
}
