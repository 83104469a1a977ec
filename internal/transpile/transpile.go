// Package transpile turns one selected notebook cell into a block of plain
// Python with normalized noqa comments.
package transpile

import (
	"fmt"
	"strings"

	"nbcheck/internal/diag"
	"nbcheck/internal/magic"
	"nbcheck/internal/noqa"
	"nbcheck/internal/notebook"
)

// Block layout: one marker line, LeadingBlankLines blank lines, the cell's
// lines, TrailingBlankLines blank lines.
const (
	MarkerLines        = 1
	LeadingBlankLines  = 2
	TrailingBlankLines = 2

	// Overhead is the number of lines a block adds around the cell's lines.
	Overhead = MarkerLines + LeadingBlankLines + TrailingBlankLines

	// BodyOffset is subtracted from a line's distance to its block's first
	// line to get the 1-based line inside the cell: the first cell line sits
	// at blockStart + BodyOffset + 1.
	BodyOffset = MarkerLines + LeadingBlankLines - 1
)

// MarkerPrefix starts the first line of every block.
const MarkerPrefix = "# INTERMEDIATE_CELL_SEPARATOR"

// Block is a transpiled cell.
type Block struct {
	ID          notebook.CellID
	Text        string
	Lines       int
	UsesSession bool
}

// Marker renders the first line of the block for id.
func Marker(id notebook.CellID) string {
	return fmt.Sprintf("%s (%s,%d,%d)", MarkerPrefix, id.ExecutionLabel, id.CodeCellIndex, id.TotalCellIndex)
}

// Cell transpiles one cell of the notebook at path. Interactive syntax is
// rewritten first, then tags are resolved and every line gets the noqa
// comment its rules call for. A nil tr leaves lines untouched.
func Cell(path string, cell notebook.Selected, tr magic.Transformer, r diag.Reporter) Block {
	lines := make([]string, len(cell.Lines))
	usesSession := false
	for i, line := range cell.Lines {
		if tr != nil {
			line = tr.Transform(line)
		}
		if magic.UsesSession(line) {
			usesSession = true
		}
		lines[i] = line
	}

	rules, cleaned := noqa.Resolve(diag.Location{Path: path}, cell.Tags, lines, r)

	var b strings.Builder
	b.WriteString(Marker(cell.ID))
	b.WriteString(strings.Repeat("\n", 1+LeadingBlankLines))
	for i, line := range cleaned {
		b.WriteString(noqa.Annotate(line, rules.ForLine(i+1)))
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat("\n", TrailingBlankLines))

	return Block{
		ID:          cell.ID,
		Text:        b.String(),
		Lines:       len(cleaned) + Overhead,
		UsesSession: usesSession,
	}
}
