// Package intermediate assembles transpiled cells into one checkable file
// and maps its line numbers back to notebook cells.
package intermediate

import (
	"strings"

	"nbcheck/internal/diag"
	"nbcheck/internal/magic"
	"nbcheck/internal/notebook"
	"nbcheck/internal/transpile"
)

// SessionPreamble is prepended when any cell calls into the IPython session.
const SessionPreamble = "from IPython import get_ipython\n\n\n"

// PreambleLines is the number of lines SessionPreamble occupies.
const PreambleLines = 3

// Document is the text of one intermediate file with its offset table.
type Document struct {
	Text        string
	Mapping     Mapping
	UsesSession bool
}

// Empty reports whether the notebook contributed nothing to check.
func (d Document) Empty() bool {
	return d.Text == ""
}

// LineCount is the number of lines in Text.
func (d Document) LineCount() int {
	return strings.Count(d.Text, "\n")
}

// Assemble concatenates blocks in order and records where each starts.
// No blocks yield an empty Document.
func Assemble(blocks []transpile.Block) Document {
	if len(blocks) == 0 {
		return Document{}
	}

	usesSession := false
	for _, b := range blocks {
		if b.UsesSession {
			usesSession = true
			break
		}
	}

	var sb strings.Builder
	cursor := 0
	if usesSession {
		sb.WriteString(SessionPreamble)
		cursor = PreambleLines
	}

	m := Mapping{
		CellIDs:    make([]notebook.CellID, 0, len(blocks)),
		StartLines: make([]int, 0, len(blocks)),
	}
	for _, b := range blocks {
		sb.WriteString(b.Text)
		m.CellIDs = append(m.CellIDs, b.ID)
		m.StartLines = append(m.StartLines, cursor+1)
		cursor += b.Lines
	}

	return Document{
		Text:        strings.TrimRight(sb.String(), "\n") + "\n",
		Mapping:     m,
		UsesSession: usesSession,
	}
}

// Build transpiles cells of the notebook at path and assembles them.
func Build(path string, cells []notebook.Selected, tr magic.Transformer, r diag.Reporter) Document {
	blocks := make([]transpile.Block, 0, len(cells))
	for _, c := range cells {
		blocks = append(blocks, transpile.Cell(path, c, tr, r))
	}
	return Assemble(blocks)
}
