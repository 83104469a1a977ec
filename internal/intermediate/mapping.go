package intermediate

import (
	"fmt"
	"sort"

	"nbcheck/internal/notebook"
	"nbcheck/internal/transpile"
)

// Mapping is the offset table of one intermediate file: CellIDs[i] owns the
// block starting at 1-based line StartLines[i]. It is never modified after
// Assemble returns it.
type Mapping struct {
	CellIDs    []notebook.CellID
	StartLines []int
}

// Len is the number of recorded cells.
func (m Mapping) Len() int {
	return len(m.StartLines)
}

// InvariantError reports an offset table that contradicts the assembled
// file. It indicates a bug and must abort the run.
type InvariantError struct {
	Line   int
	Detail string
}

func (e *InvariantError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("intermediate mapping invariant violated at line %d: %s", e.Line, e.Detail)
	}
	return "intermediate mapping invariant violated: " + e.Detail
}

// Resolve maps a 1-based line of the intermediate file to the owning cell
// and the 1-based line inside that cell.
func (m Mapping) Resolve(line int) (notebook.CellID, int, error) {
	if len(m.CellIDs) != len(m.StartLines) {
		return notebook.CellID{}, 0, &InvariantError{
			Line:   line,
			Detail: fmt.Sprintf("%d cell ids but %d start lines", len(m.CellIDs), len(m.StartLines)),
		}
	}
	// first start >= line; the owner is the one before it
	idx := sort.SearchInts(m.StartLines, line) - 1
	if idx < 0 {
		first := 0
		if len(m.StartLines) > 0 {
			first = m.StartLines[0]
		}
		return notebook.CellID{}, 0, &InvariantError{
			Line:   line,
			Detail: fmt.Sprintf("line is not after the first cell start %d", first),
		}
	}
	start := m.StartLines[idx]
	inCell := line - (start + transpile.BodyOffset)
	if inCell < 0 {
		inCell = -inCell
	}
	return m.CellIDs[idx], inCell, nil
}

// Validate checks the table against an assembled file of totalLines lines.
func (m Mapping) Validate(totalLines int) error {
	if len(m.CellIDs) != len(m.StartLines) {
		return &InvariantError{Detail: fmt.Sprintf("%d cell ids but %d start lines", len(m.CellIDs), len(m.StartLines))}
	}
	for i, start := range m.StartLines {
		if start < 1 || start > totalLines {
			return &InvariantError{Line: start, Detail: fmt.Sprintf("start line of cell %d outside 1..%d", i, totalLines)}
		}
		if i == 0 {
			continue
		}
		if start <= m.StartLines[i-1] {
			return &InvariantError{Line: start, Detail: "start lines are not strictly increasing"}
		}
		if m.CellIDs[i].TotalCellIndex <= m.CellIDs[i-1].TotalCellIndex {
			return &InvariantError{Line: start, Detail: "cell indices are not strictly increasing"}
		}
	}
	return nil
}
