package notebook

import (
	"errors"
	"fmt"

	"nbcheck/internal/diag"
)

// Selected is a non-empty code cell ready for transpiling.
type Selected struct {
	ID    CellID
	Lines []string
	Tags  []string
}

// Select keeps code cells with at least one non-blank line and assigns their ids.
// Indices come from one reverse pass with independent counters, so dropping
// trailing cells never shifts the ids of earlier ones.
func Select(cells []Cell) []Selected {
	codeCells := 0
	for _, c := range cells {
		if c.IsCode() {
			codeCells++
		}
	}

	out := make([]Selected, 0, codeCells)
	codeIdx := codeCells
	for i := len(cells) - 1; i >= 0; i-- {
		c := cells[i]
		if !c.IsCode() {
			continue
		}
		if !c.Source.Blank() {
			out = append(out, Selected{
				ID: CellID{
					ExecutionLabel: c.ExecutionLabel(),
					CodeCellIndex:  codeIdx,
					TotalCellIndex: i + 1,
				},
				Lines: append([]string(nil), c.Source...),
				Tags:  append([]string(nil), c.Metadata.Tags...),
			})
		}
		codeIdx--
	}

	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// Load reads path and selects its code cells. A notebook that cannot be read
// or parsed produces a warning and no cells; it never fails the run.
func Load(path string, r diag.Reporter) []Selected {
	doc, err := Read(path)
	if err != nil {
		code := diag.NbUnreadable
		msg := fmt.Sprintf("Error reading notebook at path '%s'.", path)
		if errors.Is(err, ErrInvalidNotebook) {
			code = diag.NbInvalidNotebook
			msg = fmt.Sprintf("Error parsing notebook at path '%s'. Make sure this is a valid notebook.", path)
		}
		diag.ReportWarning(r, code, diag.Location{Path: path}, msg).
			WithNote(diag.Location{Path: path}, err.Error()).
			Emit()
		return nil
	}
	selected := Select(doc.Cells)
	if len(selected) == 0 {
		diag.ReportInfo(r, diag.NbNoCodeCells, diag.Location{Path: path},
			fmt.Sprintf("Notebook at path '%s' has no code to check.", path)).Emit()
	}
	return selected
}
