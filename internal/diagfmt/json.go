package diagfmt

import (
	"encoding/json"
	"io"

	"nbcheck/internal/driver"
)

// CellJSON identifies a notebook cell.
type CellJSON struct {
	ExecutionLabel string `json:"execution_label"`
	CodeCellIndex  int    `json:"code_cell_index"`
	TotalCellIndex int    `json:"total_cell_index"`
}

// FindingJSON is one finding; Notebook and Cell are set for mapped ones.
type FindingJSON struct {
	Location string    `json:"location"`
	Path     string    `json:"path"`
	Notebook string    `json:"notebook,omitempty"`
	Cell     *CellJSON `json:"cell,omitempty"`
	Row      int       `json:"row"`
	Col      int       `json:"col"`
	Code     string    `json:"code"`
	Text     string    `json:"text"`
}

// FindingsOutput is the root of the JSON output.
type FindingsOutput struct {
	Findings []FindingJSON `json:"findings"`
	Count    int           `json:"count"`
	Other    []string      `json:"other,omitempty"`
}

// BuildFindingsOutput assembles the JSON document without encoding it.
func BuildFindingsOutput(reports []driver.Report, other []string, opts Options) FindingsOutput {
	reports = limit(reports, opts.Max)
	out := FindingsOutput{Findings: make([]FindingJSON, 0, len(reports)), Other: other}
	for _, r := range reports {
		loc, row, col := opts.position(r)
		f := FindingJSON{
			Location: loc,
			Path:     opts.displayPath(r.Path),
			Row:      row,
			Col:      col,
			Code:     r.Code,
			Text:     r.Text,
		}
		if r.Mapped {
			f.Notebook = opts.displayPath(r.Cell.NotebookPath)
			f.Cell = &CellJSON{
				ExecutionLabel: r.Cell.Cell.ExecutionLabel,
				CodeCellIndex:  r.Cell.Cell.CodeCellIndex,
				TotalCellIndex: r.Cell.Cell.TotalCellIndex,
			}
		}
		out.Findings = append(out.Findings, f)
	}
	out.Count = len(out.Findings)
	return out
}

// JSON writes the findings as one indented JSON document.
func JSON(w io.Writer, reports []driver.Report, other []string, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildFindingsOutput(reports, other, opts))
}
