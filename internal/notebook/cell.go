package notebook

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CellType is the nbformat cell_type field.
type CellType string

const (
	CellCode     CellType = "code"
	CellMarkdown CellType = "markdown"
	CellRaw      CellType = "raw"
)

// Source is a cell's source split into lines without their newlines.
// nbformat allows either one multi-line string or a list of strings.
type Source []string

func (s *Source) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if text == "" {
			*s = nil
			return nil
		}
		lines := strings.Split(text, "\n")
		for i := range lines {
			lines[i] = strings.TrimSuffix(lines[i], "\r")
		}
		*s = lines
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("source must be a string or a list of strings: %w", err)
	}
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		// one entry per line is the norm, but a stray embedded newline must
		// still produce separate lines
		for _, line := range strings.Split(strings.TrimSuffix(p, "\n"), "\n") {
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
	}
	*s = lines
	return nil
}

// Blank reports whether no line has anything but whitespace.
func (s Source) Blank() bool {
	for _, line := range s {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}

// Metadata holds the parts of cell metadata nbcheck reads.
type Metadata struct {
	Tags []string `json:"tags,omitempty"`
}

// Cell is one entry of the notebook's cells array.
type Cell struct {
	Type           CellType `json:"cell_type"`
	Source         Source   `json:"source"`
	ExecutionCount *int     `json:"execution_count,omitempty"`
	Metadata       Metadata `json:"metadata"`
}

// IsCode reports whether the cell is a code cell.
func (c Cell) IsCode() bool {
	return c.Type == CellCode
}

// ExecutionLabel is the execution counter as text, or a single space when
// the cell never ran.
func (c Cell) ExecutionLabel() string {
	if c.ExecutionCount == nil {
		return " "
	}
	return strconv.Itoa(*c.ExecutionCount)
}

// CellID identifies a code cell by its position in the original notebook.
type CellID struct {
	ExecutionLabel string
	CodeCellIndex  int // 1-based among code cells, empty ones included
	TotalCellIndex int // 1-based among all cells
}

// String renders the id the way Jupyter labels input cells.
func (id CellID) String() string {
	return "In[" + id.ExecutionLabel + "]"
}
