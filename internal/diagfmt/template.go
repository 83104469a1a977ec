package diagfmt

import (
	"fmt"
	"strconv"
	"strings"

	"nbcheck/internal/driver"
)

// DefaultCellFormat renders "path/to/nb.ipynb#In[3]".
const DefaultCellFormat = "{notebookPath}#In[{executionLabel}]"

// Template variables.
const (
	VarNotebookPath   = "notebookPath"
	VarExecutionLabel = "executionLabel"
	VarCodeCellIndex  = "codeCellIndex"
	VarTotalCellIndex = "totalCellIndex"
)

type segment struct {
	literal  string
	variable string // empty for literal segments
}

// CellFormat is a parsed cell location template.
type CellFormat struct {
	raw      string
	segments []segment
}

// ParseCellFormat parses a template such as DefaultCellFormat. Unknown
// variables and unbalanced braces are errors. An empty string selects the
// default.
func ParseCellFormat(s string) (CellFormat, error) {
	if s == "" {
		s = DefaultCellFormat
	}
	f := CellFormat{raw: s}
	rest := s
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		closeIdx := strings.IndexByte(rest, '}')
		if open < 0 {
			if closeIdx >= 0 {
				return CellFormat{}, fmt.Errorf("cell format %q: unmatched '}'", s)
			}
			f.segments = append(f.segments, segment{literal: rest})
			break
		}
		if closeIdx >= 0 && closeIdx < open {
			return CellFormat{}, fmt.Errorf("cell format %q: unmatched '}'", s)
		}
		if open > 0 {
			f.segments = append(f.segments, segment{literal: rest[:open]})
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return CellFormat{}, fmt.Errorf("cell format %q: unterminated '{'", s)
		}
		name := rest[open+1 : open+end]
		switch name {
		case VarNotebookPath, VarExecutionLabel, VarCodeCellIndex, VarTotalCellIndex:
		default:
			return CellFormat{}, fmt.Errorf("cell format %q: unknown variable {%s}", s, name)
		}
		f.segments = append(f.segments, segment{variable: name})
		rest = rest[open+end+1:]
	}
	return f, nil
}

// MustParseCellFormat is ParseCellFormat for known-good templates.
func MustParseCellFormat(s string) CellFormat {
	f, err := ParseCellFormat(s)
	if err != nil {
		panic(err)
	}
	return f
}

func (f CellFormat) String() string {
	return f.raw
}

// Render expands the template for loc. path is the notebook path as it
// should be displayed.
func (f CellFormat) Render(path string, loc driver.Location) string {
	if f.segments == nil {
		f = MustParseCellFormat(DefaultCellFormat)
	}
	var sb strings.Builder
	for _, seg := range f.segments {
		switch seg.variable {
		case "":
			sb.WriteString(seg.literal)
		case VarNotebookPath:
			sb.WriteString(path)
		case VarExecutionLabel:
			sb.WriteString(loc.Cell.ExecutionLabel)
		case VarCodeCellIndex:
			sb.WriteString(strconv.Itoa(loc.Cell.CodeCellIndex))
		case VarTotalCellIndex:
			sb.WriteString(strconv.Itoa(loc.Cell.TotalCellIndex))
		}
	}
	return sb.String()
}
