package diagfmt

import (
	"fmt"
	"io"

	"nbcheck/internal/driver"
)

// row and column a report is displayed at, with its location prefix
func (o Options) position(r driver.Report) (loc string, row, col int) {
	if r.Mapped {
		return o.CellFormat.Render(o.displayPath(r.Cell.NotebookPath), r.Cell), r.Cell.Line, r.Col
	}
	return o.displayPath(r.Path), r.Row, r.Col
}

func limit(reports []driver.Report, max int) []driver.Report {
	if max > 0 && max < len(reports) {
		return reports[:max]
	}
	return reports
}

// Default writes "<location>:<row>:<col>: <code> <text>" per report, the
// checker's own default layout.
func Default(w io.Writer, reports []driver.Report, opts Options) error {
	for _, r := range limit(reports, opts.Max) {
		loc, row, col := opts.position(r)
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s\n", loc, row, col, r.Code, r.Text); err != nil {
			return err
		}
	}
	return nil
}

// Render dispatches to the renderer for format. other holds checker
// output lines that are not findings; they are written after the findings
// by the text renderers and embedded by the JSON one.
func Render(w io.Writer, format Format, reports []driver.Report, other []string, opts Options) error {
	switch format {
	case FormatJSON:
		return JSON(w, reports, other, opts)
	case FormatPretty:
		if err := Pretty(w, reports, opts); err != nil {
			return err
		}
	default:
		if err := Default(w, reports, opts); err != nil {
			return err
		}
	}
	for _, line := range other {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
