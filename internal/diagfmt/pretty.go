package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"nbcheck/internal/driver"
)

type palette struct {
	path, pos, errCode, warnCode, otherCode, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:      color.New(color.Bold),
		pos:       color.New(color.FgHiBlack),
		errCode:   color.New(color.FgRed, color.Bold),
		warnCode:  color.New(color.FgYellow, color.Bold),
		otherCode: color.New(color.FgCyan, color.Bold),
		gutter:    color.New(color.FgBlue),
		caret:     color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.path, p.pos, p.errCode, p.warnCode, p.otherCode, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) code(code string) *color.Color {
	switch {
	case strings.HasPrefix(code, "E"), strings.HasPrefix(code, "F"):
		return p.errCode
	case strings.HasPrefix(code, "W"):
		return p.warnCode
	default:
		return p.otherCode
	}
}

// Pretty writes one coloured header per report followed by the offending
// line and a caret under the reported column when opts.Sources can load
// the checked file.
//
//	nb.ipynb#In[3]:2:5: E225 missing whitespace around operator
//	   |  x=1
//	   |   ^
func Pretty(w io.Writer, reports []driver.Report, opts Options) error {
	p := newPalette(opts.Color)
	for _, r := range limit(reports, opts.Max) {
		loc, row, col := opts.position(r)
		_, err := fmt.Fprintf(w, "%s%s %s %s\n",
			p.path.Sprint(loc),
			p.pos.Sprintf(":%d:%d:", row, col),
			p.code(r.Code).Sprint(r.Code),
			r.Text,
		)
		if err != nil {
			return err
		}
		if line, ok := previewLine(opts, r); ok {
			if err := writePreview(w, p, line, r.Col); err != nil {
				return err
			}
		}
	}
	return nil
}

func previewLine(opts Options, r driver.Report) (string, bool) {
	if opts.Sources == nil {
		return "", false
	}
	return opts.Sources.Line(r.Path, r.Row)
}

func writePreview(w io.Writer, p palette, line string, col int) error {
	line = strings.ReplaceAll(line, "\t", "    ")
	gutter := p.gutter.Sprint("   | ")
	if _, err := fmt.Fprintf(w, "%s%s\n", gutter, line); err != nil {
		return err
	}
	if col <= 0 {
		return nil
	}
	// checker columns count characters; the caret has to count cells
	runes := []rune(line)
	if col-1 > len(runes) {
		col = len(runes) + 1
	}
	pad := runewidth.StringWidth(string(runes[:col-1]))
	_, err := fmt.Fprintf(w, "%s%s%s\n", gutter, strings.Repeat(" ", pad), p.caret.Sprint("^"))
	return err
}
