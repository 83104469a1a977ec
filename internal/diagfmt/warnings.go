package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"nbcheck/internal/diag"
)

// Warnings writes nbcheck's own diagnostics, one per line, with notes
// indented below. Severity labels are coloured when enabled.
func Warnings(w io.Writer, diags []diag.Diagnostic, enabled bool) error {
	for _, d := range diags {
		label := severityColor(d.Severity)
		if enabled {
			label.EnableColor()
		} else {
			label.DisableColor()
		}
		line := diag.FormatShort([]diag.Diagnostic{d}, true)
		// FormatShort starts with the plain label; swap in the coloured one
		line = label.Sprint(d.Severity.Label()) + line[len(d.Severity.Label()):]
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
