package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders diagnostics one per line as
// "<severity> <ID> <path>[:<line>] <message>", notes indented below.
// Newlines inside messages are folded into spaces.
func FormatShort(diags []Diagnostic, includeNotes bool) string {
	var b strings.Builder
	for i, d := range diags {
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity.Label(), d.Code.ID(), formatLocation(d.Primary), flatten(d.Message))
		if includeNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(&b, "\n  note %s %s", formatLocation(n.At), flatten(n.Msg))
			}
		}
		if i < len(diags)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func formatLocation(loc Location) string {
	path := loc.Path
	if path == "" {
		path = "<run>"
	}
	if loc.Line == 0 {
		return path
	}
	return fmt.Sprintf("%s:%d", path, loc.Line)
}

func flatten(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
