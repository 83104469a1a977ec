// Package magic rewrites IPython-only line syntax (shell escapes, magics,
// help queries) into plain Python so a checker can parse it.
package magic

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SessionSentinel starts every rewritten line that calls into the IPython session.
const SessionSentinel = "get_ipython"

// Transformer rewrites one source line.
type Transformer interface {
	Transform(line string) string
}

// IPython reproduces the line transforms IPython applies before execution.
type IPython struct{}

// NeedsTransform reports whether line uses interactive syntax.
func NeedsTransform(line string) bool {
	return strings.HasPrefix(line, "!") ||
		strings.HasPrefix(line, "?") ||
		strings.HasPrefix(line, "%") ||
		strings.HasSuffix(line, "?")
}

// UsesSession reports whether a rewritten line needs the IPython session object.
func UsesSession(line string) bool {
	return strings.HasPrefix(line, SessionSentinel)
}

// Transform returns line unchanged unless NeedsTransform says otherwise.
func (IPython) Transform(line string) string {
	if !NeedsTransform(line) {
		return line
	}
	switch {
	case strings.HasPrefix(line, "!!"):
		return fmt.Sprintf("get_ipython().getoutput(%s)", pyRepr(line[2:]))
	case strings.HasPrefix(line, "!"):
		return fmt.Sprintf("get_ipython().system(%s)", pyRepr(line[1:]))
	case strings.HasPrefix(line, "%%"):
		name, args := splitMagic(line[2:])
		return fmt.Sprintf("get_ipython().run_cell_magic(%s, %s, '')", pyRepr(name), pyRepr(args))
	case strings.HasPrefix(line, "%"):
		name, args := splitMagic(line[1:])
		return fmt.Sprintf("get_ipython().run_line_magic(%s, %s)", pyRepr(name), pyRepr(args))
	default:
		return help(line)
	}
}

// help handles "?obj", "??obj", "obj?" and "obj??".
func help(line string) string {
	body := strings.TrimSpace(line)
	level := 1
	switch {
	case strings.HasPrefix(body, "??"):
		body, level = body[2:], 2
	case strings.HasPrefix(body, "?"):
		body = body[1:]
	case strings.HasSuffix(body, "??"):
		body, level = body[:len(body)-2], 2
	default:
		body = body[:len(body)-1]
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "get_ipython().show_usage()"
	}
	magicName := "pinfo"
	if level == 2 {
		magicName = "pinfo2"
	}
	if strings.Contains(body, "*") {
		// wildcard searches go through psearch
		return fmt.Sprintf("get_ipython().run_line_magic('psearch', %s)", pyRepr(body))
	}
	return fmt.Sprintf("get_ipython().run_line_magic(%s, %s)", pyRepr(magicName), pyRepr(body))
}

func splitMagic(s string) (name, args string) {
	name, args, _ = strings.Cut(s, " ")
	return name, strings.TrimLeft(args, " ")
}

// pyRepr quotes s the way Python's repr does for str.
func pyRepr(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&b, `\x%02x`, s[i])
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
		i += size
	}
	b.WriteByte(quote)
	return b.String()
}
