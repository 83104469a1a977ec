// Package diagfmt renders checker findings and nbcheck warnings.
package diagfmt

import (
	"fmt"
	"path/filepath"
	"strings"

	"nbcheck/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	PathModeAsGiven PathMode = iota // as the user or checker spelled it
	PathModeAbsolute
	PathModeRelative // relative to Options.BaseDir
	PathModeBasename
)

// ParsePathMode converts a flag value to a PathMode.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(s) {
	case "", "auto", "given":
		return PathModeAsGiven, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	default:
		return PathModeAsGiven, fmt.Errorf("unknown path mode %q (expected: auto|absolute|relative|basename)", s)
	}
}

// Format selects a renderer.
type Format string

const (
	FormatDefault Format = "default"
	FormatPretty  Format = "pretty"
	FormatJSON    Format = "json"
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatDefault, nil
	case FormatDefault, FormatPretty, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected: default|pretty|json)", s)
	}
}

// Options configure every renderer.
type Options struct {
	CellFormat CellFormat
	PathMode   PathMode
	BaseDir    string
	Color      bool
	Max        int // 0 for all
	// Sources resolves preview lines for pretty output; nil disables them.
	Sources *source.FileSet
}

func (o Options) displayPath(p string) string {
	switch o.PathMode {
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(p); err == nil {
			return filepath.FromSlash(abs)
		}
	case PathModeRelative:
		if rel, err := source.RelativePath(p, o.BaseDir); err == nil {
			return filepath.FromSlash(rel)
		}
	case PathModeBasename:
		return source.BaseName(p)
	}
	return p
}
