package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// NotebookExt is the extension picked up from directories.
const NotebookExt = ".ipynb"

// DefaultExclude lists patterns skipped during discovery.
var DefaultExclude = []string{"*.tox/*", "*.ipynb_checkpoints*"}

// Discovery is the outcome of CollectNotebooks.
type Discovery struct {
	Notebooks []string
	Forward   []string // arguments for the checker itself
}

// CollectNotebooks expands args into notebook files. Directories are
// walked for notebooks and also forwarded so the checker sees their other
// files; non-notebook files are forwarded as they are. No args means ".".
// A path matches exclude when a pattern matches it whole or matches its
// base name.
func CollectNotebooks(args, exclude []string) (Discovery, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	var d Discovery
	seen := make(map[string]struct{})
	add := func(p string) {
		key := pathKey(p)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		d.Notebooks = append(d.Notebooks, p)
	}

	for _, arg := range args {
		if excluded(arg, exclude) {
			continue
		}
		st, err := os.Stat(arg)
		if err != nil {
			// let the checker report paths it cannot open
			d.Forward = append(d.Forward, arg)
			continue
		}
		if !st.IsDir() {
			if isNotebook(arg) {
				add(arg)
			} else {
				d.Forward = append(d.Forward, arg)
			}
			continue
		}

		d.Forward = append(d.Forward, arg)
		err = filepath.WalkDir(arg, func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if excluded(p, exclude) {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !entry.IsDir() && isNotebook(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return Discovery{}, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}
	return d, nil
}

func isNotebook(p string) bool {
	return strings.EqualFold(filepath.Ext(p), NotebookExt)
}

func excluded(p string, patterns []string) bool {
	slashed := filepath.ToSlash(p)
	base := filepath.Base(p)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, slashed); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
		// "*.tox/*" style patterns name a directory anywhere in the path
		if dir, rest, cut := strings.Cut(pat, "/"); cut && rest == "*" {
			for _, part := range strings.Split(slashed, "/") {
				if ok, _ := filepath.Match(dir, part); ok {
					return true
				}
			}
		}
	}
	return false
}
