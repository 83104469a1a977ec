package intermediate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nbcheck/internal/source"
)

// Ext replaces the notebook extension on intermediate files.
const Ext = ".ipynb_parsed"

// IsIntermediate reports whether path names an intermediate file.
func IsIntermediate(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}

// TempPath mirrors notebookPath's position under projectRoot inside tempRoot,
// swapping the extension for Ext. Notebooks outside projectRoot land at the
// top of tempRoot under their file name. Parent directories are created.
func TempPath(notebookPath, projectRoot, tempRoot string) (string, error) {
	rel, inside, err := source.Within(projectRoot, notebookPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s against %s: %w", notebookPath, projectRoot, err)
	}
	target := filepath.Join(tempRoot, filepath.Base(notebookPath))
	if inside {
		target = filepath.Join(tempRoot, rel)
	}
	target = strings.TrimSuffix(target, filepath.Ext(target)) + Ext

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}
	return target, nil
}

// Write stores doc at path. An empty document writes nothing and returns "".
func Write(doc Document, path string) (string, error) {
	if doc.Empty() {
		return "", nil
	}
	if err := os.WriteFile(path, []byte(doc.Text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
