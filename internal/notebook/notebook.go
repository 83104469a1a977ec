// Package notebook reads Jupyter notebooks and selects the cells that carry
// checkable code.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"nbcheck/internal/source"
)

// ErrInvalidNotebook marks a container that is not JSON or has no cells array.
var ErrInvalidNotebook = errors.New("invalid notebook")

// Document is a decoded notebook.
type Document struct {
	Path  string
	Cells []Cell
}

// Read loads and decodes the notebook at path.
// I/O failures are returned as-is; malformed content wraps ErrInvalidNotebook.
func Read(path string) (*Document, error) {
	content, _, err := source.ReadNormalized(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Decode parses notebook JSON.
func Decode(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	raw, ok := top["cells"]
	if !ok {
		return nil, fmt.Errorf("%w: missing \"cells\"", ErrInvalidNotebook)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: \"cells\" is not a list", ErrInvalidNotebook)
	}
	var cells []Cell
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	return &Document{Cells: cells}, nil
}
