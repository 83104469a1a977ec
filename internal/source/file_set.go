package source

import (
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// FileSet caches files that findings point into, so a report can quote the
// offending line. It is safe for concurrent use.
type FileSet struct {
	mu    sync.RWMutex
	files []File
	index map[string]FileID // normalized path -> latest id
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// Add stores normalized content under path. Adding a path again keeps the
// old version addressable by its id and points the path at the new one.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lineIdx := buildLineIndex(content)
	key := normalizePath(path)

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    key,
		Content: content,
		LineIdx: lineIdx,
		Flags:   flags,
	})
	fileSet.index[key] = id
	return id
}

// Load reads path from disk through ReadNormalized and adds it.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	content, flags, err := ReadNormalized(path)
	if err != nil {
		return 0, err
	}
	return fileSet.Add(path, content, flags), nil
}

// Get returns the file with id, or nil.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// GetByPath returns the latest file added under path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Line returns 1-based line row of path, loading the file on first use.
// ok is false when the file cannot be read or has no such line.
func (fileSet *FileSet) Line(path string, row int) (string, bool) {
	if row <= 0 {
		return "", false
	}
	f, ok := fileSet.GetByPath(path)
	if !ok {
		id, err := fileSet.Load(path)
		if err != nil {
			return "", false
		}
		f = fileSet.Get(id)
	}
	n, err := safecast.Conv[uint32](row)
	if err != nil || n > f.LineCount() {
		return "", false
	}
	return f.GetLine(n), true
}

// LineCount counts lines, including a last line without a newline.
func (f *File) LineCount() uint32 {
	n, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

// GetLine returns 1-based line lineNum without its newline; "" when out of range.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || lineNum > f.LineCount() {
		return ""
	}
	var start uint32
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2] + 1
	}
	if int(lineNum-1) < len(f.LineIdx) {
		return string(f.Content[start:f.LineIdx[lineNum-1]])
	}
	return string(f.Content[start:])
}
