package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("nb.ipynb_parsed", []byte("x = 1\n"), 0)
	id2 := fs.Add("nb.ipynb_parsed", []byte("x = 2\n"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	f, ok := fs.GetByPath("nb.ipynb_parsed")
	if !ok {
		t.Fatal("expected file to be indexed by path")
	}
	if f.ID != id2 {
		t.Errorf("expected path index to point at %d, got %d", id2, f.ID)
	}
	if string(fs.Get(id1).Content) != "x = 1\n" {
		t.Errorf("old version should stay addressable, got %q", fs.Get(id1).Content)
	}
	if fs.Get(FileID(99)) != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestLineIndex(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.Add("a.py", []byte("a\nb\n"), 0))

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], val)
		}
	}
}

func TestGetLineAndLineCount(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.Add("x.py", []byte("first\n\nthird"), 0))

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, ""},
		{3, "third"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
	if got := f.LineCount(); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}

	terminated := fs.Get(fs.Add("y.py", []byte("a\nb\n"), 0))
	if got := terminated.LineCount(); got != 2 {
		t.Errorf("LineCount() = %d, want 2", got)
	}
	if got := terminated.GetLine(2); got != "b" {
		t.Errorf("GetLine(2) = %q, want %q", got, "b")
	}
}

func TestLineLoadsOnFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.ipynb_parsed")
	if err := os.WriteFile(path, []byte("import os\r\nx = 1\r\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	if got, ok := fs.Line(path, 2); !ok || got != "x = 1" {
		t.Fatalf("Line(2) = %q, %v", got, ok)
	}
	if _, ok := fs.GetByPath(path); !ok {
		t.Error("expected file to be cached after Line")
	}
	if _, ok := fs.Line(path, 3); ok {
		t.Error("expected no line 3")
	}
	if _, ok := fs.Line(path, 0); ok {
		t.Error("expected no line 0")
	}
	if _, ok := fs.Line(filepath.Join(t.TempDir(), "missing.py"), 1); ok {
		t.Error("expected missing file to yield no line")
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nb.ipynb")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("{\r\n\"cells\": []\r\n}")...)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "{\n\"cells\": []\n}" {
		t.Errorf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("expected BOM and CRLF flags, got %b", f.Flags)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.ipynb")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNormalizeCRLFKeepsLoneCR(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\rb\r\nc"))
	if !changed {
		t.Fatal("expected change")
	}
	if string(out) != "a\rb\nc" {
		t.Fatalf("got %q", out)
	}
}
