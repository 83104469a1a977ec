package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[checker]
command = ["python", "-m", "flake8"]
args = ["--max-line-length", "100"]

[notebook]
cell_format = "{notebookPath}:cell#{totalCellIndex}"
keep_parsed = true

[run]
jobs = 3
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	m, ok, err := Discover(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, root, m.Root)
	assert.Equal(t, []string{"python", "-m", "flake8"}, m.Config.Checker.Command)
	assert.Equal(t, []string{"--max-line-length", "100"}, m.Config.Checker.Args)
	assert.Equal(t, "{notebookPath}:cell#{totalCellIndex}", m.Config.Notebook.CellFormat)
	assert.True(t, m.Config.Notebook.KeepParsed)
	assert.Equal(t, 3, m.Config.Run.Jobs)
	// unset keys keep defaults
	assert.Equal(t, Default().Notebook.Exclude, m.Config.Notebook.Exclude)
	assert.Equal(t, "default", m.Config.Run.Format)
}

func TestDiscoverWithoutFile(t *testing.T) {
	dir := t.TempDir()
	m, ok, err := Discover(dir)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, dir, m.Root)
	assert.Equal(t, Default(), m.Config)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[checker\n"},
		{"unknown key", "[checker]\nbinary = \"flake8\"\n"},
		{"empty command", "[checker]\ncommand = []\n"},
		{"bad cell format", "[notebook]\ncell_format = \"{cell}\"\n"},
		{"negative jobs", "[run]\njobs = -1\n"},
		{"bad format", "[run]\nformat = \"xml\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			assert.Error(t, err)
		})
	}
}
