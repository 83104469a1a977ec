package diagfmt

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbcheck/internal/checker"
	"nbcheck/internal/diag"
	"nbcheck/internal/driver"
	"nbcheck/internal/notebook"
	"nbcheck/internal/source"
)

func mappedReport() driver.Report {
	return driver.Report{
		Finding: checker.Finding{Path: "/tmp/nbcheck_1/nb.ipynb_parsed", Row: 11, Col: 2, Code: "E225", Text: "missing whitespace around operator"},
		Mapped:  true,
		Cell: driver.Location{
			NotebookPath: "notebooks/nb.ipynb",
			Cell:         notebook.CellID{ExecutionLabel: "3", CodeCellIndex: 2, TotalCellIndex: 5},
			Line:         2,
		},
	}
}

func plainReport() driver.Report {
	return driver.Report{Finding: checker.Finding{Path: "mod.py", Row: 3, Col: 80, Code: "E501", Text: "line too long (85 > 79 characters)"}}
}

func TestParseCellFormat(t *testing.T) {
	loc := mappedReport().Cell
	tests := []struct {
		tmpl string
		want string
	}{
		{"", "nb.ipynb#In[3]"},
		{"{notebookPath}:code_cell#{codeCellIndex}", "nb.ipynb:code_cell#2"},
		{"{notebookPath}:cell#{totalCellIndex}:In[{executionLabel}]", "nb.ipynb:cell#5:In[3]"},
	}
	for _, tt := range tests {
		f, err := ParseCellFormat(tt.tmpl)
		require.NoError(t, err, tt.tmpl)
		assert.Equal(t, tt.want, f.Render("nb.ipynb", loc))
	}
}

func TestParseCellFormatErrors(t *testing.T) {
	for _, tmpl := range []string{"{notebook}", "{notebookPath", "In]{x}", "a}b{notebookPath}"} {
		_, err := ParseCellFormat(tmpl)
		assert.Error(t, err, tmpl)
	}
}

func TestDefault(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{CellFormat: MustParseCellFormat(DefaultCellFormat)}
	require.NoError(t, Render(&buf, FormatDefault, []driver.Report{mappedReport(), plainReport()}, []string{"2     E501"}, opts))
	assert.Equal(t,
		"notebooks/nb.ipynb#In[3]:2:2: E225 missing whitespace around operator\n"+
			"mod.py:3:80: E501 line too long (85 > 79 characters)\n"+
			"2     E501\n",
		buf.String())
}

func TestDefaultMaxAndBasename(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{PathMode: PathModeBasename, Max: 1}
	require.NoError(t, Default(&buf, []driver.Report{mappedReport(), plainReport()}, opts))
	assert.Equal(t, "nb.ipynb#In[3]:2:2: E225 missing whitespace around operator\n", buf.String())
}

func TestPrettyPreview(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\nx=1\n"), 0o644))

	r := driver.Report{Finding: checker.Finding{Path: path, Row: 2, Col: 2, Code: "E225", Text: "missing whitespace"}}
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, []driver.Report{r}, Options{Sources: source.NewFileSet()}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, path+":2:2: E225 missing whitespace", lines[0])
	assert.Equal(t, "   | x=1", lines[1])
	assert.Equal(t, "   |  ^", lines[2])
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, []driver.Report{plainReport()}, Options{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, []driver.Report{mappedReport(), plainReport()}, nil, Options{}))

	var out FindingsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 2, out.Count)
	assert.Equal(t, "notebooks/nb.ipynb#In[3]", out.Findings[0].Location)
	require.NotNil(t, out.Findings[0].Cell)
	assert.Equal(t, 2, out.Findings[0].Cell.CodeCellIndex)
	assert.Equal(t, 2, out.Findings[0].Row)
	assert.Nil(t, out.Findings[1].Cell)
	assert.Equal(t, 80, out.Findings[1].Col)
}

func TestWarnings(t *testing.T) {
	d := diag.NewWarning(diag.NbInvalidNotebook, diag.Location{Path: "bad.ipynb"}, "Error parsing notebook")
	var buf bytes.Buffer
	require.NoError(t, Warnings(&buf, []diag.Diagnostic{d}, false))
	assert.Equal(t, "warning NB1001 bad.ipynb Error parsing notebook\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatDefault, f)
	_, err = ParseFormat("sarif")
	assert.Error(t, err)
}
