package transpile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbcheck/internal/diag"
	"nbcheck/internal/magic"
	"nbcheck/internal/notebook"
)

func selected(tags []string, lines ...string) notebook.Selected {
	return notebook.Selected{
		ID:    notebook.CellID{ExecutionLabel: "3", CodeCellIndex: 2, TotalCellIndex: 4},
		Lines: lines,
		Tags:  tags,
	}
}

func bodyLines(t *testing.T, b Block) []string {
	t.Helper()
	all := strings.Split(b.Text, "\n")
	// Text ends with '\n', so Split yields one extra empty element
	require.Len(t, all, b.Lines+1)
	return all[MarkerLines+LeadingBlankLines : b.Lines-TrailingBlankLines]
}

func TestCellLayout(t *testing.T) {
	b := Cell("nb.ipynb", selected(nil, "import os", "", "x = 1"), magic.IPython{}, nil)

	assert.Equal(t, "# INTERMEDIATE_CELL_SEPARATOR (3,2,4)\n\n\nimport os\n\nx = 1\n\n\n", b.Text)
	assert.Equal(t, 8, b.Lines)
	assert.False(t, b.UsesSession)
	assert.Equal(t, notebook.CellID{ExecutionLabel: "3", CodeCellIndex: 2, TotalCellIndex: 4}, b.ID)
}

func TestCellCodesTagAnnotatesEveryLine(t *testing.T) {
	b := Cell("nb.ipynb", selected([]string{"flake8-noqa-cell-E402-F401"}, "import os", "import sys"), nil, nil)
	for _, line := range bodyLines(t, b) {
		assert.True(t, strings.HasSuffix(line, "  # noqa: E402, F401"), "line %q", line)
	}
}

func TestCellSuppressAllTag(t *testing.T) {
	b := Cell("nb.ipynb", selected([]string{"flake8-noqa-cell"}, "import os", "x=1"), nil, nil)
	assert.Equal(t, []string{"import os  # noqa", "x=1  # noqa"}, bodyLines(t, b))
}

func TestInlineNoqaOnlyTouchesItsLine(t *testing.T) {
	b := Cell("nb.ipynb", selected(nil, "a = 1", "very_long = 2  # noqa: E501", "c = 3"), nil, nil)
	assert.Equal(t, []string{"a = 1", "very_long = 2  # noqa: E501", "c = 3"}, bodyLines(t, b))
}

func TestLineTagAndInlineTag(t *testing.T) {
	b := Cell("nb.ipynb", selected([]string{"flake8-noqa-line-2-W291"},
		"import os  # flake8-noqa-line-1-F401",
		"x = 1 ",
	), nil, nil)
	assert.Equal(t, []string{"import os  # noqa: F401", "x = 1   # noqa: W291"}, bodyLines(t, b))
}

func TestMagicSetsSessionFlag(t *testing.T) {
	b := Cell("nb.ipynb", selected(nil, "%matplotlib inline", "import numpy as np"), magic.IPython{}, nil)
	assert.True(t, b.UsesSession)
	assert.Equal(t, []string{
		"get_ipython().run_line_magic('matplotlib', 'inline')",
		"import numpy as np",
	}, bodyLines(t, b))
}

func TestInvalidTagWarns(t *testing.T) {
	bag := diag.NewBag(0)
	b := Cell("nb.ipynb", selected([]string{"flake8-noqa-cel-E402"}, "x = 1"), nil, diag.BagReporter{Bag: bag})
	assert.Equal(t, []string{"x = 1"}, bodyLines(t, b))
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.TagInvalid, bag.Items()[0].Code)
	assert.Equal(t, "nb.ipynb", bag.Items()[0].Primary.Path)
}

func TestUnexecutedMarker(t *testing.T) {
	id := notebook.CellID{ExecutionLabel: " ", CodeCellIndex: 1, TotalCellIndex: 1}
	assert.Equal(t, "# INTERMEDIATE_CELL_SEPARATOR ( ,1,1)", Marker(id))
}

func TestLayoutConstants(t *testing.T) {
	assert.Equal(t, 5, Overhead)
	assert.Equal(t, 2, BodyOffset)
}
