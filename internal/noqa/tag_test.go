package noqa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		raw   string
		kind  Kind
		line  int
		codes []string
	}{
		{"flake8-noqa-cell", CellSuppressAll, 0, nil},
		{"flake8-noqa-cell-E402", CellSuppressCodes, 0, []string{"E402"}},
		{"flake8-noqa-cell-E402-F401", CellSuppressCodes, 0, []string{"E402", "F401"}},
		{"flake8-noqa-cell-E402-", CellSuppressCodes, 0, []string{"E402"}},
		{"flake8-noqa-line-3", LineSuppressAll, 3, nil},
		{"flake8-noqa-line-12-W291-E501", LineSuppressCodes, 12, []string{"W291", "E501"}},
		{"flake8-noqa-line-E402", Invalid, 0, nil},
		{"flake8-noqa-cel-E402", Invalid, 0, nil},
		{"flake8-noqa-cell-", Invalid, 0, nil},
		{"flake8-noqa-cell-E", Invalid, 0, nil},
		{"flake8-noqa-", Invalid, 0, nil},
		{"flake8-noqa-line-", Invalid, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			tag := ParseTag(tt.raw)
			assert.Equal(t, tt.kind, tag.Kind, "kind of %q", tt.raw)
			assert.Equal(t, tt.line, tag.Line)
			assert.Equal(t, tt.codes, tag.Codes)
			assert.Equal(t, tt.raw, tag.Raw)
		})
	}
}

func TestParseTagNormalizesUnicode(t *testing.T) {
	// decomposed "E\u0301" composes to "\u00c9" under NFC, still not a rule code
	tag := ParseTag("flake8-noqa-cell-E\u0301402")
	assert.Equal(t, Invalid, tag.Kind)

	tag = ParseTag("  flake8-noqa-cell-W291 ")
	assert.Equal(t, CellSuppressCodes, tag.Kind)
	assert.Equal(t, []string{"W291"}, tag.Codes)
}

func TestTagRules(t *testing.T) {
	assert.Equal(t, RuleSet{CellKey: {SuppressAll}}, ParseTag("flake8-noqa-cell").Rules())
	assert.Equal(t, RuleSet{CellKey: {"E402", "F401"}}, ParseTag("flake8-noqa-cell-F401-E402").Rules())
	assert.Equal(t, RuleSet{"2": {SuppressAll}}, ParseTag("flake8-noqa-line-2").Rules())
	assert.Equal(t, RuleSet{"7": {"E501"}}, ParseTag("flake8-noqa-line-07-E501").Rules())
	assert.Empty(t, ParseTag("flake8-noqa-bogus").Rules())
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved("flake8-noqa-anything"))
	assert.False(t, IsReserved("skip-execution"))
	assert.False(t, IsReserved("flake8-noq"))
}

func TestInvalidTagMessage(t *testing.T) {
	assert.Equal(t,
		"flake8-noqa-line/cell-tags should be of form "+
			"'flake8-noqa-cell-<rule1>-<rule2>'|'flake8-noqa-cell'/"+
			"'flake8-noqa-line-<line_nr>-<rule1>-<rule2>'|'flake8-noqa-line-<rule1>', "+
			"you used: 'flake8-noqa-cell-foo'",
		InvalidTagMessage("flake8-noqa-cell-foo"))
}
