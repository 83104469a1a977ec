// Package noqa resolves flake8-noqa suppression tags and native noqa comments
// into per-line rule lists.
package noqa

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Prefix starts every suppression tag.
const Prefix = "flake8-noqa-"

// Kind is the shape of a parsed tag.
type Kind uint8

const (
	Invalid Kind = iota
	CellSuppressAll
	CellSuppressCodes
	LineSuppressAll
	LineSuppressCodes
)

func (k Kind) String() string {
	switch k {
	case CellSuppressAll:
		return "cell"
	case CellSuppressCodes:
		return "cell-codes"
	case LineSuppressAll:
		return "line"
	case LineSuppressCodes:
		return "line-codes"
	default:
		return "invalid"
	}
}

// Tag is one parsed suppression tag. Line is set for the line kinds,
// Codes for the *Codes kinds.
type Tag struct {
	Kind  Kind
	Line  int
	Codes []string
	Raw   string
}

var (
	cellCodesRe = regexp.MustCompile(`^flake8-noqa-cell-((?:\w+\d+-?)+)$`)
	lineCodesRe = regexp.MustCompile(`^flake8-noqa-line-(\d+)-((?:\w+\d+-?)+)$`)
	cellAllRe   = regexp.MustCompile(`^flake8-noqa-cell$`)
	lineAllRe   = regexp.MustCompile(`^flake8-noqa-line-(\d+)$`)
)

// IsReserved reports whether tag uses the suppression prefix.
func IsReserved(tag string) bool {
	return strings.HasPrefix(norm.NFC.String(tag), Prefix)
}

// ParseTag classifies raw. Anything that is not one of the four valid
// shapes comes back as Invalid.
func ParseTag(raw string) Tag {
	s := norm.NFC.String(strings.TrimSpace(raw))
	if cellAllRe.MatchString(s) {
		return Tag{Kind: CellSuppressAll, Raw: raw}
	}
	if m := cellCodesRe.FindStringSubmatch(s); m != nil {
		return Tag{Kind: CellSuppressCodes, Codes: splitCodes(m[1]), Raw: raw}
	}
	if m := lineAllRe.FindStringSubmatch(s); m != nil {
		if n, ok := lineNumber(m[1]); ok {
			return Tag{Kind: LineSuppressAll, Line: n, Raw: raw}
		}
	}
	if m := lineCodesRe.FindStringSubmatch(s); m != nil {
		if n, ok := lineNumber(m[1]); ok {
			return Tag{Kind: LineSuppressCodes, Line: n, Codes: splitCodes(m[2]), Raw: raw}
		}
	}
	return Tag{Kind: Invalid, Raw: raw}
}

// Rules converts the tag into the RuleSet it contributes.
func (t Tag) Rules() RuleSet {
	switch t.Kind {
	case CellSuppressAll:
		return RuleSet{CellKey: {SuppressAll}}
	case CellSuppressCodes:
		return RuleSet{CellKey: normalizeRules(t.Codes)}
	case LineSuppressAll:
		return RuleSet{LineKey(t.Line): {SuppressAll}}
	case LineSuppressCodes:
		return RuleSet{LineKey(t.Line): normalizeRules(t.Codes)}
	default:
		return RuleSet{}
	}
}

// InvalidTagMessage is the warning text for a malformed tag.
func InvalidTagMessage(tag string) string {
	return "flake8-noqa-line/cell-tags should be of form " +
		"'flake8-noqa-cell-<rule1>-<rule2>'|'flake8-noqa-cell'/" +
		"'flake8-noqa-line-<line_nr>-<rule1>-<rule2>'|'flake8-noqa-line-<rule1>', " +
		"you used: '" + tag + "'"
}

func splitCodes(s string) []string {
	parts := strings.Split(s, "-")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}

func lineNumber(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
