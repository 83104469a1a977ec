package noqa

import (
	"regexp"
	"strings"
)

var (
	inlineTagsRe = regexp.MustCompile(`(?s)^(.*?)\s*#((?:\s*flake8-noqa-(?:cell(?:-\w+\d+)*|line-\d+(?:-\w+\d+)*))+)\s*$`)

	noqaCodesRe   = regexp.MustCompile(`^.+?\s*#\s*(?i:noqa)\s*:((?:\s*\w+\d+,?\s*)+)$`)
	noqaAllRe     = regexp.MustCompile(`^.+?\s*#\s*(?i:noqa)\s*:?\s*$`)
	noqaReplaceRe = regexp.MustCompile(`^(.+?)\s*#\s*(?i:noqa)\s*:?.*$`)
)

// ExtractInlineTags finds a trailing comment made only of suppression tags.
// It returns the tags and the line with that comment, and the whitespace
// before it, removed. Lines without such a comment come back unchanged.
func ExtractInlineTags(line string) ([]string, string) {
	m := inlineTagsRe.FindStringSubmatch(line)
	if m == nil {
		return nil, line
	}
	return strings.Fields(m[2]), m[1]
}

// ExtractNoqa detects a native "# noqa" comment. A comment without codes
// yields SuppressAll. The returned line has the comment stripped when one
// was found.
func ExtractNoqa(line string) ([]string, string) {
	var rules []string
	if m := noqaCodesRe.FindStringSubmatch(line); m != nil {
		rules = strings.FieldsFunc(m[1], func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
	} else if noqaAllRe.MatchString(line) {
		rules = []string{SuppressAll}
	}
	if len(rules) == 0 {
		return nil, line
	}
	if m := noqaReplaceRe.FindStringSubmatch(line); m != nil {
		line = m[1]
	}
	return rules, line
}

// Comment renders rules as a noqa comment, including its two leading spaces.
// Empty rules give an empty string.
func Comment(rules []string) string {
	rules = normalizeRules(rules)
	switch {
	case len(rules) == 0:
		return ""
	case rules[0] == SuppressAll:
		return "  # noqa"
	default:
		return "  # noqa: " + strings.Join(rules, ", ")
	}
}

// Annotate merges any native noqa comment on line with rules and appends
// the normalized comment.
func Annotate(line string, rules []string) string {
	inline, code := ExtractNoqa(line)
	if len(inline) > 0 {
		rules = MergeRules(inline, rules)
	}
	return code + Comment(rules)
}
