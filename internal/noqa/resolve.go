package noqa

import (
	"nbcheck/internal/diag"
)

// Resolve builds the RuleSet of one cell from its metadata tags and the
// inline tags in its lines. The returned lines have inline tag comments
// removed. Malformed tags are reported at loc and otherwise ignored.
func Resolve(loc diag.Location, tags, lines []string, r diag.Reporter) (RuleSet, []string) {
	seen := make(map[string]struct{}, len(tags))
	ordered := make([]string, 0, len(tags))
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		ordered = append(ordered, tag)
	}

	for _, tag := range tags {
		if IsReserved(tag) {
			add(tag)
		}
	}

	cleaned := make([]string, len(lines))
	for i, line := range lines {
		inline, rest := ExtractInlineTags(line)
		for _, tag := range inline {
			add(tag)
		}
		cleaned[i] = rest
	}

	rules := RuleSet{}
	for _, raw := range ordered {
		tag := ParseTag(raw)
		if tag.Kind == Invalid {
			if r != nil {
				diag.ReportWarning(r, diag.TagInvalid, loc, InvalidTagMessage(raw)).Emit()
			}
			continue
		}
		rules.Update(tag.Rules())
	}
	return rules, cleaned
}
