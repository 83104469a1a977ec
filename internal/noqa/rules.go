package noqa

import (
	"slices"
	"sort"
	"strconv"
)

// SuppressAll is the rule that silences every check. It absorbs any other
// rule it is merged with.
const SuppressAll = "noqa"

// Key selects the whole cell or one 1-based line of it.
type Key string

// CellKey holds rules that apply to every line of the cell.
const CellKey Key = "cell"

// LineKey returns the key for 1-based line n.
func LineKey(n int) Key {
	return Key(strconv.Itoa(n))
}

// RuleSet maps keys to sorted, deduplicated rule lists.
type RuleSet map[Key][]string

// MergeRules combines two rule lists: SuppressAll on either side wins,
// otherwise the result is the sorted union.
func MergeRules(a, b []string) []string {
	if slices.Contains(a, SuppressAll) || slices.Contains(b, SuppressAll) {
		return []string{SuppressAll}
	}
	if len(a)+len(b) == 0 {
		return nil
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return normalizeRules(out)
}

// Update merges other into rs key by key.
func (rs RuleSet) Update(other RuleSet) {
	for key, rules := range other {
		rs[key] = MergeRules(rs[key], rules)
	}
}

// Merge returns a new RuleSet holding every input merged together.
// The result does not depend on argument order.
func Merge(sets ...RuleSet) RuleSet {
	out := RuleSet{}
	for _, s := range sets {
		out.Update(s)
	}
	return out
}

// ForLine returns the rules for 1-based line n: its own rules plus the cell's.
func (rs RuleSet) ForLine(n int) []string {
	return MergeRules(rs[LineKey(n)], rs[CellKey])
}

// Equal reports whether both sets hold the same keys and rules.
func (rs RuleSet) Equal(other RuleSet) bool {
	if len(rs) != len(other) {
		return false
	}
	for k, v := range rs {
		w, ok := other[k]
		if !ok || !slices.Equal(v, w) {
			return false
		}
	}
	return true
}

func normalizeRules(rules []string) []string {
	if slices.Contains(rules, SuppressAll) {
		return []string{SuppressAll}
	}
	out := slices.Clone(rules)
	sort.Strings(out)
	return slices.Compact(out)
}
