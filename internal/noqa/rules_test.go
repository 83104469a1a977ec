package noqa

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRules(t *testing.T) {
	assert.Equal(t, []string{"E402", "F401"}, MergeRules([]string{"F401"}, []string{"E402", "F401"}))
	assert.Equal(t, []string{SuppressAll}, MergeRules([]string{"E402"}, []string{SuppressAll}))
	assert.Equal(t, []string{SuppressAll}, MergeRules([]string{SuppressAll}, nil))
	assert.Nil(t, MergeRules(nil, nil))
}

func TestRuleSetForLine(t *testing.T) {
	rs := Merge(
		ParseTag("flake8-noqa-cell-E402").Rules(),
		ParseTag("flake8-noqa-line-2-W291").Rules(),
	)
	assert.Equal(t, []string{"E402"}, rs.ForLine(1))
	assert.Equal(t, []string{"E402", "W291"}, rs.ForLine(2))

	rs.Update(ParseTag("flake8-noqa-line-2").Rules())
	assert.Equal(t, []string{SuppressAll}, rs.ForLine(2))
	assert.Equal(t, []string{"E402"}, rs.ForLine(3))
}

func randomRuleSet(rng *rand.Rand, allowSuppressAll bool) RuleSet {
	keys := []Key{CellKey, LineKey(1), LineKey(2), LineKey(3)}
	codes := []string{"E402", "F401", "W291", "E501", "E231", "F811"}
	rs := RuleSet{}
	for _, k := range keys {
		if rng.Intn(2) == 0 {
			continue
		}
		n := 1 + rng.Intn(3)
		rules := make([]string, 0, n)
		for i := 0; i < n; i++ {
			rules = append(rules, codes[rng.Intn(len(codes))])
		}
		if allowSuppressAll && rng.Intn(4) == 0 {
			rules = append(rules, SuppressAll)
		}
		rs[k] = normalizeRules(rules)
	}
	return rs
}

func TestMergeOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		a := randomRuleSet(rng, true)
		b := randomRuleSet(rng, true)
		c := randomRuleSet(rng, true)

		abc := Merge(a, b, c)
		cab := Merge(c, a, b)
		nested := Merge(a, Merge(b, c))
		require.True(t, abc.Equal(cab), "iteration %d: %v != %v", i, abc, cab)
		require.True(t, abc.Equal(nested), "iteration %d: %v != %v", i, abc, nested)
	}
}

func TestSuppressAllAbsorbs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		key := LineKey(1 + rng.Intn(3))
		absorbing := RuleSet{key: {SuppressAll}}
		other := randomRuleSet(rng, false)

		for _, merged := range []RuleSet{Merge(absorbing, other), Merge(other, absorbing)} {
			require.Equal(t, []string{SuppressAll}, merged[key], fmt.Sprintf("iteration %d", i))
		}
	}
}
