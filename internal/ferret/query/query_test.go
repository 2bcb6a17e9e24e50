package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermStringIncludesBoostOnlyWhenSet(t *testing.T) {
	plain := NewTerm("body", "fox")
	assert.Equal(t, "body:fox", plain.String())

	boosted := plain.WithBoost(2.5)
	assert.Equal(t, "body:fox^2.5", boosted.String())
	assert.Equal(t, float32(1), plain.Boost(), "WithBoost must not mutate the receiver")
}

func TestBooleanClauseOccurMarkers(t *testing.T) {
	b := NewBoolean(
		BooleanClause{Query: NewTerm("body", "quick"), Occur: Must},
		BooleanClause{Query: NewTerm("body", "lazy"), Occur: MustNot},
		BooleanClause{Query: NewTerm("body", "fox"), Occur: Should},
	)
	assert.Equal(t, "(+body:quick -body:lazy body:fox)", b.String())
}

func TestPhraseAddAppendsSlotImmutably(t *testing.T) {
	p := NewPhrase("body", "quick", "brown")
	extended := p.Add("fox")

	assert.Len(t, p.Slots, 2, "Add must not mutate the original phrase")
	assert.Len(t, extended.Slots, 3)
	assert.Equal(t, `body:"quick brown fox"`, extended.String())
}

func TestPhraseSlopRendersInString(t *testing.T) {
	p := NewPhrase("body", "quick", "fox").WithSlop(2)
	assert.Equal(t, `body:"quick fox"~2`, p.String())
}

func TestPhraseAddWithIncrementLeavesGapInString(t *testing.T) {
	p := NewPhrase("body", "quick").AddWithIncrement("fox", 2)
	assert.Equal(t, []int{0, 2}, []int{p.Slots[0].Pos, p.Slots[1].Pos})
	assert.Equal(t, `body:"quick <> fox"`, p.String())
}

func TestMultiPhraseSlotWithAlternatives(t *testing.T) {
	mp := NewMultiPhrase("body", []PhraseSlot{
		{Terms: []string{"quick", "fast"}},
		{Terms: []string{"fox"}},
	})
	assert.Equal(t, `body:"(quick|fast) fox"`, mp.String())
}

func TestMatchesWildcardBasic(t *testing.T) {
	cases := []struct {
		pattern, text string
		want          bool
	}{
		{"qu?ck", "quick", true},
		{"qu?ck", "quiick", false},
		{"qu*k", "quick", true},
		{"qu*k", "quk", true},
		{"*fox*", "the quick fox jumps", true},
		{"*zzz*", "the quick fox jumps", false},
		{"a*a*a*a*b", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaac", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MatchesWildcard(c.pattern, c.text), "pattern=%q text=%q", c.pattern, c.text)
	}
}

func TestMultiTermAppliesMinScoreThenMaxTerms(t *testing.T) {
	mt := NewMultiTerm("body", []MultiTermEntry{
		{Text: "a", Boost: 0.1},
		{Text: "b", Boost: 0.9},
		{Text: "c", Boost: 0.5},
		{Text: "d", Boost: 0.7},
	}, 2, 0.3)

	assert.Len(t, mt.Terms, 2)
	assert.Equal(t, "b", mt.Terms[0].Text)
	assert.Equal(t, "d", mt.Terms[1].Text)
}

func TestRangeStringBracketsReflectInclusivity(t *testing.T) {
	r := NewRange("price", "10", "20", true, false)
	assert.Equal(t, "price:[10 TO 20}", r.String())
}

func TestConstantScoreAndFilteredWrapInner(t *testing.T) {
	inner := NewTerm("body", "fox")
	cs := NewConstantScore(inner).
		// boost defaults to 1; constant-score boost is independent of
		// inner's own boost.
		boostedCopy(3)
	assert.Equal(t, float32(3), cs.Boost())

	f := NewFiltered(inner, acceptAllFilter{})
	assert.Equal(t, inner.Boost(), f.Boost())
}

func (c *ConstantScore) boostedCopy(b float32) *ConstantScore {
	cp := *c
	cp.boost = b
	return &cp
}

type acceptAllFilter struct{}

func (acceptAllFilter) Accept(uint32) bool { return true }
