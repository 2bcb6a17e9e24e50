package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/ferret/internal/ferret/memindex"
	"github.com/kittclouds/ferret/internal/ferret/query"
	"github.com/kittclouds/ferret/internal/ferret/rewrite"
	"github.com/kittclouds/ferret/internal/ferret/topdocs"
)

func newDemoSearcher() *Searcher {
	return NewSearcher(memindex.NewDemoIndex().Reader())
}

func docSet(docs []uint32) map[uint32]bool {
	m := make(map[uint32]bool, len(docs))
	for _, d := range docs {
		m[d] = true
	}
	return m
}

func hitDocs(hits []topdocs.Hit) []uint32 {
	docs := make([]uint32, len(hits))
	for i, h := range hits {
		docs[i] = h.Doc
	}
	return docs
}

func TestTermQueryMatchesAndRanksByScore(t *testing.T) {
	s := newDemoSearcher()
	td, err := s.Search(query.NewTerm("field", "word2"), 10)
	require.NoError(t, err)
	require.Len(t, td.Hits, 3)
	assert.Equal(t, uint32(4), td.Hits[0].Doc)
	assert.Equal(t, docSet([]uint32{4, 8, 1}), docSet(hitDocs(td.Hits)))
}

func TestBooleanConjunctionRanksByScore(t *testing.T) {
	s := newDemoSearcher()
	q := query.NewBoolean(
		query.BooleanClause{Query: query.NewTerm("field", "word1"), Occur: query.Must},
		query.BooleanClause{Query: query.NewTerm("field", "word3"), Occur: query.Must},
	)
	td, err := s.Search(q, 10)
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{2, 3, 6, 8, 11, 14}), docSet(hitDocs(td.Hits)))
	assert.Equal(t, uint32(14), td.Hits[0].Doc)
}

func TestExactPhraseMatchesOnlyConsecutiveOccurrence(t *testing.T) {
	s := newDemoSearcher()
	q := query.NewPhrase("field", "quick", "brown", "fox")
	td, err := s.Search(q, 10)
	require.NoError(t, err)
	require.Len(t, td.Hits, 1)
	assert.Equal(t, uint32(1), td.Hits[0].Doc)
}

func TestSloppyPhraseWidensMatchSetAndRanksByScore(t *testing.T) {
	s := newDemoSearcher()
	q := query.NewPhrase("field", "quick", "brown", "fox").WithSlop(4)
	td, err := s.Search(q, 10)
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{1, 16, 17}), docSet(hitDocs(td.Hits)))
	assert.Equal(t, uint32(17), td.Hits[0].Doc)
}

func TestPrefixRewriteThenSearchMatchesHierarchy(t *testing.T) {
	s := newDemoSearcher()
	docs, err := s.SearchUnscored(query.NewPrefix("cat", "cat1/sub"))
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{1, 2, 3, 4, 13, 14, 15, 16}), docSet(docs))
}

func TestWildcardRewriteThenSearchMatchesGlob(t *testing.T) {
	s := newDemoSearcher()
	docs, err := s.SearchUnscored(query.NewWildcard("cat", "cat1*/s*sub2"))
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{4, 16}), docSet(docs))
}

func TestDateRangeRewriteRespectsInclusivity(t *testing.T) {
	s := newDemoSearcher()
	inclusive := query.NewRange("date", "20051006", "20051010", true, true)
	docs, err := s.SearchUnscored(inclusive)
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{6, 7, 8, 9, 10}), docSet(docs))

	exclusiveLower := query.NewRange("date", "20051006", "20051010", false, true)
	docs, err = s.SearchUnscored(exclusiveLower)
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{7, 8, 9, 10}), docSet(docs))
}

func TestTypedRangeComparesNumerically(t *testing.T) {
	s := newDemoSearcher()
	q := query.NewTypedRange("number", "-1.0", "1.0", true, true, query.NumFloat)
	docs, err := s.SearchUnscored(q)
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{0, 1, 4, 10, 15, 17}), docSet(docs))
}

func TestSearchUnscoredRangeSlicesAscendingMatches(t *testing.T) {
	s := newDemoSearcher()
	docs, err := s.SearchUnscoredRange(query.NewTerm("field", "word1"), 12, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint32{12, 13, 14, 15, 16}, docs)
}

func TestSingleSlotPhraseRewritesToTermQuery(t *testing.T) {
	s := newDemoSearcher()
	p := query.NewPhrase("field", "word2")
	rewritten, err := rewrite.Rewrite(p, s.reader, s.cfg)
	require.NoError(t, err)
	term, ok := rewritten.(query.Term)
	require.True(t, ok, "expected a plain Term, got %T", rewritten)
	assert.Equal(t, "word2", term.Text)
}

func TestPhraseWithPositionGapMatchesOnlySlotsAtDeclaredDistance(t *testing.T) {
	ix := memindex.NewIndex()
	ix.Add(memindex.Doc{"field": "quick brown fox"}, 1)         // doc 0: quick@0 fox@2, gap 2
	ix.Add(memindex.Doc{"field": "quick x y fox"}, 1)           // doc 1: quick@0 fox@3, gap 3 (exact)
	ix.Add(memindex.Doc{"field": "quick x y z fox"}, 1)         // doc 2: quick@0 fox@4, gap 4
	ix.Add(memindex.Doc{"field": "quick w x y z fox"}, 1)       // doc 3: quick@0 fox@5, gap 5
	s := NewSearcher(ix.Reader())

	// "quick <> <> fox": fox declared 3 positions past quick.
	gapPhrase := query.NewPhrase("field", "quick").AddWithIncrement("fox", 3)
	assert.Equal(t, `field:"quick <> <> fox"`, gapPhrase.String())

	docs, err := s.SearchUnscored(gapPhrase)
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{1}), docSet(docs), "slop 0 must require the exact declared gap")

	docs, err = s.SearchUnscored(gapPhrase.WithSlop(1))
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{0, 1, 2}), docSet(docs), "slop 1 admits a one-position edit either side of the declared gap")

	docs, err = s.SearchUnscored(gapPhrase.WithSlop(2))
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{0, 1, 2, 3}), docSet(docs))
}

func TestMultiPhraseMatchesAnyTermCombinationPerSlot(t *testing.T) {
	ix := memindex.NewIndex()
	ix.Add(memindex.Doc{"field": "quick brown fox"}, 1)             // doc 0: exact combo
	ix.Add(memindex.Doc{"field": "fast hairy fox"}, 1)               // doc 1: exact combo
	ix.Add(memindex.Doc{"field": "quick red fox"}, 1)                // doc 2: exact combo
	ix.Add(memindex.Doc{"field": "slow brown fox"}, 1)               // doc 3: slot 0 never matches
	ix.Add(memindex.Doc{"field": "quick brown dog"}, 1)              // doc 4: slot 2 never matches
	ix.Add(memindex.Doc{"field": "quick very brown almost fox"}, 1)  // doc 5: total edit distance 2
	s := NewSearcher(ix.Reader())

	slots := []query.PhraseSlot{
		{Terms: []string{"quick", "fast"}, Pos: 0},
		{Terms: []string{"brown", "red", "hairy"}, Pos: 1},
		{Terms: []string{"fox"}, Pos: 2},
	}

	exact := query.NewMultiPhrase("field", slots)
	docs, err := s.SearchUnscored(exact)
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{0, 1, 2}), docSet(docs))

	td, err := s.Search(exact, 10)
	require.NoError(t, err)
	require.Len(t, td.Hits, 3)
	for _, h := range td.Hits {
		assert.Greater(t, h.Score, float32(0))
	}

	sloppy := query.NewMultiPhrase("field", slots).WithSlop(2)
	docs, err = s.SearchUnscored(sloppy)
	require.NoError(t, err)
	assert.Equal(t, docSet([]uint32{0, 1, 2, 5}), docSet(docs), "slop 2 additionally admits the edit-distance-2 combination")
}

func TestSearchSortedOrdersByFieldInsteadOfScore(t *testing.T) {
	s := newDemoSearcher()
	q := query.NewTerm("field", "word1")

	td, err := s.SearchSorted(q, 0, 3, NumericFieldComparator("number", false))
	require.NoError(t, err)
	assert.Equal(t, 18, td.TotalHits)
	assert.Equal(t, []uint32{16, 13, 3}, hitDocs(td.Hits), "ascending by number: -7.0, -6.0, -5.0")

	td, err = s.SearchSorted(q, 0, 3, NumericFieldComparator("number", true))
	require.NoError(t, err)
	assert.Equal(t, []uint32{14, 12, 2}, hitDocs(td.Hits), "descending by number: 7.0, 6.0, 5.0")

	td, err = s.SearchSorted(q, 3, 3, NumericFieldComparator("number", false))
	require.NoError(t, err)
	assert.Equal(t, []uint32{11, 8, 6}, hitDocs(td.Hits), "page starting at the 4th ranked match: -4.0, -3.0, -2.0")
}

func TestSingleSlotMultiPhraseRewritesToShouldBoolean(t *testing.T) {
	s := newDemoSearcher()
	mp := query.NewMultiPhrase("field", []query.PhraseSlot{{Terms: []string{"word2", "word3"}}})
	rewritten, err := rewrite.Rewrite(mp, s.reader, s.cfg)
	require.NoError(t, err)
	b, ok := rewritten.(*query.Boolean)
	require.True(t, ok, "expected a Boolean, got %T", rewritten)
	require.Len(t, b.Clauses, 2)
	for _, c := range b.Clauses {
		assert.Equal(t, query.Should, c.Occur)
	}
}
