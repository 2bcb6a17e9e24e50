package multisearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/ferret/internal/ferret/memindex"
	"github.com/kittclouds/ferret/internal/ferret/query"
)

func twoShardFixture() (*memindex.Index, *memindex.Index) {
	a := memindex.NewIndex()
	a.Add(memindex.Doc{"field": "alpha beta"}, 1) // A0: global 0
	a.Add(memindex.Doc{"field": "alpha"}, 1)       // A1: global 1

	b := memindex.NewIndex()
	b.Add(memindex.Doc{"field": "beta"}, 2) // B0: global 2
	b.Add(memindex.Doc{"field": "beta"}, 1) // B1: global 3
	return a, b
}

func TestDocFreqAndMaxDocSumAcrossShards(t *testing.T) {
	a, b := twoShardFixture()
	m := NewMultiSearcher(a.Reader(), b.Reader())

	assert.Equal(t, 4, m.MaxDoc())
	assert.Equal(t, 3, m.DocFreq("field", "beta"))
	assert.Equal(t, 2, m.DocFreq("field", "alpha"))
}

func TestGlobalDocTranslationIsContiguousAcrossShards(t *testing.T) {
	a, b := twoShardFixture()
	m := NewMultiSearcher(a.Reader(), b.Reader())

	assert.Equal(t, uint32(0), m.GlobalDoc(0, 0))
	assert.Equal(t, uint32(1), m.GlobalDoc(0, 1))
	assert.Equal(t, uint32(2), m.GlobalDoc(1, 0))
	assert.Equal(t, uint32(3), m.GlobalDoc(1, 1))

	shard, local := m.LocateDoc(2)
	assert.Equal(t, 1, shard)
	assert.Equal(t, uint32(0), local)

	shard, local = m.LocateDoc(1)
	assert.Equal(t, 0, shard)
	assert.Equal(t, uint32(1), local)
}

func TestSearchUnscoredMergesMatchesFromEveryShardInGlobalSpace(t *testing.T) {
	a, b := twoShardFixture()
	m := NewMultiSearcher(a.Reader(), b.Reader())

	docs, err := m.SearchUnscored(query.NewTerm("field", "beta"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{0, 2, 3}, docs)
}

func TestSearchRanksHigherBoostAboveLowerNormAcrossShards(t *testing.T) {
	a, b := twoShardFixture()
	m := NewMultiSearcher(a.Reader(), b.Reader())

	td, err := m.Search(query.NewTerm("field", "beta"), 10)
	require.NoError(t, err)
	require.Len(t, td.Hits, 3)

	// B0 (global 2, boost 2) outranks B1 (global 3, boost 1, same
	// single-term field) which in turn outranks A0 (global 0, boost 1
	// but a 2-term field so a lower length norm).
	assert.Equal(t, uint32(2), td.Hits[0].Doc)
	assert.Equal(t, uint32(3), td.Hits[1].Doc)
	assert.Equal(t, uint32(0), td.Hits[2].Doc)
}

func TestExplainRoutesToOwningShard(t *testing.T) {
	a, b := twoShardFixture()
	m := NewMultiSearcher(a.Reader(), b.Reader())

	ex, err := m.Explain(query.NewTerm("field", "beta"), 2)
	require.NoError(t, err)
	assert.Greater(t, ex.Value, float32(0))
}
