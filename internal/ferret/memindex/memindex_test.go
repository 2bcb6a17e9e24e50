package memindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/ferret/internal/ferret/index"
)

func TestTokenizeDropsWholeWordStopWords(t *testing.T) {
	toks := tokenize("The Quick Fox and a Lazy Dog")
	var words []string
	for _, tk := range toks {
		words = append(words, tk.text)
	}
	assert.Equal(t, []string{"quick", "fox", "lazy", "dog"}, words)
}

func TestTokenizeKeepsStopWordAsSubstring(t *testing.T) {
	toks := tokenize("another cat")
	var words []string
	for _, tk := range toks {
		words = append(words, tk.text)
	}
	assert.Equal(t, []string{"another", "cat"}, words)
}

func TestIndexRoundTripsPostingsAndNorms(t *testing.T) {
	ix := NewIndex()
	ix.Add(Doc{"field": "quick brown fox"}, 1)
	ix.Add(Doc{"field": "quick quick brown"}, 2)
	r := ix.Reader()

	assert.Equal(t, 2, r.MaxDoc())
	assert.Equal(t, 2, r.DocFreq("field", "quick"))
	assert.Equal(t, 1, r.DocFreq("field", "fox"))

	pi, err := r.TermPositionsFor(index.Term{Field: "field", Text: "quick"})
	require.NoError(t, err)
	require.True(t, pi.Next())
	assert.Equal(t, uint32(0), pi.Doc())
	assert.Equal(t, []uint32{0}, pi.Positions())
	require.True(t, pi.Next())
	assert.Equal(t, uint32(1), pi.Doc())
	assert.Equal(t, []uint32{0, 1}, pi.Positions())
	assert.False(t, pi.Next())

	norms, ok := r.GetNorms("field")
	require.True(t, ok)
	assert.Len(t, norms, 2)
}

func TestIndexDeleteMarksDocAsDeleted(t *testing.T) {
	ix := NewIndex()
	ix.Add(Doc{"field": "alpha"}, 1)
	ix.Delete(0)
	r := ix.Reader()
	assert.True(t, r.IsDeleted(0))
	assert.True(t, r.HasDeletions())
	assert.Equal(t, 0, r.NumDocs())
}

func TestTermsEnumeratesFieldVocabularyInOrder(t *testing.T) {
	ix := NewIndex()
	ix.Add(Doc{"field": "zebra apple mango"}, 1)
	r := ix.Reader()
	te, err := r.Terms("field")
	require.NoError(t, err)
	var terms []string
	for te.Next() {
		terms = append(terms, te.Term())
	}
	assert.Equal(t, []string{"apple", "mango", "zebra"}, terms)
}
