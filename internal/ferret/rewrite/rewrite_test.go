package rewrite

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/ferret/internal/ferret/index"
	"github.com/kittclouds/ferret/internal/ferret/query"
)

type fakeTermEnum struct {
	terms []string
	freqs map[string]int
	idx   int
}

func (e *fakeTermEnum) Next() bool {
	e.idx++
	return e.idx < len(e.terms)
}

func (e *fakeTermEnum) SkipTo(target string) bool {
	for i, t := range e.terms {
		if t >= target {
			e.idx = i
			return true
		}
	}
	e.idx = len(e.terms)
	return false
}

func (e *fakeTermEnum) Term() string    { return e.terms[e.idx] }
func (e *fakeTermEnum) DocFreq() int    { return e.freqs[e.terms[e.idx]] }
func (e *fakeTermEnum) Close() error    { return nil }

type fakeReader struct {
	fields map[string][]string
}

func newFakeReader(field string, terms ...string) *fakeReader {
	sorted := append([]string{}, terms...)
	sort.Strings(sorted)
	return &fakeReader{fields: map[string][]string{field: sorted}}
}

func (r *fakeReader) MaxDoc() int                    { return 0 }
func (r *fakeReader) NumDocs() int                   { return 0 }
func (r *fakeReader) DocFreq(field, text string) int { return 1 }
func (r *fakeReader) TermPositionsFor(index.Term) (index.PostingIterator, error) {
	return index.EmptyPostingIterator(), nil
}
func (r *fakeReader) Terms(field string) (index.TermEnum, error) {
	terms := r.fields[field]
	freqs := make(map[string]int, len(terms))
	for _, t := range terms {
		freqs[t] = 1
	}
	return &fakeTermEnum{terms: terms, freqs: freqs, idx: -1}, nil
}
func (r *fakeReader) GetNorms(field string) ([]byte, bool)      { return nil, false }
func (r *fakeReader) IsDeleted(doc uint32) bool                 { return false }
func (r *fakeReader) GetDoc(doc uint32) (index.Document, error) { return index.Document{}, nil }
func (r *fakeReader) HasDeletions() bool                        { return false }
func (r *fakeReader) IRIsLatest() bool                          { return true }
func (r *fakeReader) Close() error                              { return nil }

func multiTermTexts(q query.Query) []string {
	mt := q.(*query.MultiTerm)
	var out []string
	for _, e := range mt.Terms {
		out = append(out, e.Text)
	}
	sort.Strings(out)
	return out
}

func TestRewritePrefixExpandsMatchingTerms(t *testing.T) {
	reader := newFakeReader("body", "quick", "quiet", "quixotic", "slow")
	p := query.NewPrefix("body", "qui")

	rewritten, err := Rewrite(p, reader, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"quick", "quiet", "quixotic"}, multiTermTexts(rewritten))
}

func TestRewriteWildcardMatchesGlob(t *testing.T) {
	reader := newFakeReader("body", "cat", "cart", "cot", "dog")
	w := query.NewWildcard("body", "c?t")

	rewritten, err := Rewrite(w, reader, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "cot"}, multiTermTexts(rewritten))
}

func TestRewriteRangeInclusiveBounds(t *testing.T) {
	reader := newFakeReader("price", "10", "15", "20", "25", "30")
	r := query.NewRange("price", "15", "25", true, true)

	rewritten, err := Rewrite(r, reader, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"15", "20", "25"}, multiTermTexts(rewritten))
}

func TestRewriteRangeExclusiveBounds(t *testing.T) {
	reader := newFakeReader("price", "10", "15", "20", "25", "30")
	r := query.NewRange("price", "15", "25", false, false)

	rewritten, err := Rewrite(r, reader, nil)
	require.NoError(t, err)
	term, ok := rewritten.(query.Term)
	require.True(t, ok, "a single matching term collapses to a plain Term, got %T", rewritten)
	assert.Equal(t, "20", term.Text)
}

func TestRewritePrefixWithNoMatchesCollapsesToEmptyBoolean(t *testing.T) {
	reader := newFakeReader("body", "slow")
	p := query.NewPrefix("body", "qui")

	rewritten, err := Rewrite(p, reader, nil)
	require.NoError(t, err)
	b, ok := rewritten.(*query.Boolean)
	require.True(t, ok, "zero matches collapses to an empty Boolean, got %T", rewritten)
	assert.Empty(t, b.Clauses)
}

func TestRewriteTypedRangeNumericFallback(t *testing.T) {
	reader := newFakeReader("qty", "2", "10", "9", "not-a-number")
	tr := query.NewTypedRange("qty", "3", "10", true, true, query.NumInt)

	rewritten, err := Rewrite(tr, reader, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "9"}, multiTermTexts(rewritten), "lexicographic fallback keeps unsortable terms excluded from numeric pass but visible as bound string compare")
}

func TestRewriteBooleanRecursesIntoClauses(t *testing.T) {
	reader := newFakeReader("body", "quick", "quiet")
	b := query.NewBoolean(
		query.BooleanClause{Query: query.NewPrefix("body", "qui"), Occur: query.Must},
	)

	rewritten, err := Rewrite(b, reader, nil)
	require.NoError(t, err)
	rb := rewritten.(*query.Boolean)
	require.Len(t, rb.Clauses, 1)
	assert.IsType(t, &query.MultiTerm{}, rb.Clauses[0].Query)
}

func TestRewriteTermIsIdentity(t *testing.T) {
	reader := newFakeReader("body", "quick")
	term := query.NewTerm("body", "quick")

	rewritten, err := Rewrite(term, reader, nil)
	require.NoError(t, err)
	assert.Equal(t, term, rewritten)
}
