// Package memindex is a reference in-memory index.Reader: a simple,
// whitespace-tokenized index over a fixed document set, used by the
// demo CLI and the end-to-end test suite. Real storage engines
// implement index.Reader against on-disk segments instead; nothing
// in the evaluation core depends on this package.
package memindex

import (
	"sort"
	"strings"
	"unicode"

	"github.com/derekparker/trie/v3"
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/kittclouds/ferret/internal/ferret/index"
	"github.com/kittclouds/ferret/internal/ferret/similarity"
)

// DefaultStopWords are skipped at indexing time: they never occupy a
// term position and never appear in a field's term dictionary. A
// one-pass Aho-Corasick scan flags every occurrence before
// whitespace-tokenization assigns positions, rather than probing a
// map once per token.
var DefaultStopWords = []string{"a", "an", "the", "of", "to", "in", "on", "and", "or", "is", "at"}

var stopWordMatcher = ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
	AsciiCaseInsensitive: true,
	MatchOnlyWholeWords:  true,
	MatchKind:            ahocorasick.LeftMostLongestMatch,
}).Build(DefaultStopWords)

// Doc is one document to index: field name to raw text. Text is
// whitespace-tokenized; each field's token count drives its length
// norm.
type Doc map[string]string

// Index is an append-only, in-memory inverted index supporting
// deletes. Build it once per test/demo run, then wrap it in a Reader
// snapshot.
type Index struct {
	docs     []Doc
	deleted  map[uint32]bool
	boosts   []float32
	postings map[index.Term][]index.Posting
	tries    map[string]*trie.Node
	docFreqs map[index.Term]int
}

// NewIndex builds an empty Index.
func NewIndex() *Index {
	return &Index{
		deleted:  make(map[uint32]bool),
		postings: make(map[index.Term][]index.Posting),
		tries:    make(map[string]*trie.Node),
		docFreqs: make(map[index.Term]int),
	}
}

// Add appends doc with the given boost, assigning it the next doc id.
func (ix *Index) Add(doc Doc, boost float32) uint32 {
	id := uint32(len(ix.docs))
	ix.docs = append(ix.docs, doc)
	ix.boosts = append(ix.boosts, boost)

	for field, text := range doc {
		tokens := tokenize(text)
		positions := make(map[string][]uint32)
		pos := uint32(0)
		for _, tok := range tokens {
			positions[tok.text] = append(positions[tok.text], pos)
			pos++
		}
		for tok, pos := range positions {
			term := index.Term{Field: field, Text: tok}
			ix.postings[term] = append(ix.postings[term], index.Posting{Doc: id, Positions: pos})
			ix.docFreqs[term]++
			if ix.tries[field] == nil {
				ix.tries[field] = trie.New()
			}
			ix.tries[field].Add(tok, struct{}{})
		}
	}
	return id
}

// Delete marks doc as deleted.
func (ix *Index) Delete(doc uint32) { ix.deleted[doc] = true }

type tokenAt struct {
	text  string
	start int
}

// tokenize splits text on whitespace, lowercases, and drops any token
// the stopword automaton flags as a whole-word match.
func tokenize(text string) []tokenAt {
	lower := strings.ToLower(text)
	stopped := make(map[int]bool)
	for _, m := range stopWordMatcher.FindAll(lower) {
		stopped[m.Start()] = true
	}

	var toks []tokenAt
	start := -1
	for i, r := range lower {
		if unicode.IsSpace(r) {
			if start >= 0 {
				if !stopped[start] {
					toks = append(toks, tokenAt{text: lower[start:i], start: start})
				}
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 && !stopped[start] {
		toks = append(toks, tokenAt{text: lower[start:], start: start})
	}
	return toks
}

// Reader returns a point-in-time snapshot of the index.
func (ix *Index) Reader() index.Reader {
	norms := make(map[string][]byte)
	fieldTermCounts := make(map[string][]int, len(ix.docs))
	for term, postings := range ix.postings {
		for _, p := range postings {
			for len(fieldTermCounts[term.Field]) <= int(p.Doc) {
				fieldTermCounts[term.Field] = append(fieldTermCounts[term.Field], 0)
			}
			fieldTermCounts[term.Field][p.Doc] += len(p.Positions)
		}
	}
	for field, counts := range fieldTermCounts {
		b := make([]byte, len(ix.docs))
		for doc, n := range counts {
			b[doc] = similarity.EncodeNorm(similarity.LengthNorm(n) * ix.boosts[doc])
		}
		norms[field] = b
	}

	return &reader{
		docs:     ix.docs,
		deleted:  copyDeleted(ix.deleted),
		postings: ix.postings,
		docFreqs: ix.docFreqs,
		tries:    ix.tries,
		norms:    norms,
	}
}

func copyDeleted(src map[uint32]bool) map[uint32]bool {
	dst := make(map[uint32]bool, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

type reader struct {
	docs     []Doc
	deleted  map[uint32]bool
	postings map[index.Term][]index.Posting
	docFreqs map[index.Term]int
	tries    map[string]*trie.Node
	norms    map[string][]byte
}

func (r *reader) MaxDoc() int { return len(r.docs) }

func (r *reader) NumDocs() int { return len(r.docs) - len(r.deleted) }

func (r *reader) DocFreq(field, text string) int {
	return r.docFreqs[index.Term{Field: field, Text: text}]
}

func (r *reader) TermPositionsFor(term index.Term) (index.PostingIterator, error) {
	p, ok := r.postings[term]
	if !ok {
		return index.EmptyPostingIterator(), nil
	}
	return index.NewMemPostingList(p).Iterator(), nil
}

func (r *reader) Terms(field string) (index.TermEnum, error) {
	t := r.tries[field]
	if t == nil {
		return newSliceTermEnum(nil, field, r.docFreqs), nil
	}
	terms := t.PrefixSearch("")
	sort.Strings(terms)
	return newSliceTermEnum(terms, field, r.docFreqs), nil
}

func (r *reader) GetNorms(field string) ([]byte, bool) {
	n, ok := r.norms[field]
	return n, ok
}

func (r *reader) IsDeleted(doc uint32) bool { return r.deleted[doc] }

func (r *reader) GetDoc(doc uint32) (index.Document, error) {
	if int(doc) >= len(r.docs) {
		return nil, nil
	}
	out := make(index.Document, len(r.docs[doc]))
	for k, v := range r.docs[doc] {
		out[k] = v
	}
	return out, nil
}

func (r *reader) HasDeletions() bool { return len(r.deleted) > 0 }

func (r *reader) IRIsLatest() bool { return true }

func (r *reader) Close() error { return nil }

type sliceTermEnum struct {
	terms    []string
	field    string
	docFreqs map[index.Term]int
	idx      int
}

func newSliceTermEnum(terms []string, field string, docFreqs map[index.Term]int) *sliceTermEnum {
	return &sliceTermEnum{terms: terms, field: field, docFreqs: docFreqs, idx: -1}
}

func (e *sliceTermEnum) Next() bool {
	e.idx++
	return e.idx < len(e.terms)
}

func (e *sliceTermEnum) SkipTo(target string) bool {
	idx := sort.SearchStrings(e.terms, target)
	e.idx = idx
	return e.idx < len(e.terms)
}

func (e *sliceTermEnum) Term() string { return e.terms[e.idx] }

func (e *sliceTermEnum) DocFreq() int {
	return e.docFreqs[index.Term{Field: e.field, Text: e.terms[e.idx]}]
}

func (e *sliceTermEnum) Close() error { return nil }
