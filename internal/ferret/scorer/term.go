// Package scorer implements the concrete Scorer and Weight types for
// every query node: term, boolean, phrase, sloppy phrase, and
// multi-term. Each Weight is built by create_weight in the query
// package's companion rewrite/weight wiring (see search.Searcher) and
// normalized once before its Scorer is built; a MultiSearcher builds
// a separate Weight for each shard.
package scorer

import (
	"github.com/kittclouds/ferret/internal/ferret/index"
	"github.com/kittclouds/ferret/internal/ferret/similarity"
	"github.com/kittclouds/ferret/internal/ferret/weight"
)

// scoreCacheSize bounds the precomputed tf*idf*queryWeight cache a
// TermScorer builds when it is constructed: frequencies at or above this are
// computed directly rather than cached, since the marginal tf gain
// per extra occurrence keeps shrinking (sqrt) while cache memory grows
// linearly.
const scoreCacheSize = 32

// TermWeight is the Weight for a single query.Term node.
type TermWeight struct {
	Field, Text string
	boost       float32
	idf         float32
	queryWeight float32
	queryNorm   float32
}

// NewTermWeight builds a TermWeight, computing idf against src
// immediately since idf depends only on corpus statistics known
// before queryNorm is computed.
func NewTermWeight(field, text string, boost float32, src similarity.DocFreqSource) *TermWeight {
	idf := similarity.IDFTerm(field, text, src)
	return &TermWeight{Field: field, Text: text, boost: boost, idf: idf}
}

func (w *TermWeight) Query() string { return w.Field + ":" + w.Text }

func (w *TermWeight) SumOfSquaredWeights() float32 {
	qw := w.idf * w.boost
	w.queryWeight = qw
	return qw * qw
}

func (w *TermWeight) Normalize(queryNorm float32) {
	w.queryNorm = queryNorm
	w.queryWeight *= queryNorm
}

func (w *TermWeight) Scorer(reader index.Reader) (weight.Scorer, bool, error) {
	pi, err := reader.TermPositionsFor(index.Term{Field: w.Field, Text: w.Text})
	if err != nil {
		return nil, false, err
	}
	if !pi.Next() {
		pi.Close()
		return nil, false, nil
	}
	for reader.IsDeleted(pi.Doc()) {
		if !pi.Next() {
			pi.Close()
			return nil, false, nil
		}
	}
	norms, hasNorms := reader.GetNorms(w.Field)
	return newTermScorer(pi, w, norms, hasNorms, reader), true, nil
}

func (w *TermWeight) Explain(reader index.Reader, doc uint32) (weight.Explanation, error) {
	pi, err := reader.TermPositionsFor(index.Term{Field: w.Field, Text: w.Text})
	if err != nil {
		return weight.Explanation{}, err
	}
	defer pi.Close()

	if !pi.SkipTo(doc) || pi.Doc() != doc {
		return weight.Explanation{Description: w.Query() + ": no matching term"}, nil
	}

	tf := similarity.TF(int(pi.Freq()))
	norms, hasNorms := reader.GetNorms(w.Field)
	fieldNorm := float32(1)
	if hasNorms && int(doc) < len(norms) {
		fieldNorm = similarity.DecodeNorm(norms[doc])
	}
	score := tf * w.idf * w.queryWeight * fieldNorm
	return weight.Explanation{
		Value:       score,
		Description: w.Query() + " tf-idf score",
		Details: []weight.Explanation{
			{Value: tf, Description: "tf(freq=" + itoa(int(pi.Freq())) + ")"},
			{Value: w.idf, Description: "idf"},
			{Value: w.queryWeight, Description: "queryWeight (boost*idf*queryNorm)"},
			{Value: fieldNorm, Description: "fieldNorm"},
		},
	}, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// TermScorer walks a single term's posting list, scoring each doc as
// tf(freq) * idf * queryWeight * fieldNorm.
type TermScorer struct {
	pi         index.PostingIterator
	w          *TermWeight
	norms      []byte
	hasNorms   bool
	reader     index.Reader
	scoreCache [scoreCacheSize]float32
	started    bool
}

func newTermScorer(pi index.PostingIterator, w *TermWeight, norms []byte, hasNorms bool, reader index.Reader) *TermScorer {
	s := &TermScorer{pi: pi, w: w, norms: norms, hasNorms: hasNorms, reader: reader}
	for freq := 0; freq < scoreCacheSize; freq++ {
		s.scoreCache[freq] = similarity.TF(freq) * w.idf * w.queryWeight
	}
	return s
}

// Next moves to the next non-deleted doc. The posting iterator already
// sits on the first non-deleted doc when the scorer is built, so the
// first call reports that doc without advancing.
func (s *TermScorer) Next() bool {
	if !s.started {
		s.started = true
		return true
	}
	for s.pi.Next() {
		if !s.reader.IsDeleted(s.pi.Doc()) {
			return true
		}
	}
	return false
}

func (s *TermScorer) SkipTo(target uint32) bool {
	s.started = true
	if !s.pi.SkipTo(target) {
		return false
	}
	if !s.reader.IsDeleted(s.pi.Doc()) {
		return true
	}
	return s.Next()
}

func (s *TermScorer) Doc() uint32 { return s.pi.Doc() }

func (s *TermScorer) Score() float32 {
	freq := int(s.pi.Freq())
	var raw float32
	if freq < scoreCacheSize {
		raw = s.scoreCache[freq]
	} else {
		raw = similarity.TF(freq) * s.w.idf * s.w.queryWeight
	}
	fieldNorm := float32(1)
	if s.hasNorms {
		doc := s.pi.Doc()
		if int(doc) < len(s.norms) {
			fieldNorm = similarity.DecodeNorm(s.norms[doc])
		}
	}
	return raw * fieldNorm
}
