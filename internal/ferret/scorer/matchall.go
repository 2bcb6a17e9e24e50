package scorer

import (
	"github.com/kittclouds/ferret/internal/ferret/index"
	"github.com/kittclouds/ferret/internal/ferret/weight"
)

// MatchAllWeight matches every non-deleted doc in the reader at a
// constant score of its boost times the query norm.
type MatchAllWeight struct {
	boost       float32
	queryWeight float32
}

// NewMatchAllWeight builds a MatchAllWeight.
func NewMatchAllWeight(boost float32) *MatchAllWeight {
	return &MatchAllWeight{boost: boost}
}

func (w *MatchAllWeight) Query() string { return "*:*" }

func (w *MatchAllWeight) SumOfSquaredWeights() float32 {
	w.queryWeight = w.boost
	return w.boost * w.boost
}

func (w *MatchAllWeight) Normalize(queryNorm float32) { w.queryWeight *= queryNorm }

func (w *MatchAllWeight) Scorer(reader index.Reader) (weight.Scorer, bool, error) {
	if reader.MaxDoc() == 0 {
		return nil, false, nil
	}
	return &matchAllScorer{maxDoc: uint32(reader.MaxDoc()), reader: reader, doc: ^uint32(0), score: w.queryWeight}, true, nil
}

func (w *MatchAllWeight) Explain(reader index.Reader, doc uint32) (weight.Explanation, error) {
	if doc >= uint32(reader.MaxDoc()) || reader.IsDeleted(doc) {
		return weight.Explanation{Description: "doc does not exist or is deleted"}, nil
	}
	return weight.Explanation{Value: w.queryWeight, Description: "MatchAllDocs, constant score of boost"}, nil
}

type matchAllScorer struct {
	reader index.Reader
	maxDoc uint32
	doc    uint32
	score  float32
}

func (s *matchAllScorer) Next() bool { return s.advance(s.doc + 1) }

func (s *matchAllScorer) SkipTo(target uint32) bool { return s.advance(target) }

func (s *matchAllScorer) advance(target uint32) bool {
	for d := target; d < s.maxDoc; d++ {
		if !s.reader.IsDeleted(d) {
			s.doc = d
			return true
		}
	}
	s.doc = ^uint32(0)
	return false
}

func (s *matchAllScorer) Doc() uint32 { return s.doc }

func (s *matchAllScorer) Score() float32 { return s.score }

// ConstantScoreWeight wraps an inner weight so every doc inner would
// otherwise score now scores exactly its own boost times the query
// norm. sum_of_squared
// uses boost^2 per the resolved semantics: constant score ignores the
// inner query's own weighting entirely once a doc is known to match.
type ConstantScoreWeight struct {
	inner       weight.Weight
	boost       float32
	queryWeight float32
}

// NewConstantScoreWeight builds a ConstantScoreWeight over inner.
func NewConstantScoreWeight(inner weight.Weight, boost float32) *ConstantScoreWeight {
	return &ConstantScoreWeight{inner: inner, boost: boost}
}

func (w *ConstantScoreWeight) Query() string { return "const(" + w.inner.Query() + ")" }

func (w *ConstantScoreWeight) SumOfSquaredWeights() float32 {
	w.inner.SumOfSquaredWeights()
	w.queryWeight = w.boost
	return w.boost * w.boost
}

func (w *ConstantScoreWeight) Normalize(queryNorm float32) {
	w.inner.Normalize(queryNorm)
	w.queryWeight *= queryNorm
}

func (w *ConstantScoreWeight) Scorer(reader index.Reader) (weight.Scorer, bool, error) {
	inner, ok, err := w.inner.Scorer(reader)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &constantScorer{inner: inner, score: w.queryWeight}, true, nil
}

func (w *ConstantScoreWeight) Explain(reader index.Reader, doc uint32) (weight.Explanation, error) {
	inner, err := w.inner.Explain(reader, doc)
	if err != nil {
		return weight.Explanation{}, err
	}
	if inner.Value == 0 {
		return weight.Explanation{Description: "ConstantScore: inner did not match"}, nil
	}
	return weight.Explanation{Value: w.queryWeight, Description: "ConstantScore, ignoring inner score", Details: []weight.Explanation{inner}}, nil
}

type constantScorer struct {
	inner weight.Scorer
	score float32
}

func (s *constantScorer) Next() bool             { return s.inner.Next() }
func (s *constantScorer) SkipTo(target uint32) bool { return s.inner.SkipTo(target) }
func (s *constantScorer) Doc() uint32            { return s.inner.Doc() }
func (s *constantScorer) Score() float32         { return s.score }

// FilteredWeight restricts inner's matches to docs filt accepts,
// scoring exactly as inner would — the filter never contributes to
// the score, only to candidacy.
type FilteredWeight struct {
	inner weight.Weight
	filt  func(doc uint32) bool
}

// NewFilteredWeight builds a FilteredWeight.
func NewFilteredWeight(inner weight.Weight, filt func(doc uint32) bool) *FilteredWeight {
	return &FilteredWeight{inner: inner, filt: filt}
}

func (w *FilteredWeight) Query() string { return "filtered(" + w.inner.Query() + ")" }

func (w *FilteredWeight) SumOfSquaredWeights() float32 { return w.inner.SumOfSquaredWeights() }

func (w *FilteredWeight) Normalize(queryNorm float32) { w.inner.Normalize(queryNorm) }

func (w *FilteredWeight) Scorer(reader index.Reader) (weight.Scorer, bool, error) {
	inner, ok, err := w.inner.Scorer(reader)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &filteredScorer{inner: inner, filt: w.filt, doc: ^uint32(0)}, true, nil
}

func (w *FilteredWeight) Explain(reader index.Reader, doc uint32) (weight.Explanation, error) {
	if !w.filt(doc) {
		return weight.Explanation{Description: "filtered: doc rejected by filter"}, nil
	}
	return w.inner.Explain(reader, doc)
}

type filteredScorer struct {
	inner weight.Scorer
	filt  func(doc uint32) bool
	doc   uint32
}

func (s *filteredScorer) Next() bool { return s.advance(func() bool { return s.inner.Next() }) }

func (s *filteredScorer) SkipTo(target uint32) bool {
	return s.advance(func() bool { return s.inner.SkipTo(target) })
}

func (s *filteredScorer) advance(step func() bool) bool {
	for step() {
		if s.filt(s.inner.Doc()) {
			s.doc = s.inner.Doc()
			return true
		}
		step = func() bool { return s.inner.Next() }
	}
	s.doc = ^uint32(0)
	return false
}

func (s *filteredScorer) Doc() uint32 { return s.doc }

func (s *filteredScorer) Score() float32 { return s.inner.Score() }
