package scorer

import (
	"github.com/kittclouds/ferret/internal/ferret/index"
	"github.com/kittclouds/ferret/internal/ferret/query"
	"github.com/kittclouds/ferret/internal/ferret/similarity"
	"github.com/kittclouds/ferret/internal/ferret/weight"
)

// MultiTermWeight scores a capped term list as a SHOULD-only boolean
// over per-term weights, each boosted by its rewrite-time entry
// boost. Coordination is left enabled: a doc matching more of the
// expanded terms ranks above one matching fewer, the same rule an
// ordinary disjunctive boolean applies.
type MultiTermWeight struct {
	inner *BooleanWeight
}

// NewMultiTermWeight builds per-term weights for field:text pairs
// (each scaled by its MultiTermEntry boost) and wraps them in a
// disjunctive BooleanWeight.
func NewMultiTermWeight(field string, entries []query.MultiTermEntry, boost float32, src similarity.DocFreqSource) *MultiTermWeight {
	subs := make([]SubWeight, 0, len(entries))
	for _, e := range entries {
		tw := NewTermWeight(field, e.Text, boost*e.Boost, src)
		subs = append(subs, NewSubWeight(tw, OccurShould))
	}
	return &MultiTermWeight{inner: NewBooleanWeight(subs, 1, false, boost)}
}

func (w *MultiTermWeight) Query() string { return w.inner.Query() }

func (w *MultiTermWeight) SumOfSquaredWeights() float32 { return w.inner.SumOfSquaredWeights() }

func (w *MultiTermWeight) Normalize(queryNorm float32) { w.inner.Normalize(queryNorm) }

func (w *MultiTermWeight) Scorer(reader index.Reader) (weight.Scorer, bool, error) {
	return w.inner.Scorer(reader)
}

func (w *MultiTermWeight) Explain(reader index.Reader, doc uint32) (weight.Explanation, error) {
	return w.inner.Explain(reader, doc)
}
