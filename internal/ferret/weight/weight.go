// Package weight defines the Weight protocol: the per-search,
// per-query-node object that holds normalized scoring factors and
// builds Scorers against a concrete index.Reader. A Weight is built
// per search after rewrite; a MultiSearcher builds one for each shard
// it fans out to.
package weight

import (
	"fmt"
	"strings"

	"github.com/kittclouds/ferret/internal/ferret/index"
)

// Scorer is implemented by the scorer package's concrete types.
// Defined here (rather than imported from scorer) to avoid a import
// cycle: weight.Weight.Scorer returns one, and the scorer package's
// Weight types implement this Weight interface.
type Scorer interface {
	// Next advances to the next matching doc, returning false at
	// exhaustion.
	Next() bool
	// SkipTo advances to the first matching doc >= target.
	SkipTo(target uint32) bool
	// Doc returns the current doc id.
	Doc() uint32
	// Score returns the current doc's score.
	Score() float32
}

// Explanation is a tree describing how a score was computed. Leaves
// carry a Value and Description; internal nodes additionally carry
// Details contributing to Value.
type Explanation struct {
	Value       float32
	Description string
	Details     []Explanation
}

// String renders the explanation tree with 2-space indent per level.
func (e Explanation) String() string {
	var b strings.Builder
	e.write(&b, 0)
	return b.String()
}

func (e Explanation) write(b *strings.Builder, depth int) {
	fmt.Fprintf(b, "%s%g = %s\n", strings.Repeat("  ", depth), e.Value, e.Description)
	for _, d := range e.Details {
		d.write(b, depth+1)
	}
}

// Weight is the normalized, reader-agnostic scoring object for one
// query node. SumOfSquaredWeights and Normalize run once per search
// before any Scorer is built; Scorer and Explain run once per
// segment/doc respectively.
type Weight interface {
	// Query returns a description of the originating query node, for
	// diagnostics only.
	Query() string
	// SumOfSquaredWeights returns this node's contribution to the
	// query's cosine normalization sum, computed from boost and idf
	// before queryNorm is known.
	SumOfSquaredWeights() float32
	// Normalize applies the computed query norm to this node's cached
	// weight; must be called exactly once before Scorer or Explain.
	Normalize(queryNorm float32)
	// Scorer builds a Scorer against reader, or returns ok=false if no
	// document in reader can possibly match (e.g. the term is absent).
	Scorer(reader index.Reader) (Scorer, bool, error)
	// Explain computes the full scoring breakdown for doc against
	// reader, independent of whether doc actually matches.
	Explain(reader index.Reader, doc uint32) (Explanation, error)
}
