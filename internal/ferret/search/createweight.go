// Package search implements the Searcher: the top-level entry point
// that rewrites a query against a specific index.Reader, builds its
// Weight tree, normalizes it by query norm, and drives Scorers to
// produce scored hits or explanations.
package search

import (
	"fmt"

	"github.com/kittclouds/ferret/internal/ferret/config"
	"github.com/kittclouds/ferret/internal/ferret/ferreterr"
	"github.com/kittclouds/ferret/internal/ferret/query"
	"github.com/kittclouds/ferret/internal/ferret/scorer"
	"github.com/kittclouds/ferret/internal/ferret/similarity"
	"github.com/kittclouds/ferret/internal/ferret/weight"
)

// CreateWeight builds the Weight tree for a rewritten query node.
// Callers must rewrite q (via the rewrite package) before calling
// this: Prefix, Wildcard, Range and TypedRange have no Weight of
// their own. A nil cfg builds with config.DefaultConfig's similarity
// defaults.
func CreateWeight(q query.Query, src similarity.DocFreqSource, cfg *config.Config) (weight.Weight, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	switch v := q.(type) {
	case query.Term:
		return scorer.NewTermWeight(v.Field, v.Text, v.Boost(), src), nil
	case *query.Boolean:
		return createBooleanWeight(v, src, cfg)
	case *query.Phrase:
		return createPhraseWeight(v, src)
	case *query.MultiPhrase:
		return createPhraseWeight(v.Phrase, src)
	case *query.MultiTerm:
		return scorer.NewMultiTermWeight(v.Field, v.Terms, v.Boost(), src), nil
	case *query.MatchAll:
		return scorer.NewMatchAllWeight(v.Boost()), nil
	case *query.ConstantScore:
		inner, err := CreateWeight(v.Inner, src, cfg)
		if err != nil {
			return nil, err
		}
		return scorer.NewConstantScoreWeight(inner, v.Boost()), nil
	case *query.Filtered:
		inner, err := CreateWeight(v.Inner, src, cfg)
		if err != nil {
			return nil, err
		}
		filt := v.Filt
		return scorer.NewFilteredWeight(inner, filt.Accept), nil
	case *query.Prefix, *query.Wildcard, *query.Range, *query.TypedRange:
		return nil, fmt.Errorf("%w: pattern query reached create_weight unrewritten", ferreterr.ErrState)
	default:
		return nil, fmt.Errorf("%w: unknown query node %T", ferreterr.ErrArg, q)
	}
}

// createBooleanWeight builds the clause Weights and applies cfg's
// deployment-wide coord default: a Boolean turns coord off if either
// it sets CoordDisabled itself or cfg.Similarity.CoordDisabled does,
// since a deployment default can only ever widen the set of queries
// that skip coord, never force it back on for a query that opted in.
func createBooleanWeight(b *query.Boolean, src similarity.DocFreqSource, cfg *config.Config) (weight.Weight, error) {
	subs := make([]scorer.SubWeight, len(b.Clauses))
	for i, c := range b.Clauses {
		w, err := CreateWeight(c.Query, src, cfg)
		if err != nil {
			return nil, err
		}
		subs[i] = scorer.NewSubWeight(w, occurFromQuery(c.Occur))
	}
	coordDisabled := b.CoordDisabled || cfg.Similarity.CoordDisabled
	return scorer.NewBooleanWeight(subs, b.MinShouldMatch, coordDisabled, b.Boost()), nil
}

func occurFromQuery(o query.Occur) int {
	switch o {
	case query.Must:
		return scorer.OccurMust
	case query.MustNot:
		return scorer.OccurMustNot
	default:
		return scorer.OccurShould
	}
}

func createPhraseWeight(p *query.Phrase, src similarity.DocFreqSource) (weight.Weight, error) {
	slots := make([]scorer.PhraseSlotTerms, len(p.Slots))
	for i, s := range p.Slots {
		slots[i] = scorer.PhraseSlotTerms{Terms: s.Terms, Pos: s.Pos}
	}
	return scorer.NewPhraseWeight(p.Field, slots, p.Slop, p.Boost(), src), nil
}
