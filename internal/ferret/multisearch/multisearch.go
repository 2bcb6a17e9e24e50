// Package multisearch fans a single query out across several
// independently built index.Reader shards and merges the results as
// if they came from one corpus: doc ids are translated into a single
// global space, document frequency and doc count are summed across
// shards before idf is computed so a term's rarity reflects the whole
// corpus rather than whichever shard happens to hold it, and the
// merged top-k is collected into one ranked result.
package multisearch

import (
	"fmt"

	"github.com/kittclouds/ferret/internal/ferret/config"
	"github.com/kittclouds/ferret/internal/ferret/index"
	"github.com/kittclouds/ferret/internal/ferret/query"
	"github.com/kittclouds/ferret/internal/ferret/rewrite"
	"github.com/kittclouds/ferret/internal/ferret/search"
	"github.com/kittclouds/ferret/internal/ferret/similarity"
	"github.com/kittclouds/ferret/internal/ferret/topdocs"
	"github.com/kittclouds/ferret/internal/ferret/weight"
)

// MultiSearcher evaluates a query against several readers as one
// corpus. It implements similarity.DocFreqSource itself, aggregating
// every shard's statistics, so a single Weight tree built from it
// carries corpus-wide idf into each shard's Scorer.
type MultiSearcher struct {
	readers []index.Reader
	bases   []uint32
	cfg     *config.Config
}

// NewMultiSearcher builds a MultiSearcher over readers using
// config.DefaultConfig, assigning each shard a contiguous block of
// global doc ids in the order given.
func NewMultiSearcher(readers ...index.Reader) *MultiSearcher {
	return NewMultiSearcherWithConfig(config.DefaultConfig(), readers...)
}

// NewMultiSearcherWithConfig builds a MultiSearcher tuned by cfg,
// applied identically to every shard's rewrite and Weight build. A
// nil cfg behaves like NewMultiSearcher.
func NewMultiSearcherWithConfig(cfg *config.Config, readers ...index.Reader) *MultiSearcher {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := &MultiSearcher{readers: readers, bases: make([]uint32, len(readers)), cfg: cfg}
	var base uint32
	for i, r := range readers {
		m.bases[i] = base
		base += uint32(r.MaxDoc())
	}
	return m
}

// DocFreq sums doc_freq for field:text across every shard, satisfying
// similarity.DocFreqSource with corpus-wide rarity.
func (m *MultiSearcher) DocFreq(field, text string) int {
	total := 0
	for _, r := range m.readers {
		total += r.DocFreq(field, text)
	}
	return total
}

// MaxDoc sums every shard's doc count.
func (m *MultiSearcher) MaxDoc() int {
	total := 0
	for _, r := range m.readers {
		total += r.MaxDoc()
	}
	return total
}

// GlobalDoc translates a shard-local doc id into the global id space.
func (m *MultiSearcher) GlobalDoc(shard int, localDoc uint32) uint32 {
	return m.bases[shard] + localDoc
}

// LocateDoc translates a global doc id back into its owning shard
// index and that shard's local doc id.
func (m *MultiSearcher) LocateDoc(globalDoc uint32) (shard int, localDoc uint32) {
	for i := len(m.bases) - 1; i >= 0; i-- {
		if globalDoc >= m.bases[i] {
			return i, globalDoc - m.bases[i]
		}
	}
	return 0, globalDoc
}

// shardPlan is one shard's independently rewritten query paired with
// the Weight built from it, before normalization.
type shardPlan struct {
	reader index.Reader
	base   uint32
	w      weight.Weight
}

// plan rewrites q against every shard's own reader (so Prefix,
// Wildcard and Range see that shard's actual term dictionary) and
// builds each shard's Weight from this MultiSearcher's aggregated
// DocFreqSource, so every shard's idf factor is identical. Rewriting
// per shard means a pattern query may expand to a different MultiTerm
// per shard; that is the intended behavior for a sharded term
// dictionary and mirrors the corpus view a true merged-segment reader
// would present.
func (m *MultiSearcher) plan(q query.Query) ([]shardPlan, float32, error) {
	plans := make([]shardPlan, 0, len(m.readers))
	var sumSq float32
	for i, r := range m.readers {
		rewritten, err := rewrite.Rewrite(q, r, m.cfg)
		if err != nil {
			return nil, 0, fmt.Errorf("rewrite against shard %d: %w", i, err)
		}
		w, err := search.CreateWeight(rewritten, m, m.cfg)
		if err != nil {
			return nil, 0, fmt.Errorf("create_weight against shard %d: %w", i, err)
		}
		sumSq += w.SumOfSquaredWeights()
		plans = append(plans, shardPlan{reader: r, base: m.bases[i], w: w})
	}
	return plans, sumSq, nil
}

// Search runs q against every shard and returns the merged top n
// hits in global doc-id space, scored with one corpus-wide query
// norm shared by every shard.
func (m *MultiSearcher) Search(q query.Query, n int) (topdocs.TopDocs, error) {
	plans, sumSq, err := m.plan(q)
	if err != nil {
		return topdocs.TopDocs{}, err
	}
	queryNorm := similarity.QueryNorm(float64(sumSq))

	queue := topdocs.NewHitQueue(n)
	for _, p := range plans {
		p.w.Normalize(queryNorm)
		sc, ok, err := p.w.Scorer(p.reader)
		if err != nil {
			return topdocs.TopDocs{}, err
		}
		if !ok {
			continue
		}
		for sc.Next() {
			queue.Add(p.base+sc.Doc(), sc.Score())
		}
	}
	return queue.TopDocs(), nil
}

// SearchUnscored runs q against every shard and returns every
// matching doc id in global space. Shards are visited in base order,
// so the ids come out in ascending order.
func (m *MultiSearcher) SearchUnscored(q query.Query) ([]uint32, error) {
	plans, _, err := m.plan(q)
	if err != nil {
		return nil, err
	}
	var docs []uint32
	for _, p := range plans {
		p.w.Normalize(1)
		sc, ok, err := p.w.Scorer(p.reader)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for sc.Next() {
			docs = append(docs, p.base+sc.Doc())
		}
	}
	return docs, nil
}

// Explain computes the score breakdown for a global doc id, routing
// to the owning shard's reader and rebuilding that shard's Weight
// with the same corpus-wide query norm Search would have used.
func (m *MultiSearcher) Explain(q query.Query, globalDoc uint32) (weight.Explanation, error) {
	shard, localDoc := m.LocateDoc(globalDoc)
	plans, sumSq, err := m.plan(q)
	if err != nil {
		return weight.Explanation{}, err
	}
	queryNorm := similarity.QueryNorm(float64(sumSq))
	p := plans[shard]
	p.w.Normalize(queryNorm)
	return p.w.Explain(p.reader, localDoc)
}
