package search

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kittclouds/ferret/internal/ferret/config"
	"github.com/kittclouds/ferret/internal/ferret/index"
	"github.com/kittclouds/ferret/internal/ferret/query"
	"github.com/kittclouds/ferret/internal/ferret/rewrite"
	"github.com/kittclouds/ferret/internal/ferret/similarity"
	"github.com/kittclouds/ferret/internal/ferret/topdocs"
	"github.com/kittclouds/ferret/internal/ferret/weight"
)

// HitVisitor is called once per matching doc in doc-ascending order
// by SearchEach, mirroring a Collector in systems that expose one.
type HitVisitor func(doc uint32, score float32) error

// Searcher is the single-reader entry point for the whole evaluation
// pipeline: rewrite, create_weight, normalize, score, collect. cfg
// supplies the rewrite caps and similarity defaults for every search
// this Searcher runs.
type Searcher struct {
	reader index.Reader
	cfg    *config.Config
}

// NewSearcher builds a Searcher over reader using config.DefaultConfig.
func NewSearcher(reader index.Reader) *Searcher {
	return NewSearcherWithConfig(reader, config.DefaultConfig())
}

// NewSearcherWithConfig builds a Searcher over reader tuned by cfg. A
// nil cfg behaves like NewSearcher.
func NewSearcherWithConfig(reader index.Reader, cfg *config.Config) *Searcher {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Searcher{reader: reader, cfg: cfg}
}

// Rewrite rewrites q against this searcher's reader to a fixed point.
func (s *Searcher) Rewrite(q query.Query) (query.Query, error) {
	return rewrite.Rewrite(q, s.reader, s.cfg)
}

// CreateNormalizedWeight rewrites q, builds its Weight tree, and
// applies query norm — the full pre-scoring setup a search or an
// explain both need.
func (s *Searcher) CreateNormalizedWeight(q query.Query) (weight.Weight, error) {
	rewritten, err := s.Rewrite(q)
	if err != nil {
		return nil, err
	}
	w, err := CreateWeight(rewritten, s.reader, s.cfg)
	if err != nil {
		return nil, err
	}
	sumSq := w.SumOfSquaredWeights()
	queryNorm := similarity.QueryNorm(float64(sumSq))
	w.Normalize(queryNorm)
	return w, nil
}

// Search runs q and returns the top n scored hits.
func (s *Searcher) Search(q query.Query, n int) (topdocs.TopDocs, error) {
	return s.SearchPage(q, 0, n, nil)
}

// SearchDefault runs q and returns the top cfg.Search.DefaultTopN
// scored hits, for callers that don't have an application-level n to
// pass to Search.
func (s *Searcher) SearchDefault(q query.Query) (topdocs.TopDocs, error) {
	return s.Search(q, s.cfg.Search.DefaultTopN)
}

// SearchPage runs q, optionally restricted to docs post accepts, and
// returns the page of scored hits starting at firstDoc (0-based rank
// into the full ranked result) covering up to n hits. It collects
// firstDoc+n hits internally since scores are only totally ordered
// once every candidate has been seen.
func (s *Searcher) SearchPage(q query.Query, firstDoc, n int, post func(doc uint32) bool) (topdocs.TopDocs, error) {
	w, err := s.CreateNormalizedWeight(q)
	if err != nil {
		return topdocs.TopDocs{}, err
	}
	capacity := n
	if capacity >= 0 {
		capacity += firstDoc
	}
	queue := topdocs.NewHitQueue(capacity)
	err = s.scoreAll(w, func(doc uint32, score float32) error {
		if post != nil && !post(doc) {
			return nil
		}
		queue.Add(doc, score)
		return nil
	})
	if err != nil {
		return topdocs.TopDocs{}, err
	}
	page := queue.TopDocs()
	if firstDoc > 0 {
		if firstDoc >= len(page.Hits) {
			page.Hits = nil
		} else {
			page.Hits = page.Hits[firstDoc:]
		}
	}
	return page, nil
}

// SearchEach runs q and invokes visit for every matching doc in
// ascending doc-id order, without retaining a top-k set. Useful for
// exporting full result sets or building external collectors.
func (s *Searcher) SearchEach(q query.Query, visit HitVisitor) error {
	w, err := s.CreateNormalizedWeight(q)
	if err != nil {
		return err
	}
	return s.scoreAll(w, visit)
}

// SearchUnscored runs q and returns every matching doc id without
// computing scores at all, for callers that only need membership
// (e.g. building a Filter from a query).
func (s *Searcher) SearchUnscored(q query.Query) ([]uint32, error) {
	return s.SearchUnscoredRange(q, 0, -1)
}

// SearchUnscoredRange runs q unscored and returns up to limit matching
// doc ids starting at the offset-th match in ascending doc-id order.
// A negative limit returns every match from offset onward.
func (s *Searcher) SearchUnscoredRange(q query.Query, offset, limit int) ([]uint32, error) {
	rewritten, err := s.Rewrite(q)
	if err != nil {
		return nil, err
	}
	w, err := CreateWeight(rewritten, s.reader, s.cfg)
	if err != nil {
		return nil, err
	}
	w.SumOfSquaredWeights()
	w.Normalize(1)

	sc, ok, err := w.Scorer(s.reader)
	if err != nil || !ok {
		return nil, err
	}
	var docs []uint32
	skipped := 0
	for sc.Next() {
		if skipped < offset {
			skipped++
			continue
		}
		if limit >= 0 && len(docs) >= limit {
			break
		}
		docs = append(docs, sc.Doc())
	}
	return docs, nil
}

// FieldComparator orders two matching docs by their stored field
// values for SearchSorted: negative if a sorts before b, positive if
// after, zero on a tie (broken by ascending doc id).
type FieldComparator func(a, b index.Document) int

// StringFieldComparator compares field lexicographically.
func StringFieldComparator(field string, reverse bool) FieldComparator {
	return func(a, b index.Document) int {
		c := strings.Compare(a[field], b[field])
		if reverse {
			c = -c
		}
		return c
	}
}

// NumericFieldComparator compares field as a parsed float64, falling
// back to a lexicographic comparison when either value fails to
// parse, matching TypedRange's own numeric-with-fallback semantics.
func NumericFieldComparator(field string, reverse bool) FieldComparator {
	return func(a, b index.Document) int {
		av, aok := strconv.ParseFloat(a[field], 64)
		bv, bok := strconv.ParseFloat(b[field], 64)
		var c int
		switch {
		case aok && bok:
			switch {
			case av < bv:
				c = -1
			case av > bv:
				c = 1
			}
		default:
			c = strings.Compare(a[field], b[field])
		}
		if reverse {
			c = -c
		}
		return c
	}
}

// SearchSorted runs q and orders matches by cmp instead of by score,
// returning the page of up to n hits starting at the firstDoc-th
// ranked match (a negative n returns every match from firstDoc on).
// Hits still carry their computed Score; only the ordering ignores
// it. Ties in cmp fall back to ascending doc id.
func (s *Searcher) SearchSorted(q query.Query, firstDoc, n int, cmp FieldComparator) (topdocs.TopDocs, error) {
	w, err := s.CreateNormalizedWeight(q)
	if err != nil {
		return topdocs.TopDocs{}, err
	}

	type scoredDoc struct {
		doc      uint32
		score    float32
		document index.Document
	}
	var all []scoredDoc
	err = s.scoreAll(w, func(doc uint32, score float32) error {
		document, derr := s.reader.GetDoc(doc)
		if derr != nil {
			return derr
		}
		all = append(all, scoredDoc{doc: doc, score: score, document: document})
		return nil
	})
	if err != nil {
		return topdocs.TopDocs{}, err
	}

	sort.Slice(all, func(i, j int) bool {
		if c := cmp(all[i].document, all[j].document); c != 0 {
			return c < 0
		}
		return all[i].doc < all[j].doc
	})

	td := topdocs.TopDocs{TotalHits: len(all)}
	for _, r := range all {
		if r.score > td.MaxScore {
			td.MaxScore = r.score
		}
	}
	if firstDoc >= len(all) {
		return td, nil
	}
	end := len(all)
	if n >= 0 && firstDoc+n < end {
		end = firstDoc + n
	}
	td.Hits = make([]topdocs.Hit, 0, end-firstDoc)
	for _, r := range all[firstDoc:end] {
		td.Hits = append(td.Hits, topdocs.Hit{Doc: r.doc, Score: r.score})
	}
	return td, nil
}

func (s *Searcher) scoreAll(w weight.Weight, visit HitVisitor) error {
	sc, ok, err := w.Scorer(s.reader)
	if err != nil || !ok {
		return err
	}
	for sc.Next() {
		if err := visit(sc.Doc(), sc.Score()); err != nil {
			return err
		}
	}
	return nil
}

// Explain computes the full score breakdown for doc against q.
func (s *Searcher) Explain(q query.Query, doc uint32) (weight.Explanation, error) {
	w, err := s.CreateNormalizedWeight(q)
	if err != nil {
		return weight.Explanation{}, err
	}
	return w.Explain(s.reader, doc)
}

// DocFreq exposes the reader's document frequency, satisfying
// similarity.DocFreqSource for callers that weight queries outside a
// Searcher (e.g. MultiSearcher's pre-aggregated statistics).
func (s *Searcher) DocFreq(field, text string) int { return s.reader.DocFreq(field, text) }

// MaxDoc exposes the reader's doc count.
func (s *Searcher) MaxDoc() int { return s.reader.MaxDoc() }
