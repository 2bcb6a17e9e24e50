package scorer

import (
	"github.com/kittclouds/ferret/internal/ferret/index"
	"github.com/kittclouds/ferret/internal/ferret/similarity"
	"github.com/kittclouds/ferret/internal/ferret/weight"
)

// SubWeight pairs a clause's Weight with its Occur so BooleanWeight
// can build matching sub-scorers and BooleanScorer can apply the
// right advancement rule per clause.
type SubWeight struct {
	w     weight.Weight
	occur int // mirrors query.Occur values to avoid an import cycle
}

const (
	occurShould = iota
	occurMust
	occurMustNot
)

// NewSubWeight pairs a clause Weight with its Occur value (0=should,
// 1=must, 2=mustNot — matching query.Occur's own iota order) for use
// in NewBooleanWeight.
func NewSubWeight(w weight.Weight, occur int) SubWeight {
	return SubWeight{w: w, occur: occur}
}

// OccurShould, OccurMust and OccurMustNot re-export the internal occur
// constants so callers outside this package (the rewrite/search
// wiring that maps query.Occur to a BooleanWeight) can pass them to
// NewSubWeight without reaching into unexported values.
const (
	OccurShould  = occurShould
	OccurMust    = occurMust
	OccurMustNot = occurMustNot
)

// BooleanWeight is the Weight for a query.Boolean node.
type BooleanWeight struct {
	subs           []SubWeight
	minShouldMatch int
	coordDisabled  bool
	boost          float32
	queryWeight    float32
}

// NewBooleanWeight builds a BooleanWeight from already-built clause
// weights. minShouldMatch is clamped to 1 when no MUST clause exists
// and the caller left it at 0, matching the invariant
// that an all-SHOULD boolean must match at least one clause.
func NewBooleanWeight(subs []SubWeight, minShouldMatch int, coordDisabled bool, boost float32) *BooleanWeight {
	hasMust := false
	for _, s := range subs {
		if s.occur == occurMust {
			hasMust = true
		}
	}
	if minShouldMatch == 0 && !hasMust {
		minShouldMatch = 1
	}
	return &BooleanWeight{subs: subs, minShouldMatch: minShouldMatch, coordDisabled: coordDisabled, boost: boost}
}

func (w *BooleanWeight) Query() string { return "boolean" }

func (w *BooleanWeight) SumOfSquaredWeights() float32 {
	var sum float32
	for _, s := range w.subs {
		if s.occur != occurMustNot {
			sum += s.w.SumOfSquaredWeights()
		}
	}
	w.queryWeight = w.boost
	return sum * w.boost * w.boost
}

func (w *BooleanWeight) Normalize(queryNorm float32) {
	for _, s := range w.subs {
		if s.occur != occurMustNot {
			s.w.Normalize(queryNorm)
		}
	}
}

func (w *BooleanWeight) Scorer(reader index.Reader) (weight.Scorer, bool, error) {
	var musts, shoulds []weight.Scorer
	var mustNots []index.DocSet
	maxShould := 0
	for _, s := range w.subs {
		sc, ok, err := s.w.Scorer(reader)
		if err != nil {
			return nil, false, err
		}
		switch s.occur {
		case occurMust:
			if !ok {
				return nil, false, nil
			}
			musts = append(musts, sc)
		case occurMustNot:
			if ok {
				mustNots = append(mustNots, materializeDocSet(sc))
			}
		default:
			maxShould++
			if ok {
				shoulds = append(shoulds, sc)
			}
		}
	}
	if len(shoulds) < w.minShouldMatch && len(musts) == 0 {
		return nil, false, nil
	}
	if len(musts) == 0 && len(shoulds) == 0 {
		return nil, false, nil
	}
	bs := &BooleanScorer{
		musts:          musts,
		shoulds:        shoulds,
		mustNots:       mustNots,
		minShouldMatch: w.minShouldMatch,
		maxOverlap:     len(musts) + maxShould,
		coordDisabled:  w.coordDisabled,
		doc:            ^uint32(0),
	}
	return bs, true, nil
}

func (w *BooleanWeight) Explain(reader index.Reader, doc uint32) (weight.Explanation, error) {
	var details []weight.Explanation
	var sum float32
	overlap := 0
	for _, s := range w.subs {
		ex, err := s.w.Explain(reader, doc)
		if err != nil {
			return weight.Explanation{}, err
		}
		if s.occur != occurMustNot && ex.Value != 0 {
			sum += ex.Value
			overlap++
		}
		details = append(details, ex)
	}
	coord := similarity.Coord(overlap, w.maxOverlapForExplain(), w.coordDisabled)
	return weight.Explanation{
		Value:       sum * coord,
		Description: "boolean sum over matching clauses * coord",
		Details:     details,
	}, nil
}

func (w *BooleanWeight) maxOverlapForExplain() int {
	n := 0
	for _, s := range w.subs {
		if s.occur != occurMustNot {
			n++
		}
	}
	return n
}

// BooleanScorer advances its clauses in lock-step: MUST clauses drive
// a conjunctive scan, SHOULD clauses contribute to score and overlap
// wherever they happen to match the same doc, and MUST_NOT clauses
// veto a doc outright. With zero MUST clauses the lowest-docid SHOULD
// clause drives the scan instead (pure disjunction).
type BooleanScorer struct {
	musts, shoulds []weight.Scorer
	mustNots       []index.DocSet
	minShouldMatch int
	maxOverlap     int
	coordDisabled  bool
	doc            uint32
	score          float32
}

// materializeDocSet drains a MUST_NOT scorer into a DocSet once, when
// the Boolean scorer is built. MUST_NOT clauses never contribute to score or
// overlap, so there is nothing lost by giving up lazy streaming for
// them in exchange for an O(log n) (or O(1) above BitmapThreshold)
// veto check per candidate instead of re-walking a posting list.
func materializeDocSet(sc weight.Scorer) index.DocSet {
	var docs []uint32
	for sc.Next() {
		docs = append(docs, sc.Doc())
	}
	if len(docs) >= index.BitmapThreshold {
		return index.NewBitmapDocSet(docs)
	}
	return index.NewSliceDocSet(docs)
}

// Next advances past the current doc. doc starts at the all-ones
// sentinel so the first call's +1 wraps to 0, scanning from the
// beginning.
func (s *BooleanScorer) Next() bool {
	return s.advance(s.doc + 1)
}

func (s *BooleanScorer) SkipTo(target uint32) bool {
	return s.advance(target)
}

func (s *BooleanScorer) advance(target uint32) bool {
	for {
		var candidate uint32
		ok := false
		if len(s.musts) > 0 {
			candidate, ok = conjunctiveAdvance(s.musts, target)
		} else {
			candidate, ok = disjunctiveAdvance(s.shoulds, target)
		}
		if !ok {
			s.doc = ^uint32(0)
			return false
		}
		if vetoedByMustNot(s.mustNots, candidate) {
			target = candidate + 1
			continue
		}
		overlap, sum := accumulateShould(s.shoulds, candidate)
		if len(s.musts) > 0 {
			overlap += len(s.musts)
			for _, sc := range s.musts {
				sum += sc.Score()
			}
		}
		if overlap < s.minShouldMatch && len(s.musts) == 0 {
			target = candidate + 1
			continue
		}
		s.doc = candidate
		s.score = sum * similarity.Coord(overlap, s.maxOverlap, s.coordDisabled)
		return true
	}
}

func (s *BooleanScorer) Doc() uint32 { return s.doc }

func (s *BooleanScorer) Score() float32 { return s.score }

func conjunctiveAdvance(scorers []weight.Scorer, target uint32) (uint32, bool) {
	current := target
restart:
	for _, sc := range scorers {
		if sc.Doc() == ^uint32(0) || sc.Doc() < current {
			if !sc.SkipTo(current) {
				return 0, false
			}
		}
		if sc.Doc() > current {
			current = sc.Doc()
			goto restart
		}
	}
	return current, true
}

func disjunctiveAdvance(scorers []weight.Scorer, target uint32) (uint32, bool) {
	min := ^uint32(0)
	found := false
	for _, sc := range scorers {
		d := sc.Doc()
		if d == ^uint32(0) || d < target {
			if !sc.SkipTo(target) {
				continue
			}
			d = sc.Doc()
		}
		if !found || d < min {
			min = d
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return min, true
}

func vetoedByMustNot(sets []index.DocSet, doc uint32) bool {
	for _, s := range sets {
		if s.Contains(doc) {
			return true
		}
	}
	return false
}

func accumulateShould(scorers []weight.Scorer, doc uint32) (overlap int, sum float32) {
	for _, sc := range scorers {
		if sc.Doc() < doc {
			if !sc.SkipTo(doc) {
				continue
			}
		}
		if sc.Doc() == doc {
			overlap++
			sum += sc.Score()
		}
	}
	return overlap, sum
}
