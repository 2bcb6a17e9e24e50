package scorer

import (
	"github.com/kittclouds/ferret/internal/ferret/index"
	"github.com/kittclouds/ferret/internal/ferret/similarity"
	"github.com/kittclouds/ferret/internal/ferret/weight"
)

// PhraseSlotTerms is one phrase position's candidate terms — multiple
// when the slot came from a MultiPhrase / synonym expansion. Pos is
// the slot's declared absolute position within the phrase.
type PhraseSlotTerms struct {
	Terms []string
	Pos   int
}

// PhraseWeight is the Weight for an exact or sloppy query.Phrase node.
// Slop 0 uses the cheaper exact-match scorer; any other slop builds
// the edit-distance sloppy scorer.
type PhraseWeight struct {
	Field       string
	Slots       []PhraseSlotTerms
	Slop        int
	boost       float32
	idfSum      float32
	queryWeight float32
	offsets     []int
}

// NewPhraseWeight builds a PhraseWeight, summing idf across every term
// in every slot per the phrase weighting rule, and precomputing each
// slot's offset relative to the first slot's declared position.
func NewPhraseWeight(field string, slots []PhraseSlotTerms, slop int, boost float32, src similarity.DocFreqSource) *PhraseWeight {
	var idfSum float32
	for _, slot := range slots {
		for _, t := range slot.Terms {
			idfSum += similarity.IDFTerm(field, t, src)
		}
	}
	offsets := make([]int, len(slots))
	if len(slots) > 0 {
		base := slots[0].Pos
		for i, slot := range slots {
			offsets[i] = slot.Pos - base
		}
	}
	return &PhraseWeight{Field: field, Slots: slots, Slop: slop, boost: boost, idfSum: idfSum, offsets: offsets}
}

func (w *PhraseWeight) Query() string { return w.Field + ":phrase" }

func (w *PhraseWeight) SumOfSquaredWeights() float32 {
	qw := w.idfSum * w.boost
	w.queryWeight = qw
	return qw * qw
}

func (w *PhraseWeight) Normalize(queryNorm float32) {
	w.queryWeight *= queryNorm
}

func (w *PhraseWeight) openIterators(reader index.Reader) ([][]index.PostingIterator, bool, error) {
	slotIters := make([][]index.PostingIterator, len(w.Slots))
	for i, slot := range w.Slots {
		for _, t := range slot.Terms {
			pi, err := reader.TermPositionsFor(index.Term{Field: w.Field, Text: t})
			if err != nil {
				return nil, false, err
			}
			if !pi.Next() {
				pi.Close()
				continue
			}
			slotIters[i] = append(slotIters[i], pi)
		}
		if len(slotIters[i]) == 0 {
			closeAll(slotIters)
			return nil, false, nil
		}
	}
	return slotIters, true, nil
}

func closeAll(slotIters [][]index.PostingIterator) {
	for _, slot := range slotIters {
		for _, pi := range slot {
			pi.Close()
		}
	}
}

func (w *PhraseWeight) Scorer(reader index.Reader) (weight.Scorer, bool, error) {
	slotIters, ok, err := w.openIterators(reader)
	if err != nil || !ok {
		return nil, false, err
	}
	norms, hasNorms := reader.GetNorms(w.Field)
	if w.Slop == 0 {
		return newExactPhraseScorer(slotIters, w, w.offsets, norms, hasNorms, reader), true, nil
	}
	return newSloppyPhraseScorer(slotIters, w, w.offsets, norms, hasNorms, reader), true, nil
}

func (w *PhraseWeight) Explain(reader index.Reader, doc uint32) (weight.Explanation, error) {
	sc, ok, err := w.Scorer(reader)
	if err != nil {
		return weight.Explanation{}, err
	}
	if !ok {
		return weight.Explanation{Description: w.Query() + ": no matching terms"}, nil
	}
	if !sc.SkipTo(doc) || sc.Doc() != doc {
		return weight.Explanation{Description: w.Query() + ": phrase not found in doc"}, nil
	}
	return weight.Explanation{
		Value:       sc.Score(),
		Description: w.Query() + " phrase match score",
	}, nil
}

// exactPhraseScorer requires every slot's chosen term to occur at
// exactly its declared offset relative to the first slot.
type exactPhraseScorer struct {
	slotIters [][]index.PostingIterator
	w         *PhraseWeight
	offsets   []int
	norms     []byte
	hasNorms  bool
	reader    index.Reader
	doc       uint32
	freq      int
}

func newExactPhraseScorer(slotIters [][]index.PostingIterator, w *PhraseWeight, offsets []int, norms []byte, hasNorms bool, reader index.Reader) *exactPhraseScorer {
	return &exactPhraseScorer{slotIters: slotIters, w: w, offsets: offsets, norms: norms, hasNorms: hasNorms, reader: reader, doc: ^uint32(0)}
}

func (s *exactPhraseScorer) Next() bool { return s.advance(s.doc + 1) }

func (s *exactPhraseScorer) SkipTo(target uint32) bool { return s.advance(target) }

func (s *exactPhraseScorer) advance(target uint32) bool {
	for {
		candidate, ok := conjunctiveSlotAdvance(s.slotIters, target)
		if !ok {
			s.doc = ^uint32(0)
			return false
		}
		if s.reader.IsDeleted(candidate) {
			target = candidate + 1
			continue
		}
		freq := countExactPhraseMatches(s.slotIters, candidate, s.offsets)
		if freq == 0 {
			target = candidate + 1
			continue
		}
		s.doc = candidate
		s.freq = freq
		return true
	}
}

func (s *exactPhraseScorer) Doc() uint32 { return s.doc }

func (s *exactPhraseScorer) Score() float32 {
	fieldNorm := float32(1)
	if s.hasNorms && int(s.doc) < len(s.norms) {
		fieldNorm = similarity.DecodeNorm(s.norms[s.doc])
	}
	return similarity.TF(s.freq) * s.w.idfSum * s.w.queryWeight * fieldNorm
}

// conjunctiveSlotAdvance treats each slot's union of postings as one
// clause and requires every slot to reach the same doc.
func conjunctiveSlotAdvance(slotIters [][]index.PostingIterator, target uint32) (uint32, bool) {
	current := target
restart:
	for _, slot := range slotIters {
		minDoc, ok := slotSkipTo(slot, current)
		if !ok {
			return 0, false
		}
		if minDoc > current {
			current = minDoc
			goto restart
		}
	}
	return current, true
}

func slotSkipTo(slot []index.PostingIterator, target uint32) (uint32, bool) {
	min := ^uint32(0)
	found := false
	for _, pi := range slot {
		if pi.Doc() < target {
			if !pi.SkipTo(target) {
				continue
			}
		}
		if !found || pi.Doc() < min {
			min = pi.Doc()
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return min, true
}

// countExactPhraseMatches returns the number of starting positions at
// which every slot has a term occurring at start+offsets[i], offsets
// being each slot's declared position relative to the first slot's
// (offsets[0] is always 0).
func countExactPhraseMatches(slotIters [][]index.PostingIterator, doc uint32, offsets []int) int {
	positionSets := make([][]uint32, len(slotIters))
	for i, slot := range slotIters {
		positionSets[i] = mergedPositionsAt(slot, doc)
	}
	if len(positionSets) == 0 || len(positionSets[0]) == 0 {
		return 0
	}
	matches := 0
	for _, start := range positionSets[0] {
		ok := true
		for i := 1; i < len(positionSets); i++ {
			want := int64(start) + int64(offsets[i])
			if want < 0 || !containsPosition(positionSets[i], uint32(want)) {
				ok = false
				break
			}
		}
		if ok {
			matches++
		}
	}
	return matches
}

func mergedPositionsAt(slot []index.PostingIterator, doc uint32) []uint32 {
	var out []uint32
	for _, pi := range slot {
		if pi.Doc() == doc {
			out = append(out, pi.Positions()...)
		}
	}
	return out
}

func containsPosition(positions []uint32, target uint32) bool {
	for _, p := range positions {
		if p == target {
			return true
		}
	}
	return false
}

// sloppyPhraseScorer allows up to w.Slop total positional edit
// distance across slots, enumerating every per-slot position
// combination at the candidate doc and summing sloppyFreq over every
// combination within slop.
type sloppyPhraseScorer struct {
	slotIters [][]index.PostingIterator
	w         *PhraseWeight
	offsets   []int
	norms     []byte
	hasNorms  bool
	reader    index.Reader
	doc       uint32
	freq      float32
}

func newSloppyPhraseScorer(slotIters [][]index.PostingIterator, w *PhraseWeight, offsets []int, norms []byte, hasNorms bool, reader index.Reader) *sloppyPhraseScorer {
	return &sloppyPhraseScorer{slotIters: slotIters, w: w, offsets: offsets, norms: norms, hasNorms: hasNorms, reader: reader, doc: ^uint32(0)}
}

func (s *sloppyPhraseScorer) Next() bool { return s.advance(s.doc + 1) }

func (s *sloppyPhraseScorer) SkipTo(target uint32) bool { return s.advance(target) }

func (s *sloppyPhraseScorer) advance(target uint32) bool {
	for {
		candidate, ok := conjunctiveSlotAdvance(s.slotIters, target)
		if !ok {
			s.doc = ^uint32(0)
			return false
		}
		if s.reader.IsDeleted(candidate) {
			target = candidate + 1
			continue
		}
		freq := sloppyMatchFreq(s.slotIters, candidate, s.w.Slop, s.offsets)
		if freq == 0 {
			target = candidate + 1
			continue
		}
		s.doc = candidate
		s.freq = freq
		return true
	}
}

func (s *sloppyPhraseScorer) Doc() uint32 { return s.doc }

func (s *sloppyPhraseScorer) Score() float32 {
	fieldNorm := float32(1)
	if s.hasNorms && int(s.doc) < len(s.norms) {
		fieldNorm = similarity.DecodeNorm(s.norms[s.doc])
	}
	return s.freq * s.w.idfSum * s.w.queryWeight * fieldNorm
}

// sloppyMatchFreq enumerates every combination of one position per
// slot (bounded by the product of slot occurrence counts, which is
// small for realistic phrases) and returns the summed sloppyFreq of
// every combination whose total edit distance is within slop.
func sloppyMatchFreq(slotIters [][]index.PostingIterator, doc uint32, slop int, offsets []int) float32 {
	positionSets := make([][]uint32, len(slotIters))
	for i, slot := range slotIters {
		positionSets[i] = mergedPositionsAt(slot, doc)
		if len(positionSets[i]) == 0 {
			return 0
		}
	}
	var total float32
	var walk func(slotIdx int, chosen []uint32)
	walk = func(slotIdx int, chosen []uint32) {
		if slotIdx == len(positionSets) {
			dist := phraseEditDistance(chosen, offsets)
			if dist <= slop {
				total += similarity.SloppyFreq(dist)
			}
			return
		}
		for _, p := range positionSets[slotIdx] {
			walk(slotIdx+1, append(chosen, p))
		}
	}
	walk(0, make([]uint32, 0, len(positionSets)))
	return total
}

// phraseEditDistance sums |actual_gap - expected_gap| across
// consecutive slots, where expected_gap is each slot's declared
// offset minus the previous slot's (1 for ordinary consecutive
// slots, more for a slot positioned further away, e.g. across a
// skipped "<>" token).
func phraseEditDistance(positions []uint32, offsets []int) int {
	dist := 0
	for i := 1; i < len(positions); i++ {
		gap := int(positions[i]) - int(positions[i-1])
		expected := offsets[i] - offsets[i-1]
		d := gap - expected
		if d < 0 {
			d = -d
		}
		dist += d
	}
	return dist
}
