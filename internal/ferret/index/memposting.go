package index

// Posting is one document's occurrence of a term: its frequency and
// the strictly increasing positions it occurred at.
type Posting struct {
	Doc       uint32
	Positions []uint32
}

// MemPostingList is a sorted, in-memory (doc, positions) list backing
// PostingIterator for reference readers. Real storage engines replace
// this with whatever on-disk posting format they use; the scorer
// layer never sees the difference.
type MemPostingList struct {
	postings []Posting
}

// NewMemPostingList builds a MemPostingList from postings already
// sorted by ascending Doc.
func NewMemPostingList(postings []Posting) *MemPostingList {
	return &MemPostingList{postings: postings}
}

// DocFreq returns the number of docs carrying this term.
func (p *MemPostingList) DocFreq() int { return len(p.postings) }

// Iterator returns a fresh PostingIterator over this list.
func (p *MemPostingList) Iterator() PostingIterator {
	return &memPostingIterator{postings: p.postings, idx: -1}
}

type memPostingIterator struct {
	postings []Posting
	idx      int
}

func (it *memPostingIterator) Next() bool {
	it.idx++
	return it.idx < len(it.postings)
}

func (it *memPostingIterator) SkipTo(target uint32) bool {
	if it.idx >= 0 && it.idx < len(it.postings) && it.postings[it.idx].Doc >= target {
		return true
	}
	lo, hi := it.idx+1, len(it.postings)
	for lo < hi {
		mid := (lo + hi) / 2
		if it.postings[mid].Doc < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	it.idx = lo
	return it.idx < len(it.postings)
}

// Doc returns ^uint32(0) when the iterator is not on a posting (before
// the first Next or after exhaustion), the sentinel the scorers check.
func (it *memPostingIterator) Doc() uint32 {
	if it.idx < 0 || it.idx >= len(it.postings) {
		return ^uint32(0)
	}
	return it.postings[it.idx].Doc
}

func (it *memPostingIterator) Freq() uint32 { return uint32(len(it.postings[it.idx].Positions)) }

func (it *memPostingIterator) Positions() []uint32 { return it.postings[it.idx].Positions }

func (it *memPostingIterator) Close() error { return nil }

// emptyPostingIterator is returned for unknown terms; spec.md says a
// missing term is not an error, just an exhausted iterator.
type emptyPostingIterator struct{}

// EmptyPostingIterator returns a PostingIterator that is immediately
// exhausted, used by readers when a term is absent.
func EmptyPostingIterator() PostingIterator { return emptyPostingIterator{} }

func (emptyPostingIterator) Next() bool            { return false }
func (emptyPostingIterator) SkipTo(uint32) bool     { return false }
func (emptyPostingIterator) Doc() uint32            { return 0 }
func (emptyPostingIterator) Freq() uint32           { return 0 }
func (emptyPostingIterator) Positions() []uint32    { return nil }
func (emptyPostingIterator) Close() error           { return nil }
