package index

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// BitmapThreshold is the cardinality at which a DocSet promotes from
// a sorted slice to a roaring bitmap. Below it a sorted []uint32 is
// more cache-friendly to scan; at or above it a roaring bitmap's
// SIMD-optimized set operations win.
const BitmapThreshold = 2000

// DocIter yields doc ids in ascending order.
type DocIter interface {
	Next() bool
	DocID() uint32
}

// DocSet unifies slice- and bitmap-backed doc-id collections for
// candidate generation and MUST_NOT masking: union/intersection of
// many clauses should not force every clause onto the same
// representation.
type DocSet interface {
	Len() int
	Iter() DocIter
	And(other DocSet) DocSet
	Or(other DocSet) DocSet
	Contains(doc uint32) bool
	ToSlice() []uint32
}

// SliceDocSet is a sorted, deduplicated []uint32.
type SliceDocSet struct {
	docs []uint32
}

// NewSliceDocSet builds a SliceDocSet from arbitrary input, sorting
// and deduplicating as needed.
func NewSliceDocSet(docs []uint32) *SliceDocSet {
	if !sort.SliceIsSorted(docs, func(i, j int) bool { return docs[i] < docs[j] }) {
		sort.Slice(docs, func(i, j int) bool { return docs[i] < docs[j] })
	}
	return &SliceDocSet{docs: dedupeUint32(docs)}
}

func dedupeUint32(sorted []uint32) []uint32 {
	if len(sorted) <= 1 {
		return sorted
	}
	write := 1
	for read := 1; read < len(sorted); read++ {
		if sorted[read] != sorted[read-1] {
			sorted[write] = sorted[read]
			write++
		}
	}
	return sorted[:write]
}

func (s *SliceDocSet) Len() int { return len(s.docs) }

func (s *SliceDocSet) Iter() DocIter {
	it := &sliceDocIter{docs: s.docs, idx: -1}
	return it
}

func (s *SliceDocSet) Contains(doc uint32) bool {
	idx := sort.Search(len(s.docs), func(i int) bool { return s.docs[i] >= doc })
	return idx < len(s.docs) && s.docs[idx] == doc
}

func (s *SliceDocSet) ToSlice() []uint32 {
	out := make([]uint32, len(s.docs))
	copy(out, s.docs)
	return out
}

func (s *SliceDocSet) And(other DocSet) DocSet {
	switch o := other.(type) {
	case *SliceDocSet:
		return intersectSorted(s.docs, o.docs)
	default:
		return s.toBitmap().And(other)
	}
}

func (s *SliceDocSet) Or(other DocSet) DocSet {
	switch o := other.(type) {
	case *SliceDocSet:
		merged := unionSorted(s.docs, o.docs)
		if len(merged) >= BitmapThreshold {
			return NewBitmapDocSet(merged)
		}
		return &SliceDocSet{docs: merged}
	default:
		return s.toBitmap().Or(other)
	}
}

func (s *SliceDocSet) toBitmap() *BitmapDocSet {
	bm := roaring.New()
	bm.AddMany(s.docs)
	return &BitmapDocSet{bm: bm}
}

func intersectSorted(a, b []uint32) *SliceDocSet {
	if len(a) == 0 || len(b) == 0 {
		return &SliceDocSet{}
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	result := make([]uint32, 0, len(a))
	j := 0
	for _, d := range a {
		for j < len(b) && b[j] < d {
			j++
		}
		if j < len(b) && b[j] == d {
			result = append(result, d)
			j++
		}
	}
	return &SliceDocSet{docs: result}
}

func unionSorted(a, b []uint32) []uint32 {
	result := make([]uint32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			result = append(result, a[i])
			i++
		case a[i] > b[j]:
			result = append(result, b[j])
			j++
		default:
			result = append(result, a[i])
			i++
			j++
		}
	}
	result = append(result, a[i:]...)
	result = append(result, b[j:]...)
	return result
}

type sliceDocIter struct {
	docs []uint32
	idx  int
}

func (it *sliceDocIter) Next() bool {
	it.idx++
	return it.idx < len(it.docs)
}

func (it *sliceDocIter) DocID() uint32 { return it.docs[it.idx] }

// BitmapDocSet is a roaring-bitmap-backed DocSet, used once
// cardinality crosses BitmapThreshold.
type BitmapDocSet struct {
	bm *roaring.Bitmap
}

// NewBitmapDocSet builds a BitmapDocSet from a slice of doc ids.
func NewBitmapDocSet(docs []uint32) *BitmapDocSet {
	bm := roaring.New()
	bm.AddMany(docs)
	return &BitmapDocSet{bm: bm}
}

func (b *BitmapDocSet) Len() int { return int(b.bm.GetCardinality()) }

func (b *BitmapDocSet) Iter() DocIter {
	it := b.bm.Iterator()
	return &bitmapDocIter{it: it}
}

func (b *BitmapDocSet) Contains(doc uint32) bool { return b.bm.Contains(doc) }

func (b *BitmapDocSet) ToSlice() []uint32 { return b.bm.ToArray() }

func (b *BitmapDocSet) And(other DocSet) DocSet {
	return &BitmapDocSet{bm: roaring.And(b.bm, asBitmap(other))}
}

func (b *BitmapDocSet) Or(other DocSet) DocSet {
	return &BitmapDocSet{bm: roaring.Or(b.bm, asBitmap(other))}
}

func asBitmap(s DocSet) *roaring.Bitmap {
	if b, ok := s.(*BitmapDocSet); ok {
		return b.bm
	}
	bm := roaring.New()
	it := s.Iter()
	for it.Next() {
		bm.Add(it.DocID())
	}
	return bm
}

type bitmapDocIter struct {
	it      roaring.IntPeekable
	current uint32
}

func (it *bitmapDocIter) Next() bool {
	if !it.it.HasNext() {
		return false
	}
	it.current = it.it.Next()
	return true
}

func (it *bitmapDocIter) DocID() uint32 { return it.current }
