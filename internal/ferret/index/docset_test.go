package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func toSliceSorted(s DocSet) []uint32 {
	out := s.ToSlice()
	return out
}

func TestSliceDocSetAndOr(t *testing.T) {
	a := NewSliceDocSet([]uint32{1, 3, 5, 7})
	b := NewSliceDocSet([]uint32{3, 4, 5, 9})

	assert.Equal(t, []uint32{3, 5}, toSliceSorted(a.And(b)))
	assert.Equal(t, []uint32{1, 3, 4, 5, 7, 9}, toSliceSorted(a.Or(b)))
}

func TestSliceDocSetDedupeAndSort(t *testing.T) {
	s := NewSliceDocSet([]uint32{5, 1, 5, 3, 1})
	assert.Equal(t, []uint32{1, 3, 5}, s.ToSlice())
}

func TestSliceDocSetContains(t *testing.T) {
	s := NewSliceDocSet([]uint32{2, 4, 6})
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5))
}

func TestBitmapDocSetAndOr(t *testing.T) {
	a := NewBitmapDocSet([]uint32{1, 3, 5, 7})
	b := NewBitmapDocSet([]uint32{3, 4, 5, 9})

	assert.Equal(t, []uint32{3, 5}, a.And(b).ToSlice())
	assert.Equal(t, []uint32{1, 3, 4, 5, 7, 9}, a.Or(b).ToSlice())
}

func TestMixedSliceAndBitmapInterop(t *testing.T) {
	slice := NewSliceDocSet([]uint32{1, 2, 3})
	bitmap := NewBitmapDocSet([]uint32{2, 3, 4})

	assert.Equal(t, []uint32{2, 3}, slice.And(bitmap).ToSlice())
	assert.Equal(t, []uint32{1, 2, 3, 4}, slice.Or(bitmap).ToSlice())
}

func TestOrPromotesToBitmapAboveThreshold(t *testing.T) {
	a := make([]uint32, 0, BitmapThreshold)
	for i := uint32(0); i < BitmapThreshold; i++ {
		a = append(a, i*2)
	}
	b := make([]uint32, 0, BitmapThreshold)
	for i := uint32(0); i < BitmapThreshold; i++ {
		b = append(b, i*2+1)
	}
	result := NewSliceDocSet(a).Or(NewSliceDocSet(b))
	_, isBitmap := result.(*BitmapDocSet)
	assert.True(t, isBitmap)
	assert.Equal(t, 2*BitmapThreshold, result.Len())
}

func TestDocIterAscending(t *testing.T) {
	s := NewSliceDocSet([]uint32{9, 2, 5})
	it := s.Iter()
	var seen []uint32
	for it.Next() {
		seen = append(seen, it.DocID())
	}
	assert.Equal(t, []uint32{2, 5, 9}, seen)
}
