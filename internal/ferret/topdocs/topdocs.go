// Package topdocs implements the bounded min-heap hit queue used to
// keep the top-k scored documents from a search without sorting the
// full candidate set.
package topdocs

import "container/heap"

// Hit is one scored document: higher Score ranks first; Doc breaks
// ties in ascending order, for a deterministic ordering over
// equal-scoring results.
type Hit struct {
	Doc   uint32
	Score float32
}

// TopDocs is a bounded, score-descending result set plus corpus-wide
// match statistics gathered while collecting it.
type TopDocs struct {
	Hits      []Hit
	TotalHits int
	MaxScore  float32
}

// hitHeap is a min-heap ordered so the weakest hit currently held is
// always at the root — the one popped when a stronger hit arrives and
// the queue is already at capacity.
type hitHeap []Hit

func (h hitHeap) Len() int { return len(h) }

func (h hitHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].Doc > h[j].Doc
}

func (h hitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *hitHeap) Push(x interface{}) { *h = append(*h, x.(Hit)) }

func (h *hitHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// HitQueue collects scored hits and retains only the strongest n.
type HitQueue struct {
	capacity  int
	heap      hitHeap
	total     int
	maxScore  float32
}

// NewHitQueue builds a HitQueue that retains at most capacity hits.
func NewHitQueue(capacity int) *HitQueue {
	return &HitQueue{capacity: capacity}
}

// Add records one scored hit, evicting the current weakest hit if the
// queue is already full and the new hit outranks it.
func (q *HitQueue) Add(doc uint32, score float32) {
	q.total++
	if score > q.maxScore {
		q.maxScore = score
	}
	if q.capacity <= 0 {
		return
	}
	hit := Hit{Doc: doc, Score: score}
	if len(q.heap) < q.capacity {
		heap.Push(&q.heap, hit)
		return
	}
	if len(q.heap) > 0 && less(hit, q.heap[0]) {
		heap.Pop(&q.heap)
		heap.Push(&q.heap, hit)
	}
}

// TopDocs copies the queue's hits into a TopDocs ordered by
// descending score (ascending doc id on ties); the queue is left
// unchanged.
func (q *HitQueue) TopDocs() TopDocs {
	hits := make([]Hit, len(q.heap))
	copy(hits, q.heap)
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && less(hits[j], hits[j-1]); j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	return TopDocs{Hits: hits, TotalHits: q.total, MaxScore: q.maxScore}
}

// less reports whether a should sort before b: higher score first,
// lower doc id breaking ties.
func less(a, b Hit) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Doc < b.Doc
}
