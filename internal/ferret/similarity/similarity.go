// Package similarity holds the pure numeric scoring primitives used
// by every scorer: term frequency, inverse document frequency, the
// Boolean coordination factor, length normalization, and sloppy
// phrase frequency. None of these functions hold state; callers that
// need corpus-wide statistics (doc_freq, max_doc) pass them in.
package similarity

import "math"

// LengthNorm computes 1/sqrt(numTerms), the per-field length
// normalization factor folded into the stored norm byte.
func LengthNorm(numTerms int) float32 {
	if numTerms <= 0 {
		return 0
	}
	return float32(1.0 / math.Sqrt(float64(numTerms)))
}

// QueryNorm computes the cosine query normalization factor from the
// sum of squared per-clause weights.
func QueryNorm(sumSqWeights float64) float32 {
	if sumSqWeights <= 0 {
		return 1
	}
	return float32(1.0 / math.Sqrt(sumSqWeights))
}

// TF computes sqrt(freq), the raw term-frequency scoring component.
func TF(freq int) float32 {
	if freq <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(freq)))
}

// SloppyFreq computes 1/(distance+1), the contribution of one sloppy
// phrase match at the given total positional edit distance.
func SloppyFreq(distance int) float32 {
	if distance < 0 {
		distance = 0
	}
	return 1.0 / float32(distance+1)
}

// IDF computes log(maxDoc/(docFreq+1)) + 1.
func IDF(docFreq, maxDoc int) float32 {
	if maxDoc <= 0 {
		maxDoc = 1
	}
	return float32(math.Log(float64(maxDoc)/float64(docFreq+1))) + 1
}

// DocFreqSource is the minimal collaborator IDF needs from a searcher:
// corpus-wide document frequency for a term and the total doc count.
type DocFreqSource interface {
	DocFreq(field, text string) int
	MaxDoc() int
}

// IDFTerm computes idf(term) against a searcher's corpus statistics.
func IDFTerm(field, text string, src DocFreqSource) float32 {
	return IDF(src.DocFreq(field, text), src.MaxDoc())
}

// IDFSum sums idf across an arbitrary set of (field, text) pairs —
// used by phrase queries, which weight by the sum of idf across every
// term in every slot.
func IDFSum(terms [][2]string, src DocFreqSource) float32 {
	var sum float32
	for _, t := range terms {
		sum += IDFTerm(t[0], t[1], src)
	}
	return sum
}

// Coord computes the Boolean coordination bonus: the fraction of
// optional/required clauses that actually matched. A disabled coord
// always returns 1, matching spec.md's "coord(overlap, max) = 1 when
// disabled" rule.
func Coord(overlap, maxOverlap int, disabled bool) float32 {
	if disabled || maxOverlap <= 0 {
		return 1
	}
	return float32(overlap) / float32(maxOverlap)
}
