// Package rewrite expands pattern queries (Prefix, Wildcard, Range,
// TypedRange) into concrete term queries against a specific
// index.Reader's term dictionary, and recurses into Boolean
// sub-clauses until a fixed point is reached — nothing left to
// expand. A one-slot Phrase or MultiPhrase collapses to a Term or a
// SHOULD Boolean over its terms; ConstantScore and Filtered rewrite
// their inner query. Term, MatchAll, MultiTerm and multi-slot phrases
// rewrite to themselves.
package rewrite

import (
	"strconv"

	trie "github.com/derekparker/trie/v3"

	"github.com/kittclouds/ferret/internal/ferret/config"
	"github.com/kittclouds/ferret/internal/ferret/index"
	"github.com/kittclouds/ferret/internal/ferret/query"
)

// maxRewritePasses bounds the fixed-point loop; a query tree rewrites
// to itself (Term, Phrase, ...) well before this, so hitting the cap
// indicates a bug rather than a legitimately deep query.
const maxRewritePasses = 16

// Rewrite expands q against reader until no further expansion occurs.
// A nil cfg rewrites with config.DefaultConfig's caps.
func Rewrite(q query.Query, reader index.Reader, cfg *config.Config) (query.Query, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	current := q
	for i := 0; i < maxRewritePasses; i++ {
		next, changed, err := rewriteOnce(current, reader, cfg)
		if err != nil {
			return nil, err
		}
		if !changed {
			return next, nil
		}
		current = next
	}
	return current, nil
}

func rewriteOnce(q query.Query, reader index.Reader, cfg *config.Config) (query.Query, bool, error) {
	switch v := q.(type) {
	case query.Term, *query.MatchAll, *query.MultiTerm:
		return q, false, nil
	case *query.MultiPhrase:
		return rewriteSingleSlotPhrase(v.Phrase)
	case *query.Phrase:
		return rewriteSingleSlotPhrase(v)
	case *query.Boolean:
		return rewriteBoolean(v, reader, cfg)
	case *query.Prefix:
		mt, err := rewritePrefix(v, reader, cfg)
		return mt, true, err
	case *query.Wildcard:
		mt, err := rewriteWildcard(v, reader, cfg)
		return mt, true, err
	case *query.Range:
		mt, err := rewriteRange(v.Field, v.Lower, v.Upper, v.IncludeLower, v.IncludeUpper, v.Boost(), query.NumNone, reader, cfg)
		return mt, true, err
	case *query.TypedRange:
		mt, err := rewriteRange(v.Field, v.Lower, v.Upper, v.IncludeLower, v.IncludeUpper, v.Boost(), v.Kind, reader, cfg)
		return mt, true, err
	case *query.ConstantScore:
		inner, changed, err := rewriteOnce(v.Inner, reader, cfg)
		if err != nil || !changed {
			return q, false, err
		}
		return query.NewConstantScore(inner), true, nil
	case *query.Filtered:
		inner, changed, err := rewriteOnce(v.Inner, reader, cfg)
		if err != nil || !changed {
			return q, false, err
		}
		return query.NewFiltered(inner, v.Filt), true, nil
	default:
		return q, false, nil
	}
}

// rewriteSingleSlotPhrase collapses a one-slot phrase into a plain
// term or a SHOULD boolean over its slot's terms — a phrase of length
// one carries no positional constraint left to enforce. Multi-slot
// phrases are left untouched; the phrase scorer handles them.
func rewriteSingleSlotPhrase(p *query.Phrase) (query.Query, bool, error) {
	if len(p.Slots) != 1 {
		return p, false, nil
	}
	terms := p.Slots[0].Terms
	if len(terms) == 1 {
		return query.NewTerm(p.Field, terms[0]).WithBoost(p.Boost()), true, nil
	}
	clauses := make([]query.BooleanClause, len(terms))
	for i, t := range terms {
		clauses[i] = query.BooleanClause{Query: query.NewTerm(p.Field, t), Occur: query.Should}
	}
	return query.NewBoolean(clauses...).WithBoost(p.Boost()), true, nil
}

func rewriteBoolean(b *query.Boolean, reader index.Reader, cfg *config.Config) (query.Query, bool, error) {
	anyChanged := false
	newClauses := make([]query.BooleanClause, len(b.Clauses))
	for i, c := range b.Clauses {
		rewritten, changed, err := rewriteOnce(c.Query, reader, cfg)
		if err != nil {
			return nil, false, err
		}
		if changed {
			anyChanged = true
		}
		newClauses[i] = query.BooleanClause{Query: rewritten, Occur: c.Occur}
	}
	if !anyChanged {
		return b, false, nil
	}
	out := query.NewBoolean(newClauses...)
	out.MinShouldMatch = b.MinShouldMatch
	out.CoordDisabled = b.CoordDisabled
	return out.WithBoost(b.Boost()), true, nil
}

// buildFieldTrie walks reader's term dictionary for field into an
// ordered trie, giving Prefix queries an O(prefix length) lookup
// instead of a linear scan of every term.
func buildFieldTrie(field string, reader index.Reader) (*trie.Node, map[string]int, error) {
	te, err := reader.Terms(field)
	if err != nil {
		return nil, nil, err
	}
	defer te.Close()

	t := trie.New()
	docFreqs := make(map[string]int)
	for te.Next() {
		term := te.Term()
		t.Add(term, te.DocFreq())
		docFreqs[term] = te.DocFreq()
	}
	return t, docFreqs, nil
}

func rewritePrefix(p *query.Prefix, reader index.Reader, cfg *config.Config) (query.Query, error) {
	t, docFreqs, err := buildFieldTrie(p.Field, reader)
	if err != nil {
		return collapseMultiTerm(p.Field, nil, p.Boost(), cfg), err
	}
	matches := t.PrefixSearch(p.Text)
	entries := make([]query.MultiTermEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, query.MultiTermEntry{Text: m, Boost: termEntryBoost(docFreqs[m])})
	}
	return collapseMultiTerm(p.Field, entries, p.Boost(), cfg), nil
}

func rewriteWildcard(w *query.Wildcard, reader index.Reader, cfg *config.Config) (query.Query, error) {
	te, err := reader.Terms(w.Field)
	if err != nil {
		return collapseMultiTerm(w.Field, nil, w.Boost(), cfg), err
	}
	defer te.Close()

	var entries []query.MultiTermEntry
	for te.Next() {
		term := te.Term()
		if query.MatchesWildcard(w.Pattern, term) {
			entries = append(entries, query.MultiTermEntry{Text: term, Boost: termEntryBoost(te.DocFreq())})
		}
	}
	return collapseMultiTerm(w.Field, entries, w.Boost(), cfg), nil
}

func rewriteRange(field, lower, upper string, includeLower, includeUpper bool, boost float32, kind query.NumKind, reader index.Reader, cfg *config.Config) (query.Query, error) {
	te, err := reader.Terms(field)
	if err != nil {
		return collapseMultiTerm(field, nil, boost, cfg), err
	}
	defer te.Close()

	// The term dictionary is ordered lexicographically. That order
	// coincides with comparison order for plain lexicographic ranges,
	// so SkipTo(lower) and an early break past upper are safe pruning.
	// Numeric ranges have no such guarantee ("9" sorts after "10"
	// lexicographically), so a numeric kind falls back to an
	// unpruned full scan.
	var ok bool
	pruned := kind == query.NumNone
	if pruned && lower != "" {
		ok = te.SkipTo(lower)
	} else {
		ok = te.Next()
	}

	var entries []query.MultiTermEntry
	for ok {
		term := te.Term()
		if pruned && upper != "" && termBeyondUpper(term, upper, kind) {
			break
		}
		if inRange(term, lower, upper, includeLower, includeUpper, kind) {
			entries = append(entries, query.MultiTermEntry{Text: term, Boost: termEntryBoost(te.DocFreq())})
		}
		ok = te.Next()
	}
	return collapseMultiTerm(field, entries, boost, cfg), nil
}

// collapseMultiTerm builds the query node a Prefix/Wildcard/Range
// rewrite expands to, applying cfg's caps first and then collapsing
// the degenerate cases: zero surviving terms becomes an empty Boolean
// (never matches, no MinShouldMatch-1-of-0 surprise), exactly one
// becomes a plain Term rather than a single-entry MultiTerm, since
// neither carries the multi-term coordination a MultiTerm exists for.
func collapseMultiTerm(field string, entries []query.MultiTermEntry, boost float32, cfg *config.Config) query.Query {
	mt := query.NewMultiTerm(field, entries, cfg.Rewrite.MaxExpandedTerms, float32(cfg.Rewrite.MinTermScore))
	switch len(mt.Terms) {
	case 0:
		return query.NewBoolean().WithBoost(boost)
	case 1:
		return query.NewTerm(field, mt.Terms[0].Text).WithBoost(boost)
	default:
		return mt.WithBoost(boost)
	}
}

func inRange(term, lower, upper string, includeLower, includeUpper bool, kind query.NumKind) bool {
	if lower != "" {
		cmp := compareValues(term, lower, kind)
		if cmp < 0 || (cmp == 0 && !includeLower) {
			return false
		}
	}
	if upper != "" {
		cmp := compareValues(term, upper, kind)
		if cmp > 0 || (cmp == 0 && !includeUpper) {
			return false
		}
	}
	return true
}

func termBeyondUpper(term, upper string, kind query.NumKind) bool {
	return compareValues(term, upper, kind) > 0
}

// compareValues compares two field values. When kind requests numeric
// parsing and both values parse, it compares numerically; otherwise
// it falls back to lexicographic byte comparison, matching
// TypedRange's documented fallback for heterogeneous fields.
func compareValues(a, b string, kind query.NumKind) int {
	if kind != query.NumNone {
		if av, bv, ok := parseBoth(a, b, kind); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func parseBoth(a, b string, kind query.NumKind) (float64, float64, bool) {
	av, aok := parseNum(a, kind)
	bv, bok := parseNum(b, kind)
	return av, bv, aok && bok
}

func parseNum(s string, kind query.NumKind) (float64, bool) {
	switch kind {
	case query.NumInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	case query.NumFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// termEntryBoost gives rarer terms a higher rewrite-time boost, so a
// Prefix/Wildcard/Range expansion over many terms still favors
// discriminating ones once scored — a cheap proxy for idf computed
// without a full DocFreqSource round trip.
func termEntryBoost(docFreq int) float32 {
	if docFreq <= 0 {
		return 1
	}
	return 1.0 / float32(docFreq)
}
