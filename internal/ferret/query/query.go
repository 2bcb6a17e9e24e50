// Package query defines the immutable query AST the evaluation core
// rewrites, weights, and scores. Every node type is a value type built
// through a constructor; nothing in this package touches an
// index.Reader directly — that is the rewrite and weight packages'
// job.
package query

import (
	"fmt"
	"strings"
)

// Query is the sum type every concrete node implements. It carries no
// behavior of its own beyond identification and pretty-printing —
// rewriting and weighting dispatch on the concrete type via a type
// switch, keeping scoring logic out of the data types entirely.
type Query interface {
	String() string
	Boost() float32
}

// Occur controls how a Boolean clause participates in matching:
// required, optional, or excluded.
type Occur int

const (
	// Should means the clause is optional; it contributes to the score
	// when it matches but does not gate the document.
	Should Occur = iota
	// Must means the clause is required for the document to match.
	Must
	// MustNot means a matching document is excluded regardless of any
	// other clause.
	MustNot
)

func (o Occur) String() string {
	switch o {
	case Must:
		return "+"
	case MustNot:
		return "-"
	default:
		return ""
	}
}

// Term matches documents containing an exact (field, text) pair.
type Term struct {
	Field string
	Text  string
	boost float32
}

// NewTerm builds a Term query with boost 1.0.
func NewTerm(field, text string) Term { return Term{Field: field, Text: text, boost: 1} }

func (t Term) Boost() float32 { return t.boost }

// WithBoost returns a copy of t with the given boost; queries are
// immutable, so boosting never mutates the receiver.
func (t Term) WithBoost(b float32) Term { t.boost = b; return t }

func (t Term) String() string {
	if t.boost != 1 {
		return fmt.Sprintf("%s:%s^%g", t.Field, t.Text, t.boost)
	}
	return fmt.Sprintf("%s:%s", t.Field, t.Text)
}

// BooleanClause pairs a sub-query with its Occur.
type BooleanClause struct {
	Query Query
	Occur Occur
}

// Boolean combines clauses under MUST/SHOULD/MUST_NOT semantics.
// MinShouldMatch constrains how many SHOULD clauses must match and is
// enforced only when no MUST clause is present; there a zero value
// defaults to 1 so an all-SHOULD boolean never matches vacuously.
// When a MUST clause is present, MinShouldMatch is not applied.
type Boolean struct {
	Clauses        []BooleanClause
	MinShouldMatch int
	CoordDisabled  bool
	boost          float32
}

// NewBoolean builds a Boolean query over clauses with boost 1.0 and
// MinShouldMatch left at its zero value (callers needing a minimum
// should-match count set it explicitly; the weight layer applies the
// default-of-1-when-no-MUST rule).
func NewBoolean(clauses ...BooleanClause) *Boolean {
	return &Boolean{Clauses: clauses, boost: 1}
}

func (b *Boolean) Boost() float32 { return b.boost }

func (b *Boolean) WithBoost(v float32) *Boolean {
	c := *b
	c.boost = v
	return &c
}

func (b *Boolean) String() string {
	parts := make([]string, len(b.Clauses))
	for i, c := range b.Clauses {
		parts[i] = c.Occur.String() + c.Query.String()
	}
	s := "(" + strings.Join(parts, " ") + ")"
	if b.boost != 1 {
		s += fmt.Sprintf("^%g", b.boost)
	}
	return s
}

// PhraseSlot is one position in a phrase. Most slots hold a single
// term; a multi-term slot (synonyms occupying the same position)
// matches if any of its terms appears there. Pos is the slot's
// absolute position within the phrase; consecutive slots default to
// one apart, but a larger gap (e.g. a skipped "<>" token) is
// expressed by a Pos more than one past the previous slot's.
type PhraseSlot struct {
	Terms []string
	Pos   int
}

// Phrase matches field text containing every slot's terms at their
// declared positions (relative to each other), allowing up to Slop
// total positional edits. Slop 0 requires every slot's chosen term to
// land exactly at its declared position.
type Phrase struct {
	Field string
	Slots []PhraseSlot
	Slop  int
	boost float32
}

// NewPhrase builds an exact (slop 0) phrase over field from plain
// terms, one per slot, positioned consecutively starting at 0.
func NewPhrase(field string, terms ...string) *Phrase {
	slots := make([]PhraseSlot, len(terms))
	for i, t := range terms {
		slots[i] = PhraseSlot{Terms: []string{t}, Pos: i}
	}
	return &Phrase{Field: field, Slots: slots, boost: 1}
}

func (p *Phrase) Boost() float32 { return p.boost }

// Add appends a single-term slot one position past the previous slot,
// matching the incremental phrase-building idiom used when terms are
// produced slot-by-slot during analysis. Equivalent to
// AddWithIncrement(term, 1).
func (p *Phrase) Add(term string) *Phrase {
	return p.AddWithIncrement(term, 1)
}

// AddWithIncrement appends a single-term slot posInc positions past
// the previous slot (or at position posInc-1 if p has no slots yet).
// posInc values greater than 1 leave a gap — e.g. posInc=2 models a
// phrase like "quick <> fox" where one token is skipped between
// "quick" and "fox".
func (p *Phrase) AddWithIncrement(term string, posInc int) *Phrase {
	c := *p
	pos := posInc - 1
	if n := len(p.Slots); n > 0 {
		pos = p.Slots[n-1].Pos + posInc
	}
	c.Slots = append(append([]PhraseSlot{}, p.Slots...), PhraseSlot{Terms: []string{term}, Pos: pos})
	return &c
}

// WithSlop returns a copy of p with the given slop tolerance.
func (p *Phrase) WithSlop(slop int) *Phrase {
	c := *p
	c.Slop = slop
	return &c
}

func (p *Phrase) String() string {
	var parts []string
	for i, s := range p.Slots {
		if i > 0 {
			for gap := p.Slots[i].Pos - p.Slots[i-1].Pos; gap > 1; gap-- {
				parts = append(parts, "<>")
			}
		}
		if len(s.Terms) == 1 {
			parts = append(parts, s.Terms[0])
		} else {
			parts = append(parts, "("+strings.Join(s.Terms, "|")+")")
		}
	}
	s := fmt.Sprintf("%s:\"%s\"", p.Field, strings.Join(parts, " "))
	if p.Slop != 0 {
		s += fmt.Sprintf("~%d", p.Slop)
	}
	return s
}

// MultiPhrase is Phrase with every slot allowed to hold multiple
// terms from the start — the general form Phrase.Add specializes for
// the single-term case.
type MultiPhrase struct {
	*Phrase
}

// NewMultiPhrase builds a phrase query from explicit slots.
func NewMultiPhrase(field string, slots []PhraseSlot) *MultiPhrase {
	return &MultiPhrase{Phrase: &Phrase{Field: field, Slots: slots, boost: 1}}
}

// Prefix matches every term in field beginning with Text. It is
// rewritten to a MultiTerm, a single Term, or an empty Boolean before
// scoring; it never scores directly.
type Prefix struct {
	Field string
	Text  string
	boost float32
}

// NewPrefix builds a Prefix query with boost 1.0.
func NewPrefix(field, text string) *Prefix { return &Prefix{Field: field, Text: text, boost: 1} }

func (p *Prefix) Boost() float32   { return p.boost }
func (p *Prefix) String() string   { return fmt.Sprintf("%s:%s*", p.Field, p.Text) }

// Wildcard matches terms against a glob pattern using '*' (zero or
// more characters) and '?' (exactly one character). Like Prefix, it
// only exists pre-rewrite.
type Wildcard struct {
	Field   string
	Pattern string
	boost   float32
}

// NewWildcard builds a Wildcard query with boost 1.0.
func NewWildcard(field, pattern string) *Wildcard {
	return &Wildcard{Field: field, Pattern: pattern, boost: 1}
}

func (w *Wildcard) Boost() float32 { return w.boost }
func (w *Wildcard) String() string { return fmt.Sprintf("%s:%s", w.Field, w.Pattern) }

// MatchesWildcard reports whether text matches pattern under glob
// semantics ('*' any run, '?' any single rune). Recursive with
// memoization on (textIdx, patIdx) to stay polynomial on pathological
// patterns like "*a*a*a*a*".
func MatchesWildcard(pattern, text string) bool {
	memo := make(map[[2]int]bool)
	var match func(pi, ti int) bool
	match = func(pi, ti int) bool {
		key := [2]int{pi, ti}
		if v, ok := memo[key]; ok {
			return v
		}
		var result bool
		switch {
		case pi == len(pattern):
			result = ti == len(text)
		case pattern[pi] == '*':
			result = match(pi+1, ti) || (ti < len(text) && match(pi, ti+1))
		case ti == len(text):
			result = false
		case pattern[pi] == '?' || pattern[pi] == text[ti]:
			result = match(pi+1, ti+1)
		default:
			result = false
		}
		memo[key] = result
		return result
	}
	return match(0, 0)
}

// Range matches field values lexicographically between Lower and
// Upper (inclusive per IncludeLower/IncludeUpper). An empty bound on
// either side means unbounded on that side.
type Range struct {
	Field        string
	Lower, Upper string
	IncludeLower bool
	IncludeUpper bool
	boost        float32
}

// NewRange builds a Range query with boost 1.0.
func NewRange(field, lower, upper string, includeLower, includeUpper bool) *Range {
	return &Range{Field: field, Lower: lower, Upper: upper, IncludeLower: includeLower, IncludeUpper: includeUpper, boost: 1}
}

func (r *Range) Boost() float32 { return r.boost }
func (r *Range) String() string {
	lb, ub := "[", "]"
	if !r.IncludeLower {
		lb = "{"
	}
	if !r.IncludeUpper {
		ub = "}"
	}
	return fmt.Sprintf("%s:%s%s TO %s%s", r.Field, lb, r.Lower, r.Upper, ub)
}

// NumKind selects the numeric interpretation a TypedRange parses its
// bounds as before falling back to lexicographic comparison.
type NumKind int

const (
	// NumNone disables numeric parsing; TypedRange behaves like Range.
	NumNone NumKind = iota
	NumInt
	NumFloat
)

// TypedRange is a Range whose bounds are parsed as numbers when
// NumKind is set, falling back to lexicographic comparison for values
// that fail to parse — matching Range's fallback invariant for
// heterogeneous fields.
type TypedRange struct {
	*Range
	Kind NumKind
}

// NewTypedRange builds a numeric range query.
func NewTypedRange(field, lower, upper string, includeLower, includeUpper bool, kind NumKind) *TypedRange {
	return &TypedRange{Range: NewRange(field, lower, upper, includeLower, includeUpper), Kind: kind}
}

// MultiTerm is a flattened disjunction over an explicit term list,
// each carrying its own boost. Rewrite of Prefix/Wildcard/Range
// produces these; MaxTerms caps expansion and MinScore discards terms
// whose boost falls below the threshold before the cap is applied.
type MultiTerm struct {
	Field    string
	Terms    []MultiTermEntry
	MaxTerms int
	MinScore float32
	boost    float32
}

// MultiTermEntry is one expanded term and the boost it rewrote to
// (e.g. preserved idf-like weighting from the originating pattern).
type MultiTermEntry struct {
	Text  string
	Boost float32
}

// NewMultiTerm builds a MultiTerm query, sorting entries by descending
// boost and applying MinScore/MaxTerms immediately so the stored
// Terms slice is always already capped.
func NewMultiTerm(field string, entries []MultiTermEntry, maxTerms int, minScore float32) *MultiTerm {
	filtered := make([]MultiTermEntry, 0, len(entries))
	for _, e := range entries {
		if e.Boost >= minScore {
			filtered = append(filtered, e)
		}
	}
	sortEntriesByBoostDesc(filtered)
	if maxTerms > 0 && len(filtered) > maxTerms {
		filtered = filtered[:maxTerms]
	}
	return &MultiTerm{Field: field, Terms: filtered, MaxTerms: maxTerms, MinScore: minScore, boost: 1}
}

func sortEntriesByBoostDesc(entries []MultiTermEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Boost > entries[j-1].Boost; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func (m *MultiTerm) Boost() float32 { return m.boost }

// WithBoost returns a copy of m with the given overall boost; per-term
// boosts in m.Terms are unaffected.
func (m *MultiTerm) WithBoost(b float32) *MultiTerm {
	c := *m
	c.boost = b
	return &c
}
func (m *MultiTerm) String() string {
	parts := make([]string, len(m.Terms))
	for i, e := range m.Terms {
		parts[i] = fmt.Sprintf("%s^%g", e.Text, e.Boost)
	}
	return fmt.Sprintf("%s:{%s}", m.Field, strings.Join(parts, ","))
}

// MatchAll matches every non-deleted document with a constant score
// of its boost times the query norm.
type MatchAll struct {
	boost float32
}

// NewMatchAll builds a MatchAll query with boost 1.0.
func NewMatchAll() *MatchAll { return &MatchAll{boost: 1} }

func (m *MatchAll) Boost() float32 { return m.boost }
func (m *MatchAll) String() string { return "*:*" }

// ConstantScore wraps Inner so every matching document scores exactly
// Boost times the query norm, regardless of Inner's own scoring formula.
type ConstantScore struct {
	Inner Query
	boost float32
}

// NewConstantScore builds a ConstantScore query with boost 1.0.
func NewConstantScore(inner Query) *ConstantScore {
	return &ConstantScore{Inner: inner, boost: 1}
}

func (c *ConstantScore) Boost() float32 { return c.boost }
func (c *ConstantScore) String() string { return fmt.Sprintf("const(%s)", c.Inner.String()) }

// Filter is the predicate collaborator Filtered restricts matching
// to. It never contributes to the score.
type Filter interface {
	Accept(doc uint32) bool
}

// Filtered restricts Inner's matches to docs Filt accepts, scoring
// exactly as Inner would on those docs.
type Filtered struct {
	Inner Query
	Filt  Filter
}

// NewFiltered builds a Filtered query.
func NewFiltered(inner Query, filt Filter) *Filtered {
	return &Filtered{Inner: inner, Filt: filt}
}

func (f *Filtered) Boost() float32 { return f.Inner.Boost() }
func (f *Filtered) String() string { return fmt.Sprintf("filtered(%s)", f.Inner.String()) }
