// Package index defines the external collaborators the query
// evaluation core consumes: a point-in-time IndexReader snapshot, its
// posting iterators, and the doc-id set abstraction the Boolean
// scorer uses for MUST_NOT pruning. Nothing
// in this package touches disk; concrete storage is an external
// concern per spec.md §1.
package index

// Term is an immutable (field, text) pair identifying one posting
// list. Two terms are equal iff both components are equal.
type Term struct {
	Field string
	Text  string
}

// Document is the minimal stored-field view the core needs: sort
// comparators and explain() read values out of it by field name.
type Document map[string]string

// PostingIterator exposes the lazy (doc, freq, positions) stream for
// one term. Doc ids are strictly increasing; positions within a
// document are strictly increasing. Score-relevant fields (Freq,
// Positions) are undefined before the first successful Next/SkipTo.
type PostingIterator interface {
	// Next advances to the next matching doc, returning false at
	// exhaustion.
	Next() bool
	// SkipTo advances to the first doc >= target, returning false if
	// no such doc exists. SkipTo may be called with a target <=
	// Doc(), in which case it is a no-op returning true.
	SkipTo(target uint32) bool
	// Doc returns the current doc id. Undefined before the first
	// Next/SkipTo call.
	Doc() uint32
	// Freq returns the term frequency within the current doc.
	Freq() uint32
	// Positions returns the strictly increasing term positions within
	// the current doc.
	Positions() []uint32
	// Close releases any resources the iterator holds.
	Close() error
}

// TermEnum walks a field's term dictionary in ascending lexicographic
// order. SkipTo supports the prefix/range scans Prefix, Wildcard,
// Range and TypedRange rewrite need.
type TermEnum interface {
	// Next advances to the next term, returning false at exhaustion.
	Next() bool
	// SkipTo advances to the first term >= target.
	SkipTo(target string) bool
	// Term returns the current term text. Undefined before the first
	// Next/SkipTo call.
	Term() string
	// DocFreq returns the document frequency of the current term.
	DocFreq() int
	// Close releases any resources the enumerator holds.
	Close() error
}

// Reader is the point-in-time snapshot collaborator the core
// consumes. Readers observe a fixed snapshot: no scorer sees writes
// that happen during its own iteration.
type Reader interface {
	// MaxDoc returns one past the largest doc id ever assigned
	// (includes deleted docs).
	MaxDoc() int
	// NumDocs returns the number of non-deleted docs.
	NumDocs() int
	// DocFreq returns the number of docs containing (field, text).
	DocFreq(field, text string) int
	// TermPositionsFor returns a posting iterator for term, or an
	// iterator that is immediately exhausted if the term is absent.
	// Missing terms are not an error.
	TermPositionsFor(term Term) (PostingIterator, error)
	// Terms returns an ascending term dictionary enumerator for field.
	// Returns an immediately-exhausted enumerator for an unknown
	// field.
	Terms(field string) (TermEnum, error)
	// GetNorms returns the per-doc norm bytes for field, or ok=false
	// if the field carries no norms.
	GetNorms(field string) (norms []byte, ok bool)
	// IsDeleted reports whether doc has been deleted from this
	// snapshot.
	IsDeleted(doc uint32) bool
	// GetDoc returns the stored fields of doc.
	GetDoc(doc uint32) (Document, error)
	// HasDeletions reports whether any doc in this snapshot is
	// deleted.
	HasDeletions() bool
	// IRIsLatest reports whether this snapshot still reflects the
	// most recently committed index state.
	IRIsLatest() bool
	// Close releases resources held by the reader. Scorers built from
	// this reader must be dropped first.
	Close() error
}
