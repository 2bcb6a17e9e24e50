// Package ferreterr defines the error kinds the query evaluation core
// surfaces to callers. Errors are plain sentinels wrapped with
// fmt.Errorf, usable with errors.Is — the core never swallows an
// error on the scoring hot path.
package ferreterr

import "errors"

// ErrArg indicates a query was constructed in a way that violates one
// of its invariants (e.g. phrase terms spanning two fields).
var ErrArg = errors.New("ferret: invalid argument")

// ErrState indicates a scorer or weight was used outside its allowed
// lifecycle (e.g. score() called before the first next()).
var ErrState = errors.New("ferret: invalid state")

// ErrIO indicates a reader operation failed and the failure was
// propagated from the collaborator rather than produced here.
var ErrIO = errors.New("ferret: reader io error")
