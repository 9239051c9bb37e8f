package models

// LookupStatus tells how a name lookup resolved.
type LookupStatus int

const (
	NotFound LookupStatus = iota
	Found
	Ambiguous
)

// Lookup is the result of searching by name: exactly one match, none, or
// several candidates that the caller has to disambiguate.
type Lookup[T any] struct {
	Status     LookupStatus
	Candidates []T
}

// Value returns the single match. ok is false unless Status is Found.
func (l Lookup[T]) Value() (v T, ok bool) {
	if l.Status != Found {
		return v, false
	}
	return l.Candidates[0], true
}

// NewLookup classifies candidates into a Lookup result.
func NewLookup[T any](candidates []T) Lookup[T] {
	switch len(candidates) {
	case 0:
		return Lookup[T]{Status: NotFound}
	case 1:
		return Lookup[T]{Status: Found, Candidates: candidates}
	default:
		return Lookup[T]{Status: Ambiguous, Candidates: candidates}
	}
}
