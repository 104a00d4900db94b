// Package index builds the layered product DAG of a variable-set automaton
// against a document (§4.C), trims it to the accepting sub-DAG (§4.D), and
// indexes it with a jump function and sparse reachability matrices (§4.E) so
// the enumerate package can walk it with bounded delay.
package index

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrOutOfBudget indicates construction would exceed the caller-supplied
	// memory ceiling.
	ErrOutOfBudget = errors.New("index: memory ceiling exceeded")

	// ErrDocumentIO passes through a read failure from the document collaborator.
	ErrDocumentIO = errors.New("index: document read failed")

	// ErrInternalInvariant indicates a fatal internal invariant violation.
	ErrInternalInvariant = errors.New("index: internal invariant violated")
)

// BuildError wraps a build-time failure with the phase that produced it.
type BuildError struct {
	Phase string
	Err   error
}

func (e *BuildError) Error() string { return fmt.Sprintf("index: %s: %v", e.Phase, e.Err) }
func (e *BuildError) Unwrap() error { return e.Err }
