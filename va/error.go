// Package va compiles regular expressions into variable-set automata: Thompson
// NFAs whose transitions are either a byte predicate or an epsilon-labelled
// variable marker (open/close). This is stage A+B of the enumeration engine.
package va

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrUnsupported indicates the pattern uses a construct outside the byte-alphabet
	// automaton model: anchors, word boundaries, or non-ASCII literals and classes.
	// Look-around is rejected by the regexp/syntax parser and reported as ErrSyntax.
	ErrUnsupported = errors.New("regex construct unsupported by the span-enumeration engine")

	// ErrSyntax indicates the pattern failed to parse.
	ErrSyntax = errors.New("regex syntax error")

	// ErrMarkerCycle indicates the compiled automaton has a cycle reachable using
	// only marker transitions, which would make per-level closure non-terminating.
	ErrMarkerCycle = errors.New("regex compiles to a variable-set automaton with a marker cycle")

	// ErrTooComplex indicates the pattern exceeded internal recursion limits.
	ErrTooComplex = errors.New("pattern too complex")
)

// CompileError wraps a regex-frontend failure with the offending pattern.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("va: compile %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("va: compile: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// BuildError reports a malformed automaton detected by Builder.Validate or Build.
type BuildError struct {
	Message string
	StateID StateID
}

func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("va: build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("va: build error: %s", e.Message)
}
