// Package spanner finds every substring of a document that matches a
// regular expression with named capture groups, enumerating one match per
// distinct assignment of capture variables with constant delay (§1).
//
// Basic usage:
//
//	pat, err := spanner.Compile(`(?P<user>\w+)@(?P<host>\w+)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	idx, err := pat.BuildIndex([]byte("alice@example bob@example"), spanner.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range idx.Enumerator().All() {
//	    fmt.Println(m["user"], m["host"])
//	}
package spanner

import (
	"fmt"
	"regexp/syntax"

	"github.com/coregx/spanner/enumerate"
	"github.com/coregx/spanner/index"
	"github.com/coregx/spanner/va"
)

// Options is an alias for index.BuildOptions, re-exported so callers never
// need to import the index package directly for the common path.
type Options = index.BuildOptions

// DefaultOptions returns index.DefaultBuildOptions().
func DefaultOptions() Options { return index.DefaultBuildOptions() }

// Span is a half-open byte range [Start, End) into a document.
type Span = enumerate.Span

// Assignment maps a variable name to the span it was captured at.
type Assignment = enumerate.Assignment

// Pattern is a compiled variable-set automaton (§4.A-B), ready to be built
// into an Index against any document.
type Pattern struct {
	a       *va.VA
	re      *syntax.Regexp
	pattern string
}

// Compile parses pattern (Perl-compatible syntax, byte alphabet only) and
// compiles it into a Pattern. Anchors and non-ASCII classes fail with an
// error wrapping va.ErrUnsupported; look-around fails to parse and the
// error wraps va.ErrSyntax.
func Compile(pattern string) (*Pattern, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, &va.CompileError{Pattern: pattern, Err: fmt.Errorf("%w: %v", va.ErrSyntax, err)}
	}
	a, err := va.NewCompiler(va.DefaultCompilerConfig()).CompileRegexp(re)
	if err != nil {
		return nil, err
	}
	return &Pattern{a: a, re: re, pattern: pattern}, nil
}

// MustCompile is Compile but panics on error.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic("spanner: Compile(" + pattern + "): " + err.Error())
	}
	return p
}

// VA returns the compiled automaton, for callers building an index directly
// with the index package (e.g. to reuse one VA across many documents).
func (p *Pattern) VA() *va.VA { return p.a }

// BuildIndex runs the §4.C-E construction pipeline against document,
// including the §B literal prefilter when opts.EnableLiteralPrefilter.
func (p *Pattern) BuildIndex(document []byte, opts Options) (*Index, error) {
	idx, err := index.BuildWithRegexp(p.a, p.re, document, opts)
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx}, nil
}

// FindAll is a one-shot convenience: build an index with default options
// and eagerly collect every distinct assignment.
func (p *Pattern) FindAll(document []byte) ([]Assignment, error) {
	idx, err := p.BuildIndex(document, DefaultOptions())
	if err != nil {
		return nil, err
	}
	return idx.Enumerator().All(), nil
}

// Index wraps index.Index with the enumerate package already wired in.
type Index struct {
	idx *index.Index
}

// Enumerator returns a fresh enumerate.Enumerator over the index.
func (i *Index) Enumerator() *enumerate.Enumerator { return enumerate.New(i.idx) }

// Stats returns the diagnostics collected during BuildIndex (§6).
func (i *Index) Stats() index.Stats { return i.idx.Stats() }
