package index

import (
	"regexp/syntax"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/spanner/literal"
)

// requiredLiterals builds the Aho-Corasick fast-reject prefilter named in
// SPEC_FULL.md §B: if ExtractInner proves a finite, complete set of literals
// one of which must occur anywhere in a match, a document lacking all of
// them cannot produce a single result, and the whole §4.C sweep can be
// skipped. Returns nil when no such set can be proven (unbounded or partial
// literals), in which case Build always runs the full sweep.
func requiredLiterals(re *syntax.Regexp) *ahocorasick.Automaton {
	ex := literal.New(literal.DefaultConfig())
	seq := ex.ExtractInner(re)
	if seq == nil || seq.IsEmpty() || !seq.IsFinite() {
		return nil
	}

	b := ahocorasick.NewBuilder()
	any := false
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		if !lit.Complete || lit.Len() == 0 {
			return nil
		}
		b.AddPattern(lit.Bytes)
		any = true
	}
	if !any {
		return nil
	}
	ac, err := b.Build()
	if err != nil {
		return nil
	}
	return ac
}
