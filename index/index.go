package index

import (
	"regexp/syntax"
	"time"

	"github.com/coregx/spanner/va"
)

// Index is the built product DAG of §4.C-E: a trimmed layered reachability
// structure over one (automaton, document) pair, ready for bounded-delay
// enumeration. It holds no mutable state after Build returns, so a single
// Index can be shared read-only by concurrent enumerations (§5).
type Index struct {
	a   *va.VA
	doc []byte

	keep  [][]uint64
	words int

	jump *JumpTable

	stats Stats
}

// Build runs the full construction pipeline: sweep (§4.C), trim (§4.D), and
// jump/matrix indexing (§4.E). It never consults the source regexp, so the
// literal prefilter is skipped; use BuildWithRegexp to enable it.
func Build(a *va.VA, doc []byte, opts BuildOptions) (*Index, error) {
	return buildIndex(a, nil, doc, opts)
}

// BuildWithRegexp is Build plus the literal prefilter of SPEC_FULL.md §B,
// which can short-circuit construction entirely when the document provably
// cannot contain a match.
func BuildWithRegexp(a *va.VA, re *syntax.Regexp, doc []byte, opts BuildOptions) (*Index, error) {
	return buildIndex(a, re, doc, opts)
}

func buildIndex(a *va.VA, re *syntax.Regexp, doc []byte, opts BuildOptions) (*Index, error) {
	if err := opts.Validate(); err != nil {
		return nil, &BuildError{Phase: "options", Err: err}
	}

	idx := &Index{a: a, doc: doc}

	if opts.EnableLiteralPrefilter && re != nil {
		if ac := requiredLiterals(re); ac != nil {
			if !ac.IsMatch(doc) {
				idx.words = wordsFor(a.NumStates())
				idx.keep = make([][]uint64, len(doc)+1)
				for i := range idx.keep {
					idx.keep[i] = make([]uint64, idx.words)
				}
				idx.jump = &JumpTable{anchors: []int{0}, index: map[int]int{0: 0}}
				idx.stats.NumLevels = len(doc) + 1
				return idx, nil
			}
		}
	}

	t0 := time.Now()
	l, err := sweep(a, doc, opts.MemoryCeiling)
	if err != nil {
		return nil, &BuildError{Phase: "sweep", Err: err}
	}
	createDagS := time.Since(t0).Seconds()

	t1 := time.Now()
	rev := buildReverseIndex(a)
	keep := trim(l, opts.Trimming, rev)
	trimDagS := time.Since(t1).Seconds()

	t2 := time.Now()
	jt := buildJumpTable(l, keep, opts.JumpWidthCap)
	indexDagS := time.Since(t2).Seconds()

	idx.words = l.words
	idx.keep = keep
	idx.jump = jt

	idx.stats = Stats{
		NumLevels:     len(doc) + 1,
		CreateDagS:    createDagS,
		TrimDagS:      trimDagS,
		IndexDagS:     indexDagS,
		NumMatrices:   len(jt.matrices),
		MemoryDag:     uint64(len(keep)) * uint64(l.words) * 8,
		MemoryMatrices: matrixMemory(jt),
	}
	idx.stats.MemoryUsage = idx.stats.MemoryDag + idx.stats.MemoryMatrices
	if opts.MemoryCeiling > 0 && idx.stats.MemoryUsage > opts.MemoryCeiling {
		return nil, &BuildError{Phase: "index", Err: ErrOutOfBudget}
	}

	return idx, nil
}

func matrixMemory(jt *JumpTable) uint64 {
	var total uint64
	for _, m := range jt.matrices {
		for _, row := range m.rows {
			if row != nil {
				total += uint64(len(row)) * 8
			}
		}
	}
	return total
}

// VA returns the automaton the index was built against.
func (idx *Index) VA() *va.VA { return idx.a }

// Document returns the document the index was built against.
func (idx *Index) Document() []byte { return idx.doc }

// NumLevels returns n+1, the number of document positions including the end.
func (idx *Index) NumLevels() int { return len(idx.keep) }

// Present reports whether vertex v is part of the trimmed DAG at level.
func (idx *Index) Present(level int, v va.VertexID) bool {
	return testBit(idx.keep[level], uint32(v))
}

// StartSet returns the marker-closed trimmed vertex set present at level 0,
// i.e. keep[0]. This is diagnostic: it includes vertices reachable only
// through an open marker, so it is not the enumerator's root set — that is
// idx.VA().Start(), filtered through Present.
func (idx *Index) StartSet() []va.VertexID {
	var out []va.VertexID
	forEachBit(idx.keep[0], func(v uint32) { out = append(out, va.VertexID(v)) })
	return out
}

// Jump answers J(level, v): see JumpTable.Next.
func (idx *Index) Jump(level int, v va.VertexID) (nextLevel int, reachable []va.VertexID, ok bool) {
	return idx.jump.Next(level, v)
}

// Anchors returns the anchor levels chosen during indexing.
func (idx *Index) Anchors() []int { return idx.jump.anchors }

// Stats returns the diagnostics collected during Build.
func (idx *Index) Stats() Stats { return idx.stats }
