// Package enumerate walks an index's trimmed product DAG with the
// bounded-delay stack-based DFS of §4.F, producing one capture assignment
// per distinct accepting run (§4.G).
package enumerate

import (
	"github.com/coregx/spanner/index"
	"github.com/coregx/spanner/va"
)

// Span is a half-open byte range [Start, End) into the document.
type Span struct {
	Start, End int
}

// Assignment maps a variable name to the span it was captured at. A variable
// absent from the map was never opened along this run (an unmatched
// optional capture), which is ordinary regex semantics, not an error.
type Assignment map[string]Span

// span is the in-progress per-variable position pair used while walking;
// it only ever fills Start then End, in that order, by construction of the
// compiled automaton (every capture's open marker strictly precedes its
// close marker on any path that reaches it).
type span struct {
	start, end int
}

// Enumerator drives one pass of the DFS over an *index.Index. It holds no
// state between calls: the DFS runs on the Go call stack for the duration
// of Enumerate/All. visit recurses once for every marker step and every
// anchor-to-anchor jump along a run, so the depth grows with the number of
// anchors a run crosses; it is not bounded by |variables|+1.
type Enumerator struct {
	idx *index.Index
}

// New returns an Enumerator over idx.
func New(idx *index.Index) *Enumerator {
	return &Enumerator{idx: idx}
}

// Enumerate visits every distinct assignment in the fixed lexicographic
// order determined at VA-build time (§9), calling yield for each. It stops
// early the first time yield returns false.
func (e *Enumerator) Enumerate(yield func(Assignment) bool) {
	stop := false
	// Seed from the automaton's own start set, not a marker-closed level-0
	// membership: closing q0 through its markers would silently apply those
	// markers' actions without ever recording them in an assignment, so the
	// vertices they lead to must never be treated as roots in their own
	// right (§4.F's frontier starts at q0 itself).
	for _, v := range e.idx.VA().Start() {
		if stop {
			return
		}
		if !e.idx.Present(0, v) {
			continue
		}
		e.visit(0, v, nil, yield, &stop)
	}
}

// All collects every assignment into a slice. Use Enumerate directly when
// bounded per-result work matters more than a single aggregate return.
func (e *Enumerator) All() []Assignment {
	var out []Assignment
	e.Enumerate(func(a Assignment) bool {
		out = append(out, a)
		return true
	})
	return out
}

func (e *Enumerator) visit(level int, v va.VertexID, assign map[uint32]span, yield func(Assignment) bool, stop *bool) {
	if *stop {
		return
	}
	a := e.idx.VA()

	switch a.Kind(v) {
	case va.VertexMatch:
		if !yield(materialize(a, assign)) {
			*stop = true
		}

	case va.VertexMarker:
		varID, open, targets := a.MarkerEdge(v)
		for _, t := range targets {
			if *stop {
				return
			}
			if !e.idx.Present(level, t) {
				continue
			}
			next := cloneAssign(assign)
			s := next[varID]
			if open {
				s.start = level
			} else {
				s.end = level
			}
			next[varID] = s
			e.visit(level, t, next, yield, stop)
		}

	default: // va.VertexByte
		nextLevel, reach, ok := e.idx.Jump(level, v)
		if !ok {
			return
		}
		for _, r := range reach {
			if *stop {
				return
			}
			e.visit(nextLevel, r, assign, yield, stop)
		}
	}
}

func cloneAssign(assign map[uint32]span) map[uint32]span {
	next := make(map[uint32]span, len(assign)+1)
	for k, v := range assign {
		next[k] = v
	}
	return next
}

func materialize(a *va.VA, assign map[uint32]span) Assignment {
	out := make(Assignment, len(assign))
	for varID, s := range assign {
		out[a.VarName(varID)] = Span{Start: s.start, End: s.end}
	}
	return out
}
