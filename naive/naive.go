// Package naive is the quadratic reference implementation named in §9's
// --naive-quadratic mode: a direct, unaccelerated walk of the compiled
// automaton, used only to validate the indexed engine's soundness and
// completeness in tests, never as a production code path.
package naive

import "github.com/coregx/spanner/va"

// Span is a half-open byte range [Start, End) into the document.
type Span struct {
	Start, End int
}

// Assignment maps a variable name to its captured span.
type Assignment map[string]Span

type partial struct {
	start, end int
}

// Enumerate walks every accepting run of a directly, without a jump
// function or reachability matrices, and returns one Assignment per
// distinct run. Cost is unbounded per output (a full automaton walk per
// document position), which is the point: it exists to check the indexed
// engine's output against a model with no shared machinery.
func Enumerate(a *va.VA, doc []byte) []Assignment {
	var out []Assignment
	for _, v := range a.Start() {
		walk(a, doc, 0, v, nil, &out)
	}
	return out
}

func walk(a *va.VA, doc []byte, level int, v va.VertexID, assign map[uint32]partial, out *[]Assignment) {
	switch a.Kind(v) {
	case va.VertexMatch:
		*out = append(*out, materialize(a, assign))

	case va.VertexMarker:
		varID, open, targets := a.MarkerEdge(v)
		for _, t := range targets {
			next := clone(assign)
			p := next[varID]
			if open {
				p.start = level
			} else {
				p.end = level
			}
			next[varID] = p
			walk(a, doc, level, t, next, out)
		}

	default: // va.VertexByte
		if level >= len(doc) {
			return
		}
		b := doc[level]
		for _, e := range a.ByteEdges(v) {
			if b < e.Lo || b > e.Hi {
				continue
			}
			for _, t := range e.Targets {
				walk(a, doc, level+1, t, assign, out)
			}
		}
	}
}

func clone(assign map[uint32]partial) map[uint32]partial {
	next := make(map[uint32]partial, len(assign)+1)
	for k, v := range assign {
		next[k] = v
	}
	return next
}

func materialize(a *va.VA, assign map[uint32]partial) Assignment {
	out := make(Assignment, len(assign))
	for varID, p := range assign {
		out[a.VarName(varID)] = Span{Start: p.start, End: p.end}
	}
	return out
}
