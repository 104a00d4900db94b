package va

import (
	"github.com/coregx/spanner/internal/conv"
	"github.com/coregx/spanner/internal/sparse"
)

// resolveTargets walks the Split/Epsilon routing reachable from id and
// returns the set of real vertices (ByteRange, Sparse, Marker, Match) it
// leads to, deduplicated and in deterministic left-before-right order. A
// cycle made purely of Split/Epsilon states (never observed from well-formed
// Thompson construction, but possible for a contrived empty-loop pattern) is
// broken by the visited guard rather than looping forever.
func (b *Builder) resolveTargets(id StateID) []StateID {
	cap32 := conv.IntToUint32(len(b.states))
	visited := sparse.NewSparseSet(cap32)
	added := sparse.NewSparseSet(cap32)
	var out []StateID

	var walk func(StateID)
	walk = func(id StateID) {
		if id == InvalidState || visited.Contains(uint32(id)) {
			return
		}
		visited.Insert(uint32(id))
		s := b.states[id]
		switch s.kind {
		case stateByteRange, stateSparse, stateMarker, stateMatch:
			if !added.Contains(uint32(id)) {
				added.Insert(uint32(id))
				out = append(out, id)
			}
		case stateSplit:
			walk(s.left)
			walk(s.right)
		case stateEpsilon:
			walk(s.next)
		case stateFail:
			// dead end, contributes nothing
		}
	}
	walk(id)
	return out
}

// resolve compacts the raw, Split/Epsilon-laden builder graph into the
// finalized vertex set described in state.go, then rejects any automaton
// whose marker-only subgraph has a cycle.
func (b *Builder) resolve(varNames []string) (*VA, error) {
	rawToVertex := make(map[StateID]VertexID)
	var order []StateID // raw id per VertexID, BFS discovery order

	var queue []StateID
	enqueue := func(ids []StateID) {
		for _, id := range ids {
			if _, ok := rawToVertex[id]; ok {
				continue
			}
			rawToVertex[id] = VertexID(conv.IntToUint32(len(order)))
			order = append(order, id)
			queue = append(queue, id)
		}
	}

	startRaw := b.resolveTargets(b.start)
	enqueue(startRaw)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		s := b.states[id]
		switch s.kind {
		case stateByteRange:
			enqueue(b.resolveTargets(s.next))
		case stateSparse:
			for _, t := range s.transitions {
				enqueue(b.resolveTargets(t.Next))
			}
		case stateMarker:
			enqueue(b.resolveTargets(s.next))
		case stateMatch:
			// no outgoing edges
		}
	}

	n := len(order)
	va := &VA{
		kinds:        make([]VertexKind, n),
		byteEdges:    make([][]ByteEdge, n),
		markerVar:    make([]uint32, n),
		markerOpen:   make([]bool, n),
		markerTarget: make([][]VertexID, n),
		varNames:     varNames,
		byteClasses:  b.byteClassSet.ByteClasses(),
	}

	mapTargets := func(raw []StateID) []VertexID {
		out := make([]VertexID, len(raw))
		for i, id := range raw {
			out[i] = rawToVertex[id]
		}
		return out
	}

	for v, id := range order {
		s := b.states[id]
		switch s.kind {
		case stateByteRange:
			va.kinds[v] = VertexByte
			va.byteEdges[v] = []ByteEdge{{Lo: s.lo, Hi: s.hi, Targets: mapTargets(b.resolveTargets(s.next))}}
		case stateSparse:
			va.kinds[v] = VertexByte
			edges := make([]ByteEdge, 0, len(s.transitions))
			for _, t := range s.transitions {
				edges = append(edges, ByteEdge{Lo: t.Lo, Hi: t.Hi, Targets: mapTargets(b.resolveTargets(t.Next))})
			}
			va.byteEdges[v] = edges
		case stateMarker:
			va.kinds[v] = VertexMarker
			va.markerVar[v] = s.varID
			va.markerOpen[v] = s.open
			va.markerTarget[v] = mapTargets(b.resolveTargets(s.next))
		case stateMatch:
			va.kinds[v] = VertexMatch
		}
	}

	va.start = mapTargets(startRaw)

	if err := detectMarkerCycle(va); err != nil {
		return nil, err
	}

	return va, nil
}

// detectMarkerCycle rejects an automaton where a marker vertex can reach
// itself using only marker edges (§4.B contract: no marker-only cycle).
func detectMarkerCycle(a *VA) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]uint8, a.NumStates())

	var visit func(v VertexID) bool
	visit = func(v VertexID) bool {
		color[v] = gray
		if a.kinds[v] == VertexMarker {
			for _, t := range a.markerTarget[v] {
				if a.kinds[t] != VertexMarker {
					continue
				}
				switch color[t] {
				case gray:
					return true
				case white:
					if visit(t) {
						return true
					}
				}
			}
		}
		color[v] = black
		return false
	}

	for v := 0; v < a.NumStates(); v++ {
		if a.kinds[v] == VertexMarker && color[v] == white {
			if visit(VertexID(v)) {
				return ErrMarkerCycle
			}
		}
	}
	return nil
}
