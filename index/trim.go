package index

import "github.com/coregx/spanner/va"

// reverseByteEdge is one precomputed predecessor edge for the reverse sweep:
// vertex From consumes a byte in [Lo,Hi] and may land on the vertex this
// entry is keyed by.
type reverseByteEdge struct {
	From   va.VertexID
	Lo, Hi byte
}

// reverseIndex is the static (document-independent) reverse adjacency of a
// VA, built once per automaton and reused across every trim call.
type reverseIndex struct {
	marker [][]va.VertexID     // marker[v] = markers u with v in u's targets
	byte_  [][]reverseByteEdge // byte_[v]  = byte vertices u with v in some edge's targets
}

func buildReverseIndex(a *va.VA) *reverseIndex {
	r := &reverseIndex{
		marker: make([][]va.VertexID, a.NumStates()),
		byte_:  make([][]reverseByteEdge, a.NumStates()),
	}
	for v := 0; v < a.NumStates(); v++ {
		vv := va.VertexID(v)
		switch a.Kind(vv) {
		case va.VertexMarker:
			_, _, targets := a.MarkerEdge(vv)
			for _, t := range targets {
				r.marker[t] = append(r.marker[t], vv)
			}
		case va.VertexByte:
			for _, e := range a.ByteEdges(vv) {
				for _, t := range e.Targets {
					r.byte_[t] = append(r.byte_[t], reverseByteEdge{From: vv, Lo: e.Lo, Hi: e.Hi})
				}
			}
		}
	}
	return r
}

// trim performs the §4.D reverse-BFS co-reachability pass: keep exactly the
// (level, vertex) pairs of the raw DAG that can reach some accepting vertex
// at or after their level. NoTrimming returns the raw membership unchanged,
// serving as the correctness baseline named in §8.
func trim(l *levels, mode Trimming, rev *reverseIndex) [][]uint64 {
	if mode == NoTrimming {
		return l.bits
	}

	n := l.n()
	keep := make([][]uint64, n+1)
	for i := range keep {
		keep[i] = make([]uint64, l.words)
	}

	type item struct {
		lvl int
		v   va.VertexID
	}
	var queue []item

	for ℓ := 0; ℓ <= n; ℓ++ {
		forEachBit(l.bits[ℓ], func(v uint32) {
			vv := va.VertexID(v)
			if l.a.IsAccept(vv) && !testBit(keep[ℓ], v) {
				setBit(keep[ℓ], v)
				queue = append(queue, item{ℓ, vv})
			}
		})
	}

	for len(queue) > 0 {
		it := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		ℓ, v := it.lvl, it.v

		for _, u := range rev.marker[v] {
			if testBit(l.bits[ℓ], uint32(u)) && !testBit(keep[ℓ], uint32(u)) {
				setBit(keep[ℓ], uint32(u))
				queue = append(queue, item{ℓ, u})
			}
		}

		if ℓ > 0 {
			b := l.doc[ℓ-1]
			for _, e := range rev.byte_[v] {
				if b < e.Lo || b > e.Hi {
					continue
				}
				if testBit(l.bits[ℓ-1], uint32(e.From)) && !testBit(keep[ℓ-1], uint32(e.From)) {
					setBit(keep[ℓ-1], uint32(e.From))
					queue = append(queue, item{ℓ - 1, e.From})
				}
			}
		}
	}

	return keep
}
