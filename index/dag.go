package index

import (
	"github.com/coregx/spanner/va"
)

// levels is the raw (pre-trim) layered product DAG of §4.C: one dense
// bit-vector of vertex membership per document position 0..n, plus the
// fixed automaton and document it was swept against.
//
// Marker edges (same level) and letter edges (level to level+1) are never
// materialized as adjacency lists; both are cheap to recover on demand from
// the VA's static edge tables plus a level's membership bitset, so storing
// them again here would only duplicate memory the §5 budget already counts
// once.
type levels struct {
	a     *va.VA
	doc   []byte
	words int
	bits  [][]uint64 // len(bits) == len(doc)+1
}

// sweep performs the §4.C construction: seed level 0 from the automaton's
// start set, marker-close it, then repeatedly consume one document byte and
// marker-close the result to produce the next level.
func sweep(a *va.VA, doc []byte, ceiling uint64) (*levels, error) {
	n := len(doc)
	words := wordsFor(a.NumStates())

	if ceiling > 0 {
		need := uint64(n+1) * uint64(words) * 8
		if need > ceiling {
			return nil, ErrOutOfBudget
		}
	}

	bits := make([][]uint64, n+1)
	for i := range bits {
		bits[i] = make([]uint64, words)
	}

	l := &levels{a: a, doc: doc, words: words, bits: bits}

	l.closeMarkers(bits[0], a.Start())
	for ℓ := 0; ℓ < n; ℓ++ {
		b := doc[ℓ]
		var seeds []va.VertexID
		forEachBit(bits[ℓ], func(v uint32) {
			vv := va.VertexID(v)
			if a.Kind(vv) != va.VertexByte {
				return
			}
			for _, e := range a.ByteEdges(vv) {
				if b >= e.Lo && b <= e.Hi {
					seeds = append(seeds, e.Targets...)
				}
			}
		})
		l.closeMarkers(bits[ℓ+1], seeds)
	}
	return l, nil
}

// closeMarkers adds seeds and their marker-reachable closure to row.
func (l *levels) closeMarkers(row []uint64, seeds []va.VertexID) {
	stack := append([]va.VertexID(nil), seeds...)
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if testBit(row, uint32(v)) {
			continue
		}
		setBit(row, uint32(v))
		if l.a.Kind(v) == va.VertexMarker {
			_, _, targets := l.a.MarkerEdge(v)
			stack = append(stack, targets...)
		}
	}
}

func (l *levels) n() int { return len(l.doc) }

func (l *levels) has(ℓ int, v va.VertexID) bool { return testBit(l.bits[ℓ], uint32(v)) }
