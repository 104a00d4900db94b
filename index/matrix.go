package index

import "github.com/coregx/spanner/va"

// Matrix is the sparse reachability table between one pair of consecutive
// anchors (§4.E). Row v, when non-nil, is the bitset of vertices reachable
// at the matrix's end anchor from v at its start anchor, restricted to the
// trimmed DAG. Rows are only populated for vertices actually present at the
// start anchor; other rows stay nil.
type Matrix struct {
	rows  [][]uint64
	words int
}

func newMatrix(numStates, words int) *Matrix {
	return &Matrix{rows: make([][]uint64, numStates), words: words}
}

// reaches reports whether the matrix's row-OR for src contains dst. Not used
// directly by the enumerator (which iterates bits via forEachBit) but kept
// as the documented row-AND/row-OR entry point named in §9.
func (m *Matrix) reaches(src, dst va.VertexID) bool {
	row := m.rows[src]
	if row == nil {
		return false
	}
	return testBit(row, uint32(dst))
}

// buildMatrix computes the reachability table for the interval [la, lb)
// by running a restricted, single-seed sweep from every vertex present at
// la, intersecting with the trimmed membership at every intervening level.
func buildMatrix(l *levels, keep [][]uint64, la, lb int) *Matrix {
	m := newMatrix(l.a.NumStates(), l.words)
	forEachBit(keep[la], func(v uint32) {
		m.rows[v] = restrictedReach(l, keep, la, lb, va.VertexID(v))
	})
	return m
}

// restrictedReach replays the §4.C sweep seeded from a single vertex,
// intersecting every level's result with the already-trimmed membership so
// the returned set never leaves the accepting sub-DAG.
func restrictedReach(l *levels, keep [][]uint64, la, lb int, seed va.VertexID) []uint64 {
	cur := make([]uint64, l.words)
	l.closeMarkers(cur, []va.VertexID{seed})
	andInto(cur, keep[la])

	for ℓ := la; ℓ < lb; ℓ++ {
		b := l.doc[ℓ]
		var seeds []va.VertexID
		forEachBit(cur, func(v uint32) {
			vv := va.VertexID(v)
			if l.a.Kind(vv) != va.VertexByte {
				return
			}
			for _, e := range l.a.ByteEdges(vv) {
				if b >= e.Lo && b <= e.Hi {
					seeds = append(seeds, e.Targets...)
				}
			}
		})
		next := make([]uint64, l.words)
		if ℓ+1 == lb {
			// The destination anchor is handed to the enumerator as a
			// reachable set (Jump), which must see marker vertices
			// themselves rather than whatever lies past them: the
			// enumerator is what records a marker's open/close event,
			// so a close-marker vertex here cannot be pre-closed into
			// its post-close targets without silently dropping that
			// event. Intermediate levels still fully close, matching
			// the §4.C level-membership semantics in dag.go.
			for _, s := range seeds {
				setBit(next, uint32(s))
			}
		} else {
			l.closeMarkers(next, seeds)
		}
		andInto(next, keep[ℓ+1])
		cur = next
	}
	return cur
}

func levelHasMarker(l *levels, keep [][]uint64, ℓ int) bool {
	found := false
	forEachBit(keep[ℓ], func(v uint32) {
		if l.a.Kind(va.VertexID(v)) == va.VertexMarker {
			found = true
		}
	})
	return found
}

// chooseAnchors runs the greedy anchor search of §4.E: a new anchor opens
// whenever the previous one reaches a level with marker activity, the end of
// the document, or the width cap, whichever comes first.
func chooseAnchors(l *levels, keep [][]uint64, widthCap int) []int {
	n := l.n()
	if widthCap <= 0 {
		widthCap = isqrt(n) + 1
	}

	anchors := []int{0}
	ℓ := 0
	for ℓ < n {
		width := 0
		next := n
		for c := ℓ + 1; c <= n; c++ {
			width++
			if c == n || levelHasMarker(l, keep, c) || width >= widthCap {
				next = c
				break
			}
		}
		anchors = append(anchors, next)
		ℓ = next
	}
	return anchors
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := 0
	for r*r <= n {
		r++
	}
	return r - 1
}
