package index

import "github.com/coregx/spanner/va"

// JumpTable answers J(ℓ,q) in amortized O(1) by looking up the precomputed
// matrix between ℓ and the next anchor (§4.E). It only ever needs to be
// queried at anchor levels: the enumerator keeps every frontier record's
// level pinned to an anchor by construction (§4.F), so the cache is exactly
// the matrix set itself and needs no separate eviction policy — its size is
// bounded by |A|·|Q|, the bound named in §5.
type JumpTable struct {
	anchors  []int
	index    map[int]int // anchor level -> position in anchors
	matrices []*Matrix   // matrices[i] spans [anchors[i], anchors[i+1])
}

func buildJumpTable(l *levels, keep [][]uint64, widthCap int) *JumpTable {
	anchors := chooseAnchors(l, keep, widthCap)
	idx := make(map[int]int, len(anchors))
	for i, a := range anchors {
		idx[a] = i
	}
	matrices := make([]*Matrix, len(anchors)-1)
	for i := 0; i < len(anchors)-1; i++ {
		matrices[i] = buildMatrix(l, keep, anchors[i], anchors[i+1])
	}
	return &JumpTable{anchors: anchors, index: idx, matrices: matrices}
}

// Anchors returns the chosen anchor levels in increasing order.
func (jt *JumpTable) Anchors() []int { return jt.anchors }

// Next implements J(ℓ,q): given q is present at anchor level ℓ, returns the
// next anchor level and the set of vertices reachable there from q through
// the trimmed DAG. ok is false when q cannot reach anything at the next
// anchor (a dead branch) or ℓ is already the last anchor.
func (jt *JumpTable) Next(ℓ int, q va.VertexID) (nextLevel int, reachable []va.VertexID, ok bool) {
	i, found := jt.index[ℓ]
	if !found || i >= len(jt.matrices) {
		return 0, nil, false
	}
	row := jt.matrices[i].rows[q]
	if row == nil || isZeroRow(row) {
		return 0, nil, false
	}
	forEachBit(row, func(v uint32) { reachable = append(reachable, va.VertexID(v)) })
	return jt.anchors[i+1], reachable, true
}
