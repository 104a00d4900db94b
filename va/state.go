package va

import "fmt"

// StateID addresses a raw builder state, before Build compacts the automaton
// down to the vertex set exposed to the product-DAG sweep.
type StateID uint32

// InvalidState is the sentinel for an unset or out-of-range state reference.
const InvalidState StateID = 0xFFFFFFFF

// stateKind tags a raw builder state. Split and Epsilon are pure routing:
// Build resolves them away and they never become a vertex of the automaton
// exposed to the index package.
type stateKind uint8

const (
	stateByteRange stateKind = iota
	stateSparse
	stateSplit
	stateEpsilon
	stateMarker
	stateMatch
	stateFail
)

func (k stateKind) String() string {
	switch k {
	case stateByteRange:
		return "ByteRange"
	case stateSparse:
		return "Sparse"
	case stateSplit:
		return "Split"
	case stateEpsilon:
		return "Epsilon"
	case stateMarker:
		return "Marker"
	case stateMatch:
		return "Match"
	case stateFail:
		return "Fail"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// byteTransition is a byte range with its (unresolved) target.
type byteTransition struct {
	Lo, Hi byte
	Next   StateID
}

// rawState is one state in the Builder's working representation.
type rawState struct {
	kind stateKind

	// ByteRange
	lo, hi byte
	next   StateID

	// Sparse
	transitions []byteTransition

	// Split
	left, right StateID

	// Marker
	varID uint32
	open  bool
}

// VertexID addresses a vertex of the finalized variable-set automaton: a
// state that either consumes a byte, carries a variable marker, or accepts.
// Split/Epsilon routing states never receive a VertexID.
type VertexID uint32

// VertexKind classifies a finalized vertex.
type VertexKind uint8

const (
	// VertexByte consumes one document byte.
	VertexByte VertexKind = iota
	// VertexMarker performs a variable open/close action with no byte consumed.
	VertexMarker
	// VertexMatch accepts; it has no outgoing transitions.
	VertexMatch
)

// ByteEdge is a letter transition: consume a byte in [Lo, Hi] and move to any
// vertex in Targets. Targets has more than one member when the compiled
// pattern fans out through alternation immediately after the byte range.
type ByteEdge struct {
	Lo, Hi  byte
	Targets []VertexID
}

// VA is a variable-set automaton: the compiled, immutable result of §4.A-B.
// Its vertex set Q is exactly the states that matter to the product-DAG sweep
// (byte-consuming, marker, and accepting states); Split/Epsilon plumbing used
// during Thompson construction is resolved away at Build time.
type VA struct {
	kinds []VertexKind

	// byteEdges[v] is populated iff kinds[v] == VertexByte.
	byteEdges [][]ByteEdge

	// markerVar/markerOpen/markerTarget[v] are populated iff kinds[v] == VertexMarker.
	markerVar    []uint32
	markerOpen   []bool
	markerTarget [][]VertexID

	start    []VertexID
	varNames []string // declaration order; index == variable ID. "match" lives at the end when synthetic.

	byteClasses ByteClasses
}

// NumStates returns |Q|.
func (a *VA) NumStates() int { return len(a.kinds) }

// Kind returns the vertex kind of v.
func (a *VA) Kind(v VertexID) VertexKind { return a.kinds[v] }

// ByteEdges returns the letter transitions out of v. Empty for non-byte vertices.
func (a *VA) ByteEdges(v VertexID) []ByteEdge { return a.byteEdges[v] }

// MarkerEdge returns the single variable action at v and the vertices it leads
// to. Only valid when Kind(v) == VertexMarker.
func (a *VA) MarkerEdge(v VertexID) (varID uint32, open bool, targets []VertexID) {
	return a.markerVar[v], a.markerOpen[v], a.markerTarget[v]
}

// IsAccept reports whether v is an accepting vertex (v ∈ F).
func (a *VA) IsAccept(v VertexID) bool { return a.kinds[v] == VertexMatch }

// Start returns the initial vertex set, the image of q0 through the
// epsilon/split closure performed at Build time.
func (a *VA) Start() []VertexID { return a.start }

// NumVars returns the number of declared variables (capture groups, or the
// single synthetic "match" variable when the pattern has no named groups).
func (a *VA) NumVars() int { return len(a.varNames) }

// VarName returns the declared name of variable id, in build-time declaration
// order; this order is the sole source of output-order determinism (§9).
func (a *VA) VarName(id uint32) string { return a.varNames[id] }

// VarNames returns all variable names in declaration order.
func (a *VA) VarNames() []string { return a.varNames }

// ByteClasses returns the byte equivalence classes computed during compilation.
func (a *VA) ByteClasses() *ByteClasses { return &a.byteClasses }
