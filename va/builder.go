package va

// Builder constructs a variable-set automaton incrementally, the same
// low-level style as a Thompson-NFA builder: callers add states one at a
// time and patch forward references once targets are known.
type Builder struct {
	states       []rawState
	start        StateID
	byteClassSet *ByteClassSet
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		states:       make([]rawState, 0, 16),
		start:        InvalidState,
		byteClassSet: NewByteClassSet(),
	}
}

// AddByteRange adds a state that consumes one byte in [lo, hi] and moves to next.
func (b *Builder) AddByteRange(lo, hi byte, next StateID) StateID {
	b.byteClassSet.SetRange(lo, hi)
	id := StateID(len(b.states))
	b.states = append(b.states, rawState{kind: stateByteRange, lo: lo, hi: hi, next: next})
	return id
}

// AddSparse adds a state with several byte-range transitions (a character class).
func (b *Builder) AddSparse(transitions []byteTransition) StateID {
	for _, t := range transitions {
		b.byteClassSet.SetRange(t.Lo, t.Hi)
	}
	trans := make([]byteTransition, len(transitions))
	copy(trans, transitions)
	id := StateID(len(b.states))
	b.states = append(b.states, rawState{kind: stateSparse, transitions: trans})
	return id
}

// AddSplit adds an epsilon fan-out to two states (alternation, quantifiers).
func (b *Builder) AddSplit(left, right StateID) StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, rawState{kind: stateSplit, left: left, right: right})
	return id
}

// AddEpsilon adds a single epsilon transition.
func (b *Builder) AddEpsilon(next StateID) StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, rawState{kind: stateEpsilon, next: next})
	return id
}

// AddMarker adds a variable-action state: open (v↑) when open is true, close
// (v↓) otherwise, followed by next.
func (b *Builder) AddMarker(varID uint32, open bool, next StateID) StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, rawState{kind: stateMarker, varID: varID, open: open, next: next})
	return id
}

// AddMatch adds an accepting state.
func (b *Builder) AddMatch() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, rawState{kind: stateMatch})
	return id
}

// AddFail adds a dead state with no transitions.
func (b *Builder) AddFail() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, rawState{kind: stateFail})
	return id
}

// Patch sets the target of a single-successor state (ByteRange, Epsilon, Marker).
func (b *Builder) Patch(stateID, target StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{Message: "state ID out of bounds", StateID: stateID}
	}
	s := &b.states[stateID]
	switch s.kind {
	case stateByteRange, stateEpsilon, stateMarker:
		s.next = target
		return nil
	default:
		return &BuildError{Message: "cannot patch state of kind " + s.kind.String(), StateID: stateID}
	}
}

// PatchSplit sets both targets of a Split state.
func (b *Builder) PatchSplit(stateID StateID, left, right StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{Message: "state ID out of bounds", StateID: stateID}
	}
	s := &b.states[stateID]
	if s.kind != stateSplit {
		return &BuildError{Message: "expected Split state, got " + s.kind.String(), StateID: stateID}
	}
	s.left, s.right = left, right
	return nil
}

// SetStart sets the automaton's start state.
func (b *Builder) SetStart(start StateID) { b.start = start }

// States returns the current number of raw states.
func (b *Builder) States() int { return len(b.states) }

// Validate checks that every reference points at a live state and that a
// start state has been set.
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set", StateID: InvalidState}
	}
	if int(b.start) >= len(b.states) {
		return &BuildError{Message: "start state out of bounds", StateID: b.start}
	}
	for i, s := range b.states {
		id := StateID(i)
		switch s.kind {
		case stateByteRange, stateEpsilon, stateMarker:
			if s.next != InvalidState && int(s.next) >= len(b.states) {
				return &BuildError{Message: "invalid next state reference", StateID: id}
			}
		case stateSplit:
			if s.left != InvalidState && int(s.left) >= len(b.states) {
				return &BuildError{Message: "invalid left state reference", StateID: id}
			}
			if s.right != InvalidState && int(s.right) >= len(b.states) {
				return &BuildError{Message: "invalid right state reference", StateID: id}
			}
		case stateSparse:
			for _, t := range s.transitions {
				if t.Next != InvalidState && int(t.Next) >= len(b.states) {
					return &BuildError{Message: "invalid sparse transition target", StateID: id}
				}
			}
		}
	}
	return nil
}

// BuildOption configures the finalized VA.
type BuildOption func(*buildConfig)

type buildConfig struct {
	varNames []string
}

// WithVarNames declares the variable names in build-time order. Index i is
// variable ID i; this order is the sole source of output determinism (§9).
func WithVarNames(names []string) BuildOption {
	return func(c *buildConfig) {
		c.varNames = append([]string(nil), names...)
	}
}

// Build finalizes the automaton: it validates the raw state graph, resolves
// Split/Epsilon routing away (§4.B), renumbers the remaining states into a
// compact vertex set, and rejects marker cycles (ErrMarkerCycle).
func (b *Builder) Build(opts ...BuildOption) (*VA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	cfg := buildConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return b.resolve(cfg.varNames)
}
