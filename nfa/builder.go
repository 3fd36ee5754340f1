package nfa

import (
	"fmt"
)

// Builder constructs NFAs incrementally using a low-level API.
// All states live in one arena and refer to each other by index,
// so cycles created by repetition need no special ownership handling.
type Builder struct {
	states       []State
	start        StateID
	patterns     int
	byteClassSet *ByteClassSet // Tracks byte class boundaries for DFA construction
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states:       make([]State, 0, capacity),
		start:        InvalidState,
		byteClassSet: NewByteClassSet(),
	}
}

// AddMatch adds a match (accepting) state for the given pattern and returns its ID
func (b *Builder) AddMatch(pattern PatternID) StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{
		id:      id,
		kind:    StateMatch,
		pattern: pattern,
	})
	if int(pattern) >= b.patterns {
		b.patterns = int(pattern) + 1
	}
	return id
}

// AddByteRange adds a state that transitions on a single byte or byte range [lo, hi].
// For a single byte, set lo == hi.
func (b *Builder) AddByteRange(lo, hi byte, next StateID) StateID {
	b.byteClassSet.SetRange(lo, hi)

	id := StateID(len(b.states))
	b.states = append(b.states, State{
		id:   id,
		kind: StateByteRange,
		lo:   lo,
		hi:   hi,
		next: next,
	})
	return id
}

// AddSparse adds a state with multiple byte range transitions (character class).
// The ranges must not overlap. The transitions slice is copied.
func (b *Builder) AddSparse(transitions []Transition) StateID {
	for _, tr := range transitions {
		b.byteClassSet.SetRange(tr.Lo, tr.Hi)
	}

	id := StateID(len(b.states))
	trans := make([]Transition, len(transitions))
	copy(trans, transitions)
	b.states = append(b.states, State{
		id:          id,
		kind:        StateSparse,
		transitions: trans,
	})
	return id
}

// AddSplit adds a state with epsilon transitions to two states.
func (b *Builder) AddSplit(left, right StateID) StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{
		id:    id,
		kind:  StateSplit,
		left:  left,
		right: right,
	})
	return id
}

// AddUnion adds a state with epsilon transitions to every target.
// The targets slice is copied.
func (b *Builder) AddUnion(targets []StateID) StateID {
	id := StateID(len(b.states))
	alts := make([]StateID, len(targets))
	copy(alts, targets)
	b.states = append(b.states, State{
		id:   id,
		kind: StateUnion,
		alts: alts,
	})
	return id
}

// AddEpsilon adds a state with a single epsilon transition (no input consumed)
func (b *Builder) AddEpsilon(next StateID) StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{
		id:   id,
		kind: StateEpsilon,
		next: next,
	})
	return id
}

// AddFail adds a dead state with no transitions
func (b *Builder) AddFail() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{
		id:   id,
		kind: StateFail,
	})
	return id
}

// Patch updates a state's target. This is used during compilation to handle
// forward references (e.g., loops, alternations).
// This only works for states with a single 'next' target (ByteRange, Epsilon).
func (b *Builder) Patch(stateID, target StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{
			Message: "state ID out of bounds",
			StateID: stateID,
		}
	}

	s := &b.states[stateID]
	switch s.kind {
	case StateByteRange, StateEpsilon:
		s.next = target
		return nil
	default:
		return &BuildError{
			Message: fmt.Sprintf("cannot patch state of kind %s", s.kind),
			StateID: stateID,
		}
	}
}

// SetStart sets the starting state for the NFA
func (b *Builder) SetStart(start StateID) {
	b.start = start
}

// States returns the current number of states
func (b *Builder) States() int {
	return len(b.states)
}

// Validate checks that the NFA is well-formed:
// - Start state is valid
// - All state references point to valid states
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set", StateID: InvalidState}
	}
	if int(b.start) >= len(b.states) {
		return &BuildError{
			Message: "start state out of bounds",
			StateID: b.start,
		}
	}

	for i, s := range b.states {
		id := StateID(i)
		switch s.kind {
		case StateByteRange, StateEpsilon:
			if err := b.checkTarget(id, "next", s.next); err != nil {
				return err
			}
		case StateSplit:
			if err := b.checkTarget(id, "left", s.left); err != nil {
				return err
			}
			if err := b.checkTarget(id, "right", s.right); err != nil {
				return err
			}
		case StateUnion:
			for _, alt := range s.alts {
				if err := b.checkTarget(id, "union", alt); err != nil {
					return err
				}
			}
		case StateSparse:
			for j, t := range s.transitions {
				if err := b.checkTarget(id, fmt.Sprintf("transition %d", j), t.Next); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// checkTarget rejects dangling and out-of-range edges.
func (b *Builder) checkTarget(from StateID, what string, target StateID) error {
	if target == InvalidState {
		return &BuildError{
			Message: fmt.Sprintf("unpatched %s target", what),
			StateID: from,
		}
	}
	if int(target) >= len(b.states) {
		return &BuildError{
			Message: fmt.Sprintf("invalid %s state %d", what, target),
			StateID: from,
		}
	}
	return nil
}

// Build validates and returns the constructed NFA.
func (b *Builder) Build() (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &NFA{
		states:       b.states,
		start:        b.start,
		patternCount: b.patterns,
		byteClasses:  b.byteClassSet.ByteClasses(),
	}, nil
}
