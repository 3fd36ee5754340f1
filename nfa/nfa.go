package nfa

import (
	"fmt"
)

// StateID uniquely identifies an NFA state.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// Special state constants
const (
	// InvalidState represents an invalid/uninitialized state ID
	InvalidState StateID = 0xFFFFFFFF

	// FailState represents a dead/failure state (no transitions)
	FailState StateID = 0xFFFFFFFE
)

// PatternID identifies the rule that owns a match state.
// Pattern IDs are dense and follow declaration order.
type PatternID uint32

// NoPattern marks the absence of an accepting pattern.
const NoPattern PatternID = 0xFFFFFFFF

// StateKind identifies the type of NFA state and determines which transitions are valid.
type StateKind uint8

const (
	// StateMatch represents a match state (accepting state) tagged with a pattern
	StateMatch StateKind = iota

	// StateByteRange represents a single byte or byte range transition [lo, hi]
	StateByteRange

	// StateSparse represents multiple byte transitions (character class)
	// e.g., [a-zA-Z0-9] would use this with a list of byte ranges
	StateSparse

	// StateSplit represents an epsilon transition to 2 states
	StateSplit

	// StateUnion represents epsilon transitions to any number of states.
	// Used for alternation and for joining the fragments of a rule set.
	StateUnion

	// StateEpsilon represents an epsilon transition to 1 state
	StateEpsilon

	// StateFail represents a dead state (no valid transitions)
	StateFail
)

// String returns a human-readable representation of the StateKind
func (k StateKind) String() string {
	switch k {
	case StateMatch:
		return "Match"
	case StateByteRange:
		return "ByteRange"
	case StateSparse:
		return "Sparse"
	case StateSplit:
		return "Split"
	case StateUnion:
		return "Union"
	case StateEpsilon:
		return "Epsilon"
	case StateFail:
		return "Fail"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// State represents a single NFA state with its transitions.
// The state's kind determines which fields are valid.
type State struct {
	id   StateID
	kind StateKind

	// For ByteRange: single byte or range [lo, hi]
	lo, hi byte
	next   StateID // target state for ByteRange/Epsilon

	// For Sparse: multiple byte ranges with corresponding targets
	transitions []Transition

	// For Split: epsilon transitions to two states
	left, right StateID

	// For Union: epsilon transitions in declaration order
	alts []StateID

	// For Match: the owning pattern
	pattern PatternID
}

// Transition represents a byte range and target state for sparse transitions.
// Used in character classes like [a-zA-Z0-9].
type Transition struct {
	Lo   byte    // inclusive lower bound
	Hi   byte    // inclusive upper bound
	Next StateID // target state
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// Kind returns the state's type
func (s *State) Kind() StateKind {
	return s.kind
}

// IsMatch returns true if this is a match state
func (s *State) IsMatch() bool {
	return s.kind == StateMatch
}

// Pattern returns the pattern accepted by a Match state.
// Returns NoPattern for every other kind.
func (s *State) Pattern() PatternID {
	if s.kind == StateMatch {
		return s.pattern
	}
	return NoPattern
}

// ByteRange returns the byte range for ByteRange states.
// Returns (0, 0, InvalidState) for non-ByteRange states.
func (s *State) ByteRange() (lo, hi byte, next StateID) {
	if s.kind == StateByteRange {
		return s.lo, s.hi, s.next
	}
	return 0, 0, InvalidState
}

// Split returns the two target states for Split states.
// Returns (InvalidState, InvalidState) for non-Split states.
func (s *State) Split() (left, right StateID) {
	if s.kind == StateSplit {
		return s.left, s.right
	}
	return InvalidState, InvalidState
}

// Union returns the targets of a Union state, nil otherwise.
func (s *State) Union() []StateID {
	if s.kind == StateUnion {
		return s.alts
	}
	return nil
}

// Epsilon returns the target state for Epsilon states.
// Returns InvalidState for non-Epsilon states.
func (s *State) Epsilon() StateID {
	if s.kind == StateEpsilon {
		return s.next
	}
	return InvalidState
}

// Transitions returns the list of transitions for Sparse states.
// Returns nil for non-Sparse states.
func (s *State) Transitions() []Transition {
	if s.kind == StateSparse {
		return s.transitions
	}
	return nil
}

// IsConsuming reports whether the state reads an input byte.
func (s *State) IsConsuming() bool {
	return s.kind == StateByteRange || s.kind == StateSparse
}

// Step returns the state reached by consuming b, or InvalidState.
// Only meaningful for consuming states. Sparse transitions are disjoint
// by construction, so at most one range can contain b.
func (s *State) Step(b byte) StateID {
	switch s.kind {
	case StateByteRange:
		if b >= s.lo && b <= s.hi {
			return s.next
		}
	case StateSparse:
		for _, t := range s.transitions {
			if b >= t.Lo && b <= t.Hi {
				return t.Next
			}
		}
	}
	return InvalidState
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	switch s.kind {
	case StateMatch:
		return fmt.Sprintf("State(%d, Match pattern=%d)", s.id, s.pattern)
	case StateByteRange:
		if s.lo == s.hi {
			return fmt.Sprintf("State(%d, ByteRange %#02x -> %d)", s.id, s.lo, s.next)
		}
		return fmt.Sprintf("State(%d, ByteRange [%#02x-%#02x] -> %d)", s.id, s.lo, s.hi, s.next)
	case StateSparse:
		return fmt.Sprintf("State(%d, Sparse %d transitions)", s.id, len(s.transitions))
	case StateSplit:
		return fmt.Sprintf("State(%d, Split -> [%d, %d])", s.id, s.left, s.right)
	case StateUnion:
		return fmt.Sprintf("State(%d, Union -> %v)", s.id, s.alts)
	case StateEpsilon:
		return fmt.Sprintf("State(%d, Epsilon -> %d)", s.id, s.next)
	case StateFail:
		return fmt.Sprintf("State(%d, Fail)", s.id)
	default:
		return fmt.Sprintf("State(%d, Unknown)", s.id)
	}
}

// NFA represents a compiled Thompson NFA over bytes.
//
// A single NFA may hold several patterns joined under one start state.
// Each pattern ends in its own Match state, so an accepting state always
// maps back to exactly one pattern.
type NFA struct {
	// states contains all NFA states indexed by StateID
	states []State

	// start is the shared start state
	start StateID

	// patternCount is the number of patterns joined in this NFA
	patternCount int

	// byteClasses maps bytes to equivalence classes for DFA construction.
	// Bytes in the same class always have identical transitions in any state.
	byteClasses ByteClasses
}

// Start returns the starting state ID of the NFA
func (n *NFA) Start() StateID {
	return n.start
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// IsMatch returns true if the given state is a match state
func (n *NFA) IsMatch(id StateID) bool {
	if s := n.State(id); s != nil {
		return s.IsMatch()
	}
	return false
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.states)
}

// PatternCount returns the number of patterns in the NFA
func (n *NFA) PatternCount() int {
	return n.patternCount
}

// ByteClasses returns the byte equivalence classes for this NFA.
// Used by the DFA to reduce transition rows from 256 to the class count.
func (n *NFA) ByteClasses() *ByteClasses {
	return &n.byteClasses
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, start: %d, patterns: %d, classes: %d}",
		len(n.states), n.start, n.patternCount, n.byteClasses.AlphabetLen())
}
