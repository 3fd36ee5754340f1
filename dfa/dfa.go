package dfa

import (
	"fmt"
	"strings"

	"github.com/songlinshu/sana/nfa"
)

// StateID identifies a DFA state. IDs are dense and the start state is 0.
type StateID uint32

// Special state constants
const (
	// DeadState is the target of every missing transition.
	// Once in this state, the DFA can never accept again.
	DeadState StateID = 0xFFFFFFFF

	// StartState is always state ID 0
	StartState StateID = 0
)

const noPattern = nfa.NoPattern

// State is one DFA state: a successor per byte class and the resolved accept.
type State struct {
	next   []StateID
	accept nfa.PatternID
}

// Next returns the successor on the given class, DeadState if none.
func (s *State) Next(class byte) StateID {
	return s.next[class]
}

// Accept returns the resolved pattern, or nfa.NoPattern.
func (s *State) Accept() nfa.PatternID {
	return s.accept
}

// DFA is a complete deterministic automaton over byte classes.
//
// A DFA is immutable once built and safe for concurrent use.
type DFA struct {
	states       []State
	classes      nfa.ByteClasses
	alphabetLen  int
	patternCount int
}

// Start returns the start state.
func (d *DFA) Start() StateID {
	return StartState
}

// Len returns the number of states.
func (d *DFA) Len() int {
	return len(d.states)
}

// State returns the state with the given ID, or nil.
func (d *DFA) State(id StateID) *State {
	if int(id) >= len(d.states) {
		return nil
	}
	return &d.states[id]
}

// Next returns the successor of id on the given byte class.
func (d *DFA) Next(id StateID, class byte) StateID {
	if int(id) >= len(d.states) || int(class) >= d.alphabetLen {
		return DeadState
	}
	return d.states[id].next[class]
}

// NextByte returns the successor of id on input byte b.
func (d *DFA) NextByte(id StateID, b byte) StateID {
	return d.Next(id, d.classes.Get(b))
}

// Accept returns the pattern resolved for state id, if the state accepts.
func (d *DFA) Accept(id StateID) (nfa.PatternID, bool) {
	if int(id) >= len(d.states) {
		return noPattern, false
	}
	p := d.states[id].accept
	return p, p != noPattern
}

// ByteClasses returns the byte equivalence classes shared with the NFA.
func (d *DFA) ByteClasses() *nfa.ByteClasses {
	return &d.classes
}

// AlphabetLen returns the number of byte classes (the row width).
func (d *DFA) AlphabetLen() int {
	return d.alphabetLen
}

// PatternCount returns the number of patterns the DFA was built from.
func (d *DFA) PatternCount() int {
	return d.patternCount
}

// Find runs an anchored longest match from the start of input.
// Returns the end of the longest match and its pattern, or (-1, NoPattern).
// A start state that accepts yields a zero-length match.
func (d *DFA) Find(input []byte) (int, nfa.PatternID) {
	end, pattern := -1, noPattern
	state := StartState
	if p, ok := d.Accept(state); ok {
		end, pattern = 0, p
	}
	for i, b := range input {
		state = d.NextByte(state, b)
		if state == DeadState {
			break
		}
		if p, ok := d.Accept(state); ok {
			end, pattern = i+1, p
		}
	}
	return end, pattern
}

// String returns a human-readable dump of the transition table
func (d *DFA) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DFA{states: %d, classes: %d, patterns: %d}\n", len(d.states), d.alphabetLen, d.patternCount)
	for i := range d.states {
		s := &d.states[i]
		fmt.Fprintf(&sb, "%4d", i)
		if s.accept != noPattern {
			fmt.Fprintf(&sb, " accept=%d", s.accept)
		}
		sb.WriteString(":")
		for class, next := range s.next {
			if next != DeadState {
				fmt.Fprintf(&sb, " %d->%d", class, next)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
