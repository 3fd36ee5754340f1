package dfa

import (
	"encoding/binary"
	"fmt"
	"slices"
	"sort"

	"github.com/songlinshu/sana/internal/sparse"
	"github.com/songlinshu/sana/nfa"
)

// Builder determinizes a multi-pattern NFA.
//
// Each DFA state stands for the epsilon closure of a set of NFA states.
// Only consuming and match states are kept in the set: they alone decide
// future transitions and accepts, so two closures that agree on them are the
// same DFA state.
type Builder struct {
	nfa        *nfa.NFA
	priorities []int
	config     Config

	reps  []byte       // one representative byte per class
	seen  *sparse.Set  // visited NFA states during closure
	stack []nfa.StateID

	states []State
	sets   [][]nfa.StateID
	index  map[string]StateID

	// resolution bookkeeping, indexed by pattern
	won      []bool
	acceptIn [][]StateID // states accepting the pattern, in creation order
}

// NewBuilder creates a DFA builder. priorities[i] is the priority of
// pattern i; higher wins, and equal priorities fall back to the lower
// pattern ID (earlier declaration).
func NewBuilder(n *nfa.NFA, priorities []int, config Config) *Builder {
	return &Builder{
		nfa:        n,
		priorities: priorities,
		config:     config,
	}
}

// New builds a DFA from the NFA with the given priorities and configuration.
func New(n *nfa.NFA, priorities []int, config Config) (*DFA, error) {
	return NewBuilder(n, priorities, config).Build()
}

// Build runs subset construction, resolves accepts and optionally minimizes.
func (b *Builder) Build() (*DFA, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	patterns := b.nfa.PatternCount()
	if patterns == 0 {
		return nil, ErrEmptyAutomaton
	}
	if len(b.priorities) != patterns {
		return nil, &DFAError{
			Kind:     InvalidConfig,
			Message:  fmt.Sprintf("got %d priorities for %d patterns", len(b.priorities), patterns),
			Pattern:  noPattern,
			Conflict: noPattern,
		}
	}

	classes := b.nfa.ByteClasses()
	b.reps = classes.Representatives()
	b.seen = sparse.New(b.nfa.States())
	b.index = make(map[string]StateID)
	b.states = b.states[:0]
	b.sets = b.sets[:0]
	b.won = make([]bool, patterns)
	b.acceptIn = make([][]StateID, patterns)

	if _, err := b.add(b.closure([]nfa.StateID{b.nfa.Start()})); err != nil {
		return nil, err
	}

	// States are appended while the loop runs; processing them in creation
	// order keeps numbering deterministic for a given NFA.
	targets := make([]nfa.StateID, 0, 16)
	for i := 0; i < len(b.states); i++ {
		for class, rep := range b.reps {
			targets = b.step(targets[:0], b.sets[i], rep)
			if len(targets) == 0 {
				b.states[i].next[class] = DeadState
				continue
			}
			id, err := b.add(b.closure(targets))
			if err != nil {
				return nil, err
			}
			b.states[i].next[class] = id
		}
	}

	if err := b.checkAmbiguity(); err != nil {
		return nil, err
	}

	d := &DFA{
		states:       b.states,
		classes:      *classes,
		alphabetLen:  len(b.reps),
		patternCount: patterns,
	}
	b.states, b.sets, b.index = nil, nil, nil

	if b.config.Minimize {
		d = d.Minimize()
	}
	return d, nil
}

// closure computes the epsilon closure of seeds and returns its consuming
// and match states, sorted.
func (b *Builder) closure(seeds []nfa.StateID) []nfa.StateID {
	b.seen.Clear()
	b.stack = b.stack[:0]
	for _, sid := range seeds {
		if b.seen.Insert(uint32(sid)) {
			b.stack = append(b.stack, sid)
		}
	}

	var kept []nfa.StateID
	for len(b.stack) > 0 {
		current := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]

		state := b.nfa.State(current)
		if state == nil {
			continue
		}

		switch state.Kind() {
		case nfa.StateByteRange, nfa.StateSparse, nfa.StateMatch:
			kept = append(kept, current)
		case nfa.StateEpsilon:
			b.push(state.Epsilon())
		case nfa.StateSplit:
			left, right := state.Split()
			b.push(left)
			b.push(right)
		case nfa.StateUnion:
			for _, alt := range state.Union() {
				b.push(alt)
			}
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i] < kept[j] })
	return kept
}

func (b *Builder) push(sid nfa.StateID) {
	if sid != nfa.InvalidState && b.seen.Insert(uint32(sid)) {
		b.stack = append(b.stack, sid)
	}
}

// step collects the targets of every state in set on input byte in.
func (b *Builder) step(dst []nfa.StateID, set []nfa.StateID, in byte) []nfa.StateID {
	for _, sid := range set {
		if next := b.nfa.State(sid).Step(in); next != nfa.InvalidState {
			dst = append(dst, next)
		}
	}
	return dst
}

// add returns the DFA state for set, creating it when new.
func (b *Builder) add(set []nfa.StateID) (StateID, error) {
	key := setKey(set)
	if id, ok := b.index[key]; ok {
		return id, nil
	}
	if len(b.states) >= b.config.MaxStates {
		return DeadState, ErrStateLimitExceeded
	}

	//nolint:gosec // G115: bounded by MaxStates
	id := StateID(len(b.states))
	next := make([]StateID, len(b.reps))
	b.states = append(b.states, State{next: next, accept: b.resolve(id, set)})
	b.sets = append(b.sets, set)
	b.index[key] = id
	return id, nil
}

// resolve picks the winning pattern among the match states of set, the
// set of new state id: highest priority first, then lowest pattern ID.
func (b *Builder) resolve(id StateID, set []nfa.StateID) nfa.PatternID {
	best := noPattern
	for _, sid := range set {
		p := b.nfa.State(sid).Pattern()
		if p == noPattern {
			continue
		}
		b.acceptIn[p] = append(b.acceptIn[p], id)
		if best == noPattern || b.beats(p, best) {
			best = p
		}
	}
	if best != noPattern {
		b.won[best] = true
	}
	return best
}

// beats reports whether pattern a wins over pattern b.
func (b *Builder) beats(a, c nfa.PatternID) bool {
	if b.priorities[a] != b.priorities[c] {
		return b.priorities[a] > b.priorities[c]
	}
	return a < c
}

// checkAmbiguity rejects duplicates: a pattern that accepts in exactly the
// same DFA states as an earlier pattern of equal priority. The two match the
// same language, so the later one can never produce a token. A pattern that
// is only partly covered by an earlier one (a keyword declared after an
// identifier rule) is resolved by declaration order instead.
func (b *Builder) checkAmbiguity() error {
	for p := range b.acceptIn {
		if b.won[p] || len(b.acceptIn[p]) == 0 {
			continue
		}
		for q := 0; q < p; q++ {
			if b.priorities[q] == b.priorities[p] && slices.Equal(b.acceptIn[q], b.acceptIn[p]) {
				return &DFAError{
					Kind:     Ambiguous,
					Message:  "ambiguous patterns",
					Pattern:  nfa.PatternID(p), //nolint:gosec // G115: p < PatternCount
					Conflict: nfa.PatternID(q), //nolint:gosec // G115: q < p
				}
			}
		}
	}
	return nil
}

// setKey encodes a sorted NFA state set as an exact map key.
func setKey(set []nfa.StateID) string {
	buf := make([]byte, 4*len(set))
	for i, sid := range set {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(sid))
	}
	return string(buf)
}
