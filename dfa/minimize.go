package dfa

import (
	"encoding/binary"

	"github.com/songlinshu/sana/nfa"
)

// Minimize returns an equivalent DFA with the fewest states.
//
// States that cannot reach any accepting state are folded into DeadState
// first; a scan entering them could never produce a match. The remaining
// states are merged by Moore partition refinement. The initial partition
// groups states by resolved accept, so states that accept different patterns
// are never merged even when all their successors coincide.
//
// The start state keeps ID 0. The receiver is not modified.
func (d *DFA) Minimize() *DFA {
	live := d.liveStates()
	live[StartState] = true

	// block[s] is the current block of state s, -1 for pruned states.
	block := make([]int32, len(d.states))
	count := d.initialPartition(live, block)

	next := make([]int32, len(d.states))
	sig := make([]byte, 0, 4*(d.alphabetLen+1))
	for {
		index := make(map[string]int32, count)
		for s := range d.states {
			if block[s] < 0 {
				next[s] = -1
				continue
			}
			sig = sig[:0]
			sig = binary.LittleEndian.AppendUint32(sig, uint32(block[s]))
			for _, t := range d.states[s].next {
				target := int32(-1)
				if t != DeadState {
					target = block[t]
				}
				sig = binary.LittleEndian.AppendUint32(sig, uint32(target))
			}
			id, ok := index[string(sig)]
			if !ok {
				//nolint:gosec // G115: at most len(d.states) blocks
				id = int32(len(index))
				index[string(sig)] = id
			}
			next[s] = id
		}
		block, next = next, block
		if len(index) == count {
			break
		}
		count = len(index)
	}

	states := make([]State, count)
	built := make([]bool, count)
	for s := range d.states {
		b := block[s]
		if b < 0 || built[b] {
			continue
		}
		built[b] = true
		row := make([]StateID, d.alphabetLen)
		for class, t := range d.states[s].next {
			row[class] = DeadState
			if t != DeadState && block[t] >= 0 {
				row[class] = StateID(block[t])
			}
		}
		states[b] = State{next: row, accept: d.states[s].accept}
	}

	return &DFA{
		states:       states,
		classes:      d.classes,
		alphabetLen:  d.alphabetLen,
		patternCount: d.patternCount,
	}
}

// liveStates marks the states from which some accepting state is reachable.
func (d *DFA) liveStates() []bool {
	reverse := make([][]StateID, len(d.states))
	live := make([]bool, len(d.states))
	var work []StateID
	for s := range d.states {
		for _, t := range d.states[s].next {
			if t != DeadState {
				reverse[t] = append(reverse[t], StateID(s))
			}
		}
		if d.states[s].accept != noPattern {
			live[s] = true
			work = append(work, StateID(s))
		}
	}

	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]
		for _, p := range reverse[s] {
			if !live[p] {
				live[p] = true
				work = append(work, p)
			}
		}
	}
	return live
}

// initialPartition splits the live states by resolved accept. Block IDs are
// assigned in state order, so the start state lands in block 0.
func (d *DFA) initialPartition(live []bool, block []int32) int {
	ids := make(map[nfa.PatternID]int32)
	for s := range d.states {
		if !live[s] {
			block[s] = -1
			continue
		}
		a := d.states[s].accept
		id, ok := ids[a]
		if !ok {
			//nolint:gosec // G115: bounded by pattern count + 1
			id = int32(len(ids))
			ids[a] = id
		}
		block[s] = id
	}
	return len(ids)
}
