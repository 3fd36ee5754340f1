package sana

import (
	"fmt"
	"strings"

	"github.com/songlinshu/sana/dfa"
	"github.com/songlinshu/sana/internal/conv"
	"github.com/songlinshu/sana/internal/resync"
)

// DeadState is the transition target meaning "no token can continue here".
const DeadState uint32 = 0xFFFFFFFF

// noRule marks a non-accepting state in the resolution table.
const noRule int32 = -1

// IR is a compiled rule set in flat table form, ready for scanning.
//
// Layout:
//   - classes maps each input byte to its equivalence class
//   - trans holds one row of stride entries per state; the successor of
//     state s on class c is trans[s*stride+c]
//   - accepts is the resolution table: the winning rule of each state, or -1
//   - actions maps a rule to its action label
//
// State 0 is the start state and IDs are dense. An IR is immutable and safe
// for concurrent use by any number of VMs.
type IR[A comparable] struct {
	classes [256]byte
	stride  int
	trans   []uint32
	accepts []int32
	actions []A

	finder resync.Finder
}

// Flatten lays out a DFA as an IR. States are renumbered in breadth-first
// order from the start state, so the start is 0 and unreachable states are
// dropped. actions[i] is the label of pattern i.
func Flatten[A comparable](d *dfa.DFA, actions []A) *IR[A] {
	stride := d.AlphabetLen()

	// old DFA state -> new IR state
	order := []dfa.StateID{d.Start()}
	index := map[dfa.StateID]uint32{d.Start(): 0}
	for i := 0; i < len(order); i++ {
		for class := 0; class < stride; class++ {
			next := d.Next(order[i], byte(class))
			if next == dfa.DeadState {
				continue
			}
			if _, ok := index[next]; !ok {
				index[next] = conv.IntToUint32(len(order))
				order = append(order, next)
			}
		}
	}

	ir := &IR[A]{
		classes: d.ByteClasses().Table(),
		stride:  stride,
		trans:   make([]uint32, len(order)*stride),
		accepts: make([]int32, len(order)),
		actions: append([]A(nil), actions...),
	}
	for s, old := range order {
		row := ir.trans[s*stride : (s+1)*stride]
		for class := range row {
			next := d.Next(old, byte(class))
			if next == dfa.DeadState {
				row[class] = DeadState
				continue
			}
			row[class] = index[next]
		}

		ir.accepts[s] = noRule
		if p, ok := d.Accept(old); ok {
			ir.accepts[s] = conv.IntToInt32(int(p))
		}
	}

	ir.finder = resync.NewByteSet(ir.leadingBytes())
	return ir
}

// leadingBytes returns the bytes with a live transition out of the start.
func (ir *IR[A]) leadingBytes() []byte {
	var out []byte
	for b := 0; b < 256; b++ {
		if ir.trans[int(ir.classes[b])] != DeadState {
			out = append(out, byte(b))
		}
	}
	return out
}

// States returns the number of states.
func (ir *IR[A]) States() int {
	return len(ir.accepts)
}

// AlphabetLen returns the number of byte classes (the row stride).
func (ir *IR[A]) AlphabetLen() int {
	return ir.stride
}

// Classes returns the byte to class map.
func (ir *IR[A]) Classes() [256]byte {
	return ir.classes
}

// Next returns the successor of state on input byte b, DeadState if none.
func (ir *IR[A]) Next(state uint32, b byte) uint32 {
	if int(state) >= len(ir.accepts) {
		return DeadState
	}
	return ir.trans[int(state)*ir.stride+int(ir.classes[b])]
}

// Accept returns the rule resolved for state, if the state accepts.
func (ir *IR[A]) Accept(state uint32) (rule int, ok bool) {
	if int(state) >= len(ir.accepts) {
		return -1, false
	}
	r := ir.accepts[state]
	return int(r), r != noRule
}

// Action returns the label of rule.
func (ir *IR[A]) Action(rule int) A {
	return ir.actions[rule]
}

// Actions returns a copy of the action table.
func (ir *IR[A]) Actions() []A {
	return append([]A(nil), ir.actions...)
}

// IsDead reports whether state is the dead state.
func (ir *IR[A]) IsDead(state uint32) bool {
	return state == DeadState
}

// String returns a human-readable dump of the tables.
func (ir *IR[A]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "IR{states: %d, classes: %d, rules: %d}\n", ir.States(), ir.stride, len(ir.actions))
	for s := range ir.accepts {
		fmt.Fprintf(&sb, "%4d", s)
		if r := ir.accepts[s]; r != noRule {
			fmt.Fprintf(&sb, " accept=%d(%v)", r, ir.actions[r])
		}
		sb.WriteString(":")
		for class, next := range ir.trans[s*ir.stride : (s+1)*ir.stride] {
			if next != DeadState {
				fmt.Fprintf(&sb, " %d->%d", class, next)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// withLiteralFinder swaps the byte finder for a literal finder when every
// pattern starts with one of a small set of literals.
func (ir *IR[A]) withLiteralFinder(lits [][]byte) bool {
	f, err := resync.NewLiterals(lits)
	if err != nil {
		return false
	}
	ir.finder = f
	return true
}
