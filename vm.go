package sana

import (
	"iter"
	"unicode/utf8"
)

// Kind tells what a Result holds.
type Kind uint8

const (
	// Action is a recognized token
	Action Kind = iota

	// Eoi means the input is exhausted
	Eoi

	// Unrecognized means no rule matches any non-empty prefix at Start
	Unrecognized
)

// String returns a human-readable kind name
func (k Kind) String() string {
	switch k {
	case Action:
		return "Action"
	case Eoi:
		return "Eoi"
	case Unrecognized:
		return "Unrecognized"
	default:
		return "Kind(?)"
	}
}

// Result is one scan step. Start and End are half-open byte offsets into the
// input. Action is only set for the Action kind.
type Result[A comparable] struct {
	Kind   Kind
	Start  int
	End    int
	Action A
}

// Len returns the length of the matched span in bytes.
func (r Result[A]) Len() int {
	return r.End - r.Start
}

// VM scans one input with a compiled IR.
//
// Each Run returns the longest token starting at the cursor. The automaton
// keeps running past an accepting state as long as some rule could still
// match a longer text; when it dies, the scan falls back to the last accept
// it passed and the cursor resumes there.
//
// A VM is not safe for concurrent use. Any number of VMs may share an IR.
//
// Example:
//
//	vm := sana.NewVM(ir, []byte("private equal = x == y"))
//	for r := range vm.Tokens() {
//	    fmt.Println(r.Action, r.Start, r.End)
//	}
type VM[A comparable] struct {
	ir    *IR[A]
	input []byte
	pos   int
}

// NewVM binds an IR and an input. The cursor starts at 0.
func NewVM[A comparable](ir *IR[A], input []byte) *VM[A] {
	return &VM[A]{ir: ir, input: input}
}

// Run scans the next token from the cursor.
//
// On Action the cursor moves to the token end. On Unrecognized the cursor
// stays put and End is the end of the offending UTF-8 symbol, so the caller
// picks the recovery (Skip, Recover or SetPos). Eoi is returned at the end
// of input, repeatedly.
func (vm *VM[A]) Run() Result[A] {
	p0 := vm.pos
	input := vm.input
	if p0 >= len(input) {
		return Result[A]{Kind: Eoi, Start: len(input), End: len(input)}
	}

	ir := vm.ir
	trans, classes, accepts, stride := ir.trans, &ir.classes, ir.accepts, ir.stride

	// The start state's accept is never a checkpoint: tokens are never empty.
	end, rule := -1, noRule
	state := uint32(0)
	for p := p0; p < len(input); {
		state = trans[int(state)*stride+int(classes[input[p]])]
		if state == DeadState {
			break
		}
		p++
		if r := accepts[state]; r != noRule {
			end, rule = p, r
		}
	}

	if rule == noRule {
		_, width := utf8.DecodeRune(input[p0:])
		return Result[A]{Kind: Unrecognized, Start: p0, End: p0 + width}
	}

	vm.pos = end
	return Result[A]{Kind: Action, Start: p0, End: end, Action: ir.actions[rule]}
}

// Pos returns the cursor.
func (vm *VM[A]) Pos() int {
	return vm.pos
}

// SetPos moves the cursor, clamped to [0, len(input)].
func (vm *VM[A]) SetPos(pos int) {
	vm.pos = min(max(pos, 0), len(vm.input))
}

// Reset binds a new input and rewinds the cursor.
func (vm *VM[A]) Reset(input []byte) {
	vm.input = input
	vm.pos = 0
}

// Skip moves the cursor past one UTF-8 symbol (one byte if invalid).
func (vm *VM[A]) Skip() {
	if vm.pos >= len(vm.input) {
		return
	}
	_, width := utf8.DecodeRune(vm.input[vm.pos:])
	vm.pos += width
}

// Recover moves the cursor past the current symbol and then to the next
// position where a token may start, or to the end of input.
func (vm *VM[A]) Recover() {
	vm.Skip()
	next := vm.ir.finder.Find(vm.input, vm.pos)
	if next < 0 {
		next = len(vm.input)
	}
	vm.pos = next
}

// Tokens returns an iterator over every result from the cursor to Eoi,
// which is yielded last.
//
// Unrecognized input does not stop the iteration: the VM recovers and the
// yielded Unrecognized result spans everything skipped, so the results
// tile the input.
func (vm *VM[A]) Tokens() iter.Seq[Result[A]] {
	return func(yield func(Result[A]) bool) {
		for {
			r := vm.Run()
			if r.Kind == Unrecognized {
				vm.Recover()
				r.End = vm.pos
			}
			if !yield(r) || r.Kind == Eoi {
				return
			}
		}
	}
}
