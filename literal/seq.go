// Package literal extracts literal byte prefixes from lexer rules.
//
// The prefixes describe where a token can begin: if every rule of a rule set
// yields a finite prefix set, any position where a token starts is the start
// of one of those literals. The scanner uses this to resynchronise after
// unrecognized input without running the automaton at every byte.
//
// Key concepts:
//   - A Literal is a concrete byte sequence every match of a rule starts with
//     (one of several alternatives)
//   - A Seq is the set of alternatives for one rule or a whole rule set
package literal

import (
	"bytes"
	"sort"
)

// Literal is a byte sequence extracted from a pattern.
// Complete reports whether the literal is an entire match (true) or only a
// prefix of potential matches (false).
//
// Example:
//   - Pattern /private/ → Literal{[]byte("private"), true}
//   - Pattern /0x[0-9a-f]+/ → Literal{[]byte("0x"), false}
type Literal struct {
	// Bytes contains the literal byte sequence.
	Bytes []byte

	// Complete indicates whether this literal represents the entire match.
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes, complete=true/false}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("in"), true),
//	    literal.NewLiteral([]byte("instanceof"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 ("in" covers "instanceof")
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// Add appends literals to the sequence.
func (s *Seq) Add(lits ...Literal) {
	s.literals = append(s.literals, lits...)
}

// Union appends every literal of other.
func (s *Seq) Union(other *Seq) {
	if other == nil {
		return
	}
	s.literals = append(s.literals, other.literals...)
}

// MakeInexact marks every literal as a prefix only.
func (s *Seq) MakeInexact() {
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}

// Bytes returns the literal byte slices in sequence order.
func (s *Seq) Bytes() [][]byte {
	out := make([][]byte, s.Len())
	for i := range out {
		out[i] = s.literals[i].Bytes
	}
	return out
}

// Minimize removes literals that another kept literal is a prefix of.
//
// For locating token starts a shorter prefix subsumes every literal it
// begins: wherever "instanceof" occurs, "in" occurs at the same position.
// The result is sorted bytewise, which makes it independent of rule order.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.SliceStable(s.literals, func(i, j int) bool {
		return bytes.Compare(s.literals[i].Bytes, s.literals[j].Bytes) < 0
	})

	// In sorted order a literal's prefixes come before it, and the
	// nearest kept literal is the only candidate prefix.
	kept := s.literals[:1]
	for _, lit := range s.literals[1:] {
		last := &kept[len(kept)-1]
		if bytes.HasPrefix(lit.Bytes, last.Bytes) {
			if len(lit.Bytes) == len(last.Bytes) {
				last.Complete = last.Complete || lit.Complete
			}
			continue
		}
		kept = append(kept, lit)
	}
	s.literals = kept
}
