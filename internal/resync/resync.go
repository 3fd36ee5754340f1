// Package resync finds positions where a token may start.
//
// After unrecognized input the scanner skips ahead to the next candidate
// position instead of retrying the automaton at every byte. A candidate is a
// superset guarantee: every real token start is reported, but a reported
// position may still fail to match.
package resync

import (
	"bytes"

	"github.com/coregx/ahocorasick"
)

// Finder locates candidate token starts.
type Finder interface {
	// Find returns the first candidate position >= at, or -1 if none.
	Find(haystack []byte, at int) int
}

// ByteSet reports every position whose byte can begin a token.
type ByteSet struct {
	set [256]bool
	n   int
}

// NewByteSet creates a finder for the given leading bytes.
func NewByteSet(leading []byte) *ByteSet {
	bs := &ByteSet{}
	for _, b := range leading {
		if !bs.set[b] {
			bs.set[b] = true
			bs.n++
		}
	}
	return bs
}

// Contains reports whether b can begin a token.
func (bs *ByteSet) Contains(b byte) bool {
	return bs.set[b]
}

// Len returns the number of leading bytes.
func (bs *ByteSet) Len() int {
	return bs.n
}

// Find implements Finder.
func (bs *ByteSet) Find(haystack []byte, at int) int {
	if at < 0 {
		at = 0
	}
	for i := at; i < len(haystack); i++ {
		if bs.set[haystack[i]] {
			return i
		}
	}
	return -1
}

// Literals reports the start of every occurrence of a set of prefix
// literals, using an Aho-Corasick automaton.
//
// The automaton reports the occurrence that ends first, which is not always
// the one that starts first: with "abcd" and "bc", "abcd" in "xabcd" is found
// as "bc" at 2. Find rechecks the positions before the reported start that a
// longer literal could still cover.
type Literals struct {
	auto   *ahocorasick.Automaton
	lits   [][]byte
	maxLen int
}

// NewLiterals builds a finder over the given literals.
// Empty literals are ignored; at least one non-empty literal is required.
func NewLiterals(lits [][]byte) (*Literals, error) {
	builder := ahocorasick.NewBuilder()
	l := &Literals{}
	for _, lit := range lits {
		if len(lit) == 0 {
			continue
		}
		builder.AddPattern(lit)
		l.lits = append(l.lits, lit)
		l.maxLen = max(l.maxLen, len(lit))
	}
	if len(l.lits) == 0 {
		return nil, ErrNoLiterals
	}

	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	l.auto = auto
	return l, nil
}

// Len returns the number of literals.
func (l *Literals) Len() int {
	return len(l.lits)
}

// Find implements Finder.
func (l *Literals) Find(haystack []byte, at int) int {
	if at < 0 {
		at = 0
	}
	if at >= len(haystack) {
		return -1
	}
	m := l.auto.Find(haystack, at)
	if m == nil {
		return -1
	}

	// An earlier occurrence cannot end before m, so it starts no more than
	// maxLen bytes before m.End.
	for pos := max(at, m.End-l.maxLen); pos < m.Start; pos++ {
		if l.startsAt(haystack, pos) {
			return pos
		}
	}
	return m.Start
}

// startsAt reports whether some literal occurs at pos.
func (l *Literals) startsAt(haystack []byte, pos int) bool {
	rest := haystack[pos:]
	for _, lit := range l.lits {
		if bytes.HasPrefix(rest, lit) {
			return true
		}
	}
	return false
}
