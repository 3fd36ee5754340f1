// Package dfa builds a dense deterministic automaton from a multi-pattern NFA.
//
// Construction is eager: subset construction over byte equivalence classes,
// accept resolution by pattern priority and declaration order, then optional
// minimization. Every DFA state carries at most one resolved pattern, decided
// here once so that scanning never has to look at competing rules.
package dfa

import (
	"fmt"

	"github.com/songlinshu/sana/nfa"
)

// ErrStateLimitExceeded indicates that determinization produced more states
// than Config.MaxStates allows.
var ErrStateLimitExceeded = &DFAError{
	Kind:     StateLimitExceeded,
	Message:  "DFA state limit exceeded",
	Pattern:  noPattern,
	Conflict: noPattern,
}

// ErrInvalidConfig indicates that the provided configuration is invalid.
var ErrInvalidConfig = &DFAError{
	Kind:     InvalidConfig,
	Message:  "invalid DFA configuration",
	Pattern:  noPattern,
	Conflict: noPattern,
}

// ErrEmptyAutomaton indicates that the NFA holds no patterns.
var ErrEmptyAutomaton = &DFAError{
	Kind:     EmptyAutomaton,
	Message:  "NFA has no patterns",
	Pattern:  noPattern,
	Conflict: noPattern,
}

// ErrAmbiguous indicates two patterns with equal priority that match the
// same language.
var ErrAmbiguous = &DFAError{
	Kind:     Ambiguous,
	Message:  "ambiguous patterns",
	Pattern:  noPattern,
	Conflict: noPattern,
}

// ErrorKind classifies DFA errors into categories
type ErrorKind uint8

const (
	// InvalidConfig indicates configuration validation failed
	InvalidConfig ErrorKind = iota

	// StateLimitExceeded indicates too many states were created
	StateLimitExceeded

	// EmptyAutomaton indicates there was nothing to determinize
	EmptyAutomaton

	// Ambiguous indicates a duplicate: a pattern accepting in exactly the
	// same states as an earlier pattern of equal priority
	Ambiguous
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case InvalidConfig:
		return "InvalidConfig"
	case StateLimitExceeded:
		return "StateLimitExceeded"
	case EmptyAutomaton:
		return "EmptyAutomaton"
	case Ambiguous:
		return "Ambiguous"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// DFAError represents an error that occurred during DFA construction
type DFAError struct {
	Kind    ErrorKind
	Message string

	// Pattern and Conflict name the patterns involved in an Ambiguous error.
	// Both are nfa.NoPattern for other kinds.
	Pattern  nfa.PatternID
	Conflict nfa.PatternID

	Cause error // Optional underlying error
}

// Error implements the error interface
func (e *DFAError) Error() string {
	msg := e.Message
	if e.Kind == Ambiguous && e.Pattern != nfa.NoPattern {
		msg = fmt.Sprintf("%s: pattern %d never wins over pattern %d", e.Message, e.Pattern, e.Conflict)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *DFAError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *DFAError) Is(target error) bool {
	t, ok := target.(*DFAError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
