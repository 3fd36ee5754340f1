// Package nfa provides a Thompson NFA (Non-deterministic Finite Automaton)
// over bytes, built from regexp/syntax expression trees.
//
// Every expression becomes a fragment ending in a Match state tagged with the
// owning pattern. Several fragments can be joined under one start state, which
// is how a lexer rule set is handed to the DFA constructor.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrInvalidState indicates an invalid NFA state ID was encountered
	ErrInvalidState = errors.New("invalid NFA state")

	// ErrUnsupported indicates the expression uses a feature this engine
	// cannot express as a finite automaton (anchors, word boundaries)
	ErrUnsupported = errors.New("unsupported regex feature")

	// ErrTooComplex indicates the pattern is too complex to compile
	ErrTooComplex = errors.New("pattern too complex")

	// ErrNoPatterns indicates that no pattern was given to the compiler
	ErrNoPatterns = errors.New("no patterns to compile")
)

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Pattern string

	// Index is the position of the failing expression in the slice passed
	// to CompilePatterns, or NoPattern when the failure is not tied to one.
	Index PatternID

	Err error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("NFA compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}
