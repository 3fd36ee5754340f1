package sana

import (
	"errors"
	"fmt"

	"github.com/songlinshu/sana/dfa"
	"github.com/songlinshu/sana/nfa"
)

// ErrorKind classifies compilation errors.
type ErrorKind uint8

const (
	// UnsupportedPattern indicates a rule uses a construct the automaton
	// cannot express (anchors, word boundaries) or is too deeply nested.
	UnsupportedPattern ErrorKind = iota

	// EmptyRuleSet indicates there were no rules to compile
	EmptyRuleSet

	// AmbiguousRule indicates a duplicate: a rule matching the same language
	// as an earlier rule of equal priority, so it can never produce a token
	AmbiguousRule

	// StateLimitExceeded indicates determinization needed more states than
	// Config.MaxStates
	StateLimitExceeded

	// InvalidConfig indicates Config validation failed
	InvalidConfig
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case UnsupportedPattern:
		return "UnsupportedPattern"
	case EmptyRuleSet:
		return "EmptyRuleSet"
	case AmbiguousRule:
		return "AmbiguousRule"
	case StateLimitExceeded:
		return "StateLimitExceeded"
	case InvalidConfig:
		return "InvalidConfig"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// Sentinel errors for errors.Is. Matching is by kind only, so
// errors.Is(err, ErrAmbiguousRule) holds for every ambiguity error
// whatever rules it names.
var (
	ErrUnsupportedPattern = &CompileError{Kind: UnsupportedPattern, Rule: -1, Conflict: -1, Message: "unsupported pattern"}
	ErrEmptyRuleSet       = &CompileError{Kind: EmptyRuleSet, Rule: -1, Conflict: -1, Message: "empty rule set"}
	ErrAmbiguousRule      = &CompileError{Kind: AmbiguousRule, Rule: -1, Conflict: -1, Message: "ambiguous rule"}
	ErrStateLimitExceeded = &CompileError{Kind: StateLimitExceeded, Rule: -1, Conflict: -1, Message: "DFA state limit exceeded"}
	ErrInvalidConfig      = &CompileError{Kind: InvalidConfig, Rule: -1, Conflict: -1, Message: "invalid config"}
)

// CompileError is returned when a rule set cannot be compiled.
type CompileError struct {
	Kind ErrorKind

	// Rule is the declaration index of the offending rule, -1 if the error
	// is not tied to one rule.
	Rule int

	// Conflict is the rule that always wins over Rule for AmbiguousRule
	// errors, -1 otherwise.
	Conflict int

	Message string
	Cause   error // underlying nfa, dfa or regexp/syntax error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := "sana: " + e.Message
	switch {
	case e.Kind == AmbiguousRule && e.Rule >= 0:
		msg = fmt.Sprintf("%s: rule %d is always shadowed by rule %d", msg, e.Rule, e.Conflict)
	case e.Rule >= 0:
		msg = fmt.Sprintf("%s: rule %d", msg, e.Rule)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a CompileError of the same kind.
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "invalid config: " + e.Field + ": " + e.Message
}

// ScanError reports unrecognized input found by Tokenize or TokenizeAll.
type ScanError struct {
	// Input is the index of the input in a TokenizeAll batch, 0 for Tokenize.
	Input int

	// Pos is the byte offset where no rule matched.
	Pos int
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("sana: unrecognized input %d at byte %d", e.Input, e.Pos)
}

// fromNFA converts an NFA compilation failure.
func fromNFA(err error) error {
	rule := -1
	var ce *nfa.CompileError
	if errors.As(err, &ce) && ce.Index != nfa.NoPattern {
		rule = int(ce.Index)
	}

	kind := UnsupportedPattern
	if errors.Is(err, nfa.ErrNoPatterns) {
		kind = EmptyRuleSet
	}
	return &CompileError{
		Kind:     kind,
		Rule:     rule,
		Conflict: -1,
		Message:  "cannot build automaton",
		Cause:    err,
	}
}

// fromDFA converts a determinization failure.
func fromDFA(err error) error {
	var de *dfa.DFAError
	if !errors.As(err, &de) {
		return &CompileError{Kind: UnsupportedPattern, Rule: -1, Conflict: -1, Message: "cannot determinize", Cause: err}
	}

	ce := &CompileError{Rule: -1, Conflict: -1, Cause: err}
	switch de.Kind {
	case dfa.Ambiguous:
		ce.Kind = AmbiguousRule
		ce.Message = "ambiguous rule"
		ce.Rule = int(de.Pattern)
		ce.Conflict = int(de.Conflict)
	case dfa.StateLimitExceeded:
		ce.Kind = StateLimitExceeded
		ce.Message = "DFA state limit exceeded"
	case dfa.EmptyAutomaton:
		ce.Kind = EmptyRuleSet
		ce.Message = "empty rule set"
	default:
		ce.Kind = InvalidConfig
		ce.Message = "invalid DFA configuration"
	}
	return ce
}
