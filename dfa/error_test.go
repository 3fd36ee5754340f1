package dfa

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/songlinshu/sana/nfa"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{InvalidConfig, "InvalidConfig"},
		{StateLimitExceeded, "StateLimitExceeded"},
		{EmptyAutomaton, "EmptyAutomaton"},
		{Ambiguous, "Ambiguous"},
		{ErrorKind(99), "UnknownErrorKind(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDFAErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *DFAError
		want string
	}{
		{"sentinel", ErrStateLimitExceeded, "DFA state limit exceeded"},
		{
			"ambiguous",
			&DFAError{Kind: Ambiguous, Message: "ambiguous patterns", Pattern: 3, Conflict: 1},
			"ambiguous patterns: pattern 3 never wins over pattern 1",
		},
		{
			"ambiguous sentinel",
			ErrAmbiguous,
			"ambiguous patterns",
		},
		{
			"cause",
			&DFAError{Kind: InvalidConfig, Message: "bad", Pattern: nfa.NoPattern, Conflict: nfa.NoPattern, Cause: errors.New("boom")},
			"bad: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDFAErrorIs(t *testing.T) {
	err := &DFAError{Kind: Ambiguous, Message: "x", Pattern: 1, Conflict: 0}
	if !errors.Is(err, ErrAmbiguous) {
		t.Error("errors.Is should match by kind")
	}
	if errors.Is(err, ErrStateLimitExceeded) {
		t.Error("errors.Is should not match a different kind")
	}
	if err.Is(errors.New("x")) {
		t.Error("Is should reject foreign errors")
	}

	wrapped := fmt.Errorf("build: %w", ErrEmptyAutomaton)
	if !errors.Is(wrapped, ErrEmptyAutomaton) {
		t.Error("errors.Is should see through wrapping")
	}
}

func TestDFAErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &DFAError{Kind: InvalidConfig, Message: "m", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if ErrInvalidConfig.Unwrap() != nil {
		t.Error("sentinel should have no cause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() = %q", err.Error())
	}
}
