package dfa

import (
	"errors"
	"strings"
	"testing"

	"github.com/songlinshu/sana/nfa"
)

func TestResolveDeclarationOrder(t *testing.T) {
	d := mustBuild(t, "if", "[a-z]+")

	tests := []struct {
		input string
		want  nfa.PatternID
	}{
		{"if", 0},
		{"i", 1},
		{"ifx", 1},
		{"else", 1},
	}
	for _, tt := range tests {
		if _, got := d.Find([]byte(tt.input)); got != tt.want {
			t.Errorf("Find(%q) pattern = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestResolvePriority(t *testing.T) {
	d, err := buildDFA(t, DefaultConfig(), []int{0, 1}, "[a-z]+", "if")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, got := d.Find([]byte("if")); got != 1 {
		t.Errorf("higher priority should win: got pattern %d", got)
	}
	if _, got := d.Find([]byte("iff")); got != 0 {
		t.Errorf("longer match keeps pattern 0: got pattern %d", got)
	}
}

func TestLowerPriorityShadowIsAllowed(t *testing.T) {
	// Pattern 1 never wins, but it loses to a higher priority, which the
	// caller asked for explicitly.
	d, err := buildDFA(t, DefaultConfig(), []int{1, 0}, "[a-z]+", "if")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, got := d.Find([]byte("if")); got != 0 {
		t.Errorf("Find(\"if\") pattern = %d, want 0", got)
	}
}

func TestAmbiguous(t *testing.T) {
	tests := []struct {
		name         string
		patterns     []string
		wantPattern  nfa.PatternID
		wantConflict nfa.PatternID
	}{
		{"duplicate", []string{"a", "a"}, 1, 0},
		{"duplicate later", []string{"x", "[0-9]+", "[0-9][0-9]*"}, 2, 1},
		{"same language", []string{"(ab)+", "ab(ab)*"}, 1, 0},
		{"triplicate", []string{"b", "b", "b"}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildDFA(t, DefaultConfig(), make([]int, len(tt.patterns)), tt.patterns...)
			if !errors.Is(err, ErrAmbiguous) {
				t.Fatalf("New() error = %v, want ErrAmbiguous", err)
			}
			var de *DFAError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *DFAError", err)
			}
			if de.Pattern != tt.wantPattern || de.Conflict != tt.wantConflict {
				t.Errorf("Pattern, Conflict = %d, %d, want %d, %d",
					de.Pattern, de.Conflict, tt.wantPattern, tt.wantConflict)
			}
		})
	}
}

func TestNotAmbiguous(t *testing.T) {
	tests := [][]string{
		{"if", "[a-z]+"},
		// Covered but not identical: declaration order decides.
		{"[a-z]+", "if"},
		{"x", "[0-9]+", "42"},
		{"[ab]+", "a+"},
		{"a", "b"},
		{"a", "ab"},
		// Pattern 1 wins the empty match at the start state.
		{"x", "x?"},
	}
	for _, patterns := range tests {
		if _, err := buildDFA(t, DefaultConfig(), make([]int, len(patterns)), patterns...); err != nil {
			t.Errorf("New(%q) error = %v", patterns, err)
		}
	}
}

func TestShadowedResolvesToFirstDeclared(t *testing.T) {
	d := mustBuild(t, "[a-z]+", "if")
	for _, input := range []string{"if", "i", "iffy"} {
		if _, got := d.Find([]byte(input)); got != 0 {
			t.Errorf("Find(%q) pattern = %d, want 0", input, got)
		}
	}
}

func TestDuplicateWithDifferentPriority(t *testing.T) {
	// Same language, but priority tells them apart.
	d, err := buildDFA(t, DefaultConfig(), []int{0, 1}, "a", "a")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, got := d.Find([]byte("a")); got != 1 {
		t.Errorf("Find(\"a\") pattern = %d, want 1", got)
	}
}

func TestEmptyAutomaton(t *testing.T) {
	b := nfa.NewBuilder()
	b.SetStart(b.AddFail())
	n, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	_, err = New(n, nil, DefaultConfig())
	if !errors.Is(err, ErrEmptyAutomaton) {
		t.Errorf("New() error = %v, want ErrEmptyAutomaton", err)
	}
}

func TestPriorityCountMismatch(t *testing.T) {
	_, err := buildDFA(t, DefaultConfig(), []int{0}, "a", "b")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New() error = %v, want ErrInvalidConfig", err)
	}
	if !strings.Contains(err.Error(), "1 priorities for 2 patterns") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestStateLimitExceeded(t *testing.T) {
	// The n-th byte from the end needs 2^n states to track.
	pattern := "[ab]*a" + strings.Repeat("[ab]", 8)

	_, err := buildDFA(t, DefaultConfig().WithMaxStates(16), []int{0}, pattern)
	if !errors.Is(err, ErrStateLimitExceeded) {
		t.Errorf("New() error = %v, want ErrStateLimitExceeded", err)
	}

	d, err := buildDFA(t, DefaultConfig(), []int{0}, pattern)
	if err != nil {
		t.Fatalf("New() with default limit: %v", err)
	}
	if d.Len() < 512 {
		t.Errorf("Len() = %d, want at least 512", d.Len())
	}
}

func TestBuildInvalidConfig(t *testing.T) {
	_, err := buildDFA(t, DefaultConfig().WithMaxStates(0), []int{0}, "a")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	patterns := []string{"if", "else", "[a-z_][a-z0-9_]*", "[0-9]+", "==|=", `\s+`}
	first := mustBuild(t, patterns...).String()
	for i := 0; i < 3; i++ {
		if got := mustBuild(t, patterns...).String(); got != first {
			t.Fatalf("build %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}
}
