package dfa

import (
	"testing"

	"github.com/songlinshu/sana/nfa"
)

func TestMinimizeMergesEquivalentStates(t *testing.T) {
	// The states after 'a' and after 'c' behave the same.
	raw, err := buildDFA(t, DefaultConfig().WithMinimize(false), []int{0}, "ab|cb")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	minimized := raw.Minimize()

	if minimized.Len() != 3 {
		t.Errorf("minimized Len() = %d, want 3\n%s", minimized.Len(), minimized)
	}
	if minimized.Len() >= raw.Len() {
		t.Errorf("minimized Len() = %d, raw Len() = %d", minimized.Len(), raw.Len())
	}
	if raw.Len() != 4 {
		t.Errorf("raw Len() = %d, want 4 (receiver must not change)", raw.Len())
	}

	for _, input := range []string{"ab", "cb", "a", "bb", "abb", ""} {
		wantEnd, wantPat := raw.Find([]byte(input))
		gotEnd, gotPat := minimized.Find([]byte(input))
		if gotEnd != wantEnd || gotPat != wantPat {
			t.Errorf("Find(%q) = (%d, %d) after minimize, want (%d, %d)",
				input, gotEnd, gotPat, wantEnd, wantPat)
		}
	}
}

func TestMinimizeKeepsDistinctAccepts(t *testing.T) {
	// Both accepting states have no successors; only the accept tells
	// them apart.
	d := mustBuild(t, "a", "b")
	if d.Len() != 3 {
		t.Errorf("Len() = %d, want 3\n%s", d.Len(), d)
	}

	tests := []struct {
		input string
		want  nfa.PatternID
	}{
		{"a", 0},
		{"b", 1},
	}
	for _, tt := range tests {
		if _, got := d.Find([]byte(tt.input)); got != tt.want {
			t.Errorf("Find(%q) pattern = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestMinimizeStartStateFirst(t *testing.T) {
	d := mustBuild(t, "x*y", "z")
	if _, ok := d.Accept(StartState); ok {
		t.Error("start state should not accept")
	}
	if end, p := d.Find([]byte("xxy")); end != 3 || p != 0 {
		t.Errorf("Find(\"xxy\") = (%d, %d), want (3, 0)", end, p)
	}
	if end, p := d.Find([]byte("z")); end != 1 || p != 1 {
		t.Errorf("Find(\"z\") = (%d, %d), want (1, 1)", end, p)
	}
}

func TestMinimizeIdempotent(t *testing.T) {
	d := mustBuild(t, "if", "[a-z]+", "[0-9]+(\\.[0-9]+)?")
	again := d.Minimize()
	if again.Len() != d.Len() {
		t.Errorf("second Minimize() Len() = %d, want %d", again.Len(), d.Len())
	}
	if again.String() != d.String() {
		t.Errorf("second Minimize() renumbered states:\n%s\nvs\n%s", again, d)
	}
}

func TestMinimizePrunesDeadEnds(t *testing.T) {
	// Every reachable state leads to an accept, so pruning keeps them all,
	// and no transition may point past the table.
	d := mustBuild(t, "abc|abd", "[a-c]+x")
	for id := 0; id < d.Len(); id++ {
		for class := 0; class < d.AlphabetLen(); class++ {
			next := d.Next(StateID(id), byte(class))
			if next != DeadState && int(next) >= d.Len() {
				t.Fatalf("state %d class %d -> %d out of range", id, class, next)
			}
		}
	}
}
