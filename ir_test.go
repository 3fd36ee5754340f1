package sana

import (
	"strings"
	"testing"

	"github.com/songlinshu/sana/dfa"
)

func TestRuleSetNFA(t *testing.T) {
	rs := ruleSet(t, basicTokens)
	n, err := rs.NFA()
	if err != nil {
		t.Fatalf("NFA() error = %v", err)
	}
	if n.PatternCount() != rs.Len() {
		t.Errorf("PatternCount() = %d, want %d", n.PatternCount(), rs.Len())
	}

	prios := rs.Priorities()
	if prios[3] != 1 || prios[0] != 0 {
		t.Errorf("Priorities() = %v", prios)
	}
	rules := rs.Rules()
	rules[0].Action = "changed"
	if rs.Rules()[0].Action != "Whitespace" {
		t.Error("Rules() must return a copy")
	}
}

func TestFlatten(t *testing.T) {
	rs := ruleSet(t, []fixtureRule{
		{`a`, "A", 0},
		{`ab`, "AB", 0},
		{`[0-9]+`, "Num", 0},
	})
	n, err := rs.NFA()
	if err != nil {
		t.Fatal(err)
	}
	d, err := dfa.New(n, rs.Priorities(), dfa.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	ir := Flatten(d, rs.Actions())
	if ir.States() != d.Len() {
		t.Errorf("States() = %d, want %d", ir.States(), d.Len())
	}
	if ir.AlphabetLen() != d.AlphabetLen() {
		t.Errorf("AlphabetLen() = %d, want %d", ir.AlphabetLen(), d.AlphabetLen())
	}
	if _, ok := ir.Accept(0); ok {
		t.Error("start state should not accept")
	}

	s := ir.Next(0, 'a')
	if ir.IsDead(s) {
		t.Fatal("no transition on 'a'")
	}
	if rule, ok := ir.Accept(s); !ok || ir.Action(rule) != "A" {
		t.Errorf("Accept(after a) = %d, %v", rule, ok)
	}
	s = ir.Next(s, 'b')
	if rule, ok := ir.Accept(s); !ok || ir.Action(rule) != "AB" {
		t.Errorf("Accept(after ab) = %d, %v", rule, ok)
	}
	if !ir.IsDead(ir.Next(s, 'b')) {
		t.Error("abb should be dead")
	}
	if !ir.IsDead(ir.Next(0, 'z')) {
		t.Error("z should be dead from start")
	}

	// Digits share one class, so every digit leads to the same state.
	classes := ir.Classes()
	if classes['0'] != classes['9'] {
		t.Error("digits should share a class")
	}
	if ir.Next(0, '1') != ir.Next(0, '7') {
		t.Error("digits should lead to the same state")
	}

	if got := ir.Actions(); len(got) != 3 || got[2] != "Num" {
		t.Errorf("Actions() = %v", got)
	}
	if !strings.HasPrefix(ir.String(), "IR{states: ") {
		t.Errorf("String() = %q", ir.String())
	}
	if ir.Next(99, 'a') != DeadState {
		t.Error("Next on unknown state should be dead")
	}
}

func TestFlattenUnminimized(t *testing.T) {
	rs := ruleSet(t, basicTokens)
	n, err := rs.NFA()
	if err != nil {
		t.Fatal(err)
	}
	d, err := dfa.New(n, rs.Priorities(), dfa.DefaultConfig().WithMinimize(false))
	if err != nil {
		t.Fatal(err)
	}
	ir := Flatten(d, rs.Actions())

	got, err := Tokenize(ir, []byte("private equal = x == y"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 11 || got[0].Action != "Private" || got[8].Action != "OpEquality" {
		t.Errorf("Tokenize() = %+v", got)
	}
}
