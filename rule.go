package sana

import (
	"regexp/syntax"

	"github.com/songlinshu/sana/nfa"
)

// Rule is one lexer rule: an expression, its priority and the action label
// reported for tokens it wins.
//
// When several rules match the same longest text, the higher Priority wins;
// equal priorities go to the rule declared first.
type Rule[A comparable] struct {
	Pattern  *syntax.Regexp
	Priority int
	Action   A
}

// RuleSet is an ordered collection of rules. A rule's index is its
// declaration order.
//
// Example:
//
//	rs := sana.NewRuleSet[Token]()
//	_ = rs.AddPattern(`[a-zA-Z_$][a-zA-Z0-9_$]*`, Identifier, 0)
//	_ = rs.AddPattern(`private`, Private, 1)
type RuleSet[A comparable] struct {
	rules []Rule[A]
}

// NewRuleSet creates a rule set holding the given rules in order.
func NewRuleSet[A comparable](rules ...Rule[A]) *RuleSet[A] {
	return &RuleSet[A]{rules: append([]Rule[A](nil), rules...)}
}

// Add appends a rule for an already parsed expression.
func (rs *RuleSet[A]) Add(re *syntax.Regexp, action A, priority int) *RuleSet[A] {
	rs.rules = append(rs.rules, Rule[A]{Pattern: re, Priority: priority, Action: action})
	return rs
}

// AddPattern parses pattern with Perl syntax and appends it as a rule.
func (rs *RuleSet[A]) AddPattern(pattern string, action A, priority int) error {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return &CompileError{
			Kind:     UnsupportedPattern,
			Rule:     len(rs.rules),
			Conflict: -1,
			Message:  "cannot parse pattern",
			Cause:    err,
		}
	}
	rs.Add(re, action, priority)
	return nil
}

// Len returns the number of rules.
func (rs *RuleSet[A]) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Rules returns a copy of the rules in declaration order.
func (rs *RuleSet[A]) Rules() []Rule[A] {
	return append([]Rule[A](nil), rs.rules...)
}

// Priorities returns the priority of each rule, indexed by declaration order.
func (rs *RuleSet[A]) Priorities() []int {
	out := make([]int, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.Priority
	}
	return out
}

// Actions returns the action of each rule, indexed by declaration order.
func (rs *RuleSet[A]) Actions() []A {
	out := make([]A, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.Action
	}
	return out
}

// Patterns returns the expression of each rule, indexed by declaration order.
func (rs *RuleSet[A]) Patterns() []*syntax.Regexp {
	out := make([]*syntax.Regexp, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.Pattern
	}
	return out
}

// NFA compiles every rule into one automaton whose start state branches
// into each rule's fragment. The match state of rule i carries
// nfa.PatternID(i).
func (rs *RuleSet[A]) NFA() (*nfa.NFA, error) {
	return rs.buildNFA(DefaultConfig())
}

func (rs *RuleSet[A]) buildNFA(config Config) (*nfa.NFA, error) {
	if rs.Len() == 0 {
		return nil, ErrEmptyRuleSet
	}
	for i, r := range rs.rules {
		if r.Pattern == nil {
			return nil, &CompileError{
				Kind:     UnsupportedPattern,
				Rule:     i,
				Conflict: -1,
				Message:  "nil pattern",
			}
		}
	}

	n, err := nfa.NewCompiler(config.compilerConfig()).CompilePatterns(rs.Patterns())
	if err != nil {
		return nil, fromNFA(err)
	}
	return n, nil
}
