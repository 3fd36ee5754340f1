// Package sana compiles prioritized regular-expression rules into a
// deterministic lexer.
//
// A rule set is compiled once:
//   - every rule becomes a byte-level NFA fragment, joined under one start
//   - subset construction turns the union into a DFA whose accepting states
//     are resolved to a single winning rule (highest priority, then first
//     declared)
//   - the DFA is minimized and flattened into an IR: a dense transition
//     table, a resolution table and an action table
//
// The VM then scans input with maximal munch: it returns the longest token
// at the cursor, backtracking to the last accepting position when the
// automaton dies.
//
// Basic usage:
//
//	rs := sana.NewRuleSet[string]()
//	_ = rs.AddPattern(`[ \t\n]+`, "ws", 0)
//	_ = rs.AddPattern(`[a-z]+`, "ident", 0)
//	_ = rs.AddPattern(`if`, "if", 1)
//
//	ir, err := sana.Compile(rs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for tok := range sana.NewVM(ir, []byte("if x")).Tokens() {
//	    fmt.Println(tok.Kind, tok.Action, tok.Start, tok.End)
//	}
//
// Limitations:
//   - No anchors or word boundaries (rejected as UnsupportedPattern)
//   - Rules that match the empty string never produce empty tokens
package sana

import (
	"github.com/sirupsen/logrus"

	"github.com/songlinshu/sana/dfa"
	"github.com/songlinshu/sana/literal"
)

// Compile compiles a rule set with the default configuration.
//
// Example:
//
//	ir, err := sana.Compile(rs)
//	if errors.Is(err, sana.ErrAmbiguousRule) {
//	    // two equal-priority rules match the same text
//	}
func Compile[A comparable](rs *RuleSet[A]) (*IR[A], error) {
	return CompileWithConfig(rs, DefaultConfig())
}

// MustCompile is like Compile but panics if the rule set cannot be compiled.
// It simplifies safe initialization of global lexers.
func MustCompile[A comparable](rs *RuleSet[A]) *IR[A] {
	ir, err := Compile(rs)
	if err != nil {
		panic("sana: Compile: " + err.Error())
	}
	return ir
}

// CompileWithConfig compiles a rule set with a custom configuration.
//
// Compilation is deterministic: the same rules and config always yield the
// same IR.
func CompileWithConfig[A comparable](rs *RuleSet[A], config Config) (*IR[A], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	n, err := rs.buildNFA(config)
	if err != nil {
		return nil, err
	}

	d, err := dfa.New(n, rs.Priorities(), config.dfaConfig())
	if err != nil {
		return nil, fromDFA(err)
	}
	built := d.Len()
	if config.Minimize {
		d = d.Minimize()
	}

	ir := Flatten(d, rs.Actions())
	finder := "bytes"
	if prefixes, ok := literal.New(literal.DefaultConfig()).PrefixesAll(rs.Patterns()); ok && ir.withLiteralFinder(prefixes.Bytes()) {
		finder = "literals"
	}

	config.logger().WithFields(logrus.Fields{
		"rules":     rs.Len(),
		"nfaStates": n.States(),
		"dfaStates": built,
		"irStates":  ir.States(),
		"classes":   ir.AlphabetLen(),
		"resync":    finder,
	}).Debug("Compiled rule set")

	return ir, nil
}
