package literal

import (
	"regexp/syntax"
	"unicode"
	"unicode/utf8"
)

// ExtractorConfig configures literal extraction limits.
//
// Example:
//
//	config := literal.ExtractorConfig{
//	    MaxLiterals:   64,
//	    MaxLiteralLen: 16,
//	    MaxClassSize:  10,
//	}
//	extractor := literal.New(config)
type ExtractorConfig struct {
	// MaxLiterals limits the number of alternatives in one Seq.
	// Patterns needing more are reported as having no finite prefix set.
	// Default: 64.
	MaxLiterals int

	// MaxLiteralLen truncates longer literals. A truncated literal is still
	// a valid prefix, just an inexact one.
	// Default: 16.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// Character classes like [abc] are expanded to ["a", "b", "c"];
	// [a-z] (26 runes) is not with the default.
	// Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 16,
		MaxClassSize:  10,
	}
}

// Extractor extracts prefix literal sets from regex patterns.
//
// Example:
//
//	re, _ := syntax.Parse("(true|false)", syntax.Perl)
//	extractor := literal.New(literal.DefaultConfig())
//	prefixes, ok := extractor.Prefixes(re)
//	// ok == true, prefixes = ["true", "false"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// Prefixes returns a finite set of literals such that every match of re
// starts with one of them. ok is false when no such set exists within the
// configured limits, for example when re can match the empty string or
// starts with a large class.
//
// Examples:
//
//	"private"       → ["private"], true
//	"0x[0-9a-f]+"   → ["0x"], true (inexact)
//	"[+-]?[0-9]+"   → false (optional start)
//	"[a-z]+"        → false (class too large)
func (e *Extractor) Prefixes(re *syntax.Regexp) (*Seq, bool) {
	seq, ok := e.prefixes(re, 0)
	if !ok || seq.IsEmpty() {
		return nil, false
	}
	return seq, true
}

// PrefixesAll extracts prefixes of every pattern and merges them.
// ok is false as soon as one pattern has no finite prefix set.
func (e *Extractor) PrefixesAll(res []*syntax.Regexp) (*Seq, bool) {
	all := NewSeq()
	for _, re := range res {
		seq, ok := e.Prefixes(re)
		if !ok {
			return nil, false
		}
		all.Union(seq)
	}
	all.Minimize()
	return all, !all.IsEmpty()
}

// prefixes is the recursive worker. A successful result never contains an
// empty literal, which also guarantees the expression cannot match empty.
func (e *Extractor) prefixes(re *syntax.Regexp, depth int) (*Seq, bool) {
	if depth > 100 {
		return nil, false
	}

	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Rune) == 0 {
			return nil, false
		}
		if re.Flags&syntax.FoldCase != 0 {
			// Only the first rune's case variants; the rest is left inexact.
			return e.expandRunes(foldOrbit(re.Rune[0]), len(re.Rune) == 1)
		}
		b := encodeRunes(re.Rune)
		complete := true
		if len(b) > e.config.MaxLiteralLen {
			b = b[:e.config.MaxLiteralLen]
			complete = false
		}
		return NewSeq(NewLiteral(b, complete)), true

	case syntax.OpCharClass:
		var runes []rune
		for i := 0; i+1 < len(re.Rune); i += 2 {
			for r := re.Rune[i]; r <= re.Rune[i+1]; r++ {
				if len(runes) >= e.config.MaxClassSize {
					return nil, false
				}
				runes = append(runes, r)
			}
		}
		return e.expandRunes(runes, true)

	case syntax.OpConcat:
		if len(re.Sub) == 0 {
			return nil, false
		}
		seq, ok := e.prefixes(re.Sub[0], depth+1)
		if !ok {
			return nil, false
		}
		if len(re.Sub) > 1 {
			seq.MakeInexact()
		}
		return seq, true

	case syntax.OpAlternate:
		all := NewSeq()
		for _, sub := range re.Sub {
			seq, ok := e.prefixes(sub, depth+1)
			if !ok {
				return nil, false
			}
			all.Union(seq)
			if all.Len() > e.config.MaxLiterals {
				return nil, false
			}
		}
		return all, !all.IsEmpty()

	case syntax.OpCapture:
		return e.prefixes(re.Sub[0], depth+1)

	case syntax.OpPlus:
		// Every match begins with a match of the repeated expression.
		seq, ok := e.prefixes(re.Sub[0], depth+1)
		if ok {
			seq.MakeInexact()
		}
		return seq, ok

	case syntax.OpRepeat:
		if re.Min == 0 {
			return nil, false
		}
		seq, ok := e.prefixes(re.Sub[0], depth+1)
		if ok && (re.Min > 1 || re.Max != 1) {
			seq.MakeInexact()
		}
		return seq, ok

	default:
		// OpStar, OpQuest, OpEmptyMatch and wildcards: no finite prefix set
		return nil, false
	}
}

// expandRunes returns one literal per rune.
func (e *Extractor) expandRunes(runes []rune, complete bool) (*Seq, bool) {
	if len(runes) == 0 || len(runes) > e.config.MaxLiterals {
		return nil, false
	}
	seq := NewSeq()
	for _, r := range runes {
		if !utf8.ValidRune(r) {
			continue
		}
		seq.Add(NewLiteral(utf8.AppendRune(nil, r), complete))
	}
	return seq, !seq.IsEmpty()
}

func foldOrbit(r rune) []rune {
	orbit := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}
	return orbit
}

func encodeRunes(runes []rune) []byte {
	b := make([]byte, 0, len(runes))
	for _, r := range runes {
		b = utf8.AppendRune(b, r)
	}
	return b
}
