package nfa

import (
	"fmt"
	"regexp/syntax"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/songlinshu/sana/internal/conv"
)

// maxRepeat bounds the counted repetitions expanded by the compiler.
// It matches the limit enforced by regexp/syntax.
const maxRepeat = 1000

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// MaxRecursionDepth limits recursion during compilation to prevent stack overflow
	// Default: 250
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRecursionDepth: 250,
	}
}

// Compiler compiles regexp/syntax.Regexp trees into Thompson NFAs
type Compiler struct {
	config  CompilerConfig
	builder *Builder
	depth   int // current recursion depth

	// suffixes shares byte range states with identical targets
	// while compiling one Unicode class
	suffixes map[suffixKey]StateID
}

type suffixKey struct {
	lo, hi byte
	next   StateID
}

// NewCompiler creates a new NFA compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRecursionDepth <= 0 {
		config.MaxRecursionDepth = DefaultCompilerConfig().MaxRecursionDepth
	}
	return &Compiler{
		config:  config,
		builder: NewBuilder(),
	}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile parses a Perl-syntax pattern and compiles it as pattern 0
func (c *Compiler) Compile(pattern string) (*NFA, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Index:   NoPattern,
			Err:     err,
		}
	}

	return c.CompileRegexp(re)
}

// CompileRegexp compiles a parsed syntax.Regexp into an NFA holding one pattern
func (c *Compiler) CompileRegexp(re *syntax.Regexp) (*NFA, error) {
	return c.CompilePatterns([]*syntax.Regexp{re})
}

// CompilePatterns compiles every expression into its own fragment and joins
// them under one shared start state. The i-th expression accepts with
// PatternID(i); fragments never share states, so each match state maps
// back to exactly one pattern.
func (c *Compiler) CompilePatterns(res []*syntax.Regexp) (*NFA, error) {
	if len(res) == 0 {
		return nil, &CompileError{Index: NoPattern, Err: ErrNoPatterns}
	}

	c.builder = NewBuilderWithCapacity(len(res) * 8)
	c.depth = 0

	starts := make([]StateID, 0, len(res))
	for i, re := range res {
		id := PatternID(conv.IntToUint32(i))
		start, err := c.compilePattern(re, id)
		if err != nil {
			return nil, &CompileError{
				Pattern: re.String(),
				Index:   id,
				Err:     err,
			}
		}
		starts = append(starts, start)
	}

	c.builder.SetStart(c.builder.AddUnion(starts))

	nfa, err := c.builder.Build()
	if err != nil {
		return nil, &CompileError{Index: NoPattern, Err: err}
	}
	return nfa, nil
}

// compilePattern builds one fragment and terminates it with a match state.
func (c *Compiler) compilePattern(re *syntax.Regexp, id PatternID) (StateID, error) {
	start, end, err := c.compileRegexp(re)
	if err != nil {
		return InvalidState, err
	}
	if err := c.builder.Patch(end, c.builder.AddMatch(id)); err != nil {
		return InvalidState, err
	}
	return start, nil
}

// compileRegexp recursively compiles a syntax.Regexp node.
// Returns (start, end) state IDs for the compiled fragment.
// The 'end' state is an Epsilon or ByteRange state whose target is patched
// by the caller.
func (c *Compiler) compileRegexp(re *syntax.Regexp) (start, end StateID, err error) {
	c.depth++
	if c.depth > c.config.MaxRecursionDepth {
		return InvalidState, InvalidState, ErrTooComplex
	}
	defer func() { c.depth-- }()

	switch re.Op {
	case syntax.OpNoMatch:
		return c.compileNoMatch()
	case syntax.OpEmptyMatch:
		return c.compileEmptyMatch()
	case syntax.OpLiteral:
		if re.Flags&syntax.FoldCase != 0 {
			return c.compileFoldedLiteral(re.Rune)
		}
		return c.compileLiteral(re.Rune)
	case syntax.OpCharClass:
		return c.compileCharClass(re.Rune)
	case syntax.OpAnyChar:
		return c.compileCharClass([]rune{0, utf8.MaxRune})
	case syntax.OpAnyCharNotNL:
		return c.compileCharClass([]rune{0, '\n' - 1, '\n' + 1, utf8.MaxRune})
	case syntax.OpConcat:
		return c.compileConcat(re.Sub)
	case syntax.OpAlternate:
		return c.compileAlternate(re.Sub)
	case syntax.OpStar:
		return c.compileStar(re.Sub[0])
	case syntax.OpPlus:
		return c.compilePlus(re.Sub[0])
	case syntax.OpQuest:
		return c.compileQuest(re.Sub[0])
	case syntax.OpRepeat:
		return c.compileRepeat(re.Sub[0], re.Min, re.Max)
	case syntax.OpCapture:
		// Groups only structure the expression; positions are not tracked.
		return c.compileRegexp(re.Sub[0])
	case syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return InvalidState, InvalidState, fmt.Errorf("%w: assertion %v", ErrUnsupported, re.Op)
	default:
		return InvalidState, InvalidState, fmt.Errorf("%w: operation %v", ErrUnsupported, re.Op)
	}
}

// compileLiteral compiles a literal string as a chain of single-byte states
func (c *Compiler) compileLiteral(runes []rune) (start, end StateID, err error) {
	if len(runes) == 0 {
		return c.compileEmptyMatch()
	}

	var buf [utf8.UTFMax]byte
	start, prev := InvalidState, InvalidState
	for _, r := range runes {
		if !utf8.ValidRune(r) {
			return c.compileNoMatch()
		}
		n := utf8.EncodeRune(buf[:], r)
		for _, b := range buf[:n] {
			id := c.builder.AddByteRange(b, b, InvalidState)
			if start == InvalidState {
				start = id
			} else if err := c.builder.Patch(prev, id); err != nil {
				return InvalidState, InvalidState, err
			}
			prev = id
		}
	}

	return start, prev, nil
}

// compileFoldedLiteral compiles a case-insensitive literal: every rune
// becomes the class of its simple case folding orbit.
func (c *Compiler) compileFoldedLiteral(runes []rune) (start, end StateID, err error) {
	if len(runes) == 0 {
		return c.compileEmptyMatch()
	}

	start, end = InvalidState, InvalidState
	for _, r := range runes {
		s, e, err := c.compileCharClass(foldRanges(r))
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if start == InvalidState {
			start = s
		} else if err := c.builder.Patch(end, s); err != nil {
			return InvalidState, InvalidState, err
		}
		end = e
	}
	return start, end, nil
}

// foldRanges returns the sorted class ranges of r's case folding orbit.
func foldRanges(r rune) []rune {
	orbit := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}
	sort.Slice(orbit, func(i, j int) bool { return orbit[i] < orbit[j] })

	ranges := make([]rune, 0, len(orbit)*2)
	for _, f := range orbit {
		if n := len(ranges); n > 0 && ranges[n-1]+1 == f {
			ranges[n-1] = f
			continue
		}
		ranges = append(ranges, f, f)
	}
	return ranges
}

// compileCharClass compiles a character class given as sorted, disjoint
// pairs [lo1, hi1, lo2, hi2, ...]. Ranges stay as explicit byte bounds:
// ASCII ranges map to one sparse state, wider code points to UTF-8 byte
// range sequences.
func (c *Compiler) compileCharClass(ranges []rune) (start, end StateID, err error) {
	if len(ranges) < 2 {
		return c.compileNoMatch()
	}

	end = c.builder.AddEpsilon(InvalidState)

	var ascii []Transition
	var seqs []utf8Sequence
	for i := 0; i+1 < len(ranges); i += 2 {
		for _, seq := range utf8Sequences(ranges[i], ranges[i+1]) {
			if len(seq) == 1 {
				ascii = append(ascii, Transition{Lo: seq[0].lo, Hi: seq[0].hi, Next: end})
				continue
			}
			seqs = append(seqs, seq)
		}
	}

	var starts []StateID
	switch len(ascii) {
	case 0:
	case 1:
		starts = append(starts, c.builder.AddByteRange(ascii[0].Lo, ascii[0].Hi, end))
	default:
		starts = append(starts, c.builder.AddSparse(ascii))
	}

	// Build each sequence back to front so that identical suffixes
	// (mostly continuation bytes) are shared.
	c.suffixes = make(map[suffixKey]StateID)
	for _, seq := range seqs {
		next := end
		for i := len(seq) - 1; i >= 0; i-- {
			next = c.suffixState(seq[i].lo, seq[i].hi, next)
		}
		starts = appendUnique(starts, next)
	}
	c.suffixes = nil

	switch len(starts) {
	case 0:
		// Every code point was a surrogate.
		return c.compileNoMatch()
	case 1:
		return starts[0], end, nil
	default:
		return c.builder.AddUnion(starts), end, nil
	}
}

// suffixState returns a byte range state for [lo, hi] -> next, reusing an
// existing one when the same transition was already built.
func (c *Compiler) suffixState(lo, hi byte, next StateID) StateID {
	key := suffixKey{lo: lo, hi: hi, next: next}
	if id, ok := c.suffixes[key]; ok {
		return id
	}
	id := c.builder.AddByteRange(lo, hi, next)
	c.suffixes[key] = id
	return id
}

func appendUnique(ids []StateID, id StateID) []StateID {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}

// compileConcat compiles concatenation (e.g., "abc")
func (c *Compiler) compileConcat(subs []*syntax.Regexp) (start, end StateID, err error) {
	if len(subs) == 0 {
		return c.compileEmptyMatch()
	}

	start, end, err = c.compileRegexp(subs[0])
	if err != nil {
		return InvalidState, InvalidState, err
	}

	for _, sub := range subs[1:] {
		nextStart, nextEnd, err := c.compileRegexp(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := c.builder.Patch(end, nextStart); err != nil {
			return InvalidState, InvalidState, err
		}
		end = nextEnd
	}

	return start, end, nil
}

// compileAlternate compiles alternation (e.g., "a|b|c")
func (c *Compiler) compileAlternate(subs []*syntax.Regexp) (start, end StateID, err error) {
	if len(subs) == 0 {
		return c.compileNoMatch()
	}
	if len(subs) == 1 {
		return c.compileRegexp(subs[0])
	}

	starts := make([]StateID, 0, len(subs))
	ends := make([]StateID, 0, len(subs))
	for _, sub := range subs {
		s, e, err := c.compileRegexp(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		starts = append(starts, s)
		ends = append(ends, e)
	}

	join := c.builder.AddEpsilon(InvalidState)
	for _, e := range ends {
		if err := c.builder.Patch(e, join); err != nil {
			return InvalidState, InvalidState, err
		}
	}

	return c.builder.AddUnion(starts), join, nil
}

// compileStar compiles a* (zero or more)
func (c *Compiler) compileStar(sub *syntax.Regexp) (start, end StateID, err error) {
	subStart, subEnd, err := c.compileRegexp(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	// split -> [sub, end], sub -> split
	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(subStart, end)
	if err := c.builder.Patch(subEnd, split); err != nil {
		return InvalidState, InvalidState, err
	}

	return split, end, nil
}

// compilePlus compiles a+ (one or more)
func (c *Compiler) compilePlus(sub *syntax.Regexp) (start, end StateID, err error) {
	subStart, subEnd, err := c.compileRegexp(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	// sub -> split -> [sub, end]
	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(subStart, end)
	if err := c.builder.Patch(subEnd, split); err != nil {
		return InvalidState, InvalidState, err
	}

	return subStart, end, nil
}

// compileQuest compiles a? (zero or one)
func (c *Compiler) compileQuest(sub *syntax.Regexp) (start, end StateID, err error) {
	subStart, subEnd, err := c.compileRegexp(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(subStart, end)
	if err := c.builder.Patch(subEnd, end); err != nil {
		return InvalidState, InvalidState, err
	}

	return split, end, nil
}

// compileRepeat compiles a{m,n} (min to max repetitions); max == -1 means unbounded
func (c *Compiler) compileRepeat(sub *syntax.Regexp, minCount, maxCount int) (start, end StateID, err error) {
	if minCount > maxRepeat || maxCount > maxRepeat {
		return InvalidState, InvalidState, fmt.Errorf("%w: repeat count above %d", ErrTooComplex, maxRepeat)
	}
	if maxCount != -1 && minCount > maxCount {
		return InvalidState, InvalidState, fmt.Errorf("%w: invalid repeat range {%d,%d}", ErrUnsupported, minCount, maxCount)
	}

	subs := make([]*syntax.Regexp, 0, minCount+1)
	for i := 0; i < minCount; i++ {
		subs = append(subs, sub)
	}

	switch {
	case maxCount == -1:
		// a{m,} = a...a a*
		subs = append(subs, &syntax.Regexp{Op: syntax.OpStar, Sub: []*syntax.Regexp{sub}})
	case maxCount > minCount:
		// a{m,n} = a...a a?...a? (n-m optional copies)
		quest := &syntax.Regexp{Op: syntax.OpQuest, Sub: []*syntax.Regexp{sub}}
		for i := 0; i < maxCount-minCount; i++ {
			subs = append(subs, quest)
		}
	}

	return c.compileConcat(subs)
}

// compileEmptyMatch compiles an epsilon transition (matches without consuming input)
func (c *Compiler) compileEmptyMatch() (start, end StateID, err error) {
	id := c.builder.AddEpsilon(InvalidState)
	return id, id, nil
}

// compileNoMatch compiles a fragment that never matches. The end state is
// unreachable but still patchable, keeping the fragment algebra uniform.
func (c *Compiler) compileNoMatch() (start, end StateID, err error) {
	return c.builder.AddFail(), c.builder.AddEpsilon(InvalidState), nil
}
