package va

import (
	"fmt"
	"regexp/syntax"
	"strings"
)

// CompilerConfig configures regex-frontend behavior.
type CompilerConfig struct {
	// MaxRecursionDepth limits AST recursion during compilation.
	// Zero means DefaultCompilerConfig's value (100).
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns sensible defaults.
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{MaxRecursionDepth: 100}
}

// Compiler turns a regexp/syntax AST into a variable-set automaton (§4.A-B).
type Compiler struct {
	config CompilerConfig

	builder *Builder
	depth   int

	varNames  []string
	varIndex  map[string]uint32
	synthetic bool // true when no named group exists and "match" was synthesized
}

// NewCompiler creates a Compiler with the given configuration.
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = 100
	}
	return &Compiler{config: config}
}

// Compile parses pattern with regexp/syntax.Perl and compiles it into a VA.
func Compile(pattern string) (*VA, error) {
	return NewCompiler(DefaultCompilerConfig()).Compile(pattern)
}

// Compile parses and compiles pattern.
func (c *Compiler) Compile(pattern string) (*VA, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: fmt.Errorf("%w: %v", ErrSyntax, err)}
	}
	va, err := c.CompileRegexp(re)
	if err != nil {
		if ce, ok := err.(*CompileError); ok && ce.Pattern == "" {
			ce.Pattern = pattern
			return nil, ce
		}
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return va, nil
}

// CompileRegexp compiles an already-parsed AST into a VA.
func (c *Compiler) CompileRegexp(re *syntax.Regexp) (*VA, error) {
	c.builder = NewBuilder()
	c.depth = 0
	c.varNames = nil
	c.varIndex = make(map[string]uint32)
	c.synthetic = false

	c.collectVars(re)
	if len(c.varNames) == 0 {
		c.synthetic = true
		c.varNames = []string{"match"}
	}

	start, end, err := c.compileRegexp(re)
	if err != nil {
		return nil, err
	}

	if c.synthetic {
		closeMatch := c.builder.AddMarker(0, false, InvalidState)
		if perr := c.builder.Patch(end, closeMatch); perr != nil {
			epsilon := c.builder.AddEpsilon(closeMatch)
			if perr := c.builder.Patch(end, epsilon); perr != nil {
				return nil, &CompileError{Err: perr}
			}
		}
		openMatch := c.builder.AddMarker(0, true, start)
		start, end = openMatch, closeMatch
	}

	accept := c.builder.AddMatch()
	if err := c.builder.Patch(end, accept); err != nil {
		epsilon := c.builder.AddEpsilon(accept)
		if err := c.builder.Patch(end, epsilon); err != nil {
			return nil, &CompileError{Err: err}
		}
	}

	// Unanchored search prefix: the compiled VA matches substrings anywhere
	// in the document (§1, "finds every substring of a document that
	// matches"), not only at position 0. A self-looping any-byte state
	// tried after the real pattern implements the usual ".*?" search
	// idiom without giving the skipped prefix a variable of its own.
	skip := c.builder.AddByteRange(0x00, 0xFF, InvalidState)
	entry := c.builder.AddSplit(start, skip)
	if err := c.builder.Patch(skip, entry); err != nil {
		return nil, &CompileError{Err: err}
	}

	c.builder.SetStart(entry)

	result, err := c.builder.Build(WithVarNames(c.varNames))
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	return result, nil
}

// stripVarSuffix implements the named-group convention: a "__..." suffix is
// stripped so duplicate logical names share one variable.
func stripVarSuffix(name string) string {
	if idx := strings.Index(name, "__"); idx >= 0 {
		return name[:idx]
	}
	return name
}

// collectVars walks the AST registering named capture groups in first-
// appearance order; this order becomes the variable declaration order that
// fixes output determinism (§9).
func (c *Compiler) collectVars(re *syntax.Regexp) {
	switch re.Op {
	case syntax.OpCapture:
		if re.Name != "" {
			name := stripVarSuffix(re.Name)
			if _, ok := c.varIndex[name]; !ok {
				c.varIndex[name] = uint32(len(c.varNames))
				c.varNames = append(c.varNames, name)
			}
		}
		for _, sub := range re.Sub {
			c.collectVars(sub)
		}
	case syntax.OpConcat, syntax.OpAlternate:
		for _, sub := range re.Sub {
			c.collectVars(sub)
		}
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat:
		if len(re.Sub) > 0 {
			c.collectVars(re.Sub[0])
		}
	}
}

func (c *Compiler) compileRegexp(re *syntax.Regexp) (start, end StateID, err error) {
	c.depth++
	if c.depth > c.config.MaxRecursionDepth {
		return InvalidState, InvalidState, &CompileError{Err: ErrTooComplex}
	}
	defer func() { c.depth-- }()

	switch re.Op {
	case syntax.OpLiteral:
		return c.compileLiteral(re)
	case syntax.OpCharClass:
		return c.compileCharClass(re.Rune)
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return c.compileAnyByte(re.Op == syntax.OpAnyCharNotNL)
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
		return c.compileCapture(re)
	case syntax.OpEmptyMatch:
		id := c.builder.AddEpsilon(InvalidState)
		return id, id, nil
	case syntax.OpNoMatch:
		start = c.builder.AddEpsilon(InvalidState)
		end = c.builder.AddEpsilon(InvalidState)
		return start, end, nil
	case syntax.OpBeginText, syntax.OpEndText, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return InvalidState, InvalidState, &CompileError{Err: fmt.Errorf("%w: anchors and word boundaries are not part of the byte-alphabet automaton model", ErrUnsupported)}
	default:
		return InvalidState, InvalidState, &CompileError{Err: fmt.Errorf("%w: unsupported regex operation %v", ErrUnsupported, re.Op)}
	}
}

func (c *Compiler) compileLiteral(re *syntax.Regexp) (start, end StateID, err error) {
	runes := re.Rune
	if len(runes) == 0 {
		id := c.builder.AddEpsilon(InvalidState)
		return id, id, nil
	}

	fold := re.Flags&syntax.FoldCase != 0
	if len(runes) == 1 {
		return c.compileSingleByte(runes[0], fold)
	}
	start, end, err = c.compileSingleByte(runes[0], fold)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	for _, r := range runes[1:] {
		s, e, err := c.compileSingleByte(r, re.Flags&syntax.FoldCase != 0)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if perr := c.builder.Patch(end, s); perr != nil {
			epsilon := c.builder.AddEpsilon(s)
			if perr := c.builder.Patch(end, epsilon); perr != nil {
				return InvalidState, InvalidState, perr
			}
		}
		end = e
	}
	return start, end, nil
}

func (c *Compiler) compileSingleByte(r rune, foldCase bool) (start, end StateID, err error) {
	if r > 127 {
		return InvalidState, InvalidState, &CompileError{Err: fmt.Errorf("%w: non-ASCII literal %q", ErrUnsupported, r)}
	}
	if !foldCase || !isASCIILetter(r) {
		id := c.builder.AddByteRange(byte(r), byte(r), InvalidState)
		return id, id, nil
	}
	lo, hi := toLowerASCII(r), toUpperASCII(r)
	target := c.builder.AddEpsilon(InvalidState)
	id := c.builder.AddSparse([]byteTransition{
		{Lo: byte(lo), Hi: byte(lo), Next: target},
		{Lo: byte(hi), Hi: byte(hi), Next: target},
	})
	return id, target, nil
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toUpperASCII(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 32
	}
	return r
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 32
	}
	return r
}

// compileCharClass compiles an ASCII-only character class into byte-range
// transitions. Unicode classes beyond the byte alphabet are a non-goal (§1).
func (c *Compiler) compileCharClass(ranges []rune) (start, end StateID, err error) {
	if len(ranges) == 0 {
		start = c.builder.AddEpsilon(InvalidState)
		end = c.builder.AddEpsilon(InvalidState)
		return start, end, nil
	}

	for _, r := range ranges {
		if r > 127 {
			return InvalidState, InvalidState, &CompileError{Err: fmt.Errorf("%w: non-ASCII character class", ErrUnsupported)}
		}
	}

	var transitions []byteTransition
	for i := 0; i < len(ranges); i += 2 {
		transitions = append(transitions, byteTransition{Lo: byte(ranges[i]), Hi: byte(ranges[i+1]), Next: InvalidState})
	}
	if len(transitions) == 1 {
		t := transitions[0]
		id := c.builder.AddByteRange(t.Lo, t.Hi, InvalidState)
		return id, id, nil
	}
	target := c.builder.AddEpsilon(InvalidState)
	for i := range transitions {
		transitions[i].Next = target
	}
	id := c.builder.AddSparse(transitions)
	return id, target, nil
}

// compileAnyByte compiles '.'. Since the engine's alphabet is bytes, not
// Unicode codepoints (§1 Non-goals), '.' matches a single byte: any byte when
// dot-matches-newline, any byte but 0x0A otherwise.
func (c *Compiler) compileAnyByte(notNL bool) (start, end StateID, err error) {
	if !notNL {
		id := c.builder.AddByteRange(0x00, 0xFF, InvalidState)
		return id, id, nil
	}
	target := c.builder.AddEpsilon(InvalidState)
	id := c.builder.AddSparse([]byteTransition{
		{Lo: 0x00, Hi: 0x09, Next: target},
		{Lo: 0x0B, Hi: 0xFF, Next: target},
	})
	return id, target, nil
}

func (c *Compiler) compileConcat(subs []*syntax.Regexp) (start, end StateID, err error) {
	if len(subs) == 0 {
		id := c.builder.AddEpsilon(InvalidState)
		return id, id, nil
	}
	if len(subs) == 1 {
		return c.compileRegexp(subs[0])
	}
	start, end, err = c.compileRegexp(subs[0])
	if err != nil {
		return InvalidState, InvalidState, err
	}
	for i := 1; i < len(subs); i++ {
		nextStart, nextEnd, err := c.compileRegexp(subs[i])
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if perr := c.builder.Patch(end, nextStart); perr != nil {
			epsilon := c.builder.AddEpsilon(nextStart)
			if perr := c.builder.Patch(end, epsilon); perr != nil {
				return InvalidState, InvalidState, perr
			}
		}
		end = nextEnd
	}
	return start, end, nil
}

func (c *Compiler) compileAlternate(subs []*syntax.Regexp) (start, end StateID, err error) {
	if len(subs) == 0 {
		id := c.builder.AddEpsilon(InvalidState)
		return id, id, nil
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

	split := c.buildSplitChain(starts)
	join := c.builder.AddEpsilon(InvalidState)
	for _, e := range ends {
		_ = c.builder.Patch(e, join)
	}
	return split, join, nil
}

func (c *Compiler) buildSplitChain(targets []StateID) StateID {
	if len(targets) == 1 {
		return targets[0]
	}
	if len(targets) == 2 {
		return c.builder.AddSplit(targets[0], targets[1])
	}
	right := c.buildSplitChain(targets[1:])
	return c.builder.AddSplit(targets[0], right)
}

func (c *Compiler) compileStar(sub *syntax.Regexp) (start, end StateID, err error) {
	subStart, subEnd, err := c.compileRegexp(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(subStart, end)
	if perr := c.builder.Patch(subEnd, split); perr != nil {
		epsilon := c.builder.AddEpsilon(split)
		if perr := c.builder.Patch(subEnd, epsilon); perr != nil {
			return InvalidState, InvalidState, perr
		}
	}
	return split, end, nil
}

func (c *Compiler) compilePlus(sub *syntax.Regexp) (start, end StateID, err error) {
	subStart, subEnd, err := c.compileRegexp(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(subStart, end)
	if perr := c.builder.Patch(subEnd, split); perr != nil {
		epsilon := c.builder.AddEpsilon(split)
		if perr := c.builder.Patch(subEnd, epsilon); perr != nil {
			return InvalidState, InvalidState, perr
		}
	}
	return subStart, end, nil
}

func (c *Compiler) compileQuest(sub *syntax.Regexp) (start, end StateID, err error) {
	subStart, subEnd, err := c.compileRegexp(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(subStart, end)
	if perr := c.builder.Patch(subEnd, end); perr != nil {
		epsilon := c.builder.AddEpsilon(end)
		if perr := c.builder.Patch(subEnd, epsilon); perr != nil {
			return InvalidState, InvalidState, perr
		}
	}
	return split, end, nil
}

func (c *Compiler) compileRepeat(sub *syntax.Regexp, minCount, maxCount int) (start, end StateID, err error) {
	if maxCount == -1 {
		return c.compileRepeatMin(sub, minCount)
	}
	if minCount == maxCount {
		return c.compileRepeatExact(sub, minCount)
	}
	return c.compileRepeatRange(sub, minCount, maxCount)
}

func (c *Compiler) compileRepeatExact(sub *syntax.Regexp, n int) (start, end StateID, err error) {
	if n == 0 {
		id := c.builder.AddEpsilon(InvalidState)
		return id, id, nil
	}
	if n == 1 {
		return c.compileRegexp(sub)
	}
	subs := make([]*syntax.Regexp, n)
	for i := range subs {
		subs[i] = sub
	}
	return c.compileConcat(subs)
}

func (c *Compiler) compileRepeatMin(sub *syntax.Regexp, minCount int) (start, end StateID, err error) {
	if minCount == 0 {
		return c.compileStar(sub)
	}
	subs := make([]*syntax.Regexp, minCount)
	for i := range subs {
		subs[i] = sub
	}
	subs = append(subs, &syntax.Regexp{Op: syntax.OpStar, Sub: []*syntax.Regexp{sub}})
	return c.compileConcat(subs)
}

func (c *Compiler) compileRepeatRange(sub *syntax.Regexp, minCount, maxCount int) (start, end StateID, err error) {
	if minCount > maxCount {
		return InvalidState, InvalidState, &CompileError{Err: fmt.Errorf("invalid repeat range {%d,%d}", minCount, maxCount)}
	}
	subs := make([]*syntax.Regexp, 0, maxCount)
	for i := 0; i < minCount; i++ {
		subs = append(subs, sub)
	}
	for i := 0; i < maxCount-minCount; i++ {
		subs = append(subs, &syntax.Regexp{Op: syntax.OpQuest, Sub: []*syntax.Regexp{sub}})
	}
	return c.compileConcat(subs)
}

// compileCapture wraps a named capture's sub-expression with open/close
// variable markers; unnamed groups are plain grouping and emit no marker.
func (c *Compiler) compileCapture(re *syntax.Regexp) (start, end StateID, err error) {
	if len(re.Sub) == 0 {
		id := c.builder.AddEpsilon(InvalidState)
		return id, id, nil
	}

	subStart, subEnd, err := c.compileRegexp(re.Sub[0])
	if err != nil {
		return InvalidState, InvalidState, err
	}

	if re.Name == "" {
		return subStart, subEnd, nil
	}
	varID := c.varIndex[stripVarSuffix(re.Name)]

	closeMarker := c.builder.AddMarker(varID, false, InvalidState)
	if perr := c.builder.Patch(subEnd, closeMarker); perr != nil {
		epsilon := c.builder.AddEpsilon(closeMarker)
		if perr := c.builder.Patch(subEnd, epsilon); perr != nil {
			return InvalidState, InvalidState, perr
		}
	}
	openMarker := c.builder.AddMarker(varID, true, subStart)
	return openMarker, closeMarker, nil
}
