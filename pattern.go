package tokregex

import "fmt"

// Pattern is a compiled token pattern, safe for concurrent use by any
// number of Matchers built from it via Matcher.
type Pattern struct {
	source     string
	root       node
	numSlots   int
	namedSlots map[string]int // group name -> slot index
	variables  []string
}

// Variables returns the free '$name' variable names referenced by this
// Pattern's source, directly or through another variable's pattern text,
// in first-occurrence order. It is read-only tooling
// surface; it does not affect matching.
func (p *Pattern) Variables() []string {
	return append([]string(nil), p.variables...)
}

// Compile parses and compiles source into a Pattern.
func Compile(source string) (*Pattern, error) {
	return CompileVariables(source, nil)
}

// CompileVariables parses and compiles source into a Pattern, resolving
// any '$name' variable reference against vars. Each variable's pattern
// text is itself compiled (recursively, so variables may reference other
// variables) and spliced in as a fresh, independently-captured subtree at
// every occurrence.
func CompileVariables(source string, vars map[string]string) (*Pattern, error) {
	ast, err := parseSource(source)
	if err != nil {
		return nil, err
	}
	return compile(source, ast, vars)
}

// MustCompile is like Compile but panics if source fails to compile. It is
// meant for patterns fixed at init time, not ones derived from user input.
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic(fmt.Sprintf("tokregex: Compile(%q): %s", source, err))
	}
	return p
}

// Matcher returns a new Matcher for searching seq with this Pattern.
func (p *Pattern) Matcher(seq Sequence) *Matcher {
	return newMatcher(p, seq)
}

// String renders the Pattern back to source syntax. Round-tripping this
// through Compile produces a Pattern with the same matching behaviour, but
// not necessarily byte-identical source (e.g. redundant parentheses and
// comments are not preserved).
func (p *Pattern) String() string {
	return p.root.String()
}
