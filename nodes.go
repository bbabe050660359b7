package tokregex

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/coreferentai/tokregex/internal/iterseq"
	"github.com/dlclark/regexp2"
)

// node is a compiled pattern fragment. consume is called with the Matcher
// driving the search and a start index into its Sequence, and returns the
// (possibly empty, possibly lazy) set of end indices reachable by matching
// this fragment starting at start. clone returns a deep copy suitable for
// splicing into another outer pattern at a fresh capture-slot identity (see
// captureNode and the variable-substitution pass in compiler.go).
type node interface {
	consume(m *Matcher, start int) iterseq.Seq
	// resolve re-derives whether this node matches [start,target), assuming
	// the caller already knows target is one of consume's candidate ends.
	// Its only purpose beyond that boolean is the side effect: any
	// captureNode it passes through on the way records its span, so a
	// second, targeted walk can populate capture slots without every
	// multi-token node having to thread span bookkeeping through consume.
	resolve(m *Matcher, start, target int) bool
	clone() node
	String() string
}

// containsEnd reports whether target appears among seq's values.
func containsEnd(seq iterseq.Seq, target int) bool {
	for {
		v, ok := seq.Next()
		if !ok {
			return false
		}
		if v == target {
			return true
		}
	}
}

// singleTokenNode is a node guaranteed to consume a fixed, statically known
// number of tokens (0 or 1) on any successful match. Negation and the
// 'key&key' / 'key|key' token-body chains are only legal over operands of
// this kind, since negating or matching a variable-width fragment at a
// single position has no well-defined single outcome.
type singleTokenNode interface {
	node
	tokenLength() int
	// bareForm renders this node as a key_value_pair (or negation of one),
	// with no outer '[' ']': the form a conjunction/disjunction/negation
	// composes its operands from. String(), by contrast, always renders a
	// complete, standalone token, bracketed when (and only when) a bare
	// top-level spelling does not exist.
	bareForm() string
}

// equalFoldUpper compares a and b rune-for-rune after unicode.ToUpper,
// rejecting first on a rune-count mismatch. This is deliberately the
// simple single-code-point identity fold provided by the standard library,
// not full Unicode case-folding: scripts whose upper/lower pairing is not
// a 1:1 code point mapping under Go's unicode tables (notably Georgian)
// fall back to exact comparison.
func equalFoldUpper(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return false
	}
	for i := range ra {
		if unicode.ToUpper(ra[i]) != unicode.ToUpper(rb[i]) {
			return false
		}
	}
	return true
}

// literalNode matches a token's value at key against a literal string.
type literalNode struct {
	key             string
	value           string
	caseInsensitive bool
}

func (n *literalNode) tokenLength() int { return 1 }

func (n *literalNode) consume(m *Matcher, start int) iterseq.Seq {
	if start >= m.seq.Len() {
		return iterseq.Empty
	}
	v, ok := m.seq.At(start).Get(n.key)
	if !ok {
		return iterseq.Empty
	}
	if v == n.value || (n.caseInsensitive && equalFoldUpper(v, n.value)) {
		return m.scratch.One(start + 1)
	}
	return iterseq.Empty
}

func (n *literalNode) resolve(m *Matcher, start, target int) bool {
	return containsEnd(n.consume(m, start), target)
}

func (n *literalNode) clone() node {
	c := *n
	return &c
}

// regexNode matches a token's value at key against a compiled regular
// expression, anchored to the full value. Named capture groups that
// participate in the match are recorded into the Matcher's string-capture
// map as a side effect of a successful match.
type regexNode struct {
	key     string
	source  string
	re      *regexp2.Regexp
	names   []string
}

func (n *regexNode) tokenLength() int { return 1 }

func (n *regexNode) consume(m *Matcher, start int) iterseq.Seq {
	if start >= m.seq.Len() {
		return iterseq.Empty
	}
	v, ok := m.seq.At(start).Get(n.key)
	if !ok {
		return iterseq.Empty
	}
	match, err := n.re.FindStringMatch(v)
	if err != nil || match == nil {
		return iterseq.Empty
	}
	if match.Index != 0 || match.Length != len([]rune(v)) {
		return iterseq.Empty
	}
	for _, name := range n.names {
		if _, err := strconv.Atoi(name); err == nil {
			continue // numbered group, not a named one
		}
		g := match.GroupByName(name)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		if m.stringCaps == nil {
			m.stringCaps = make(map[string]string)
		}
		m.stringCaps[name] = g.String()
	}
	return m.scratch.One(start + 1)
}

func (n *regexNode) resolve(m *Matcher, start, target int) bool {
	return containsEnd(n.consume(m, start), target)
}

func (n *regexNode) clone() node {
	c := *n
	c.names = append([]string(nil), n.names...)
	return &c
}

// intCompareNode matches a token's value at key, parsed as a custom signed
// 32-bit integer, against a constant using a comparison operator. A value
// that fails to parse (non-numeric, malformed sign, or overflow) is a
// non-match, not an error.
type intCompareNode struct {
	key string
	op  numericOp
	n   int64
}

func (n *intCompareNode) tokenLength() int { return 1 }

func (n *intCompareNode) consume(m *Matcher, start int) iterseq.Seq {
	if start >= m.seq.Len() {
		return iterseq.Empty
	}
	v, ok := m.seq.At(start).Get(n.key)
	if !ok {
		return iterseq.Empty
	}
	x, ok := parseCustomInt(v)
	if !ok || !compareInt(x, n.op, n.n) {
		return iterseq.Empty
	}
	return m.scratch.One(start + 1)
}

func (n *intCompareNode) resolve(m *Matcher, start, target int) bool {
	return containsEnd(n.consume(m, start), target)
}

func (n *intCompareNode) clone() node {
	c := *n
	return &c
}

// nullCheckNode matches a token that has no value at all under key (the
// '!key' shorthand and kvNegatedKey form, outside of a token_body negation).
type nullCheckNode struct{ key string }

func (n *nullCheckNode) tokenLength() int { return 1 }

func (n *nullCheckNode) consume(m *Matcher, start int) iterseq.Seq {
	if start >= m.seq.Len() {
		return iterseq.Empty
	}
	if _, ok := m.seq.At(start).Get(n.key); ok {
		return iterseq.Empty
	}
	return m.scratch.One(start + 1)
}

func (n *nullCheckNode) resolve(m *Matcher, start, target int) bool {
	return containsEnd(n.consume(m, start), target)
}

func (n *nullCheckNode) clone() node {
	c := *n
	return &c
}

// wildcardNode matches any single token, i.e. `[]`.
type wildcardNode struct{}

func (wildcardNode) tokenLength() int { return 1 }

func (wildcardNode) consume(m *Matcher, start int) iterseq.Seq {
	if start >= m.seq.Len() {
		return iterseq.Empty
	}
	return m.scratch.One(start + 1)
}

func (n wildcardNode) resolve(m *Matcher, start, target int) bool {
	return containsEnd(n.consume(m, start), target)
}

func (wildcardNode) clone() node { return wildcardNode{} }

// startAnchorNode and endAnchorNode are the zero-width '^' and '$' anchors.
type startAnchorNode struct{}

func (startAnchorNode) tokenLength() int { return 0 }

func (startAnchorNode) consume(m *Matcher, start int) iterseq.Seq {
	if start == 0 {
		return m.scratch.One(start)
	}
	return iterseq.Empty
}

func (n startAnchorNode) resolve(m *Matcher, start, target int) bool {
	return containsEnd(n.consume(m, start), target)
}

func (startAnchorNode) clone() node { return startAnchorNode{} }

type endAnchorNode struct{}

func (endAnchorNode) tokenLength() int { return 0 }

func (endAnchorNode) consume(m *Matcher, start int) iterseq.Seq {
	if start == m.seq.Len() {
		return m.scratch.One(start)
	}
	return iterseq.Empty
}

func (n endAnchorNode) resolve(m *Matcher, start, target int) bool {
	return containsEnd(n.consume(m, start), target)
}

func (endAnchorNode) clone() node { return endAnchorNode{} }

// literalNode, regexNode and intCompareNode render bare (un-bracketed) when
// they carry the default key, matching the grammar's bare-value and bare
// shorthand token forms; a named key has no bare spelling at all (bare
// shorthand operators only ever apply to the default key), so a keyed leaf
// needs the '[' key ... ']' form to stand alone. bareForm is always the
// keyless-bracket inner text, for composing inside a conjunction,
// disjunction or negation that will supply its own outer brackets.
func (n *literalNode) bareForm() string {
	if n.key == "" {
		return strconv.Quote(n.value)
	}
	return fmt.Sprintf("%s:%s", n.key, strconv.Quote(n.value))
}

func (n *literalNode) String() string {
	if n.key == "" {
		return n.bareForm()
	}
	return "[" + n.bareForm() + "]"
}

func (n *regexNode) bareForm() string {
	if n.key == "" {
		return fmt.Sprintf("/%s/", n.source)
	}
	return fmt.Sprintf("%s:/%s/", n.key, n.source)
}

func (n *regexNode) String() string {
	if n.key == "" {
		return n.bareForm()
	}
	return "[" + n.bareForm() + "]"
}

func (n *intCompareNode) bareForm() string {
	if n.key == "" {
		return fmt.Sprintf("%s%d", n.op, n.n)
	}
	return fmt.Sprintf("%s%s%d", n.key, n.op, n.n)
}

func (n *intCompareNode) String() string {
	if n.key == "" {
		return n.bareForm()
	}
	return "[" + n.bareForm() + "]"
}

// nullCheckNode's kv alternative ('!' Unquoted) has no keyless spelling at
// all, so it always renders bare, brackets or none.
func (n *nullCheckNode) bareForm() string { return "!" + n.key }
func (n *nullCheckNode) String() string   { return n.bareForm() }

func (wildcardNode) String() string { return "[]" }

func (startAnchorNode) String() string { return "^" }

func (endAnchorNode) String() string { return "$" }
