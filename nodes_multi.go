package tokregex

import (
	"fmt"
	"strings"

	"github.com/coreferentai/tokregex/internal/iterseq"
)

// emptyNode matches the empty pattern: succeeds at any position, consuming
// nothing.
type emptyNode struct{}

func (emptyNode) consume(m *Matcher, start int) iterseq.Seq { return m.scratch.One(start) }
func (emptyNode) resolve(m *Matcher, start, target int) bool { return start == target }
func (emptyNode) clone() node                                { return emptyNode{} }
func (emptyNode) String() string                            { return "" }

// seqNode matches a fixed ordered list of sub-patterns back to back. Its
// search is a depth-first walk over each part's own candidate end indices;
// a part is free to be itself a repeatNode, a captureNode, or any other
// node, so nesting composes naturally.
type seqNode struct {
	parts []node
}

func (n *seqNode) consume(m *Matcher, start int) iterseq.Seq {
	return iterseq.FromSlice(n.walk(m, 0, start, nil))
}

func (n *seqNode) walk(m *Matcher, i, pos int, acc []int) []int {
	if m.deadlineExceeded() {
		return acc
	}
	if i == len(n.parts) {
		return append(acc, pos)
	}
	for _, next := range iterseq.Collect(n.parts[i].consume(m, pos)) {
		acc = n.walk(m, i+1, next, acc)
	}
	return acc
}

// resolve finds the first part-by-part path reaching exactly target and
// resolves each part along it, so any nested captureNode records its span.
func (n *seqNode) resolve(m *Matcher, start, target int) bool {
	return n.resolveFrom(m, 0, start, target)
}

func (n *seqNode) resolveFrom(m *Matcher, i, pos, target int) bool {
	if i == len(n.parts) {
		return pos == target
	}
	for _, next := range iterseq.Collect(n.parts[i].consume(m, pos)) {
		if n.resolveFrom(m, i+1, next, target) {
			n.parts[i].resolve(m, pos, next)
			return true
		}
	}
	return false
}

func (n *seqNode) clone() node {
	parts := make([]node, len(n.parts))
	for i, p := range n.parts {
		parts[i] = p.clone()
	}
	return &seqNode{parts: parts}
}

func (n *seqNode) String() string {
	var b strings.Builder
	for _, p := range n.parts {
		b.WriteString(groupedString(p, false))
	}
	return b.String()
}

// groupedString renders n as a sequence part, a '&'/'|' left operand, or
// (repeatBody) a repeat body. A '$name' reference splices its compiled tree
// in as is, so a '&'/'|' node, or a sequence or repeat under a repeat
// suffix, can sit in such a place; it is parenthesized so the rendering
// parses back to the same grouping (as an extra capture group).
func groupedString(n node, repeatBody bool) string {
	switch n.(type) {
	case *multiConjNode, *multiDisjNode:
		return "(" + n.String() + ")"
	case *seqNode, *repeatNode:
		if repeatBody {
			return "(" + n.String() + ")"
		}
	}
	return n.String()
}

// repeatNode matches body between min and max times (max may be
// unboundedRepeat), walking a depth-first search ordered so that greedy
// repetition emits its longest candidate spans first and reluctant
// repetition emits its shortest first.
type repeatNode struct {
	body      node
	min, max  int64
	reluctant bool
}

func (n *repeatNode) consume(m *Matcher, start int) iterseq.Seq {
	return iterseq.FromSlice(n.walk(m, start, 0, nil))
}

func (n *repeatNode) walk(m *Matcher, pos int, count int64, acc []int) []int {
	if m.deadlineExceeded() {
		return acc
	}
	if n.reluctant && count >= n.min {
		acc = append(acc, pos)
	}
	if count < n.max {
		for _, next := range iterseq.Collect(n.body.consume(m, pos)) {
			if next == pos {
				// A zero-width body match cannot be repeated usefully: one
				// more iteration satisfies min (if it doesn't already),
				// but looping again would never advance pos.
				if count+1 >= n.min {
					acc = append(acc, pos)
				}
				continue
			}
			acc = n.walk(m, next, count+1, acc)
		}
	}
	if !n.reluctant && count >= n.min {
		acc = append(acc, pos)
	}
	return acc
}

func (n *repeatNode) resolve(m *Matcher, start, target int) bool {
	return n.resolveWalk(m, start, 0, target)
}

func (n *repeatNode) resolveWalk(m *Matcher, pos int, count int64, target int) bool {
	if n.reluctant && count >= n.min && pos == target {
		return true
	}
	if count < n.max {
		for _, next := range iterseq.Collect(n.body.consume(m, pos)) {
			if next == pos {
				if count+1 >= n.min && pos == target {
					return true
				}
				continue
			}
			if n.resolveWalk(m, next, count+1, target) {
				n.body.resolve(m, pos, next)
				return true
			}
		}
	}
	if !n.reluctant && count >= n.min && pos == target {
		return true
	}
	return false
}

func (n *repeatNode) clone() node {
	return &repeatNode{body: n.body.clone(), min: n.min, max: n.max, reluctant: n.reluctant}
}

func (n *repeatNode) String() string {
	suffix := repeatSuffix(n.min, n.max)
	if n.reluctant {
		suffix += "?"
	}
	return groupedString(n.body, true) + suffix
}

func repeatSuffix(min, max int64) string {
	switch {
	case min == 0 && max == unboundedRepeat:
		return "*"
	case min == 1 && max == unboundedRepeat:
		return "+"
	case min == 0 && max == 1:
		return "?"
	case max == unboundedRepeat:
		return fmt.Sprintf("{%d,}", min)
	case min == max:
		return fmt.Sprintf("{%d}", min)
	default:
		return fmt.Sprintf("{%d,%d}", min, max)
	}
}

// multiConjNode matches 'pattern & pattern' where at least one operand can
// span more than a single token, so (unlike singleConjNode) there is no
// shared fixed width to assume equal: it collects the right operand's
// candidate end indices into a bitset and emits a left-operand end index
// only if the right side also reached it.
type multiConjNode struct {
	left, right node
}

func (n *multiConjNode) consume(m *Matcher, start int) iterseq.Seq {
	rightEnds := iterseq.Collect(n.right.consume(m, start))
	if len(rightEnds) == 0 {
		return iterseq.Empty
	}
	var have endIndexSet
	for _, e := range rightEnds {
		have.add(e)
	}
	var acc []int
	for _, e := range iterseq.Collect(n.left.consume(m, start)) {
		if have.has(e) {
			acc = append(acc, e)
		}
	}
	return iterseq.FromSlice(acc)
}

func (n *multiConjNode) resolve(m *Matcher, start, target int) bool {
	if !containsEnd(n.right.consume(m, start), target) {
		return false
	}
	if !containsEnd(n.left.consume(m, start), target) {
		return false
	}
	n.right.resolve(m, start, target)
	n.left.resolve(m, start, target)
	return true
}

func (n *multiConjNode) clone() node {
	return &multiConjNode{left: n.left.clone(), right: n.right.clone()}
}

func (n *multiConjNode) String() string {
	return fmt.Sprintf("%s&%s", groupedString(n.left, false), n.right)
}

// multiDisjNode matches 'pattern | pattern': the union of both operands'
// candidate end indices, left operand first, deduplicated with the same
// bitset structure used for its single-token token_body counterpart.
type multiDisjNode struct {
	left, right node
}

func (n *multiDisjNode) consume(m *Matcher, start int) iterseq.Seq {
	var seen endIndexSet
	var acc []int
	for _, e := range iterseq.Collect(n.left.consume(m, start)) {
		if !seen.has(e) {
			seen.add(e)
			acc = append(acc, e)
		}
	}
	for _, e := range iterseq.Collect(n.right.consume(m, start)) {
		if !seen.has(e) {
			seen.add(e)
			acc = append(acc, e)
		}
	}
	return iterseq.FromSlice(acc)
}

func (n *multiDisjNode) resolve(m *Matcher, start, target int) bool {
	if containsEnd(n.left.consume(m, start), target) {
		return n.left.resolve(m, start, target)
	}
	if containsEnd(n.right.consume(m, start), target) {
		return n.right.resolve(m, start, target)
	}
	return false
}

func (n *multiDisjNode) clone() node {
	return &multiDisjNode{left: n.left.clone(), right: n.right.clone()}
}

func (n *multiDisjNode) String() string {
	return fmt.Sprintf("%s|%s", groupedString(n.left, false), n.right)
}
