package tokregex

import (
	"github.com/coreferentai/tokregex/internal/iterseq"
)

// singleConjNode is a single-token 'A&B' chain: succeeds at start iff both
// operands match there, and (since both are single-token) at the same end
// index by construction. Both operands are always evaluated, so that a
// regexNode operand's named-capture side effects happen regardless of
// which side ultimately decides the outcome.
type singleConjNode struct {
	left, right singleTokenNode
}

func (n *singleConjNode) tokenLength() int { return n.left.tokenLength() }

func (n *singleConjNode) consume(m *Matcher, start int) iterseq.Seq {
	le, lok := n.left.consume(m, start).Next()
	re, rok := n.right.consume(m, start).Next()
	if !lok || !rok || le != re {
		return iterseq.Empty
	}
	return m.scratch.One(le)
}

// resolve is membership-only: token_body_atoms never contain a capturing
// parenthetical, so there is nothing nested to populate.
func (n *singleConjNode) resolve(m *Matcher, start, target int) bool {
	return containsEnd(n.consume(m, start), target)
}

func (n *singleConjNode) clone() node {
	return &singleConjNode{left: n.left.clone().(singleTokenNode), right: n.right.clone().(singleTokenNode)}
}

func (n *singleConjNode) bareForm() string {
	return operandForm(n.left) + "&" + operandForm(n.right)
}

func (n *singleConjNode) String() string {
	return "[" + n.bareForm() + "]"
}

// singleDisjNode is a single-token 'A|B' chain: tries left first, falls
// back to right only if left fails, matching PEG ordered-choice semantics
// rather than exploring both and merging.
type singleDisjNode struct {
	left, right singleTokenNode
}

func (n *singleDisjNode) tokenLength() int { return n.left.tokenLength() }

func (n *singleDisjNode) consume(m *Matcher, start int) iterseq.Seq {
	if e, ok := n.left.consume(m, start).Next(); ok {
		return m.scratch.One(e)
	}
	if e, ok := n.right.consume(m, start).Next(); ok {
		return m.scratch.One(e)
	}
	return iterseq.Empty
}

func (n *singleDisjNode) resolve(m *Matcher, start, target int) bool {
	return containsEnd(n.consume(m, start), target)
}

func (n *singleDisjNode) clone() node {
	return &singleDisjNode{left: n.left.clone().(singleTokenNode), right: n.right.clone().(singleTokenNode)}
}

func (n *singleDisjNode) bareForm() string {
	return operandForm(n.left) + "|" + operandForm(n.right)
}

func (n *singleDisjNode) String() string {
	return "[" + n.bareForm() + "]"
}

// singleNegNode is '!atom' within a token_body: succeeds iff operand fails
// to match at start. A fixed-width (length 1) operand still requires an
// in-bounds token to "not match against"; a zero-width operand (negating an
// anchor) has no such requirement.
type singleNegNode struct {
	operand singleTokenNode
}

func (n *singleNegNode) tokenLength() int { return n.operand.tokenLength() }

func (n *singleNegNode) consume(m *Matcher, start int) iterseq.Seq {
	if _, ok := n.operand.consume(m, start).Next(); ok {
		return iterseq.Empty
	}
	length := n.operand.tokenLength()
	if length == 1 && start >= m.seq.Len() {
		return iterseq.Empty
	}
	return m.scratch.One(start + length)
}

func (n *singleNegNode) resolve(m *Matcher, start, target int) bool {
	return containsEnd(n.consume(m, start), target)
}

func (n *singleNegNode) clone() node {
	return &singleNegNode{operand: n.operand.clone().(singleTokenNode)}
}

func (n *singleNegNode) bareForm() string {
	return "!" + operandForm(n.operand)
}

func (n *singleNegNode) String() string {
	return "[" + n.bareForm() + "]"
}

// operandForm renders a token_body_atom operand for composition inside an
// enclosing conjunction, disjunction or negation: a compound operand (one
// that needs its own '&'/'|'/'!' precedence) is parenthesized, via the
// grouped-atom production; a leaf operand is already unambiguous bare.
func operandForm(n singleTokenNode) string {
	switch n.(type) {
	case *singleConjNode, *singleDisjNode, *singleNegNode:
		return "(" + n.bareForm() + ")"
	default:
		return n.bareForm()
	}
}
