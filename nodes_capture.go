package tokregex

import (
	"fmt"

	"github.com/coreferentai/tokregex/internal/iterseq"
)

// captureNode wraps a parenthetical — named via '(?<name>...)' or
// '(?$name...)', or anonymous — assigning it a slot index fixed once at
// compile time by the pre-order walk in compiler.go. consume is a pure
// pass-through: recording a span for every candidate end the body
// produces, most of which backtracking will discard, would record the
// wrong span as often as the right one. Only resolve, invoked once the
// Matcher has committed to a specific overall end index, records this
// group's span for that path.
type captureNode struct {
	slot int
	name string // "" for an anonymous group
	body node
}

func (n *captureNode) consume(m *Matcher, start int) iterseq.Seq {
	return n.body.consume(m, start)
}

func (n *captureNode) resolve(m *Matcher, start, target int) bool {
	if !n.body.resolve(m, start, target) {
		return false
	}
	m.setCapture(n.slot, n.name, start, target)
	return true
}

func (n *captureNode) clone() node {
	return &captureNode{slot: n.slot, name: n.name, body: n.body.clone()}
}

func (n *captureNode) String() string {
	if n.name != "" {
		return fmt.Sprintf("(?<%s>%s)", n.name, n.body)
	}
	return fmt.Sprintf("(%s)", n.body)
}
