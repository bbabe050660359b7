package tokregex

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// compiler folds a parsed astPattern into a node tree, assigning capture
// slots via a single pre-order counter shared across the whole compile —
// including every expansion of a variable reference, so that each
// occurrence of '$name' gets its own, non-aliased slots even when the
// variable's own pattern declares named groups.
type compiler struct {
	source string
	vars   map[string]string

	varNodes  map[string]node
	compiling map[string]bool

	nextSlot   int
	namedSlots map[string]int

	varRefs    []string
	seenVarRef map[string]bool
}

func compile(source string, ast *astPattern, vars map[string]string) (*Pattern, error) {
	c := &compiler{
		source:     source,
		vars:       vars,
		varNodes:   make(map[string]node),
		compiling:  make(map[string]bool),
		namedSlots: make(map[string]int),
		seenVarRef: make(map[string]bool),
	}
	root, err := c.compilePattern(ast)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"resolved": c.varRefs,
		"slots":    c.nextSlot,
	}).Debug("tokregex: pattern compiled")
	return &Pattern{
		source:     source,
		root:       root,
		numSlots:   c.nextSlot,
		namedSlots: c.namedSlots,
		variables:  c.varRefs,
	}, nil
}

func (c *compiler) allocSlot() int {
	slot := c.nextSlot
	c.nextSlot++
	return slot
}

func (c *compiler) compilePattern(p *astPattern) (node, error) {
	parts := make([]node, 0, len(p.atoms))
	for _, a := range p.atoms {
		n, err := c.compileAtom(a)
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}

	var left node
	switch len(parts) {
	case 0:
		left = emptyNode{}
	case 1:
		left = parts[0]
	default:
		left = &seqNode{parts: parts}
	}

	if p.op == 0 {
		return left, nil
	}
	right, err := c.compilePattern(p.rest)
	if err != nil {
		return nil, err
	}
	if p.op == '&' {
		return &multiConjNode{left: left, right: right}, nil
	}
	return &multiDisjNode{left: left, right: right}, nil
}

func (c *compiler) compileAtom(a astAtom) (node, error) {
	switch v := a.(type) {
	case astTokenAtom:
		return c.compileToken(v.tok)
	case astParenAtom:
		slot := c.allocSlot()
		if v.name != "" {
			c.namedSlots[v.name] = slot
		}
		inner, err := c.compilePattern(v.pattern)
		if err != nil {
			return nil, err
		}
		return &captureNode{slot: slot, name: v.name, body: inner}, nil
	case astRepeatAtom:
		body, err := c.compileAtom(v.body)
		if err != nil {
			return nil, err
		}
		return &repeatNode{body: body, min: v.min, max: v.max, reluctant: v.reluctant}, nil
	case astVariableAtom:
		return c.compileVariableRef(v)
	default:
		return nil, invalidPattern(c.source, a.astPos(), "internal error: unrecognized atom %T", a)
	}
}

// compileVariableRef compiles vars[name] once, caching the result, then
// clones and renumbers a fresh copy for every occurrence so that distinct
// '$name' references never share capture-slot identity.
func (c *compiler) compileVariableRef(v astVariableAtom) (node, error) {
	text, ok := c.vars[v.name]
	if !ok {
		return nil, invalidPattern(c.source, v.pos, "undefined variable $%s", v.name)
	}
	if !c.seenVarRef[v.name] {
		c.seenVarRef[v.name] = true
		c.varRefs = append(c.varRefs, v.name)
	}

	cached, ok := c.varNodes[v.name]
	if !ok {
		if c.compiling[v.name] {
			return nil, invalidPattern(c.source, v.pos, "variable $%s refers to itself", v.name)
		}
		c.compiling[v.name] = true
		varAst, err := parseSource(text)
		if err != nil {
			c.compiling[v.name] = false
			return nil, err
		}
		compiled, err := c.compilePatternAs(text, varAst)
		delete(c.compiling, v.name)
		if err != nil {
			return nil, err
		}
		c.varNodes[v.name] = compiled
		cached = compiled
		logrus.WithField("variable", v.name).Debug("tokregex: variable compiled")
	}

	clone := cached.clone()
	c.renumber(clone)
	return clone, nil
}

// compilePatternAs compiles ast as if source were the top-level pattern
// text, for error reporting, while continuing to share this compiler's
// slot counter and variable cache.
func (c *compiler) compilePatternAs(source string, ast *astPattern) (node, error) {
	saved := c.source
	c.source = source
	defer func() { c.source = saved }()
	return c.compilePattern(ast)
}

// renumber walks a cloned subtree reassigning every captureNode a fresh
// slot from this compiler's counter, so a variable spliced in more than
// once never aliases capture identity across occurrences.
func (c *compiler) renumber(n node) {
	switch v := n.(type) {
	case *captureNode:
		slot := c.allocSlot()
		if v.name != "" {
			c.namedSlots[v.name] = slot
		}
		v.slot = slot
		c.renumber(v.body)
	case *seqNode:
		for _, p := range v.parts {
			c.renumber(p)
		}
	case *repeatNode:
		c.renumber(v.body)
	case *multiConjNode:
		c.renumber(v.left)
		c.renumber(v.right)
	case *multiDisjNode:
		c.renumber(v.left)
		c.renumber(v.right)
	case *singleConjNode:
		c.renumber(v.left)
		c.renumber(v.right)
	case *singleDisjNode:
		c.renumber(v.left)
		c.renumber(v.right)
	case *singleNegNode:
		c.renumber(v.operand)
	}
}

func (c *compiler) compileToken(t astToken) (node, error) {
	switch t.kind {
	case tokenWildcard:
		return wildcardNode{}, nil
	case tokenStartAnchor:
		return startAnchorNode{}, nil
	case tokenEndAnchor:
		return endAnchorNode{}, nil
	case tokenBracketed:
		return c.compileTokenBody(t.body)
	default:
		return nil, invalidPattern(c.source, t.pos, "internal error: unrecognized token kind")
	}
}

func (c *compiler) compileTokenBody(b *astTokenBody) (singleTokenNode, error) {
	left, err := c.compileTokenBodyAtom(b.first)
	if err != nil {
		return nil, err
	}
	for _, link := range b.chain {
		right, err := c.compileTokenBodyAtom(link.atom)
		if err != nil {
			return nil, err
		}
		if link.op == '&' {
			left = &singleConjNode{left: left, right: right}
		} else {
			left = &singleDisjNode{left: left, right: right}
		}
	}
	return left, nil
}

func (c *compiler) compileTokenBodyAtom(a astTokenBodyAtom) (singleTokenNode, error) {
	switch v := a.(type) {
	case astKVAtom:
		return c.compileKV(v.kv)
	case astGroupedAtom:
		return c.compileTokenBody(v.body)
	case astNegatedAtom:
		inner, err := c.compileTokenBodyAtom(v.inner)
		if err != nil {
			return nil, err
		}
		return &singleNegNode{operand: inner}, nil
	default:
		return nil, invalidPattern(c.source, a.astPos(), "internal error: unrecognized token_body_atom %T", a)
	}
}

func (c *compiler) compileKV(kv astKV) (singleTokenNode, error) {
	switch kv.kind {
	case kvNegatedKey:
		return &nullCheckNode{key: kv.key}, nil
	case kvKeyNumericOp:
		return &intCompareNode{key: kv.key, op: kv.op, n: kv.number}, nil
	case kvKeyValue:
		return c.compileValue(kv.key, kv.value)
	default:
		return nil, invalidPattern(c.source, kv.pos, "internal error: unrecognized kv kind")
	}
}

// compileValue folds a value production into a single-token node. A Regex
// value whose body contains none of the regular-expression metacharacters
// is downgraded to a plain literal match, sidestepping regexp2 compilation
// (and its backtracking cost) for what amounts to an exact string.
func (c *compiler) compileValue(key string, v astValue) (singleTokenNode, error) {
	if v.kind == valRegex {
		if isPlainLiteral(v.text) {
			return &literalNode{key: key, value: v.text, caseInsensitive: false}, nil
		}
		re, err := compileCachedRegex(`\A(?:` + v.text + `)\z`)
		if err != nil {
			return nil, invalidPattern(c.source, v.pos, "invalid regex /%s/: %v", v.text, err)
		}
		return &regexNode{key: key, source: v.text, re: re, names: re.GetGroupNames()}, nil
	}
	return &literalNode{key: key, value: v.text, caseInsensitive: true}, nil
}

const regexMetacharacters = `\[]^$&|{}?*.+`

func isPlainLiteral(s string) bool {
	return !strings.ContainsAny(s, regexMetacharacters)
}
