package peg

import (
	"fmt"
)

// Underlying types implemented Pattern interface.
type (
	patternCaptureToken struct {
		pat     Pattern
		toktype int
		cons    TerminalConstructor
	}
)

// CK constructs Token-typed terminals from matched text.
func CK(toktype int, pat Pattern) Pattern {
	return &patternCaptureToken{
		pat:     pat,
		toktype: toktype,
		cons:    newTokenConstructor(toktype),
	}
}

func newTokenConstructor(toktype int) TerminalConstructor {
	return func(span string, pos Position) (Capture, error) {
		return &Token{Type: toktype, Value: span, Position: pos}, nil
	}
}

// Captures text to construct a token.
func (pat *patternCaptureToken) match(ctx *context) error {
	if !ctx.justReturned() {
		return ctx.call(pat.pat)
	}

	ret := ctx.ret
	if !ret.ok {
		return ctx.returnsPredication(false)
	}

	head := ctx.tell()
	ctx.consume(ret.n)
	term, err := pat.cons(ctx.span(), head)
	if err != nil {
		return err
	}
	err = ctx.push(term)
	if err != nil {
		return err
	}
	return ctx.returnsMatched()
}

func (pat *patternCaptureToken) String() string {
	return fmt.Sprintf("token_%d{%s}", pat.toktype, pat.pat)
}
