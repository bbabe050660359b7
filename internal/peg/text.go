package peg

import (
	"fmt"
)

// Underlying types implemented Pattern interface.
type (
	patternText struct {
		text string
	}
)

// T matches text literally.
func T(text string) Pattern {
	if len(text) == 0 {
		return True
	}
	return &patternText{text: text}
}

// Matches text.
func (pat *patternText) match(ctx *context) error {
	text := ctx.readNext(len(pat.text))
	if text == pat.text {
		ctx.consume(len(text))
		return ctx.returnsMatched()
	}
	return ctx.returnsPredication(false)
}

func (pat *patternText) String() string {
	return fmt.Sprintf("%q", pat.text)
}
