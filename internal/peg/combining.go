package peg

import (
	"fmt"
	"strings"
)

// Underlying types implemented Pattern interface.
type (
	patternSequence struct {
		pats []Pattern
	}

	patternAlternative struct {
		pats []Pattern
	}

	patternQualifierAtLeast struct {
		n   int
		pat Pattern
	}
)

// Seq matches patterns in order, it dismatches only if
// any pattern in the sequence dismatches.
func Seq(sequence ...Pattern) Pattern {
	if len(sequence) == 0 {
		return &patternBoolean{true}
	}
	return &patternSequence{sequence}
}

// Alt searches the first match in order, it matches only if
// any pattern in choices matches.
func Alt(choices ...Pattern) Pattern {
	if len(choices) == 0 {
		return &patternBoolean{false}
	}
	return &patternAlternative{choices}
}

// Q0 matches pattern repeated any times.
func Q0(pat Pattern) Pattern {
	return &patternQualifierAtLeast{n: 0, pat: pat}
}

// Q1 matches pattern repeated at least one time.
func Q1(pat Pattern) Pattern {
	return &patternQualifierAtLeast{n: 1, pat: pat}
}

// Matches if all the sub-patterns match in order.
func (pat *patternSequence) match(ctx *context) error {
	for ctx.locals.i < len(pat.pats) {
		if !ctx.justReturned() {
			return ctx.call(pat.pats[ctx.locals.i])
		}

		ret := ctx.ret
		if !ret.ok {
			return ctx.returnsPredication(false)
		}
		ctx.consume(ret.n)
		ctx.locals.i++
	}
	return ctx.returnsMatched()
}

// Matches if any sub-pattern matches, searches in order.
func (pat *patternAlternative) match(ctx *context) error {
	for ctx.locals.i < len(pat.pats) {
		if !ctx.justReturned() {
			return ctx.call(pat.pats[ctx.locals.i])
		}

		ret := ctx.ret
		if ret.ok {
			ctx.consume(ret.n)
			return ctx.returnsMatched()
		}
		ctx.locals.i++
	}
	return ctx.returnsPredication(false)
}

// Matches at least n times.
func (pat *patternQualifierAtLeast) match(ctx *context) error {
	for {
		if ctx.reachedLoopLimit() {
			return errorReachedLoopLimit
		}

		if !ctx.justReturned() {
			return ctx.call(pat.pat)
		}

		ret := ctx.ret
		if !ret.ok {
			if ctx.locals.i < pat.n {
				return ctx.returnsPredication(false)
			}
			return ctx.returnsMatched()
		}
		ctx.consume(ret.n)
		ctx.locals.i++
	}
}

func (pat *patternSequence) String() string {
	strs := make([]string, len(pat.pats))
	for i, pat := range pat.pats {
		strs[i] = fmt.Sprint(pat)
	}
	return fmt.Sprintf("(%s)", strings.Join(strs, " "))
}

func (pat *patternAlternative) String() string {
	strs := make([]string, len(pat.pats))
	for i, pat := range pat.pats {
		strs[i] = fmt.Sprint(pat)
	}
	return fmt.Sprintf("(%s)", strings.Join(strs, " | "))
}

func (pat *patternQualifierAtLeast) String() string {
	switch pat.n {
	case 0:
		return fmt.Sprintf("%s *", pat.pat)
	case 1:
		return fmt.Sprintf("%s +", pat.pat)
	default:
		return fmt.Sprintf("%s <%d..>", pat.pat, pat.n)
	}
}
