package peg

import (
	"fmt"
)

var (
	// True always matches, but consumes no text.
	True Pattern = &patternBoolean{true}

	// False always dismatch.
	False Pattern = &patternBoolean{false}
)

// Underlying types implemented Pattern interface.
type (
	patternBoolean struct {
		ok bool
	}

	patternPredicate struct {
		not bool
		pat Pattern
	}
)

// Not predicates if pattern is dismatched, consuming no text.
//
// Note that, if predicates true, captures won't be discarded.
func Not(pat Pattern) Pattern {
	return &patternPredicate{not: true, pat: pat}
}

// Matches empty string if true, dismatches if false.
func (pat *patternBoolean) match(ctx *context) error {
	return ctx.returnsPredication(pat.ok)
}

// Predicates if sub-pattern matches.
func (pat *patternPredicate) match(ctx *context) error {
	if !ctx.justReturned() {
		return ctx.call(pat.pat)
	}

	ret := ctx.ret
	if pat.not {
		ret.ok = !ret.ok
	}
	return ctx.returnsPredication(ret.ok)
}

func (pat *patternBoolean) String() string {
	if pat.ok {
		return "true"
	}
	return "false"
}

func (pat *patternPredicate) String() string {
	if pat.not {
		return fmt.Sprintf("!%s", pat.pat)
	}
	return fmt.Sprintf("?%s", pat.pat)
}
