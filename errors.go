package tokregex

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidPatternError reports a compile-time failure: a lexer scan error, a
// parse error, or a semantic violation (unbound variable, invalid repeat
// bounds, integer literal overflow, negation over a multi-token pattern, a
// variable cycle). Source and Offset identify the offending construct.
type InvalidPatternError struct {
	Source string
	Offset int
	Reason string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("tokregex: invalid pattern at offset %d: %s", e.Offset, e.Reason)
}

func invalidPattern(source string, offset int, format string, args ...interface{}) error {
	return errors.WithStack(&InvalidPatternError{
		Source: source,
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
	})
}

// NoMatchError is raised by Start, End, Group and friends when there is no
// current match to report: matches/find has not yet succeeded on this
// Matcher, or Reset was called since.
type NoMatchError struct {
	Op string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("tokregex: %s called with no current match", e.Op)
}

func noMatch(op string) error {
	return errors.WithStack(&NoMatchError{Op: op})
}

// OutOfBoundsGroupError is raised when Group(id) is called with an id
// outside [0, slot count].
type OutOfBoundsGroupError struct {
	ID  int
	Max int
}

func (e *OutOfBoundsGroupError) Error() string {
	return fmt.Sprintf("tokregex: group id %d out of bounds (have %d groups)", e.ID, e.Max)
}

func outOfBoundsGroup(id, max int) error {
	return errors.WithStack(&OutOfBoundsGroupError{ID: id, Max: max})
}

// TimeoutError is raised when a match's wall-clock deadline expires
// mid-search.
type TimeoutError struct{}

func (e *TimeoutError) Error() string {
	return "tokregex: match deadline exceeded"
}

var errTimeout error = &TimeoutError{}

// NoSuchElementError names a programming error: a drained end-index
// iterator asked for another element. It is not part of the public error
// taxonomy in §7. Nothing in this module currently raises it: a drained
// iterseq.Seq keeps reporting false from Next.
type NoSuchElementError struct {
	Where string
}

func (e *NoSuchElementError) Error() string {
	return fmt.Sprintf("tokregex: NoSuchElement: %s", e.Where)
}
