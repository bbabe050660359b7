package peg

import (
	"fmt"
)

var (
	errorCornerCase        = errorf("this corner case should never be reached")
	errorCallstackOverflow = errorf("callstack overflow")
	errorReachedLoopLimit  = errorf("loop limit is reached")
	errorNilMainPattern    = errorf("the main pattern is nil")

	errorUndefinedUnicodeRanges = func(name string) error {
		return errorf("unicode class name %q undefined", name)
	}
)

type pegError struct {
	value string
}

func errorf(format string, v ...interface{}) error {
	return &pegError{fmt.Sprintf(format, v...)}
}

func (err *pegError) Error() string {
	return "peg: " + err.value
}
