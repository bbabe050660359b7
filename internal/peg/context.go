package peg

import "unicode/utf8"

// Running state of pattern matching. match() walks the Pattern tree without
// recursing the Go call stack: each patternX.match(ctx) either pushes a
// stack frame and calls into a sub-pattern, or pops one and reports a
// result to its caller, driven entirely by the trampoline in (*context).match.
type context struct {
	config Config

	text  string // current matched text is text[at-n:at]
	at    int
	n     int
	pcalc positionCalculator

	// Current stack frame.
	pat    Pattern
	locals localValues
	isret  bool
	ret    returnValues // allow accessing from pat.match(ctx)

	// Call stack.
	levels    int
	callstack []stackFrame

	// Tokens captured by CK so far, in match order.
	capstack struct{ args []Capture }
}

// Local values of running pattern.
type localValues struct {
	i int // loop counter
}

// Return values of pattern match.
type returnValues struct {
	ok bool
	n  int
}

// Callstack frame.
type stackFrame struct {
	pat    Pattern
	at     int
	n      int
	locals localValues
	levels int
}

func newContext(pat Pattern, text string, config Config) *context {
	ctx := &context{
		text:  text,
		pcalc: positionCalculator{text: text},
		pat:   pat,
		config: config,
	}
	return ctx
}

// The main loop.
func (ctx *context) match() error {
	for ctx.pat != nil {
		// ctx.pat.match(ctx) yields when:
		//   1) return ctx.call(callee)
		//   2) return ctx.returns(ret)
		//      or return ctx.returnsPredication(ok)
		//      or return ctx.returnsMatched()
		//   3) return any_error
		if err := ctx.pat.match(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Invoke callee, backing up the stack frame and matching state.
func (ctx *context) call(callee Pattern) error {
	if ctx.config.CallstackLimit > 0 && ctx.levels >= ctx.config.CallstackLimit {
		return errorCallstackOverflow
	}
	ctx.callstack = append(ctx.callstack, stackFrame{
		pat:    ctx.pat,
		at:     ctx.at,
		n:      ctx.n,
		locals: ctx.locals,
		levels: ctx.levels,
	})
	ctx.levels++

	// skip the matched span.
	ctx.n = 0

	ctx.pat = callee
	ctx.locals = localValues{}
	ctx.isret = false
	ctx.ret = returnValues{}
	return nil
}

// Returns to uplevel, predicates if matched, empty text is matched text.
func (ctx *context) returnsPredication(ok bool) error {
	return ctx.returns(returnValues{ok: ok})
}

// Returns to uplevel, the consumed text is matched.
func (ctx *context) returnsMatched() error {
	return ctx.returns(returnValues{ok: true, n: ctx.n})
}

// Returns to uplevel.
func (ctx *context) returns(ret returnValues) error {
	ctx.isret = true
	ctx.ret = ret

	if len(ctx.callstack) == 0 {
		ctx.pat = nil
		return nil
	}

	if ctx.levels < 1 {
		return errorCornerCase
	}
	frame := ctx.callstack[len(ctx.callstack)-1]
	ctx.callstack = ctx.callstack[:len(ctx.callstack)-1]
	ctx.levels--

	ctx.pat = frame.pat
	ctx.at = frame.at
	ctx.n = frame.n
	ctx.locals = frame.locals
	ctx.levels = frame.levels
	return nil
}

// Tests if just returned from a callee.
func (ctx *context) justReturned() bool {
	isret := ctx.isret
	ctx.isret = false
	return isret
}

// Tests if the looping counter reached loop limit.
func (ctx *context) reachedLoopLimit() bool {
	return ctx.config.LoopLimit > 0 && ctx.locals.i >= ctx.config.LoopLimit
}

// Moves cursor forward.
func (ctx *context) consume(n int) {
	ctx.n += n
	ctx.at += n
}

// Tell the position of cursor.
func (ctx *context) tell() Position {
	if ctx.config.DisableLineColumnCounting {
		return Position{Offest: ctx.at}
	}
	return ctx.pcalc.calculate(ctx.at)
}

// Tell the matched text.
func (ctx *context) span() string {
	return ctx.text[ctx.at-ctx.n : ctx.at]
}

// Reads next n bytes.
func (ctx *context) readNext(n int) string {
	tail := ctx.text[ctx.at:]
	if len(tail) < n {
		return tail
	}
	return tail[:n]
}

// Reads next rune.
func (ctx *context) readRune() (r rune, n int) {
	return utf8.DecodeRuneInString(ctx.text[ctx.at:])
}

// Records a captured token.
func (ctx *context) push(cap Capture) error {
	if ctx.config.DisableCapturing {
		return nil
	}
	ctx.capstack.args = append(ctx.capstack.args, cap)
	return nil
}
