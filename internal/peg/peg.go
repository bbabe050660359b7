// Package peg is the scanning engine behind the token-regex DSL's lexer
// (see tokregex.Lexer, tokregex/lexer.go). It is a trimmed-down Parsing
// Expression Grammar evaluator: just the combinators the lexer's token and
// trivia productions actually use, plus the trampoline that walks them
// without recursing the Go stack. It is not a general-purpose PEG library
// and is not part of the public tokregex API.
//
// Patterns are built by composing a handful of constructors:
//     T(text)                  literal text
//     Dot, NS(runes)           any rune, none-of rune
//     R(low, high, ...)        rune in range
//     U(unicoderangename)      rune in a named unicode range
//     Seq(pat, ...), Alt(pat, ...)
//     Not(pat)                 zero-width negative lookahead
//     Q0(pat), Q1(pat)         zero-or-more, one-or-more
//     CK(tokentype, pat)       captures matched text as a *Token
//
// A pattern is run with Match (full result, including captures) or
// MatchedPrefix (just the longest matching prefix, no captures).
package peg // import "github.com/coreferentai/tokregex/internal/peg"

import "fmt"

// Default limits of pattern matching.
const (
	DefaultCallstackLimit = 500
	DefaultLoopLimit      = 500
)

var defaultConfig = Config{
	CallstackLimit: DefaultCallstackLimit,
	LoopLimit:      DefaultLoopLimit,
}

type (
	// Pattern is the tree representation of a parsing expression.
	Pattern interface {
		match(ctx *context) error
		String() string
	}

	// Config bounds one run of pattern matching.
	Config struct {
		// Maximum callstack size, zero or negative for unlimited.
		CallstackLimit int

		// Maximum loop number for qualifiers, zero or negative for unlimited.
		LoopLimit int

		// Determines if the position calculation is disabled.
		DisableLineColumnCounting bool

		// Determines if token capturing is disabled.
		DisableCapturing bool
	}

	// Result stores the results from pattern matching.
	Result struct {
		// Is pattern matched and how many bytes matched.
		Ok bool
		N  int

		// Captured tokens, in the order CK produced them.
		Captures []Capture
	}

	// Capture stores a value produced by parse capturing. Token is the only
	// Capture implementation the lexer needs.
	Capture interface {
		// IsTerminal tells if it is a terminal type.
		IsTerminal() bool
	}

	// Token is a piece of typed text and its position in the source.
	Token struct {
		Type     int
		Value    string
		Position Position
	}

	// TerminalConstructor builds a Capture from a matched span and its
	// starting position.
	TerminalConstructor func(string, Position) (Capture, error)
)

// MatchedPrefix returns the matched prefix of text when successfully matched.
func MatchedPrefix(pat Pattern, text string) (prefix string, ok bool) {
	config := defaultConfig
	config.DisableLineColumnCounting = true
	config.DisableCapturing = true
	r, err := ConfiguredMatch(config, pat, text)
	if err != nil || !r.Ok {
		return "", false
	}
	return text[:r.N], true
}

// Match runs pattern matching on given text, using the default configuration.
// Returns nil result if any error occurs.
func Match(pat Pattern, text string) (result *Result, err error) {
	return ConfiguredMatch(defaultConfig, pat, text)
}

// ConfiguredMatch runs pattern matching on text, using given configuration.
func ConfiguredMatch(config Config, pat Pattern, text string) (result *Result, err error) {
	if pat == nil {
		return nil, errorNilMainPattern
	}

	ctx := newContext(pat, text, config)
	if err := ctx.match(); err != nil {
		return nil, err
	}

	if ctx.ret.ok {
		return &Result{Ok: true, N: ctx.ret.n, Captures: ctx.capstack.args}, nil
	}
	return &Result{}, nil
}

// IsTerminal always returns true for a Token.
func (tok *Token) IsTerminal() bool {
	return true
}

func (tok *Token) String() string {
	return fmt.Sprintf("token_%d%q@%s", tok.Type, tok.Value, tok.Position.String())
}
