// Package pegutil provides lexical building blocks for Parsing Expression
// Grammars, adapted here from a general-purpose utility package into the
// scanning substrate for the token-regex DSL's lexer (package tokregex).
// Only the rune classes the lexer's digit and trivia productions actually
// use are carried over.
//
// Integer/float/identifier literals and TCP/IP and URI address literals
// from the original utility package are not carried here: the DSL lexer
// builds its own number and identifier productions directly out of R/NS in
// lexer.go, so nothing in this module can exercise a separately-packaged
// literal grammar (see DESIGN.md).
package pegutil

import (
	peg "github.com/coreferentai/tokregex/internal/peg"
)

var (
	// DecDigit matches a single decimal digit.
	DecDigit = peg.R('0', '9')

	// Whitespace matches a single Unicode whitespace rune.
	Whitespace = peg.U("White_Space")
)
