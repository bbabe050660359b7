package tokregex

import (
	"fmt"

	ipeg "github.com/coreferentai/tokregex/internal/peg"
	"github.com/coreferentai/tokregex/internal/peg/pegutil"
)

// LexemeKind enumerates the terminal symbols of the pattern grammar.
type LexemeKind int

const (
	LexEOF LexemeKind = iota
	LexOpenBrace
	LexCloseBrace
	LexOpenSquare
	LexCloseSquare
	LexOpenParen
	LexCloseParen
	LexColon
	LexAnd
	LexOr
	LexNot
	LexPlus
	LexStar
	LexQMark
	LexComma
	LexDollar
	LexCaret
	LexLT
	LexGT
	LexEQ
	LexNumber
	LexUnquotedString
	LexQuotedString
	LexRegexLiteral
	LexUnterminatedString
	LexUnterminatedRegex
	LexVariable
)

func (k LexemeKind) String() string {
	switch k {
	case LexEOF:
		return "EOF"
	case LexOpenBrace:
		return "'{'"
	case LexCloseBrace:
		return "'}'"
	case LexOpenSquare:
		return "'['"
	case LexCloseSquare:
		return "']'"
	case LexOpenParen:
		return "'('"
	case LexCloseParen:
		return "')'"
	case LexColon:
		return "':'"
	case LexAnd:
		return "'&'"
	case LexOr:
		return "'|'"
	case LexNot:
		return "'!'"
	case LexPlus:
		return "'+'"
	case LexStar:
		return "'*'"
	case LexQMark:
		return "'?'"
	case LexComma:
		return "','"
	case LexDollar:
		return "'$'"
	case LexCaret:
		return "'^'"
	case LexLT:
		return "'<'"
	case LexGT:
		return "'>'"
	case LexEQ:
		return "'='"
	case LexNumber:
		return "number"
	case LexUnquotedString:
		return "unquoted string"
	case LexQuotedString:
		return "quoted string"
	case LexRegexLiteral:
		return "regex literal"
	case LexUnterminatedString:
		return "unterminated quoted string"
	case LexUnterminatedRegex:
		return "unterminated regex literal"
	case LexVariable:
		return "variable"
	default:
		return fmt.Sprintf("lexeme(%d)", int(k))
	}
}

// Lexeme is a single scanned terminal, with its raw text and source offset.
type Lexeme struct {
	Kind  LexemeKind
	Value string
	Pos   int
}

// punctuation is tried before the free-form literal productions, longest
// alternative first within each fixed-width class.
var punctuation = ipeg.Alt(
	ipeg.CK(int(LexOpenBrace), ipeg.T("{")),
	ipeg.CK(int(LexCloseBrace), ipeg.T("}")),
	ipeg.CK(int(LexOpenSquare), ipeg.T("[")),
	ipeg.CK(int(LexCloseSquare), ipeg.T("]")),
	ipeg.CK(int(LexOpenParen), ipeg.T("(")),
	ipeg.CK(int(LexCloseParen), ipeg.T(")")),
	ipeg.CK(int(LexColon), ipeg.T(":")),
	ipeg.CK(int(LexAnd), ipeg.T("&")),
	ipeg.CK(int(LexOr), ipeg.T("|")),
	ipeg.CK(int(LexNot), ipeg.T("!")),
	ipeg.CK(int(LexPlus), ipeg.T("+")),
	ipeg.CK(int(LexStar), ipeg.T("*")),
	ipeg.CK(int(LexQMark), ipeg.T("?")),
	ipeg.CK(int(LexComma), ipeg.T(",")),
	ipeg.CK(int(LexCaret), ipeg.T("^")),
	ipeg.CK(int(LexLT), ipeg.T("<")),
	ipeg.CK(int(LexGT), ipeg.T(">")),
	ipeg.CK(int(LexEQ), ipeg.T("=")),
)

// number is `-*[0-9]+`; fold-of-dashes happens later, in parseSignedNumber.
var numberBody = ipeg.Seq(ipeg.Q0(ipeg.T("-")), ipeg.Q1(pegutil.DecDigit))
var number = ipeg.CK(int(LexNumber), numberBody)

// unquotedSpecial is the set of runes that terminate (or cannot start) an
// unquoted string literal: grammar punctuation, quote/slash delimiters, and
// whitespace.
const unquotedSpecial = "{}[]():&|!+*?,$^<>=\"/ \t\n\r\v\f"

var unquotedHead = ipeg.NS(unquotedSpecial + "0123456789-")
var unquotedTail = ipeg.NS(unquotedSpecial)
var unquotedBody = ipeg.Alt(
	ipeg.Seq(ipeg.Q1(ipeg.T("-")), unquotedHead, ipeg.Q0(unquotedTail)),
	ipeg.Seq(unquotedHead, ipeg.Q0(unquotedTail)),
	ipeg.Q1(ipeg.T("-")),
)
var unquoted = ipeg.CK(int(LexUnquotedString), unquotedBody)

// quoted string: `"` body `"`, with `\"` and `\\` escapes. A body that never
// finds its closing quote (end of line or end of input) is still lexed, as
// a distinct LexUnterminatedString lexeme, so the parser can report a
// precise offset instead of a generic scan failure.
var quotedEscape = ipeg.Alt(ipeg.T(`\"`), ipeg.T(`\\`))
var quotedBody = ipeg.Q0(ipeg.Alt(quotedEscape, ipeg.NS("\"\\\r\n")))
var quotedClosed = ipeg.Seq(ipeg.T(`"`), quotedBody, ipeg.T(`"`))
var quotedUnterminated = ipeg.Seq(ipeg.T(`"`), quotedBody)
var quoted = ipeg.Alt(
	ipeg.CK(int(LexQuotedString), quotedClosed),
	ipeg.CK(int(LexUnterminatedString), quotedUnterminated),
)

// regex literal: `/` body `/`, with `\/` and `\\` escapes, never empty. A
// leading `/*` is a block comment, not a regex, so it is excluded here and
// handled instead by the trivia pattern tried before tokenPattern.
var regexEscape = ipeg.Alt(ipeg.T(`\/`), ipeg.T(`\\`))
var regexBody = ipeg.Q1(ipeg.Alt(regexEscape, ipeg.NS("/\\\n")))
var regexClosed = ipeg.Seq(ipeg.T("/"), ipeg.Not(ipeg.T("*")), regexBody, ipeg.T("/"))
var regexUnterminated = ipeg.Seq(ipeg.T("/"), ipeg.Not(ipeg.T("*")), regexBody)
var regexLiteral = ipeg.Alt(
	ipeg.CK(int(LexRegexLiteral), regexClosed),
	ipeg.CK(int(LexUnterminatedRegex), regexUnterminated),
)

// variable: `$` followed by an unquoted identifier head+tail run (reusing
// the same non-special character classes as UnquotedStringLiteral, minus
// the dash-prefix sugar which has no meaning after a `$`). A bare `$` with
// no identifier following it is instead the end-of-sequence anchor token;
// variable is tried first so the longer match wins when an identifier is
// present.
var variableBody = ipeg.Seq(ipeg.T("$"), unquotedHead, ipeg.Q0(unquotedTail))
var dollarOrVariable = ipeg.Alt(
	ipeg.CK(int(LexVariable), variableBody),
	ipeg.CK(int(LexDollar), ipeg.T("$")),
)

// lineComment and blockComment are discarded trivia, never surfaced as
// lexemes.
var lineComment = ipeg.Seq(ipeg.T("//"), ipeg.Q0(ipeg.NS("\n")))
var blockComment = ipeg.Seq(ipeg.T("/*"), ipeg.Q0(ipeg.Seq(ipeg.Not(ipeg.T("*/")), ipeg.Dot)), ipeg.T("*/"))
var trivia = ipeg.Q0(ipeg.Alt(pegutil.Whitespace, blockComment, lineComment))

// tokenPattern recognises exactly one lexeme at the current position. Order
// matters only where prefixes overlap: number must be tried before unquoted,
// since both can start with '-' or a digit. The other alternatives start
// with distinct runes ('"', '/', '$' are special and excluded from
// unquotedHead), so their relative order does not matter.
var tokenPattern = ipeg.Alt(
	punctuation,
	number,
	quoted,
	regexLiteral,
	dollarOrVariable,
	unquoted,
)

// Lexer scans DSL source text into a stream of Lexeme values. It is used
// once per Compile call and discarded; it carries no state beyond its
// cursor into the source string.
type Lexer struct {
	source string
	offset int
}

// NewLexer returns a Lexer positioned at the start of source.
func NewLexer(source string) *Lexer {
	return &Lexer{source: source}
}

// Next scans and returns the next lexeme, advancing the cursor past it.
// Repeated calls after LexEOF keep returning LexEOF. A scan failure (a
// character that starts none of the recognised productions) is reported as
// an *InvalidPatternError.
func (lx *Lexer) Next() (Lexeme, error) {
	if r, ok := ipeg.MatchedPrefix(trivia, lx.source[lx.offset:]); ok {
		lx.offset += len(r)
	}

	if lx.offset >= len(lx.source) {
		return Lexeme{Kind: LexEOF, Pos: lx.offset}, nil
	}

	rest := lx.source[lx.offset:]
	result, err := ipeg.Match(tokenPattern, rest)
	if err != nil {
		return Lexeme{}, invalidPattern(lx.source, lx.offset, "lexer error: %v", err)
	}
	if !result.Ok || len(result.Captures) == 0 {
		return Lexeme{}, invalidPattern(lx.source, lx.offset,
			"unrecognized character %q", firstRune(rest))
	}

	tok, ok := result.Captures[0].(*ipeg.Token)
	if !ok {
		return Lexeme{}, invalidPattern(lx.source, lx.offset, "internal lexer error: non-token capture")
	}

	pos := lx.offset
	lx.offset += result.N
	return Lexeme{Kind: LexemeKind(tok.Type), Value: tok.Value, Pos: pos}, nil
}

// Peek returns the next lexeme without advancing the cursor.
func (lx *Lexer) Peek() (Lexeme, error) {
	save := lx.offset
	lex, err := lx.Next()
	lx.offset = save
	return lex, err
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
