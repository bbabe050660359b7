package tokregex

// Token is the alphabet element matched by this engine: a read-only mapping
// from string keys to optional string values. Absence of a key is
// first-class and distinct from an empty-string value.
type Token interface {
	// Get returns the value stored under key, and whether key is present at
	// all. A token with no "ner" annotation returns ("", false); a token
	// explicitly annotated with an empty string returns ("", true).
	Get(key string) (value string, ok bool)
}

// Sequence is an ordered, finite, 0-indexed sequence of tokens. It must stay
// immutable for the lifetime of any Matcher built over it.
type Sequence interface {
	Len() int
	At(i int) Token
}

// sliceSequence is the default Sequence, backed by a plain slice of Token.
type sliceSequence []Token

// NewSequence wraps tokens as a Sequence. The slice is not copied; callers
// must not mutate it while a Matcher over it is in use.
func NewSequence(tokens []Token) Sequence {
	return sliceSequence(tokens)
}

func (s sliceSequence) Len() int      { return len(s) }
func (s sliceSequence) At(i int) Token { return s[i] }
