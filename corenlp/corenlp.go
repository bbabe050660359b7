// Package corenlp adapts CoreNLP-style annotated-word sequences — the
// kind produced by a Stanford CoreNLP CoreLabel pipeline, a flat
// key/value map per word (word, lemma, pos, ner, ...) — into
// tokregex.Token and tokregex.Sequence. It carries no behaviour beyond
// that shape adaptation.
package corenlp

import "github.com/coreferentai/tokregex"

// MapToken implements tokregex.Token over a plain annotation map. Unlike a
// bare Go map, it distinguishes an explicitly empty-string annotation from
// an absent key: Get reports ok only for keys actually present in the
// source map.
type MapToken map[string]string

// Get implements tokregex.Token.
func (t MapToken) Get(key string) (value string, ok bool) {
	value, ok = t[key]
	return value, ok
}

// Sequence wraps tokens as a tokregex.Sequence, in order.
func Sequence(tokens []tokregex.Token) tokregex.Sequence {
	return tokregex.NewSequence(tokens)
}

// FromAnnotations adapts a document's worth of CoreNLP-style sentences —
// each one annotation map per word — into a single flat tokregex.Sequence,
// sentences concatenated in order.
func FromAnnotations(sentences [][]map[string]string) tokregex.Sequence {
	var tokens []tokregex.Token
	for _, sentence := range sentences {
		for _, ann := range sentence {
			tokens = append(tokens, MapToken(ann))
		}
	}
	return Sequence(tokens)
}
