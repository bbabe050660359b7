package tokregex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *astPattern {
	t.Helper()
	p, err := parseSource(src)
	require.NoError(t, err, "parsing %q", src)
	return p
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	_, err := parseSource(src)
	require.Error(t, err, "expected %q to fail to parse", src)
	return err
}

func TestParser_BareLiteralDesugarsToDefaultKeyValue(t *testing.T) {
	p := mustParse(t, `"dog"`)
	require.Len(t, p.atoms, 1)
	tok := p.atoms[0].(astTokenAtom).tok
	require.Equal(t, tokenBracketed, tok.kind)
	kv := tok.body.first.(astKVAtom).kv
	assert.Equal(t, kvKeyValue, kv.kind)
	assert.Equal(t, "", kv.key)
	assert.Equal(t, valQuoted, kv.value.kind)
	assert.Equal(t, "dog", kv.value.text)
}

func TestParser_BracketedKeyedValue(t *testing.T) {
	p := mustParse(t, `[pos:"NNP"]`)
	tok := p.atoms[0].(astTokenAtom).tok
	kv := tok.body.first.(astKVAtom).kv
	assert.Equal(t, "pos", kv.key)
	assert.Equal(t, "NNP", kv.value.text)
}

func TestParser_BareValueCannotBeBracketed(t *testing.T) {
	// A value alone, quoted or not, can never satisfy key_value_pair's
	// requirement for a leading Unquoted key.
	parseErr(t, `["dog"]`)
	parseErr(t, `[dog]`)
}

func TestParser_Wildcard(t *testing.T) {
	p := mustParse(t, `[]`)
	tok := p.atoms[0].(astTokenAtom).tok
	assert.Equal(t, tokenWildcard, tok.kind)
}

func TestParser_Anchors(t *testing.T) {
	p := mustParse(t, `^ "a" $`)
	require.Len(t, p.atoms, 3)
	assert.Equal(t, tokenStartAnchor, p.atoms[0].(astTokenAtom).tok.kind)
	assert.Equal(t, tokenEndAnchor, p.atoms[2].(astTokenAtom).tok.kind)
}

func TestParser_NullCheckBracketed(t *testing.T) {
	p := mustParse(t, `[!ner]`)
	kv := p.atoms[0].(astTokenAtom).tok.body.first.(astKVAtom).kv
	assert.Equal(t, kvNegatedKey, kv.kind)
	assert.Equal(t, "ner", kv.key)
}

func TestParser_NullCheckBareShorthand(t *testing.T) {
	p := mustParse(t, `!ner`)
	kv := p.atoms[0].(astTokenAtom).tok.body.first.(astKVAtom).kv
	assert.Equal(t, kvNegatedKey, kv.kind)
	assert.Equal(t, "ner", kv.key)
}

func TestParser_NegationOfGroupedAtom(t *testing.T) {
	// '!' followed by '(' is general negation over a nested grouped atom,
	// not the null-check shorthand (which requires a bare Unquoted key).
	p := mustParse(t, `[!(pos:"NN")]`)
	neg, ok := p.atoms[0].(astTokenAtom).tok.body.first.(astNegatedAtom)
	require.True(t, ok)
	grouped, ok := neg.inner.(astGroupedAtom)
	require.True(t, ok)
	kv := grouped.body.first.(astKVAtom).kv
	assert.Equal(t, "pos", kv.key)
}

func TestParser_DoubleNegation(t *testing.T) {
	p := mustParse(t, `[!!ner]`)
	outer, ok := p.atoms[0].(astTokenAtom).tok.body.first.(astNegatedAtom)
	require.True(t, ok)
	inner, ok := outer.inner.(astKVAtom)
	require.True(t, ok)
	assert.Equal(t, kvNegatedKey, inner.kv.kind)
}

func TestParser_TokenBodyConjunctionAndNegation(t *testing.T) {
	p := mustParse(t, `[pos:"NN" & !ner]`)
	body := p.atoms[0].(astTokenAtom).tok.body
	require.Len(t, body.chain, 1)
	assert.Equal(t, byte('&'), body.chain[0].op)
	neg, ok := body.chain[0].atom.(astNegatedAtom)
	require.True(t, ok)
	kv := neg.inner.(astKVAtom).kv
	assert.Equal(t, kvNegatedKey, kv.kind)
	assert.Equal(t, "ner", kv.key)
}

func TestParser_NumericComparisonOperators(t *testing.T) {
	cases := map[string]numericOp{
		"[count<5]":  opLT,
		"[count<=5]": opLE,
		"[count>5]":  opGT,
		"[count>=5]": opGE,
		"[count=5]":  opEQ,
		"[count==5]": opEQ,
		"[count!=5]": opNE,
	}
	for src, want := range cases {
		p := mustParse(t, src)
		kv := p.atoms[0].(astTokenAtom).tok.body.first.(astKVAtom).kv
		assert.Equal(t, want, kv.op, src)
		assert.Equal(t, int64(5), kv.number, src)
	}
}

func TestParser_BareShorthandChain(t *testing.T) {
	p := mustParse(t, `:"a">5`)
	body := p.atoms[0].(astTokenAtom).tok.body
	require.Len(t, body.chain, 1)
	first := body.first.(astKVAtom).kv
	assert.Equal(t, kvKeyValue, first.kind)
	second := body.chain[0].atom.(astKVAtom).kv
	assert.Equal(t, kvKeyNumericOp, second.kind)
	assert.Equal(t, opGT, second.op)
}

func TestParser_GroupedTokenBody(t *testing.T) {
	p := mustParse(t, `[(pos:"NN" | pos:"NNS") & !ner]`)
	body := p.atoms[0].(astTokenAtom).tok.body
	grouped, ok := body.first.(astGroupedAtom)
	require.True(t, ok)
	assert.Len(t, grouped.body.chain, 1)
	assert.Equal(t, byte('|'), grouped.body.chain[0].op)
}

func TestParser_RepeatForms(t *testing.T) {
	cases := map[string]struct{ min, max int64 }{
		`"a"{2,3}`: {2, 3},
		`"a"{2,}`:  {2, unboundedRepeat},
		`"a"{2}`:   {2, 2},
		`"a"*`:     {0, unboundedRepeat},
		`"a"+`:     {1, unboundedRepeat},
		`"a"?`:     {0, 1},
	}
	for src, want := range cases {
		p := mustParse(t, src)
		r := p.atoms[0].(astRepeatAtom)
		assert.Equal(t, want.min, r.min, src)
		assert.Equal(t, want.max, r.max, src)
		assert.False(t, r.reluctant, src)
	}
}

func TestParser_ReluctantRepeat(t *testing.T) {
	p := mustParse(t, `"a"{0,}?`)
	r := p.atoms[0].(astRepeatAtom)
	assert.True(t, r.reluctant)
}

func TestParser_InvalidRepeatBoundsIsError(t *testing.T) {
	parseErr(t, `"a"{5,2}`)
}

func TestParser_NamedCapture(t *testing.T) {
	p := mustParse(t, `(?<noun>[] [])`)
	pa := p.atoms[0].(astParenAtom)
	assert.True(t, pa.named)
	assert.Equal(t, "noun", pa.name)
	assert.Len(t, pa.pattern.atoms, 2)
}

func TestParser_LegacyNamedCapture(t *testing.T) {
	p := mustParse(t, `(?$noun [])`)
	pa := p.atoms[0].(astParenAtom)
	assert.True(t, pa.named)
	assert.Equal(t, "noun", pa.name)
}

func TestParser_AnonymousCapture(t *testing.T) {
	p := mustParse(t, `("a" "b")`)
	pa := p.atoms[0].(astParenAtom)
	assert.False(t, pa.named)
	assert.Equal(t, "", pa.name)
}

func TestParser_VariableReference(t *testing.T) {
	p := mustParse(t, `$word`)
	v := p.atoms[0].(astVariableAtom)
	assert.Equal(t, "word", v.name)
}

func TestParser_PatternConjunctionIsRightAssociative(t *testing.T) {
	p := mustParse(t, `"a" & "b" & "c"`)
	assert.Equal(t, byte('&'), p.op)
	require.NotNil(t, p.rest)
	assert.Equal(t, byte('&'), p.rest.op)
	require.NotNil(t, p.rest.rest)
	assert.Equal(t, byte(0), p.rest.rest.op)
}

func TestParser_TrailingInputIsError(t *testing.T) {
	parseErr(t, `"a" )`)
}

func TestParser_EmptySourceIsEmptyPattern(t *testing.T) {
	p := mustParse(t, ``)
	assert.Empty(t, p.atoms)
	assert.Equal(t, byte(0), p.op)
}

func TestParser_UnboundKeyWithoutOperatorIsError(t *testing.T) {
	parseErr(t, `[pos]`)
}
