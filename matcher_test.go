package tokregex

import (
	"context"
	"testing"
	"time"

	"github.com/coreferentai/tokregex/internal/iterseq"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testToken map[string]string

func (t testToken) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

func words(ws ...string) Sequence {
	toks := make([]Token, len(ws))
	for i, w := range ws {
		toks[i] = testToken{"word": w}
	}
	return NewSequence(toks)
}

func seqOf(maps ...map[string]string) Sequence {
	toks := make([]Token, len(maps))
	for i, mm := range maps {
		toks[i] = testToken(mm)
	}
	return NewSequence(toks)
}

func mustCompile(t *testing.T, src string) *Pattern {
	t.Helper()
	p, err := Compile(src)
	require.NoError(t, err, "compiling %q", src)
	return p
}

// S1: a literal word match.
func TestMatches_Literal(t *testing.T) {
	p := mustCompile(t, `"dog"`)
	m := p.Matcher(words("dog"))
	ok, err := m.Matches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	m2 := p.Matcher(words("cat"))
	ok, err = m2.Matches(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

// Literal matches are case-insensitive.
func TestMatches_LiteralCaseInsensitive(t *testing.T) {
	p := mustCompile(t, `[word:"Dog"]`)
	m := p.Matcher(words("DOG"))
	ok, err := m.Matches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

// S2: a bracketed key/value match against a CoreNLP-shaped token.
func TestMatches_KeyedValue(t *testing.T) {
	p := mustCompile(t, `[pos:"NNP"]`)
	m := p.Matcher(seqOf(map[string]string{"word": "Paris", "pos": "NNP"}))
	ok, err := m.Matches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

// A bare literal desugars onto the default key.
func TestMatches_BareDefaultKey(t *testing.T) {
	p := mustCompile(t, `hello`)
	m := p.Matcher(seqOf(map[string]string{"": "hello"}))
	ok, err := m.Matches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatches_Wildcard(t *testing.T) {
	p := mustCompile(t, `[] []`)
	ok, err := p.Matcher(words("a", "b")).Matches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matcher(words("a")).Matches(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatches_NullCheck(t *testing.T) {
	p := mustCompile(t, `[!ner]`)
	ok, err := p.Matcher(seqOf(map[string]string{"word": "the"})).Matches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matcher(seqOf(map[string]string{"word": "the", "ner": "O"})).Matches(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatches_NumericComparison(t *testing.T) {
	p := mustCompile(t, `[count>5]`)
	ok, err := p.Matcher(seqOf(map[string]string{"count": "10"})).Matches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matcher(seqOf(map[string]string{"count": "3"})).Matches(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	// Malformed numeric value is a non-match, not an error.
	ok, err = p.Matcher(seqOf(map[string]string{"count": "abc"})).Matches(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatches_Repeat(t *testing.T) {
	p := mustCompile(t, `"a"{2,3}`)
	for _, n := range []int{1, 2, 3, 4} {
		ws := make([]string, n)
		for i := range ws {
			ws[i] = "a"
		}
		ok, err := p.Matcher(words(ws...)).Matches(context.Background())
		require.NoError(t, err)
		assert.Equal(t, n == 2 || n == 3, ok, "n=%d", n)
	}
}

func TestMatches_Anchors(t *testing.T) {
	p := mustCompile(t, `^ "a" $`)
	ok, err := p.Matcher(words("a")).Matches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matcher(words("a", "b")).Matches(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatches_Disjunction(t *testing.T) {
	p := mustCompile(t, `"cat" | "dog"`)
	for _, w := range []string{"cat", "dog"} {
		ok, err := p.Matcher(words(w)).Matches(context.Background())
		require.NoError(t, err)
		assert.True(t, ok, w)
	}
	ok, err := p.Matcher(words("fish")).Matches(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatches_TokenBodyConjunctionAndNegation(t *testing.T) {
	p := mustCompile(t, `[pos:"NN" & !ner]`)
	ok, err := p.Matcher(seqOf(map[string]string{"pos": "NN"})).Matches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matcher(seqOf(map[string]string{"pos": "NN", "ner": "PERSON"})).Matches(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

// A named capture group records its span.
func TestMatches_NamedCapture(t *testing.T) {
	p := mustCompile(t, `"the" (?<noun>[] []) "ran"`)
	m := p.Matcher(words("the", "quick", "fox", "ran"))
	ok, err := m.Matches(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	span, err := m.GroupByName("noun")
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 1, End: 3}, span)
}

// A variable substituted twice receives independent captures each time.
func TestCompileVariables_FreshSlotsPerOccurrence(t *testing.T) {
	p, err := CompileVariables(`(?<a>$word) (?<b>$word)`, map[string]string{"word": `[]`})
	require.NoError(t, err)
	m := p.Matcher(words("x", "y"))
	ok, err := m.Matches(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	aSpan, err := m.GroupByName("a")
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 1}, aSpan)

	bSpan, err := m.GroupByName("b")
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 1, End: 2}, bSpan)
}

func TestFind_AdvancesPastPreviousMatch(t *testing.T) {
	p := mustCompile(t, `"a"`)
	m := p.Matcher(words("a", "b", "a", "a"))

	var starts []int
	for {
		ok, err := m.Find(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		start, err := m.Start()
		require.NoError(t, err)
		starts = append(starts, start)
	}
	assert.Equal(t, []int{0, 2, 3}, starts)
}

// Scenario S6: several matches sharing the same start must all be drained
// from the same cursor, in the order the root iterator yields their ends,
// before the cursor ever advances.
func TestFind_SharedStartSpansDrainBeforeCursorAdvances(t *testing.T) {
	p := mustCompile(t, `("a"{1}|"a"{2}) ("a"{2}|"a"{1})`)
	m := p.Matcher(words("a", "a", "a", "a", "a"))

	var spans []Span
	for i := 0; i < 4; i++ {
		ok, err := m.Find(context.Background())
		require.NoError(t, err)
		require.True(t, ok, "match %d", i)
		spans = append(spans, Span{Start: m.matchStart, End: m.matchEnd})
	}
	assert.Equal(t, []Span{
		{Start: 0, End: 3},
		{Start: 0, End: 2},
		{Start: 0, End: 4},
		{Start: 1, End: 4},
	}, spans)
}

// Scenario S3: a greedy repeat's consume() yields its candidate end
// indices longest-first.
func TestConsume_GreedyRepeatYieldsLongestFirst(t *testing.T) {
	p := mustCompile(t, `"a"+`)
	m := p.Matcher(words("a", "a", "a"))
	ends := iterseq.Collect(p.root.consume(m, 0))
	assert.Equal(t, []int{3, 2, 1}, ends)
}

// Scenario S4: a reluctant repeat's consume() yields its candidate end
// indices shortest-first.
func TestConsume_ReluctantRepeatYieldsShortestFirst(t *testing.T) {
	p := mustCompile(t, `"a"+?`)
	m := p.Matcher(words("a", "a", "a"))
	ends := iterseq.Collect(p.root.consume(m, 0))
	assert.Equal(t, []int{1, 2, 3}, ends)
}

// Scenario S5: a pathologically nested repeat over enough input must trip
// the deadline rather than run away.
func TestMatches_DeadlineExceededOnPathologicalRepeat(t *testing.T) {
	p := mustCompile(t, `(((((("a"*)*)*)*)*)*)*`)
	ws := make([]string, 30)
	for i := range ws {
		ws[i] = "a"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Matcher(words(ws...)).Matches(ctx)
	require.Error(t, err)
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
}

// Scenario S7: named regex capture groups on a single token's value.
func TestMatches_RegexNamedCaptureGroups(t *testing.T) {
	p := mustCompile(t, `[value:/(?<y>[0-9]{4})(?<m>[0-9]{2})(?<d>[0-9]{2})/]`)
	m := p.Matcher(seqOf(map[string]string{"value": "20191225"}))
	ok, err := m.Matches(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	want := map[string]string{"y": "2019", "m": "12", "d": "25"}
	if diff := cmp.Diff(want, m.StringCaptureGroups()); diff != "" {
		t.Errorf("StringCaptureGroups() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAll(t *testing.T) {
	p := mustCompile(t, `"a"`)
	spans, err := p.Matcher(words("a", "b", "a")).FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Span{{Start: 0, End: 1}, {Start: 2, End: 3}}, spans)
}

func TestReplaceAll(t *testing.T) {
	p := mustCompile(t, `"a"`)
	out, err := p.Matcher(words("a", "b", "a")).ReplaceAll(context.Background(), func(m *Matcher) []Token {
		return []Token{testToken{"word": "X"}}
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	v, _ := out[0].Get("word")
	assert.Equal(t, "X", v)
	v, _ = out[1].Get("word")
	assert.Equal(t, "b", v)
	v, _ = out[2].Get("word")
	assert.Equal(t, "X", v)
}

func TestGroup_OutOfBoundsIsError(t *testing.T) {
	p := mustCompile(t, `"a"`)
	m := p.Matcher(words("a"))
	_, err := m.Matches(context.Background())
	require.NoError(t, err)

	_, err = m.Group(1)
	require.Error(t, err)
	var oob *OutOfBoundsGroupError
	require.ErrorAs(t, err, &oob)
}

func TestStart_BeforeAnyMatchIsNoMatchError(t *testing.T) {
	p := mustCompile(t, `"a"`)
	m := p.Matcher(words("a"))

	_, err := m.Start()
	require.Error(t, err)
	var nm *NoMatchError
	require.ErrorAs(t, err, &nm)
}

func TestGroup_UnchosenDisjunctionArmIsNullSpan(t *testing.T) {
	p := mustCompile(t, `(?<x>"a") | (?<y>"b")`)
	m := p.Matcher(words("b"))
	ok, err := m.Matches(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	xSpan, err := m.GroupByName("x")
	require.NoError(t, err)
	assert.Equal(t, Span{Start: -1, End: -1}, xSpan)

	ySpan, err := m.GroupByName("y")
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 1}, ySpan)
}

func TestMatches_ReluctantRepeatStillRequiresFullMatch(t *testing.T) {
	p := mustCompile(t, `^ []{0,}? $`)
	ok, err := p.Matcher(words("a", "b", "c")).Matches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPattern_Variables(t *testing.T) {
	p, err := CompileVariables(`$greeting "world"`, map[string]string{"greeting": `"hello"`})
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting"}, p.Variables())
}

// Named regex capture groups on a value node are recorded independently
// of the pattern-level parenthetical groups exposed via GroupByName.
func TestMatches_StringCaptureGroups(t *testing.T) {
	p := mustCompile(t, `[value:/(?<num>[0-9]+)-(?<unit>[a-z]+)/]`)
	m := p.Matcher(seqOf(map[string]string{"value": "12-kg"}))
	ok, err := m.Matches(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	want := map[string]string{"num": "12", "unit": "kg"}
	if diff := cmp.Diff(want, m.StringCaptureGroups()); diff != "" {
		t.Errorf("StringCaptureGroups() mismatch (-want +got):\n%s", diff)
	}
}

func TestPattern_StringRoundTripsParseable(t *testing.T) {
	p := mustCompile(t, `"a"{1,2} & "b"|"c"`)
	rendered := p.String()
	_, err := Compile(rendered)
	require.NoError(t, err, "rendered pattern %q should itself compile", rendered)
}
