package tokregex

import (
	"context"

	"github.com/coreferentai/tokregex/internal/iterseq"
	"github.com/sirupsen/logrus"
)

// Matcher drives a single compiled Pattern against one Sequence. It is not
// safe for concurrent use, but multiple Matchers over the same Pattern (or
// the same Sequence) are fully independent; build one per goroutine via
// Pattern.Matcher.
type Matcher struct {
	pattern *Pattern
	seq     Sequence
	scratch iterseq.Scratch

	ctx       context.Context
	err       error
	checkTick uint32

	groups      []captureSpan
	namedGroups map[string]int
	stringCaps  map[string]string

	nextStart    int
	activeIter   iterseq.Seq
	returnedEnds endIndexSet
	matched      bool
	matchStart   int
	matchEnd     int
}

func newMatcher(p *Pattern, seq Sequence) *Matcher {
	return &Matcher{
		pattern: p,
		seq:     seq,
		groups:  make([]captureSpan, p.numSlots),
	}
}

// Matches reports whether the Pattern matches the entire Sequence, start to
// end. ctx may be nil, meaning no deadline; otherwise its cancellation is
// checked periodically during the search and surfaced as a *TimeoutError.
func (m *Matcher) Matches(ctx context.Context) (bool, error) {
	return m.matchAt(ctx, 0, true)
}

// Find advances past wherever the previous Find left off (Matches does not
// move this cursor) and reports whether the Pattern matches some subsequence starting at or
// after that point. Call Start/End/Group afterwards to inspect the match;
// call Reset to search from the beginning again.
//
// It drains the root iterator seeded at the current cursor one end at a
// time, skipping any span already returned for that cursor, and only
// advances the cursor once that iterator is exhausted — so several matches
// sharing the same start are reported in turn before the cursor ever moves.
func (m *Matcher) Find(ctx context.Context) (bool, error) {
	for {
		if m.nextStart > m.seq.Len() {
			m.matched = false
			return false, nil
		}

		if m.activeIter == nil {
			m.ctx = ctx
			m.err = nil
			m.checkTick = 0
			m.activeIter = m.pattern.root.consume(m, m.nextStart)
			m.returnedEnds = endIndexSet{}
			m.ctx = nil
			if m.err != nil {
				return false, m.err
			}
		}

		end, ok := m.activeIter.Next()
		if !ok {
			m.activeIter = nil
			m.nextStart++
			continue
		}
		if m.returnedEnds.has(end) {
			continue
		}
		m.returnedEnds.add(end)

		m.resetCaptures()
		m.pattern.root.resolve(m, m.nextStart, end)
		m.matched = true
		m.matchStart = m.nextStart
		m.matchEnd = end
		return true, nil
	}
}

func (m *Matcher) matchAt(ctx context.Context, start int, requireFullLength bool) (bool, error) {
	m.ctx = ctx
	m.err = nil
	m.checkTick = 0

	ends := iterseq.Collect(m.pattern.root.consume(m, start))
	m.ctx = nil
	if m.err != nil {
		return false, m.err
	}

	target, found := 0, false
	if requireFullLength {
		for _, e := range ends {
			if e == m.seq.Len() {
				target, found = e, true
				break
			}
		}
	} else if len(ends) > 0 {
		target, found = ends[0], true
	}
	if !found {
		m.matched = false
		return false, nil
	}

	m.resetCaptures()
	m.pattern.root.resolve(m, start, target)
	m.matched = true
	m.matchStart = start
	m.matchEnd = target
	return true, nil
}

// Span is a [Start, End) token range, as reported by FindAll.
type Span struct {
	Start, End int
}

// FindAll resets the Matcher and repeatedly calls Find until the Sequence is
// exhausted, returning every non-overlapping match from the start of the
// Sequence: of the matches Find reports, one that starts inside the span
// last returned, or at the same start, is skipped. It is sugar over
// Find/Start/End; it introduces no new search algorithm.
func (m *Matcher) FindAll(ctx context.Context) ([]Span, error) {
	m.Reset()
	var spans []Span
	prev, lastStart := 0, -1
	for {
		ok, err := m.Find(ctx)
		if err != nil {
			return spans, err
		}
		if !ok {
			return spans, nil
		}
		if m.matchStart < prev || m.matchStart == lastStart {
			continue
		}
		lastStart, prev = m.matchStart, m.matchEnd
		spans = append(spans, Span{Start: m.matchStart, End: m.matchEnd})
	}
}

// ReplaceAll resets the Matcher and rebuilds the token sequence, replacing
// every non-overlapping match (chosen as in FindAll, scanning from the
// start of the Sequence) with the tokens replace returns for it. replace is
// called with the Matcher positioned on that specific match, so
// Start/End/Group/GroupByName reflect it.
func (m *Matcher) ReplaceAll(ctx context.Context, replace func(*Matcher) []Token) ([]Token, error) {
	m.Reset()
	var out []Token
	prev, lastStart := 0, -1
	for {
		ok, err := m.Find(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			break
		}
		if m.matchStart < prev || m.matchStart == lastStart {
			continue
		}
		lastStart = m.matchStart
		for i := prev; i < m.matchStart; i++ {
			out = append(out, m.seq.At(i))
		}
		out = append(out, replace(m)...)
		prev = m.matchEnd
	}
	for i := prev; i < m.seq.Len(); i++ {
		out = append(out, m.seq.At(i))
	}
	return out, nil
}

// Start returns the token index the current match began at. It returns
// NoMatch if called before any successful Matches/Find on this Matcher.
func (m *Matcher) Start() (int, error) {
	if !m.matched {
		return 0, noMatch("Start")
	}
	return m.matchStart, nil
}

// End returns the token index just past the current match. It returns
// NoMatch if called before any successful Matches/Find on this Matcher.
func (m *Matcher) End() (int, error) {
	if !m.matched {
		return 0, noMatch("End")
	}
	return m.matchEnd, nil
}

// Reset rewinds Find's search cursor to the start of the Sequence and
// clears the current match.
func (m *Matcher) Reset() {
	m.nextStart = 0
	m.activeIter = nil
	m.returnedEnds = endIndexSet{}
	m.matched = false
	m.err = nil
	m.resetCaptures()
}

// deadlineExceeded is polled at the top of every multi-token node's
// backtracking loop. It throttles the context check itself, since ctx.Err()
// is called far more often than a deadline could plausibly have elapsed.
func (m *Matcher) deadlineExceeded() bool {
	if m.err != nil {
		return true
	}
	if m.ctx == nil {
		return false
	}
	m.checkTick++
	if m.checkTick&0xFF != 0 {
		return false
	}
	if m.ctx.Err() != nil {
		logrus.WithField("pattern", m.pattern.source).Debug("tokregex: match deadline exceeded")
		m.err = errTimeout
		return true
	}
	return false
}
