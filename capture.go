package tokregex

// captureSpan records one capture group's matched span, in Sequence token
// indices: [start, end). ok is false until the group has actually
// participated in the current match (an optional group's repeat count of
// zero never sets it).
type captureSpan struct {
	start, end int
	ok         bool
}

// setCapture is called by captureNode.resolve once a specific span for
// slot has been confirmed as part of the winning match path.
func (m *Matcher) setCapture(slot int, name string, start, end int) {
	m.groups[slot] = captureSpan{start: start, end: end, ok: true}
	if name != "" {
		if m.namedGroups == nil {
			m.namedGroups = make(map[string]int)
		}
		m.namedGroups[name] = slot
	}
}

// resetCaptures clears all capture state ahead of resolving a fresh match.
func (m *Matcher) resetCaptures() {
	for i := range m.groups {
		m.groups[i] = captureSpan{}
	}
	for k := range m.stringCaps {
		delete(m.stringCaps, k)
	}
}

// Group returns the span of capture group id (0 is the whole match). A
// group that exists on the compiled Pattern but did not participate in the
// current match (an optional group with a zero repeat count) returns the
// null span {-1, -1} with a nil error. Group returns NoMatch if called
// before any successful Matches/Find, and OutOfBoundsGroup if id is outside
// [0, slot count].
func (m *Matcher) Group(id int) (Span, error) {
	if !m.matched {
		return Span{}, noMatch("Group")
	}
	if id == 0 {
		return Span{Start: m.matchStart, End: m.matchEnd}, nil
	}
	if id < 1 || id > len(m.groups) {
		return Span{}, outOfBoundsGroup(id, len(m.groups))
	}
	g := m.groups[id-1]
	if !g.ok {
		return Span{Start: -1, End: -1}, nil
	}
	return Span{Start: g.start, End: g.end}, nil
}

// GroupByName returns the span of the named capture group. A name absent
// from the compiled Pattern, or present but unparticipating in the current
// match, both return the null span {-1, -1} with a nil error.
// GroupByName returns NoMatch if called before any successful Matches/Find.
func (m *Matcher) GroupByName(name string) (Span, error) {
	if !m.matched {
		return Span{}, noMatch("GroupByName")
	}
	slot, exists := m.pattern.namedSlots[name]
	if !exists {
		return Span{Start: -1, End: -1}, nil
	}
	g := m.groups[slot]
	if !g.ok {
		return Span{Start: -1, End: -1}, nil
	}
	return Span{Start: g.start, End: g.end}, nil
}

// NamedCaptureGroups returns the names of every named group declared in
// the compiled Pattern, regardless of whether they matched this time.
func (m *Matcher) NamedCaptureGroups() []string {
	names := make([]string, 0, len(m.pattern.namedSlots))
	for name := range m.pattern.namedSlots {
		names = append(names, name)
	}
	return names
}

// StringCaptureGroups returns the named regular-expression capture groups
// populated by value-level regex matches during the current match, keyed
// by the regex's own group name (distinct from the pattern-level named
// parenthetical groups exposed via GroupByName).
func (m *Matcher) StringCaptureGroups() map[string]string {
	out := make(map[string]string, len(m.stringCaps))
	for k, v := range m.stringCaps {
		out[k] = v
	}
	return out
}
