// Package iterseq implements the lazy "sequence of possible end indices"
// abstraction that every pattern node's consume method returns (see
// tokregex's node contract). A Seq may be empty, may yield exactly one
// value, or may yield arbitrarily many values lazily; greedy combinators
// drain it largest-first, reluctant combinators smallest-first.
//
// The tagged-variant shape suggested by the design notes (Empty | One(int) |
// Many(state)) is expressed here as three concrete implementations of the
// Seq interface, discriminated at runtime by IsOneShot where the engine
// needs to know it is holding the mutable per-Matcher scratch value rather
// than an independently-owned sequence.
package iterseq

// Seq is a lazy sequence of end indices.
type Seq interface {
	// Next returns the next end index and true, or (0, false) once the
	// sequence is exhausted. Once Next returns false it must keep doing so.
	Next() (int, bool)
}

// Empty is the sequence that yields nothing.
var Empty Seq = emptySeq{}

type emptySeq struct{}

func (emptySeq) Next() (int, bool) { return 0, false }

// oneSeq yields a single value then exhausts. It is mutable so that it can
// be reused as scratch storage (see Scratch); callers that intend to retain
// a oneSeq's value past their next call into a node must Materialize it
// first.
type oneSeq struct {
	value int
	used  bool
}

// One returns a freshly heap-allocated single-value sequence. Nodes on a
// Matcher's hot path should prefer Scratch.One to avoid this allocation.
func One(value int) Seq {
	return &oneSeq{value: value}
}

func (s *oneSeq) Next() (int, bool) {
	if s.used {
		return 0, false
	}
	s.used = true
	return s.value, true
}

// Func adapts a plain closure to Seq, the shape used by Many(state) in the
// design notes: the closure is the lazily-advanced generator state.
type Func func() (int, bool)

func (f Func) Next() (int, bool) { return f() }

// Scratch is the per-Matcher single-value scratch iterator. It must never be
// shared across Matchers: two matchers over the same compiled pattern keep
// independent Scratch values (see tokregex's concurrency model).
type Scratch struct {
	seq oneSeq
}

// One returns a Seq yielding value once, backed by this Scratch's storage.
// The returned Seq is only valid until the next call to One/None on the same
// Scratch: callers that need to keep it alive across another node.consume
// call must pass it through Materialize first.
func (s *Scratch) One(value int) Seq {
	s.seq = oneSeq{value: value}
	return &s.seq
}

// None returns the empty sequence. Provided for symmetry with One so call
// sites can write ctx.Scratch.One(e)/ctx.Scratch.None() uniformly.
func (s *Scratch) None() Seq {
	return Empty
}

// IsOneShot reports whether seq is a single-value sequence backed by mutable
// scratch storage (either a bare *oneSeq or one vended by a Scratch) that
// must be copied out via Materialize before being retained past the next
// call into whichever node produced it.
func IsOneShot(seq Seq) bool {
	_, ok := seq.(*oneSeq)
	return ok
}

// Materialize drains seq eagerly into an independent, immutable sequence
// that is safe to store on a backtracking branch stack indefinitely. It is a
// no-op (returns seq unchanged) for sequences that are not one-shot scratch
// values, since those are already independently owned.
func Materialize(seq Seq) Seq {
	if seq == nil {
		return Empty
	}
	if !IsOneShot(seq) {
		return seq
	}
	v, ok := seq.Next()
	if !ok {
		return Empty
	}
	return One(v)
}

// Collect drains seq into a plain slice. Intended for tests and for the
// multi-token combinators that must buffer both operands' emissions.
func Collect(seq Seq) []int {
	var out []int
	for {
		v, ok := seq.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// FromSlice returns a Seq that yields each element of vals in order, then
// exhausts. The slice is not copied; callers must not mutate it afterwards.
func FromSlice(vals []int) Seq {
	if len(vals) == 0 {
		return Empty
	}
	if len(vals) == 1 {
		return One(vals[0])
	}
	i := 0
	return Func(func() (int, bool) {
		if i >= len(vals) {
			return 0, false
		}
		v := vals[i]
		i++
		return v, true
	})
}
