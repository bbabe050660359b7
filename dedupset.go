package tokregex

import "github.com/bits-and-blooms/bitset"

// endIndexSet deduplicates end-index values produced for one call into a
// multi-token disjunction node. It starts as a plain 64-bit mask, cheap for
// the common case of short inputs, and migrates to an unbounded bitset the
// first time it must record an index past 63, copying the mask across.
type endIndexSet struct {
	mask uint64
	big  *bitset.BitSet
}

func (s *endIndexSet) has(e int) bool {
	if e < 0 {
		return false
	}
	if s.big != nil {
		return s.big.Test(uint(e))
	}
	if e > 63 {
		return false
	}
	return s.mask&(1<<uint(e)) != 0
}

func (s *endIndexSet) add(e int) {
	if e < 0 {
		return
	}
	if s.big == nil && e > 63 {
		s.migrate()
	}
	if s.big != nil {
		s.big.Set(uint(e))
		return
	}
	s.mask |= 1 << uint(e)
}

func (s *endIndexSet) migrate() {
	big := bitset.New(64)
	for i := 0; i < 64; i++ {
		if s.mask&(1<<uint(i)) != 0 {
			big.Set(uint(i))
		}
	}
	s.big = big
}
