package grammar

import (
	"github.com/nihei9/lrtab/grammar/symbol"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// symbolSet is a set of symbols that only grows. Every fixpoint in this package is computed over
// such sets, which guarantees termination.
type symbolSet struct {
	symbols map[symbol.Symbol]struct{}
}

func newSymbolSet(syms ...symbol.Symbol) *symbolSet {
	s := &symbolSet{
		symbols: make(map[symbol.Symbol]struct{}, len(syms)),
	}
	for _, sym := range syms {
		s.symbols[sym] = struct{}{}
	}
	return s
}

func (s *symbolSet) add(sym symbol.Symbol) bool {
	if _, ok := s.symbols[sym]; ok {
		return false
	}
	s.symbols[sym] = struct{}{}
	return true
}

func (s *symbolSet) contains(sym symbol.Symbol) bool {
	_, ok := s.symbols[sym]
	return ok
}

// merge adds all symbols of target except the ones listed in except. It reports whether s has grown.
func (s *symbolSet) merge(target *symbolSet, except ...symbol.Symbol) bool {
	if target == nil {
		return false
	}
	changed := false
MERGE_LOOP:
	for sym := range target.symbols {
		for _, e := range except {
			if sym == e {
				continue MERGE_LOOP
			}
		}
		if s.add(sym) {
			changed = true
		}
	}
	return changed
}

func (s *symbolSet) len() int {
	return len(s.symbols)
}

// sorted returns the members ordered by their symbol values.
func (s *symbolSet) sorted() []symbol.Symbol {
	syms := maps.Keys(s.symbols)
	slices.Sort(syms)
	return syms
}

func (s *symbolSet) clone() *symbolSet {
	c := newSymbolSet()
	c.merge(s)
	return c
}
