package grammar

import (
	"github.com/nihei9/lrtab/grammar/symbol"
)

type followSet struct {
	set map[symbol.Symbol]*symbolSet
}

func newFollow(gram *Grammar) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]*symbolSet{},
	}
	for _, nt := range gram.NonTerminals() {
		flw.set[nt] = newSymbolSet()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) *symbolSet {
	return flw.set[sym]
}

// genFollowSet computes FOLLOW of every non-terminal. The end-marker appears only through
// the first sets of bodies containing it, so an unaugmented grammar never has `$` in any entry.
func genFollowSet(gram *Grammar, first *firstSet, nullable *symbolSet) *followSet {
	flw := newFollow(gram)
	for {
		more := false
		for _, nt := range gram.NonTerminals() {
			for _, prod := range gram.ProductionsOf(nt) {
				if genFollowEntries(flw, first, nullable, nt, prod.RHS) {
					more = true
				}
			}
		}
		if !more {
			break
		}
	}
	return flw
}

func genFollowEntries(flw *followSet, first *firstSet, nullable *symbolSet, lhs symbol.Symbol, rhs []symbol.Symbol) bool {
	changed := false
	for i, sym := range rhs {
		acc := flw.find(sym)
		if acc == nil {
			continue
		}

		if allIn(nullable, rhs[i+1:]) {
			if acc.merge(flw.find(lhs)) {
				changed = true
			}
		}
		for j := i + 1; j < len(rhs); j++ {
			if !allIn(nullable, rhs[i+1:j]) {
				break
			}
			if acc.merge(first.findBySymbol(rhs[j]), symbol.SymbolEpsilon) {
				changed = true
			}
		}
	}
	return changed
}
