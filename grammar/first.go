package grammar

import (
	"github.com/nihei9/lrtab/grammar/symbol"
)

func genNullableSet(gram *Grammar) *symbolSet {
	nullable := newSymbolSet(symbol.SymbolEpsilon)
	for {
		more := false
		for _, nt := range gram.NonTerminals() {
			if nullable.contains(nt) {
				continue
			}
			for _, prod := range gram.ProductionsOf(nt) {
				if !allIn(nullable, prod.RHS) {
					continue
				}
				nullable.add(nt)
				more = true
				break
			}
		}
		if !more {
			break
		}
	}
	return nullable
}

func allIn(set *symbolSet, syms []symbol.Symbol) bool {
	for _, sym := range syms {
		if !set.contains(sym) {
			return false
		}
	}
	return true
}

type firstSet struct {
	set map[symbol.Symbol]*symbolSet
}

func newFirstSet(gram *Grammar) *firstSet {
	fst := &firstSet{
		set: map[symbol.Symbol]*symbolSet{
			symbol.SymbolEOF:     newSymbolSet(symbol.SymbolEOF),
			symbol.SymbolEpsilon: newSymbolSet(symbol.SymbolEpsilon),
		},
	}
	for _, t := range gram.Terminals() {
		fst.set[t] = newSymbolSet(t)
	}
	for _, nt := range gram.NonTerminals() {
		fst.set[nt] = newSymbolSet()
	}
	return fst
}

func (fst *firstSet) findBySymbol(sym symbol.Symbol) *symbolSet {
	return fst.set[sym]
}

// findBySequence accumulates FIRST of the symbols of seq from left to right and stops after
// the first non-nullable symbol.
func (fst *firstSet) findBySequence(seq []symbol.Symbol, nullable *symbolSet) *symbolSet {
	acc := newSymbolSet()
	for _, sym := range seq {
		acc.merge(fst.findBySymbol(sym))
		if !nullable.contains(sym) {
			break
		}
	}
	return acc
}

func genFirstSet(gram *Grammar, nullable *symbolSet) *firstSet {
	fst := newFirstSet(gram)
	for {
		more := false
		for _, nt := range gram.NonTerminals() {
			acc := fst.findBySymbol(nt)
			for _, prod := range gram.ProductionsOf(nt) {
				if genProdFirstEntry(fst, acc, prod, nullable) {
					more = true
				}
			}
		}
		if !more {
			break
		}
	}
	return fst
}

func genProdFirstEntry(fst *firstSet, acc *symbolSet, prod *Production, nullable *symbolSet) bool {
	return acc.merge(fst.findBySequence(prod.RHS, nullable))
}
