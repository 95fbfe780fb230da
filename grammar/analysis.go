package grammar

import (
	"github.com/nihei9/lrtab/grammar/symbol"
)

// Analysis holds NULLABLE, FIRST, and FOLLOW of a grammar. All three are computed eagerly by
// Analyze and never change afterwards; returned slices are fresh copies sorted by symbol value.
type Analysis struct {
	gram     *Grammar
	nullable *symbolSet
	first    *firstSet
	follow   *followSet
}

// Analyze computes the analysis tables of a grammar. FOLLOW contains the end-marker only when
// the grammar is augmented (see Grammar.Augment).
func Analyze(gram *Grammar) *Analysis {
	nullable := genNullableSet(gram)
	first := genFirstSet(gram, nullable)
	follow := genFollowSet(gram, first, nullable)

	a := &Analysis{
		gram:     gram,
		nullable: nullable,
		first:    first,
		follow:   follow,
	}
	tracer().Debugf("analysis: %v productions, %v nullable symbols", gram.ProductionCount(), nullable.len())
	return a
}

func (a *Analysis) Grammar() *Grammar {
	return a.gram
}

// Nullable returns the nullable symbols. The result always contains ε.
func (a *Analysis) Nullable() []symbol.Symbol {
	return a.nullable.sorted()
}

func (a *Analysis) IsNullable(sym symbol.Symbol) bool {
	return a.nullable.contains(sym)
}

// AllNullable reports whether every symbol of seq is nullable. An empty sequence is nullable.
func (a *Analysis) AllNullable(seq []symbol.Symbol) bool {
	return allIn(a.nullable, seq)
}

// First returns FIRST(sym), or nil when sym is unknown to the grammar.
func (a *Analysis) First(sym symbol.Symbol) []symbol.Symbol {
	e := a.first.findBySymbol(sym)
	if e == nil {
		return nil
	}
	return e.sorted()
}

// FirstOfSequence unions FIRST of the symbols of seq in the given order, stopping after the
// first non-nullable symbol. The order matters: reversing seq generally changes the result.
func (a *Analysis) FirstOfSequence(seq []symbol.Symbol) []symbol.Symbol {
	return a.firstOfSequence(seq).sorted()
}

func (a *Analysis) firstOfSequence(seq []symbol.Symbol) *symbolSet {
	return a.first.findBySequence(seq, a.nullable)
}

// Follow returns FOLLOW(sym) for a non-terminal, or nil for any other symbol.
func (a *Analysis) Follow(sym symbol.Symbol) []symbol.Symbol {
	e := a.follow.find(sym)
	if e == nil {
		return nil
	}
	return e.sorted()
}

// FollowOfSequence returns the terminals that may follow the whole of seq: it unions FOLLOW of
// the symbols of seq from right to left, stopping after the first non-nullable symbol. Symbols
// without a FOLLOW entry contribute nothing.
func (a *Analysis) FollowOfSequence(seq []symbol.Symbol) []symbol.Symbol {
	acc := newSymbolSet()
	for i := len(seq) - 1; i >= 0; i-- {
		acc.merge(a.follow.find(seq[i]))
		if !a.nullable.contains(seq[i]) {
			break
		}
	}
	return acc.sorted()
}
