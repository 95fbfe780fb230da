package driver

import (
	"github.com/nihei9/lrtab/grammar"
	"github.com/nihei9/lrtab/grammar/symbol"
)

// LR0ParsingTable is what an LR0Parser reads. *grammar.LR0Table implements it.
type LR0ParsingTable interface {
	Grammar() *grammar.Grammar
	InitialState() grammar.StateNum

	// Entry returns the single action of a state.
	Entry(state grammar.StateNum) (*grammar.LR0Entry, bool)

	// GoTo returns the target of the transition of a shift state over a symbol.
	GoTo(state grammar.StateNum, sym symbol.Symbol) (grammar.StateNum, bool)
}

// LR1ParsingTable is what an LR1Parser reads. *grammar.LR1Table and *grammar.CompactLR1Table implement it.
type LR1ParsingTable interface {
	Grammar() *grammar.Grammar
	InitialState() grammar.StateNum

	// Actions returns every action at (state, symbol). Both look-ahead terminals and non-terminals
	// are valid symbols; a non-terminal entry is a goto.
	Actions(state grammar.StateNum, sym symbol.Symbol) []grammar.Action
}

var (
	_ LR0ParsingTable = &grammar.LR0Table{}
	_ LR1ParsingTable = &grammar.LR1Table{}
	_ LR1ParsingTable = &grammar.CompactLR1Table{}
)
