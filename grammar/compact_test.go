package grammar

import (
	"reflect"
	"testing"

	"github.com/nihei9/lrtab/grammar/symbol"
)

func TestLR1Table_Compact(t *testing.T) {
	for _, tg := range []*testGrammar{arithGrammar, exprGrammar, ccGrammar, assignGrammar, danglingElseGrammar, ambiguityGrammar} {
		automaton := buildLR1(t, tg)
		tab := automaton.Table
		compact, err := tab.Compact()
		if err != nil {
			t.Fatal(err)
		}

		if compact.Grammar() != tab.Grammar() || compact.InitialState() != tab.InitialState() {
			t.Fatalf("the compact table must share the grammar and the initial state")
		}
		if compact.StateCount() != tab.StateCount() {
			t.Fatalf("unexpected state count; want: %v, got: %v", tab.StateCount(), compact.StateCount())
		}
		for s := 0; s < tab.StateCount(); s++ {
			for _, sym := range tab.Columns() {
				want := tab.Actions(StateNum(s), sym)
				got := compact.Actions(StateNum(s), sym)
				if len(want) == 0 && len(got) == 0 {
					continue
				}
				if !reflect.DeepEqual(want, got) {
					t.Fatalf("unexpected actions at (%v, %v); want: %v, got: %v", s, tab.Grammar().Text(sym), want, got)
				}
			}
		}

		if acts := compact.Actions(StateNum(tab.StateCount()), symbol.SymbolEOF); acts != nil {
			t.Fatalf("an unknown state must have no actions: %v", acts)
		}
		if acts := compact.Actions(tab.InitialState(), symbol.SymbolStart); acts != nil {
			t.Fatalf("the start symbol has no column: %v", acts)
		}

		stats := compact.Stats()
		if stats.States != tab.StateCount() || stats.UniqueRows > stats.States || stats.ActionLists == 0 {
			t.Fatalf("unexpected stats: %+v", stats)
		}
	}
}
