package grammar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nihei9/lrtab/grammar/symbol"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// S → X t | Y t | Z
// X → a
// Y → a
// Z → a t
var ambiguityGrammar = &testGrammar{
	terminals:    []string{"a", "t"},
	nonTerminals: []string{"S", "X", "Y", "Z"},
	productions: map[string][][]string{
		"S": {{"X", "t"}, {"Y", "t"}, {"Z"}},
		"X": {{"a"}},
		"Y": {{"a"}},
		"Z": {{"a", "t"}},
	},
	start: "S",
}

func buildLR1(t *testing.T, tg *testGrammar, opts ...BuildOption) *LR1Automaton {
	t.Helper()

	gram := tg.build(t)
	automaton, err := BuildLR1(gram, Analyze(gram), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return automaton
}

func TestBuildLR1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrtab.grammar")
	defer teardown()

	tests := []struct {
		caption      string
		gram         *testGrammar
		states       int
		shiftReduce  int
		reduceReduce int
		ambiguity    int
	}{
		{
			caption: "a conflict-free grammar",
			gram:    ccGrammar,
			states:  10,
		},
		{
			caption: "look-ahead resolves the LR(0) conflict of assignments",
			gram:    assignGrammar,
			states:  -1,
		},
		{
			caption:      "two non-terminals deriving the same terminal",
			gram:         reduceReduceGrammar,
			states:       -1,
			reduceReduce: 1,
		},
		{
			caption:     "a dangling else",
			gram:        danglingElseGrammar,
			states:      -1,
			shiftReduce: 1,
		},
		{
			caption:   "one shift against two reductions",
			gram:      ambiguityGrammar,
			states:    -1,
			ambiguity: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			bfs := buildLR1(t, tt.gram)
			dfs := buildLR1(t, tt.gram, DepthFirst())
			for _, automaton := range []*LR1Automaton{bfs, dfs} {
				if tt.states >= 0 && len(automaton.States) != tt.states {
					t.Fatalf("unexpected state count; want: %v, got: %v", tt.states, len(automaton.States))
				}
				if automaton.Table.StateCount() != len(automaton.States) {
					t.Fatalf("every state needs a table row; want: %v, got: %v", len(automaton.States), automaton.Table.StateCount())
				}
				diag := automaton.Diagnostics
				if c := diag.Count(DiagnosticShiftReduce); c != tt.shiftReduce {
					t.Fatalf("unexpected shift/reduce conflict count; want: %v, got: %v", tt.shiftReduce, c)
				}
				if c := diag.Count(DiagnosticReduceReduce); c != tt.reduceReduce {
					t.Fatalf("unexpected reduce/reduce conflict count; want: %v, got: %v", tt.reduceReduce, c)
				}
				if c := diag.Count(DiagnosticAmbiguity); c != tt.ambiguity {
					t.Fatalf("unexpected ambiguity count; want: %v, got: %v", tt.ambiguity, c)
				}
			}
			if len(bfs.States) != len(dfs.States) {
				t.Fatalf("the traversal order must not change the state count; breadth-first: %v, depth-first: %v", len(bfs.States), len(dfs.States))
			}
		})
	}
}

func TestBuildLR1_StartProduction(t *testing.T) {
	automaton := buildLR1(t, ccGrammar)
	aug := automaton.Grammar

	s := automaton.States[automaton.Table.InitialState()]
	expected := []string{
		"<start> →・S, [$]",
		"S →・C C, [$]",
		"C →・c C, [c d]",
		"C →・d, [c d]",
	}
	if len(s.Items) != len(expected) {
		t.Fatalf("unexpected item count; want: %v, got: %v", len(expected), len(s.Items))
	}
	for i, item := range s.Items {
		if text := aug.FormatLR1Item(item); text != expected[i] {
			t.Fatalf("unexpected item; want: %v, got: %v", expected[i], text)
		}
	}

	// The end-marker is a look-ahead only: accepting means reducing `<start> → S` on $.
	genSym := newTestSymbolGenerator(t, aug.SymbolTable())
	acts := automaton.Table.Actions(automaton.Table.InitialState(), genSym("S"))
	if len(acts) != 1 || acts[0].Type != ActionTypeShift {
		t.Fatalf("unexpected goto on S: %v", acts)
	}
	acts = automaton.Table.Actions(acts[0].State, symbol.SymbolEOF)
	if len(acts) != 1 || acts[0].Type != ActionTypeReduce || !acts[0].Production.LHS.IsStart() {
		t.Fatalf("the accepting state must reduce the start production on $: %v", acts)
	}
	if s := aug.FormatProduction(acts[0].Production); s != "<start> → S" {
		t.Fatalf("unexpected start production: %v", s)
	}
}

func TestBuildLR1_FirstExpansionKeepsItsLookAhead(t *testing.T) {
	automaton := buildLR1(t, assignGrammar)
	aug := automaton.Grammar

	// L is expanded for S →・L = R first, so R →・L does not add $ to the L items of state 0.
	s := automaton.States[automaton.Table.InitialState()]
	found := false
	for _, item := range s.Items {
		if aug.FormatItem(item.Item) != "L →・id" {
			continue
		}
		found = true
		if la := aug.Texts(item.LookAhead()); len(la) != 1 || la[0] != "=" {
			t.Fatalf("unexpected look-ahead; want: [=], got: %v", la)
		}
	}
	if !found {
		t.Fatalf("L →・id was not found")
	}
}

func TestBuildLR1_ConflictsStayInTable(t *testing.T) {
	automaton := buildLR1(t, danglingElseGrammar)
	aug := automaton.Grammar
	genSym := newTestSymbolGenerator(t, aug.SymbolTable())

	r := automaton.Diagnostics.Records()[0]
	if r.Symbol != genSym("e") {
		t.Fatalf("unexpected conflict symbol; want: e, got: %v", aug.Text(r.Symbol))
	}
	acts := automaton.Table.Actions(r.State, r.Symbol)
	if len(acts) != 2 {
		t.Fatalf("both actions must stay in the table: %v", acts)
	}
	if len(r.Actions) != 2 || len(r.Items) != 2 {
		t.Fatalf("a record must carry both actions and items; actions: %v, items: %v", r.Actions, len(r.Items))
	}
	if !strings.Contains(automaton.Diagnostics.Format(r), "shift/reduce conflict on e") {
		t.Fatalf("unexpected format: %v", automaton.Diagnostics.Format(r))
	}
}

func TestBuildLR1_Deterministic(t *testing.T) {
	for _, tg := range []*testGrammar{arithGrammar, exprGrammar, ccGrammar, assignGrammar, danglingElseGrammar, ambiguityGrammar} {
		if d1, d2 := dumpLR1(buildLR1(t, tg)), dumpLR1(buildLR1(t, tg)); d1 != d2 {
			t.Fatalf("two builds differ;\n1st:\n%v\n2nd:\n%v", d1, d2)
		}
	}
}

func TestBuildLR1_InvalidArguments(t *testing.T) {
	gram := ccGrammar.build(t)
	if _, err := BuildLR1(gram, Analyze(ccGrammar.build(t))); err == nil {
		t.Fatalf("an analysis of another grammar must be rejected")
	}
	aug := gram.Augment()
	if _, err := BuildLR1(aug, Analyze(aug)); err == nil {
		t.Fatalf("an augmented grammar must be rejected")
	}
	if _, err := BuildLR1(gram, nil); err == nil {
		t.Fatalf("a missing analysis must be rejected")
	}
}

func dumpLR1(a *LR1Automaton) string {
	var b strings.Builder
	cols := a.Table.Columns()
	for _, s := range a.States {
		fmt.Fprintf(&b, "%v:", s.Num)
		for _, item := range s.Items {
			fmt.Fprintf(&b, " [%v]", a.Grammar.FormatLR1Item(item))
		}
		for _, sym := range cols {
			for _, act := range a.Table.Actions(s.Num, sym) {
				fmt.Fprintf(&b, " %v:%v", a.Grammar.Text(sym), act)
			}
		}
		fmt.Fprintln(&b)
	}
	for _, r := range a.Diagnostics.Records() {
		fmt.Fprintf(&b, "%v: %v\n", r.State, a.Diagnostics.Format(r))
	}
	return b.String()
}
