package grammar

import (
	"errors"
	"testing"

	"github.com/nihei9/lrtab/grammar/symbol"
)

func TestNewGrammar_Validation(t *testing.T) {
	tests := []struct {
		caption      string
		terminals    []string
		nonTerminals []string
		productions  map[string][][]string
		start        string
		err          *SemanticError
	}{
		{
			caption:      "the start symbol must be declared",
			terminals:    []string{"a"},
			nonTerminals: []string{"S"},
			productions:  map[string][][]string{"S": {{"a"}}},
			start:        "X",
			err:          ErrUndefinedStart,
		},
		{
			caption:      "the start symbol must be a non-terminal",
			terminals:    []string{"a"},
			nonTerminals: []string{"S"},
			productions:  map[string][][]string{"S": {{"a"}}},
			start:        "a",
			err:          ErrUndefinedStart,
		},
		{
			caption:      "a body cannot refer to an undeclared symbol",
			terminals:    []string{"a"},
			nonTerminals: []string{"S"},
			productions:  map[string][][]string{"S": {{"a", "b"}}},
			start:        "S",
			err:          ErrUndefinedSymbol,
		},
		{
			caption:      "a body cannot contain the end-marker",
			terminals:    []string{"a"},
			nonTerminals: []string{"S"},
			productions:  map[string][][]string{"S": {{"a", "$"}}},
			start:        "S",
			err:          ErrUndefinedSymbol,
		},
		{
			caption:      "a LHS must be a declared non-terminal",
			terminals:    []string{"a"},
			nonTerminals: []string{"S"},
			productions:  map[string][][]string{"S": {{"a"}}, "a": {{"a"}}},
			start:        "S",
			err:          ErrUndefinedSymbol,
		},
		{
			caption:      "terminals and non-terminals cannot overlap",
			terminals:    []string{"a", "S"},
			nonTerminals: []string{"S"},
			productions:  map[string][][]string{"S": {{"a"}}},
			start:        "S",
			err:          ErrOverlappingSymbol,
		},
		{
			caption:      "a symbol cannot be declared twice",
			terminals:    []string{"a", "a"},
			nonTerminals: []string{"S"},
			productions:  map[string][][]string{"S": {{"a"}}},
			start:        "S",
			err:          ErrDuplicateSymbol,
		},
		{
			caption:      "reserved symbols cannot be declared",
			terminals:    []string{"a", "$"},
			nonTerminals: []string{"S"},
			productions:  map[string][][]string{"S": {{"a"}}},
			start:        "S",
			err:          ErrReservedSymbol,
		},
		{
			caption:      "the synthetic start symbol cannot be declared",
			terminals:    []string{"a"},
			nonTerminals: []string{"<start>"},
			productions:  map[string][][]string{},
			start:        "<start>",
			err:          ErrReservedSymbol,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := NewGrammar(tt.terminals, tt.nonTerminals, tt.productions, tt.start)
			if err == nil {
				t.Fatalf("an expected error didn't occur")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("unexpected error type; want: %T, got: %T (%v)", verr, err, err)
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("unexpected error; want: %v, got: %v", tt.err, err)
			}
		})
	}
}

func TestNewGrammar(t *testing.T) {
	gram := arithGrammar.build(t)
	genSym := newTestSymbolGenerator(t, gram.SymbolTable())

	if gram.IsAugmented() {
		t.Fatalf("a new grammar must not be augmented")
	}
	if gram.StartSymbol() != genSym("E") {
		t.Fatalf("unexpected start symbol; want: E, got: %v", gram.Text(gram.StartSymbol()))
	}
	if c := gram.ProductionCount(); c != 8 {
		t.Fatalf("unexpected production count; want: 8, got: %v", c)
	}

	// Productions are numbered in the declaration order of their LHS, then of their bodies.
	expected := []string{
		"E → T E'",
		"E' → + T E'",
		"E' → ε",
		"T → F T'",
		"T' → * F T'",
		"T' → ε",
		"F → ( E )",
		"F → ID",
	}
	for i, prod := range gram.Productions() {
		if prod.Num != ProductionNum(i+1) {
			t.Fatalf("unexpected production number; want: %v, got: %v", i+1, prod.Num)
		}
		if s := gram.FormatProduction(prod); s != expected[i] {
			t.Fatalf("unexpected production; want: %v, got: %v", expected[i], s)
		}
	}

	eps := findProduction(t, gram, "E'")
	if !eps.IsEmpty() || len(eps.Body()) != 0 {
		t.Fatalf("an epsilon production must have an empty body: %v", gram.FormatProduction(eps))
	}
	if len(eps.RHS) != 1 || !eps.RHS[0].IsEpsilon() {
		t.Fatalf("an epsilon production must be stored as [ε]: %v", eps.RHS)
	}

	if prods := gram.ProductionsOf(genSym("ID")); prods != nil {
		t.Fatalf("a terminal has no productions: %v", prods)
	}
}

func TestNewGrammar_WithoutTerminals(t *testing.T) {
	gram, err := NewGrammar(nil, []string{"S"}, map[string][][]string{"S": {{}}}, "S")
	if err != nil {
		t.Fatalf("a grammar of the empty language must be valid: %v", err)
	}
	if len(gram.Terminals()) != 0 {
		t.Fatalf("unexpected terminals: %v", gram.Terminals())
	}
	if c := gram.ProductionCount(); c != 1 {
		t.Fatalf("unexpected production count; want: 1, got: %v", c)
	}

	lr1, err := BuildLR1(gram, Analyze(gram))
	if err != nil {
		t.Fatal(err)
	}
	if lr1.Diagnostics.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", lr1.Diagnostics.Records())
	}
	acts := lr1.Table.Actions(lr1.Table.InitialState(), symbol.SymbolEOF)
	if len(acts) != 1 || acts[0].Type != ActionTypeReduce {
		t.Fatalf("the initial state must reduce S → ε on $: %v", acts)
	}

	// `<start> →・S $` opens a goto group before `S →・` is scanned.
	lr0, err := BuildLR0(gram)
	if err != nil {
		t.Fatal(err)
	}
	if c := lr0.Diagnostics.Count(DiagnosticShiftReduce); c != 1 {
		t.Fatalf("unexpected shift/reduce conflict count; want: 1, got: %v", c)
	}
}

func TestNewGrammar_DuplicateBodies(t *testing.T) {
	tests := []struct {
		caption     string
		productions map[string][][]string
		expected    []string
	}{
		{
			caption:     "a repeated body is kept once",
			productions: map[string][][]string{"S": {{"a"}, {"a"}}},
			expected:    []string{"S → a"},
		},
		{
			caption:     "an empty body and ε are the same production",
			productions: map[string][][]string{"S": {{"a"}, {}, {"ε"}, {"a"}}},
			expected:    []string{"S → a", "S → ε"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram, err := NewGrammar([]string{"a"}, []string{"S"}, tt.productions, "S")
			if err != nil {
				t.Fatal(err)
			}
			prods := gram.Productions()
			if len(prods) != len(tt.expected) {
				t.Fatalf("unexpected production count; want: %v, got: %v", len(tt.expected), len(prods))
			}
			for i, prod := range prods {
				if prod.Num != ProductionNum(i+1) {
					t.Fatalf("unexpected production number; want: %v, got: %v", i+1, prod.Num)
				}
				if s := gram.FormatProduction(prod); s != tt.expected[i] {
					t.Fatalf("unexpected production; want: %v, got: %v", tt.expected[i], s)
				}
			}
		})
	}
}

func TestGrammar_Augment(t *testing.T) {
	gram := assignGrammar.build(t)
	aug := gram.Augment()

	if !aug.IsAugmented() {
		t.Fatalf("an augmented grammar must report it")
	}
	if aug.Augment() != aug {
		t.Fatalf("augmenting an augmented grammar must be a no-op")
	}
	if gram.IsAugmented() || gram.ProductionCount() != 5 {
		t.Fatalf("the original grammar must stay untouched")
	}
	if aug.ProductionCount() != gram.ProductionCount()+1 {
		t.Fatalf("unexpected production count; want: %v, got: %v", gram.ProductionCount()+1, aug.ProductionCount())
	}
	if aug.StartSymbol() != symbol.SymbolStart {
		t.Fatalf("unexpected start symbol: %v", aug.StartSymbol())
	}

	start := aug.Productions()[0]
	if start.Num != productionNumStart {
		t.Fatalf("the start production must be numbered 0; got: %v", start.Num)
	}
	if s := aug.FormatProduction(start); s != "<start> → S $" {
		t.Fatalf("unexpected start production: %v", s)
	}

	terms := aug.Terminals()
	if terms[len(terms)-1] != symbol.SymbolEOF {
		t.Fatalf("the terminals of an augmented grammar must end with the end-marker: %v", aug.Texts(terms))
	}
	if aug.NonTerminals()[0] != symbol.SymbolStart {
		t.Fatalf("the non-terminals of an augmented grammar must begin with the start symbol: %v", aug.Texts(aug.NonTerminals()))
	}
}
