package grammar

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/nihei9/lrtab/grammar/symbol"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNullable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrtab.grammar")
	defer teardown()

	tests := []struct {
		caption  string
		gram     *testGrammar
		nullable []string
	}{
		{
			caption:  "arithmetic expressions",
			gram:     arithGrammar,
			nullable: []string{"ε", "E'", "T'"},
		},
		{
			caption:  "a grammar without epsilon productions",
			gram:     ccGrammar,
			nullable: []string{"ε"},
		},
		{
			caption:  "nullability propagates through bodies",
			gram:     nullableGrammar,
			nullable: []string{"ε", "S", "A"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := tt.gram.build(t)
			a := Analyze(gram)
			testSymbolSet(t, gram, a.Nullable(), tt.nullable...)
			if !a.IsNullable(symbol.SymbolEpsilon) {
				t.Fatalf("ε must be nullable")
			}
		})
	}
}

func TestFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrtab.grammar")
	defer teardown()

	type first struct {
		sym     string
		symbols []string
	}

	tests := []struct {
		caption string
		gram    *testGrammar
		first   []first
	}{
		{
			caption: "arithmetic expressions",
			gram:    arithGrammar,
			first: []first{
				{sym: "E", symbols: []string{"(", "ID"}},
				{sym: "E'", symbols: []string{"+", "ε"}},
				{sym: "T", symbols: []string{"(", "ID"}},
				{sym: "T'", symbols: []string{"*", "ε"}},
				{sym: "F", symbols: []string{"(", "ID"}},
				{sym: "+", symbols: []string{"+"}},
				{sym: "ID", symbols: []string{"ID"}},
			},
		},
		{
			caption: "left recursion",
			gram:    exprGrammar,
			first: []first{
				{sym: "E", symbols: []string{"(", "ID"}},
				{sym: "T", symbols: []string{"(", "ID"}},
			},
		},
		{
			caption: "a nullable prefix exposes the next symbol",
			gram:    nullableGrammar,
			first: []first{
				{sym: "S", symbols: []string{"a", "b", "ε"}},
				{sym: "A", symbols: []string{"a", "ε"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := tt.gram.build(t)
			a := Analyze(gram)
			genSym := newTestSymbolGenerator(t, gram.SymbolTable())
			for _, f := range tt.first {
				t.Run(f.sym, func(t *testing.T) {
					testSymbolSet(t, gram, a.First(genSym(f.sym)), f.symbols...)
				})
			}
		})
	}

	t.Run("reserved symbols", func(t *testing.T) {
		gram := arithGrammar.build(t)
		a := Analyze(gram)
		testSymbolSet(t, gram, a.First(symbol.SymbolEpsilon), "ε")
		testSymbolSet(t, gram, a.First(symbol.SymbolEOF), "$")
	})
}

func TestFirstOfSequence(t *testing.T) {
	gram := arithGrammar.build(t)
	a := Analyze(gram)
	genSym := newTestSymbolGenerator(t, gram.SymbolTable())

	tests := []struct {
		seq      []string
		expected []string
	}{
		{
			seq:      []string{"ε", "E'", "T"},
			expected: []string{"ε", "+", "(", "ID"},
		},
		{
			seq:      []string{"T", "E'", "ε"},
			expected: []string{"(", "ID"},
		},
		{
			seq:      []string{"E'", "T'"},
			expected: []string{"+", "*", "ε"},
		},
		{
			seq:      []string{"T'", ")", "ID"},
			expected: []string{"*", "ε", ")"},
		},
		{
			seq:      []string{},
			expected: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.seq), func(t *testing.T) {
			testSymbolSet(t, gram, a.FirstOfSequence(genSymbols(genSym, tt.seq...)), tt.expected...)
		})
	}
}

func TestFollow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrtab.grammar")
	defer teardown()

	type follow struct {
		sym     string
		symbols []string
	}

	tests := []struct {
		caption string
		gram    *Grammar
		follow  []follow
	}{
		{
			caption: "augmented arithmetic expressions",
			gram:    arithGrammar.build(t).Augment(),
			follow: []follow{
				{sym: "E", symbols: []string{")", "$"}},
				{sym: "E'", symbols: []string{")", "$"}},
				{sym: "T", symbols: []string{"+", ")", "$"}},
				{sym: "T'", symbols: []string{"+", ")", "$"}},
				{sym: "F", symbols: []string{"*", "+", ")", "$"}},
			},
		},
		{
			caption: "unaugmented arithmetic expressions never see the end-marker",
			gram:    arithGrammar.build(t),
			follow: []follow{
				{sym: "E", symbols: []string{")"}},
				{sym: "T", symbols: []string{"+", ")"}},
				{sym: "F", symbols: []string{"*", "+", ")"}},
			},
		},
		{
			caption: "a symbol followed by a nullable symbol",
			gram:    nullableGrammar.build(t).Augment(),
			follow: []follow{
				{sym: "S", symbols: []string{"$"}},
				{sym: "A", symbols: []string{"b"}},
			},
		},
		{
			caption: "assignments",
			gram:    assignGrammar.build(t).Augment(),
			follow: []follow{
				{sym: "S", symbols: []string{"$"}},
				{sym: "L", symbols: []string{"=", "$"}},
				{sym: "R", symbols: []string{"=", "$"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			a := Analyze(tt.gram)
			genSym := newTestSymbolGenerator(t, tt.gram.SymbolTable())
			for _, f := range tt.follow {
				t.Run(f.sym, func(t *testing.T) {
					testSymbolSet(t, tt.gram, a.Follow(genSym(f.sym)), f.symbols...)
				})
			}
			if a.Follow(genSym("ε")) != nil {
				t.Fatalf("ε must not have a FOLLOW entry")
			}
		})
	}
}

func TestFollowOfSequence(t *testing.T) {
	gram := arithGrammar.build(t).Augment()
	a := Analyze(gram)
	genSym := newTestSymbolGenerator(t, gram.SymbolTable())

	tests := []struct {
		seq      []string
		expected []string
	}{
		{
			seq:      []string{"T", "E'"},
			expected: []string{"+", ")", "$"},
		},
		{
			seq:      []string{"E'", "F"},
			expected: []string{"*", "+", ")", "$"},
		},
		{
			seq:      []string{"F", "T'"},
			expected: []string{"*", "+", ")", "$"},
		},
		{
			seq:      []string{"ID", "E"},
			expected: []string{")", "$"},
		},
		{
			seq:      []string{"E", "ID"},
			expected: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.seq), func(t *testing.T) {
			testSymbolSet(t, gram, a.FollowOfSequence(genSymbols(genSym, tt.seq...)), tt.expected...)
		})
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	for _, tg := range []*testGrammar{arithGrammar, exprGrammar, ccGrammar, assignGrammar, nullableGrammar} {
		gram := tg.build(t).Augment()
		a1 := Analyze(gram)
		a2 := Analyze(gram)
		if !reflect.DeepEqual(a1.Nullable(), a2.Nullable()) {
			t.Fatalf("NULLABLE differs; 1st: %v, 2nd: %v", a1.Nullable(), a2.Nullable())
		}
		var syms []symbol.Symbol
		syms = append(syms, gram.Terminals()...)
		syms = append(syms, gram.NonTerminals()...)
		for _, sym := range syms {
			if !reflect.DeepEqual(a1.First(sym), a2.First(sym)) {
				t.Fatalf("FIRST(%v) differs; 1st: %v, 2nd: %v", gram.Text(sym), a1.First(sym), a2.First(sym))
			}
			if !reflect.DeepEqual(a1.Follow(sym), a2.Follow(sym)) {
				t.Fatalf("FOLLOW(%v) differs; 1st: %v, 2nd: %v", gram.Text(sym), a1.Follow(sym), a2.Follow(sym))
			}
		}
	}
}
