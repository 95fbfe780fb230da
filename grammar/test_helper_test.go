package grammar

import (
	"testing"

	"github.com/nihei9/lrtab/grammar/symbol"
)

type testGrammar struct {
	terminals    []string
	nonTerminals []string
	productions  map[string][][]string
	start        string
}

func (tg *testGrammar) build(t *testing.T) *Grammar {
	t.Helper()

	gram, err := NewGrammar(tg.terminals, tg.nonTerminals, tg.productions, tg.start)
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

// E  → T E'
// E' → + T E' | ε
// T  → F T'
// T' → * F T' | ε
// F  → ( E ) | ID
var arithGrammar = &testGrammar{
	terminals:    []string{"+", "*", "(", ")", "ID"},
	nonTerminals: []string{"E", "E'", "T", "T'", "F"},
	productions: map[string][][]string{
		"E":  {{"T", "E'"}},
		"E'": {{"+", "T", "E'"}, {"ε"}},
		"T":  {{"F", "T'"}},
		"T'": {{"*", "F", "T'"}, {}},
		"F":  {{"(", "E", ")"}, {"ID"}},
	},
	start: "E",
}

// E → E + T | T
// T → ( E ) | ID
var exprGrammar = &testGrammar{
	terminals:    []string{"+", "(", ")", "ID"},
	nonTerminals: []string{"E", "T"},
	productions: map[string][][]string{
		"E": {{"E", "+", "T"}, {"T"}},
		"T": {{"(", "E", ")"}, {"ID"}},
	},
	start: "E",
}

// S → C C
// C → c C | d
var ccGrammar = &testGrammar{
	terminals:    []string{"c", "d"},
	nonTerminals: []string{"S", "C"},
	productions: map[string][][]string{
		"S": {{"C", "C"}},
		"C": {{"c", "C"}, {"d"}},
	},
	start: "S",
}

// S → L = R | R
// L → * R | id
// R → L
var assignGrammar = &testGrammar{
	terminals:    []string{"=", "*", "id"},
	nonTerminals: []string{"S", "L", "R"},
	productions: map[string][][]string{
		"S": {{"L", "=", "R"}, {"R"}},
		"L": {{"*", "R"}, {"id"}},
		"R": {{"L"}},
	},
	start: "S",
}

// S → A b | ε
// A → a | ε
var nullableGrammar = &testGrammar{
	terminals:    []string{"a", "b"},
	nonTerminals: []string{"S", "A"},
	productions: map[string][][]string{
		"S": {{"A", "b"}, {}},
		"A": {{"a"}, {}},
	},
	start: "S",
}

// E → E + E | ID
var ambiguousGrammar = &testGrammar{
	terminals:    []string{"+", "ID"},
	nonTerminals: []string{"E"},
	productions: map[string][][]string{
		"E": {{"E", "+", "E"}, {"ID"}},
	},
	start: "E",
}

// S → i S e S | i S | a
var danglingElseGrammar = &testGrammar{
	terminals:    []string{"i", "e", "a"},
	nonTerminals: []string{"S"},
	productions: map[string][][]string{
		"S": {{"i", "S", "e", "S"}, {"i", "S"}, {"a"}},
	},
	start: "S",
}

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

func genSymbols(genSym testSymbolGenerator, texts ...string) []symbol.Symbol {
	syms := make([]symbol.Symbol, len(texts))
	for i, text := range texts {
		syms[i] = genSym(text)
	}
	return syms
}

func testSymbolSet(t *testing.T, gram *Grammar, actual []symbol.Symbol, expected ...string) {
	t.Helper()

	if len(actual) != len(expected) {
		t.Fatalf("unexpected symbol count; want: %v, got: %v", expected, gram.Texts(actual))
	}
	want := map[string]struct{}{}
	for _, text := range expected {
		want[text] = struct{}{}
	}
	for _, sym := range actual {
		if _, ok := want[gram.Text(sym)]; !ok {
			t.Fatalf("unexpected symbol; want: %v, got: %v", expected, gram.Texts(actual))
		}
	}
}

func findProduction(t *testing.T, gram *Grammar, lhs string, rhs ...string) *Production {
	t.Helper()

	genSym := newTestSymbolGenerator(t, gram.SymbolTable())
	body := genSymbols(genSym, rhs...)
	for _, prod := range gram.ProductionsOf(genSym(lhs)) {
		if len(prod.Body()) != len(body) {
			continue
		}
		match := true
		for i, sym := range prod.Body() {
			if sym != body[i] {
				match = false
				break
			}
		}
		if match {
			return prod
		}
	}
	t.Fatalf("production was not found: %v → %v", lhs, rhs)
	return nil
}
