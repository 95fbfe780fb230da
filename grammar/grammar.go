package grammar

import (
	"fmt"
	"strings"

	"github.com/nihei9/lrtab/grammar/symbol"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrtab.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lrtab.grammar")
}

// Grammar is a validated context-free grammar. A grammar is immutable once NewGrammar returns it;
// every derived structure (analysis, automata) is computed from scratch.
type Grammar struct {
	productionSet *productionSet
	symbolTable   *symbol.SymbolTableReader
	terminals     []symbol.Symbol
	nonTerminals  []symbol.Symbol
	startSymbol   symbol.Symbol

	// augmented is true when the grammar contains a synthetic production `<start> → ...`.
	augmented bool
}

// NewGrammar validates its arguments and builds a grammar. The order of terminals and nonTerminals
// is the declaration order; productions of each non-terminal are numbered in that order.
// A body may be empty or `[ε]`, and both denote an epsilon production. A body repeated for the same
// non-terminal is kept only once, at its first position. A grammar needs no terminal; `S → ε` denotes {ε}.
func NewGrammar(terminals []string, nonTerminals []string, productions map[string][][]string, start string) (*Grammar, error) {
	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()
	r := symTab.Reader()

	declared := map[string]struct{}{}
	declare := func(text string) error {
		if symbol.IsReservedText(text) {
			return &ValidationError{Cause: ErrReservedSymbol, Detail: text}
		}
		if text == "" {
			return &ValidationError{Cause: ErrUndefinedSymbol, Detail: "a symbol name must be non-empty"}
		}
		if _, ok := declared[text]; ok {
			return &ValidationError{Cause: ErrDuplicateSymbol, Detail: text}
		}
		declared[text] = struct{}{}
		return nil
	}

	termSyms := make([]symbol.Symbol, 0, len(terminals))
	for _, text := range terminals {
		if err := declare(text); err != nil {
			return nil, err
		}
		sym, err := w.RegisterTerminalSymbol(text)
		if err != nil {
			return nil, err
		}
		termSyms = append(termSyms, sym)
	}
	nonTermSyms := make([]symbol.Symbol, 0, len(nonTerminals))
	for _, text := range nonTerminals {
		if sym, ok := r.ToSymbol(text); ok && sym.IsTerminal() && !symbol.IsReservedText(text) {
			return nil, &ValidationError{Cause: ErrOverlappingSymbol, Detail: text}
		}
		if err := declare(text); err != nil {
			return nil, err
		}
		sym, err := w.RegisterNonTerminalSymbol(text)
		if err != nil {
			return nil, err
		}
		nonTermSyms = append(nonTermSyms, sym)
	}

	startSym, ok := r.ToSymbol(start)
	if !ok || !startSym.IsNonTerminal() || startSym.IsStart() {
		return nil, &ValidationError{Cause: ErrUndefinedStart, Detail: start}
	}

	for lhs := range productions {
		sym, ok := r.ToSymbol(lhs)
		if !ok || !sym.IsNonTerminal() || sym.IsStart() {
			return nil, &ValidationError{Cause: ErrUndefinedSymbol, Detail: fmt.Sprintf("LHS %v is not a declared non-terminal", lhs)}
		}
	}

	prods := newProductionSet()
	for i, lhsText := range nonTerminals {
		lhs := nonTermSyms[i]
		for _, body := range productions[lhsText] {
			rhs, err := genRHS(r, lhsText, body)
			if err != nil {
				return nil, err
			}
			prod, err := newProduction(lhs, rhs)
			if err != nil {
				return nil, err
			}
			if !prods.append(prod) {
				tracer().Debugf("a duplicate production was dropped: %v → %v", lhsText, strings.Join(body, " "))
			}
		}
	}

	return &Grammar{
		productionSet: prods,
		symbolTable:   r,
		terminals:     termSyms,
		nonTerminals:  nonTermSyms,
		startSymbol:   startSym,
	}, nil
}

func genRHS(symTab *symbol.SymbolTableReader, lhs string, body []string) ([]symbol.Symbol, error) {
	if len(body) == 0 || (len(body) == 1 && body[0] == symbol.SymbolTextEpsilon) {
		return []symbol.Symbol{symbol.SymbolEpsilon}, nil
	}

	rhs := make([]symbol.Symbol, 0, len(body))
	for _, text := range body {
		sym, ok := symTab.ToSymbol(text)
		if !ok || sym.IsStart() || sym.IsEOF() {
			return nil, &ValidationError{
				Cause:  ErrUndefinedSymbol,
				Detail: fmt.Sprintf("%v in %v → %v", text, lhs, strings.Join(body, " ")),
			}
		}
		if sym.IsEpsilon() {
			// ε is only meaningful as a whole body; inside a sequence it derives nothing.
			continue
		}
		rhs = append(rhs, sym)
	}
	if len(rhs) == 0 {
		return []symbol.Symbol{symbol.SymbolEpsilon}, nil
	}
	return rhs, nil
}

// Augment returns a new grammar containing the synthetic production `<start> → start $`.
// The end-marker is physically embedded in the body, so that FOLLOW(start) contains it.
func (g *Grammar) Augment() *Grammar {
	return g.augment([]symbol.Symbol{g.startSymbol, symbol.SymbolEOF})
}

// augment returns a copy of the grammar whose production 0 is `<start> → startRHS`. The end-marker
// joins the terminals whether or not startRHS contains it.
func (g *Grammar) augment(startRHS []symbol.Symbol) *Grammar {
	if g.augmented {
		return g
	}

	prods := newProductionSet()
	startProd, _ := newProduction(symbol.SymbolStart, startRHS)
	prods.append(startProd)
	for _, p := range g.productionSet.getAllProductions() {
		// Copy productions so that the receiver stays untouched.
		q := *p
		prods.append(&q)
	}

	nonTerms := make([]symbol.Symbol, 0, len(g.nonTerminals)+1)
	nonTerms = append(nonTerms, symbol.SymbolStart)
	nonTerms = append(nonTerms, g.nonTerminals...)
	terms := make([]symbol.Symbol, 0, len(g.terminals)+1)
	terms = append(terms, g.terminals...)
	terms = append(terms, symbol.SymbolEOF)

	return &Grammar{
		productionSet: prods,
		symbolTable:   g.symbolTable,
		terminals:     terms,
		nonTerminals:  nonTerms,
		startSymbol:   symbol.SymbolStart,
		augmented:     true,
	}
}

// IsAugmented returns true when the grammar was produced by Augment.
func (g *Grammar) IsAugmented() bool {
	return g.augmented
}

func (g *Grammar) StartSymbol() symbol.Symbol {
	return g.startSymbol
}

func (g *Grammar) SymbolTable() *symbol.SymbolTableReader {
	return g.symbolTable
}

// Terminals returns the terminals in declaration order. An augmented grammar includes the end-marker.
func (g *Grammar) Terminals() []symbol.Symbol {
	return g.terminals
}

// NonTerminals returns the non-terminals in declaration order. An augmented grammar includes
// the synthetic start symbol first.
func (g *Grammar) NonTerminals() []symbol.Symbol {
	return g.nonTerminals
}

// Productions returns all productions ordered by their numbers.
func (g *Grammar) Productions() []*Production {
	return g.productionSet.getAllProductions()
}

// ProductionsOf returns the productions of a non-terminal, or nil when sym is not a non-terminal.
func (g *Grammar) ProductionsOf(sym symbol.Symbol) []*Production {
	if !sym.IsNonTerminal() {
		return nil
	}
	prods, _ := g.productionSet.findByLHS(sym)
	return prods
}

// ProductionCount returns the number of production rules.
func (g *Grammar) ProductionCount() int {
	return g.productionSet.count()
}

// Text returns the text of a symbol.
func (g *Grammar) Text(sym symbol.Symbol) string {
	return g.symbolTable.MustText(sym)
}

// Texts returns the texts of symbols.
func (g *Grammar) Texts(syms []symbol.Symbol) []string {
	texts := make([]string, len(syms))
	for i, sym := range syms {
		texts[i] = g.Text(sym)
	}
	return texts
}

// FormatProduction renders a production like `E → T E'`.
func (g *Grammar) FormatProduction(p *Production) string {
	return fmt.Sprintf("%v → %v", g.Text(p.LHS), strings.Join(g.Texts(p.RHS), " "))
}
