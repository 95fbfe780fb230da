package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/nihei9/lrtab/grammar/symbol"
)

// LR1State is a state of the canonical LR(1) collection. Two states with the same cores and
// different look-ahead sets are different states.
type LR1State struct {
	Num   StateNum
	Items []*LR1Item
	key   stateKey
}

// LR1Automaton is the canonical LR(1) collection, its table, and the conflicts left in the table.
type LR1Automaton struct {
	// Grammar is the augmented grammar whose production 0 is `<start> → start`. The end-marker is
	// carried only as a look-ahead, so the parser accepts by reducing production 0 on `$`.
	Grammar     *Grammar
	States      []*LR1State
	Table       *LR1Table
	Diagnostics *Diagnostics
}

type lr1Builder struct {
	gram     *Grammar
	analysis *Analysis
	states   []*LR1State
	known    map[stateKey]*LR1State
	queue    *worklist
	tab      *LR1Table
	diag     *Diagnostics
}

// BuildLR1 builds the canonical LR(1) collection of gram. analysis must be the result of Analyze
// for the same grammar. Conflicting actions stay in the table side by side and are recorded in
// the diagnostics; the parser decides among them.
func BuildLR1(gram *Grammar, analysis *Analysis, opts ...BuildOption) (*LR1Automaton, error) {
	if gram == nil || analysis == nil {
		return nil, fmt.Errorf("grammar and analysis must be non-nil")
	}
	if analysis.Grammar() != gram {
		return nil, fmt.Errorf("analysis was computed for another grammar")
	}
	if gram.IsAugmented() {
		return nil, fmt.Errorf("the LR(1) builder augments a grammar by itself; pass an unaugmented grammar")
	}

	config := newBuildConfig(opts)
	aug := gram.augment([]symbol.Symbol{gram.StartSymbol()})
	b := &lr1Builder{
		gram:     aug,
		analysis: analysis,
		known:    map[stateKey]*LR1State{},
		queue:    &worklist{lifo: config.lifo},
		tab:      newLR1Table(aug),
		diag:     newDiagnostics(aug),
	}

	startProds := aug.ProductionsOf(symbol.SymbolStart)
	if len(startProds) != 1 {
		return nil, fmt.Errorf("an augmented grammar must have exactly one start production")
	}
	initialItem, err := newLR1Item(startProds[0], 0, newSymbolSet(symbol.SymbolEOF))
	if err != nil {
		return nil, err
	}
	if _, err := b.register([]*LR1Item{initialItem}); err != nil {
		return nil, err
	}

	for {
		num, ok := b.queue.pop()
		if !ok {
			break
		}
		if err := b.process(b.states[num]); err != nil {
			return nil, err
		}
	}

	b.detectConflicts()

	tracer().Debugf("LR(1): %v states, %v conflicts", len(b.states), b.diag.Len())

	return &LR1Automaton{
		Grammar:     aug,
		States:      b.states,
		Table:       b.tab,
		Diagnostics: b.diag,
	}, nil
}

// genLookAhead returns the look-ahead of the items src contributes to a closure:
// FIRST(rest) without ε, plus the look-ahead of src when rest is nullable.
func (b *lr1Builder) genLookAhead(src *LR1Item) *symbolSet {
	rest := src.rest()
	la := newSymbolSet()
	la.merge(b.analysis.firstOfSequence(rest), symbol.SymbolEpsilon)
	if b.analysis.AllNullable(rest) {
		la.merge(src.lookAhead)
	}
	return la
}

func (b *lr1Builder) closure(kernel []*LR1Item) ([]*LR1Item, error) {
	sortKernel[*LR1Item](kernel)
	return genClosure[*LR1Item](kernel, func(src *LR1Item, sym symbol.Symbol) ([]*LR1Item, error) {
		la := b.genLookAhead(src)
		prods := b.gram.ProductionsOf(sym)
		items := make([]*LR1Item, 0, len(prods))
		for _, prod := range prods {
			item, err := newLR1Item(prod, 0, la.clone())
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	})
}

func (b *lr1Builder) register(kernel []*LR1Item) (*LR1State, error) {
	items, err := b.closure(kernel)
	if err != nil {
		return nil, err
	}
	key := genLR1StateKey(items)
	if s, ok := b.known[key]; ok {
		return s, nil
	}
	s := &LR1State{
		Num:   b.tab.addState(),
		Items: items,
		key:   key,
	}
	b.states = append(b.states, s)
	b.known[key] = s
	b.queue.push(s.Num)
	return s, nil
}

func (b *lr1Builder) process(s *LR1State) error {
	groups := linkedhashmap.New()
	for _, item := range s.Items {
		if item.reducible {
			act := newReduceAction(item.prod)
			for _, a := range item.LookAhead() {
				if err := b.tab.appendAction(s.Num, a, act); err != nil {
					return err
				}
			}
			continue
		}

		next, err := item.advance()
		if err != nil {
			return err
		}
		var group []*LR1Item
		if v, ok := groups.Get(item.dottedSymbol); ok {
			group = v.([]*LR1Item)
		}
		groups.Put(item.dottedSymbol, append(group, next))
	}

	it := groups.Iterator()
	for it.Next() {
		sym := it.Key().(symbol.Symbol)
		target, err := b.register(it.Value().([]*LR1Item))
		if err != nil {
			return err
		}
		if err := b.tab.appendAction(s.Num, sym, newShiftAction(target.Num)); err != nil {
			return err
		}
	}
	return nil
}

// detectConflicts scans the finished table and records every entry holding two or more actions.
func (b *lr1Builder) detectConflicts() {
	cols := b.tab.Columns()
	for _, s := range b.states {
		for _, sym := range cols {
			acts := b.tab.Actions(s.Num, sym)
			if len(acts) < 2 {
				continue
			}
			var items []*Item
			for _, item := range s.Items {
				if (item.reducible && item.lookAhead.contains(sym)) || item.dottedSymbol == sym {
					items = append(items, item.Item)
				}
			}
			b.diag.add(&Diagnostic{
				Kind:    classifyActions(acts),
				State:   s.Num,
				Symbol:  sym,
				Items:   items,
				Actions: acts,
			})
		}
	}
}
