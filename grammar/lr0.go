package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/nihei9/lrtab/grammar/symbol"
)

// LR0State is a state of the canonical LR(0) collection. Items holds the closure with the sorted
// kernel first.
type LR0State struct {
	Num   StateNum
	Items []*Item
	key   stateKey
}

// LR0Automaton is the canonical LR(0) collection of an augmented grammar together with its table
// and the conflicts found while building it.
type LR0Automaton struct {
	// Grammar is the augmented grammar whose production 0 is `<start> → start $`.
	Grammar     *Grammar
	States      []*LR0State
	Table       *LR0Table
	Diagnostics *Diagnostics
}

type lr0Builder struct {
	gram   *Grammar
	states []*LR0State
	known  map[stateKey]*LR0State
	queue  *worklist
	tab    *LR0Table
	diag   *Diagnostics
}

// BuildLR0 augments gram with `<start> → start $` and builds the canonical LR(0) collection.
// Every state gets exactly one action. A state holding a completed item reduces by the first
// completed item it meets, as long as no shift item came before it; conflicts are recorded in
// the diagnostics and never stop the construction.
func BuildLR0(gram *Grammar, opts ...BuildOption) (*LR0Automaton, error) {
	if gram == nil {
		return nil, fmt.Errorf("grammar must be non-nil")
	}
	if gram.IsAugmented() {
		return nil, fmt.Errorf("the LR(0) builder augments a grammar by itself; pass an unaugmented grammar")
	}

	config := newBuildConfig(opts)
	aug := gram.Augment()
	b := &lr0Builder{
		gram:  aug,
		known: map[stateKey]*LR0State{},
		queue: &worklist{lifo: config.lifo},
		tab: &LR0Table{
			gram:         aug,
			initialState: stateNumInitial,
		},
		diag: newDiagnostics(aug),
	}

	startProds := aug.ProductionsOf(symbol.SymbolStart)
	if len(startProds) != 1 {
		return nil, fmt.Errorf("an augmented grammar must have exactly one start production")
	}
	initialItem, err := newLR0Item(startProds[0], 0)
	if err != nil {
		return nil, err
	}
	if _, err := b.register([]*Item{initialItem}); err != nil {
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

	tracer().Debugf("LR(0): %v states, %v conflicts", len(b.states), b.diag.Len())

	return &LR0Automaton{
		Grammar:     aug,
		States:      b.states,
		Table:       b.tab,
		Diagnostics: b.diag,
	}, nil
}

func (b *lr0Builder) closure(kernel []*Item) ([]*Item, error) {
	sortKernel[*Item](kernel)
	return genClosure[*Item](kernel, func(_ *Item, sym symbol.Symbol) ([]*Item, error) {
		prods := b.gram.ProductionsOf(sym)
		items := make([]*Item, 0, len(prods))
		for _, prod := range prods {
			item, err := newLR0Item(prod, 0)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	})
}

// register closes a kernel and returns the state holding the closure. An unknown state gets the
// next number and joins the worklist.
func (b *lr0Builder) register(kernel []*Item) (*LR0State, error) {
	items, err := b.closure(kernel)
	if err != nil {
		return nil, err
	}
	key := genLR0StateKey(items)
	if s, ok := b.known[key]; ok {
		return s, nil
	}
	s := &LR0State{
		Num:   StateNum(len(b.states)),
		Items: items,
		key:   key,
	}
	b.states = append(b.states, s)
	b.known[key] = s
	b.queue.push(s.Num)
	return s, nil
}

func (b *lr0Builder) process(s *LR0State) error {
	var handle *Item
	groups := linkedhashmap.New()
	for _, item := range s.Items {
		if item.reducible {
			switch {
			case groups.Size() > 0:
				b.diag.add(&Diagnostic{
					Kind:  DiagnosticShiftReduce,
					State: s.Num,
					Items: []*Item{item},
				})
			case handle != nil:
				b.diag.add(&Diagnostic{
					Kind:  DiagnosticReduceReduce,
					State: s.Num,
					Items: []*Item{handle, item},
				})
			default:
				handle = item
			}
			continue
		}

		if handle != nil {
			b.diag.add(&Diagnostic{
				Kind:  DiagnosticShiftReduce,
				State: s.Num,
				Items: []*Item{handle, item},
			})
			continue
		}

		next, err := item.advance()
		if err != nil {
			return err
		}
		var group []*Item
		if v, ok := groups.Get(item.dottedSymbol); ok {
			group = v.([]*Item)
		}
		groups.Put(item.dottedSymbol, append(group, next))
	}

	if handle != nil {
		b.tab.writeEntry(s.Num, &LR0Entry{
			Action: newReduceAction(handle.prod),
		})
		return nil
	}

	next := map[symbol.Symbol]StateNum{}
	it := groups.Iterator()
	for it.Next() {
		sym := it.Key().(symbol.Symbol)
		target, err := b.register(it.Value().([]*Item))
		if err != nil {
			return err
		}
		next[sym] = target.Num
	}
	b.tab.writeEntry(s.Num, &LR0Entry{
		Action: Action{Type: ActionTypeShift},
		Next:   next,
	})
	return nil
}
