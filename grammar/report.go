package grammar

import (
	"fmt"

	spec "github.com/nihei9/lrtab/spec/grammar"
)

// NewGrammarFromSource builds a grammar from a grammar file.
func NewGrammarFromSource(src *spec.Source) (*Grammar, error) {
	gram, err := NewGrammar(src.Terminals, src.NonTerminals, src.ProductionMap(), src.Start)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", src.Name, err)
	}
	return gram, nil
}

// Report describes the states, the actions, and the conflicts of the automaton.
func (a *LR0Automaton) Report(name string) *spec.Report {
	gram := a.Grammar
	r := genReportHeader(gram, name, spec.MethodLR0)

	conflicts := groupConflicts(a.Diagnostics)
	for _, s := range a.States {
		st := &spec.State{
			Number:    s.Num.Int(),
			Items:     make([]*spec.Item, len(s.Items)),
			Conflicts: conflicts[s.Num],
		}
		for i, item := range s.Items {
			st.Items[i] = genReportItem(item)
		}

		e, ok := a.Table.Entry(s.Num)
		if ok {
			switch e.Action.Type {
			case ActionTypeReduce:
				st.Reduce = []*spec.Reduce{
					{
						Production: e.Action.Production.Num.Int(),
					},
				}
			case ActionTypeShift:
				for _, sym := range gram.Terminals() {
					if next, ok := e.Next[sym]; ok {
						st.Shift = append(st.Shift, &spec.Transition{
							Symbol: gram.Text(sym),
							State:  next.Int(),
						})
					}
				}
				for _, sym := range gram.NonTerminals() {
					if next, ok := e.Next[sym]; ok {
						st.GoTo = append(st.GoTo, &spec.Transition{
							Symbol: gram.Text(sym),
							State:  next.Int(),
						})
					}
				}
			}
		}

		r.States = append(r.States, st)
	}

	return r
}

// Report describes the states, the actions, and the conflicts of the automaton.
func (a *LR1Automaton) Report(name string) *spec.Report {
	gram := a.Grammar
	r := genReportHeader(gram, name, spec.MethodLR1)

	conflicts := groupConflicts(a.Diagnostics)
	for _, s := range a.States {
		st := &spec.State{
			Number:    s.Num.Int(),
			Items:     make([]*spec.Item, len(s.Items)),
			Conflicts: conflicts[s.Num],
		}
		for i, item := range s.Items {
			st.Items[i] = genReportItem(item.Item)
			st.Items[i].LookAhead = gram.Texts(item.LookAhead())
		}

		reduces := map[ProductionNum]*spec.Reduce{}
		for _, sym := range a.Table.Columns() {
			for _, act := range a.Table.Actions(s.Num, sym) {
				switch {
				case act.Type == ActionTypeShift && sym.IsTerminal():
					st.Shift = append(st.Shift, &spec.Transition{
						Symbol: gram.Text(sym),
						State:  act.State.Int(),
					})
				case act.Type == ActionTypeShift:
					st.GoTo = append(st.GoTo, &spec.Transition{
						Symbol: gram.Text(sym),
						State:  act.State.Int(),
					})
				case act.Type == ActionTypeReduce:
					red, ok := reduces[act.Production.Num]
					if !ok {
						red = &spec.Reduce{
							Production: act.Production.Num.Int(),
						}
						reduces[act.Production.Num] = red
						st.Reduce = append(st.Reduce, red)
					}
					red.LookAhead = append(red.LookAhead, gram.Text(sym))
				}
			}
		}

		r.States = append(r.States, st)
	}

	return r
}

func genReportHeader(gram *Grammar, name string, method string) *spec.Report {
	r := &spec.Report{
		Name:         name,
		Method:       method,
		Terminals:    gram.Texts(gram.Terminals()),
		NonTerminals: gram.Texts(gram.NonTerminals()),
	}
	for _, p := range gram.Productions() {
		rhs := make([]string, 0, len(p.Body()))
		for _, sym := range p.Body() {
			rhs = append(rhs, gram.Text(sym))
		}
		r.Productions = append(r.Productions, &spec.Production{
			Number: p.Num.Int(),
			LHS:    gram.Text(p.LHS),
			RHS:    rhs,
		})
	}
	return r
}

func genReportItem(item *Item) *spec.Item {
	return &spec.Item{
		Production: item.prod.Num.Int(),
		Dot:        item.dot,
	}
}

func groupConflicts(diag *Diagnostics) map[StateNum][]*spec.Conflict {
	conflicts := map[StateNum][]*spec.Conflict{}
	for _, d := range diag.Records() {
		c := &spec.Conflict{
			Kind:    string(d.Kind),
			Items:   make([]*spec.Item, len(d.Items)),
			Actions: make([]string, len(d.Actions)),
			Message: diag.Format(d),
		}
		if !d.Symbol.IsNil() {
			c.Symbol = diag.gram.Text(d.Symbol)
		}
		for i, item := range d.Items {
			c.Items[i] = genReportItem(item)
		}
		for i, act := range d.Actions {
			c.Actions[i] = act.String()
		}
		conflicts[d.State] = append(conflicts[d.State], c)
	}
	return conflicts
}

// FormatReportItem renders an item of a report like `E → T・E'`.
func FormatReportItem(r *spec.Report, item *spec.Item) string {
	if item.Production < 0 || item.Production >= len(r.Productions) {
		return fmt.Sprintf("<unknown production %v>", item.Production)
	}
	prod := r.Productions[item.Production]
	s := prod.LHS + " →"
	for i, text := range prod.RHS {
		if i == item.Dot {
			s += "・"
		} else {
			s += " "
		}
		s += text
	}
	if item.Dot >= len(prod.RHS) {
		s += "・"
	}
	if len(item.LookAhead) > 0 {
		s += fmt.Sprintf(", %v", item.LookAhead)
	}
	return s
}
