package grammar

import (
	"fmt"

	"github.com/nihei9/lrtab/grammar/symbol"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
)

// Action is either Shift(State) or Reduce(Production).
type Action struct {
	Type       ActionType
	State      StateNum
	Production *Production
}

func newShiftAction(state StateNum) Action {
	return Action{
		Type:  ActionTypeShift,
		State: state,
	}
}

func newReduceAction(prod *Production) Action {
	return Action{
		Type:       ActionTypeReduce,
		Production: prod,
	}
}

func (a Action) String() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("s%v", a.State)
	case ActionTypeReduce:
		return fmt.Sprintf("r%v", a.Production.Num)
	}
	return "?"
}

// LR0Entry is the single action of an LR(0) state. A shift entry keeps its targets in Next rather
// than in Action.State, since one state shifts to several states; a reduce entry has no transitions.
type LR0Entry struct {
	Action Action
	Next   map[symbol.Symbol]StateNum
}

// LR0Table has exactly one entry per state and no look-ahead dimension.
type LR0Table struct {
	gram         *Grammar
	initialState StateNum
	entries      []*LR0Entry
}

func (t *LR0Table) Grammar() *Grammar {
	return t.gram
}

func (t *LR0Table) InitialState() StateNum {
	return t.initialState
}

func (t *LR0Table) StateCount() int {
	return len(t.entries)
}

func (t *LR0Table) Entry(state StateNum) (*LR0Entry, bool) {
	if state < 0 || state.Int() >= len(t.entries) || t.entries[state] == nil {
		return nil, false
	}
	return t.entries[state], true
}

// GoTo returns the target of the transition of a shift state over sym.
func (t *LR0Table) GoTo(state StateNum, sym symbol.Symbol) (StateNum, bool) {
	e, ok := t.Entry(state)
	if !ok || e.Action.Type != ActionTypeShift {
		return stateNumInitial, false
	}
	next, ok := e.Next[sym]
	return next, ok
}

func (t *LR0Table) writeEntry(state StateNum, e *LR0Entry) {
	for state.Int() >= len(t.entries) {
		t.entries = append(t.entries, nil)
	}
	t.entries[state] = e
}

// LR1Table stores a list of actions per (state, symbol). Columns are the ordinary terminals,
// the end-marker, then the non-terminals. A list longer than one is a conflict left for the
// parser to resolve.
type LR1Table struct {
	gram         *Grammar
	initialState StateNum
	termCount    int
	nonTermCount int
	rows         [][][]Action
}

func newLR1Table(gram *Grammar) *LR1Table {
	r := gram.SymbolTable()
	return &LR1Table{
		gram:         gram,
		initialState: stateNumInitial,
		termCount:    r.TerminalCount(),
		nonTermCount: r.NonTerminalCount(),
	}
}

func (t *LR1Table) Grammar() *Grammar {
	return t.gram
}

func (t *LR1Table) InitialState() StateNum {
	return t.initialState
}

func (t *LR1Table) StateCount() int {
	return len(t.rows)
}

func (t *LR1Table) columnCount() int {
	return t.termCount + 1 + t.nonTermCount
}

func (t *LR1Table) column(sym symbol.Symbol) (int, bool) {
	return columnOf(t.termCount, t.nonTermCount, sym)
}

func columnOf(termCount, nonTermCount int, sym symbol.Symbol) (int, bool) {
	switch {
	case sym.IsEOF():
		return termCount, true
	case sym.IsTerminal():
		col := sym.Num().Int() - 1
		return col, col >= 0 && col < termCount
	case sym.IsNonTerminal() && !sym.IsStart():
		col := sym.Num().Int() - 2
		return termCount + 1 + col, col >= 0 && col < nonTermCount
	}
	return 0, false
}

// Columns returns the symbols in column order.
func (t *LR1Table) Columns() []symbol.Symbol {
	r := t.gram.SymbolTable()
	cols := make([]symbol.Symbol, 0, t.columnCount())
	cols = append(cols, r.TerminalSymbols()...)
	cols = append(cols, symbol.SymbolEOF)
	cols = append(cols, r.NonTerminalSymbols()...)
	return cols
}

// Actions returns the actions at (state, sym). Unknown states and symbols have no actions.
func (t *LR1Table) Actions(state StateNum, sym symbol.Symbol) []Action {
	if state < 0 || state.Int() >= len(t.rows) {
		return nil
	}
	col, ok := t.column(sym)
	if !ok {
		return nil
	}
	return t.rows[state][col]
}

func (t *LR1Table) addState() StateNum {
	t.rows = append(t.rows, make([][]Action, t.columnCount()))
	return StateNum(len(t.rows) - 1)
}

func (t *LR1Table) appendAction(state StateNum, sym symbol.Symbol, act Action) error {
	if state < 0 || state.Int() >= len(t.rows) {
		return fmt.Errorf("a state is missing from the parsing table: %v", state)
	}
	col, ok := t.column(sym)
	if !ok {
		return fmt.Errorf("a symbol has no column in the parsing table: %v", sym)
	}
	for _, a := range t.rows[state][col] {
		if a.Type == act.Type && a.State == act.State && a.Production == act.Production {
			return nil
		}
	}
	t.rows[state][col] = append(t.rows[state][col], act)
	return nil
}
