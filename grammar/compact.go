package grammar

import (
	"strings"

	"github.com/nihei9/lrtab/compressor"
	"github.com/nihei9/lrtab/grammar/symbol"
)

// CompactLR1Table answers Actions exactly like the LR1Table it was made from. Every distinct
// action list gets a number, and the matrix of those numbers is compressed.
type CompactLR1Table struct {
	gram         *Grammar
	initialState StateNum
	termCount    int
	nonTermCount int

	// actionSets[0] is the empty list.
	actionSets [][]Action
	tab        *compressor.Table
}

// Compact numbers the action lists of the table and compresses the result.
func (t *LR1Table) Compact() (*CompactLR1Table, error) {
	colCount := t.columnCount()
	actionSets := [][]Action{nil}
	setNums := map[string]int{}
	entries := make([]int, 0, len(t.rows)*colCount)
	for _, row := range t.rows {
		for _, acts := range row {
			if len(acts) == 0 {
				entries = append(entries, 0)
				continue
			}
			key := actionSetKey(acts)
			num, ok := setNums[key]
			if !ok {
				num = len(actionSets)
				setNums[key] = num
				actionSets = append(actionSets, acts)
			}
			entries = append(entries, num)
		}
	}

	tab, err := compressor.Compress(entries, colCount, 0)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("compact table: %v states, %v unique rows, %v action lists, %v -> %v ints",
		len(t.rows), tab.UniqueRowCount(), len(actionSets)-1, len(entries), tab.Size())

	return &CompactLR1Table{
		gram:         t.gram,
		initialState: t.initialState,
		termCount:    t.termCount,
		nonTermCount: t.nonTermCount,
		actionSets:   actionSets,
		tab:          tab,
	}, nil
}

func actionSetKey(acts []Action) string {
	keys := make([]string, len(acts))
	for i, act := range acts {
		keys[i] = act.String()
	}
	return strings.Join(keys, ",")
}

func (t *CompactLR1Table) Grammar() *Grammar {
	return t.gram
}

func (t *CompactLR1Table) InitialState() StateNum {
	return t.initialState
}

func (t *CompactLR1Table) StateCount() int {
	return t.tab.RowCount
}

// Actions returns the actions at (state, sym). Unknown states and symbols have no actions.
func (t *CompactLR1Table) Actions(state StateNum, sym symbol.Symbol) []Action {
	col, ok := columnOf(t.termCount, t.nonTermCount, sym)
	if !ok {
		return nil
	}
	num, err := t.tab.Lookup(state.Int(), col)
	if err != nil || num <= 0 || num >= len(t.actionSets) {
		return nil
	}
	return t.actionSets[num]
}

// CompactionStats summarizes how much a compact table saves.
type CompactionStats struct {
	States       int
	UniqueRows   int
	ActionLists  int
	OriginalSize int
	Size         int
}

func (t *CompactLR1Table) Stats() CompactionStats {
	return CompactionStats{
		States:       t.tab.RowCount,
		UniqueRows:   t.tab.UniqueRowCount(),
		ActionLists:  len(t.actionSets) - 1,
		OriginalSize: t.tab.RowCount * t.tab.ColCount,
		Size:         t.tab.Size(),
	}
}
