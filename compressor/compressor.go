package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Table is a two-dimensional table of ints compressed in two stages. Identical rows are stored
// once, then the stored rows are overlaid on one vector by row displacement.
type Table struct {
	RowCount   int
	ColCount   int
	EmptyValue int

	// RowNums maps a row to its unique row.
	RowNums []int

	// Entries, Bounds, and RowDisplacement hold the unique rows. The unique row r occupies
	// Entries[RowDisplacement[r]+col] for every col whose Bounds entry equals r.
	Entries         []int
	Bounds          []int
	RowDisplacement []int
}

const boundNone = -1

// Compress compresses a row-major table. Cells equal to emptyValue may be shared between rows, so
// they must not carry information.
func Compress(entries []int, colCount int, emptyValue int) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	uniq, rowNums := shareRows(entries, colCount)
	tab := &Table{
		RowCount:   len(entries) / colCount,
		ColCount:   colCount,
		EmptyValue: emptyValue,
		RowNums:    rowNums,
	}
	tab.displaceRows(uniq)
	return tab, nil
}

// shareRows returns the distinct rows in order of first appearance and the index of each row
// among them.
func shareRows(entries []int, colCount int) ([]int, []int) {
	rowCount := len(entries) / colCount
	var uniq []int
	rowNums := make([]int, rowCount)
	known := map[string]int{}
	for row := 0; row < rowCount; row++ {
		cells := entries[row*colCount : (row+1)*colCount]
		key := make([]byte, 0, colCount*2)
		for _, v := range cells {
			key = binary.AppendVarint(key, int64(v))
		}
		num, ok := known[string(key)]
		if !ok {
			num = len(known)
			known[string(key)] = num
			uniq = append(uniq, cells...)
		}
		rowNums[row] = num
	}
	return uniq, rowNums
}

type rowInfo struct {
	num      int
	nonEmpty []int
}

// displaceRows places the densest rows first, each at the lowest displacement after the previous
// one where its non-empty cells hit only empty slots.
func (tab *Table) displaceRows(uniq []int) {
	rowCount := len(uniq) / tab.ColCount
	rows := make([]rowInfo, rowCount)
	for row := 0; row < rowCount; row++ {
		rows[row].num = row
		for col := 0; col < tab.ColCount; col++ {
			if uniq[row*tab.ColCount+col] != tab.EmptyValue {
				rows[row].nonEmpty = append(rows[row].nonEmpty, col)
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].nonEmpty) > len(rows[j].nonEmpty)
	})

	entries := make([]int, len(uniq))
	bounds := make([]int, len(uniq))
	for i := range entries {
		entries[i] = tab.EmptyValue
		bounds[i] = boundNone
	}
	displacement := make([]int, rowCount)
	bottom := tab.ColCount
	next := 0
	for _, r := range rows {
		if len(r.nonEmpty) == 0 {
			continue
		}
		for !fits(bounds, next, r.nonEmpty) {
			next++
		}
		displacement[r.num] = next
		for _, col := range r.nonEmpty {
			entries[next+col] = uniq[r.num*tab.ColCount+col]
			bounds[next+col] = r.num
		}
		bottom = next + tab.ColCount
		next++
	}

	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.RowDisplacement = displacement
}

func fits(bounds []int, d int, cols []int) bool {
	for _, col := range cols {
		if bounds[d+col] != boundNone {
			return false
		}
	}
	return true
}

func (tab *Table) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.RowCount || col < 0 || col >= tab.ColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	u := tab.RowNums[row]
	i := tab.RowDisplacement[u] + col
	if tab.Bounds[i] != u {
		return tab.EmptyValue, nil
	}
	return tab.Entries[i], nil
}

// UniqueRowCount returns the number of distinct rows.
func (tab *Table) UniqueRowCount() int {
	return len(tab.RowDisplacement)
}

// Size returns the number of ints the compressed table stores.
func (tab *Table) Size() int {
	return len(tab.RowNums) + len(tab.Entries) + len(tab.Bounds) + len(tab.RowDisplacement)
}
