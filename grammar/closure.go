package grammar

import (
	"sort"

	"github.com/nihei9/lrtab/grammar/symbol"
)

// closureItem is implemented by both *Item and *LR1Item.
type closureItem interface {
	core() *Item
}

// genClosure saturates seed. expand returns the items a non-terminal contributes when an item
// has the dot right before it. Items are scanned in order and new items are appended, so the result
// keeps the seed first. Each non-terminal is expanded once per call: a second item with the dot
// before the same non-terminal contributes nothing. An item whose core is already present keeps
// the look-ahead it was created with.
func genClosure[T closureItem](seed []T, expand func(src T, sym symbol.Symbol) ([]T, error)) ([]T, error) {
	items := make([]T, 0, len(seed))
	knownItems := map[lrItemID]struct{}{}
	for _, item := range seed {
		if _, exist := knownItems[item.core().id]; exist {
			continue
		}
		knownItems[item.core().id] = struct{}{}
		items = append(items, item)
	}

	expanded := map[symbol.Symbol]struct{}{}
	for i := 0; i < len(items); i++ {
		item := items[i]
		sym := item.core().dottedSymbol
		if !sym.IsNonTerminal() {
			continue
		}
		if _, done := expanded[sym]; done {
			continue
		}
		expanded[sym] = struct{}{}

		newItems, err := expand(item, sym)
		if err != nil {
			return nil, err
		}
		for _, newItem := range newItems {
			if _, exist := knownItems[newItem.core().id]; exist {
				continue
			}
			knownItems[newItem.core().id] = struct{}{}
			items = append(items, newItem)
		}
	}

	return items, nil
}

// sortKernel orders kernel items by production number and dot so that the content of a state
// never depends on the order its predecessor was explored in.
func sortKernel[T closureItem](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].core(), items[j].core()
		if a.prod.Num != b.prod.Num {
			return a.prod.Num < b.prod.Num
		}
		return a.dot < b.dot
	})
}
