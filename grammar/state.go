package grammar

import (
	"encoding/hex"
	"sort"

	"github.com/cnf/structhash"
)

const stateKeyVersion = 1

// stateKey identifies a state by the structure of its item set. It never depends on the order
// in which items were discovered nor on how items are rendered.
type stateKey string

type itemShape struct {
	Production int
	Dot        int
	LookAhead  []uint16
}

type stateShape struct {
	Items []itemShape
}

func genStateKey(items []itemShape) stateKey {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Production != items[j].Production {
			return items[i].Production < items[j].Production
		}
		return items[i].Dot < items[j].Dot
	})
	return stateKey(hex.EncodeToString(structhash.Sha1(stateShape{Items: items}, stateKeyVersion)))
}

func genLR0StateKey(items []*Item) stateKey {
	shapes := make([]itemShape, len(items))
	for i, item := range items {
		shapes[i] = itemShape{
			Production: item.prod.Num.Int(),
			Dot:        item.dot,
		}
	}
	return genStateKey(shapes)
}

func genLR1StateKey(items []*LR1Item) stateKey {
	shapes := make([]itemShape, len(items))
	for i, item := range items {
		la := item.LookAhead()
		syms := make([]uint16, len(la))
		for j, a := range la {
			syms[j] = uint16(a)
		}
		shapes[i] = itemShape{
			Production: item.prod.Num.Int(),
			Dot:        item.dot,
			LookAhead:  syms,
		}
	}
	return genStateKey(shapes)
}

// worklist holds states waiting to be explored. Only the traversal order differs between FIFO and
// LIFO; the resulting collection of states is the same.
type worklist struct {
	nums []StateNum
	lifo bool
}

func (w *worklist) push(n StateNum) {
	w.nums = append(w.nums, n)
}

func (w *worklist) pop() (StateNum, bool) {
	if len(w.nums) == 0 {
		return stateNumInitial, false
	}
	var n StateNum
	if w.lifo {
		n = w.nums[len(w.nums)-1]
		w.nums = w.nums[:len(w.nums)-1]
	} else {
		n = w.nums[0]
		w.nums = w.nums[1:]
	}
	return n, true
}

type buildConfig struct {
	lifo bool
}

// BuildOption configures automaton construction.
type BuildOption func(c *buildConfig)

// DepthFirst makes a builder explore states depth-first instead of breadth-first. State numbers
// change, while the collection of states and the conflicts found stay the same.
func DepthFirst() BuildOption {
	return func(c *buildConfig) {
		c.lifo = true
	}
}

func newBuildConfig(opts []BuildOption) *buildConfig {
	c := &buildConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
