package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/nihei9/lrtab/grammar/symbol"
)

type lrItemID [32]byte

func (id lrItemID) String() string {
	return fmt.Sprintf("%x", id.num())
}

func (id lrItemID) num() uint32 {
	return binary.LittleEndian.Uint32(id[:])
}

// Item is an LR(0) item. Two items are equal iff their productions and dots are equal,
// which is exactly when their IDs are equal.
type Item struct {
	id   lrItemID
	prod *Production

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	//
	// The body of an epsilon production is empty, so its only item is `A →・` and it is reducible.
	dot          int
	dottedSymbol symbol.Symbol

	// When reducible is true, the item looks like E → E + T・.
	reducible bool
}

func newLR0Item(prod *Production, dot int) (*Item, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}

	body := prod.Body()
	if dot < 0 || dot > len(body) {
		return nil, fmt.Errorf("dot must be between 0 and %v", len(body))
	}

	var id lrItemID
	{
		b := []byte{}
		b = append(b, prod.id[:]...)
		bDot := make([]byte, 8)
		binary.LittleEndian.PutUint64(bDot, uint64(dot))
		b = append(b, bDot...)
		id = sha256.Sum256(b)
	}

	dottedSymbol := symbol.SymbolNil
	if dot < len(body) {
		dottedSymbol = body[dot]
	}

	return &Item{
		id:           id,
		prod:         prod,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		reducible:    dot == len(body),
	}, nil
}

func (i *Item) core() *Item {
	return i
}

func (i *Item) Production() *Production {
	return i.prod
}

func (i *Item) Dot() int {
	return i.dot
}

// DottedSymbol returns the symbol right after the dot, or symbol.SymbolNil when the item is reducible.
func (i *Item) DottedSymbol() symbol.Symbol {
	return i.dottedSymbol
}

func (i *Item) Reducible() bool {
	return i.reducible
}

// rest returns the symbols following the dotted symbol.
func (i *Item) rest() []symbol.Symbol {
	body := i.prod.Body()
	if i.dot+1 >= len(body) {
		return nil
	}
	return body[i.dot+1:]
}

func (i *Item) advance() (*Item, error) {
	return newLR0Item(i.prod, i.dot+1)
}

// LR1Item is an LR(0) item carrying a look-ahead set of terminals and the end-marker.
type LR1Item struct {
	*Item

	// lookAhead stores look-ahead symbols, and they are terminal symbols.
	// The item is reducible only when the look-ahead symbols appear as the next input symbol.
	lookAhead *symbolSet
}

func newLR1Item(prod *Production, dot int, lookAhead *symbolSet) (*LR1Item, error) {
	item, err := newLR0Item(prod, dot)
	if err != nil {
		return nil, err
	}
	if lookAhead == nil {
		lookAhead = newSymbolSet()
	}
	return &LR1Item{
		Item:      item,
		lookAhead: lookAhead,
	}, nil
}

// LookAhead returns the look-ahead symbols sorted by symbol value.
func (i *LR1Item) LookAhead() []symbol.Symbol {
	return i.lookAhead.sorted()
}

func (i *LR1Item) advance() (*LR1Item, error) {
	return newLR1Item(i.prod, i.dot+1, i.lookAhead.clone())
}

type StateNum int

const stateNumInitial = StateNum(0)

func (n StateNum) Int() int {
	return int(n)
}

func (n StateNum) String() string {
	return strconv.Itoa(int(n))
}

// FormatItem renders an item like `E → T・E'`.
func (g *Grammar) FormatItem(item *Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", g.Text(item.prod.LHS))
	for i, sym := range item.prod.Body() {
		if i == item.dot {
			b.WriteString("・")
		} else {
			b.WriteString(" ")
		}
		b.WriteString(g.Text(sym))
	}
	if item.reducible {
		b.WriteString("・")
	}
	return b.String()
}

// FormatLR1Item renders an LR(1) item like `E → T・E', [$ )]`.
func (g *Grammar) FormatLR1Item(item *LR1Item) string {
	return fmt.Sprintf("%v, [%v]", g.FormatItem(item.Item), strings.Join(g.Texts(item.LookAhead()), " "))
}
