package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/nihei9/lrtab/grammar/symbol"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) productionID {
	seq := lhs.Byte()
	for _, sym := range rhs {
		seq = append(seq, sym.Byte()...)
	}
	return productionID(sha256.Sum256(seq))
}

// ProductionNum is the serial number of a production. The synthetic start production
// always takes the number 0, and user productions follow in declaration order.
type ProductionNum uint16

const (
	productionNumStart = ProductionNum(0)
	productionNumMin   = ProductionNum(1)
)

func (n ProductionNum) Int() int {
	return int(n)
}

// Production is `LHS → RHS`. An epsilon production keeps its canonical body `[ε]`
// in RHS; Body returns the sequence items and actions operate on, which is empty
// for an epsilon production.
type Production struct {
	id  productionID
	Num ProductionNum
	LHS symbol.Symbol
	RHS []symbol.Symbol
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*Production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}
	if len(rhs) == 0 {
		rhs = []symbol.Symbol{symbol.SymbolEpsilon}
	}

	return &Production{
		id:  genProductionID(lhs, rhs),
		LHS: lhs,
		RHS: rhs,
	}, nil
}

// IsEmpty returns true when the production is `A → ε`.
func (p *Production) IsEmpty() bool {
	return len(p.RHS) == 1 && p.RHS[0].IsEpsilon()
}

// Body returns the RHS with the epsilon marker collapsed.
func (p *Production) Body() []symbol.Symbol {
	if p.IsEmpty() {
		return nil
	}
	return p.RHS
}

type productionSet struct {
	lhs2Prods map[symbol.Symbol][]*Production
	id2Prod   map[productionID]*Production
	prods     []*Production
	num       ProductionNum
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*Production{},
		id2Prod:   map[productionID]*Production{},
		num:       productionNumMin,
	}
}

func (ps *productionSet) append(prod *Production) bool {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}

	if prod.LHS.IsStart() {
		prod.Num = productionNumStart
	} else {
		prod.Num = ps.num
		ps.num++
	}

	if prods, ok := ps.lhs2Prods[prod.LHS]; ok {
		ps.lhs2Prods[prod.LHS] = append(prods, prod)
	} else {
		ps.lhs2Prods[prod.LHS] = []*Production{prod}
	}
	ps.id2Prod[prod.id] = prod
	ps.prods = append(ps.prods, prod)

	return true
}

func (ps *productionSet) findByID(id productionID) (*Production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*Production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

// getAllProductions returns the productions in the order they were appended.
func (ps *productionSet) getAllProductions() []*Production {
	return ps.prods
}

func (ps *productionSet) count() int {
	return len(ps.prods)
}
