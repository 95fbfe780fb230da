package symbol

import (
	"fmt"
	"sort"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol packs the kind of a grammar symbol and its number into 16 bits.
// Terminals and non-terminals are disjoint by construction. The start symbol,
// the end-marker, and epsilon are reserved symbols; the end-marker is treated as
// a terminal symbol, epsilon is neither a terminal nor a non-terminal.
type Symbol uint16

func (s Symbol) String() string {
	kind, isSpecial, num := s.describe()
	var prefix string
	switch {
	case s.IsStart():
		prefix = "s"
	case s.IsEOF():
		prefix = "e"
	case s.IsEpsilon():
		prefix = "ε"
	case isSpecial:
		prefix = "?"
	case kind == symbolKindNonTerminal:
		prefix = "n"
	case kind == symbolKindTerminal:
		prefix = "t"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, num)
}

const (
	maskKindPart    = uint16(0x8000) // 1000 0000 0000 0000
	maskNonTerminal = uint16(0x0000) // 0000 0000 0000 0000
	maskTerminal    = uint16(0x8000) // 1000 0000 0000 0000

	maskSubKindpart = uint16(0x4000) // 0100 0000 0000 0000
	maskOrdinary    = uint16(0x0000) // 0000 0000 0000 0000
	maskReserved    = uint16(0x4000) // 0100 0000 0000 0000

	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111

	symbolNumStart   = uint16(0x0001) // 0000 0000 0000 0001
	symbolNumEOF     = uint16(0x0001) // 0000 0000 0000 0001
	symbolNumEpsilon = uint16(0x0002) // 0000 0000 0000 0010

	SymbolNil     = Symbol(0)                                           // 0000 0000 0000 0000
	SymbolStart   = Symbol(maskNonTerminal | maskReserved | symbolNumStart) // 0100 0000 0000 0001
	SymbolEOF     = Symbol(maskTerminal | maskReserved | symbolNumEOF)      // 1100 0000 0000 0001
	SymbolEpsilon = Symbol(maskTerminal | maskReserved | symbolNumEpsilon)  // 1100 0000 0000 0010

	// Texts of the reserved symbols. Users cannot declare symbols having these texts.
	SymbolTextEOF     = "$"
	SymbolTextEpsilon = "ε"
	SymbolTextStart   = "<start>"

	nonTerminalNumMin = SymbolNum(2)           // The number 1 is used by the start symbol.
	terminalNumMin    = SymbolNum(1)           // Ordinary terminals have their own number space.
	symbolNumMax      = SymbolNum(0xffff) >> 2 // 0011 1111 1111 1111
)

func newSymbol(kind symbolKind, num SymbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}

	kindMask := maskNonTerminal
	if kind == symbolKindTerminal {
		kindMask = maskTerminal
	}
	return Symbol(kindMask | maskOrdinary | uint16(num)), nil
}

func (s Symbol) Num() SymbolNum {
	_, _, num := s.describe()
	return num
}

func (s Symbol) Byte() []byte {
	if s.IsNil() {
		return []byte{0, 0}
	}
	return []byte{byte(uint16(s) >> 8), byte(uint16(s) & 0x00ff)}
}

func (s Symbol) IsNil() bool {
	_, _, num := s.describe()
	return num == 0
}

func (s Symbol) IsStart() bool {
	return s == SymbolStart
}

func (s Symbol) IsEOF() bool {
	return s == SymbolEOF
}

func (s Symbol) IsEpsilon() bool {
	return s == SymbolEpsilon
}

func (s Symbol) IsNonTerminal() bool {
	if s.IsNil() {
		return false
	}
	kind, _, _ := s.describe()
	return kind == symbolKindNonTerminal
}

// IsTerminal returns true for ordinary terminals and the end-marker.
func (s Symbol) IsTerminal() bool {
	if s.IsNil() || s.IsEpsilon() {
		return false
	}
	return !s.IsNonTerminal()
}

func (s Symbol) describe() (symbolKind, bool, SymbolNum) {
	kind := symbolKindNonTerminal
	if uint16(s)&maskKindPart > 0 {
		kind = symbolKindTerminal
	}
	isReserved := uint16(s)&maskSubKindpart > 0
	num := SymbolNum(uint16(s) & maskNumberPart)
	return kind, isReserved, num
}

// IsReservedText reports whether users are prohibited from declaring a symbol with the text.
func IsReservedText(text string) bool {
	switch text {
	case SymbolTextEOF, SymbolTextEpsilon, SymbolTextStart:
		return true
	}
	return false
}

type SymbolTable struct {
	text2Sym   map[string]Symbol
	sym2Text   map[Symbol]string
	nonTermNum SymbolNum
	termNum    SymbolNum
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym: map[string]Symbol{
			SymbolTextEOF:     SymbolEOF,
			SymbolTextEpsilon: SymbolEpsilon,
			SymbolTextStart:   SymbolStart,
		},
		sym2Text: map[Symbol]string{
			SymbolEOF:     SymbolTextEOF,
			SymbolEpsilon: SymbolTextEpsilon,
			SymbolStart:   SymbolTextStart,
		},
		nonTermNum: nonTerminalNumMin,
		termNum:    terminalNumMin,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsNonTerminal() || sym.IsStart() {
			return SymbolNil, fmt.Errorf("%v is already registered as %v", text, sym)
		}
		return sym, nil
	}
	sym, err := newSymbol(symbolKindNonTerminal, w.nonTermNum)
	if err != nil {
		return SymbolNil, err
	}
	w.nonTermNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	return sym, nil
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := w.text2Sym[text]; ok {
		if !sym.IsTerminal() || sym.IsEOF() {
			return SymbolNil, fmt.Errorf("%v is already registered as %v", text, sym)
		}
		return sym, nil
	}
	sym, err := newSymbol(symbolKindTerminal, w.termNum)
	if err != nil {
		return SymbolNil, err
	}
	w.termNum++
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	return sym, nil
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	if sym, ok := r.text2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

// MustText returns the text of a symbol, or the encoded form of the symbol when it is unknown.
func (r *SymbolTableReader) MustText(sym Symbol) string {
	if text, ok := r.sym2Text[sym]; ok {
		return text
	}
	return sym.String()
}

// TerminalCount returns the number of ordinary terminals.
func (r *SymbolTableReader) TerminalCount() int {
	return r.termNum.Int() - terminalNumMin.Int()
}

// NonTerminalCount returns the number of user-declared non-terminals.
func (r *SymbolTableReader) NonTerminalCount() int {
	return r.nonTermNum.Int() - nonTerminalNumMin.Int()
}

// TerminalSymbols returns the ordinary terminals in registration order.
// The end-marker is not included.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.TerminalCount())
	for sym := range r.sym2Text {
		if !sym.IsTerminal() || sym.IsEOF() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

// NonTerminalSymbols returns the user-declared non-terminals in registration order.
// The start symbol is not included.
func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.NonTerminalCount())
	for sym := range r.sym2Text {
		if !sym.IsNonTerminal() || sym.IsStart() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}
