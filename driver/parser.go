package driver

import (
	"fmt"

	"github.com/nihei9/lrtab/grammar"
	"github.com/nihei9/lrtab/grammar/symbol"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrtab.driver'.
func tracer() tracing.Trace {
	return tracing.Select("lrtab.driver")
}

type Result int

const (
	Reject Result = iota
	Accept
	InternalError
)

func (r Result) String() string {
	switch r {
	case Reject:
		return "reject"
	case Accept:
		return "accept"
	case InternalError:
		return "internal error"
	}
	return fmt.Sprintf("<unknown result %d>", int(r))
}

// TableError describes a parsing table that breaks the invariants of its automaton.
// Parse returns it along with InternalError.
type TableError struct {
	State   grammar.StateNum
	Message string
}

func (e *TableError) Error() string {
	return fmt.Sprintf("broken parsing table; state: %v: %v", e.State, e.Message)
}

func tableErrorf(state grammar.StateNum, format string, a ...interface{}) *TableError {
	return &TableError{
		State:   state,
		Message: fmt.Sprintf(format, a...),
	}
}

type ParseOption func(c *parseConfig)

type parseConfig struct {
	semAct SemanticActionSet
}

// SemanticAction makes Parse report shifts and reductions to a.
func SemanticAction(a SemanticActionSet) ParseOption {
	return func(c *parseConfig) {
		c.semAct = a
	}
}

func newParseConfig(opts []ParseOption) *parseConfig {
	c := &parseConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// input converts token texts into terminal symbols followed by the end-marker. It reports false when
// a text is not a terminal of the grammar.
func input(gram *grammar.Grammar, tokens []string) ([]symbol.Symbol, bool) {
	symTab := gram.SymbolTable()
	syms := make([]symbol.Symbol, 0, len(tokens)+1)
	for _, text := range tokens {
		if symbol.IsReservedText(text) {
			tracer().Debugf("reserved text in the input: %v", text)
			return nil, false
		}
		sym, ok := symTab.ToSymbol(text)
		if !ok || !sym.IsTerminal() || sym.IsEOF() {
			tracer().Debugf("unknown token: %v", text)
			return nil, false
		}
		syms = append(syms, sym)
	}
	return append(syms, symbol.SymbolEOF), true
}

// parseRun is the state of one Parse call. Nothing outlives the call.
type parseRun struct {
	gram    *grammar.Grammar
	tokens  []string
	input   []symbol.Symbol
	pos     int
	states  *stateStack
	symbols *symbolStack
	semAct  SemanticActionSet
}

func newParseRun(gram *grammar.Grammar, initial grammar.StateNum, tokens []string, syms []symbol.Symbol, c *parseConfig) *parseRun {
	return &parseRun{
		gram:    gram,
		tokens:  tokens,
		input:   syms,
		states:  newStateStack(initial),
		symbols: newSymbolStack(),
		semAct:  c.semAct,
	}
}

func (r *parseRun) shift(next grammar.StateNum) {
	sym := r.input[r.pos]
	tracer().Debugf("state %v: shift %v, goto %v", r.states.top(), r.gram.Text(sym), next)
	r.states.push(next)
	r.symbols.push(sym)
	if r.semAct != nil && !sym.IsEOF() {
		r.semAct.Shift(sym, r.tokens[r.pos])
	}
	r.pos++
}

// popHandle removes the body of prod from both stacks.
func (r *parseRun) popHandle(prod *grammar.Production) error {
	body := prod.Body()
	state := r.states.top()
	if !r.symbols.endsWith(body) {
		return tableErrorf(state, "the stack does not end with the body of %v", r.gram.FormatProduction(prod))
	}
	if !r.states.pop(len(body)) {
		return tableErrorf(state, "the state stack is too short to reduce %v", r.gram.FormatProduction(prod))
	}
	r.symbols.pop(len(body))
	return nil
}

func (r *parseRun) accept() {
	tracer().Debugf("accept")
	if r.semAct != nil {
		r.semAct.Accept()
	}
}

type LR0Parser struct {
	tab LR0ParsingTable
}

func NewLR0Parser(tab LR0ParsingTable) *LR0Parser {
	return &LR0Parser{
		tab: tab,
	}
}

func (p *LR0Parser) Grammar() *grammar.Grammar {
	return p.tab.Grammar()
}

// Parse runs the LR(0) table over tokens. A state has exactly one action; a shift reads the next
// symbol, and the start production is reduced only after the end-marker has been shifted.
func (p *LR0Parser) Parse(tokens []string, opts ...ParseOption) (Result, error) {
	gram := p.tab.Grammar()
	syms, ok := input(gram, tokens)
	if !ok {
		return Reject, nil
	}
	r := newParseRun(gram, p.tab.InitialState(), tokens, syms, newParseConfig(opts))

	for {
		state := r.states.top()
		entry, ok := p.tab.Entry(state)
		if !ok {
			return InternalError, tableErrorf(state, "no entry")
		}

		switch entry.Action.Type {
		case grammar.ActionTypeShift:
			if r.pos >= len(r.input) {
				return InternalError, tableErrorf(state, "shift after the end-marker")
			}
			next, ok := entry.Next[r.input[r.pos]]
			if !ok {
				tracer().Debugf("state %v: no transition on %v", state, gram.Text(r.input[r.pos]))
				return Reject, nil
			}
			r.shift(next)
		case grammar.ActionTypeReduce:
			prod := entry.Action.Production
			if prod == nil {
				return InternalError, tableErrorf(state, "a reduce entry without a production")
			}
			if err := r.popHandle(prod); err != nil {
				return InternalError, err
			}
			if prod.LHS.IsStart() {
				r.accept()
				return Accept, nil
			}
			tracer().Debugf("state %v: reduce %v", state, gram.FormatProduction(prod))
			next, ok := p.tab.GoTo(r.states.top(), prod.LHS)
			if !ok {
				return InternalError, tableErrorf(r.states.top(), "no goto on %v", gram.Text(prod.LHS))
			}
			r.states.push(next)
			r.symbols.push(prod.LHS)
			if r.semAct != nil {
				r.semAct.Reduce(prod)
			}
		default:
			return InternalError, tableErrorf(state, "unknown action type: %v", entry.Action.Type)
		}
	}
}

type LR1Parser struct {
	tab LR1ParsingTable
}

func NewLR1Parser(tab LR1ParsingTable) *LR1Parser {
	return &LR1Parser{
		tab: tab,
	}
}

func (p *LR1Parser) Grammar() *grammar.Grammar {
	return p.tab.Grammar()
}

// Parse runs the LR(1) table over tokens. When a cell holds exactly one shift and one reduce the
// shift is taken; any other multi-action cell rejects the input.
func (p *LR1Parser) Parse(tokens []string, opts ...ParseOption) (Result, error) {
	gram := p.tab.Grammar()
	syms, ok := input(gram, tokens)
	if !ok {
		return Reject, nil
	}
	r := newParseRun(gram, p.tab.InitialState(), tokens, syms, newParseConfig(opts))

	for {
		state := r.states.top()
		if r.pos >= len(r.input) {
			return InternalError, tableErrorf(state, "look-ahead after the end-marker")
		}
		la := r.input[r.pos]
		act, ok := selectAction(p.tab.Actions(state, la))
		if !ok {
			tracer().Debugf("state %v: no action on %v", state, gram.Text(la))
			return Reject, nil
		}

		switch act.Type {
		case grammar.ActionTypeShift:
			r.shift(act.State)
		case grammar.ActionTypeReduce:
			prod := act.Production
			if prod == nil {
				return InternalError, tableErrorf(state, "a reduce action without a production")
			}
			if err := r.popHandle(prod); err != nil {
				return InternalError, err
			}
			if prod.LHS.IsStart() {
				r.accept()
				return Accept, nil
			}
			tracer().Debugf("state %v: reduce %v", state, gram.FormatProduction(prod))
			gotos := p.tab.Actions(r.states.top(), prod.LHS)
			if len(gotos) != 1 || gotos[0].Type != grammar.ActionTypeShift {
				return InternalError, tableErrorf(r.states.top(), "goto on %v must be exactly one shift: %v", gram.Text(prod.LHS), gotos)
			}
			r.states.push(gotos[0].State)
			r.symbols.push(prod.LHS)
			if r.semAct != nil {
				r.semAct.Reduce(prod)
			}
		default:
			return InternalError, tableErrorf(state, "unknown action type: %v", act.Type)
		}
	}
}

// selectAction picks the action to take from a cell.
func selectAction(acts []grammar.Action) (grammar.Action, bool) {
	switch len(acts) {
	case 0:
		return grammar.Action{}, false
	case 1:
		return acts[0], true
	case 2:
		switch {
		case acts[0].Type == grammar.ActionTypeShift && acts[1].Type == grammar.ActionTypeReduce:
			return acts[0], true
		case acts[0].Type == grammar.ActionTypeReduce && acts[1].Type == grammar.ActionTypeShift:
			return acts[1], true
		}
	}
	return grammar.Action{}, false
}
