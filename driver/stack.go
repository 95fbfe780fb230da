package driver

import (
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/nihei9/lrtab/grammar"
	"github.com/nihei9/lrtab/grammar/symbol"
)

type stateStack struct {
	stack *arraystack.Stack
}

func newStateStack(initial grammar.StateNum) *stateStack {
	s := &stateStack{
		stack: arraystack.New(),
	}
	s.push(initial)
	return s
}

func (s *stateStack) push(state grammar.StateNum) {
	s.stack.Push(state)
}

func (s *stateStack) top() grammar.StateNum {
	v, ok := s.stack.Peek()
	if !ok {
		return -1
	}
	return v.(grammar.StateNum)
}

// pop discards n states. The initial state never leaves the stack; pop reports false instead.
func (s *stateStack) pop(n int) bool {
	if n >= s.stack.Size() {
		return false
	}
	for i := 0; i < n; i++ {
		s.stack.Pop()
	}
	return true
}

func (s *stateStack) size() int {
	return s.stack.Size()
}

type symbolStack struct {
	stack *arraystack.Stack
}

func newSymbolStack() *symbolStack {
	return &symbolStack{
		stack: arraystack.New(),
	}
}

func (s *symbolStack) push(sym symbol.Symbol) {
	s.stack.Push(sym)
}

// endsWith reports whether the topmost len(seq) symbols equal seq, seq[len(seq)-1] being the top.
func (s *symbolStack) endsWith(seq []symbol.Symbol) bool {
	if len(seq) > s.stack.Size() {
		return false
	}
	// Values lists the top of the stack first.
	vals := s.stack.Values()
	for i, sym := range seq {
		if vals[len(seq)-1-i].(symbol.Symbol) != sym {
			return false
		}
	}
	return true
}

func (s *symbolStack) pop(n int) bool {
	if n > s.stack.Size() {
		return false
	}
	for i := 0; i < n; i++ {
		s.stack.Pop()
	}
	return true
}

func (s *symbolStack) size() int {
	return s.stack.Size()
}
