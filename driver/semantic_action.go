package driver

import (
	"fmt"
	"io"

	"github.com/nihei9/lrtab/grammar"
	"github.com/nihei9/lrtab/grammar/symbol"
)

type SemanticActionSet interface {
	// Shift runs when the driver shifts a terminal symbol onto the stack. `text` is the input token
	// corresponding to the symbol. The end-marker is never passed to Shift.
	Shift(sym symbol.Symbol, text string)

	// Reduce runs when the driver reduces a body of a production to its LHS. Reducing the start
	// production is reported by Accept instead.
	Reduce(prod *grammar.Production)

	// Accept runs when the driver accepts an input.
	Accept()
}

var _ SemanticActionSet = &SyntaxTreeActionSet{}

type Node struct {
	KindName string
	Text     string
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	switch {
	case node.Text != "":
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	case len(node.Children) == 0 && node.KindName != "":
		fmt.Fprintf(w, "%v%v %v\n", ruledLine, node.KindName, symbol.SymbolTextEpsilon)
	default:
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// SyntaxTreeActionSet builds a concrete syntax tree.
type SyntaxTreeActionSet struct {
	gram     *grammar.Grammar
	cst      *Node
	semStack *semanticStack
}

func NewSyntaxTreeActionSet(gram *grammar.Grammar) *SyntaxTreeActionSet {
	return &SyntaxTreeActionSet{
		gram:     gram,
		semStack: newSemanticStack(),
	}
}

func (a *SyntaxTreeActionSet) Shift(sym symbol.Symbol, text string) {
	a.semStack.push(&Node{
		KindName: a.gram.Text(sym),
		Text:     text,
	})
}

func (a *SyntaxTreeActionSet) Reduce(prod *grammar.Production) {
	// When a production is empty, `handle` will be empty slice.
	handle := a.semStack.pop(len(prod.Body()))

	children := make([]*Node, len(handle))
	copy(children, handle)

	a.semStack.push(&Node{
		KindName: a.gram.Text(prod.LHS),
		Children: children,
	})
}

func (a *SyntaxTreeActionSet) Accept() {
	top := a.semStack.pop(1)
	if len(top) == 1 {
		a.cst = top[0]
	}
}

func (a *SyntaxTreeActionSet) CST() *Node {
	return a.cst
}

type semanticStack struct {
	frames []*Node
}

func newSemanticStack() *semanticStack {
	return &semanticStack{}
}

func (s *semanticStack) push(f *Node) {
	s.frames = append(s.frames, f)
}

func (s *semanticStack) pop(n int) []*Node {
	if n > len(s.frames) {
		n = len(s.frames)
	}
	fs := s.frames[len(s.frames)-n:]
	s.frames = s.frames[:len(s.frames)-n]

	return fs
}
