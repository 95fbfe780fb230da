package test

import (
	"errors"
	"fmt"
	"sync"

	verr "github.com/nihei9/lrtab/error"
	"github.com/nihei9/lrtab/driver"
	"github.com/nihei9/lrtab/grammar"
	"github.com/nihei9/lrtab/grammar/symbol"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	tokenKindLParen = "("
	tokenKindRParen = ")"
	tokenKindName   = "name"
	tokenKindString = "string"
)

var tokenKinds = []string{"", tokenKindLParen, tokenKindRParen, tokenKindName, tokenKindString}

func tokenKindID(kind string) int {
	for id, k := range tokenKinds {
		if k == kind {
			return id
		}
	}
	panic(fmt.Errorf("unknown token kind: %v", kind))
}

// tree → ( name children ) | ( name string )
// children → tree children | ε
var (
	treeTerminals    = []string{tokenKindLParen, tokenKindRParen, tokenKindName, tokenKindString}
	treeNonTerminals = []string{"tree", "children"}
	treeProductions  = map[string][][]string{
		"tree": {
			{tokenKindLParen, tokenKindName, "children", tokenKindRParen},
			{tokenKindLParen, tokenKindName, tokenKindString, tokenKindRParen},
		},
		"children": {
			{"tree", "children"},
			{},
		},
	}
)

var (
	treeInitOnce  sync.Once
	treeLexer     *lexmachine.Lexer
	treeLR1Parser *driver.LR1Parser
	treeInitErr   error
)

func initTreeParser() error {
	treeInitOnce.Do(func() {
		lex := lexmachine.NewLexer()
		lex.Add([]byte(`\(`), makeToken(tokenKindLParen))
		lex.Add([]byte(`\)`), makeToken(tokenKindRParen))
		lex.Add([]byte(`'[^']*'`), makeToken(tokenKindString))
		lex.Add([]byte("[^\\(\\)' \t\n\r][^\\(\\) \t\n\r]*"), makeToken(tokenKindName))
		lex.Add([]byte(`( |\t|\n|\r)+`), skip)
		if err := lex.Compile(); err != nil {
			treeInitErr = fmt.Errorf("failed to compile the tree lexer: %w", err)
			return
		}

		gram, err := grammar.NewGrammar(treeTerminals, treeNonTerminals, treeProductions, "tree")
		if err != nil {
			treeInitErr = err
			return
		}
		automaton, err := grammar.BuildLR1(gram, grammar.Analyze(gram))
		if err != nil {
			treeInitErr = err
			return
		}
		if automaton.Diagnostics.Len() > 0 {
			treeInitErr = fmt.Errorf("the tree grammar has conflicts: %v", automaton.Diagnostics.Format(automaton.Diagnostics.Records()[0]))
			return
		}

		treeLexer = lex
		treeLR1Parser = driver.NewLR1Parser(automaton.Table)
	})
	return treeInitErr
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(kind string) lexmachine.Action {
	id := tokenKindID(kind)
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

type treeToken struct {
	kind   string
	lexeme string
	row    int
	col    int
}

type treeParser struct {
	lineOffset int
}

func (tp *treeParser) errorf(row, col int, format string, a ...interface{}) error {
	return &verr.SpecError{
		Cause: fmt.Errorf(format, a...),
		Row:   tp.lineOffset + row,
		Col:   col,
	}
}

func (tp *treeParser) tokenize(src []byte) ([]*treeToken, error) {
	s, err := treeLexer.Scanner(src)
	if err != nil {
		return nil, err
	}

	var toks []*treeToken
	for tok, err, eof := s.Next(); !eof; tok, err, eof = s.Next() {
		if err != nil {
			var ui *machines.UnconsumedInput
			if errors.As(err, &ui) {
				return nil, tp.errorf(ui.FailLine, ui.FailColumn, "invalid character: %q", ui.Text)
			}
			return nil, err
		}
		t := tok.(*lexmachine.Token)
		lexeme := string(t.Lexeme)
		if tokenKinds[t.Type] == tokenKindString {
			lexeme = lexeme[1 : len(lexeme)-1]
		}
		toks = append(toks, &treeToken{
			kind:   tokenKinds[t.Type],
			lexeme: lexeme,
			row:    t.StartLine,
			col:    t.StartColumn,
		})
	}
	return toks, nil
}

func (tp *treeParser) parseTree(src []byte) (*Tree, error) {
	if err := initTreeParser(); err != nil {
		return nil, err
	}

	toks, err := tp.tokenize(src)
	if err != nil {
		return nil, err
	}
	kinds := make([]string, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.kind
	}

	act := newTreeActionSet(treeLR1Parser.Grammar(), toks)
	res, err := treeLR1Parser.Parse(kinds, driver.SemanticAction(act))
	if err != nil {
		return nil, err
	}
	if res != driver.Accept {
		if act.shifted < len(toks) {
			tok := toks[act.shifted]
			return nil, tp.errorf(tok.row, tok.col, "unexpected token in a tree: %v", tok.lexeme)
		}
		return nil, tp.errorf(0, 0, "unexpected end of a tree")
	}
	return act.tree.Fill(), nil
}

type treeFrame struct {
	tok      *treeToken
	tree     *Tree
	children []*Tree
}

// treeActionSet builds a Tree from the syntax of a tree. The parser passes only token kinds to Shift,
// so the lexemes are taken from toks in shift order.
type treeActionSet struct {
	gram    *grammar.Grammar
	toks    []*treeToken
	shifted int
	stack   []*treeFrame
	tree    *Tree
}

func newTreeActionSet(gram *grammar.Grammar, toks []*treeToken) *treeActionSet {
	return &treeActionSet{
		gram: gram,
		toks: toks,
	}
}

func (a *treeActionSet) Shift(sym symbol.Symbol, text string) {
	a.stack = append(a.stack, &treeFrame{
		tok: a.toks[a.shifted],
	})
	a.shifted++
}

func (a *treeActionSet) Reduce(prod *grammar.Production) {
	n := len(prod.Body())
	handle := a.stack[len(a.stack)-n:]
	a.stack = a.stack[:len(a.stack)-n]

	var f *treeFrame
	switch a.gram.Text(prod.LHS) {
	case "children":
		f = &treeFrame{}
		if n > 0 {
			f.children = append([]*Tree{handle[0].tree}, handle[1].children...)
		}
	case "tree":
		kind := handle[1].tok.lexeme
		if arg := handle[2]; arg.tok != nil && arg.tok.kind == tokenKindString {
			f = &treeFrame{
				tree: NewTerminalNode(kind, arg.tok.lexeme),
			}
		} else {
			f = &treeFrame{
				tree: NewNonTerminalTree(kind, arg.children...),
			}
		}
	}
	a.stack = append(a.stack, f)
}

func (a *treeActionSet) Accept() {
	a.tree = a.stack[len(a.stack)-1].tree
}
