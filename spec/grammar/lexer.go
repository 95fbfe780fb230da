package grammar

import (
	"errors"
	"fmt"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type tokenKind string

const (
	tokenKindID             = tokenKind("id")
	tokenKindQuoted         = tokenKind("quoted terminal")
	tokenKindUnclosedQuoted = tokenKind("unclosed terminal")
	tokenKindKWName         = tokenKind("%name")
	tokenKindColon          = tokenKind(":")
	tokenKindOr             = tokenKind("|")
	tokenKindSemicolon      = tokenKind(";")
	tokenKindEOF            = tokenKind("eof")
)

var tokenKinds = []tokenKind{
	tokenKindID,
	tokenKindQuoted,
	tokenKindUnclosedQuoted,
	tokenKindKWName,
	tokenKindColon,
	tokenKindOr,
	tokenKindSemicolon,
}

type token struct {
	kind tokenKind
	text string
	row  int
	col  int
}

var (
	lexerOnce sync.Once
	lexer     *lexmachine.Lexer
	lexerErr  error
)

func textLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		lex := lexmachine.NewLexer()
		lex.Add([]byte(`[A-Za-z_][A-Za-z0-9_']*`), tokenAction(tokenKindID))
		lex.Add([]byte("'[^'\n]*'"), tokenAction(tokenKindQuoted))
		lex.Add([]byte("'[^'\n]*"), tokenAction(tokenKindUnclosedQuoted))
		lex.Add([]byte(`%name`), tokenAction(tokenKindKWName))
		lex.Add([]byte(`:`), tokenAction(tokenKindColon))
		lex.Add([]byte(`\|`), tokenAction(tokenKindOr))
		lex.Add([]byte(`;`), tokenAction(tokenKindSemicolon))
		lex.Add([]byte("( |\t|\n|\r)+"), skip)
		lex.Add([]byte("#[^\n]*"), skip)
		if err := lex.Compile(); err != nil {
			lexerErr = fmt.Errorf("failed to compile the grammar lexer: %w", err)
			return
		}
		lexer = lex
	})
	return lexer, lexerErr
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func tokenAction(kind tokenKind) lexmachine.Action {
	id := -1
	for i, k := range tokenKinds {
		if k == kind {
			id = i
		}
	}
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// tokenize splits src into tokens and appends an EOF token. Lexical errors are raised like syntax errors.
func tokenize(src []byte) []*token {
	lex, err := textLexer()
	if err != nil {
		panic(err)
	}
	s, err := lex.Scanner(src)
	if err != nil {
		panic(err)
	}

	var toks []*token
	row, col := 1, 1
	for tok, err, eof := s.Next(); !eof; tok, err, eof = s.Next() {
		if err != nil {
			var ui *machines.UnconsumedInput
			if errors.As(err, &ui) {
				raiseSyntaxError(synErrInvalidToken, ui.FailLine, ui.FailColumn)
			}
			panic(err)
		}
		t := tok.(*lexmachine.Token)
		kind := tokenKinds[t.Type]
		text := string(t.Lexeme)
		switch kind {
		case tokenKindUnclosedQuoted:
			raiseSyntaxError(synErrUnclosedTerminal, t.StartLine, t.StartColumn)
		case tokenKindQuoted:
			text = text[1 : len(text)-1]
			if text == "" {
				raiseSyntaxError(synErrEmptyTerminal, t.StartLine, t.StartColumn)
			}
		}
		toks = append(toks, &token{
			kind: kind,
			text: text,
			row:  t.StartLine,
			col:  t.StartColumn,
		})
		row, col = t.EndLine, t.EndColumn+1
	}
	return append(toks, &token{
		kind: tokenKindEOF,
		row:  row,
		col:  col,
	})
}
