package grammar

import (
	"bytes"
	"io"

	verr "github.com/nihei9/lrtab/error"
)

// A text grammar lists productions like `E' : '+' T E' | ;`. The LHS of the first production is
// the start symbol. Every symbol appearing as an LHS is a non-terminal, and every other symbol is a
// terminal; a quoted symbol is always a terminal. `#` starts a comment.

type RootNode struct {
	Name        string
	Productions []*ProductionNode
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Row int
	Col int
}

type AlternativeNode struct {
	Elements []*ElementNode
}

type ElementNode struct {
	ID     string
	Quoted bool
	Row    int
	Col    int
}

func raiseSyntaxError(synErr *SyntaxError, row, col int) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   row,
		Col:   col,
	})
}

// ParseText parses a text grammar. Errors are *verr.SpecError values.
func ParseText(src io.Reader) (*RootNode, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		src: data,
	}
	return p.parse()
}

type parser struct {
	src     []byte
	toks    []*token
	pos     int
	lastTok *token
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			specErr, ok := err.(*verr.SpecError)
			if !ok {
				panic(err)
			}
			retErr = specErr
		}
	}()
	p.toks = tokenize(p.src)
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	if p.consume(tokenKindKWName) {
		if !p.consume(tokenKindID) {
			p.raise(synErrNoGrammarName)
		}
		root.Name = p.lastTok.text
	}
	for {
		prod := p.parseProduction()
		if prod == nil {
			break
		}
		root.Productions = append(root.Productions, prod)
	}
	if len(root.Productions) == 0 {
		p.raise(synErrNoProduction)
	}
	return root
}

func (p *parser) parseProduction() *ProductionNode {
	if p.consume(tokenKindEOF) {
		return nil
	}
	if !p.consume(tokenKindID) {
		p.raise(synErrNoProductionName)
	}
	prod := &ProductionNode{
		LHS: p.lastTok.text,
		Row: p.lastTok.row,
		Col: p.lastTok.col,
	}
	if !p.consume(tokenKindColon) {
		p.raise(synErrNoColon)
	}
	prod.RHS = []*AlternativeNode{p.parseAlternative()}
	for p.consume(tokenKindOr) {
		prod.RHS = append(prod.RHS, p.parseAlternative())
	}
	if !p.consume(tokenKindSemicolon) {
		p.raise(synErrNoSemicolon)
	}
	return prod
}

func (p *parser) parseAlternative() *AlternativeNode {
	elems := []*ElementNode{}
	for {
		elem := p.parseElement()
		if elem == nil {
			break
		}
		elems = append(elems, elem)
	}
	return &AlternativeNode{
		Elements: elems,
	}
}

func (p *parser) parseElement() *ElementNode {
	switch {
	case p.consume(tokenKindID):
	case p.consume(tokenKindQuoted):
	default:
		return nil
	}
	return &ElementNode{
		ID:     p.lastTok.text,
		Quoted: p.lastTok.kind == tokenKindQuoted,
		Row:    p.lastTok.row,
		Col:    p.lastTok.col,
	}
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.toks[p.pos]
	if tok.kind != expected {
		return false
	}
	p.lastTok = tok
	if tok.kind != tokenKindEOF {
		p.pos++
	}
	return true
}

// raise reports an error at the next token.
func (p *parser) raise(synErr *SyntaxError) {
	tok := p.toks[p.pos]
	raiseSyntaxError(synErr, tok.row, tok.col)
}

// Source classifies the symbols of the grammar.
func (r *RootNode) Source() (*Source, error) {
	src := &Source{
		Name:  r.Name,
		Start: r.Productions[0].LHS,
	}
	nonTerms := map[string]struct{}{}
	for _, prod := range r.Productions {
		if _, ok := nonTerms[prod.LHS]; !ok {
			nonTerms[prod.LHS] = struct{}{}
			src.NonTerminals = append(src.NonTerminals, prod.LHS)
		}
	}
	terms := map[string]struct{}{}
	for _, prod := range r.Productions {
		ps := &ProductionSource{
			LHS: prod.LHS,
		}
		for _, alt := range prod.RHS {
			body := make([]string, 0, len(alt.Elements))
			for _, elem := range alt.Elements {
				_, isNonTerm := nonTerms[elem.ID]
				if elem.Quoted && isNonTerm {
					return nil, &verr.SpecError{
						Cause: synErrQuotedNonTerm,
						Row:   elem.Row,
						Col:   elem.Col,
					}
				}
				if _, ok := terms[elem.ID]; !ok && !isNonTerm {
					terms[elem.ID] = struct{}{}
					src.Terminals = append(src.Terminals, elem.ID)
				}
				body = append(body, elem.ID)
			}
			ps.Alternatives = append(ps.Alternatives, body)
		}
		src.Productions = append(src.Productions, ps)
	}
	return src, nil
}

// ParseTextSource parses a text grammar into a Source.
func ParseTextSource(r io.Reader) (*Source, error) {
	root, err := ParseText(r)
	if err != nil {
		return nil, err
	}
	return root.Source()
}

// ReadSource reads either form of a grammar file. A file starting with `{` is a JSON document.
func ReadSource(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return ParseSource(bytes.NewReader(data))
	}
	return ParseTextSource(bytes.NewReader(data))
}
