package grammar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	verr "github.com/nihei9/lrtab/error"
)

const (
	MethodLR0 = "lr0"
	MethodLR1 = "lr1"
)

// Source is a grammar file.
type Source struct {
	Name         string              `json:"name"`
	Start        string              `json:"start"`
	Terminals    []string            `json:"terminals"`
	NonTerminals []string            `json:"non_terminals"`
	Productions  []*ProductionSource `json:"productions"`
}

// ProductionSource lists the alternatives of one non-terminal. An empty alternative or ["ε"] is an epsilon
// production.
type ProductionSource struct {
	LHS          string     `json:"lhs"`
	Alternatives [][]string `json:"alternatives"`
}

// ParseSource reads a grammar file. Errors in the JSON document are *verr.SpecError values that locate the
// offending position.
func ParseSource(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	d := json.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	src := &Source{}
	err = d.Decode(src)
	if err != nil {
		return nil, specError(data, err)
	}

	if src.Start == "" {
		return nil, &verr.SpecError{
			Cause: errors.New("a start symbol is missing"),
		}
	}
	for _, p := range src.Productions {
		if p.LHS == "" {
			return nil, &verr.SpecError{
				Cause: errors.New("a production must have its LHS"),
			}
		}
	}

	return src, nil
}

func specError(data []byte, err error) error {
	var offset int64
	var synErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &synErr):
		offset = synErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	case errors.Is(err, io.EOF):
		return &verr.SpecError{
			Cause: errors.New("a grammar file is empty"),
		}
	default:
		return &verr.SpecError{
			Cause: err,
		}
	}

	row, col := verr.Position(data, offset)
	return &verr.SpecError{
		Cause: err,
		Row:   row,
		Col:   col,
	}
}

// ProductionMap merges the alternatives of entries sharing an LHS in file order.
func (s *Source) ProductionMap() map[string][][]string {
	prods := map[string][][]string{}
	for _, p := range s.Productions {
		prods[p.LHS] = append(prods[p.LHS], p.Alternatives...)
	}
	return prods
}

func (s *Source) String() string {
	return fmt.Sprintf("%v (%v terminals, %v non-terminals)", s.Name, len(s.Terminals), len(s.NonTerminals))
}
