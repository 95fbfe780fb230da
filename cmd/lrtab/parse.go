package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/lrtab/driver"
	"github.com/nihei9/lrtab/grammar"
	gspec "github.com/nihei9/lrtab/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	method *string
	tokens  *string
	cst     *bool
	compact *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Parse a token sequence",
		Example: `  lrtab parse grammar.json -t "id = id" --cst
  echo "c d d" | lrtab parse grammar.json -m lr0`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.method = cmd.Flags().StringP("method", "m", gspec.MethodLR1, "parsing method [lr0|lr1]")
	parseFlags.tokens = cmd.Flags().StringP("tokens", "t", "", "space-separated terminal symbols (default stdin)")
	parseFlags.cst = cmd.Flags().Bool("cst", false, "print a CST of an accepted input")
	parseFlags.compact = cmd.Flags().Bool("compact", false, "parse with a compressed LR(1) table")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	gram, _, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	p, err := newParser(gram, *parseFlags.method, *parseFlags.compact)
	if err != nil {
		return err
	}

	src := *parseFlags.tokens
	if !cmd.Flags().Changed("tokens") {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		src = string(b)
	}

	res, err := parseTokens(os.Stdout, p, strings.Fields(src), *parseFlags.cst)
	if err != nil {
		return err
	}
	if res != driver.Accept {
		pterm.Error.Println(res)
		return errors.New("the input was rejected")
	}
	pterm.Success.Println(res)
	return nil
}

type parser interface {
	Parse(tokens []string, opts ...driver.ParseOption) (driver.Result, error)
	Grammar() *grammar.Grammar
}

// newParser builds the table of a method. compact applies to LR(1) only.
func newParser(gram *grammar.Grammar, method string, compact bool) (parser, error) {
	switch method {
	case gspec.MethodLR0:
		automaton, err := grammar.BuildLR0(gram)
		if err != nil {
			return nil, err
		}
		return driver.NewLR0Parser(automaton.Table), nil
	case gspec.MethodLR1:
		automaton, err := grammar.BuildLR1(gram, grammar.Analyze(gram))
		if err != nil {
			return nil, err
		}
		if !compact {
			return driver.NewLR1Parser(automaton.Table), nil
		}
		tab, err := automaton.Table.Compact()
		if err != nil {
			return nil, err
		}
		return driver.NewLR1Parser(tab), nil
	}
	return nil, fmt.Errorf("unknown method: %v", method)
}

// parseTokens parses tokens and writes the CST of an accepted input to w when cst is true.
func parseTokens(w io.Writer, p parser, tokens []string, cst bool) (driver.Result, error) {
	var opts []driver.ParseOption
	var treeAct *driver.SyntaxTreeActionSet
	if cst {
		treeAct = driver.NewSyntaxTreeActionSet(p.Grammar())
		opts = append(opts, driver.SemanticAction(treeAct))
	}

	res, err := p.Parse(tokens, opts...)
	if err != nil {
		return res, err
	}
	if res == driver.Accept && treeAct != nil {
		if tree := treeAct.CST(); tree != nil {
			driver.PrintTree(w, tree)
		}
	}
	return res, nil
}
