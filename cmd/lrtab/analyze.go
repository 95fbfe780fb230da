package main

import (
	"fmt"
	"strings"

	"github.com/nihei9/lrtab/grammar"
	"github.com/nihei9/lrtab/grammar/symbol"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var analyzeFlags = struct {
	sequence *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "analyze [<grammar file path>]",
		Short: "Print NULLABLE, FIRST, and FOLLOW of a grammar",
		Example: `  lrtab analyze grammar.json
  lrtab analyze grammar.json -s "T E'"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}
	analyzeFlags.sequence = cmd.Flags().StringP("sequence", "s", "", "space-separated symbols whose FIRST and FOLLOW are printed")
	rootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	gram, _, err := readGrammar(grmPath)
	if err != nil {
		return err
	}
	a := grammar.Analyze(gram.Augment())

	pterm.DefaultSection.Println("Non-terminals")
	pterm.DefaultTable.WithHasHeader().WithData(analysisTable(a)).Render()

	if *analyzeFlags.sequence == "" {
		return nil
	}
	seq, err := parseSequence(a.Grammar(), *analyzeFlags.sequence)
	if err != nil {
		return err
	}
	pterm.DefaultSection.Println("Sequence")
	pterm.DefaultTable.WithHasHeader().WithData(sequenceTable(a, seq)).Render()
	return nil
}

func analysisTable(a *grammar.Analysis) pterm.TableData {
	gram := a.Grammar()
	data := pterm.TableData{
		{"Symbol", "Nullable", "FIRST", "FOLLOW"},
	}
	for _, sym := range gram.NonTerminals() {
		data = append(data, []string{
			gram.Text(sym),
			fmt.Sprintf("%v", a.IsNullable(sym)),
			formatSet(gram, a.First(sym)),
			formatSet(gram, a.Follow(sym)),
		})
	}
	return data
}

func sequenceTable(a *grammar.Analysis, seq []symbol.Symbol) pterm.TableData {
	gram := a.Grammar()
	return pterm.TableData{
		{"Sequence", "Nullable", "FIRST", "FOLLOW"},
		{
			strings.Join(gram.Texts(seq), " "),
			fmt.Sprintf("%v", a.AllNullable(seq)),
			formatSet(gram, a.FirstOfSequence(seq)),
			formatSet(gram, a.FollowOfSequence(seq)),
		},
	}
}

func parseSequence(gram *grammar.Grammar, s string) ([]symbol.Symbol, error) {
	var seq []symbol.Symbol
	for _, text := range strings.Fields(s) {
		sym, ok := gram.SymbolTable().ToSymbol(text)
		if !ok {
			return nil, fmt.Errorf("unknown symbol: %v", text)
		}
		seq = append(seq, sym)
	}
	return seq, nil
}

func formatSet(gram *grammar.Grammar, syms []symbol.Symbol) string {
	return "{" + strings.Join(gram.Texts(syms), ", ") + "}"
}
