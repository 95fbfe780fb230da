package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	verr "github.com/nihei9/lrtab/error"
	"github.com/nihei9/lrtab/grammar"
	gspec "github.com/nihei9/lrtab/spec/grammar"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	method  *string
	output  *string
	compact *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile [<grammar file path>]",
		Short:   "Build a parsing table from a grammar and write its report",
		Example: `  lrtab compile grammar.json -m lr1 -o grammar-report.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.method = cmd.Flags().StringP("method", "m", gspec.MethodLR1, "parsing method [lr0|lr1]")
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.compact = cmd.Flags().Bool("compact", false, "compress the LR(1) table and report its size")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	gram, src, err := readGrammar(grmPath)
	if err != nil {
		return err
	}

	report, err := compile(gram, reportName(src, grmPath), *compileFlags.method, *compileFlags.compact)
	if err != nil {
		return err
	}

	w := io.Writer(os.Stdout)
	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("Cannot open the output file %s: %w", *compileFlags.output, err)
		}
		defer f.Close()
		w = f
	}
	err = writeReportJSON(w, report)
	if err != nil {
		return fmt.Errorf("Cannot write a report: %w", err)
	}

	if msg := conflictSummary(report); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	return nil
}

// compile builds the automaton of a method and returns its report. compact applies to LR(1) only.
func compile(gram *grammar.Grammar, name string, method string, compact bool) (*gspec.Report, error) {
	switch method {
	case gspec.MethodLR0:
		automaton, err := grammar.BuildLR0(gram)
		if err != nil {
			return nil, err
		}
		return automaton.Report(name), nil
	case gspec.MethodLR1:
		automaton, err := grammar.BuildLR1(gram, grammar.Analyze(gram))
		if err != nil {
			return nil, err
		}
		report := automaton.Report(name)
		if compact {
			tab, err := automaton.Table.Compact()
			if err != nil {
				return nil, err
			}
			stats := tab.Stats()
			report.Compaction = &gspec.Compaction{
				UniqueRows:   stats.UniqueRows,
				ActionLists:  stats.ActionLists,
				OriginalSize: stats.OriginalSize,
				Size:         stats.Size,
			}
		}
		return report, nil
	}
	return nil, fmt.Errorf("unknown method: %v", method)
}

func writeReportJSON(w io.Writer, report *gspec.Report) error {
	b, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	return err
}

func conflictSummary(report *gspec.Report) string {
	counts := report.ConflictCount()
	var msgs []string
	for _, kind := range []grammar.DiagnosticKind{grammar.DiagnosticShiftReduce, grammar.DiagnosticReduceReduce, grammar.DiagnosticAmbiguity} {
		c := counts[string(kind)]
		switch {
		case c == 1:
			msgs = append(msgs, fmt.Sprintf("1 %v conflict", kind))
		case c > 1:
			msgs = append(msgs, fmt.Sprintf("%v %v conflicts", c, kind))
		}
	}
	return strings.Join(msgs, ", ")
}

// readGrammar reads a grammar file. An empty path means stdin.
func readGrammar(path string) (gram *grammar.Grammar, src *gspec.Source, retErr error) {
	defer func() {
		var specErr *verr.SpecError
		if retErr != nil && errors.As(retErr, &specErr) {
			specErr.FilePath = path
			if path != "" {
				specErr.SourceName = path
			} else {
				specErr.SourceName = "stdin"
			}
		}
	}()

	r := io.Reader(os.Stdin)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	src, err := gspec.ReadSource(r)
	if err != nil {
		return nil, nil, err
	}
	gram, err = grammar.NewGrammarFromSource(src)
	if err != nil {
		return nil, nil, err
	}
	return gram, src, nil
}

func reportName(src *gspec.Source, path string) string {
	if src.Name != "" {
		return src.Name
	}
	if path == "" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
