package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/nihei9/lrtab/driver"
	"github.com/nihei9/lrtab/grammar"
	gspec "github.com/nihei9/lrtab/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	method *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "repl <grammar file path>",
		Short:   "Parse token sequences interactively",
		Example: `  lrtab repl grammar.json -m lr0`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	replFlags.method = cmd.Flags().StringP("method", "m", gspec.MethodLR1, "initial parsing method [lr0|lr1]")
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	gram, src, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	intp, err := newInterpreter(gram, *replFlags.method)
	if err != nil {
		return err
	}

	rl, err := readline.New(intp.prompt())
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Printf("Loaded %v; %v productions\n", reportName(src, args[0]), gram.ProductionCount())
	pterm.Info.Println("Enter space-separated tokens or a command (:help); quit with <ctrl>D")
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}
		err = intp.eval(os.Stdout, line)
		if err != nil {
			pterm.Error.Println(err)
		}
		rl.SetPrompt(intp.prompt())
	}
}

const replHelp = `:method lr0|lr1   switch the parsing method
:first <symbols>  print FIRST of a sequence
:follow <symbols> print FOLLOW of a sequence
:conflicts        print the conflicts of the current table
:help             print this message
<tokens>          parse the tokens and print the CST of an accepted input`

// interpreter evaluates the lines of the REPL. The automatons are built once per method.
type interpreter struct {
	gram     *grammar.Grammar
	analysis *grammar.Analysis
	method   string
	parsers  map[string]parser
	diags    map[string]*grammar.Diagnostics
}

func newInterpreter(gram *grammar.Grammar, method string) (*interpreter, error) {
	lr0, err := grammar.BuildLR0(gram)
	if err != nil {
		return nil, err
	}
	lr1, err := grammar.BuildLR1(gram, grammar.Analyze(gram))
	if err != nil {
		return nil, err
	}
	intp := &interpreter{
		gram:     gram,
		analysis: grammar.Analyze(gram.Augment()),
		parsers: map[string]parser{
			gspec.MethodLR0: driver.NewLR0Parser(lr0.Table),
			gspec.MethodLR1: driver.NewLR1Parser(lr1.Table),
		},
		diags: map[string]*grammar.Diagnostics{
			gspec.MethodLR0: lr0.Diagnostics,
			gspec.MethodLR1: lr1.Diagnostics,
		},
	}
	err = intp.setMethod(method)
	if err != nil {
		return nil, err
	}
	return intp, nil
}

func (intp *interpreter) prompt() string {
	return fmt.Sprintf("lrtab(%v)> ", intp.method)
}

func (intp *interpreter) setMethod(method string) error {
	if _, ok := intp.parsers[method]; !ok {
		return fmt.Errorf("unknown method: %v", method)
	}
	intp.method = method
	return nil
}

func (intp *interpreter) eval(w io.Writer, line string) error {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		res, err := parseTokens(w, intp.parsers[intp.method], strings.Fields(line), true)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, res)
		return nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":method":
		if len(fields) != 2 {
			return errors.New("usage: :method lr0|lr1")
		}
		return intp.setMethod(fields[1])
	case ":first", ":follow":
		seq, err := parseSequence(intp.analysis.Grammar(), strings.Join(fields[1:], " "))
		if err != nil {
			return err
		}
		if fields[0] == ":first" {
			fmt.Fprintln(w, formatSet(intp.analysis.Grammar(), intp.analysis.FirstOfSequence(seq)))
		} else {
			fmt.Fprintln(w, formatSet(intp.analysis.Grammar(), intp.analysis.FollowOfSequence(seq)))
		}
		return nil
	case ":conflicts":
		diags := intp.diags[intp.method]
		if diags.Len() == 0 {
			fmt.Fprintln(w, "No conflict")
			return nil
		}
		for _, d := range diags.Records() {
			fmt.Fprintf(w, "state %v: %v\n", d.State, diags.Format(d))
		}
		return nil
	case ":help":
		fmt.Fprintln(w, replHelp)
		return nil
	}
	return fmt.Errorf("unknown command: %v", fields[0])
}
