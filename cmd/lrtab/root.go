package main

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "lrtab",
	Short: "Analyze a context-free grammar and build LR(0) and LR(1) parsing tables",
	Long: `lrtab provides the following features:
- Computes NULLABLE, FIRST, and FOLLOW of a grammar.
- Builds LR(0) and canonical LR(1) parsing tables and reports their conflicts.
- Parses token sequences with the tables and tests a grammar against test cases.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initTracing(*rootFlags.trace)
	},
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
}

var traceKeys = []string{
	"lrtab.grammar",
	"lrtab.driver",
	"lrtab.tester",
}

func initTracing(level string) {
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	l := tracing.TraceLevelFromString(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}

func Execute() error {
	return rootCmd.Execute()
}
