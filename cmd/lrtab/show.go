package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/lrtab/grammar"
	gspec "github.com/nihei9/lrtab/spec/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <report file path>",
		Short:   "Print a report in a readable format",
		Example: `  lrtab show grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	err = writeReport(os.Stdout, report)
	if err != nil {
		return err
	}

	return nil
}

func readReport(path string) (*gspec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &gspec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

const reportTemplate = `# {{ .Name }} ({{ .Method }})

# Conflicts

{{ printConflictSummary . }}
{{ with .Compaction }}
# Compaction

{{ .UniqueRows }} unique rows, {{ .ActionLists }} action lists, {{ .OriginalSize }} -> {{ .Size }} ints
{{ end }}
# Terminals

{{ range .Terminals -}}
{{ . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}

{{ range .Items -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{- range .Conflicts }}
{{ printConflict . }}
{{- end }}
{{ end }}`

func writeReport(w io.Writer, report *gspec.Report) error {
	fns := template.FuncMap{
		"printConflictSummary": func(report *gspec.Report) string {
			if msg := conflictSummary(report); msg != "" {
				return msg
			}
			return "No conflict"
		},
		"printProduction": func(prod *gspec.Production) string {
			rhs := "ε"
			if len(prod.RHS) > 0 {
				rhs = strings.Join(prod.RHS, " ")
			}
			return fmt.Sprintf("%4v %v → %v", prod.Number, prod.LHS, rhs)
		},
		"printItem": func(item *gspec.Item) string {
			return fmt.Sprintf("%4v %v", item.Production, grammar.FormatReportItem(report, item))
		},
		"printShift": func(tran *gspec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, tran.Symbol)
		},
		"printReduce": func(reduce *gspec.Reduce) string {
			if len(reduce.LookAhead) == 0 {
				return fmt.Sprintf("reduce %4v", reduce.Production)
			}
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, strings.Join(reduce.LookAhead, ", "))
		},
		"printGoTo": func(tran *gspec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, tran.Symbol)
		},
		"printConflict": func(c *gspec.Conflict) string {
			return c.Message
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, report)
	if err != nil {
		return err
	}

	return nil
}
