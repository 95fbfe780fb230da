package grammar

import (
	"fmt"
	"strings"

	"github.com/nihei9/lrtab/grammar/symbol"
)

type DiagnosticKind string

const (
	DiagnosticShiftReduce  = DiagnosticKind("shift/reduce")
	DiagnosticReduceReduce = DiagnosticKind("reduce/reduce")
	DiagnosticAmbiguity    = DiagnosticKind("ambiguity")
)

// Diagnostic records a conflict found during construction. Conflicts never stop construction;
// the builders apply their default resolution and carry on.
type Diagnostic struct {
	Kind  DiagnosticKind
	State StateNum

	// Symbol is the look-ahead symbol of an LR(1) conflict, and symbol.SymbolNil for LR(0).
	Symbol symbol.Symbol

	// Items are the offending items. An LR(0) record lists the recorded handle (if any) first.
	Items []*Item

	// Actions are the conflicting table entries of an LR(1) record.
	Actions []Action
}

// Diagnostics collects the records of one construction. It is returned next to the automaton
// instead of being written to a shared sink.
type Diagnostics struct {
	gram    *Grammar
	records []*Diagnostic
}

func newDiagnostics(gram *Grammar) *Diagnostics {
	return &Diagnostics{
		gram: gram,
	}
}

func (d *Diagnostics) add(r *Diagnostic) {
	d.records = append(d.records, r)
	tracer().Infof("state %v: %v", r.State, d.Format(r))
}

// Records returns the records in the order they were found.
func (d *Diagnostics) Records() []*Diagnostic {
	return d.records
}

func (d *Diagnostics) Len() int {
	return len(d.records)
}

// Count returns the number of records of a kind.
func (d *Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, r := range d.records {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// Format renders a record with the symbol texts of the grammar.
func (d *Diagnostics) Format(r *Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v conflict", r.Kind)
	if !r.Symbol.IsNil() {
		fmt.Fprintf(&b, " on %v", d.gram.Text(r.Symbol))
	}
	if len(r.Items) > 0 {
		items := make([]string, len(r.Items))
		for i, item := range r.Items {
			items[i] = d.gram.FormatItem(item)
		}
		fmt.Fprintf(&b, "; items: %v", strings.Join(items, " | "))
	}
	if len(r.Actions) > 0 {
		acts := make([]string, len(r.Actions))
		for i, act := range r.Actions {
			acts[i] = d.formatAction(act)
		}
		fmt.Fprintf(&b, "; actions: %v", strings.Join(acts, ", "))
	}
	return b.String()
}

func (d *Diagnostics) formatAction(act Action) string {
	if act.Type == ActionTypeReduce {
		return fmt.Sprintf("reduce %v", d.gram.FormatProduction(act.Production))
	}
	return fmt.Sprintf("shift %v", act.State)
}

func classifyActions(acts []Action) DiagnosticKind {
	shifts := 0
	for _, act := range acts {
		if act.Type == ActionTypeShift {
			shifts++
		}
	}
	switch {
	case shifts == 1 && len(acts) == 2:
		return DiagnosticShiftReduce
	case shifts == 0:
		return DiagnosticReduceReduce
	default:
		return DiagnosticAmbiguity
	}
}
