package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/lrtab/driver"
	"github.com/nihei9/lrtab/grammar"
	gspec "github.com/nihei9/lrtab/spec/grammar"
	tspec "github.com/nihei9/lrtab/spec/test"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrtab.tester'.
func tracer() tracing.Trace {
	return tracing.Select("lrtab.tester")
}

type TestResult struct {
	TestCasePath string
	Method       string
	Error        error
	Diffs        []*tspec.TreeDiff
}

func (r *TestResult) String() string {
	name := r.TestCasePath
	if r.Method != "" {
		name = fmt.Sprintf("%v (%v)", r.TestCasePath, r.Method)
	}
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", name, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
			diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", name)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

type parser interface {
	Parse(tokens []string, opts ...driver.ParseOption) (driver.Result, error)
	Grammar() *grammar.Grammar
}

// Tester runs test cases against the parsers of the given methods. A nil table skips its method.
type Tester struct {
	LR0   *grammar.LR0Table
	LR1   *grammar.LR1Table
	Cases []*TestCaseWithMetadata
}

// NewTester builds the tables of the methods. Every method is built when methods is empty.
func NewTester(gram *grammar.Grammar, cases []*TestCaseWithMetadata, methods ...string) (*Tester, error) {
	if len(methods) == 0 {
		methods = []string{gspec.MethodLR0, gspec.MethodLR1}
	}

	t := &Tester{
		Cases: cases,
	}
	for _, m := range methods {
		switch m {
		case gspec.MethodLR0:
			automaton, err := grammar.BuildLR0(gram)
			if err != nil {
				return nil, err
			}
			t.LR0 = automaton.Table
		case gspec.MethodLR1:
			automaton, err := grammar.BuildLR1(gram, grammar.Analyze(gram))
			if err != nil {
				return nil, err
			}
			t.LR1 = automaton.Table
		default:
			return nil, fmt.Errorf("unknown method: %v", m)
		}
	}
	return t, nil
}

func (t *Tester) parsers() map[string]parser {
	ps := map[string]parser{}
	if t.LR0 != nil {
		ps[gspec.MethodLR0] = driver.NewLR0Parser(t.LR0)
	}
	if t.LR1 != nil {
		ps[gspec.MethodLR1] = driver.NewLR1Parser(t.LR1)
	}
	return ps
}

func (t *Tester) Run() []*TestResult {
	ps := t.parsers()
	var rs []*TestResult
	for _, c := range t.Cases {
		if c.Error != nil {
			rs = append(rs, &TestResult{
				TestCasePath: c.FilePath,
				Error:        c.Error,
			})
			continue
		}
		for _, m := range []string{gspec.MethodLR0, gspec.MethodLR1} {
			p, ok := ps[m]
			if !ok {
				continue
			}
			expected, ok := c.TestCase.Expected(m)
			if !ok {
				continue
			}
			r := runTest(p, m, expected, c)
			tracer().Debugf("%v", r)
			rs = append(rs, r)
		}
	}
	return rs
}

func runTest(p parser, method string, expected string, c *TestCaseWithMetadata) *TestResult {
	act := driver.NewSyntaxTreeActionSet(p.Grammar())
	res, err := p.Parse(c.TestCase.Tokens, driver.SemanticAction(act))
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Method:       method,
			Error:        err,
		}
	}

	var actual string
	switch res {
	case driver.Accept:
		actual = tspec.ResultAccept
	case driver.Reject:
		actual = tspec.ResultReject
	default:
		actual = res.String()
	}
	if actual != expected {
		return &TestResult{
			TestCasePath: c.FilePath,
			Method:       method,
			Error:        fmt.Errorf("unexpected result: expected %v but got %v", expected, actual),
		}
	}

	if c.TestCase.Output != nil {
		tree := genTree(act.CST())
		if tree != nil {
			tree.Fill()
		}
		diffs := tspec.DiffTree(c.TestCase.Output, tree)
		if len(diffs) > 0 {
			return &TestResult{
				TestCasePath: c.FilePath,
				Method:       method,
				Error:        fmt.Errorf("output mismatch"),
				Diffs:        diffs,
			}
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
		Method:       method,
	}
}

func genTree(dTree *driver.Node) *tspec.Tree {
	if dTree == nil {
		return nil
	}
	if dTree.Text != "" {
		return tspec.NewTerminalNode(dTree.KindName, dTree.Text)
	}
	var children []*tspec.Tree
	if len(dTree.Children) > 0 {
		children = make([]*tspec.Tree, len(dTree.Children))
		for i, c := range dTree.Children {
			children[i] = genTree(c)
		}
	}
	return tspec.NewNonTerminalTree(dTree.KindName, children...)
}
