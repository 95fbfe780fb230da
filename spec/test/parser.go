package test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

type Tree struct {
	Parent   *Tree
	Offset   int
	Kind     string
	Children []*Tree
	Lexeme   string
}

func NewNonTerminalTree(kind string, children ...*Tree) *Tree {
	return &Tree{
		Kind:     kind,
		Children: children,
	}
}

func NewTerminalNode(kind string, lexeme string) *Tree {
	return &Tree{
		Kind:   kind,
		Lexeme: lexeme,
	}
}

func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	if t.Parent == nil {
		return t.Kind
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, t.Kind)
}

func (t *Tree) Format() []byte {
	var b bytes.Buffer
	t.format(&b, 0)
	return b.Bytes()
}

func (t *Tree) format(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	buf.WriteString("(")
	buf.WriteString(t.Kind)
	if t.Lexeme != "" {
		fmt.Fprintf(buf, " '%v'", t.Lexeme)
	}
	if len(t.Children) > 0 {
		buf.WriteString("\n")
		for i, c := range t.Children {
			c.format(buf, depth+1)
			if i < len(t.Children)-1 {
				buf.WriteString("\n")
			}
		}
	}
	buf.WriteString(")")
}

func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected == nil || actual == nil {
		return []*TreeDiff{
			{
				Message: fmt.Sprintf("unexpected tree: expected %v but got %v", describeTree(expected), describeTree(actual)),
			},
		}
	}
	// _ matches any symbols.
	if expected.Kind != "_" && actual.Kind != expected.Kind {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Kind, actual.Kind)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if expected.Lexeme != actual.Lexeme {
		msg := fmt.Sprintf("unexpected lexeme: expected '%v' but got '%v'", expected.Lexeme, actual.Lexeme)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}

func describeTree(t *Tree) string {
	if t == nil {
		return "no tree"
	}
	return fmt.Sprintf("'%v'", t.Kind)
}

const (
	ResultAccept = "accept"
	ResultReject = "reject"
)

// TestCase is a token sequence and what the parsers must do with it. Output is the expected syntax tree of
// an accepted input; a test case with a tree expects every parser to accept the input.
type TestCase struct {
	Description string
	Tokens      []string
	Output      *Tree

	// Results maps a parsing method to its expected result. The empty method applies to every method.
	Results map[string]string
}

// Expected returns the result the parser of a method must return. It reports false when the test case
// expects nothing from the method.
func (c *TestCase) Expected(method string) (string, bool) {
	if c.Output != nil {
		return ResultAccept, true
	}
	if r, ok := c.Results[method]; ok {
		return r, true
	}
	r, ok := c.Results[""]
	return r, ok
}

// ParseTestCase reads a test case consisting of three parts: a description, space-separated tokens, and
// an expectation. The expectation is either a syntax tree like `(S (C (c 'c')))` or result lines like
// `reject` and `lr1: accept`.
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	tc := &TestCase{
		Description: string(parts[0].buf),
		Tokens:      strings.Fields(string(parts[1].buf)),
	}

	expectation := bytes.TrimSpace(parts[2].buf)
	if bytes.HasPrefix(expectation, []byte("(")) {
		tp := &treeParser{
			lineOffset: parts[0].lineCount + parts[1].lineCount + 2,
		}
		tree, err := tp.parseTree(parts[2].buf)
		if err != nil {
			return nil, err
		}
		tc.Output = tree
		return tc, nil
	}

	results, err := parseResults(expectation)
	if err != nil {
		return nil, err
	}
	tc.Results = results
	return tc, nil
}

var reResult = regexp.MustCompile(`^\s*(?:([a-z0-9]+)\s*:\s*)?(accept|reject)\s*$`)

func parseResults(src []byte) (map[string]string, error) {
	results := map[string]string{}
	s := bufio.NewScanner(bytes.NewReader(src))
	for s.Scan() {
		line := s.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := reResult.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("invalid expectation: %v", line)
		}
		if _, ok := results[m[1]]; ok {
			return nil, fmt.Errorf("duplicate expectation: %v", line)
		}
		results[m[1]] = m[2]
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("an expectation is missing")
	}
	return results, nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// Return an empty slice because (*bytes.Buffer).Bytes() returns nil if we have never written data.
		return []byte{}, 0, nil
	}
	_, err := buf.Write(line)
	if err != nil {
		return nil, 0, err
	}
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		_, err := buf.Write([]byte("\n"))
		if err != nil {
			return nil, 0, err
		}
		_, err = buf.Write(line)
		if err != nil {
			return nil, 0, err
		}
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}
