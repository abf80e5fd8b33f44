// Package scan extracts test identifiers from markup and spec sources
// using tree-sitter syntax trees.
package scan

import (
	"context"
	"errors"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/testhooks/changed-test-ids/internal/parser"
)

// Result carries the identifiers found in one source, or a diagnostic when
// the source could not be parsed. A failed scan has an empty IDs slice.
type Result struct {
	IDs     []string
	Grammar parser.Grammar // grammar that produced the tree, empty on failure
	Issue   *parser.ParseIssue
}

// OK reports whether the source parsed.
func (r Result) OK() bool {
	return r.Issue == nil
}

// Scanner extracts identifiers from source text. It reuses tree-sitter
// parsers between calls and is not safe for concurrent use.
type Scanner struct {
	parser *parser.Parser
}

// NewScanner creates a Scanner using the default grammar registry.
func NewScanner() *Scanner {
	return &Scanner{parser: parser.New(nil)}
}

// Close releases the tree-sitter parsers.
func (s *Scanner) Close() {
	s.parser.Close()
}

type visitFunc func(node *sitter.Node, content []byte, ids *[]string)

func (s *Scanner) scan(source []byte, opts Options, visit visitFunc) Result {
	tree, grammar, err := s.parser.Parse(context.Background(), opts.Filename, source)
	if err != nil {
		return Result{IDs: []string{}, Issue: issueFor(opts.Filename, err)}
	}
	defer tree.Close()

	ids := make([]string, 0)
	walk(tree.RootNode(), source, visit, &ids)
	sort.Strings(ids)

	return Result{IDs: ids, Grammar: grammar}
}

func walk(node *sitter.Node, content []byte, visit visitFunc, ids *[]string) {
	if node == nil {
		return
	}
	visit(node, content, ids)
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), content, visit, ids)
	}
}

func issueFor(filename string, err error) *parser.ParseIssue {
	message := err.Error()
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		message = syntaxErr.Reason()
	}
	return &parser.ParseIssue{
		File:     filename,
		Severity: parser.SeverityError,
		Message:  message,
	}
}
