package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Grammar names a tree-sitter grammar that source text can be parsed with.
type Grammar string

const (
	GrammarJavaScript Grammar = "javascript"
	GrammarTypeScript Grammar = "typescript"
	GrammarTSX        Grammar = "tsx"
)

func (g Grammar) language() (*sitter.Language, error) {
	switch g {
	case GrammarJavaScript:
		return javascript.GetLanguage(), nil
	case GrammarTypeScript:
		return typescript.GetLanguage(), nil
	case GrammarTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported grammar %q", string(g))
	}
}

const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// ParseIssue captures a non-fatal read or parse failure for a single file.
type ParseIssue struct {
	File     string `json:"file" yaml:"file"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Severity string `json:"severity" yaml:"severity"` // warning | error
	Message  string `json:"message" yaml:"message"`
}

// SyntaxError is returned by Parse when no grammar produced a clean tree.
// Line and Column locate the first error node of the last attempt (1-based line).
type SyntaxError struct {
	File   string
	Tried  []Grammar
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	if e.File == "" {
		return e.Reason()
	}
	return e.File + ": " + e.Reason()
}

// Reason describes the failure without naming the file.
func (e *SyntaxError) Reason() string {
	tried := make([]string, 0, len(e.Tried))
	for _, g := range e.Tried {
		tried = append(tried, string(g))
	}
	return fmt.Sprintf("syntax error at %d:%d (tried %s)", e.Line, e.Column, strings.Join(tried, ", "))
}
