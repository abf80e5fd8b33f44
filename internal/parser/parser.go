package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Registry maps file extensions to the ordered list of grammars a file is
// tried with. The first grammar that yields an error-free tree wins.
type Registry struct {
	extToGrammars map[string][]Grammar // extension -> grammars, in attempt order
	fallback      []Grammar
}

// NewRegistry creates a registry whose unknown extensions use fallback.
func NewRegistry(fallback ...Grammar) *Registry {
	return &Registry{
		extToGrammars: make(map[string][]Grammar),
		fallback:      fallback,
	}
}

// NewDefaultRegistry covers the JavaScript and TypeScript families.
// JSX is part of the javascript grammar; tsx is the permissive last resort
// for sources mixing type annotations and markup.
func NewDefaultRegistry() *Registry {
	r := NewRegistry(GrammarJavaScript, GrammarTSX, GrammarTypeScript)
	for _, ext := range []string{".js", ".jsx", ".mjs", ".cjs"} {
		r.Register(ext, GrammarJavaScript, GrammarTSX)
	}
	for _, ext := range []string{".ts", ".mts", ".cts"} {
		r.Register(ext, GrammarTypeScript, GrammarTSX)
	}
	r.Register(".tsx", GrammarTSX, GrammarTypeScript)
	return r
}

// Register sets the grammars tried for ext.
func (r *Registry) Register(ext string, grammars ...Grammar) {
	r.extToGrammars[strings.ToLower(ext)] = grammars
}

// GrammarsForFile returns the attempt order for filename. An empty or
// unknown filename gets the fallback list.
func (r *Registry) GrammarsForFile(filename string) []Grammar {
	ext := strings.ToLower(filepath.Ext(filename))
	if grammars, ok := r.extToGrammars[ext]; ok {
		return grammars
	}
	return r.fallback
}

// SupportedExtensions returns all registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.extToGrammars))
	for ext := range r.extToGrammars {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Parser owns one tree-sitter parser per grammar. It is not safe for
// concurrent use.
type Parser struct {
	registry *Registry
	parsers  map[Grammar]*sitter.Parser
}

// New creates a Parser. A nil registry means NewDefaultRegistry.
func New(registry *Registry) *Parser {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	return &Parser{
		registry: registry,
		parsers:  make(map[Grammar]*sitter.Parser),
	}
}

// Parse tries each grammar registered for filename until one produces a
// tree without ERROR or MISSING nodes. The caller must Close the returned
// tree. When every grammar fails the error is a *SyntaxError.
func (p *Parser) Parse(ctx context.Context, filename string, content []byte) (*sitter.Tree, Grammar, error) {
	grammars := p.registry.GrammarsForFile(filename)
	if len(grammars) == 0 {
		return nil, "", fmt.Errorf("no grammar registered for %q", filename)
	}

	syntaxErr := &SyntaxError{File: filename}
	for _, grammar := range grammars {
		tsParser, err := p.parserFor(grammar)
		if err != nil {
			return nil, "", err
		}

		tree, err := tsParser.ParseCtx(ctx, nil, content)
		if err != nil {
			return nil, "", fmt.Errorf("parse %s as %s: %w", filename, grammar, err)
		}

		syntaxErr.Tried = append(syntaxErr.Tried, grammar)
		root := tree.RootNode()
		if !root.HasError() {
			return tree, grammar, nil
		}

		if node := firstErrorNode(root); node != nil {
			syntaxErr.Line = int(node.StartPoint().Row) + 1
			syntaxErr.Column = int(node.StartPoint().Column) + 1
		}
		tree.Close()
	}

	return nil, "", syntaxErr
}

// Close releases the underlying tree-sitter parsers.
func (p *Parser) Close() {
	for grammar, tsParser := range p.parsers {
		tsParser.Close()
		delete(p.parsers, grammar)
	}
}

func (p *Parser) parserFor(grammar Grammar) (*sitter.Parser, error) {
	if tsParser, ok := p.parsers[grammar]; ok {
		return tsParser, nil
	}
	lang, err := grammar.language()
	if err != nil {
		return nil, err
	}
	tsParser := sitter.NewParser()
	tsParser.SetLanguage(lang)
	p.parsers[grammar] = tsParser
	return tsParser, nil
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
