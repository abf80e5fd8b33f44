package parser

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryGrammarsForFile(t *testing.T) {
	r := NewDefaultRegistry()

	cases := []struct {
		file string
		want []Grammar
	}{
		{file: "hello.jsx", want: []Grammar{GrammarJavaScript, GrammarTSX}},
		{file: "spec.cy.JS", want: []Grammar{GrammarJavaScript, GrammarTSX}},
		{file: "util.ts", want: []Grammar{GrammarTypeScript, GrammarTSX}},
		{file: "address.tsx", want: []Grammar{GrammarTSX, GrammarTypeScript}},
		{file: "", want: []Grammar{GrammarJavaScript, GrammarTSX, GrammarTypeScript}},
		{file: "README.md", want: []Grammar{GrammarJavaScript, GrammarTSX, GrammarTypeScript}},
	}

	for _, tc := range cases {
		got := r.GrammarsForFile(tc.file)
		if len(got) != len(tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.file, tc.want, got)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("%q: expected %v, got %v", tc.file, tc.want, got)
			}
		}
	}
}

func TestParseFallsBackToNextGrammar(t *testing.T) {
	p := New(nil)
	defer p.Close()

	// type annotations are not javascript; the tsx attempt must succeed
	tree, grammar, err := p.Parse(context.Background(), "", []byte("const n: number = 1;\ncy.get('x')\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	if grammar != GrammarTSX {
		t.Fatalf("expected tsx grammar, got %s", grammar)
	}
}

func TestParseKeepsFirstCleanGrammar(t *testing.T) {
	p := New(nil)
	defer p.Close()

	tree, grammar, err := p.Parse(context.Background(), "hello.jsx", []byte(`<div testId="greeting">Hello</div>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	if grammar != GrammarJavaScript {
		t.Fatalf("expected javascript grammar, got %s", grammar)
	}
}

func TestParseReportsSyntaxError(t *testing.T) {
	p := New(nil)
	defer p.Close()

	_, _, err := p.Parse(context.Background(), "broken.js", []byte("function (\n"))
	if err == nil {
		t.Fatalf("expected a syntax error")
	}

	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if syntaxErr.File != "broken.js" {
		t.Fatalf("expected file broken.js, got %q", syntaxErr.File)
	}
	if len(syntaxErr.Tried) != 2 {
		t.Fatalf("expected two grammars tried, got %v", syntaxErr.Tried)
	}
	if syntaxErr.Line < 1 {
		t.Fatalf("expected a 1-based error line, got %d", syntaxErr.Line)
	}
}
