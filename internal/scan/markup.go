package scan

import (
	"html"

	sitter "github.com/smacker/go-tree-sitter"
)

// MarkupAttributes returns the literal values of recognised test attributes
// on every JSX element in source, sorted. Attributes bound to expressions
// cannot be resolved statically and are skipped.
func (s *Scanner) MarkupAttributes(source []byte, opts Options) Result {
	names := opts.attributeSet()
	return s.scan(source, opts, func(node *sitter.Node, content []byte, ids *[]string) {
		switch node.Type() {
		case "jsx_opening_element", "jsx_self_closing_element":
		default:
			return
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			attr := node.NamedChild(i)
			if attr == nil || attr.Type() != "jsx_attribute" {
				continue
			}
			if id, ok := literalAttribute(attr, content, names); ok {
				*ids = append(*ids, id)
			}
		}
	})
}

// MarkupAttributes scans source with a throwaway Scanner.
func MarkupAttributes(source []byte, opts Options) Result {
	s := NewScanner()
	defer s.Close()
	return s.MarkupAttributes(source, opts)
}

// literalAttribute returns the value of attr when its name is recognised and
// its value is a string literal: name="x" or name={"x"}.
func literalAttribute(attr *sitter.Node, content []byte, names map[string]bool) (string, bool) {
	if attr.NamedChildCount() < 2 {
		return "", false
	}
	name := attr.NamedChild(0)
	if name == nil || !names[name.Content(content)] {
		return "", false
	}

	value := attr.NamedChild(1)
	switch value.Type() {
	case "string":
		return nonEmpty(jsxStringValue(value.Content(content)))
	case "jsx_expression":
		if value.NamedChildCount() != 1 {
			return "", false
		}
		inner := value.NamedChild(0)
		if inner == nil || inner.Type() != "string" {
			return "", false
		}
		return nonEmpty(decodeJSString(inner.Content(content)))
	}
	return "", false
}

// jsxStringValue strips the quotes of a JSX attribute string. JSX strings
// have no backslash escapes but do decode HTML character references.
func jsxStringValue(raw string) string {
	return html.UnescapeString(stripQuotes(raw))
}

func nonEmpty(value string) (string, bool) {
	return value, value != ""
}
