package scan

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/testhooks/changed-test-ids/internal/fileutil"
)

type ruleKind int

const (
	ruleBuiltinQuery ruleKind = iota
	ruleCustomCommand
)

func (k ruleKind) String() string {
	switch k {
	case ruleBuiltinQuery:
		return "builtin"
	case ruleCustomCommand:
		return "custom"
	default:
		return "unknown"
	}
}

// queryRule recognises one call shape: applies checks the method name and
// extract turns the literal first argument into an identifier.
type queryRule struct {
	kind    ruleKind
	applies func(method string) bool
	extract func(literal string) (string, bool)
}

// queryRules returns the rules in priority order: built-in selector
// queries before custom commands.
func queryRules(opts Options) []queryRule {
	builtins := fileutil.ToSet(BuiltinQueryMethods)
	commands := fileutil.ToSet(opts.Commands)
	attributes := opts.attributeSet()

	return []queryRule{
		{
			kind:    ruleBuiltinQuery,
			applies: func(method string) bool { return builtins[method] },
			extract: func(literal string) (string, bool) { return SelectorValue(literal, attributes) },
		},
		{
			kind:    ruleCustomCommand,
			applies: func(method string) bool { return commands[method] },
			extract: nonEmpty,
		},
	}
}

// SpecQueries returns the identifiers queried by spec source: the values of
// get/find attribute selectors and the literal first argument of custom
// commands, sorted. Calls with non-literal arguments contribute nothing.
func (s *Scanner) SpecQueries(source []byte, opts Options) Result {
	rules := queryRules(opts)
	return s.scan(source, opts, func(node *sitter.Node, content []byte, ids *[]string) {
		if node.Type() != "call_expression" {
			return
		}
		method, literal, ok := methodCallWithLiteral(node, content)
		if !ok {
			return
		}
		// The first rule claiming the method decides; built-ins come first.
		for _, rule := range rules {
			if !rule.applies(method) {
				continue
			}
			if id, ok := rule.extract(literal); ok {
				*ids = append(*ids, id)
			}
			return
		}
	})
}

// SpecQueries scans source with a throwaway Scanner.
func SpecQueries(source []byte, opts Options) Result {
	s := NewScanner()
	defer s.Close()
	return s.SpecQueries(source, opts)
}

// methodCallWithLiteral matches obj.method('literal', ...) and returns the
// method name and the decoded literal.
func methodCallWithLiteral(call *sitter.Node, content []byte) (method, literal string, ok bool) {
	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Type() != "member_expression" {
		return "", "", false
	}
	property := callee.ChildByFieldName("property")
	if property == nil {
		return "", "", false
	}

	arg := firstArgument(call.ChildByFieldName("arguments"))
	if arg == nil || arg.Type() != "string" {
		return "", "", false
	}
	return property.Content(content), decodeJSString(arg.Content(content)), true
}

func firstArgument(args *sitter.Node) *sitter.Node {
	if args == nil || args.Type() != "arguments" {
		return nil
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		return child
	}
	return nil
}
