package glob

import (
	"path"
	"strings"
)

// DefaultExcludes are skipped by every walk unless a negated rule says
// otherwise.
var DefaultExcludes = []string{
	".git/",
	"node_modules/",
}

type rule struct {
	pattern  *Pattern
	negated  bool
	dirOnly  bool
	anchored bool
	nested   bool // pattern contains a slash
}

// Excludes applies gitignore-like rules with "last rule wins" behavior.
type Excludes struct {
	rules []rule
}

// NewExcludes builds exclude rules from the configured lines. Default
// excludes come first and can be overridden by user negation rules. Blank
// lines, comments and unparseable patterns are ignored.
func NewExcludes(userRules []string) *Excludes {
	all := make([]string, 0, len(DefaultExcludes)+len(userRules))
	all = append(all, DefaultExcludes...)
	all = append(all, userRules...)

	rules := make([]rule, 0, len(all))
	for _, line := range all {
		if parsed, ok := parseRule(line); ok {
			rules = append(rules, parsed)
		}
	}
	return &Excludes{rules: rules}
}

// Skip reports whether relPath is excluded.
func (e *Excludes) Skip(relPath string, isDir bool) bool {
	if e == nil {
		return false
	}
	relPath = normalizePath(relPath)
	skipped := false
	for _, r := range e.rules {
		if r.matches(relPath, isDir) {
			skipped = !r.negated
		}
	}
	return skipped
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	parsed := rule{}
	if strings.HasPrefix(line, "!") {
		parsed.negated = true
		line = strings.TrimPrefix(line, "!")
	}
	if strings.HasPrefix(line, "/") {
		parsed.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if strings.HasSuffix(line, "/") {
		parsed.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	line = normalizePath(line)
	if line == "" {
		return rule{}, false
	}
	p, err := Compile(line)
	if err != nil {
		return rule{}, false
	}
	parsed.pattern = p
	parsed.nested = strings.Contains(line, "/")
	return parsed, true
}

func (r rule) matches(relPath string, isDir bool) bool {
	if r.dirOnly {
		// A file lies under an excluded directory when one of its ancestors
		// matches; the directory itself only when it is reported as one.
		parts := strings.Split(relPath, "/")
		last := len(parts) - 1
		if isDir {
			last++
		}
		for i := 1; i <= last; i++ {
			if r.matchPrefix(parts[:i]) {
				return true
			}
		}
		return false
	}

	parts := strings.Split(relPath, "/")
	for i := 1; i <= len(parts); i++ {
		if r.matchPrefix(parts[:i]) {
			return true
		}
	}
	return false
}

// matchPrefix matches the rule against a leading run of path segments.
// Anchored and nested rules see the whole run; others only its last segment.
func (r rule) matchPrefix(parts []string) bool {
	if r.anchored || r.nested {
		return r.pattern.Match(strings.Join(parts, "/"))
	}
	return r.pattern.Match(parts[len(parts)-1])
}

func normalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return p
	}
	return path.Clean(p)
}
