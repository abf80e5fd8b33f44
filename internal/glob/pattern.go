// Package glob matches and expands source file patterns such as
// "src/**/*.{jsx,tsx}".
package glob

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is a validated doublestar glob. "*" and "?" stay within one path
// segment, a "**" segment spans zero or more directories, "{a,b}" picks an
// alternative and "[...]" is a character class ("[!...]" negated).
type Pattern struct {
	raw  string
	base string
}

// Compile parses a slash-separated glob.
func Compile(pattern string) (*Pattern, error) {
	normalized := strings.ReplaceAll(pattern, `\`, "/")
	normalized = strings.TrimPrefix(normalized, "./")
	if normalized == "" {
		return nil, fmt.Errorf("empty glob pattern")
	}
	if !doublestar.ValidatePattern(normalized) {
		return nil, fmt.Errorf("glob %q: %w", pattern, doublestar.ErrBadPattern)
	}

	base, _ := doublestar.SplitPattern(normalized)
	return &Pattern{raw: normalized, base: base}, nil
}

// String returns the normalised pattern.
func (p *Pattern) String() string { return p.raw }

// Base is the leading directory of the pattern that contains no wildcards.
// It is "." when the first segment already has one.
func (p *Pattern) Base() string { return p.base }

// Match reports whether the slash-separated path matches the pattern.
func (p *Pattern) Match(path string) bool {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.TrimPrefix(path, "./")
	ok, err := doublestar.Match(p.raw, path)
	return err == nil && ok
}
