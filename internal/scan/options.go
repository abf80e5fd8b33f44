package scan

import "github.com/testhooks/changed-test-ids/internal/fileutil"

// DefaultAttributes are the markup attribute names recognised without
// configuration. Codebases standardise on different spellings, so all of
// them are matched at once.
var DefaultAttributes = []string{
	"testId",
	"data-cy",
	"data-test",
	"data-test-id",
	"data-testid",
	"data-testId",
	"dataTestId",
}

// BuiltinQueryMethods are the selector-style query methods whose first
// argument is an attribute selector such as [data-test=greeting].
var BuiltinQueryMethods = []string{"get", "find"}

// Options tune a single scan. The zero value scans with the defaults.
type Options struct {
	// Attributes are extra markup attribute names, added to DefaultAttributes.
	// They are also accepted as selector prefixes by the built-in queries.
	Attributes []string
	// Commands are custom query methods whose first literal argument is
	// the identifier itself, e.g. getByTestId('greeting').
	Commands []string
	// Filename labels diagnostics and selects the grammar attempt order.
	Filename string
}

// WithFilename returns a copy of o labelled with filename.
func (o Options) WithFilename(filename string) Options {
	o.Filename = filename
	return o
}

// AttributeNames returns the default and extra attribute names, sorted.
func (o Options) AttributeNames() []string {
	return fileutil.SortedUnique(DefaultAttributes, o.Attributes)
}

func (o Options) attributeSet() map[string]bool {
	return fileutil.ToSet(o.AttributeNames())
}
