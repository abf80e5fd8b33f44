package collect

import (
	"github.com/testhooks/changed-test-ids/internal/scan"
	"github.com/testhooks/changed-test-ids/internal/vcs"
)

// The functions below use a throwaway Collector that logs nothing; failures
// only show up as empty results.

func MarkupAttributesInFile(path string) []string {
	c := New()
	defer c.Close()
	ids, _ := c.MarkupAttributesInFile(path)
	return ids
}

func SpecQueriesInFile(path string, opts scan.Options) []string {
	c := New(WithOptions(opts))
	defer c.Close()
	ids, _ := c.SpecQueriesInFile(path)
	return ids
}

func MarkupAttributesInChangedFile(record vcs.ChangedFile) []string {
	c := New()
	defer c.Close()
	ids, _ := c.MarkupAttributesInChangedFile(record)
	return ids
}

func MarkupAttributes(paths []string) []string {
	c := New()
	defer c.Close()
	return c.MarkupAttributes(paths).IDs
}

// SpecQueries returns the distinct identifiers used by the specs and the
// specs using each one.
func SpecQueries(paths []string, opts scan.Options) ([]string, map[string][]string) {
	c := New(WithOptions(opts))
	defer c.Close()
	index := c.SpecQueries(paths)
	return index.IDs, index.ByID
}

func MarkupAttributesInChangedFiles(records []vcs.ChangedFile) []string {
	c := New()
	defer c.Close()
	return c.MarkupAttributesInChangedFiles(records).IDs
}
