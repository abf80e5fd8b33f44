package collect

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testhooks/changed-test-ids/internal/logging"
	"github.com/testhooks/changed-test-ids/internal/scan"
	"github.com/testhooks/changed-test-ids/internal/vcs"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

func TestMarkupAttributesInFile(t *testing.T) {
	assert.Equal(t, []string{"greeting"}, MarkupAttributesInFile(fixture("hello.jsx")))
	assert.Equal(t, []string{"name"}, MarkupAttributesInFile(fixture("person.jsx")))
	assert.Equal(t, []string{"MyAddress", "street"}, MarkupAttributesInFile(fixture("address.tsx")))
}

func TestMarkupAttributesInFileFailures(t *testing.T) {
	var logs bytes.Buffer
	logger, _ := logging.New(logging.Config{Stderr: &logs})

	c := New(WithLogger(logger))
	defer c.Close()

	ids, issue := c.MarkupAttributesInFile(fixture("missing.jsx"))
	assert.Empty(t, ids)
	require.NotNil(t, issue)
	assert.Contains(t, issue.Message, "could not read file")

	ids, issue = c.MarkupAttributesInFile(fixture("broken.jsx"))
	assert.Empty(t, ids)
	require.NotNil(t, issue)
	assert.Equal(t, fixture("broken.jsx"), issue.File)

	assert.Contains(t, logs.String(), "skipping file")
	assert.Contains(t, logs.String(), "broken.jsx")
}

func TestSpecQueriesInFile(t *testing.T) {
	found := SpecQueriesInFile(fixture("hello.cy.js"), scan.Options{Commands: []string{"getTest"}})
	assert.Equal(t, []string{"greeting"}, found)

	found = SpecQueriesInFile(fixture("person.cy.ts"), scan.Options{})
	assert.Equal(t, []string{"greeting", "name"}, found)
}

func TestMarkupAttributesAggregates(t *testing.T) {
	found := MarkupAttributes([]string{
		fixture("hello.jsx"),
		fixture("person.jsx"),
		fixture("hello.jsx"),
	})
	assert.Equal(t, []string{"greeting", "name"}, found)
}

func TestMarkupAttributesIndexKeepsGoingAfterFailures(t *testing.T) {
	var seen []string
	c := New(WithProgress(func(done, total int, file string) {
		assert.Equal(t, 4, total)
		assert.Equal(t, len(seen)+1, done)
		seen = append(seen, file)
	}))
	defer c.Close()

	paths := []string{
		fixture("broken.jsx"),
		fixture("hello.jsx"),
		fixture("missing.jsx"),
		fixture("address.tsx"),
	}
	index := c.MarkupAttributes(paths)

	assert.Equal(t, []string{"MyAddress", "greeting", "street"}, index.IDs)
	assert.Equal(t, paths, index.Files)
	assert.Equal(t, paths, seen)
	require.Len(t, index.Issues, 2)
	assert.Equal(t, fixture("broken.jsx"), index.Issues[0].File)
	assert.Equal(t, fixture("missing.jsx"), index.Issues[1].File)
}

func TestSpecQueriesIndex(t *testing.T) {
	ids, byID := SpecQueries(
		[]string{fixture("hello.cy.js"), fixture("person.cy.ts")},
		scan.Options{Commands: []string{"getTest"}},
	)

	assert.Equal(t, []string{"greeting", "name"}, ids)
	assert.Equal(t, map[string][]string{
		"greeting": {fixture("hello.cy.js"), fixture("person.cy.ts")},
		"name":     {fixture("person.cy.ts")},
	}, byID)
}

func TestSpecQueriesListsFileOncePerIdentifier(t *testing.T) {
	c := New(WithOptions(scan.Options{Commands: []string{"getTest"}}))
	defer c.Close()

	index := c.SpecQueries([]string{fixture("person.cy.ts"), fixture("hello.cy.js"), fixture("person.cy.ts")})
	assert.Equal(t, []string{fixture("person.cy.ts")}, index.ByID["name"])
	assert.Equal(t, []string{fixture("person.cy.ts"), fixture("hello.cy.js")}, index.ByID["greeting"])

	index = c.SpecQueries([]string{fixture("person.cy.ts")})
	assert.Equal(t, []string{fixture("person.cy.ts")}, index.ByID["name"])
	for id, files := range index.ByID {
		assert.NotEmpty(t, files, id)
	}
}

func TestMarkupAttributesInChangedFile(t *testing.T) {
	record := vcs.ChangedFile{
		Filename: "src/hello.jsx",
		Before:   `<div testId="greeting">Hello</div>`,
		After:    `<><div testId="welcome">Hello</div><p testId="greeting" /></>`,
	}
	assert.Equal(t, []string{"greeting", "welcome"}, MarkupAttributesInChangedFile(record))

	added := vcs.ChangedFile{Filename: "src/new.jsx", After: `<p data-cy="fresh" />`}
	assert.Equal(t, []string{"fresh"}, MarkupAttributesInChangedFile(added))

	deleted := vcs.ChangedFile{Filename: "src/old.jsx", Before: `<p data-cy="gone" />`}
	assert.Equal(t, []string{"gone"}, MarkupAttributesInChangedFile(deleted))
}

func TestMarkupAttributesInChangedFileHalfBroken(t *testing.T) {
	c := New()
	defer c.Close()

	ids, issues := c.MarkupAttributesInChangedFile(vcs.ChangedFile{
		Filename: "src/hello.jsx",
		Before:   `<div testId="greeting">Hello</div>`,
		After:    `<div testId="welcome">Hello`,
	})
	assert.Equal(t, []string{"greeting"}, ids)
	require.Len(t, issues, 1)
	assert.Equal(t, "src/hello.jsx", issues[0].File)
	assert.Contains(t, issues[0].Message, "after: ")
}

func TestMarkupAttributesInChangedFiles(t *testing.T) {
	records := []vcs.ChangedFile{
		{Filename: "a.jsx", Before: `<i testId="one" />`, After: `<i testId="two" />`},
		{Filename: "b.tsx", After: `<i data-cy="two" />`},
		{Filename: "c.jsx"},
	}
	assert.Equal(t, []string{"one", "two"}, MarkupAttributesInChangedFiles(records))

	c := New(WithOptions(scan.Options{Attributes: []string{"qa"}}))
	defer c.Close()
	index := c.MarkupAttributesInChangedFiles([]vcs.ChangedFile{{Filename: "d.jsx", After: `<i qa="extra" />`}})
	assert.Equal(t, []string{"extra"}, index.IDs)
	assert.Equal(t, []string{"d.jsx"}, index.Files)
}
