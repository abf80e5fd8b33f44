package glob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternMatch(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"src/**/*.jsx", "src/hello.jsx", true},
		{"src/**/*.jsx", "src/a/b/hello.jsx", true},
		{"src/**/*.jsx", "lib/hello.jsx", false},
		{"src/**/*.jsx", "src/hello.tsx", false},
		{"src/*.jsx", "src/a/hello.jsx", false},
		{"**/*.cy.{js,ts}", "cypress/e2e/login.cy.ts", true},
		{"**/*.cy.{js,ts}", "login.cy.js", true},
		{"**/*.cy.{js,ts}", "login.cy.tsx", false},
		{"./src/*.{jsx,tsx}", "src/person.tsx", true},
		{"src/?.js", "src/a.js", true},
		{"src/?.js", "src/ab.js", false},
		{"src/[ab].js", "src/b.js", true},
		{"src/[!ab].js", "src/b.js", false},
		{"src/**", "src/deep/er/file.js", true},
		{"src/hello.jsx", "src/hello.jsx", true},
		{"src/{components,{pages,views}}/*.jsx", "src/views/home.jsx", true},
		{"src/(x).jsx", "src/(x).jsx", true},
		{"src/**.jsx", "src/hello.jsx", true},
		{"src/**.jsx", "src/a/b/hello.jsx", false},
	}

	for _, tc := range cases {
		p, err := Compile(tc.pattern)
		require.NoError(t, err, tc.pattern)
		assert.Equal(t, tc.want, p.Match(tc.path), "%s ~ %s", tc.pattern, tc.path)
	}
}

func TestCompileErrors(t *testing.T) {
	for _, pattern := range []string{"", "src/{a,b", "src/[ab.js"} {
		_, err := Compile(pattern)
		assert.Error(t, err, "pattern %q", pattern)
	}
}

func TestPatternBase(t *testing.T) {
	cases := map[string]string{
		"src/**/*.jsx":       "src",
		"src/components/*.x": "src/components",
		"*.jsx":              ".",
		"**/*.cy.js":         ".",
		"src/hello.jsx":      "src",
		"/abs/src/*.jsx":     "/abs/src",
		"/*.jsx":             "/",
	}
	for pattern, want := range cases {
		p, err := Compile(pattern)
		require.NoError(t, err)
		assert.Equal(t, want, p.Base(), pattern)
	}
}

func TestExcludes(t *testing.T) {
	e := NewExcludes([]string{
		"# generated code",
		"vendor/**",
		"!vendor/keep/file.js",
		"*.stories.jsx",
		"/dist/",
	})

	cases := []struct {
		path    string
		isDir   bool
		skipped bool
	}{
		{".git/config", false, true},
		{"node_modules/pkg/index.js", false, true},
		{"packages/app/node_modules", true, true},
		{"vendor/lib/a.js", false, true},
		{"vendor/keep/file.js", false, false},
		{"src/button.stories.jsx", false, true},
		{"dist/bundle.js", false, true},
		{"src/dist/bundle.js", false, false},
		{"src/hello.jsx", false, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.skipped, e.Skip(tc.path, tc.isDir), tc.path)
	}
}

func TestExcludesNegatedDirectory(t *testing.T) {
	e := NewExcludes([]string{"build/", "!build/include/"})

	assert.True(t, e.Skip("build/out/file.js", false))
	assert.False(t, e.Skip("build/include/file.js", false))
}

func TestNilExcludesSkipNothing(t *testing.T) {
	var e *Excludes
	assert.False(t, e.Skip("node_modules/x.js", false))
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"src/hello.jsx",
		"src/components/person.jsx",
		"src/components/address.tsx",
		"src/components/button.stories.jsx",
		"src/node_modules/lib/index.jsx",
		"cypress/e2e/hello.cy.js",
		"README.md",
	)

	files, err := Expand(root, "src/**/*.{jsx,tsx}", NewExcludes([]string{"*.stories.jsx"}))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"src/components/address.tsx",
		"src/components/person.jsx",
		"src/hello.jsx",
	}, files)

	specs, err := Expand(root, "**/*.cy.js", NewExcludes(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"cypress/e2e/hello.cy.js"}, specs)
}

func TestExpandMissingBase(t *testing.T) {
	files, err := Expand(t.TempDir(), "missing/**/*.jsx", nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestExpandAbsolutePattern(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "src/hello.jsx")

	pattern := filepath.ToSlash(root) + "/src/*.jsx"
	files, err := Expand(".", pattern, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.ToSlash(filepath.Join(root, "src", "hello.jsx"))}, files)
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("// "+name+"\n"), 0o644))
	}
}
