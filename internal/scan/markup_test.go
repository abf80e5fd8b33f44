package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkupAttributes(t *testing.T) {
	cases := []struct {
		name   string
		source string
		opts   Options
		want   []string
	}{
		{
			name:   "no test attributes",
			source: `<div>Hello</div>`,
			want:   []string{},
		},
		{
			name:   "one test id",
			source: `<div testId="greeting">Hello</div>`,
			want:   []string{"greeting"},
		},
		{
			name: "sorted rather than in document order",
			source: `<>
  <div testId="greeting">Hello</div>
  <div testId="count">2</div>
</>`,
			want: []string{"count", "greeting"},
		},
		{
			name: "dynamic value is skipped",
			source: `const testId = 'something';
<div testId={testId}>Hello</div>`,
			want: []string{},
		},
		{
			name:   "call and template values are skipped",
			source: "<div><p data-cy={makeId()} /><p data-cy={`x-${n}`} /></div>",
			want:   []string{},
		},
		{
			name:   "string literal inside an expression container",
			source: `<div data-test={"wrapped"} />`,
			want:   []string{"wrapped"},
		},
		{
			name:   "valueless attribute",
			source: `<input testId disabled />`,
			want:   []string{},
		},
		{
			name:   "self closing element",
			source: `<input data-testid="email" />`,
			want:   []string{"email"},
		},
		{
			name:   "nested inside a component",
			source: "function Hello() {\n  return <section><h1 data-test-id=\"title\">Hi</h1></section>\n}\n",
			want:   []string{"title"},
		},
		{
			name:   "unrecognised attribute",
			source: `<div id="main" className="x">Hello</div>`,
			want:   []string{},
		},
		{
			name:   "extra attribute from options",
			source: `<div qa-id="checkout" testId="cart" />`,
			opts:   Options{Attributes: []string{"qa-id"}},
			want:   []string{"cart", "checkout"},
		},
		{
			name:   "character references are decoded",
			source: `<div data-cy="fish &amp; chips" />`,
			want:   []string{"fish & chips"},
		},
		{
			name:   "case sensitive values",
			source: `<><b testId="Name" /><b testId="name" /></>`,
			want:   []string{"Name", "name"},
		},
	}

	s := NewScanner()
	defer s.Close()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := s.MarkupAttributes([]byte(tc.source), tc.opts)
			require.True(t, result.OK(), "unexpected issue: %+v", result.Issue)
			assert.Equal(t, tc.want, result.IDs)
		})
	}
}

func TestMarkupAttributesRecognisesEveryDefaultSpelling(t *testing.T) {
	s := NewScanner()
	defer s.Close()

	for _, attr := range DefaultAttributes {
		t.Run(attr, func(t *testing.T) {
			result := s.MarkupAttributes([]byte(`<div `+attr+`="greeting">Hello</div>`), Options{})
			require.True(t, result.OK())
			assert.Equal(t, []string{"greeting"}, result.IDs)
		})
	}
}

func TestMarkupAttributesKeepsDuplicatesWithinFile(t *testing.T) {
	result := MarkupAttributes([]byte(`<><i testId="a" /><i testId="a" /></>`), Options{})
	assert.Equal(t, []string{"a", "a"}, result.IDs)
}

func TestMarkupAttributesTypeScriptComponent(t *testing.T) {
	source := `type Address = {
  street?: string
}

export function Address(props: Address) {
  return (
    <div data-cy="street" dataTestId="MyAddress">
      Main
    </div>
  )
}
`
	result := MarkupAttributes([]byte(source), Options{Filename: "address.tsx"})
	require.True(t, result.OK(), "unexpected issue: %+v", result.Issue)
	assert.Equal(t, []string{"MyAddress", "street"}, result.IDs)
}

func TestMarkupAttributesParseFailureIsSoft(t *testing.T) {
	result := MarkupAttributes([]byte(`<div testId="greeting">Hello</span`), Options{Filename: "broken.jsx"})

	assert.False(t, result.OK())
	assert.Empty(t, result.IDs)
	require.NotNil(t, result.Issue)
	assert.Equal(t, "broken.jsx", result.Issue.File)
	assert.Contains(t, result.Issue.Message, "syntax error")
}

func TestMarkupAttributesIsIdempotent(t *testing.T) {
	source := []byte(`<><a testId="z" /><a testId="m" /><a data-cy="b" /></>`)
	s := NewScanner()
	defer s.Close()

	first := s.MarkupAttributes(source, Options{})
	second := s.MarkupAttributes(source, Options{})
	assert.Equal(t, first.IDs, second.IDs)
	assert.IsNonDecreasing(t, first.IDs)
}
