package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectorValue(t *testing.T) {
	attrs := Options{}.attributeSet()

	cases := []struct {
		selector string
		want     string
		ok       bool
	}{
		{`[data-test=greeting]`, "greeting", true},
		{`[data-test="personal greeting"]`, "personal greeting", true},
		{`[data-cy=a=b]`, "a=b", true},
		{`[testId=x]`, "x", true},
		{`[dataTestId="MyAddress"]`, "MyAddress", true},
		{`[data-test=]`, "", false},
		{`[data-test=""]`, "", false},
		{`[data-test='single']`, "'single'", true},
		{`[name=email]`, "", false},
		{`[data-test~=greeting]`, "", false},
		{`[data-test]`, "", false},
		{`[=greeting]`, "", false},
		{`[data-test=[nested]]`, "", false},
		{`data-test=greeting`, "", false},
		{`.button`, "", false},
		{``, "", false},
		{`[`, "", false},
	}

	for _, tc := range cases {
		got, ok := SelectorValue(tc.selector, attrs)
		assert.Equal(t, tc.ok, ok, "selector %q", tc.selector)
		assert.Equal(t, tc.want, got, "selector %q", tc.selector)
	}
}

func TestDecodeJSString(t *testing.T) {
	cases := map[string]string{
		`'plain'`:             "plain",
		`"double"`:            "double",
		`'it\'s'`:             "it's",
		`"a\"b"`:              `a"b`,
		`'tab\there'`:         "tab\there",
		`'\x41B\u{43}'`:       "ABC",
		`'\uD83D\uDE00'`:      "\U0001F600",
		`'back\\slash'`:       `back\slash`,
		`'unknown\q'`:         "unknownq",
		"'line\\\ncontinued'": "linecontinued",
		`'bad\xZZ'`:           "badxZZ",
		`''`:                  "",
	}

	for raw, want := range cases {
		assert.Equal(t, want, decodeJSString(raw), "literal %s", raw)
	}
}
