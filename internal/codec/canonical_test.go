package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Text  string   `json:"text"`
	Count int      `json:"count,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

func TestMarshal_Basic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int", -100, "-100"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"null", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"struct", note{Text: "hi", Count: 2}, `{"count":2,"text":"hi"}`},
		{"omitempty", note{Text: "hi"}, `{"text":"hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshal_SortedKeys(t *testing.T) {
	result, err := Marshal(map[string]any{
		"zebra": 1,
		"alpha": 2,
		"beta":  map[string]any{"y": 1, "x": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"x":2,"y":1},"zebra":1}`, string(result))
}

func TestMarshal_UTF16Ordering(t *testing.T) {
	// U+10000 encodes as a surrogate pair starting 0xD800, which sorts
	// before U+E000 in UTF-16 but after it in UTF-8.
	result, err := Marshal(map[string]any{
		"\uE000":     1,
		"\U00010000": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	result, err := Marshal("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(result))
}

func TestMarshal_LineSeparatorsLiteral(t *testing.T) {
	result, err := Marshal("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))
}

func TestMarshal_ControlCharacters(t *testing.T) {
	result, err := Marshal("tab\tnl\nq\"bs\\\x01")
	require.NoError(t, err)
	assert.Equal(t, `"tab\tnl\nq\"bs\\\u0001"`, string(result))
}

func TestMarshal_PreservesDecomposedText(t *testing.T) {
	// "e" followed by a combining acute accent stays decomposed.
	result, err := Marshal("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"cafe\u0301\"", string(result))

	// Precomposed and decomposed keys stay distinct.
	result, err = Marshal(map[string]int{"caf\u00e9": 1, "cafe\u0301": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"cafe\u0301\":2,\"caf\u00e9\":1}", string(result))
}

func TestMarshal_Unsupported(t *testing.T) {
	_, err := Marshal(make(chan int))
	require.Error(t, err)
}

func TestCanonicalize_Whitespace(t *testing.T) {
	result, err := Canonicalize([]byte(" { \"b\" : [1, 2] ,\n \"a\" : null } "))
	require.NoError(t, err)
	assert.Equal(t, `{"a":null,"b":[1,2]}`, string(result))
}

func TestCanonicalize_Invalid(t *testing.T) {
	_, err := Canonicalize([]byte(`{"a":`))
	require.Error(t, err)

	_, err = Canonicalize([]byte(`{} {}`))
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	inputs := []note{
		{Text: "hello"},
		{Text: "with <html> & \"quotes\"", Count: 7},
		{Text: "tags", Tags: []string{"work", "family"}},
		{Text: "日本語 ✓"},
		{Text: "cafe\u0301", Tags: []string{"caf\u00e9"}},
	}

	for _, in := range inputs {
		data, err := Marshal(in)
		require.NoError(t, err)

		var out note
		require.NoError(t, Unmarshal(data, &out))
		assert.Equal(t, in, out)

		// Canonical form is a fixed point.
		again, err := Canonicalize(data)
		require.NoError(t, err)
		assert.Equal(t, string(data), string(again))
	}
}

func TestUnmarshal_IgnoresUnknownFields(t *testing.T) {
	var out note
	require.NoError(t, Unmarshal([]byte(`{"text":"x","extra":1}`), &out))
	assert.Equal(t, "x", out.Text)
}

func TestUnmarshalStrict_RejectsUnknownFields(t *testing.T) {
	var out note
	err := UnmarshalStrict([]byte(`{"text":"x","extra":1}`), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extra")
}
