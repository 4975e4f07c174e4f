package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"akazakov/snapstat/internal/extractor"
	"akazakov/snapstat/internal/parsererror"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "bare object", input: `{"a": 1}`},
		{name: "fenced", input: "```json\n{\"a\": 1}\n```"},
		{name: "fenced without language tag", input: "```\n{\"a\": 1}\n```"},
		{name: "prose before json", input: `Here is the result: {"a": 1}`},
		{name: "prose after json", input: `{"a": 1} hope that helps!`},
		{name: "prose on both sides", input: "Sure! {\"a\": 1}\nLet me know."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := extractor.DecodeJSON(tt.input)
			require.NoError(t, err)
			obj, ok := v.(map[string]interface{})
			require.True(t, ok)
			assert.Contains(t, obj, "a")
		})
	}
}

func TestDecodeJSON_Array(t *testing.T) {
	v, err := extractor.DecodeJSON(`The rows: [1, 2, 3] done.`)
	require.NoError(t, err)
	list, ok := v.([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 3)
}

func TestDecodeJSON_NoJSON(t *testing.T) {
	for _, input := range []string{"", "no json here", "{broken", "{{{"} {
		t.Run(input, func(t *testing.T) {
			_, err := extractor.DecodeJSON(input)
			require.Error(t, err)

			var extractionErr *parsererror.ExtractionError
			assert.ErrorAs(t, err, &extractionErr)
			assert.ErrorIs(t, err, parsererror.ErrNoJSONFound)
		})
	}
}

func TestDecodeJSON_FirstValidWins(t *testing.T) {
	// A broken candidate earlier in the text must not mask a valid one
	// further right.
	v, err := extractor.DecodeJSON(`{oops} then {"ok": true}`)
	require.NoError(t, err)
	obj := v.(map[string]interface{})
	assert.Equal(t, true, obj["ok"])
}
