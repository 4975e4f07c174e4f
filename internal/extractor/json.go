package extractor

import (
	"encoding/json"
	"regexp"
	"strings"

	"akazakov/snapstat/internal/parsererror"
)

var (
	leadingFence  = regexp.MustCompile("^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// stripFences removes Markdown code-fence markers wrapping a response.
func stripFences(text string) string {
	stripped := strings.TrimSpace(text)
	stripped = leadingFence.ReplaceAllString(stripped, "")
	stripped = trailingFence.ReplaceAllString(stripped, "")
	return strings.TrimSpace(stripped)
}

// decodeStrategy is one named attempt at pulling a JSON value out of an
// adversarial response. Strategies run in order; first success wins.
type decodeStrategy struct {
	name string
	fn   func(text string) (interface{}, bool)
}

var decodeStrategies = []decodeStrategy{
	{name: "direct", fn: decodeDirect},
	{name: "scan", fn: decodeScan},
}

// decodeDirect parses the fence-stripped text as-is.
func decodeDirect(text string) (interface{}, bool) {
	dec := json.NewDecoder(strings.NewReader(stripFences(text)))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// decodeScan walks the raw text left to right and attempts an
// incremental decode at every '{' or '[', accepting the first success
// even when trailing characters remain. This tolerates models that
// append commentary after valid JSON.
func decodeScan(text string) (interface{}, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err == nil {
			return v, true
		}
	}
	return nil, false
}

// DecodeJSON runs the strategy chain over a raw AI response and returns
// the first JSON value found. Other components (batch categorization,
// column detection) reuse it for their own response shapes.
func DecodeJSON(text string) (interface{}, error) {
	return decodeAny(text)
}

// decodeAny runs the strategy chain over a raw AI response.
func decodeAny(text string) (interface{}, error) {
	for _, strategy := range decodeStrategies {
		if v, ok := strategy.fn(text); ok {
			return v, nil
		}
	}
	return nil, &parsererror.ExtractionError{
		Snippet: snippet(text),
		Err:     parsererror.ErrNoJSONFound,
	}
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > 200 {
		return text[:200]
	}
	return text
}
