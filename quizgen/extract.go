package quizgen

import (
	"encoding/json"
	"strings"
)

// jsonObjects yields every complete JSON object embedded in free-form
// model output, in order of their opening brace, until yield returns
// false. Each '{' is tried as a start offset and a streaming decoder reads
// exactly one value from there, so braces inside string values do not end
// an object early. Objects nested inside a yielded object are yielded too.
func jsonObjects(text string, yield func(json.RawMessage) bool) {
	for offset := 0; offset < len(text); {
		i := strings.IndexByte(text[offset:], '{')
		if i < 0 {
			return
		}
		start := offset + i

		dec := json.NewDecoder(strings.NewReader(text[start:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil && len(raw) > 0 && raw[0] == '{' {
			if !yield(raw) {
				return
			}
		}
		offset = start + 1
	}
}

// ExtractJSONObject returns the first complete JSON object in text.
func ExtractJSONObject(text string) (json.RawMessage, bool) {
	var found json.RawMessage
	jsonObjects(text, func(raw json.RawMessage) bool {
		found = raw
		return false
	})
	return found, found != nil
}
