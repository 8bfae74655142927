package extract

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Result is the extracted content of a document. Text is always present; Extra carries
// optional extractor-specific fields and is serialized alongside "text" in a flat object.
type Result struct {
	Text  string
	Extra map[string]any
}

// MarshalJSON renders the result as {"text": ..., <extra keys>...}.
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+1)
	for k, v := range r.Extra {
		if k == "text" {
			continue
		}
		out[k] = v
	}
	out["text"] = r.Text
	return json.Marshal(out)
}

// UnmarshalJSON accepts any JSON object with a string "text" field. Unknown keys land in Extra.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode extracted content: %w", err)
	}
	textRaw, ok := raw["text"]
	if !ok {
		return errors.New("decode extracted content: missing text field")
	}
	var text string
	if err := json.Unmarshal(textRaw, &text); err != nil {
		return fmt.Errorf("decode extracted content text: %w", err)
	}
	delete(raw, "text")

	var extra map[string]any
	if len(raw) > 0 {
		extra = make(map[string]any, len(raw))
		for k, v := range raw {
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return fmt.Errorf("decode extracted content %s: %w", k, err)
			}
			extra[k] = val
		}
	}
	r.Text = text
	r.Extra = extra
	return nil
}
