package vision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseItems parses a model response into scanned items. Models return
// either a bare JSON array or an object wrapping it as {"items": [...]},
// sometimes inside a markdown code fence; all three shapes are accepted.
func ParseItems(raw string) ([]ScannedItem, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	var items []ScannedItem
	if err := json.Unmarshal([]byte(text), &items); err == nil {
		return keepNamed(items), nil
	}

	var wrapped struct {
		Items []ScannedItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}
	return keepNamed(wrapped.Items), nil
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.Index(text, "\n"); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func keepNamed(items []ScannedItem) []ScannedItem {
	out := make([]ScannedItem, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name != "" {
			out = append(out, item)
		}
	}
	return out
}
