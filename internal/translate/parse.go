package translate

import (
	"encoding/json"
	"strconv"
	"strings"

	"dubber/internal/services"
)

// ParseReply extracts id/translation pairs from a model reply. Models wrap
// the array in prose or markdown fences more often than not, and sometimes
// truncate the closing bracket, so the parse is deliberately forgiving:
// strip fences, slice from the first '[' to the last ']', and if that fails
// try once more with a ']' appended.
func ParseReply(content string) (map[int]string, error) {
	candidate := stripCodeFence(content)
	candidate = sliceArray(candidate)
	if candidate == "" {
		return nil, services.Wrap(services.ErrResponseParse, "translate", "parse reply", "no JSON array found", nil)
	}
	items, err := decodeItems(candidate)
	if err != nil {
		repaired, repairErr := decodeItems(candidate + "]")
		if repairErr != nil {
			return nil, services.Wrap(services.ErrResponseParse, "translate", "parse reply", "", err)
		}
		items = repaired
	}
	result := make(map[int]string, len(items))
	for _, item := range items {
		id, ok := item.id()
		if !ok {
			continue
		}
		text := strings.TrimSpace(item.translation())
		if text == "" {
			continue
		}
		result[id] = text
	}
	if len(result) == 0 {
		return nil, services.Wrap(services.ErrResponseParse, "translate", "parse reply", "array contained no usable entries", nil)
	}
	return result, nil
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "```")
	if start < 0 {
		return trimmed
	}
	rest := trimmed[start+3:]
	if newline := strings.IndexByte(rest, '\n'); newline >= 0 {
		// Drop the language tag on the fence line, e.g. ```json.
		rest = rest[newline+1:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func sliceArray(content string) string {
	start := strings.IndexByte(content, '[')
	if start < 0 {
		return ""
	}
	end := strings.LastIndexByte(content, ']')
	if end > start {
		return content[start : end+1]
	}
	// Truncated reply; keep everything after '[' and let the repair pass
	// append the closing bracket.
	return strings.TrimRight(content[start:], " \t\r\n,")
}

// replyItem tolerates the key spellings models actually produce.
type replyItem struct {
	ID            json.RawMessage `json:"id"`
	IDUpper       json.RawMessage `json:"ID"`
	IDTitle       json.RawMessage `json:"Id"`
	Translation   string          `json:"translation"`
	Vietnamese    string          `json:"vietnamese"`
	VietnameseCap string          `json:"Vietnamese"`
	Vi            string          `json:"vi"`
}

func decodeItems(candidate string) ([]replyItem, error) {
	var items []replyItem
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r replyItem) id() (int, bool) {
	for _, raw := range []json.RawMessage{r.ID, r.IDUpper, r.IDTitle} {
		if len(raw) == 0 {
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			return n, true
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if n, convErr := strconv.Atoi(strings.TrimSpace(s)); convErr == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func (r replyItem) translation() string {
	for _, value := range []string{r.Translation, r.Vietnamese, r.VietnameseCap, r.Vi} {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
