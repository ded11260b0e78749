package translate

import (
	"encoding/json"
	"fmt"
	"strings"

	"dubber/internal/segment"
)

// PromptSpec carries the translation instructions shared by every batch.
type PromptSpec struct {
	// TargetLanguage is the human-readable name of the dubbing language,
	// e.g. "Vietnamese".
	TargetLanguage string
	// PreservedTerms are kept untranslated in the output.
	PreservedTerms []string
}

// SystemPrompt renders the instruction message sent with every batch.
func (s PromptSpec) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional subtitle translator. Translate the provided subtitle segments into %s.\n", s.TargetLanguage)
	b.WriteString("Rules:\n")
	b.WriteString("- Keep the translation natural and conversational, suitable for spoken dubbing.\n")
	b.WriteString("- Keep each translation roughly as long as its source so it fits the same time slot.\n")
	if len(s.PreservedTerms) > 0 {
		fmt.Fprintf(&b, "- Keep these terms exactly as written, untranslated: %s.\n", strings.Join(s.PreservedTerms, ", "))
	}
	b.WriteString("- Respond with ONLY a JSON array, no commentary. Each element must be an object with the keys \"id\" (unchanged from the input) and \"translation\".\n")
	return b.String()
}

type promptItem struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// UserPrompt renders one batch of segments as the user message.
func (s PromptSpec) UserPrompt(batch []segment.Segment) (string, error) {
	items := make([]promptItem, 0, len(batch))
	for _, seg := range batch {
		items = append(items, promptItem{ID: seg.ID, Text: seg.Text})
	}
	encoded, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode batch: %w", err)
	}
	return "Translate these segments:\n" + string(encoded), nil
}
