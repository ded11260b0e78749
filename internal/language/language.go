// Package language normalizes target-language codes. The translation prompt
// needs a human-readable language name ("Vietnamese", not "vi"), and config
// accepts whatever spelling BCP 47 recognizes.
package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Parse resolves a user-supplied language code ("vi", "vie", "vi-VN") to a
// canonical tag. Empty or unrecognized input is an error.
func Parse(code string) (language.Tag, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return language.Und, fmt.Errorf("language: empty code")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("language: unrecognized code %q: %w", code, err)
	}
	return tag, nil
}

// ToISO2 returns the ISO 639-1 base code for any recognized input, or empty
// when the input cannot be resolved.
func ToISO2(code string) string {
	tag, err := Parse(code)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}

// DisplayName returns the English display name for a language code, used in
// the translation system prompt. Unrecognized input falls back to the input
// itself so prompts stay readable rather than failing.
func DisplayName(code string) string {
	tag, err := Parse(code)
	if err != nil {
		return strings.TrimSpace(code)
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return strings.TrimSpace(code)
}
