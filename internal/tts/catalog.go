package tts

import "sort"

// Voice describes one selectable voice of a provider.
type Voice struct {
	ID          string
	Description string
}

var voiceCatalog = map[string][]Voice{
	"fpt": {
		{ID: "banmai", Description: "Ban Mai (female, northern)"},
		{ID: "leminh", Description: "Lê Minh (male, northern)"},
		{ID: "thuminh", Description: "Thu Minh (female, northern)"},
		{ID: "giahuy", Description: "Gia Huy (male, northern)"},
		{ID: "myan", Description: "Mỹ An (female, southern)"},
		{ID: "lannhi", Description: "Lan Nhi (female, southern)"},
		{ID: "linhsan", Description: "Linh San (female, central)"},
		{ID: "minhquang", Description: "Minh Quang (male, central)"},
	},
	"elevenlabs": {
		{ID: "21m00Tcm4TlvDq8ikWAM", Description: "Rachel (female)"},
		{ID: "AZnzlk1XvdvUeBnXmlld", Description: "Domi (female)"},
		{ID: "EXAVITQu4vr4xnSDxMaL", Description: "Bella (female)"},
		{ID: "ErXwobaYiN019PkySvjV", Description: "Antoni (male)"},
		{ID: "MF3mGyEYCl7XYWbV9V6O", Description: "Elli (female)"},
		{ID: "TxGEqnHWrfWFTfGW9XjX", Description: "Josh (male)"},
	},
	"openai": {
		{ID: "alloy", Description: "Alloy (neutral)"},
		{ID: "echo", Description: "Echo (male)"},
		{ID: "fable", Description: "Fable (British)"},
		{ID: "onyx", Description: "Onyx (male, deep)"},
		{ID: "nova", Description: "Nova (female)"},
		{ID: "shimmer", Description: "Shimmer (female)"},
	},
}

// Voices lists the known voices of a provider. Unknown providers return nil.
func Voices(provider string) []Voice {
	voices := voiceCatalog[provider]
	out := make([]Voice, len(voices))
	copy(out, voices)
	return out
}

// Providers lists the supported provider names in stable order.
func Providers() []string {
	names := make([]string, 0, len(voiceCatalog))
	for name := range voiceCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
