package concept

// Schema is the JSON schema the extracted concept payload must satisfy.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"niche": map[string]any{
			"type": "string",
			"enum": []string{"Paranormal Romance", "Cozy Mystery"},
		},
		"subgenre": map[string]any{"type": "string"},
		"hook":     map[string]any{"type": "string"},
		"concept_summary": map[string]any{
			"type": "string",
		},
		"word_count": map[string]any{
			"type":    "integer",
			"minimum": 1000,
		},
		"chapter_count": map[string]any{
			"type":    "integer",
			"minimum": 1,
		},
	},
	"required": []string{"niche", "subgenre", "hook", "concept_summary", "word_count", "chapter_count"},
}
