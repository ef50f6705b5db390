package outline

// Schema is the JSON schema the extracted outline payload must satisfy.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{"type": "string", "minLength": 1},
		"chapters": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"chapter_number": map[string]any{"type": "integer", "minimum": 1},
					"chapter_title":  map[string]any{"type": "string"},
					"summary":        map[string]any{"type": "string"},
				},
				"required": []string{"chapter_number", "chapter_title", "summary"},
			},
		},
		"keywords": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required": []string{"title", "chapters", "keywords"},
}
