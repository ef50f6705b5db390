package distmeta

// Schema is the JSON schema the extracted metadata payload must satisfy.
// Only structurally load-bearing fields are required: the portal form
// tolerates missing optional fields but not missing title/pricing.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title":            map[string]any{"type": "string", "minLength": 1},
		"subtitle":         map[string]any{"type": "string"},
		"author":           map[string]any{"type": "string"},
		"publication_year": map[string]any{"type": "integer"},
		"language":         map[string]any{"type": "string"},
		"age_rating":       map[string]any{"type": "string"},
		"synopsis":         map[string]any{"type": "string", "maxLength": 4000},
		"keywords":         map[string]any{"type": "string"},
		"bisac_categories": map[string]any{
			"type":     "array",
			"minItems": 1,
			"maxItems": 3,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
					"code": map[string]any{"type": "string"},
				},
				"required": []string{"name", "code"},
			},
		},
		"suggested_price_usd": map[string]any{"type": "number"},
		"suggested_price_eur": map[string]any{"type": "number"},
	},
	"required": []string{"title", "synopsis", "keywords", "bisac_categories", "suggested_price_usd", "suggested_price_eur"},
}
