package generate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ExtractJSONObject pulls a JSON object out of raw model output. Models
// often wrap payloads in prose or markdown fences, so the extraction is
// permissive: everything from the first '{' to the last '}' is treated
// as the candidate, then parsed to confirm it is valid JSON.
func ExtractJSONObject(content string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyResponse
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no object delimiters", ErrMalformedResponse)
	}

	candidate := trimmed[start : end+1]
	var parsed any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, ok := parsed.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: payload is not an object", ErrMalformedResponse)
	}
	return json.RawMessage(candidate), nil
}

// decodeValidated extracts a JSON object from content, validates it
// against schema, and unmarshals it into out.
func decodeValidated(content string, schema map[string]any, out any) error {
	raw, err := ExtractJSONObject(content)
	if err != nil {
		return err
	}

	if schema != nil {
		schemaBytes, err := json.Marshal(schema)
		if err != nil {
			return fmt.Errorf("failed to serialize schema: %w", err)
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", bytes.NewReader(schemaBytes)); err != nil {
			return fmt.Errorf("failed to load schema: %w", err)
		}
		compiled, err := compiler.Compile("schema.json")
		if err != nil {
			return fmt.Errorf("failed to compile schema: %w", err)
		}

		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if err := compiled.Validate(doc); err != nil {
			return fmt.Errorf("%w: schema validation: %v", ErrMalformedResponse, err)
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
