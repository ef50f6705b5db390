package generate

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSONObject_SurroundingProse(t *testing.T) {
	content := "Here is your concept:\n\n{\"niche\": \"Cozy Mystery\", \"word_count\": 17000}\n\nLet me know if you'd like changes."

	raw, err := ExtractJSONObject(content)
	if err != nil {
		t.Fatalf("ExtractJSONObject() error = %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("extracted payload is not valid JSON: %v", err)
	}
	if parsed["niche"] != "Cozy Mystery" {
		t.Fatalf("niche = %v, want Cozy Mystery", parsed["niche"])
	}
}

func TestExtractJSONObject_NestedBraces(t *testing.T) {
	content := `{"outer": {"inner": "value"}, "n": 1}`

	raw, err := ExtractJSONObject(content)
	if err != nil {
		t.Fatalf("ExtractJSONObject() error = %v", err)
	}

	var parsed struct {
		Outer struct {
			Inner string `json:"inner"`
		} `json:"outer"`
		N int `json:"n"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if parsed.Outer.Inner != "value" || parsed.N != 1 {
		t.Fatalf("unexpected payload: %+v", parsed)
	}
}

func TestExtractJSONObject_CodeFence(t *testing.T) {
	content := "```json\n{\"ok\": true}\n```"

	raw, err := ExtractJSONObject(content)
	if err != nil {
		t.Fatalf("ExtractJSONObject() error = %v", err)
	}
	if string(raw) != `{"ok": true}` {
		t.Fatalf("extracted %q", string(raw))
	}
}

func TestExtractJSONObject_NoBraces(t *testing.T) {
	_, err := ExtractJSONObject("I could not produce JSON for that request.")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestExtractJSONObject_InvalidCandidate(t *testing.T) {
	_, err := ExtractJSONObject("{this is not json}")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestExtractJSONObject_Empty(t *testing.T) {
	_, err := ExtractJSONObject("   \n ")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("error = %v, want ErrEmptyResponse", err)
	}
}

func TestDecodeValidated_SchemaViolation(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []string{"title"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
		},
	}

	var out struct {
		Title string `json:"title"`
	}
	err := decodeValidated(`{"not_title": "x"}`, schema, &out)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestDecodeValidated_Passes(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []string{"title"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
		},
	}

	var out struct {
		Title string `json:"title"`
	}
	if err := decodeValidated("Sure!\n{\"title\": \"Tinsel and Tension\"}", schema, &out); err != nil {
		t.Fatalf("decodeValidated() error = %v", err)
	}
	if out.Title != "Tinsel and Tension" {
		t.Fatalf("title = %q", out.Title)
	}
}
