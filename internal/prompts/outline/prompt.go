// Package outline builds the prompt for the title-and-outline stage.
package outline

import (
	_ "embed"

	"github.com/jmpublishing/bookforge/internal/prompts"
)

//go:embed outline.tmpl
var promptText string

// PromptKey is the hierarchical key for this prompt.
const PromptKey = "stages.outline"

var tmpl = prompts.MustParse(PromptKey, promptText)

// Params carries the concept fields the outline prompt needs. Values
// are interpolated verbatim; no validation is performed here.
type Params struct {
	ConceptSummary string
	Niche          string
	Subgenre       string
	WordCount      int
	ChapterCount   int
}

// Build returns the complete outline prompt for the given concept.
func Build(p Params) (string, error) {
	return prompts.Render(tmpl, p)
}

// Text returns the raw template source.
func Text() string {
	return promptText
}
