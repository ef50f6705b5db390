// Package coverart builds the prompt that asks the model to write an
// image-generation prompt for the book cover.
package coverart

import (
	_ "embed"

	"github.com/jmpublishing/bookforge/internal/prompts"
)

//go:embed coverart.tmpl
var promptText string

// PromptKey is the hierarchical key for this prompt.
const PromptKey = "stages.coverart"

var tmpl = prompts.MustParse(PromptKey, promptText)

// Params carries the inputs to the cover art prompt.
type Params struct {
	BookTitle string
	Genre     string
}

// Build returns the complete cover art prompt.
func Build(p Params) (string, error) {
	return prompts.Render(tmpl, p)
}

// Text returns the raw template source.
func Text() string {
	return promptText
}
