// Package blurb builds the prompt for the back-cover blurb stage.
package blurb

import (
	_ "embed"

	"github.com/jmpublishing/bookforge/internal/prompts"
)

//go:embed blurb.tmpl
var promptText string

// PromptKey is the hierarchical key for this prompt.
const PromptKey = "stages.blurb"

var tmpl = prompts.MustParse(PromptKey, promptText)

// Params carries the inputs to the blurb prompt.
type Params struct {
	BookTitle      string
	Genre          string
	ConceptSummary string
}

// Build returns the complete blurb prompt.
func Build(p Params) (string, error) {
	return prompts.Render(tmpl, p)
}

// Text returns the raw template source.
func Text() string {
	return promptText
}
