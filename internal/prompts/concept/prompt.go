// Package concept builds the prompt for the book-concept stage.
package concept

import (
	_ "embed"
)

//go:embed concept.tmpl
var promptText string

// PromptKey is the hierarchical key for this prompt.
const PromptKey = "stages.concept"

// Build returns the concept prompt. The concept stage has no
// parameters: the model selects niche and premise itself.
func Build() string {
	return promptText
}

// Text returns the raw template source.
func Text() string {
	return promptText
}
