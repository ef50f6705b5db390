// Package distmeta builds the prompt for the distribution-metadata stage.
package distmeta

import (
	_ "embed"

	"github.com/jmpublishing/bookforge/internal/prompts"
)

//go:embed distmeta.tmpl
var promptText string

// PromptKey is the hierarchical key for this prompt.
const PromptKey = "stages.distmeta"

var tmpl = prompts.MustParse(PromptKey, promptText)

// Params carries the book and publisher fields the metadata prompt
// needs. Optional fields may be empty; they are interpolated verbatim.
type Params struct {
	Title           string
	Subtitle        string
	Series          string
	Author          string
	Contributors    string
	PublicationYear int
	Language        string
	Synopsis        string
	Genre           string
	WordCount       int
	AgeRating       string
}

// Build returns the complete distribution-metadata prompt.
func Build(p Params) (string, error) {
	return prompts.Render(tmpl, p)
}

// Text returns the raw template source.
func Text() string {
	return promptText
}
