// Package chapter builds the prompt for generating one chapter's prose.
package chapter

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmpublishing/bookforge/internal/prompts"
)

//go:embed chapter.tmpl
var promptText string

// PromptKey is the hierarchical key for this prompt.
const PromptKey = "stages.chapter"

var tmpl = prompts.MustParse(PromptKey, promptText)

// Params identifies the chapter to write and the rolling context of
// everything written before it. PreviousSummaries must hold the
// summaries of chapters 1..n-1 in chapter order; it is empty for the
// first chapter.
type Params struct {
	BookTitle         string
	Genre             string
	ChapterNumber     int
	ChapterTitle      string
	ChapterSummary    string
	PreviousSummaries []string
}

// PreviousContext renders the prior summaries as "Chapter N: summary"
// lines joined by newlines, or an empty string when there are none.
func (p Params) PreviousContext() string {
	if len(p.PreviousSummaries) == 0 {
		return ""
	}
	lines := make([]string, len(p.PreviousSummaries))
	for i, s := range p.PreviousSummaries {
		lines[i] = fmt.Sprintf("Chapter %d: %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}

// Build returns the complete chapter prompt.
func Build(p Params) (string, error) {
	return prompts.Render(tmpl, p)
}

// Text returns the raw template source.
func Text() string {
	return promptText
}
