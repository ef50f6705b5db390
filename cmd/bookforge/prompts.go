package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmpublishing/bookforge/internal/prompts"
	"github.com/jmpublishing/bookforge/internal/prompts/blurb"
	"github.com/jmpublishing/bookforge/internal/prompts/chapter"
	"github.com/jmpublishing/bookforge/internal/prompts/concept"
	"github.com/jmpublishing/bookforge/internal/prompts/coverart"
	"github.com/jmpublishing/bookforge/internal/prompts/distmeta"
	"github.com/jmpublishing/bookforge/internal/prompts/outline"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the generation prompt templates",
	Long:  "Lists each pipeline stage's prompt template with its variables and content hash.",
	RunE: func(cmd *cobra.Command, args []string) error {
		stages := []struct {
			key  string
			text string
		}{
			{concept.PromptKey, concept.Text()},
			{outline.PromptKey, outline.Text()},
			{chapter.PromptKey, chapter.Text()},
			{blurb.PromptKey, blurb.Text()},
			{coverart.PromptKey, coverart.Text()},
			{distmeta.PromptKey, distmeta.Text()},
		}

		for _, s := range stages {
			vars := prompts.ExtractVariables(s.text)
			varList := "(none)"
			if len(vars) > 0 {
				varList = strings.Join(vars, ", ")
			}
			fmt.Printf("%s\n", s.key)
			fmt.Printf("  variables: %s\n", varList)
			fmt.Printf("  sha256:    %s\n", prompts.HashText(s.text))
		}
		return nil
	},
}
