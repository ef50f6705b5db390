package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmpublishing/bookforge/internal/book"
)

// writeArtifacts dumps human-readable companions next to the packaged
// formats: the full manuscript, a production summary, and the format
// manifest.
func (p *Pipeline) writeArtifacts(rec *book.Record, files map[book.Format]string, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(outDir, "full_content.txt"),
		[]byte(fullContent(rec)), 0o644); err != nil {
		return fmt.Errorf("failed to write full content: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "book_details.txt"),
		[]byte(bookDetails(rec, p.Author)), 0o644); err != nil {
		return fmt.Errorf("failed to write book details: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "book_formats.txt"),
		[]byte(formatManifest(files)), 0o644); err != nil {
		return fmt.Errorf("failed to write format manifest: %w", err)
	}
	return nil
}

// fullContent renders the entire manuscript as plain text.
func fullContent(rec *book.Record) string {
	var sb strings.Builder

	sb.WriteString(rec.Title())
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", len(rec.Title())))
	sb.WriteString("\n\n")

	for i, stub := range rec.Outline.Chapters {
		sb.WriteString(fmt.Sprintf("Chapter %d: %s\n\n", stub.Number, stub.Title))
		sb.WriteString(rec.Chapters[i])
		sb.WriteString("\n\n")
	}

	if rec.Blurb != "" {
		sb.WriteString("About This Book\n\n")
		sb.WriteString(rec.Blurb)
		sb.WriteString("\n")
	}

	return sb.String()
}

// bookDetails summarizes the production run for quick review.
func bookDetails(rec *book.Record, author string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title:      %s\n", rec.Title()))
	sb.WriteString(fmt.Sprintf("Author:     %s\n", author))
	sb.WriteString(fmt.Sprintf("Genre:      %s\n", rec.Concept.Niche))
	sb.WriteString(fmt.Sprintf("Subgenre:   %s\n", rec.Concept.Subgenre))
	sb.WriteString(fmt.Sprintf("Chapters:   %d\n", len(rec.Outline.Chapters)))
	sb.WriteString(fmt.Sprintf("Word count: %d (target %d)\n", rec.WordCount(), rec.Concept.WordCount))
	if len(rec.Outline.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords:   %s\n", strings.Join(rec.Outline.Keywords, ", ")))
	}
	if rec.CoverPath != "" {
		sb.WriteString(fmt.Sprintf("Cover:      %s\n", rec.CoverPath))
	}

	sb.WriteString("\nHook:\n")
	sb.WriteString(rec.Concept.Hook)
	sb.WriteString("\n\nConcept:\n")
	sb.WriteString(rec.Concept.ConceptSummary)
	sb.WriteString("\n\nOutline:\n")
	for _, stub := range rec.Outline.Chapters {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", stub.Number, stub.Title, stub.Summary))
	}

	return sb.String()
}

// formatManifest lists each requested format and where it landed.
func formatManifest(files map[book.Format]string) string {
	var sb strings.Builder

	for _, f := range book.AllFormats() {
		path, ok := files[f]
		if !ok {
			continue
		}
		if path == "" {
			sb.WriteString(fmt.Sprintf("%s: FAILED\n", f))
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", f, path))
	}

	return sb.String()
}
