// Package book defines the in-memory data model for one generated book.
package book

import (
	"fmt"
	"strings"
)

// Supported genres. The concept stage may only select one of these.
const (
	GenreParanormalRomance = "Paranormal Romance"
	GenreCozyMystery       = "Cozy Mystery"
)

// SupportedGenres lists the genres the concept prompt is allowed to pick.
var SupportedGenres = []string{GenreParanormalRomance, GenreCozyMystery}

// ValidGenre reports whether g is one of the supported genres.
func ValidGenre(g string) bool {
	for _, s := range SupportedGenres {
		if s == g {
			return true
		}
	}
	return false
}

// Concept is the generated genre/premise blueprint for a book.
// Created once per run and immutable thereafter.
type Concept struct {
	Niche          string `json:"niche"`
	Subgenre       string `json:"subgenre"`
	Hook           string `json:"hook"`
	ConceptSummary string `json:"concept_summary"`
	WordCount      int    `json:"word_count"`
	ChapterCount   int    `json:"chapter_count"`
}

// ChapterStub is one entry of the chapter-by-chapter outline.
type ChapterStub struct {
	Number  int    `json:"chapter_number"`
	Title   string `json:"chapter_title"`
	Summary string `json:"summary"`
}

// Outline is the generated title plus per-chapter stubs plus keywords.
type Outline struct {
	Title    string        `json:"title"`
	Chapters []ChapterStub `json:"chapters"`
	Keywords []string      `json:"keywords"`
}

// Validate checks that chapter numbers are 1-based and contiguous.
// The orchestrator assumes this when threading prior summaries into
// later chapter prompts.
func (o *Outline) Validate() error {
	if o.Title == "" {
		return fmt.Errorf("outline has no title")
	}
	if len(o.Chapters) == 0 {
		return fmt.Errorf("outline has no chapters")
	}
	for i, ch := range o.Chapters {
		if ch.Number != i+1 {
			return fmt.Errorf("chapter numbers not contiguous: index %d has number %d", i, ch.Number)
		}
	}
	return nil
}

// Record aggregates everything generated for one book: concept, outline,
// chapter prose, back-cover blurb and the composited cover image path.
type Record struct {
	Concept   Concept
	Outline   Outline
	Chapters  []string // prose, index-aligned with Outline.Chapters
	Blurb     string
	CoverPath string
}

// Validate enforces the record invariant: one chapter text per stub,
// order corresponding index-for-index.
func (r *Record) Validate() error {
	if err := r.Outline.Validate(); err != nil {
		return err
	}
	if len(r.Chapters) != len(r.Outline.Chapters) {
		return fmt.Errorf("chapter text count %d does not match outline count %d",
			len(r.Chapters), len(r.Outline.Chapters))
	}
	return nil
}

// WordCount returns the actual word count across all chapter texts.
func (r *Record) WordCount() int {
	total := 0
	for _, ch := range r.Chapters {
		total += len(strings.Fields(ch))
	}
	return total
}

// Title returns the book title from the outline.
func (r *Record) Title() string {
	return r.Outline.Title
}

// Format identifies one packaged e-book output format.
type Format string

const (
	// FormatEPUB is the reflowable container format.
	FormatEPUB Format = "epub"
	// FormatPDF is the fixed-layout paginated format.
	FormatPDF Format = "pdf"
	// FormatMOBI is derived from the EPUB via an external converter.
	FormatMOBI Format = "mobi"
)

// AllFormats returns every supported output format in assembly order.
// MOBI is last because it is derived from the EPUB output.
func AllFormats() []Format {
	return []Format{FormatEPUB, FormatPDF, FormatMOBI}
}

// ParseFormat parses a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatEPUB:
		return FormatEPUB, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatMOBI:
		return FormatMOBI, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// SafeTitle converts a book title into a filesystem-safe base name:
// spaces become underscores and characters that upset shells or zip
// tooling are stripped.
func SafeTitle(title string) string {
	s := strings.ReplaceAll(title, " ", "_")
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '?', '!', '/', '\\', '"', '\'':
			return -1
		}
		return r
	}, s)
}
