// Package assemble packages a finished book record into distributable
// e-book files: EPUB 3, PDF, and MOBI.
package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmpublishing/bookforge/internal/book"
)

// Assembler builds output files for a book record. The zero value is
// not usable; construct with New.
type Assembler struct {
	Author   string
	Year     int
	Language string // ISO 639-1 code (e.g., "en")

	// Now supplies the packaging timestamp. Injectable so output
	// bytes are reproducible under test.
	Now func() time.Time

	logger *slog.Logger
}

// New creates an Assembler. Language defaults to "en" and Year to the
// current year when zero.
func New(author string, year int, language string, logger *slog.Logger) *Assembler {
	if language == "" {
		language = "en"
	}
	if year == 0 {
		year = time.Now().Year()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		Author:   author,
		Year:     year,
		Language: language,
		Now:      time.Now,
		logger:   logger,
	}
}

// Assemble builds the requested formats into outDir and returns a map
// from format to output path. A failed format records an empty string
// and does not prevent the others. MOBI derives from the EPUB output:
// when conversion fails the EPUB path is returned in its place, and
// when no EPUB was produced the MOBI records an empty string.
func (a *Assembler) Assemble(ctx context.Context, rec *book.Record, formats []book.Format, outDir string) (map[book.Format]string, error) {
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid book record: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	requested := make(map[book.Format]bool, len(formats))
	for _, f := range formats {
		requested[f] = true
	}

	base := book.SafeTitle(rec.Title())
	results := make(map[book.Format]string, len(formats))

	// Canonical order keeps the EPUB ahead of the MOBI that derives
	// from it.
	for _, f := range book.AllFormats() {
		if !requested[f] {
			continue
		}

		start := time.Now()
		var path string
		var err error

		switch f {
		case book.FormatEPUB:
			path = filepath.Join(outDir, base+".epub")
			err = a.buildEPUB(rec, path)
		case book.FormatPDF:
			path = filepath.Join(outDir, base+".pdf")
			err = a.buildPDF(rec, path)
		case book.FormatMOBI:
			epubPath := results[book.FormatEPUB]
			if epubPath == "" {
				a.logger.Warn("skipping mobi: no epub to convert, distribute the epub instead")
				results[book.FormatMOBI] = ""
				continue
			}
			path = filepath.Join(outDir, base+".mobi")
			err = a.buildMOBI(ctx, epubPath, path)
		}

		if err != nil {
			a.logger.Warn("format assembly failed",
				"format", string(f),
				"error", err,
				"elapsed", time.Since(start).Round(time.Millisecond))
			if f == book.FormatMOBI {
				// Partial success: distribute the EPUB in place of
				// the MOBI rather than failing the format outright.
				a.logger.Warn("mobi conversion failed, falling back to the epub",
					"epub", results[book.FormatEPUB])
				results[f] = results[book.FormatEPUB]
				continue
			}
			results[f] = ""
			continue
		}

		a.logger.Info("format assembled",
			"format", string(f),
			"path", path,
			"elapsed", time.Since(start).Round(time.Millisecond))
		results[f] = path
	}

	return results, nil
}
