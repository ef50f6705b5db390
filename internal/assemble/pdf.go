package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/jmpublishing/bookforge/internal/book"
)

// Letter page size in millimeters.
const (
	letterWidthMM  = 215.9
	letterHeightMM = 279.4
)

// buildPDF renders the book body with fpdf, then prepends the cover as
// its own page via a pdfcpu merge. A cover failure falls back to the
// body-only document.
func (a *Assembler) buildPDF(rec *book.Record, outputPath string) error {
	tmpDir, err := os.MkdirTemp("", "bookforge-pdf-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	bodyPath := filepath.Join(tmpDir, "body.pdf")
	if err := a.renderBody(rec, bodyPath); err != nil {
		return err
	}

	coverPath := filepath.Join(tmpDir, "cover.pdf")
	if err := renderCoverPage(rec.CoverPath, rec.Title(), coverPath); err != nil {
		a.logger.Warn("cover page render failed, producing body-only pdf",
			"cover", rec.CoverPath, "error", err)
		return copyFile(bodyPath, outputPath)
	}

	if err := api.MergeCreateFile([]string{coverPath, bodyPath}, outputPath, false, nil); err != nil {
		a.logger.Warn("cover merge failed, producing body-only pdf", "error", err)
		return copyFile(bodyPath, outputPath)
	}
	return nil
}

// renderBody writes the title page, contents, chapters, and blurb.
func (a *Assembler) renderBody(rec *book.Record, outputPath string) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(rec.Title(), true)
	pdf.SetAuthor(a.Author, true)
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 25)

	// Title page.
	pdf.AddPage()
	pdf.SetY(letterHeightMM / 3)
	pdf.SetFont("Times", "B", 28)
	pdf.MultiCell(0, 12, tr(rec.Title()), "", "C", false)
	pdf.Ln(20)
	pdf.SetFont("Times", "", 16)
	pdf.MultiCell(0, 8, tr(a.Author), "", "C", false)
	pdf.Ln(10)
	pdf.SetFont("Times", "I", 11)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s, %d", rec.Concept.Niche, a.Year)), "", "C", false)

	// Table of contents.
	pdf.AddPage()
	pdf.SetFont("Times", "B", 20)
	pdf.MultiCell(0, 10, "Table of Contents", "", "L", false)
	pdf.Ln(6)
	pdf.SetFont("Times", "", 12)
	for _, ch := range rec.Outline.Chapters {
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("Chapter %d: %s", ch.Number, ch.Title)), "", "L", false)
	}

	// Chapters.
	for i, ch := range rec.Outline.Chapters {
		pdf.AddPage()
		pdf.SetFont("Times", "", 11)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("CHAPTER %d", ch.Number)), "", 1, "C", false, 0, "")
		pdf.SetFont("Times", "B", 18)
		pdf.MultiCell(0, 9, tr(ch.Title), "", "C", false)
		pdf.Ln(8)
		pdf.SetFont("Times", "", 12)
		for _, para := range splitParagraphs(plainProse(rec.Chapters[i])) {
			pdf.MultiCell(0, 6, tr(strings.ReplaceAll(para, "\n", " ")), "", "J", false)
			pdf.Ln(3)
		}
	}

	// Blurb.
	if strings.TrimSpace(rec.Blurb) != "" {
		pdf.AddPage()
		pdf.SetFont("Times", "B", 18)
		pdf.MultiCell(0, 9, "About This Book", "", "L", false)
		pdf.Ln(6)
		pdf.SetFont("Times", "I", 12)
		for _, para := range splitParagraphs(plainProse(rec.Blurb)) {
			pdf.MultiCell(0, 6, tr(strings.ReplaceAll(para, "\n", " ")), "", "J", false)
			pdf.Ln(3)
		}
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write pdf body: %w", err)
	}
	return nil
}

// renderCoverPage rasterizes the cover image onto a single full-bleed
// page. Without a usable image it renders a labeled placeholder panel
// so the merged document still opens on a cover.
func renderCoverPage(imagePath, title, outputPath string) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	haveImage := imagePath != ""
	if haveImage {
		if _, err := os.Stat(imagePath); err != nil {
			haveImage = false
		}
	}

	if haveImage {
		pdf.ImageOptions(imagePath, 0, 0, letterWidthMM, letterHeightMM, false,
			fpdf.ImageOptions{ReadDpi: false}, 0, "")
		if pdf.Err() {
			return fmt.Errorf("cover image render: %v", pdf.Error())
		}
	} else {
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		pdf.SetFillColor(40, 44, 58)
		pdf.Rect(0, 0, letterWidthMM, letterHeightMM, "F")
		pdf.SetTextColor(235, 235, 235)
		pdf.SetY(letterHeightMM / 3)
		pdf.SetFont("Times", "B", 26)
		pdf.MultiCell(0, 12, tr(title), "", "C", false)
		pdf.Ln(16)
		pdf.SetFont("Times", "I", 12)
		pdf.MultiCell(0, 6, "missing cover", "", "C", false)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write cover page: %w", err)
	}
	return nil
}

// plainProse strips light markdown markers that read poorly in print.
func plainProse(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(line, "#")
		trimmed = strings.ReplaceAll(trimmed, "**", "")
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
