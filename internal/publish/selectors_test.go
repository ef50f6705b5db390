package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmpublishing/bookforge/internal/book"
)

func TestSelectors_EveryFieldHasCandidates(t *testing.T) {
	fields := []Field{
		FieldAddBook, FieldEmail, FieldPassword, FieldLoginSubmit,
		FieldTitle, FieldSubtitle, FieldAuthor, FieldLanguage,
		FieldPublicationYear, FieldAgeRating, FieldSynopsis,
		FieldKeywords, FieldCategory, FieldCoverUpload,
		FieldBookUpload, FieldPriceUSD, FieldPriceEUR, FieldSubmit,
	}

	for _, f := range fields {
		if len(Selectors(f)) == 0 {
			t.Fatalf("field %s has no selector candidates", f)
		}
	}
}

func TestSelectors_GenericFileInputIsLastResort(t *testing.T) {
	// The bare file input matches any upload control, so specific
	// selectors must be tried before it.
	for _, f := range []Field{FieldCoverUpload, FieldBookUpload} {
		sels := Selectors(f)
		if sels[0] == `input[type="file"]` {
			t.Fatalf("field %s tries the generic file input first", f)
		}
		if sels[len(sels)-1] != `input[type="file"]` {
			t.Fatalf("field %s should fall back to the generic file input", f)
		}
	}
}

func TestQueryOption_XPathDetection(t *testing.T) {
	if queryOption(`//button[contains(., "Publish")]`) == nil {
		t.Fatal("xpath selector should map to a query option")
	}
	if queryOption(`input[name="title"]`) == nil {
		t.Fatal("css selector should map to a query option")
	}
}

func TestPickBookFile_PrefersEPUB(t *testing.T) {
	dir := t.TempDir()
	epub := filepath.Join(dir, "book.epub")
	pdf := filepath.Join(dir, "book.pdf")
	for _, p := range []string{epub, pdf} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}

	files := map[book.Format]string{
		book.FormatEPUB: epub,
		book.FormatPDF:  pdf,
	}
	if got := pickBookFile(files); got != epub {
		t.Fatalf("pickBookFile() = %q, want epub", got)
	}

	// A missing epub on disk falls back to the pdf.
	files[book.FormatEPUB] = filepath.Join(dir, "gone.epub")
	if got := pickBookFile(files); got != pdf {
		t.Fatalf("pickBookFile() = %q, want pdf", got)
	}

	if got := pickBookFile(nil); got != "" {
		t.Fatalf("pickBookFile(nil) = %q, want empty", got)
	}
}

func TestSelectorsAreWellFormed(t *testing.T) {
	for field, sels := range fieldSelectors {
		for _, sel := range sels {
			if strings.TrimSpace(sel) == "" {
				t.Fatalf("field %s has a blank selector", field)
			}
		}
	}
}
