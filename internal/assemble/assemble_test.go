package assemble

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmpublishing/bookforge/internal/book"
)

func testRecord() *book.Record {
	return &book.Record{
		Concept: book.Concept{
			Niche:          book.GenreCozyMystery,
			Subgenre:       "Holiday Mystery",
			Hook:           "A decorator finds a murder weapon in an ornament box.",
			ConceptSummary: "A florist turned sleuth untangles a small-town mystery.",
			WordCount:      900,
			ChapterCount:   3,
		},
		Outline: book.Outline{
			Title: "Tinsel and Tension",
			Chapters: []book.ChapterStub{
				{Number: 1, Title: "The Delivery", Summary: "The box arrives."},
				{Number: 2, Title: "Old Cases", Summary: "The past surfaces."},
				{Number: 3, Title: "Justice", Summary: "The mystery closes."},
			},
			Keywords: []string{"cozy", "mystery"},
		},
		Chapters: []string{
			"The box arrived on the first snowfall.\n\nEmily signed for it without looking up.",
			"Her father read the label twice.\n\nThe old case had never really closed.",
			"The confession came quietly.\n\nBy Christmas Eve the town knew the truth.",
		},
		Blurb: "A festive mystery with teeth.",
	}
}

func testAssembler(t *testing.T) *Assembler {
	t.Helper()
	a := New("J. M. Everhart", 2026, "en", nil)
	a.Now = func() time.Time {
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	}
	return a
}

func TestBuildEPUB_Deterministic(t *testing.T) {
	a := testAssembler(t)
	rec := testRecord()
	dir := t.TempDir()

	first := filepath.Join(dir, "first.epub")
	second := filepath.Join(dir, "second.epub")
	if err := a.buildEPUB(rec, first); err != nil {
		t.Fatalf("buildEPUB() error = %v", err)
	}
	if err := a.buildEPUB(rec, second); err != nil {
		t.Fatalf("buildEPUB() error = %v", err)
	}

	b1, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("failed to read first epub: %v", err)
	}
	b2, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("failed to read second epub: %v", err)
	}
	if !bytes.Equal(b1, b2) {
		t.Fatal("rebuilding the same record should produce identical bytes")
	}
}

func TestBuildEPUB_Structure(t *testing.T) {
	a := testAssembler(t)
	rec := testRecord()
	path := filepath.Join(t.TempDir(), "book.epub")

	if err := a.buildEPUB(rec, path); err != nil {
		t.Fatalf("buildEPUB() error = %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("output is not a readable zip: %v", err)
	}
	defer zr.Close()

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	// mimetype must be the first entry and stored uncompressed.
	if zr.File[0].Name != "mimetype" {
		t.Fatalf("first entry = %q, want mimetype", zr.File[0].Name)
	}
	if zr.File[0].Method != zip.Store {
		t.Fatal("mimetype must be stored uncompressed")
	}

	for _, name := range []string{
		"META-INF/container.xml",
		"OEBPS/content.opf",
		"OEBPS/nav.xhtml",
		"OEBPS/toc.ncx",
		"OEBPS/styles/style.css",
		"OEBPS/title.xhtml",
		"OEBPS/toc.xhtml",
		"OEBPS/chapter_1.xhtml",
		"OEBPS/chapter_2.xhtml",
		"OEBPS/chapter_3.xhtml",
		"OEBPS/blurb.xhtml",
	} {
		if _, ok := entries[name]; !ok {
			t.Fatalf("epub missing entry %s", name)
		}
	}

	nav := readZipEntry(t, entries["OEBPS/nav.xhtml"])
	for _, want := range []string{
		`<a href="chapter_1.xhtml">Chapter 1: The Delivery</a>`,
		`<a href="chapter_2.xhtml">Chapter 2: Old Cases</a>`,
		`<a href="chapter_3.xhtml">Chapter 3: Justice</a>`,
	} {
		if !strings.Contains(nav, want) {
			t.Fatalf("nav.xhtml missing %q:\n%s", want, nav)
		}
	}

	opf := readZipEntry(t, entries["OEBPS/content.opf"])
	if !strings.Contains(opf, "<dc:title>Tinsel and Tension</dc:title>") {
		t.Fatal("content.opf missing title")
	}
	if !strings.Contains(opf, `property="dcterms:modified">2026-08-01T12:00:00Z<`) {
		t.Fatal("content.opf should carry the injected timestamp")
	}
}

func readZipEntry(t *testing.T, f *zip.File) string {
	t.Helper()
	r, err := f.Open()
	if err != nil {
		t.Fatalf("failed to open %s: %v", f.Name, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read %s: %v", f.Name, err)
	}
	return string(data)
}

func TestAssemble_MOBIWithoutEPUB(t *testing.T) {
	a := testAssembler(t)
	rec := testRecord()

	results, err := a.Assemble(context.Background(), rec, []book.Format{book.FormatMOBI}, t.TempDir())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	path, ok := results[book.FormatMOBI]
	if !ok {
		t.Fatal("mobi result missing from map")
	}
	if path != "" {
		t.Fatalf("mobi without an epub should record an empty path, got %q", path)
	}
}

func TestAssemble_MOBIFallsBackToEPUB(t *testing.T) {
	if _, err := exec.LookPath("ebook-convert"); err == nil {
		t.Skip("ebook-convert available, conversion would succeed")
	}

	a := testAssembler(t)
	rec := testRecord()

	results, err := a.Assemble(context.Background(), rec, []book.Format{book.FormatEPUB, book.FormatMOBI}, t.TempDir())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	epubPath := results[book.FormatEPUB]
	if epubPath == "" {
		t.Fatal("epub result missing")
	}
	if got := results[book.FormatMOBI]; got != epubPath {
		t.Fatalf("mobi fallback = %q, want epub path %q", got, epubPath)
	}
}

func TestAssemble_FormatIsolation(t *testing.T) {
	a := testAssembler(t)
	rec := testRecord()
	// Unreadable cover must not block either format.
	rec.CoverPath = filepath.Join(t.TempDir(), "missing.png")

	results, err := a.Assemble(context.Background(), rec,
		[]book.Format{book.FormatEPUB, book.FormatPDF}, t.TempDir())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	for _, f := range []book.Format{book.FormatEPUB, book.FormatPDF} {
		path := results[f]
		if path == "" {
			t.Fatalf("%s should have been produced", f)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("%s output missing: %v", f, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s output is empty", f)
		}
	}
}

func TestAssemble_InvalidRecord(t *testing.T) {
	a := testAssembler(t)
	rec := testRecord()
	rec.Chapters = rec.Chapters[:1]

	if _, err := a.Assemble(context.Background(), rec, []book.Format{book.FormatEPUB}, t.TempDir()); err == nil {
		t.Fatal("Assemble() should reject a record with mismatched chapter counts")
	}
}
