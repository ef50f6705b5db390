package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmpublishing/bookforge/internal/book"
	"github.com/jmpublishing/bookforge/internal/home"
	"github.com/jmpublishing/bookforge/internal/prompts/blurb"
	"github.com/jmpublishing/bookforge/internal/prompts/chapter"
	"github.com/jmpublishing/bookforge/internal/prompts/coverart"
	"github.com/jmpublishing/bookforge/internal/prompts/distmeta"
	"github.com/jmpublishing/bookforge/internal/publish"
)

// fakeGenerator returns fixed content and records the chapter params
// it was called with.
type fakeGenerator struct {
	chapterCalls     []chapter.Params
	metaCalls        int
	coverPromptFails bool
	coverImageFails  bool
}

func (g *fakeGenerator) Concept(ctx context.Context) (book.Concept, error) {
	return book.Concept{
		Niche:          book.GenreCozyMystery,
		Subgenre:       "Holiday Mystery",
		Hook:           "A hook.",
		ConceptSummary: "A summary.",
		WordCount:      900,
		ChapterCount:   3,
	}, nil
}

func (g *fakeGenerator) Outline(ctx context.Context, con book.Concept) (book.Outline, error) {
	return book.Outline{
		Title: "Tinsel and Tension",
		Chapters: []book.ChapterStub{
			{Number: 1, Title: "One", Summary: "first summary"},
			{Number: 2, Title: "Two", Summary: "second summary"},
			{Number: 3, Title: "Three", Summary: "third summary"},
		},
		Keywords: []string{"cozy"},
	}, nil
}

func (g *fakeGenerator) Chapter(ctx context.Context, p chapter.Params) (string, error) {
	g.chapterCalls = append(g.chapterCalls, p)
	return fmt.Sprintf("Prose for chapter %d.", p.ChapterNumber), nil
}

func (g *fakeGenerator) Blurb(ctx context.Context, p blurb.Params) (string, error) {
	return "A gripping blurb.", nil
}

func (g *fakeGenerator) CoverPrompt(ctx context.Context, p coverart.Params) (string, error) {
	if g.coverPromptFails {
		return "", fmt.Errorf("image service down")
	}
	return "a snowy town at dusk", nil
}

func (g *fakeGenerator) CoverImage(ctx context.Context, imagePrompt, destPath string) (string, error) {
	if g.coverImageFails {
		return "", fmt.Errorf("image service down")
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(destPath, []byte("png"), 0o644); err != nil {
		return "", err
	}
	return destPath, nil
}

func (g *fakeGenerator) DistMetadata(ctx context.Context, p distmeta.Params) (book.DistMetadata, error) {
	g.metaCalls++
	return book.DistMetadata{
		Title:    p.Title,
		Author:   p.Author,
		Synopsis: p.Synopsis,
		Keywords: "cozy, mystery",
		BISACCategories: []book.BISACCategory{
			{Name: "FICTION / Mystery & Detective / Cozy", Code: "FIC022100"},
		},
		PriceUSD: 4.99,
		PriceEUR: 4.49,
	}, nil
}

type passthroughCompositor struct{}

func (passthroughCompositor) Compose(coverPath, title, author string) string { return coverPath }

// fakeAssembler writes placeholder files for each requested format.
type fakeAssembler struct{}

func (fakeAssembler) Assemble(ctx context.Context, rec *book.Record, formats []book.Format, outDir string) (map[book.Format]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	out := make(map[book.Format]string, len(formats))
	for _, f := range formats {
		path := filepath.Join(outDir, "book."+string(f))
		if err := os.WriteFile(path, []byte(f), 0o644); err != nil {
			return nil, err
		}
		out[f] = path
	}
	return out, nil
}

// recordingTracker captures tracker calls.
type recordingTracker struct {
	created  string
	chapters int
	files    map[book.Format]string
	errors   []error
}

func (t *recordingTracker) CreateBook(con book.Concept, title string) (string, error) {
	t.created = title
	return "rec123", nil
}
func (t *recordingTracker) UpdateChapters(id string, written, total, words int) error {
	t.chapters = written
	return nil
}
func (t *recordingTracker) UpdateCover(id, coverPath, blurbText string) error { return nil }
func (t *recordingTracker) UpdateFiles(id string, files map[book.Format]string) error {
	t.files = files
	return nil
}
func (t *recordingTracker) UpdateUpload(id, link string) error             { return nil }
func (t *recordingTracker) UpdatePublish(id, outcome, message string) error { return nil }
func (t *recordingTracker) LogError(id string, err error) error {
	t.errors = append(t.errors, err)
	return nil
}

// fakePublisher records what it was asked to submit.
type fakePublisher struct {
	meta book.DistMetadata
}

func (p *fakePublisher) Publish(ctx context.Context, meta book.DistMetadata, coverPath string, files map[book.Format]string) (*publish.Result, error) {
	p.meta = meta
	return &publish.Result{Outcome: publish.OutcomeSuccess, Message: "submitted"}, nil
}

func testPipeline(t *testing.T, gen *fakeGenerator, tracker *recordingTracker) *Pipeline {
	t.Helper()
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home.New() error = %v", err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	return &Pipeline{
		Generator:  gen,
		Compositor: passthroughCompositor{},
		Assembler:  fakeAssembler{},
		Tracker:    tracker,
		Home:       h,
		Author:     "J. M. Everhart",
		Year:       2026,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	gen := &fakeGenerator{}
	tracker := &recordingTracker{}
	p := testPipeline(t, gen, tracker)
	pub := &fakePublisher{}
	p.Publisher = pub

	report, err := p.Run(context.Background(), Options{
		Formats: []book.Format{book.FormatEPUB, book.FormatPDF},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := len(report.Record.Chapters); got != 3 {
		t.Fatalf("chapters = %d, want 3", got)
	}
	if report.Record.Title() != "Tinsel and Tension" {
		t.Fatalf("title = %q", report.Record.Title())
	}
	if tracker.created != "Tinsel and Tension" {
		t.Fatalf("tracker got title %q", tracker.created)
	}
	if tracker.chapters != 3 {
		t.Fatalf("tracker saw %d chapter updates, want 3", tracker.chapters)
	}
	if report.Files[book.FormatEPUB] == "" || report.Files[book.FormatPDF] == "" {
		t.Fatalf("missing assembled files: %v", report.Files)
	}
	if report.Metadata.Title != "Tinsel and Tension" {
		t.Fatalf("metadata title = %q", report.Metadata.Title)
	}
	if pub.meta.Title != "Tinsel and Tension" {
		t.Fatalf("publisher got metadata title %q", pub.meta.Title)
	}
	if report.Publish == nil || report.Publish.Outcome != publish.OutcomeSuccess {
		t.Fatalf("publish result = %+v", report.Publish)
	}

	// Diagnostic artifacts land next to the formats.
	outDir := p.Home.BookDir(book.SafeTitle("Tinsel and Tension"))
	for _, name := range []string{"full_content.txt", "book_details.txt", "book_formats.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("artifact %s missing: %v", name, err)
		}
	}
}

func TestRun_ThreadsPriorSummaries(t *testing.T) {
	gen := &fakeGenerator{}
	p := testPipeline(t, gen, &recordingTracker{})

	if _, err := p.Run(context.Background(), Options{Formats: []book.Format{book.FormatEPUB}}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(gen.chapterCalls) != 3 {
		t.Fatalf("chapter calls = %d, want 3", len(gen.chapterCalls))
	}
	if len(gen.chapterCalls[0].PreviousSummaries) != 0 {
		t.Fatalf("chapter 1 should have no prior summaries, got %v",
			gen.chapterCalls[0].PreviousSummaries)
	}
	third := gen.chapterCalls[2].PreviousSummaries
	if len(third) != 2 || third[0] != "first summary" || third[1] != "second summary" {
		t.Fatalf("chapter 3 prior summaries = %v", third)
	}
}

func TestRun_CoverPromptFailureAborts(t *testing.T) {
	gen := &fakeGenerator{coverPromptFails: true}
	tracker := &recordingTracker{}
	p := testPipeline(t, gen, tracker)

	_, err := p.Run(context.Background(), Options{Formats: []book.Format{book.FormatEPUB}})
	if err == nil {
		t.Fatal("Run() completed despite cover prompt failure")
	}
	if !strings.Contains(err.Error(), "cover prompt stage failed") {
		t.Fatalf("error = %v, want cover prompt stage failure", err)
	}
	if !strings.Contains(err.Error(), "into the run") {
		t.Fatalf("error = %v, want total elapsed time", err)
	}
	if len(tracker.errors) != 1 {
		t.Fatalf("tracker recorded %d errors, want 1", len(tracker.errors))
	}
}

func TestRun_CoverImageFailureAborts(t *testing.T) {
	gen := &fakeGenerator{coverImageFails: true}
	p := testPipeline(t, gen, &recordingTracker{})

	_, err := p.Run(context.Background(), Options{Formats: []book.Format{book.FormatEPUB}})
	if err == nil {
		t.Fatal("Run() completed despite cover image failure")
	}
	if !strings.Contains(err.Error(), "cover image stage failed") {
		t.Fatalf("error = %v, want cover image stage failure", err)
	}
}

func TestRun_SkipsMetadataWithoutPublisher(t *testing.T) {
	gen := &fakeGenerator{}
	p := testPipeline(t, gen, &recordingTracker{})

	report, err := p.Run(context.Background(), Options{Formats: []book.Format{book.FormatEPUB}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if gen.metaCalls != 0 {
		t.Fatalf("metadata generated %d times without a publisher, want 0", gen.metaCalls)
	}
	if report.Publish != nil {
		t.Fatalf("publish result = %+v, want nil", report.Publish)
	}
}

func TestRun_RejectsUnknownGenre(t *testing.T) {
	p := testPipeline(t, &fakeGenerator{}, &recordingTracker{})

	_, err := p.Run(context.Background(), Options{Genre: "Space Opera"})
	if err == nil || !strings.Contains(err.Error(), "Space Opera") {
		t.Fatalf("Run() error = %v, want unsupported genre", err)
	}
}

func TestRun_TitleOverride(t *testing.T) {
	p := testPipeline(t, &fakeGenerator{}, &recordingTracker{})

	report, err := p.Run(context.Background(), Options{
		Title:   "A Different Title",
		Formats: []book.Format{book.FormatEPUB},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Record.Title() != "A Different Title" {
		t.Fatalf("title = %q, want override", report.Record.Title())
	}
}
