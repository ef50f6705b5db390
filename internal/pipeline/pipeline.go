// Package pipeline orchestrates the full book production run:
// generation, cover compositing, format assembly, tracking, upload,
// and portal submission.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmpublishing/bookforge/internal/book"
	"github.com/jmpublishing/bookforge/internal/home"
	"github.com/jmpublishing/bookforge/internal/prompts/blurb"
	"github.com/jmpublishing/bookforge/internal/prompts/chapter"
	"github.com/jmpublishing/bookforge/internal/prompts/coverart"
	"github.com/jmpublishing/bookforge/internal/prompts/distmeta"
	"github.com/jmpublishing/bookforge/internal/publish"
	"github.com/jmpublishing/bookforge/internal/track"
)

// Generator produces each generated piece of a book.
type Generator interface {
	Concept(ctx context.Context) (book.Concept, error)
	Outline(ctx context.Context, con book.Concept) (book.Outline, error)
	Chapter(ctx context.Context, p chapter.Params) (string, error)
	Blurb(ctx context.Context, p blurb.Params) (string, error)
	CoverPrompt(ctx context.Context, p coverart.Params) (string, error)
	CoverImage(ctx context.Context, imagePrompt, destPath string) (string, error)
	DistMetadata(ctx context.Context, p distmeta.Params) (book.DistMetadata, error)
}

// Compositor overlays title and author onto the cover image.
type Compositor interface {
	Compose(coverPath, title, author string) string
}

// Assembler packages a record into output formats.
type Assembler interface {
	Assemble(ctx context.Context, rec *book.Record, formats []book.Format, outDir string) (map[book.Format]string, error)
}

// Tracker records production progress.
type Tracker interface {
	CreateBook(con book.Concept, title string) (string, error)
	UpdateChapters(recordID string, written, total, wordCount int) error
	UpdateCover(recordID, coverPath, blurbText string) error
	UpdateFiles(recordID string, files map[book.Format]string) error
	UpdateUpload(recordID, folderLink string) error
	UpdatePublish(recordID, outcome, message string) error
	LogError(recordID string, runErr error) error
}

// Uploader stores finished artifacts remotely.
type Uploader interface {
	UploadBook(title string, paths []string) (folderID, link string, err error)
}

// Publisher submits the book to the distribution portal.
type Publisher interface {
	Publish(ctx context.Context, meta book.DistMetadata, coverPath string, files map[book.Format]string) (*publish.Result, error)
}

// Options selects what one run produces. Zero values mean full
// production with model-chosen genre and title.
type Options struct {
	Genre   string        // Forces the concept's genre when set
	Title   string        // Overrides the generated title when set
	Formats []book.Format // Defaults to all formats
}

// Report summarizes a completed run.
type Report struct {
	RunID      string
	Record     *book.Record
	Metadata   book.DistMetadata
	Files      map[book.Format]string
	FolderLink string
	Publish    *publish.Result
	Elapsed    time.Duration
}

// Pipeline wires the production stages together. Uploader and
// Publisher may be nil to skip those stages.
type Pipeline struct {
	Generator  Generator
	Compositor Compositor
	Assembler  Assembler
	Tracker    Tracker
	Uploader   Uploader
	Publisher  Publisher

	Home   *home.Dir
	Author string
	Year   int

	Logger *slog.Logger
}

// Run executes the production stages in order. Generation and
// assembly failures abort the run; upload and publish failures are
// reported but leave the local artifacts intact.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	runID := uuid.NewString()[:8]
	logger = logger.With("run", runID)
	runStart := time.Now()

	if len(opts.Formats) == 0 {
		opts.Formats = book.AllFormats()
	}
	if opts.Genre != "" && !book.ValidGenre(opts.Genre) {
		return nil, fmt.Errorf("unsupported genre %q (supported: %s)",
			opts.Genre, strings.Join(book.SupportedGenres, ", "))
	}

	report := &Report{RunID: runID, Files: map[book.Format]string{}}
	var recordID string

	fail := func(stage string, err error) (*Report, error) {
		wrapped := fmt.Errorf("%s stage failed %s into the run: %w",
			stage, time.Since(runStart).Round(time.Millisecond), err)
		if p.Tracker != nil && recordID != "" {
			if logErr := p.Tracker.LogError(recordID, wrapped); logErr != nil {
				logger.Warn("failed to record error in tracker", "error", logErr)
			}
		}
		return nil, wrapped
	}

	// Concept.
	start := time.Now()
	con, err := p.Generator.Concept(ctx)
	if err != nil {
		return fail("concept", err)
	}
	if opts.Genre != "" {
		con.Niche = opts.Genre
	}
	logger.Info("concept ready",
		"genre", con.Niche,
		"subgenre", con.Subgenre,
		"chapters", con.ChapterCount,
		"elapsed", time.Since(start).Round(time.Millisecond))

	// Outline.
	start = time.Now()
	outline, err := p.Generator.Outline(ctx, con)
	if err != nil {
		return fail("outline", err)
	}
	if opts.Title != "" {
		outline.Title = opts.Title
	}
	logger.Info("outline ready",
		"title", outline.Title,
		"chapters", len(outline.Chapters),
		"elapsed", time.Since(start).Round(time.Millisecond))

	if p.Tracker != nil {
		recordID, err = p.Tracker.CreateBook(con, outline.Title)
		if err != nil {
			logger.Warn("tracker create failed, continuing untracked", "error", err)
			recordID = ""
		}
	}

	rec := &book.Record{Concept: con, Outline: outline}

	// Chapters, each seeded with the summaries of everything before it.
	start = time.Now()
	summaries := make([]string, 0, len(outline.Chapters))
	for i, stub := range outline.Chapters {
		text, err := p.Generator.Chapter(ctx, chapter.Params{
			BookTitle:         outline.Title,
			Genre:             con.Niche,
			ChapterNumber:     stub.Number,
			ChapterTitle:      stub.Title,
			ChapterSummary:    stub.Summary,
			PreviousSummaries: summaries,
		})
		if err != nil {
			return fail(fmt.Sprintf("chapter %d", stub.Number), err)
		}
		rec.Chapters = append(rec.Chapters, text)
		summaries = append(summaries, stub.Summary)

		if p.Tracker != nil && recordID != "" {
			if err := p.Tracker.UpdateChapters(recordID, i+1, len(outline.Chapters), rec.WordCount()); err != nil {
				logger.Warn("tracker chapter update failed", "error", err)
			}
		}
		logger.Info("chapter written",
			"number", stub.Number,
			"words", len(strings.Fields(text)))
	}
	logger.Info("all chapters written",
		"words", rec.WordCount(),
		"elapsed", time.Since(start).Round(time.Millisecond))

	// Blurb.
	start = time.Now()
	rec.Blurb, err = p.Generator.Blurb(ctx, blurb.Params{
		BookTitle:      outline.Title,
		Genre:          con.Niche,
		ConceptSummary: con.ConceptSummary,
	})
	if err != nil {
		return fail("blurb", err)
	}

	// Cover: image prompt, generation, then text compositing. Prompt
	// and image failures abort like any other generation stage;
	// compositing is best-effort and falls back to the raw image.
	start = time.Now()
	coverPrompt, err := p.Generator.CoverPrompt(ctx, coverart.Params{
		BookTitle: outline.Title,
		Genre:     con.Niche,
	})
	if err != nil {
		return fail("cover prompt", err)
	}
	rawCover := filepath.Join(p.Home.CoversDir(), book.SafeTitle(outline.Title)+".png")
	coverPath, err := p.Generator.CoverImage(ctx, coverPrompt, rawCover)
	if err != nil {
		return fail("cover image", err)
	}
	rec.CoverPath = p.Compositor.Compose(coverPath, outline.Title, p.Author)
	logger.Info("cover stage done",
		"path", rec.CoverPath,
		"elapsed", time.Since(start).Round(time.Millisecond))

	if p.Tracker != nil && recordID != "" {
		if err := p.Tracker.UpdateCover(recordID, rec.CoverPath, rec.Blurb); err != nil {
			logger.Warn("tracker cover update failed", "error", err)
		}
	}

	if err := rec.Validate(); err != nil {
		return fail("record validation", err)
	}
	report.Record = rec

	// Assembly.
	start = time.Now()
	outDir := p.Home.BookDir(book.SafeTitle(outline.Title))
	files, err := p.Assembler.Assemble(ctx, rec, opts.Formats, outDir)
	if err != nil {
		return fail("assembly", err)
	}
	report.Files = files

	if err := p.writeArtifacts(rec, files, outDir); err != nil {
		logger.Warn("artifact dump failed", "error", err)
	}
	if err := track.WriteBackupLog(filepath.Join(p.Home.OutputDir(), "production_log.jsonl"), track.BackupEntry{
		Title:  outline.Title,
		Genre:  con.Niche,
		Status: "assembled",
		Detail: fmt.Sprintf("run %s, %d words", runID, rec.WordCount()),
	}); err != nil {
		logger.Warn("backup log write failed", "error", err)
	}

	if p.Tracker != nil && recordID != "" {
		if err := p.Tracker.UpdateFiles(recordID, files); err != nil {
			logger.Warn("tracker files update failed", "error", err)
		}
	}

	// Upload.
	if p.Uploader != nil {
		start = time.Now()
		paths := artifactPaths(rec, files, outDir)
		_, link, err := p.Uploader.UploadBook(outline.Title, paths)
		if err != nil {
			logger.Warn("upload failed, local artifacts remain",
				"error", err,
				"elapsed", time.Since(start).Round(time.Millisecond))
		} else {
			report.FolderLink = link
			if p.Tracker != nil && recordID != "" {
				if err := p.Tracker.UpdateUpload(recordID, link); err != nil {
					logger.Warn("tracker upload update failed", "error", err)
				}
			}
		}
	}

	// Distribution metadata and portal submission. The metadata call
	// exists only to feed the portal form, so a run without a
	// publisher skips it entirely.
	if p.Publisher != nil {
		meta, err := p.Generator.DistMetadata(ctx, distmeta.Params{
			Title:           outline.Title,
			Author:          p.Author,
			PublicationYear: p.Year,
			Language:        "en",
			Synopsis:        rec.Blurb,
			Genre:           con.Niche,
			WordCount:       rec.WordCount(),
		})
		if err != nil {
			return fail("metadata", err)
		}
		report.Metadata = meta

		start = time.Now()
		result, err := p.Publisher.Publish(ctx, meta, rec.CoverPath, files)
		if err != nil {
			logger.Warn("portal submission failed",
				"error", err,
				"elapsed", time.Since(start).Round(time.Millisecond))
			result = &publish.Result{Outcome: publish.OutcomeFailed, Message: err.Error()}
		}
		report.Publish = result
		if p.Tracker != nil && recordID != "" {
			if err := p.Tracker.UpdatePublish(recordID, string(result.Outcome), result.Message); err != nil {
				logger.Warn("tracker publish update failed", "error", err)
			}
		}
	}

	report.Elapsed = time.Since(runStart)
	logger.Info("production run complete",
		"title", outline.Title,
		"words", rec.WordCount(),
		"elapsed", report.Elapsed.Round(time.Second))
	return report, nil
}

// artifactPaths collects everything worth uploading: output files,
// the cover, and the diagnostic dumps.
func artifactPaths(rec *book.Record, files map[book.Format]string, outDir string) []string {
	var paths []string
	seen := map[string]bool{}
	for _, f := range book.AllFormats() {
		// The MOBI slot may hold the EPUB path as a fallback.
		if p := files[f]; p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	if rec.CoverPath != "" {
		paths = append(paths, rec.CoverPath)
	}
	paths = append(paths,
		filepath.Join(outDir, "full_content.txt"),
		filepath.Join(outDir, "book_details.txt"),
		filepath.Join(outDir, "book_formats.txt"),
	)
	return paths
}
