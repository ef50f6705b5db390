package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmpublishing/bookforge/internal/assemble"
	"github.com/jmpublishing/bookforge/internal/book"
	"github.com/jmpublishing/bookforge/internal/config"
	"github.com/jmpublishing/bookforge/internal/cover"
	"github.com/jmpublishing/bookforge/internal/drive"
	"github.com/jmpublishing/bookforge/internal/generate"
	"github.com/jmpublishing/bookforge/internal/pipeline"
	"github.com/jmpublishing/bookforge/internal/publish"
	"github.com/jmpublishing/bookforge/internal/track"
)

var (
	buildGenre       string
	buildTitle       string
	buildFormats     []string
	buildSkipDrive   bool
	buildSkipPublish bool
	buildShowBrowser bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate, assemble, and distribute one complete book",
	Long: `Run the full production pipeline: generate a concept, outline,
chapters, blurb, and cover, assemble the output formats, and push the
results to Drive and the distribution portal.

Examples:
  bookforge build                                  # Full run, model picks genre
  bookforge build --genre "Cozy Mystery"           # Force the genre
  bookforge build --formats epub,pdf --skip-publish
  bookforge build --skip-drive --skip-publish      # Local artifacts only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, err := openHome()
		if err != nil {
			return err
		}

		cfgPath := cfgFile
		if cfgPath == "" && h.ConfigExists() {
			cfgPath = h.ConfigPath()
		}
		cm, err := config.NewManager(cfgPath)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		apiKey := config.ResolveEnvVars(cfg.OpenAI.APIKey)
		if apiKey == "" {
			return fmt.Errorf("openai api key not configured (set OPENAI_API_KEY or openai.api_key)")
		}

		formats, err := resolveFormats(buildFormats, cfg.Book.Formats)
		if err != nil {
			return err
		}

		gen := generate.NewClient(generate.Config{
			APIKey:       apiKey,
			TextModel:    cfg.OpenAI.TextModel,
			ChapterModel: cfg.OpenAI.ChapterModel,
			ImageModel:   cfg.OpenAI.ImageModel,
			Timeout:      time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
		}, logger)

		tracker := track.New(track.Config{
			APIKey: config.ResolveEnvVars(cfg.Airtable.APIKey),
			BaseID: cfg.Airtable.BaseID,
			Table:  cfg.Airtable.Table,
		}, logger)

		year := time.Now().Year()

		p := &pipeline.Pipeline{
			Generator:  gen,
			Compositor: cover.New(logger),
			Assembler:  assemble.New(cfg.Author.Name, year, cfg.Book.Language, logger),
			Tracker:    tracker,
			Home:       h,
			Author:     cfg.Author.Name,
			Year:       year,
			Logger:     logger,
		}

		if !buildSkipDrive {
			uploader, err := drive.New(ctx, drive.Config{
				CredentialsFile: cfg.Drive.CredentialsFile,
				TokenFile:       cfg.Drive.TokenFile,
				SharePublic:     cfg.Drive.SharePublic,
			}, logger)
			if err != nil {
				logger.Warn("drive unavailable, uploads will be skipped", "error", err)
			} else {
				p.Uploader = uploader
			}
		}

		if !buildSkipPublish {
			if cfg.Portal.BaseURL == "" {
				logger.Warn("portal base_url not configured, publishing will be skipped")
			} else {
				p.Publisher = publish.New(publish.Config{
					BaseURL:       cfg.Portal.BaseURL,
					Username:      config.ResolveEnvVars(cfg.Portal.Username),
					Password:      config.ResolveEnvVars(cfg.Portal.Password),
					Headless:      cfg.Portal.Headless && !buildShowBrowser,
					Timeout:       time.Duration(cfg.Portal.TimeoutSeconds) * time.Second,
					ScreenshotDir: h.ScreenshotsDir(),
				}, logger)
			}
		}

		report, err := p.Run(ctx, pipeline.Options{
			Genre:   buildGenre,
			Title:   buildTitle,
			Formats: formats,
		})
		if err != nil {
			return err
		}

		printReport(report)
		return nil
	},
}

// resolveFormats parses the --formats flag, falling back to the
// configured defaults.
func resolveFormats(flagValues, cfgValues []string) ([]book.Format, error) {
	names := flagValues
	if len(names) == 0 {
		names = cfgValues
	}
	if len(names) == 0 {
		return book.AllFormats(), nil
	}

	formats := make([]book.Format, 0, len(names))
	for _, n := range names {
		f, err := book.ParseFormat(n)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func printReport(r *pipeline.Report) {
	fmt.Printf("\n%s\n", r.Record.Title())
	fmt.Printf("  Run:      %s\n", r.RunID)
	fmt.Printf("  Genre:    %s / %s\n", r.Record.Concept.Niche, r.Record.Concept.Subgenre)
	fmt.Printf("  Words:    %d across %d chapters\n", r.Record.WordCount(), len(r.Record.Chapters))
	for _, f := range book.AllFormats() {
		path, ok := r.Files[f]
		if !ok {
			continue
		}
		if path == "" {
			fmt.Printf("  %-8s FAILED\n", strings.ToUpper(string(f))+":")
			continue
		}
		fmt.Printf("  %-8s %s\n", strings.ToUpper(string(f))+":", path)
	}
	if r.FolderLink != "" {
		fmt.Printf("  Drive:    %s\n", r.FolderLink)
	}
	if r.Publish != nil {
		fmt.Printf("  Portal:   %s (%s)\n", r.Publish.Outcome, r.Publish.Message)
		if r.Publish.ISBN != "" {
			fmt.Printf("  ISBN:     %s\n", r.Publish.ISBN)
		}
	}
	fmt.Printf("  Elapsed:  %s\n", r.Elapsed.Round(time.Second))
}

func init() {
	buildCmd.Flags().StringVar(&buildGenre, "genre", "", `force the genre ("Paranormal Romance" or "Cozy Mystery")`)
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "override the generated title")
	buildCmd.Flags().StringSliceVar(&buildFormats, "formats", nil, "output formats (epub,pdf,mobi)")
	buildCmd.Flags().BoolVar(&buildSkipDrive, "skip-drive", false, "skip the Google Drive upload")
	buildCmd.Flags().BoolVar(&buildSkipPublish, "skip-publish", false, "skip the portal submission")
	buildCmd.Flags().BoolVar(&buildShowBrowser, "show-browser", false, "run the portal browser visibly")
}
