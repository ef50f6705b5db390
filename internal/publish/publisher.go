// Package publish automates the distribution portal's book submission
// form with a headless browser.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/jmpublishing/bookforge/internal/book"
)

// ErrSelectorNotFound means none of a field's candidate selectors
// matched the current page.
var ErrSelectorNotFound = errors.New("no matching selector on page")

// ErrLoginFailed means authentication did not reach the dashboard.
var ErrLoginFailed = errors.New("portal login failed")

const (
	defaultTimeout = 3 * time.Minute

	// Post-submit polling for an outcome indicator.
	outcomePollAttempts = 6
	outcomePollDelay    = 2 * time.Second
)

// Config holds portal connection settings.
type Config struct {
	BaseURL       string
	Username      string
	Password      string
	Headless      bool
	Timeout       time.Duration
	ScreenshotDir string // Empty disables screenshots
}

// Result is the outcome of one submission attempt.
type Result struct {
	Outcome     Outcome
	Message     string
	URL         string // Page URL after submission
	ISBN        string // When the portal displays one
	Screenshots []string
}

// Publisher drives the portal publishing form.
type Publisher struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Publisher.
func New(cfg Config, logger *slog.Logger) *Publisher {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{cfg: cfg, logger: logger}
}

// Publish logs in, fills the submission form, uploads the cover and
// the book file (EPUB preferred, PDF fallback), and submits. The
// returned Result carries the classified outcome; an error return
// means the automation could not complete the form at all.
func (p *Publisher) Publish(ctx context.Context, meta book.DistMetadata, coverPath string, files map[book.Format]string) (*Result, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", p.cfg.Headless),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, p.cfg.Timeout)
	defer cancelRun()

	result := &Result{Outcome: OutcomeUnconfirmed}

	if err := p.login(runCtx); err != nil {
		p.screenshot(runCtx, "error", result)
		return nil, err
	}

	if err := p.openSubmissionForm(runCtx); err != nil {
		p.screenshot(runCtx, "error", result)
		return nil, err
	}
	p.screenshot(runCtx, "publishing_form", result)

	if err := p.fillForm(runCtx, meta); err != nil {
		p.screenshot(runCtx, "error", result)
		return nil, err
	}

	if coverPath == "" {
		p.logger.Warn("no cover available, submitting without one")
	} else if err := p.uploadFirst(runCtx, FieldCoverUpload, coverPath); err != nil {
		p.screenshot(runCtx, "error", result)
		return nil, fmt.Errorf("cover upload: %w", err)
	}

	bookFile := pickBookFile(files)
	if bookFile == "" {
		return nil, fmt.Errorf("no epub or pdf available to upload")
	}
	if err := p.uploadFirst(runCtx, FieldBookUpload, bookFile); err != nil {
		p.screenshot(runCtx, "error", result)
		return nil, fmt.Errorf("book upload: %w", err)
	}

	p.screenshot(runCtx, "before_submit", result)

	if err := p.clickFirst(runCtx, FieldSubmit); err != nil {
		p.screenshot(runCtx, "error", result)
		return nil, fmt.Errorf("submit: %w", err)
	}

	p.classifySubmission(runCtx, result)
	p.screenshot(runCtx, "after_submit", result)

	p.logger.Info("portal submission finished",
		"outcome", string(result.Outcome),
		"url", result.URL,
		"isbn", result.ISBN)
	return result, nil
}

// login authenticates and verifies the redirect landed in the portal.
func (p *Publisher) login(ctx context.Context) error {
	p.logger.Info("logging into portal", "url", p.cfg.BaseURL)

	if err := chromedp.Run(ctx,
		chromedp.Navigate(p.cfg.BaseURL+"/login"),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}

	if err := p.fillFirst(ctx, FieldEmail, p.cfg.Username); err != nil {
		return fmt.Errorf("%w: email field: %v", ErrLoginFailed, err)
	}
	if err := p.fillFirst(ctx, FieldPassword, p.cfg.Password); err != nil {
		return fmt.Errorf("%w: password field: %v", ErrLoginFailed, err)
	}
	if err := p.clickFirst(ctx, FieldLoginSubmit); err != nil {
		return fmt.Errorf("%w: submit button: %v", ErrLoginFailed, err)
	}

	var location string
	if err := chromedp.Run(ctx,
		chromedp.Sleep(3*time.Second),
		chromedp.Location(&location),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if !strings.Contains(location, "dashboard") && !strings.Contains(location, "hub") {
		return fmt.Errorf("%w: landed on %s", ErrLoginFailed, location)
	}

	p.logger.Info("portal login succeeded")
	return nil
}

// openSubmissionForm clicks through to the new-book form, falling back
// to direct navigation when no add-book control is found.
func (p *Publisher) openSubmissionForm(ctx context.Context) error {
	if err := chromedp.Run(ctx,
		chromedp.Navigate(p.cfg.BaseURL+"/hub"),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to open hub: %w", err)
	}

	if err := p.clickFirst(ctx, FieldAddBook); err == nil {
		return chromedp.Run(ctx, chromedp.Sleep(2*time.Second))
	}

	if err := chromedp.Run(ctx,
		chromedp.Navigate(p.cfg.BaseURL+"/hub/books/add"),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to open submission form: %w", err)
	}
	return nil
}

// fillForm fills metadata fields. Fields absent from the current form
// revision are skipped with a warning; title is mandatory.
func (p *Publisher) fillForm(ctx context.Context, meta book.DistMetadata) error {
	if err := p.fillFirst(ctx, FieldTitle, meta.Title); err != nil {
		return fmt.Errorf("title field: %w", err)
	}

	optionalText := []struct {
		field Field
		value string
	}{
		{FieldSubtitle, meta.Subtitle},
		{FieldAuthor, meta.Author},
		{FieldPublicationYear, fmt.Sprintf("%d", meta.PublicationYear)},
		{FieldSynopsis, meta.Synopsis},
		{FieldKeywords, meta.Keywords},
		{FieldPriceUSD, fmt.Sprintf("%.2f", meta.PriceUSD)},
		{FieldPriceEUR, fmt.Sprintf("%.2f", meta.PriceEUR)},
	}
	for _, ft := range optionalText {
		if strings.TrimSpace(ft.value) == "" {
			continue
		}
		if err := p.fillFirst(ctx, ft.field, ft.value); err != nil {
			p.logger.Warn("form field not found, skipping", "field", string(ft.field))
		}
	}

	optionalSelect := []struct {
		field Field
		value string
	}{
		{FieldLanguage, meta.Language},
		{FieldAgeRating, meta.AgeRating},
	}
	for _, fs := range optionalSelect {
		if fs.value == "" {
			continue
		}
		if err := p.selectFirst(ctx, fs.field, fs.value); err != nil {
			p.logger.Warn("form field not found, skipping", "field", string(fs.field))
		}
	}

	if len(meta.BISACCategories) > 0 {
		primary := meta.BISACCategories[0]
		if err := p.selectFirst(ctx, FieldCategory, primary.Name); err != nil {
			if err := p.selectFirst(ctx, FieldCategory, primary.Code); err != nil {
				p.logger.Warn("category select not found, skipping",
					"category", primary.Name)
			}
		}
	}

	return nil
}

// classifySubmission polls the page for an outcome indicator, leaving
// the result unconfirmed when none appears in time.
func (p *Publisher) classifySubmission(ctx context.Context, result *Result) {
	var pageText string

	err := retry.Do(
		func() error {
			if err := chromedp.Run(ctx,
				chromedp.Text("body", &pageText, chromedp.ByQuery),
			); err != nil {
				return err
			}
			if Classify(pageText) == OutcomeUnconfirmed {
				return fmt.Errorf("no outcome indicator yet")
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(outcomePollAttempts),
		retry.Delay(outcomePollDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)

	chromedp.Run(ctx, chromedp.Location(&result.URL))

	if err != nil {
		result.Outcome = OutcomeUnconfirmed
		result.Message = "no success or failure indicator on page, verify in the portal"
		p.logger.Warn("submission outcome unconfirmed", "url", result.URL)
		return
	}

	switch Classify(pageText) {
	case OutcomeSuccess:
		result.Outcome = OutcomeSuccess
		result.Message = "portal confirmed submission"
		result.ISBN = extractISBN(pageText)
	case OutcomeFailed:
		result.Outcome = OutcomeFailed
		result.Message = FailureDetail(pageText)
	}
}

// fillFirst types value into the first matching candidate selector.
func (p *Publisher) fillFirst(ctx context.Context, field Field, value string) error {
	sel, opt, err := p.locate(ctx, field)
	if err != nil {
		return err
	}
	return chromedp.Run(ctx,
		chromedp.Clear(sel, opt),
		chromedp.SendKeys(sel, value, opt),
	)
}

// selectFirst sets a <select> element's value.
func (p *Publisher) selectFirst(ctx context.Context, field Field, value string) error {
	sel, opt, err := p.locate(ctx, field)
	if err != nil {
		return err
	}
	return chromedp.Run(ctx, chromedp.SetValue(sel, value, opt))
}

// clickFirst clicks the first matching candidate selector.
func (p *Publisher) clickFirst(ctx context.Context, field Field) error {
	sel, opt, err := p.locate(ctx, field)
	if err != nil {
		return err
	}
	return chromedp.Run(ctx, chromedp.Click(sel, opt))
}

// uploadFirst attaches a local file to the first matching file input.
func (p *Publisher) uploadFirst(ctx context.Context, field Field, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file missing: %w", err)
	}
	sel, opt, err := p.locate(ctx, field)
	if err != nil {
		return err
	}
	return chromedp.Run(ctx,
		chromedp.SetUploadFiles(sel, []string{path}, opt),
		chromedp.Sleep(3*time.Second),
	)
}

// locate returns the first candidate selector present on the page.
func (p *Publisher) locate(ctx context.Context, field Field) (string, chromedp.QueryOption, error) {
	for _, sel := range Selectors(field) {
		opt := queryOption(sel)

		probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		var nodes []*cdp.Node
		err := chromedp.Run(probeCtx,
			chromedp.Nodes(sel, &nodes, opt, chromedp.AtLeast(0)),
		)
		cancel()
		if err == nil && len(nodes) > 0 {
			return sel, opt, nil
		}
	}
	return "", nil, fmt.Errorf("%w: field %s", ErrSelectorNotFound, field)
}

func queryOption(sel string) chromedp.QueryOption {
	if strings.HasPrefix(sel, "//") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// pickBookFile prefers the EPUB, falling back to the PDF.
func pickBookFile(files map[book.Format]string) string {
	for _, f := range []book.Format{book.FormatEPUB, book.FormatPDF} {
		path := files[f]
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// extractISBN pulls the ISBN digits following an "ISBN" label, if any.
func extractISBN(pageText string) string {
	idx := strings.Index(pageText, "ISBN")
	if idx < 0 {
		return ""
	}
	rest := pageText[idx+len("ISBN"):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.Trim(strings.TrimSpace(rest), ":# ")
}

// screenshot captures the current page when a screenshot directory is
// configured. Failures are logged, never fatal.
func (p *Publisher) screenshot(ctx context.Context, name string, result *Result) {
	if p.cfg.ScreenshotDir == "" {
		return
	}

	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		p.logger.Warn("screenshot failed", "name", name, "error", err)
		return
	}

	if err := os.MkdirAll(p.cfg.ScreenshotDir, 0o755); err != nil {
		p.logger.Warn("screenshot dir creation failed", "error", err)
		return
	}
	path := filepath.Join(p.cfg.ScreenshotDir, name+".png")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		p.logger.Warn("screenshot write failed", "path", path, "error", err)
		return
	}
	result.Screenshots = append(result.Screenshots, path)
}
