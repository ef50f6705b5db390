// Package track records book production progress in Airtable, with a
// local JSON fallback log when Airtable is not configured.
package track

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mehanizm/airtable"

	"github.com/jmpublishing/bookforge/internal/book"
)

// Airtable column names.
const (
	fieldTitle       = "Title"
	fieldGenre       = "Genre"
	fieldSubgenre    = "Subgenre"
	fieldStatus      = "Status"
	fieldChapters    = "Chapters"
	fieldWordCount   = "Word Count"
	fieldBlurb       = "Blurb"
	fieldCoverPath   = "Cover Path"
	fieldFiles       = "Files"
	fieldDriveLink   = "Drive Link"
	fieldPublishing  = "Publish Status"
	fieldLastError   = "Last Error"
	fieldGeneratedAt = "Generated At"
)

// Production statuses written to the Status column.
const (
	StatusGenerating = "Generating"
	StatusFormatted  = "Formatted"
	StatusUploaded   = "Uploaded"
	StatusPublished  = "Published"
	StatusFailed     = "Failed"
)

// Tracker writes production state to one Airtable table. A Tracker
// built without credentials degrades to a no-op that only warns once.
type Tracker struct {
	table   *airtable.Table
	logger  *slog.Logger
	enabled bool
}

// Config holds Airtable connection settings.
type Config struct {
	APIKey string
	BaseID string
	Table  string
}

// New creates a Tracker. Missing credentials disable tracking rather
// than failing the run.
func New(cfg Config, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" || cfg.BaseID == "" {
		logger.Warn("airtable tracking disabled: api key or base id not configured")
		return &Tracker{logger: logger}
	}
	if cfg.Table == "" {
		cfg.Table = "Books"
	}

	client := airtable.NewClient(cfg.APIKey)
	return &Tracker{
		table:   client.GetTable(cfg.BaseID, cfg.Table),
		logger:  logger,
		enabled: true,
	}
}

// Enabled reports whether tracking writes reach Airtable.
func (t *Tracker) Enabled() bool {
	return t.enabled
}

// CreateBook inserts a row for a new production run and returns the
// record ID used by later updates. Returns an empty ID when tracking
// is disabled.
func (t *Tracker) CreateBook(con book.Concept, title string) (string, error) {
	if !t.enabled {
		return "", nil
	}

	records := &airtable.Records{
		Records: []*airtable.Record{{
			Fields: map[string]any{
				fieldTitle:       title,
				fieldGenre:       con.Niche,
				fieldSubgenre:    con.Subgenre,
				fieldStatus:      StatusGenerating,
				fieldGeneratedAt: time.Now().UTC().Format(time.RFC3339),
			},
		}},
	}

	received, err := t.table.AddRecords(records)
	if err != nil {
		return "", fmt.Errorf("failed to create airtable record: %w", err)
	}
	if len(received.Records) == 0 {
		return "", fmt.Errorf("airtable returned no records on create")
	}

	id := received.Records[0].ID
	t.logger.Info("airtable record created", "id", id, "title", title)
	return id, nil
}

// update applies a partial field update to one record.
func (t *Tracker) update(recordID string, fields map[string]any) error {
	if !t.enabled || recordID == "" {
		return nil
	}

	_, err := t.table.UpdateRecordsPartial(&airtable.Records{
		Records: []*airtable.Record{{ID: recordID, Fields: fields}},
	})
	if err != nil {
		return fmt.Errorf("failed to update airtable record %s: %w", recordID, err)
	}
	return nil
}

// UpdateChapters records chapter progress and running word count.
func (t *Tracker) UpdateChapters(recordID string, written, total, wordCount int) error {
	return t.update(recordID, map[string]any{
		fieldChapters:  fmt.Sprintf("%d/%d", written, total),
		fieldWordCount: wordCount,
	})
}

// UpdateCover records the composited cover path and the blurb.
func (t *Tracker) UpdateCover(recordID, coverPath, blurb string) error {
	return t.update(recordID, map[string]any{
		fieldCoverPath: coverPath,
		fieldBlurb:     blurb,
	})
}

// UpdateFiles records which output files were produced. Failed formats
// appear as "format: FAILED".
func (t *Tracker) UpdateFiles(recordID string, files map[book.Format]string) error {
	var parts []string
	for _, f := range book.AllFormats() {
		path, ok := files[f]
		if !ok {
			continue
		}
		if path == "" {
			parts = append(parts, fmt.Sprintf("%s: FAILED", f))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f, filepath.Base(path)))
	}
	return t.update(recordID, map[string]any{
		fieldFiles:  strings.Join(parts, "\n"),
		fieldStatus: StatusFormatted,
	})
}

// UpdateUpload records the Drive folder link.
func (t *Tracker) UpdateUpload(recordID, folderLink string) error {
	return t.update(recordID, map[string]any{
		fieldDriveLink: folderLink,
		fieldStatus:    StatusUploaded,
	})
}

// UpdatePublish records the portal submission outcome.
func (t *Tracker) UpdatePublish(recordID, outcome, message string) error {
	fields := map[string]any{
		fieldPublishing: fmt.Sprintf("%s: %s", outcome, message),
	}
	if outcome == "success" {
		fields[fieldStatus] = StatusPublished
	}
	return t.update(recordID, fields)
}

// LogError marks the record failed with the error text.
func (t *Tracker) LogError(recordID string, runErr error) error {
	return t.update(recordID, map[string]any{
		fieldStatus:    StatusFailed,
		fieldLastError: runErr.Error(),
	})
}

// ListBooks returns titles matching an optional status filter.
func (t *Tracker) ListBooks(status string) ([]string, error) {
	if !t.enabled {
		return nil, nil
	}

	query := t.table.GetRecords().ReturnFields(fieldTitle, fieldStatus)
	if status != "" {
		query = query.WithFilterFormula(fmt.Sprintf("{%s}='%s'", fieldStatus, status))
	}

	result, err := query.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list airtable records: %w", err)
	}

	titles := make([]string, 0, len(result.Records))
	for _, rec := range result.Records {
		if title, ok := rec.Fields[fieldTitle].(string); ok {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// BackupEntry is one line of the local fallback log.
type BackupEntry struct {
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
	Genre     string `json:"genre"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
}

// WriteBackupLog appends an entry to a JSON-lines log next to the book
// output. Used so runs remain auditable when Airtable is disabled.
func WriteBackupLog(path string, entry BackupEntry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open backup log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write log entry: %w", err)
	}
	return nil
}
