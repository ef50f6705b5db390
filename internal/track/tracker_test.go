package track

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmpublishing/bookforge/internal/book"
)

func TestNew_UnconfiguredIsDisabledNoOp(t *testing.T) {
	tr := New(Config{}, nil)

	if tr.Enabled() {
		t.Fatal("tracker without credentials should be disabled")
	}

	id, err := tr.CreateBook(book.Concept{Niche: book.GenreCozyMystery}, "Test")
	if err != nil {
		t.Fatalf("CreateBook() on disabled tracker error = %v", err)
	}
	if id != "" {
		t.Fatalf("CreateBook() on disabled tracker id = %q, want empty", id)
	}
	if err := tr.UpdateChapters(id, 1, 3, 900); err != nil {
		t.Fatalf("UpdateChapters() on disabled tracker error = %v", err)
	}
	if err := tr.LogError(id, fmt.Errorf("boom")); err != nil {
		t.Fatalf("LogError() on disabled tracker error = %v", err)
	}
}

func TestWriteBackupLog_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "production_log.jsonl")

	entries := []BackupEntry{
		{Title: "First Book", Genre: book.GenreCozyMystery, Status: "assembled"},
		{Title: "Second Book", Genre: book.GenreParanormalRomance, Status: "demo"},
	}
	for _, e := range entries {
		if err := WriteBackupLog(path, e); err != nil {
			t.Fatalf("WriteBackupLog() error = %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	defer f.Close()

	var got []BackupEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e BackupEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("invalid log line: %v", err)
		}
		got = append(got, e)
	}

	if len(got) != 2 {
		t.Fatalf("log lines = %d, want 2", len(got))
	}
	if got[0].Title != "First Book" || got[1].Title != "Second Book" {
		t.Fatalf("unexpected entries: %+v", got)
	}
	if got[0].Timestamp == "" {
		t.Fatal("timestamp should be filled when empty")
	}
}
