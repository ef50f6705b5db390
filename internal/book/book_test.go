package book

import (
	"testing"
)

func TestSafeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tinsel and Tension", "Tinsel_and_Tension"},
		{"Who's There?", "Whos_There"},
		{"Fire & Ice: A Love Story!", "Fire_&_Ice_A_Love_Story"},
		{`Back\Slash/Forward`, "BackSlashForward"},
	}

	for _, tt := range tests {
		if got := SafeTitle(tt.in); got != tt.want {
			t.Fatalf("SafeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutlineValidate(t *testing.T) {
	o := Outline{
		Title: "Test",
		Chapters: []ChapterStub{
			{Number: 1, Title: "One", Summary: "first"},
			{Number: 2, Title: "Two", Summary: "second"},
		},
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestOutlineValidate_NonContiguousNumbers(t *testing.T) {
	o := Outline{
		Title: "Test",
		Chapters: []ChapterStub{
			{Number: 1, Title: "One"},
			{Number: 3, Title: "Three"},
		},
	}
	if err := o.Validate(); err == nil {
		t.Fatal("Validate() should reject non-contiguous chapter numbers")
	}
}

func TestOutlineValidate_Empty(t *testing.T) {
	o := Outline{Title: "Test"}
	if err := o.Validate(); err == nil {
		t.Fatal("Validate() should reject an outline with no chapters")
	}
}

func TestRecordValidate_CountMismatch(t *testing.T) {
	rec := Record{
		Outline: Outline{
			Title: "Test",
			Chapters: []ChapterStub{
				{Number: 1, Title: "One"},
				{Number: 2, Title: "Two"},
			},
		},
		Chapters: []string{"only one"},
	}
	if err := rec.Validate(); err == nil {
		t.Fatal("Validate() should reject a chapter count mismatch")
	}
}

func TestRecordWordCount(t *testing.T) {
	rec := Record{Chapters: []string{"one two three", "four five"}}
	if got := rec.WordCount(); got != 5 {
		t.Fatalf("WordCount() = %d, want 5", got)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" EPUB "); err != nil || f != FormatEPUB {
		t.Fatalf("ParseFormat(\" EPUB \") = %v, %v", f, err)
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatal("ParseFormat(\"docx\") should fail")
	}
}

func TestValidGenre(t *testing.T) {
	if !ValidGenre(GenreCozyMystery) {
		t.Fatal("GenreCozyMystery should be valid")
	}
	if ValidGenre("Space Opera") {
		t.Fatal("unsupported genre should be invalid")
	}
}
