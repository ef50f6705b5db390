package assemble

import (
	"strings"
	"testing"
)

func TestPlainToXHTML_Paragraphs(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph\nwith a continuation line."

	got := plainToXHTML(text)
	want := "<p>First paragraph.</p>\n<p>Second paragraph<br/>with a continuation line.</p>\n"
	if got != want {
		t.Fatalf("plainToXHTML() = %q, want %q", got, want)
	}
}

func TestPlainToXHTML_EscapesMarkup(t *testing.T) {
	got := plainToXHTML("Tom & Jerry say \"hi\" <loudly>.")
	if strings.Contains(got, "<loudly>") {
		t.Fatalf("markup not escaped: %s", got)
	}
	if !strings.Contains(got, "&amp;") || !strings.Contains(got, "&lt;loudly&gt;") {
		t.Fatalf("escaping incomplete: %s", got)
	}
}

func TestTextToXHTML_DetectsMarkdown(t *testing.T) {
	got := textToXHTML("## A Heading\n\nSome **bold** text.")
	if !strings.Contains(got, "<h2>A Heading</h2>") {
		t.Fatalf("heading not converted: %s", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Fatalf("bold not converted: %s", got)
	}
}

func TestTextToXHTML_PlainStaysPlain(t *testing.T) {
	got := textToXHTML("Just a sentence with a 2*3 product.")
	if strings.Contains(got, "<em>") {
		t.Fatalf("plain text should not grow emphasis: %s", got)
	}
}

func TestMarkdownToXHTML_HorizontalRule(t *testing.T) {
	got := markdownToXHTML("before\n\n---\n\nafter")
	if !strings.Contains(got, "<hr/>") {
		t.Fatalf("rule not converted: %s", got)
	}
}

func TestSplitParagraphs_CollapsesBlankRuns(t *testing.T) {
	got := splitParagraphs("a\n\n\n\nb")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("splitParagraphs() = %v", got)
	}
}
