package assemble

import (
	"regexp"
	"strings"
)

// textToXHTML converts generated prose to XHTML. Model output is
// usually plain text with blank-line paragraph breaks, but some runs
// come back with light markdown; both are handled.
func textToXHTML(text string) string {
	if hasMarkdown(text) {
		return markdownToXHTML(text)
	}
	return plainToXHTML(text)
}

// hasMarkdown reports whether text uses markdown markers that the
// plain converter would render literally.
func hasMarkdown(text string) bool {
	if strings.Contains(text, "**") {
		return true
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") ||
			strings.HasPrefix(trimmed, "## ") ||
			strings.HasPrefix(trimmed, "### ") {
			return true
		}
	}
	return false
}

// plainToXHTML treats blank lines as paragraph breaks and single
// newlines within a paragraph as line breaks.
func plainToXHTML(text string) string {
	var sb strings.Builder

	for _, para := range splitParagraphs(text) {
		lines := strings.Split(para, "\n")
		sb.WriteString("<p>")
		for i, line := range lines {
			if i > 0 {
				sb.WriteString("<br/>")
			}
			sb.WriteString(escapeXML(strings.TrimSpace(line)))
		}
		sb.WriteString("</p>\n")
	}

	return sb.String()
}

// splitParagraphs splits text on runs of blank lines, dropping empty
// paragraphs.
func splitParagraphs(text string) []string {
	var paras []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paras
}

// markdownToXHTML converts markdown-formatted text to XHTML. This is a
// simple converter that handles the cases models actually emit.
func markdownToXHTML(md string) string {
	var result strings.Builder
	var inParagraph bool

	closeParagraph := func() {
		if inParagraph {
			result.WriteString("</p>\n")
			inParagraph = false
		}
	}

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			closeParagraph()
			continue
		}

		if strings.HasPrefix(trimmed, "# ") {
			closeParagraph()
			result.WriteString("<h1>")
			result.WriteString(escapeXML(strings.TrimPrefix(trimmed, "# ")))
			result.WriteString("</h1>\n")
			continue
		}
		if strings.HasPrefix(trimmed, "## ") {
			closeParagraph()
			result.WriteString("<h2>")
			result.WriteString(escapeXML(strings.TrimPrefix(trimmed, "## ")))
			result.WriteString("</h2>\n")
			continue
		}
		if strings.HasPrefix(trimmed, "### ") {
			closeParagraph()
			result.WriteString("<h3>")
			result.WriteString(escapeXML(strings.TrimPrefix(trimmed, "### ")))
			result.WriteString("</h3>\n")
			continue
		}

		if trimmed == "---" || trimmed == "***" || trimmed == "___" {
			closeParagraph()
			result.WriteString("<hr/>\n")
			continue
		}

		if !inParagraph {
			result.WriteString("<p>")
			inParagraph = true
		} else {
			result.WriteString(" ")
		}
		result.WriteString(processInlineFormatting(trimmed))
	}
	closeParagraph()

	return result.String()
}

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
)

// processInlineFormatting handles bold and italic inline markdown.
func processInlineFormatting(text string) string {
	text = escapeXML(text)

	text = boldRe.ReplaceAllStringFunc(text, func(match string) string {
		inner := strings.Trim(match, "*_")
		return "<strong>" + inner + "</strong>"
	})

	text = italicRe.ReplaceAllStringFunc(text, func(match string) string {
		inner := strings.Trim(match, "*_")
		return "<em>" + inner + "</em>"
	})

	return text
}

// escapeXML escapes special XML characters.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
