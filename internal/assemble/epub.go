package assemble

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmpublishing/bookforge/internal/book"
)

// epubPage is one spine entry: an XHTML file plus its display title.
type epubPage struct {
	ID    string
	File  string // relative to OEBPS/
	Title string
}

// epubBuilder assembles an EPUB 3.0 container for one book record.
type epubBuilder struct {
	rec      *book.Record
	author   string
	language string
	modified time.Time

	coverData []byte
	coverExt  string // ".png" or ".jpg"; empty when no cover

	pages []epubPage
}

// buildEPUB writes the EPUB for rec to outputPath.
func (a *Assembler) buildEPUB(rec *book.Record, outputPath string) error {
	eb := &epubBuilder{
		rec:      rec,
		author:   a.Author,
		language: a.Language,
		modified: a.Now().UTC(),
	}

	if rec.CoverPath != "" {
		data, err := os.ReadFile(rec.CoverPath)
		if err != nil {
			a.logger.Warn("cover unreadable, building epub without it",
				"path", rec.CoverPath, "error", err)
		} else {
			eb.coverData = data
			eb.coverExt = strings.ToLower(filepath.Ext(rec.CoverPath))
			if eb.coverExt != ".jpg" && eb.coverExt != ".jpeg" {
				eb.coverExt = ".png"
			}
		}
	}

	eb.layoutPages()

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return eb.writeTo(f)
}

// layoutPages fixes the spine order: cover, title page, table of
// contents, chapters, blurb.
func (eb *epubBuilder) layoutPages() {
	if eb.coverData != nil {
		eb.pages = append(eb.pages, epubPage{ID: "cover", File: "cover.xhtml", Title: "Cover"})
	}
	eb.pages = append(eb.pages,
		epubPage{ID: "title-page", File: "title.xhtml", Title: "Title Page"},
		epubPage{ID: "toc-page", File: "toc.xhtml", Title: "Table of Contents"},
	)
	for _, ch := range eb.rec.Outline.Chapters {
		eb.pages = append(eb.pages, epubPage{
			ID:    fmt.Sprintf("chapter-%d", ch.Number),
			File:  fmt.Sprintf("chapter_%d.xhtml", ch.Number),
			Title: fmt.Sprintf("Chapter %d: %s", ch.Number, ch.Title),
		})
	}
	if strings.TrimSpace(eb.rec.Blurb) != "" {
		eb.pages = append(eb.pages, epubPage{ID: "blurb", File: "blurb.xhtml", Title: "About This Book"})
	}
}

func (eb *epubBuilder) writeTo(w io.Writer) error {
	zw := zip.NewWriter(w)
	defer zw.Close()

	// mimetype must be first and uncompressed.
	header := &zip.FileHeader{Name: "mimetype", Method: zip.Store}
	mw, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create mimetype: %w", err)
	}
	if _, err := mw.Write([]byte("application/epub+zip")); err != nil {
		return err
	}

	files := []struct {
		name    string
		content func() string
	}{
		{"META-INF/container.xml", eb.containerXML},
		{"OEBPS/content.opf", eb.packageOPF},
		{"OEBPS/nav.xhtml", eb.navXHTML},
		{"OEBPS/toc.ncx", eb.tocNCX},
		{"OEBPS/styles/style.css", func() string { return epubStylesheet }},
		{"OEBPS/title.xhtml", eb.titleXHTML},
		{"OEBPS/toc.xhtml", eb.tocXHTML},
	}
	if eb.coverData != nil {
		files = append(files, struct {
			name    string
			content func() string
		}{"OEBPS/cover.xhtml", eb.coverXHTML})
	}
	for i, ch := range eb.rec.Outline.Chapters {
		ch, text := ch, eb.rec.Chapters[i]
		files = append(files, struct {
			name    string
			content func() string
		}{
			fmt.Sprintf("OEBPS/chapter_%d.xhtml", ch.Number),
			func() string { return eb.chapterXHTML(ch, text) },
		})
	}
	if strings.TrimSpace(eb.rec.Blurb) != "" {
		files = append(files, struct {
			name    string
			content func() string
		}{"OEBPS/blurb.xhtml", eb.blurbXHTML})
	}

	for _, fl := range files {
		fw, err := zw.Create(fl.name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", fl.name, err)
		}
		if _, err := fw.Write([]byte(fl.content())); err != nil {
			return fmt.Errorf("failed to write %s: %w", fl.name, err)
		}
	}

	if eb.coverData != nil {
		fw, err := zw.Create("OEBPS/images/cover" + eb.coverExt)
		if err != nil {
			return fmt.Errorf("failed to create cover image: %w", err)
		}
		if _, err := fw.Write(eb.coverData); err != nil {
			return fmt.Errorf("failed to write cover image: %w", err)
		}
	}

	return nil
}

// identifier derives a stable publication identifier from the title
// and author so rebuilding the same book yields the same EPUB bytes.
func (eb *epubBuilder) identifier() string {
	seed := "bookforge:" + eb.rec.Title() + ":" + eb.author
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

func (eb *epubBuilder) containerXML() string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
}

func (eb *epubBuilder) packageOPF() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="pub-id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
`)
	sb.WriteString(fmt.Sprintf("    <dc:identifier id=\"pub-id\">%s</dc:identifier>\n", eb.identifier()))
	sb.WriteString(fmt.Sprintf("    <dc:title>%s</dc:title>\n", escapeXML(eb.rec.Title())))
	sb.WriteString(fmt.Sprintf("    <dc:creator>%s</dc:creator>\n", escapeXML(eb.author)))
	sb.WriteString(fmt.Sprintf("    <dc:language>%s</dc:language>\n", eb.language))
	sb.WriteString(fmt.Sprintf("    <meta property=\"dcterms:modified\">%s</meta>\n",
		eb.modified.Format("2006-01-02T15:04:05Z")))
	if eb.coverData != nil {
		sb.WriteString("    <meta name=\"cover\" content=\"cover-image\"/>\n")
	}
	sb.WriteString("  </metadata>\n\n")

	sb.WriteString("  <manifest>\n")
	sb.WriteString("    <item id=\"nav\" href=\"nav.xhtml\" media-type=\"application/xhtml+xml\" properties=\"nav\"/>\n")
	sb.WriteString("    <item id=\"ncx\" href=\"toc.ncx\" media-type=\"application/x-dtbncx+xml\"/>\n")
	sb.WriteString("    <item id=\"style\" href=\"styles/style.css\" media-type=\"text/css\"/>\n")
	if eb.coverData != nil {
		sb.WriteString(fmt.Sprintf("    <item id=\"cover-image\" href=\"images/cover%s\" media-type=\"%s\" properties=\"cover-image\"/>\n",
			eb.coverExt, coverMediaType(eb.coverExt)))
	}
	for _, p := range eb.pages {
		sb.WriteString(fmt.Sprintf("    <item id=\"%s\" href=\"%s\" media-type=\"application/xhtml+xml\"/>\n", p.ID, p.File))
	}
	sb.WriteString("  </manifest>\n\n")

	sb.WriteString("  <spine toc=\"ncx\">\n")
	for _, p := range eb.pages {
		sb.WriteString(fmt.Sprintf("    <itemref idref=\"%s\"/>\n", p.ID))
	}
	sb.WriteString("  </spine>\n")
	sb.WriteString("</package>\n")

	return sb.String()
}

func coverMediaType(ext string) string {
	if ext == ".jpg" || ext == ".jpeg" {
		return "image/jpeg"
	}
	return "image/png"
}

func (eb *epubBuilder) navXHTML() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head>
  <title>Table of Contents</title>
  <link rel="stylesheet" type="text/css" href="styles/style.css"/>
</head>
<body>
  <nav epub:type="toc" id="toc">
    <h1>Table of Contents</h1>
    <ol>
`)
	for _, p := range eb.pages {
		sb.WriteString(fmt.Sprintf("      <li><a href=\"%s\">%s</a></li>\n", p.File, escapeXML(p.Title)))
	}
	sb.WriteString(`    </ol>
  </nav>
</body>
</html>
`)
	return sb.String()
}

// tocNCX writes the NCX for ePub 2 reader compatibility.
func (eb *epubBuilder) tocNCX() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="`)
	sb.WriteString(eb.identifier())
	sb.WriteString(`"/>
    <meta name="dtb:depth" content="1"/>
    <meta name="dtb:totalPageCount" content="0"/>
    <meta name="dtb:maxPageNumber" content="0"/>
  </head>
  <docTitle>
    <text>`)
	sb.WriteString(escapeXML(eb.rec.Title()))
	sb.WriteString(`</text>
  </docTitle>
  <navMap>
`)
	for i, p := range eb.pages {
		sb.WriteString(fmt.Sprintf("    <navPoint id=\"navpoint-%d\" playOrder=\"%d\">\n", i+1, i+1))
		sb.WriteString(fmt.Sprintf("      <navLabel><text>%s</text></navLabel>\n", escapeXML(p.Title)))
		sb.WriteString(fmt.Sprintf("      <content src=\"%s\"/>\n", p.File))
		sb.WriteString("    </navPoint>\n")
	}
	sb.WriteString(`  </navMap>
</ncx>
`)
	return sb.String()
}

func (eb *epubBuilder) coverXHTML() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>Cover</title>
  <link rel="stylesheet" type="text/css" href="styles/style.css"/>
</head>
<body class="cover">
<img src="images/cover%s" alt="%s"/>
</body>
</html>
`, eb.coverExt, escapeXML(eb.rec.Title()))
}

func (eb *epubBuilder) titleXHTML() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>%s</title>
  <link rel="stylesheet" type="text/css" href="styles/style.css"/>
</head>
<body class="title-page">
<h1>%s</h1>
<p class="author">%s</p>
</body>
</html>
`, escapeXML(eb.rec.Title()), escapeXML(eb.rec.Title()), escapeXML(eb.author))
}

// tocXHTML is the in-book visible contents page, distinct from the
// reader-level nav.xhtml.
func (eb *epubBuilder) tocXHTML() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>Table of Contents</title>
  <link rel="stylesheet" type="text/css" href="styles/style.css"/>
</head>
<body>
<h1>Table of Contents</h1>
<ol class="contents">
`)
	for _, ch := range eb.rec.Outline.Chapters {
		sb.WriteString(fmt.Sprintf("  <li><a href=\"chapter_%d.xhtml\">%s</a></li>\n",
			ch.Number, escapeXML(ch.Title)))
	}
	sb.WriteString(`</ol>
</body>
</html>
`)
	return sb.String()
}

func (eb *epubBuilder) chapterXHTML(ch book.ChapterStub, text string) string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>`)
	sb.WriteString(escapeXML(ch.Title))
	sb.WriteString(`</title>
  <link rel="stylesheet" type="text/css" href="styles/style.css"/>
</head>
<body>
`)
	sb.WriteString(fmt.Sprintf("<div class=\"chapter-title\">\n<p class=\"chapter-number\">Chapter %d</p>\n<h1>%s</h1>\n</div>\n",
		ch.Number, escapeXML(ch.Title)))
	sb.WriteString(textToXHTML(text))
	sb.WriteString("\n</body>\n</html>\n")

	return sb.String()
}

func (eb *epubBuilder) blurbXHTML() string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>About This Book</title>
  <link rel="stylesheet" type="text/css" href="styles/style.css"/>
</head>
<body class="back-matter">
<h1>About This Book</h1>
`)
	sb.WriteString(textToXHTML(eb.rec.Blurb))
	sb.WriteString("\n</body>\n</html>\n")

	return sb.String()
}

const epubStylesheet = `/* BookForge ePub Stylesheet */

body {
  font-family: Georgia, "Times New Roman", serif;
  font-size: 1em;
  line-height: 1.6;
  margin: 1em;
  text-align: justify;
}

h1, h2, h3 {
  font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
  font-weight: bold;
  margin-top: 1.5em;
  margin-bottom: 0.5em;
  text-align: left;
}

h1 {
  font-size: 1.8em;
}

p {
  margin: 0.5em 0;
  text-indent: 1.5em;
}

p:first-of-type,
h1 + p, h2 + p, h3 + p {
  text-indent: 0;
}

.cover img {
  max-width: 100%;
  height: auto;
}

.title-page {
  text-align: center;
  margin-top: 5em;
}

.title-page .author {
  font-size: 1.2em;
  text-indent: 0;
  margin-top: 2em;
}

.chapter-title {
  text-align: center;
  margin-top: 3em;
  margin-bottom: 2em;
}

.chapter-number {
  font-size: 0.9em;
  text-transform: uppercase;
  letter-spacing: 0.1em;
  text-indent: 0;
  margin-bottom: 0.5em;
}

ol.contents {
  list-style: none;
  padding-left: 0;
}

ol.contents li {
  margin: 0.5em 0;
}

.back-matter {
  font-size: 0.95em;
}
`
