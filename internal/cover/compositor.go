// Package cover composites the book title and author name onto a
// generated cover image.
package cover

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontCandidates are common system locations for a bold serif face.
// The first readable one wins; the embedded Go font is the fallback.
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSerif-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSerif-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSerif-Bold.ttf",
	"/System/Library/Fonts/Supplemental/Georgia Bold.ttf",
	"C:\\Windows\\Fonts\\georgiab.ttf",
}

// Compositor overlays text on cover images.
type Compositor struct {
	logger *slog.Logger
}

// New creates a Compositor.
func New(logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compositor{logger: logger}
}

// Compose draws title and author onto the image at coverPath and saves
// the result next to it as final_<name>.png, returning the new path.
// Compositing is best-effort: on any failure the original path is
// returned so the raw cover can still be used downstream.
func (c *Compositor) Compose(coverPath, title, author string) string {
	img, err := gg.LoadImage(coverPath)
	if err != nil {
		c.logger.Warn("cover compositing skipped: image unreadable",
			"path", coverPath, "error", err)
		return coverPath
	}

	dc := gg.NewContextForImage(img)
	w := float64(dc.Width())
	h := float64(dc.Height())

	titleSize := h / 18
	authorSize := h / 32

	titleFace, err := c.loadFace(titleSize)
	if err != nil {
		c.logger.Warn("cover compositing skipped: no usable font", "error", err)
		return coverPath
	}
	authorFace, err := c.loadFace(authorSize)
	if err != nil {
		c.logger.Warn("cover compositing skipped: no usable font", "error", err)
		return coverPath
	}

	// Title in the upper third, wrapped to 80% of the width.
	dc.SetFontFace(titleFace)
	lines := wrapToWidth(dc, strings.ToUpper(title), w*0.8)
	y := h / 4
	lineStep := titleSize * 1.3
	for _, line := range lines {
		drawOutlined(dc, line, w/2, y)
		y += lineStep
	}

	// Author near the bottom.
	dc.SetFontFace(authorFace)
	drawOutlined(dc, author, w/2, h-h/10)

	outPath := filepath.Join(filepath.Dir(coverPath), "final_"+strings.TrimSuffix(filepath.Base(coverPath), filepath.Ext(coverPath))+".png")
	if err := dc.SavePNG(outPath); err != nil {
		c.logger.Warn("cover compositing skipped: save failed",
			"path", outPath, "error", err)
		return coverPath
	}

	c.logger.Info("cover composited", "path", outPath)
	return outPath
}

// loadFace returns the first loadable candidate font at the given
// size, falling back to the embedded Go Regular face.
func (c *Compositor) loadFace(points float64) (font.Face, error) {
	for _, path := range fontCandidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		face, err := gg.LoadFontFace(path, points)
		if err == nil {
			return face, nil
		}
	}

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build embedded font face: %w", err)
	}
	return face, nil
}

// wrapToWidth greedily wraps text so each line measures at most
// maxWidth with the context's current face.
func wrapToWidth(dc *gg.Context, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if tw, _ := dc.MeasureString(candidate); tw > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

// drawOutlined draws text centered at (x, y) with a dark outline in
// all eight directions under a white fill, keeping it legible on any
// artwork.
func drawOutlined(dc *gg.Context, text string, x, y float64) {
	const offset = 2.0
	dc.SetColor(color.Black)
	for dx := -1.0; dx <= 1; dx++ {
		for dy := -1.0; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			dc.DrawStringAnchored(text, x+dx*offset, y+dy*offset, 0.5, 0.5)
		}
	}
	dc.SetColor(color.White)
	dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}
