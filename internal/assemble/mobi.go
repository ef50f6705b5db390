package assemble

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// mobiConvertTimeout bounds a single Calibre conversion.
const mobiConvertTimeout = 5 * time.Minute

// buildMOBI converts the EPUB to MOBI using Calibre's ebook-convert.
// The converter is external; absence or failure is reported as an
// error and the EPUB remains the distributable artifact.
func (a *Assembler) buildMOBI(ctx context.Context, epubPath, outputPath string) error {
	converter, err := exec.LookPath("ebook-convert")
	if err != nil {
		return fmt.Errorf("ebook-convert not found on PATH (install Calibre): %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, mobiConvertTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, converter, epubPath, outputPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if len(detail) > 500 {
			detail = detail[len(detail)-500:]
		}
		return fmt.Errorf("ebook-convert failed: %w: %s", err, detail)
	}
	return nil
}
