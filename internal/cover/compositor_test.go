package cover

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestImage(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 400, 640))
	for y := 0; y < 640; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 60, B: 120, A: 255})
		}
	}

	path := filepath.Join(dir, "cover.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func TestCompose(t *testing.T) {
	dir := t.TempDir()
	src := writeTestImage(t, dir)

	c := New(nil)
	got := c.Compose(src, "Tinsel and Tension", "J. M. Everhart")

	if got == src {
		t.Fatal("Compose() should return a new path on success")
	}
	if !strings.HasPrefix(filepath.Base(got), "final_") {
		t.Fatalf("composited file name = %s, want final_ prefix", filepath.Base(got))
	}

	f, err := os.Open(got)
	if err != nil {
		t.Fatalf("composited file missing: %v", err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatalf("composited file is not a valid png: %v", err)
	}
}

func TestCompose_UnreadableImageFallsBack(t *testing.T) {
	c := New(nil)
	missing := filepath.Join(t.TempDir(), "does-not-exist.png")

	if got := c.Compose(missing, "Title", "Author"); got != missing {
		t.Fatalf("Compose() = %q, want original path %q", got, missing)
	}
}
