// Package home manages the bookforge home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the bookforge home directory.
	DefaultDirName = ".bookforge"

	// BooksDirName holds one subdirectory per assembled book.
	BooksDirName = "books"

	// CoversDirName holds generated and composited cover images.
	CoversDirName = "covers"

	// OutputDirName holds diagnostic artifacts (content dumps, manifests, logs).
	OutputDirName = "output"

	// ScreenshotsDirName holds publishing-portal screenshots.
	ScreenshotsDirName = "screenshots"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the bookforge home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.bookforge).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// BooksDir returns the directory that holds assembled book files.
func (d *Dir) BooksDir() string {
	return filepath.Join(d.path, BooksDirName)
}

// BookDir returns the output directory for a single book.
func (d *Dir) BookDir(safeTitle string) string {
	return filepath.Join(d.BooksDir(), safeTitle)
}

// CoversDir returns the directory for cover images.
func (d *Dir) CoversDir() string {
	return filepath.Join(d.path, CoversDirName)
}

// OutputDir returns the directory for diagnostic artifacts.
func (d *Dir) OutputDir() string {
	return filepath.Join(d.path, OutputDirName)
}

// ScreenshotsDir returns the directory for portal screenshots.
func (d *Dir) ScreenshotsDir() string {
	return filepath.Join(d.path, ScreenshotsDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{
		d.BooksDir(),
		d.CoversDir(),
		d.OutputDir(),
		d.ScreenshotsDir(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
