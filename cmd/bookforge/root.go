package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmpublishing/bookforge/internal/home"
	"github.com/jmpublishing/bookforge/version"
)

var (
	cfgFile string
	homeDir string
)

var rootCmd = &cobra.Command{
	Use:   "bookforge",
	Short: "Automated e-book production and publishing pipeline",
	Long: `BookForge generates complete commercial e-books and shepherds them to
distribution.

The pipeline includes:
  - Concept, outline, chapter, and blurb generation
  - Cover art generation with title and author compositing
  - EPUB, PDF, and MOBI assembly
  - Airtable production tracking
  - Google Drive backup and distribution portal submission`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.bookforge/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "bookforge home directory (default: ~/.bookforge)",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(promptsCmd)
}

// newLogger builds the process-wide text logger.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// openHome resolves and creates the home directory layout.
func openHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}
	return h, nil
}
