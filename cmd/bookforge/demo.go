package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmpublishing/bookforge/internal/assemble"
	"github.com/jmpublishing/bookforge/internal/book"
	"github.com/jmpublishing/bookforge/internal/track"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Assemble a sample book without calling any external service",
	Long: `Build EPUB and PDF files from built-in sample data. Useful for
verifying the toolchain and inspecting output formatting without an
API key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, err := openHome()
		if err != nil {
			return err
		}

		rec := sampleRecord()
		asm := assemble.New("J. M. Everhart", time.Now().Year(), "en", logger)

		outDir := h.BookDir(book.SafeTitle(rec.Title()))
		files, err := asm.Assemble(ctx, rec, []book.Format{book.FormatEPUB, book.FormatPDF}, outDir)
		if err != nil {
			return err
		}

		if err := track.WriteBackupLog(h.OutputDir()+"/production_log.jsonl", track.BackupEntry{
			Title:  rec.Title(),
			Genre:  rec.Concept.Niche,
			Status: "demo",
		}); err != nil {
			logger.Warn("backup log write failed", "error", err)
		}

		fmt.Printf("\n%s (%d words)\n", rec.Title(), rec.WordCount())
		for f, path := range files {
			fmt.Printf("  %s: %s\n", strings.ToUpper(string(f)), path)
		}
		return nil
	},
}

// sampleRecord returns a short fixed cozy mystery for demo builds.
func sampleRecord() *book.Record {
	return &book.Record{
		Concept: book.Concept{
			Niche:          book.GenreCozyMystery,
			Subgenre:       "Holiday Mystery",
			Hook:           "A Christmas tree decorator discovers a murder weapon inside a vintage ornament box and must solve the mystery before Christmas Eve.",
			ConceptSummary: "Emily, a struggling florist in a snowy Vermont town, takes on a seasonal side job decorating holiday homes. When she opens a delivery of antique ornaments and finds a bloody letter opener tucked inside, her quiet winter gig turns into a deadly puzzle.",
			WordCount:      17000,
			ChapterCount:   3,
		},
		Outline: book.Outline{
			Title: "Tinsel and Tension",
			Chapters: []book.ChapterStub{
				{Number: 1, Title: "The Delivery", Summary: "Emily receives a mysterious box of antique Christmas ornaments, one of which contains a bloody letter opener."},
				{Number: 2, Title: "Mistletoe and Mystery", Summary: "Emily's retired-cop father helps her investigate, uncovering connections to the town's founding family."},
				{Number: 3, Title: "Ornaments and Justice", Summary: "Emily confronts the killer and brings the decades-old mystery to a close."},
			},
			Keywords: []string{"cozy mystery", "christmas", "small town", "amateur sleuth"},
		},
		Chapters: []string{
			"The box arrived on the first snowfall of December, wrapped in brown paper gone soft at the corners.\n\nEmily Hartwell set down her pruning shears and signed for it without looking up. Another delivery of ribbon, she assumed, or the pinecones she had ordered for the Fairchild wreaths. It was neither.\n\nInside, nestled in yellowed tissue paper, lay a dozen glass ornaments older than her grandmother. And beneath them, wrapped in a linen handkerchief, a letter opener with a stain she recognized at once and wished she had not.",
			"Her father read the shipping label twice before he spoke.\n\n\"Estate sale,\" he said. \"The Abernathy place. Nobody has set foot in that house since 1987.\" He had been a cop for thirty years, and Emily knew the tone. It was the one he used when a case had never really closed.\n\nThey spent the evening with old newspapers spread across the kitchen table, the woodstove ticking, and a name kept surfacing in the clippings: Fairchild.",
			"The confession came quietly, in the back room of the antique shop, with the snow coming down hard outside.\n\nEmily listened, and when it was over she called her father, and her father called the station. By Christmas Eve the town knew the truth it had buried for forty years, and the ornaments hung on her own tree, polished and harmless at last.\n\nJake brought cinnamon rolls on Christmas morning. She let him stay.",
		},
		Blurb: "When florist Emily Hartwell finds a murder weapon hidden in a box of antique ornaments, her quiet Vermont Christmas unravels into a decades-old mystery. With her retired-cop father and a charming rival baker at her side, Emily must untangle the town's oldest secrets before the killer strikes again.",
	}
}
