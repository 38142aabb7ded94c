package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/marginalia"
	"github.com/tsawler/marginalia/format"
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/textlayer"
)

type pagesFlags struct {
	layer     string
	images    []string
	format    string
	pages     []int
	zoom      float64
	wordLevel bool
	json      bool
}

type pageFragments struct {
	Page      int                  `json:"page"`
	Bounds    model.Box            `json:"bounds"`
	Text      string               `json:"text"`
	Fragments []textlayer.Fragment `json:"fragments"`
}

type pagesOutput struct {
	PageCount int             `json:"page_count"`
	Pages     []pageFragments `json:"pages"`
}

func newPagesCmd(a *app) *cobra.Command {
	var f pagesFlags

	cmd := &cobra.Command{
		Use:                   "pages (--layer <file> | --images <files>) [flags]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Dump the text fragments of a text layer.",
		Example: `  # Fragments of every page at 100% zoom
  marginalia pages --layer protocol.html

  # Word fragments of page 2 as JSON
  marginalia pages -l scan.hocr --word-level --page 2 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPages(cmd, &f)
		},
	}

	cmd.Flags().StringVarP(&f.layer, "layer", "l", "", "Text layer file (HTML or hOCR).")
	cmd.Flags().StringSliceVar(&f.images, "images", nil, "Page rasters to OCR, one per page.")
	cmd.Flags().StringVar(&f.format, "format", "", "Force the text layer format (html, hocr).")
	cmd.Flags().IntSliceVarP(&f.pages, "page", "p", nil, "Pages to dump (default all).")
	cmd.Flags().Float64Var(&f.zoom, "zoom", 1, "Zoom to scale fragment boxes by.")
	cmd.Flags().BoolVar(&f.wordLevel, "word-level", false, "One fragment per word for hOCR and OCR layers.")
	cmd.Flags().BoolVar(&f.json, "json", false, "Write fragments as JSON.")
	return cmd
}

func (a *app) runPages(cmd *cobra.Command, f *pagesFlags) error {
	ann := marginalia.FromFindings().Options(a.options)
	switch {
	case f.layer != "":
		ann = ann.Layer(f.layer)
	case len(f.images) > 0:
		ann = ann.Images(f.images...)
	default:
		return fmt.Errorf("one of --layer or --images is required")
	}
	if f.format != "" {
		lf := format.Parse(f.format)
		if !lf.IsTextLayer() {
			return fmt.Errorf("--format: not a text layer format: %q", f.format)
		}
		ann = ann.LayerFormat(lf)
	}
	if f.wordLevel {
		ann = ann.WordLevel()
	}

	ctx := cmd.Context()
	src, err := ann.TextLayer(ctx)
	if err != nil {
		return err
	}

	selected := f.pages
	if len(selected) == 0 {
		for p := 1; p <= src.PageCount(); p++ {
			selected = append(selected, p)
		}
	}

	out := pagesOutput{PageCount: src.PageCount()}
	for _, p := range selected {
		ix, err := textlayer.Load(ctx, src, p, f.zoom)
		if err != nil {
			return fmt.Errorf("page %d: %w", p, err)
		}
		a.logger.Debug("page loaded", "page", p, "fragments", ix.Len())
		out.Pages = append(out.Pages, pageFragments{
			Page:      p,
			Bounds:    ix.Bounds(),
			Text:      ix.Text(),
			Fragments: ix.Fragments(),
		})
	}

	if f.json {
		return writeJSON(cmd.OutOrStdout(), "", out, true)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%d pages\n", out.PageCount)
	for _, pf := range out.Pages {
		fmt.Fprintf(w, "\npage %d (%d fragments)", pf.Page, len(pf.Fragments))
		if b := pf.Bounds; !b.IsEmpty() {
			fmt.Fprintf(w, " text within [%.1f,%.1f %.1fx%.1f]", b.Left, b.Top, b.Width, b.Height)
		}
		fmt.Fprintln(w)
		for _, fr := range pf.Fragments {
			b := fr.Box
			fmt.Fprintf(w, "  [%.1f,%.1f %.1fx%.1f] %s\n", b.Left, b.Top, b.Width, b.Height, fr.Content)
		}
	}
	return nil
}
