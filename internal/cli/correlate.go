package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tsawler/marginalia"
	"github.com/tsawler/marginalia/format"
)

type correlateFlags struct {
	report    string
	layer     string
	images    []string
	format    string
	pages     []int
	zoom      float64
	epsilon   float64
	wordLevel bool
	stopWords []string
	output    string
	pretty    bool
}

// correlateOutput is the document written by the correlate command.
type correlateOutput struct {
	*marginalia.Result
	Warnings []string `json:"warnings"`
}

func newCorrelateCmd(a *app) *cobra.Command {
	var f correlateFlags

	cmd := &cobra.Command{
		Use:                   "correlate --report <file> (--layer <file> | --images <files>) [flags]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Compute highlights for every finding in a report.",
		Example: `  # Correlate a report with an HTML text layer
  marginalia correlate --report report.json --layer protocol.html

  # Word-level highlights from an hOCR layer, pages 1 and 3 only
  marginalia correlate -r report.json -l scan.hocr --word-level --page 1,3

  # OCR page rasters (requires a build with -tags ocr)
  marginalia correlate -r report.json --images p1.png,p2.png -o highlights.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCorrelate(cmd, &f)
		},
	}

	cmd.Flags().StringVarP(&f.report, "report", "r", "", "Analyzer report (JSON).")
	cmd.Flags().StringVarP(&f.layer, "layer", "l", "", "Text layer file (HTML or hOCR).")
	cmd.Flags().StringSliceVar(&f.images, "images", nil, "Page rasters to OCR, one per page.")
	cmd.Flags().StringVar(&f.format, "format", "", "Force the text layer format (html, hocr).")
	cmd.Flags().IntSliceVarP(&f.pages, "page", "p", nil, "Pages to correlate (default all).")
	cmd.Flags().Float64Var(&f.zoom, "zoom", 0, "Zoom to compute highlights at.")
	cmd.Flags().Float64Var(&f.epsilon, "epsilon", 0, "Pixel tolerance for shared positions.")
	cmd.Flags().BoolVar(&f.wordLevel, "word-level", false, "One fragment per word for hOCR and OCR layers.")
	cmd.Flags().StringSliceVar(&f.stopWords, "stop-word", nil, "Additional words never used as keywords.")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write JSON to this file instead of stdout.")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Indent JSON output.")
	return cmd
}

func (a *app) runCorrelate(cmd *cobra.Command, f *correlateFlags) error {
	if f.report == "" {
		return fmt.Errorf("--report is required")
	}
	if f.layer == "" && len(f.images) == 0 {
		return fmt.Errorf("one of --layer or --images is required")
	}

	ann := marginalia.Open(f.report).Options(a.options).Logger(a.logger)
	if f.layer != "" {
		ann = ann.Layer(f.layer)
	} else {
		ann = ann.Images(f.images...)
	}
	if f.format != "" {
		lf := format.Parse(f.format)
		if !lf.IsTextLayer() {
			return fmt.Errorf("--format: not a text layer format: %q", f.format)
		}
		ann = ann.LayerFormat(lf)
	}

	flags := cmd.Flags()
	if changed(flags, "zoom") {
		ann = ann.Zoom(f.zoom)
	}
	if changed(flags, "epsilon") {
		ann = ann.Epsilon(f.epsilon)
	}
	if f.wordLevel {
		ann = ann.WordLevel()
	}
	if len(f.stopWords) > 0 {
		ann = ann.StopWords(f.stopWords...)
	}
	if len(f.pages) > 0 {
		ann = ann.Pages(f.pages...)
	}

	res, warnings, err := ann.Correlate(cmd.Context())
	if err != nil {
		a.logger.Error("correlation failed", "report", f.report, "error", err)
		return err
	}

	out := correlateOutput{Result: res, Warnings: make([]string, 0, len(warnings))}
	for _, w := range warnings {
		a.logger.Warn(w.Message, "kind", w.Kind.String(), "page", w.Page, "finding", w.Finding)
		out.Warnings = append(out.Warnings, w.String())
	}
	a.logger.Info("correlation finished",
		"pages", len(res.Pages),
		"visible", len(res.Visible),
		"suppressed", len(res.Suppressed),
		"not_visible", len(res.NotVisible))

	return writeJSON(cmd.OutOrStdout(), f.output, out, f.pretty)
}

// changed reports whether the named flag was set on the command line.
func changed(flags *pflag.FlagSet, name string) bool {
	fl := flags.Lookup(name)
	return fl != nil && fl.Changed
}
