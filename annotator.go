package marginalia

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"

	"github.com/tsawler/marginalia/controller"
	"github.com/tsawler/marginalia/format"
	"github.com/tsawler/marginalia/keywords"
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/ocr"
	"github.com/tsawler/marginalia/report"
	"github.com/tsawler/marginalia/textlayer"
)

// Annotator provides a fluent interface for correlating analyzer findings
// with a document's text layer. Each configuration method returns a new
// Annotator instance, making it safe for concurrent use and allowing method
// chaining.
type Annotator struct {
	// Findings
	reportPath string
	report     *report.Report
	findings   []model.Finding

	// Text layer
	layerPath   string
	layerFormat format.Format
	images      []string
	source      textlayer.Source

	// Configuration
	options Options
	logger  hclog.Logger
	pages   []int

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Annotator with deep copies of the
// slices chain methods append to. Each chain method returns a new instance.
func (a *Annotator) clone() *Annotator {
	return &Annotator{
		reportPath:  a.reportPath,
		report:      a.report,
		findings:    a.findings,
		layerPath:   a.layerPath,
		layerFormat: a.layerFormat,
		images:      append([]string(nil), a.images...),
		source:      a.source,
		options:     a.options.clone(),
		logger:      a.logger,
		pages:       append([]int(nil), a.pages...),
		err:         a.err,
	}
}

// ============================================================================
// Configuration Methods (return new Annotator instance)
// ============================================================================

// Layer sets the text layer file. The format is taken from the extension
// (.html, .hocr, or a page raster for OCR) and sniffed from the content
// when the extension is not recognized.
//
// Example:
//
//	res, _, err := marginalia.Open("report.json").Layer("protocol.html").Correlate(ctx)
func (a *Annotator) Layer(path string) *Annotator {
	newA := a.clone()
	newA.layerPath = path
	newA.images = nil
	newA.source = nil
	return newA
}

// LayerFormat forces the text layer format instead of detecting it.
func (a *Annotator) LayerFormat(f format.Format) *Annotator {
	newA := a.clone()
	newA.layerFormat = f
	return newA
}

// Images sets one page raster per page. Their text layer is produced by OCR,
// which requires building with the "ocr" tag.
func (a *Annotator) Images(paths ...string) *Annotator {
	newA := a.clone()
	newA.images = append([]string(nil), paths...)
	newA.layerPath = ""
	newA.source = nil
	return newA
}

// Source sets a text layer already held in memory, such as one supplied by
// a rendering host.
func (a *Annotator) Source(src textlayer.Source) *Annotator {
	newA := a.clone()
	newA.source = src
	newA.layerPath = ""
	newA.images = nil
	return newA
}

// Options replaces all options.
func (a *Annotator) Options(opts Options) *Annotator {
	newA := a.clone()
	if err := opts.Validate(); err != nil && newA.err == nil {
		newA.err = err
	}
	newA.options = opts.clone()
	return newA
}

// Config loads options from a YAML file.
//
// Example:
//
//	res, _, err := marginalia.Open("report.json").
//	    Config("marginalia.yaml").
//	    Layer("protocol.html").
//	    Correlate(ctx)
func (a *Annotator) Config(path string) *Annotator {
	newA := a.clone()
	opts, err := LoadOptions(path)
	if err != nil {
		if newA.err == nil {
			newA.err = err
		}
		return newA
	}
	newA.options = opts
	return newA
}

// Epsilon sets the pixel tolerance under which two highlights count as the
// same position.
func (a *Annotator) Epsilon(eps float64) *Annotator {
	newA := a.clone()
	if eps < 0 && newA.err == nil {
		newA.err = fmt.Errorf("epsilon must not be negative, got %v", eps)
	}
	newA.options.Epsilon = eps
	return newA
}

// Zoom sets the zoom highlights are computed at. It is clamped and snapped
// like the viewer's zoom control.
func (a *Annotator) Zoom(z float64) *Annotator {
	newA := a.clone()
	newA.options.DefaultZoom = z
	return newA
}

// StopWords adds words that are never used as keywords.
// Multiple calls are cumulative.
func (a *Annotator) StopWords(words ...string) *Annotator {
	newA := a.clone()
	newA.options.StopWords = append(newA.options.StopWords, words...)
	return newA
}

// WordLevel makes hOCR and OCR text layers produce one fragment per word
// instead of one per line.
func (a *Annotator) WordLevel() *Annotator {
	newA := a.clone()
	newA.options.HOCRLevel = textlayer.LevelWord.String()
	return newA
}

// Logger sets the logger that receives controller events.
func (a *Annotator) Logger(l hclog.Logger) *Annotator {
	newA := a.clone()
	newA.logger = l
	return newA
}

// Pages specifies which pages to correlate (1-indexed).
// Multiple calls are cumulative.
func (a *Annotator) Pages(pages ...int) *Annotator {
	newA := a.clone()
	newA.pages = append(newA.pages, pages...)
	return newA
}

// PageRange specifies a range of pages to correlate (1-indexed, inclusive).
func (a *Annotator) PageRange(start, end int) *Annotator {
	newA := a.clone()
	for i := start; i <= end; i++ {
		newA.pages = append(newA.pages, i)
	}
	return newA
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Findings returns the findings in the global ordering with keywords filled
// in. Findings whose keywords are all too short to match are reported as
// warnings.
func (a *Annotator) Findings() ([]model.Finding, []Warning, error) {
	if a.err != nil {
		return nil, nil, a.err
	}

	findings, err := a.loadFindings()
	if err != nil {
		return nil, nil, err
	}
	return findings, a.unmatchable(findings), nil
}

// PageCount returns the number of pages in the text layer.
func (a *Annotator) PageCount(ctx context.Context) (int, error) {
	if a.err != nil {
		return 0, a.err
	}

	src, err := a.loadSource(ctx)
	if err != nil {
		return 0, err
	}
	return src.PageCount(), nil
}

// TextLayer opens the configured text layer without correlating anything.
func (a *Annotator) TextLayer(ctx context.Context) (textlayer.Source, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.loadSource(ctx)
}

// Controller returns a controller loaded with the findings and text layer,
// ready for interactive paging.
func (a *Annotator) Controller(ctx context.Context) (*controller.Controller, []Warning, error) {
	ctrl, _, warnings, err := a.load(ctx)
	return ctrl, warnings, err
}

// Correlate runs the highlight pipeline over every selected page and
// returns the per-page overlays together with a document-wide summary.
// Pages whose text layer is empty or unavailable produce warnings, not
// errors, as do findings that are visible on no page.
//
// Example:
//
//	res, warnings, err := marginalia.Open("report.json").
//	    Layer("protocol.html").
//	    Correlate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range res.Pages {
//	    for _, o := range p.Overlays {
//	        fmt.Println(p.Page, o.Severity, o.Title)
//	    }
//	}
func (a *Annotator) Correlate(ctx context.Context) (*Result, []Warning, error) {
	ctrl, src, warnings, err := a.load(ctx)
	if err != nil {
		return nil, warnings, err
	}

	pages, err := a.resolvePages(src.PageCount())
	if err != nil {
		return nil, warnings, err
	}

	res := &Result{Findings: ctrl.Findings()}
	for _, p := range pages {
		if err := ctrl.SetPage(p); err != nil {
			return nil, warnings, err
		}
		t, err := ctrl.Ticket()
		if err != nil {
			return nil, warnings, err
		}

		ix, err := textlayer.Load(ctx, src, t.Page, t.Zoom)
		if err != nil {
			if ctx.Err() != nil {
				return nil, warnings, ctx.Err()
			}
			warnings = append(warnings, Warning{
				Kind:    WarningTextLayer,
				Page:    p,
				Finding: -1,
				Message: err.Error(),
			})
			if err := ctrl.FragmentsUnavailable(t); err != nil {
				return nil, warnings, err
			}
			res.Pages = append(res.Pages, PageResult{Page: p, Available: false})
			continue
		}

		if ix.IsEmpty() {
			warnings = append(warnings, Warning{
				Kind:    WarningEmptyPage,
				Page:    p,
				Finding: -1,
				Message: "page has no text layer fragments",
			})
		}

		rep, err := ctrl.OnFragmentsAvailable(t, ix.Fragments())
		if err != nil {
			return nil, warnings, err
		}
		res.Pages = append(res.Pages, PageResult{
			Page:      p,
			Available: true,
			Fragments: ix.Len(),
			Overlays:  ctrl.Overlays(),
			Report:    rep,
		})
	}

	res.summarize()
	for _, id := range res.NotVisible {
		warnings = append(warnings, Warning{
			Kind:    WarningNotVisible,
			Finding: id,
			Message: "not visible in this document",
		})
	}
	return res, warnings, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// load builds a controller over the findings and the text layer.
func (a *Annotator) load(ctx context.Context) (*controller.Controller, textlayer.Source, []Warning, error) {
	findings, warnings, err := a.Findings()
	if err != nil {
		return nil, nil, nil, err
	}

	src, err := a.loadSource(ctx)
	if err != nil {
		return nil, nil, warnings, err
	}

	ctrl := controller.New(a.options.controllerConfig(a.logger))
	if err := ctrl.LoadSource(src, findings); err != nil {
		return nil, nil, warnings, err
	}
	return ctrl, src, warnings, nil
}

// loadFindings resolves the finding source and fills in missing keywords.
func (a *Annotator) loadFindings() ([]model.Finding, error) {
	var findings []model.Finding

	switch {
	case a.report != nil || a.reportPath != "":
		rep := a.report
		if rep == nil {
			var err error
			rep, err = report.Open(a.reportPath)
			if err != nil {
				return nil, err
			}
		}
		fs, err := rep.Findings()
		if err != nil {
			return nil, err
		}
		findings = fs

	case a.findings != nil:
		if err := model.ValidateFindings(a.findings); err != nil {
			return nil, err
		}
		findings = make([]model.Finding, len(a.findings))
		copy(findings, a.findings)

	default:
		return nil, errors.New("no findings specified")
	}

	ext := keywords.New(a.options.keywordConfig())
	for i := range findings {
		if len(findings[i].Keywords) == 0 {
			findings[i].Keywords = ext.Extract(findings[i].Text)
		} else {
			findings[i].Keywords = append([]string(nil), findings[i].Keywords...)
		}
	}
	return findings, nil
}

// unmatchable warns about findings none of whose keywords is long enough
// to take part in matching.
func (a *Annotator) unmatchable(findings []model.Finding) []Warning {
	minLen := a.options.MinKeywordLength
	if minLen <= 0 {
		minLen = DefaultOptions().MinKeywordLength
	}

	var warnings []Warning
	for _, f := range findings {
		usable := false
		for _, kw := range f.Keywords {
			if utf8.RuneCountInString(keywords.Fold(kw)) > minLen {
				usable = true
				break
			}
		}
		if !usable {
			warnings = append(warnings, Warning{
				Kind:    WarningUnmatchable,
				Finding: f.ID,
				Message: fmt.Sprintf("no keyword longer than %d characters", minLen),
			})
		}
	}
	return warnings
}

// loadSource opens the configured text layer.
func (a *Annotator) loadSource(ctx context.Context) (textlayer.Source, error) {
	switch {
	case a.source != nil:
		return a.source, nil
	case len(a.images) > 0:
		return a.recognize(ctx, a.images)
	case a.layerPath != "":
		return a.openLayer(ctx)
	default:
		return nil, errors.New("no text layer specified")
	}
}

// openLayer parses the text layer file according to its format.
func (a *Annotator) openLayer(ctx context.Context) (textlayer.Source, error) {
	f := a.layerFormat
	if f == format.Unknown {
		f = format.Detect(a.layerPath)
	}
	if f == format.Unknown {
		file, err := os.Open(a.layerPath)
		if err != nil {
			return nil, fmt.Errorf("opening text layer: %w", err)
		}
		f, err = format.DetectFromReader(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("detecting text layer format: %w", err)
		}
	}

	scale := a.options.LayerScale
	switch {
	case f == format.HTML:
		return textlayer.OpenHTML(a.layerPath, textlayer.HTMLOptions{Scale: scale})
	case f == format.HOCR:
		return textlayer.OpenHOCR(a.layerPath, textlayer.HOCROptions{
			Level:         a.options.level(),
			Scale:         scale,
			MinConfidence: a.options.MinConfidence,
		})
	case f.IsImage():
		return a.recognize(ctx, []string{a.layerPath})
	case f == format.PDF:
		return nil, fmt.Errorf("%s: PDF input needs a rendered text layer (HTML or hOCR) or page rasters", a.layerPath)
	default:
		return nil, fmt.Errorf("%s: unsupported text layer format: %s", a.layerPath, f)
	}
}

// recognize builds a text layer from page rasters with OCR.
func (a *Annotator) recognize(ctx context.Context, paths []string) (textlayer.Source, error) {
	images := make([][]byte, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading page image: %w", err)
		}
		size, err := ocr.RasterSize(data)
		if err != nil {
			return nil, fmt.Errorf("page image %s: %w", p, err)
		}
		if a.logger != nil {
			a.logger.Debug("page image", "path", p, "width", size.X, "height", size.Y)
		}
		images[i] = data
	}

	client, err := ocr.New()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if a.options.OCRLanguage != "" {
		if err := client.SetLanguage(a.options.OCRLanguage); err != nil {
			return nil, err
		}
	}

	resolution := a.options.LayerScale
	if resolution <= 0 {
		resolution = 1
	}
	return textlayer.FromImages(ctx, client, images, textlayer.OCROptions{
		Level:         a.options.level(),
		Upscale:       1,
		Resolution:    resolution,
		MinConfidence: a.options.MinConfidence,
	})
}

// resolvePages validates the page selection and returns it sorted without
// duplicates. If no pages are specified, returns all pages.
func (a *Annotator) resolvePages(pageCount int) ([]int, error) {
	if len(a.pages) == 0 {
		pages := make([]int, pageCount)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}

	seen := make(map[int]bool)
	var pages []int
	for _, p := range a.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("page %d out of range (1-%d)", p, pageCount)
		}
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}

	sort.Ints(pages)
	return pages, nil
}
