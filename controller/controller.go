package controller

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/tsawler/marginalia/correlate"
	"github.com/tsawler/marginalia/keywords"
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/resolver"
	"github.com/tsawler/marginalia/textlayer"
)

var (
	// ErrNotLoaded is returned by operations that need a loaded document.
	ErrNotLoaded = errors.New("no document loaded")

	// ErrStale is returned when fragments arrive for a view that has since
	// changed. The result is discarded.
	ErrStale = errors.New("stale text layer")

	// ErrUnknownFinding is returned for finding IDs outside the loaded set.
	ErrUnknownFinding = errors.New("unknown finding")

	// ErrNoSource is returned by Refresh when no text layer source is
	// attached.
	ErrNoSource = errors.New("no text layer source")

	// ErrInvalidZoom is returned by SetZoom for NaN or infinite zoom values.
	ErrInvalidZoom = errors.New("invalid zoom")
)

// State is the lifecycle state of a Controller.
type State int

const (
	// StateIdle means no document is loaded.
	StateIdle State = iota
	// StateReady means a document and its findings are loaded.
	StateReady
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// Controller owns pagination, zoom, the highlight set and the activation
// state of one analysis session. It is the only mutator of that state.
//
// Every change that invalidates the current highlights (load, finding-set
// replacement, page change, zoom change) bumps a generation counter. Text
// layers are delivered against a Ticket carrying the generation they were
// requested for, and results for an older generation are dropped, so an
// out-of-order completion can never overwrite a newer view.
//
// A Controller is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	cfg        Config
	baseLog    hclog.Logger
	log        hclog.Logger
	extractor  *keywords.Extractor
	correlator *correlate.Correlator
	resolver   *resolver.Resolver
	source     textlayer.Source

	state      State
	session    uuid.UUID
	generation uint64
	settled    bool // current generation has been computed
	geometryOK bool // highlight boxes match the current zoom

	pageCount int
	page      int
	zoom      float64

	findings   []model.Finding
	states     []FindingState
	highlights []model.Highlight
	last       PageReport
	active     *int
}

// New creates an idle Controller.
func New(cfg Config) *Controller {
	cfg = cfg.normalize()
	extractor := keywords.New(cfg.Keywords)

	base := cfg.Logger.Named("controller")
	return &Controller{
		cfg:       cfg,
		baseLog:   base,
		log:       base,
		extractor: extractor,
		correlator: &correlate.Correlator{
			MinKeywordLength: cfg.MinKeywordLength,
			Extractor:        extractor,
		},
		resolver: &resolver.Resolver{Epsilon: cfg.Epsilon},
		zoom:     cfg.DefaultZoom,
	}
}

// Load starts a session for a document with pageCount pages and the given
// findings. Findings are validated first; a malformed finding fails the
// whole load with a *model.ValidationError and leaves the controller
// unchanged. Findings without keywords get extracted ones. Any source
// attached by an earlier LoadSource is detached.
func (c *Controller) Load(pageCount int, findings []model.Finding) error {
	return c.load(pageCount, nil, findings)
}

// LoadSource loads a document whose text layer is served by src. The page
// count is taken from src and Refresh pulls fragments from it.
func (c *Controller) LoadSource(src textlayer.Source, findings []model.Finding) error {
	if src == nil {
		return ErrNoSource
	}
	return c.load(src.PageCount(), src, findings)
}

// load installs a new session and its source under one lock.
func (c *Controller) load(pageCount int, src textlayer.Source, findings []model.Finding) error {
	if pageCount < 1 {
		return fmt.Errorf("page count must be positive, got %d", pageCount)
	}
	prepared, err := c.prepare(findings)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateReady
	c.session = uuid.New()
	c.log = c.baseLog.With("session", c.session.String())
	c.source = src
	c.pageCount = pageCount
	c.page = 1
	c.zoom = c.snapZoom(c.cfg.DefaultZoom)
	c.active = nil
	c.installFindings(prepared)
	c.invalidate()

	c.log.Debug("document loaded", "pages", pageCount, "findings", len(prepared), "source", src != nil)
	return nil
}

// Unload ends the session and returns to the idle state.
func (c *Controller) Unload() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Debug("document unloaded")
	c.state = StateIdle
	c.session = uuid.Nil
	c.log = c.baseLog
	c.source = nil
	c.pageCount = 0
	c.page = 0
	c.zoom = c.cfg.DefaultZoom
	c.active = nil
	c.findings = nil
	c.states = nil
	c.invalidate()
}

// SetFindings replaces the finding set. Highlights are cleared and must be
// recomputed before any highlight refers to the new set.
func (c *Controller) SetFindings(findings []model.Finding) error {
	prepared, err := c.prepare(findings)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotLoaded
	}
	c.active = nil
	c.installFindings(prepared)
	c.invalidate()

	c.log.Debug("finding set replaced", "findings", len(prepared), "generation", c.generation)
	return nil
}

// SetPage moves to page n, clamped to [1, PageCount]. Changing page clears
// the highlights until the new page's text layer arrives.
func (c *Controller) SetPage(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotLoaded
	}

	n = clampInt(n, 1, c.pageCount)
	if n == c.page {
		return nil
	}
	c.page = n
	c.invalidate()

	c.log.Debug("page changed", "page", n, "generation", c.generation)
	return nil
}

// NextPage moves one page forward, stopping at the last page.
func (c *Controller) NextPage() error {
	return c.SetPage(c.Page() + 1)
}

// PrevPage moves one page back, stopping at the first page.
func (c *Controller) PrevPage() error {
	return c.SetPage(c.Page() - 1)
}

// SetZoom sets the zoom, clamped to [MinZoom, MaxZoom] and snapped to
// ZoomStep. NaN and infinite values are rejected with ErrInvalidZoom and
// leave the zoom unchanged. Zoom is a view-only change: which findings matched does not
// depend on it, so the page report is kept, but highlight geometry is
// invalidated and Highlights returns nothing until fragments measured at
// the new zoom are delivered.
func (c *Controller) SetZoom(z float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotLoaded
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, z)
	}

	z = c.snapZoom(z)
	if z == c.zoom {
		return nil
	}
	c.zoom = z
	c.generation++
	c.settled = false
	c.geometryOK = false

	c.log.Debug("zoom changed", "zoom", z, "generation", c.generation)
	return nil
}

// ZoomIn increases the zoom by one step.
func (c *Controller) ZoomIn() error {
	return c.SetZoom(c.Zoom() + c.cfg.ZoomStep)
}

// ZoomOut decreases the zoom by one step.
func (c *Controller) ZoomOut() error {
	return c.SetZoom(c.Zoom() - c.cfg.ZoomStep)
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Page returns the current 1-indexed page, or 0 when idle.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// PageCount returns the number of pages, or 0 when idle.
func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageCount
}

// Zoom returns the current zoom.
func (c *Controller) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// Findings returns a copy of the loaded findings.
func (c *Controller) Findings() []model.Finding {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Finding, len(c.findings))
	for i, f := range c.findings {
		f.Keywords = append([]string(nil), f.Keywords...)
		out[i] = f
	}
	return out
}

// prepare validates findings and fills in missing keywords on copies.
func (c *Controller) prepare(findings []model.Finding) ([]model.Finding, error) {
	if err := model.ValidateFindings(findings); err != nil {
		return nil, err
	}

	out := make([]model.Finding, len(findings))
	for i, f := range findings {
		if len(f.Keywords) == 0 {
			f.Keywords = c.extractor.Extract(f.Text)
		} else {
			f.Keywords = append([]string(nil), f.Keywords...)
		}
		out[i] = f
	}
	return out, nil
}

// installFindings replaces the finding set and resets per-finding state.
// Caller holds mu.
func (c *Controller) installFindings(findings []model.Finding) {
	c.findings = findings
	c.states = make([]FindingState, len(findings))
}

// invalidate starts a new generation and drops the current highlights and
// page report. Caller holds mu.
func (c *Controller) invalidate() {
	c.generation++
	c.settled = false
	c.geometryOK = false
	c.highlights = nil
	c.last = PageReport{}
	for i := range c.states {
		c.states[i].Visibility = VisibilityUnknown
	}
}

// snapZoom rounds z to the nearest step and clamps it to the zoom bounds.
func (c *Controller) snapZoom(z float64) float64 {
	step := c.cfg.ZoomStep
	z = math.Round(z/step) * step
	// Remove floating point residue such as 0.30000000000000004.
	z = math.Round(z*1e6) / 1e6
	return math.Max(c.cfg.MinZoom, math.Min(c.cfg.MaxZoom, z))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
