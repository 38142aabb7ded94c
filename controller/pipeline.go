package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/textlayer"
)

// Ticket tags a text layer request with the view it was made for.
// Fragments delivered with a ticket whose generation is no longer current
// are discarded.
type Ticket struct {
	Session    uuid.UUID
	Generation uint64
	Page       int
	Zoom       float64
}

// PageReport is the outcome of one recomputation pass.
type PageReport struct {
	Page       int
	Zoom       float64
	Generation uint64

	// Highlighted lists findings that received a highlight.
	Highlighted []int
	// Suppressed lists findings that matched a fragment but lost their
	// position to a finding of equal or higher severity.
	Suppressed []int
	// Unmatched lists findings that matched no fragment on the page.
	Unmatched []int

	Highlights []model.Highlight
}

// IsZero reports whether no pass has produced the report yet.
func (r PageReport) IsZero() bool {
	return r.Generation == 0
}

// Ticket returns a ticket for the current view.
func (c *Controller) Ticket() (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return Ticket{}, ErrNotLoaded
	}
	return c.ticket(), nil
}

// ticket returns the current ticket. Caller holds mu.
func (c *Controller) ticket() Ticket {
	return Ticket{
		Session:    c.session,
		Generation: c.generation,
		Page:       c.page,
		Zoom:       c.zoom,
	}
}

// Pending reports whether the current view still waits for its text layer.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateReady && !c.settled
}

// OnFragmentsAvailable runs the correlation pipeline over the text layer
// delivered for ticket and replaces the highlight set wholesale.
//
// A ticket from an earlier generation or session yields ErrStale and leaves
// every piece of state untouched. An empty fragment list is valid and
// clears the highlights. Delivering the same fragments twice for the same
// ticket produces the same result.
func (c *Controller) OnFragmentsAvailable(t Ticket, fragments []textlayer.Fragment) (PageReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkTicket(t); err != nil {
		return PageReport{}, err
	}

	candidates := c.correlator.Correlate(c.findings, fragments)
	res := c.resolver.Resolve(candidates)

	rep := PageReport{
		Page:        c.page,
		Zoom:        c.zoom,
		Generation:  c.generation,
		Highlighted: res.HighlightedIDs(),
		Suppressed:  res.Suppressed,
		Highlights:  res.Highlights,
	}
	rep.Unmatched = unmatched(len(c.findings), rep.Highlighted, rep.Suppressed)

	c.apply(rep)

	c.log.Debug("highlights recomputed",
		"page", rep.Page,
		"zoom", rep.Zoom,
		"generation", rep.Generation,
		"fragments", len(fragments),
		"candidates", len(candidates),
		"highlights", len(rep.Highlights),
		"suppressed", len(rep.Suppressed),
		"unmatched", len(rep.Unmatched),
	)
	return c.copyReport(), nil
}

// FragmentsUnavailable records that the text layer for ticket could not be
// produced. The pass is skipped and the highlight set is cleared rather than
// left showing another page's positions.
func (c *Controller) FragmentsUnavailable(t Ticket) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkTicket(t); err != nil {
		return err
	}

	c.highlights = nil
	c.last = PageReport{}
	c.settled = true
	c.geometryOK = true
	for i := range c.states {
		c.states[i].Visibility = VisibilityUnknown
	}

	c.log.Debug("text layer unavailable, highlights cleared", "page", c.page, "generation", c.generation)
	return nil
}

// Refresh fetches the current page's text layer from the attached source and
// delivers it. Source failures, including textlayer.ErrNotReady, are logged
// and degrade to an empty overlay set. If the view changes while the source
// is working, ErrStale is returned and the result is dropped. A cancelled
// ctx returns its error without touching state.
func (c *Controller) Refresh(ctx context.Context) (PageReport, error) {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return PageReport{}, ErrNotLoaded
	}
	src := c.source
	t := c.ticket()
	log := c.log
	c.mu.Unlock()

	if src == nil {
		return PageReport{}, ErrNoSource
	}

	fragments, err := src.Fragments(ctx, t.Page, t.Zoom)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return PageReport{}, ctxErr
		}
		if errors.Is(err, textlayer.ErrNotReady) {
			log.Debug("text layer not ready", "page", t.Page)
		} else {
			log.Warn("text layer failed", "page", t.Page, "zoom", t.Zoom, "error", err)
		}
		if err := c.FragmentsUnavailable(t); err != nil {
			return PageReport{}, err
		}
		return PageReport{}, nil
	}

	return c.OnFragmentsAvailable(t, fragments)
}

// Highlights returns the current highlight set. It is empty while the
// geometry is invalid, that is after a zoom change and before fragments for
// the new zoom arrive.
func (c *Controller) Highlights() []model.Highlight {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.geometryOK || len(c.highlights) == 0 {
		return nil
	}
	return append([]model.Highlight(nil), c.highlights...)
}

// Report returns the most recent page report for the current page and
// finding set. The zero report means nothing has been computed yet.
func (c *Controller) Report() PageReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyReport()
}

// MatchedFindingIDs returns findings with a highlight on the current page.
func (c *Controller) MatchedFindingIDs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.last.Highlighted...)
}

// UnmatchedFindingIDs returns findings that matched nothing on the current
// page. Suppressed findings are not included. Before the first pass for the
// page the result is empty, since nothing is known yet.
func (c *Controller) UnmatchedFindingIDs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.last.Unmatched...)
}

// SuppressedFindingIDs returns findings that matched but lost their
// position to another finding.
func (c *Controller) SuppressedFindingIDs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.last.Suppressed...)
}

// checkTicket rejects tickets that do not describe the current view.
// Caller holds mu.
func (c *Controller) checkTicket(t Ticket) error {
	if c.state != StateReady {
		return ErrNotLoaded
	}
	if t.Session != c.session || t.Generation != c.generation {
		c.log.Trace("dropping stale text layer",
			"ticket_generation", t.Generation,
			"generation", c.generation,
			"ticket_page", t.Page,
			"page", c.page,
		)
		return fmt.Errorf("%w: generation %d, current %d", ErrStale, t.Generation, c.generation)
	}
	return nil
}

// apply installs rep as the current result. Caller holds mu.
func (c *Controller) apply(rep PageReport) {
	c.highlights = rep.Highlights
	c.last = rep
	c.settled = true
	c.geometryOK = true

	for i := range c.states {
		c.states[i].Visibility = VisibilityNotVisible
	}
	for _, id := range rep.Highlighted {
		c.states[id].Visibility = VisibilityVisible
	}
	for _, id := range rep.Suppressed {
		c.states[id].Visibility = VisibilitySuppressed
	}
}

// copyReport returns a deep copy of the last report. Caller holds mu.
func (c *Controller) copyReport() PageReport {
	rep := c.last
	rep.Highlighted = append([]int(nil), rep.Highlighted...)
	rep.Suppressed = append([]int(nil), rep.Suppressed...)
	rep.Unmatched = append([]int(nil), rep.Unmatched...)
	rep.Highlights = append([]model.Highlight(nil), rep.Highlights...)
	return rep
}

// unmatched returns the IDs in [0, n) that are in neither sorted list.
func unmatched(n int, highlighted, suppressed []int) []int {
	seen := make([]bool, n)
	for _, id := range highlighted {
		seen[id] = true
	}
	for _, id := range suppressed {
		seen[id] = true
	}

	var out []int
	for id, ok := range seen {
		if !ok {
			out = append(out, id)
		}
	}
	return out
}
