package controller

import (
	"fmt"

	"github.com/tsawler/marginalia/model"
)

// Visibility describes how a finding shows up on the current page.
type Visibility int

const (
	// VisibilityUnknown means the page has not been computed yet.
	VisibilityUnknown Visibility = iota
	// VisibilityVisible means the finding has a highlight.
	VisibilityVisible
	// VisibilitySuppressed means the finding matched but another finding
	// holds its position.
	VisibilitySuppressed
	// VisibilityNotVisible means the finding matched nothing on the page.
	VisibilityNotVisible
)

// String returns the name of the visibility.
func (v Visibility) String() string {
	switch v {
	case VisibilityVisible:
		return "visible"
	case VisibilitySuppressed:
		return "suppressed"
	case VisibilityNotVisible:
		return "not visible"
	default:
		return "unknown"
	}
}

// FindingState is the UI record kept for each finding.
type FindingState struct {
	Expanded   bool
	Selected   bool
	Loading    bool
	Visibility Visibility
}

// Overlay is a highlight decorated for rendering.
type Overlay struct {
	model.Highlight

	// Active is false when another finding is active and this overlay
	// should be dimmed.
	Active bool `json:"active"`

	// Title is the tooltip text, "Issue #n: text" with n counted from 1.
	Title string `json:"title"`
}

// SetActiveFinding makes id the active finding. Highlights of every other
// finding are dimmed. The highlight set itself does not change.
func (c *Controller) SetActiveFinding(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkID(id); err != nil {
		return err
	}
	c.active = &id
	return nil
}

// ClearActiveFinding clears the active finding so no highlight is dimmed.
func (c *Controller) ClearActiveFinding() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
}

// ActiveFinding returns the active finding, if any.
func (c *Controller) ActiveFinding() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return 0, false
	}
	return *c.active, true
}

// IsActive reports whether the highlight for id renders emphasized. Every
// finding is active when no finding is.
func (c *Controller) IsActive(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isActive(id)
}

func (c *Controller) isActive(id int) bool {
	return c.active == nil || *c.active == id
}

// Overlays returns the current highlights with emphasis and tooltip.
func (c *Controller) Overlays() []Overlay {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.geometryOK || len(c.highlights) == 0 {
		return nil
	}

	out := make([]Overlay, len(c.highlights))
	for i, h := range c.highlights {
		out[i] = Overlay{
			Highlight: h,
			Active:    c.isActive(h.FindingID),
			Title:     fmt.Sprintf("Issue #%d: %s", h.FindingID+1, c.findings[h.FindingID].Text),
		}
	}
	return out
}

// FindingState returns the UI record for finding id.
func (c *Controller) FindingState(id int) (FindingState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkID(id); err != nil {
		return FindingState{}, err
	}
	return c.states[id], nil
}

// FindingStates returns the UI records of all findings, indexed by ID.
func (c *Controller) FindingStates() []FindingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]FindingState(nil), c.states...)
}

// ToggleExpanded flips the expanded flag of finding id and returns the new
// value.
func (c *Controller) ToggleExpanded(id int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkID(id); err != nil {
		return false, err
	}
	c.states[id].Expanded = !c.states[id].Expanded
	return c.states[id].Expanded, nil
}

// SetLoading marks finding id as waiting on an external request, such as a
// suggested fix being generated.
func (c *Controller) SetLoading(id int, loading bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkID(id); err != nil {
		return err
	}
	c.states[id].Loading = loading
	return nil
}

// Select makes id the only selected finding and the active one.
func (c *Controller) Select(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkID(id); err != nil {
		return err
	}
	for i := range c.states {
		c.states[i].Selected = i == id
	}
	c.active = &id
	return nil
}

// checkID validates a finding ID against the loaded set. Caller holds mu.
func (c *Controller) checkID(id int) error {
	if c.state != StateReady {
		return ErrNotLoaded
	}
	if id < 0 || id >= len(c.findings) {
		return fmt.Errorf("%w: %d", ErrUnknownFinding, id)
	}
	return nil
}
