package controller

import (
	"fmt"
	"math"
)

// View is a snapshot of the navigation state for rendering the toolbar.
type View struct {
	State       State
	Page        int
	PageCount   int
	Zoom        float64
	ZoomPercent int
	Label       string
	CanPrev     bool
	CanNext     bool
	CanZoomIn   bool
	CanZoomOut  bool
	Pending     bool
}

// View returns the current navigation state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:       c.state,
		Page:        c.page,
		PageCount:   c.pageCount,
		Zoom:        c.zoom,
		ZoomPercent: int(math.Round(c.zoom * 100)),
	}
	if c.state != StateReady {
		return v
	}

	v.Label = fmt.Sprintf("Page %d of %d", c.page, c.pageCount)
	v.CanPrev = c.page > 1
	v.CanNext = c.page < c.pageCount
	v.CanZoomIn = c.zoom < c.cfg.MaxZoom
	v.CanZoomOut = c.zoom > c.cfg.MinZoom
	v.Pending = !c.settled
	return v
}
