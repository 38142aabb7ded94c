// Package controller owns the state of one highlighting session: the loaded
// findings, the current page and zoom, the highlight set and which finding
// is active.
//
// The host renders pages and reports text layers back through a Ticket:
//
//	ctrl := controller.New(controller.DefaultConfig())
//	if err := ctrl.Load(pages, findings); err != nil {
//		return err
//	}
//	t, _ := ctrl.Ticket()
//	// ... render page t.Page at t.Zoom, collect its fragments ...
//	rep, err := ctrl.OnFragmentsAvailable(t, fragments)
//	if errors.Is(err, controller.ErrStale) {
//		// the view moved on; a newer ticket is outstanding
//	}
//
// When the text layer comes from a textlayer.Source, LoadSource and Refresh
// do the same round trip.
//
// Findings that lose a position to another finding are reported as
// suppressed, separately from findings that matched nothing.
package controller
