// Package resolver deduplicates candidate matches that land on the same
// on-page position and settles conflicts by severity.
//
// Two boxes share a position when both their left and top edges differ by
// less than an epsilon (10 pixels by default), which absorbs sub-pixel
// jitter in rendered text layers. Highlight density is therefore governed
// by distinct positions, not by the number of findings, and a critical
// finding always takes the position from a warning.
//
//	res := resolver.Resolve(candidates)
//	for _, h := range res.Highlights {
//	    // draw h.Box with h.Severity
//	}
//	// res.Suppressed: findings that matched but lost their position
package resolver
