// Package placement decides where a bubble renders relative to its anchor so
// that it stays on screen. The bubble prefers hanging below the anchor with
// its top-left corner on the anchor's horizontal midpoint; when that naive
// spot would be clipped by the screen edge, the placement is corrected by
// flipping above the anchor and/or right-aligning against the midpoint.
package placement

import (
	"image"
	"log/slog"
)

// VerticalAnchor selects which side of the anchor the bubble hangs on.
type VerticalAnchor int

const (
	BelowParent VerticalAnchor = iota
	AboveParent
)

// HorizontalAnchor selects which bubble corner sits on the anchor midpoint.
type HorizontalAnchor int

const (
	TopLeftCorner HorizontalAnchor = iota
	TopRightCorner
)

// maxPasses bounds the corrective loop. Each facet flips at most once, so two
// passes always settle; more means a caller broke the invariants.
const maxPasses = 2

// Place computes the screen location for a bubble of the given size attached
// to anchor, starting from the supplied facets and correcting them when the
// naive spot would be clipped.
//
// Corrections are one-way: a bottom-clipped bubble flips above the anchor and
// never back, a right-clipped bubble right-aligns and never back. Top and
// left clipping are not corrected; a bubble attached near the top or left
// screen edge can still render partly off screen.
func Place(anchor image.Rectangle, size image.Point, screen image.Rectangle,
	vertical VerticalAnchor, horizontal HorizontalAnchor) (image.Point, VerticalAnchor, HorizontalAnchor) {

	location := locationFor(anchor, size, vertical, horizontal)

	for pass := 0; ; pass++ {
		v, h, settled := correctIfClipped(location, size, screen, vertical, horizontal)
		if settled {
			return location, vertical, horizontal
		}
		if pass >= maxPasses {
			// Both facets already flipped once each; a third pass means the
			// caller fed inconsistent geometry. Keep the last result rather
			// than looping.
			slog.Warn("bubble placement did not settle", "anchor", anchor, "size", size, "screen", screen)
			return location, vertical, horizontal
		}
		vertical, horizontal = v, h
		location = locationFor(anchor, size, vertical, horizontal)
	}
}

func locationFor(anchor image.Rectangle, size image.Point,
	vertical VerticalAnchor, horizontal HorizontalAnchor) image.Point {

	var location image.Point

	switch vertical {
	case AboveParent:
		location.Y = anchor.Min.Y - size.Y
	case BelowParent:
		location.Y = anchor.Min.Y + anchor.Dy()
	}

	switch horizontal {
	case TopLeftCorner:
		location.X = anchor.Min.X + anchor.Dx()/2
	case TopRightCorner:
		location.X = anchor.Min.X - size.X + anchor.Dx()/2
	}

	return location
}

// correctIfClipped checks the bottom edge first, then the right edge, and
// flips the corresponding facet. Only one facet changes per pass.
func correctIfClipped(location, size image.Point, screen image.Rectangle,
	vertical VerticalAnchor, horizontal HorizontalAnchor) (VerticalAnchor, HorizontalAnchor, bool) {

	bottom := image.Pt(location.X, location.Y+size.Y)
	if !bottom.In(screen) {
		return AboveParent, horizontal, false
	}

	right := image.Pt(location.X+size.X, location.Y)
	if !right.In(screen) {
		return vertical, TopRightCorner, false
	}

	return vertical, horizontal, true
}
