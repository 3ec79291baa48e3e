package bubble

import (
	"image"
	"image/color"
)

// Toolkit is the windowing-toolkit surface the bubble core depends on. The
// fynekit package provides the Fyne-backed implementation; tests use fakes.
type Toolkit interface {
	// MeasureText returns the pixel extent of text drawn in the given font,
	// honoring explicit line breaks. A nil font means the system font.
	MeasureText(text string, font Font) image.Point

	// ScreenBounds returns the area a bubble must stay inside.
	ScreenBounds() image.Rectangle

	// SystemFont returns a handle to the system font, optionally bold.
	SystemFont(bold bool) (Font, error)

	// NewColor allocates a toolkit color handle.
	NewColor(c color.NRGBA) (Color, error)

	// NewSurface creates a hidden translucent borderless overlay surface that
	// renders the spec's text and border when visible.
	NewSurface(spec SurfaceSpec) (Surface, error)
}

// SurfaceSpec describes what an overlay surface draws.
type SurfaceSpec struct {
	Text            string
	Font            Font
	Background      Color
	TextColor       Color
	Border          Color
	BorderThickness int
}

// Surface is one translucent overlay owned by exactly one bubble.
type Surface interface {
	SetShape(r image.Rectangle)
	Resize(size image.Point)
	Move(location image.Point)
	SetAlpha(alpha int)
	SetVisible(visible bool)
	Visible() bool

	// OnPress registers the handler invoked on a direct pointer press on the
	// surface.
	OnPress(fn func())

	Dispose() error
}

// Color is a toolkit color handle owned by the bubble that allocated it.
type Color interface {
	NRGBA() color.NRGBA
	Dispose() error
}

// Font is a toolkit font handle owned by the bubble that allocated it.
type Font interface {
	Bold() bool
	Dispose() error
}

// AnchoredItem is the element a bubble attaches to: either a toolkit widget
// (see fynekit.AnchorObject) or any custom provider of size and location.
// Size and Location are read fresh on every placement, never cached.
type AnchoredItem interface {
	Size() image.Point
	Location() image.Point

	// Identity returns the value the bubble is registered under. It must be
	// stable and compare by identity (a pointer), so two anchors with
	// identical geometry remain distinct.
	Identity() any
}

// DestroyNotifier is an optional capability of an AnchoredItem. When the
// anchor implements it, the bubble hooks the notification and cascades its
// own destruction.
type DestroyNotifier interface {
	OnDestroy(fn func())
}
