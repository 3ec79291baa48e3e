package fynekit

import (
	"image"

	"fyne.io/fyne/v2"

	"github.com/AkatukiSora/bubblekit/bubble"
)

// AnchorObject adapts a fyne.CanvasObject into a bubble anchor. Geometry is
// read through the driver on every call so moves and resizes are always
// reflected.
type AnchorObject struct {
	object fyne.CanvasObject
}

var _ bubble.AnchoredItem = (*AnchorObject)(nil)

// AnchorFor wraps obj as a bubble anchor.
func AnchorFor(obj fyne.CanvasObject) *AnchorObject {
	return &AnchorObject{object: obj}
}

func (a *AnchorObject) Size() image.Point {
	size := a.object.Size()
	return image.Pt(ceil(size.Width), ceil(size.Height))
}

func (a *AnchorObject) Location() image.Point {
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(a.object)
	return image.Pt(ceil(pos.X), ceil(pos.Y))
}

// Identity is the wrapped object itself, so registering two anchors for the
// same widget replaces rather than duplicates.
func (a *AnchorObject) Identity() any {
	return a.object
}
