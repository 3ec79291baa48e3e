// Package fynekit backs the bubble collaborator interfaces with Fyne. The
// overlay container is expected to be stacked over the window content (e.g.
// the last child of a container.NewStack) so surfaces can be positioned
// freely in canvas coordinates.
package fynekit

import (
	"image"
	"image/color"
	"math"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/AkatukiSora/bubblekit/bubble"
)

// Toolkit implements bubble.Toolkit on a Fyne canvas.
type Toolkit struct {
	canvas  fyne.Canvas
	overlay *fyne.Container
}

// NewToolkit wires a toolkit to the window canvas and the overlay container
// that will hold bubble surfaces. The overlay must use no layout
// (container.NewWithoutLayout).
func NewToolkit(canvas fyne.Canvas, overlay *fyne.Container) *Toolkit {
	return &Toolkit{canvas: canvas, overlay: overlay}
}

// MeasureText measures line by line so explicit breaks are honored: the
// extent is the widest line by the summed line heights.
func (tk *Toolkit) MeasureText(text string, font bubble.Font) image.Point {
	style := fyne.TextStyle{}
	if font != nil && font.Bold() {
		style.Bold = true
	}
	textSize := theme.TextSize()

	var widest, height float32
	for _, line := range strings.Split(text, "\n") {
		extent := fyne.MeasureText(line, textSize, style)
		if extent.Width > widest {
			widest = extent.Width
		}
		height += extent.Height
	}
	return image.Pt(ceil(widest), ceil(height))
}

// ScreenBounds returns the canvas area. Fyne cannot place windows outside
// its own canvas, so the canvas plays the role of the display here.
func (tk *Toolkit) ScreenBounds() image.Rectangle {
	size := tk.canvas.Size()
	return image.Rect(0, 0, ceil(size.Width), ceil(size.Height))
}

// SystemFont returns a handle for the theme font. Fyne fonts are owned by
// the theme, so the handle releases nothing.
func (tk *Toolkit) SystemFont(bold bool) (bubble.Font, error) {
	return &fontHandle{bold: bold}, nil
}

// NewColor returns a handle for c. Fyne colors are plain values; the handle
// releases nothing.
func (tk *Toolkit) NewColor(c color.NRGBA) (bubble.Color, error) {
	return &colorHandle{c: c}, nil
}

// NewSurface builds a hidden bubble surface and attaches it to the overlay.
func (tk *Toolkit) NewSurface(spec bubble.SurfaceSpec) (bubble.Surface, error) {
	return newSurface(tk, spec), nil
}

type fontHandle struct{ bold bool }

func (f *fontHandle) Bold() bool     { return f.bold }
func (f *fontHandle) Dispose() error { return nil }

type colorHandle struct{ c color.NRGBA }

func (c *colorHandle) NRGBA() color.NRGBA { return c.c }
func (c *colorHandle) Dispose() error     { return nil }

func ceil(v float32) int {
	return int(math.Ceil(float64(v)))
}
