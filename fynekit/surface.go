package fynekit

import (
	"image"
	"image/color"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/AkatukiSora/bubblekit/bubble"
)

// textInsetX and textInsetY offset the drawn text inside the surface, half
// of the bubble's width/height padding on each side.
const (
	textInsetX = 5
	textInsetY = 2.5
)

// surface is one bubble overlay: a background rectangle with a stroked
// border, one canvas.Text per line, and a transparent press catcher on top.
type surface struct {
	tk *Toolkit

	box     *fyne.Container
	bg      *canvas.Rectangle
	lines   []*canvas.Text
	catcher *pressCatcher

	mu       sync.Mutex
	baseBg   color.NRGBA
	baseText color.NRGBA
	baseLine color.NRGBA
	visible  bool
	disposed bool
}

func newSurface(tk *Toolkit, spec bubble.SurfaceSpec) *surface {
	s := &surface{
		tk:       tk,
		baseBg:   spec.Background.NRGBA(),
		baseText: spec.TextColor.NRGBA(),
		baseLine: spec.Border.NRGBA(),
	}

	s.bg = canvas.NewRectangle(s.baseBg)
	s.bg.StrokeColor = s.baseLine
	s.bg.StrokeWidth = float32(spec.BorderThickness)

	style := fyne.TextStyle{}
	if spec.Font != nil && spec.Font.Bold() {
		style.Bold = true
	}
	textSize := theme.TextSize()

	objects := []fyne.CanvasObject{s.bg}
	var y float32 = textInsetY
	for _, line := range strings.Split(spec.Text, "\n") {
		txt := canvas.NewText(line, s.baseText)
		txt.TextStyle = style
		txt.TextSize = textSize
		txt.Move(fyne.NewPos(textInsetX, y))
		y += fyne.MeasureText(line, textSize, style).Height
		s.lines = append(s.lines, txt)
		objects = append(objects, txt)
	}

	s.catcher = newPressCatcher()
	objects = append(objects, s.catcher)

	s.box = container.NewWithoutLayout(objects...)
	s.box.Hide()
	tk.overlay.Add(s.box)
	return s
}

// SetShape records nothing: Fyne surfaces are always rectangular, so the
// shape is fully determined by Resize.
func (s *surface) SetShape(image.Rectangle) {}

func (s *surface) Resize(size image.Point) {
	fs := fyne.NewSize(float32(size.X), float32(size.Y))
	s.box.Resize(fs)
	s.bg.Resize(fs)
	s.catcher.Resize(fs)
}

func (s *surface) Move(location image.Point) {
	s.box.Move(fyne.NewPos(float32(location.X), float32(location.Y)))
}

// SetAlpha scales every color's alpha channel; Fyne has no per-container
// opacity.
func (s *surface) SetAlpha(alpha int) {
	s.mu.Lock()
	disposed := s.disposed
	s.mu.Unlock()
	if disposed {
		return
	}

	s.bg.FillColor = scaleAlpha(s.baseBg, alpha)
	s.bg.StrokeColor = scaleAlpha(s.baseLine, alpha)
	s.bg.Refresh()
	textColor := scaleAlpha(s.baseText, alpha)
	for _, txt := range s.lines {
		txt.Color = textColor
		txt.Refresh()
	}
}

func (s *surface) SetVisible(visible bool) {
	s.mu.Lock()
	s.visible = visible
	disposed := s.disposed
	s.mu.Unlock()
	if disposed {
		return
	}

	if visible {
		s.box.Show()
	} else {
		s.box.Hide()
	}
	s.tk.overlay.Refresh()
}

func (s *surface) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible && !s.disposed
}

func (s *surface) OnPress(fn func()) {
	s.catcher.onTap = fn
}

func (s *surface) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	s.visible = false
	s.mu.Unlock()

	s.tk.overlay.Remove(s.box)
	s.tk.overlay.Refresh()
	return nil
}

// pressCatcher is an invisible widget stretched over the surface that turns
// taps into the bubble's press notification.
type pressCatcher struct {
	widget.BaseWidget
	onTap func()
}

func newPressCatcher() *pressCatcher {
	p := &pressCatcher{}
	p.ExtendBaseWidget(p)
	return p
}

func (p *pressCatcher) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (p *pressCatcher) Tapped(*fyne.PointEvent) {
	if p.onTap != nil {
		p.onTap()
	}
}

func scaleAlpha(c color.NRGBA, alpha int) color.NRGBA {
	c.A = uint8(int(c.A) * alpha / 255)
	return c
}
