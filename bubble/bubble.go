// Package bubble implements a transient popover that shows contextual text
// next to an anchored UI element. A bubble places itself so it stays fully
// visible on screen, wraps text that would draw wider than 400 pixels, fades
// out over 200ms, and registers itself so groups of bubbles can be shown and
// hidden by tag.
//
// Callers can short-circuit the wrapping by providing their own line breaks;
// caller formatting is never touched.
package bubble

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/AkatukiSora/bubblekit/fade"
	"github.com/AkatukiSora/bubblekit/placement"
	"github.com/AkatukiSora/bubblekit/registry"
	"github.com/AkatukiSora/bubblekit/textwrap"
)

const (
	// DefaultMaxTextWidth is the pixel width beyond which bubble text wraps.
	DefaultMaxTextWidth = textwrap.DefaultMaxWidth

	// DefaultFadeOutDuration is how long a fade-out takes.
	DefaultFadeOutDuration = 200 * time.Millisecond

	textWidthPadding  = 10 // pixels
	textHeightPadding = 5  // pixels
	borderThickness   = 1  // pixels
)

var (
	// DefaultBackgroundColor and DefaultTextColor give the stock look:
	// dark grey surface, light grey text and border.
	DefaultBackgroundColor = color.NRGBA{R: 74, G: 74, B: 74, A: 255}
	DefaultTextColor       = color.NRGBA{R: 204, G: 204, B: 204, A: 255}
)

var ErrEmptyText = errors.New("bubble: text must not be empty")

// State is the bubble lifecycle state.
type State int

const (
	StateConstructed State = iota
	StateVisible
	StateFading
	StateHidden
	StateDestroyed
)

// defaultFades serializes fades for bubbles that don't inject their own
// controller.
var defaultFades fade.Controller

// Config carries the optional knobs for New. The zero value means: system
// font, auto-hide enabled, 400px wrap width, 200ms fade-out, process-wide
// registry.
type Config struct {
	// Bold draws the bubble text in a bold version of the system font.
	Bold bool

	// DisableAutoHide keeps the bubble up when the user presses on it.
	DisableAutoHide bool

	// Tags is the initial tag set for the registry entry.
	Tags []registry.Tag

	// Registry receives the bubble's entry; nil means registry.Default().
	Registry *registry.Registry

	// Fades drives this bubble's fade-outs; nil means a shared default.
	Fades *fade.Controller

	// MaxTextWidth overrides the wrap width; zero means DefaultMaxTextWidth.
	MaxTextWidth int

	// FadeOutDuration overrides the fade-out time; zero means
	// DefaultFadeOutDuration.
	FadeOutDuration time.Duration
}

// Bubble is one popover bound to one anchor and one text string, both fixed
// at construction.
type Bubble struct {
	tk    Toolkit
	item  AnchoredItem
	reg   *registry.Registry
	fades *fade.Controller

	text            string // wrapped once at construction
	fadeOutDuration time.Duration

	font       Font // nil unless Config.Bold
	background Color
	textColor  Color
	// borderColor aliases textColor; it is not released separately.
	borderColor Color
	surface     Surface

	mu              sync.Mutex // guards state, facets, auto-hide flag
	state           State
	vertical        placement.VerticalAnchor
	horizontal      placement.HorizontalAnchor
	disableAutoHide bool

	// alphaMu serializes alpha access between the fade driver goroutine and
	// direct show/hide calls.
	alphaMu sync.Mutex
	alpha   int

	destroyOnce sync.Once
	destroyErr  error
}

// New creates a bubble attached to item, showing text. The bubble registers
// itself under item.Identity() with cfg.Tags and stays hidden until Show.
// Empty text is a caller-contract violation.
func New(tk Toolkit, item AnchoredItem, text string, cfg Config) (*Bubble, error) {
	if tk == nil {
		return nil, errors.New("bubble: toolkit is nil")
	}
	if item == nil {
		return nil, errors.New("bubble: anchored item is nil")
	}
	if text == "" {
		return nil, ErrEmptyText
	}

	b := &Bubble{
		tk:              tk,
		item:            item,
		reg:             cfg.Registry,
		fades:           cfg.Fades,
		fadeOutDuration: cfg.FadeOutDuration,
		disableAutoHide: cfg.DisableAutoHide,
	}
	if b.reg == nil {
		b.reg = registry.Default()
	}
	if b.fades == nil {
		b.fades = &defaultFades
	}
	if b.fadeOutDuration <= 0 {
		b.fadeOutDuration = DefaultFadeOutDuration
	}

	maxWidth := cfg.MaxTextWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxTextWidth
	}

	var err error
	if cfg.Bold {
		if b.font, err = tk.SystemFont(true); err != nil {
			return nil, err
		}
	}
	if b.background, err = tk.NewColor(DefaultBackgroundColor); err != nil {
		b.releaseResources()
		return nil, err
	}
	if b.textColor, err = tk.NewColor(DefaultTextColor); err != nil {
		b.releaseResources()
		return nil, err
	}
	b.borderColor = b.textColor

	b.text = textwrap.Wrap(text, func(s string) int {
		return tk.MeasureText(s, b.font).X
	}, maxWidth)

	b.surface, err = tk.NewSurface(SurfaceSpec{
		Text:            b.text,
		Font:            b.font,
		Background:      b.background,
		TextColor:       b.textColor,
		Border:          b.borderColor,
		BorderThickness: borderThickness,
	})
	if err != nil {
		b.releaseResources()
		return nil, err
	}
	b.surface.OnPress(b.onPress)

	b.resetPlacement()
	b.reg.Register(item.Identity(), b, cfg.Tags...)

	if notifier, ok := item.(DestroyNotifier); ok {
		notifier.OnDestroy(func() {
			if err := b.Deactivate(); err != nil {
				slog.Warn("bubble cascade destroy", "err", err)
			}
		})
	}

	return b, nil
}

// Show places the bubble next to its anchor and makes it fully opaque. A
// fade-out in progress is cancelled and the bubble snaps back to visible.
// Placement starts from the facets left by any earlier corrective pass in
// this visible period; they were reset to the defaults when the bubble hid.
func (b *Bubble) Show() {
	b.fades.Cancel(b)

	b.mu.Lock()
	if b.state == StateDestroyed {
		b.mu.Unlock()
		return
	}

	extent := b.tk.MeasureText(b.text, b.font)
	size := image.Pt(extent.X+textWidthPadding, extent.Y+textHeightPadding)

	// Anchor geometry is a fresh snapshot on every show; it must never be
	// cached across parent moves or resizes.
	anchor := image.Rectangle{Min: b.item.Location()}
	anchor.Max = anchor.Min.Add(b.item.Size())

	location, v, h := placement.Place(anchor, size, b.tk.ScreenBounds(), b.vertical, b.horizontal)
	b.vertical, b.horizontal = v, h

	b.surface.SetShape(image.Rectangle{Max: size})
	b.surface.Resize(size)
	b.surface.Move(location)
	b.state = StateVisible
	b.mu.Unlock()

	b.SetAlpha(fade.AlphaOpaque)
	b.surface.SetVisible(true)
}

// FadeOut dismisses the bubble by fading it to transparent, then hides it.
// A no-op while a fade is already running.
func (b *Bubble) FadeOut() {
	b.mu.Lock()
	if b.state != StateVisible {
		b.mu.Unlock()
		return
	}
	b.state = StateFading
	b.mu.Unlock()

	err := b.fades.Start(fade.Config{
		Subject:    b,
		From:       fade.AlphaOpaque,
		To:         fade.AlphaTransparent,
		Duration:   b.fadeOutDuration,
		OnComplete: b.Hide,
	})
	if err != nil {
		slog.Warn("bubble fade-out rejected", "err", err)
		b.mu.Lock()
		if b.state == StateFading {
			b.state = StateVisible
		}
		b.mu.Unlock()
	}
}

// Hide takes the bubble off screen immediately, cancelling any fade, and
// resets placement facets, fade state and the auto-hide flag to defaults.
func (b *Bubble) Hide() {
	b.fades.Cancel(b)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateDestroyed {
		return
	}
	b.surface.SetVisible(false)
	b.state = StateHidden
	b.resetPlacementLocked()
	b.disableAutoHide = false
}

// Visible reports whether the bubble is on screen. It stays true while the
// bubble is fading out; use FadeInProgress to tell the two apart.
func (b *Bubble) Visible() bool {
	return b.surface.Visible()
}

// FadeInProgress reports whether the bubble is currently fading out.
func (b *Bubble) FadeInProgress() bool {
	return b.fades.InProgress(b)
}

// State returns the current lifecycle state.
func (b *Bubble) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Text returns the bubble text as it will draw, including inserted wraps.
func (b *Bubble) Text() string {
	return b.text
}

// AddTags associates more tags with this bubble's registry entry.
func (b *Bubble) AddTags(tags ...registry.Tag) {
	b.reg.AddTags(b.item.Identity(), tags...)
}

// RemoveTags drops tags from this bubble's registry entry.
func (b *Bubble) RemoveTags(tags ...registry.Tag) {
	if entry, ok := b.reg.Find(b.item.Identity()); ok {
		b.reg.RemoveTags(entry, tags...)
	}
}

// SetDisableAutoHide controls whether a pointer press on the bubble hides it.
func (b *Bubble) SetDisableAutoHide(disable bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disableAutoHide = disable
}

// DisableAutoHide reports whether auto-hide is disabled for this bubble.
func (b *Bubble) DisableAutoHide() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disableAutoHide
}

// Deactivate removes the bubble's registry entry and destroys it. The bubble
// must not be used afterwards.
func (b *Bubble) Deactivate() error {
	b.reg.Unregister(b.item.Identity())
	return b.destroy()
}

// SetAlpha implements fade.Fadeable.
func (b *Bubble) SetAlpha(alpha int) {
	b.alphaMu.Lock()
	defer b.alphaMu.Unlock()
	b.alpha = alpha
	b.surface.SetAlpha(alpha)
}

// CurrentAlpha implements fade.Fadeable.
func (b *Bubble) CurrentAlpha() int {
	b.alphaMu.Lock()
	defer b.alphaMu.Unlock()
	return b.alpha
}

func (b *Bubble) onPress() {
	if !b.DisableAutoHide() {
		b.Hide()
	}
}

// destroy releases everything the bubble owns. Every release is attempted
// even if an earlier one fails, so one bad handle cannot leak the rest.
func (b *Bubble) destroy() error {
	b.destroyOnce.Do(func() {
		b.fades.Cancel(b)

		b.mu.Lock()
		b.state = StateDestroyed
		b.mu.Unlock()

		b.destroyErr = b.releaseResources()
	})
	return b.destroyErr
}

func (b *Bubble) releaseResources() error {
	var errs []error
	if b.background != nil {
		errs = append(errs, b.background.Dispose())
	}
	if b.textColor != nil {
		// Releases the border color too; they are the same handle.
		errs = append(errs, b.textColor.Dispose())
	}
	if b.font != nil {
		errs = append(errs, b.font.Dispose())
	}
	if b.surface != nil {
		errs = append(errs, b.surface.Dispose())
	}
	return errors.Join(errs...)
}

func (b *Bubble) resetPlacement() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetPlacementLocked()
}

func (b *Bubble) resetPlacementLocked() {
	b.vertical = placement.BelowParent
	b.horizontal = placement.TopLeftCorner
}
