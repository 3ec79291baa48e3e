// Command bubbledemo shows bubblekit attached to a small Fyne form: hover
// help on every control via tagged bubbles, a custom-region anchor, live
// preference reloading, and a show-once welcome hint backed by the
// dismissed-hints store.
package main

import (
	"context"
	"flag"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/AkatukiSora/bubblekit/bubble"
	"github.com/AkatukiSora/bubblekit/fynekit"
	"github.com/AkatukiSora/bubblekit/hintstore"
	"github.com/AkatukiSora/bubblekit/internal/applog"
	"github.com/AkatukiSora/bubblekit/internal/prefs"
	"github.com/AkatukiSora/bubblekit/registry"
)

const (
	helpTag        = registry.Tag("help")
	welcomeHintID  = "demo.welcome"
	welcomeText    = "Welcome! Press \"Show help\" to see a bubble on every control. This hint appears only once."
	nameHelpText   = "Type the name the greeting should use. Long help text like this one gets wrapped onto multiple lines automatically so the bubble never grows wider than the configured limit."
	greetHelpText  = "Sends the greeting."
	statusHelpText = "Status messages appear in this area."
)

// regionAnchor anchors a bubble to a fixed canvas region instead of a
// widget, the custom-provider variant of an anchored item.
type regionAnchor struct {
	bounds image.Rectangle
}

func (r *regionAnchor) Size() image.Point     { return r.bounds.Size() }
func (r *regionAnchor) Location() image.Point { return r.bounds.Min }
func (r *regionAnchor) Identity() any         { return r }

type demo struct {
	tk      *fynekit.Toolkit
	reg     *registry.Registry
	store   hintstore.Store
	bubbles []*bubble.Bubble
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	prefsPath := flag.String("prefs", filepath.Join(configDir(), "bubbles.toml"), "bubble preferences file")
	dbPath := flag.String("db", filepath.Join(configDir(), "hints.db"), "dismissed-hints database")
	flag.Parse()
	applog.Init(*debug)

	store := openStore(*dbPath)
	defer func() {
		_ = store.Close()
	}()

	a := app.New()
	win := a.NewWindow("bubblekit demo")
	win.Resize(fyne.NewSize(760, 480))

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Your name")
	status := widget.NewLabel("")
	greetBtn := widget.NewButton("Greet", func() {
		status.SetText("Hello, " + nameEntry.Text + "!")
	})

	d := &demo{reg: registry.Default(), store: store}

	showHelpBtn := widget.NewButton("Show help", func() {
		d.reg.ShowByTag(helpTag)
	})
	hideHelpBtn := widget.NewButton("Hide help", func() {
		d.reg.HideByTag(helpTag)
	})

	content := container.NewVBox(
		widget.NewLabelWithStyle("bubblekit demo", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nameEntry,
		container.NewHBox(greetBtn, showHelpBtn, hideHelpBtn),
		status,
	)

	overlay := container.NewWithoutLayout()
	win.SetContent(container.NewStack(content, overlay))
	d.tk = fynekit.NewToolkit(win.Canvas(), overlay)

	p, err := prefs.Load(*prefsPath)
	if err != nil {
		slog.Warn("loading prefs", "err", err)
	}
	d.rebuildBubbles(p, nameEntry, greetBtn, status)

	watcher, err := prefs.Watch(*prefsPath, prefs.WatchConfig{
		OnChange: func(p prefs.Prefs) {
			slog.Info("prefs changed, rebuilding bubbles",
				"max_text_width", p.MaxTextWidth, "fade_out_millis", p.FadeOutMillis)
			fyne.Do(func() {
				d.rebuildBubbles(p, nameEntry, greetBtn, status)
			})
		},
		OnError: func(err error) {
			slog.Warn("prefs watcher", "err", err)
		},
	})
	if err != nil {
		slog.Warn("watching prefs", "err", err)
	} else {
		defer watcher.Stop()
	}

	d.maybeShowWelcome()

	win.ShowAndRun()
}

// rebuildBubbles tears down the current help bubbles and recreates them with
// the given preferences.
func (d *demo) rebuildBubbles(p prefs.Prefs, nameEntry, greetBtn, status fyne.CanvasObject) {
	for _, b := range d.bubbles {
		if err := b.Deactivate(); err != nil {
			slog.Warn("deactivating bubble", "err", err)
		}
	}
	d.bubbles = d.bubbles[:0]

	cfg := p.BubbleConfig()
	cfg.Registry = d.reg
	cfg.Tags = []registry.Tag{helpTag}

	for _, item := range []struct {
		anchor bubble.AnchoredItem
		text   string
	}{
		{fynekit.AnchorFor(nameEntry), nameHelpText},
		{fynekit.AnchorFor(greetBtn), greetHelpText},
		{fynekit.AnchorFor(status), statusHelpText},
	} {
		b, err := bubble.New(d.tk, item.anchor, item.text, cfg)
		if err != nil {
			slog.Warn("creating bubble", "err", err)
			continue
		}
		d.bubbles = append(d.bubbles, b)
	}

	// Custom-provider anchor: a bubble for the window's title region.
	titleRegion := &regionAnchor{bounds: image.Rect(0, 0, 200, 30)}
	if b, err := bubble.New(d.tk, titleRegion, "This whole demo is driven by bubblekit.", cfg); err == nil {
		d.bubbles = append(d.bubbles, b)
	}
}

// maybeShowWelcome shows the welcome hint unless it was dismissed in an
// earlier run, and records the dismissal once it has been seen.
func (d *demo) maybeShowWelcome() {
	ctx := context.Background()
	dismissed, err := d.store.Dismissed(ctx, welcomeHintID)
	if err != nil {
		slog.Warn("checking welcome hint", "err", err)
		return
	}
	if dismissed {
		return
	}

	// Give the window a moment to lay out before anchoring to it.
	time.AfterFunc(500*time.Millisecond, func() {
		fyne.Do(func() {
			anchor := &regionAnchor{bounds: image.Rect(40, 40, 240, 70)}
			b, err := bubble.New(d.tk, anchor, welcomeText, bubble.Config{Registry: d.reg})
			if err != nil {
				slog.Warn("creating welcome bubble", "err", err)
				return
			}
			b.Show()
			if err := d.store.Dismiss(context.Background(), welcomeHintID); err != nil {
				slog.Warn("recording welcome dismissal", "err", err)
			}
		})
	})
}

func openStore(dbPath string) hintstore.Store {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		slog.Warn("creating config dir, falling back to memory store", "err", err)
		return hintstore.NewMemoryStore()
	}
	store, err := hintstore.NewSQLiteStore(dbPath)
	if err != nil {
		slog.Warn("opening hint store, falling back to memory store", "err", err)
		return hintstore.NewMemoryStore()
	}
	return store
}

func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "bubblekit")
}
