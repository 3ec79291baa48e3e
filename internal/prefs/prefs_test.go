package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AkatukiSora/bubblekit/bubble"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	p, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if p != Defaults() {
		t.Errorf("expected defaults, got %+v", p)
	}
}

func TestLoadParsesAndFillsGaps(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bubbles.toml")
	content := "max_text_width = 250\nbold = true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write prefs: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.MaxTextWidth != 250 {
		t.Errorf("max_text_width: expected 250, got %d", p.MaxTextWidth)
	}
	if !p.Bold {
		t.Error("bold flag not parsed")
	}
	// Unset fields keep their defaults.
	if p.FadeOutDuration() != bubble.DefaultFadeOutDuration {
		t.Errorf("fade duration: expected default, got %v", p.FadeOutDuration())
	}
}

func TestLoadMalformedFileErrors(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bubbles.toml")
	if err := os.WriteFile(path, []byte("max_text_width = {"), 0o600); err != nil {
		t.Fatalf("write prefs: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed prefs")
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bubbles.toml")
	if err := os.WriteFile(path, []byte("max_text_width = 300\n"), 0o600); err != nil {
		t.Fatalf("write prefs: %v", err)
	}

	changed := make(chan Prefs, 4)
	w, err := Watch(path, WatchConfig{OnChange: func(p Prefs) {
		select {
		case changed <- p:
		default:
		}
	}})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("max_text_width = 123\n"), 0o600); err != nil {
		t.Fatalf("rewrite prefs: %v", err)
	}

	select {
	case p := <-changed:
		if p.MaxTextWidth != 123 {
			t.Errorf("reloaded max_text_width: expected 123, got %d", p.MaxTextWidth)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload notification after write")
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bubbles.toml")
	w, err := Watch(path, WatchConfig{})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	w.Stop()
	w.Stop()
}
