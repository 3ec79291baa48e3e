// Package prefs loads bubble appearance preferences from a TOML file and can
// watch the file for edits so a running application picks changes up live.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/AkatukiSora/bubblekit/bubble"
)

// Prefs are the user-tunable bubble knobs.
type Prefs struct {
	MaxTextWidth    int  `toml:"max_text_width"`
	FadeOutMillis   int  `toml:"fade_out_millis"`
	Bold            bool `toml:"bold"`
	DisableAutoHide bool `toml:"disable_auto_hide"`
}

// Defaults returns the stock bubble behavior.
func Defaults() Prefs {
	return Prefs{
		MaxTextWidth:  bubble.DefaultMaxTextWidth,
		FadeOutMillis: int(bubble.DefaultFadeOutDuration / time.Millisecond),
	}
}

// FadeOutDuration converts the configured milliseconds to a duration.
func (p Prefs) FadeOutDuration() time.Duration {
	return time.Duration(p.FadeOutMillis) * time.Millisecond
}

// BubbleConfig translates the preferences into a bubble config.
func (p Prefs) BubbleConfig() bubble.Config {
	return bubble.Config{
		Bold:            p.Bold,
		DisableAutoHide: p.DisableAutoHide,
		MaxTextWidth:    p.MaxTextWidth,
		FadeOutDuration: p.FadeOutDuration(),
	}
}

// Load reads the preferences file at path. A missing file yields the
// defaults; a malformed file is an error so a typo doesn't silently reset
// everything.
func Load(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read prefs %s: %w", path, err)
	}

	p := Defaults()
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("parse prefs %s: %w", path, err)
	}
	if p.MaxTextWidth <= 0 {
		p.MaxTextWidth = bubble.DefaultMaxTextWidth
	}
	if p.FadeOutMillis <= 0 {
		p.FadeOutMillis = int(bubble.DefaultFadeOutDuration / time.Millisecond)
	}
	return p, nil
}
