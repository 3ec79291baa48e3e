// Package fade drives the alpha channel of a subject from one value to
// another over a fixed duration. A controller allows at most one active fade
// per subject; a fade may carry linked follower fades that start together
// with it.
package fade

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// AlphaOpaque and AlphaTransparent are the endpoints of the alpha range.
	AlphaOpaque      = 255
	AlphaTransparent = 0

	// DefaultInterval is how often a running fade steps the subject's alpha.
	DefaultInterval = 10 * time.Millisecond
)

var (
	ErrNoSubject       = errors.New("fade: subject is nil")
	ErrInvalidAlpha    = errors.New("fade: alpha out of range")
	ErrNoAlphaMovement = errors.New("fade: start and target alpha are equal")
	ErrInvalidDuration = errors.New("fade: duration must be positive")
)

// Fadeable is anything whose opacity the controller can drive. Implementations
// must serialize SetAlpha and CurrentAlpha against their own concurrent use;
// the controller calls them from its ticker goroutine.
type Fadeable interface {
	SetAlpha(alpha int)
	CurrentAlpha() int
}

// Link is a follower fade started together with its parent. It shares the
// parent's duration and interval.
type Link struct {
	Subject    Fadeable
	From       int
	To         int
	OnComplete func()
}

// Config describes a fade. Interval defaults to DefaultInterval.
type Config struct {
	Subject    Fadeable
	From       int
	To         int
	Duration   time.Duration
	Interval   time.Duration
	OnComplete func()
	Linked     []Link
}

// Controller tracks which subjects have a fade in progress.
// The zero value is ready to use.
type Controller struct {
	mu     sync.Mutex
	active map[Fadeable]chan struct{}
}

// Start begins fading cfg.Subject from cfg.From to cfg.To. Invalid parameters
// return an error with nothing started. If the subject already has a fade in
// progress the call is a no-op returning nil, leaving the active fade
// untouched. Linked followers start together with the parent; a follower
// whose subject is already fading is skipped.
func (c *Controller) Start(cfg Config) error {
	if err := validate(cfg.Subject, cfg.From, cfg.To, cfg.Duration); err != nil {
		return err
	}
	for i, l := range cfg.Linked {
		if err := validate(l.Subject, l.From, l.To, cfg.Duration); err != nil {
			return fmt.Errorf("linked fade %d: %w", i, err)
		}
	}

	c.mu.Lock()
	if c.active == nil {
		c.active = make(map[Fadeable]chan struct{})
	}
	if _, busy := c.active[cfg.Subject]; busy {
		c.mu.Unlock()
		return nil
	}

	starts := []runSpec{{cfg.Subject, cfg.From, cfg.To, cfg.OnComplete}}
	for _, l := range cfg.Linked {
		if _, busy := c.active[l.Subject]; busy || l.Subject == cfg.Subject {
			continue
		}
		starts = append(starts, runSpec{l.Subject, l.From, l.To, l.OnComplete})
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	for _, s := range starts {
		cancel := make(chan struct{})
		c.active[s.subject] = cancel
		s.subject.SetAlpha(s.from)
		go c.run(s, cfg.Duration, interval, cancel)
	}
	c.mu.Unlock()
	return nil
}

// Cancel stops an in-progress fade for subject without invoking its
// completion callback. The subject keeps whatever alpha it last received.
// Cancelling a subject with no active fade is a no-op.
func (c *Controller) Cancel(subject Fadeable) {
	c.mu.Lock()
	cancel, ok := c.active[subject]
	if ok {
		delete(c.active, subject)
		close(cancel)
	}
	c.mu.Unlock()
}

// InProgress reports whether subject currently has an active fade.
func (c *Controller) InProgress(subject Fadeable) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.active[subject]
	return ok
}

type runSpec struct {
	subject    Fadeable
	from, to   int
	onComplete func()
}

func (c *Controller) run(s runSpec, duration, interval time.Duration, cancel <-chan struct{}) {
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			if done := c.step(s, start, duration, cancel); done {
				return
			}
		}
	}
}

// step advances the subject's alpha one tick. It holds the controller lock
// across the alpha write so that once Cancel returns, no further writes or
// callbacks can happen for the subject.
func (c *Controller) step(s runSpec, start time.Time, duration time.Duration, cancel <-chan struct{}) bool {
	c.mu.Lock()
	if current := c.active[s.subject]; current != cancel {
		// Cancelled concurrently with this tick.
		c.mu.Unlock()
		return true
	}

	elapsed := time.Since(start)
	if elapsed >= duration {
		s.subject.SetAlpha(s.to)
	} else {
		s.subject.SetAlpha(s.from + int(int64(s.to-s.from)*int64(elapsed)/int64(duration)))
	}

	// Reaching the target alpha is the sole completion criterion.
	finished := complete(s.subject, s.to)
	if finished {
		delete(c.active, s.subject)
	}
	c.mu.Unlock()

	if finished && s.onComplete != nil {
		s.onComplete()
	}
	return finished
}

func complete(subject Fadeable, target int) bool {
	return subject.CurrentAlpha() == target
}

func validate(subject Fadeable, from, to int, duration time.Duration) error {
	if subject == nil {
		return ErrNoSubject
	}
	if from < AlphaTransparent || from > AlphaOpaque {
		return fmt.Errorf("%w: from=%d", ErrInvalidAlpha, from)
	}
	if to < AlphaTransparent || to > AlphaOpaque {
		return fmt.Errorf("%w: to=%d", ErrInvalidAlpha, to)
	}
	if from == to {
		return ErrNoAlphaMovement
	}
	if duration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}
