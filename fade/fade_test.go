package fade

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeSubject records every alpha it is driven through.
type fakeSubject struct {
	mu     sync.Mutex
	alpha  int
	record []int
}

func (f *fakeSubject) SetAlpha(alpha int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alpha = alpha
	f.record = append(f.record, alpha)
}

func (f *fakeSubject) CurrentAlpha() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alpha
}

func (f *fakeSubject) history() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.record...)
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fade did not complete in time")
	}
}

func TestStartReachesTargetAndCompletesOnce(t *testing.T) {
	t.Parallel()

	var c Controller
	subject := &fakeSubject{alpha: AlphaOpaque}

	var completions atomic.Int32
	done := make(chan struct{})
	err := c.Start(Config{
		Subject:  subject,
		From:     AlphaOpaque,
		To:       AlphaTransparent,
		Duration: 50 * time.Millisecond,
		Interval: 5 * time.Millisecond,
		OnComplete: func() {
			if completions.Add(1) == 1 {
				close(done)
			}
		},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	waitDone(t, done)
	// Give a stray extra callback a chance to fire before checking.
	time.Sleep(30 * time.Millisecond)

	if got := completions.Load(); got != 1 {
		t.Errorf("expected exactly 1 completion, got %d", got)
	}
	if got := subject.CurrentAlpha(); got != AlphaTransparent {
		t.Errorf("expected final alpha 0, got %d", got)
	}
	if c.InProgress(subject) {
		t.Error("fade still marked in progress after completion")
	}
}

func TestStartAlphaMovesMonotonically(t *testing.T) {
	t.Parallel()

	var c Controller
	subject := &fakeSubject{}

	done := make(chan struct{})
	err := c.Start(Config{
		Subject:    subject,
		From:       AlphaTransparent,
		To:         AlphaOpaque,
		Duration:   50 * time.Millisecond,
		Interval:   5 * time.Millisecond,
		OnComplete: func() { close(done) },
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	waitDone(t, done)

	history := subject.history()
	for i := 1; i < len(history); i++ {
		if history[i] < history[i-1] {
			t.Fatalf("alpha moved backwards at step %d: %v", i, history)
		}
	}
	if history[len(history)-1] != AlphaOpaque {
		t.Errorf("expected last recorded alpha 255, got %d", history[len(history)-1])
	}
}

func TestStartSecondFadeForSameSubjectIsNoOp(t *testing.T) {
	t.Parallel()

	var c Controller
	subject := &fakeSubject{alpha: AlphaOpaque}

	done := make(chan struct{})
	err := c.Start(Config{
		Subject:    subject,
		From:       AlphaOpaque,
		To:         AlphaTransparent,
		Duration:   100 * time.Millisecond,
		Interval:   5 * time.Millisecond,
		OnComplete: func() { close(done) },
	})
	if err != nil {
		t.Fatalf("first start: %v", err)
	}

	secondCompleted := make(chan struct{})
	err = c.Start(Config{
		Subject:    subject,
		From:       AlphaTransparent,
		To:         AlphaOpaque,
		Duration:   time.Millisecond,
		Interval:   time.Millisecond,
		OnComplete: func() { close(secondCompleted) },
	})
	if err != nil {
		t.Fatalf("second start should be a silent no-op, got %v", err)
	}

	waitDone(t, done)
	select {
	case <-secondCompleted:
		t.Error("refused second fade still ran")
	case <-time.After(50 * time.Millisecond):
	}
	if got := subject.CurrentAlpha(); got != AlphaTransparent {
		t.Errorf("active fade was altered: final alpha %d", got)
	}
}

func TestStartInvalidArguments(t *testing.T) {
	t.Parallel()

	subject := &fakeSubject{}
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "nil subject",
			cfg:     Config{From: 255, To: 0, Duration: time.Millisecond},
			wantErr: ErrNoSubject,
		},
		{
			name:    "from out of range",
			cfg:     Config{Subject: subject, From: 300, To: 0, Duration: time.Millisecond},
			wantErr: ErrInvalidAlpha,
		},
		{
			name:    "to out of range",
			cfg:     Config{Subject: subject, From: 255, To: -1, Duration: time.Millisecond},
			wantErr: ErrInvalidAlpha,
		},
		{
			name:    "no movement",
			cfg:     Config{Subject: subject, From: 128, To: 128, Duration: time.Millisecond},
			wantErr: ErrNoAlphaMovement,
		},
		{
			name:    "zero duration",
			cfg:     Config{Subject: subject, From: 255, To: 0},
			wantErr: ErrInvalidDuration,
		},
		{
			name: "invalid linked fade",
			cfg: Config{
				Subject: subject, From: 255, To: 0, Duration: time.Millisecond,
				Linked: []Link{{Subject: &fakeSubject{}, From: 999, To: 0}},
			},
			wantErr: ErrInvalidAlpha,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var c Controller
			if err := c.Start(tt.cfg); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(subject.history()) != 0 {
				t.Error("invalid start had side effects on subject")
			}
		})
	}
}

func TestCancelSuppressesCompletion(t *testing.T) {
	t.Parallel()

	var c Controller
	subject := &fakeSubject{alpha: AlphaOpaque}

	completed := make(chan struct{})
	err := c.Start(Config{
		Subject:    subject,
		From:       AlphaOpaque,
		To:         AlphaTransparent,
		Duration:   200 * time.Millisecond,
		Interval:   5 * time.Millisecond,
		OnComplete: func() { close(completed) },
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	c.Cancel(subject)

	if c.InProgress(subject) {
		t.Error("fade still in progress after cancel")
	}
	select {
	case <-completed:
		t.Error("completion callback fired after cancel")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestLinkedFadesStartTogether(t *testing.T) {
	t.Parallel()

	var c Controller
	parent := &fakeSubject{alpha: AlphaOpaque}
	follower := &fakeSubject{alpha: AlphaOpaque}

	var wg sync.WaitGroup
	wg.Add(2)
	err := c.Start(Config{
		Subject:    parent,
		From:       AlphaOpaque,
		To:         AlphaTransparent,
		Duration:   40 * time.Millisecond,
		Interval:   5 * time.Millisecond,
		OnComplete: wg.Done,
		Linked: []Link{{
			Subject:    follower,
			From:       AlphaOpaque,
			To:         AlphaTransparent,
			OnComplete: wg.Done,
		}},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	waitDone(t, done)

	if parent.CurrentAlpha() != AlphaTransparent || follower.CurrentAlpha() != AlphaTransparent {
		t.Errorf("expected both subjects at 0, got parent=%d follower=%d",
			parent.CurrentAlpha(), follower.CurrentAlpha())
	}
}
