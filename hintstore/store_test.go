package hintstore

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStoreParity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		newStore func(t *testing.T) Store
	}{
		{
			name: "memory",
			newStore: func(_ *testing.T) Store {
				return NewMemoryStore()
			},
		},
		{
			name: "sqlite",
			newStore: func(t *testing.T) Store {
				store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "hints.db"))
				if err != nil {
					t.Fatalf("new sqlite store: %v", err)
				}
				t.Cleanup(func() {
					_ = store.Close()
				})
				return store
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			store := tt.newStore(t)

			dismissed, err := store.Dismissed(ctx, "tip.filters")
			if err != nil {
				t.Fatalf("dismissed (fresh): %v", err)
			}
			if dismissed {
				t.Error("fresh store reports hint dismissed")
			}

			if err := store.Dismiss(ctx, "tip.filters"); err != nil {
				t.Fatalf("dismiss: %v", err)
			}
			// Dismissing again must be harmless.
			if err := store.Dismiss(ctx, "tip.filters"); err != nil {
				t.Fatalf("dismiss again: %v", err)
			}
			if err := store.Dismiss(ctx, "tip.tags"); err != nil {
				t.Fatalf("dismiss second hint: %v", err)
			}

			dismissed, err = store.Dismissed(ctx, "tip.filters")
			if err != nil {
				t.Fatalf("dismissed: %v", err)
			}
			if !dismissed {
				t.Error("dismissed hint not reported as dismissed")
			}

			hints, err := store.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(hints) != 2 {
				t.Fatalf("expected 2 dismissals, got %d", len(hints))
			}
			for _, h := range hints {
				if h.HintID != "tip.filters" && h.HintID != "tip.tags" {
					t.Errorf("unexpected hint id %q", h.HintID)
				}
				if h.DismissedAt.IsZero() {
					t.Errorf("hint %q has zero dismissal time", h.HintID)
				}
			}

			if err := store.Reset(ctx); err != nil {
				t.Fatalf("reset: %v", err)
			}
			dismissed, err = store.Dismissed(ctx, "tip.filters")
			if err != nil {
				t.Fatalf("dismissed (after reset): %v", err)
			}
			if dismissed {
				t.Error("dismissal survived reset")
			}
		})
	}
}

func TestSQLiteStoreReopenKeepsDismissals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "hints.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	if err := store.Dismiss(ctx, "tip.welcome"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})

	dismissed, err := reopened.Dismissed(ctx, "tip.welcome")
	if err != nil {
		t.Fatalf("dismissed: %v", err)
	}
	if !dismissed {
		t.Error("dismissal lost across reopen")
	}
}
