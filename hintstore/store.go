// Package hintstore persists which hint bubbles the user has dismissed, so
// show-once bubbles (onboarding tips and similar) stay dismissed across
// application runs. Hints are identified by caller-chosen string IDs.
package hintstore

import (
	"context"
	"time"
)

// DismissedHint is one persisted dismissal.
type DismissedHint struct {
	HintID      string
	DismissedAt time.Time
}

// Store records hint dismissals.
type Store interface {
	// Dismiss marks hintID as dismissed. Dismissing twice is harmless.
	Dismiss(ctx context.Context, hintID string) error

	// Dismissed reports whether hintID has been dismissed.
	Dismissed(ctx context.Context, hintID string) (bool, error)

	// List returns all dismissals, newest first.
	List(ctx context.Context) ([]DismissedHint, error)

	// Reset forgets every dismissal.
	Reset(ctx context.Context) error

	Close() error
}
