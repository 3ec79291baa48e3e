// Package registry tracks every active bubble by the identity of the element
// it is anchored to, and lets callers tag bubbles so whole groups can be
// shown or hidden at once.
package registry

import "sync"

// Tag labels a bubble so that groups of bubbles can be shown or hidden
// together, e.g. everything belonging to one onboarding step.
type Tag string

// Showable is the part of a bubble the registry drives during bulk
// operations.
type Showable interface {
	Show()
	Hide()
}

// Registrant is one registry entry: the bubble registered for an anchor plus
// its current tag set. The registry owns the entry; it holds only a
// non-owning reference to the bubble and never disposes it.
type Registrant struct {
	Bubble Showable
	tags   map[Tag]struct{}
}

// HasTag reports whether the registrant carries tag.
func (r *Registrant) HasTag(tag Tag) bool {
	_, ok := r.tags[tag]
	return ok
}

// Tags returns a copy of the registrant's tag set.
func (r *Registrant) Tags() []Tag {
	out := make([]Tag, 0, len(r.tags))
	for t := range r.tags {
		out = append(out, t)
	}
	return out
}

// Registry maps anchor identities to their bubbles. Keys compare by identity:
// callers pass the anchored widget or custom provider itself (a pointer), so
// two anchors with identical geometry stay distinct. One mutex covers all
// mutating and bulk operations; contention is low since registration happens
// on the UI thread.
type Registry struct {
	mu      sync.Mutex
	entries map[any]*Registrant
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[any]*Registrant)}
}

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide registry, constructing it on first use.
// Prefer injecting a registry where practical; Default exists for callers
// that attach bubbles from independent parts of a UI.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = New()
	}
	return defaultRegistry
}

// ResetDefault discards the process-wide registry so the next Default call
// builds a fresh one. Intended for test isolation.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRegistry = nil
}

// Register adds (or replaces) the entry for the given anchor identity with an
// initial tag set.
func (r *Registry) Register(anchor any, bubble Showable, tags ...Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := &Registrant{Bubble: bubble, tags: make(map[Tag]struct{}, len(tags))}
	for _, t := range tags {
		entry.tags[t] = struct{}{}
	}
	r.entries[anchor] = entry
}

// Unregister removes the entry for the given anchor identity. The bubble
// itself is not disposed; that remains the caller's responsibility.
func (r *Registry) Unregister(anchor any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, anchor)
}

// Find returns the registrant for the given anchor identity.
func (r *Registry) Find(anchor any) (*Registrant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[anchor]
	return entry, ok
}

// AddTags adds tags to an existing entry. Unregistered anchors are a no-op.
func (r *Registry) AddTags(anchor any, tags ...Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[anchor]
	if !ok {
		return
	}
	for _, t := range tags {
		entry.tags[t] = struct{}{}
	}
}

// RemoveTags removes tags from a registrant previously returned by Find.
// A nil registrant is a no-op.
func (r *Registry) RemoveTags(registrant *Registrant, tags ...Tag) {
	if registrant == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tags {
		delete(registrant.tags, t)
	}
}

// ShowByTag shows every bubble whose tag set contains tag.
func (r *Registry) ShowByTag(tag Tag) {
	for _, b := range r.bubblesByTag(tag) {
		b.Show()
	}
}

// HideByTag hides every bubble whose tag set contains tag.
func (r *Registry) HideByTag(tag Tag) {
	for _, b := range r.bubblesByTag(tag) {
		b.Hide()
	}
}

// bubblesByTag snapshots the matching bubbles under the lock so Show/Hide run
// without holding it; a bubble's Show may call back into the registry.
func (r *Registry) bubblesByTag(tag Tag) []Showable {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Showable
	for _, entry := range r.entries {
		if entry.HasTag(tag) && entry.Bubble != nil {
			out = append(out, entry.Bubble)
		}
	}
	return out
}
