package session

import (
	"context"
	"fmt"
	"sync"
)

// Tracker accumulates the titles shown or rejected within one session.
// The exclusion set only grows; titles are matched by exact,
// case-sensitive string comparison.
type Tracker struct {
	mu      sync.Mutex
	key     string
	backend Backend
	order   []string
	set     map[string]struct{}
}

func newTracker(key string, backend Backend, seed []string) *Tracker {
	t := &Tracker{
		key:     key,
		backend: backend,
		set:     make(map[string]struct{}, len(seed)),
	}
	t.add(seed)
	return t
}

// RecordShown adds every title returned by a generation round, whether or
// not the caller later keeps it.
func (t *Tracker) RecordShown(ctx context.Context, titles []string) error {
	return t.record(ctx, titles)
}

// RecordRejected adds an explicitly discarded title.
func (t *Tracker) RecordRejected(ctx context.Context, title string) error {
	return t.record(ctx, []string{title})
}

func (t *Tracker) record(ctx context.Context, titles []string) error {
	t.mu.Lock()
	added := t.add(titles)
	t.mu.Unlock()

	if len(added) == 0 || t.backend == nil {
		return nil
	}
	// Memory is updated first so a backend failure never shrinks the set
	// seen by the next round in this process.
	if err := t.backend.Add(ctx, t.key, added...); err != nil {
		return fmt.Errorf("persist exclusions: %w", err)
	}
	return nil
}

// add must be called with mu held. It returns the titles that were new.
func (t *Tracker) add(titles []string) []string {
	var added []string
	for _, title := range titles {
		if title == "" {
			continue
		}
		if _, ok := t.set[title]; ok {
			continue
		}
		t.set[title] = struct{}{}
		t.order = append(t.order, title)
		added = append(added, title)
	}
	return added
}

// Excludes reports whether title is already in the exclusion set.
func (t *Tracker) Excludes(title string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.set[title]
	return ok
}

// ExclusionSet returns a copy of the current exclusion set.
func (t *Tracker) ExclusionSet() map[string]struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]struct{}, len(t.set))
	for k := range t.set {
		out[k] = struct{}{}
	}
	return out
}

// Titles returns the exclusion set in insertion order.
func (t *Tracker) Titles() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}

// Len returns the size of the exclusion set.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.order)
}
