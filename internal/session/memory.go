package session

import (
	"context"
	"sync"
)

// MemoryAdapter keeps the session in process memory. Used when no
// redis is configured, and in tests. SimulateExternalChange stands in
// for another instance writing to shared storage.
type MemoryAdapter struct {
	mu       sync.Mutex
	snap     Snapshot
	watchers []func(Snapshot)
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{}
}

func (a *MemoryAdapter) Load(ctx context.Context) (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap, nil
}

func (a *MemoryAdapter) Save(ctx context.Context, snap Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snap = snap
	return nil
}

func (a *MemoryAdapter) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snap = Snapshot{}
	return nil
}

func (a *MemoryAdapter) Watch(ctx context.Context, onChange func(Snapshot)) error {
	a.mu.Lock()
	a.watchers = append(a.watchers, onChange)
	a.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

// SimulateExternalChange installs snap as if another instance had
// written it, and notifies watchers.
func (a *MemoryAdapter) SimulateExternalChange(snap Snapshot) {
	a.mu.Lock()
	a.snap = snap
	watchers := make([]func(Snapshot), len(a.watchers))
	copy(watchers, a.watchers)
	a.mu.Unlock()

	for _, w := range watchers {
		w(snap)
	}
}
