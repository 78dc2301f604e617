package facts

import (
	"context"
	"maps"
	"sync"
)

var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps snapshots in process. Each Load counts as one turn
// and decrements the stored lifespan.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]Snapshot
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string]Snapshot),
	}
}

func (b *MemoryBackend) Load(_ context.Context, sessionID string) (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap, ok := b.records[sessionID]
	if !ok {
		return Snapshot{}, nil
	}

	if snap.expired() {
		delete(b.records, sessionID)
		return Snapshot{}, nil
	}

	result := Snapshot{
		Values:   maps.Clone(snap.Values),
		Lifespan: snap.Lifespan,
	}

	snap.Lifespan--
	b.records[sessionID] = snap

	return result, nil
}

func (b *MemoryBackend) Save(_ context.Context, sessionID string, snap Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if snap.expired() {
		delete(b.records, sessionID)
		return nil
	}

	b.records[sessionID] = Snapshot{
		Values:   maps.Clone(snap.Values),
		Lifespan: snap.Lifespan,
	}

	return nil
}
