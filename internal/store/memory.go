package store

import (
    "context"
    "sync"

    "github.com/debran19996/glint-server/internal/price"
)

// MemoryStore is a volatile process-local Store for local and dev runs.
// Each instance owns its map; there is no package-level state.
type MemoryStore struct {
    mu    sync.RWMutex
    items map[string]price.Snapshot
}

func NewMemoryStore() *MemoryStore {
    return &MemoryStore{items: make(map[string]price.Snapshot)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*price.Snapshot, error) {
    m.mu.RLock()
    defer m.mu.RUnlock()
    snap, ok := m.items[key]
    if !ok {
        return nil, ErrNotFound
    }
    out := snap.Clone()
    return &out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, snap *price.Snapshot) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.items[key] = snap.Clone()
    return nil
}
