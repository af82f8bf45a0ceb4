package store

import (
    "context"
    "errors"

    "github.com/debran19996/glint-server/internal/price"
)

// ErrNotFound distinguishes true absence from backend failure. Backend
// failure is returned as any other error, never masked as absence.
var ErrNotFound = errors.New("store: snapshot not found")

// Store is a single-key get/set surface over some key-value backend.
// Get-after-set within the same process must observe the just-set value.
// No guarantees across keys.
type Store interface {
    Get(ctx context.Context, key string) (*price.Snapshot, error)
    Set(ctx context.Context, key string, snap *price.Snapshot) error
}
