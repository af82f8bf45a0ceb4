package respond

import (
    "time"

    "github.com/debran19996/glint-server/internal/price"
)

// Result is the externally visible outcome of a conditional read: either
// "not modified" with no body, or a snapshot whose UpdatedAt doubles as the
// cache-validation timestamp for future conditional requests.
type Result struct {
    NotModified bool
    Snapshot    price.Snapshot
}

// Build applies the conditional-request contract. since is the client's
// "I have a version as of T" timestamp; zero means unconditional. A read
// always resolves to a body or a not-modified signal, never an error.
func Build(snap *price.Snapshot, since time.Time, now time.Time) Result {
    if snap == nil {
        d := price.Defaults()
        d.UpdatedAt = now.Truncate(time.Second)
        return Result{Snapshot: d}
    }
    if !since.IsZero() && !since.Before(snap.UpdatedAt) {
        return Result{NotModified: true}
    }
    return Result{Snapshot: *snap}
}
