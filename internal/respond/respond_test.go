package respond

import (
    "testing"
    "time"

    "github.com/stretchr/testify/require"

    "github.com/debran19996/glint-server/internal/price"
)

func TestBuild_NoSnapshot_DefaultsStampedNow(t *testing.T) {
    now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
    res := Build(nil, time.Time{}, now)

    require.False(t, res.NotModified)
    require.Equal(t, 92.5, res.Snapshot.Gold)
    require.Equal(t, 1.27, res.Snapshot.Currencies[price.GBP])
    require.Equal(t, now, res.Snapshot.UpdatedAt)
}

func TestBuild_ClientTimestampEqualsUpdatedAt_NotModified(t *testing.T) {
    updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
    snap := price.Defaults()
    snap.UpdatedAt = updated

    res := Build(&snap, updated, updated.Add(time.Minute))
    require.True(t, res.NotModified)
}

func TestBuild_ClientTimestampNewer_NotModified(t *testing.T) {
    updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
    snap := price.Defaults()
    snap.UpdatedAt = updated

    res := Build(&snap, updated.Add(time.Hour), updated.Add(2*time.Hour))
    require.True(t, res.NotModified)
}

func TestBuild_ClientTimestampOlder_EmitsSnapshot(t *testing.T) {
    updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
    snap := price.Defaults()
    snap.UpdatedAt = updated

    res := Build(&snap, updated.Add(-time.Minute), updated.Add(time.Minute))
    require.False(t, res.NotModified)
    require.Equal(t, snap, res.Snapshot)
}

func TestBuild_NoClientTimestamp_EmitsSnapshot(t *testing.T) {
    snap := price.Defaults()
    snap.UpdatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

    res := Build(&snap, time.Time{}, snap.UpdatedAt.Add(time.Minute))
    require.False(t, res.NotModified)
    require.Equal(t, snap, res.Snapshot)
}
