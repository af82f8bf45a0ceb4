package refresh

import (
    "context"
    "errors"
    "log"
    "sync"
    "time"

    "golang.org/x/sync/singleflight"

    "github.com/debran19996/glint-server/internal/price"
    "github.com/debran19996/glint-server/internal/provider"
    "github.com/debran19996/glint-server/internal/store"
)

// ErrUnauthorized rejects a scheduled trigger before any work is done.
var ErrUnauthorized = errors.New("refresh: bad or missing secret")

// DefaultStaleness is the cache age beyond which an on-demand read refreshes.
const DefaultStaleness = 5 * time.Minute

// MetalSource yields usable metal values and the name of the candidate that
// produced them. Chains never fail outright; the last candidates are the
// previous snapshot's values and the hardcoded defaults.
type MetalSource interface {
    Fetch(ctx context.Context, prev *price.Snapshot) (provider.Metals, string)
}

// RateSource is the currency counterpart of MetalSource.
type RateSource interface {
    Fetch(ctx context.Context, prev *price.Snapshot) (map[string]float64, string)
}

type Config struct {
    // Secret guards the scheduled trigger. Empty means no check.
    Secret string
    // Staleness is the on-demand refresh threshold; 0 means DefaultStaleness.
    Staleness time.Duration
}

// Orchestrator decides when cached data is usable and when to drive the
// provider chains, and persists each result as a whole snapshot.
type Orchestrator struct {
    cfg    Config
    store  store.Store
    metals MetalSource
    rates  RateSource
    now    func() time.Time
    sf     singleflight.Group
}

func New(cfg Config, st store.Store, metals MetalSource, rates RateSource) *Orchestrator {
    if cfg.Staleness <= 0 { cfg.Staleness = DefaultStaleness }
    return &Orchestrator{cfg: cfg, store: st, metals: metals, rates: rates, now: time.Now}
}

// Scheduled runs the full chain unconditionally and writes the result.
// The secret is checked before any cache or network work.
func (o *Orchestrator) Scheduled(ctx context.Context, secret string) (price.Snapshot, error) {
    if o.cfg.Secret != "" && secret != o.cfg.Secret {
        return price.Snapshot{}, ErrUnauthorized
    }
    prev := o.load(ctx)
    return o.refresh(ctx, prev), nil
}

// OnDemand serves from cache while fresh and refreshes once it goes stale.
// Concurrent stale reads share a single upstream refresh. It always yields
// a snapshot; total upstream failure resolves to cached or default values.
func (o *Orchestrator) OnDemand(ctx context.Context) price.Snapshot {
    prev := o.load(ctx)
    if prev != nil && o.now().Sub(prev.UpdatedAt) <= o.cfg.Staleness {
        return *prev
    }
    v, _, _ := o.sf.Do(price.CacheKey, func() (any, error) {
        return o.refresh(ctx, prev), nil
    })
    return v.(price.Snapshot)
}

// load treats backend failure as absence for decision purposes, but keeps
// the distinction visible in the log.
func (o *Orchestrator) load(ctx context.Context) *price.Snapshot {
    snap, err := o.store.Get(ctx, price.CacheKey)
    if err != nil {
        if !errors.Is(err, store.ErrNotFound) {
            log.Printf("cache read failed, treating as absent: %v", err)
        }
        return nil
    }
    return snap
}

// refresh drives both chains concurrently and commits one whole snapshot.
// A failed write is logged and swallowed; the freshly computed value is
// still returned to the caller.
func (o *Orchestrator) refresh(ctx context.Context, prev *price.Snapshot) price.Snapshot {
    var (
        metals    provider.Metals
        metalsSrc string
        rates     map[string]float64
        ratesSrc  string
    )
    var wg sync.WaitGroup
    wg.Add(2)
    go func() {
        defer wg.Done()
        metals, metalsSrc = o.metals.Fetch(ctx, prev)
    }()
    go func() {
        defer wg.Done()
        rates, ratesSrc = o.rates.Fetch(ctx, prev)
    }()
    wg.Wait()

    // second granularity so the timestamp survives a Last-Modified round trip
    now := o.now().UTC().Truncate(time.Second)
    if prev != nil && now.Before(prev.UpdatedAt) {
        // keep UpdatedAt monotonically non-decreasing across writes
        now = prev.UpdatedAt
    }
    snap := price.Snapshot{
        Gold:       metals.Gold,
        Silver:     metals.Silver,
        Platinum:   metals.Platinum,
        Currencies: rates,
        UpdatedAt:  now,
    }
    if err := o.store.Set(ctx, price.CacheKey, &snap); err != nil {
        log.Printf("cache write failed (best-effort): %v", err)
    }
    log.Printf("refreshed prices: metals=%s rates=%s", metalsSrc, ratesSrc)
    return snap
}
