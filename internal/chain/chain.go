package chain

import (
    "context"
    "errors"
    "log"

    "github.com/debran19996/glint-server/internal/convert"
    "github.com/debran19996/glint-server/internal/price"
    "github.com/debran19996/glint-server/internal/provider"
)

// Sources reported for the non-network candidates at the end of each chain.
const (
    SourceCache   = "cache"
    SourceDefault = "default"
)

// MetalChain tries candidates in order and stops at the first one that
// fully succeeds. The final candidates are the previous snapshot's metal
// values, then the hardcoded defaults, so a fetch always yields values.
// Failure reasons are logged per candidate, never silently dropped.
type MetalChain struct {
    Providers []provider.MetalProvider
}

func (c *MetalChain) Fetch(ctx context.Context, prev *price.Snapshot) (provider.Metals, string) {
    for _, p := range c.Providers {
        m, err := p.FetchMetals(ctx)
        if errors.Is(err, provider.ErrNotConfigured) {
            log.Printf("metals: %s skipped: not configured", p.Name())
            continue
        }
        if err != nil {
            log.Printf("metals: %s failed: %v", p.Name(), err)
            continue
        }
        return m, p.Name()
    }
    if prev != nil && prev.HasMetals() {
        return provider.Metals{Gold: prev.Gold, Silver: prev.Silver, Platinum: prev.Platinum}, SourceCache
    }
    d := price.Defaults()
    return provider.Metals{Gold: d.Gold, Silver: d.Silver, Platinum: d.Platinum}, SourceDefault
}

// invertCodes marks currencies whose upstream USD->code quote is served in
// the opposite direction (code->USD) in the snapshot. ILS stays USD->ILS.
var invertCodes = map[string]bool{
    price.EUR: true,
    price.GBP: true,
}

// CurrencyChain is the rate counterpart of MetalChain: external provider,
// then cached sub-values, then defaults. Direction normalization happens
// here so providers stay thin passthroughs of the upstream quote.
type CurrencyChain struct {
    Providers []provider.RateProvider
}

func (c *CurrencyChain) Fetch(ctx context.Context, prev *price.Snapshot) (map[string]float64, string) {
    for _, p := range c.Providers {
        raw, err := p.FetchRates(ctx, price.Codes)
        if err != nil {
            log.Printf("rates: %s failed: %v", p.Name(), err)
            continue
        }
        out, err := normalize(raw)
        if err != nil {
            log.Printf("rates: %s failed: %v", p.Name(), err)
            continue
        }
        return out, p.Name()
    }
    if prev != nil && prev.HasRates() {
        out := make(map[string]float64, len(price.Codes))
        for _, code := range price.Codes {
            out[code] = prev.Currencies[code]
        }
        return out, SourceCache
    }
    return price.Defaults().Currencies, SourceDefault
}

func normalize(raw provider.Rates) (map[string]float64, error) {
    out := make(map[string]float64, len(price.Codes))
    for _, code := range price.Codes {
        rate := raw[code]
        if invertCodes[code] {
            inv, err := convert.Invert(rate)
            if err != nil {
                return nil, err
            }
            out[code] = inv
            continue
        }
        if rate <= 0 {
            return nil, errors.New("non-positive rate for " + code)
        }
        out[code] = rate
    }
    return out, nil
}
