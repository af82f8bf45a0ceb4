package provider

import (
    "context"
    "errors"
)

// ErrNotConfigured short-circuits a candidate whose credential is absent.
// The chain skips it without attempting network I/O.
var ErrNotConfigured = errors.New("provider: not configured")

// Metals holds USD-per-gram prices, already normalized from the
// per-troy-ounce quotes upstream sources return.
type Metals struct {
    Gold     float64
    Silver   float64
    Platinum float64
}

// Rates maps a currency code to the upstream USD-based factor (USD->code).
// Direction normalization for the snapshot happens in the chain.
type Rates map[string]float64

// MetalProvider is one candidate source of all three metal prices.
// A candidate either fully succeeds or returns an error; partial results
// are never returned.
type MetalProvider interface {
    Name() string
    FetchMetals(ctx context.Context) (Metals, error)
}

// RateProvider is one candidate source of exchange rates for a set of codes.
type RateProvider interface {
    Name() string
    FetchRates(ctx context.Context, codes []string) (Rates, error)
}
