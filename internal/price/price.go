package price

import (
    "time"
)

// CacheKey is the single key under which the current snapshot is stored.
const CacheKey = "prices"

// Currency codes served by the snapshot. ILS is a USD->ILS factor;
// EUR and GBP are foreign->USD factors (already inverted from source quotes).
const (
    ILS = "ILS"
    EUR = "EUR"
    GBP = "GBP"
)

// Codes lists the supported currency codes in a stable order.
var Codes = []string{ILS, EUR, GBP}

// Snapshot is one complete set of metal prices and currency rates.
// Metal prices are USD per gram. It is always written as a whole.
type Snapshot struct {
    Gold       float64            `json:"gold"`
    Silver     float64            `json:"silver"`
    Platinum   float64            `json:"platinum"`
    Currencies map[string]float64 `json:"currencies"`
    UpdatedAt  time.Time          `json:"updatedAt"`
}

// Defaults returns the hardcoded last-resort values with a zero timestamp.
// Callers stamp UpdatedAt when they commit or emit it.
func Defaults() Snapshot {
    return Snapshot{
        Gold:     92.5,
        Silver:   1.05,
        Platinum: 31.2,
        Currencies: map[string]float64{
            ILS: 3.65,
            EUR: 1.08,
            GBP: 1.27,
        },
    }
}

// Clone returns a deep copy so callers can hold a snapshot without
// aliasing the Currencies map.
func (s Snapshot) Clone() Snapshot {
    out := s
    if s.Currencies != nil {
        out.Currencies = make(map[string]float64, len(s.Currencies))
        for k, v := range s.Currencies {
            out.Currencies[k] = v
        }
    }
    return out
}

// HasMetals reports whether all three metal prices are usable.
func (s Snapshot) HasMetals() bool {
    return s.Gold > 0 && s.Silver > 0 && s.Platinum > 0
}

// HasRates reports whether every supported currency has a usable rate.
func (s Snapshot) HasRates() bool {
    for _, code := range Codes {
        if s.Currencies[code] <= 0 {
            return false
        }
    }
    return true
}
