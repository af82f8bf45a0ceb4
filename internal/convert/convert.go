package convert

import (
    "fmt"
    "math"
)

// GramsPerTroyOunce is the conversion factor between troy ounces and grams.
const GramsPerTroyOunce = 31.1035

// PerGram converts a per-troy-ounce price to a per-gram price.
// Non-finite or non-positive inputs are rejected rather than propagated.
func PerGram(perOunce float64) (float64, error) {
    if err := check(perOunce); err != nil {
        return 0, fmt.Errorf("per-ounce price: %w", err)
    }
    return perOunce / GramsPerTroyOunce, nil
}

// Invert flips a conversion rate to the opposite direction, e.g. a USD->EUR
// quote into the EUR->USD factor the snapshot carries.
func Invert(rate float64) (float64, error) {
    if err := check(rate); err != nil {
        return 0, fmt.Errorf("rate: %w", err)
    }
    return 1 / rate, nil
}

func check(v float64) error {
    if math.IsNaN(v) || math.IsInf(v, 0) {
        return fmt.Errorf("not finite: %v", v)
    }
    if v <= 0 {
        return fmt.Errorf("not positive: %v", v)
    }
    return nil
}
