package index

import (
	"math"
	"time"
)

// ExpirationVariance is the expected variance to one expiration, computed
// once per (trade date, expiration) after filtering.
type ExpirationVariance struct {
	TradeDate  time.Time
	Expiration time.Time
	Years      float64
	Sigma2     float64
}

// ComputeVariance sums the weighted strip contributions of a filtered,
// spacing-annotated chain into the per-expiration variance estimate:
//
//	sigma² = (2/T) * Σ (ΔK/K²)·e^(rT)·mid  -  (1/T) * (F/k0 - 1)²
//
// A negative sigma² is possible on pathological inputs and is propagated
// unclamped; it surfaces downstream as a NaN index value.
func ComputeVariance(weighted []WeightedQuote, fwd ForwardEstimate, k0, riskFreeRate float64) ExpirationVariance {
	v := ExpirationVariance{TradeDate: fwd.TradeDate, Expiration: fwd.Expiration}
	if len(weighted) > 0 {
		v.Years = weighted[0].Years()
	} else {
		v.Years = fwd.Expiration.Sub(fwd.TradeDate).Hours() / 24 / 365
	}

	growth := math.Exp(riskFreeRate * v.Years)
	sum := 0.0
	for _, w := range weighted {
		sum += w.Spacing / (w.Strike * w.Strike) * growth * w.Mid()
	}

	left := 2 / v.Years * sum
	moneyness := fwd.Forward/k0 - 1
	right := moneyness * moneyness / v.Years
	v.Sigma2 = left - right
	return v
}
