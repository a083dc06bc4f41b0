// Package pricing provides the Black-Scholes European option price used by
// the synthetic quote provider to generate plausible chains. The index
// engine itself never prices options.
package pricing

import "math"

// BlackScholesPrice returns the Black-Scholes price of a European option.
// S is spot, K strike, T time to expiry in years, r the risk-free rate and
// sigma the annualized volatility. Non-positive T or sigma falls back to
// intrinsic value.
func BlackScholesPrice(isCall bool, S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		if isCall {
			return math.Max(0, S-K)
		}
		return math.Max(0, K-S)
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)

	if isCall {
		return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
	}
	return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1)
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
