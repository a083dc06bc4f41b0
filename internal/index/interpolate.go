package index

import (
	"fmt"
	"math"
	"time"
)

// DefaultMinutesPerYear is the number of minutes in 365 days.
const DefaultMinutesPerYear = 525600.0

// Params holds the externally supplied calculation constants. The zero
// value is usable: defaults are a 30-day horizon, a zero-bid threshold of
// exactly zero and the standard minutes-per-year constant.
type Params struct {
	RiskFreeRate     float64
	HorizonDays      int
	ZeroBidThreshold float64
	MinutesPerYear   float64
}

func (p Params) withDefaults() Params {
	if p.HorizonDays == 0 {
		p.HorizonDays = 30
	}
	if p.MinutesPerYear == 0 {
		p.MinutesPerYear = DefaultMinutesPerYear
	}
	return p
}

// IndexPoint is the final output: one index value per processed trade date.
type IndexPoint struct {
	TradeDate   time.Time `json:"trade_date"`
	HorizonDays int       `json:"horizon_days"`
	Value       float64   `json:"value"`
}

// SelectCohorts picks the near-term and next-term expirations for a target
// horizon H: near-term has the largest time-to-expiry strictly below H
// days, next-term the smallest at or above H days. Returns
// ErrInsufficientCohort when either side is absent.
func SelectCohorts(variances []ExpirationVariance, horizonDays int) (near, next ExpirationVariance, err error) {
	h := float64(horizonDays)
	var lower, higher *ExpirationVariance
	for i := range variances {
		v := &variances[i]
		days := v.Years * 365
		switch {
		case days < h:
			if lower == nil || days > lower.Years*365 {
				lower = v
			}
		default:
			if higher == nil || days < higher.Years*365 {
				higher = v
			}
		}
	}
	if lower == nil || higher == nil {
		err = fmt.Errorf("horizon %d days: %w", horizonDays, ErrInsufficientCohort)
		return
	}
	return *lower, *higher, nil
}

// Interpolate combines the bracketing variances into the target-horizon
// index value using the minute-weighted CBOE formula:
//
//	index = 100 * sqrt( (N365/NH) * ( T1·σ1²·(Nt2−NH)/(Nt2−Nt1)
//	                                + T2·σ2²·(NH−Nt1)/(Nt2−Nt1) ) )
//
// Coinciding expirations would divide by zero and return
// ErrDegenerateCohort instead. A negative radicand from pathological
// variances yields NaN, which is propagated to the caller.
func Interpolate(near, next ExpirationVariance, p Params) (IndexPoint, error) {
	p = p.withDefaults()

	n365 := p.MinutesPerYear
	nh := float64(p.HorizonDays) / 365 * n365
	nt1 := near.Years * n365
	nt2 := next.Years * n365
	if nt1 == nt2 {
		return IndexPoint{}, fmt.Errorf("%s at %s: %w",
			near.TradeDate.Format("2006-01-02"), near.Expiration.Format("2006-01-02"), ErrDegenerateCohort)
	}

	total := near.Years*near.Sigma2*(nt2-nh)/(nt2-nt1) +
		next.Years*next.Sigma2*(nh-nt1)/(nt2-nt1)

	return IndexPoint{
		TradeDate:   near.TradeDate,
		HorizonDays: p.HorizonDays,
		Value:       100 * math.Sqrt(n365/nh*total),
	}, nil
}
