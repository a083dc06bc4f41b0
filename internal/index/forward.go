package index

import (
	"fmt"
	"math"
	"time"
)

// ForwardEstimate is the implied forward level for one (trade date,
// expiration), derived from put-call parity at the crossing strike.
type ForwardEstimate struct {
	TradeDate      time.Time
	Expiration     time.Time
	CrossingStrike float64
	Forward        float64
}

// EstimateForward aligns calls and puts by strike, finds the crossing strike
// minimizing |call mid - put mid| (ties broken by the lowest strike), and
// computes forward = K* + e^(rT)*(callMid - putMid) at that strike.
//
// Returns ErrEmptyChain when the chain has no calls, no puts, or no strike
// quoted on both sides.
func EstimateForward(c Chain, riskFreeRate float64) (ForwardEstimate, error) {
	calls := c.Side(Call)
	puts := c.Side(Put)
	if len(calls) == 0 || len(puts) == 0 {
		return ForwardEstimate{}, fmt.Errorf("forward %s/%s: %w",
			c.TradeDate.Format("2006-01-02"), c.Expiration.Format("2006-01-02"), ErrEmptyChain)
	}

	putMids := make(map[float64]float64, len(puts))
	for _, p := range puts {
		putMids[p.Strike] = p.Mid()
	}

	var (
		crossing   float64
		parityDiff float64
		bestAbs    = math.Inf(1)
		found      bool
	)
	// calls are in ascending strike order, so a strict improvement test
	// keeps the lowest strike on ties
	for _, call := range calls {
		putMid, ok := putMids[call.Strike]
		if !ok {
			continue
		}
		diff := call.Mid() - putMid
		if abs := math.Abs(diff); abs < bestAbs {
			bestAbs = abs
			crossing = call.Strike
			parityDiff = diff
			found = true
		}
	}
	if !found {
		return ForwardEstimate{}, fmt.Errorf("forward %s/%s: no strike quoted on both sides: %w",
			c.TradeDate.Format("2006-01-02"), c.Expiration.Format("2006-01-02"), ErrEmptyChain)
	}

	forward := crossing + math.Exp(riskFreeRate*c.Years())*parityDiff
	return ForwardEstimate{
		TradeDate:      c.TradeDate,
		Expiration:     c.Expiration,
		CrossingStrike: crossing,
		Forward:        forward,
	}, nil
}
