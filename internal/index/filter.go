package index

import (
	"fmt"
	"math"
	"sort"
)

// ReferenceStrike returns k0: the largest strike at or below the forward
// among strikes present in the chain. Returns ErrNoReferenceStrike when the
// forward sits below every listed strike.
func ReferenceStrike(c Chain, forward float64) (float64, error) {
	best := math.Inf(-1)
	found := false
	for _, q := range c.Quotes {
		if q.Strike <= forward && q.Strike > best {
			best = q.Strike
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("reference strike %s/%s (forward %.4f): %w",
			c.TradeDate.Format("2006-01-02"), c.Expiration.Format("2006-01-02"), forward, ErrNoReferenceStrike)
	}
	return best, nil
}

// FilterChain applies the two filtering passes in order:
//
//  1. moneyness: keep calls with strike >= k0 and puts with strike <= k0,
//     so in-the-money options drop out while both types survive at k0
//  2. zero-bid truncation: within each type, scanning by strike away from
//     k0, drop every quote whose bid is at or below the threshold when the
//     immediately preceding quote in scan order also had a zero bid
//
// An isolated zero bid is kept; only the tail beyond the first zero of a
// contiguous run is removed. Re-applying the filter is a no-op.
func FilterChain(c Chain, k0, zeroBidThreshold float64) Chain {
	var calls, puts []OptionQuote
	for _, q := range c.Side(Call) {
		if q.Strike >= k0 {
			calls = append(calls, q)
		}
	}
	for _, q := range c.Side(Put) {
		if q.Strike <= k0 {
			puts = append(puts, q)
		}
	}

	// calls scan upward from k0; puts scan downward
	reverse(puts)
	calls = truncateZeroBids(calls, zeroBidThreshold)
	puts = truncateZeroBids(puts, zeroBidThreshold)

	quotes := append(puts, calls...)
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Strike < quotes[j].Strike })
	return Chain{TradeDate: c.TradeDate, Expiration: c.Expiration, Quotes: quotes}
}

// truncateZeroBids drops a quote when its bid and the bid of the previous
// quote in scan order are both at or below the threshold. A non-zero bid
// resets the run.
func truncateZeroBids(scan []OptionQuote, threshold float64) []OptionQuote {
	out := make([]OptionQuote, 0, len(scan))
	prevZero := false
	for _, q := range scan {
		zero := q.Bid <= threshold
		if !(zero && prevZero) {
			out = append(out, q)
		}
		prevZero = zero
	}
	return out
}

func reverse(quotes []OptionQuote) {
	for i, j := 0, len(quotes)-1; i < j; i, j = i+1, j-1 {
		quotes[i], quotes[j] = quotes[j], quotes[i]
	}
}
