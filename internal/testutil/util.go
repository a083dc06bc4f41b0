// Package testutil holds chain fixtures shared across engine tests.
package testutil

import (
	"time"

	"github.com/contactkeval/vol-index/internal/index"
)

// MustDate parses a YYYY-MM-DD date or panics. Test-only.
func MustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Quote builds one canonical quote from a mid price with a fixed 0.10
// spread.
func Quote(trade, expiry string, typ index.OptionType, strike, mid float64) index.OptionQuote {
	return index.OptionQuote{
		TradeDate:  MustDate(trade),
		Expiration: MustDate(expiry),
		Strike:     strike,
		Type:       typ,
		Bid:        mid - 0.05,
		Ask:        mid + 0.05,
	}
}

// QuoteBid builds one canonical quote with explicit bid and ask.
func QuoteBid(trade, expiry string, typ index.OptionType, strike, bid, ask float64) index.OptionQuote {
	return index.OptionQuote{
		TradeDate:  MustDate(trade),
		Expiration: MustDate(expiry),
		Strike:     strike,
		Type:       typ,
		Bid:        bid,
		Ask:        ask,
	}
}

// ChainOf assembles a chain from quotes that all share one
// (trade date, expiration).
func ChainOf(trade, expiry string, quotes ...index.OptionQuote) index.Chain {
	return index.Chain{
		TradeDate:  MustDate(trade),
		Expiration: MustDate(expiry),
		Quotes:     quotes,
	}
}

// ParityChain builds a chain whose call and put mids cross exactly at the
// given strike: call mids fall linearly and put mids rise linearly around
// it, equal at the crossing.
func ParityChain(trade, expiry string, strikes []float64, crossing float64) index.Chain {
	var quotes []index.OptionQuote
	for _, k := range strikes {
		callMid := 10 + (crossing-k)*0.05
		putMid := 10 + (k-crossing)*0.05
		quotes = append(quotes,
			Quote(trade, expiry, index.Call, k, callMid),
			Quote(trade, expiry, index.Put, k, putMid),
		)
	}
	return ChainOf(trade, expiry, quotes...)
}
