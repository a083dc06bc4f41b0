// Package index computes a model-free implied volatility index from option
// quote snapshots using the CBOE generalized variance-swap formula.
//
// The pipeline per (trade date, expiration) is:
//
//	normalize quotes -> estimate forward -> pick reference strike ->
//	filter chain -> compute strike spacing -> sum variance contributions
//
// and per trade date the near/next-term variances bracketing the target
// horizon are combined into the index value. Every step is a pure
// transformation; nothing is mutated after creation.
package index

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

func (o OptionType) Validate() error {
	if o != Call && o != Put {
		return fmt.Errorf("OptionType: invalid option type: %s", o)
	}
	return nil
}

// RawQuote is one unparsed quote record as handed over by an ingestion
// collaborator. Dates are textual; strikes are already in price units.
type RawQuote struct {
	TradeDate  string
	Expiration string
	Strike     float64
	Type       string
	Bid        float64
	Ask        float64
}

// OptionQuote is the canonical, immutable record for one
// (trade date, expiration, strike, type) tuple.
type OptionQuote struct {
	TradeDate  time.Time
	Expiration time.Time
	Strike     float64
	Type       OptionType
	Bid        float64
	Ask        float64
}

// Mid returns the quote mid price.
func (q OptionQuote) Mid() float64 { return (q.Bid + q.Ask) / 2 }

// Days returns the calendar days from trade date to expiration.
func (q OptionQuote) Days() float64 {
	return q.Expiration.Sub(q.TradeDate).Hours() / 24
}

// Years returns the time to expiry in years (days/365).
func (q OptionQuote) Years() float64 { return q.Days() / 365.0 }

// Chain holds every quote sharing one (trade date, expiration) pair,
// sorted by ascending strike. Strikes are unique per option type.
type Chain struct {
	TradeDate  time.Time
	Expiration time.Time
	Quotes     []OptionQuote
}

// Days returns the calendar days from trade date to the chain's expiration.
func (c Chain) Days() float64 {
	return c.Expiration.Sub(c.TradeDate).Hours() / 24
}

// Years returns the chain's time to expiry in years (days/365).
func (c Chain) Years() float64 { return c.Days() / 365.0 }

// Side returns the chain's quotes of one type, sorted by ascending strike.
func (c Chain) Side(t OptionType) []OptionQuote {
	out := make([]OptionQuote, 0, len(c.Quotes))
	for _, q := range c.Quotes {
		if q.Type == t {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strike < out[j].Strike })
	return out
}

// Normalizer parses raw quote records into chains.
type Normalizer struct {
	// DateFormat is the time layout of TradeDate and Expiration fields.
	// Defaults to "2006-01-02".
	DateFormat string
}

func (n Normalizer) layout() string {
	if n.DateFormat == "" {
		return "2006-01-02"
	}
	return n.DateFormat
}

// Normalize converts raw quotes into chains grouped by
// (trade date, expiration), sorted by date then expiration.
//
// A record fails normalization when its dates cannot be parsed, its type is
// neither call nor put, its expiration precedes its trade date, or it
// duplicates a strike already seen for the same (date, expiration, type).
// All of these wrap ErrInvalidQuote.
func (n Normalizer) Normalize(raws []RawQuote) ([]Chain, error) {
	type chainKey struct {
		trade, expiry string
	}
	layout := n.layout()

	chains := map[chainKey]*Chain{}
	seen := map[string]bool{}
	var order []chainKey

	for _, raw := range raws {
		trade, err := time.Parse(layout, strings.TrimSpace(raw.TradeDate))
		if err != nil {
			return nil, fmt.Errorf("parse trade date %q: %w", raw.TradeDate, ErrInvalidQuote)
		}
		expiry, err := time.Parse(layout, strings.TrimSpace(raw.Expiration))
		if err != nil {
			return nil, fmt.Errorf("parse expiration %q: %w", raw.Expiration, ErrInvalidQuote)
		}
		if expiry.Before(trade) {
			return nil, fmt.Errorf("expiration %s precedes trade date %s: %w",
				expiry.Format(layout), trade.Format(layout), ErrInvalidQuote)
		}

		optType := OptionType(strings.ToLower(strings.TrimSpace(raw.Type)))
		if err := optType.Validate(); err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrInvalidQuote)
		}

		dupKey := fmt.Sprintf("%s|%s|%s|%v", raw.TradeDate, raw.Expiration, optType, raw.Strike)
		if seen[dupKey] {
			return nil, fmt.Errorf("duplicate strike %v for %s %s %s: %w",
				raw.Strike, raw.TradeDate, raw.Expiration, optType, ErrInvalidQuote)
		}
		seen[dupKey] = true

		key := chainKey{raw.TradeDate, raw.Expiration}
		ch, ok := chains[key]
		if !ok {
			ch = &Chain{TradeDate: trade, Expiration: expiry}
			chains[key] = ch
			order = append(order, key)
		}
		ch.Quotes = append(ch.Quotes, OptionQuote{
			TradeDate:  trade,
			Expiration: expiry,
			Strike:     raw.Strike,
			Type:       optType,
			Bid:        raw.Bid,
			Ask:        raw.Ask,
		})
	}

	out := make([]Chain, 0, len(order))
	for _, key := range order {
		ch := chains[key]
		sort.Slice(ch.Quotes, func(i, j int) bool { return ch.Quotes[i].Strike < ch.Quotes[j].Strike })
		out = append(out, *ch)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TradeDate.Equal(out[j].TradeDate) {
			return out[i].TradeDate.Before(out[j].TradeDate)
		}
		return out[i].Expiration.Before(out[j].Expiration)
	})
	return out, nil
}
