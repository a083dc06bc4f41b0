package data

import (
	"math"
	"math/rand"
	"time"

	"github.com/contactkeval/vol-index/internal/index"
	"github.com/contactkeval/vol-index/internal/pricing"
)

// expiryOffsets are the listed expirations generated per trade date, in
// calendar days. They bracket both the 30 and 93 day horizons.
var expiryOffsets = []int{8, 15, 29, 57, 85, 113}

// synthProvider generates plausible chains from a lognormal spot walk,
// priced with Black-Scholes plus a moneyness smile. Deep wings price near
// zero, so zero-bid tails occur naturally.
type synthProvider struct {
	rng        *rand.Rand
	dateFormat string
	filter     *RowFilter

	spot    float64
	baseVol float64
	rate    float64
}

// NewSyntheticProvider constructs a deterministic synthetic provider for a
// given seed.
func NewSyntheticProvider(seed int64, dateFormat string, filter *RowFilter) Provider {
	if dateFormat == "" {
		dateFormat = "2006-01-02"
	}
	return &synthProvider{
		rng:        rand.New(rand.NewSource(seed)),
		dateFormat: dateFormat,
		filter:     filter,
		spot:       4000,
		baseVol:    0.18,
		rate:       0.03,
	}
}

func (p *synthProvider) Secondary() Provider { return nil }

func (p *synthProvider) LoadQuotes(from, to time.Time) ([]index.RawQuote, error) {
	var raws []index.RawQuote
	spot := p.spot

	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 1) {
		if cur.Weekday() == time.Saturday || cur.Weekday() == time.Sunday {
			continue
		}
		spot *= math.Exp(p.rng.NormFloat64() * p.baseVol / math.Sqrt(252))

		for _, offset := range expiryOffsets {
			expiry := cur.AddDate(0, 0, offset)
			raws = append(raws, p.chain(cur, expiry, spot)...)
		}
	}

	return applyFilter(p.filter, raws)
}

// chain emits call and put quotes from 60% to 140% of spot.
func (p *synthProvider) chain(trade, expiry time.Time, spot float64) []index.RawQuote {
	interval := strikeInterval(spot)
	low := math.Floor(spot*0.6/interval) * interval
	high := math.Ceil(spot*1.4/interval) * interval
	T := expiry.Sub(trade).Hours() / 24 / 365

	var out []index.RawQuote
	for k := low; k <= high; k += interval {
		sigma := p.baseVol * (1 + 0.4*math.Abs(math.Log(k/spot)))
		for _, isCall := range []bool{true, false} {
			price := pricing.BlackScholesPrice(isCall, spot, k, T, p.rate, sigma)
			spread := math.Max(0.05, price*0.04)
			bid := price - spread/2
			if bid < 0.01 {
				bid = 0
			}
			typ := "put"
			if isCall {
				typ = "call"
			}
			out = append(out, index.RawQuote{
				TradeDate:  trade.Format(p.dateFormat),
				Expiration: expiry.Format(p.dateFormat),
				Strike:     k,
				Type:       typ,
				Bid:        bid,
				Ask:        price + spread/2,
			})
		}
	}
	return out
}

func strikeInterval(spot float64) float64 {
	switch {
	case spot >= 2000:
		return 25
	case spot >= 500:
		return 5
	default:
		return 1
	}
}
