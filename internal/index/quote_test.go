package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawQuote(trade, expiry string, strike float64, typ string, bid, ask float64) RawQuote {
	return RawQuote{TradeDate: trade, Expiration: expiry, Strike: strike, Type: typ, Bid: bid, Ask: ask}
}

func TestNormalizeGroupsByDateAndExpiration(t *testing.T) {
	raws := []RawQuote{
		rawQuote("2023-01-02", "2023-02-17", 4000, "call", 95, 105),
		rawQuote("2023-01-02", "2023-02-17", 4000, "put", 90, 100),
		rawQuote("2023-01-02", "2023-03-17", 4000, "call", 140, 150),
		rawQuote("2023-01-02", "2023-02-17", 3900, "CALL", 150, 160),
	}

	chains, err := Normalizer{}.Normalize(raws)
	require.NoError(t, err)
	require.Len(t, chains, 2)

	first := chains[0]
	assert.Equal(t, "2023-02-17", first.Expiration.Format("2006-01-02"))
	require.Len(t, first.Quotes, 3)
	// quotes sorted by strike, mixed-case type normalized
	assert.Equal(t, 3900.0, first.Quotes[0].Strike)
	assert.Equal(t, Call, first.Quotes[0].Type)

	assert.Equal(t, "2023-03-17", chains[1].Expiration.Format("2006-01-02"))
}

func TestNormalizeTimeToExpiry(t *testing.T) {
	chains, err := Normalizer{}.Normalize([]RawQuote{
		rawQuote("2023-01-02", "2023-02-01", 4000, "call", 95, 105),
	})
	require.NoError(t, err)
	require.Len(t, chains, 1)

	q := chains[0].Quotes[0]
	assert.InDelta(t, 30, q.Days(), 1e-9)
	assert.InDelta(t, 30.0/365.0, q.Years(), 1e-12)
	assert.InDelta(t, 100.0, q.Mid(), 1e-9)
}

func TestNormalizeRejectsExpirationBeforeTradeDate(t *testing.T) {
	_, err := Normalizer{}.Normalize([]RawQuote{
		rawQuote("2023-01-02", "2022-12-30", 4000, "call", 95, 105),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQuote)
}

func TestNormalizeRejectsDuplicateStrike(t *testing.T) {
	_, err := Normalizer{}.Normalize([]RawQuote{
		rawQuote("2023-01-02", "2023-02-17", 4000, "call", 95, 105),
		rawQuote("2023-01-02", "2023-02-17", 4000, "call", 96, 106),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQuote)
}

func TestNormalizeRejectsUnknownTypeAndBadDates(t *testing.T) {
	_, err := Normalizer{}.Normalize([]RawQuote{
		rawQuote("2023-01-02", "2023-02-17", 4000, "straddle", 95, 105),
	})
	assert.ErrorIs(t, err, ErrInvalidQuote)

	_, err = Normalizer{}.Normalize([]RawQuote{
		rawQuote("01/02/2023", "2023-02-17", 4000, "call", 95, 105),
	})
	assert.ErrorIs(t, err, ErrInvalidQuote)
}

func TestNormalizeCustomDateFormat(t *testing.T) {
	chains, err := Normalizer{DateFormat: "20060102"}.Normalize([]RawQuote{
		rawQuote("20230102", "20230217", 4000, "put", 95, 105),
	})
	require.NoError(t, err)
	assert.Equal(t, "2023-02-17", chains[0].Expiration.Format("2006-01-02"))
}

func TestOptionTypeValidate(t *testing.T) {
	assert.NoError(t, Call.Validate())
	assert.NoError(t, Put.Validate())
	assert.Error(t, OptionType("future").Validate())
}
