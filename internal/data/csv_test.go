package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quotesCSV = `date,expiration,strike,type,bid,ask
2023-01-03,2023-02-01,3900,put,4.95,5.05
2023-01-03,2023-02-01,3900,call,14.95,15.05
2023-01-04,2023-02-01,3900,put,5.20,5.30
2023-01-10,2023-02-01,3900,put,6.00,6.10
`

func writeQuotesDir(t *testing.T, contents map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range contents {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCSVProviderLoadsRange(t *testing.T) {
	dir := writeQuotesDir(t, map[string]string{"quotes.csv": quotesCSV})
	p := NewCSVProvider(dir, "", nil, nil)

	raws, err := p.LoadQuotes(day("2023-01-03"), day("2023-01-04"))
	require.NoError(t, err)
	require.Len(t, raws, 3)
	assert.Equal(t, "2023-01-03", raws[0].TradeDate)
	assert.Equal(t, 3900.0, raws[0].Strike)

	// the 2023-01-10 row is outside the range
	for _, raw := range raws {
		assert.NotEqual(t, "2023-01-10", raw.TradeDate)
	}
}

func TestCSVProviderSkipsNonCSVEntries(t *testing.T) {
	dir := writeQuotesDir(t, map[string]string{
		"quotes.csv": quotesCSV,
		"notes.txt":  "not a snapshot",
	})
	p := NewCSVProvider(dir, "", nil, nil)

	raws, err := p.LoadQuotes(day("2023-01-03"), day("2023-01-10"))
	require.NoError(t, err)
	assert.Len(t, raws, 4)
}

func TestCSVProviderAppliesRowFilter(t *testing.T) {
	dir := writeQuotesDir(t, map[string]string{"quotes.csv": quotesCSV})
	filter, err := NewRowFilter("type == 'put'")
	require.NoError(t, err)
	p := NewCSVProvider(dir, "", filter, nil)

	raws, err := p.LoadQuotes(day("2023-01-03"), day("2023-01-10"))
	require.NoError(t, err)
	require.Len(t, raws, 3)
	for _, raw := range raws {
		assert.Equal(t, "put", raw.Type)
	}
}

func TestCSVProviderKeepsMalformedDatesForEngine(t *testing.T) {
	dir := writeQuotesDir(t, map[string]string{"quotes.csv": `date,expiration,strike,type,bid,ask
not-a-date,2023-02-01,3900,put,4.95,5.05
`})
	p := NewCSVProvider(dir, "", nil, nil)

	raws, err := p.LoadQuotes(day("2023-01-03"), day("2023-01-04"))
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "not-a-date", raws[0].TradeDate)
}

func TestCSVProviderFallsBackOnMissingDir(t *testing.T) {
	secondary := NewSyntheticProvider(1, "", nil)
	p := NewCSVProvider(filepath.Join(t.TempDir(), "missing"), "", nil, secondary)
	assert.Same(t, secondary, p.Secondary())

	raws, err := p.LoadQuotes(day("2023-01-03"), day("2023-01-03"))
	require.NoError(t, err)
	assert.NotEmpty(t, raws)
}

func TestCSVProviderFallsBackOnEmptyRange(t *testing.T) {
	dir := writeQuotesDir(t, map[string]string{"quotes.csv": quotesCSV})
	secondary := NewSyntheticProvider(1, "", nil)
	p := NewCSVProvider(dir, "", nil, secondary)

	// nothing in the directory for 2024, the synthetic fallback fills in
	raws, err := p.LoadQuotes(day("2024-06-03"), day("2024-06-03"))
	require.NoError(t, err)
	assert.NotEmpty(t, raws)
	assert.Equal(t, "2024-06-03", raws[0].TradeDate)
}

func TestCSVProviderErrorsWithoutFallback(t *testing.T) {
	p := NewCSVProvider(filepath.Join(t.TempDir(), "missing"), "", nil, nil)
	_, err := p.LoadQuotes(day("2023-01-03"), day("2023-01-03"))
	assert.Error(t, err)
}
