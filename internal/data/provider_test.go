package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/vol-index/internal/index"
)

func TestRowFilterKeep(t *testing.T) {
	filter, err := NewRowFilter("bid >= 0.05 && strike > 1000")
	require.NoError(t, err)

	keep, err := filter.Keep(index.RawQuote{Strike: 4000, Bid: 1.5, Ask: 1.6})
	require.NoError(t, err)
	assert.True(t, keep)

	keep, err = filter.Keep(index.RawQuote{Strike: 4000, Bid: 0.01, Ask: 0.1})
	require.NoError(t, err)
	assert.False(t, keep)

	keep, err = filter.Keep(index.RawQuote{Strike: 900, Bid: 1.5, Ask: 1.6})
	require.NoError(t, err)
	assert.False(t, keep)
}

func TestRowFilterTypeAndMidParameters(t *testing.T) {
	filter, err := NewRowFilter("type == 'put' && mid < 2")
	require.NoError(t, err)

	keep, err := filter.Keep(index.RawQuote{Type: "put", Bid: 1.0, Ask: 1.2})
	require.NoError(t, err)
	assert.True(t, keep)

	keep, err = filter.Keep(index.RawQuote{Type: "call", Bid: 1.0, Ask: 1.2})
	require.NoError(t, err)
	assert.False(t, keep)
}

func TestRowFilterEmptyKeepsEverything(t *testing.T) {
	filter, err := NewRowFilter("")
	require.NoError(t, err)

	keep, err := filter.Keep(index.RawQuote{})
	require.NoError(t, err)
	assert.True(t, keep)

	var nilFilter *RowFilter
	keep, err = nilFilter.Keep(index.RawQuote{})
	require.NoError(t, err)
	assert.True(t, keep)
}

func TestRowFilterCompileError(t *testing.T) {
	_, err := NewRowFilter("bid >= (")
	assert.Error(t, err)
}

func TestRowFilterNonBooleanResult(t *testing.T) {
	filter, err := NewRowFilter("strike + 1")
	require.NoError(t, err)

	_, err = filter.Keep(index.RawQuote{Strike: 4000})
	assert.ErrorIs(t, err, ErrFilterNotBoolean)
}

func TestApplyFilter(t *testing.T) {
	filter, err := NewRowFilter("bid > 0")
	require.NoError(t, err)

	raws := []index.RawQuote{
		{Strike: 3900, Bid: 1},
		{Strike: 3950, Bid: 0},
		{Strike: 4000, Bid: 2},
	}
	kept, err := applyFilter(filter, raws)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, 3900.0, kept[0].Strike)
	assert.Equal(t, 4000.0, kept[1].Strike)
}
