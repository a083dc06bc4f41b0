package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlackScholesPriceTextbookValues(t *testing.T) {
	// S=100, K=100, T=1, r=5%, sigma=20%
	call := BlackScholesPrice(true, 100, 100, 1, 0.05, 0.2)
	put := BlackScholesPrice(false, 100, 100, 1, 0.05, 0.2)

	assert.InDelta(t, 10.4506, call, 1e-4)
	assert.InDelta(t, 5.5735, put, 1e-4)

	// put-call parity: C - P = S - K e^{-rT}
	assert.InDelta(t, 100-100*math.Exp(-0.05), call-put, 1e-10)
}

func TestBlackScholesPriceIntrinsicFallback(t *testing.T) {
	assert.Equal(t, 10.0, BlackScholesPrice(true, 110, 100, 0, 0.05, 0.2))
	assert.Equal(t, 0.0, BlackScholesPrice(true, 90, 100, 0, 0.05, 0.2))
	assert.Equal(t, 10.0, BlackScholesPrice(false, 90, 100, 1, 0.05, 0))
}

func TestBlackScholesPriceMonotoneInVol(t *testing.T) {
	low := BlackScholesPrice(true, 100, 100, 0.5, 0.03, 0.1)
	high := BlackScholesPrice(true, 100, 100, 0.5, 0.03, 0.3)
	assert.Greater(t, high, low)
}
