package ticker

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotes_OrderAndSpread(t *testing.T) {
	tk := New([]string{"EURUSD", "XAUUSD"}, 1)

	quotes := tk.Quotes()
	require.Len(t, quotes, 2)
	assert.Equal(t, "EURUSD", quotes[0].Symbol)
	assert.Equal(t, "XAUUSD", quotes[1].Symbol)

	assert.True(t, quotes[0].Bid.Equal(decimal.NewFromFloat(1.0850)))
	assert.True(t, quotes[0].Ask.Sub(quotes[0].Bid).Equal(decimal.NewFromFloat(0.0001)))
	assert.True(t, quotes[0].Change.IsZero())
	assert.True(t, quotes[1].Ask.Sub(quotes[1].Bid).Equal(decimal.NewFromFloat(0.10)))
}

func TestTick_WalksWithinPipSteps(t *testing.T) {
	tk := New([]string{"EURUSD"}, 42)
	maxStep := decimal.NewFromFloat(0.0003)

	prev := tk.Quotes()[0].Bid
	for i := 0; i < 200; i++ {
		tk.Tick()
		cur := tk.Quotes()[0].Bid
		assert.True(t, cur.Sub(prev).Abs().LessThanOrEqual(maxStep),
			"step %d moved more than 3 pips: %s -> %s", i, prev, cur)
		assert.True(t, cur.IsPositive())
		prev = cur
	}
}

func TestTick_DeterministicForSeed(t *testing.T) {
	a := New([]string{"EURUSD", "USDJPY"}, 7)
	b := New([]string{"EURUSD", "USDJPY"}, 7)
	for i := 0; i < 50; i++ {
		a.Tick()
		b.Tick()
	}
	qa, qb := a.Quotes(), b.Quotes()
	for i := range qa {
		assert.True(t, qa[i].Bid.Equal(qb[i].Bid))
	}
}

func TestUnknownSymbolWalksAroundParity(t *testing.T) {
	tk := New([]string{"NZDCAD"}, 3)
	assert.True(t, tk.Quotes()[0].Bid.Equal(decimal.NewFromInt(1)))
}
