// Package ticker synthesizes indicative forex quotes for the dashboard
// strip. The upstream API has no streaming price endpoint, so quotes are a
// seeded random walk around realistic levels rather than live market data.
package ticker

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one indicative price for a pair.
type Quote struct {
	Symbol string
	Bid    decimal.Decimal
	Ask    decimal.Decimal
	Change decimal.Decimal
	At     time.Time
}

type pairSpec struct {
	base   decimal.Decimal
	pip    decimal.Decimal
	places int32
}

var specs = map[string]pairSpec{
	"EURUSD": {base: decimal.NewFromFloat(1.0850), pip: decimal.NewFromFloat(0.0001), places: 5},
	"GBPUSD": {base: decimal.NewFromFloat(1.2700), pip: decimal.NewFromFloat(0.0001), places: 5},
	"USDJPY": {base: decimal.NewFromFloat(149.50), pip: decimal.NewFromFloat(0.01), places: 3},
	"AUDUSD": {base: decimal.NewFromFloat(0.6550), pip: decimal.NewFromFloat(0.0001), places: 5},
	"XAUUSD": {base: decimal.NewFromFloat(2350.0), pip: decimal.NewFromFloat(0.10), places: 2},
}

var defaultSpec = pairSpec{base: decimal.NewFromFloat(1.0000), pip: decimal.NewFromFloat(0.0001), places: 5}

// Ticker walks a set of pairs one step per Tick call. Safe for concurrent
// use; the dashboard reads Quotes while its refresh loop ticks.
type Ticker struct {
	mu     sync.Mutex
	rng    *rand.Rand
	pairs  []string
	prices map[string]decimal.Decimal
	starts map[string]decimal.Decimal
}

// New seeds a ticker for the given pairs. Unknown symbols walk around 1.0.
func New(pairs []string, seed int64) *Ticker {
	t := &Ticker{
		rng:    rand.New(rand.NewSource(seed)),
		pairs:  append([]string(nil), pairs...),
		prices: make(map[string]decimal.Decimal, len(pairs)),
		starts: make(map[string]decimal.Decimal, len(pairs)),
	}
	for _, p := range pairs {
		base := specFor(p).base
		t.prices[p] = base
		t.starts[p] = base
	}
	return t
}

func specFor(symbol string) pairSpec {
	if s, ok := specs[symbol]; ok {
		return s
	}
	return defaultSpec
}

// Tick advances every pair by a few pips in a random direction.
func (t *Ticker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.pairs {
		spec := specFor(p)
		// Uniform step in [-3, +3] pips.
		steps := int64(t.rng.Intn(7) - 3)
		next := t.prices[p].Add(spec.pip.Mul(decimal.NewFromInt(steps)))
		if next.IsNegative() || next.IsZero() {
			next = spec.pip
		}
		t.prices[p] = next
	}
}

// Quotes returns the current quote per pair, in configured order. The ask
// sits one pip above the bid and Change is the move since start.
func (t *Ticker) Quotes() []Quote {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	out := make([]Quote, 0, len(t.pairs))
	for _, p := range t.pairs {
		spec := specFor(p)
		bid := t.prices[p].Round(spec.places)
		out = append(out, Quote{
			Symbol: p,
			Bid:    bid,
			Ask:    bid.Add(spec.pip).Round(spec.places),
			Change: bid.Sub(t.starts[p]),
			At:     now,
		})
	}
	return out
}
