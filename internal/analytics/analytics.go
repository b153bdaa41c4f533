// Package analytics derives local dashboard figures from the cached trade
// list. Everything here is computed with decimals so long profit streams do
// not accumulate float error.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nextgenfx/fxterm/internal/domain"
)

// EquityPoint is one step of the cumulative profit curve.
type EquityPoint struct {
	TradeID    string
	Symbol     string
	ClosedAt   int64
	Profit     decimal.Decimal
	Cumulative decimal.Decimal
}

// EquityCurve builds the cumulative profit series over closed trades,
// ordered by update time. Open and pending trades are excluded since their
// profit is still moving.
func EquityCurve(trades []domain.Trade) []EquityPoint {
	closed := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Status == domain.TradeClosed {
			closed = append(closed, t)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].UpdatedAt.Before(closed[j].UpdatedAt)
	})

	points := make([]EquityPoint, 0, len(closed))
	running := decimal.Zero
	for _, t := range closed {
		p := decimal.NewFromFloat(t.Profit)
		running = running.Add(p)
		points = append(points, EquityPoint{
			TradeID:    t.ID,
			Symbol:     t.Symbol,
			ClosedAt:   t.UpdatedAt.Unix(),
			Profit:     p,
			Cumulative: running,
		})
	}
	return points
}

// Summary are the locally derived aggregates shown next to the server stats.
type Summary struct {
	Trades      int
	Open        int
	Closed      int
	Wins        int
	Losses      int
	WinRate     decimal.Decimal
	TotalProfit decimal.Decimal
	AvgProfit   decimal.Decimal
	BestTrade   decimal.Decimal
	WorstTrade  decimal.Decimal
}

// Summarize computes local aggregates over the trade list. Win rate and
// averages only consider closed trades; a break-even close counts as a win.
func Summarize(trades []domain.Trade) Summary {
	s := Summary{
		WinRate:   decimal.Zero,
		AvgProfit: decimal.Zero,
	}
	s.Trades = len(trades)

	first := true
	for _, t := range trades {
		switch t.Status {
		case domain.TradeOpen, domain.TradePending:
			s.Open++
			continue
		case domain.TradeClosed:
			s.Closed++
		default:
			continue
		}

		p := decimal.NewFromFloat(t.Profit)
		s.TotalProfit = s.TotalProfit.Add(p)
		if p.IsNegative() {
			s.Losses++
		} else {
			s.Wins++
		}
		if first || p.GreaterThan(s.BestTrade) {
			s.BestTrade = p
		}
		if first || p.LessThan(s.WorstTrade) {
			s.WorstTrade = p
		}
		first = false
	}

	if s.Closed > 0 {
		closed := decimal.NewFromInt(int64(s.Closed))
		s.AvgProfit = s.TotalProfit.Div(closed).Round(2)
		s.WinRate = decimal.NewFromInt(int64(s.Wins)).
			Mul(decimal.NewFromInt(100)).
			Div(closed).
			Round(1)
	}
	return s
}

// StatsDrift is the difference between the server aggregate snapshot and
// the figures derived from the local trade list. The two refresh
// independently, so a nonzero drift usually just means one of them is stale.
type StatsDrift struct {
	TotalProfit decimal.Decimal
	TradeCount  int
}

// Drift compares the server stats against the local summary. A nil stats
// snapshot reports zero drift since there is nothing to compare.
func Drift(stats *domain.TradeStats, local Summary) StatsDrift {
	if stats == nil {
		return StatsDrift{TotalProfit: decimal.Zero}
	}
	return StatsDrift{
		TotalProfit: decimal.NewFromFloat(stats.TotalProfit).Sub(local.TotalProfit),
		TradeCount:  stats.TotalTrades - local.Trades,
	}
}

// InSync reports whether the drift is small enough to ignore, within one
// cent and an equal trade count.
func (d StatsDrift) InSync() bool {
	return d.TradeCount == 0 && d.TotalProfit.Abs().LessThanOrEqual(decimal.NewFromFloat(0.01))
}
