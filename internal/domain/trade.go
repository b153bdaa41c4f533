package domain

import "time"

// TradeStatus is the lifecycle state of a trade as reported by the server.
type TradeStatus string

const (
	TradeOpen    TradeStatus = "open"
	TradeClosed  TradeStatus = "closed"
	TradePending TradeStatus = "pending"
)

// TradeSide is the direction of a trade.
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// Trade mirrors one trade record from the API. Closed trades are immutable
// history; the client never creates or derives them locally.
type Trade struct {
	ID          string      `json:"_id"`
	Symbol      string      `json:"symbol"`
	Type        TradeSide   `json:"type"`
	LotSize     float64     `json:"lotSize"`
	EntryPrice  float64     `json:"entryPrice"`
	ExitPrice   *float64    `json:"exitPrice,omitempty"`
	StopLoss    *float64    `json:"stopLoss,omitempty"`
	TakeProfit  *float64    `json:"takeProfit,omitempty"`
	Status      TradeStatus `json:"status"`
	Profit      float64     `json:"profit"`
	Level       int         `json:"level"`
	MT5Ticket   *int64      `json:"mt5Ticket,omitempty"`
	RiskProfile RiskProfile `json:"riskProfile"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Key returns the record's unique key.
func (t *Trade) Key() string {
	return t.ID
}

// TradePatch is a partial trade update, shallow-merged over an existing
// record. Nil fields stay as they are.
type TradePatch struct {
	Symbol     *string      `json:"symbol,omitempty"`
	Type       *TradeSide   `json:"type,omitempty"`
	LotSize    *float64     `json:"lotSize,omitempty"`
	EntryPrice *float64     `json:"entryPrice,omitempty"`
	ExitPrice  *float64     `json:"exitPrice,omitempty"`
	StopLoss   *float64     `json:"stopLoss,omitempty"`
	TakeProfit *float64     `json:"takeProfit,omitempty"`
	Status     *TradeStatus `json:"status,omitempty"`
	Profit     *float64     `json:"profit,omitempty"`
	MT5Ticket  *int64       `json:"mt5Ticket,omitempty"`
}

// Apply shallow-merges the patch into a copy of t and returns it.
func (p TradePatch) Apply(t Trade) Trade {
	if p.Symbol != nil {
		t.Symbol = *p.Symbol
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.LotSize != nil {
		t.LotSize = *p.LotSize
	}
	if p.EntryPrice != nil {
		t.EntryPrice = *p.EntryPrice
	}
	if p.ExitPrice != nil {
		t.ExitPrice = p.ExitPrice
	}
	if p.StopLoss != nil {
		t.StopLoss = p.StopLoss
	}
	if p.TakeProfit != nil {
		t.TakeProfit = p.TakeProfit
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Profit != nil {
		t.Profit = *p.Profit
	}
	if p.MT5Ticket != nil {
		t.MT5Ticket = p.MT5Ticket
	}
	return t
}

// TradeStats is the server-computed aggregate snapshot. It is cached as-is
// and never recomputed from the trade list it sits next to; the two can lag
// each other between refreshes.
type TradeStats struct {
	TotalTrades  int     `json:"totalTrades"`
	OpenTrades   int     `json:"openTrades"`
	ClosedTrades int     `json:"closedTrades"`
	TotalProfit  float64 `json:"totalProfit"`
	AvgProfit    float64 `json:"avgProfit"`
}
